package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// OrderItem is one purchased line frozen at checkout prices.
type OrderItem struct {
	Name    string             `bson:"name" json:"name"`
	Qty     int                `bson:"qty" json:"qty"`
	Image   string             `bson:"image,omitempty" json:"image,omitempty"`
	Price   float64            `bson:"price" json:"price"`
	Product primitive.ObjectID `bson:"product" json:"product"`
}

// ShippingAddress is the delivery destination captured with the order.
type ShippingAddress struct {
	Address    string `bson:"address" json:"address"`
	City       string `bson:"city" json:"city"`
	PostalCode string `bson:"postalCode" json:"postalCode"`
	Country    string `bson:"country" json:"country"`
}

// PaymentResult stores the gateway's answer once an order is paid.
type PaymentResult struct {
	ID           string `bson:"id,omitempty" json:"id,omitempty"`
	Status       string `bson:"status,omitempty" json:"status,omitempty"`
	UpdateTime   string `bson:"updateTime,omitempty" json:"updateTime,omitempty"`
	EmailAddress string `bson:"emailAddress,omitempty" json:"emailAddress,omitempty"`
}

// Order is a customer purchase.
type Order struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	User            primitive.ObjectID `bson:"user" json:"user"`
	OrderItems      []OrderItem        `bson:"orderItems" json:"orderItems"`
	ShippingAddress ShippingAddress    `bson:"shippingAddress" json:"shippingAddress"`
	PaymentMethod   string             `bson:"paymentMethod" json:"paymentMethod"`
	PaymentResult   PaymentResult      `bson:"paymentResult,omitempty" json:"paymentResult,omitempty"`
	ItemsPrice      float64            `bson:"itemsPrice" json:"itemsPrice"`
	TaxPrice        float64            `bson:"taxPrice" json:"taxPrice"`
	ShippingPrice   float64            `bson:"shippingPrice" json:"shippingPrice"`
	DiscountAmount  float64            `bson:"discountAmount" json:"discountAmount"`
	CouponCode      string             `bson:"couponCode,omitempty" json:"couponCode,omitempty"`
	TotalPrice      float64            `bson:"totalPrice" json:"totalPrice"`
	IsPaid          bool               `bson:"isPaid" json:"isPaid"`
	PaidAt          *time.Time         `bson:"paidAt,omitempty" json:"paidAt,omitempty"`
	IsDelivered     bool               `bson:"isDelivered" json:"isDelivered"`
	DeliveredAt     *time.Time         `bson:"deliveredAt,omitempty" json:"deliveredAt,omitempty"`
	CreatedAt       time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt       time.Time          `bson:"updatedAt" json:"updatedAt"`
}
