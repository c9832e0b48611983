package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PaymentStatus tracks the lifecycle of a gateway charge.
type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "pending"
	PaymentCompleted PaymentStatus = "completed"
	PaymentFailed    PaymentStatus = "failed"
	PaymentRefunded  PaymentStatus = "refunded"
)

// Payment records one charge or refund against an order.
type Payment struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	User           primitive.ObjectID `bson:"user" json:"user"`
	Order          primitive.ObjectID `bson:"order" json:"order"`
	TransactionID  string             `bson:"transactionId" json:"transactionId"`
	Amount         float64            `bson:"amount" json:"amount"`
	PaymentMethod  string             `bson:"paymentMethod" json:"paymentMethod"`
	Status         PaymentStatus      `bson:"status" json:"status"`
	PaymentDetails map[string]any     `bson:"paymentDetails,omitempty" json:"paymentDetails,omitempty"`
	CreatedAt      time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt      time.Time          `bson:"updatedAt" json:"updatedAt"`
}
