package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DiscountType distinguishes percentage coupons from fixed-amount ones.
type DiscountType string

const (
	DiscountPercentage DiscountType = "percentage"
	DiscountFixed      DiscountType = "fixed"
)

// Coupon is a redeemable discount code. Codes are stored upper-cased and
// matched case-insensitively. A zero UsageLimit means unlimited.
type Coupon struct {
	ID                   primitive.ObjectID   `bson:"_id,omitempty" json:"_id"`
	Code                 string               `bson:"code" json:"code"`
	Description          string               `bson:"description,omitempty" json:"description,omitempty"`
	DiscountType         DiscountType         `bson:"discountType" json:"discountType"`
	DiscountAmount       float64              `bson:"discountAmount" json:"discountAmount"`
	MinimumPurchase      float64              `bson:"minimumPurchase" json:"minimumPurchase"`
	ExpiryDate           time.Time            `bson:"expiryDate" json:"expiryDate"`
	UsageLimit           int                  `bson:"usageLimit" json:"usageLimit"`
	UsedCount            int                  `bson:"usedCount" json:"usedCount"`
	ApplicableProducts   []primitive.ObjectID `bson:"applicableProducts" json:"applicableProducts"`
	ApplicableCategories []primitive.ObjectID `bson:"applicableCategories" json:"applicableCategories"`
	IsActive             bool                 `bson:"isActive" json:"isActive"`
	CreatedBy            primitive.ObjectID   `bson:"createdBy" json:"createdBy"`
	CreatedAt            time.Time            `bson:"createdAt" json:"createdAt"`
	UpdatedAt            time.Time            `bson:"updatedAt" json:"updatedAt"`
}

// IsRestricted reports whether the coupon carries product or category allow-lists.
func (c *Coupon) IsRestricted() bool {
	return len(c.ApplicableProducts) > 0 || len(c.ApplicableCategories) > 0
}

// CartItem is the client-supplied view of one cart line used during coupon
// validation and checkout.
type CartItem struct {
	Product primitive.ObjectID `json:"product" binding:"required"`
	Name    string             `json:"name"`
	Qty     int                `json:"qty" binding:"required,gt=0"`
	Price   float64            `json:"price" binding:"required,gte=0"`
}
