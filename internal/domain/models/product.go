package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Review is a customer rating embedded in its product document.
type Review struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	User      primitive.ObjectID `bson:"user" json:"user"`
	Name      string             `bson:"name" json:"name"`
	Rating    float64            `bson:"rating" json:"rating"`
	Comment   string             `bson:"comment" json:"comment"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
}

// Product is a catalog entry. CountInStock mirrors the on-hand quantity of the
// matching Inventory record and is propagated by the inventory service.
type Product struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	User         primitive.ObjectID `bson:"user" json:"user"`
	Name         string             `bson:"name" json:"name"`
	Image        string             `bson:"image" json:"image"`
	Brand        string             `bson:"brand" json:"brand"`
	Category     primitive.ObjectID `bson:"category" json:"category"`
	Description  string             `bson:"description" json:"description"`
	Reviews      []Review           `bson:"reviews" json:"reviews"`
	Rating       float64            `bson:"rating" json:"rating"`
	NumReviews   int                `bson:"numReviews" json:"numReviews"`
	Price        float64            `bson:"price" json:"price"`
	CountInStock int                `bson:"countInStock" json:"countInStock"`
	Sale         bool               `bson:"sale" json:"sale"`
	Discount     float64            `bson:"discount" json:"discount"`
	CreatedAt    time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// RecomputeRating refreshes the cached rating average and review count.
func (p *Product) RecomputeRating() {
	p.NumReviews = len(p.Reviews)
	if p.NumReviews == 0 {
		p.Rating = 0
		return
	}

	var sum float64
	for _, r := range p.Reviews {
		sum += r.Rating
	}
	p.Rating = sum / float64(p.NumReviews)
}

// HasReviewBy reports whether the user already reviewed this product.
func (p *Product) HasReviewBy(userID primitive.ObjectID) bool {
	for _, r := range p.Reviews {
		if r.User == userID {
			return true
		}
	}
	return false
}
