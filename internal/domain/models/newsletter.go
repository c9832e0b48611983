package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// NewsletterPreferences selects which mailings a subscriber receives.
type NewsletterPreferences struct {
	Promotions     bool `bson:"promotions" json:"promotions"`
	ProductUpdates bool `bson:"productUpdates" json:"productUpdates"`
	Newsletters    bool `bson:"newsletters" json:"newsletters"`
}

// Subscriber is a newsletter signup. Unsubscribing flips IsSubscribed rather
// than deleting the document so resubscription keeps history.
type Subscriber struct {
	ID                 primitive.ObjectID    `bson:"_id,omitempty" json:"_id"`
	Email              string                `bson:"email" json:"email"`
	Name               string                `bson:"name,omitempty" json:"name,omitempty"`
	IsSubscribed       bool                  `bson:"isSubscribed" json:"isSubscribed"`
	SubscriptionDate   time.Time             `bson:"subscriptionDate" json:"subscriptionDate"`
	UnsubscriptionDate *time.Time            `bson:"unsubscriptionDate,omitempty" json:"unsubscriptionDate,omitempty"`
	Preferences        NewsletterPreferences `bson:"preferences" json:"preferences"`
	CreatedAt          time.Time             `bson:"createdAt" json:"createdAt"`
	UpdatedAt          time.Time             `bson:"updatedAt" json:"updatedAt"`
}
