package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/vortexcart/api/internal/domain/apperr"
	"github.com/vortexcart/api/internal/domain/models"
)

// NewsletterRepository is the persistence surface for newsletter subscribers.
type NewsletterRepository interface {
	Create(ctx context.Context, sub *models.Subscriber) error
	Save(ctx context.Context, sub *models.Subscriber) error
	FindByEmail(ctx context.Context, email string) (*models.Subscriber, error)
	ListSubscribed(ctx context.Context) ([]models.Subscriber, error)
}

// MongoNewsletterRepository implements NewsletterRepository on MongoDB.
type MongoNewsletterRepository struct {
	coll *mongo.Collection
}

// NewNewsletterRepository builds the mongo-backed subscriber repository.
func NewNewsletterRepository(base *Client) *MongoNewsletterRepository {
	return &MongoNewsletterRepository{coll: base.db.Collection(collSubscribers)}
}

func (r *MongoNewsletterRepository) Create(ctx context.Context, sub *models.Subscriber) error {
	res, err := r.coll.InsertOne(ctx, sub)
	if err != nil {
		return fmt.Errorf("insert subscriber: %w", err)
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		sub.ID = oid
	}
	return nil
}

func (r *MongoNewsletterRepository) Save(ctx context.Context, sub *models.Subscriber) error {
	sub.UpdatedAt = time.Now().UTC()
	res, err := r.coll.ReplaceOne(ctx, bson.M{"email": sub.Email}, sub)
	if err != nil {
		return fmt.Errorf("save subscriber %s: %w", sub.Email, err)
	}
	if res.MatchedCount == 0 {
		return apperr.NotFound("subscriber not found")
	}
	return nil
}

func (r *MongoNewsletterRepository) FindByEmail(ctx context.Context, email string) (*models.Subscriber, error) {
	var sub models.Subscriber
	if err := r.coll.FindOne(ctx, bson.M{"email": email}).Decode(&sub); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperr.NotFound("subscriber not found")
		}
		return nil, fmt.Errorf("find subscriber by email: %w", err)
	}
	return &sub, nil
}

func (r *MongoNewsletterRepository) ListSubscribed(ctx context.Context) ([]models.Subscriber, error) {
	cursor, err := r.coll.Find(ctx, bson.M{"isSubscribed": true}, options.Find().SetSort(bson.D{{Key: "subscriptionDate", Value: -1}}))
	if err != nil {
		return nil, fmt.Errorf("list subscribers: %w", err)
	}

	var subs []models.Subscriber
	if err := cursor.All(ctx, &subs); err != nil {
		return nil, fmt.Errorf("decode subscriber list: %w", err)
	}
	return subs, nil
}
