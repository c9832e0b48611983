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

	"github.com/vortexcart/api/internal/domain/models"
)

// WishlistRepository is the persistence surface for wishlists.
type WishlistRepository interface {
	// FindByUser returns the user's wishlist, or an empty one when none exists yet.
	FindByUser(ctx context.Context, userID primitive.ObjectID) (*models.Wishlist, error)
	Save(ctx context.Context, wishlist *models.Wishlist) error
}

// MongoWishlistRepository implements WishlistRepository on MongoDB.
type MongoWishlistRepository struct {
	coll *mongo.Collection
}

// NewWishlistRepository builds the mongo-backed wishlist repository.
func NewWishlistRepository(base *Client) *MongoWishlistRepository {
	return &MongoWishlistRepository{coll: base.db.Collection(collWishlists)}
}

func (r *MongoWishlistRepository) FindByUser(ctx context.Context, userID primitive.ObjectID) (*models.Wishlist, error) {
	var wishlist models.Wishlist
	err := r.coll.FindOne(ctx, bson.M{"user": userID}).Decode(&wishlist)
	if errors.Is(err, mongo.ErrNoDocuments) {
		now := time.Now().UTC()
		return &models.Wishlist{User: userID, Products: []primitive.ObjectID{}, CreatedAt: now, UpdatedAt: now}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find wishlist for user %s: %w", userID.Hex(), err)
	}
	return &wishlist, nil
}

// Save upserts on the user key so first writes create the document.
func (r *MongoWishlistRepository) Save(ctx context.Context, wishlist *models.Wishlist) error {
	wishlist.UpdatedAt = time.Now().UTC()

	update := bson.M{
		"$set": bson.M{
			"products":  wishlist.Products,
			"updatedAt": wishlist.UpdatedAt,
		},
		"$setOnInsert": bson.M{
			"user":      wishlist.User,
			"createdAt": wishlist.CreatedAt,
		},
	}

	if _, err := r.coll.UpdateOne(ctx, bson.M{"user": wishlist.User}, update, options.Update().SetUpsert(true)); err != nil {
		return fmt.Errorf("save wishlist for user %s: %w", wishlist.User.Hex(), err)
	}
	return nil
}
