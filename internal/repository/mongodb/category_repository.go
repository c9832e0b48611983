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

// CategoryRepository is the persistence surface for categories.
type CategoryRepository interface {
	Create(ctx context.Context, cat *models.Category) error
	Save(ctx context.Context, cat *models.Category) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Category, error)
	List(ctx context.Context) ([]models.Category, error)
}

// MongoCategoryRepository implements CategoryRepository on MongoDB.
type MongoCategoryRepository struct {
	coll *mongo.Collection
}

// NewCategoryRepository builds the mongo-backed category repository.
func NewCategoryRepository(base *Client) *MongoCategoryRepository {
	return &MongoCategoryRepository{coll: base.db.Collection(collCategories)}
}

func (r *MongoCategoryRepository) Create(ctx context.Context, cat *models.Category) error {
	res, err := r.coll.InsertOne(ctx, cat)
	if err != nil {
		return fmt.Errorf("insert category: %w", err)
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		cat.ID = oid
	}
	return nil
}

func (r *MongoCategoryRepository) Save(ctx context.Context, cat *models.Category) error {
	cat.UpdatedAt = time.Now().UTC()
	res, err := r.coll.ReplaceOne(ctx, bson.M{"_id": cat.ID}, cat)
	if err != nil {
		return fmt.Errorf("save category %s: %w", cat.ID.Hex(), err)
	}
	if res.MatchedCount == 0 {
		return apperr.NotFound("category not found")
	}
	return nil
}

func (r *MongoCategoryRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete category %s: %w", id.Hex(), err)
	}
	if res.DeletedCount == 0 {
		return apperr.NotFound("category not found")
	}
	return nil
}

func (r *MongoCategoryRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Category, error) {
	var cat models.Category
	if err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&cat); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperr.NotFound("category not found")
		}
		return nil, fmt.Errorf("find category %s: %w", id.Hex(), err)
	}
	return &cat, nil
}

func (r *MongoCategoryRepository) List(ctx context.Context) ([]models.Category, error) {
	cursor, err := r.coll.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}

	var categories []models.Category
	if err := cursor.All(ctx, &categories); err != nil {
		return nil, fmt.Errorf("decode category list: %w", err)
	}
	return categories, nil
}
