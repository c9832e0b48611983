package mongodb

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/vortexcart/api/internal/domain/apperr"
	"github.com/vortexcart/api/internal/domain/models"
)

// ProductListOptions filters and paginates the catalog listing.
type ProductListOptions struct {
	Keyword  string
	Category primitive.ObjectID
	Page     int64
	Limit    int64
}

// ProductRepository is the persistence surface of the catalog.
type ProductRepository interface {
	Create(ctx context.Context, p *models.Product) error
	Save(ctx context.Context, p *models.Product) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Product, error)
	FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Product, error)
	List(ctx context.Context, opts ProductListOptions) ([]models.Product, int64, error)
	TopRated(ctx context.Context, limit int64) ([]models.Product, error)
	SetCountInStock(ctx context.Context, id primitive.ObjectID, count int) error
	Count(ctx context.Context) (int64, error)
	CountOutOfStock(ctx context.Context) (int64, error)
}

// MongoProductRepository implements ProductRepository on MongoDB.
type MongoProductRepository struct {
	coll *mongo.Collection
}

// NewProductRepository builds the mongo-backed product repository.
func NewProductRepository(base *Client) *MongoProductRepository {
	return &MongoProductRepository{coll: base.db.Collection(collProducts)}
}

func (r *MongoProductRepository) Create(ctx context.Context, p *models.Product) error {
	res, err := r.coll.InsertOne(ctx, p)
	if err != nil {
		return fmt.Errorf("insert product: %w", err)
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		p.ID = oid
	}
	return nil
}

func (r *MongoProductRepository) Save(ctx context.Context, p *models.Product) error {
	p.UpdatedAt = time.Now().UTC()
	res, err := r.coll.ReplaceOne(ctx, bson.M{"_id": p.ID}, p)
	if err != nil {
		return fmt.Errorf("save product %s: %w", p.ID.Hex(), err)
	}
	if res.MatchedCount == 0 {
		return apperr.NotFound("product not found")
	}
	return nil
}

func (r *MongoProductRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete product %s: %w", id.Hex(), err)
	}
	if res.DeletedCount == 0 {
		return apperr.NotFound("product not found")
	}
	return nil
}

func (r *MongoProductRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Product, error) {
	var p models.Product
	if err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&p); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperr.NotFound("product not found")
		}
		return nil, fmt.Errorf("find product %s: %w", id.Hex(), err)
	}
	return &p, nil
}

func (r *MongoProductRepository) FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Product, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	cursor, err := r.coll.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, fmt.Errorf("find products by ids: %w", err)
	}

	var products []models.Product
	if err := cursor.All(ctx, &products); err != nil {
		return nil, fmt.Errorf("decode products: %w", err)
	}
	return products, nil
}

func (r *MongoProductRepository) List(ctx context.Context, opts ProductListOptions) ([]models.Product, int64, error) {
	filter := bson.M{}
	if opts.Keyword != "" {
		filter["name"] = primitive.Regex{Pattern: regexp.QuoteMeta(opts.Keyword), Options: "i"}
	}
	if !opts.Category.IsZero() {
		filter["category"] = opts.Category
	}

	limit := opts.Limit
	if limit <= 0 {
		limit = 12
	}
	page := opts.Page
	if page <= 0 {
		page = 1
	}

	total, err := r.coll.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("count products: %w", err)
	}

	cursor, err := r.coll.Find(ctx, filter, options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetLimit(limit).
		SetSkip((page-1)*limit))
	if err != nil {
		return nil, 0, fmt.Errorf("list products: %w", err)
	}

	var products []models.Product
	if err := cursor.All(ctx, &products); err != nil {
		return nil, 0, fmt.Errorf("decode product list: %w", err)
	}
	return products, total, nil
}

func (r *MongoProductRepository) TopRated(ctx context.Context, limit int64) ([]models.Product, error) {
	if limit <= 0 {
		limit = 3
	}

	cursor, err := r.coll.Find(ctx, bson.M{}, options.Find().
		SetSort(bson.D{{Key: "rating", Value: -1}}).
		SetLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("list top rated products: %w", err)
	}

	var products []models.Product
	if err := cursor.All(ctx, &products); err != nil {
		return nil, fmt.Errorf("decode top rated products: %w", err)
	}
	return products, nil
}

// SetCountInStock propagates an inventory on-hand quantity to the catalog view.
func (r *MongoProductRepository) SetCountInStock(ctx context.Context, id primitive.ObjectID, count int) error {
	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": id}, bson.M{
		"$set": bson.M{"countInStock": count, "updatedAt": time.Now().UTC()},
	})
	if err != nil {
		return fmt.Errorf("update product stock count %s: %w", id.Hex(), err)
	}
	if res.MatchedCount == 0 {
		return apperr.NotFound("product not found")
	}
	return nil
}

func (r *MongoProductRepository) Count(ctx context.Context) (int64, error) {
	count, err := r.coll.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("count products: %w", err)
	}
	return count, nil
}

func (r *MongoProductRepository) CountOutOfStock(ctx context.Context) (int64, error) {
	count, err := r.coll.CountDocuments(ctx, bson.M{"countInStock": 0})
	if err != nil {
		return 0, fmt.Errorf("count out of stock products: %w", err)
	}
	return count, nil
}
