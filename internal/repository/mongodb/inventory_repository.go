package mongodb

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/vortexcart/api/internal/domain/apperr"
	"github.com/vortexcart/api/internal/domain/models"
)

// InventoryListOptions narrows and orders an inventory listing.
type InventoryListOptions struct {
	LowStockOnly bool
	SortBy       string // "sku", "quantity", "lowStock" or "" for newest first
	Page         int64
	Limit        int64
}

// InventoryRepository is the persistence surface of the stock ledger.
type InventoryRepository interface {
	Create(ctx context.Context, inv *models.Inventory) error
	Save(ctx context.Context, inv *models.Inventory) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Inventory, error)
	FindByProduct(ctx context.Context, productID primitive.ObjectID) (*models.Inventory, error)
	List(ctx context.Context, opts InventoryListOptions) ([]models.Inventory, int64, error)
	LowStock(ctx context.Context) ([]models.Inventory, error)
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// MongoInventoryRepository implements InventoryRepository on MongoDB.
type MongoInventoryRepository struct {
	base *Client
	coll *mongo.Collection
}

// NewInventoryRepository builds the mongo-backed inventory repository.
func NewInventoryRepository(base *Client) *MongoInventoryRepository {
	return &MongoInventoryRepository{base: base, coll: base.db.Collection(collInventory)}
}

func (r *MongoInventoryRepository) Create(ctx context.Context, inv *models.Inventory) error {
	res, err := r.coll.InsertOne(ctx, inv)
	if err != nil {
		return fmt.Errorf("insert inventory: %w", err)
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		inv.ID = oid
	}
	return nil
}

func (r *MongoInventoryRepository) Save(ctx context.Context, inv *models.Inventory) error {
	res, err := r.coll.ReplaceOne(ctx, bson.M{"_id": inv.ID}, inv)
	if err != nil {
		return fmt.Errorf("save inventory %s: %w", inv.ID.Hex(), err)
	}
	if res.MatchedCount == 0 {
		return apperr.NotFound("inventory record not found")
	}
	return nil
}

func (r *MongoInventoryRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Inventory, error) {
	var inv models.Inventory
	if err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&inv); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperr.NotFound("inventory record not found")
		}
		return nil, fmt.Errorf("find inventory %s: %w", id.Hex(), err)
	}
	return &inv, nil
}

func (r *MongoInventoryRepository) FindByProduct(ctx context.Context, productID primitive.ObjectID) (*models.Inventory, error) {
	var inv models.Inventory
	if err := r.coll.FindOne(ctx, bson.M{"product": productID}).Decode(&inv); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperr.NotFound("inventory for product %s not found", productID.Hex())
		}
		return nil, fmt.Errorf("find inventory by product %s: %w", productID.Hex(), err)
	}
	return &inv, nil
}

// lowStockFilter matches records whose available quantity is at or below the
// reorder point.
func lowStockFilter() bson.M {
	return bson.M{"$expr": bson.M{"$lte": bson.A{"$availableQuantity", "$reorderPoint"}}}
}

func (r *MongoInventoryRepository) List(ctx context.Context, opts InventoryListOptions) ([]models.Inventory, int64, error) {
	filter := bson.M{}
	if opts.LowStockOnly {
		filter = lowStockFilter()
	}

	sort := bson.D{{Key: "createdAt", Value: -1}}
	switch opts.SortBy {
	case "sku":
		sort = bson.D{{Key: "sku", Value: 1}}
	case "quantity":
		sort = bson.D{{Key: "quantity", Value: -1}}
	case "lowStock":
		sort = bson.D{{Key: "availableQuantity", Value: 1}}
	}

	limit := opts.Limit
	if limit <= 0 {
		limit = 50
	}
	page := opts.Page
	if page <= 0 {
		page = 1
	}

	total, err := r.coll.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("count inventory: %w", err)
	}

	cursor, err := r.coll.Find(ctx, filter, options.Find().
		SetSort(sort).
		SetLimit(limit).
		SetSkip((page-1)*limit))
	if err != nil {
		return nil, 0, fmt.Errorf("list inventory: %w", err)
	}

	var records []models.Inventory
	if err := cursor.All(ctx, &records); err != nil {
		return nil, 0, fmt.Errorf("decode inventory list: %w", err)
	}
	return records, total, nil
}

func (r *MongoInventoryRepository) LowStock(ctx context.Context) ([]models.Inventory, error) {
	cursor, err := r.coll.Find(ctx, lowStockFilter())
	if err != nil {
		return nil, fmt.Errorf("list low stock: %w", err)
	}

	var records []models.Inventory
	if err := cursor.All(ctx, &records); err != nil {
		return nil, fmt.Errorf("decode low stock list: %w", err)
	}
	return records, nil
}

func (r *MongoInventoryRepository) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return r.base.WithTransaction(ctx, fn)
}
