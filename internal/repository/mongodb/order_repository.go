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

// TopSeller is one row of the best-sellers aggregation.
type TopSeller struct {
	Name      string  `bson:"name" json:"name"`
	Image     string  `bson:"image" json:"image"`
	TotalSold int     `bson:"totalSold" json:"totalSold"`
	Revenue   float64 `bson:"revenue" json:"revenue"`
}

// DailySales is one day's bucket of the sales-by-period aggregation.
type DailySales struct {
	Date   string  `bson:"_id" json:"date"`
	Orders int     `bson:"orders" json:"orders"`
	Sales  float64 `bson:"sales" json:"sales"`
}

// OrderRepository is the persistence surface for orders, including the
// aggregation pipelines backing the analytics endpoints.
type OrderRepository interface {
	Create(ctx context.Context, order *models.Order) error
	Save(ctx context.Context, order *models.Order) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Order, error)
	FindByUser(ctx context.Context, userID primitive.ObjectID) ([]models.Order, error)
	List(ctx context.Context) ([]models.Order, error)
	TotalSales(ctx context.Context) (float64, error)
	CountPaid(ctx context.Context) (int64, error)
	CountPaidSince(ctx context.Context, since time.Time) (int64, error)
	PaidTotalSince(ctx context.Context, since time.Time) (float64, error)
	TopSellers(ctx context.Context, limit int) ([]TopSeller, error)
	SalesByDay(ctx context.Context, from, to time.Time) ([]DailySales, error)
}

// MongoOrderRepository implements OrderRepository on MongoDB.
type MongoOrderRepository struct {
	coll *mongo.Collection
}

// NewOrderRepository builds the mongo-backed order repository.
func NewOrderRepository(base *Client) *MongoOrderRepository {
	return &MongoOrderRepository{coll: base.db.Collection(collOrders)}
}

func (r *MongoOrderRepository) Create(ctx context.Context, order *models.Order) error {
	res, err := r.coll.InsertOne(ctx, order)
	if err != nil {
		return fmt.Errorf("insert order: %w", err)
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		order.ID = oid
	}
	return nil
}

func (r *MongoOrderRepository) Save(ctx context.Context, order *models.Order) error {
	order.UpdatedAt = time.Now().UTC()
	res, err := r.coll.ReplaceOne(ctx, bson.M{"_id": order.ID}, order)
	if err != nil {
		return fmt.Errorf("save order %s: %w", order.ID.Hex(), err)
	}
	if res.MatchedCount == 0 {
		return apperr.NotFound("order not found")
	}
	return nil
}

func (r *MongoOrderRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Order, error) {
	var order models.Order
	if err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&order); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperr.NotFound("order not found")
		}
		return nil, fmt.Errorf("find order %s: %w", id.Hex(), err)
	}
	return &order, nil
}

func (r *MongoOrderRepository) FindByUser(ctx context.Context, userID primitive.ObjectID) ([]models.Order, error) {
	cursor, err := r.coll.Find(ctx, bson.M{"user": userID}, options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
	if err != nil {
		return nil, fmt.Errorf("list orders for user %s: %w", userID.Hex(), err)
	}

	var orders []models.Order
	if err := cursor.All(ctx, &orders); err != nil {
		return nil, fmt.Errorf("decode user orders: %w", err)
	}
	return orders, nil
}

func (r *MongoOrderRepository) List(ctx context.Context) ([]models.Order, error) {
	cursor, err := r.coll.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}

	var orders []models.Order
	if err := cursor.All(ctx, &orders); err != nil {
		return nil, fmt.Errorf("decode order list: %w", err)
	}
	return orders, nil
}

func (r *MongoOrderRepository) TotalSales(ctx context.Context) (float64, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"isPaid": true}}},
		{{Key: "$group", Value: bson.M{"_id": nil, "total": bson.M{"$sum": "$totalPrice"}}}},
	}
	return r.sumPipeline(ctx, pipeline)
}

func (r *MongoOrderRepository) PaidTotalSince(ctx context.Context, since time.Time) (float64, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"isPaid": true, "paidAt": bson.M{"$gte": since}}}},
		{{Key: "$group", Value: bson.M{"_id": nil, "total": bson.M{"$sum": "$totalPrice"}}}},
	}
	return r.sumPipeline(ctx, pipeline)
}

func (r *MongoOrderRepository) sumPipeline(ctx context.Context, pipeline mongo.Pipeline) (float64, error) {
	cursor, err := r.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return 0, fmt.Errorf("aggregate sales total: %w", err)
	}

	var results []struct {
		Total float64 `bson:"total"`
	}
	if err := cursor.All(ctx, &results); err != nil {
		return 0, fmt.Errorf("decode sales total: %w", err)
	}
	if len(results) == 0 {
		return 0, nil
	}
	return results[0].Total, nil
}

func (r *MongoOrderRepository) CountPaid(ctx context.Context) (int64, error) {
	count, err := r.coll.CountDocuments(ctx, bson.M{"isPaid": true})
	if err != nil {
		return 0, fmt.Errorf("count paid orders: %w", err)
	}
	return count, nil
}

func (r *MongoOrderRepository) CountPaidSince(ctx context.Context, since time.Time) (int64, error) {
	count, err := r.coll.CountDocuments(ctx, bson.M{"isPaid": true, "paidAt": bson.M{"$gte": since}})
	if err != nil {
		return 0, fmt.Errorf("count paid orders since %s: %w", since.Format(time.RFC3339), err)
	}
	return count, nil
}

// TopSellers unwinds order items of paid orders, groups by product and joins
// back to the catalog for display fields.
func (r *MongoOrderRepository) TopSellers(ctx context.Context, limit int) ([]TopSeller, error) {
	if limit <= 0 {
		limit = 5
	}

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"isPaid": true}}},
		{{Key: "$unwind", Value: "$orderItems"}},
		{{Key: "$group", Value: bson.M{
			"_id":       "$orderItems.product",
			"totalSold": bson.M{"$sum": "$orderItems.qty"},
			"revenue":   bson.M{"$sum": bson.M{"$multiply": bson.A{"$orderItems.price", "$orderItems.qty"}}},
		}}},
		{{Key: "$sort", Value: bson.M{"totalSold": -1}}},
		{{Key: "$limit", Value: limit}},
		{{Key: "$lookup", Value: bson.M{
			"from":         collProducts,
			"localField":   "_id",
			"foreignField": "_id",
			"as":           "product",
		}}},
		{{Key: "$unwind", Value: "$product"}},
		{{Key: "$project", Value: bson.M{
			"_id":       0,
			"name":      "$product.name",
			"image":     "$product.image",
			"totalSold": 1,
			"revenue":   1,
		}}},
	}

	cursor, err := r.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("aggregate top sellers: %w", err)
	}

	var sellers []TopSeller
	if err := cursor.All(ctx, &sellers); err != nil {
		return nil, fmt.Errorf("decode top sellers: %w", err)
	}
	return sellers, nil
}

// SalesByDay buckets paid orders by calendar day of payment.
func (r *MongoOrderRepository) SalesByDay(ctx context.Context, from, to time.Time) ([]DailySales, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{
			"isPaid": true,
			"paidAt": bson.M{"$gte": from, "$lte": to},
		}}},
		{{Key: "$group", Value: bson.M{
			"_id":    bson.M{"$dateToString": bson.M{"format": "%Y-%m-%d", "date": "$paidAt"}},
			"orders": bson.M{"$sum": 1},
			"sales":  bson.M{"$sum": "$totalPrice"},
		}}},
		{{Key: "$sort", Value: bson.M{"_id": 1}}},
	}

	cursor, err := r.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("aggregate sales by day: %w", err)
	}

	var buckets []DailySales
	if err := cursor.All(ctx, &buckets); err != nil {
		return nil, fmt.Errorf("decode sales by day: %w", err)
	}
	return buckets, nil
}
