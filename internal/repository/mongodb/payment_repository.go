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

// PaymentRepository is the persistence surface for payment records.
type PaymentRepository interface {
	Create(ctx context.Context, payment *models.Payment) error
	Save(ctx context.Context, payment *models.Payment) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Payment, error)
	FindByOrder(ctx context.Context, orderID primitive.ObjectID) ([]models.Payment, error)
	FindByUser(ctx context.Context, userID primitive.ObjectID) ([]models.Payment, error)
}

// MongoPaymentRepository implements PaymentRepository on MongoDB.
type MongoPaymentRepository struct {
	coll *mongo.Collection
}

// NewPaymentRepository builds the mongo-backed payment repository.
func NewPaymentRepository(base *Client) *MongoPaymentRepository {
	return &MongoPaymentRepository{coll: base.db.Collection(collPayments)}
}

func (r *MongoPaymentRepository) Create(ctx context.Context, payment *models.Payment) error {
	res, err := r.coll.InsertOne(ctx, payment)
	if err != nil {
		return fmt.Errorf("insert payment: %w", err)
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		payment.ID = oid
	}
	return nil
}

func (r *MongoPaymentRepository) Save(ctx context.Context, payment *models.Payment) error {
	payment.UpdatedAt = time.Now().UTC()
	res, err := r.coll.ReplaceOne(ctx, bson.M{"_id": payment.ID}, payment)
	if err != nil {
		return fmt.Errorf("save payment %s: %w", payment.ID.Hex(), err)
	}
	if res.MatchedCount == 0 {
		return apperr.NotFound("payment not found")
	}
	return nil
}

func (r *MongoPaymentRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Payment, error) {
	var payment models.Payment
	if err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&payment); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperr.NotFound("payment not found")
		}
		return nil, fmt.Errorf("find payment %s: %w", id.Hex(), err)
	}
	return &payment, nil
}

func (r *MongoPaymentRepository) FindByOrder(ctx context.Context, orderID primitive.ObjectID) ([]models.Payment, error) {
	return r.find(ctx, bson.M{"order": orderID})
}

func (r *MongoPaymentRepository) FindByUser(ctx context.Context, userID primitive.ObjectID) ([]models.Payment, error) {
	return r.find(ctx, bson.M{"user": userID})
}

func (r *MongoPaymentRepository) find(ctx context.Context, filter bson.M) ([]models.Payment, error) {
	cursor, err := r.coll.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
	if err != nil {
		return nil, fmt.Errorf("list payments: %w", err)
	}

	var payments []models.Payment
	if err := cursor.All(ctx, &payments); err != nil {
		return nil, fmt.Errorf("decode payment list: %w", err)
	}
	return payments, nil
}
