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

// CouponRepository is the persistence surface of the coupon evaluator.
type CouponRepository interface {
	Create(ctx context.Context, coupon *models.Coupon) error
	Save(ctx context.Context, coupon *models.Coupon) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Coupon, error)
	FindActiveByCode(ctx context.Context, code string) (*models.Coupon, error)
	CodeExists(ctx context.Context, code string) (bool, error)
	List(ctx context.Context) ([]models.Coupon, error)
	// IncrementUsage bumps usedCount atomically, guarded by the usage limit.
	// Returns CouponLimitReached when the counter is already at the limit.
	IncrementUsage(ctx context.Context, id primitive.ObjectID) error
}

// MongoCouponRepository implements CouponRepository on MongoDB.
type MongoCouponRepository struct {
	coll *mongo.Collection
}

// NewCouponRepository builds the mongo-backed coupon repository.
func NewCouponRepository(base *Client) *MongoCouponRepository {
	return &MongoCouponRepository{coll: base.db.Collection(collCoupons)}
}

func (r *MongoCouponRepository) Create(ctx context.Context, coupon *models.Coupon) error {
	res, err := r.coll.InsertOne(ctx, coupon)
	if err != nil {
		return fmt.Errorf("insert coupon: %w", err)
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		coupon.ID = oid
	}
	return nil
}

func (r *MongoCouponRepository) Save(ctx context.Context, coupon *models.Coupon) error {
	coupon.UpdatedAt = time.Now().UTC()
	res, err := r.coll.ReplaceOne(ctx, bson.M{"_id": coupon.ID}, coupon)
	if err != nil {
		return fmt.Errorf("save coupon %s: %w", coupon.ID.Hex(), err)
	}
	if res.MatchedCount == 0 {
		return apperr.NotFound("coupon not found")
	}
	return nil
}

func (r *MongoCouponRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete coupon %s: %w", id.Hex(), err)
	}
	if res.DeletedCount == 0 {
		return apperr.NotFound("coupon not found")
	}
	return nil
}

func (r *MongoCouponRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Coupon, error) {
	var coupon models.Coupon
	if err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&coupon); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperr.NotFound("coupon not found")
		}
		return nil, fmt.Errorf("find coupon %s: %w", id.Hex(), err)
	}
	return &coupon, nil
}

// FindActiveByCode matches the code case-insensitively against active coupons.
func (r *MongoCouponRepository) FindActiveByCode(ctx context.Context, code string) (*models.Coupon, error) {
	filter := bson.M{
		"code":     primitive.Regex{Pattern: "^" + regexp.QuoteMeta(code) + "$", Options: "i"},
		"isActive": true,
	}

	var coupon models.Coupon
	if err := r.coll.FindOne(ctx, filter).Decode(&coupon); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperr.NotFound("invalid or inactive coupon code")
		}
		return nil, fmt.Errorf("find coupon by code: %w", err)
	}
	return &coupon, nil
}

func (r *MongoCouponRepository) CodeExists(ctx context.Context, code string) (bool, error) {
	count, err := r.coll.CountDocuments(ctx, bson.M{"code": code})
	if err != nil {
		return false, fmt.Errorf("count coupon code: %w", err)
	}
	return count > 0, nil
}

func (r *MongoCouponRepository) List(ctx context.Context) ([]models.Coupon, error) {
	cursor, err := r.coll.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
	if err != nil {
		return nil, fmt.Errorf("list coupons: %w", err)
	}

	var coupons []models.Coupon
	if err := cursor.All(ctx, &coupons); err != nil {
		return nil, fmt.Errorf("decode coupon list: %w", err)
	}
	return coupons, nil
}

// IncrementUsage is a single conditional update so the counter can never pass
// the limit under concurrent applies. usageLimit 0 means unlimited.
func (r *MongoCouponRepository) IncrementUsage(ctx context.Context, id primitive.ObjectID) error {
	filter := bson.M{
		"_id":      id,
		"isActive": true,
		"$or": bson.A{
			bson.M{"usageLimit": 0},
			bson.M{"$expr": bson.M{"$lt": bson.A{"$usedCount", "$usageLimit"}}},
		},
	}

	res, err := r.coll.UpdateOne(ctx, filter, bson.M{
		"$inc": bson.M{"usedCount": 1},
		"$set": bson.M{"updatedAt": time.Now().UTC()},
	})
	if err != nil {
		return fmt.Errorf("increment coupon usage %s: %w", id.Hex(), err)
	}
	if res.MatchedCount == 0 {
		// Distinguish a missing coupon from one at its limit.
		count, countErr := r.coll.CountDocuments(ctx, bson.M{"_id": id})
		if countErr != nil {
			return fmt.Errorf("increment coupon usage %s: %w", id.Hex(), countErr)
		}
		if count == 0 {
			return apperr.NotFound("coupon not found")
		}
		return apperr.CouponLimitReached("coupon usage limit reached")
	}
	return nil
}
