// Package coupon implements coupon administration, validation against carts
// and atomic redemption counting.
package coupon

import (
	"context"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/vortexcart/api/internal/domain/apperr"
	"github.com/vortexcart/api/internal/domain/models"
	"github.com/vortexcart/api/internal/repository/mongodb"
)

// Service exposes coupon operations to handlers and the order flow.
type Service struct {
	coupons  mongodb.CouponRepository
	products mongodb.ProductRepository
	logger   *zap.Logger
	now      func() time.Time
}

// NewService wires a new coupon service instance.
func NewService(couponRepo mongodb.CouponRepository, productRepo mongodb.ProductRepository, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{coupons: couponRepo, products: productRepo, logger: logger, now: time.Now}
}

// Summary is the client-facing subset of a validated coupon.
type Summary struct {
	ID             primitive.ObjectID  `json:"_id"`
	Code           string              `json:"code"`
	DiscountType   models.DiscountType `json:"discountType"`
	DiscountAmount float64             `json:"discountAmount"`
	Description    string              `json:"description,omitempty"`
}

// ValidationResult is the response of a successful validation.
type ValidationResult struct {
	Valid    bool    `json:"valid"`
	Coupon   Summary `json:"coupon"`
	Discount float64 `json:"discount"`
}

// Validate looks up the code case-insensitively and runs the evaluation chain
// against the supplied cart.
func (s *Service) Validate(ctx context.Context, code string, items []models.CartItem, cartTotal float64) (*ValidationResult, error) {
	if code == "" {
		return nil, apperr.Validation("please provide a coupon code")
	}

	c, err := s.coupons.FindActiveByCode(ctx, code)
	if err != nil {
		return nil, err
	}

	var products map[primitive.ObjectID]models.Product
	if c.IsRestricted() {
		ids := make([]primitive.ObjectID, 0, len(items))
		for _, item := range items {
			ids = append(ids, item.Product)
		}

		found, err := s.products.FindByIDs(ctx, ids)
		if err != nil {
			return nil, err
		}

		products = make(map[primitive.ObjectID]models.Product, len(found))
		for _, p := range found {
			products[p.ID] = p
		}
	}

	discount, err := Evaluate(c, items, products, cartTotal, s.now())
	if err != nil {
		return nil, err
	}

	return &ValidationResult{
		Valid: true,
		Coupon: Summary{
			ID:             c.ID,
			Code:           c.Code,
			DiscountType:   c.DiscountType,
			DiscountAmount: c.DiscountAmount,
			Description:    c.Description,
		},
		Discount: discount,
	}, nil
}

// Apply redeems the coupon once. The usage limit is re-checked atomically in
// the same update that increments the counter, so concurrent applies cannot
// push usedCount past the limit.
func (s *Service) Apply(ctx context.Context, id primitive.ObjectID) error {
	if err := s.coupons.IncrementUsage(ctx, id); err != nil {
		return err
	}
	s.logger.Info("coupon applied", zap.String("coupon_id", id.Hex()))
	return nil
}

// CreateInput carries the admin create payload.
type CreateInput struct {
	Code                 string
	Description          string
	DiscountType         models.DiscountType
	DiscountAmount       float64
	MinimumPurchase      float64
	ExpiryDate           time.Time
	UsageLimit           int
	ApplicableProducts   []primitive.ObjectID
	ApplicableCategories []primitive.ObjectID
	IsActive             *bool
}

// Create registers a new coupon with an upper-cased, unique code.
func (s *Service) Create(ctx context.Context, in CreateInput, actor primitive.ObjectID) (*models.Coupon, error) {
	if in.Code == "" {
		return nil, apperr.Validation("coupon code is required")
	}
	if in.DiscountType != models.DiscountPercentage && in.DiscountType != models.DiscountFixed {
		return nil, apperr.Validation("discountType must be percentage or fixed")
	}
	if in.DiscountAmount <= 0 {
		return nil, apperr.Validation("discountAmount must be positive")
	}

	code := strings.ToUpper(in.Code)
	exists, err := s.coupons.CodeExists(ctx, code)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, apperr.Conflict("coupon code already exists")
	}

	active := true
	if in.IsActive != nil {
		active = *in.IsActive
	}

	now := time.Now().UTC()
	c := &models.Coupon{
		Code:                 code,
		Description:          in.Description,
		DiscountType:         in.DiscountType,
		DiscountAmount:       in.DiscountAmount,
		MinimumPurchase:      in.MinimumPurchase,
		ExpiryDate:           in.ExpiryDate,
		UsageLimit:           in.UsageLimit,
		ApplicableProducts:   orEmpty(in.ApplicableProducts),
		ApplicableCategories: orEmpty(in.ApplicableCategories),
		IsActive:             active,
		CreatedBy:            actor,
		CreatedAt:            now,
		UpdatedAt:            now,
	}

	if err := s.coupons.Create(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// UpdateInput carries the admin update payload; nil fields are left unchanged.
type UpdateInput struct {
	Code                 *string
	Description          *string
	DiscountType         *models.DiscountType
	DiscountAmount       *float64
	MinimumPurchase      *float64
	ExpiryDate           *time.Time
	UsageLimit           *int
	ApplicableProducts   []primitive.ObjectID
	ApplicableCategories []primitive.ObjectID
	IsActive             *bool
}

// Update edits an existing coupon, re-checking code uniqueness on rename.
func (s *Service) Update(ctx context.Context, id primitive.ObjectID, in UpdateInput) (*models.Coupon, error) {
	c, err := s.coupons.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.Code != nil {
		code := strings.ToUpper(*in.Code)
		if code != c.Code {
			exists, err := s.coupons.CodeExists(ctx, code)
			if err != nil {
				return nil, err
			}
			if exists {
				return nil, apperr.Conflict("coupon code already exists")
			}
			c.Code = code
		}
	}
	if in.Description != nil {
		c.Description = *in.Description
	}
	if in.DiscountType != nil {
		c.DiscountType = *in.DiscountType
	}
	if in.DiscountAmount != nil {
		c.DiscountAmount = *in.DiscountAmount
	}
	if in.MinimumPurchase != nil {
		c.MinimumPurchase = *in.MinimumPurchase
	}
	if in.ExpiryDate != nil {
		c.ExpiryDate = *in.ExpiryDate
	}
	if in.UsageLimit != nil {
		c.UsageLimit = *in.UsageLimit
	}
	if in.ApplicableProducts != nil {
		c.ApplicableProducts = in.ApplicableProducts
	}
	if in.ApplicableCategories != nil {
		c.ApplicableCategories = in.ApplicableCategories
	}
	if in.IsActive != nil {
		c.IsActive = *in.IsActive
	}

	if err := s.coupons.Save(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// Get returns a coupon by id.
func (s *Service) Get(ctx context.Context, id primitive.ObjectID) (*models.Coupon, error) {
	return s.coupons.FindByID(ctx, id)
}

// List returns all coupons, newest first.
func (s *Service) List(ctx context.Context) ([]models.Coupon, error) {
	return s.coupons.List(ctx)
}

// Delete removes a coupon permanently.
func (s *Service) Delete(ctx context.Context, id primitive.ObjectID) error {
	return s.coupons.Delete(ctx, id)
}

func orEmpty(ids []primitive.ObjectID) []primitive.ObjectID {
	if ids == nil {
		return []primitive.ObjectID{}
	}
	return ids
}
