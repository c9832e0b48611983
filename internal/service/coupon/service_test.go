package coupon

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/vortexcart/api/internal/domain/apperr"
	"github.com/vortexcart/api/internal/domain/models"
	"github.com/vortexcart/api/internal/repository/mongodb"
)

type fakeCouponRepo struct {
	coupons map[primitive.ObjectID]*models.Coupon
}

func newFakeCouponRepo(coupons ...*models.Coupon) *fakeCouponRepo {
	f := &fakeCouponRepo{coupons: map[primitive.ObjectID]*models.Coupon{}}
	for _, c := range coupons {
		if c.ID.IsZero() {
			c.ID = primitive.NewObjectID()
		}
		f.coupons[c.ID] = c
	}
	return f
}

func (f *fakeCouponRepo) Create(_ context.Context, c *models.Coupon) error {
	if c.ID.IsZero() {
		c.ID = primitive.NewObjectID()
	}
	f.coupons[c.ID] = c
	return nil
}

func (f *fakeCouponRepo) Save(_ context.Context, c *models.Coupon) error {
	f.coupons[c.ID] = c
	return nil
}

func (f *fakeCouponRepo) Delete(_ context.Context, id primitive.ObjectID) error {
	delete(f.coupons, id)
	return nil
}

func (f *fakeCouponRepo) FindByID(_ context.Context, id primitive.ObjectID) (*models.Coupon, error) {
	c, ok := f.coupons[id]
	if !ok {
		return nil, apperr.NotFound("coupon not found")
	}
	return c, nil
}

func (f *fakeCouponRepo) FindActiveByCode(_ context.Context, code string) (*models.Coupon, error) {
	for _, c := range f.coupons {
		if c.IsActive && strings.EqualFold(c.Code, code) {
			return c, nil
		}
	}
	return nil, apperr.NotFound("invalid coupon code")
}

func (f *fakeCouponRepo) CodeExists(_ context.Context, code string) (bool, error) {
	for _, c := range f.coupons {
		if strings.EqualFold(c.Code, code) {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeCouponRepo) List(_ context.Context) ([]models.Coupon, error) {
	out := make([]models.Coupon, 0, len(f.coupons))
	for _, c := range f.coupons {
		out = append(out, *c)
	}
	return out, nil
}

func (f *fakeCouponRepo) IncrementUsage(_ context.Context, id primitive.ObjectID) error {
	c, ok := f.coupons[id]
	if !ok {
		return apperr.NotFound("coupon not found")
	}
	if c.UsageLimit > 0 && c.UsedCount >= c.UsageLimit {
		return apperr.CouponLimitReached("coupon usage limit reached")
	}
	c.UsedCount++
	return nil
}

type stubProductRepo struct {
	products map[primitive.ObjectID]models.Product
}

func (f *stubProductRepo) Create(_ context.Context, _ *models.Product) error  { return nil }
func (f *stubProductRepo) Save(_ context.Context, _ *models.Product) error    { return nil }
func (f *stubProductRepo) Delete(_ context.Context, _ primitive.ObjectID) error { return nil }

func (f *stubProductRepo) FindByID(_ context.Context, id primitive.ObjectID) (*models.Product, error) {
	p, ok := f.products[id]
	if !ok {
		return nil, apperr.NotFound("product not found")
	}
	return &p, nil
}

func (f *stubProductRepo) FindByIDs(_ context.Context, ids []primitive.ObjectID) ([]models.Product, error) {
	var out []models.Product
	for _, id := range ids {
		if p, ok := f.products[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *stubProductRepo) List(_ context.Context, _ mongodb.ProductListOptions) ([]models.Product, int64, error) {
	return nil, 0, nil
}

func (f *stubProductRepo) TopRated(_ context.Context, _ int64) ([]models.Product, error) {
	return nil, nil
}

func (f *stubProductRepo) SetCountInStock(_ context.Context, _ primitive.ObjectID, _ int) error {
	return nil
}

func (f *stubProductRepo) Count(_ context.Context) (int64, error)           { return 0, nil }
func (f *stubProductRepo) CountOutOfStock(_ context.Context) (int64, error) { return 0, nil }

func newTestService(repo *fakeCouponRepo, products map[primitive.ObjectID]models.Product, now time.Time) *Service {
	svc := NewService(repo, &stubProductRepo{products: products}, nil)
	svc.now = func() time.Time { return now }
	return svc
}

func TestValidateMatchesCodeCaseInsensitively(t *testing.T) {
	c := &models.Coupon{
		Code:           "SAVE20",
		DiscountType:   models.DiscountPercentage,
		DiscountAmount: 20,
		ExpiryDate:     evalNow.Add(time.Hour),
		IsActive:       true,
	}
	svc := newTestService(newFakeCouponRepo(c), nil, evalNow)

	result, err := svc.Validate(context.Background(), "save20", nil, 100)

	require.NoError(t, err)
	assert.True(t, result.Valid)
	assert.Equal(t, "SAVE20", result.Coupon.Code)
	assert.Equal(t, 20.00, result.Discount)
}

func TestValidateUnknownCode(t *testing.T) {
	svc := newTestService(newFakeCouponRepo(), nil, evalNow)

	_, err := svc.Validate(context.Background(), "NOPE", nil, 100)

	appErr, ok := apperr.As(err)
	require.True(t, ok)
	assert.Equal(t, apperr.CodeNotFound, appErr.Code)
}

func TestValidateEmptyCode(t *testing.T) {
	svc := newTestService(newFakeCouponRepo(), nil, evalNow)

	_, err := svc.Validate(context.Background(), "", nil, 100)

	appErr, ok := apperr.As(err)
	require.True(t, ok)
	assert.Equal(t, apperr.CodeValidation, appErr.Code)
}

func TestValidateExpiredCoupon(t *testing.T) {
	c := &models.Coupon{
		Code:           "OLD10",
		DiscountType:   models.DiscountPercentage,
		DiscountAmount: 10,
		ExpiryDate:     evalNow.Add(-time.Hour),
		IsActive:       true,
	}
	svc := newTestService(newFakeCouponRepo(c), nil, evalNow)

	_, err := svc.Validate(context.Background(), "OLD10", nil, 100)

	appErr, ok := apperr.As(err)
	require.True(t, ok)
	assert.Equal(t, apperr.CodeCouponExpired, appErr.Code)
}

func TestValidateRestrictedCouponLoadsProducts(t *testing.T) {
	category := primitive.NewObjectID()
	product := models.Product{ID: primitive.NewObjectID(), Category: category}

	c := &models.Coupon{
		Code:                 "CAT15",
		DiscountType:         models.DiscountPercentage,
		DiscountAmount:       15,
		ExpiryDate:           evalNow.Add(time.Hour),
		ApplicableCategories: []primitive.ObjectID{category},
		IsActive:             true,
	}
	svc := newTestService(newFakeCouponRepo(c), map[primitive.ObjectID]models.Product{product.ID: product}, evalNow)

	items := []models.CartItem{{Product: product.ID, Qty: 2, Price: 50}}
	result, err := svc.Validate(context.Background(), "CAT15", items, 100)

	require.NoError(t, err)
	assert.Equal(t, 15.00, result.Discount)
}

func TestApplyIncrementsUsage(t *testing.T) {
	c := &models.Coupon{
		Code:           "SAVE20",
		DiscountType:   models.DiscountPercentage,
		DiscountAmount: 20,
		ExpiryDate:     evalNow.Add(time.Hour),
		UsageLimit:     2,
		IsActive:       true,
	}
	repo := newFakeCouponRepo(c)
	svc := newTestService(repo, nil, evalNow)

	require.NoError(t, svc.Apply(context.Background(), c.ID))
	assert.Equal(t, 1, c.UsedCount)
}

func TestApplyAtLimitFails(t *testing.T) {
	c := &models.Coupon{
		Code:           "ONCE",
		DiscountType:   models.DiscountFixed,
		DiscountAmount: 5,
		ExpiryDate:     evalNow.Add(time.Hour),
		UsageLimit:     1,
		UsedCount:      1,
		IsActive:       true,
	}
	repo := newFakeCouponRepo(c)
	svc := newTestService(repo, nil, evalNow)

	err := svc.Apply(context.Background(), c.ID)

	appErr, ok := apperr.As(err)
	require.True(t, ok)
	assert.Equal(t, apperr.CodeCouponLimitReached, appErr.Code)
	assert.Equal(t, 1, c.UsedCount)
}

func TestCreateUpperCasesAndRejectsDuplicates(t *testing.T) {
	repo := newFakeCouponRepo()
	svc := newTestService(repo, nil, evalNow)
	actor := primitive.NewObjectID()

	created, err := svc.Create(context.Background(), CreateInput{
		Code:           "welcome10",
		DiscountType:   models.DiscountPercentage,
		DiscountAmount: 10,
		ExpiryDate:     evalNow.Add(24 * time.Hour),
	}, actor)
	require.NoError(t, err)
	assert.Equal(t, "WELCOME10", created.Code)
	assert.True(t, created.IsActive)

	_, err = svc.Create(context.Background(), CreateInput{
		Code:           "WELCOME10",
		DiscountType:   models.DiscountPercentage,
		DiscountAmount: 10,
		ExpiryDate:     evalNow.Add(24 * time.Hour),
	}, actor)

	appErr, ok := apperr.As(err)
	require.True(t, ok)
	assert.Equal(t, apperr.CodeConflict, appErr.Code)
}

func TestCreateRejectsBadDiscountType(t *testing.T) {
	svc := newTestService(newFakeCouponRepo(), nil, evalNow)

	_, err := svc.Create(context.Background(), CreateInput{
		Code:           "BAD",
		DiscountType:   "bogus",
		DiscountAmount: 10,
	}, primitive.NewObjectID())

	appErr, ok := apperr.As(err)
	require.True(t, ok)
	assert.Equal(t, apperr.CodeValidation, appErr.Code)
}
