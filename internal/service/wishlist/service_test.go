package wishlist

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/vortexcart/api/internal/domain/apperr"
	"github.com/vortexcart/api/internal/domain/models"
	"github.com/vortexcart/api/internal/repository/mongodb"
)

type fakeWishlistRepo struct {
	lists map[primitive.ObjectID]*models.Wishlist
}

func newFakeWishlistRepo() *fakeWishlistRepo {
	return &fakeWishlistRepo{lists: map[primitive.ObjectID]*models.Wishlist{}}
}

func (f *fakeWishlistRepo) FindByUser(_ context.Context, userID primitive.ObjectID) (*models.Wishlist, error) {
	if list, ok := f.lists[userID]; ok {
		out := *list
		out.Products = append([]primitive.ObjectID(nil), list.Products...)
		return &out, nil
	}
	now := time.Now().UTC()
	return &models.Wishlist{User: userID, Products: []primitive.ObjectID{}, CreatedAt: now, UpdatedAt: now}, nil
}

func (f *fakeWishlistRepo) Save(_ context.Context, wishlist *models.Wishlist) error {
	out := *wishlist
	out.Products = append([]primitive.ObjectID(nil), wishlist.Products...)
	f.lists[wishlist.User] = &out
	return nil
}

type fakeProductRepo struct {
	products map[primitive.ObjectID]models.Product
}

func (f *fakeProductRepo) Create(_ context.Context, _ *models.Product) error    { return nil }
func (f *fakeProductRepo) Save(_ context.Context, _ *models.Product) error      { return nil }
func (f *fakeProductRepo) Delete(_ context.Context, _ primitive.ObjectID) error { return nil }

func (f *fakeProductRepo) FindByID(_ context.Context, id primitive.ObjectID) (*models.Product, error) {
	p, ok := f.products[id]
	if !ok {
		return nil, apperr.NotFound("product not found")
	}
	return &p, nil
}

func (f *fakeProductRepo) FindByIDs(_ context.Context, ids []primitive.ObjectID) ([]models.Product, error) {
	var out []models.Product
	for _, id := range ids {
		if p, ok := f.products[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakeProductRepo) List(_ context.Context, _ mongodb.ProductListOptions) ([]models.Product, int64, error) {
	return nil, 0, nil
}

func (f *fakeProductRepo) TopRated(_ context.Context, _ int64) ([]models.Product, error) {
	return nil, nil
}

func (f *fakeProductRepo) SetCountInStock(_ context.Context, _ primitive.ObjectID, _ int) error {
	return nil
}

func (f *fakeProductRepo) Count(_ context.Context) (int64, error)           { return 0, nil }
func (f *fakeProductRepo) CountOutOfStock(_ context.Context) (int64, error) { return 0, nil }

func TestAddAndGet(t *testing.T) {
	product := models.Product{ID: primitive.NewObjectID(), Name: "Widget"}
	svc := NewService(newFakeWishlistRepo(), &fakeProductRepo{products: map[primitive.ObjectID]models.Product{product.ID: product}}, nil)
	userID := primitive.NewObjectID()

	list, err := svc.Add(context.Background(), userID, product.ID)
	require.NoError(t, err)
	assert.Len(t, list.Products, 1)

	_, products, err := svc.Get(context.Background(), userID)
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, "Widget", products[0].Name)
}

func TestAddDuplicateIsNoOp(t *testing.T) {
	product := models.Product{ID: primitive.NewObjectID()}
	svc := NewService(newFakeWishlistRepo(), &fakeProductRepo{products: map[primitive.ObjectID]models.Product{product.ID: product}}, nil)
	userID := primitive.NewObjectID()

	_, err := svc.Add(context.Background(), userID, product.ID)
	require.NoError(t, err)
	list, err := svc.Add(context.Background(), userID, product.ID)
	require.NoError(t, err)

	assert.Len(t, list.Products, 1)
}

func TestAddUnknownProduct(t *testing.T) {
	svc := NewService(newFakeWishlistRepo(), &fakeProductRepo{products: map[primitive.ObjectID]models.Product{}}, nil)

	_, err := svc.Add(context.Background(), primitive.NewObjectID(), primitive.NewObjectID())

	appErr, ok := apperr.As(err)
	require.True(t, ok)
	assert.Equal(t, apperr.CodeNotFound, appErr.Code)
}

func TestRemoveAndClear(t *testing.T) {
	productA := models.Product{ID: primitive.NewObjectID()}
	productB := models.Product{ID: primitive.NewObjectID()}
	svc := NewService(newFakeWishlistRepo(), &fakeProductRepo{products: map[primitive.ObjectID]models.Product{
		productA.ID: productA,
		productB.ID: productB,
	}}, nil)
	userID := primitive.NewObjectID()

	_, err := svc.Add(context.Background(), userID, productA.ID)
	require.NoError(t, err)
	_, err = svc.Add(context.Background(), userID, productB.ID)
	require.NoError(t, err)

	list, err := svc.Remove(context.Background(), userID, productA.ID)
	require.NoError(t, err)
	require.Len(t, list.Products, 1)
	assert.Equal(t, productB.ID, list.Products[0])

	require.NoError(t, svc.Clear(context.Background(), userID))
	cleared, _, err := svc.Get(context.Background(), userID)
	require.NoError(t, err)
	assert.Empty(t, cleared.Products)
}
