package inventory

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

// fakeInventoryRepo keeps records in memory and simulates transaction
// semantics: finds return deep copies, saves replace the stored copy, and a
// failed WithTransaction callback restores the pre-transaction state.
type fakeInventoryRepo struct {
	records map[primitive.ObjectID]*models.Inventory
}

func newFakeInventoryRepo() *fakeInventoryRepo {
	return &fakeInventoryRepo{records: map[primitive.ObjectID]*models.Inventory{}}
}

func cloneInventory(inv *models.Inventory) *models.Inventory {
	out := *inv
	out.Transactions = append([]models.StockTransaction(nil), inv.Transactions...)
	return &out
}

func (f *fakeInventoryRepo) Create(_ context.Context, inv *models.Inventory) error {
	if inv.ID.IsZero() {
		inv.ID = primitive.NewObjectID()
	}
	f.records[inv.ID] = cloneInventory(inv)
	return nil
}

func (f *fakeInventoryRepo) Save(_ context.Context, inv *models.Inventory) error {
	if _, ok := f.records[inv.ID]; !ok {
		return apperr.NotFound("inventory not found")
	}
	f.records[inv.ID] = cloneInventory(inv)
	return nil
}

func (f *fakeInventoryRepo) FindByID(_ context.Context, id primitive.ObjectID) (*models.Inventory, error) {
	inv, ok := f.records[id]
	if !ok {
		return nil, apperr.NotFound("inventory not found")
	}
	return cloneInventory(inv), nil
}

func (f *fakeInventoryRepo) FindByProduct(_ context.Context, productID primitive.ObjectID) (*models.Inventory, error) {
	for _, inv := range f.records {
		if inv.Product == productID {
			return cloneInventory(inv), nil
		}
	}
	return nil, apperr.NotFound("inventory not found for product")
}

func (f *fakeInventoryRepo) List(_ context.Context, _ mongodb.InventoryListOptions) ([]models.Inventory, int64, error) {
	out := make([]models.Inventory, 0, len(f.records))
	for _, inv := range f.records {
		out = append(out, *cloneInventory(inv))
	}
	return out, int64(len(out)), nil
}

func (f *fakeInventoryRepo) LowStock(_ context.Context) ([]models.Inventory, error) {
	var out []models.Inventory
	for _, inv := range f.records {
		if inv.IsLowStock() {
			out = append(out, *cloneInventory(inv))
		}
	}
	return out, nil
}

func (f *fakeInventoryRepo) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	snapshot := make(map[primitive.ObjectID]*models.Inventory, len(f.records))
	for id, inv := range f.records {
		snapshot[id] = cloneInventory(inv)
	}

	if err := fn(ctx); err != nil {
		f.records = snapshot
		return err
	}
	return nil
}

// fakeProductRepo implements just enough of the catalog surface for the
// propagation path.
type fakeProductRepo struct {
	products map[primitive.ObjectID]*models.Product
}

func newFakeProductRepo(products ...*models.Product) *fakeProductRepo {
	f := &fakeProductRepo{products: map[primitive.ObjectID]*models.Product{}}
	for _, p := range products {
		f.products[p.ID] = p
	}
	return f
}

func (f *fakeProductRepo) Create(_ context.Context, p *models.Product) error {
	if p.ID.IsZero() {
		p.ID = primitive.NewObjectID()
	}
	f.products[p.ID] = p
	return nil
}

func (f *fakeProductRepo) Save(_ context.Context, p *models.Product) error {
	f.products[p.ID] = p
	return nil
}

func (f *fakeProductRepo) Delete(_ context.Context, id primitive.ObjectID) error {
	delete(f.products, id)
	return nil
}

func (f *fakeProductRepo) FindByID(_ context.Context, id primitive.ObjectID) (*models.Product, error) {
	p, ok := f.products[id]
	if !ok {
		return nil, apperr.NotFound("product not found")
	}
	return p, nil
}

func (f *fakeProductRepo) FindByIDs(_ context.Context, ids []primitive.ObjectID) ([]models.Product, error) {
	var out []models.Product
	for _, id := range ids {
		if p, ok := f.products[id]; ok {
			out = append(out, *p)
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

func (f *fakeProductRepo) SetCountInStock(_ context.Context, id primitive.ObjectID, count int) error {
	p, ok := f.products[id]
	if !ok {
		return apperr.NotFound("product not found")
	}
	p.CountInStock = count
	return nil
}

func (f *fakeProductRepo) Count(_ context.Context) (int64, error) { return int64(len(f.products)), nil }

func (f *fakeProductRepo) CountOutOfStock(_ context.Context) (int64, error) { return 0, nil }

func seedInventory(t *testing.T, repo *fakeInventoryRepo, productID primitive.ObjectID, qty int) primitive.ObjectID {
	t.Helper()
	inv := &models.Inventory{
		Product:      productID,
		SKU:          "SKU-SEED",
		Quantity:     qty,
		ReorderPoint: 5,
		CreatedAt:    time.Now().UTC(),
	}
	inv.Recalculate()
	require.NoError(t, repo.Create(context.Background(), inv))
	return inv.ID
}

func TestCreateOrUpdateCreatesRecordWithInitialTransaction(t *testing.T) {
	product := &models.Product{ID: primitive.NewObjectID(), Name: "Widget"}
	products := newFakeProductRepo(product)
	repo := newFakeInventoryRepo()
	svc := NewService(repo, products, nil)

	qty := 25
	inv, created, err := svc.CreateOrUpdate(context.Background(), SetupInput{
		ProductID: product.ID,
		SKU:       "wid-001",
		Quantity:  &qty,
	}, primitive.NewObjectID())

	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, "WID-001", inv.SKU)
	assert.Equal(t, 25, inv.Quantity)
	assert.Equal(t, 25, inv.AvailableQuantity)
	require.Len(t, inv.Transactions, 1)
	assert.Equal(t, models.TransactionReceived, inv.Transactions[0].Type)
	assert.Equal(t, 25, product.CountInStock)
}

func TestCreateOrUpdateAdjustsExistingRecord(t *testing.T) {
	product := &models.Product{ID: primitive.NewObjectID()}
	products := newFakeProductRepo(product)
	repo := newFakeInventoryRepo()
	seedInventory(t, repo, product.ID, 10)
	svc := NewService(repo, products, nil)

	qty := 4
	inv, created, err := svc.CreateOrUpdate(context.Background(), SetupInput{
		ProductID: product.ID,
		Quantity:  &qty,
	}, primitive.NewObjectID())

	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, 4, inv.Quantity)
	last := inv.Transactions[len(inv.Transactions)-1]
	assert.Equal(t, models.TransactionAdjusted, last.Type)
	assert.Equal(t, -6, last.Quantity)
}

func TestReceiveThenShipRoundTrip(t *testing.T) {
	product := &models.Product{ID: primitive.NewObjectID()}
	products := newFakeProductRepo(product)
	repo := newFakeInventoryRepo()
	id := seedInventory(t, repo, product.ID, 0)
	svc := NewService(repo, products, nil)
	actor := primitive.NewObjectID()

	_, err := svc.Receive(context.Background(), id, ReceiveInput{Quantity: 20, Cost: 2.50, Reference: "PO-9"}, actor)
	require.NoError(t, err)

	inv, err := svc.Ship(context.Background(), id, ShipInput{Quantity: 8, Reference: "ORD-9"}, actor)
	require.NoError(t, err)

	assert.Equal(t, 12, inv.Quantity)
	assert.Equal(t, 12, inv.AvailableQuantity)
	assert.Equal(t, 12, product.CountInStock)

	stored, err := repo.FindByID(context.Background(), id)
	require.NoError(t, err)
	assert.Len(t, stored.Transactions, 2)
}

func TestShipOverdrawLeavesRecordUntouched(t *testing.T) {
	product := &models.Product{ID: primitive.NewObjectID()}
	products := newFakeProductRepo(product)
	repo := newFakeInventoryRepo()
	id := seedInventory(t, repo, product.ID, 3)
	svc := NewService(repo, products, nil)

	_, err := svc.Ship(context.Background(), id, ShipInput{Quantity: 5}, primitive.NewObjectID())

	appErr, ok := apperr.As(err)
	require.True(t, ok)
	assert.Equal(t, apperr.CodeInsufficientStock, appErr.Code)

	stored, err := repo.FindByID(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, 3, stored.Quantity)
	assert.Empty(t, stored.Transactions)
}

func TestReserveHoldsAllItems(t *testing.T) {
	productA := &models.Product{ID: primitive.NewObjectID()}
	productB := &models.Product{ID: primitive.NewObjectID()}
	products := newFakeProductRepo(productA, productB)
	repo := newFakeInventoryRepo()
	seedInventory(t, repo, productA.ID, 10)
	seedInventory(t, repo, productB.ID, 10)
	svc := NewService(repo, products, nil)

	results, err := svc.Reserve(context.Background(), []ReservationItem{
		{ProductID: productA.ID, Quantity: 4},
		{ProductID: productB.ID, Quantity: 10},
	}, "order-1", primitive.NewObjectID())

	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, 6, results[0].Remaining)
	assert.Equal(t, 0, results[1].Remaining)

	storedA, err := repo.FindByProduct(context.Background(), productA.ID)
	require.NoError(t, err)
	assert.Equal(t, 4, storedA.ReservedQuantity)
	assert.Equal(t, 10, storedA.Quantity)
}

func TestReserveIsAllOrNothing(t *testing.T) {
	productA := &models.Product{ID: primitive.NewObjectID()}
	productB := &models.Product{ID: primitive.NewObjectID()}
	products := newFakeProductRepo(productA, productB)
	repo := newFakeInventoryRepo()
	seedInventory(t, repo, productA.ID, 10)
	seedInventory(t, repo, productB.ID, 2)
	svc := NewService(repo, products, nil)

	// Second line exceeds availability, so the hold on the first line must
	// roll back with the transaction.
	_, err := svc.Reserve(context.Background(), []ReservationItem{
		{ProductID: productA.ID, Quantity: 4},
		{ProductID: productB.ID, Quantity: 5},
	}, "order-2", primitive.NewObjectID())

	appErr, ok := apperr.As(err)
	require.True(t, ok)
	assert.Equal(t, apperr.CodeInsufficientStock, appErr.Code)

	storedA, err := repo.FindByProduct(context.Background(), productA.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, storedA.ReservedQuantity)
	assert.Equal(t, 10, storedA.AvailableQuantity)
	assert.Empty(t, storedA.Transactions)
}

func TestReserveRejectsNonPositiveQuantity(t *testing.T) {
	svc := NewService(newFakeInventoryRepo(), newFakeProductRepo(), nil)

	_, err := svc.Reserve(context.Background(), []ReservationItem{
		{ProductID: primitive.NewObjectID(), Quantity: 0},
	}, "order-3", primitive.NewObjectID())

	appErr, ok := apperr.As(err)
	require.True(t, ok)
	assert.Equal(t, apperr.CodeValidation, appErr.Code)
}

func TestTransactionsNewestFirst(t *testing.T) {
	product := &models.Product{ID: primitive.NewObjectID()}
	products := newFakeProductRepo(product)
	repo := newFakeInventoryRepo()
	id := seedInventory(t, repo, product.ID, 0)
	svc := NewService(repo, products, nil)
	actor := primitive.NewObjectID()

	_, err := svc.Receive(context.Background(), id, ReceiveInput{Quantity: 10}, actor)
	require.NoError(t, err)
	time.Sleep(2 * time.Millisecond)
	_, err = svc.Ship(context.Background(), id, ShipInput{Quantity: 3}, actor)
	require.NoError(t, err)

	txns, err := svc.Transactions(context.Background(), id)
	require.NoError(t, err)
	require.Len(t, txns, 2)
	assert.Equal(t, models.TransactionShipped, txns[0].Type)
	assert.Equal(t, models.TransactionReceived, txns[1].Type)
}
