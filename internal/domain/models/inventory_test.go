package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/vortexcart/api/internal/domain/apperr"
)

func newTestInventory(qty int) *Inventory {
	inv := &Inventory{
		ID:       primitive.NewObjectID(),
		Product:  primitive.NewObjectID(),
		SKU:      "SKU-TEST01",
		Quantity: qty,
	}
	inv.Recalculate()
	return inv
}

func TestReceiveAssignsCostWhenEmpty(t *testing.T) {
	inv := newTestInventory(0)
	actor := primitive.NewObjectID()

	require.NoError(t, inv.Receive(10, 2.00, "PO-1", "", actor))

	assert.Equal(t, 10, inv.Quantity)
	assert.Equal(t, 10, inv.AvailableQuantity)
	assert.Equal(t, 2.00, inv.CostPerUnit)
}

func TestReceiveWeightedAverageCost(t *testing.T) {
	inv := newTestInventory(0)
	actor := primitive.NewObjectID()

	require.NoError(t, inv.Receive(10, 2.00, "PO-1", "", actor))
	require.NoError(t, inv.Receive(10, 4.00, "PO-2", "", actor))

	// (10*2.00 + 10*4.00) / 20
	assert.InDelta(t, 3.00, inv.CostPerUnit, 1e-9)
	assert.Equal(t, 20, inv.Quantity)
	assert.InDelta(t, 60.00, inv.InventoryValue(), 1e-9)
}

func TestReceiveZeroCostKeepsUnitCost(t *testing.T) {
	inv := newTestInventory(0)
	actor := primitive.NewObjectID()

	require.NoError(t, inv.Receive(10, 5.00, "", "", actor))
	require.NoError(t, inv.Receive(5, 0, "", "", actor))

	assert.Equal(t, 5.00, inv.CostPerUnit)
	assert.Equal(t, 15, inv.Quantity)
}

func TestReceiveRejectsNonPositiveQuantity(t *testing.T) {
	inv := newTestInventory(0)

	err := inv.Receive(0, 1.00, "", "", primitive.NewObjectID())

	appErr, ok := apperr.As(err)
	require.True(t, ok)
	assert.Equal(t, apperr.CodeValidation, appErr.Code)
}

func TestShipRecordsNegativeDelta(t *testing.T) {
	inv := newTestInventory(10)
	actor := primitive.NewObjectID()

	require.NoError(t, inv.Ship(4, "ORD-1", "", actor))

	assert.Equal(t, 6, inv.Quantity)
	assert.Equal(t, 6, inv.AvailableQuantity)

	last := inv.Transactions[len(inv.Transactions)-1]
	assert.Equal(t, TransactionShipped, last.Type)
	assert.Equal(t, -4, last.Quantity)
	assert.Equal(t, 10, last.PreviousStock)
	assert.Equal(t, 6, last.CurrentStock)
}

func TestShipRejectsOverdraw(t *testing.T) {
	inv := newTestInventory(3)

	err := inv.Ship(5, "", "", primitive.NewObjectID())

	appErr, ok := apperr.As(err)
	require.True(t, ok)
	assert.Equal(t, apperr.CodeInsufficientStock, appErr.Code)
	assert.Equal(t, 3, inv.Quantity)
	assert.Empty(t, inv.Transactions)
}

func TestShipCountsReservedAsUnavailable(t *testing.T) {
	inv := newTestInventory(10)
	actor := primitive.NewObjectID()
	require.NoError(t, inv.Reserve(7, "Order A", actor))

	err := inv.Ship(5, "", "", actor)

	appErr, ok := apperr.As(err)
	require.True(t, ok)
	assert.Equal(t, apperr.CodeInsufficientStock, appErr.Code)
}

func TestReserveKeepsOnHandUnchanged(t *testing.T) {
	inv := newTestInventory(10)
	actor := primitive.NewObjectID()

	require.NoError(t, inv.Reserve(4, "Order A", actor))

	assert.Equal(t, 10, inv.Quantity)
	assert.Equal(t, 4, inv.ReservedQuantity)
	assert.Equal(t, 6, inv.AvailableQuantity)

	last := inv.Transactions[len(inv.Transactions)-1]
	assert.Equal(t, last.PreviousStock, last.CurrentStock)
}

func TestReleaseFloorsReservedAtZero(t *testing.T) {
	inv := newTestInventory(10)
	actor := primitive.NewObjectID()
	require.NoError(t, inv.Reserve(3, "Order A", actor))

	require.NoError(t, inv.Release(5, "Order A", actor))

	assert.Equal(t, 0, inv.ReservedQuantity)
	assert.Equal(t, 10, inv.AvailableQuantity)
}

func TestRecalculateClampsAvailableAtZero(t *testing.T) {
	inv := &Inventory{Quantity: 2, ReservedQuantity: 5}
	inv.Recalculate()
	assert.Equal(t, 0, inv.AvailableQuantity)
}

func TestAdjustRecordsSignedDifference(t *testing.T) {
	inv := newTestInventory(10)
	actor := primitive.NewObjectID()

	require.NoError(t, inv.Adjust(6, "stocktake", actor))

	assert.Equal(t, 6, inv.Quantity)
	last := inv.Transactions[len(inv.Transactions)-1]
	assert.Equal(t, TransactionAdjusted, last.Type)
	assert.Equal(t, -4, last.Quantity)
}

func TestIsLowStock(t *testing.T) {
	inv := newTestInventory(5)
	inv.ReorderPoint = 5
	assert.True(t, inv.IsLowStock())

	require.NoError(t, inv.Receive(1, 0, "", "", primitive.NewObjectID()))
	assert.False(t, inv.IsLowStock())
}
