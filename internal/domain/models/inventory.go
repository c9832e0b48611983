package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/vortexcart/api/internal/domain/apperr"
)

// TransactionType classifies a stock ledger entry.
type TransactionType string

const (
	TransactionReceived TransactionType = "received"
	TransactionShipped  TransactionType = "shipped"
	TransactionAdjusted TransactionType = "adjusted"
	TransactionReturned TransactionType = "returned"
)

// StockTransaction is an immutable ledger entry appended to an Inventory
// record. Quantity is a signed delta; PreviousStock/CurrentStock snapshot the
// on-hand quantity around the mutation.
type StockTransaction struct {
	Product       primitive.ObjectID `bson:"product" json:"product"`
	Type          TransactionType    `bson:"type" json:"type"`
	Quantity      int                `bson:"quantity" json:"quantity"`
	PreviousStock int                `bson:"previousStock" json:"previousStock"`
	CurrentStock  int                `bson:"currentStock" json:"currentStock"`
	Reference     string             `bson:"reference,omitempty" json:"reference,omitempty"`
	Notes         string             `bson:"notes,omitempty" json:"notes,omitempty"`
	Cost          float64            `bson:"cost,omitempty" json:"cost,omitempty"`
	PerformedBy   primitive.ObjectID `bson:"performedBy" json:"performedBy"`
	CreatedAt     time.Time          `bson:"createdAt" json:"createdAt"`
}

// Inventory tracks stock for a single product. Quantity is the on-hand count;
// AvailableQuantity is derived and recomputed by Recalculate before every
// persist, never written directly.
type Inventory struct {
	ID                primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Product           primitive.ObjectID `bson:"product" json:"product"`
	SKU               string             `bson:"sku" json:"sku"`
	Quantity          int                `bson:"quantity" json:"quantity"`
	ReservedQuantity  int                `bson:"reservedQuantity" json:"reservedQuantity"`
	AvailableQuantity int                `bson:"availableQuantity" json:"availableQuantity"`
	ReorderPoint      int                `bson:"reorderPoint" json:"reorderPoint"`
	ReorderQuantity   int                `bson:"reorderQuantity" json:"reorderQuantity"`
	Location          string             `bson:"location,omitempty" json:"location,omitempty"`
	CostPerUnit       float64            `bson:"costPerUnit" json:"costPerUnit"`
	Transactions      []StockTransaction `bson:"transactions" json:"transactions"`
	LastUpdated       time.Time          `bson:"lastUpdated" json:"lastUpdated"`
	CreatedAt         time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt         time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// Recalculate refreshes the derived available quantity. Invariant:
// available = max(0, onHand - reserved).
func (inv *Inventory) Recalculate() {
	available := inv.Quantity - inv.ReservedQuantity
	if available < 0 {
		available = 0
	}
	inv.AvailableQuantity = available
	inv.LastUpdated = time.Now().UTC()
	inv.UpdatedAt = inv.LastUpdated
}

// InventoryValue returns the on-hand quantity valued at the current unit cost.
func (inv *Inventory) InventoryValue() float64 {
	return float64(inv.Quantity) * inv.CostPerUnit
}

// IsLowStock reports whether available stock has fallen to the reorder point.
func (inv *Inventory) IsLowStock() bool {
	return inv.AvailableQuantity <= inv.ReorderPoint
}

func (inv *Inventory) append(txn StockTransaction) {
	txn.Product = inv.Product
	txn.CreatedAt = time.Now().UTC()
	inv.Transactions = append(inv.Transactions, txn)
}

// Receive adds qty units of incoming stock. A positive cost triggers a
// weighted-average recomputation of the unit cost; when the previous on-hand
// quantity was zero the incoming cost is assigned directly.
func (inv *Inventory) Receive(qty int, cost float64, reference, notes string, actor primitive.ObjectID) error {
	if qty <= 0 {
		return apperr.Validation("quantity must be positive")
	}

	previous := inv.Quantity
	inv.Quantity = previous + qty

	if cost > 0 {
		if previous == 0 {
			inv.CostPerUnit = cost
		} else {
			inv.CostPerUnit = (float64(previous)*inv.CostPerUnit + float64(qty)*cost) / float64(inv.Quantity)
		}
	}

	inv.append(StockTransaction{
		Type:          TransactionReceived,
		Quantity:      qty,
		PreviousStock: previous,
		CurrentStock:  inv.Quantity,
		Reference:     reference,
		Notes:         notes,
		Cost:          cost,
		PerformedBy:   actor,
	})

	inv.Recalculate()
	return nil
}

// Ship removes qty units of outgoing stock. Only available (unreserved) stock
// may ship.
func (inv *Inventory) Ship(qty int, reference, notes string, actor primitive.ObjectID) error {
	if qty <= 0 {
		return apperr.Validation("quantity must be positive")
	}
	if qty > inv.AvailableQuantity {
		return apperr.InsufficientStock("not enough available stock: available %d, requested %d", inv.AvailableQuantity, qty)
	}

	previous := inv.Quantity
	inv.Quantity = previous - qty

	inv.append(StockTransaction{
		Type:          TransactionShipped,
		Quantity:      -qty,
		PreviousStock: previous,
		CurrentStock:  inv.Quantity,
		Reference:     reference,
		Notes:         notes,
		PerformedBy:   actor,
	})

	inv.Recalculate()
	return nil
}

// Adjust sets the on-hand quantity to an absolute value, recording the signed
// difference in the ledger.
func (inv *Inventory) Adjust(newQty int, notes string, actor primitive.ObjectID) error {
	if newQty < 0 {
		return apperr.Validation("quantity must not be negative")
	}

	previous := inv.Quantity
	inv.Quantity = newQty

	inv.append(StockTransaction{
		Type:          TransactionAdjusted,
		Quantity:      newQty - previous,
		PreviousStock: previous,
		CurrentStock:  newQty,
		Notes:         notes,
		PerformedBy:   actor,
	})

	inv.Recalculate()
	return nil
}

// Reserve holds qty units against an order without shipping them. On-hand is
// unchanged; the ledger entry snapshots equal previous/current stock.
func (inv *Inventory) Reserve(qty int, reference string, actor primitive.ObjectID) error {
	if qty <= 0 {
		return apperr.Validation("quantity must be positive")
	}
	if qty > inv.AvailableQuantity {
		return apperr.InsufficientStock("not enough available stock for product %s", inv.Product.Hex())
	}

	inv.ReservedQuantity += qty

	inv.append(StockTransaction{
		Type:          TransactionShipped,
		Quantity:      -qty,
		PreviousStock: inv.Quantity,
		CurrentStock:  inv.Quantity,
		Reference:     reference,
		Notes:         "Stock reserved for order",
		PerformedBy:   actor,
	})

	inv.Recalculate()
	return nil
}

// Release returns previously reserved units to the available pool, floored at
// zero reserved.
func (inv *Inventory) Release(qty int, reference string, actor primitive.ObjectID) error {
	if qty <= 0 {
		return apperr.Validation("quantity must be positive")
	}

	inv.ReservedQuantity -= qty
	if inv.ReservedQuantity < 0 {
		inv.ReservedQuantity = 0
	}

	inv.append(StockTransaction{
		Type:          TransactionReturned,
		Quantity:      qty,
		PreviousStock: inv.Quantity,
		CurrentStock:  inv.Quantity,
		Reference:     reference,
		Notes:         "Reservation released",
		PerformedBy:   actor,
	})

	inv.Recalculate()
	return nil
}
