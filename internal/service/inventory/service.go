// Package inventory implements the stock ledger: per-product on-hand, reserved
// and available quantities with an append-only transaction history.
package inventory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/vortexcart/api/internal/domain/apperr"
	"github.com/vortexcart/api/internal/domain/models"
	"github.com/vortexcart/api/internal/repository/mongodb"
)

// Service coordinates ledger mutations with catalog stock propagation.
type Service struct {
	inventory mongodb.InventoryRepository
	products  mongodb.ProductRepository
	logger    *zap.Logger
}

// NewService wires a new inventory service instance.
func NewService(inventoryRepo mongodb.InventoryRepository, productRepo mongodb.ProductRepository, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{inventory: inventoryRepo, products: productRepo, logger: logger}
}

// SetupInput creates or reconfigures the stock record of a product. Nil
// pointer fields keep their current values on update.
type SetupInput struct {
	ProductID       primitive.ObjectID
	SKU             string
	Quantity        *int
	ReorderPoint    *int
	ReorderQuantity *int
	Location        *string
	CostPerUnit     *float64
}

// ReceiveInput describes an incoming stock delivery.
type ReceiveInput struct {
	Quantity  int
	Reference string
	Notes     string
	Cost      float64
}

// ShipInput describes an outgoing shipment.
type ShipInput struct {
	Quantity  int
	Reference string
	Notes     string
}

// ReservationItem is one line of a reservation request.
type ReservationItem struct {
	ProductID primitive.ObjectID
	Quantity  int
}

// ReservationResult reports the outcome of one reserved line.
type ReservationResult struct {
	ProductID primitive.ObjectID `json:"productId"`
	Reserved  int                `json:"reserved"`
	Remaining int                `json:"remaining"`
}

// CreateOrUpdate upserts a product's stock record. A fresh record logs an
// initial "received" transaction; a quantity change on an existing record logs
// an "adjusted" one. Returns true when the record was created.
func (s *Service) CreateOrUpdate(ctx context.Context, in SetupInput, actor primitive.ObjectID) (*models.Inventory, bool, error) {
	product, err := s.products.FindByID(ctx, in.ProductID)
	if err != nil {
		return nil, false, err
	}

	inv, err := s.inventory.FindByProduct(ctx, in.ProductID)
	if err != nil {
		if _, ok := apperr.As(err); !ok {
			return nil, false, err
		}
		return s.create(ctx, in, product, actor)
	}

	if in.SKU != "" {
		inv.SKU = strings.ToUpper(in.SKU)
	}
	if in.ReorderPoint != nil {
		inv.ReorderPoint = *in.ReorderPoint
	}
	if in.ReorderQuantity != nil {
		inv.ReorderQuantity = *in.ReorderQuantity
	}
	if in.Location != nil {
		inv.Location = *in.Location
	}
	if in.CostPerUnit != nil {
		inv.CostPerUnit = *in.CostPerUnit
	}

	if in.Quantity != nil {
		if err := inv.Adjust(*in.Quantity, "Manual inventory adjustment", actor); err != nil {
			return nil, false, err
		}
	} else {
		inv.Recalculate()
	}

	if err := s.inventory.Save(ctx, inv); err != nil {
		return nil, false, err
	}

	if in.Quantity != nil {
		s.propagateStockCount(ctx, inv.Product, inv.Quantity)
	}

	return inv, false, nil
}

func (s *Service) create(ctx context.Context, in SetupInput, product *models.Product, actor primitive.ObjectID) (*models.Inventory, bool, error) {
	now := time.Now().UTC()

	qty := 0
	if in.Quantity != nil {
		if *in.Quantity < 0 {
			return nil, false, apperr.Validation("quantity must not be negative")
		}
		qty = *in.Quantity
	}

	sku := strings.ToUpper(in.SKU)
	if sku == "" {
		sku = "SKU-" + strings.ToUpper(uuid.NewString()[:8])
	}

	inv := &models.Inventory{
		Product:         product.ID,
		SKU:             sku,
		Quantity:        qty,
		ReorderPoint:    5,
		ReorderQuantity: 10,
		Transactions: []models.StockTransaction{{
			Product:       product.ID,
			Type:          models.TransactionReceived,
			Quantity:      qty,
			PreviousStock: 0,
			CurrentStock:  qty,
			Notes:         "Initial inventory setup",
			PerformedBy:   actor,
			CreatedAt:     now,
		}},
		CreatedAt: now,
	}
	if in.ReorderPoint != nil {
		inv.ReorderPoint = *in.ReorderPoint
	}
	if in.ReorderQuantity != nil {
		inv.ReorderQuantity = *in.ReorderQuantity
	}
	if in.Location != nil {
		inv.Location = *in.Location
	}
	if in.CostPerUnit != nil {
		inv.CostPerUnit = *in.CostPerUnit
	}
	inv.Recalculate()

	if err := s.inventory.Create(ctx, inv); err != nil {
		return nil, false, err
	}

	s.propagateStockCount(ctx, inv.Product, inv.Quantity)

	return inv, true, nil
}

// Receive books an incoming delivery against the record.
func (s *Service) Receive(ctx context.Context, id primitive.ObjectID, in ReceiveInput, actor primitive.ObjectID) (*models.Inventory, error) {
	inv, err := s.inventory.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := inv.Receive(in.Quantity, in.Cost, in.Reference, in.Notes, actor); err != nil {
		return nil, err
	}

	if err := s.inventory.Save(ctx, inv); err != nil {
		return nil, err
	}

	s.propagateStockCount(ctx, inv.Product, inv.Quantity)

	s.logger.Info("stock received",
		zap.String("inventory_id", inv.ID.Hex()),
		zap.Int("quantity", in.Quantity),
		zap.Int("on_hand", inv.Quantity))

	return inv, nil
}

// Ship books an outgoing shipment; only available stock may leave.
func (s *Service) Ship(ctx context.Context, id primitive.ObjectID, in ShipInput, actor primitive.ObjectID) (*models.Inventory, error) {
	inv, err := s.inventory.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := inv.Ship(in.Quantity, in.Reference, in.Notes, actor); err != nil {
		return nil, err
	}

	if err := s.inventory.Save(ctx, inv); err != nil {
		return nil, err
	}

	s.propagateStockCount(ctx, inv.Product, inv.Quantity)

	s.logger.Info("stock shipped",
		zap.String("inventory_id", inv.ID.Hex()),
		zap.Int("quantity", in.Quantity),
		zap.Int("on_hand", inv.Quantity))

	return inv, nil
}

// Reserve holds stock for an order across all requested items, all-or-nothing.
// The whole loop runs inside one multi-document transaction: the first item
// without sufficient availability aborts everything already reserved, so a
// partial reservation is never observable.
func (s *Service) Reserve(ctx context.Context, items []ReservationItem, orderID string, actor primitive.ObjectID) ([]ReservationResult, error) {
	if len(items) == 0 {
		return nil, apperr.Validation("no items provided")
	}
	for _, item := range items {
		if item.Quantity <= 0 {
			return nil, apperr.Validation("quantity must be positive for product %s", item.ProductID.Hex())
		}
	}

	reference := fmt.Sprintf("Order %s", orderID)
	var results []ReservationResult

	err := s.inventory.WithTransaction(ctx, func(txCtx context.Context) error {
		results = results[:0]
		for _, item := range items {
			inv, err := s.inventory.FindByProduct(txCtx, item.ProductID)
			if err != nil {
				return err
			}

			if err := inv.Reserve(item.Quantity, reference, actor); err != nil {
				return err
			}

			if err := s.inventory.Save(txCtx, inv); err != nil {
				return err
			}

			results = append(results, ReservationResult{
				ProductID: item.ProductID,
				Reserved:  item.Quantity,
				Remaining: inv.AvailableQuantity,
			})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("stock reserved", zap.String("order_id", orderID), zap.Int("items", len(items)))
	return results, nil
}

// List returns a page of stock records together with the total count.
func (s *Service) List(ctx context.Context, opts mongodb.InventoryListOptions) ([]models.Inventory, int64, error) {
	return s.inventory.List(ctx, opts)
}

// GetByProduct looks up the stock record backing a product.
func (s *Service) GetByProduct(ctx context.Context, productID primitive.ObjectID) (*models.Inventory, error) {
	return s.inventory.FindByProduct(ctx, productID)
}

// LowStockAlerts lists records whose available quantity is at or below the
// reorder point.
func (s *Service) LowStockAlerts(ctx context.Context) ([]models.Inventory, error) {
	return s.inventory.LowStock(ctx)
}

// Transactions returns a record's ledger, newest entry first.
func (s *Service) Transactions(ctx context.Context, id primitive.ObjectID) ([]models.StockTransaction, error) {
	inv, err := s.inventory.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	txns := make([]models.StockTransaction, len(inv.Transactions))
	copy(txns, inv.Transactions)
	sort.SliceStable(txns, func(i, j int) bool {
		return txns[i].CreatedAt.After(txns[j].CreatedAt)
	})
	return txns, nil
}

// propagateStockCount mirrors the on-hand quantity onto the product document.
// The ledger stays authoritative; a missing product only logs a warning.
func (s *Service) propagateStockCount(ctx context.Context, productID primitive.ObjectID, count int) {
	if err := s.products.SetCountInStock(ctx, productID, count); err != nil {
		s.logger.Warn("failed to propagate stock count",
			zap.String("product_id", productID.Hex()),
			zap.Error(err))
	}
}
