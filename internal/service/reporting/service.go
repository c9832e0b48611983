// Package reporting builds the daily operations snapshot: sales of the last
// day, signups and stock alerts. Snapshots land in MongoDB and, when
// configured, as a row in the shared admin spreadsheet.
package reporting

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/vortexcart/api/internal/domain/models"
	"github.com/vortexcart/api/internal/repository/mongodb"
	"github.com/vortexcart/api/internal/repository/sheets"
)

const reportSheetRange = "Daily!A:F"

// Service generates and distributes daily reports.
type Service struct {
	orders    mongodb.OrderRepository
	users     mongodb.UserRepository
	inventory mongodb.InventoryRepository
	reports   mongodb.ReportRepository
	sheets    sheets.Repository
	logger    *zap.Logger
}

// NewService wires a new reporting service instance. sheetsRepo may be nil
// when export is disabled.
func NewService(orderRepo mongodb.OrderRepository, userRepo mongodb.UserRepository, inventoryRepo mongodb.InventoryRepository, reportRepo mongodb.ReportRepository, sheetsRepo sheets.Repository, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		orders:    orderRepo,
		users:     userRepo,
		inventory: inventoryRepo,
		reports:   reportRepo,
		sheets:    sheetsRepo,
		logger:    logger,
	}
}

// GenerateDaily builds the snapshot for the 24 hours preceding now, stores it
// and appends it to the spreadsheet.
func (s *Service) GenerateDaily(ctx context.Context, now time.Time) (*models.DailyReport, error) {
	since := now.Add(-24 * time.Hour)

	sales, err := s.orders.PaidTotalSince(ctx, since)
	if err != nil {
		return nil, fmt.Errorf("daily sales total: %w", err)
	}

	paidOrders, err := s.orders.CountPaidSince(ctx, since)
	if err != nil {
		return nil, fmt.Errorf("daily paid order count: %w", err)
	}

	newUsers, err := s.users.CountSince(ctx, since)
	if err != nil {
		return nil, fmt.Errorf("daily signup count: %w", err)
	}

	lowStock, err := s.inventory.LowStock(ctx)
	if err != nil {
		return nil, fmt.Errorf("low stock listing: %w", err)
	}

	outOfStock := 0
	for _, inv := range lowStock {
		if inv.AvailableQuantity == 0 {
			outOfStock++
		}
	}

	report := models.DailyReport{
		Date:            now.UTC(),
		TotalSales:      sales,
		PaidOrders:      int(paidOrders),
		NewUsers:        int(newUsers),
		LowStockCount:   len(lowStock),
		OutOfStockCount: outOfStock,
		CreatedAt:       time.Now().UTC(),
	}

	if err := s.reports.SaveDailyReport(ctx, report); err != nil {
		return nil, err
	}

	if s.sheets != nil {
		row := []interface{}{
			report.Date.Format("2006-01-02"),
			report.TotalSales,
			report.PaidOrders,
			report.NewUsers,
			report.LowStockCount,
			report.OutOfStockCount,
		}
		if err := s.sheets.AppendRow(ctx, reportSheetRange, row); err != nil {
			// Export is best effort; the stored report is the source of truth.
			s.logger.Warn("failed to export daily report to sheet", zap.Error(err))
		}
	}

	s.logger.Info("daily report generated",
		zap.Float64("total_sales", report.TotalSales),
		zap.Int("paid_orders", report.PaidOrders),
		zap.Int("low_stock", report.LowStockCount))

	return &report, nil
}

// LowStockSummary logs every record at or below its reorder point and returns
// the list for callers that want to act on it.
func (s *Service) LowStockSummary(ctx context.Context) ([]models.Inventory, error) {
	lowStock, err := s.inventory.LowStock(ctx)
	if err != nil {
		return nil, err
	}

	for _, inv := range lowStock {
		s.logger.Warn("low stock alert",
			zap.String("sku", inv.SKU),
			zap.String("product_id", inv.Product.Hex()),
			zap.Int("available", inv.AvailableQuantity),
			zap.Int("reorder_point", inv.ReorderPoint),
			zap.Int("reorder_quantity", inv.ReorderQuantity))
	}

	return lowStock, nil
}
