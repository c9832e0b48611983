// Package analytics serves the admin dashboard from aggregation pipelines over
// orders, users and products.
package analytics

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/vortexcart/api/internal/domain/apperr"
	"github.com/vortexcart/api/internal/repository/mongodb"
)

// Service exposes read-only analytics projections.
type Service struct {
	orders   mongodb.OrderRepository
	users    mongodb.UserRepository
	products mongodb.ProductRepository
	logger   *zap.Logger
}

// NewService wires a new analytics service instance.
func NewService(orderRepo mongodb.OrderRepository, userRepo mongodb.UserRepository, productRepo mongodb.ProductRepository, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{orders: orderRepo, users: userRepo, products: productRepo, logger: logger}
}

// DashboardStats is the admin landing page summary.
type DashboardStats struct {
	TotalSales         float64             `json:"totalSales"`
	TotalOrders        int64               `json:"totalOrders"`
	TotalUsers         int64               `json:"totalUsers"`
	TotalProducts      int64               `json:"totalProducts"`
	OutOfStock         int64               `json:"outOfStock"`
	TopSellingProducts []mongodb.TopSeller `json:"topSellingProducts"`
}

// Dashboard assembles the headline numbers and the best-sellers table.
func (s *Service) Dashboard(ctx context.Context) (*DashboardStats, error) {
	totalSales, err := s.orders.TotalSales(ctx)
	if err != nil {
		return nil, err
	}

	totalOrders, err := s.orders.CountPaid(ctx)
	if err != nil {
		return nil, err
	}

	totalUsers, err := s.users.Count(ctx)
	if err != nil {
		return nil, err
	}

	totalProducts, err := s.products.Count(ctx)
	if err != nil {
		return nil, err
	}

	outOfStock, err := s.products.CountOutOfStock(ctx)
	if err != nil {
		return nil, err
	}

	topSellers, err := s.orders.TopSellers(ctx, 5)
	if err != nil {
		return nil, err
	}

	return &DashboardStats{
		TotalSales:         totalSales,
		TotalOrders:        totalOrders,
		TotalUsers:         totalUsers,
		TotalProducts:      totalProducts,
		OutOfStock:         outOfStock,
		TopSellingProducts: topSellers,
	}, nil
}

// SalesReport is the by-day sales breakdown for a period.
type SalesReport struct {
	From  time.Time            `json:"from"`
	To    time.Time            `json:"to"`
	Days  []mongodb.DailySales `json:"days"`
	Total float64              `json:"total"`
}

// Sales buckets paid orders per day over the requested period.
func (s *Service) Sales(ctx context.Context, from, to time.Time) (*SalesReport, error) {
	if to.Before(from) {
		return nil, apperr.Validation("end date must not precede start date")
	}

	days, err := s.orders.SalesByDay(ctx, from, to)
	if err != nil {
		return nil, err
	}

	var total float64
	for _, day := range days {
		total += day.Sales
	}

	return &SalesReport{From: from, To: to, Days: days, Total: total}, nil
}
