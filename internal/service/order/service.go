// Package order implements checkout: order creation with stock validation,
// optional coupon redemption and payment/delivery transitions.
package order

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/vortexcart/api/internal/domain/apperr"
	"github.com/vortexcart/api/internal/domain/models"
	"github.com/vortexcart/api/internal/repository/mongodb"
	couponsvc "github.com/vortexcart/api/internal/service/coupon"
)

// Service exposes order operations to handlers.
type Service struct {
	orders   mongodb.OrderRepository
	products mongodb.ProductRepository
	coupons  *couponsvc.Service
	logger   *zap.Logger
}

// NewService wires a new order service instance.
func NewService(orderRepo mongodb.OrderRepository, productRepo mongodb.ProductRepository, coupons *couponsvc.Service, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{orders: orderRepo, products: productRepo, coupons: coupons, logger: logger}
}

// CreateInput carries the checkout payload.
type CreateInput struct {
	OrderItems      []models.OrderItem
	ShippingAddress models.ShippingAddress
	PaymentMethod   string
	ItemsPrice      float64
	TaxPrice        float64
	ShippingPrice   float64
	TotalPrice      float64
	CouponCode      string
}

// Create validates stock for every line, optionally redeems a coupon, persists
// the order and decrements the catalog stock counters.
func (s *Service) Create(ctx context.Context, in CreateInput, user *models.User) (*models.Order, error) {
	if len(in.OrderItems) == 0 {
		return nil, apperr.Validation("no order items")
	}

	// Every line must reference an existing product with sufficient stock
	// before anything is written.
	for _, item := range in.OrderItems {
		product, err := s.products.FindByID(ctx, item.Product)
		if err != nil {
			return nil, apperr.NotFound("product not found: %s", item.Name)
		}
		if product.CountInStock < item.Qty {
			return nil, apperr.InsufficientStock("not enough stock for %s: available %d, requested %d",
				item.Name, product.CountInStock, item.Qty)
		}
	}

	now := time.Now().UTC()
	order := &models.Order{
		User:            user.ID,
		OrderItems:      in.OrderItems,
		ShippingAddress: in.ShippingAddress,
		PaymentMethod:   in.PaymentMethod,
		ItemsPrice:      in.ItemsPrice,
		TaxPrice:        in.TaxPrice,
		ShippingPrice:   in.ShippingPrice,
		TotalPrice:      in.TotalPrice,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if in.CouponCode != "" {
		cartItems := make([]models.CartItem, 0, len(in.OrderItems))
		for _, item := range in.OrderItems {
			cartItems = append(cartItems, models.CartItem{
				Product: item.Product,
				Name:    item.Name,
				Qty:     item.Qty,
				Price:   item.Price,
			})
		}

		result, err := s.coupons.Validate(ctx, in.CouponCode, cartItems, in.ItemsPrice)
		if err != nil {
			return nil, err
		}
		if err := s.coupons.Apply(ctx, result.Coupon.ID); err != nil {
			return nil, err
		}

		order.CouponCode = result.Coupon.Code
		order.DiscountAmount = result.Discount
		order.TotalPrice = in.ItemsPrice + in.TaxPrice + in.ShippingPrice - result.Discount
	}

	if err := s.orders.Create(ctx, order); err != nil {
		return nil, err
	}

	for _, item := range in.OrderItems {
		product, err := s.products.FindByID(ctx, item.Product)
		if err != nil {
			continue
		}
		if err := s.products.SetCountInStock(ctx, product.ID, product.CountInStock-item.Qty); err != nil {
			s.logger.Warn("failed to decrement stock count",
				zap.String("product_id", product.ID.Hex()),
				zap.Error(err))
		}
	}

	s.logger.Info("order created",
		zap.String("order_id", order.ID.Hex()),
		zap.String("user_id", user.ID.Hex()),
		zap.Float64("total", order.TotalPrice))

	return order, nil
}

// Get returns an order, restricted to its owner or an admin.
func (s *Service) Get(ctx context.Context, id primitive.ObjectID, caller *models.User) (*models.Order, error) {
	order, err := s.orders.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if order.User != caller.ID && !caller.IsAdmin() {
		return nil, apperr.Forbidden("not authorized to view this order")
	}
	return order, nil
}

// ListForUser returns the caller's orders, newest first.
func (s *Service) ListForUser(ctx context.Context, userID primitive.ObjectID) ([]models.Order, error) {
	return s.orders.FindByUser(ctx, userID)
}

// List returns every order, newest first.
func (s *Service) List(ctx context.Context) ([]models.Order, error) {
	return s.orders.List(ctx)
}

// MarkPaid records a successful payment against the order.
func (s *Service) MarkPaid(ctx context.Context, id primitive.ObjectID, result models.PaymentResult) (*models.Order, error) {
	order, err := s.orders.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	order.IsPaid = true
	order.PaidAt = &now
	order.PaymentResult = result

	if err := s.orders.Save(ctx, order); err != nil {
		return nil, err
	}
	return order, nil
}

// MarkDelivered records delivery of a shipped order.
func (s *Service) MarkDelivered(ctx context.Context, id primitive.ObjectID) (*models.Order, error) {
	order, err := s.orders.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	order.IsDelivered = true
	order.DeliveredAt = &now

	if err := s.orders.Save(ctx, order); err != nil {
		return nil, err
	}
	return order, nil
}
