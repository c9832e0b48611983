// Package payment records charges and refunds against orders, delegating the
// actual money movement to the external gateway.
package payment

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/vortexcart/api/internal/domain/apperr"
	"github.com/vortexcart/api/internal/domain/models"
	"github.com/vortexcart/api/internal/repository/mongodb"
	gateway "github.com/vortexcart/api/pkg/clients/payment"
)

// Service exposes payment operations to handlers.
type Service struct {
	payments mongodb.PaymentRepository
	orders   mongodb.OrderRepository
	gateway  gateway.Client
	logger   *zap.Logger
}

// NewService wires a new payment service instance. A nil gateway records
// payments without charging, which keeps local development usable.
func NewService(paymentRepo mongodb.PaymentRepository, orderRepo mongodb.OrderRepository, gw gateway.Client, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{payments: paymentRepo, orders: orderRepo, gateway: gw, logger: logger}
}

// ProcessInput carries the charge payload.
type ProcessInput struct {
	OrderID        primitive.ObjectID
	PaymentMethod  string
	Amount         float64
	PaymentDetails map[string]any
}

// Process charges the gateway for an order and records the payment. The
// amount must match the order total exactly; on success the order is marked
// paid.
func (s *Service) Process(ctx context.Context, in ProcessInput, user *models.User) (*models.Payment, error) {
	order, err := s.orders.FindByID(ctx, in.OrderID)
	if err != nil {
		return nil, err
	}

	if in.Amount != order.TotalPrice {
		return nil, apperr.Validation("payment amount %.2f does not match order total %.2f", in.Amount, order.TotalPrice)
	}

	transactionID := uuid.NewString()
	status := models.PaymentCompleted

	if s.gateway != nil {
		resp, err := s.gateway.Charge(ctx, gateway.ChargeRequest{
			Amount:        in.Amount,
			Currency:      "USD",
			Method:        in.PaymentMethod,
			Reference:     order.ID.Hex(),
			PaymentDetail: in.PaymentDetails,
		})
		if err != nil {
			s.logger.Error("gateway charge failed", zap.String("order_id", order.ID.Hex()), zap.Error(err))
			return nil, err
		}
		transactionID = resp.TransactionID
		if resp.Status != "succeeded" {
			status = models.PaymentFailed
		}
	}

	now := time.Now().UTC()
	payment := &models.Payment{
		User:           user.ID,
		Order:          order.ID,
		TransactionID:  transactionID,
		Amount:         in.Amount,
		PaymentMethod:  in.PaymentMethod,
		Status:         status,
		PaymentDetails: in.PaymentDetails,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := s.payments.Create(ctx, payment); err != nil {
		return nil, err
	}

	if status == models.PaymentCompleted {
		order.IsPaid = true
		order.PaidAt = &now
		order.PaymentResult = models.PaymentResult{
			ID:           transactionID,
			Status:       string(status),
			UpdateTime:   now.Format(time.RFC3339),
			EmailAddress: user.Email,
		}
		if err := s.orders.Save(ctx, order); err != nil {
			return nil, err
		}
	}

	s.logger.Info("payment processed",
		zap.String("order_id", order.ID.Hex()),
		zap.String("transaction_id", transactionID),
		zap.String("status", string(status)))

	return payment, nil
}

// Get returns a payment, restricted to its owner or an admin.
func (s *Service) Get(ctx context.Context, id primitive.ObjectID, caller *models.User) (*models.Payment, error) {
	payment, err := s.payments.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if payment.User != caller.ID && !caller.IsAdmin() {
		return nil, apperr.Forbidden("not authorized to view this payment")
	}
	return payment, nil
}

// History returns the caller's payments, newest first.
func (s *Service) History(ctx context.Context, userID primitive.ObjectID) ([]models.Payment, error) {
	return s.payments.FindByUser(ctx, userID)
}

// ListByOrder returns the payments recorded for an order.
func (s *Service) ListByOrder(ctx context.Context, orderID primitive.ObjectID) ([]models.Payment, error) {
	return s.payments.FindByOrder(ctx, orderID)
}

// Refund reverses a completed payment through the gateway and flips its status.
func (s *Service) Refund(ctx context.Context, id primitive.ObjectID) (*models.Payment, error) {
	payment, err := s.payments.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if payment.Status == models.PaymentRefunded {
		return nil, apperr.Validation("payment already refunded")
	}

	if s.gateway != nil {
		if _, err := s.gateway.Refund(ctx, payment.TransactionID, payment.Amount); err != nil {
			s.logger.Error("gateway refund failed", zap.String("payment_id", id.Hex()), zap.Error(err))
			return nil, err
		}
	}

	payment.Status = models.PaymentRefunded
	if err := s.payments.Save(ctx, payment); err != nil {
		return nil, err
	}

	s.logger.Info("payment refunded", zap.String("payment_id", id.Hex()))
	return payment, nil
}
