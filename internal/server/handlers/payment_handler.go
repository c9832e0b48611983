package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/vortexcart/api/internal/server/middleware"
	"github.com/vortexcart/api/internal/service/payment"
)

// PaymentHandler serves charge, refund and payment history endpoints.
type PaymentHandler struct {
	svc    *payment.Service
	logger *zap.Logger
}

// NewPaymentHandler constructs the HTTP handler adapter.
func NewPaymentHandler(svc *payment.Service, logger *zap.Logger) *PaymentHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PaymentHandler{svc: svc, logger: logger}
}

type processPaymentRequest struct {
	OrderID        string         `json:"orderId" binding:"required"`
	PaymentMethod  string         `json:"paymentMethod" binding:"required"`
	Amount         float64        `json:"amount" binding:"required"`
	PaymentDetails map[string]any `json:"paymentDetails"`
}

// Process charges an order and records the payment.
func (h *PaymentHandler) Process(c *gin.Context) {
	var req processPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid request body"})
		return
	}

	orderID, err := primitive.ObjectIDFromHex(req.OrderID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid orderId"})
		return
	}

	user := middleware.CurrentUser(c)
	result, err := h.svc.Process(c.Request.Context(), payment.ProcessInput{
		OrderID:        orderID,
		PaymentMethod:  req.PaymentMethod,
		Amount:         req.Amount,
		PaymentDetails: req.PaymentDetails,
	}, user)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "Payment processed successfully", "payment": result})
}

// Get returns one payment, owner or admin only.
func (h *PaymentHandler) Get(c *gin.Context) {
	id, err := objectIDParam(c, "id")
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	found, err := h.svc.Get(c.Request.Context(), id, middleware.CurrentUser(c))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, found)
}

// History lists the caller's payments.
func (h *PaymentHandler) History(c *gin.Context) {
	user := middleware.CurrentUser(c)

	payments, err := h.svc.History(c.Request.Context(), user.ID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, payments)
}

// ByOrder lists the payments recorded against an order.
func (h *PaymentHandler) ByOrder(c *gin.Context) {
	orderID, err := objectIDParam(c, "orderId")
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	payments, err := h.svc.ListByOrder(c.Request.Context(), orderID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, payments)
}

// Refund reverses a completed payment.
func (h *PaymentHandler) Refund(c *gin.Context) {
	id, err := objectIDParam(c, "id")
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	refunded, err := h.svc.Refund(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Payment refunded successfully", "payment": refunded})
}
