package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/vortexcart/api/internal/domain/models"
	"github.com/vortexcart/api/internal/server/middleware"
	"github.com/vortexcart/api/internal/service/order"
)

// OrderHandler serves checkout and order management endpoints.
type OrderHandler struct {
	svc    *order.Service
	logger *zap.Logger
}

// NewOrderHandler constructs the HTTP handler adapter.
func NewOrderHandler(svc *order.Service, logger *zap.Logger) *OrderHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &OrderHandler{svc: svc, logger: logger}
}

type createOrderRequest struct {
	OrderItems      []models.OrderItem     `json:"orderItems" binding:"required"`
	ShippingAddress models.ShippingAddress `json:"shippingAddress"`
	PaymentMethod   string                 `json:"paymentMethod"`
	ItemsPrice      float64                `json:"itemsPrice"`
	TaxPrice        float64                `json:"taxPrice"`
	ShippingPrice   float64                `json:"shippingPrice"`
	TotalPrice      float64                `json:"totalPrice"`
	CouponCode      string                 `json:"couponCode"`
}

// Create places a new order for the caller.
func (h *OrderHandler) Create(c *gin.Context) {
	var req createOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid request body"})
		return
	}

	user := middleware.CurrentUser(c)
	created, err := h.svc.Create(c.Request.Context(), order.CreateInput{
		OrderItems:      req.OrderItems,
		ShippingAddress: req.ShippingAddress,
		PaymentMethod:   req.PaymentMethod,
		ItemsPrice:      req.ItemsPrice,
		TaxPrice:        req.TaxPrice,
		ShippingPrice:   req.ShippingPrice,
		TotalPrice:      req.TotalPrice,
		CouponCode:      req.CouponCode,
	}, user)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusCreated, created)
}

// Get returns one order, owner or admin only.
func (h *OrderHandler) Get(c *gin.Context) {
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

// Mine lists the caller's orders.
func (h *OrderHandler) Mine(c *gin.Context) {
	user := middleware.CurrentUser(c)

	orders, err := h.svc.ListForUser(c.Request.Context(), user.ID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, orders)
}

// List returns every order for the admin view.
func (h *OrderHandler) List(c *gin.Context) {
	orders, err := h.svc.List(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, orders)
}

type markPaidRequest struct {
	ID           string `json:"id"`
	Status       string `json:"status"`
	UpdateTime   string `json:"update_time"`
	EmailAddress string `json:"email_address"`
}

// MarkPaid records a successful payment against the order.
func (h *OrderHandler) MarkPaid(c *gin.Context) {
	id, err := objectIDParam(c, "id")
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	var req markPaidRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid request body"})
		return
	}

	updated, err := h.svc.MarkPaid(c.Request.Context(), id, models.PaymentResult{
		ID:           req.ID,
		Status:       req.Status,
		UpdateTime:   req.UpdateTime,
		EmailAddress: req.EmailAddress,
	})
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

// MarkDelivered records delivery of the order.
func (h *OrderHandler) MarkDelivered(c *gin.Context) {
	id, err := objectIDParam(c, "id")
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	updated, err := h.svc.MarkDelivered(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}
