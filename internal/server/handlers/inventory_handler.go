package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/vortexcart/api/internal/repository/mongodb"
	"github.com/vortexcart/api/internal/server/middleware"
	"github.com/vortexcart/api/internal/service/inventory"
)

// InventoryHandler serves the stock ledger endpoints.
type InventoryHandler struct {
	svc    *inventory.Service
	logger *zap.Logger
}

// NewInventoryHandler constructs the HTTP handler adapter.
func NewInventoryHandler(svc *inventory.Service, logger *zap.Logger) *InventoryHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &InventoryHandler{svc: svc, logger: logger}
}

// List returns a page of stock records; ?lowStock=true filters to alerts.
func (h *InventoryHandler) List(c *gin.Context) {
	page, _ := strconv.ParseInt(c.DefaultQuery("page", "1"), 10, 64)
	limit, _ := strconv.ParseInt(c.DefaultQuery("limit", "50"), 10, 64)

	opts := mongodb.InventoryListOptions{
		LowStockOnly: c.Query("lowStock") == "true",
		SortBy:       c.Query("sortBy"),
		Page:         page,
		Limit:        limit,
	}

	records, total, err := h.svc.List(c.Request.Context(), opts)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	if limit <= 0 {
		limit = 50
	}
	pages := total / limit
	if total%limit != 0 {
		pages++
	}

	c.JSON(http.StatusOK, gin.H{
		"inventory": records,
		"page":      page,
		"pages":     pages,
		"total":     total,
	})
}

// GetByProduct looks up the stock record behind a product.
func (h *InventoryHandler) GetByProduct(c *gin.Context) {
	productID, err := objectIDParam(c, "productId")
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	inv, err := h.svc.GetByProduct(c.Request.Context(), productID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, inv)
}

type setupInventoryRequest struct {
	ProductID       string   `json:"productId" binding:"required"`
	SKU             string   `json:"sku"`
	Quantity        *int     `json:"quantity"`
	ReorderPoint    *int     `json:"reorderPoint"`
	ReorderQuantity *int     `json:"reorderQuantity"`
	Location        *string  `json:"location"`
	CostPerUnit     *float64 `json:"costPerUnit"`
}

// CreateOrUpdate upserts a product's stock record.
func (h *InventoryHandler) CreateOrUpdate(c *gin.Context) {
	var req setupInventoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid request body"})
		return
	}

	productID, err := primitive.ObjectIDFromHex(req.ProductID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid productId"})
		return
	}

	user := middleware.CurrentUser(c)
	inv, created, err := h.svc.CreateOrUpdate(c.Request.Context(), inventory.SetupInput{
		ProductID:       productID,
		SKU:             req.SKU,
		Quantity:        req.Quantity,
		ReorderPoint:    req.ReorderPoint,
		ReorderQuantity: req.ReorderQuantity,
		Location:        req.Location,
		CostPerUnit:     req.CostPerUnit,
	}, user.ID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	status := http.StatusOK
	message := "Inventory updated successfully"
	if created {
		status = http.StatusCreated
		message = "Inventory created successfully"
	}
	c.JSON(status, gin.H{"message": message, "inventory": inv})
}

type receiveStockRequest struct {
	Quantity  int     `json:"quantity" binding:"required"`
	Reference string  `json:"reference"`
	Notes     string  `json:"notes"`
	Cost      float64 `json:"cost"`
}

// Receive books an incoming delivery.
func (h *InventoryHandler) Receive(c *gin.Context) {
	id, err := objectIDParam(c, "id")
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	var req receiveStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid request body"})
		return
	}

	user := middleware.CurrentUser(c)
	inv, err := h.svc.Receive(c.Request.Context(), id, inventory.ReceiveInput{
		Quantity:  req.Quantity,
		Reference: req.Reference,
		Notes:     req.Notes,
		Cost:      req.Cost,
	}, user.ID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Stock received successfully", "inventory": inv})
}

type shipStockRequest struct {
	Quantity  int    `json:"quantity" binding:"required"`
	Reference string `json:"reference"`
	Notes     string `json:"notes"`
}

// Ship books an outgoing shipment.
func (h *InventoryHandler) Ship(c *gin.Context) {
	id, err := objectIDParam(c, "id")
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	var req shipStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid request body"})
		return
	}

	user := middleware.CurrentUser(c)
	inv, err := h.svc.Ship(c.Request.Context(), id, inventory.ShipInput{
		Quantity:  req.Quantity,
		Reference: req.Reference,
		Notes:     req.Notes,
	}, user.ID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Stock shipped successfully", "inventory": inv})
}

type reserveStockRequest struct {
	Items []struct {
		ProductID string `json:"productId" binding:"required"`
		Quantity  int    `json:"quantity" binding:"required"`
	} `json:"items" binding:"required"`
	OrderID string `json:"orderId" binding:"required"`
}

// Reserve holds stock for an order across all requested items, all-or-nothing.
func (h *InventoryHandler) Reserve(c *gin.Context) {
	var req reserveStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid request body"})
		return
	}

	items := make([]inventory.ReservationItem, 0, len(req.Items))
	for _, item := range req.Items {
		productID, err := primitive.ObjectIDFromHex(item.ProductID)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "invalid productId: " + item.ProductID})
			return
		}
		items = append(items, inventory.ReservationItem{ProductID: productID, Quantity: item.Quantity})
	}

	user := middleware.CurrentUser(c)
	results, err := h.svc.Reserve(c.Request.Context(), items, req.OrderID, user.ID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Stock reserved successfully", "results": results})
}

// Alerts lists stock records at or below their reorder point.
func (h *InventoryHandler) Alerts(c *gin.Context) {
	items, err := h.svc.LowStockAlerts(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"count": len(items), "items": items})
}

// Transactions returns a record's ledger, newest first.
func (h *InventoryHandler) Transactions(c *gin.Context) {
	id, err := objectIDParam(c, "id")
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	txns, err := h.svc.Transactions(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, txns)
}
