package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/vortexcart/api/internal/server/middleware"
	"github.com/vortexcart/api/internal/service/wishlist"
)

// WishlistHandler serves the caller's saved product list.
type WishlistHandler struct {
	svc    *wishlist.Service
	logger *zap.Logger
}

// NewWishlistHandler constructs the HTTP handler adapter.
func NewWishlistHandler(svc *wishlist.Service, logger *zap.Logger) *WishlistHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &WishlistHandler{svc: svc, logger: logger}
}

// Get returns the caller's wishlist with resolved products.
func (h *WishlistHandler) Get(c *gin.Context) {
	user := middleware.CurrentUser(c)

	list, products, err := h.svc.Get(c.Request.Context(), user.ID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"wishlist": list, "products": products})
}

// Add puts a product on the caller's list.
func (h *WishlistHandler) Add(c *gin.Context) {
	productID, err := objectIDParam(c, "productId")
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	user := middleware.CurrentUser(c)
	list, err := h.svc.Add(c.Request.Context(), user.ID, productID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Product added to wishlist", "wishlist": list})
}

// Remove drops a product from the caller's list.
func (h *WishlistHandler) Remove(c *gin.Context) {
	productID, err := objectIDParam(c, "productId")
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	user := middleware.CurrentUser(c)
	list, err := h.svc.Remove(c.Request.Context(), user.ID, productID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Product removed from wishlist", "wishlist": list})
}

// Clear empties the caller's list.
func (h *WishlistHandler) Clear(c *gin.Context) {
	user := middleware.CurrentUser(c)

	if err := h.svc.Clear(c.Request.Context(), user.ID); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Wishlist cleared"})
}
