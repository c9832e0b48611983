package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/vortexcart/api/internal/domain/apperr"
	"github.com/vortexcart/api/internal/domain/models"
	"github.com/vortexcart/api/internal/server/middleware"
	"github.com/vortexcart/api/internal/service/coupon"
)

// CouponHandler serves coupon administration and validation endpoints.
type CouponHandler struct {
	svc    *coupon.Service
	logger *zap.Logger
}

// NewCouponHandler constructs the HTTP handler adapter.
func NewCouponHandler(svc *coupon.Service, logger *zap.Logger) *CouponHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CouponHandler{svc: svc, logger: logger}
}

type couponPayload struct {
	Code                 string   `json:"code"`
	Description          string   `json:"description"`
	DiscountType         string   `json:"discountType"`
	DiscountAmount       float64  `json:"discountAmount"`
	MinimumPurchase      float64  `json:"minimumPurchase"`
	ExpiryDate           string   `json:"expiryDate"`
	UsageLimit           int      `json:"usageLimit"`
	ApplicableProducts   []string `json:"applicableProducts"`
	ApplicableCategories []string `json:"applicableCategories"`
	IsActive             *bool    `json:"isActive"`
}

func parseObjectIDs(hexes []string) ([]primitive.ObjectID, error) {
	if hexes == nil {
		return nil, nil
	}
	ids := make([]primitive.ObjectID, 0, len(hexes))
	for _, hex := range hexes {
		id, err := primitive.ObjectIDFromHex(hex)
		if err != nil {
			return nil, apperr.Validation("invalid object id: %s", hex)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// Create registers a new coupon.
func (h *CouponHandler) Create(c *gin.Context) {
	var req couponPayload
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid request body"})
		return
	}

	expiry, err := time.Parse(time.RFC3339, req.ExpiryDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "expiryDate must be RFC3339"})
		return
	}

	products, err := parseObjectIDs(req.ApplicableProducts)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	categories, err := parseObjectIDs(req.ApplicableCategories)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	user := middleware.CurrentUser(c)
	created, err := h.svc.Create(c.Request.Context(), coupon.CreateInput{
		Code:                 req.Code,
		Description:          req.Description,
		DiscountType:         models.DiscountType(req.DiscountType),
		DiscountAmount:       req.DiscountAmount,
		MinimumPurchase:      req.MinimumPurchase,
		ExpiryDate:           expiry,
		UsageLimit:           req.UsageLimit,
		ApplicableProducts:   products,
		ApplicableCategories: categories,
		IsActive:             req.IsActive,
	}, user.ID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusCreated, created)
}

// List returns all coupons, newest first.
func (h *CouponHandler) List(c *gin.Context) {
	coupons, err := h.svc.List(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, coupons)
}

// Get returns one coupon by id.
func (h *CouponHandler) Get(c *gin.Context) {
	id, err := objectIDParam(c, "id")
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	found, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, found)
}

// Update edits an existing coupon.
func (h *CouponHandler) Update(c *gin.Context) {
	id, err := objectIDParam(c, "id")
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	var req struct {
		Code                 *string  `json:"code"`
		Description          *string  `json:"description"`
		DiscountType         *string  `json:"discountType"`
		DiscountAmount       *float64 `json:"discountAmount"`
		MinimumPurchase      *float64 `json:"minimumPurchase"`
		ExpiryDate           *string  `json:"expiryDate"`
		UsageLimit           *int     `json:"usageLimit"`
		ApplicableProducts   []string `json:"applicableProducts"`
		ApplicableCategories []string `json:"applicableCategories"`
		IsActive             *bool    `json:"isActive"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid request body"})
		return
	}

	in := coupon.UpdateInput{
		Code:            req.Code,
		Description:     req.Description,
		DiscountAmount:  req.DiscountAmount,
		MinimumPurchase: req.MinimumPurchase,
		UsageLimit:      req.UsageLimit,
		IsActive:        req.IsActive,
	}
	if req.DiscountType != nil {
		dt := models.DiscountType(*req.DiscountType)
		in.DiscountType = &dt
	}
	if req.ExpiryDate != nil {
		expiry, err := time.Parse(time.RFC3339, *req.ExpiryDate)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "expiryDate must be RFC3339"})
			return
		}
		in.ExpiryDate = &expiry
	}
	if in.ApplicableProducts, err = parseObjectIDs(req.ApplicableProducts); err != nil {
		respondError(c, h.logger, err)
		return
	}
	if in.ApplicableCategories, err = parseObjectIDs(req.ApplicableCategories); err != nil {
		respondError(c, h.logger, err)
		return
	}

	updated, err := h.svc.Update(c.Request.Context(), id, in)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

// Delete removes a coupon.
func (h *CouponHandler) Delete(c *gin.Context) {
	id, err := objectIDParam(c, "id")
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	if err := h.svc.Delete(c.Request.Context(), id); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Coupon removed"})
}

type validateCouponRequest struct {
	Code      string            `json:"code" binding:"required"`
	CartItems []models.CartItem `json:"cartItems"`
	CartTotal float64           `json:"cartTotal"`
}

// Validate checks a code against the caller's cart and returns the discount.
func (h *CouponHandler) Validate(c *gin.Context) {
	var req validateCouponRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "please provide a coupon code"})
		return
	}

	result, err := h.svc.Validate(c.Request.Context(), req.Code, req.CartItems, req.CartTotal)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// Apply redeems a coupon once.
func (h *CouponHandler) Apply(c *gin.Context) {
	id, err := objectIDParam(c, "id")
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	if err := h.svc.Apply(c.Request.Context(), id); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Coupon applied successfully"})
}
