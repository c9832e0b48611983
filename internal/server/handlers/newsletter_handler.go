package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/vortexcart/api/internal/domain/models"
	"github.com/vortexcart/api/internal/service/newsletter"
)

// NewsletterHandler serves mailing list endpoints.
type NewsletterHandler struct {
	svc    *newsletter.Service
	logger *zap.Logger
}

// NewNewsletterHandler constructs the HTTP handler adapter.
func NewNewsletterHandler(svc *newsletter.Service, logger *zap.Logger) *NewsletterHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NewsletterHandler{svc: svc, logger: logger}
}

type subscribeRequest struct {
	Email       string                        `json:"email" binding:"required,email"`
	Name        string                        `json:"name"`
	Preferences *models.NewsletterPreferences `json:"preferences"`
}

// Subscribe signs an email address up.
func (h *NewsletterHandler) Subscribe(c *gin.Context) {
	var req subscribeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid request body"})
		return
	}

	sub, err := h.svc.Subscribe(c.Request.Context(), req.Email, req.Name, req.Preferences)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Subscribed to newsletter", "subscriber": sub})
}

type unsubscribeRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// Unsubscribe takes an email address off the list.
func (h *NewsletterHandler) Unsubscribe(c *gin.Context) {
	var req unsubscribeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid request body"})
		return
	}

	if err := h.svc.Unsubscribe(c.Request.Context(), req.Email); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Unsubscribed from newsletter"})
}

type updatePreferencesRequest struct {
	Email       string                       `json:"email" binding:"required,email"`
	Preferences models.NewsletterPreferences `json:"preferences" binding:"required"`
}

// UpdatePreferences replaces a subscriber's mailing preferences.
func (h *NewsletterHandler) UpdatePreferences(c *gin.Context) {
	var req updatePreferencesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid request body"})
		return
	}

	sub, err := h.svc.UpdatePreferences(c.Request.Context(), req.Email, req.Preferences)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, sub)
}

// Subscribers lists active subscriptions for the admin view.
func (h *NewsletterHandler) Subscribers(c *gin.Context) {
	subs, err := h.svc.Subscribers(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": len(subs), "subscribers": subs})
}
