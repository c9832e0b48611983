package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/vortexcart/api/internal/service/analytics"
)

// AnalyticsHandler serves the admin dashboard endpoints.
type AnalyticsHandler struct {
	svc    *analytics.Service
	logger *zap.Logger
}

// NewAnalyticsHandler constructs the HTTP handler adapter.
func NewAnalyticsHandler(svc *analytics.Service, logger *zap.Logger) *AnalyticsHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AnalyticsHandler{svc: svc, logger: logger}
}

// Dashboard returns the headline numbers and best-sellers table.
func (h *AnalyticsHandler) Dashboard(c *gin.Context) {
	stats, err := h.svc.Dashboard(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

// Sales buckets paid orders per day between ?from= and ?to= (RFC3339 or
// 2006-01-02); the default window is the trailing 30 days.
func (h *AnalyticsHandler) Sales(c *gin.Context) {
	now := time.Now().UTC()
	from := now.AddDate(0, 0, -30)
	to := now

	var err error
	if raw := c.Query("from"); raw != "" {
		if from, err = parseDate(raw); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "invalid from date"})
			return
		}
	}
	if raw := c.Query("to"); raw != "" {
		if to, err = parseDate(raw); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "invalid to date"})
			return
		}
	}

	report, err := h.svc.Sales(c.Request.Context(), from, to)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

func parseDate(raw string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", raw)
}
