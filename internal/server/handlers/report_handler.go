package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/vortexcart/api/internal/service/reporting"
)

// ReportHandler lets admins trigger report generation on demand.
type ReportHandler struct {
	svc    *reporting.Service
	logger *zap.Logger
}

// NewReportHandler constructs the HTTP handler adapter.
func NewReportHandler(svc *reporting.Service, logger *zap.Logger) *ReportHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReportHandler{svc: svc, logger: logger}
}

// GenerateDaily builds and stores the snapshot for the trailing 24 hours.
func (h *ReportHandler) GenerateDaily(c *gin.Context) {
	report, err := h.svc.GenerateDaily(c.Request.Context(), time.Now().UTC())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Daily report generated", "report": report})
}

// LowStock returns the current low stock summary.
func (h *ReportHandler) LowStock(c *gin.Context) {
	items, err := h.svc.LowStockSummary(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": len(items), "items": items})
}
