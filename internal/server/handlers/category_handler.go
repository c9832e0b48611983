package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/vortexcart/api/internal/service/catalog"
)

// CategoryHandler serves category endpoints.
type CategoryHandler struct {
	svc    *catalog.Service
	logger *zap.Logger
}

// NewCategoryHandler constructs the HTTP handler adapter.
func NewCategoryHandler(svc *catalog.Service, logger *zap.Logger) *CategoryHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CategoryHandler{svc: svc, logger: logger}
}

// List returns all categories.
func (h *CategoryHandler) List(c *gin.Context) {
	categories, err := h.svc.ListCategories(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, categories)
}

// Get returns one category by id.
func (h *CategoryHandler) Get(c *gin.Context) {
	id, err := objectIDParam(c, "id")
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	category, err := h.svc.GetCategory(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, category)
}

type categoryRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Image       string `json:"image"`
}

// Create registers a new category.
func (h *CategoryHandler) Create(c *gin.Context) {
	var req categoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid request body"})
		return
	}

	category, err := h.svc.CreateCategory(c.Request.Context(), catalog.CategoryInput(req))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, category)
}

// Update edits an existing category.
func (h *CategoryHandler) Update(c *gin.Context) {
	id, err := objectIDParam(c, "id")
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	var req categoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid request body"})
		return
	}

	category, err := h.svc.UpdateCategory(c.Request.Context(), id, catalog.CategoryInput(req))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, category)
}

// Delete removes a category.
func (h *CategoryHandler) Delete(c *gin.Context) {
	id, err := objectIDParam(c, "id")
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	if err := h.svc.DeleteCategory(c.Request.Context(), id); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Category removed"})
}
