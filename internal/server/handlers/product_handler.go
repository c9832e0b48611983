package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/vortexcart/api/internal/repository/mongodb"
	"github.com/vortexcart/api/internal/server/middleware"
	"github.com/vortexcart/api/internal/service/catalog"
)

// ProductHandler serves catalog and review endpoints.
type ProductHandler struct {
	svc    *catalog.Service
	logger *zap.Logger
}

// NewProductHandler constructs the HTTP handler adapter.
func NewProductHandler(svc *catalog.Service, logger *zap.Logger) *ProductHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProductHandler{svc: svc, logger: logger}
}

// List returns a catalog page filtered by ?keyword= and ?category=.
func (h *ProductHandler) List(c *gin.Context) {
	page, _ := strconv.ParseInt(c.DefaultQuery("page", "1"), 10, 64)
	limit, _ := strconv.ParseInt(c.DefaultQuery("limit", "12"), 10, 64)

	opts := mongodb.ProductListOptions{
		Keyword: c.Query("keyword"),
		Page:    page,
		Limit:   limit,
	}
	if hex := c.Query("category"); hex != "" {
		categoryID, err := primitive.ObjectIDFromHex(hex)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "invalid category"})
			return
		}
		opts.Category = categoryID
	}

	result, err := h.svc.ListProducts(c.Request.Context(), opts)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// Get returns one product by id.
func (h *ProductHandler) Get(c *gin.Context) {
	id, err := objectIDParam(c, "id")
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	product, err := h.svc.GetProduct(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, product)
}

// TopRated returns the highest rated products.
func (h *ProductHandler) TopRated(c *gin.Context) {
	limit, _ := strconv.ParseInt(c.DefaultQuery("limit", "3"), 10, 64)

	products, err := h.svc.TopRatedProducts(c.Request.Context(), limit)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, products)
}

type productRequest struct {
	Name        string   `json:"name"`
	Image       string   `json:"image"`
	Brand       string   `json:"brand"`
	Category    string   `json:"category"`
	Description string   `json:"description"`
	Price       float64  `json:"price"`
	Sale        *bool    `json:"sale"`
	Discount    *float64 `json:"discount"`
}

func (r productRequest) toInput() (catalog.ProductInput, error) {
	in := catalog.ProductInput{
		Name:        r.Name,
		Image:       r.Image,
		Brand:       r.Brand,
		Description: r.Description,
		Price:       r.Price,
		Sale:        r.Sale,
		Discount:    r.Discount,
	}
	if r.Category != "" {
		categoryID, err := primitive.ObjectIDFromHex(r.Category)
		if err != nil {
			return in, err
		}
		in.Category = categoryID
	}
	return in, nil
}

// Create registers a new product.
func (h *ProductHandler) Create(c *gin.Context) {
	var req productRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid request body"})
		return
	}

	in, err := req.toInput()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid category"})
		return
	}

	user := middleware.CurrentUser(c)
	product, err := h.svc.CreateProduct(c.Request.Context(), in, user.ID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, product)
}

// Update edits an existing product.
func (h *ProductHandler) Update(c *gin.Context) {
	id, err := objectIDParam(c, "id")
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	var req productRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid request body"})
		return
	}

	in, err := req.toInput()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid category"})
		return
	}

	product, err := h.svc.UpdateProduct(c.Request.Context(), id, in)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, product)
}

// Delete removes a product.
func (h *ProductHandler) Delete(c *gin.Context) {
	id, err := objectIDParam(c, "id")
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	if err := h.svc.DeleteProduct(c.Request.Context(), id); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Product removed"})
}

type reviewRequest struct {
	Rating  float64 `json:"rating" binding:"required"`
	Comment string  `json:"comment" binding:"required"`
}

// AddReview appends a review to a product.
func (h *ProductHandler) AddReview(c *gin.Context) {
	id, err := objectIDParam(c, "id")
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	var req reviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid request body"})
		return
	}

	user := middleware.CurrentUser(c)
	product, err := h.svc.AddReview(c.Request.Context(), id, user, req.Rating, req.Comment)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Review added", "product": product})
}

// Reviews lists a product's reviews.
func (h *ProductHandler) Reviews(c *gin.Context) {
	id, err := objectIDParam(c, "id")
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	reviews, err := h.svc.ProductReviews(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, reviews)
}
