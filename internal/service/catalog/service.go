// Package catalog implements product, category and review management.
package catalog

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/vortexcart/api/internal/domain/apperr"
	"github.com/vortexcart/api/internal/domain/models"
	"github.com/vortexcart/api/internal/repository/mongodb"
)

// Service exposes catalog operations to handlers.
type Service struct {
	products   mongodb.ProductRepository
	categories mongodb.CategoryRepository
	logger     *zap.Logger
}

// NewService wires a new catalog service instance.
func NewService(productRepo mongodb.ProductRepository, categoryRepo mongodb.CategoryRepository, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{products: productRepo, categories: categoryRepo, logger: logger}
}

// ProductPage is one page of catalog results.
type ProductPage struct {
	Products []models.Product `json:"products"`
	Page     int64            `json:"page"`
	Pages    int64            `json:"pages"`
	Total    int64            `json:"total"`
}

// ListProducts returns a filtered catalog page.
func (s *Service) ListProducts(ctx context.Context, opts mongodb.ProductListOptions) (*ProductPage, error) {
	products, total, err := s.products.List(ctx, opts)
	if err != nil {
		return nil, err
	}

	limit := opts.Limit
	if limit <= 0 {
		limit = 12
	}
	page := opts.Page
	if page <= 0 {
		page = 1
	}

	pages := total / limit
	if total%limit != 0 {
		pages++
	}

	return &ProductPage{Products: products, Page: page, Pages: pages, Total: total}, nil
}

// GetProduct returns a product by id.
func (s *Service) GetProduct(ctx context.Context, id primitive.ObjectID) (*models.Product, error) {
	return s.products.FindByID(ctx, id)
}

// TopRatedProducts returns the highest rated products for the storefront banner.
func (s *Service) TopRatedProducts(ctx context.Context, limit int64) ([]models.Product, error) {
	return s.products.TopRated(ctx, limit)
}

// ProductInput carries create/update payloads for products.
type ProductInput struct {
	Name        string
	Image       string
	Brand       string
	Category    primitive.ObjectID
	Description string
	Price       float64
	Sale        *bool
	Discount    *float64
}

// CreateProduct registers a new catalog entry under the given category.
func (s *Service) CreateProduct(ctx context.Context, in ProductInput, actor primitive.ObjectID) (*models.Product, error) {
	if in.Name == "" {
		return nil, apperr.Validation("product name is required")
	}
	if in.Price < 0 {
		return nil, apperr.Validation("price must not be negative")
	}
	if _, err := s.categories.FindByID(ctx, in.Category); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	p := &models.Product{
		User:        actor,
		Name:        in.Name,
		Image:       in.Image,
		Brand:       in.Brand,
		Category:    in.Category,
		Description: in.Description,
		Reviews:     []models.Review{},
		Price:       in.Price,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if in.Sale != nil {
		p.Sale = *in.Sale
	}
	if in.Discount != nil {
		p.Discount = *in.Discount
	}

	if err := s.products.Create(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// UpdateProduct edits a catalog entry; zero-valued fields are left unchanged
// except through the pointer fields.
func (s *Service) UpdateProduct(ctx context.Context, id primitive.ObjectID, in ProductInput) (*models.Product, error) {
	p, err := s.products.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.Name != "" {
		p.Name = in.Name
	}
	if in.Image != "" {
		p.Image = in.Image
	}
	if in.Brand != "" {
		p.Brand = in.Brand
	}
	if !in.Category.IsZero() {
		if _, err := s.categories.FindByID(ctx, in.Category); err != nil {
			return nil, err
		}
		p.Category = in.Category
	}
	if in.Description != "" {
		p.Description = in.Description
	}
	if in.Price > 0 {
		p.Price = in.Price
	}
	if in.Sale != nil {
		p.Sale = *in.Sale
	}
	if in.Discount != nil {
		p.Discount = *in.Discount
	}

	if err := s.products.Save(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// DeleteProduct removes a catalog entry permanently.
func (s *Service) DeleteProduct(ctx context.Context, id primitive.ObjectID) error {
	return s.products.Delete(ctx, id)
}

// AddReview appends a review and refreshes the cached rating. A user may only
// review a product once.
func (s *Service) AddReview(ctx context.Context, productID primitive.ObjectID, user *models.User, rating float64, comment string) (*models.Product, error) {
	if rating < 0 || rating > 5 {
		return nil, apperr.Validation("rating must be between 0 and 5")
	}
	if comment == "" {
		return nil, apperr.Validation("comment is required")
	}

	p, err := s.products.FindByID(ctx, productID)
	if err != nil {
		return nil, err
	}

	if p.HasReviewBy(user.ID) {
		return nil, apperr.Conflict("product already reviewed")
	}

	p.Reviews = append(p.Reviews, models.Review{
		ID:        primitive.NewObjectID(),
		User:      user.ID,
		Name:      user.Name,
		Rating:    rating,
		Comment:   comment,
		CreatedAt: time.Now().UTC(),
	})
	p.RecomputeRating()

	if err := s.products.Save(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// ProductReviews lists a product's reviews.
func (s *Service) ProductReviews(ctx context.Context, productID primitive.ObjectID) ([]models.Review, error) {
	p, err := s.products.FindByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	return p.Reviews, nil
}

// ListCategories returns all categories sorted by name.
func (s *Service) ListCategories(ctx context.Context) ([]models.Category, error) {
	return s.categories.List(ctx)
}

// GetCategory returns a category by id.
func (s *Service) GetCategory(ctx context.Context, id primitive.ObjectID) (*models.Category, error) {
	return s.categories.FindByID(ctx, id)
}

// CategoryInput carries create/update payloads for categories.
type CategoryInput struct {
	Name        string
	Description string
	Image       string
}

// CreateCategory registers a new category.
func (s *Service) CreateCategory(ctx context.Context, in CategoryInput) (*models.Category, error) {
	if in.Name == "" {
		return nil, apperr.Validation("category name is required")
	}

	now := time.Now().UTC()
	cat := &models.Category{
		Name:        in.Name,
		Description: in.Description,
		Image:       in.Image,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.categories.Create(ctx, cat); err != nil {
		return nil, err
	}
	return cat, nil
}

// UpdateCategory edits a category.
func (s *Service) UpdateCategory(ctx context.Context, id primitive.ObjectID, in CategoryInput) (*models.Category, error) {
	cat, err := s.categories.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.Name != "" {
		cat.Name = in.Name
	}
	if in.Description != "" {
		cat.Description = in.Description
	}
	if in.Image != "" {
		cat.Image = in.Image
	}

	if err := s.categories.Save(ctx, cat); err != nil {
		return nil, err
	}
	return cat, nil
}

// DeleteCategory removes a category permanently.
func (s *Service) DeleteCategory(ctx context.Context, id primitive.ObjectID) error {
	return s.categories.Delete(ctx, id)
}
