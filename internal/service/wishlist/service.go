// Package wishlist manages per-user saved product lists.
package wishlist

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/vortexcart/api/internal/domain/models"
	"github.com/vortexcart/api/internal/repository/mongodb"
)

// Service exposes wishlist operations to handlers.
type Service struct {
	wishlists mongodb.WishlistRepository
	products  mongodb.ProductRepository
	logger    *zap.Logger
}

// NewService wires a new wishlist service instance.
func NewService(wishlistRepo mongodb.WishlistRepository, productRepo mongodb.ProductRepository, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{wishlists: wishlistRepo, products: productRepo, logger: logger}
}

// Get returns the user's wishlist with resolved products.
func (s *Service) Get(ctx context.Context, userID primitive.ObjectID) (*models.Wishlist, []models.Product, error) {
	wishlist, err := s.wishlists.FindByUser(ctx, userID)
	if err != nil {
		return nil, nil, err
	}

	products, err := s.products.FindByIDs(ctx, wishlist.Products)
	if err != nil {
		return nil, nil, err
	}
	return wishlist, products, nil
}

// Add puts a product on the list; adding a product twice is a no-op.
func (s *Service) Add(ctx context.Context, userID, productID primitive.ObjectID) (*models.Wishlist, error) {
	if _, err := s.products.FindByID(ctx, productID); err != nil {
		return nil, err
	}

	wishlist, err := s.wishlists.FindByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	if wishlist.Contains(productID) {
		return wishlist, nil
	}

	wishlist.Products = append(wishlist.Products, productID)
	if err := s.wishlists.Save(ctx, wishlist); err != nil {
		return nil, err
	}
	return wishlist, nil
}

// Remove drops a product from the list if present.
func (s *Service) Remove(ctx context.Context, userID, productID primitive.ObjectID) (*models.Wishlist, error) {
	wishlist, err := s.wishlists.FindByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	filtered := wishlist.Products[:0]
	for _, id := range wishlist.Products {
		if id != productID {
			filtered = append(filtered, id)
		}
	}
	wishlist.Products = filtered

	if err := s.wishlists.Save(ctx, wishlist); err != nil {
		return nil, err
	}
	return wishlist, nil
}

// Clear empties the list.
func (s *Service) Clear(ctx context.Context, userID primitive.ObjectID) error {
	wishlist, err := s.wishlists.FindByUser(ctx, userID)
	if err != nil {
		return err
	}

	wishlist.Products = []primitive.ObjectID{}
	return s.wishlists.Save(ctx, wishlist)
}
