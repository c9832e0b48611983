// Package newsletter manages mailing list subscriptions.
package newsletter

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/vortexcart/api/internal/domain/apperr"
	"github.com/vortexcart/api/internal/domain/models"
	"github.com/vortexcart/api/internal/repository/mongodb"
)

// Service exposes subscription operations to handlers.
type Service struct {
	subscribers mongodb.NewsletterRepository
	logger      *zap.Logger
}

// NewService wires a new newsletter service instance.
func NewService(repo mongodb.NewsletterRepository, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{subscribers: repo, logger: logger}
}

// Subscribe signs an email up, resubscribes a lapsed address or merges
// preference updates for an existing one.
func (s *Service) Subscribe(ctx context.Context, email, name string, prefs *models.NewsletterPreferences) (*models.Subscriber, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return nil, apperr.Validation("email is required")
	}

	now := time.Now().UTC()

	sub, err := s.subscribers.FindByEmail(ctx, email)
	if err != nil {
		if _, ok := apperr.As(err); !ok {
			return nil, err
		}

		sub = &models.Subscriber{
			Email:            email,
			Name:             name,
			IsSubscribed:     true,
			SubscriptionDate: now,
			Preferences:      defaultPreferences(prefs),
			CreatedAt:        now,
			UpdatedAt:        now,
		}
		if err := s.subscribers.Create(ctx, sub); err != nil {
			return nil, err
		}
		s.logger.Info("newsletter subscription created", zap.String("email", email))
		return sub, nil
	}

	if !sub.IsSubscribed {
		sub.IsSubscribed = true
		sub.SubscriptionDate = now
		sub.UnsubscriptionDate = nil
	}
	if name != "" && sub.Name == "" {
		sub.Name = name
	}
	if prefs != nil {
		sub.Preferences = *prefs
	}

	if err := s.subscribers.Save(ctx, sub); err != nil {
		return nil, err
	}
	return sub, nil
}

// Unsubscribe flips the flag but keeps the document for later resubscription.
func (s *Service) Unsubscribe(ctx context.Context, email string) error {
	email = strings.ToLower(strings.TrimSpace(email))

	sub, err := s.subscribers.FindByEmail(ctx, email)
	if err != nil {
		return err
	}
	if !sub.IsSubscribed {
		return nil
	}

	now := time.Now().UTC()
	sub.IsSubscribed = false
	sub.UnsubscriptionDate = &now

	return s.subscribers.Save(ctx, sub)
}

// UpdatePreferences replaces a subscriber's mailing preferences.
func (s *Service) UpdatePreferences(ctx context.Context, email string, prefs models.NewsletterPreferences) (*models.Subscriber, error) {
	sub, err := s.subscribers.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return nil, err
	}

	sub.Preferences = prefs
	if err := s.subscribers.Save(ctx, sub); err != nil {
		return nil, err
	}
	return sub, nil
}

// Subscribers lists active subscriptions for the admin view.
func (s *Service) Subscribers(ctx context.Context) ([]models.Subscriber, error) {
	return s.subscribers.ListSubscribed(ctx)
}

func defaultPreferences(prefs *models.NewsletterPreferences) models.NewsletterPreferences {
	if prefs != nil {
		return *prefs
	}
	return models.NewsletterPreferences{Promotions: true, ProductUpdates: true, Newsletters: true}
}
