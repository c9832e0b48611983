// Package auth implements account registration, login and JWT issuing.
package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/vortexcart/api/internal/config"
	"github.com/vortexcart/api/internal/domain/apperr"
	"github.com/vortexcart/api/internal/domain/models"
	"github.com/vortexcart/api/internal/repository/mongodb"
)

// Service exposes authentication operations to handlers and middleware.
type Service struct {
	users  mongodb.UserRepository
	cfg    config.AuthConfig
	logger *zap.Logger
}

// NewService wires a new auth service instance.
func NewService(userRepo mongodb.UserRepository, cfg config.AuthConfig, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{users: userRepo, cfg: cfg, logger: logger}
}

// Claims is the JWT payload carried by access tokens.
type Claims struct {
	UserID string `json:"uid"`
	jwt.RegisteredClaims
}

// AuthResult pairs the account with a fresh access token.
type AuthResult struct {
	User  *models.User `json:"user"`
	Token string       `json:"token"`
}

// Register creates an account with a bcrypt-hashed password and signs it in.
func (s *Service) Register(ctx context.Context, name, email, password string) (*AuthResult, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if name == "" || email == "" {
		return nil, apperr.Validation("name and email are required")
	}
	if len(password) < 6 {
		return nil, apperr.Validation("password must be at least 6 characters")
	}

	if _, err := s.users.FindByEmail(ctx, email); err == nil {
		return nil, apperr.Conflict("user already exists")
	} else if _, ok := apperr.As(err); !ok {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	now := time.Now().UTC()
	user := &models.User{
		Name:      name,
		Email:     email,
		Password:  string(hash),
		Role:      models.RoleUser,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	token, err := s.issueToken(user)
	if err != nil {
		return nil, err
	}

	s.logger.Info("user registered", zap.String("user_id", user.ID.Hex()))
	return &AuthResult{User: user, Token: token}, nil
}

// Login verifies credentials and returns a fresh token.
func (s *Service) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if _, ok := apperr.As(err); ok {
			return nil, apperr.Unauthorized("invalid email or password")
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, apperr.Unauthorized("invalid email or password")
	}

	token, err := s.issueToken(user)
	if err != nil {
		return nil, err
	}

	return &AuthResult{User: user, Token: token}, nil
}

// VerifyToken parses a bearer token and loads the account it names.
func (s *Service) VerifyToken(ctx context.Context, tokenString string) (*models.User, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(s.cfg.JWTSecret), nil
	})
	if err != nil || !token.Valid {
		if err == nil {
			err = errors.New("token invalid")
		}
		return nil, apperr.Unauthorized("not authorized, token failed")
	}

	userID, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		return nil, apperr.Unauthorized("not authorized, token failed")
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if _, ok := apperr.As(err); ok {
			return nil, apperr.Unauthorized("not authorized, user no longer exists")
		}
		return nil, err
	}
	return user, nil
}

// Profile returns the caller's account.
func (s *Service) Profile(ctx context.Context, userID primitive.ObjectID) (*models.User, error) {
	return s.users.FindByID(ctx, userID)
}

// UpdateProfileInput carries the profile edit payload; empty fields are kept.
type UpdateProfileInput struct {
	Name     string
	Email    string
	Password string
}

// UpdateProfile edits the caller's account, re-hashing the password if supplied.
func (s *Service) UpdateProfile(ctx context.Context, userID primitive.ObjectID, in UpdateProfileInput) (*models.User, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if in.Name != "" {
		user.Name = in.Name
	}
	if in.Email != "" {
		user.Email = strings.ToLower(strings.TrimSpace(in.Email))
	}
	if in.Password != "" {
		if len(in.Password) < 6 {
			return nil, apperr.Validation("password must be at least 6 characters")
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("hash password: %w", err)
		}
		user.Password = string(hash)
	}

	if err := s.users.Save(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *Service) issueToken(user *models.User) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID: user.ID.Hex(),
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.cfg.TokenTTL)),
			Subject:   user.ID.Hex(),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.cfg.JWTSecret))
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}
