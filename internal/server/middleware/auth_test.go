package middleware_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/vortexcart/api/internal/config"
	"github.com/vortexcart/api/internal/domain/apperr"
	"github.com/vortexcart/api/internal/domain/models"
	"github.com/vortexcart/api/internal/server/middleware"
	"github.com/vortexcart/api/internal/service/auth"
)

type fakeUserRepo struct {
	users map[primitive.ObjectID]*models.User
}

func (f *fakeUserRepo) Create(_ context.Context, user *models.User) error {
	if user.ID.IsZero() {
		user.ID = primitive.NewObjectID()
	}
	f.users[user.ID] = user
	return nil
}

func (f *fakeUserRepo) Save(_ context.Context, user *models.User) error {
	f.users[user.ID] = user
	return nil
}

func (f *fakeUserRepo) FindByID(_ context.Context, id primitive.ObjectID) (*models.User, error) {
	user, ok := f.users[id]
	if !ok {
		return nil, apperr.NotFound("user not found")
	}
	return user, nil
}

func (f *fakeUserRepo) FindByEmail(_ context.Context, email string) (*models.User, error) {
	for _, user := range f.users {
		if strings.EqualFold(user.Email, email) {
			return user, nil
		}
	}
	return nil, apperr.NotFound("user not found")
}

func (f *fakeUserRepo) Count(_ context.Context) (int64, error) { return int64(len(f.users)), nil }

func (f *fakeUserRepo) CountSince(_ context.Context, _ time.Time) (int64, error) { return 0, nil }

func setupRouter(t *testing.T) (*gin.Engine, *auth.Service, *fakeUserRepo) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	repo := &fakeUserRepo{users: map[primitive.ObjectID]*models.User{}}
	svc := auth.NewService(repo, config.AuthConfig{JWTSecret: "test-secret", TokenTTL: time.Hour}, nil)

	r := gin.New()
	r.GET("/protected", middleware.Protect(svc, nil), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user": middleware.CurrentUser(c).Email})
	})
	r.GET("/admin", middleware.Protect(svc, nil), middleware.AdminOnly(), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
	return r, svc, repo
}

func registerUser(t *testing.T, svc *auth.Service, email string) *auth.AuthResult {
	t.Helper()
	result, err := svc.Register(context.Background(), "Test", email, "secret123")
	require.NoError(t, err)
	return result
}

func TestProtectRejectsMissingToken(t *testing.T) {
	r, _, _ := setupRouter(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestProtectRejectsGarbageToken(t *testing.T) {
	r, _, _ := setupRouter(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer not-a-jwt")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestProtectAcceptsValidToken(t *testing.T) {
	r, svc, _ := setupRouter(t)
	registered := registerUser(t, svc, "ada@example.com")

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+registered.Token)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "ada@example.com")
}

func TestAdminOnlyRejectsRegularUser(t *testing.T) {
	r, svc, _ := setupRouter(t)
	registered := registerUser(t, svc, "user@example.com")

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.Header.Set("Authorization", "Bearer "+registered.Token)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestAdminOnlyAcceptsAdmin(t *testing.T) {
	r, svc, repo := setupRouter(t)
	registered := registerUser(t, svc, "admin@example.com")
	repo.users[registered.User.ID].Role = models.RoleAdmin

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.Header.Set("Authorization", "Bearer "+registered.Token)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}
