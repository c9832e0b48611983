package auth

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/vortexcart/api/internal/config"
	"github.com/vortexcart/api/internal/domain/apperr"
	"github.com/vortexcart/api/internal/domain/models"
)

type fakeUserRepo struct {
	users map[primitive.ObjectID]*models.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[primitive.ObjectID]*models.User{}}
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

func testAuthConfig() config.AuthConfig {
	return config.AuthConfig{JWTSecret: "test-secret", TokenTTL: time.Hour}
}

func TestRegisterAndLogin(t *testing.T) {
	svc := NewService(newFakeUserRepo(), testAuthConfig(), nil)

	registered, err := svc.Register(context.Background(), "Ada", "Ada@Example.com", "secret123")
	require.NoError(t, err)
	assert.Equal(t, "ada@example.com", registered.User.Email)
	assert.Equal(t, models.RoleUser, registered.User.Role)
	assert.NotEmpty(t, registered.Token)
	assert.NotEqual(t, "secret123", registered.User.Password)

	result, err := svc.Login(context.Background(), "ada@example.com", "secret123")
	require.NoError(t, err)
	assert.Equal(t, registered.User.ID, result.User.ID)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc := NewService(newFakeUserRepo(), testAuthConfig(), nil)

	_, err := svc.Register(context.Background(), "Ada", "ada@example.com", "secret123")
	require.NoError(t, err)

	_, err = svc.Register(context.Background(), "Other", "ada@example.com", "different1")

	appErr, ok := apperr.As(err)
	require.True(t, ok)
	assert.Equal(t, apperr.CodeConflict, appErr.Code)
}

func TestRegisterShortPassword(t *testing.T) {
	svc := NewService(newFakeUserRepo(), testAuthConfig(), nil)

	_, err := svc.Register(context.Background(), "Ada", "ada@example.com", "abc")

	appErr, ok := apperr.As(err)
	require.True(t, ok)
	assert.Equal(t, apperr.CodeValidation, appErr.Code)
}

func TestLoginWrongPassword(t *testing.T) {
	svc := NewService(newFakeUserRepo(), testAuthConfig(), nil)
	_, err := svc.Register(context.Background(), "Ada", "ada@example.com", "secret123")
	require.NoError(t, err)

	_, err = svc.Login(context.Background(), "ada@example.com", "wrong-pass")

	appErr, ok := apperr.As(err)
	require.True(t, ok)
	assert.Equal(t, apperr.CodeUnauthorized, appErr.Code)
}

func TestLoginUnknownEmailIsUnauthorized(t *testing.T) {
	svc := NewService(newFakeUserRepo(), testAuthConfig(), nil)

	_, err := svc.Login(context.Background(), "nobody@example.com", "whatever1")

	appErr, ok := apperr.As(err)
	require.True(t, ok)
	assert.Equal(t, apperr.CodeUnauthorized, appErr.Code)
}

func TestVerifyTokenRoundTrip(t *testing.T) {
	svc := NewService(newFakeUserRepo(), testAuthConfig(), nil)

	registered, err := svc.Register(context.Background(), "Ada", "ada@example.com", "secret123")
	require.NoError(t, err)

	user, err := svc.VerifyToken(context.Background(), registered.Token)
	require.NoError(t, err)
	assert.Equal(t, registered.User.ID, user.ID)
}

func TestVerifyTokenRejectsWrongSecret(t *testing.T) {
	repo := newFakeUserRepo()
	issuer := NewService(repo, config.AuthConfig{JWTSecret: "other-secret", TokenTTL: time.Hour}, nil)
	verifier := NewService(repo, testAuthConfig(), nil)

	registered, err := issuer.Register(context.Background(), "Ada", "ada@example.com", "secret123")
	require.NoError(t, err)

	_, err = verifier.VerifyToken(context.Background(), registered.Token)

	appErr, ok := apperr.As(err)
	require.True(t, ok)
	assert.Equal(t, apperr.CodeUnauthorized, appErr.Code)
}

func TestUpdateProfileRehashesPassword(t *testing.T) {
	svc := NewService(newFakeUserRepo(), testAuthConfig(), nil)
	registered, err := svc.Register(context.Background(), "Ada", "ada@example.com", "secret123")
	require.NoError(t, err)

	_, err = svc.UpdateProfile(context.Background(), registered.User.ID, UpdateProfileInput{Password: "newsecret9"})
	require.NoError(t, err)

	_, err = svc.Login(context.Background(), "ada@example.com", "newsecret9")
	require.NoError(t, err)

	_, err = svc.Login(context.Background(), "ada@example.com", "secret123")
	assert.Error(t, err)
}
