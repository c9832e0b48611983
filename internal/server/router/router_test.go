package router_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/vortexcart/api/internal/config"
	"github.com/vortexcart/api/internal/server/handlers"
	"github.com/vortexcart/api/internal/server/router"
	"github.com/vortexcart/api/internal/service/auth"
)

// newTestEngine builds the real route table with empty handlers. Requests stay
// unauthenticated, so protected routes answer 401 when registered and 404 when
// not; that distinction is all these tests need.
func newTestEngine() *gin.Engine {
	gin.SetMode(gin.TestMode)

	authSvc := auth.NewService(nil, config.AuthConfig{JWTSecret: "test-secret", TokenTTL: time.Hour}, nil)
	return router.New(router.Handlers{
		Users:      handlers.NewUserHandler(nil, nil),
		Products:   handlers.NewProductHandler(nil, nil),
		Categories: handlers.NewCategoryHandler(nil, nil),
		Orders:     handlers.NewOrderHandler(nil, nil),
		Payments:   handlers.NewPaymentHandler(nil, nil),
		Coupons:    handlers.NewCouponHandler(nil, nil),
		Inventory:  handlers.NewInventoryHandler(nil, nil),
		Newsletter: handlers.NewNewsletterHandler(nil, nil),
		Wishlist:   handlers.NewWishlistHandler(nil, nil),
		Analytics:  handlers.NewAnalyticsHandler(nil, nil),
		Reports:    handlers.NewReportHandler(nil, nil),
	}, authSvc, nil)
}

func TestStockAndCouponRouteMethods(t *testing.T) {
	r := newTestEngine()
	id := "5f8d0a3b9d3e2a1b4c6d7e8f"

	cases := []struct {
		method string
		path   string
	}{
		{http.MethodPut, "/api/inventory/" + id + "/ship"},
		{http.MethodPut, "/api/inventory/reserve"},
		{http.MethodPut, "/api/coupons/apply/" + id},
		{http.MethodPost, "/api/inventory/" + id + "/receive"},
		{http.MethodPost, "/api/inventory"},
		{http.MethodPost, "/api/coupons/validate"},
		{http.MethodGet, "/api/inventory/" + id + "/transactions"},
	}

	for _, tc := range cases {
		t.Run(tc.method+" "+tc.path, func(t *testing.T) {
			w := httptest.NewRecorder()
			req := httptest.NewRequest(tc.method, tc.path, nil)
			r.ServeHTTP(w, req)

			// Registered but unauthenticated: auth middleware, not the mux,
			// must answer.
			assert.Equal(t, http.StatusUnauthorized, w.Code)
		})
	}
}

func TestPublicRoutes(t *testing.T) {
	r := newTestEngine()

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}
