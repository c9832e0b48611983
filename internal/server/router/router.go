package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/vortexcart/api/internal/server/handlers"
	"github.com/vortexcart/api/internal/server/middleware"
	"github.com/vortexcart/api/internal/service/auth"
)

// Handlers bundles every HTTP handler the route table needs.
type Handlers struct {
	Users      *handlers.UserHandler
	Products   *handlers.ProductHandler
	Categories *handlers.CategoryHandler
	Orders     *handlers.OrderHandler
	Payments   *handlers.PaymentHandler
	Coupons    *handlers.CouponHandler
	Inventory  *handlers.InventoryHandler
	Newsletter *handlers.NewsletterHandler
	Wishlist   *handlers.WishlistHandler
	Analytics  *handlers.AnalyticsHandler
	Reports    *handlers.ReportHandler
}

// New wires the Gin engine with required routes and middlewares.
func New(h Handlers, authSvc *auth.Service, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(zapLoggerMiddleware(logger))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	protect := middleware.Protect(authSvc, logger)
	admin := middleware.AdminOnly()

	api := r.Group("/api")
	api.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	users := api.Group("/users")
	{
		users.POST("/register", h.Users.Register)
		users.POST("/login", h.Users.Login)
		users.GET("/profile", protect, h.Users.Profile)
		users.PUT("/profile", protect, h.Users.UpdateProfile)
	}

	products := api.Group("/products")
	{
		products.GET("", h.Products.List)
		products.GET("/top", h.Products.TopRated)
		products.GET("/:id", h.Products.Get)
		products.GET("/:id/reviews", h.Products.Reviews)
		products.POST("", protect, admin, h.Products.Create)
		products.PUT("/:id", protect, admin, h.Products.Update)
		products.DELETE("/:id", protect, admin, h.Products.Delete)
		products.POST("/:id/reviews", protect, h.Products.AddReview)
	}

	categories := api.Group("/categories")
	{
		categories.GET("", h.Categories.List)
		categories.GET("/:id", h.Categories.Get)
		categories.POST("", protect, admin, h.Categories.Create)
		categories.PUT("/:id", protect, admin, h.Categories.Update)
		categories.DELETE("/:id", protect, admin, h.Categories.Delete)
	}

	orders := api.Group("/orders", protect)
	{
		orders.POST("", h.Orders.Create)
		orders.GET("/mine", h.Orders.Mine)
		orders.GET("/:id", h.Orders.Get)
		orders.PUT("/:id/pay", h.Orders.MarkPaid)
		orders.PUT("/:id/deliver", admin, h.Orders.MarkDelivered)
		orders.GET("", admin, h.Orders.List)
	}

	payments := api.Group("/payments", protect)
	{
		payments.POST("", h.Payments.Process)
		payments.GET("/history", h.Payments.History)
		payments.GET("/:id", h.Payments.Get)
		payments.GET("/order/:orderId", admin, h.Payments.ByOrder)
		payments.POST("/:id/refund", admin, h.Payments.Refund)
	}

	coupons := api.Group("/coupons")
	{
		coupons.POST("/validate", protect, h.Coupons.Validate)
		coupons.PUT("/apply/:id", protect, h.Coupons.Apply)
		coupons.POST("", protect, admin, h.Coupons.Create)
		coupons.GET("", protect, admin, h.Coupons.List)
		coupons.GET("/:id", protect, admin, h.Coupons.Get)
		coupons.PUT("/:id", protect, admin, h.Coupons.Update)
		coupons.DELETE("/:id", protect, admin, h.Coupons.Delete)
	}

	inventory := api.Group("/inventory", protect)
	{
		// Reservation is open to any signed-in caller; checkout uses it.
		inventory.PUT("/reserve", h.Inventory.Reserve)
		inventory.GET("", admin, h.Inventory.List)
		inventory.GET("/alerts", admin, h.Inventory.Alerts)
		inventory.GET("/product/:productId", admin, h.Inventory.GetByProduct)
		inventory.POST("", admin, h.Inventory.CreateOrUpdate)
		inventory.POST("/:id/receive", admin, h.Inventory.Receive)
		inventory.PUT("/:id/ship", admin, h.Inventory.Ship)
		inventory.GET("/:id/transactions", admin, h.Inventory.Transactions)
	}

	newsletter := api.Group("/newsletter")
	{
		newsletter.POST("/subscribe", h.Newsletter.Subscribe)
		newsletter.POST("/unsubscribe", h.Newsletter.Unsubscribe)
		newsletter.PUT("/preferences", h.Newsletter.UpdatePreferences)
		newsletter.GET("/subscribers", protect, admin, h.Newsletter.Subscribers)
	}

	wishlist := api.Group("/wishlist", protect)
	{
		wishlist.GET("", h.Wishlist.Get)
		wishlist.POST("/:productId", h.Wishlist.Add)
		wishlist.DELETE("/:productId", h.Wishlist.Remove)
		wishlist.DELETE("", h.Wishlist.Clear)
	}

	analytics := api.Group("/analytics", protect, admin)
	{
		analytics.GET("/dashboard", h.Analytics.Dashboard)
		analytics.GET("/sales", h.Analytics.Sales)
	}

	reports := api.Group("/reports", protect, admin)
	{
		reports.POST("/daily", h.Reports.GenerateDaily)
		reports.GET("/low-stock", h.Reports.LowStock)
	}

	if logger != nil {
		logger.Info("router initialized")
	}

	return r
}

func zapLoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = zap.NewNop()
	}

	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		logger.Info("request completed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("duration", time.Since(start)),
			zap.String("client_ip", c.ClientIP()))
	}
}
