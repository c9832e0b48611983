package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"time"

	"go.uber.org/zap"

	"github.com/vortexcart/api/internal/config"
	"github.com/vortexcart/api/internal/repository/mongodb"
	"github.com/vortexcart/api/internal/repository/sheets"
	"github.com/vortexcart/api/internal/scheduler"
	"github.com/vortexcart/api/internal/server/handlers"
	"github.com/vortexcart/api/internal/server/router"
	analyticssvc "github.com/vortexcart/api/internal/service/analytics"
	authsvc "github.com/vortexcart/api/internal/service/auth"
	catalogsvc "github.com/vortexcart/api/internal/service/catalog"
	couponsvc "github.com/vortexcart/api/internal/service/coupon"
	inventorysvc "github.com/vortexcart/api/internal/service/inventory"
	newslettersvc "github.com/vortexcart/api/internal/service/newsletter"
	ordersvc "github.com/vortexcart/api/internal/service/order"
	paymentsvc "github.com/vortexcart/api/internal/service/payment"
	reportingsvc "github.com/vortexcart/api/internal/service/reporting"
	wishlistsvc "github.com/vortexcart/api/internal/service/wishlist"
	gateway "github.com/vortexcart/api/pkg/clients/payment"
	"github.com/vortexcart/api/pkg/logger"
)

func main() {
	cfg, err := config.Load("")
	if err != nil {
		panic(err)
	}

	baseLogger := logger.Must(logger.New())
	defer func() { _ = baseLogger.Sync() }()

	zap.ReplaceGlobals(baseLogger)

	mongoClient, err := mongodb.Connect(context.Background(), cfg.MongoDB.URI, cfg.MongoDB.DBName)
	if err != nil {
		baseLogger.Fatal("failed to connect to mongodb", zap.Error(err))
	}
	defer func() {
		if err := mongoClient.Close(context.Background()); err != nil {
			baseLogger.Error("failed to close mongodb connection", zap.Error(err))
		}
	}()

	productRepo := mongodb.NewProductRepository(mongoClient)
	categoryRepo := mongodb.NewCategoryRepository(mongoClient)
	inventoryRepo := mongodb.NewInventoryRepository(mongoClient)
	couponRepo := mongodb.NewCouponRepository(mongoClient)
	orderRepo := mongodb.NewOrderRepository(mongoClient)
	userRepo := mongodb.NewUserRepository(mongoClient)
	paymentRepo := mongodb.NewPaymentRepository(mongoClient)
	newsletterRepo := mongodb.NewNewsletterRepository(mongoClient)
	wishlistRepo := mongodb.NewWishlistRepository(mongoClient)
	reportRepo := mongodb.NewReportRepository(mongoClient)

	// Sheets export is optional; the daily report lives in MongoDB either way.
	var sheetsRepo sheets.Repository
	if cfg.Sheets.CredentialsPath != "" {
		sheetsRepo, err = sheets.NewGoogleSheetRepository(context.Background(), cfg.Sheets, baseLogger.Named("repo.sheets"))
		if err != nil {
			baseLogger.Fatal("failed to init sheets repository", zap.Error(err))
		}
		baseLogger.Info("sheets report export enabled")
	}

	// Without a gateway key payments are recorded locally without charging.
	var paymentGateway gateway.Client
	if cfg.Payment.APIKey != "" {
		paymentGateway = gateway.NewClient(cfg.Payment)
		baseLogger.Info("payment gateway client enabled")
	} else {
		baseLogger.Warn("payment gateway key missing, charges will not be sent")
	}

	authService := authsvc.NewService(userRepo, cfg.Auth, baseLogger.Named("svc.auth"))
	catalogService := catalogsvc.NewService(productRepo, categoryRepo, baseLogger.Named("svc.catalog"))
	inventoryService := inventorysvc.NewService(inventoryRepo, productRepo, baseLogger.Named("svc.inventory"))
	couponService := couponsvc.NewService(couponRepo, productRepo, baseLogger.Named("svc.coupon"))
	orderService := ordersvc.NewService(orderRepo, productRepo, couponService, baseLogger.Named("svc.order"))
	paymentService := paymentsvc.NewService(paymentRepo, orderRepo, paymentGateway, baseLogger.Named("svc.payment"))
	newsletterService := newslettersvc.NewService(newsletterRepo, baseLogger.Named("svc.newsletter"))
	wishlistService := wishlistsvc.NewService(wishlistRepo, productRepo, baseLogger.Named("svc.wishlist"))
	analyticsService := analyticssvc.NewService(orderRepo, userRepo, productRepo, baseLogger.Named("svc.analytics"))
	reportingService := reportingsvc.NewService(orderRepo, userRepo, inventoryRepo, reportRepo, sheetsRepo, baseLogger.Named("svc.reporting"))

	handlerLogger := baseLogger.Named("handlers")
	engine := router.New(router.Handlers{
		Users:      handlers.NewUserHandler(authService, handlerLogger),
		Products:   handlers.NewProductHandler(catalogService, handlerLogger),
		Categories: handlers.NewCategoryHandler(catalogService, handlerLogger),
		Orders:     handlers.NewOrderHandler(orderService, handlerLogger),
		Payments:   handlers.NewPaymentHandler(paymentService, handlerLogger),
		Coupons:    handlers.NewCouponHandler(couponService, handlerLogger),
		Inventory:  handlers.NewInventoryHandler(inventoryService, handlerLogger),
		Newsletter: handlers.NewNewsletterHandler(newsletterService, handlerLogger),
		Wishlist:   handlers.NewWishlistHandler(wishlistService, handlerLogger),
		Analytics:  handlers.NewAnalyticsHandler(analyticsService, handlerLogger),
		Reports:    handlers.NewReportHandler(reportingService, handlerLogger),
	}, authService, baseLogger.Named("router"))

	sched := scheduler.NewScheduler(cfg.Reporting, reportingService, baseLogger.Named("scheduler"))
	sched.Start()
	defer sched.Stop()

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      engine,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	go func() {
		baseLogger.Info("server starting", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			baseLogger.Fatal("http server crashed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	baseLogger.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		baseLogger.Error("graceful shutdown failed", zap.Error(err))
	}
}
