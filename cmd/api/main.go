package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"quickbites-backend/internal/cache"
	"quickbites-backend/internal/config"
	"quickbites-backend/internal/db"
	"quickbites-backend/internal/httpserver"
	gateway "quickbites-backend/internal/payment"
	cartrepo "quickbites-backend/internal/repository/cart"
	menurepo "quickbites-backend/internal/repository/menu"
	orderrepo "quickbites-backend/internal/repository/order"
	cartsvc "quickbites-backend/internal/service/cart"
	checkoutsvc "quickbites-backend/internal/service/checkout"
	menusvc "quickbites-backend/internal/service/menu"
	ordersvc "quickbites-backend/internal/service/order"
	paymentsvc "quickbites-backend/internal/service/payment"

	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()
	cfg := config.FromEnv()
	logger := log.New(os.Stdout, "[api] ", log.LstdFlags|log.LUTC|log.Lshortfile)

	ctx := context.Background()
	dbpool, err := db.Connect(ctx, cfg.DBConnString)
	if err != nil {
		logger.Fatalf("connect to db: %v", err)
	}
	defer dbpool.Close()

	var menuCache cache.Cache
	if cfg.RedisAddr != "" {
		menuCache = cache.NewRedis(cfg.RedisAddr, "menu")
	}

	menuRepo := menurepo.NewPostgres(dbpool, logger)
	cartRepo := cartrepo.NewPostgres(dbpool)
	orderRepo := orderrepo.NewPostgres(dbpool, logger)

	menuService := menusvc.New(menuRepo, menuCache, cfg.MenuCacheTTL, logger)
	cartService := cartsvc.New(cartRepo, menuService)
	checkoutService := checkoutsvc.New(cartRepo, orderRepo, menuService)
	orderService := ordersvc.New(orderRepo, cartRepo, logger)
	processor := gateway.NewStripe(cfg.StripeAPIURL, cfg.StripeSecretKey, cfg.StripeWebhookSecret)
	paymentService := paymentsvc.New(orderRepo, orderService, cartRepo, processor, cfg.Currency, logger)

	srv, err := httpserver.New(cfg.HTTPAddr, logger, dbpool, httpserver.Deps{
		MenuSvc:     menuService,
		CartSvc:     cartService,
		CheckoutSvc: checkoutService,
		OrderSvc:    orderService,
		PaymentSvc:  paymentService,
		JWTSecret:   cfg.JWTSecret,
	})
	if err != nil {
		logger.Fatalf("init server: %v", err)
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Printf("starting http server on %s", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	stopCh := make(chan os.Signal, 1)
	signal.Notify(stopCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-stopCh:
		logger.Printf("received signal %s, shutting down", sig)
	case err := <-serverErr:
		logger.Printf("server error: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Printf("graceful shutdown failed: %v", err)
	} else {
		logger.Printf("server stopped")
	}
}
