package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"cardealer/internal/config"
	"cardealer/internal/db"
	"cardealer/internal/httpserver"
	carrepo "cardealer/internal/repository/car"
	cartrepo "cardealer/internal/repository/cart"
	orderrepo "cardealer/internal/repository/order"
	userrepo "cardealer/internal/repository/user"
	authsvc "cardealer/internal/service/auth"
	cartsvc "cardealer/internal/service/cart"
	catalogsvc "cardealer/internal/service/catalog"
	imagesvc "cardealer/internal/service/image"
	ordersvc "cardealer/internal/service/order"
	usersvc "cardealer/internal/service/user"
	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()

	cfg := config.FromEnv()
	logger := log.New(os.Stdout, "[api] ", log.LstdFlags|log.LUTC|log.Lshortfile)

	if cfg.JWTSecret == "" {
		logger.Fatal("JWT_SECRET is required")
	}

	ctx := context.Background()
	dbpool, err := db.Connect(ctx, cfg.DBConnString, cfg.DBMaxConns)
	if err != nil {
		logger.Fatalf("connect to db: %v", err)
	}
	defer dbpool.Close()

	userRepo := userrepo.NewPostgres(dbpool, logger)
	carRepo := carrepo.NewPostgres(dbpool, logger)
	cartRepo := cartrepo.NewPostgres(dbpool)
	orderRepo := orderrepo.NewPostgres(dbpool, logger)

	tokens := authsvc.NewTokenManager(cfg.JWTSecret, cfg.TokenTTL)
	authService := authsvc.New(userRepo, tokens)
	userService := usersvc.New(userRepo)
	catalogService := catalogsvc.New(carRepo)
	cartService := cartsvc.New(cartRepo, carRepo)
	orderService := ordersvc.New(orderRepo, carRepo, userRepo)
	imageService := imagesvc.New(carRepo, imagesvc.NewPexelsClient(cfg.PexelsAPIKey), cfg.ImageFillDelay, logger)

	srv, err := httpserver.New(cfg.HTTPAddr, logger, dbpool, httpserver.Deps{
		Tokens:     tokens,
		AuthSvc:    authService,
		UserSvc:    userService,
		CatalogSvc: catalogService,
		CartSvc:    cartService,
		OrderSvc:   orderService,
		ImageSvc:   imageService,
	}, cfg.CORSOrigins)
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
