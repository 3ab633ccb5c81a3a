package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"plan-marketplace/internal/auth"
	"plan-marketplace/internal/cache"
	"plan-marketplace/internal/client"
	"plan-marketplace/internal/config"
	"plan-marketplace/internal/logger"
	"plan-marketplace/internal/payment"
	"plan-marketplace/internal/repository"
	"plan-marketplace/internal/server"
	"plan-marketplace/internal/service"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

func main() {
	// load .env into os.Environ
	if err := godotenv.Load(); err != nil {
		fmt.Println("No .env file found (ok in prod)")
	}

	cfg := &config.Config{}
	if err := env.Parse(cfg); err != nil {
		fmt.Printf("Failed to parse config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg.Log)
	if err := run(cfg, log); err != nil {
		log.Error("server exited", slog.Any("error", err))
		os.Exit(1)
	}
}

func run(cfg *config.Config, log *slog.Logger) error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	db, err := client.ConnectMongoDB(ctx, cfg.Mongo.URI, cfg.Mongo.Database)
	if err != nil {
		return err
	}
	defer func() {
		if err := db.Client().Disconnect(context.Background()); err != nil {
			log.Warn("disconnect mongo", slog.Any("error", err))
		}
	}()
	if err := repository.EnsureIndexes(ctx, db); err != nil {
		return err
	}

	redisClient, err := client.NewRedisClient(ctx, cfg.Redis)
	if err != nil {
		return err
	}
	defer redisClient.Close()

	auditDB, err := client.InitAuditDB(cfg.AuditDB)
	if err != nil {
		return err
	}
	if sqlDB, err := auditDB.DB(); err == nil {
		defer sqlDB.Close()
	}

	store, err := client.NewS3ObjectStore(ctx, cfg.Storage)
	if err != nil {
		return err
	}

	signer := payment.NewPhonePeSigner(cfg.PhonePe.SaltKey, cfg.PhonePe.SaltIndex)
	paypalClient := client.NewPaypalClient(&cfg.Paypal)
	razorpayClient := client.NewRazorpayClient(&cfg.Razorpay)
	phonePeClient := client.NewPhonePeClient(&cfg.PhonePe, signer)

	userRepo := repository.NewUserRepository(db)
	productRepo := repository.NewProductRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	cartRepo := repository.NewCartRepository(db)
	wishlistRepo := repository.NewWishlistRepository(db)
	inquiryRepo := repository.NewInquiryRepository(db)
	blogRepo := repository.NewBlogRepository(db)
	galleryRepo := repository.NewGalleryRepository(db)
	eventRepo := repository.NewPaymentEventRepository(auditDB)

	redirectURL := cfg.PhonePe.RedirectURL
	if redirectURL == "" {
		redirectURL = cfg.FrontendURL + "/order/{orderId}"
	}

	orderService := service.NewOrderService(orderRepo, productRepo, log)
	paymentService := service.NewPaymentService(
		orderService,
		orderRepo,
		eventRepo,
		service.Verifiers{
			Razorpay: payment.NewRazorpayVerifier(cfg.Razorpay.KeySecret),
			Paypal:   payment.NewPaypalVerifier(paypalClient, cfg.Paypal.VerifyCapture),
			PhonePe:  payment.NewPhonePeVerifier(signer),
			Manual:   payment.NewManualVerifier(),
		},
		razorpayClient,
		phonePeClient,
		service.PhonePeURLs{
			RedirectURL: redirectURL,
			CallbackURL: cfg.BaseURL + "/api/payments/phonepe/callback",
		},
		log,
	)

	tokens := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	services := server.Services{
		User:     service.NewUserService(userRepo, tokens, log),
		Catalog:  service.NewCatalogService(productRepo, cache.NewRedisCache(redisClient), log),
		Order:    orderService,
		Payment:  paymentService,
		Cart:     service.NewCartService(cartRepo, productRepo),
		Wishlist: service.NewWishlistService(wishlistRepo, productRepo),
		Inquiry:  service.NewInquiryService(inquiryRepo, log),
		Blog:     service.NewBlogService(blogRepo),
		Gallery:  service.NewGalleryService(galleryRepo, store, log),
		Report:   service.NewReportService(userRepo, productRepo, orderRepo, inquiryRepo),
	}

	srv := server.NewServer(services, tokens, store, []string{cfg.FrontendURL}, log)

	serverAddr := cfg.HTTP.Host + ":" + cfg.HTTP.Port
	errCh := make(chan error, 1)

	log.Info("starting HTTP server", slog.String("addr", serverAddr), slog.String("env", cfg.Environment.Name))
	go func() {
		if err := srv.Start(serverAddr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGINT)

	select {
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	case sig := <-sigChan:
		log.Info("signal received, starting graceful shutdown", slog.String("signal", sig.String()))
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http server shutdown: %w", err)
	}
	return nil
}
