package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/villagestay/villagestay/internal/config"
	"github.com/villagestay/villagestay/internal/database"
	"github.com/villagestay/villagestay/internal/handlers"
	"github.com/villagestay/villagestay/internal/middleware"
	"github.com/villagestay/villagestay/internal/models"
	"github.com/villagestay/villagestay/internal/proxy"
	"github.com/villagestay/villagestay/internal/router"
	"github.com/villagestay/villagestay/internal/seed"
	"github.com/villagestay/villagestay/internal/services"
	"github.com/villagestay/villagestay/internal/store"
	"github.com/villagestay/villagestay/pkg/logger"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment")
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger.Init(cfg.LogLevel, cfg.AppEnv)
	defer logger.Sync()

	logger.Info("Starting VillageStay+ server...")

	if err := cfg.ValidateProductionSecurity(); err != nil {
		logger.Fatal("Production security validation failed", err)
	}

	fixtures, err := loadFixtures(cfg)
	if err != nil {
		logger.Fatal("Failed to load fixtures", err)
	}

	st, err := store.New(fixtures)
	if err != nil {
		logger.Fatal("Failed to build registry", err)
	}
	stats := st.Stats()
	logger.Info("Registry ready", "source", cfg.FixtureSource, "villages", stats.Villages,
		"internships", stats.Internships, "bookings", stats.Bookings, "kirana_stores", stats.KiranaStores)

	sessions, err := services.NewSessionService(st, services.SessionOptions{
		JWTSecret:          cfg.JWTSecret,
		LoginGrantCoins:    cfg.LoginGrantCoins,
		ListingRewardCoins: cfg.ListingRewardCoins,
	})
	if err != nil {
		logger.Fatal("Failed to initialize sessions", err)
	}

	h := handlers.NewHandlerManager(cfg, st, sessions, services.NewCommunityService(st))

	rl := middleware.NewRateLimiter(cfg.RateLimitPerUser, cfg.RateLimitPerIP, time.Minute)
	defer rl.Close()

	p := proxy.New(cfg.MicroserviceURL, cfg.MicroserviceSecret, cfg.GetProxyTimeout())
	defer p.Close()

	e := router.New(h, p, rl)

	go func() {
		addr := ":" + cfg.AppPort
		logger.Info("HTTP server listening", "addr", addr, "env", cfg.AppEnv)
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("HTTP server stopped", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down gracefully...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		logger.Error("Shutdown failed", "error", err)
	}
	logger.Info("Server stopped")
}

func loadFixtures(cfg *config.Config) (models.Fixtures, error) {
	switch cfg.FixtureSource {
	case config.FixtureSourceExcel:
		return seed.FromExcel(cfg.FixturePath)
	case config.FixtureSourcePostgres:
		db, err := database.Connect(cfg)
		if err != nil {
			return models.Fixtures{}, err
		}
		if sqlDB, err := db.DB(); err == nil {
			defer sqlDB.Close()
		}
		return database.LoadFixtures(db)
	default:
		return seed.Embedded()
	}
}
