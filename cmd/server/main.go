package main

import (
	"database/sql"
	"flag"
	"log"
	"net/http"
	"time"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"

	httpapi "auron-backend/internal/api/http"
	"auron-backend/internal/config"
	"auron-backend/internal/logger"
	"auron-backend/internal/repository/postgres"
	"auron-backend/internal/security"
	"auron-backend/internal/service"
)

func main() {
	// Load .env for local development; real deployments set env vars directly
	_ = godotenv.Load()

	// Parse command-line flags
	configPath := flag.String("config", "config/config.yaml", "Path to configuration file")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	logger.Initialize(cfg.Log.Level, cfg.Log.Format)
	logger.Info("Starting Auron backend...", "log_level", cfg.Log.Level, "log_format", cfg.Log.Format)
	logger.Info("Server configuration", "address", cfg.GetServerAddress(), "environment", cfg.Server.Environment)
	logger.Info("Database configuration", "host", cfg.Database.Host, "port", cfg.Database.Port, "database", cfg.Database.Database, "user", cfg.Database.User)

	// Initialize Database
	db, err := sql.Open("postgres", cfg.GetDatabaseConnectionString())
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Test database connection
	if err := db.Ping(); err != nil {
		logger.Error("Failed to ping database", "error", err)
		log.Fatalf("Failed to ping database: %v", err)
	}
	logger.Info("Database connection established")

	// Initialize Repositories
	store := postgres.NewStore(db)

	// Initialize Security
	tokenManager := security.NewTokenManager(cfg.Auth.JWTSecret)
	adminGuard := security.NewAdminGuard(cfg.Admin.APIKey)

	// Initialize Services
	emailSvc := service.NewEmailService(
		cfg.SendGrid.APIKey,
		cfg.SendGrid.FromEmail,
		cfg.SendGrid.FromName,
	)
	lifecycleSvc := service.NewLifecycleService(
		store.AccessRequestRepository,
		store.AllowlistRepository,
		store,
		emailSvc,
		cfg.Auth.BaseURL+"/start",
		cfg.Auth.DefaultNext,
	)
	authSvc := service.NewAuthService(
		store.AllowlistRepository,
		store.LoginTokenRepository,
		emailSvc,
		tokenManager,
		cfg.Auth.BaseURL,
		time.Duration(cfg.Auth.LinkTTLHours)*time.Hour,
		time.Duration(cfg.Auth.SessionTTLHours)*time.Hour,
	)
	intakeSvc := service.NewIntakeService(store.AccessRequestRepository)

	// Initialize HTTP handlers
	intakeHandler := httpapi.NewIntakeHandler(intakeSvc, authSvc)
	authHandler := httpapi.NewAuthHandler(
		authSvc,
		time.Duration(cfg.Auth.SessionTTLHours)*time.Hour,
		cfg.Auth.DefaultNext,
		cfg.IsProduction(),
	)
	adminHandler := httpapi.NewAdminHandler(
		lifecycleSvc,
		adminGuard,
		tokenManager,
		time.Duration(cfg.Admin.SessionTTLHours)*time.Hour,
		cfg.IsProduction(),
	)

	// Assemble router; the session gate wraps everything so protected pages
	// redirect to the sign-in screen before any route matching happens
	router := httpapi.NewRouter(intakeHandler, authHandler, adminHandler, tokenManager)
	handler := httpapi.SessionGate(tokenManager, router)

	logger.Info("HTTP server listening", "address", cfg.GetServerAddress())
	if err := http.ListenAndServe(cfg.GetServerAddress(), handler); err != nil {
		logger.Error("HTTP server error", "error", err)
		log.Fatalf("Failed to serve: %v", err)
	}
}
