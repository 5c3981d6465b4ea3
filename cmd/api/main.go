package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/omerharel/minuteflow/internal/adapter/handler"
	"github.com/omerharel/minuteflow/internal/adapter/repository"
	"github.com/omerharel/minuteflow/internal/infrastructure/database"
	"github.com/omerharel/minuteflow/internal/usecase/fetch"
	"github.com/omerharel/minuteflow/internal/usecase/pipeline"
	"github.com/omerharel/minuteflow/internal/usecase/record"
	"github.com/omerharel/minuteflow/internal/usecase/summary"
	"github.com/omerharel/minuteflow/pkg/artifact"
	"github.com/omerharel/minuteflow/pkg/config"
	"github.com/omerharel/minuteflow/pkg/fathom"
	"github.com/omerharel/minuteflow/pkg/gemini"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// The server refuses to start without a webhook secret: an unsigned
	// endpoint would accept forged deliveries.
	if cfg.Webhook.Secret == "" {
		log.Fatalf("FATHOM_WEBHOOK_SECRET is required to run the webhook server")
	}

	// Initialize Echo instance
	e := echo.New()

	// Configure Echo
	e.HideBanner = true
	e.HidePort = false

	// Custom logger format
	e.Use(middleware.LoggerWithConfig(middleware.LoggerConfig{
		Format: "${time_rfc3339} | ${status} | ${method} ${uri} | ${latency_human}\n",
	}))

	// Recover from panics
	e.Use(middleware.Recover())

	// Inline-transcript payloads can be large, but not unbounded
	e.Use(middleware.BodyLimit("10M"))

	// Initialize dependencies
	log.Println("Initializing dependencies...")

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	// Initialize Database
	log.Println("Connecting to database...")
	db, err := database.NewPostgresDB(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.CloseDB(db)

	log.Println("Applying schema migrations...")
	if err := database.Migrate(db); err != nil {
		log.Fatalf("Failed to apply migrations: %v", err)
	}

	// Initialize artifact store with optional object-storage archive
	var archiver artifact.Archiver
	if cfg.Artifact.MinioEnabled {
		log.Println("Connecting to MinIO artifact archive...")
		archive, err := artifact.NewMinIOArchive(context.Background(), &cfg.Artifact.MinioConfig)
		if err != nil {
			log.Fatalf("Failed to initialize MinIO archive: %v", err)
		}
		archiver = archive
	}
	artifacts := artifact.NewStore(cfg.Artifact.Dir, archiver, logger)

	// Initialize repositories
	recordRepo := repository.NewRecordRepository(db)

	// Initialize pipeline stages
	fathomClient := fathom.NewClient(&cfg.Fathom)
	geminiClient := gemini.NewClient(&cfg.Gemini)

	fetcher := fetch.NewFetcher(fathomClient, artifacts, logger)
	summarizer := summary.NewGenerator(geminiClient, artifacts, logger)
	recorder := record.NewLogger(recordRepo, "", logger)

	orchestrator := pipeline.NewOrchestrator(fetcher, summarizer, recorder, artifacts, logger)

	// Initialize webhook handler
	webhookHandler := handler.NewWebhookHandler(orchestrator, cfg.Webhook.Secret, logger)

	// Setup router with handlers
	router := handler.NewRouter(cfg, webhookHandler)
	router.Setup(e)

	// Start server
	go func() {
		addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
		log.Printf("Starting server on %s", addr)
		log.Printf("Environment: %s", cfg.Server.Environment)

		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Server.ShutdownTimeout)*time.Second)
	defer cancel()

	if err := e.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server stopped gracefully")
}
