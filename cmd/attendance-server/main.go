package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/fieldsnap/attendance/internal/config"
	"github.com/fieldsnap/attendance/internal/database"
	"github.com/fieldsnap/attendance/internal/handler"
	"github.com/fieldsnap/attendance/internal/logger"
	"github.com/fieldsnap/attendance/internal/repository"
	"github.com/fieldsnap/attendance/internal/router"
	"github.com/fieldsnap/attendance/internal/service"
)

func main() {
	// Parse command line flags
	configPath := flag.String("config", "config/local.yaml", "Path to configuration file")
	flag.Parse()

	// Load configuration
	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log, err := logger.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	log.Info("Starting attendance service",
		zap.String("env", cfg.Env),
		zap.String("config_path", *configPath),
	)

	// Initialize database
	db, err := database.New(cfg.StoragePath, log.Logger)
	if err != nil {
		log.Fatal("Failed to initialize database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Failed to close database", zap.Error(err))
		}
	}()

	// Initialize repositories
	eventRepo := repository.NewEventRepository(db.DB)
	locationRepo := repository.NewLocationRepository(db.DB)

	// Initialize services
	ingestService := service.NewIngestService(eventRepo, locationRepo, log.Logger)
	reportService := service.NewReportService(
		eventRepo,
		locationRepo,
		log.Logger,
		cfg.Report.DefaultTimezone,
		cfg.Report.FetchSlackHours,
	)

	// Initialize handlers and router
	eventHandler := handler.NewEventHandler(ingestService, log.Logger)
	reportHandler := handler.NewReportHandler(reportService, log.Logger)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      router.New(eventHandler, reportHandler, log.Logger),
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	// Start HTTP server in goroutine
	go func() {
		log.Info("HTTP server listening",
			zap.String("address", addr),
			zap.String("default_timezone", cfg.Report.DefaultTimezone),
		)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	sig := <-quit
	log.Info("Received shutdown signal", zap.String("signal", sig.String()))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Warn("HTTP server shutdown error", zap.Error(err))
	}

	log.Info("Attendance service stopped")
}
