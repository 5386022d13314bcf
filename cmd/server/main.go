package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	mongorepo "github.com/brightcrm/customer-service/internal/adapter/repository"
	"github.com/brightcrm/customer-service/internal/config"
	"github.com/brightcrm/customer-service/internal/infrastructure/database"
	httpServer "github.com/brightcrm/customer-service/internal/infrastructure/http"
	"github.com/brightcrm/customer-service/internal/infrastructure/storage"
	"github.com/brightcrm/customer-service/internal/usecase"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	// Initialize MongoDB connection
	client, err := database.Connect(&cfg.MongoDB, logger)
	if err != nil {
		logger.Fatal("Failed to connect to MongoDB", zap.Error(err))
	}
	defer func() {
		if err := database.Close(client, logger); err != nil {
			logger.Error("Failed to close MongoDB connection", zap.Error(err))
		}
	}()

	db := client.Database(cfg.MongoDB.Database)
	if err := mongorepo.EnsureIndexes(context.Background(), db); err != nil {
		logger.Fatal("Failed to ensure indexes", zap.Error(err))
	}

	// Initialize media storage
	s3Client, err := storage.NewClient(context.Background(), &cfg.S3)
	if err != nil {
		logger.Fatal("Failed to initialize S3 client", zap.Error(err))
	}
	mediaStorage := storage.NewS3Storage(s3Client, cfg.S3.BucketName, cfg.S3.Region, logger)

	// Initialize service and server
	customerRepo := mongorepo.NewCustomerRepository(db, logger)
	customerService := usecase.NewCustomerService(customerRepo, mediaStorage, logger)
	srv := httpServer.NewServer(cfg, logger, customerService)

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Failed to start HTTP server", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	logger.Info("Shutting down server...")

	if err := srv.Shutdown(context.Background()); err != nil {
		logger.Error("Failed to shutdown HTTP server", zap.Error(err))
	}

	logger.Info("Server shut down successfully")
}
