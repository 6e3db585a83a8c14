package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	httpAdapter "github.com/ecom-labs/catalog-service/internal/adapter/http"
	natsAdapter "github.com/ecom-labs/catalog-service/internal/adapter/messaging/nats"
	mongoRepo "github.com/ecom-labs/catalog-service/internal/adapter/repository/mongodb"
	"github.com/ecom-labs/catalog-service/internal/config"
	"github.com/ecom-labs/catalog-service/internal/platform/logger"
	"github.com/ecom-labs/catalog-service/internal/platform/metrics"
	"github.com/ecom-labs/catalog-service/internal/platform/tracer"
	"github.com/ecom-labs/catalog-service/internal/usecase"
)

const serviceName = "catalog-service"

func main() {
	// .env is optional, for local development.
	if err := godotenv.Load(); err != nil {
		fmt.Printf("INFO: .env file not found or error loading: %v. Relying on OS environment variables.\n", err)
	}

	appLogger := logger.New()
	appLogger.Info("Application starting...", zap.String("service_name", serviceName))

	cfg, err := config.Load(appLogger)
	if err != nil {
		appLogger.Fatal("Failed to load configuration", zap.Error(err))
	}

	tp := tracer.Init(serviceName, cfg.OTExporterOTLPEndpoint, appLogger)
	defer func() {
		ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancelShutdown()
		if err := tp.Shutdown(ctxShutdown); err != nil {
			appLogger.Error("Failed to shutdown tracer provider", zap.Error(err))
		}
	}()

	// The mongo client is process-wide shared state: created once here,
	// injected into the repository, reused for every request.
	mongoClient, err := mongo.Connect(context.Background(), options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		appLogger.Fatal("Failed to connect to MongoDB", zap.Error(err))
	}
	defer func() {
		if err := mongoClient.Disconnect(context.Background()); err != nil {
			appLogger.Error("Error disconnecting from MongoDB", zap.Error(err))
		}
	}()

	ctxPing, cancelPing := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelPing()
	if err := mongoClient.Ping(ctxPing, nil); err != nil {
		appLogger.Fatal("Failed to ping MongoDB", zap.Error(err))
	}
	appLogger.Info("Connected to MongoDB")
	db := mongoClient.Database(cfg.MongoDatabase)

	natsPublisher, err := natsAdapter.NewPublisher(cfg.NATSURL, appLogger, serviceName)
	if err != nil {
		appLogger.Fatal("Failed to initialize NATS publisher", zap.Error(err))
	}
	defer natsPublisher.Close()

	productRepo, err := mongoRepo.NewProductRepository(db, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to initialize ProductRepository", zap.Error(err))
	}

	aggregator := usecase.NewRatingAggregator(productRepo, appLogger)
	productUsecase := usecase.NewProductUsecase(productRepo, natsPublisher, appLogger)
	reviewUsecase := usecase.NewReviewUsecase(productRepo, aggregator, natsPublisher, appLogger)
	appLogger.Info("Usecases initialized")

	metricsManager := metrics.NewManager("catalog_service")

	handler := httpAdapter.NewHandler(productUsecase, reviewUsecase, metricsManager, appLogger)
	router := httpAdapter.NewRouter(handler, appLogger, metricsManager)

	server := &http.Server{
		Addr:    ":" + cfg.HTTPPort,
		Handler: router,
	}

	go func() {
		appLogger.Info("Starting HTTP server", zap.String("port", cfg.HTTPPort))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLogger.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	if cfg.PrometheusMetricsPort != "" {
		go func() {
			if err := metrics.StartServer(cfg.PrometheusMetricsPort, appLogger, metricsManager.Registry); err != nil && !errors.Is(err, http.ErrServerClosed) {
				appLogger.Error("Prometheus metrics server failed", zap.Error(err))
			}
		}()
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	appLogger.Info("Received shutdown signal", zap.String("signal", sig.String()))

	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelShutdown()
	if err := server.Shutdown(ctxShutdown); err != nil {
		appLogger.Error("HTTP server shutdown error", zap.Error(err))
	}
	appLogger.Info("Application shut down")
}
