package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"orderflow/cmd"
	httpserver "orderflow/internal/adapters/in/http"
	"orderflow/internal/adapters/out/postgres/orderrepo"
	"orderflow/internal/pkg/metrics"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	config := getConfigs(logger)

	gormDB, err := openDatabase(config)
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}

	if err = gormDB.AutoMigrate(&orderrepo.OrderDTO{}); err != nil {
		logger.Error("Failed to run migrations", "error", err)
		os.Exit(1)
	}

	root := cmd.NewCompositionRoot(config, gormDB, logger)

	jobManager := root.CreateJobManager()
	if err = jobManager.StartAll(); err != nil {
		logger.Error("Failed to start background jobs", "error", err)
		os.Exit(1)
	}

	e := buildEcho(&root)

	go func() {
		if serveErr := e.Start("0.0.0.0:" + config.HTTPPort); serveErr != nil && serveErr != http.ErrServerClosed {
			logger.Error("HTTP server stopped", "error", serveErr)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err = e.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server shutdown failed", "error", err)
	}

	jobManager.StopAll()

	if err = root.ClosePublisher(); err != nil {
		logger.Error("Failed to close event publisher", "error", err)
	}
}

func buildEcho(root *cmd.CompositionRoot) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Logger.SetLevel(log.WARN)

	e.GET("/health", func(c echo.Context) error {
		return c.String(http.StatusOK, "Healthy")
	})
	e.GET("/metrics", echo.WrapHandler(metrics.Handler()))

	server := httpserver.NewServer(
		root.CreateCreateOrderCommandHandler(),
		root.CreateTransitionOrderCommandHandler(),
		root.CreateGetOrderQueryHandler(),
		root.CreateGetClientOrdersQueryHandler(),
	)
	server.RegisterRoutes(e)

	return e
}

func openDatabase(config cmd.Config) (*gorm.DB, error) {
	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		config.DBHost,
		config.DBPort,
		config.DBUser,
		config.DBPassword,
		config.DBName,
		config.DBSslMode,
	)

	return gorm.Open(postgres.Open(dsn), &gorm.Config{})
}

func getConfigs(logger *slog.Logger) cmd.Config {
	if err := godotenv.Load(".env"); err != nil {
		logger.Info("No .env file found, using environment variables")
	}

	return cmd.Config{
		HTTPPort:               envOrDefault("HTTP_PORT", "8080"),
		DBHost:                 envOrDefault("DB_HOST", "localhost"),
		DBPort:                 envOrDefault("DB_PORT", "5432"),
		DBUser:                 envOrDefault("DB_USER", "postgres"),
		DBPassword:             envOrDefault("DB_PASSWORD", "postgres"),
		DBName:                 envOrDefault("DB_NAME", "orders"),
		DBSslMode:              envOrDefault("DB_SSLMODE", "disable"),
		KafkaHost:              envOrDefault("KAFKA_HOST", "localhost:9092"),
		KafkaOrderChangedTopic: envOrDefault("KAFKA_ORDER_CHANGED_TOPIC", "order.status.changed"),
		ProductServiceURL:      envOrDefault("PRODUCT_SERVICE_URL", "http://localhost:8081"),
		ReconcileInterval:      durationOrDefault("RECONCILE_INTERVAL", 30*time.Second, logger),
		UpstreamTimeout:        durationOrDefault("UPSTREAM_TIMEOUT", 3*time.Second, logger),
	}
}

func envOrDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func durationOrDefault(key string, fallback time.Duration, logger *slog.Logger) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}

	parsed, err := time.ParseDuration(value)
	if err != nil {
		logger.Warn("Invalid duration, using default", "key", key, "value", value, "default", fallback.String())
		return fallback
	}
	return parsed
}
