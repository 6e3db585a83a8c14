package config

import (
	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/ecom-labs/catalog-service/internal/platform/logger"
)

// Config holds all configuration for the service.
type Config struct {
	ServiceName            string `mapstructure:"SERVICE_NAME" validate:"required"`
	HTTPPort               string `mapstructure:"HTTP_PORT" validate:"required"`
	MongoURI               string `mapstructure:"MONGO_URI" validate:"required"`
	MongoDatabase          string `mapstructure:"MONGO_DATABASE" validate:"required"`
	NATSURL                string `mapstructure:"NATS_URL"`
	PrometheusMetricsPort  string `mapstructure:"PROMETHEUS_METRICS_PORT"`
	LogLevel               string `mapstructure:"LOG_LEVEL"`
	LogFormat              string `mapstructure:"LOG_FORMAT"`
	OTExporterOTLPEndpoint string `mapstructure:"OTEL_EXPORTER_OTLP_ENDPOINT"`
}

// Load reads configuration from environment variables, with defaults,
// and validates the result.
func Load(appLogger *logger.Logger) (*Config, error) {
	viper.SetDefault("SERVICE_NAME", "catalog-service")
	viper.SetDefault("HTTP_PORT", "8080")
	viper.SetDefault("MONGO_URI", "mongodb://localhost:27017")
	viper.SetDefault("MONGO_DATABASE", "product_catalog")
	viper.SetDefault("NATS_URL", "nats://localhost:4222")
	viper.SetDefault("PROMETHEUS_METRICS_PORT", "9091")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("LOG_FORMAT", "json")
	viper.SetDefault("OTEL_EXPORTER_OTLP_ENDPOINT", "")

	viper.AutomaticEnv()

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		appLogger.Error("Failed to unmarshal configuration", zap.Error(err))
		return nil, err
	}

	if err := validator.New().Struct(&cfg); err != nil {
		appLogger.Error("Configuration validation failed", zap.Error(err))
		return nil, err
	}

	appLogger.Debug("Configuration loaded",
		zap.String("service_name", cfg.ServiceName),
		zap.String("http_port", cfg.HTTPPort),
		zap.Bool("mongo_uri_present", cfg.MongoURI != ""),
		zap.String("mongo_database", cfg.MongoDatabase),
		zap.String("nats_url", cfg.NATSURL),
		zap.String("prometheus_port", cfg.PrometheusMetricsPort),
		zap.String("log_level", cfg.LogLevel),
		zap.String("otel_endpoint", cfg.OTExporterOTLPEndpoint),
	)

	return &cfg, nil
}
