package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/ecom-labs/catalog-service/internal/platform/logger"
)

// Manager holds the service's custom Prometheus metrics.
type Manager struct {
	Registry             *prometheus.Registry
	ProductsCreatedTotal prometheus.Counter
	ProductUpdatesTotal  prometheus.Counter
	ProductDeletesTotal  prometheus.Counter
	ReviewsCreatedTotal  prometheus.Counter
	ReviewUpdatesTotal   prometheus.Counter
	ReviewDeletesTotal   prometheus.Counter
	HTTPErrorsTotal      *prometheus.CounterVec
	HTTPRequestLatency   *prometheus.HistogramVec
}

// NewManager initializes and registers the catalog metrics on a private
// registry.
func NewManager(serviceName string) *Manager {
	registry := prometheus.NewRegistry()

	productsCreatedTotal := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: serviceName,
		Name:      "products_created_total",
		Help:      "Total number of products created.",
	})
	productUpdatesTotal := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: serviceName,
		Name:      "product_updates_total",
		Help:      "Total number of products updated.",
	})
	productDeletesTotal := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: serviceName,
		Name:      "product_deletes_total",
		Help:      "Total number of products deleted.",
	})
	reviewsCreatedTotal := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: serviceName,
		Name:      "reviews_created_total",
		Help:      "Total number of reviews created.",
	})
	reviewUpdatesTotal := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: serviceName,
		Name:      "review_updates_total",
		Help:      "Total number of reviews updated.",
	})
	reviewDeletesTotal := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: serviceName,
		Name:      "review_deletes_total",
		Help:      "Total number of reviews deleted.",
	})
	httpErrorsTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: serviceName,
		Name:      "http_errors_total",
		Help:      "Total number of HTTP error responses by route and status.",
	}, []string{"route", "status"})
	httpRequestLatency := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: serviceName,
		Name:      "http_request_latency_seconds",
		Help:      "Latency of HTTP requests by route.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"route", "method"})

	registry.MustRegister(
		productsCreatedTotal,
		productUpdatesTotal,
		productDeletesTotal,
		reviewsCreatedTotal,
		reviewUpdatesTotal,
		reviewDeletesTotal,
		httpErrorsTotal,
		httpRequestLatency,
		prometheus.NewGoCollector(),
		prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}),
	)

	return &Manager{
		Registry:             registry,
		ProductsCreatedTotal: productsCreatedTotal,
		ProductUpdatesTotal:  productUpdatesTotal,
		ProductDeletesTotal:  productDeletesTotal,
		ReviewsCreatedTotal:  reviewsCreatedTotal,
		ReviewUpdatesTotal:   reviewUpdatesTotal,
		ReviewDeletesTotal:   reviewDeletesTotal,
		HTTPErrorsTotal:      httpErrorsTotal,
		HTTPRequestLatency:   httpRequestLatency,
	}
}

// StartServer starts an HTTP server exposing the registry on /metrics.
func StartServer(port string, appLogger *logger.Logger, registry *prometheus.Registry) error {
	if port == "" {
		appLogger.Info("Prometheus metrics server port not configured, server will not start.")
		return nil
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))

	appLogger.Info("Prometheus metrics server starting", zap.String("port", port), zap.String("path", "/metrics"))

	server := &http.Server{
		Addr:    ":" + port,
		Handler: mux,
	}
	return server.ListenAndServe()
}
