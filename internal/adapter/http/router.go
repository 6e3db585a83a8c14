package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ecom-labs/catalog-service/internal/platform/logger"
	"github.com/ecom-labs/catalog-service/internal/platform/metrics"
)

// NewRouter wires the catalog routes with request-id, logging and
// metrics middleware.
func NewRouter(h *Handler, log *logger.Logger, m *metrics.Manager) *chi.Mux {
	mux := chi.NewRouter()

	mux.Use(RequestID)
	mux.Use(RequestLogger(log))
	mux.Use(Metrics(m))

	mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	mux.Route("/products", func(r chi.Router) {
		r.Get("/", h.HandleListProducts)
		r.Post("/", h.HandleCreateProduct)

		r.Route("/{productId}", func(r chi.Router) {
			r.Get("/", h.HandleGetProduct)
			r.Put("/", h.HandleUpdateProduct)
			r.Delete("/", h.HandleDeleteProduct)

			r.Get("/reviews", h.HandleListReviews)
			r.Post("/reviews", h.HandleCreateReview)
		})
	})

	mux.Route("/reviews/{reviewId}", func(r chi.Router) {
		r.Get("/", h.HandleGetReview)
		r.Patch("/", h.HandleUpdateReview)
		r.Delete("/", h.HandleDeleteReview)
	})

	return mux
}
