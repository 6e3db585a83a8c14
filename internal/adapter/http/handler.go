// Package http is the thin route glue over the catalog data layer: it
// decodes request bodies, calls the usecases, and maps typed errors to
// status codes. It knows nothing about validation rules or persistence.
package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/ecom-labs/catalog-service/internal/domain"
	"github.com/ecom-labs/catalog-service/internal/platform/logger"
	"github.com/ecom-labs/catalog-service/internal/platform/metrics"
	"github.com/ecom-labs/catalog-service/internal/usecase"
)

// Handler exposes the catalog usecases over HTTP.
type Handler struct {
	products *usecase.ProductUsecase
	reviews  *usecase.ReviewUsecase
	metrics  *metrics.Manager
	validate *validator.Validate
	logger   *logger.Logger
}

// NewHandler creates the HTTP handler set.
func NewHandler(products *usecase.ProductUsecase, reviews *usecase.ReviewUsecase, m *metrics.Manager, log *logger.Logger) *Handler {
	return &Handler{
		products: products,
		reviews:  reviews,
		metrics:  m,
		validate: validator.New(),
		logger:   log.Named("HTTPHandler"),
	}
}

func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if payload != nil {
		_ = json.NewEncoder(w).Encode(payload)
	}
}

// respondWithError maps the typed error taxonomy to status codes:
// validation and id errors are the caller's fault (400), a missing
// entity is 404, and persistence faults are server errors (500).
func (h *Handler) respondWithError(w http.ResponseWriter, err error) {
	var (
		validationErr *domain.ValidationError
		invalidIDErr  *domain.InvalidIDError
		notFoundErr   *domain.NotFoundError
	)
	switch {
	case errors.As(err, &validationErr), errors.As(err, &invalidIDErr):
		respondWithJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
	case errors.As(err, &notFoundErr):
		respondWithJSON(w, http.StatusNotFound, map[string]string{"error": err.Error()})
	default:
		h.logger.Error("Request failed with server-side error", zap.Error(err))
		respondWithJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
}

func decodeBody(r *http.Request) (map[string]interface{}, error) {
	var body map[string]interface{}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		return nil, domain.NewValidationError("body", "request body must be a JSON object")
	}
	return body, nil
}

// HandleListProducts returns the {id, productName} listing of all
// products.
func (h *Handler) HandleListProducts(w http.ResponseWriter, r *http.Request) {
	summaries, err := h.products.GetAll(r.Context())
	if err != nil {
		h.respondWithError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, summaries)
}

// HandleCreateProduct creates a product from the request body.
func (h *Handler) HandleCreateProduct(w http.ResponseWriter, r *http.Request) {
	body, err := decodeBody(r)
	if err != nil {
		h.respondWithError(w, err)
		return
	}
	if len(body) == 0 {
		h.respondWithError(w, domain.NewValidationError("body", "request body must not be empty"))
		return
	}

	product, err := h.products.Create(r.Context(), body)
	if err != nil {
		h.respondWithError(w, err)
		return
	}
	if h.metrics != nil {
		h.metrics.ProductsCreatedTotal.Inc()
	}
	respondWithJSON(w, http.StatusOK, product)
}

// HandleGetProduct returns one full product document.
func (h *Handler) HandleGetProduct(w http.ResponseWriter, r *http.Request) {
	product, err := h.products.Get(r.Context(), chi.URLParam(r, "productId"))
	if err != nil {
		h.respondWithError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, product)
}

// HandleUpdateProduct replaces every mutable field of a product.
func (h *Handler) HandleUpdateProduct(w http.ResponseWriter, r *http.Request) {
	body, err := decodeBody(r)
	if err != nil {
		h.respondWithError(w, err)
		return
	}
	if len(body) == 0 {
		h.respondWithError(w, domain.NewValidationError("body", "request body must not be empty"))
		return
	}

	product, err := h.products.Update(r.Context(), chi.URLParam(r, "productId"), body)
	if err != nil {
		h.respondWithError(w, err)
		return
	}
	if h.metrics != nil {
		h.metrics.ProductUpdatesTotal.Inc()
	}
	respondWithJSON(w, http.StatusOK, product)
}

// HandleDeleteProduct removes a product and confirms the deletion.
func (h *Handler) HandleDeleteProduct(w http.ResponseWriter, r *http.Request) {
	product, err := h.products.Remove(r.Context(), chi.URLParam(r, "productId"))
	if err != nil {
		h.respondWithError(w, err)
		return
	}
	if h.metrics != nil {
		h.metrics.ProductDeletesTotal.Inc()
	}
	respondWithJSON(w, http.StatusOK, map[string]interface{}{"_id": product.ID, "deleted": true})
}

// HandleListReviews returns the review list of a product, possibly
// empty.
func (h *Handler) HandleListReviews(w http.ResponseWriter, r *http.Request) {
	reviews, err := h.reviews.GetAllReviews(r.Context(), chi.URLParam(r, "productId"))
	if err != nil {
		h.respondWithError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, reviews)
}

type createReviewRequest struct {
	Title        string  `json:"title" validate:"required"`
	ReviewerName string  `json:"reviewerName" validate:"required"`
	Review       string  `json:"review" validate:"required"`
	Rating       float64 `json:"rating" validate:"required"`
}

// HandleCreateReview appends a new review to a product.
func (h *Handler) HandleCreateReview(w http.ResponseWriter, r *http.Request) {
	var req createReviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondWithError(w, domain.NewValidationError("body", "request body must be a JSON object"))
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		h.respondWithError(w, domain.NewValidationError("body", "missing required review fields"))
		return
	}

	review, err := h.reviews.CreateReview(r.Context(), chi.URLParam(r, "productId"),
		req.Title, req.ReviewerName, req.Review, req.Rating)
	if err != nil {
		h.respondWithError(w, err)
		return
	}
	if h.metrics != nil {
		h.metrics.ReviewsCreatedTotal.Inc()
	}
	respondWithJSON(w, http.StatusOK, review)
}

// HandleGetReview returns one review subdocument, located across all
// products.
func (h *Handler) HandleGetReview(w http.ResponseWriter, r *http.Request) {
	review, err := h.reviews.GetReview(r.Context(), chi.URLParam(r, "reviewId"))
	if err != nil {
		h.respondWithError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, review)
}

// HandleUpdateReview applies a partial review update and returns the
// refreshed parent product.
func (h *Handler) HandleUpdateReview(w http.ResponseWriter, r *http.Request) {
	body, err := decodeBody(r)
	if err != nil {
		h.respondWithError(w, err)
		return
	}

	product, err := h.reviews.UpdateReview(r.Context(), chi.URLParam(r, "reviewId"), body)
	if err != nil {
		h.respondWithError(w, err)
		return
	}
	if h.metrics != nil {
		h.metrics.ReviewUpdatesTotal.Inc()
	}
	respondWithJSON(w, http.StatusOK, product)
}

// HandleDeleteReview removes a review and returns the refreshed parent
// product.
func (h *Handler) HandleDeleteReview(w http.ResponseWriter, r *http.Request) {
	product, err := h.reviews.RemoveReview(r.Context(), chi.URLParam(r, "reviewId"))
	if err != nil {
		h.respondWithError(w, err)
		return
	}
	if h.metrics != nil {
		h.metrics.ReviewDeletesTotal.Inc()
	}
	respondWithJSON(w, http.StatusOK, product)
}
