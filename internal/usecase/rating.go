package usecase

import (
	"context"

	"go.uber.org/zap"

	"github.com/ecom-labs/catalog-service/internal/domain"
	"github.com/ecom-labs/catalog-service/internal/platform/logger"
)

// RatingAggregator maintains the derived averageRating of a product. It
// runs synchronously inside every review mutation: the mutating call is
// not done until the recompute has been persisted or has failed loudly.
//
// The review write and the average write are two separate atomic
// single-document updates, not one transaction. A concurrent reader
// between them can observe the new review alongside the previous
// average. This window is accepted: the only guarantee is that the
// average is correct by the time the mutating call returns.
type RatingAggregator struct {
	repo   domain.ProductRepository
	logger *logger.Logger
}

// NewRatingAggregator creates a RatingAggregator.
func NewRatingAggregator(repo domain.ProductRepository, log *logger.Logger) *RatingAggregator {
	return &RatingAggregator{
		repo:   repo,
		logger: log.Named("RatingAggregator"),
	}
}

// Recompute reads the product, averages its embedded ratings (0 when the
// review list is empty) and persists the result via a targeted field-set.
func (a *RatingAggregator) Recompute(ctx context.Context, productID string) (float64, error) {
	product, err := a.repo.FindByID(ctx, productID)
	if err != nil {
		return 0, err
	}

	var average float64
	if len(product.Reviews) > 0 {
		var total float64
		for _, r := range product.Reviews {
			total += r.Rating
		}
		average = total / float64(len(product.Reviews))
	}

	if err := a.repo.SetAverageRating(ctx, productID, average); err != nil {
		a.logger.Error("Failed to persist average rating",
			zap.String("product_id", productID), zap.Float64("average", average), zap.Error(err))
		return 0, err
	}

	a.logger.Debug("Average rating recomputed",
		zap.String("product_id", productID),
		zap.Float64("average", average),
		zap.Int("review_count", len(product.Reviews)))
	return average, nil
}
