package usecase

import (
	"context"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/ecom-labs/catalog-service/internal/domain"
	"github.com/ecom-labs/catalog-service/internal/platform/logger"
	"github.com/ecom-labs/catalog-service/internal/validation"
)

// reviewDateLayout is the stored form of review dates.
const reviewDateLayout = "01/02/2006"

// ReviewUsecase implements the review side of the catalog data layer:
// the lifecycle of review subdocuments embedded in product documents,
// plus the synchronous average-rating maintenance after every mutation.
type ReviewUsecase struct {
	repo       domain.ProductRepository
	aggregator *RatingAggregator
	pub        EventPublisher
	logger     *logger.Logger
	now        func() time.Time
}

// NewReviewUsecase creates a ReviewUsecase.
func NewReviewUsecase(repo domain.ProductRepository, aggregator *RatingAggregator, pub EventPublisher, log *logger.Logger) *ReviewUsecase {
	return &ReviewUsecase{
		repo:       repo,
		aggregator: aggregator,
		pub:        pub,
		logger:     log.Named("ReviewUsecase"),
		now:        time.Now,
	}
}

func (uc *ReviewUsecase) currentDate() string {
	return uc.now().Format(reviewDateLayout)
}

// CreateReview validates the input, stamps a fresh review id and the
// current date, appends the review to the parent product with set
// semantics, recomputes the parent's average rating, and returns the new
// review.
func (uc *ReviewUsecase) CreateReview(ctx context.Context, productID, title, reviewerName, review string, rating float64) (*domain.Review, error) {
	if err := validation.CheckID(productID); err != nil {
		return nil, err
	}
	productID = strings.TrimSpace(productID)

	if err := validation.Check(title, validation.String, "title"); err != nil {
		return nil, err
	}
	if err := validation.Check(reviewerName, validation.String, "reviewerName"); err != nil {
		return nil, err
	}
	if err := validation.Check(review, validation.String, "review"); err != nil {
		return nil, err
	}
	if err := validation.Check(rating, validation.Number, "rating"); err != nil {
		return nil, err
	}

	newReview := domain.Review{
		ID:           primitive.NewObjectID().Hex(),
		Title:        strings.TrimSpace(title),
		ReviewerName: strings.TrimSpace(reviewerName),
		Review:       strings.TrimSpace(review),
		Rating:       rating,
		ReviewDate:   uc.currentDate(),
	}

	uc.logger.Info("Creating review",
		zap.String("product_id", productID),
		zap.String("review_id", newReview.ID),
		zap.Float64("rating", rating))

	if _, err := uc.repo.PushReview(ctx, productID, newReview); err != nil {
		uc.logger.Error("Failed to append review", zap.Error(err), zap.String("product_id", productID))
		return nil, err
	}

	if _, err := uc.aggregator.Recompute(ctx, productID); err != nil {
		return nil, err
	}

	uc.publish(ctx, "catalog.review.created", map[string]interface{}{
		"review_id":  newReview.ID,
		"product_id": productID,
		"rating":     newReview.Rating,
		"created_at": time.Now().UTC().Format(time.RFC3339Nano),
	})

	uc.logger.Info("Review created", zap.String("review_id", newReview.ID))
	return &newReview, nil
}

// GetAllReviews returns the review list of a product. An existing
// product with no reviews yields an empty slice; whether that is an
// error is the caller's decision.
func (uc *ReviewUsecase) GetAllReviews(ctx context.Context, productID string) ([]domain.Review, error) {
	if err := validation.CheckID(productID); err != nil {
		return nil, err
	}
	product, err := uc.repo.FindByID(ctx, strings.TrimSpace(productID))
	if err != nil {
		return nil, err
	}
	return product.Reviews, nil
}

// GetReview locates a review by id across all products and returns the
// matched subdocument only, never its parent.
func (uc *ReviewUsecase) GetReview(ctx context.Context, reviewID string) (*domain.Review, error) {
	if err := validation.CheckID(reviewID); err != nil {
		return nil, err
	}
	return uc.repo.FindReviewByID(ctx, strings.TrimSpace(reviewID))
}

// reviewUpdateSpec lists the caller-settable review fields. reviewDate
// is absent: it is always stamped by the service.
var reviewUpdateSpec = []fieldSpec{
	{"title", validation.String},
	{"reviewerName", validation.String},
	{"review", validation.String},
	{"rating", validation.Number},
}

// UpdateReview applies a partial update to a review: fields present in
// fields are validated and replace the stored values, absent fields are
// carried forward, and reviewDate is refreshed to the current date. The
// parent's average rating is recomputed before returning the refreshed
// parent product.
func (uc *ReviewUsecase) UpdateReview(ctx context.Context, reviewID string, fields map[string]interface{}) (*domain.Product, error) {
	if err := validation.CheckID(reviewID); err != nil {
		return nil, err
	}
	reviewID = strings.TrimSpace(reviewID)

	// Rejected before any store access.
	if len(fields) == 0 {
		return nil, domain.NewValidationError("update", "must contain at least one field")
	}

	for _, f := range reviewUpdateSpec {
		if v, present := fields[f.name]; present {
			if err := validation.Check(v, f.kind, f.name); err != nil {
				return nil, err
			}
		}
	}

	current, err := uc.repo.FindReviewByID(ctx, reviewID)
	if err != nil {
		return nil, err
	}

	merged := *current
	if v, present := fields["title"]; present {
		merged.Title = strings.TrimSpace(v.(string))
	}
	if v, present := fields["reviewerName"]; present {
		merged.ReviewerName = strings.TrimSpace(v.(string))
	}
	if v, present := fields["review"]; present {
		merged.Review = strings.TrimSpace(v.(string))
	}
	if v, present := fields["rating"]; present {
		merged.Rating, _ = validation.AsFloat(v)
	}
	merged.ReviewDate = uc.currentDate()

	product, err := uc.repo.FindProductByReviewID(ctx, reviewID)
	if err != nil {
		return nil, err
	}

	if err := uc.repo.SetReviewFields(ctx, reviewID, merged); err != nil {
		uc.logger.Error("Failed to update review fields", zap.Error(err), zap.String("review_id", reviewID))
		return nil, err
	}

	if _, err := uc.aggregator.Recompute(ctx, product.ID); err != nil {
		return nil, err
	}

	uc.publish(ctx, "catalog.review.updated", map[string]interface{}{
		"review_id":  reviewID,
		"product_id": product.ID,
		"updated_at": time.Now().UTC().Format(time.RFC3339Nano),
	})

	uc.logger.Info("Review updated", zap.String("review_id", reviewID), zap.String("product_id", product.ID))
	return uc.repo.FindByID(ctx, product.ID)
}

// RemoveReview deletes a review from its parent's review list, recomputes
// the parent's average rating, and returns the refreshed parent. The
// parent itself is never deleted.
func (uc *ReviewUsecase) RemoveReview(ctx context.Context, reviewID string) (*domain.Product, error) {
	if err := validation.CheckID(reviewID); err != nil {
		return nil, err
	}
	reviewID = strings.TrimSpace(reviewID)

	if _, err := uc.repo.FindReviewByID(ctx, reviewID); err != nil {
		return nil, err
	}

	product, err := uc.repo.FindProductByReviewID(ctx, reviewID)
	if err != nil {
		return nil, err
	}

	if err := uc.repo.PullReview(ctx, reviewID); err != nil {
		uc.logger.Error("Failed to remove review", zap.Error(err), zap.String("review_id", reviewID))
		return nil, err
	}

	if _, err := uc.aggregator.Recompute(ctx, product.ID); err != nil {
		return nil, err
	}

	uc.publish(ctx, "catalog.review.deleted", map[string]interface{}{
		"review_id":  reviewID,
		"product_id": product.ID,
		"deleted_at": time.Now().UTC().Format(time.RFC3339Nano),
	})

	uc.logger.Info("Review removed", zap.String("review_id", reviewID), zap.String("product_id", product.ID))
	return uc.repo.FindByID(ctx, product.ID)
}

func (uc *ReviewUsecase) publish(ctx context.Context, subject string, data map[string]interface{}) {
	if uc.pub == nil {
		return
	}
	if err := uc.pub.Publish(ctx, subject, data); err != nil {
		uc.logger.Warn("Failed to publish catalog event", zap.String("subject", subject), zap.Error(err))
	}
}
