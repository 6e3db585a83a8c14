package domain

import "context"

// ProductRepository defines the persistence port for products and their
// embedded reviews. Methods operate on clean domain entities; document
// ids cross the boundary as validated hex strings. Every mutation is an
// atomic single-document operation on the store side.
type ProductRepository interface {
	// Insert persists a new product and returns its generated id.
	Insert(ctx context.Context, fields ProductFields) (string, error)

	// FindByID returns the full product document.
	FindByID(ctx context.Context, id string) (*Product, error)

	// FindAllSummaries returns the {id, productName} projection of every
	// product.
	FindAllSummaries(ctx context.Context) ([]ProductSummary, error)

	// ReplaceFields overwrites the mutable fields of a product via a
	// targeted field-set, leaving reviews and averageRating untouched,
	// and returns the post-update document.
	ReplaceFields(ctx context.Context, id string, fields ProductFields) (*Product, error)

	// DeleteByID removes a product and returns the deleted document.
	DeleteByID(ctx context.Context, id string) (*Product, error)

	// PushReview appends a review to the parent's review array with
	// set semantics and returns the post-update parent.
	PushReview(ctx context.Context, productID string, review Review) (*Product, error)

	// FindReviewByID locates an embedded review across all products and
	// returns the matched subdocument only.
	FindReviewByID(ctx context.Context, reviewID string) (*Review, error)

	// FindProductByReviewID returns the product owning the given review.
	FindProductByReviewID(ctx context.Context, reviewID string) (*Product, error)

	// SetReviewFields replaces the fields of the matched embedded review
	// via a positional field-set.
	SetReviewFields(ctx context.Context, reviewID string, review Review) error

	// PullReview removes the matching embedded review from its parent's
	// review array.
	PullReview(ctx context.Context, reviewID string) error

	// SetAverageRating persists the derived average via a targeted
	// field-set.
	SetAverageRating(ctx context.Context, productID string, average float64) error
}
