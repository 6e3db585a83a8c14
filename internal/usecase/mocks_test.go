package usecase

import (
	"context"
	"sync"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/ecom-labs/catalog-service/internal/domain"
)

// fakeRepo is an in-memory stand-in for the Mongo repository, with the
// same error semantics. It records the method names it was called with
// so tests can assert that an operation never reached the store.
type fakeRepo struct {
	mu       sync.Mutex
	products map[string]*domain.Product
	order    []string
	calls    []string
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{products: make(map[string]*domain.Product)}
}

func (f *fakeRepo) record(call string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, call)
}

func (f *fakeRepo) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func copyProduct(p *domain.Product) *domain.Product {
	cp := *p
	cp.Keywords = append([]string(nil), p.Keywords...)
	cp.Categories = append([]string(nil), p.Categories...)
	cp.Reviews = append([]domain.Review(nil), p.Reviews...)
	return &cp
}

func (f *fakeRepo) Insert(_ context.Context, fields domain.ProductFields) (string, error) {
	f.record("Insert")
	id := primitive.NewObjectID().Hex()
	f.products[id] = &domain.Product{
		ID:                  id,
		ProductName:         fields.ProductName,
		ProductDescription:  fields.ProductDescription,
		ModelNumber:         fields.ModelNumber,
		Price:               fields.Price,
		Manufacturer:        fields.Manufacturer,
		ManufacturerWebsite: fields.ManufacturerWebsite,
		Keywords:            append([]string(nil), fields.Keywords...),
		Categories:          append([]string(nil), fields.Categories...),
		DateReleased:        fields.DateReleased,
		Discontinued:        fields.Discontinued,
		Reviews:             []domain.Review{},
		AverageRating:       0,
	}
	f.order = append(f.order, id)
	return id, nil
}

func (f *fakeRepo) FindByID(_ context.Context, id string) (*domain.Product, error) {
	f.record("FindByID")
	p, ok := f.products[id]
	if !ok {
		return nil, &domain.NotFoundError{Entity: "product", ID: id}
	}
	return copyProduct(p), nil
}

func (f *fakeRepo) FindAllSummaries(_ context.Context) ([]domain.ProductSummary, error) {
	f.record("FindAllSummaries")
	summaries := make([]domain.ProductSummary, 0, len(f.order))
	for _, id := range f.order {
		if p, ok := f.products[id]; ok {
			summaries = append(summaries, domain.ProductSummary{ID: p.ID, ProductName: p.ProductName})
		}
	}
	return summaries, nil
}

func (f *fakeRepo) ReplaceFields(_ context.Context, id string, fields domain.ProductFields) (*domain.Product, error) {
	f.record("ReplaceFields")
	p, ok := f.products[id]
	if !ok {
		return nil, &domain.NotFoundError{Entity: "product", ID: id}
	}
	p.ProductName = fields.ProductName
	p.ProductDescription = fields.ProductDescription
	p.ModelNumber = fields.ModelNumber
	p.Price = fields.Price
	p.Manufacturer = fields.Manufacturer
	p.ManufacturerWebsite = fields.ManufacturerWebsite
	p.Keywords = append([]string(nil), fields.Keywords...)
	p.Categories = append([]string(nil), fields.Categories...)
	p.DateReleased = fields.DateReleased
	p.Discontinued = fields.Discontinued
	return copyProduct(p), nil
}

func (f *fakeRepo) DeleteByID(_ context.Context, id string) (*domain.Product, error) {
	f.record("DeleteByID")
	p, ok := f.products[id]
	if !ok {
		return nil, &domain.NotFoundError{Entity: "product", ID: id}
	}
	delete(f.products, id)
	return p, nil
}

func (f *fakeRepo) PushReview(_ context.Context, productID string, review domain.Review) (*domain.Product, error) {
	f.record("PushReview")
	p, ok := f.products[productID]
	if !ok {
		return nil, &domain.NotFoundError{Entity: "product", ID: productID}
	}
	for _, existing := range p.Reviews {
		if existing == review {
			return copyProduct(p), nil // set semantics
		}
	}
	p.Reviews = append(p.Reviews, review)
	return copyProduct(p), nil
}

func (f *fakeRepo) findReviewLocked(reviewID string) (*domain.Product, int) {
	for _, id := range f.order {
		p, ok := f.products[id]
		if !ok {
			continue
		}
		for i := range p.Reviews {
			if p.Reviews[i].ID == reviewID {
				return p, i
			}
		}
	}
	return nil, -1
}

func (f *fakeRepo) FindReviewByID(_ context.Context, reviewID string) (*domain.Review, error) {
	f.record("FindReviewByID")
	p, i := f.findReviewLocked(reviewID)
	if p == nil {
		return nil, &domain.NotFoundError{Entity: "review", ID: reviewID}
	}
	r := p.Reviews[i]
	return &r, nil
}

func (f *fakeRepo) FindProductByReviewID(_ context.Context, reviewID string) (*domain.Product, error) {
	f.record("FindProductByReviewID")
	p, _ := f.findReviewLocked(reviewID)
	if p == nil {
		return nil, &domain.NotFoundError{Entity: "review", ID: reviewID}
	}
	return copyProduct(p), nil
}

func (f *fakeRepo) SetReviewFields(_ context.Context, reviewID string, review domain.Review) error {
	f.record("SetReviewFields")
	p, i := f.findReviewLocked(reviewID)
	if p == nil {
		return &domain.NotFoundError{Entity: "review", ID: reviewID}
	}
	review.ID = reviewID
	p.Reviews[i] = review
	return nil
}

func (f *fakeRepo) PullReview(_ context.Context, reviewID string) error {
	f.record("PullReview")
	p, i := f.findReviewLocked(reviewID)
	if p == nil {
		return &domain.NotFoundError{Entity: "review", ID: reviewID}
	}
	p.Reviews = append(p.Reviews[:i], p.Reviews[i+1:]...)
	return nil
}

func (f *fakeRepo) SetAverageRating(_ context.Context, productID string, average float64) error {
	f.record("SetAverageRating")
	p, ok := f.products[productID]
	if !ok {
		return &domain.NotFoundError{Entity: "product", ID: productID}
	}
	p.AverageRating = average
	return nil
}

// fakePublisher records published events.
type fakePublisher struct {
	mu       sync.Mutex
	subjects []string
	fail     bool
}

func (f *fakePublisher) Publish(_ context.Context, subject string, _ interface{}) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail {
		return errPublishFailed
	}
	f.subjects = append(f.subjects, subject)
	return nil
}

var errPublishFailed = &domain.PersistenceError{Op: "publish"}
