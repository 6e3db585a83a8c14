package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ecom-labs/catalog-service/internal/domain"
	"github.com/ecom-labs/catalog-service/internal/platform/logger"
)

func validProductFields() map[string]interface{} {
	return map[string]interface{}{
		"productName":         "Trail Blazer 500",
		"productDescription":  "A rugged mountain bike.",
		"modelNumber":         "TB-500",
		"price":               19.99,
		"manufacturer":        "Acme Cycles",
		"manufacturerWebsite": "http://www.acmecycles.com",
		"keywords":            []interface{}{"a", "b"},
		"categories":          []interface{}{"bikes"},
		"dateReleased":        "2023-05-14",
		"discontinued":        false,
	}
}

func newProductUC(t *testing.T) (*ProductUsecase, *fakeRepo, *fakePublisher) {
	t.Helper()
	repo := newFakeRepo()
	pub := &fakePublisher{}
	return NewProductUsecase(repo, pub, logger.New()), repo, pub
}

func TestProductCreateTrimsAndInitializes(t *testing.T) {
	uc, _, pub := newProductUC(t)

	fields := validProductFields()
	fields["productName"] = "  Trail Blazer 500  "
	fields["keywords"] = []interface{}{" a ", "b "}

	product, err := uc.Create(context.Background(), fields)
	require.NoError(t, err)

	assert.NotEmpty(t, product.ID)
	assert.Equal(t, "Trail Blazer 500", product.ProductName)
	assert.Equal(t, []string{"a", "b"}, product.Keywords)
	assert.Equal(t, 19.99, product.Price)
	assert.Empty(t, product.Reviews)
	assert.Zero(t, product.AverageRating)
	assert.Contains(t, pub.subjects, "catalog.product.created")
}

func TestProductCreateValidation(t *testing.T) {
	uc, repo, _ := newProductUC(t)
	ctx := context.Background()

	tests := []struct {
		name   string
		mutate func(map[string]interface{})
		field  string
	}{
		{"missing name", func(m map[string]interface{}) { delete(m, "productName") }, "productName"},
		{"zero price", func(m map[string]interface{}) { m["price"] = 0.0 }, "price"},
		{"three decimal price", func(m map[string]interface{}) { m["price"] = 19.999 }, "price"},
		{"short website", func(m map[string]interface{}) { m["manufacturerWebsite"] = "http://www.ab.com" }, "manufacturerWebsite"},
		{"bad date", func(m map[string]interface{}) { m["dateReleased"] = "soonish" }, "dateReleased"},
		{"empty keywords", func(m map[string]interface{}) { m["keywords"] = []interface{}{} }, "keywords"},
		{"non-bool discontinued", func(m map[string]interface{}) { m["discontinued"] = "no" }, "discontinued"},
		{"non-string description", func(m map[string]interface{}) { m["productDescription"] = 7.0 }, "productDescription"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fields := validProductFields()
			tt.mutate(fields)

			_, err := uc.Create(ctx, fields)
			var vErr *domain.ValidationError
			require.ErrorAs(t, err, &vErr)
			assert.Equal(t, tt.field, vErr.Field)
		})
	}
	assert.Zero(t, repo.callCount(), "validation failures must not reach the store")
}

func TestProductRoundTrip(t *testing.T) {
	uc, _, _ := newProductUC(t)
	ctx := context.Background()

	created, err := uc.Create(ctx, validProductFields())
	require.NoError(t, err)

	got, err := uc.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created, got)

	// Reads are idempotent: a second get without mutation is identical.
	again, err := uc.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, got, again)
}

func TestProductGetAllIsSummaryProjection(t *testing.T) {
	uc, _, _ := newProductUC(t)
	ctx := context.Background()

	first, err := uc.Create(ctx, validProductFields())
	require.NoError(t, err)

	fields := validProductFields()
	fields["productName"] = "City Cruiser"
	second, err := uc.Create(ctx, fields)
	require.NoError(t, err)

	summaries, err := uc.GetAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, []domain.ProductSummary{
		{ID: first.ID, ProductName: "Trail Blazer 500"},
		{ID: second.ID, ProductName: "City Cruiser"},
	}, summaries)
}

func TestProductGetErrors(t *testing.T) {
	uc, _, _ := newProductUC(t)
	ctx := context.Background()

	var idErr *domain.InvalidIDError
	_, err := uc.Get(ctx, "not-an-id")
	require.ErrorAs(t, err, &idErr)

	var nfErr *domain.NotFoundError
	_, err = uc.Get(ctx, "65f1a2b3c4d5e6f7a8b9c0d1")
	require.ErrorAs(t, err, &nfErr)
}

func TestProductUpdateReplacesFieldsOnly(t *testing.T) {
	uc, repo, pub := newProductUC(t)
	ctx := context.Background()

	created, err := uc.Create(ctx, validProductFields())
	require.NoError(t, err)

	// Simulate an existing review so the update must leave it alone.
	repo.products[created.ID].Reviews = []domain.Review{{ID: "r1", Title: "Great", Rating: 4, ReviewDate: "01/02/2026"}}
	repo.products[created.ID].AverageRating = 4

	fields := validProductFields()
	fields["productName"] = "Trail Blazer 600"
	fields["price"] = 24.5

	updated, err := uc.Update(ctx, created.ID, fields)
	require.NoError(t, err)

	assert.Equal(t, "Trail Blazer 600", updated.ProductName)
	assert.Equal(t, 24.5, updated.Price)
	assert.Len(t, updated.Reviews, 1, "reviews untouched by product update")
	assert.Equal(t, 4.0, updated.AverageRating, "average untouched by product update")
	assert.Contains(t, pub.subjects, "catalog.product.updated")
}

func TestProductUpdateErrors(t *testing.T) {
	uc, _, _ := newProductUC(t)
	ctx := context.Background()

	var nfErr *domain.NotFoundError
	_, err := uc.Update(ctx, "65f1a2b3c4d5e6f7a8b9c0d1", validProductFields())
	require.ErrorAs(t, err, &nfErr)

	var idErr *domain.InvalidIDError
	_, err = uc.Update(ctx, "nope", validProductFields())
	require.ErrorAs(t, err, &idErr)
}

func TestProductRemove(t *testing.T) {
	uc, _, pub := newProductUC(t)
	ctx := context.Background()

	created, err := uc.Create(ctx, validProductFields())
	require.NoError(t, err)

	deleted, err := uc.Remove(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, deleted.ID)
	assert.Contains(t, pub.subjects, "catalog.product.deleted")

	var nfErr *domain.NotFoundError
	_, err = uc.Get(ctx, created.ID)
	require.ErrorAs(t, err, &nfErr)

	_, err = uc.Remove(ctx, created.ID)
	require.ErrorAs(t, err, &nfErr)
}

func TestProductCreateSurvivesPublishFailure(t *testing.T) {
	uc, _, pub := newProductUC(t)
	pub.fail = true

	product, err := uc.Create(context.Background(), validProductFields())
	require.NoError(t, err, "event publishing is best-effort")
	assert.NotEmpty(t, product.ID)
}
