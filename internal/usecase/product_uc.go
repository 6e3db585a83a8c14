package usecase

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/ecom-labs/catalog-service/internal/domain"
	"github.com/ecom-labs/catalog-service/internal/platform/logger"
	"github.com/ecom-labs/catalog-service/internal/validation"
)

// fieldSpec pairs a field name with its expected shape. Order matters:
// validation reports the first failing field, matching the order callers
// supply them in.
type fieldSpec struct {
	name string
	kind validation.Kind
}

var productFieldSpec = []fieldSpec{
	{"productName", validation.String},
	{"productDescription", validation.String},
	{"modelNumber", validation.String},
	{"price", validation.Number},
	{"manufacturer", validation.String},
	{"manufacturerWebsite", validation.String},
	{"keywords", validation.StringSlice},
	{"categories", validation.StringSlice},
	{"dateReleased", validation.String},
	{"discontinued", validation.Bool},
}

// ProductUsecase implements the product side of the catalog data layer.
type ProductUsecase struct {
	repo   domain.ProductRepository
	pub    EventPublisher
	logger *logger.Logger
}

// NewProductUsecase creates a ProductUsecase.
func NewProductUsecase(repo domain.ProductRepository, pub EventPublisher, log *logger.Logger) *ProductUsecase {
	return &ProductUsecase{
		repo:   repo,
		pub:    pub,
		logger: log.Named("ProductUsecase"),
	}
}

// buildProductFields validates every product field in fields and returns
// the trimmed field set. Fields arrive as decoded JSON values; a missing
// key fails the same way a null value does.
func buildProductFields(fields map[string]interface{}) (*domain.ProductFields, error) {
	for _, f := range productFieldSpec {
		if err := validation.Check(fields[f.name], f.kind, f.name); err != nil {
			return nil, err
		}
	}

	price, _ := validation.AsFloat(fields["price"])
	keywords, _ := validation.AsStringSlice(fields["keywords"])
	categories, _ := validation.AsStringSlice(fields["categories"])

	out := &domain.ProductFields{
		ProductName:         strings.TrimSpace(fields["productName"].(string)),
		ProductDescription:  strings.TrimSpace(fields["productDescription"].(string)),
		ModelNumber:         strings.TrimSpace(fields["modelNumber"].(string)),
		Price:               price,
		Manufacturer:        strings.TrimSpace(fields["manufacturer"].(string)),
		ManufacturerWebsite: strings.TrimSpace(fields["manufacturerWebsite"].(string)),
		Keywords:            trimAll(keywords),
		Categories:          trimAll(categories),
		DateReleased:        strings.TrimSpace(fields["dateReleased"].(string)),
		Discontinued:        fields["discontinued"].(bool),
	}
	return out, nil
}

func trimAll(in []string) []string {
	out := make([]string, len(in))
	for i, s := range in {
		out[i] = strings.TrimSpace(s)
	}
	return out
}

// Create validates and persists a new product with an empty review list
// and a zero average rating, then returns the freshly read-back document
// so the caller sees exactly what is stored, including the generated id.
func (uc *ProductUsecase) Create(ctx context.Context, fields map[string]interface{}) (*domain.Product, error) {
	pf, err := buildProductFields(fields)
	if err != nil {
		uc.logger.Warn("Product validation failed on create", zap.Error(err))
		return nil, err
	}
	uc.logger.Info("Creating product", zap.String("product_name", pf.ProductName))

	id, err := uc.repo.Insert(ctx, *pf)
	if err != nil {
		uc.logger.Error("Failed to insert product", zap.Error(err))
		return nil, err
	}

	product, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		uc.logger.Error("Failed to read back created product", zap.Error(err), zap.String("product_id", id))
		return nil, err
	}

	uc.publish(ctx, "catalog.product.created", map[string]interface{}{
		"product_id":   product.ID,
		"product_name": product.ProductName,
		"created_at":   time.Now().UTC().Format(time.RFC3339Nano),
	})

	uc.logger.Info("Product created", zap.String("product_id", product.ID))
	return product, nil
}

// GetAll returns the {id, productName} listing projection of every
// product; full documents are never loaded for the listing view.
func (uc *ProductUsecase) GetAll(ctx context.Context) ([]domain.ProductSummary, error) {
	uc.logger.Debug("Listing product summaries")
	return uc.repo.FindAllSummaries(ctx)
}

// Get returns the full product document for a validated id.
func (uc *ProductUsecase) Get(ctx context.Context, productID string) (*domain.Product, error) {
	if err := validation.CheckID(productID); err != nil {
		return nil, err
	}
	return uc.repo.FindByID(ctx, strings.TrimSpace(productID))
}

// Update validates id and fields exactly like Create and replaces every
// mutable field via a targeted field-set; reviews and averageRating are
// untouched. Returns the post-update document.
func (uc *ProductUsecase) Update(ctx context.Context, productID string, fields map[string]interface{}) (*domain.Product, error) {
	if err := validation.CheckID(productID); err != nil {
		return nil, err
	}
	pf, err := buildProductFields(fields)
	if err != nil {
		uc.logger.Warn("Product validation failed on update", zap.Error(err), zap.String("product_id", productID))
		return nil, err
	}

	product, err := uc.repo.ReplaceFields(ctx, strings.TrimSpace(productID), *pf)
	if err != nil {
		return nil, err
	}

	uc.publish(ctx, "catalog.product.updated", map[string]interface{}{
		"product_id": product.ID,
		"updated_at": time.Now().UTC().Format(time.RFC3339Nano),
	})

	uc.logger.Info("Product updated", zap.String("product_id", product.ID))
	return product, nil
}

// Remove deletes a product and returns the deleted document for
// confirmation. Embedded reviews disappear with their parent.
func (uc *ProductUsecase) Remove(ctx context.Context, productID string) (*domain.Product, error) {
	if err := validation.CheckID(productID); err != nil {
		return nil, err
	}

	product, err := uc.repo.DeleteByID(ctx, strings.TrimSpace(productID))
	if err != nil {
		return nil, err
	}

	uc.publish(ctx, "catalog.product.deleted", map[string]interface{}{
		"product_id": product.ID,
		"deleted_at": time.Now().UTC().Format(time.RFC3339Nano),
	})

	uc.logger.Info("Product deleted", zap.String("product_id", product.ID))
	return product, nil
}

func (uc *ProductUsecase) publish(ctx context.Context, subject string, data map[string]interface{}) {
	if uc.pub == nil {
		return
	}
	if err := uc.pub.Publish(ctx, subject, data); err != nil {
		uc.logger.Warn("Failed to publish catalog event", zap.String("subject", subject), zap.Error(err))
	}
}
