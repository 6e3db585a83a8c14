package mongodb

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"github.com/ecom-labs/catalog-service/internal/domain"
	"github.com/ecom-labs/catalog-service/internal/platform/logger"
)

const productCollectionName = "products"

// ProductRepository implements domain.ProductRepository on a MongoDB
// collection of product documents with embedded review subdocuments.
type ProductRepository struct {
	collection *mongo.Collection
	logger     *logger.Logger
}

// NewProductRepository creates the repository and ensures its indexes.
func NewProductRepository(db *mongo.Database, log *logger.Logger) (*ProductRepository, error) {
	collection := db.Collection(productCollectionName)

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "reviews._id", Value: 1}}}, // review-by-id lookups scan this instead of the whole collection
		{Keys: bson.D{{Key: "productName", Value: 1}}},
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if _, err := collection.Indexes().CreateMany(ctx, indexes); err != nil {
		log.Error("Failed to create indexes for products collection", zap.Error(err))
		// Indexes may already exist or be managed externally; not fatal.
	} else {
		log.Info("Ensured indexes for products collection")
	}

	return &ProductRepository{
		collection: collection,
		logger:     log.Named("ProductRepository"),
	}, nil
}

// Insert persists a new product with an empty review list and a zero
// average rating, returning the generated id.
func (r *ProductRepository) Insert(ctx context.Context, fields domain.ProductFields) (string, error) {
	doc := productDocument{
		ID:                  primitive.NewObjectID(),
		ProductName:         fields.ProductName,
		ProductDescription:  fields.ProductDescription,
		ModelNumber:         fields.ModelNumber,
		Price:               fields.Price,
		Manufacturer:        fields.Manufacturer,
		ManufacturerWebsite: fields.ManufacturerWebsite,
		Keywords:            fields.Keywords,
		Categories:          fields.Categories,
		DateReleased:        fields.DateReleased,
		Discontinued:        fields.Discontinued,
		Reviews:             []reviewDocument{},
		AverageRating:       0,
	}

	result, err := r.collection.InsertOne(ctx, doc)
	if err != nil {
		r.logger.Error("Failed to insert product", zap.Error(err))
		return "", &domain.PersistenceError{Op: "insert product", Err: err}
	}
	if result.InsertedID == nil {
		return "", &domain.PersistenceError{Op: "insert product"}
	}

	r.logger.Info("Product inserted", zap.String("product_id", doc.ID.Hex()))
	return doc.ID.Hex(), nil
}

// FindByID returns the full product document.
func (r *ProductRepository) FindByID(ctx context.Context, id string) (*domain.Product, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}

	var doc productDocument
	if err := r.collection.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, &domain.NotFoundError{Entity: "product", ID: id}
		}
		r.logger.Error("Failed to find product", zap.Error(err), zap.String("product_id", id))
		return nil, &domain.PersistenceError{Op: "find product", Err: err}
	}
	return doc.toDomain(), nil
}

// FindAllSummaries returns the {id, productName} projection of every
// product.
func (r *ProductRepository) FindAllSummaries(ctx context.Context) ([]domain.ProductSummary, error) {
	opts := options.Find().SetProjection(bson.M{"_id": 1, "productName": 1})
	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		r.logger.Error("Failed to list products", zap.Error(err))
		return nil, &domain.PersistenceError{Op: "list products", Err: err}
	}
	defer cursor.Close(ctx)

	var docs []struct {
		ID          primitive.ObjectID `bson:"_id"`
		ProductName string             `bson:"productName"`
	}
	if err := cursor.All(ctx, &docs); err != nil {
		r.logger.Error("Failed to decode product summaries", zap.Error(err))
		return nil, &domain.PersistenceError{Op: "list products", Err: err}
	}

	summaries := make([]domain.ProductSummary, len(docs))
	for i, d := range docs {
		summaries[i] = domain.ProductSummary{ID: d.ID.Hex(), ProductName: d.ProductName}
	}
	return summaries, nil
}

// ReplaceFields overwrites the mutable product fields via $set, leaving
// reviews and averageRating untouched, and returns the post-update
// document.
func (r *ProductRepository) ReplaceFields(ctx context.Context, id string, fields domain.ProductFields) (*domain.Product, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}

	update := bson.M{"$set": bson.M{
		"productName":         fields.ProductName,
		"productDescription":  fields.ProductDescription,
		"modelNumber":         fields.ModelNumber,
		"price":               fields.Price,
		"manufacturer":        fields.Manufacturer,
		"manufacturerWebsite": fields.ManufacturerWebsite,
		"keywords":            fields.Keywords,
		"categories":          fields.Categories,
		"dateReleased":        fields.DateReleased,
		"discontinued":        fields.Discontinued,
	}}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var doc productDocument
	if err := r.collection.FindOneAndUpdate(ctx, bson.M{"_id": oid}, update, opts).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, &domain.NotFoundError{Entity: "product", ID: id}
		}
		r.logger.Error("Failed to update product", zap.Error(err), zap.String("product_id", id))
		return nil, &domain.PersistenceError{Op: "update product", Err: err}
	}

	r.logger.Info("Product fields replaced", zap.String("product_id", id))
	return doc.toDomain(), nil
}

// DeleteByID removes a product and returns the deleted document.
func (r *ProductRepository) DeleteByID(ctx context.Context, id string) (*domain.Product, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}

	var doc productDocument
	if err := r.collection.FindOneAndDelete(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, &domain.NotFoundError{Entity: "product", ID: id}
		}
		r.logger.Error("Failed to delete product", zap.Error(err), zap.String("product_id", id))
		return nil, &domain.PersistenceError{Op: "delete product", Err: err}
	}

	r.logger.Info("Product deleted", zap.String("product_id", id))
	return doc.toDomain(), nil
}

// PushReview appends a review to the parent's review array. $addToSet
// gives set semantics: an identical entry is not re-added, though review
// ids are freshly generated so in practice this is always an append.
func (r *ProductRepository) PushReview(ctx context.Context, productID string, review domain.Review) (*domain.Product, error) {
	oid, err := objectID(productID)
	if err != nil {
		return nil, err
	}
	reviewDoc, err := fromDomainReview(review)
	if err != nil {
		return nil, &domain.InvalidIDError{ID: review.ID}
	}

	update := bson.M{"$addToSet": bson.M{"reviews": reviewDoc}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var doc productDocument
	if err := r.collection.FindOneAndUpdate(ctx, bson.M{"_id": oid}, update, opts).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, &domain.NotFoundError{Entity: "product", ID: productID}
		}
		r.logger.Error("Failed to append review", zap.Error(err), zap.String("product_id", productID))
		return nil, &domain.PersistenceError{Op: "append review", Err: err}
	}

	return doc.toDomain(), nil
}

// FindReviewByID locates an embedded review across all products. The
// reviews.$ projection returns only the matched array element.
func (r *ProductRepository) FindReviewByID(ctx context.Context, reviewID string) (*domain.Review, error) {
	oid, err := objectID(reviewID)
	if err != nil {
		return nil, err
	}

	opts := options.FindOne().SetProjection(bson.M{"_id": 0, "reviews.$": 1})
	var doc struct {
		Reviews []reviewDocument `bson:"reviews"`
	}
	if err := r.collection.FindOne(ctx, bson.M{"reviews._id": oid}, opts).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, &domain.NotFoundError{Entity: "review", ID: reviewID}
		}
		r.logger.Error("Failed to find review", zap.Error(err), zap.String("review_id", reviewID))
		return nil, &domain.PersistenceError{Op: "find review", Err: err}
	}
	if len(doc.Reviews) == 0 {
		return nil, &domain.NotFoundError{Entity: "review", ID: reviewID}
	}

	return doc.Reviews[0].toDomain(), nil
}

// FindProductByReviewID returns the product owning the given review.
func (r *ProductRepository) FindProductByReviewID(ctx context.Context, reviewID string) (*domain.Product, error) {
	oid, err := objectID(reviewID)
	if err != nil {
		return nil, err
	}

	var doc productDocument
	if err := r.collection.FindOne(ctx, bson.M{"reviews._id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, &domain.NotFoundError{Entity: "review", ID: reviewID}
		}
		r.logger.Error("Failed to find review parent", zap.Error(err), zap.String("review_id", reviewID))
		return nil, &domain.PersistenceError{Op: "find review parent", Err: err}
	}
	return doc.toDomain(), nil
}

// SetReviewFields replaces the matched embedded review's fields through
// the positional operator.
func (r *ProductRepository) SetReviewFields(ctx context.Context, reviewID string, review domain.Review) error {
	oid, err := objectID(reviewID)
	if err != nil {
		return err
	}

	update := bson.M{"$set": bson.M{
		"reviews.$.title":        review.Title,
		"reviews.$.reviewerName": review.ReviewerName,
		"reviews.$.review":       review.Review,
		"reviews.$.rating":       review.Rating,
		"reviews.$.reviewDate":   review.ReviewDate,
	}}

	result, err := r.collection.UpdateOne(ctx, bson.M{"reviews._id": oid}, update)
	if err != nil {
		r.logger.Error("Failed to update review fields", zap.Error(err), zap.String("review_id", reviewID))
		return &domain.PersistenceError{Op: "update review", Err: err}
	}
	if result.MatchedCount == 0 {
		return &domain.NotFoundError{Entity: "review", ID: reviewID}
	}

	r.logger.Info("Review fields updated", zap.String("review_id", reviewID))
	return nil
}

// PullReview removes the matching embedded review from its parent's
// review array. The parent document itself is never deleted.
func (r *ProductRepository) PullReview(ctx context.Context, reviewID string) error {
	oid, err := objectID(reviewID)
	if err != nil {
		return err
	}

	update := bson.M{"$pull": bson.M{"reviews": bson.M{"_id": oid}}}
	result, err := r.collection.UpdateOne(ctx, bson.M{"reviews._id": oid}, update)
	if err != nil {
		r.logger.Error("Failed to pull review", zap.Error(err), zap.String("review_id", reviewID))
		return &domain.PersistenceError{Op: "remove review", Err: err}
	}
	if result.MatchedCount == 0 {
		return &domain.NotFoundError{Entity: "review", ID: reviewID}
	}

	r.logger.Info("Review pulled from parent", zap.String("review_id", reviewID))
	return nil
}

// SetAverageRating persists the derived average via a targeted field-set.
func (r *ProductRepository) SetAverageRating(ctx context.Context, productID string, average float64) error {
	oid, err := objectID(productID)
	if err != nil {
		return err
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": bson.M{"averageRating": average}})
	if err != nil {
		r.logger.Error("Failed to set average rating", zap.Error(err), zap.String("product_id", productID))
		return &domain.PersistenceError{Op: "set average rating", Err: err}
	}
	if result.MatchedCount == 0 {
		return &domain.NotFoundError{Entity: "product", ID: productID}
	}
	return nil
}

// objectID converts a validated hex id to its ObjectID form. Ids are
// validated at the usecase boundary, so a failure here means a caller
// bypassed validation.
func objectID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, &domain.InvalidIDError{ID: id}
	}
	return oid, nil
}
