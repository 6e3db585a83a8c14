package mongodb

import (
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/ecom-labs/catalog-service/internal/domain"
)

// productDocument is the persisted shape of a product. Field names match
// the document schema exactly; the domain entities stay free of bson
// tags, with the mapping owned by this package.
type productDocument struct {
	ID                  primitive.ObjectID `bson:"_id,omitempty"`
	ProductName         string             `bson:"productName"`
	ProductDescription  string             `bson:"productDescription"`
	ModelNumber         string             `bson:"modelNumber"`
	Price               float64            `bson:"price"`
	Manufacturer        string             `bson:"manufacturer"`
	ManufacturerWebsite string             `bson:"manufacturerWebsite"`
	Keywords            []string           `bson:"keywords"`
	Categories          []string           `bson:"categories"`
	DateReleased        string             `bson:"dateReleased"`
	Discontinued        bool               `bson:"discontinued"`
	Reviews             []reviewDocument   `bson:"reviews"`
	AverageRating       float64            `bson:"averageRating"`
}

// reviewDocument is the persisted shape of an embedded review.
type reviewDocument struct {
	ID           primitive.ObjectID `bson:"_id"`
	Title        string             `bson:"title"`
	ReviewerName string             `bson:"reviewerName"`
	Review       string             `bson:"review"`
	Rating       float64            `bson:"rating"`
	ReviewDate   string             `bson:"reviewDate"`
}

func (d *productDocument) toDomain() *domain.Product {
	reviews := make([]domain.Review, len(d.Reviews))
	for i := range d.Reviews {
		reviews[i] = *d.Reviews[i].toDomain()
	}
	return &domain.Product{
		ID:                  d.ID.Hex(),
		ProductName:         d.ProductName,
		ProductDescription:  d.ProductDescription,
		ModelNumber:         d.ModelNumber,
		Price:               d.Price,
		Manufacturer:        d.Manufacturer,
		ManufacturerWebsite: d.ManufacturerWebsite,
		Keywords:            d.Keywords,
		Categories:          d.Categories,
		DateReleased:        d.DateReleased,
		Discontinued:        d.Discontinued,
		Reviews:             reviews,
		AverageRating:       d.AverageRating,
	}
}

func (d *reviewDocument) toDomain() *domain.Review {
	return &domain.Review{
		ID:           d.ID.Hex(),
		Title:        d.Title,
		ReviewerName: d.ReviewerName,
		Review:       d.Review,
		Rating:       d.Rating,
		ReviewDate:   d.ReviewDate,
	}
}

func fromDomainReview(r domain.Review) (*reviewDocument, error) {
	id, err := primitive.ObjectIDFromHex(r.ID)
	if err != nil {
		return nil, err
	}
	return &reviewDocument{
		ID:           id,
		Title:        r.Title,
		ReviewerName: r.ReviewerName,
		Review:       r.Review,
		Rating:       r.Rating,
		ReviewDate:   r.ReviewDate,
	}, nil
}
