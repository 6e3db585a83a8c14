package domain

// Product is a catalog entry. Reviews are embedded subdocuments owned
// exclusively by their product; they have no independent lifecycle.
// IDs are hex-encoded document ids; the ObjectID type stays inside the
// repository implementation.
type Product struct {
	ID                  string   `json:"_id"`
	ProductName         string   `json:"productName"`
	ProductDescription  string   `json:"productDescription"`
	ModelNumber         string   `json:"modelNumber"`
	Price               float64  `json:"price"`
	Manufacturer        string   `json:"manufacturer"`
	ManufacturerWebsite string   `json:"manufacturerWebsite"`
	Keywords            []string `json:"keywords"`
	Categories          []string `json:"categories"`
	DateReleased        string   `json:"dateReleased"`
	Discontinued        bool     `json:"discontinued"`
	Reviews             []Review `json:"reviews"`
	AverageRating       float64  `json:"averageRating"`
}

// Review is a customer review embedded in a Product. ReviewDate is in
// MM/DD/YYYY form and is stamped by the service at creation and on every
// update, never supplied by callers.
type Review struct {
	ID           string  `json:"_id"`
	Title        string  `json:"title"`
	ReviewerName string  `json:"reviewerName"`
	Review       string  `json:"review"`
	Rating       float64 `json:"rating"`
	ReviewDate   string  `json:"reviewDate"`
}

// ProductSummary is the lightweight listing projection: id and name only.
type ProductSummary struct {
	ID          string `json:"_id"`
	ProductName string `json:"productName"`
}

// ProductFields holds the mutable product fields for create and
// full-replace update. Reviews and AverageRating are deliberately absent:
// reviews change only through review operations and the average is a
// derived value the store layer maintains itself.
type ProductFields struct {
	ProductName         string
	ProductDescription  string
	ModelNumber         string
	Price               float64
	Manufacturer        string
	ManufacturerWebsite string
	Keywords            []string
	Categories          []string
	DateReleased        string
	Discontinued        bool
}
