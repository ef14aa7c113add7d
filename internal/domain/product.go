package domain

// Offer is a single validated store offer for a product.
type Offer struct {
	Store       string  `json:"store"`
	Price       float64 `json:"price"`
	Currency    string  `json:"currency"`
	Link        string  `json:"link,omitempty"`
	Description string  `json:"description,omitempty"`
}

// GroundingSource is a citation returned by the search-grounded model call.
// Sources are provenance records and are never mutated after creation.
type GroundingSource struct {
	Title string `json:"title"`
	URI   string `json:"uri"`
}

// ProductData is the fully validated comparison result for one search.
// Offers is never empty: BestPrice is the minimum and AveragePrice the
// arithmetic mean over Offers. The whole value is rebuilt on every search.
type ProductData struct {
	ProductName  string            `json:"productName"`
	ImageURL     string            `json:"imageUrl,omitempty"`
	BestPrice    float64           `json:"bestPrice"`
	AveragePrice float64           `json:"averagePrice"`
	Offers       []Offer           `json:"offers"`
	LastUpdated  string            `json:"lastUpdated"`
	Sources      []GroundingSource `json:"sources"`
}

// FavoriteItem is a saved search, keyed by the uniqueness of Query.
type FavoriteItem struct {
	Query     string `json:"query"`
	Timestamp int64  `json:"timestamp"` // epoch millis
}

// SearchRequest is an incoming product search.
type SearchRequest struct {
	Query     string `json:"query" binding:"required"`
	SessionID string `json:"sessionId,omitempty"`
}

// RawOffer is one unvalidated offer record as emitted by the model.
// Price may arrive as a JSON number or as a free-text string in either
// European or American notation.
type RawOffer struct {
	Store       string `json:"store"`
	Price       any    `json:"price"`
	Description string `json:"description,omitempty"`
}

// ModelProductPayload is the JSON shape the search prompt asks the model for.
type ModelProductPayload struct {
	ProductName      string     `json:"productName"`
	CleanSearchQuery string     `json:"cleanSearchQuery,omitempty"`
	ImageURL         string     `json:"imageUrl,omitempty"`
	Offers           []RawOffer `json:"offers"`
}

// GenerationResult is the raw outcome of one grounded model call.
type GenerationResult struct {
	Text    string
	Sources []GroundingSource
}
