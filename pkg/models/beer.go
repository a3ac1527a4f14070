package models

// Beer is the internal shape every provider response and fallback record is turned into
type Beer struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Tagline     string   `json:"tagline"`
	FirstBrewed string   `json:"first_brewed"`
	Description string   `json:"description"`
	ImageURL    string   `json:"image_url"`
	ABV         float64  `json:"abv"`
	IBU         float64  `json:"ibu"`
	FoodPairing []string `json:"food_pairing"`
	Brewery     string   `json:"brewery,omitempty"`
	Region      string   `json:"region,omitempty"`
}

// SharedCacheRecord is the document kept per normalized search term in the shared cache
type SharedCacheRecord struct {
	SearchTerm     string `json:"searchTerm"`
	Results        []Beer `json:"beers"`
	StoredAt       int64  `json:"timestamp"`
	HitCount       int64  `json:"hitCount"`
	LastAccessedAt *int64 `json:"lastAccessed,omitempty"`
}
