package domain

// Product is one catalog entry, loaded once at startup and read-only
// afterwards. All fields are plain text straight from the source CSV.
type Product struct {
	Name           string `json:"name"`
	Price          string `json:"price"`
	Category       string `json:"category"`
	Description    string `json:"description"`
	KeyFeatures    string `json:"key_features"`
	Specifications string `json:"specifications"`
	Brand          string `json:"brand"`
	URL            string `json:"url"`
}
