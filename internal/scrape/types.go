package scrape

// Sentinel values for fields that could not be recovered. They are stored
// as-is so the read API can tell "missing" from "empty".
const (
	FieldUnavailable = "N/A"
	LinkUnavailable  = "no link"
)

// Listing is the canonical record produced for one resolved card. Fields
// keep their original formatted text ("$15,000", "88,500 km") so the stored
// row round-trips exactly what the site showed.
type Listing struct {
	Title   string `json:"title"`
	Price   string `json:"price"`
	Mileage string `json:"mileage"`
	Link    string `json:"link"`
}

// HasRequiredFields reports whether the listing carries both a title and a
// price. Mileage and link may be sentinels; title and price may not.
func (l Listing) HasRequiredFields() bool {
	return l.Title != "" && l.Title != FieldUnavailable &&
		l.Price != "" && l.Price != FieldUnavailable
}
