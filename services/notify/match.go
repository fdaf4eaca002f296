package notify

import (
	"strings"

	"sudburyscout/carscout/internal/market"
	"sudburyscout/carscout/internal/scrape"
	"sudburyscout/carscout/internal/store"
)

// Matches reports whether a listing satisfies an alert subscription: the
// title contains the keyword (case-insensitive) and the parsed price is at
// or under the target. Listings with unparsable prices never match.
func Matches(alert store.Alert, listing scrape.Listing) bool {
	keyword := strings.ToLower(strings.TrimSpace(alert.Keyword))
	if keyword == "" {
		return false
	}
	if !strings.Contains(strings.ToLower(listing.Title), keyword) {
		return false
	}

	price, ok := market.ParsePrice(listing.Price)
	return ok && price <= float64(alert.TargetPrice)
}
