// Package notify publishes batch outcomes to downstream consumers: every
// newly stored listing, plus an event for each price alert the listing
// satisfies. Publishing is best-effort; a failed publish never fails the
// batch.
package notify

import (
	"sudburyscout/carscout/internal/scrape"
	"sudburyscout/carscout/internal/store"
)

// Notifier represents a service for publishing batch outcomes
type Notifier interface {
	// PublishListing publishes a newly stored listing
	PublishListing(listing scrape.Listing) error

	// PublishAlertMatch publishes a listing that satisfies an alert
	PublishAlertMatch(alert store.Alert, listing scrape.Listing) error

	// TrimStreams trims all streams to the configured maximum length
	TrimStreams() error

	// Close closes the notifier connection
	Close() error
}
