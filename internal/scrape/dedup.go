package scrape

import "strings"

// SignaturePolicy selects which fields form a listing's dedup signature.
type SignaturePolicy int

const (
	// SignatureTitlePrice treats listings with the same title and price as
	// duplicates.
	SignatureTitlePrice SignaturePolicy = iota
	// SignatureTitlePriceMileage additionally distinguishes by mileage, so
	// two same-priced cars of the same model survive the pass.
	SignatureTitlePriceMileage
)

// Deduplicator suppresses repeated listings within a single scrape pass.
// Construct one per pipeline run and discard it afterwards; the seen set is
// intra-pass state, never shared across passes.
type Deduplicator struct {
	policy SignaturePolicy
	seen   map[string]struct{}
}

func NewDeduplicator(policy SignaturePolicy) *Deduplicator {
	return &Deduplicator{
		policy: policy,
		seen:   make(map[string]struct{}),
	}
}

// Admit reports whether the listing is the first with its signature. The
// first occurrence wins; later duplicates are dropped silently.
func (d *Deduplicator) Admit(l Listing) bool {
	sig := d.signature(l)
	if _, dup := d.seen[sig]; dup {
		return false
	}
	d.seen[sig] = struct{}{}
	return true
}

func (d *Deduplicator) signature(l Listing) string {
	parts := []string{signatureKey(l.Title), signatureKey(l.Price)}
	if d.policy == SignatureTitlePriceMileage {
		parts = append(parts, signatureKey(l.Mileage))
	}
	return strings.Join(parts, "|")
}

func signatureKey(s string) string {
	return strings.ToLower(collapseWhitespace(s))
}
