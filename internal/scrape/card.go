package scrape

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// currencyMarker is the signal that a subtree contains a full listing: every
// real card shows its asking price somewhere.
const currencyMarker = "$"

// maxClimbHops bounds how far ResolveCard walks toward the document root.
// The price usually sits a few levels above the class-tagged node that
// matched the seed selector; climbing further risks swallowing the
// neighbouring listing into the same card.
const maxClimbHops = 4

// ResolveCard promotes a seed element to the smallest enclosing container
// whose text content carries a currency marker. The seed itself counts as
// hop zero. Returns nil when no ancestor within the bound qualifies, in
// which case the seed is discarded.
func ResolveCard(seed *goquery.Selection) *goquery.Selection {
	cur := seed
	for hop := 0; hop <= maxClimbHops; hop++ {
		if cur == nil || cur.Length() == 0 {
			return nil
		}
		if strings.Contains(cur.Text(), currencyMarker) {
			return cur
		}
		cur = cur.Parent()
	}
	return nil
}
