package scrape

import (
	"io"

	"github.com/PuerkitoBio/goquery"

	"sudburyscout/carscout/logger"
	"sudburyscout/carscout/pkg/errors"
)

// Pipeline turns one page of raw markup into a deduplicated listing set:
// seed discovery, card boundary resolution, field extraction, dedup. One
// Run is one scrape pass; dedup state lives for exactly one call.
type Pipeline struct {
	Seeds     Selector
	Extractor *Extractor
	Policy    SignaturePolicy

	log *logger.Logger
}

// NewPipeline builds a pipeline for the given site origin. seeds selects the
// candidate listing nodes; policy picks the dedup signature.
func NewPipeline(origin string, seeds Selector, policy SignaturePolicy) *Pipeline {
	return &Pipeline{
		Seeds:     seeds,
		Extractor: NewExtractor(origin),
		Policy:    policy,
		log:       logger.ForScraper(),
	}
}

// Run parses markup and walks it sequentially. Cards that fail required
// field validation are dropped, not reported: on a noisy page that is the
// common case, not an error.
func (p *Pipeline) Run(markup io.Reader) ([]Listing, error) {
	doc, err := goquery.NewDocumentFromReader(markup)
	if err != nil {
		return nil, errors.NewParsing("pipeline", "failed to parse page markup", err)
	}

	seeds := FindSeeds(doc, p.Seeds)
	dedup := NewDeduplicator(p.Policy)

	var listings []Listing
	rejected := 0
	for _, seed := range seeds {
		card := ResolveCard(seed)
		if card == nil {
			continue
		}
		listing, ok := p.Extractor.Extract(card)
		if !ok {
			rejected++
			continue
		}
		if !dedup.Admit(listing) {
			continue
		}
		listings = append(listings, listing)
	}

	p.log.Info().
		Int("seeds", len(seeds)).
		Int("rejected", rejected).
		Int("listings", len(listings)).
		Msg("Scrape pass complete")
	return listings, nil
}
