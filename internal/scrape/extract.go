package scrape

import (
	"fmt"
	"hash/fnv"
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

var (
	// yearTitleRe recovers a title when no tagged element exists: a model
	// year followed by a handful of word tokens ("2019 Honda Civic LX").
	yearTitleRe = regexp.MustCompile(`(?:19|20)\d{2}(?:\s+[A-Za-z][\w.-]*){1,6}`)

	// promoTerms mark promotional cards masquerading as listings.
	promoTerms = []string{"finance", "credit"}

	// linkMarkers identify detail-page hrefs among a card's anchors.
	linkMarkers = []string{"/a/", "/cars/", "detail"}
)

// Extractor recovers listing fields from resolved cards using layered
// strategies: direct tag match, then regex fallback, then (for links) a
// synthesized search URL.
type Extractor struct {
	// TitleSelector locates the element most likely to hold the title.
	TitleSelector Selector
	// Origin qualifies relative detail links, e.g. "https://www.autotrader.ca".
	Origin string
}

// NewExtractor builds an Extractor with the default title heuristics for the
// target site: heading tags and title/make-model class hints.
func NewExtractor(origin string) *Extractor {
	return &Extractor{
		TitleSelector: AnySelector{
			TagNameSelector{Names: []string{"h2", "h3", "h4"}},
			ClassSubstringSelector{Fragment: "title"},
			ClassSubstringSelector{Fragment: "make-model"},
		},
		Origin: strings.TrimRight(origin, "/"),
	}
}

// Extract produces a Listing from a resolved card. ok is false when the card
// lacks a usable title or price; such cards are expected and dropped without
// error.
func (e *Extractor) Extract(card *goquery.Selection) (Listing, bool) {
	text := card.Text()
	listing := Listing{
		Title:   e.extractTitle(card, text),
		Price:   ExtractPrice(text),
		Mileage: ExtractMileage(text),
	}
	listing.Link = e.extractLink(card, listing)
	if !listing.HasRequiredFields() {
		return Listing{}, false
	}
	return listing, true
}

func (e *Extractor) extractTitle(card *goquery.Selection, text string) string {
	var title string
	card.Find("*").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if !e.TitleSelector.Matches(s) {
			return true
		}
		if t := collapseWhitespace(s.Text()); t != "" {
			title = t
			return false
		}
		return true
	})
	if title == "" {
		title = collapseWhitespace(yearTitleRe.FindString(text))
	}
	if title == "" || isPromotional(title) {
		return FieldUnavailable
	}
	return title
}

func isPromotional(title string) bool {
	lower := strings.ToLower(title)
	for _, term := range promoTerms {
		if strings.Contains(lower, term) {
			return true
		}
	}
	return false
}

// extractLink prefers a real detail-page anchor; with none available and a
// title recovered it synthesizes a deterministic search URL instead, so the
// stored record is still actionable.
func (e *Extractor) extractLink(card *goquery.Selection, l Listing) string {
	var link string
	card.Find("a[href]").EachWithBreak(func(_ int, a *goquery.Selection) bool {
		href, _ := a.Attr("href")
		href = strings.TrimSpace(href)
		if href == "" || href == "#" {
			return true
		}
		for _, marker := range linkMarkers {
			if strings.Contains(href, marker) {
				link = e.resolveURL(href)
				return false
			}
		}
		return true
	})
	if link != "" {
		return link
	}
	if l.Title != "" && l.Title != FieldUnavailable {
		return fallbackLink(l.Title, l.Price)
	}
	return LinkUnavailable
}

// resolveURL qualifies a relative href against the site origin.
func (e *Extractor) resolveURL(href string) string {
	switch {
	case strings.HasPrefix(href, "http://"), strings.HasPrefix(href, "https://"):
		return href
	case strings.HasPrefix(href, "//"):
		return "https:" + href
	case strings.HasPrefix(href, "/"):
		return e.Origin + href
	default:
		return e.Origin + "/" + href
	}
}

// fallbackLink builds a search-engine query URL from the title and price.
// The appended hash tag is derived from the same fields, so the URL is
// reproducible across runs and traceable back to the record that spawned it.
func fallbackLink(title, price string) string {
	q := title
	if price != "" && price != FieldUnavailable {
		q += " " + price
	}
	h := fnv.New32a()
	h.Write([]byte(title + "|" + price))
	return fmt.Sprintf("https://www.google.com/search?q=%s&ref=scout-%08x",
		url.QueryEscape(q), h.Sum32())
}
