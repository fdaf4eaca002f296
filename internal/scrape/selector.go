package scrape

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Selector decides whether a single element is of interest. The card
// resolver and extractor compose selectors instead of branching on ad hoc
// attribute checks, so site quirks stay in configuration.
type Selector interface {
	Matches(s *goquery.Selection) bool
}

// ClassSubstringSelector matches elements whose class attribute contains a
// fragment, case-insensitively. Listing sites decorate generated class names
// ("search-item-xl", "result-item__inner"), so substring matching is the
// only stable hook.
type ClassSubstringSelector struct {
	Fragment string
}

func (c ClassSubstringSelector) Matches(s *goquery.Selection) bool {
	class, ok := s.Attr("class")
	if !ok {
		return false
	}
	return strings.Contains(strings.ToLower(class), strings.ToLower(c.Fragment))
}

// TagNameSelector matches elements by name.
type TagNameSelector struct {
	Names []string
}

func (t TagNameSelector) Matches(s *goquery.Selection) bool {
	if s.Length() == 0 {
		return false
	}
	name := goquery.NodeName(s)
	for _, n := range t.Names {
		if name == n {
			return true
		}
	}
	return false
}

// RegexTextSelector matches elements whose text content matches a pattern.
type RegexTextSelector struct {
	Pattern *regexp.Regexp
}

func (r RegexTextSelector) Matches(s *goquery.Selection) bool {
	if r.Pattern == nil {
		return false
	}
	return r.Pattern.MatchString(s.Text())
}

// AnySelector matches when any member matches.
type AnySelector []Selector

func (a AnySelector) Matches(s *goquery.Selection) bool {
	for _, sel := range a {
		if sel != nil && sel.Matches(s) {
			return true
		}
	}
	return false
}

// FindSeeds scans every element in the document and returns those the
// selector accepts. Seeds are candidates only; ResolveCard decides whether
// each one actually belongs to a listing.
func FindSeeds(doc *goquery.Document, sel Selector) []*goquery.Selection {
	var seeds []*goquery.Selection
	doc.Find("*").Each(func(_ int, s *goquery.Selection) {
		if sel.Matches(s) {
			seeds = append(seeds, s)
		}
	})
	return seeds
}
