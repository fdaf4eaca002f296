package scrape

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

const origin = "https://www.autotrader.ca"

func TestExtractFullCard(t *testing.T) {
	html := `
		<div class="card">
			<h3 class="title">2019 Honda Civic LX</h3>
			<span class="price">$15,000</span>
			<span class="odometer">88,500 km</span>
			<a href="/a/honda/civic/12345">View details</a>
		</div>
	`
	card := selectionFor(t, html, "div.card")

	listing, ok := NewExtractor(origin).Extract(card)
	assert.True(t, ok)
	assert.Equal(t, "2019 Honda Civic LX", listing.Title)
	assert.Equal(t, "$15,000", listing.Price)
	assert.Equal(t, "88,500 km", listing.Mileage)
	assert.Equal(t, "https://www.autotrader.ca/a/honda/civic/12345", listing.Link)
}

func TestExtractTitleRegexFallback(t *testing.T) {
	// No heading or title-classed element; the year regex recovers the
	// title from the card text.
	html := `
		<div class="card">
			<span>2017 Toyota Corolla SE</span>
			<span>$12,500</span>
		</div>
	`
	card := selectionFor(t, html, "div.card")

	listing, ok := NewExtractor(origin).Extract(card)
	assert.True(t, ok)
	assert.Equal(t, "2017 Toyota Corolla SE", listing.Title)
}

func TestExtractDiscardsPromotionalTitles(t *testing.T) {
	html := `
		<div class="card">
			<h3>Easy Finance From $99</h3>
			<span>$15,000</span>
		</div>
	`
	card := selectionFor(t, html, "div.card")

	_, ok := NewExtractor(origin).Extract(card)
	assert.False(t, ok)
}

func TestExtractRejectsCardWithoutPrice(t *testing.T) {
	html := `
		<div class="card">
			<h3>2019 Honda Civic</h3>
			<span>great shape</span>
		</div>
	`
	card := selectionFor(t, html, "div.card")

	_, ok := NewExtractor(origin).Extract(card)
	assert.False(t, ok)
}

func TestExtractLinkPrefersDetailAnchor(t *testing.T) {
	// A real detail-page anchor always wins over the synthesized fallback.
	html := `
		<div class="card">
			<h3>2019 Honda Civic</h3>
			<span>$15,000</span>
			<a href="/help/about">About us</a>
			<a href="https://www.autotrader.ca/cars/detail/999">Listing</a>
		</div>
	`
	card := selectionFor(t, html, "div.card")

	listing, ok := NewExtractor(origin).Extract(card)
	assert.True(t, ok)
	assert.Equal(t, "https://www.autotrader.ca/cars/detail/999", listing.Link)
}

func TestExtractLinkFallbackIsDeterministic(t *testing.T) {
	html := `
		<div class="card">
			<h3>2019 Honda Civic</h3>
			<span>$15,000</span>
		</div>
	`
	extractor := NewExtractor(origin)

	first, ok := extractor.Extract(selectionFor(t, html, "div.card"))
	assert.True(t, ok)
	second, ok := extractor.Extract(selectionFor(t, html, "div.card"))
	assert.True(t, ok)

	// Same title and price must produce the same URL across runs,
	// including the hash-derived ref tag.
	assert.Equal(t, first.Link, second.Link)
	assert.True(t, strings.HasPrefix(first.Link, "https://www.google.com/search?q="))
	assert.Contains(t, first.Link, "&ref=scout-")
	assert.Contains(t, first.Link, "2019+Honda+Civic")
}

func TestResolveURL(t *testing.T) {
	e := NewExtractor(origin)

	testCases := []struct {
		href     string
		expected string
	}{
		{
			href:     "/a/honda/civic/1",
			expected: "https://www.autotrader.ca/a/honda/civic/1",
		},
		{
			href:     "//www.autotrader.ca/a/honda/civic/1",
			expected: "https://www.autotrader.ca/a/honda/civic/1",
		},
		{
			href:     "https://other.example/detail/1",
			expected: "https://other.example/detail/1",
		},
		{
			href:     "a/honda/civic/1",
			expected: "https://www.autotrader.ca/a/honda/civic/1",
		},
	}

	for _, tc := range testCases {
		assert.Equal(t, tc.expected, e.resolveURL(tc.href))
	}
}
