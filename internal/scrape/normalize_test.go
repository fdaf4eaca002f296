package scrape

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractPrice(t *testing.T) {
	testCases := []struct {
		text     string
		expected string
	}{
		{
			text:     "2019 Honda Civic LX $15,000 certified",
			expected: "$15,000",
		},
		{
			text:     "was $22,500 now $19,999",
			expected: "$22,500",
		},
		{
			text:     "$8999",
			expected: "$8999",
		},
		{
			text:     "$12,345.67 plus tax",
			expected: "$12,345.67",
		},
		{
			text:     "call for price",
			expected: FieldUnavailable,
		},
		{
			text:     "15,000 dollars",
			expected: FieldUnavailable,
		},
		{
			text:     "",
			expected: FieldUnavailable,
		},
	}

	for _, tc := range testCases {
		assert.Equal(t, tc.expected, ExtractPrice(tc.text), "input: %q", tc.text)
	}
}

func TestExtractMileageReturnsMaximum(t *testing.T) {
	// Smaller km figures belong to warranty or trim annotations; the
	// odometer reading is the largest of them.
	text := "12,000 km warranty remaining ... odometer 88,500 km"
	assert.Equal(t, "88,500 km", ExtractMileage(text))
}

func TestExtractMileage(t *testing.T) {
	testCases := []struct {
		text     string
		expected string
	}{
		{
			text:     "only 45,000 km on the clock",
			expected: "45,000 km",
		},
		{
			text:     "98000 KM",
			expected: "98,000 km",
		},
		{
			text:     "150 km range, 203,450 km driven",
			expected: "203,450 km",
		},
		{
			text:     "brand new, never driven",
			expected: FieldUnavailable,
		},
		{
			// "kmh" is not a distance unit token
			text:     "top speed 240 kmh",
			expected: FieldUnavailable,
		},
		{
			text:     "",
			expected: FieldUnavailable,
		},
	}

	for _, tc := range testCases {
		assert.Equal(t, tc.expected, ExtractMileage(tc.text), "input: %q", tc.text)
	}
}

func TestNormalizerNeverPanicsOnMalformedInput(t *testing.T) {
	inputs := []string{
		"$",
		"$,,,",
		"km km km",
		"\x00\xff garbage $ km",
		"99999999999999999999999999 km",
	}
	for _, in := range inputs {
		assert.NotPanics(t, func() {
			ExtractPrice(in)
			ExtractMileage(in)
		}, "input: %q", in)
	}
}

func TestFormatThousands(t *testing.T) {
	testCases := []struct {
		n        int
		expected string
	}{
		{0, "0"},
		{999, "999"},
		{1000, "1,000"},
		{88500, "88,500"},
		{1234567, "1,234,567"},
	}

	for _, tc := range testCases {
		assert.Equal(t, tc.expected, formatThousands(tc.n))
	}
}
