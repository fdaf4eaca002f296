package scrape

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	// priceRe captures a currency-prefixed amount with optional thousands
	// separators and cents, e.g. "$15,000" or "$8999.50".
	priceRe = regexp.MustCompile(`\$\d+(?:,\d{3})*(?:\.\d+)?`)

	// mileageRe captures a digit run followed by a km unit token.
	mileageRe = regexp.MustCompile(`(?i)(\d+(?:,\d{3})*)\s*km\b`)
)

// ExtractPrice returns the first currency amount found in text, keeping its
// original formatting. Returns FieldUnavailable when no amount exists.
func ExtractPrice(text string) string {
	m := priceRe.FindString(text)
	if m == "" {
		return FieldUnavailable
	}
	return m
}

// ExtractMileage finds every km-suffixed number in text and returns the
// largest one, reformatted with thousands separators and the unit re-added.
// Card text routinely carries smaller km figures from trim and warranty
// annotations; the odometer reading is the largest of them.
func ExtractMileage(text string) string {
	best := -1
	for _, m := range mileageRe.FindAllStringSubmatch(text, -1) {
		n, err := strconv.Atoi(strings.ReplaceAll(m[1], ",", ""))
		if err != nil {
			continue
		}
		if n > best {
			best = n
		}
	}
	if best < 0 {
		return FieldUnavailable
	}
	return formatThousands(best) + " km"
}

// formatThousands renders n with comma separators ("88500" -> "88,500").
func formatThousands(n int) string {
	s := strconv.Itoa(n)
	if len(s) <= 3 {
		return s
	}
	var b strings.Builder
	lead := len(s) % 3
	if lead > 0 {
		b.WriteString(s[:lead])
	}
	for i := lead; i < len(s); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(s[i : i+3])
	}
	return b.String()
}

// collapseWhitespace trims and squeezes runs of whitespace to single spaces.
func collapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
