// Package market fits a fair-price-vs-mileage model over the current listing
// snapshot and classifies each listing's asking price against it. The model
// is rebuilt per request from whatever is stored at that moment; it is never
// cached or shared.
package market

import (
	"strconv"
	"strings"
)

// MinObservations is the smallest sample the fit accepts. Below it no model
// is produced and every listing stays unrated.
const MinObservations = 5

// Deal margins in dollars, applied to predicted minus actual price.
const (
	greatDealMargin  = 3000
	goodDealMargin   = 500
	overpricedMargin = -3000
)

// DealTier classifies a listing's price relative to its model-predicted fair
// price.
type DealTier string

const (
	TierGreatDeal  DealTier = "GREAT DEAL"
	TierGoodDeal   DealTier = "GOOD DEAL"
	TierFairPrice  DealTier = "FAIR PRICE"
	TierOverpriced DealTier = "OVERPRICED"
	TierUnknown    DealTier = "UNKNOWN"
)

// Color returns the badge color the frontend shows for the tier.
func (t DealTier) Color() string {
	switch t {
	case TierGreatDeal:
		return "green"
	case TierGoodDeal:
		return "teal"
	case TierOverpriced:
		return "red"
	case TierFairPrice:
		return "gray"
	default:
		return ""
	}
}

// Observation is one (mileage, price) point parsed from a stored listing.
type Observation struct {
	Mileage float64
	Price   float64
}

var numericScrub = strings.NewReplacer(
	"$", "", ",", "",
	"km", "", "KM", "", "Km", "",
	" ", "",
)

// ParsePrice parses a stored price string ("$15,000") into a number. ok is
// false when the text does not parse or the value is non-positive.
func ParsePrice(price string) (float64, bool) {
	p, err := strconv.ParseFloat(numericScrub.Replace(price), 64)
	if err != nil || p <= 0 {
		return 0, false
	}
	return p, true
}

// ParseMileage parses a stored mileage string ("88,500 km") into a number.
func ParseMileage(mileage string) (float64, bool) {
	m, err := strconv.ParseFloat(numericScrub.Replace(mileage), 64)
	if err != nil || m <= 0 {
		return 0, false
	}
	return m, true
}

// ParseObservation converts stored text fields into a numeric observation.
// ok is false when either field fails to parse or is non-positive; such
// listings are excluded from the fit but still served by the API.
func ParseObservation(price, mileage string) (Observation, bool) {
	p, okP := ParsePrice(price)
	m, okM := ParseMileage(mileage)
	if !okP || !okM {
		return Observation{}, false
	}
	return Observation{Mileage: m, Price: p}, true
}

// Model is a closed-form least-squares line mapping mileage to fair price.
// The zero Model is the degenerate result of a fit over identical mileages;
// it reports unusable so callers never score listings against a flat fair
// price of zero.
type Model struct {
	Slope     float64
	Intercept float64

	usable bool
}

// Usable reports whether the model may be used for prediction. Safe on a
// nil receiver.
func (m *Model) Usable() bool {
	return m != nil && m.usable
}

// Predict returns the fair price for a mileage.
func (m *Model) Predict(mileage float64) float64 {
	return m.Slope*mileage + m.Intercept
}

// Fit computes the least-squares line over the observations. Returns nil
// with fewer than MinObservations points. A zero denominator (all mileages
// identical) yields a neutral unusable model rather than a division error.
func Fit(obs []Observation) *Model {
	if len(obs) < MinObservations {
		return nil
	}

	n := float64(len(obs))
	var sumX, sumY, sumXY, sumXX float64
	for _, o := range obs {
		sumX += o.Mileage
		sumY += o.Price
		sumXY += o.Mileage * o.Price
		sumXX += o.Mileage * o.Mileage
	}

	denom := n*sumXX - sumX*sumX
	if denom == 0 {
		return &Model{}
	}

	slope := (n*sumXY - sumX*sumY) / denom
	intercept := (sumY - slope*sumX) / n
	return &Model{Slope: slope, Intercept: intercept, usable: true}
}

// Classify rates a single listing against the model. An unusable model or an
// unparsable listing yields TierUnknown; classification never fails.
func (m *Model) Classify(price, mileage string) DealTier {
	if !m.Usable() {
		return TierUnknown
	}
	o, ok := ParseObservation(price, mileage)
	if !ok {
		return TierUnknown
	}

	diff := m.Predict(o.Mileage) - o.Price
	switch {
	case diff > greatDealMargin:
		return TierGreatDeal
	case diff > goodDealMargin:
		return TierGoodDeal
	case diff < overpricedMargin:
		return TierOverpriced
	default:
		return TierFairPrice
	}
}
