package market

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// linearObs lie exactly on price = 22000 - 0.2*mileage.
var linearObs = []Observation{
	{Mileage: 10000, Price: 20000},
	{Mileage: 20000, Price: 18000},
	{Mileage: 30000, Price: 16000},
	{Mileage: 40000, Price: 14000},
	{Mileage: 50000, Price: 12000},
}

func TestFitRecoversLine(t *testing.T) {
	m := Fit(linearObs)
	require.True(t, m.Usable())
	assert.InDelta(t, -0.2, m.Slope, 1e-9)
	assert.InDelta(t, 22000, m.Intercept, 1e-6)
	assert.InDelta(t, 17000, m.Predict(25000), 1e-6)
}

func TestFitTooFewObservations(t *testing.T) {
	m := Fit(linearObs[:4])
	assert.Nil(t, m)
	assert.False(t, m.Usable())
	assert.Equal(t, TierUnknown, m.Classify("$15,000", "30,000 km"))
}

func TestFitIdenticalMileages(t *testing.T) {
	obs := make([]Observation, MinObservations)
	for i := range obs {
		obs[i] = Observation{Mileage: 50000, Price: float64(10000 + i*1000)}
	}

	// All mileages identical gives a zero denominator; the fit must hand
	// back a neutral model instead of dividing by zero.
	m := Fit(obs)
	require.NotNil(t, m)
	assert.False(t, m.Usable())
	assert.Equal(t, TierUnknown, m.Classify("$15,000", "50,000 km"))
}

func TestClassifyTiers(t *testing.T) {
	m := Fit(linearObs)
	require.True(t, m.Usable())

	testCases := []struct {
		name    string
		price   string
		mileage string
		tier    DealTier
	}{
		// Fair price at 10,000 km is $20,000.
		{"on the line", "$20,000", "10,000 km", TierFairPrice},
		{"just under", "$19,800", "10,000 km", TierFairPrice},
		{"good deal", "$19,000", "10,000 km", TierGoodDeal},
		{"great deal", "$16,000", "10,000 km", TierGreatDeal},
		{"slightly over", "$21,000", "10,000 km", TierFairPrice},
		{"overpriced", "$24,000", "10,000 km", TierOverpriced},
		{"unparsable price", "Call for price", "10,000 km", TierUnknown},
		{"unavailable mileage", "$20,000", "N/A", TierUnknown},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.tier, m.Classify(tc.price, tc.mileage))
		})
	}
}

func TestParseObservation(t *testing.T) {
	o, ok := ParseObservation("$15,000", "88,500 km")
	require.True(t, ok)
	assert.Equal(t, 15000.0, o.Price)
	assert.Equal(t, 88500.0, o.Mileage)

	_, ok = ParseObservation("N/A", "88,500 km")
	assert.False(t, ok)

	_, ok = ParseObservation("$15,000", "N/A")
	assert.False(t, ok)

	_, ok = ParseObservation("$0", "88,500 km")
	assert.False(t, ok)
}

func TestDealTierColors(t *testing.T) {
	assert.Equal(t, "green", TierGreatDeal.Color())
	assert.Equal(t, "teal", TierGoodDeal.Color())
	assert.Equal(t, "gray", TierFairPrice.Color())
	assert.Equal(t, "red", TierOverpriced.Color())
	assert.Equal(t, "", TierUnknown.Color())
}
