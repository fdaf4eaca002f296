package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sudburyscout/carscout/internal/store"
)

type stubSource struct {
	cars    []store.Car
	listErr error

	alerts   []alertRequest
	alertErr error
}

func (s *stubSource) ListCars() ([]store.Car, error) {
	return s.cars, s.listErr
}

func (s *stubSource) CreateAlert(email string, targetPrice int, keyword string) error {
	if s.alertErr != nil {
		return s.alertErr
	}
	s.alerts = append(s.alerts, alertRequest{Email: email, TargetPrice: targetPrice, Keyword: keyword})
	return nil
}

// ratedCars lie on price = 22000 - 0.2*mileage except the last two: one is a
// great deal, one has no mileage to score with.
var ratedCars = []store.Car{
	{ID: 7, Title: "2021 Kia Forte", Price: "$20,000", Mileage: "10,000 km", Link: "https://example.com/7"},
	{ID: 6, Title: "2020 Hyundai Elantra", Price: "$18,000", Mileage: "20,000 km", Link: "https://example.com/6"},
	{ID: 5, Title: "2019 Honda Civic", Price: "$16,000", Mileage: "30,000 km", Link: "https://example.com/5"},
	{ID: 4, Title: "2018 Toyota Corolla", Price: "$14,000", Mileage: "40,000 km", Link: "https://example.com/4"},
	{ID: 3, Title: "2017 Mazda 3", Price: "$12,000", Mileage: "50,000 km", Link: "https://example.com/3"},
	{ID: 2, Title: "2019 Honda Civic", Price: "$12,000", Mileage: "30,000 km", Link: "https://example.com/2"},
	{ID: 1, Title: "2016 Ford Focus", Price: "$9,000", Mileage: "N/A", Link: "https://example.com/1"},
}

func doRequest(t *testing.T, src *stubSource, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	rec := httptest.NewRecorder()
	NewServer(src).ServeHTTP(rec, req)
	return rec
}

func TestListCarsWithDealRatings(t *testing.T) {
	rec := doRequest(t, &stubSource{cars: ratedCars}, http.MethodGet, "/cars", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))

	var resp []carResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp, len(ratedCars))

	// Store order is preserved.
	assert.Equal(t, int64(7), resp[0].ID)
	assert.Equal(t, int64(1), resp[6].ID)

	// On-model cars rate fair.
	assert.Equal(t, "FAIR PRICE", resp[0].DealRating)
	assert.Equal(t, "gray", resp[0].DealColor)

	// ID 2 asks $4,000 under the fitted line.
	assert.Equal(t, "GREAT DEAL", resp[5].DealRating)
	assert.Equal(t, "green", resp[5].DealColor)

	// The unscoreable car is served without deal fields.
	assert.Empty(t, resp[6].DealRating)
	assert.Empty(t, resp[6].DealColor)
}

func TestListCarsTooFewForModel(t *testing.T) {
	rec := doRequest(t, &stubSource{cars: ratedCars[:3]}, http.MethodGet, "/cars", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp []carResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp, 3)
	for _, c := range resp {
		assert.Empty(t, c.DealRating)
		assert.Empty(t, c.DealColor)
	}

	// Without a model the deal keys are absent from the payload entirely.
	assert.NotContains(t, rec.Body.String(), "deal_rating")
}

func TestListCarsEmptyStore(t *testing.T) {
	rec := doRequest(t, &stubSource{}, http.MethodGet, "/cars", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, "[]", rec.Body.String())
}

func TestListCarsStorageError(t *testing.T) {
	rec := doRequest(t, &stubSource{listErr: errors.New("connection refused")}, http.MethodGet, "/cars", "")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error":"storage unavailable"}`, rec.Body.String())
}

func TestCreateAlert(t *testing.T) {
	src := &stubSource{}
	rec := doRequest(t, src, http.MethodPost, "/alert",
		`{"email":"buyer@example.com","target_price":15000,"keyword":"civic"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"success"}`, rec.Body.String())
	require.Len(t, src.alerts, 1)
	assert.Equal(t, "buyer@example.com", src.alerts[0].Email)
	assert.Equal(t, 15000, src.alerts[0].TargetPrice)
	assert.Equal(t, "civic", src.alerts[0].Keyword)
}

func TestCreateAlertValidation(t *testing.T) {
	testCases := []struct {
		name string
		body string
	}{
		{"malformed json", `{"email":`},
		{"missing email", `{"target_price":15000,"keyword":"civic"}`},
		{"blank keyword", `{"email":"a@b.com","target_price":15000,"keyword":"   "}`},
		{"non-positive price", `{"email":"a@b.com","target_price":0,"keyword":"civic"}`},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			src := &stubSource{}
			rec := doRequest(t, src, http.MethodPost, "/alert", tc.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Empty(t, src.alerts)
		})
	}
}

func TestCreateAlertStorageError(t *testing.T) {
	rec := doRequest(t, &stubSource{alertErr: errors.New("down")}, http.MethodPost, "/alert",
		`{"email":"a@b.com","target_price":15000,"keyword":"civic"}`)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestPreflightRequest(t *testing.T) {
	rec := doRequest(t, &stubSource{}, http.MethodOptions, "/alert", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "GET, POST, OPTIONS", rec.Header().Get("Access-Control-Allow-Methods"))
}
