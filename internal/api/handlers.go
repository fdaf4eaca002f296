package api

import (
	"encoding/json"
	"net/http"
	"strings"

	"sudburyscout/carscout/internal/market"
)

type carResponse struct {
	ID         int64  `json:"id"`
	Title      string `json:"title"`
	Price      string `json:"price"`
	Mileage    string `json:"mileage"`
	Link       string `json:"link"`
	DealRating string `json:"deal_rating,omitempty"`
	DealColor  string `json:"deal_color,omitempty"`
}

type alertRequest struct {
	Email       string `json:"email"`
	TargetPrice int    `json:"target_price"`
	Keyword     string `json:"keyword"`
}

// handleListCars returns all stored listings newest-first, each annotated
// with a deal rating from a model fitted over the same snapshot. Listings
// the model cannot rate come back without deal fields.
func (s *Server) handleListCars(w http.ResponseWriter, r *http.Request) {
	cars, err := s.source.ListCars()
	if err != nil {
		s.log.Error().Err(err).Msg("Listing query failed")
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "storage unavailable"})
		return
	}

	var obs []market.Observation
	for _, c := range cars {
		if o, ok := market.ParseObservation(c.Price, c.Mileage); ok {
			obs = append(obs, o)
		}
	}
	model := market.Fit(obs)
	if !model.Usable() {
		s.log.Debug().Int("observations", len(obs)).Msg("No usable market model; serving unrated listings")
	}

	resp := make([]carResponse, 0, len(cars))
	for _, c := range cars {
		rc := carResponse{
			ID:      c.ID,
			Title:   c.Title,
			Price:   c.Price,
			Mileage: c.Mileage,
			Link:    c.Link,
		}
		if tier := model.Classify(c.Price, c.Mileage); tier != market.TierUnknown {
			rc.DealRating = string(tier)
			rc.DealColor = tier.Color()
		}
		resp = append(resp, rc)
	}

	writeJSON(w, http.StatusOK, resp)
}

// handleCreateAlert persists a price alert subscription verbatim.
func (s *Server) handleCreateAlert(w http.ResponseWriter, r *http.Request) {
	var req alertRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	req.Email = strings.TrimSpace(req.Email)
	req.Keyword = strings.TrimSpace(req.Keyword)
	if req.Email == "" || req.Keyword == "" || req.TargetPrice <= 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "email, keyword and a positive target_price are required"})
		return
	}

	if err := s.source.CreateAlert(req.Email, req.TargetPrice, req.Keyword); err != nil {
		s.log.Error().Err(err).Msg("Alert insert failed")
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "storage unavailable"})
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "success"})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
