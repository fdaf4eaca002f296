// Package api exposes the read API: stored listings annotated with a deal
// rating, and price alert creation. Scoring is computed per request from the
// current snapshot; a missing or unusable model degrades to unrated
// listings, never to an error response.
package api

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"sudburyscout/carscout/internal/store"
	"sudburyscout/carscout/logger"
)

// ListingSource is the slice of the store the API depends on.
type ListingSource interface {
	ListCars() ([]store.Car, error)
	CreateAlert(email string, targetPrice int, keyword string) error
}

// Server routes API requests.
type Server struct {
	router *mux.Router
	source ListingSource
	log    *logger.Logger
}

// NewServer builds the router with CORS and request logging middleware.
func NewServer(source ListingSource) *Server {
	s := &Server{
		router: mux.NewRouter(),
		source: source,
		log:    logger.ForAPI(),
	}

	s.router.Use(corsMiddleware)
	s.router.Use(s.loggingMiddleware)
	s.router.HandleFunc("/cars", s.handleListCars).Methods(http.MethodGet, http.MethodOptions)
	s.router.HandleFunc("/alert", s.handleCreateAlert).Methods(http.MethodPost, http.MethodOptions)

	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// corsMiddleware allows any origin to read; the frontend is served from a
// different host than the API.
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.log.Debug().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Dur("elapsed", time.Since(start)).
			Msg("Request handled")
	})
}
