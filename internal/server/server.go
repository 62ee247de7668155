// Package server is the HTTP delivery layer. It maps JSON requests to
// the listing service, the copy writer and the store, and translates
// service errors to statuses.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/flippit/arbiai/internal/ebay"
	"github.com/flippit/arbiai/internal/llm"
	"github.com/flippit/arbiai/internal/storage"
	"github.com/rs/zerolog/log"
)

// maxBodyBytes bounds inbound request bodies.
const maxBodyBytes = 1 << 20

// ListingCreator abstracts the subset of ebay.Service used here.
// Satisfied by *ebay.Service in production and mocked in tests.
type ListingCreator interface {
	CreateListing(ctx context.Context, raw ebay.ListingInput) (ebay.Created, error)
}

// CodeExchanger trades a consent-flow authorization code for a
// refresh token. Satisfied by *auth.Cache.
type CodeExchanger interface {
	ExchangeCode(ctx context.Context, code, redirectURI string) (string, error)
}

// OAuthConfig carries what the consent endpoints need.
type OAuthConfig struct {
	ConsentURL string
	ClientID   string
	RuName     string
	Scope      string
}

// Handler wires HTTP endpoints to the application services.
// Writer, Store and Exchanger may be nil; the matching endpoints then
// degrade (generation disabled, persistence skipped, callback echoes).
type Handler struct {
	Listings ListingCreator
	Writer   llm.CopyWriter
	Store    storage.Store
	Exchange CodeExchanger
	OAuth    OAuthConfig
}

// Router returns an http.Handler with all routes mounted and request
// logging applied.
func (h *Handler) Router() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/listings", h.handleListings)
	mux.HandleFunc("/api/listings/generate", h.handleGenerate)
	mux.HandleFunc("/api/ebay/auth", h.handleConsentRedirect)
	mux.HandleFunc("/api/ebay/callback", h.handleConsentCallback)
	mux.HandleFunc("/healthz", h.handleHealth)
	return h.logRequests(mux)
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// logRequests middleware emits one zerolog event per request.
func (h *Handler) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		log.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", rec.status).
			Dur("duration", time.Since(start)).
			Msg("http request")
	})
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
