package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/flippit/arbiai/internal/ebay"
	"github.com/flippit/arbiai/internal/ebay/auth"
	"github.com/rs/zerolog/log"
)

type errorBody struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, msg, details string) {
	writeJSON(w, status, errorBody{Error: msg, Details: details})
}

// mapServiceError translates listing-service errors to HTTP responses:
// validation 400, everything upstream 502.
func mapServiceError(w http.ResponseWriter, err error) {
	var validationErr *ebay.ValidationError
	var authErr *auth.Error
	var networkErr *ebay.NetworkError
	var upstreamErr *ebay.UpstreamError

	switch {
	case errors.As(err, &validationErr):
		writeError(w, http.StatusBadRequest, validationErr.Message, "")
	case errors.As(err, &authErr):
		log.Warn().Err(err).Msg("token exchange failed")
		writeError(w, http.StatusBadGateway, authErr.Message, authErr.Body)
	case errors.As(err, &networkErr):
		log.Warn().Err(err).Msg("trading api unreachable")
		writeError(w, http.StatusBadGateway, networkErr.Error(), networkErr.Body)
	case errors.As(err, &upstreamErr):
		log.Warn().Str("message", upstreamErr.Message).Msg("listing rejected by marketplace")
		writeError(w, http.StatusBadGateway, upstreamErr.Message, upstreamErr.Raw)
	default:
		log.Error().Err(err).Msg("unhandled service error")
		writeError(w, http.StatusInternalServerError, "internal error", "")
	}
}
