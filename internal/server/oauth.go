package server

import (
	"net/http"
	"net/url"

	"github.com/rs/zerolog/log"
)

// consentState is a fixed anti-forgery token for the single-operator
// demo consent flow.
const consentState = "arbiai-demo"

// handleConsentRedirect sends the operator to the marketplace consent
// page. Used once, to mint the refresh token.
func (h *Handler) handleConsentRedirect(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed", "")
		return
	}
	if h.OAuth.ClientID == "" || h.OAuth.RuName == "" {
		writeError(w, http.StatusInternalServerError, "missing EBAY_CLIENT_ID or EBAY_RUNAME", "")
		return
	}

	q := url.Values{}
	q.Set("client_id", h.OAuth.ClientID)
	q.Set("redirect_uri", h.OAuth.RuName)
	q.Set("response_type", "code")
	q.Set("scope", h.OAuth.Scope)
	q.Set("state", consentState)

	http.Redirect(w, r, h.OAuth.ConsentURL+"?"+q.Encode(), http.StatusFound)
}

type callbackResponse struct {
	Code  string `json:"code,omitempty"`
	Error string `json:"error,omitempty"`

	// Authorized is set when the code was exchanged for a refresh token.
	Authorized bool `json:"authorized,omitempty"`
}

// handleConsentCallback receives the authorization code after consent.
// With an exchanger configured the code is traded for a refresh token,
// which is persisted (encrypted) when a store is present; otherwise
// the parameters are echoed back for manual exchange.
func (h *Handler) handleConsentCallback(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed", "")
		return
	}

	code := r.URL.Query().Get("code")
	authErr := r.URL.Query().Get("error")

	if code == "" || h.Exchange == nil {
		writeJSON(w, http.StatusOK, callbackResponse{Code: code, Error: authErr})
		return
	}

	refreshToken, err := h.Exchange.ExchangeCode(r.Context(), code, h.OAuth.RuName)
	if err != nil {
		writeError(w, http.StatusBadGateway, "code exchange failed", err.Error())
		return
	}

	if h.Store != nil {
		if err := h.Store.SaveRefreshToken(refreshToken); err != nil {
			log.Warn().Err(err).Msg("failed to persist refresh token")
		}
	}

	writeJSON(w, http.StatusOK, callbackResponse{Authorized: true})
}
