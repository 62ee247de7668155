package server

import (
	"encoding/json"
	"net/http"
	"strings"
)

type generateRequest struct {
	QueryText string   `json:"queryText"`
	MSRPPrice *float64 `json:"msrpPrice"`
	Platform  string   `json:"platform"`
}

type generateResponse struct {
	Title          string   `json:"title"`
	Description    string   `json:"description"`
	SuggestedPrice *float64 `json:"suggestedPrice"`
}

// handleGenerate produces LLM listing copy for a product query.
func (h *Handler) handleGenerate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed", "")
		return
	}
	if h.Writer == nil {
		writeError(w, http.StatusServiceUnavailable, "listing generation is not configured", "")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	var req generateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body", "")
		return
	}
	req.QueryText = strings.TrimSpace(req.QueryText)
	if req.QueryText == "" {
		writeError(w, http.StatusBadRequest, "queryText is required", "")
		return
	}

	lc, err := h.Writer.GenerateListing(r.Context(), req.QueryText, req.MSRPPrice, req.Platform)
	if err != nil {
		writeError(w, http.StatusBadGateway, "failed to generate listing copy", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, generateResponse{
		Title:          lc.Title,
		Description:    lc.Description,
		SuggestedPrice: req.MSRPPrice,
	})
}
