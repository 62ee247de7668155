package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/flippit/arbiai/internal/ebay"
	"github.com/flippit/arbiai/internal/storage"
	"github.com/rs/zerolog/log"
)

const listingPlatform = "ebay"

type listingResponse struct {
	ItemID    string  `json:"itemId"`
	Title     string  `json:"title"`
	Price     float64 `json:"price"`
	Platform  string  `json:"platform"`
	URL       string  `json:"url"`
	CreatedAt string  `json:"createdAt"`
}

// handleListings serves POST (create) and GET (recent) on /api/listings.
func (h *Handler) handleListings(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		h.createListing(w, r)
	case http.MethodGet:
		h.recentListings(w, r)
	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed", "")
	}
}

func (h *Handler) createListing(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	var input ebay.ListingInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body", "")
		return
	}

	created, err := h.Listings.CreateListing(r.Context(), input)
	if err != nil {
		mapServiceError(w, err)
		return
	}

	// Persistence is best-effort; the listing already exists upstream.
	if h.Store != nil {
		rec := &storage.ListingRecord{
			ItemID:   created.ItemID,
			Title:    input.Title,
			Price:    input.Price,
			Platform: listingPlatform,
			URL:      created.URL,
		}
		if err := h.Store.SaveListing(rec); err != nil {
			log.Warn().Err(err).Str("itemId", created.ItemID).Msg("failed to persist listing")
		}
	}

	writeJSON(w, http.StatusOK, created)
}

func (h *Handler) recentListings(w http.ResponseWriter, r *http.Request) {
	if h.Store == nil {
		writeJSON(w, http.StatusOK, []listingResponse{})
		return
	}

	records, err := h.Store.RecentListings(50)
	if err != nil {
		log.Error().Err(err).Msg("failed to load listings")
		writeError(w, http.StatusInternalServerError, "failed to load listings", "")
		return
	}

	out := make([]listingResponse, 0, len(records))
	for _, rec := range records {
		out = append(out, listingResponse{
			ItemID:    rec.ItemID,
			Title:     rec.Title,
			Price:     rec.Price,
			Platform:  rec.Platform,
			URL:       rec.URL,
			CreatedAt: rec.CreatedAt.UTC().Format(time.RFC3339),
		})
	}
	writeJSON(w, http.StatusOK, out)
}
