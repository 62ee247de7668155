package ebay

import (
	"context"

	"github.com/rs/zerolog/log"
)

// TokenSource provides a valid bearer token for the Trading API.
// Satisfied by *auth.Cache in production and mocked in tests.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// Created is the successful outcome of a create-listing call.
type Created struct {
	ItemID string `json:"itemId"`
	URL    string `json:"url"`
}

// Service orchestrates the full create-listing workflow:
// validate -> acquire token -> build XML -> POST -> parse.
// Nothing in this path retries; transient failures surface
// immediately to the caller.
type Service struct {
	tokens      TokenSource
	client      *Client
	itemBaseURL string
}

// NewService wires a listing service.
func NewService(tokens TokenSource, client *Client, itemBaseURL string) *Service {
	return &Service{tokens: tokens, client: client, itemBaseURL: itemBaseURL}
}

// CreateListing validates the input and creates the listing. It fails
// fast on validation errors, before any network call. Error values are
// *ValidationError, *auth.Error, *NetworkError or *UpstreamError.
func (s *Service) CreateListing(ctx context.Context, raw ListingInput) (Created, error) {
	input, err := ValidateInput(raw)
	if err != nil {
		return Created{}, err
	}

	token, err := s.tokens.Token(ctx)
	if err != nil {
		return Created{}, err
	}

	body, err := s.client.AddFixedPriceItem(ctx, token, BuildAddItemXML(input))
	if err != nil {
		return Created{}, err
	}

	result := ParseAddItemResponse(body)
	if !result.OK {
		return Created{}, &UpstreamError{Message: result.Message, Raw: result.Raw}
	}

	created := Created{
		ItemID: result.ItemID,
		URL:    s.itemBaseURL + "/" + result.ItemID,
	}
	log.Info().
		Str("itemId", created.ItemID).
		Str("title", input.Title).
		Float64("price", input.Price).
		Msg("created listing")

	return created, nil
}
