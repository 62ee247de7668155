package ebay

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeTokenSource struct {
	token string
	err   error
	calls atomic.Int64
}

func (f *fakeTokenSource) Token(ctx context.Context) (string, error) {
	f.calls.Add(1)
	if f.err != nil {
		return "", f.err
	}
	return f.token, nil
}

func newTestService(t *testing.T, handler http.HandlerFunc) (*Service, *fakeTokenSource, *httptest.Server) {
	t.Helper()
	ts := httptest.NewServer(handler)
	t.Cleanup(ts.Close)

	tokens := &fakeTokenSource{token: "tok"}
	svc := NewService(tokens, NewClient(ClientOpts{BaseURL: ts.URL}), "https://sandbox.ebay.com/itm")
	return svc, tokens, ts
}

func TestCreateListingSuccess(t *testing.T) {
	var req *http.Request
	var body string
	svc, tokens, _ := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		req = r
		b, _ := io.ReadAll(r.Body)
		body = string(b)
		w.Header().Set("Content-Type", "text/xml")
		io.WriteString(w, `<Ack>Success</Ack><ItemID>999</ItemID>`)
	})

	created, err := svc.CreateListing(context.Background(), validInput())
	require.NoError(t, err)
	assert.Equal(t, "999", created.ItemID)
	assert.Equal(t, "https://sandbox.ebay.com/itm/999", created.URL)
	assert.Equal(t, int64(1), tokens.calls.Load())

	assert.Equal(t, "AddFixedPriceItem", req.Header.Get("X-EBAY-API-CALL-NAME"))
	assert.Equal(t, "0", req.Header.Get("X-EBAY-API-SITEID"))
	assert.Equal(t, "967", req.Header.Get("X-EBAY-API-COMPATIBILITY-LEVEL"))
	assert.Equal(t, "tok", req.Header.Get("X-EBAY-API-IAF-TOKEN"))
	assert.Equal(t, "text/xml", req.Header.Get("Content-Type"))
	assert.Contains(t, body, "<Title>Rolex Submariner Date 41mm</Title>")
}

func TestCreateListingValidationFailsBeforeAnyNetworkCall(t *testing.T) {
	var hits atomic.Int64
	svc, tokens, _ := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
	})

	raw := ListingInput{
		Title:       strings.Repeat("A", 81),
		Description: "x",
		Price:       10,
		PhotoURL:    "https://x/y.jpg",
	}
	_, err := svc.CreateListing(context.Background(), raw)

	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Equal(t, int64(0), tokens.calls.Load())
	assert.Equal(t, int64(0), hits.Load())
}

func TestCreateListingTokenFailurePropagates(t *testing.T) {
	var hits atomic.Int64
	svc, tokens, _ := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
	})
	tokens.err = assert.AnError

	_, err := svc.CreateListing(context.Background(), validInput())
	require.ErrorIs(t, err, assert.AnError)
	assert.Equal(t, int64(0), hits.Load(), "no trading call after token failure")
}

func TestCreateListingNon2xxIsNetworkError(t *testing.T) {
	svc, _, _ := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		io.WriteString(w, "upstream down")
	})

	_, err := svc.CreateListing(context.Background(), validInput())
	var networkErr *NetworkError
	require.ErrorAs(t, err, &networkErr)
	assert.Equal(t, http.StatusInternalServerError, networkErr.Status)
	assert.Equal(t, "upstream down", networkErr.Body)
}

func TestCreateListingAckFailureIsUpstreamError(t *testing.T) {
	svc, _, _ := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `<Ack>Failure</Ack><LongMessage>Category invalid</LongMessage>`)
	})

	_, err := svc.CreateListing(context.Background(), validInput())
	var upstreamErr *UpstreamError
	require.ErrorAs(t, err, &upstreamErr)
	assert.Equal(t, "Category invalid", upstreamErr.Message)
	assert.Contains(t, upstreamErr.Raw, "<Ack>Failure</Ack>")
}

func TestCreateListingTransportErrorIsNetworkError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	ts.Close() // connection refused from here on

	svc := NewService(&fakeTokenSource{token: "tok"}, NewClient(ClientOpts{BaseURL: ts.URL}), "https://sandbox.ebay.com/itm")
	_, err := svc.CreateListing(context.Background(), validInput())

	var networkErr *NetworkError
	require.ErrorAs(t, err, &networkErr)
	assert.Zero(t, networkErr.Status)
}
