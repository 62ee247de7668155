// Package ebay creates fixed-price listings through the eBay Trading
// API: input validation, XML request building, the HTTP call and
// response interpretation.
package ebay

import (
	"context"
	"time"

	"github.com/go-resty/resty/v2"
)

const (
	callNameAddItem    = "AddFixedPriceItem"
	siteID             = "0"
	compatibilityLevel = "967"
)

// ClientOpts configures a Trading API client.
type ClientOpts struct {
	// BaseURL is the full ws/api.dll endpoint URL.
	BaseURL string
	// Timeout bounds each outbound call. Defaults to 20s.
	Timeout time.Duration
}

// Client performs raw Trading API calls. It holds no token state;
// callers pass the bearer token per call.
type Client struct {
	httpClient *resty.Client
	baseURL    string
}

// NewClient creates a Trading API client.
func NewClient(opts ClientOpts) *Client {
	timeout := opts.Timeout
	if timeout == 0 {
		timeout = 20 * time.Second
	}
	return &Client{
		httpClient: resty.New().SetTimeout(timeout),
		baseURL:    opts.BaseURL,
	}
}

// AddFixedPriceItem posts an AddFixedPriceItemRequest document and
// returns the raw response body. Transport failures, timeouts and
// non-2xx statuses are returned as *NetworkError; interpreting the
// body is the caller's job.
func (c *Client) AddFixedPriceItem(ctx context.Context, token, xmlBody string) (string, error) {
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetHeaders(map[string]string{
			"X-EBAY-API-CALL-NAME":           callNameAddItem,
			"X-EBAY-API-SITEID":              siteID,
			"X-EBAY-API-COMPATIBILITY-LEVEL": compatibilityLevel,
			"X-EBAY-API-IAF-TOKEN":           token,
			"Content-Type":                   "text/xml",
		}).
		SetBody(xmlBody).
		Post(c.baseURL)
	if err != nil {
		return "", &NetworkError{Err: err}
	}
	if resp.IsError() {
		return "", &NetworkError{Status: resp.StatusCode(), Body: string(resp.Body())}
	}
	return string(resp.Body()), nil
}
