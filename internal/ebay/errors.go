package ebay

import "fmt"

// ValidationError reports malformed listing input. It is returned
// before any network call is made.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// NetworkError reports a transport-level failure or non-2xx status
// from the Trading API endpoint.
type NetworkError struct {
	Status int    // 0 when the request never completed
	Body   string // response body text, when available
	Err    error
}

func (e *NetworkError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("trading api request failed: %v", e.Err)
	}
	return fmt.Sprintf("trading api request failed (status: %d)", e.Status)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// UpstreamError reports a 2xx Trading API response whose payload
// indicates failure (Ack != Success or missing ItemID).
type UpstreamError struct {
	Message string
	Raw     string // full response body, for diagnostics
}

func (e *UpstreamError) Error() string {
	return e.Message
}
