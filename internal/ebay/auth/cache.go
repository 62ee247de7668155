// Package auth provides OAuth bearer tokens for the eBay Trading API.
// Tokens are obtained with the refresh_token grant and cached in memory
// until shortly before expiry. The cache is a performance optimization
// only; it is lost on restart by design.
package auth

import (
	"context"
	"encoding/base64"
	"fmt"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/singleflight"
)

// expiryMargin treats tokens as expired slightly early so a request
// never reaches the marketplace with a token about to lapse.
const expiryMargin = 60 * time.Second

// Credentials is the client-credential material for the token exchange.
// Immutable after load.
type Credentials struct {
	ClientID     string
	ClientSecret string
	RefreshToken string
	Scope        string
}

// Error is returned when a token cannot be obtained: missing
// credentials, a non-2xx response from the provider, or a response
// body without an access_token.
type Error struct {
	Message string
	Body    string // raw provider response, for diagnostics
}

func (e *Error) Error() string {
	if e.Body != "" {
		return fmt.Sprintf("%s: %s", e.Message, e.Body)
	}
	return e.Message
}

type cachedToken struct {
	value     string
	expiresAt time.Time
}

// Cache holds a single cached access token and refreshes it when
// expired or absent. Safe for concurrent use; concurrent callers with
// an expired token share one in-flight exchange.
type Cache struct {
	creds      Credentials
	tokenURL   string
	httpClient *resty.Client
	now        func() time.Time

	group singleflight.Group

	mu  sync.Mutex
	tok *cachedToken
}

// Option configures a Cache.
type Option func(*Cache)

// WithClock overrides the time source, for expiry testing.
func WithClock(now func() time.Time) Option {
	return func(c *Cache) { c.now = now }
}

// NewCache creates a token cache that exchanges tokens at tokenURL.
func NewCache(creds Credentials, tokenURL string, opts ...Option) *Cache {
	c := &Cache{
		creds:      creds,
		tokenURL:   tokenURL,
		httpClient: resty.New().SetTimeout(20 * time.Second),
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Token returns a valid bearer token, performing a token exchange only
// when no unexpired token is cached.
func (c *Cache) Token(ctx context.Context) (string, error) {
	if tok, ok := c.cached(); ok {
		return tok, nil
	}

	v, err, _ := c.group.Do("token", func() (any, error) {
		return c.refresh(ctx)
	})
	if err != nil {
		return "", err
	}
	return v.(string), nil
}

func (c *Cache) cached() (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.tok != nil && c.now().Before(c.tok.expiresAt.Add(-expiryMargin)) {
		return c.tok.value, true
	}
	return "", false
}

type tokenResponse struct {
	AccessToken  string `json:"access_token"`
	ExpiresIn    int64  `json:"expires_in"`
	TokenType    string `json:"token_type"`
	RefreshToken string `json:"refresh_token"`
}

// HasRefreshToken reports whether a refresh token is configured.
func (c *Cache) HasRefreshToken() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.creds.RefreshToken != ""
}

// ExchangeCode trades an authorization code from the consent flow for
// a token pair. The returned refresh token replaces the configured one
// and the access token is cached.
func (c *Cache) ExchangeCode(ctx context.Context, code, redirectURI string) (string, error) {
	c.mu.Lock()
	creds := c.creds
	c.mu.Unlock()

	if creds.ClientID == "" || creds.ClientSecret == "" {
		return "", &Error{Message: "missing eBay OAuth credentials"}
	}

	basic := base64.StdEncoding.EncodeToString([]byte(creds.ClientID + ":" + creds.ClientSecret))

	result := &tokenResponse{}
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetHeader("Authorization", "Basic "+basic).
		SetFormData(map[string]string{
			"grant_type":   "authorization_code",
			"code":         code,
			"redirect_uri": redirectURI,
		}).
		SetResult(result).
		Post(c.tokenURL)
	if err != nil {
		return "", &Error{Message: fmt.Sprintf("code exchange request failed: %v", err)}
	}
	if resp.IsError() {
		return "", &Error{
			Message: fmt.Sprintf("code exchange failed (status: %d)", resp.StatusCode()),
			Body:    string(resp.Body()),
		}
	}
	if result.RefreshToken == "" {
		return "", &Error{
			Message: "code exchange response missing refresh_token",
			Body:    string(resp.Body()),
		}
	}

	c.mu.Lock()
	c.creds.RefreshToken = result.RefreshToken
	if result.AccessToken != "" {
		c.tok = &cachedToken{
			value:     result.AccessToken,
			expiresAt: c.now().Add(time.Duration(result.ExpiresIn) * time.Second),
		}
	}
	c.mu.Unlock()

	log.Info().Msg("obtained eBay refresh token from consent flow")

	return result.RefreshToken, nil
}

// refresh performs the token exchange and replaces the cached token on
// success. On failure the previous cache content is left untouched.
func (c *Cache) refresh(ctx context.Context) (string, error) {
	c.mu.Lock()
	creds := c.creds
	c.mu.Unlock()

	if creds.ClientID == "" || creds.ClientSecret == "" || creds.RefreshToken == "" {
		return "", &Error{Message: "missing eBay OAuth credentials"}
	}

	basic := base64.StdEncoding.EncodeToString([]byte(creds.ClientID + ":" + creds.ClientSecret))

	result := &tokenResponse{}
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetHeader("Authorization", "Basic "+basic).
		SetFormData(map[string]string{
			"grant_type":    "refresh_token",
			"refresh_token": creds.RefreshToken,
			"scope":         creds.Scope,
		}).
		SetResult(result).
		Post(c.tokenURL)
	if err != nil {
		return "", &Error{Message: fmt.Sprintf("token exchange request failed: %v", err)}
	}
	if resp.IsError() {
		return "", &Error{
			Message: fmt.Sprintf("token exchange failed (status: %d)", resp.StatusCode()),
			Body:    string(resp.Body()),
		}
	}
	if result.AccessToken == "" {
		return "", &Error{
			Message: "token exchange response missing access_token",
			Body:    string(resp.Body()),
		}
	}

	expiresAt := c.now().Add(time.Duration(result.ExpiresIn) * time.Second)

	c.mu.Lock()
	c.tok = &cachedToken{value: result.AccessToken, expiresAt: expiresAt}
	c.mu.Unlock()

	log.Debug().Time("expiresAt", expiresAt).Msg("refreshed eBay access token")

	return result.AccessToken, nil
}
