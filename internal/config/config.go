// Package config loads process configuration from the environment.
// All values are read once at startup; the resulting Config is never
// mutated afterwards.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
)

const (
	AppName     = "arbiai"
	EnvFileName = "config.env"

	// Default OAuth scope requested during the token exchange.
	DefaultOAuthScope = "https://api.ebay.com/oauth/api_scope"
)

// Env selects which set of marketplace endpoints is used.
type Env string

const (
	EnvSandbox    Env = "sandbox"
	EnvProduction Env = "production"
)

// Config holds everything the process needs from the environment.
type Config struct {
	Env        Env
	ListenAddr string

	EbayClientID     string
	EbayClientSecret string
	EbayRefreshToken string
	EbayRuName       string
	OAuthScope       string

	GeminiAPIKey string

	DBPath     string
	StorageKey string
}

// Endpoints are the environment-dependent marketplace base URLs.
type Endpoints struct {
	OAuthTokenURL string // POST token exchange
	TradingURL    string // POST ws/api.dll
	ConsentURL    string // user consent redirect
	ItemBaseURL   string // public listing URL prefix
}

// LoadEnvFile loads environment variables from the config file in the
// user's config directory. Errors are ignored since the file may not
// exist.
func LoadEnvFile() {
	configBase, err := os.UserConfigDir()
	if err != nil {
		return
	}
	configPath := filepath.Join(configBase, AppName, EnvFileName)
	_ = godotenv.Load(configPath)
}

// Load reads the configuration from the environment. It fails when the
// eBay OAuth credentials are incomplete, since listing creation cannot
// work without them.
func Load() (*Config, error) {
	c := &Config{
		Env:              Env(envOr("EBAY_ENV", string(EnvSandbox))),
		ListenAddr:       envOr("LISTEN_ADDR", ":8080"),
		EbayClientID:     os.Getenv("EBAY_CLIENT_ID"),
		EbayClientSecret: os.Getenv("EBAY_CLIENT_SECRET"),
		EbayRefreshToken: os.Getenv("EBAY_REFRESH_TOKEN"),
		EbayRuName:       os.Getenv("EBAY_RUNAME"),
		OAuthScope:       envOr("EBAY_OAUTH_SCOPE", DefaultOAuthScope),
		GeminiAPIKey:     os.Getenv("GEMINI_API_KEY"),
		DBPath:           envOr("ARBIAI_DB_PATH", "arbiai.db"),
		StorageKey:       os.Getenv("ARBIAI_STORAGE_KEY"),
	}

	if c.Env != EnvSandbox && c.Env != EnvProduction {
		return nil, fmt.Errorf("EBAY_ENV must be %q or %q, got %q", EnvSandbox, EnvProduction, c.Env)
	}
	// The refresh token may instead come from the store, filled by the
	// consent flow; only the client credentials are strictly required.
	if c.EbayClientID == "" || c.EbayClientSecret == "" {
		return nil, fmt.Errorf("missing eBay OAuth environment variables (EBAY_CLIENT_ID, EBAY_CLIENT_SECRET)")
	}

	return c, nil
}

// Endpoints resolves the marketplace base URLs for the configured
// environment.
func (c *Config) Endpoints() Endpoints {
	if c.Env == EnvProduction {
		return Endpoints{
			OAuthTokenURL: "https://api.ebay.com/identity/v1/oauth2/token",
			TradingURL:    "https://api.ebay.com/ws/api.dll",
			ConsentURL:    "https://auth.ebay.com/oauth2/authorize",
			ItemBaseURL:   "https://www.ebay.com/itm",
		}
	}
	return Endpoints{
		OAuthTokenURL: "https://api.sandbox.ebay.com/identity/v1/oauth2/token",
		TradingURL:    "https://api.sandbox.ebay.com/ws/api.dll",
		ConsentURL:    "https://auth.sandbox.ebay.com/oauth2/authorize",
		ItemBaseURL:   "https://sandbox.ebay.com/itm",
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
