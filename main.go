package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/flippit/arbiai/internal/config"
	"github.com/flippit/arbiai/internal/ebay"
	"github.com/flippit/arbiai/internal/ebay/auth"
	"github.com/flippit/arbiai/internal/llm"
	"github.com/flippit/arbiai/internal/server"
	"github.com/flippit/arbiai/internal/storage"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	// Try to load existing .env file
	config.LoadEnvFile()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}
	endpoints := cfg.Endpoints()

	// The storage key protects the refresh token at rest. Fall back to
	// the client secret so the store works out of the box.
	storageKey := cfg.StorageKey
	if storageKey == "" {
		storageKey = cfg.EbayClientSecret
	}

	store, err := storage.NewSQLiteStore(cfg.DBPath, storage.DeriveKey(storageKey))
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize store")
	}
	defer store.Close()
	log.Info().Str("dbPath", cfg.DBPath).Msg("store initialized")

	refreshToken := cfg.EbayRefreshToken
	if refreshToken == "" {
		refreshToken, err = store.LoadRefreshToken()
		if err != nil {
			log.Warn().Err(err).Msg("failed to load stored refresh token")
		}
		if refreshToken != "" {
			log.Info().Msg("using stored eBay refresh token")
		} else {
			log.Warn().Msg("no eBay refresh token; complete the consent flow at /api/ebay/auth")
		}
	}

	tokenCache := auth.NewCache(auth.Credentials{
		ClientID:     cfg.EbayClientID,
		ClientSecret: cfg.EbayClientSecret,
		RefreshToken: refreshToken,
		Scope:        cfg.OAuthScope,
	}, endpoints.OAuthTokenURL)

	listingService := ebay.NewService(
		tokenCache,
		ebay.NewClient(ebay.ClientOpts{BaseURL: endpoints.TradingURL}),
		endpoints.ItemBaseURL,
	)

	var writer llm.CopyWriter
	if cfg.GeminiAPIKey != "" {
		ctx := context.Background()
		geminiWriter, err := llm.NewWriter(ctx, cfg.GeminiAPIKey)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to initialize listing copy writer")
		}
		writer = llm.NewCachedWriter(geminiWriter, store)
		log.Info().Msg("listing copy generation enabled")
	} else {
		log.Warn().Msg("GEMINI_API_KEY not set; listing copy generation disabled")
	}

	handler := &server.Handler{
		Listings: listingService,
		Writer:   writer,
		Store:    store,
		Exchange: tokenCache,
		OAuth: server.OAuthConfig{
			ConsentURL: endpoints.ConsentURL,
			ClientID:   cfg.EbayClientID,
			RuName:     cfg.EbayRuName,
			Scope:      cfg.OAuthScope,
		},
	}

	srv := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           handler.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Create context that cancels on SIGINT or SIGTERM
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info().Str("addr", cfg.ListenAddr).Str("env", string(cfg.Env)).Msg("listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil && err != context.Canceled {
		log.Error().Err(err).Msg("shutdown with error")
	} else {
		log.Info().Msg("shutdown complete")
	}
}
