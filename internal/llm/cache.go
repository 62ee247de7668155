package llm

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"github.com/flippit/arbiai/internal/storage"
	"github.com/rs/zerolog/log"
)

// CachedWriter wraps a CopyWriter with SQLite caching. Identical
// generation requests return the stored copy without an LLM call.
type CachedWriter struct {
	inner CopyWriter
	store storage.Store
}

// NewCachedWriter creates a caching copy writer.
func NewCachedWriter(inner CopyWriter, store storage.Store) *CachedWriter {
	return &CachedWriter{inner: inner, store: store}
}

// hashRequest keys the cache on the full generation request.
func hashRequest(query string, msrp *float64, platform string) string {
	price := "unknown"
	if msrp != nil {
		price = fmt.Sprintf("%.2f", *msrp)
	}
	h := sha256.Sum256([]byte(platform + "\x00" + query + "\x00" + price))
	return hex.EncodeToString(h[:])
}

// GenerateListing implements CopyWriter with caching.
func (c *CachedWriter) GenerateListing(ctx context.Context, query string, msrp *float64, platform string) (*ListingCopy, error) {
	hash := hashRequest(query, msrp, platform)

	if c.store != nil {
		cached, err := c.store.GetCopyCache(hash)
		if err != nil {
			log.Warn().Err(err).Msg("failed to check copy cache")
		} else if cached != nil {
			log.Debug().Str("hash", hash[:16]).Msg("copy cache hit")
			return &ListingCopy{Title: cached.Title, Description: cached.Description}, nil
		}
	}

	result, err := c.inner.GenerateListing(ctx, query, msrp, platform)
	if err != nil {
		return nil, err
	}

	if c.store != nil {
		entry := &storage.CopyCacheEntry{Title: result.Title, Description: result.Description}
		if err := c.store.SetCopyCache(hash, entry); err != nil {
			log.Warn().Err(err).Msg("failed to cache listing copy")
		} else {
			log.Debug().Str("hash", hash[:16]).Msg("cached listing copy")
		}
	}

	return result, nil
}
