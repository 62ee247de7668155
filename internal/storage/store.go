// Package storage persists created listings, cached LLM output and the
// encrypted eBay refresh token in a local SQLite database. It is the
// local fallback store; there is no hosted backend behind it.
package storage

import (
	"database/sql"
	"fmt"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

// ListingRecord is a created marketplace listing.
type ListingRecord struct {
	ID        int64
	ItemID    string
	Title     string
	Price     float64
	Platform  string
	URL       string
	CreatedAt time.Time
}

// CopyCacheEntry is cached LLM-generated listing copy.
type CopyCacheEntry struct {
	Title       string
	Description string
}

// Store defines the interface for listing persistence.
type Store interface {
	SaveListing(rec *ListingRecord) error
	RecentListings(limit int) ([]ListingRecord, error)

	GetCopyCache(hash string) (*CopyCacheEntry, error)
	SetCopyCache(hash string, entry *CopyCacheEntry) error

	SaveRefreshToken(token string) error
	LoadRefreshToken() (string, error)

	Close() error
}

// SQLiteStore implements Store using SQLite. The refresh token row is
// encrypted at rest with AES-GCM.
type SQLiteStore struct {
	db            *sql.DB
	encryptionKey []byte
	mu            sync.RWMutex
}

// NewSQLiteStore opens (and if needed creates) the database at dbPath.
// The encryptionKey is used for the refresh token row; see DeriveKey.
func NewSQLiteStore(dbPath string, encryptionKey []byte) (*SQLiteStore, error) {
	// WAL mode and busy timeout for better concurrency
	dsn := fmt.Sprintf("%s?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)", dbPath)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &SQLiteStore{db: db, encryptionKey: encryptionKey}
	if err := store.init(); err != nil {
		db.Close()
		return nil, err
	}

	return store, nil
}

func (s *SQLiteStore) init() error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS listings (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			item_id TEXT NOT NULL,
			title TEXT NOT NULL,
			price REAL NOT NULL,
			platform TEXT NOT NULL,
			url TEXT NOT NULL,
			created_at DATETIME NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS copy_cache (
			hash TEXT PRIMARY KEY,
			title TEXT NOT NULL,
			description TEXT NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);`,
		`CREATE TABLE IF NOT EXISTS ebay_credentials (
			id INTEGER PRIMARY KEY CHECK (id = 1),
			encrypted_refresh_token TEXT NOT NULL,
			last_updated DATETIME NOT NULL
		);`,
	}
	for _, q := range queries {
		if _, err := s.db.Exec(q); err != nil {
			return fmt.Errorf("failed to create schema: %w", err)
		}
	}
	return nil
}

// SaveListing appends a created listing.
func (s *SQLiteStore) SaveListing(rec *ListingRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now()
	}

	res, err := s.db.Exec(
		`INSERT INTO listings (item_id, title, price, platform, url, created_at) VALUES (?, ?, ?, ?, ?, ?)`,
		rec.ItemID, rec.Title, rec.Price, rec.Platform, rec.URL, rec.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save listing: %w", err)
	}
	rec.ID, _ = res.LastInsertId()
	return nil
}

// RecentListings returns the newest listings, most recent first.
func (s *SQLiteStore) RecentListings(limit int) ([]ListingRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if limit <= 0 {
		limit = 50
	}

	rows, err := s.db.Query(
		`SELECT id, item_id, title, price, platform, url, created_at FROM listings ORDER BY created_at DESC, id DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query listings: %w", err)
	}
	defer rows.Close()

	var listings []ListingRecord
	for rows.Next() {
		var rec ListingRecord
		if err := rows.Scan(&rec.ID, &rec.ItemID, &rec.Title, &rec.Price, &rec.Platform, &rec.URL, &rec.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		listings = append(listings, rec)
	}
	return listings, rows.Err()
}

// GetCopyCache retrieves cached listing copy by prompt hash.
// Returns nil, nil on a cache miss.
func (s *SQLiteStore) GetCopyCache(hash string) (*CopyCacheEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var entry CopyCacheEntry
	err := s.db.QueryRow(
		`SELECT title, description FROM copy_cache WHERE hash = ?`,
		hash,
	).Scan(&entry.Title, &entry.Description)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query copy cache: %w", err)
	}
	return &entry, nil
}

// SetCopyCache stores listing copy under a prompt hash.
func (s *SQLiteStore) SetCopyCache(hash string, entry *CopyCacheEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(`
		INSERT INTO copy_cache (hash, title, description)
		VALUES (?, ?, ?)
		ON CONFLICT(hash) DO UPDATE SET
			title = excluded.title,
			description = excluded.description,
			created_at = CURRENT_TIMESTAMP
	`, hash, entry.Title, entry.Description)
	if err != nil {
		return fmt.Errorf("failed to upsert copy cache: %w", err)
	}
	return nil
}

// SaveRefreshToken stores the eBay refresh token, encrypted at rest.
func (s *SQLiteStore) SaveRefreshToken(token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	encrypted, err := Encrypt([]byte(token), s.encryptionKey)
	if err != nil {
		return fmt.Errorf("failed to encrypt refresh token: %w", err)
	}

	_, err = s.db.Exec(`
		INSERT INTO ebay_credentials (id, encrypted_refresh_token, last_updated)
		VALUES (1, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			encrypted_refresh_token = excluded.encrypted_refresh_token,
			last_updated = excluded.last_updated
	`, encrypted, time.Now())
	if err != nil {
		return fmt.Errorf("failed to save refresh token: %w", err)
	}
	return nil
}

// LoadRefreshToken retrieves the stored refresh token.
// Returns "", nil when none has been saved.
func (s *SQLiteStore) LoadRefreshToken() (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var encrypted string
	err := s.db.QueryRow(
		`SELECT encrypted_refresh_token FROM ebay_credentials WHERE id = 1`,
	).Scan(&encrypted)

	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to query refresh token: %w", err)
	}

	token, err := Decrypt(encrypted, s.encryptionKey)
	if err != nil {
		return "", fmt.Errorf("failed to decrypt refresh token: %w", err)
	}
	return string(token), nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
