// Package cache persists fetched provision records in a local SQLite
// database, so repeated queries for the same path and date never hit the
// network. Entries are keyed by a BLAKE3 digest of the query and stored
// xz-compressed.
package cache

import (
	"bytes"
	"database/sql"
	"encoding/hex"
	"fmt"
	"io"
	"time"

	"github.com/ulikunitz/xz"
	"github.com/zeebo/blake3"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS responses (
	key        TEXT PRIMARY KEY,
	path       TEXT NOT NULL,
	date       TEXT NOT NULL,
	body       BLOB NOT NULL,
	created_at TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_responses_path ON responses(path);
`

// Cache is a persistent response cache. It is safe for concurrent use;
// the underlying *sql.DB serializes access.
type Cache struct {
	db *sql.DB
}

// Open opens (creating if needed) a cache database at the given path.
// Use ":memory:" for a throwaway in-memory cache.
func Open(path string) (*Cache, error) {
	db, err := sql.Open(driverName, path)
	if err != nil {
		return nil, fmt.Errorf("opening cache database: %w", err)
	}
	if path == ":memory:" {
		// Each new connection would get its own empty in-memory database.
		db.SetMaxOpenConns(1)
	}
	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("initializing cache schema: %w", err)
	}
	return &Cache{db: db}, nil
}

// Close releases the database handle.
func (c *Cache) Close() error {
	return c.db.Close()
}

// Key returns the cache key for a query: the hex BLAKE3 digest of
// "path@date".
func Key(path, date string) string {
	digest := blake3.Sum256([]byte(path + "@" + date))
	return hex.EncodeToString(digest[:])
}

// Get returns the cached body for a query, or ok=false on a miss.
func (c *Cache) Get(path, date string) ([]byte, bool, error) {
	var compressed []byte
	err := c.db.QueryRow(
		`SELECT body FROM responses WHERE key = ?`, Key(path, date),
	).Scan(&compressed)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("reading cache entry: %w", err)
	}
	body, err := decompress(compressed)
	if err != nil {
		return nil, false, fmt.Errorf("decompressing cache entry: %w", err)
	}
	return body, true, nil
}

// Put stores the body for a query, replacing any existing entry.
func (c *Cache) Put(path, date string, body []byte) error {
	compressed, err := compress(body)
	if err != nil {
		return fmt.Errorf("compressing cache entry: %w", err)
	}
	_, err = c.db.Exec(
		`INSERT OR REPLACE INTO responses (key, path, date, body, created_at)
		 VALUES (?, ?, ?, ?, ?)`,
		Key(path, date), path, date, compressed,
		time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("writing cache entry: %w", err)
	}
	return nil
}

// Purge removes every cached response.
func (c *Cache) Purge() error {
	if _, err := c.db.Exec(`DELETE FROM responses`); err != nil {
		return fmt.Errorf("purging cache: %w", err)
	}
	return nil
}

// Len returns the number of cached responses.
func (c *Cache) Len() (int, error) {
	var n int
	if err := c.db.QueryRow(`SELECT COUNT(*) FROM responses`).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting cache entries: %w", err)
	}
	return n, nil
}

func compress(body []byte) ([]byte, error) {
	var buf bytes.Buffer
	w, err := xz.NewWriter(&buf)
	if err != nil {
		return nil, err
	}
	if _, err := w.Write(body); err != nil {
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func decompress(compressed []byte) ([]byte, error) {
	r, err := xz.NewReader(bytes.NewReader(compressed))
	if err != nil {
		return nil, err
	}
	return io.ReadAll(r)
}
