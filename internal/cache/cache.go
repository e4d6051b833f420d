// Package cache provides a content-addressed store for chunk summaries.
// Entries live in one flat directory as <16-hex-key>.txt files containing
// the summary as raw text. The cache is a pure optimization: every read
// and write failure is logged and swallowed, never surfaced to callers.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// keyLength is the number of hex characters retained from the sha256 digest.
const keyLength = 16

// Key derives the deterministic cache key for a chunk summary from the
// exact chunk text, summary kind, model identifier, and output language.
// Same inputs always produce the same key; any differing field produces,
// with overwhelming probability, a different one.
func Key(text, kind, model, language string) string {
	content := strings.Join([]string{text, kind, model, language}, "|")
	sum := sha256.Sum256([]byte(content))
	return hex.EncodeToString(sum[:])[:keyLength]
}

// Store is a directory-backed summary cache.
type Store struct {
	dir string
	// warnings receives human-readable notes about swallowed I/O failures.
	warnings io.Writer
}

// NewStore creates a Store rooted at dir, creating the directory if needed.
func NewStore(dir string, warnings io.Writer) (*Store, error) {
	if warnings == nil {
		warnings = io.Discard
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating cache directory %s: %w", dir, err)
	}
	return &Store{dir: dir, warnings: warnings}, nil
}

// Dir returns the cache directory path.
func (s *Store) Dir() string {
	return s.dir
}

func (s *Store) entryPath(key string) string {
	return filepath.Join(s.dir, key+".txt")
}

// Read looks up a cached summary by key. It returns ok=false when the
// entry is missing, empty or whitespace-only, or unreadable.
func (s *Store) Read(key string) (string, bool) {
	data, err := os.ReadFile(s.entryPath(key))
	if err != nil {
		if !os.IsNotExist(err) {
			fmt.Fprintf(s.warnings, "Warning: could not read cache entry %s: %v\n", key, err)
		}
		return "", false
	}

	content := strings.TrimSpace(string(data))
	if content == "" {
		return "", false
	}
	return content, true
}

// Write persists a summary under key. Failures are logged and swallowed;
// writes with identical content are idempotent so concurrent runs racing
// on the same key cannot corrupt an entry in a way readers would notice.
func (s *Store) Write(key, content string) {
	if err := os.WriteFile(s.entryPath(key), []byte(content), 0o644); err != nil {
		fmt.Fprintf(s.warnings, "Warning: could not write cache entry %s: %v\n", key, err)
	}
}

// Sweep deletes every entry whose last-modified time is older than maxAge
// and reports how many were removed. Per-entry and whole-directory access
// failures are tolerated and skipped.
func (s *Store) Sweep(maxAge time.Duration) int {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return 0
	}

	cutoff := time.Now().Add(-maxAge)
	removed := 0
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".txt") {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if info.ModTime().Before(cutoff) {
			if err := os.Remove(filepath.Join(s.dir, entry.Name())); err == nil {
				removed++
			}
		}
	}
	return removed
}

// Clear removes every entry in the store and reports how many were removed.
func (s *Store) Clear() int {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return 0
	}

	removed := 0
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".txt") {
			continue
		}
		if err := os.Remove(filepath.Join(s.dir, entry.Name())); err == nil {
			removed++
		}
	}
	return removed
}
