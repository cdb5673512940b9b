package cache

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/cespare/xxhash/v2"
)

// Store keeps rendered page responses as files under dir.
type Store struct {
	dir    string
	maxAge time.Duration
}

func NewStore(dir string, maxAge time.Duration) *Store {
	return &Store{dir: dir, maxAge: maxAge}
}

// Path returns the cache file for a request key (path plus raw query).
func (s *Store) Path(key string) string {
	return filepath.Join(s.dir, generateHash(key)+".json")
}

// generateHash generates an xxHash hash for the given string
func generateHash(key string) string {
	return fmt.Sprintf("%016x", xxhash.Sum64String(key))
}

func (s *Store) Write(key string, body []byte) error {
	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return err
	}
	return os.WriteFile(s.Path(key), body, 0644)
}

// Read returns the cached body for key unless it is missing or older than
// the store's max age.
func (s *Store) Read(key string) ([]byte, bool) {
	path := s.Path(key)

	info, err := os.Stat(path)
	if err != nil {
		return nil, false
	}
	if time.Since(info.ModTime()) > s.maxAge {
		return nil, false
	}

	body, err := os.ReadFile(path)
	if err != nil {
		return nil, false
	}
	return body, true
}

func (s *Store) Remove(key string) error {
	err := os.Remove(s.Path(key))
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// Clear drops every cached response. Listings depend on many pages, so any
// content change invalidates the whole cache.
func (s *Store) Clear() error {
	if err := os.RemoveAll(s.dir); err != nil {
		return err
	}
	log.Println("[Cache] cleared", s.dir)
	return nil
}

// ClearExpired removes cache files older than the store's max age.
func (s *Store) ClearExpired() error {
	err := filepath.Walk(s.dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() || !strings.HasSuffix(path, ".json") {
			return nil
		}
		if time.Since(info.ModTime()) > s.maxAge {
			os.Remove(path)
		}
		return nil
	})
	if os.IsNotExist(err) {
		return nil
	}
	return err
}
