// Package cachefile implements the persisted translation cache: a flat JSON
// object mapping "source-locale:target-locale:source-text" to a previously
// computed translation. The cache is loaded once when the translator is
// constructed, appended to during the run, and written back once at the end,
// so re-running a sync never re-translates text the provider has already
// seen.
package cachefile

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"
)

// FileName is the default cache file name, stored at the locale root.
const FileName = ".locsync-cache.json"

// Store holds cached translations keyed by Key. Safe for concurrent use.
type Store struct {
	mu      sync.Mutex
	entries map[string]string
	path    string
}

// Key builds the composite cache key for one translation request.
func Key(fromLocale, toLocale, text string) string {
	return fromLocale + ":" + toLocale + ":" + text
}

// New returns an empty store bound to a path. Used when the on-disk cache
// is disabled or unreadable but an in-memory store is still wanted.
func New(path string) *Store {
	return &Store{
		entries: make(map[string]string),
		path:    path,
	}
}

// Load reads a cache file from disk. A missing file yields an empty store;
// a corrupt file is an error so a damaged cache is never silently dropped.
func Load(path string) (*Store, error) {
	s := &Store{
		entries: make(map[string]string),
		path:    path,
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return s, nil
		}
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	if err := json.Unmarshal(data, &s.entries); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	if s.entries == nil {
		s.entries = make(map[string]string)
	}
	return s, nil
}

// Get returns the cached translation for a key, if present.
func (s *Store) Get(key string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.entries[key]
	return v, ok
}

// Set stores a translation under a key.
func (s *Store) Set(key, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[key] = value
}

// Len returns the number of cached translations.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// Path returns the file the store was loaded from and saves to.
func (s *Store) Path() string {
	return s.path
}

// Save writes the full cache map back to disk as a flat JSON object with
// sorted keys and a trailing newline.
func (s *Store) Save() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.path == "" {
		return fmt.Errorf("cache file path not set")
	}

	data, err := json.MarshalIndent(s.entries, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling cache: %w", err)
	}
	data = append(data, '\n')

	if err := os.WriteFile(s.path, data, 0644); err != nil {
		return fmt.Errorf("writing %s: %w", s.path, err)
	}
	return nil
}
