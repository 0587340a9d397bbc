// Package settings stores locsync user settings: API keys for translation
// providers, kept out of project directories so they are never committed.
//
// Keys live in the XDG data directory:
//
//	$XDG_DATA_HOME/locsync/auth.json  (default: ~/.local/share/locsync/)
//
// The file is a flat JSON object mapping provider ID to API key, written
// with 0600 permissions (owner read/write only).
//
// Lookup order for API keys at runtime:
//  1. --api-key flag (highest priority)
//  2. LOCSYNC_API_KEY environment variable
//  3. this store
package settings

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const (
	dataDirName = "locsync"
	fileName    = "auth.json"
)

// Store holds provider API keys, keyed by provider ID.
type Store map[string]string

func dataDir() (string, error) {
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, dataDirName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolving home directory: %w", err)
	}
	return filepath.Join(home, ".local", "share", dataDirName), nil
}

func filePath() (string, error) {
	dir, err := dataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, fileName), nil
}

// FilePath returns the auth.json path for display purposes, or "" if the
// home directory cannot be resolved.
func FilePath() string {
	p, err := filePath()
	if err != nil {
		return ""
	}
	return p
}

// Load reads the credential store. A missing or unreadable file yields an
// empty store — credentials are optional until a provider needs one.
func Load() Store {
	path, err := filePath()
	if err != nil {
		return Store{}
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Store{}
	}

	var store Store
	if err := json.Unmarshal(data, &store); err != nil {
		return Store{}
	}
	if store == nil {
		store = Store{}
	}
	return store
}

// Save writes the credential store with restrictive permissions.
func Save(store Store) error {
	path, err := filePath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}

	data, err := json.MarshalIndent(store, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling credentials: %w", err)
	}
	data = append(data, '\n')

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

// GetAPIKey returns the stored API key for a provider, or "".
func GetAPIKey(providerID string) string {
	return Load()[providerID]
}

// SetAPIKey stores an API key for a provider.
func SetAPIKey(providerID, key string) error {
	store := Load()
	store[providerID] = key
	return Save(store)
}

// RemoveAPIKey deletes the stored key for a provider.
func RemoveAPIKey(providerID string) error {
	store := Load()
	if _, ok := store[providerID]; !ok {
		return nil
	}
	delete(store, providerID)
	return Save(store)
}

// MaskKey renders a key for display, keeping only the first and last four
// characters.
func MaskKey(key string) string {
	if len(key) <= 8 {
		return strings.Repeat("*", len(key))
	}
	return key[:4] + strings.Repeat("*", len(key)-8) + key[len(key)-4:]
}
