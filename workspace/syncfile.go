// .locsync.yaml configuration file support.
//
// When a .locsync.yaml exists in the locale root, its values act as
// project-level defaults; command-line flags override them.
package workspace

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// SyncFileName is the project config file name.
const SyncFileName = ".locsync.yaml"

// SyncFile is the .locsync.yaml schema.
type SyncFile struct {
	// BaseLocale is the reference locale (default "en").
	BaseLocale string `yaml:"base_locale,omitempty"`
	// Include restricts the target locales (comma-separated).
	Include string `yaml:"include,omitempty"`
	// Exclude removes locales from the target set (comma-separated).
	Exclude string `yaml:"exclude,omitempty"`
	// Provider is the AI provider ID.
	Provider string `yaml:"provider,omitempty"`
	// Model is the model identifier.
	Model string `yaml:"model,omitempty"`
	// Concurrency bounds in-flight translation calls.
	Concurrency int `yaml:"concurrency,omitempty"`
	// Cache toggles the persisted translation cache (default on).
	Cache *bool `yaml:"cache,omitempty"`
}

// LoadSyncFile loads .locsync.yaml from the locale root. Returns nil when
// absent.
func LoadSyncFile(root string) (*SyncFile, error) {
	path := filepath.Join(root, SyncFileName)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	var sf SyncFile
	if err := yaml.Unmarshal(data, &sf); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	if sf.Concurrency < 0 {
		return nil, fmt.Errorf("%s: concurrency must be positive", path)
	}
	return &sf, nil
}
