// Package workspace discovers the locale directory layout: a root directory
// whose immediate subdirectories are locale codes (en, de, pt-BR, zh_CN),
// each holding JSON translation trees. It also loads the optional
// .locsync.yaml project configuration.
package workspace

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"locsync/cachefile"
	"locsync/langmeta"
)

// Workspace is a discovered locale root.
type Workspace struct {
	// Root is the locale root directory.
	Root string
	// Locales lists the discovered locale directory names, sorted.
	Locales []string
}

// Discover scans root for locale subdirectories. It fails when the root
// does not exist or contains no locale directories at all — both are
// configuration errors the caller reports before touching any file.
func Discover(root string) (*Workspace, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, fmt.Errorf("locale root %s: %w", root, err)
	}

	var locales []string
	for _, entry := range entries {
		if entry.IsDir() && langmeta.IsLocaleCode(entry.Name()) {
			locales = append(locales, entry.Name())
		}
	}
	if len(locales) == 0 {
		return nil, fmt.Errorf("no locale directories found under %s", root)
	}
	sort.Strings(locales)

	return &Workspace{Root: root, Locales: locales}, nil
}

// HasLocale reports whether a locale directory was discovered.
func (w *Workspace) HasLocale(locale string) bool {
	for _, l := range w.Locales {
		if l == locale {
			return true
		}
	}
	return false
}

// Targets returns the locales to synchronize against base, after applying
// comma-separated include/exclude filters. The base locale is never a
// target. An error is returned when the base locale itself was not
// discovered.
func (w *Workspace) Targets(base, include, exclude string) ([]string, error) {
	if !w.HasLocale(base) {
		return nil, fmt.Errorf("base locale %q not found under %s (discovered: %s)",
			base, w.Root, strings.Join(w.Locales, ", "))
	}

	included := splitList(include)
	excluded := splitList(exclude)

	var targets []string
	for _, locale := range w.Locales {
		if locale == base {
			continue
		}
		if len(included) > 0 && !contains(included, locale) {
			continue
		}
		if contains(excluded, locale) {
			continue
		}
		targets = append(targets, locale)
	}
	return targets, nil
}

// ListFiles returns the sorted *.json basenames in a locale directory.
// A missing directory simply has no files.
func (w *Workspace) ListFiles(locale string) ([]string, error) {
	entries, err := os.ReadDir(filepath.Join(w.Root, locale))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("listing %s: %w", locale, err)
	}

	var files []string
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".json") {
			continue
		}
		files = append(files, name)
	}
	sort.Strings(files)
	return files, nil
}

// TreePath returns the path of one locale tree file.
func (w *Workspace) TreePath(locale, file string) string {
	return filepath.Join(w.Root, locale, file)
}

// CachePath returns the translation cache file location for this root.
func (w *Workspace) CachePath() string {
	return filepath.Join(w.Root, cachefile.FileName)
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
