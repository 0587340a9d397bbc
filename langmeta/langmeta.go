// Package langmeta resolves locale codes to display metadata (English
// language names and emoji flags) used in prompts, status output, and the
// translation instruction sent to the provider.
package langmeta

import (
	"fmt"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

// Meta describes locale display metadata.
type Meta struct {
	// Code is the locale code as given (e.g. "pt-BR").
	Code string
	// Name is the English display name (e.g. "Brazilian Portuguese").
	Name string
	// Flag is an emoji flag derived from the region subtag, if any.
	Flag string
}

// Canonical parses a locale code, accepting both "pt-BR" and "pt_BR" forms.
func Canonical(code string) (language.Tag, error) {
	normalized := strings.ReplaceAll(code, "_", "-")
	tag, err := language.Parse(normalized)
	if err != nil {
		return language.Und, fmt.Errorf("locale %q: %w", code, err)
	}
	return tag, nil
}

// IsLocaleCode reports whether a directory name looks like a locale code:
// two letters, optionally followed by "-" or "_" and two more letters,
// case-insensitive, and parseable as a language tag.
func IsLocaleCode(name string) bool {
	n := len(name)
	if n != 2 && n != 5 {
		return false
	}
	if !isLetter(name[0]) || !isLetter(name[1]) {
		return false
	}
	if n == 5 {
		if name[2] != '-' && name[2] != '_' {
			return false
		}
		if !isLetter(name[3]) || !isLetter(name[4]) {
			return false
		}
	}
	_, err := Canonical(name)
	return err == nil
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

// Resolve returns best-effort display metadata for a locale code. Codes
// that do not parse fall back to the code itself as the name.
func Resolve(code string) Meta {
	m := Meta{Code: code, Name: code}

	tag, err := Canonical(code)
	if err != nil {
		return m
	}
	if name := display.English.Languages().Name(tag); name != "" {
		m.Name = name
	}
	if region, confidence := tag.Region(); confidence != language.No && region.IsCountry() {
		m.Flag = flagFromRegion(region.String())
	}
	return m
}

// Name is shorthand for Resolve(code).Name.
func Name(code string) string {
	return Resolve(code).Name
}

// flagFromRegion converts a two-letter country code into the corresponding
// emoji flag via Unicode regional indicator symbols.
func flagFromRegion(region string) string {
	region = strings.ToUpper(region)
	if len(region) != 2 || region[0] < 'A' || region[0] > 'Z' || region[1] < 'A' || region[1] > 'Z' {
		return ""
	}
	const base = 0x1F1E6
	return string([]rune{
		rune(base + int(region[0]-'A')),
		rune(base + int(region[1]-'A')),
	})
}
