package cachefile

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadMissingFileIsEmpty(t *testing.T) {
	s, err := Load(filepath.Join(t.TempDir(), FileName))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if s.Len() != 0 {
		t.Fatalf("Len = %d, want 0", s.Len())
	}
}

func TestLoadCorruptFileIsError(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	if err := os.WriteFile(path, []byte("not json"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("expected error for corrupt cache file")
	}
}

func TestSetSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)

	s, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	s.Set(Key("en", "fr", "Hello {name}"), "Bonjour {name}")
	if err := s.Save(); err != nil {
		t.Fatalf("Save: %v", err)
	}

	reloaded, err := Load(path)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	got, ok := reloaded.Get(Key("en", "fr", "Hello {name}"))
	if !ok || got != "Bonjour {name}" {
		t.Fatalf("Get = %q, %v", got, ok)
	}
}

func TestKeyComposite(t *testing.T) {
	if got := Key("en", "de", "text"); got != "en:de:text" {
		t.Fatalf("Key = %q", got)
	}
	// Same text across locale pairs must not collide.
	if Key("en", "de", "x") == Key("en", "fr", "x") {
		t.Fatal("keys for different target locales collide")
	}
}
