package workspace

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func makeRoot(t *testing.T, locales ...string) string {
	t.Helper()
	root := t.TempDir()
	for _, l := range locales {
		if err := os.MkdirAll(filepath.Join(root, l), 0755); err != nil {
			t.Fatal(err)
		}
	}
	return root
}

func TestDiscoverFindsLocaleDirs(t *testing.T) {
	root := makeRoot(t, "en", "de", "pt-BR", "zh_CN")
	// Noise that must be ignored.
	if err := os.MkdirAll(filepath.Join(root, "node_modules"), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(root, "fr"), []byte("a file, not a dir"), 0644); err != nil {
		t.Fatal(err)
	}

	ws, err := Discover(root)
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}
	want := []string{"de", "en", "pt-BR", "zh_CN"}
	if !reflect.DeepEqual(ws.Locales, want) {
		t.Fatalf("Locales = %v, want %v", ws.Locales, want)
	}
}

func TestDiscoverErrors(t *testing.T) {
	if _, err := Discover(filepath.Join(t.TempDir(), "missing")); err == nil {
		t.Fatal("expected error for missing root")
	}
	if _, err := Discover(makeRoot(t)); err == nil {
		t.Fatal("expected error for root without locale directories")
	}
}

func TestTargets(t *testing.T) {
	root := makeRoot(t, "en", "de", "fr", "it")
	ws, err := Discover(root)
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name             string
		include, exclude string
		want             []string
	}{
		{"all non-base", "", "", []string{"de", "fr", "it"}},
		{"include filter", "de,fr", "", []string{"de", "fr"}},
		{"exclude filter", "", "it", []string{"de", "fr"}},
		{"include beats exclude overlap", "de", "de", nil},
		{"base never a target", "en,de", "", []string{"de"}},
	}
	for _, tc := range tests {
		got, err := ws.Targets("en", tc.include, tc.exclude)
		if err != nil {
			t.Fatalf("%s: %v", tc.name, err)
		}
		if !reflect.DeepEqual(got, tc.want) {
			t.Fatalf("%s: Targets = %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestTargetsMissingBase(t *testing.T) {
	ws, err := Discover(makeRoot(t, "de", "fr"))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := ws.Targets("en", "", ""); err == nil {
		t.Fatal("expected error when base locale is absent")
	}
}

func TestListFiles(t *testing.T) {
	root := makeRoot(t, "en")
	for _, name := range []string{"b.json", "a.json", "notes.txt"} {
		if err := os.WriteFile(filepath.Join(root, "en", name), []byte("{}"), 0644); err != nil {
			t.Fatal(err)
		}
	}
	ws, err := Discover(root)
	if err != nil {
		t.Fatal(err)
	}

	files, err := ws.ListFiles("en")
	if err != nil {
		t.Fatalf("ListFiles: %v", err)
	}
	if want := []string{"a.json", "b.json"}; !reflect.DeepEqual(files, want) {
		t.Fatalf("files = %v, want %v", files, want)
	}

	missing, err := ws.ListFiles("xx")
	if err != nil || missing != nil {
		t.Fatalf("ListFiles(missing dir) = %v, %v", missing, err)
	}
}

func TestLoadSyncFile(t *testing.T) {
	root := t.TempDir()

	sf, err := LoadSyncFile(root)
	if err != nil || sf != nil {
		t.Fatalf("absent file: sf=%v err=%v", sf, err)
	}

	content := `base_locale: en
exclude: it
provider: google
model: gemini-2.5-flash
concurrency: 5
cache: false
`
	if err := os.WriteFile(filepath.Join(root, SyncFileName), []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	sf, err = LoadSyncFile(root)
	if err != nil {
		t.Fatalf("LoadSyncFile: %v", err)
	}
	if sf.BaseLocale != "en" || sf.Provider != "google" || sf.Concurrency != 5 {
		t.Fatalf("parsed = %+v", sf)
	}
	if sf.Cache == nil || *sf.Cache {
		t.Fatalf("cache = %v, want disabled", sf.Cache)
	}
}

func TestLoadSyncFileInvalidYAML(t *testing.T) {
	root := t.TempDir()
	if err := os.WriteFile(filepath.Join(root, SyncFileName), []byte(":\n:bad"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadSyncFile(root); err == nil {
		t.Fatal("expected parse error")
	}
}
