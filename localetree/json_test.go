package localetree

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestWriteReadTreeRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "en.json")

	tree := Tree{
		"b": map[string]any{"y": "2", "x": "1"},
		"a": "0",
	}
	if err := WriteTree(path, tree); err != nil {
		t.Fatalf("WriteTree: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading written file: %v", err)
	}
	want := `{
  "a": "0",
  "b": {
    "x": "1",
    "y": "2"
  }
}
`
	if string(data) != want {
		t.Fatalf("written JSON = %q, want %q", data, want)
	}

	got, err := ReadTree(path)
	if err != nil {
		t.Fatalf("ReadTree: %v", err)
	}
	if v, ok := GetAtPath(got, "b.x"); !ok || v != "1" {
		t.Fatalf("GetAtPath(b.x) after round trip = %v, %v", v, ok)
	}
}

func TestWriteTreeCreatesParentDirs(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "fr", "app.json")
	if err := WriteTree(path, Tree{"k": "v"}); err != nil {
		t.Fatalf("WriteTree: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("written file missing: %v", err)
	}
}

func TestReadTreeMissingFile(t *testing.T) {
	tree, err := ReadTree(filepath.Join(t.TempDir(), "absent.json"))
	if err == nil {
		t.Fatal("expected error for missing file")
	}
	if tree == nil || len(tree) != 0 {
		t.Fatalf("tree = %v, want empty", tree)
	}
}

func TestReadTreeMalformedFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.json")
	if err := os.WriteFile(path, []byte("{not json"), 0644); err != nil {
		t.Fatal(err)
	}

	tree, err := ReadTree(path)
	if err == nil || !strings.Contains(err.Error(), "parsing") {
		t.Fatalf("err = %v, want parse error", err)
	}
	if len(tree) != 0 {
		t.Fatalf("tree = %v, want empty", tree)
	}
}
