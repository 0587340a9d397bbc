package localetree

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// ReadTree loads a locale JSON file. Any read or parse failure yields an
// empty tree together with the failure, so callers can warn about a corrupt
// file instead of silently treating it as one with no keys.
func ReadTree(path string) (Tree, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Tree{}, fmt.Errorf("reading %s: %w", path, err)
	}

	var tree Tree
	if err := json.Unmarshal(data, &tree); err != nil {
		return Tree{}, fmt.Errorf("parsing %s: %w", path, err)
	}
	if tree == nil {
		tree = Tree{}
	}
	return tree, nil
}

// WriteTree serializes a tree with lexically sorted keys at every nesting
// level, two-space indentation, and a trailing newline.
func WriteTree(path string, tree Tree) error {
	// encoding/json sorts map keys at every level.
	data, err := json.MarshalIndent(tree, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling %s: %w", path, err)
	}
	data = append(data, '\n')

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating directory: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}
