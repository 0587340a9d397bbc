package localetree

import "sort"

// ShapeMismatch records a key path present in both trees whose values have
// different structural shapes.
type ShapeMismatch struct {
	Path   string
	Base   Shape
	Target Shape
}

// DiffResult describes how a target tree diverges from the base tree.
// Leaf values that differ while keeping the same shape are never reported:
// differing translated text is expected, not a sync concern.
type DiffResult struct {
	// Missing lists paths present in base but absent from target.
	Missing []string
	// Extra lists paths present in target but absent from base.
	Extra []string
	// Mismatches lists paths present in both with differing shapes.
	Mismatches []ShapeMismatch
}

// Empty reports whether the two trees have identical path/shape sets.
func (d DiffResult) Empty() bool {
	return len(d.Missing) == 0 && len(d.Extra) == 0 && len(d.Mismatches) == 0
}

// Diff flattens both trees and compares their key path sets. All three
// result slices come back in lexical path order.
func Diff(base, target Tree) DiffResult {
	baseFlat := flatMap(base)
	targetFlat := flatMap(target)

	var d DiffResult
	for _, path := range sortedPaths(baseFlat) {
		tv, ok := targetFlat[path]
		if !ok {
			d.Missing = append(d.Missing, path)
			continue
		}
		bs, ts := ShapeOf(baseFlat[path]), ShapeOf(tv)
		if bs != ts {
			d.Mismatches = append(d.Mismatches, ShapeMismatch{Path: path, Base: bs, Target: ts})
		}
	}
	for _, path := range sortedPaths(targetFlat) {
		if _, ok := baseFlat[path]; !ok {
			d.Extra = append(d.Extra, path)
		}
	}
	return d
}

func flatMap(tree Tree) map[string]any {
	entries := Flatten(tree)
	m := make(map[string]any, len(entries))
	for _, e := range entries {
		m[e.Path] = e.Value
	}
	return m
}

func sortedPaths(m map[string]any) []string {
	paths := make([]string, 0, len(m))
	for p := range m {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}
