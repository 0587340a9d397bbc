// Package localetree implements the nested translation tree model used by
// locale JSON files: flattening a tree into dot-joined key paths, point
// reads/writes/deletes by path, structural diffing of two trees, and
// reading/writing the trees as JSON files.
//
// A tree is the result of decoding a JSON object with encoding/json:
// objects are map[string]any, arrays are []any, and scalars are string,
// float64, bool, or nil. Arrays are treated as opaque leaves — their
// contents are never descended into.
package localetree

import (
	"sort"
	"strings"
)

// Tree is a nested locale document: string keys mapping to scalar leaves,
// arrays, or nested objects.
type Tree = map[string]any

// Shape classifies the structural kind of a value at a key path.
type Shape string

const (
	ShapeString    Shape = "string"
	ShapeNumber    Shape = "number"
	ShapeBoolean   Shape = "boolean"
	ShapeArray     Shape = "array"
	ShapeObject    Shape = "object"
	ShapeNull      Shape = "null"
	ShapeUndefined Shape = "undefined"
)

// ShapeOf classifies a decoded JSON value. Values that cannot appear in a
// decoded JSON document report ShapeUndefined.
func ShapeOf(v any) Shape {
	switch v.(type) {
	case nil:
		return ShapeNull
	case string:
		return ShapeString
	case float64, int, int64:
		return ShapeNumber
	case bool:
		return ShapeBoolean
	case []any:
		return ShapeArray
	case map[string]any:
		return ShapeObject
	default:
		return ShapeUndefined
	}
}

// FlatEntry is one leaf of a flattened tree: the dot-joined key path and the
// value stored there. Arrays count as leaves; objects are traversal nodes
// and are never emitted themselves.
type FlatEntry struct {
	Path  string
	Value any
}

// Flatten walks the tree depth-first with sorted sibling keys and returns
// one entry per non-object value. The preorder emission is deterministic so
// log output stays stable across runs; consumers key by path, not position.
func Flatten(tree Tree) []FlatEntry {
	var out []FlatEntry
	flattenInto("", tree, &out)
	return out
}

func flattenInto(prefix string, node map[string]any, out *[]FlatEntry) {
	keys := make([]string, 0, len(node))
	for k := range node {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		path := k
		if prefix != "" {
			path = prefix + "." + k
		}
		if child, ok := node[k].(map[string]any); ok {
			flattenInto(path, child, out)
			continue
		}
		*out = append(*out, FlatEntry{Path: path, Value: node[k]})
	}
}

// GetAtPath resolves a dot-joined path. The second result is false (not an
// error) when any intermediate segment is absent or not an object.
func GetAtPath(tree Tree, path string) (any, bool) {
	node := map[string]any(tree)
	segs := strings.Split(path, ".")
	for i, seg := range segs {
		v, ok := node[seg]
		if !ok {
			return nil, false
		}
		if i == len(segs)-1 {
			return v, true
		}
		child, ok := v.(map[string]any)
		if !ok {
			return nil, false
		}
		node = child
	}
	return nil, false
}

// SetAtPath writes a value at a dot-joined path, creating intermediate
// object nodes as needed. A non-object intermediate in the way is replaced
// by a fresh object; the old value is lost.
func SetAtPath(tree Tree, path string, value any) {
	node := map[string]any(tree)
	segs := strings.Split(path, ".")
	for _, seg := range segs[:len(segs)-1] {
		child, ok := node[seg].(map[string]any)
		if !ok {
			child = make(map[string]any)
			node[seg] = child
		}
		node = child
	}
	node[segs[len(segs)-1]] = value
}

// DeleteAtPath removes the value at a dot-joined path from its parent
// object. It is a no-op when the path does not resolve, and it does not
// prune ancestor objects left empty by the removal.
func DeleteAtPath(tree Tree, path string) {
	node := map[string]any(tree)
	segs := strings.Split(path, ".")
	for _, seg := range segs[:len(segs)-1] {
		child, ok := node[seg].(map[string]any)
		if !ok {
			return
		}
		node = child
	}
	delete(node, segs[len(segs)-1])
}
