package localetree

import (
	"reflect"
	"testing"
)

func TestDiffEqualTreesIsEmpty(t *testing.T) {
	b := sampleTree()
	d := Diff(b, b)
	if !d.Empty() {
		t.Fatalf("diff of a tree with itself = %+v, want empty", d)
	}
}

func TestDiffValueChangesAreNotReported(t *testing.T) {
	base := Tree{"a": map[string]any{"b": "Hello"}}
	target := Tree{"a": map[string]any{"b": "Bonjour"}}
	d := Diff(base, target)
	if !d.Empty() {
		t.Fatalf("differing leaf values reported as discrepancy: %+v", d)
	}
}

func TestDiffMissingAndExtra(t *testing.T) {
	base := Tree{
		"a": map[string]any{"b": "1", "c": "2"},
		"z": "3",
	}
	target := Tree{
		"a":     map[string]any{"b": "uno"},
		"added": "4",
	}

	d := Diff(base, target)

	if want := []string{"a.c", "z"}; !reflect.DeepEqual(d.Missing, want) {
		t.Fatalf("Missing = %v, want %v", d.Missing, want)
	}
	if want := []string{"added"}; !reflect.DeepEqual(d.Extra, want) {
		t.Fatalf("Extra = %v, want %v", d.Extra, want)
	}
	if len(d.Mismatches) != 0 {
		t.Fatalf("Mismatches = %v, want none", d.Mismatches)
	}
}

func TestDiffShapeMismatch(t *testing.T) {
	base := Tree{"n": "text", "arr": []any{"x"}}
	target := Tree{"n": float64(5), "arr": []any{"y", "z"}}

	d := Diff(base, target)

	if len(d.Missing) != 0 || len(d.Extra) != 0 {
		t.Fatalf("mismatched path leaked into Missing/Extra: %+v", d)
	}
	want := []ShapeMismatch{{Path: "n", Base: ShapeString, Target: ShapeNumber}}
	if !reflect.DeepEqual(d.Mismatches, want) {
		t.Fatalf("Mismatches = %v, want %v", d.Mismatches, want)
	}
}

func TestDiffArrayShapeDistinctFromObject(t *testing.T) {
	// An array at a path is a leaf; an object at the same path contributes
	// its own leaves instead. The path ends up missing+extra, never a
	// mismatch, because the flattened path sets do not intersect there.
	base := Tree{"v": []any{"x"}}
	target := Tree{"v": map[string]any{"sub": "y"}}

	d := Diff(base, target)

	if want := []string{"v"}; !reflect.DeepEqual(d.Missing, want) {
		t.Fatalf("Missing = %v, want %v", d.Missing, want)
	}
	if want := []string{"v.sub"}; !reflect.DeepEqual(d.Extra, want) {
		t.Fatalf("Extra = %v, want %v", d.Extra, want)
	}
}
