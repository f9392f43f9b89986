package vellum

import (
	"math"
	"testing"
)

func TestNewAABBNormalizes(t *testing.T) {
	got := NewAABB(10, 5, -2, 8)
	want := AABB{-2, 5, 10, 8}
	if got != want {
		t.Errorf("NewAABB = %v, want %v", got, want)
	}
	if got.Width() != 12 || got.Height() != 3 {
		t.Errorf("size = %vx%v", got.Width(), got.Height())
	}
}

func TestAABBValid(t *testing.T) {
	tests := []struct {
		name string
		box  AABB
		want bool
	}{
		{"normal", AABB{0, 0, 1, 1}, true},
		{"degenerate point", AABB{2, 2, 2, 2}, true},
		{"inverted", AABB{1, 0, 0, 1}, false},
		{"nan", AABB{math.NaN(), 0, 1, 1}, false},
		{"union identity", emptyAABB, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.box.Valid(); got != tt.want {
				t.Errorf("Valid() = %v, want %v", got, tt.want)
			}
			if tt.box.Empty() == tt.want {
				t.Errorf("Empty() = %v", tt.box.Empty())
			}
			if !tt.want && tt.box.Area() != 0 {
				t.Errorf("malformed box has area %v", tt.box.Area())
			}
		})
	}
}

func TestAABBIntersects(t *testing.T) {
	a := AABB{0, 0, 10, 10}
	tests := []struct {
		name  string
		other AABB
		want  bool
	}{
		{"overlap", AABB{5, 5, 15, 15}, true},
		{"inside", AABB{2, 2, 3, 3}, true},
		{"shared edge", AABB{10, 0, 20, 10}, true},
		{"apart", AABB{11, 0, 20, 10}, false},
		{"below", AABB{0, 11, 10, 20}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := a.Intersects(tt.other); got != tt.want {
				t.Errorf("Intersects = %v, want %v", got, tt.want)
			}
			if got := tt.other.Intersects(a); got != tt.want {
				t.Errorf("Intersects is not symmetric")
			}
		})
	}
}

func TestAABBContains(t *testing.T) {
	a := AABB{0, 0, 10, 10}
	if !a.Contains(0, 10) || !a.Contains(5, 5) || a.Contains(10.5, 5) {
		t.Error("point containment wrong")
	}
	if !a.ContainsAABB(AABB{1, 1, 10, 10}) || a.ContainsAABB(AABB{-1, 1, 5, 5}) {
		t.Error("box containment wrong")
	}
}

func TestAABBUnionAndMetrics(t *testing.T) {
	a, b := AABB{0, 0, 2, 2}, AABB{5, -1, 6, 1}
	if got := a.Union(b); got != (AABB{0, -1, 6, 2}) {
		t.Errorf("Union = %v", got)
	}
	if got := emptyAABB.Union(a); got != a {
		t.Errorf("empty.Union(a) = %v, want %v", got, a)
	}
	if a.Area() != 4 || a.Margin() != 4 {
		t.Errorf("Area = %v, Margin = %v", a.Area(), a.Margin())
	}
	if got := a.Intersection(AABB{1, 1, 5, 5}); got != 1 {
		t.Errorf("Intersection = %v, want 1", got)
	}
	if got := a.Intersection(b); got != 0 {
		t.Errorf("disjoint Intersection = %v", got)
	}
	if got := a.Expand(1); got != (AABB{-1, -1, 3, 3}) {
		t.Errorf("Expand = %v", got)
	}
	if x, y := b.Center(); x != 5.5 || y != 0 {
		t.Errorf("Center = (%v, %v)", x, y)
	}
}
