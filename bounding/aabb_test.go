package bounding

import (
	"math"
	"testing"

	"github.com/akmonengine/feather2d/math2d"
	"github.com/go-gl/mathgl/mgl32"
)

// Helper functions
func vec2Equal(a, b mgl32.Vec2, tolerance float32) bool {
	return mgl32.Abs(a.X()-b.X()) < tolerance &&
		mgl32.Abs(a.Y()-b.Y()) < tolerance
}

func aabbEqual(a, b AABB, tolerance float32) bool {
	return vec2Equal(a.Mins, b.Mins, tolerance) && vec2Equal(a.Maxs, b.Maxs, tolerance)
}

func box(minX, minY, maxX, maxY float32) AABB {
	return AABB{Mins: mgl32.Vec2{minX, minY}, Maxs: mgl32.Vec2{maxX, maxY}}
}

// =============================================================================
// Construction
// =============================================================================

func TestFromHalfExtents(t *testing.T) {
	aabb := FromHalfExtents(mgl32.Vec2{1, -2}, mgl32.Vec2{3, 0.5})
	if aabb.Mins != (mgl32.Vec2{-2, -2.5}) || aabb.Maxs != (mgl32.Vec2{4, -1.5}) {
		t.Errorf("FromHalfExtents() = %v", aabb)
	}
	if aabb.Center() != (mgl32.Vec2{1, -2}) {
		t.Errorf("Center() = %v, want (1, -2)", aabb.Center())
	}
	if aabb.HalfExtents() != (mgl32.Vec2{3, 0.5}) {
		t.Errorf("HalfExtents() = %v, want (3, 0.5)", aabb.HalfExtents())
	}
}

func TestFromHalfExtents_NegativeIsEmpty(t *testing.T) {
	inverted := FromHalfExtents(mgl32.Vec2{0, 0}, mgl32.Vec2{-1, 1})
	if inverted.IsValid() {
		t.Fatalf("inverted box %v should not be valid", inverted)
	}
	if inverted.Overlaps(box(-10, -10, 10, 10)) {
		t.Error("an inverted box should not overlap anything")
	}
	if box(-10, -10, 10, 10).Overlaps(inverted) {
		t.Error("no box should overlap an inverted box")
	}
	if inverted.ContainsPoint(mgl32.Vec2{0, 0}) {
		t.Error("an inverted box should not contain its center")
	}
}

func TestAABBOverlaps_Inverted(t *testing.T) {
	big := box(-10, -10, 10, 10)
	tests := []struct {
		name     string
		inverted AABB
	}{
		{"both axes", FromHalfExtents(mgl32.Vec2{0, 0}, mgl32.Vec2{-1, -1})},
		{"x axis", FromHalfExtents(mgl32.Vec2{2, 3}, mgl32.Vec2{-0.5, 1})},
		{"y axis", FromHalfExtents(mgl32.Vec2{-2, 1}, mgl32.Vec2{1, -0.5})},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.inverted.Overlaps(big) {
				t.Errorf("%v.Overlaps(%v) = true, want false", tt.inverted, big)
			}
			if big.Overlaps(tt.inverted) {
				t.Errorf("%v.Overlaps(%v) = true, want false", big, tt.inverted)
			}
			if tt.inverted.Overlaps(tt.inverted) {
				t.Errorf("%v should not overlap itself", tt.inverted)
			}
		})
	}
}

func TestFromPoints(t *testing.T) {
	aabb := FromPoints(mgl32.Vec2{1, 1}, mgl32.Vec2{-2, 3}, mgl32.Vec2{0, -4})
	if !aabbEqual(aabb, box(-2, -4, 1, 3), 1e-6) {
		t.Errorf("FromPoints() = %v", aabb)
	}
}

// =============================================================================
// Merge
// =============================================================================

func TestAABBMerged(t *testing.T) {
	a := box(0, 0, 1, 1)
	b := box(-1, 0.5, 0.5, 3)
	c := box(2, -2, 4, -1)

	t.Run("commutative", func(t *testing.T) {
		if a.Merged(b) != b.Merged(a) {
			t.Errorf("a.Merged(b) = %v, b.Merged(a) = %v", a.Merged(b), b.Merged(a))
		}
	})

	t.Run("associative", func(t *testing.T) {
		left := a.Merged(b).Merged(c)
		right := a.Merged(b.Merged(c))
		if left != right {
			t.Errorf("(a+b)+c = %v, a+(b+c) = %v", left, right)
		}
	})

	t.Run("idempotent", func(t *testing.T) {
		if a.Merged(a) != a {
			t.Errorf("a.Merged(a) = %v, want %v", a.Merged(a), a)
		}
	})

	t.Run("contains both", func(t *testing.T) {
		m := a.Merged(c)
		if !m.Contains(a) || !m.Contains(c) {
			t.Errorf("merged %v should contain %v and %v", m, a, c)
		}
		if !aabbEqual(m, box(0, -2, 4, 1), 1e-6) {
			t.Errorf("a.Merged(c) = %v", m)
		}
	})
}

// =============================================================================
// Transform
// =============================================================================

func TestAABBTransformBy(t *testing.T) {
	tests := []struct {
		name     string
		aabb     AABB
		iso      math2d.Isometry
		expected AABB
	}{
		{
			name:     "identity",
			aabb:     box(-2, -1, 2, 1),
			iso:      math2d.Identity(),
			expected: box(-2, -1, 2, 1),
		},
		{
			name:     "translation only",
			aabb:     box(-2, -1, 2, 1),
			iso:      math2d.Translation(5, -3),
			expected: box(3, -4, 7, -2),
		},
		{
			name:     "rotation 90°",
			aabb:     box(-2, -1, 2, 1),
			iso:      math2d.NewIsometry(mgl32.Vec2{}, math.Pi/2),
			expected: box(-1, -2, 1, 2),
		},
		{
			name:     "rotation 45°",
			aabb:     box(-1, -1, 1, 1),
			iso:      math2d.NewIsometry(mgl32.Vec2{}, math.Pi/4),
			expected: box(-math.Sqrt2, -math.Sqrt2, math.Sqrt2, math.Sqrt2),
		},
		{
			name:     "off-center box rotated 180°",
			aabb:     box(1, 1, 3, 2),
			iso:      math2d.NewIsometry(mgl32.Vec2{}, math.Pi),
			expected: box(-3, -2, -1, -1),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.aabb.TransformBy(tt.iso)
			if !aabbEqual(got, tt.expected, 1e-5) {
				t.Errorf("TransformBy() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestAABBTransformBy_Conservative(t *testing.T) {
	local := box(-2, -1, 2, 1)
	isos := []math2d.Isometry{
		math2d.NewIsometry(mgl32.Vec2{1, 2}, 0.3),
		math2d.NewIsometry(mgl32.Vec2{-4, 0}, 2.1),
		math2d.NewIsometry(mgl32.Vec2{0, 7}, -1.3),
	}

	for _, iso := range isos {
		aabb := local.TransformBy(iso).Loosened(1e-5)
		for _, v := range local.Vertices() {
			if p := iso.TransformPoint(v); !aabb.ContainsPoint(p) {
				t.Errorf("%v should contain transformed corner %v", aabb, p)
			}
		}
	}
}

func TestAABBTransformBy_TwiceBoundsComposition(t *testing.T) {
	local := box(-2, -1, 2, 1)
	t1 := math2d.NewIsometry(mgl32.Vec2{1, 0}, 0.4)
	t2 := math2d.NewIsometry(mgl32.Vec2{0, 2}, 0.5)

	twice := local.TransformBy(t1).TransformBy(t2)
	once := local.TransformBy(t2.Mul(t1))

	if !twice.Loosened(1e-5).Contains(once) {
		t.Errorf("two-step transform %v should contain composed transform %v", twice, once)
	}
	if twice.Area() <= once.Area() {
		t.Errorf("two-step transform should be looser here: %v vs %v", twice.Area(), once.Area())
	}
}

// =============================================================================
// Overlaps / ContainsPoint
// =============================================================================

func TestAABBOverlaps_Separated(t *testing.T) {
	tests := []struct {
		name  string
		aabb1 AABB
		aabb2 AABB
	}{
		{"Separated on X axis (positive)", box(0, 0, 1, 1), box(2, 0, 3, 1)},
		{"Separated on X axis (negative)", box(0, 0, 1, 1), box(-2, 0, -1, 1)},
		{"Separated on Y axis (positive)", box(0, 0, 1, 1), box(0, 2, 1, 3)},
		{"Separated on Y axis (negative)", box(0, 0, 1, 1), box(0, -2, 1, -1)},
		{"Separated diagonally", box(0, 0, 1, 1), box(1.5, 1.5, 2, 2)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.aabb1.Overlaps(tt.aabb2) {
				t.Errorf("AABBs should not overlap")
			}
			// Test symmetry
			if tt.aabb2.Overlaps(tt.aabb1) {
				t.Errorf("AABBs should not overlap (symmetry test)")
			}
		})
	}
}

func TestAABBOverlaps_Overlapping(t *testing.T) {
	tests := []struct {
		name  string
		aabb1 AABB
		aabb2 AABB
	}{
		{"Complete overlap (identical)", box(0, 0, 1, 1), box(0, 0, 1, 1)},
		{"Partial overlap on X axis", box(0, 0, 2, 1), box(1, 0, 3, 1)},
		{"Partial overlap on Y axis", box(0, 0, 1, 2), box(0, 1, 1, 3)},
		{"Complete containment", box(0, 0, 10, 10), box(2, 2, 3, 3)},
		{"Edge touching", box(0, 0, 1, 1), box(1, 0, 2, 1)},
		{"Corner touching", box(0, 0, 1, 1), box(1, 1, 2, 2)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !tt.aabb1.Overlaps(tt.aabb2) {
				t.Errorf("AABBs should overlap")
			}
			if !tt.aabb2.Overlaps(tt.aabb1) {
				t.Errorf("AABBs should overlap (symmetry test)")
			}
		})
	}
}

func TestAABBContainsPoint(t *testing.T) {
	aabb := box(0, 0, 2, 2)

	tests := []struct {
		name     string
		point    mgl32.Vec2
		expected bool
	}{
		{"Center point", mgl32.Vec2{1, 1}, true},
		{"Min corner", mgl32.Vec2{0, 0}, true},
		{"Max corner", mgl32.Vec2{2, 2}, true},
		{"Outside (X too large)", mgl32.Vec2{3, 1}, false},
		{"Outside (X too small)", mgl32.Vec2{-1, 1}, false},
		{"Outside (Y too large)", mgl32.Vec2{1, 3}, false},
		{"Outside (Y too small)", mgl32.Vec2{1, -1}, false},
		{"Edge point (X)", mgl32.Vec2{2, 1}, true},
		{"Edge point (Y)", mgl32.Vec2{1, 2}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := aabb.ContainsPoint(tt.point)
			if result != tt.expected {
				t.Errorf("ContainsPoint(%v) = %v, expected %v", tt.point, result, tt.expected)
			}
		})
	}
}
