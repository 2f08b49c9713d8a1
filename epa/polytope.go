package epa

import (
	"math"
	"sync"

	"github.com/akmonengine/feather2d/gjk"
	"github.com/akmonengine/feather2d/math2d"
	"github.com/go-gl/mathgl/mgl32"
)

// Edge is an edge of the expanding polygon, seen from the origin.
type Edge struct {
	// Index of the first vertex; the edge runs to the next vertex.
	Index int
	// Normal is the outward unit normal of the edge.
	Normal mgl32.Vec2
	// Distance from the origin to the edge's supporting line, along Normal.
	Distance float32
}

// PolygonBuilder holds the counter-clockwise polygon expanded by EPA.
type PolygonBuilder struct {
	vertices []mgl32.Vec2
}

// polygonBuilderPool avoids allocating the vertex buffer on every EPA run.
var polygonBuilderPool = sync.Pool{
	New: func() interface{} {
		return &PolygonBuilder{
			vertices: make([]mgl32.Vec2, 0, polygonInitialCapacity),
		}
	},
}

// Reset prepares the builder for reuse.
func (b *PolygonBuilder) Reset() {
	b.vertices = b.vertices[:0]
}

// Vertices returns the current polygon, counter-clockwise.
func (b *PolygonBuilder) Vertices() []mgl32.Vec2 {
	return b.vertices
}

// BuildInitialPolygon starts the polygon from a GJK triangle, reordering it
// counter-clockwise. It returns ErrDegenerateSimplex for a flat triangle.
func (b *PolygonBuilder) BuildInitialPolygon(simplex *gjk.Simplex) error {
	if simplex.Count != 3 {
		return ErrDegenerateSimplex
	}

	p0, p1, p2 := simplex.Points[0], simplex.Points[1], simplex.Points[2]
	area := math2d.PerpDot(p1.Sub(p0), p2.Sub(p0))
	if mgl32.Abs(area) < degenerateArea {
		return ErrDegenerateSimplex
	}
	if area < 0 {
		p1, p2 = p2, p1
	}

	b.vertices = append(b.vertices[:0], p0, p1, p2)
	return nil
}

// ClosestEdge returns the edge of the polygon closest to the origin.
// Zero-length edges are ignored.
func (b *PolygonBuilder) ClosestEdge() (Edge, bool) {
	closest := Edge{Distance: math.MaxFloat32}
	found := false

	n := len(b.vertices)
	for i := 0; i < n; i++ {
		a := b.vertices[i]
		e := b.vertices[(i+1)%n].Sub(a)

		// Right-hand perpendicular: outward for a counter-clockwise polygon
		normal, ok := math2d.TryNormalize(mgl32.Vec2{e.Y(), -e.X()}, 1e-12)
		if !ok {
			continue
		}
		if d := normal.Dot(a); d < closest.Distance {
			closest = Edge{Index: i, Normal: snapNormalToAxis(normal), Distance: d}
			found = true
		}
	}

	return closest, found
}

// Insert splits edge into two edges joined at point.
func (b *PolygonBuilder) Insert(edge Edge, point mgl32.Vec2) {
	at := edge.Index + 1
	b.vertices = append(b.vertices, mgl32.Vec2{})
	copy(b.vertices[at+1:], b.vertices[at:])
	b.vertices[at] = point
}

// snapNormalToAxis clamps nearly-zero components of a unit normal to zero,
// which keeps axis-aligned contacts exactly axis-aligned.
func snapNormalToAxis(normal mgl32.Vec2) mgl32.Vec2 {
	x, y := normal.X(), normal.Y()
	if mgl32.Abs(x) < NormalSnapThreshold {
		x = 0
	}
	if mgl32.Abs(y) < NormalSnapThreshold {
		y = 0
	}

	snapped, ok := math2d.TryNormalize(mgl32.Vec2{x, y}, 1e-12)
	if !ok {
		return normal
	}
	return snapped
}
