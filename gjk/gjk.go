// Package gjk implements the Gilbert-Johnson-Keerthi (GJK) algorithm for planar
// collision detection.
//
// GJK detects whether two convex shapes overlap by testing if their Minkowski
// difference contains the origin. In 2D the simplex grows from a point to a
// segment to a triangle; a triangle enclosing the origin proves the overlap.
//
// References:
//   - Gilbert, Johnson, Keerthi: "A Fast Procedure for Computing the Distance Between
//     Complex Objects in Three-Dimensional Space" (1988)
//   - Van den Bergen: "Collision Detection in Interactive 3D Environments" (2003)
package gjk

import (
	"sync"

	"github.com/akmonengine/feather2d/math2d"
	"github.com/akmonengine/feather2d/shape"
	"github.com/go-gl/mathgl/mgl32"
)

// MaxIterations bounds the number of support points added before GJK gives up.
const MaxIterations = 32

// Simplex represents a set of 1-3 points in the Minkowski difference space.
// Points[Count-1] is always the most recent support point.
type Simplex struct {
	Points [3]mgl32.Vec2
	Count  int
}

func (s *Simplex) Reset() {
	s.Count = 0
}

var SimplexPool = sync.Pool{
	New: func() interface{} {
		return &Simplex{}
	},
}

// MinkowskiSupport computes a support point in the Minkowski difference (A - B):
// furthestPoint(A, direction) - furthestPoint(B, -direction).
//
// Shapes only need a support mapping for GJK to work, not their full geometry.
func MinkowskiSupport(a shape.SupportMap, poseA math2d.Isometry, b shape.SupportMap, poseB math2d.Isometry, direction mgl32.Vec2) mgl32.Vec2 {
	supportA := shape.SupportPoint(a, poseA, direction)
	supportB := shape.SupportPoint(b, poseB, direction.Mul(-1))
	return supportA.Sub(supportB)
}

// GJK reports whether the convex shapes a and b, placed at poseA and poseB,
// overlap.
//
// The simplex is modified in place. On overlap it usually holds a triangle
// enclosing the origin, which EPA uses as its initial polygon. It holds fewer
// points when the shapes only touch.
func GJK(a shape.SupportMap, poseA math2d.Isometry, b shape.SupportMap, poseB math2d.Isometry, simplex *Simplex) bool {
	// Starting toward the other shape typically reduces iterations
	direction := poseB.Translation.Sub(poseA.Translation)
	if direction.LenSqr() < 1e-8 {
		direction = mgl32.Vec2{1, 0}
	}

	simplex.Points[0] = MinkowskiSupport(a, poseA, b, poseB, direction)
	simplex.Count = 1

	direction = simplex.Points[0].Mul(-1)
	if direction.LenSqr() < 1e-12 {
		return true
	}

	for i := 0; i < MaxIterations; i++ {
		newPoint := MinkowskiSupport(a, poseA, b, poseB, direction)

		// The new point does not pass the origin: the origin cannot be reached.
		if newPoint.Dot(direction) <= 0 {
			return false
		}

		simplex.Points[simplex.Count] = newPoint
		simplex.Count++

		if containsOrigin(simplex, &direction) {
			return true
		}
	}

	return false
}

// containsOrigin tests if the simplex contains the origin. Otherwise it reduces
// the simplex to its feature closest to the origin and updates the search
// direction.
func containsOrigin(simplex *Simplex, direction *mgl32.Vec2) bool {
	switch simplex.Count {
	case 2:
		return line(simplex, direction)
	case 3:
		return triangle(simplex, direction)
	}
	return false
}

// line handles the segment simplex (A most recent, B older).
func line(simplex *Simplex, direction *mgl32.Vec2) bool {
	a := simplex.Points[1]
	b := simplex.Points[0]
	ab := b.Sub(a)
	ao := a.Mul(-1)

	if ab.LenSqr() < 1e-10 {
		if ao.LenSqr() < 1e-10 {
			return true
		}
		simplex.Points[0] = a
		simplex.Count = 1
		*direction = ao
		return false
	}

	// Origin behind A: A alone is the closest feature
	if ab.Dot(ao) <= 0 {
		simplex.Points[0] = a
		simplex.Count = 1
		*direction = ao
		return false
	}

	abPerp := math2d.TripleProduct(ab, ao, ab)
	if abPerp.LenSqr() < 1e-10 {
		// Origin is on the segment: the shapes touch
		return true
	}

	*direction = abPerp
	return false
}

// triangle handles the triangle simplex (A most recent, then B, then C).
//
// The origin already lies beyond BC (it was the search direction), so only
// the regions of edges AB and AC need testing.
func triangle(simplex *Simplex, direction *mgl32.Vec2) bool {
	a := simplex.Points[2]
	b := simplex.Points[1]
	c := simplex.Points[0]

	ab := b.Sub(a)
	ac := c.Sub(a)
	ao := a.Mul(-1)

	// Collinear points: keep the segment AB
	if mgl32.Abs(math2d.PerpDot(ab, ac)) < 1e-10 {
		simplex.Points[0] = b
		simplex.Points[1] = a
		simplex.Count = 2
		return line(simplex, direction)
	}

	// Perpendicular of AB pointing away from C
	abPerp := math2d.TripleProduct(ac, ab, ab)
	if abPerp.Dot(ao) > 0 {
		simplex.Points[0] = b
		simplex.Points[1] = a
		simplex.Count = 2
		*direction = abPerp
		return false
	}

	// Perpendicular of AC pointing away from B
	acPerp := math2d.TripleProduct(ab, ac, ac)
	if acPerp.Dot(ao) > 0 {
		simplex.Points[0] = c
		simplex.Points[1] = a
		simplex.Count = 2
		*direction = acPerp
		return false
	}

	// The origin is inside the triangle
	return true
}

// Intersects reports whether a and b overlap, using a pooled simplex.
func Intersects(a shape.SupportMap, poseA math2d.Isometry, b shape.SupportMap, poseB math2d.Isometry) bool {
	simplex := SimplexPool.Get().(*Simplex)
	defer SimplexPool.Put(simplex)
	simplex.Reset()

	return GJK(a, poseA, b, poseB, simplex)
}
