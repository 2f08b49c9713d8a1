// Package epa implements the Expanding Polytope Algorithm for computing
// penetration depth in the plane.
//
// EPA runs after GJK detects an overlap. It expands a polygon, starting from
// GJK's final triangle, inside the Minkowski difference A - B until it reaches
// the boundary edge closest to the origin. That edge gives the contact normal
// and the penetration depth, from which GenerateManifold builds contact points.
//
// References:
//   - Van den Bergen: "Proximity Queries and Penetration Depth Computation on 3D Game Objects" (2001)
package epa

import (
	"errors"
	"fmt"

	"github.com/akmonengine/feather2d/gjk"
	"github.com/akmonengine/feather2d/math2d"
	"github.com/akmonengine/feather2d/shape"
	"github.com/go-gl/mathgl/mgl32"
)

const (
	// MaxIterations limits polygon expansion to prevent infinite loops.
	MaxIterations = 32

	// ConvergenceTolerance defines when EPA has converged: a new support point
	// improving the closest edge distance by less than this is ignored.
	ConvergenceTolerance = 1e-4

	// NormalSnapThreshold is used to clamp nearly-zero normal components to exactly zero.
	NormalSnapThreshold = 1e-6

	degenerateArea = 1e-10

	polygonInitialCapacity = 8
)

var (
	// ErrDegenerateSimplex is returned when the GJK simplex cannot be grown
	// into a triangle, which happens for shapes without area.
	ErrDegenerateSimplex = errors.New("degenerate simplex")
	// ErrNoConvergence is returned when EPA runs out of iterations.
	ErrNoConvergence = errors.New("EPA failed to converge")
)

// Penetration computes the contact normal and penetration depth of two
// overlapping convex shapes.
//
// The simplex is the one filled by gjk.GJK for the same shapes and poses. It
// is completed into a triangle when GJK stopped early on touching shapes.
//
// The normal points from A toward B: translating B by normal*depth separates
// the shapes. The depth is never negative.
func Penetration(a shape.SupportMap, poseA math2d.Isometry, b shape.SupportMap, poseB math2d.Isometry, simplex *gjk.Simplex) (mgl32.Vec2, float32, error) {
	support := func(dir mgl32.Vec2) mgl32.Vec2 {
		return gjk.MinkowskiSupport(a, poseA, b, poseB, dir)
	}

	if simplex.Count < 3 {
		if err := completeSimplex(simplex, support); err != nil {
			return mgl32.Vec2{}, 0, err
		}
	}

	builder := polygonBuilderPool.Get().(*PolygonBuilder)
	defer polygonBuilderPool.Put(builder)
	builder.Reset()

	if err := builder.BuildInitialPolygon(simplex); err != nil {
		return mgl32.Vec2{}, 0, err
	}

	var closest Edge
	for i := 0; i < MaxIterations; i++ {
		edge, ok := builder.ClosestEdge()
		if !ok {
			return mgl32.Vec2{}, 0, ErrDegenerateSimplex
		}
		closest = edge

		point := support(edge.Normal)
		if point.Dot(edge.Normal)-edge.Distance < ConvergenceTolerance {
			return edge.Normal, max(edge.Distance, 0), nil
		}

		builder.Insert(edge, point)
	}

	return closest.Normal, max(closest.Distance, 0), fmt.Errorf("%w after %d iterations", ErrNoConvergence, MaxIterations)
}

// completeSimplex grows a 1 or 2 point simplex into a triangle by sampling
// the Minkowski difference in new directions.
func completeSimplex(simplex *gjk.Simplex, support func(mgl32.Vec2) mgl32.Vec2) error {
	if simplex.Count == 0 {
		return ErrDegenerateSimplex
	}

	if simplex.Count == 1 {
		p := simplex.Points[0]
		dir := mgl32.Vec2{1, 0}
		q := support(dir)
		if q.Sub(p).LenSqr() < degenerateArea {
			q = support(dir.Mul(-1))
		}
		if q.Sub(p).LenSqr() < degenerateArea {
			return ErrDegenerateSimplex
		}
		simplex.Points[1] = q
		simplex.Count = 2
	}

	p0, p1 := simplex.Points[0], simplex.Points[1]
	segment := p1.Sub(p0)
	dir := math2d.Perp(segment)

	q := support(dir)
	if mgl32.Abs(math2d.PerpDot(segment, q.Sub(p0))) < degenerateArea {
		q = support(dir.Mul(-1))
	}
	if mgl32.Abs(math2d.PerpDot(segment, q.Sub(p0))) < degenerateArea {
		return ErrDegenerateSimplex
	}

	simplex.Points[2] = q
	simplex.Count = 3
	return nil
}
