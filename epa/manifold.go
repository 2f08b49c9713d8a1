package epa

import (
	"github.com/akmonengine/feather2d/feature"
	"github.com/akmonengine/feather2d/math2d"
	"github.com/akmonengine/feather2d/shape"
	"github.com/go-gl/mathgl/mgl32"
)

// clipTolerance is the slack allowed when clipping features against each other.
const clipTolerance = 1e-4

// ContactPoint is one point of a contact manifold, in world space.
type ContactPoint struct {
	// Position is halfway between the surfaces of both shapes.
	Position mgl32.Vec2
	// Penetration is the overlap of the shapes at this point along the normal.
	Penetration float32
	// FeatureA and FeatureB are the feature ids of the support features the
	// point was built from.
	FeatureA, FeatureB uint32
}

// GenerateManifold creates the contact points of two overlapping shapes by
// clipping their support features against each other.
//
// Each shape is described by its polygonal feature map and the radius of the
// rounded border around its features (zero for a cuboid, the radius for a
// ball). normal points from A toward B and depth is the penetration returned
// by Penetration.
//
// Algorithm:
//  1. Get the support feature of A along normal and of B along -normal
//  2. Project both features on the contact tangent
//  3. Keep the overlapping interval: its ends are the contact points
//  4. Drop the points that are not penetrating
//
// It returns one or two points. When the features do not overlap along the
// tangent (vertex against vertex), a single point is built from the deepest
// vertices.
func GenerateManifold(pfmA shape.PolygonalFeatureMap, borderA float32, poseA math2d.Isometry, pfmB shape.PolygonalFeatureMap, borderB float32, poseB math2d.Isometry, normal mgl32.Vec2, depth float32) []ContactPoint {
	featureA := shape.SupportFeature(pfmA, poseA, normal)
	featureB := shape.SupportFeature(pfmB, poseB, normal.Mul(-1))
	tangent := math2d.Perp(normal)

	loA, hiA := tangentRange(featureA, tangent)
	loB, hiB := tangentRange(featureB, tangent)
	lo, hi := max(loA, loB), min(hiA, hiB)

	if hi < lo-clipTolerance {
		return []ContactPoint{deepestContact(featureA, borderA, featureB, borderB, normal, depth)}
	}

	params := [2]float32{lo, hi}
	count := 2
	if hi-lo < clipTolerance {
		params[0] = (lo + hi) / 2
		count = 1
	}

	points := make([]ContactPoint, 0, 2)
	for _, s := range params[:count] {
		pa := pointAt(featureA, tangent, s, normal).Add(normal.Mul(borderA))
		pb := pointAt(featureB, tangent, s, normal.Mul(-1)).Sub(normal.Mul(borderB))

		penetration := pa.Sub(pb).Dot(normal)
		if penetration < -clipTolerance {
			continue
		}

		points = append(points, ContactPoint{
			Position:    pa.Add(pb).Mul(0.5),
			Penetration: penetration,
			FeatureA:    featureA.FID,
			FeatureB:    featureB.FID,
		})
	}

	if len(points) == 0 {
		points = append(points, deepestContact(featureA, borderA, featureB, borderB, normal, depth))
	}

	return points
}

// tangentRange returns the extent of f projected on tangent.
func tangentRange(f feature.Polygonal, tangent mgl32.Vec2) (float32, float32) {
	lo := f.Vertices[0].Dot(tangent)
	hi := lo
	for i := 1; i < f.NumVertices; i++ {
		d := f.Vertices[i].Dot(tangent)
		lo, hi = min(lo, d), max(hi, d)
	}
	return lo, hi
}

// pointAt returns the point of f whose projection on tangent is s. A feature
// perpendicular to the tangent has no such unique point: its vertex furthest
// along deepest is returned instead.
func pointAt(f feature.Polygonal, tangent mgl32.Vec2, s float32, deepest mgl32.Vec2) mgl32.Vec2 {
	if f.NumVertices < 2 {
		return f.Vertices[0]
	}

	v0, v1 := f.Vertices[0], f.Vertices[1]
	t0, t1 := v0.Dot(tangent), v1.Dot(tangent)
	if mgl32.Abs(t1-t0) < clipTolerance {
		return deepestVertex(f, deepest)
	}

	alpha := mgl32.Clamp((s-t0)/(t1-t0), 0, 1)
	return v0.Add(v1.Sub(v0).Mul(alpha))
}

// deepestVertex returns the vertex of f furthest along dir.
func deepestVertex(f feature.Polygonal, dir mgl32.Vec2) mgl32.Vec2 {
	best := f.Vertices[0]
	for i := 1; i < f.NumVertices; i++ {
		if f.Vertices[i].Dot(dir) > best.Dot(dir) {
			best = f.Vertices[i]
		}
	}
	return best
}

// deepestContact builds a single contact point from the deepest vertex of
// each feature.
func deepestContact(featureA feature.Polygonal, borderA float32, featureB feature.Polygonal, borderB float32, normal mgl32.Vec2, depth float32) ContactPoint {
	pa := deepestVertex(featureA, normal).Add(normal.Mul(borderA))
	pb := deepestVertex(featureB, normal.Mul(-1)).Sub(normal.Mul(borderB))

	return ContactPoint{
		Position:    pa.Add(pb).Mul(0.5),
		Penetration: depth,
		FeatureA:    featureA.FID,
		FeatureB:    featureB.FID,
	}
}
