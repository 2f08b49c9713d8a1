// Package query defines the ray and point queries answered by shapes and
// bounding volumes.
//
// Shapes answer every query in their local frame. The package-level helpers
// (CastRay, ProjectPoint, ...) move the query into the local frame of a shape
// placed at a given pose and map the answer back.
package query

import (
	"github.com/akmonengine/feather2d/feature"
	"github.com/akmonengine/feather2d/math2d"
	"github.com/go-gl/mathgl/mgl32"
)

// Ray is a half-line starting at Origin and following Dir.
// Dir does not need to be normalized; times of impact are expressed in units of Dir.
type Ray struct {
	Origin mgl32.Vec2
	Dir    mgl32.Vec2
}

// NewRay creates a ray.
func NewRay(origin, dir mgl32.Vec2) Ray {
	return Ray{Origin: origin, Dir: dir}
}

// PointAt returns Origin + t*Dir.
func (r Ray) PointAt(t float32) mgl32.Vec2 {
	return r.Origin.Add(r.Dir.Mul(t))
}

// TransformBy maps the ray by iso.
func (r Ray) TransformBy(iso math2d.Isometry) Ray {
	return Ray{Origin: iso.TransformPoint(r.Origin), Dir: iso.TransformVector(r.Dir)}
}

// InverseTransformBy maps the ray by the inverse of iso.
func (r Ray) InverseTransformBy(iso math2d.Isometry) Ray {
	return Ray{Origin: iso.InverseTransformPoint(r.Origin), Dir: iso.InverseTransformVector(r.Dir)}
}

// RayIntersection describes where a ray hit a shape.
type RayIntersection struct {
	// TOI is the time of impact: the hit point is ray.PointAt(TOI).
	TOI float32
	// Normal is the surface normal at the hit point. It is zero when a solid
	// cast starts inside the shape.
	Normal  mgl32.Vec2
	Feature feature.ID
}

// TransformBy maps the normal of the intersection by iso.
func (ri RayIntersection) TransformBy(iso math2d.Isometry) RayIntersection {
	ri.Normal = iso.TransformVector(ri.Normal)
	return ri
}

// PointProjection is the result of projecting a point on a shape.
type PointProjection struct {
	IsInside bool
	Point    mgl32.Vec2
}

// TransformBy maps the projected point by iso.
func (pp PointProjection) TransformBy(iso math2d.Isometry) PointProjection {
	pp.Point = iso.TransformPoint(pp.Point)
	return pp
}

// RayCaster is implemented by anything that can be hit by a ray in its local frame.
//
// When solid is true a ray starting inside the shape hits at time 0. Otherwise
// it hits the boundary on its way out. Hits further than maxTOI are ignored.
type RayCaster interface {
	CastLocalRay(ray Ray, maxTOI float32, solid bool) (float32, bool)
	CastLocalRayAndGetNormal(ray Ray, maxTOI float32, solid bool) (RayIntersection, bool)
}

// PointQuerier is implemented by anything that can project points in its local frame.
//
// When solid is true a point inside the shape projects onto itself. Otherwise it
// projects onto the boundary and DistanceToLocalPoint is negative.
type PointQuerier interface {
	ProjectLocalPoint(point mgl32.Vec2, solid bool) PointProjection
	ProjectLocalPointAndGetFeature(point mgl32.Vec2) (PointProjection, feature.ID)
	DistanceToLocalPoint(point mgl32.Vec2, solid bool) float32
	ContainsLocalPoint(point mgl32.Vec2) bool
}

// CastRay casts a world-space ray against rc placed at pose.
func CastRay(rc RayCaster, pose math2d.Isometry, ray Ray, maxTOI float32, solid bool) (float32, bool) {
	return rc.CastLocalRay(ray.InverseTransformBy(pose), maxTOI, solid)
}

// CastRayAndGetNormal casts a world-space ray against rc placed at pose and
// returns the world-space normal.
func CastRayAndGetNormal(rc RayCaster, pose math2d.Isometry, ray Ray, maxTOI float32, solid bool) (RayIntersection, bool) {
	hit, ok := rc.CastLocalRayAndGetNormal(ray.InverseTransformBy(pose), maxTOI, solid)
	if !ok {
		return RayIntersection{}, false
	}
	return hit.TransformBy(pose), true
}

// IntersectsRay reports whether the ray hits rc placed at pose within maxTOI.
func IntersectsRay(rc RayCaster, pose math2d.Isometry, ray Ray, maxTOI float32) bool {
	_, ok := CastRay(rc, pose, ray, maxTOI, true)
	return ok
}

// ProjectPoint projects a world-space point on pq placed at pose.
func ProjectPoint(pq PointQuerier, pose math2d.Isometry, point mgl32.Vec2, solid bool) PointProjection {
	return pq.ProjectLocalPoint(pose.InverseTransformPoint(point), solid).TransformBy(pose)
}

// DistanceToPoint returns the distance from pq placed at pose to a world-space point.
func DistanceToPoint(pq PointQuerier, pose math2d.Isometry, point mgl32.Vec2, solid bool) float32 {
	return pq.DistanceToLocalPoint(pose.InverseTransformPoint(point), solid)
}

// ContainsPoint reports whether pq placed at pose contains a world-space point.
func ContainsPoint(pq PointQuerier, pose math2d.Isometry, point mgl32.Vec2) bool {
	return pq.ContainsLocalPoint(pose.InverseTransformPoint(point))
}
