package bounding

import (
	"math"

	"github.com/akmonengine/feather2d/feature"
	"github.com/akmonengine/feather2d/query"
	"github.com/go-gl/mathgl/mgl32"
)

var (
	_ query.RayCaster    = AABB{}
	_ query.PointQuerier = AABB{}
)

var (
	posInf = float32(math.Inf(1))
	negInf = float32(math.Inf(-1))
)

// faceID returns Face(axis) for an outward normal along +axis and
// Face(axis+2) along -axis.
func faceID(axis int, sign float32) feature.ID {
	if sign < 0 {
		return feature.Face(uint32(axis + 2))
	}
	return feature.Face(uint32(axis))
}

func axisNormal(axis int, sign float32) mgl32.Vec2 {
	var n mgl32.Vec2
	n[axis] = sign
	return n
}

// CastLocalRay returns the time of impact of ray on the box.
func (a AABB) CastLocalRay(ray query.Ray, maxTOI float32, solid bool) (float32, bool) {
	hit, ok := a.CastLocalRayAndGetNormal(ray, maxTOI, solid)
	return hit.TOI, ok
}

// CastLocalRayAndGetNormal casts ray against the box using the slab method.
//
// A ray entering the box gets the outward normal of the entry face. A
// non-solid ray starting inside gets the normal of the exit face, flipped so
// that it opposes the ray.
func (a AABB) CastLocalRayAndGetNormal(ray query.Ray, maxTOI float32, solid bool) (query.RayIntersection, bool) {
	tmin, tmax := negInf, posInf
	nearAxis, farAxis := -1, -1
	var nearSign, farSign float32

	for i := 0; i < 2; i++ {
		if ray.Dir[i] == 0 {
			// Parallel to the slab
			if ray.Origin[i] < a.Mins[i] || ray.Origin[i] > a.Maxs[i] {
				return query.RayIntersection{}, false
			}
			continue
		}

		inv := 1 / ray.Dir[i]
		t1 := (a.Mins[i] - ray.Origin[i]) * inv
		t2 := (a.Maxs[i] - ray.Origin[i]) * inv

		// Entering through the min face means an outward normal along -axis.
		sign := float32(-1)
		if t1 > t2 {
			t1, t2 = t2, t1
			sign = 1
		}

		if t1 > tmin {
			tmin, nearAxis, nearSign = t1, i, sign
		}
		if t2 < tmax {
			tmax, farAxis, farSign = t2, i, -sign
		}

		if tmin > tmax {
			return query.RayIntersection{}, false
		}
	}

	if tmax < 0 {
		return query.RayIntersection{}, false
	}

	if tmin >= 0 {
		if tmin > maxTOI || nearAxis < 0 {
			return query.RayIntersection{}, false
		}
		return query.RayIntersection{
			TOI:     tmin,
			Normal:  axisNormal(nearAxis, nearSign),
			Feature: faceID(nearAxis, nearSign),
		}, true
	}

	// The origin is inside the box.
	if solid {
		return query.RayIntersection{TOI: 0, Feature: feature.Unknown}, true
	}
	if tmax > maxTOI || farAxis < 0 {
		return query.RayIntersection{}, false
	}
	return query.RayIntersection{
		TOI:     tmax,
		Normal:  axisNormal(farAxis, -farSign),
		Feature: faceID(farAxis, farSign),
	}, true
}

// ProjectLocalPoint returns the point of the box closest to point.
func (a AABB) ProjectLocalPoint(point mgl32.Vec2, solid bool) query.PointProjection {
	if solid && a.ContainsPoint(point) {
		return query.PointProjection{IsInside: true, Point: point}
	}
	proj, _ := a.ProjectLocalPointAndGetFeature(point)
	return proj
}

// ProjectLocalPointAndGetFeature projects point on the boundary of the box and
// returns the feature it lands on. Corners use the same sign-bit code as
// cuboid vertices: bit 0 set on the min x side, bit 1 set on the min y side.
func (a AABB) ProjectLocalPointAndGetFeature(point mgl32.Vec2) (query.PointProjection, feature.ID) {
	var shift mgl32.Vec2
	outsideAxes := 0
	var vertex uint32
	axis, sign := 0, float32(0)

	for i := 0; i < 2; i++ {
		switch {
		case point[i] < a.Mins[i]:
			shift[i] = a.Mins[i] - point[i]
			outsideAxes++
			vertex |= 1 << i
			axis, sign = i, -1
		case point[i] > a.Maxs[i]:
			shift[i] = a.Maxs[i] - point[i]
			outsideAxes++
			axis, sign = i, 1
		}
	}

	switch outsideAxes {
	case 2:
		return query.PointProjection{IsInside: false, Point: point.Add(shift)}, feature.Vertex(vertex)
	case 1:
		return query.PointProjection{IsInside: false, Point: point.Add(shift)}, faceID(axis, sign)
	}

	// Inside: push the point out through the closest face.
	best := posInf
	for i := 0; i < 2; i++ {
		if d := point[i] - a.Mins[i]; d < best {
			best, axis, sign = d, i, -1
		}
		if d := a.Maxs[i] - point[i]; d < best {
			best, axis, sign = d, i, 1
		}
	}

	projected := point
	if sign < 0 {
		projected[axis] = a.Mins[axis]
	} else {
		projected[axis] = a.Maxs[axis]
	}
	return query.PointProjection{IsInside: true, Point: projected}, faceID(axis, sign)
}

// DistanceToLocalPoint returns the distance from the box to point. It is
// negative for interior points when solid is false.
func (a AABB) DistanceToLocalPoint(point mgl32.Vec2, solid bool) float32 {
	proj, _ := a.ProjectLocalPointAndGetFeature(point)
	dist := proj.Point.Sub(point).Len()
	if !proj.IsInside {
		return dist
	}
	if solid {
		return 0
	}
	return -dist
}

// ContainsLocalPoint checks if point is inside the box, boundary included.
func (a AABB) ContainsLocalPoint(point mgl32.Vec2) bool {
	return a.ContainsPoint(point)
}
