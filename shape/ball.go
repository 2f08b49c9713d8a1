package shape

import (
	"fmt"
	"math"

	"github.com/akmonengine/feather2d/bounding"
	"github.com/akmonengine/feather2d/feature"
	"github.com/akmonengine/feather2d/mass"
	"github.com/akmonengine/feather2d/math2d"
	"github.com/akmonengine/feather2d/query"
	"github.com/go-gl/mathgl/mgl32"
)

var (
	_ Shape               = Ball{}
	_ SupportMap          = Ball{}
	_ PolygonalFeatureMap = Ball{}
)

// Ball represents a disk centered on the origin of its local frame
type Ball struct {
	Radius float32
}

// NewBall creates a ball; the radius must be strictly positive.
func NewBall(radius float32) (Ball, error) {
	if !isPositiveFinite(radius) {
		return Ball{}, fmt.Errorf("%w: ball radius %v", ErrDegenerateShape, radius)
	}
	return Ball{Radius: radius}, nil
}

func (b Ball) ComputeLocalAABB() bounding.AABB {
	return bounding.FromHalfExtents(mgl32.Vec2{}, mgl32.Vec2{b.Radius, b.Radius})
}

// ComputeAABB ignores the rotation of pose, a ball being rotation invariant.
func (b Ball) ComputeAABB(pose math2d.Isometry) bounding.AABB {
	return bounding.FromHalfExtents(pose.Translation, mgl32.Vec2{b.Radius, b.Radius})
}

func (b Ball) ComputeLocalBoundingSphere() bounding.BoundingSphere {
	return bounding.NewBoundingSphere(mgl32.Vec2{}, b.Radius)
}

func (b Ball) MassProperties(density float32) mass.Properties {
	return mass.FromBall(density, b.Radius)
}

func (b Ball) ShapeType() ShapeType {
	return ShapeTypeBall
}

func (b Ball) AsTypedShape() TypedShape {
	return TypedShape{Type: ShapeTypeBall, Ball: &b}
}

func (b Ball) CCDThickness() float32 {
	return b.Radius
}

func (b Ball) CCDAngularThickness() float32 {
	return math.Pi / 2
}

func (b Ball) IsConvex() bool {
	return true
}

func (b Ball) AsSupportMap() (SupportMap, bool) {
	return b, true
}

// AsPolygonalFeatureMap exposes the ball as its center point surrounded by a
// border of width Radius.
func (b Ball) AsPolygonalFeatureMap() (PolygonalFeatureMap, float32, bool) {
	return b, b.Radius, true
}

func (b Ball) LocalSupportPoint(dir mgl32.Vec2) mgl32.Vec2 {
	n, ok := math2d.TryNormalize(dir, 1e-12)
	if !ok {
		return mgl32.Vec2{b.Radius, 0}
	}
	return n.Mul(b.Radius)
}

// LocalSupportFeature returns the center of the ball. Its border radius
// accounts for the rest.
func (b Ball) LocalSupportFeature(mgl32.Vec2) feature.Polygonal {
	return feature.Polygonal{NumVertices: 1}
}

func (b Ball) FeatureNormalAtPoint(_ feature.ID, point mgl32.Vec2) (mgl32.Vec2, bool) {
	return math2d.TryNormalize(point, 1e-12)
}

func (b Ball) CastLocalRay(ray query.Ray, maxTOI float32, solid bool) (float32, bool) {
	hit, ok := b.CastLocalRayAndGetNormal(ray, maxTOI, solid)
	return hit.TOI, ok
}

// CastLocalRayAndGetNormal solves |origin + t*dir| = Radius for t.
func (b Ball) CastLocalRayAndGetNormal(ray query.Ray, maxTOI float32, solid bool) (query.RayIntersection, bool) {
	a := ray.Dir.Dot(ray.Dir)
	half := ray.Origin.Dot(ray.Dir)
	c := ray.Origin.Dot(ray.Origin) - b.Radius*b.Radius
	inside := c <= 0

	if inside && solid {
		return query.RayIntersection{TOI: 0, Feature: feature.Unknown}, true
	}
	if a == 0 || (!inside && half > 0) {
		return query.RayIntersection{}, false
	}

	disc := half*half - a*c
	if disc < 0 {
		return query.RayIntersection{}, false
	}
	sqrtDisc := float32(math.Sqrt(float64(disc)))

	var toi float32
	if inside {
		toi = (-half + sqrtDisc) / a
	} else {
		toi = (-half - sqrtDisc) / a
	}
	if toi > maxTOI || toi < 0 {
		return query.RayIntersection{}, false
	}

	normal, _ := math2d.TryNormalize(ray.PointAt(toi), 1e-12)
	if inside {
		normal = normal.Mul(-1)
	}
	return query.RayIntersection{TOI: toi, Normal: normal, Feature: feature.Face(0)}, true
}

func (b Ball) ProjectLocalPoint(point mgl32.Vec2, solid bool) query.PointProjection {
	if solid && b.ContainsLocalPoint(point) {
		return query.PointProjection{IsInside: true, Point: point}
	}
	proj, _ := b.ProjectLocalPointAndGetFeature(point)
	return proj
}

func (b Ball) ProjectLocalPointAndGetFeature(point mgl32.Vec2) (query.PointProjection, feature.ID) {
	dir, ok := math2d.TryNormalize(point, 1e-12)
	if !ok {
		dir = mgl32.Vec2{1, 0}
	}
	return query.PointProjection{
		IsInside: b.ContainsLocalPoint(point),
		Point:    dir.Mul(b.Radius),
	}, feature.Face(0)
}

func (b Ball) DistanceToLocalPoint(point mgl32.Vec2, solid bool) float32 {
	dist := point.Len() - b.Radius
	if dist < 0 && solid {
		return 0
	}
	return dist
}

func (b Ball) ContainsLocalPoint(point mgl32.Vec2) bool {
	return point.LenSqr() <= b.Radius*b.Radius
}
