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

var _ Shape = (*Compound)(nil)

// CompoundPart is one shape of a compound, placed in the compound's frame.
type CompoundPart struct {
	Pose  math2d.Isometry
	Shape Shape
}

// Compound is a union of shapes rigidly attached to each other.
// It is not convex and has no support mapping: narrow-phase code collides its
// parts one by one. The zero Compound has no parts and an empty AABB at the
// origin.
type Compound struct {
	parts []CompoundPart
}

// NewCompound creates a compound from its parts. The slice is copied.
func NewCompound(parts []CompoundPart) (*Compound, error) {
	if len(parts) == 0 {
		return nil, ErrEmptyCompound
	}
	for i, part := range parts {
		if part.Shape == nil {
			return nil, fmt.Errorf("%w: compound part %d has no shape", ErrDegenerateShape, i)
		}
		if part.Shape.ShapeType() == ShapeTypeCompound {
			return nil, fmt.Errorf("%w: part %d", ErrNestedCompound, i)
		}
	}

	owned := make([]CompoundPart, len(parts))
	copy(owned, parts)
	return &Compound{parts: owned}, nil
}

// Parts returns a copy of the parts of the compound.
func (c *Compound) Parts() []CompoundPart {
	parts := make([]CompoundPart, len(c.parts))
	copy(parts, c.parts)
	return parts
}

// Len returns the number of parts.
func (c *Compound) Len() int {
	return len(c.parts)
}

// Part returns the i-th part.
func (c *Compound) Part(i int) CompoundPart {
	return c.parts[i]
}

func (c *Compound) ComputeLocalAABB() bounding.AABB {
	if len(c.parts) == 0 {
		return bounding.AABB{}
	}
	aabb := ComputeAABB(c.parts[0].Shape, c.parts[0].Pose)
	for _, part := range c.parts[1:] {
		aabb = aabb.Merged(ComputeAABB(part.Shape, part.Pose))
	}
	return aabb
}

func (c *Compound) ComputeLocalBoundingSphere() bounding.BoundingSphere {
	aabb := c.ComputeLocalAABB()
	return bounding.NewBoundingSphere(aabb.Center(), aabb.HalfExtents().Len())
}

func (c *Compound) MassProperties(density float32) mass.Properties {
	var total mass.Properties
	for _, part := range c.parts {
		total = total.Add(part.Shape.MassProperties(density).Transform(part.Pose))
	}
	return total
}

func (c *Compound) ShapeType() ShapeType {
	return ShapeTypeCompound
}

func (c *Compound) AsTypedShape() TypedShape {
	return TypedShape{Type: ShapeTypeCompound, Compound: c}
}

func (c *Compound) CCDThickness() float32 {
	if len(c.parts) == 0 {
		return 0
	}
	thickness := float32(math.MaxFloat32)
	for _, part := range c.parts {
		thickness = min(thickness, part.Shape.CCDThickness())
	}
	return thickness
}

func (c *Compound) CCDAngularThickness() float32 {
	var angular float32
	for _, part := range c.parts {
		angular = max(angular, part.Shape.CCDAngularThickness())
	}
	return angular
}

func (c *Compound) CastLocalRay(ray query.Ray, maxTOI float32, solid bool) (float32, bool) {
	best := maxTOI
	found := false
	for _, part := range c.parts {
		if toi, ok := query.CastRay(part.Shape, part.Pose, ray, best, solid); ok {
			best, found = toi, true
		}
	}
	return best, found
}

// CastLocalRayAndGetNormal returns the closest hit over all parts, with the
// feature of the part that was hit.
func (c *Compound) CastLocalRayAndGetNormal(ray query.Ray, maxTOI float32, solid bool) (query.RayIntersection, bool) {
	var best query.RayIntersection
	found := false
	limit := maxTOI
	for _, part := range c.parts {
		if hit, ok := query.CastRayAndGetNormal(part.Shape, part.Pose, ray, limit, solid); ok {
			best, found, limit = hit, true, hit.TOI
		}
	}
	return best, found
}

func (c *Compound) ProjectLocalPoint(point mgl32.Vec2, solid bool) query.PointProjection {
	var best query.PointProjection
	bestDist := float32(math.MaxFloat32)
	for _, part := range c.parts {
		proj := query.ProjectPoint(part.Shape, part.Pose, point, solid)
		if proj.IsInside && solid {
			return proj
		}
		if d := proj.Point.Sub(point).LenSqr(); d < bestDist {
			best, bestDist = proj, d
		}
	}
	best.IsInside = c.ContainsLocalPoint(point)
	return best
}

func (c *Compound) ProjectLocalPointAndGetFeature(point mgl32.Vec2) (query.PointProjection, feature.ID) {
	var best query.PointProjection
	bestFeature := feature.Unknown
	bestDist := float32(math.MaxFloat32)
	for _, part := range c.parts {
		proj, id := part.Shape.ProjectLocalPointAndGetFeature(part.Pose.InverseTransformPoint(point))
		proj = proj.TransformBy(part.Pose)
		if d := proj.Point.Sub(point).LenSqr(); d < bestDist {
			best, bestFeature, bestDist = proj, id, d
		}
	}
	best.IsInside = c.ContainsLocalPoint(point)
	return best, bestFeature
}

func (c *Compound) DistanceToLocalPoint(point mgl32.Vec2, solid bool) float32 {
	if solid && c.ContainsLocalPoint(point) {
		return 0
	}
	dist := float32(math.MaxFloat32)
	for _, part := range c.parts {
		dist = min(dist, query.DistanceToPoint(part.Shape, part.Pose, point, solid))
	}
	return dist
}

func (c *Compound) ContainsLocalPoint(point mgl32.Vec2) bool {
	for _, part := range c.parts {
		if query.ContainsPoint(part.Shape, part.Pose, point) {
			return true
		}
	}
	return false
}
