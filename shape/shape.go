// Package shape defines the Shape interface shared by every collision shape
// and the concrete shapes of the kernel: Cuboid, Ball and Compound.
//
// A Shape answers its queries in its own local frame. Derived operations
// (world-space AABB, swept AABB, ...) and optional capabilities (support
// mapping, polygonal features, convexity) are package functions: they use a
// shape's own implementation when it provides one and fall back to a generic
// computation otherwise.
//
// Shapes are immutable values. Nothing is cached inside a shape, so every
// query may run concurrently with any other.
package shape

import (
	"errors"
	"fmt"

	"github.com/akmonengine/feather2d/bounding"
	"github.com/akmonengine/feather2d/feature"
	"github.com/akmonengine/feather2d/mass"
	"github.com/akmonengine/feather2d/math2d"
	"github.com/akmonengine/feather2d/query"
	"github.com/go-gl/mathgl/mgl32"
)

var (
	// ErrDegenerateShape is returned when a shape is built from non-positive or
	// non-finite dimensions.
	ErrDegenerateShape = errors.New("degenerate shape")
	// ErrEmptyCompound is returned when a compound is built without parts.
	ErrEmptyCompound = errors.New("compound shape has no parts")
	// ErrNestedCompound is returned when a compound part is itself a compound.
	ErrNestedCompound = errors.New("compound shapes cannot be nested")
)

// ShapeType represents the type of collision shape
type ShapeType int

const (
	ShapeTypeCuboid ShapeType = iota
	ShapeTypeBall
	ShapeTypeCompound
	// ShapeTypeCustom tags shapes defined outside this package.
	ShapeTypeCustom
)

var shapeTypeNames = [...]string{
	ShapeTypeCuboid:   "cuboid",
	ShapeTypeBall:     "ball",
	ShapeTypeCompound: "compound",
	ShapeTypeCustom:   "custom",
}

func (t ShapeType) String() string {
	if t < 0 || int(t) >= len(shapeTypeNames) {
		return fmt.Sprintf("ShapeType(%d)", int(t))
	}
	return shapeTypeNames[t]
}

// Shape is the interface that all collision shapes must implement
type Shape interface {
	query.RayCaster
	query.PointQuerier

	// ComputeLocalAABB calculates the axis-aligned bounding box in the local frame.
	ComputeLocalAABB() bounding.AABB
	// ComputeLocalBoundingSphere calculates the bounding sphere in the local frame.
	ComputeLocalBoundingSphere() bounding.BoundingSphere
	// MassProperties calculates mass data for the shape given a uniform density.
	MassProperties(density float32) mass.Properties
	ShapeType() ShapeType
	AsTypedShape() TypedShape
	// CCDThickness is a conservative bound on the thinnest dimension of the shape.
	CCDThickness() float32
	// CCDAngularThickness is the smallest rotation, in radians, that may change
	// the contact points of the shape.
	CCDAngularThickness() float32
}

// TypedShape is the closed set of shapes known to the kernel. Exactly one
// field matches Type; Custom holds shapes implemented outside this package.
type TypedShape struct {
	Type     ShapeType
	Cuboid   *Cuboid
	Ball     *Ball
	Compound *Compound
	Custom   Shape
}

// Shape returns the shape held by ts, or nil when the field matching Type is
// not set.
func (ts TypedShape) Shape() Shape {
	switch ts.Type {
	case ShapeTypeCuboid:
		if ts.Cuboid == nil {
			return nil
		}
		return *ts.Cuboid
	case ShapeTypeBall:
		if ts.Ball == nil {
			return nil
		}
		return *ts.Ball
	case ShapeTypeCompound:
		if ts.Compound == nil {
			return nil
		}
		return ts.Compound
	default:
		return ts.Custom
	}
}

// Optional overrides of the derived operations.
type (
	aabbComputer interface {
		ComputeAABB(pose math2d.Isometry) bounding.AABB
	}
	boundingSphereComputer interface {
		ComputeBoundingSphere(pose math2d.Isometry) bounding.BoundingSphere
	}
	sweptAABBComputer interface {
		ComputeSweptAABB(start, end math2d.Isometry) bounding.AABB
	}
	convexityReporter interface {
		IsConvex() bool
	}
	featureNormalProvider interface {
		FeatureNormalAtPoint(id feature.ID, point mgl32.Vec2) (mgl32.Vec2, bool)
	}
	supportMapProvider interface {
		AsSupportMap() (SupportMap, bool)
	}
	polygonalFeatureMapProvider interface {
		AsPolygonalFeatureMap() (PolygonalFeatureMap, float32, bool)
	}
)

// ComputeAABB returns the AABB of s placed at pose.
func ComputeAABB(s Shape, pose math2d.Isometry) bounding.AABB {
	if c, ok := s.(aabbComputer); ok {
		return c.ComputeAABB(pose)
	}
	return s.ComputeLocalAABB().TransformBy(pose)
}

// ComputeBoundingSphere returns the bounding sphere of s placed at pose.
func ComputeBoundingSphere(s Shape, pose math2d.Isometry) bounding.BoundingSphere {
	if c, ok := s.(boundingSphereComputer); ok {
		return c.ComputeBoundingSphere(pose)
	}
	return s.ComputeLocalBoundingSphere().TransformBy(pose)
}

// ComputeSweptAABB returns a box enclosing s at both poses. It does not
// account for the path between them.
func ComputeSweptAABB(s Shape, start, end math2d.Isometry) bounding.AABB {
	if c, ok := s.(sweptAABBComputer); ok {
		return c.ComputeSweptAABB(start, end)
	}
	return ComputeAABB(s, start).Merged(ComputeAABB(s, end))
}

// IsConvex reports whether s is known to be convex. False means unknown.
func IsConvex(s Shape) bool {
	if c, ok := s.(convexityReporter); ok {
		return c.IsConvex()
	}
	return false
}

// AsSupportMap returns the support mapping of s, if it has one.
func AsSupportMap(s Shape) (SupportMap, bool) {
	if p, ok := s.(supportMapProvider); ok {
		return p.AsSupportMap()
	}
	return nil, false
}

// AsPolygonalFeatureMap returns the polygonal feature map of s and the radius
// of the rounded border around its features, if it has one.
func AsPolygonalFeatureMap(s Shape) (PolygonalFeatureMap, float32, bool) {
	if p, ok := s.(polygonalFeatureMapProvider); ok {
		return p.AsPolygonalFeatureMap()
	}
	return nil, 0, false
}

// FeatureNormalAtPoint returns the local normal of s at point, which lies on
// the given feature. It returns false when s cannot tell.
func FeatureNormalAtPoint(s Shape, id feature.ID, point mgl32.Vec2) (mgl32.Vec2, bool) {
	if p, ok := s.(featureNormalProvider); ok {
		return p.FeatureNormalAtPoint(id, point)
	}
	return mgl32.Vec2{}, false
}

// As converts s to the concrete shape type T, if s holds one.
func As[T Shape](s Shape) (T, bool) {
	t, ok := s.(T)
	return t, ok
}

// AsCuboid converts s to a Cuboid, if it is one.
func AsCuboid(s Shape) (Cuboid, bool) {
	if s == nil || s.ShapeType() != ShapeTypeCuboid {
		return Cuboid{}, false
	}
	ts := s.AsTypedShape()
	if ts.Cuboid == nil {
		return Cuboid{}, false
	}
	return *ts.Cuboid, true
}

// AsBall converts s to a Ball, if it is one.
func AsBall(s Shape) (Ball, bool) {
	if s == nil || s.ShapeType() != ShapeTypeBall {
		return Ball{}, false
	}
	ts := s.AsTypedShape()
	if ts.Ball == nil {
		return Ball{}, false
	}
	return *ts.Ball, true
}

// AsCompound converts s to a Compound, if it is one.
func AsCompound(s Shape) (*Compound, bool) {
	if s == nil || s.ShapeType() != ShapeTypeCompound {
		return nil, false
	}
	ts := s.AsTypedShape()
	return ts.Compound, ts.Compound != nil
}
