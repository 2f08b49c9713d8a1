// Package bounding implements the bounding volumes computed by shapes:
// axis-aligned bounding boxes and bounding spheres.
package bounding

import (
	"fmt"

	"github.com/akmonengine/feather2d/math2d"
	"github.com/go-gl/mathgl/mgl32"
)

// AABB represents an axis-aligned bounding box.
// Values built by the constructors, Merged and TransformBy keep Mins <= Maxs.
type AABB struct {
	Mins mgl32.Vec2
	Maxs mgl32.Vec2
}

// NewAABB creates a box from its corners.
func NewAABB(mins, maxs mgl32.Vec2) AABB {
	return AABB{Mins: mins, Maxs: maxs}
}

// FromHalfExtents creates a box centered on center.
// A negative half-extent yields an inverted box which overlaps nothing.
func FromHalfExtents(center, halfExtents mgl32.Vec2) AABB {
	return AABB{
		Mins: center.Sub(halfExtents),
		Maxs: center.Add(halfExtents),
	}
}

// FromPoints returns the smallest box containing every point.
func FromPoints(points ...mgl32.Vec2) AABB {
	if len(points) == 0 {
		return AABB{}
	}
	aabb := AABB{Mins: points[0], Maxs: points[0]}
	for _, p := range points[1:] {
		aabb.Mins = math2d.MinVec(aabb.Mins, p)
		aabb.Maxs = math2d.MaxVec(aabb.Maxs, p)
	}
	return aabb
}

func (a AABB) String() string {
	return fmt.Sprintf("AABB{mins: %v, maxs: %v}", a.Mins, a.Maxs)
}

// Center returns the center of the box.
func (a AABB) Center() mgl32.Vec2 {
	return a.Mins.Add(a.Maxs).Mul(0.5)
}

// HalfExtents returns half the size of the box along each axis.
func (a AABB) HalfExtents() mgl32.Vec2 {
	return a.Maxs.Sub(a.Mins).Mul(0.5)
}

// Extents returns the size of the box along each axis.
func (a AABB) Extents() mgl32.Vec2 {
	return a.Maxs.Sub(a.Mins)
}

// Area returns the area of the box.
func (a AABB) Area() float32 {
	e := a.Extents()
	return e[0] * e[1]
}

// Vertices returns the four corners in counter-clockwise order starting at Mins.
func (a AABB) Vertices() [4]mgl32.Vec2 {
	return [4]mgl32.Vec2{
		a.Mins,
		{a.Maxs[0], a.Mins[1]},
		a.Maxs,
		{a.Mins[0], a.Maxs[1]},
	}
}

// Merged returns the smallest box containing both a and b.
func (a AABB) Merged(b AABB) AABB {
	return AABB{
		Mins: math2d.MinVec(a.Mins, b.Mins),
		Maxs: math2d.MaxVec(a.Maxs, b.Maxs),
	}
}

// Loosened grows the box by margin on every side.
func (a AABB) Loosened(margin float32) AABB {
	m := mgl32.Vec2{margin, margin}
	return AABB{Mins: a.Mins.Sub(m), Maxs: a.Maxs.Add(m)}
}

// TransformBy returns a box enclosing a after it has been moved by iso.
//
// The result encloses the rotated box exactly but is not the tightest box
// around the original geometry, so applying TransformBy twice gives a box that
// contains, and may be larger than, the box transformed by the composition.
func (a AABB) TransformBy(iso math2d.Isometry) AABB {
	center := iso.TransformPoint(a.Center())
	halfExtents := iso.AbsoluteTransformVector(a.HalfExtents())
	return FromHalfExtents(center, halfExtents)
}

// ContainsPoint checks if a point is inside the AABB
func (a AABB) ContainsPoint(point mgl32.Vec2) bool {
	return point.X() >= a.Mins.X() && point.X() <= a.Maxs.X() &&
		point.Y() >= a.Mins.Y() && point.Y() <= a.Maxs.Y()
}

// Contains checks if other lies completely within a.
func (a AABB) Contains(other AABB) bool {
	return a.Mins.X() <= other.Mins.X() && a.Maxs.X() >= other.Maxs.X() &&
		a.Mins.Y() <= other.Mins.Y() && a.Maxs.Y() >= other.Maxs.Y()
}

// Overlaps checks if two AABBs overlap. An inverted box overlaps nothing.
func (a AABB) Overlaps(other AABB) bool {
	if !a.IsValid() || !other.IsValid() {
		return false
	}

	// AABBs overlap if they overlap on both axes
	return a.Maxs.X() >= other.Mins.X() && a.Mins.X() <= other.Maxs.X() &&
		a.Maxs.Y() >= other.Mins.Y() && a.Mins.Y() <= other.Maxs.Y()
}

// IsValid reports whether Mins <= Maxs on both axes.
func (a AABB) IsValid() bool {
	return a.Mins.X() <= a.Maxs.X() && a.Mins.Y() <= a.Maxs.Y()
}
