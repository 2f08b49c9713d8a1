package bounding

import (
	"github.com/akmonengine/feather2d/math2d"
	"github.com/go-gl/mathgl/mgl32"
)

// BoundingSphere is a ball enclosing a shape.
type BoundingSphere struct {
	Center mgl32.Vec2
	Radius float32
}

// NewBoundingSphere creates a bounding sphere.
func NewBoundingSphere(center mgl32.Vec2, radius float32) BoundingSphere {
	return BoundingSphere{Center: center, Radius: radius}
}

// TransformBy moves the sphere by iso. Rotations leave the radius unchanged.
func (s BoundingSphere) TransformBy(iso math2d.Isometry) BoundingSphere {
	return BoundingSphere{Center: iso.TransformPoint(s.Center), Radius: s.Radius}
}

// Merged returns the smallest sphere containing both s and other.
func (s BoundingSphere) Merged(other BoundingSphere) BoundingSphere {
	dir := other.Center.Sub(s.Center)
	dist := dir.Len()

	if dist+other.Radius <= s.Radius {
		return s
	}
	if dist+s.Radius <= other.Radius {
		return other
	}

	radius := (dist + s.Radius + other.Radius) * 0.5
	center := s.Center.Add(dir.Mul((radius - s.Radius) / dist))
	return BoundingSphere{Center: center, Radius: radius}
}

// Loosened grows the radius by margin.
func (s BoundingSphere) Loosened(margin float32) BoundingSphere {
	return BoundingSphere{Center: s.Center, Radius: s.Radius + margin}
}

// Intersects checks if two spheres overlap, touching included.
func (s BoundingSphere) Intersects(other BoundingSphere) bool {
	r := s.Radius + other.Radius
	return s.Center.Sub(other.Center).LenSqr() <= r*r
}

// Contains checks if other lies completely within s.
func (s BoundingSphere) Contains(other BoundingSphere) bool {
	return s.Center.Sub(other.Center).Len()+other.Radius <= s.Radius
}

// AABB returns the box enclosing the sphere.
func (s BoundingSphere) AABB() AABB {
	return FromHalfExtents(s.Center, mgl32.Vec2{s.Radius, s.Radius})
}
