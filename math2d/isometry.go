// Package math2d provides the rigid transforms used by every shape query.
//
// Vectors and points are plain mgl32.Vec2 values. A Rotation is stored as a
// unit complex number, which keeps composition cheap and avoids drift from
// repeated matrix products.
package math2d

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Rotation is a 2D rotation stored as the unit complex number Re + i*Im.
type Rotation struct {
	Re float32
	Im float32
}

// RotationIdentity returns the rotation by zero radians.
func RotationIdentity() Rotation {
	return Rotation{Re: 1, Im: 0}
}

// NewRotation creates a rotation of angle radians (counter-clockwise).
func NewRotation(angle float32) Rotation {
	s, c := math.Sincos(float64(angle))
	return Rotation{Re: float32(c), Im: float32(s)}
}

// Angle returns the rotation angle in ]-pi, pi].
func (r Rotation) Angle() float32 {
	return float32(math.Atan2(float64(r.Im), float64(r.Re)))
}

// Matrix returns the 2x2 orthonormal matrix of this rotation (column-major).
func (r Rotation) Matrix() mgl32.Mat2 {
	return mgl32.Mat2{r.Re, r.Im, -r.Im, r.Re}
}

// Rotate applies the rotation to v.
func (r Rotation) Rotate(v mgl32.Vec2) mgl32.Vec2 {
	return mgl32.Vec2{
		r.Re*v[0] - r.Im*v[1],
		r.Im*v[0] + r.Re*v[1],
	}
}

// InverseRotate applies the inverse rotation to v.
func (r Rotation) InverseRotate(v mgl32.Vec2) mgl32.Vec2 {
	return mgl32.Vec2{
		r.Re*v[0] + r.Im*v[1],
		-r.Im*v[0] + r.Re*v[1],
	}
}

// Mul composes two rotations: r.Mul(o) rotates by o first, then by r.
func (r Rotation) Mul(o Rotation) Rotation {
	return Rotation{
		Re: r.Re*o.Re - r.Im*o.Im,
		Im: r.Re*o.Im + r.Im*o.Re,
	}
}

// Inverse returns the conjugate rotation.
func (r Rotation) Inverse() Rotation {
	return Rotation{Re: r.Re, Im: -r.Im}
}

// Isometry is a rigid transform: a rotation followed by a translation.
type Isometry struct {
	Rotation    Rotation
	Translation mgl32.Vec2
}

// Identity returns the identity isometry
func Identity() Isometry {
	return Isometry{Rotation: RotationIdentity()}
}

// NewIsometry creates an isometry from a translation and a rotation angle in radians.
func NewIsometry(translation mgl32.Vec2, angle float32) Isometry {
	return Isometry{Rotation: NewRotation(angle), Translation: translation}
}

// Translation creates a pure translation.
func Translation(x, y float32) Isometry {
	return Isometry{Rotation: RotationIdentity(), Translation: mgl32.Vec2{x, y}}
}

// TransformPoint maps a point from the local frame into the parent frame.
func (iso Isometry) TransformPoint(p mgl32.Vec2) mgl32.Vec2 {
	return iso.Rotation.Rotate(p).Add(iso.Translation)
}

// TransformVector rotates a vector; translations do not apply to vectors.
func (iso Isometry) TransformVector(v mgl32.Vec2) mgl32.Vec2 {
	return iso.Rotation.Rotate(v)
}

// InverseTransformPoint maps a point from the parent frame into the local frame.
func (iso Isometry) InverseTransformPoint(p mgl32.Vec2) mgl32.Vec2 {
	return iso.Rotation.InverseRotate(p.Sub(iso.Translation))
}

// InverseTransformVector maps a vector from the parent frame into the local frame.
func (iso Isometry) InverseTransformVector(v mgl32.Vec2) mgl32.Vec2 {
	return iso.Rotation.InverseRotate(v)
}

// AbsoluteTransformVector multiplies v by the component-wise absolute value of
// the rotation matrix. Applied to half-extents it yields the half-extents of
// the AABB enclosing the rotated box.
func (iso Isometry) AbsoluteTransformVector(v mgl32.Vec2) mgl32.Vec2 {
	c := abs(iso.Rotation.Re)
	s := abs(iso.Rotation.Im)
	return mgl32.Vec2{
		c*v[0] + s*v[1],
		s*v[0] + c*v[1],
	}
}

// Mul composes two isometries: iso.Mul(o) applies o first, then iso.
func (iso Isometry) Mul(o Isometry) Isometry {
	return Isometry{
		Rotation:    iso.Rotation.Mul(o.Rotation),
		Translation: iso.TransformPoint(o.Translation),
	}
}

// Inverse returns the isometry undoing iso.
func (iso Isometry) Inverse() Isometry {
	inv := iso.Rotation.Inverse()
	return Isometry{
		Rotation:    inv,
		Translation: inv.Rotate(iso.Translation).Mul(-1),
	}
}

func abs(x float32) float32 {
	if x < 0 {
		return -x
	}
	return x
}
