package math2d

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Perp returns v rotated by +90 degrees.
func Perp(v mgl32.Vec2) mgl32.Vec2 {
	return mgl32.Vec2{-v[1], v[0]}
}

// PerpDot returns the z component of the 3D cross product of a and b.
func PerpDot(a, b mgl32.Vec2) float32 {
	return a[0]*b[1] - a[1]*b[0]
}

// Abs returns the component-wise absolute value of v.
func Abs(v mgl32.Vec2) mgl32.Vec2 {
	return mgl32.Vec2{abs(v[0]), abs(v[1])}
}

// MinVec returns the component-wise minimum of a and b.
func MinVec(a, b mgl32.Vec2) mgl32.Vec2 {
	return mgl32.Vec2{min(a[0], b[0]), min(a[1], b[1])}
}

// MaxVec returns the component-wise maximum of a and b.
func MaxVec(a, b mgl32.Vec2) mgl32.Vec2 {
	return mgl32.Vec2{max(a[0], b[0]), max(a[1], b[1])}
}

// MulComponents returns the component-wise product of a and b.
func MulComponents(a, b mgl32.Vec2) mgl32.Vec2 {
	return mgl32.Vec2{a[0] * b[0], a[1] * b[1]}
}

// Copysign returns a value with the magnitude of x and the sign bit of sign.
func Copysign(x, sign float32) float32 {
	return float32(math.Copysign(float64(x), float64(sign)))
}

// IAMin returns the index of the component with the smallest absolute value.
// Ties resolve to the first index.
func IAMin(v mgl32.Vec2) int {
	if abs(v[1]) < abs(v[0]) {
		return 1
	}
	return 0
}

// TripleProduct returns (a x b) x c for vectors embedded in the z=0 plane.
// With a=ab, b=ao, c=ab it yields the perpendicular of ab pointing toward the origin.
func TripleProduct(a, b, c mgl32.Vec2) mgl32.Vec2 {
	return b.Mul(a.Dot(c)).Sub(a.Mul(b.Dot(c)))
}

// TryNormalize returns v normalized, or false if its length is below eps.
func TryNormalize(v mgl32.Vec2, eps float32) (mgl32.Vec2, bool) {
	l := v.Len()
	if l <= eps {
		return mgl32.Vec2{}, false
	}
	return v.Mul(1 / l), true
}
