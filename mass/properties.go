// Package mass computes the mass properties of shapes: mass, center of mass
// and the planar angular inertia about that center.
package mass

import (
	"math"

	"github.com/akmonengine/feather2d/math2d"
	"github.com/go-gl/mathgl/mgl32"
)

// Properties holds the mass, the center of mass in the shape's local frame and
// the angular inertia about the center of mass.
type Properties struct {
	Mass     float32
	LocalCOM mgl32.Vec2
	Inertia  float32
}

// New creates mass properties from their components.
func New(localCOM mgl32.Vec2, mass, inertia float32) Properties {
	return Properties{Mass: mass, LocalCOM: localCOM, Inertia: inertia}
}

// FromCuboid computes the mass properties of a solid rectangle of the given
// half-extents centered on the origin.
func FromCuboid(density float32, halfExtents mgl32.Vec2) Properties {
	hx, hy := halfExtents.X(), halfExtents.Y()
	// Area = 4 * hx * hy (full dimensions are 2*halfExtents)
	m := density * (2 * hx) * (2 * hy)
	// Plate about its centroid: m * (w² + h²) / 12 with w = 2hx, h = 2hy.
	inertia := m * (hx*hx + hy*hy) / 3
	return Properties{Mass: m, Inertia: inertia}
}

// FromBall computes the mass properties of a solid disk centered on the origin.
func FromBall(density, radius float32) Properties {
	r2 := radius * radius
	m := density * math.Pi * r2
	return Properties{Mass: m, Inertia: m * r2 / 2}
}

// InvMass returns 1/Mass, or 0 for a massless body.
func (p Properties) InvMass() float32 {
	if p.Mass <= 0 {
		return 0
	}
	return 1 / p.Mass
}

// InvInertia returns 1/Inertia, or 0 when the inertia is zero.
func (p Properties) InvInertia() float32 {
	if p.Inertia <= 0 {
		return 0
	}
	return 1 / p.Inertia
}

// Transform moves the center of mass by iso. In 2D the inertia about the
// center of mass does not depend on the orientation.
func (p Properties) Transform(iso math2d.Isometry) Properties {
	p.LocalCOM = iso.TransformPoint(p.LocalCOM)
	return p
}

// Add combines two sets of mass properties, shifting both inertias to the
// combined center of mass (parallel axis theorem).
func (p Properties) Add(other Properties) Properties {
	total := p.Mass + other.Mass
	if total <= 0 {
		return Properties{}
	}

	com := p.LocalCOM.Mul(p.Mass).Add(other.LocalCOM.Mul(other.Mass)).Mul(1 / total)
	inertia := p.Inertia + p.Mass*p.LocalCOM.Sub(com).LenSqr() +
		other.Inertia + other.Mass*other.LocalCOM.Sub(com).LenSqr()

	return Properties{Mass: total, LocalCOM: com, Inertia: inertia}
}

// Sum adds every set of mass properties.
func Sum(props ...Properties) Properties {
	var total Properties
	for _, p := range props {
		total = total.Add(p)
	}
	return total
}
