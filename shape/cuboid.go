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
	_ Shape               = Cuboid{}
	_ SupportMap          = Cuboid{}
	_ PolygonalFeatureMap = Cuboid{}
)

// Cuboid represents a box centered on the origin of its local frame.
// The box is defined by its half-extents (half-width, half-height), both
// strictly positive.
type Cuboid struct {
	HalfExtents mgl32.Vec2
}

// NewCuboid creates a box from its half-extents.
func NewCuboid(halfExtents mgl32.Vec2) (Cuboid, error) {
	for i := 0; i < 2; i++ {
		if !isPositiveFinite(halfExtents[i]) {
			return Cuboid{}, fmt.Errorf("%w: cuboid half-extents %v", ErrDegenerateShape, halfExtents)
		}
	}
	return Cuboid{HalfExtents: halfExtents}, nil
}

// Scaled returns the cuboid with its half-extents multiplied component-wise by scale.
func (c Cuboid) Scaled(scale mgl32.Vec2) (Cuboid, error) {
	return NewCuboid(math2d.MulComponents(c.HalfExtents, scale))
}

// VertexFeatureID returns the 2-bit code of the cuboid corner at vertex:
// bit 0 is the IEEE-754 sign bit of x and bit 1 the sign bit of y. Reading the
// sign bit instead of comparing with zero classifies -0 and +0 as different
// corners.
func VertexFeatureID(vertex mgl32.Vec2) uint32 {
	return (math.Float32bits(vertex[0])>>31)&0b01 | (math.Float32bits(vertex[1])>>30)&0b10
}

// SupportFeature returns the feature of the cuboid whose normal best matches
// localDir. In 2D a face is always returned: a two-point feature gives more
// stable manifolds than a single vertex.
func (c Cuboid) SupportFeature(localDir mgl32.Vec2) feature.Polygonal {
	return c.SupportFace(localDir)
}

// SupportFace returns the edge of the cuboid whose normal best matches localDir.
func (c Cuboid) SupportFace(localDir mgl32.Vec2) feature.Polygonal {
	he := c.HalfExtents
	i := math2d.IAMin(localDir)
	j := (i + 1) % 2

	var a mgl32.Vec2
	a[i] = he[i]
	a[j] = math2d.Copysign(he[j], localDir[j])

	b := a
	b[i] = -he[i]

	vid1 := VertexFeatureID(a)
	vid2 := VertexFeatureID(b)
	fid := (max(vid1, vid2) << 2) | min(vid1, vid2) | 0b11_00_00

	return feature.Polygonal{
		Vertices:    [2]mgl32.Vec2{a, b},
		VIDs:        [2]uint32{vid1, vid2},
		FID:         fid,
		NumVertices: 2,
	}
}

// FeatureNormal returns the outward normal of a face or vertex of the cuboid.
// Faces 0 and 1 face +x and +y, faces 2 and 3 face -x and -y. Vertices use the
// code of VertexFeatureID.
func (c Cuboid) FeatureNormal(id feature.ID) (mgl32.Vec2, bool) {
	switch id.Kind {
	case feature.KindFace:
		var dir mgl32.Vec2
		switch {
		case id.Index < 2:
			dir[id.Index] = 1
		case id.Index < 4:
			dir[id.Index-2] = -1
		default:
			return mgl32.Vec2{}, false
		}
		return dir, true
	case feature.KindVertex:
		var dir mgl32.Vec2
		switch id.Index {
		case 0b00:
			dir = mgl32.Vec2{1, 1}
		case 0b01:
			dir = mgl32.Vec2{-1, 1}
		case 0b11:
			dir = mgl32.Vec2{-1, -1}
		case 0b10:
			dir = mgl32.Vec2{1, -1}
		default:
			return mgl32.Vec2{}, false
		}
		return dir.Normalize(), true
	}
	return mgl32.Vec2{}, false
}

// FeatureNormalAtPoint returns the normal of the given feature; a cuboid
// feature has the same normal everywhere.
func (c Cuboid) FeatureNormalAtPoint(id feature.ID, _ mgl32.Vec2) (mgl32.Vec2, bool) {
	return c.FeatureNormal(id)
}

// LocalAABB returns the box {-HalfExtents, +HalfExtents}.
func (c Cuboid) LocalAABB() bounding.AABB {
	return bounding.NewAABB(c.HalfExtents.Mul(-1), c.HalfExtents)
}

// AABB returns the world-space AABB of the cuboid placed at pose.
func (c Cuboid) AABB(pose math2d.Isometry) bounding.AABB {
	return bounding.FromHalfExtents(pose.Translation, pose.AbsoluteTransformVector(c.HalfExtents))
}

// LocalBoundingSphere returns the circle circumscribing the cuboid.
func (c Cuboid) LocalBoundingSphere() bounding.BoundingSphere {
	return bounding.NewBoundingSphere(mgl32.Vec2{}, c.HalfExtents.Len())
}

// BoundingSphere returns the world-space bounding sphere of the cuboid placed at pose.
func (c Cuboid) BoundingSphere(pose math2d.Isometry) bounding.BoundingSphere {
	return c.LocalBoundingSphere().TransformBy(pose)
}

func (c Cuboid) ComputeLocalAABB() bounding.AABB {
	return c.LocalAABB()
}

func (c Cuboid) ComputeLocalBoundingSphere() bounding.BoundingSphere {
	return c.LocalBoundingSphere()
}

func (c Cuboid) ComputeAABB(pose math2d.Isometry) bounding.AABB {
	return c.AABB(pose)
}

// MassProperties calculates mass data for the cuboid
func (c Cuboid) MassProperties(density float32) mass.Properties {
	return mass.FromCuboid(density, c.HalfExtents)
}

func (c Cuboid) ShapeType() ShapeType {
	return ShapeTypeCuboid
}

func (c Cuboid) AsTypedShape() TypedShape {
	return TypedShape{Type: ShapeTypeCuboid, Cuboid: &c}
}

func (c Cuboid) CCDThickness() float32 {
	return min(c.HalfExtents[0], c.HalfExtents[1])
}

func (c Cuboid) CCDAngularThickness() float32 {
	return math.Pi / 2
}

func (c Cuboid) IsConvex() bool {
	return true
}

func (c Cuboid) AsSupportMap() (SupportMap, bool) {
	return c, true
}

func (c Cuboid) AsPolygonalFeatureMap() (PolygonalFeatureMap, float32, bool) {
	return c, 0, true
}

// LocalSupportPoint returns the corner of the cuboid in the direction dir.
func (c Cuboid) LocalSupportPoint(dir mgl32.Vec2) mgl32.Vec2 {
	return mgl32.Vec2{
		math2d.Copysign(c.HalfExtents[0], dir[0]),
		math2d.Copysign(c.HalfExtents[1], dir[1]),
	}
}

func (c Cuboid) LocalSupportFeature(dir mgl32.Vec2) feature.Polygonal {
	return c.SupportFeature(dir)
}

// Ray and point queries: in its local frame a cuboid is exactly its local AABB.

func (c Cuboid) CastLocalRay(ray query.Ray, maxTOI float32, solid bool) (float32, bool) {
	return c.LocalAABB().CastLocalRay(ray, maxTOI, solid)
}

func (c Cuboid) CastLocalRayAndGetNormal(ray query.Ray, maxTOI float32, solid bool) (query.RayIntersection, bool) {
	return c.LocalAABB().CastLocalRayAndGetNormal(ray, maxTOI, solid)
}

func (c Cuboid) ProjectLocalPoint(point mgl32.Vec2, solid bool) query.PointProjection {
	return c.LocalAABB().ProjectLocalPoint(point, solid)
}

func (c Cuboid) ProjectLocalPointAndGetFeature(point mgl32.Vec2) (query.PointProjection, feature.ID) {
	return c.LocalAABB().ProjectLocalPointAndGetFeature(point)
}

func (c Cuboid) DistanceToLocalPoint(point mgl32.Vec2, solid bool) float32 {
	return c.LocalAABB().DistanceToLocalPoint(point, solid)
}

func (c Cuboid) ContainsLocalPoint(point mgl32.Vec2) bool {
	return c.LocalAABB().ContainsLocalPoint(point)
}

func isPositiveFinite(x float32) bool {
	return x > 0 && !math.IsInf(float64(x), 1)
}
