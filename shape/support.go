package shape

import (
	"github.com/akmonengine/feather2d/feature"
	"github.com/akmonengine/feather2d/math2d"
	"github.com/go-gl/mathgl/mgl32"
)

// SupportMap is implemented by convex shapes able to return their farthest
// point along a direction. This is the only query GJK and EPA need.
type SupportMap interface {
	// LocalSupportPoint returns the point of the shape maximizing the dot
	// product with dir. dir does not need to be normalized.
	LocalSupportPoint(dir mgl32.Vec2) mgl32.Vec2
}

// PolygonalFeatureMap is implemented by shapes able to return the face or
// vertex best aligned with a direction, used to build contact manifolds.
type PolygonalFeatureMap interface {
	LocalSupportFeature(dir mgl32.Vec2) feature.Polygonal
}

// SupportPoint returns the world-space support point of sm placed at pose.
func SupportPoint(sm SupportMap, pose math2d.Isometry, dir mgl32.Vec2) mgl32.Vec2 {
	local := sm.LocalSupportPoint(pose.InverseTransformVector(dir))
	return pose.TransformPoint(local)
}

// SupportFeature returns the world-space support feature of pfm placed at pose.
func SupportFeature(pfm PolygonalFeatureMap, pose math2d.Isometry, dir mgl32.Vec2) feature.Polygonal {
	return pfm.LocalSupportFeature(pose.InverseTransformVector(dir)).Transform(pose)
}
