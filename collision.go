package feather2d

import (
	"sync"

	"github.com/akmonengine/feather2d/bounding"
	"github.com/akmonengine/feather2d/epa"
	"github.com/akmonengine/feather2d/gjk"
	"github.com/akmonengine/feather2d/math2d"
	"github.com/akmonengine/feather2d/shape"
	"github.com/go-gl/mathgl/mgl32"
)

// Collider is a shape placed in the world.
type Collider struct {
	ID    string
	Shape shape.Shape
	Pose  math2d.Isometry
	// Sensor colliders only report events: Events.Record filters their
	// contacts out.
	Sensor bool
}

// AABB returns the world-space bounding box of the collider.
func (c Collider) AABB() bounding.AABB {
	return shape.ComputeAABB(c.Shape, c.Pose)
}

// Pair is a pair of colliders that potentially collide.
type Pair struct {
	A, B Collider
}

// Contact describes the overlap of two convex shapes. For compound colliders
// one contact is reported per overlapping pair of parts.
type Contact struct {
	// A and B are the ids of the colliders in the pair.
	A, B string
	// Normal points from A toward B.
	Normal mgl32.Vec2
	Depth  float32
	Points []epa.ContactPoint
	// Sensor is set when either collider is a sensor.
	Sensor bool
}

// CollisionPair is a pair of convex colliders, with the simplex filled by GJK
// once they are known to overlap.
type CollisionPair struct {
	A, B    Collider
	a, b    shape.SupportMap
	simplex *gjk.Simplex
}

// Bounds computes the world-space AABB of every collider, in parallel.
func Bounds(colliders []Collider, workersCount int) []bounding.AABB {
	aabbs := make([]bounding.AABB, len(colliders))
	task(workersCount, colliders, func(i int, c Collider) {
		aabbs[i] = c.AABB()
	})

	return aabbs
}

// NarrowPhase computes the contacts of the given pairs.
//
// Compound colliders are split into their parts, each part posed in the
// world. Pairs of parts are then tested with GJK, and the overlapping ones are
// passed to EPA and to the manifold generation. Shapes that are not support
// maps are skipped.
func NarrowPhase(pairs <-chan Pair, workersCount int) []Contact {
	workersCount = max(workersCount, 1)

	// Dispatcher: flatten compounds into convex pairs
	convexPairs := make(chan CollisionPair, workersCount)
	go func() {
		defer close(convexPairs)

		for pair := range pairs {
			for _, a := range flatten(pair.A) {
				smA, ok := shape.AsSupportMap(a.Shape)
				if !ok {
					continue
				}
				for _, b := range flatten(pair.B) {
					smB, ok := shape.AsSupportMap(b.Shape)
					if !ok {
						continue
					}
					convexPairs <- CollisionPair{A: a, B: b, a: smA, b: smB}
				}
			}
		}
	}()

	collisionPairs := GJK(convexPairs, workersCount)
	contactsChan := EPA(collisionPairs, workersCount)

	contacts := make([]Contact, 0)
	for c := range contactsChan {
		contacts = append(contacts, c)
	}

	return contacts
}

// flatten returns the convex parts of a collider, posed in the world. The
// parts keep the id of their compound.
func flatten(c Collider) []Collider {
	compound, ok := shape.AsCompound(c.Shape)
	if !ok {
		return []Collider{c}
	}

	parts := make([]Collider, 0, compound.Len())
	for i := 0; i < compound.Len(); i++ {
		part := compound.Part(i)
		parts = append(parts, Collider{
			ID:     c.ID,
			Shape:  part.Shape,
			Pose:   c.Pose.Mul(part.Pose),
			Sensor: c.Sensor,
		})
	}

	return parts
}

func GJK(pairChan <-chan CollisionPair, workersCount int) <-chan CollisionPair {
	collisionChan := make(chan CollisionPair, workersCount)

	go func() {
		var wg sync.WaitGroup
		defer close(collisionChan)

		for i := 0; i < workersCount; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()

				for p := range pairChan {
					simplex := gjk.SimplexPool.Get().(*gjk.Simplex)
					simplex.Reset()

					if collision := gjk.GJK(p.a, p.A.Pose, p.b, p.B.Pose, simplex); collision {
						p.simplex = simplex
						collisionChan <- p
					} else {
						gjk.SimplexPool.Put(simplex)
					}
				}
			}()
		}
		wg.Wait()
	}()

	return collisionChan
}

func EPA(p <-chan CollisionPair, workersCount int) <-chan Contact {
	ch := make(chan Contact, workersCount)

	go func() {
		var wg sync.WaitGroup
		defer close(ch)

		for i := 0; i < workersCount; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for pair := range p {
					normal, depth, err := epa.Penetration(pair.a, pair.A.Pose, pair.b, pair.B.Pose, pair.simplex)
					gjk.SimplexPool.Put(pair.simplex)
					if err != nil {
						continue
					}

					ch <- Contact{
						A:      pair.A.ID,
						B:      pair.B.ID,
						Normal: normal,
						Depth:  depth,
						Points: manifold(pair, normal, depth),
						Sensor: pair.A.Sensor || pair.B.Sensor,
					}
				}
			}()
		}

		wg.Wait()
	}()

	return ch
}

// manifold clips the support features of the pair when both shapes have
// them. Otherwise a single point is built from the support points.
func manifold(pair CollisionPair, normal mgl32.Vec2, depth float32) []epa.ContactPoint {
	pfmA, borderA, okA := shape.AsPolygonalFeatureMap(pair.A.Shape)
	pfmB, borderB, okB := shape.AsPolygonalFeatureMap(pair.B.Shape)
	if okA && okB {
		return epa.GenerateManifold(pfmA, borderA, pair.A.Pose, pfmB, borderB, pair.B.Pose, normal, depth)
	}

	pa := shape.SupportPoint(pair.a, pair.A.Pose, normal)
	pb := shape.SupportPoint(pair.b, pair.B.Pose, normal.Mul(-1))

	return []epa.ContactPoint{{
		Position:    pa.Add(pb).Mul(0.5),
		Penetration: depth,
	}}
}
