// Package memo caches the derived volumes of shapes for callers that query the
// same shapes repeatedly. Shapes never memoize anything themselves; a Cache
// is owned by its caller and safe for concurrent use.
package memo

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"sync"
	"sync/atomic"

	"github.com/akmonengine/feather2d/bounding"
	"github.com/akmonengine/feather2d/mass"
	"github.com/akmonengine/feather2d/math2d"
	"github.com/akmonengine/feather2d/shape"
	"github.com/cespare/xxhash/v2"
	"golang.org/x/sync/singleflight"
)

var (
	// ErrUncacheable is returned by Key for shapes implemented outside the
	// shape package, whose parameters cannot be hashed.
	ErrUncacheable = errors.New("shape cannot be cached")
)

const (
	tagAABB byte = iota + 1
	tagMass
	tagCuboid
	tagBall
	tagCompound
)

// Stats counts the lookups served by a Cache.
type Stats struct {
	Hits   uint64
	Misses uint64
}

// Cache memoizes AABBs and mass properties, keyed by an xxhash digest of the
// shape parameters and the query arguments. Each entry keeps the hashed bytes,
// so a digest collision is a miss rather than another shape's value.
// Concurrent misses on the same query are computed once.
type Cache struct {
	mx     sync.RWMutex
	aabbs  map[uint64]entry[bounding.AABB]
	masses map[uint64]entry[mass.Properties]
	group  singleflight.Group

	hits   atomic.Uint64
	misses atomic.Uint64
}

type entry[T any] struct {
	params string
	value  T
}

func New() *Cache {
	return &Cache{
		aabbs:  make(map[uint64]entry[bounding.AABB]),
		masses: make(map[uint64]entry[mass.Properties]),
	}
}

// AABB returns the AABB of s placed at pose.
func (c *Cache) AABB(s shape.Shape, pose math2d.Isometry) bounding.AABB {
	h, err := hashQuery(s, tagAABB, pose.Rotation.Re, pose.Rotation.Im, pose.Translation.X(), pose.Translation.Y())
	if err != nil {
		c.misses.Add(1)
		return shape.ComputeAABB(s, pose)
	}

	return lookup(c, c.aabbs, h, func() bounding.AABB {
		return shape.ComputeAABB(s, pose)
	})
}

// MassProperties returns the mass properties of s for the given density.
func (c *Cache) MassProperties(s shape.Shape, density float32) mass.Properties {
	h, err := hashQuery(s, tagMass, density)
	if err != nil {
		c.misses.Add(1)
		return s.MassProperties(density)
	}

	return lookup(c, c.masses, h, func() mass.Properties {
		return s.MassProperties(density)
	})
}

func lookup[T any](c *Cache, entries map[uint64]entry[T], h *hasher, compute func() T) T {
	key := h.digest.Sum64()
	params := string(h.params)

	c.mx.RLock()
	e, ok := entries[key]
	c.mx.RUnlock()
	if ok && e.params == params {
		c.hits.Add(1)
		return e.value
	}

	c.misses.Add(1)
	res, _, _ := c.group.Do(params, func() (interface{}, error) {
		v := compute()

		c.mx.Lock()
		// On a collision the entry already stored is kept.
		if e, ok := entries[key]; !ok || e.params == params {
			entries[key] = entry[T]{params: params, value: v}
		}
		c.mx.Unlock()

		return v, nil
	})

	return res.(T)
}

// Len returns the number of cached values.
func (c *Cache) Len() int {
	c.mx.RLock()
	defer c.mx.RUnlock()

	return len(c.aabbs) + len(c.masses)
}

// Reset drops every cached value and the statistics.
func (c *Cache) Reset() {
	c.mx.Lock()
	clear(c.aabbs)
	clear(c.masses)
	c.mx.Unlock()

	c.hits.Store(0)
	c.misses.Store(0)
}

func (c *Cache) Stats() Stats {
	return Stats{Hits: c.hits.Load(), Misses: c.misses.Load()}
}

// Key hashes the parameters of s. Shapes with equal parameters have equal
// keys.
func Key(s shape.Shape) (uint64, error) {
	h, err := hashQuery(s, 0)
	if err != nil {
		return 0, err
	}
	return h.digest.Sum64(), nil
}

// hashQuery hashes the parameters of s followed by the query tag and its
// arguments.
func hashQuery(s shape.Shape, tag byte, args ...float32) (*hasher, error) {
	h := &hasher{digest: xxhash.New()}
	if err := h.writeShape(s); err != nil {
		return nil, err
	}

	h.writeByte(tag)
	for _, a := range args {
		h.writeFloat(a)
	}

	return h, nil
}

// hasher feeds the digest and keeps a copy of every byte it hashed.
type hasher struct {
	digest *xxhash.Digest
	params []byte
}

func (h *hasher) write(b []byte) {
	h.params = append(h.params, b...)
	_, _ = h.digest.Write(b)
}

func (h *hasher) writeByte(b byte) {
	h.write([]byte{b})
}

func (h *hasher) writeUint32(u uint32) {
	h.write(binary.LittleEndian.AppendUint32(nil, u))
}

func (h *hasher) writeFloat(f float32) {
	h.writeUint32(math.Float32bits(f))
}

func (h *hasher) writePose(pose math2d.Isometry) {
	h.writeFloat(pose.Rotation.Re)
	h.writeFloat(pose.Rotation.Im)
	h.writeFloat(pose.Translation.X())
	h.writeFloat(pose.Translation.Y())
}

func (h *hasher) writeShape(s shape.Shape) error {
	if s == nil {
		return fmt.Errorf("%w: nil shape", ErrUncacheable)
	}

	if cuboid, ok := shape.AsCuboid(s); ok {
		h.writeByte(tagCuboid)
		h.writeFloat(cuboid.HalfExtents.X())
		h.writeFloat(cuboid.HalfExtents.Y())
		return nil
	}
	if ball, ok := shape.AsBall(s); ok {
		h.writeByte(tagBall)
		h.writeFloat(ball.Radius)
		return nil
	}
	if compound, ok := shape.AsCompound(s); ok {
		h.writeByte(tagCompound)
		h.writeUint32(uint32(compound.Len()))
		for i := 0; i < compound.Len(); i++ {
			part := compound.Part(i)
			h.writePose(part.Pose)
			if err := h.writeShape(part.Shape); err != nil {
				return err
			}
		}
		return nil
	}

	return fmt.Errorf("%w: %s", ErrUncacheable, s.ShapeType())
}
