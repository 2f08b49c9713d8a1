package scene

import (
	"context"
	"fmt"

	"github.com/akmonengine/feather2d/bounding"
	"github.com/akmonengine/feather2d/mass"
	"github.com/akmonengine/feather2d/math2d"
	"github.com/akmonengine/feather2d/memo"
	"github.com/akmonengine/feather2d/shape"
	"golang.org/x/sync/errgroup"
)

// Summary holds the derived values of a body.
type Summary struct {
	ID             string                  `yaml:"id"`
	Type           string                  `yaml:"type"`
	AABB           bounding.AABB           `yaml:"aabb"`
	BoundingSphere bounding.BoundingSphere `yaml:"bounding_sphere"`
	// SweptAABB encloses the body at its start and end poses.
	SweptAABB           bounding.AABB   `yaml:"swept_aabb"`
	Mass                mass.Properties `yaml:"mass"`
	Convex              bool            `yaml:"convex"`
	CCDThickness        float32         `yaml:"ccd_thickness"`
	CCDAngularThickness float32         `yaml:"ccd_angular_thickness"`
	Sensor              bool            `yaml:"sensor,omitempty"`
}

// Evaluate computes the summary of every body, at most workers at a time.
// Summaries are in the order of bodies. A nil cache computes every value.
func Evaluate(ctx context.Context, bodies []Body, cache *memo.Cache, workers int) ([]Summary, error) {
	for _, b := range bodies {
		if b.Shape == nil {
			return nil, fmt.Errorf("%w: body %q has no shape", ErrInvalidBody, b.ID)
		}
	}

	summaries := make([]Summary, len(bodies))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(max(workers, 1))

	for i, b := range bodies {
		i, b := i, b
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			summaries[i] = summarize(b, cache)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return summaries, nil
}

func summarize(b Body, cache *memo.Cache) Summary {
	aabb := func(pose math2d.Isometry) bounding.AABB {
		if cache != nil {
			return cache.AABB(b.Shape, pose)
		}
		return shape.ComputeAABB(b.Shape, pose)
	}

	var props mass.Properties
	if cache != nil {
		props = cache.MassProperties(b.Shape, b.Density)
	} else {
		props = b.Shape.MassProperties(b.Density)
	}

	return Summary{
		ID:                  b.ID,
		Type:                b.Shape.ShapeType().String(),
		AABB:                aabb(b.Pose),
		BoundingSphere:      shape.ComputeBoundingSphere(b.Shape, b.Pose),
		SweptAABB:           aabb(b.Pose).Merged(aabb(b.EndPose)),
		Mass:                props,
		Convex:              shape.IsConvex(b.Shape),
		CCDThickness:        b.Shape.CCDThickness(),
		CCDAngularThickness: b.Shape.CCDAngularThickness(),
		Sensor:              b.Sensor,
	}
}
