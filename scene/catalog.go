package scene

import (
	"fmt"
	"sort"

	"github.com/akmonengine/feather2d/shape"
	"github.com/go-gl/mathgl/mgl32"
)

// shapeBuilder creates a shape from its configuration. depth is the nesting
// level of the configuration, zero for the shape of a body.
type shapeBuilder func(cfg ShapeConfig, depth int) (shape.Shape, error)

// catalog maps the shape types of a scene file to their builders. It is
// filled once by init and read-only afterwards.
var catalog map[string]shapeBuilder

func init() {
	catalog = map[string]shapeBuilder{
		"cuboid":   buildCuboid,
		"ball":     buildBall,
		"compound": buildCompound,
	}
}

// ShapeTypes returns the shape types known to the catalog, sorted.
func ShapeTypes() []string {
	types := make([]string, 0, len(catalog))
	for t := range catalog {
		types = append(types, t)
	}
	sort.Strings(types)

	return types
}

func buildShape(cfg ShapeConfig, depth int) (shape.Shape, error) {
	build, ok := catalog[cfg.Type]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownShape, cfg.Type)
	}

	return build(cfg, depth)
}

func buildCuboid(cfg ShapeConfig, _ int) (shape.Shape, error) {
	c, err := shape.NewCuboid(mgl32.Vec2(cfg.HalfExtents))
	if err != nil {
		return nil, fmt.Errorf("%w: cuboid %v: %w", ErrInvalidShape, cfg.HalfExtents, err)
	}

	return c, nil
}

func buildBall(cfg ShapeConfig, _ int) (shape.Shape, error) {
	b, err := shape.NewBall(cfg.Radius)
	if err != nil {
		return nil, fmt.Errorf("%w: ball %v: %w", ErrInvalidShape, cfg.Radius, err)
	}

	return b, nil
}

func buildCompound(cfg ShapeConfig, depth int) (shape.Shape, error) {
	if depth > 0 {
		return nil, fmt.Errorf("%w: compounds cannot be nested", ErrInvalidShape)
	}

	parts := make([]shape.CompoundPart, 0, len(cfg.Parts))
	for i, p := range cfg.Parts {
		s, err := buildShape(p.Shape, depth+1)
		if err != nil {
			return nil, fmt.Errorf("part %d: %w", i, err)
		}
		parts = append(parts, shape.CompoundPart{Pose: p.isometry(), Shape: s})
	}

	c, err := shape.NewCompound(parts)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidShape, err)
	}

	return c, nil
}
