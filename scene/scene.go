// Package scene loads shape descriptions from YAML and evaluates the derived
// volumes of every body they declare.
package scene

import (
	"errors"
	"fmt"
	"io"

	"github.com/akmonengine/feather2d"
	"github.com/akmonengine/feather2d/math2d"
	"github.com/akmonengine/feather2d/shape"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

const defaultDensity = 1

var (
	ErrEmptyScene   = errors.New("empty scene")
	ErrUnknownShape = errors.New("unknown shape type")
	ErrInvalidShape = errors.New("invalid shape")
	ErrInvalidBody  = errors.New("invalid body")
	ErrDuplicateID  = errors.New("duplicate body id")
)

// Scene is the YAML description of a set of bodies.
type Scene struct {
	// Density applies to bodies without their own. Defaults to 1.
	Density float32      `yaml:"density,omitempty"`
	Bodies  []BodyConfig `yaml:"bodies"`
}

// PoseConfig places a shape: a translation and an angle in radians.
type PoseConfig struct {
	Position [2]float32 `yaml:"position,flow"`
	Angle    float32    `yaml:"angle,omitempty"`
}

func (p PoseConfig) isometry() math2d.Isometry {
	return math2d.NewIsometry(mgl32.Vec2(p.Position), p.Angle)
}

type BodyConfig struct {
	// ID is generated when empty.
	ID         string `yaml:"id,omitempty"`
	PoseConfig `yaml:",inline"`
	Shape      ShapeConfig `yaml:"shape"`
	// Motion is the pose at the end of the step, used for the swept AABB.
	Motion  *PoseConfig `yaml:"motion,omitempty"`
	Density *float32    `yaml:"density,omitempty"`
	Sensor  bool        `yaml:"sensor,omitempty"`
}

// ShapeConfig describes a shape of the catalog. Only the fields of its type
// are read.
type ShapeConfig struct {
	Type        string       `yaml:"type"`
	HalfExtents [2]float32   `yaml:"half_extents,flow,omitempty"`
	Radius      float32      `yaml:"radius,omitempty"`
	Parts       []PartConfig `yaml:"parts,omitempty"`
}

type PartConfig struct {
	PoseConfig `yaml:",inline"`
	Shape      ShapeConfig `yaml:"shape"`
}

// Body is a shape placed in the world, built from a BodyConfig.
type Body struct {
	ID      string
	Shape   shape.Shape
	Pose    math2d.Isometry
	EndPose math2d.Isometry
	Density float32
	Sensor  bool
}

// Collider returns the body at its starting pose.
func (b Body) Collider() feather2d.Collider {
	return feather2d.Collider{ID: b.ID, Shape: b.Shape, Pose: b.Pose, Sensor: b.Sensor}
}

// Load decodes a scene. Unknown fields are rejected.
func Load(r io.Reader) (*Scene, error) {
	var s Scene
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&s); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ErrEmptyScene
		}
		return nil, fmt.Errorf("decode scene: %w", err)
	}

	return &s, nil
}

// Build instantiates the shapes of every body through the shape catalog.
func (s *Scene) Build(logger *zap.Logger) ([]Body, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	density := s.Density
	if density == 0 {
		density = defaultDensity
	}

	bodies := make([]Body, 0, len(s.Bodies))
	ids := make(map[string]int, len(s.Bodies))
	for i, cfg := range s.Bodies {
		body, err := buildBody(cfg, density)
		if err != nil {
			return nil, fmt.Errorf("body %d (%s): %w", i, cfg.ID, err)
		}

		if body.ID == "" {
			body.ID = uuid.NewString()
			logger.Debug("generated body id", zap.Int("index", i), zap.String("id", body.ID))
		}
		if prev, ok := ids[body.ID]; ok {
			return nil, fmt.Errorf("%w: %q used by bodies %d and %d", ErrDuplicateID, body.ID, prev, i)
		}
		ids[body.ID] = i

		logger.Debug("body built",
			zap.String("id", body.ID),
			zap.Stringer("type", body.Shape.ShapeType()),
			zap.Float32("density", body.Density),
		)
		bodies = append(bodies, body)
	}

	logger.Info("scene built", zap.Int("bodies", len(bodies)))
	return bodies, nil
}

func buildBody(cfg BodyConfig, density float32) (Body, error) {
	if cfg.Density != nil {
		density = *cfg.Density
	}
	if !(density > 0) {
		return Body{}, fmt.Errorf("%w: density %v", ErrInvalidBody, density)
	}

	s, err := buildShape(cfg.Shape, 0)
	if err != nil {
		return Body{}, err
	}

	pose := cfg.isometry()
	endPose := pose
	if cfg.Motion != nil {
		endPose = cfg.Motion.isometry()
	}

	return Body{
		ID:      cfg.ID,
		Shape:   s,
		Pose:    pose,
		EndPose: endPose,
		Density: density,
		Sensor:  cfg.Sensor,
	}, nil
}
