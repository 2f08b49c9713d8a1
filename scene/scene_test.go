package scene

import (
	"context"
	"os"
	"strings"
	"testing"

	"github.com/akmonengine/feather2d/bounding"
	"github.com/akmonengine/feather2d/math2d"
	"github.com/akmonengine/feather2d/memo"
	"github.com/akmonengine/feather2d/shape"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func loadStack(t *testing.T) *Scene {
	t.Helper()
	f, err := os.Open("testdata/stack.yaml")
	require.NoError(t, err)
	defer f.Close()

	s, err := Load(f)
	require.NoError(t, err)
	return s
}

func buildStack(t *testing.T) []Body {
	t.Helper()
	bodies, err := loadStack(t).Build(zap.NewNop())
	require.NoError(t, err)
	return bodies
}

func requireVec2(t *testing.T, want, got mgl32.Vec2) {
	t.Helper()
	require.InDelta(t, want.X(), got.X(), 1e-5, "x of %v", got)
	require.InDelta(t, want.Y(), got.Y(), 1e-5, "y of %v", got)
}

func requireAABB(t *testing.T, mins, maxs mgl32.Vec2, got bounding.AABB) {
	t.Helper()
	requireVec2(t, mins, got.Mins)
	requireVec2(t, maxs, got.Maxs)
}

func TestLoad(t *testing.T) {
	t.Run("stack", func(t *testing.T) {
		s := loadStack(t)
		require.Equal(t, float32(2), s.Density)
		require.Len(t, s.Bodies, 4)

		require.Equal(t, "ground", s.Bodies[0].ID)
		require.Equal(t, [2]float32{5, 0.5}, s.Bodies[0].Shape.HalfExtents)
		require.NotNil(t, s.Bodies[1].Motion)
		require.Equal(t, [2]float32{1, 0.9}, s.Bodies[1].Motion.Position)
		require.True(t, s.Bodies[2].Sensor)
		require.Len(t, s.Bodies[3].Shape.Parts, 3)
	})

	t.Run("empty", func(t *testing.T) {
		_, err := Load(strings.NewReader(""))
		require.ErrorIs(t, err, ErrEmptyScene)
	})

	t.Run("unknown field", func(t *testing.T) {
		_, err := Load(strings.NewReader("bodies:\n  - shape: {type: ball, radius: 1}\n    color: red\n"))
		require.Error(t, err)
	})

	t.Run("malformed", func(t *testing.T) {
		_, err := Load(strings.NewReader("bodies: [\n"))
		require.Error(t, err)
	})
}

func TestBuild(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	bodies, err := loadStack(t).Build(zap.New(core))
	require.NoError(t, err)
	require.Len(t, bodies, 4)

	t.Run("shapes", func(t *testing.T) {
		ground, ok := shape.AsCuboid(bodies[0].Shape)
		require.True(t, ok)
		require.Equal(t, mgl32.Vec2{5, 0.5}, ground.HalfExtents)

		ball, ok := shape.AsBall(bodies[2].Shape)
		require.True(t, ok)
		require.Equal(t, float32(0.8), ball.Radius)

		compound, ok := shape.AsCompound(bodies[3].Shape)
		require.True(t, ok)
		require.Equal(t, 3, compound.Len())
		requireVec2(t, mgl32.Vec2{-3, 0}, compound.Part(0).Pose.Translation)
		require.Equal(t, math2d.Identity(), compound.Part(1).Pose)
	})

	t.Run("poses", func(t *testing.T) {
		require.Equal(t, bodies[0].Pose, bodies[0].EndPose)
		requireVec2(t, mgl32.Vec2{0, 0.9}, bodies[1].Pose.Translation)
		requireVec2(t, mgl32.Vec2{1, 0.9}, bodies[1].EndPose.Translation)
		require.InDelta(t, 1.5707964, bodies[3].Pose.Rotation.Angle(), 1e-6)
	})

	t.Run("densities", func(t *testing.T) {
		require.Equal(t, []float32{2, 2, 1, 2}, []float32{
			bodies[0].Density, bodies[1].Density, bodies[2].Density, bodies[3].Density,
		})
	})

	t.Run("generated id", func(t *testing.T) {
		_, err := uuid.Parse(bodies[2].ID)
		require.NoError(t, err)
		require.Equal(t, 1, logs.FilterMessage("generated body id").Len())
		require.Equal(t, 1, logs.FilterMessage("scene built").Len())
	})

	t.Run("collider", func(t *testing.T) {
		c := bodies[2].Collider()
		require.Equal(t, bodies[2].ID, c.ID)
		require.Equal(t, bodies[2].Pose, c.Pose)
		require.True(t, c.Sensor)
	})
}

func TestBuild_DefaultDensity(t *testing.T) {
	s, err := Load(strings.NewReader("bodies:\n  - shape: {type: ball, radius: 1}\n"))
	require.NoError(t, err)

	bodies, err := s.Build(nil)
	require.NoError(t, err)
	require.Len(t, bodies, 1)
	require.Equal(t, float32(1), bodies[0].Density)
}

func TestBuild_Errors(t *testing.T) {
	for _, tc := range []struct {
		name string
		yaml string
		err  error
	}{
		{
			name: "unknown shape type",
			yaml: "bodies:\n  - shape: {type: capsule, radius: 1}\n",
			err:  ErrUnknownShape,
		},
		{
			name: "degenerate cuboid",
			yaml: "bodies:\n  - shape: {type: cuboid, half_extents: [0, 1]}\n",
			err:  ErrInvalidShape,
		},
		{
			name: "negative radius",
			yaml: "bodies:\n  - shape: {type: ball, radius: -1}\n",
			err:  shape.ErrDegenerateShape,
		},
		{
			name: "empty compound",
			yaml: "bodies:\n  - shape: {type: compound}\n",
			err:  shape.ErrEmptyCompound,
		},
		{
			name: "nested compound",
			yaml: "bodies:\n  - shape:\n      type: compound\n      parts:\n        - shape: {type: compound}\n",
			err:  ErrInvalidShape,
		},
		{
			name: "unknown part shape",
			yaml: "bodies:\n  - shape:\n      type: compound\n      parts:\n        - shape: {type: hull}\n",
			err:  ErrUnknownShape,
		},
		{
			name: "negative density",
			yaml: "bodies:\n  - density: -1\n    shape: {type: ball, radius: 1}\n",
			err:  ErrInvalidBody,
		},
		{
			name: "duplicate ids",
			yaml: "bodies:\n  - id: a\n    shape: {type: ball, radius: 1}\n  - id: a\n    shape: {type: ball, radius: 2}\n",
			err:  ErrDuplicateID,
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			s, err := Load(strings.NewReader(tc.yaml))
			require.NoError(t, err)

			_, err = s.Build(zap.NewNop())
			require.ErrorIs(t, err, tc.err)
		})
	}
}

func TestShapeTypes(t *testing.T) {
	require.Equal(t, []string{"ball", "compound", "cuboid"}, ShapeTypes())
}

func TestEvaluate(t *testing.T) {
	bodies := buildStack(t)

	summaries, err := Evaluate(context.Background(), bodies, nil, 3)
	require.NoError(t, err)
	require.Len(t, summaries, len(bodies))

	t.Run("order", func(t *testing.T) {
		for i, s := range summaries {
			require.Equal(t, bodies[i].ID, s.ID)
		}
		require.Equal(t, []string{"cuboid", "cuboid", "ball", "compound"}, []string{
			summaries[0].Type, summaries[1].Type, summaries[2].Type, summaries[3].Type,
		})
	})

	t.Run("ground", func(t *testing.T) {
		ground := summaries[0]
		requireAABB(t, mgl32.Vec2{-5, -0.5}, mgl32.Vec2{5, 0.5}, ground.AABB)
		require.Equal(t, ground.AABB, ground.SweptAABB)
		require.InDelta(t, 20, ground.Mass.Mass, 1e-4)
		require.True(t, ground.Convex)
		require.Equal(t, float32(0.5), ground.CCDThickness)
	})

	t.Run("moving crate", func(t *testing.T) {
		requireAABB(t, mgl32.Vec2{-0.5, 0.4}, mgl32.Vec2{1.5, 1.4}, summaries[1].SweptAABB)
	})

	t.Run("sensor ball", func(t *testing.T) {
		ball := summaries[2]
		require.True(t, ball.Sensor)
		requireVec2(t, mgl32.Vec2{3, 1.2}, ball.BoundingSphere.Center)
		require.InDelta(t, 0.8, ball.BoundingSphere.Radius, 1e-6)
	})

	t.Run("rotated dumbbell", func(t *testing.T) {
		dumbbell := summaries[3]
		requireAABB(t, mgl32.Vec2{-1, 2}, mgl32.Vec2{1, 10}, dumbbell.AABB)
		require.False(t, dumbbell.Convex)
		require.Greater(t, dumbbell.Mass.Mass, float32(0))
	})
}

func TestEvaluate_Cache(t *testing.T) {
	bodies := buildStack(t)
	cache := memo.New()

	direct, err := Evaluate(context.Background(), bodies, nil, 2)
	require.NoError(t, err)
	cached, err := Evaluate(context.Background(), bodies, cache, 2)
	require.NoError(t, err)
	require.Equal(t, direct, cached)
	require.Positive(t, cache.Len())

	again, err := Evaluate(context.Background(), bodies, cache, 2)
	require.NoError(t, err)
	require.Equal(t, cached, again)
	require.Positive(t, cache.Stats().Hits)
}

func TestEvaluate_Errors(t *testing.T) {
	bodies := buildStack(t)

	t.Run("canceled", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := Evaluate(ctx, bodies, nil, 2)
		require.ErrorIs(t, err, context.Canceled)
	})

	t.Run("missing shape", func(t *testing.T) {
		_, err := Evaluate(context.Background(), []Body{{ID: "ghost"}}, nil, 1)
		require.ErrorIs(t, err, ErrInvalidBody)
	})

	t.Run("no bodies", func(t *testing.T) {
		summaries, err := Evaluate(context.Background(), nil, nil, 4)
		require.NoError(t, err)
		require.Empty(t, summaries)
	})
}
