package epa

import (
	"math"
	"testing"

	"github.com/akmonengine/feather2d/feature"
	"github.com/akmonengine/feather2d/math2d"
	"github.com/akmonengine/feather2d/shape"
	"github.com/go-gl/mathgl/mgl32"
)

func edge(a, b mgl32.Vec2) feature.Polygonal {
	return feature.Polygonal{Vertices: [2]mgl32.Vec2{a, b}, NumVertices: 2}
}

func vertex(v mgl32.Vec2) feature.Polygonal {
	return feature.Polygonal{Vertices: [2]mgl32.Vec2{v}, NumVertices: 1}
}

func TestTangentRange(t *testing.T) {
	tangent := mgl32.Vec2{0, 1}

	lo, hi := tangentRange(edge(mgl32.Vec2{1, 2}, mgl32.Vec2{1, -3}), tangent)
	if lo != -3 || hi != 2 {
		t.Errorf("tangentRange(edge) = [%v, %v], want [-3, 2]", lo, hi)
	}

	lo, hi = tangentRange(vertex(mgl32.Vec2{4, 0.5}), tangent)
	if lo != 0.5 || hi != 0.5 {
		t.Errorf("tangentRange(vertex) = [%v, %v], want [0.5, 0.5]", lo, hi)
	}
}

func TestPointAt(t *testing.T) {
	tangent := mgl32.Vec2{1, 0}
	down := mgl32.Vec2{0, -1}

	tests := []struct {
		name string
		f    feature.Polygonal
		s    float32
		want mgl32.Vec2
	}{
		{"middle of edge", edge(mgl32.Vec2{-2, 1}, mgl32.Vec2{2, 1}), 1, mgl32.Vec2{1, 1}},
		{"clamped to the end", edge(mgl32.Vec2{-2, 1}, mgl32.Vec2{2, 1}), 5, mgl32.Vec2{2, 1}},
		{"sloped edge", edge(mgl32.Vec2{0, 0}, mgl32.Vec2{2, 2}), 0.5, mgl32.Vec2{0.5, 0.5}},
		{"vertex", vertex(mgl32.Vec2{3, 3}), 0, mgl32.Vec2{3, 3}},
		{"edge along the normal", edge(mgl32.Vec2{1, 1}, mgl32.Vec2{1, -1}), 1, mgl32.Vec2{1, -1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := pointAt(tt.f, tangent, tt.s, down); !vec2ApproxEqual(got, tt.want, 1e-6) {
				t.Errorf("pointAt() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestGenerateManifold(t *testing.T) {
	t.Run("box resting on ground", func(t *testing.T) {
		ground := shape.Cuboid{HalfExtents: mgl32.Vec2{5, 0.5}}
		box := shape.Cuboid{HalfExtents: mgl32.Vec2{0.5, 0.5}}

		points := GenerateManifold(ground, 0, at(0, 0), box, 0, at(2, 0.875), mgl32.Vec2{0, 1}, 0.125)
		if len(points) != 2 {
			t.Fatalf("expected 2 points, got %v", points)
		}
		lo, hi := points[0].Position.X(), points[1].Position.X()
		if lo > hi {
			lo, hi = hi, lo
		}
		if mgl32.Abs(lo-1.5) > 1e-5 || mgl32.Abs(hi-2.5) > 1e-5 {
			t.Errorf("contact x = [%v, %v], want 1.5 and 2.5", lo, hi)
		}
		for _, p := range points {
			if p.Penetration != 0.125 {
				t.Errorf("penetration = %v, want 0.125", p.Penetration)
			}
			if p.Position.Y() != 0.4375 {
				t.Errorf("contact y = %v, want halfway between the surfaces", p.Position.Y())
			}
			if p.FeatureA < 0b11_00_00 || p.FeatureB < 0b11_00_00 {
				t.Errorf("features = %v, %v, want face ids", p.FeatureA, p.FeatureB)
			}
		}
	})

	t.Run("box hanging over the edge", func(t *testing.T) {
		ground := shape.Cuboid{HalfExtents: mgl32.Vec2{1, 1}}
		box := shape.Cuboid{HalfExtents: mgl32.Vec2{1, 1}}

		points := GenerateManifold(ground, 0, at(0, 0), box, 0, at(1.5, 1.75), mgl32.Vec2{0, 1}, 0.25)
		if len(points) != 2 {
			t.Fatalf("expected 2 points, got %v", points)
		}
		for _, p := range points {
			if x := p.Position.X(); x < 0.5-1e-6 || x > 1+1e-6 {
				t.Errorf("contact x = %v, want it clipped to the overlap [0.5, 1]", x)
			}
		}
	})

	t.Run("rotated box corner", func(t *testing.T) {
		box := shape.Cuboid{HalfExtents: mgl32.Vec2{1, 1}}
		poseB := math2d.NewIsometry(mgl32.Vec2{2.3, 0}, math.Pi/4)
		depth := float32(1 - (2.3 - math.Sqrt2))

		points := GenerateManifold(box, 0, at(0, 0), box, 0, poseB, mgl32.Vec2{1, 0}, depth)
		if len(points) != 1 {
			t.Fatalf("expected 1 point, got %v", points)
		}
		if mgl32.Abs(points[0].Penetration-depth) > 1e-4 {
			t.Errorf("penetration = %v, want %v", points[0].Penetration, depth)
		}
		if !vec2ApproxEqual(points[0].Position, mgl32.Vec2{1 - depth/2, 0}, 1e-4) {
			t.Errorf("position = %v, want (%v, 0)", points[0].Position, 1-depth/2)
		}
	})

	t.Run("ball on box", func(t *testing.T) {
		ground := shape.Cuboid{HalfExtents: mgl32.Vec2{3, 0.5}}
		ball := shape.Ball{Radius: 0.75}

		points := GenerateManifold(ground, 0, at(0, 0), ball, 0.75, at(1, 1), mgl32.Vec2{0, 1}, 0.25)
		if len(points) != 1 {
			t.Fatalf("expected 1 point, got %v", points)
		}
		if !vec2ApproxEqual(points[0].Position, mgl32.Vec2{1, 0.375}, 1e-5) {
			t.Errorf("position = %v, want (1, 0.375)", points[0].Position)
		}
		if points[0].Penetration != 0.25 {
			t.Errorf("penetration = %v, want 0.25", points[0].Penetration)
		}
	})

	t.Run("two balls", func(t *testing.T) {
		ball := shape.Ball{Radius: 1}

		points := GenerateManifold(ball, 1, at(0, 0), ball, 1, at(1.5, 0), mgl32.Vec2{1, 0}, 0.5)
		if len(points) != 1 {
			t.Fatalf("expected 1 point, got %v", points)
		}
		if !vec2ApproxEqual(points[0].Position, mgl32.Vec2{0.75, 0}, 1e-6) || points[0].Penetration != 0.5 {
			t.Errorf("point = %+v, want (0.75, 0) with penetration 0.5", points[0])
		}
	})

	t.Run("misaligned vertices use the deepest points", func(t *testing.T) {
		ball := shape.Ball{Radius: 1}

		points := GenerateManifold(ball, 1, at(0, 0), ball, 1, at(1.5, 0.3), mgl32.Vec2{1, 0}, 0.4)
		if len(points) != 1 {
			t.Fatalf("expected 1 point, got %v", points)
		}
		if !vec2ApproxEqual(points[0].Position, mgl32.Vec2{0.75, 0.15}, 1e-6) || points[0].Penetration != 0.4 {
			t.Errorf("point = %+v, want (0.75, 0.15) with penetration 0.4", points[0])
		}
	})
}

func BenchmarkGenerateManifold(b *testing.B) {
	ground := shape.Cuboid{HalfExtents: mgl32.Vec2{5, 0.5}}
	box := shape.Cuboid{HalfExtents: mgl32.Vec2{0.5, 0.5}}
	poseB := math2d.NewIsometry(mgl32.Vec2{0.3, 0.9}, 0.05)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		GenerateManifold(ground, 0, at(0, 0), box, 0, poseB, mgl32.Vec2{0, 1}, 0.1)
	}
}
