// Package feature identifies the boundary features (faces and vertices) of a
// shape and carries the polygonal features used to build contact manifolds.
package feature

import (
	"fmt"

	"github.com/akmonengine/feather2d/math2d"
	"github.com/go-gl/mathgl/mgl32"
)

// Kind tells which kind of boundary element an ID refers to.
type Kind uint8

const (
	KindUnknown Kind = iota
	KindVertex
	KindFace
)

// ID identifies a face or a vertex of a shape. The zero value is Unknown.
type ID struct {
	Kind  Kind
	Index uint32
}

// Unknown is the ID of a feature that could not be determined.
var Unknown = ID{}

// Vertex returns the ID of the vertex with the given index.
func Vertex(index uint32) ID {
	return ID{Kind: KindVertex, Index: index}
}

// Face returns the ID of the face with the given index.
func Face(index uint32) ID {
	return ID{Kind: KindFace, Index: index}
}

// IsVertex reports whether id refers to a vertex.
func (id ID) IsVertex() bool { return id.Kind == KindVertex }

// IsFace reports whether id refers to a face.
func (id ID) IsFace() bool { return id.Kind == KindFace }

func (id ID) String() string {
	switch id.Kind {
	case KindVertex:
		return fmt.Sprintf("Vertex(%d)", id.Index)
	case KindFace:
		return fmt.Sprintf("Face(%d)", id.Index)
	default:
		return "Unknown"
	}
}

// Polygonal is a face or a vertex of a shape boundary: one or two vertices with
// their ids, and the id of the whole feature.
type Polygonal struct {
	Vertices    [2]mgl32.Vec2
	VIDs        [2]uint32
	FID         uint32
	NumVertices int
}

// Transform maps the vertices of f by iso and returns the result.
func (f Polygonal) Transform(iso math2d.Isometry) Polygonal {
	for i := 0; i < f.NumVertices; i++ {
		f.Vertices[i] = iso.TransformPoint(f.Vertices[i])
	}
	return f
}

// Translate moves every vertex of f by offset.
func (f Polygonal) Translate(offset mgl32.Vec2) Polygonal {
	for i := 0; i < f.NumVertices; i++ {
		f.Vertices[i] = f.Vertices[i].Add(offset)
	}
	return f
}

// IsEdge reports whether f has two vertices.
func (f Polygonal) IsEdge() bool {
	return f.NumVertices == 2
}
