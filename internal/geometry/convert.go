package geometry

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
)

// IndexOutOfRangeError is the panic value raised by Expand when an index
// references a vertex that does not exist. It marks a malformed payload.
type IndexOutOfRangeError struct {
	Position    int
	Index       uint32
	VertexCount int
}

func (e *IndexOutOfRangeError) Error() string {
	return fmt.Sprintf("index %d at position %d out of range (%d vertices)", e.Index, e.Position, e.VertexCount)
}

// MeshData is an expanded, non-indexed vertex stream.
type MeshData struct {
	Vertices []Vertex
}

// Expand dereferences indices against vertices: out[k] = vertices[indices[k]].
// Order is preserved. An out-of-range index panics with *IndexOutOfRangeError.
func Expand(vertices []Vertex, indices []uint32) []Vertex {
	out := make([]Vertex, len(indices))
	for k, i := range indices {
		if int(i) >= len(vertices) {
			panic(&IndexOutOfRangeError{Position: k, Index: i, VertexCount: len(vertices)})
		}
		out[k] = vertices[i]
	}
	return out
}

// NewMeshData expands vertices/indices into a MeshData.
func NewMeshData(vertices []Vertex, indices []uint32) MeshData {
	return MeshData{Vertices: Expand(vertices, indices)}
}

// VertexCount returns the number of vertices in the stream.
func (m MeshData) VertexCount() int {
	return len(m.Vertices)
}

// TriangleCount returns the number of complete triangles in the stream.
func (m MeshData) TriangleCount() int {
	return len(m.Vertices) / 3
}

// Bounds returns the extents of all vertex positions. The zero value is
// returned for an empty stream.
func (m MeshData) Bounds() Extents3D {
	if len(m.Vertices) == 0 {
		return Extents3D{}
	}
	first := m.Vertices[0].Position
	ext := Extents3D{Min: first, Max: first}
	for _, v := range m.Vertices[1:] {
		p := v.Position
		ext.Min = mgl32.Vec3{min(ext.Min[0], p[0]), min(ext.Min[1], p[1]), min(ext.Min[2], p[2])}
		ext.Max = mgl32.Vec3{max(ext.Max[0], p[0]), max(ext.Max[1], p[1]), max(ext.Max[2], p[2])}
	}
	return ext
}
