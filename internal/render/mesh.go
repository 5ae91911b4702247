package render

import (
	"errors"

	"github.com/go-gl/mathgl/mgl32"

	"xrmodels/internal/geometry"
)

// Mesh is a resolved, non-indexed mesh resource.
type Mesh struct {
	Vertices []geometry.Vertex
	Extents  geometry.Extents3D
	Center   mgl32.Vec3
}

// VertexCount returns the number of vertices.
func (m Mesh) VertexCount() int { return len(m.Vertices) }

// ProcessMesh builds the Mesh resource from an expanded vertex stream.
func ProcessMesh(data geometry.MeshData) (Mesh, error) {
	if len(data.Vertices) == 0 {
		return Mesh{}, errors.New("mesh has no vertices")
	}
	ext := data.Bounds()
	return Mesh{
		Vertices: data.Vertices,
		Extents:  ext,
		Center:   ext.Center(),
	}, nil
}
