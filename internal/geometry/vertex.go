// Package geometry turns vendor vertex/index payloads into renderer-ready
// vertex streams.
package geometry

import "github.com/go-gl/mathgl/mgl32"

// Vertex is a single position/normal/tangent/texcoord vertex.
type Vertex struct {
	Position mgl32.Vec3
	Normal   mgl32.Vec3
	Tangent  mgl32.Vec3
	TexCoord mgl32.Vec2
}

// Extents3D is an axis aligned bounding box.
type Extents3D struct {
	Min mgl32.Vec3
	Max mgl32.Vec3
}

// Center returns the midpoint of the box.
func (e Extents3D) Center() mgl32.Vec3 {
	return e.Min.Add(e.Max).Mul(0.5)
}
