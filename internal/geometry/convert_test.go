package geometry

import (
	"errors"
	"reflect"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func vert(n float32) Vertex {
	return Vertex{
		Position: mgl32.Vec3{n, n, n},
		Normal:   mgl32.Vec3{0, 0, 1},
		Tangent:  mgl32.Vec3{1, 0, 0},
		TexCoord: mgl32.Vec2{n, -n},
	}
}

func TestExpandPreservesIndexOrder(t *testing.T) {
	v0, v1, v2 := vert(0), vert(1), vert(2)

	got := Expand([]Vertex{v0, v1, v2}, []uint32{2, 0, 1})
	want := []Vertex{v2, v0, v1}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Expand = %+v, want %+v", got, want)
	}
}

func TestExpandRepeatsSharedVertices(t *testing.T) {
	quad := []Vertex{vert(0), vert(1), vert(2), vert(3)}
	got := Expand(quad, []uint32{0, 1, 2, 2, 3, 0})

	if len(got) != 6 {
		t.Fatalf("expected 6 vertices, got %d", len(got))
	}
	if got[2] != got[3] || got[0] != got[5] {
		t.Errorf("shared vertices were not repeated: %+v", got)
	}
}

func TestExpandEmpty(t *testing.T) {
	if got := Expand(nil, nil); len(got) != 0 {
		t.Fatalf("expected empty stream, got %d vertices", len(got))
	}
}

func TestExpandOutOfRangePanics(t *testing.T) {
	defer func() {
		r := recover()
		if r == nil {
			t.Fatal("expected panic for out-of-range index")
		}
		err, ok := r.(error)
		if !ok {
			t.Fatalf("panic value %T is not an error", r)
		}
		var idxErr *IndexOutOfRangeError
		if !errors.As(err, &idxErr) {
			t.Fatalf("expected *IndexOutOfRangeError, got %T", err)
		}
		if idxErr.Index != 5 || idxErr.Position != 1 || idxErr.VertexCount != 2 {
			t.Errorf("unexpected error fields: %+v", idxErr)
		}
	}()

	Expand([]Vertex{vert(0), vert(1)}, []uint32{0, 5})
}

func TestMeshDataBounds(t *testing.T) {
	m := NewMeshData([]Vertex{
		{Position: mgl32.Vec3{-1, 2, 0}},
		{Position: mgl32.Vec3{3, -4, 5}},
	}, []uint32{0, 1, 1})

	if m.VertexCount() != 3 || m.TriangleCount() != 1 {
		t.Fatalf("unexpected counts: %d vertices, %d triangles", m.VertexCount(), m.TriangleCount())
	}
	want := Extents3D{Min: mgl32.Vec3{-1, -4, 0}, Max: mgl32.Vec3{3, 2, 5}}
	if got := m.Bounds(); got != want {
		t.Errorf("Bounds = %+v, want %+v", got, want)
	}
}
