// Package schema holds the device manifest consumed by the simulated XR
// backend.
package schema

import (
	"errors"
	"fmt"
)

var ErrInvalidManifest = errors.New("invalid manifest")

// Manifest lists the tracking devices a simulated backend exposes.
type Manifest struct {
	Devices []Device `yaml:"devices"`
}

// Device describes one tracking device and the render model it reports.
type Device struct {
	ID      uint32 `yaml:"id"`
	Name    string `yaml:"name"`
	Enabled *bool  `yaml:"enabled"`
	// AvailableAfter is the number of polls answered with "not available"
	// before the model is reported.
	AvailableAfter int        `yaml:"available_after"`
	Fail           bool       `yaml:"fail"`
	Submodels      []Submodel `yaml:"submodels"`
}

// IsEnabled reports whether the device should get a model. Defaults to true.
func (d Device) IsEnabled() bool {
	return d.Enabled == nil || *d.Enabled
}

// Submodel is one renderable part of a device model.
type Submodel struct {
	Name     *string  `yaml:"name"`
	Vertices []Vertex `yaml:"vertices"`
	Indices  []uint32 `yaml:"indices"`
	Texture  *Texture `yaml:"texture"`
}

type Vec2 [2]float32
type Vec3 [3]float32

// Vertex is a manifest vertex; missing attributes are zero.
type Vertex struct {
	Position Vec3 `yaml:"position"`
	Normal   Vec3 `yaml:"normal"`
	Tangent  Vec3 `yaml:"tangent"`
	TexCoord Vec2 `yaml:"texcoord"`
}

// Texture is an RGBA8 texture given either as a solid fill colour or as
// explicit pixel bytes.
type Texture struct {
	Width  uint32 `yaml:"width"`
	Height uint32 `yaml:"height"`
	Fill   []int  `yaml:"fill"`
	Pixels []int  `yaml:"pixels"`
}

// Bytes expands the texture into raw RGBA8 bytes.
func (t Texture) Bytes() ([]byte, error) {
	if len(t.Fill) > 0 && len(t.Pixels) > 0 {
		return nil, fmt.Errorf("%w: texture has both fill and pixels", ErrInvalidManifest)
	}
	if len(t.Fill) > 0 {
		if len(t.Fill) != 4 {
			return nil, fmt.Errorf("%w: fill needs 4 channels, got %d", ErrInvalidManifest, len(t.Fill))
		}
		px, err := toBytes(t.Fill)
		if err != nil {
			return nil, err
		}
		n := int(t.Width) * int(t.Height)
		out := make([]byte, 0, n*4)
		for i := 0; i < n; i++ {
			out = append(out, px...)
		}
		return out, nil
	}
	return toBytes(t.Pixels)
}

func toBytes(values []int) ([]byte, error) {
	out := make([]byte, len(values))
	for i, v := range values {
		if v < 0 || v > 255 {
			return nil, fmt.Errorf("%w: channel value %d out of range 0-255", ErrInvalidManifest, v)
		}
		out[i] = byte(v)
	}
	return out, nil
}
