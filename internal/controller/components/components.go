// Package components defines the ECS components for tracking devices and the
// render model entities spawned under them.
package components

import (
	"github.com/mlange-42/ark/ecs"

	"xrmodels/internal/assets"
	"xrmodels/internal/render"
	"xrmodels/internal/xr"
)

// TrackingDevice marks an entity as a physical tracker known to the runtime.
type TrackingDevice struct {
	ID xr.DeviceID
}

// ModelEnabled opts a device into render model spawning.
type ModelEnabled struct{}

// ComponentModel is one spawned submodel of a device.
type ComponentModel struct {
	Name    string
	Mesh    assets.Handle[render.Mesh]
	Texture assets.Handle[render.Texture]
}

// ModelInfo records the submodels spawned for a device. It is attached at
// most once; its presence stops further polling.
type ModelInfo struct {
	ComponentModels []ComponentModel
}

// Names returns the submodel names in spawn order.
func (m *ModelInfo) Names() []string {
	if m == nil {
		return nil
	}
	names := make([]string, len(m.ComponentModels))
	for i, cm := range m.ComponentModels {
		names[i] = cm.Name
	}
	return names
}

// ModelFailed marks a device whose model will not be built.
type ModelFailed struct {
	Reason string
}

type Name string

// Parent links a spawned entity to the device it belongs to.
type Parent struct {
	Entity ecs.Entity
}

type Transform struct {
	render.Transform
}

type Mesh struct {
	Handle assets.Handle[render.Mesh]
}

type Material struct {
	render.Material
}
