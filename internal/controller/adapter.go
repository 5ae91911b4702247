package controller

import (
	"github.com/mlange-42/ark/ecs"

	"xrmodels/internal/controller/components"
	"xrmodels/internal/xr"
)

// DeviceAdapter provides a read-only view of a single device entity.
// It acts as a facade, hiding the underlying ECS component lookups.
type DeviceAdapter struct {
	entity ecs.Entity
	world  *ecs.World

	devices *ecs.Map1[components.TrackingDevice]
	enabled *ecs.Map1[components.ModelEnabled]
	info    *ecs.Map1[components.ModelInfo]
	failed  *ecs.Map1[components.ModelFailed]
}

// NewDeviceAdapter creates a new adapter for a given entity.
func NewDeviceAdapter(world *ecs.World, entity ecs.Entity) DeviceAdapter {
	return DeviceAdapter{
		entity:  entity,
		world:   world,
		devices: ecs.NewMap1[components.TrackingDevice](world),
		enabled: ecs.NewMap1[components.ModelEnabled](world),
		info:    ecs.NewMap1[components.ModelInfo](world),
		failed:  ecs.NewMap1[components.ModelFailed](world),
	}
}

// IsAlive checks if the underlying entity still exists.
func (d DeviceAdapter) IsAlive() bool {
	return d.world.Alive(d.entity)
}

// Entity returns the wrapped entity.
func (d DeviceAdapter) Entity() ecs.Entity { return d.entity }

// ID returns the device id, or 0 for a dead or non-device entity.
func (d DeviceAdapter) ID() xr.DeviceID {
	if !d.IsAlive() || !d.devices.HasAll(d.entity) {
		return 0
	}
	return d.devices.Get(d.entity).ID
}

func (d DeviceAdapter) Enabled() bool {
	return d.IsAlive() && d.enabled.HasAll(d.entity)
}

// HasModel reports whether the device's render model was spawned.
func (d DeviceAdapter) HasModel() bool {
	return d.IsAlive() && d.info.HasAll(d.entity)
}

// Submodels returns the spawned submodel names in spawn order.
func (d DeviceAdapter) Submodels() []string {
	if !d.HasModel() {
		return nil
	}
	return d.info.Get(d.entity).Names()
}

// FailureReason returns why the device's model was given up on, if it was.
func (d DeviceAdapter) FailureReason() (string, bool) {
	if !d.IsAlive() || !d.failed.HasAll(d.entity) {
		return "", false
	}
	return d.failed.Get(d.entity).Reason, true
}
