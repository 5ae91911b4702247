package controller

import (
	"fmt"

	"github.com/mlange-42/ark/ecs"

	"xrmodels/internal/controller/components"
	"xrmodels/internal/loader/schema"
	"xrmodels/internal/xr"
)

// DeviceWorld owns the tracking device entities of an ECS world.
type DeviceWorld struct {
	World   *ecs.World
	Devices *ecs.Map1[components.TrackingDevice]
	Enabled *ecs.Map1[components.ModelEnabled]

	byID map[xr.DeviceID]ecs.Entity
}

// NewDeviceWorld creates one entity per manifest device. Devices enabled in
// the manifest also get ModelEnabled.
func NewDeviceWorld(manifest *schema.Manifest, world *ecs.World) (*DeviceWorld, error) {
	w := &DeviceWorld{
		World:   world,
		Devices: ecs.NewMap1[components.TrackingDevice](world),
		Enabled: ecs.NewMap1[components.ModelEnabled](world),
		byID:    make(map[xr.DeviceID]ecs.Entity),
	}
	if manifest == nil {
		return w, nil
	}
	for _, d := range manifest.Devices {
		if _, err := w.AddDevice(xr.DeviceID(d.ID), d.IsEnabled()); err != nil {
			return nil, fmt.Errorf("failed to create entity for device %d: %w", d.ID, err)
		}
	}
	return w, nil
}

// AddDevice creates a tracking device entity. Must not be called mid-tick.
func (w *DeviceWorld) AddDevice(id xr.DeviceID, enabled bool) (ecs.Entity, error) {
	if _, exists := w.byID[id]; exists {
		return ecs.Entity{}, fmt.Errorf("device %d already exists", id)
	}
	e := w.Devices.NewEntity(&components.TrackingDevice{ID: id})
	if enabled {
		w.Enabled.Add(e, &components.ModelEnabled{})
	}
	w.byID[id] = e
	return e, nil
}

// Entity returns the entity of device id.
func (w *DeviceWorld) Entity(id xr.DeviceID) (ecs.Entity, bool) {
	e, ok := w.byID[id]
	if !ok || !w.World.Alive(e) {
		return ecs.Entity{}, false
	}
	return e, true
}

// SetEnabled applies the application's enable policy to a device. A device
// that already has its model keeps it.
func (w *DeviceWorld) SetEnabled(id xr.DeviceID, enabled bool) error {
	e, ok := w.Entity(id)
	if !ok {
		return fmt.Errorf("device %d not found", id)
	}
	has := w.Enabled.HasAll(e)
	switch {
	case enabled && !has:
		w.Enabled.Add(e, &components.ModelEnabled{})
	case !enabled && has:
		w.Enabled.Remove(e)
	}
	return nil
}

// Len returns the number of known devices.
func (w *DeviceWorld) Len() int { return len(w.byID) }
