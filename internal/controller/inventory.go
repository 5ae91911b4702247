package controller

import (
	"sort"

	"github.com/mlange-42/ark/ecs"

	"xrmodels/internal/controller/components"
	"xrmodels/internal/xr"
)

// DeviceModel is one device's spawned render model.
type DeviceModel struct {
	Entity    ecs.Entity
	ID        xr.DeviceID
	Submodels []string
}

// FailedDevice is a device whose model was given up on.
type FailedDevice struct {
	Entity ecs.Entity
	ID     xr.DeviceID
	Reason string
}

// Inventory lists the devices that carry a model record and those marked
// failed, both sorted by device id.
type Inventory struct {
	Models []DeviceModel
	Failed []FailedDevice
}

// TakeInventory enumerates model records in w. It must not run mid-tick.
func TakeInventory(w *ecs.World) Inventory {
	var inv Inventory

	models := ecs.NewFilter2[components.TrackingDevice, components.ModelInfo](w).Query()
	for models.Next() {
		dev, info := models.Get()
		inv.Models = append(inv.Models, DeviceModel{
			Entity:    models.Entity(),
			ID:        dev.ID,
			Submodels: info.Names(),
		})
	}

	failed := ecs.NewFilter2[components.TrackingDevice, components.ModelFailed](w).Query()
	for failed.Next() {
		dev, f := failed.Get()
		inv.Failed = append(inv.Failed, FailedDevice{Entity: failed.Entity(), ID: dev.ID, Reason: f.Reason})
	}

	sort.Slice(inv.Models, func(i, j int) bool { return inv.Models[i].ID < inv.Models[j].ID })
	sort.Slice(inv.Failed, func(i, j int) bool { return inv.Failed[i].ID < inv.Failed[j].ID })
	return inv
}

// SubmodelCount returns the total number of spawned submodels.
func (inv Inventory) SubmodelCount() int {
	n := 0
	for _, m := range inv.Models {
		n += len(m.Submodels)
	}
	return n
}
