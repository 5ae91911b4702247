// Package xr is the query surface over the XR runtime's tracker render
// models.
package xr

import (
	"fmt"

	"xrmodels/internal/geometry"
)

// DeviceID identifies a tracking device for the lifetime of the session.
type DeviceID uint32

// State is the availability of a device's render model.
type State uint8

const (
	// NotAvailable means the runtime has no model yet; poll again later.
	NotAvailable State = iota
	Available
	// Failed means the runtime will never provide a model for this device.
	Failed
)

func (s State) String() string {
	switch s {
	case NotAvailable:
		return "not_available"
	case Available:
		return "available"
	case Failed:
		return "failed"
	default:
		return fmt.Sprintf("state(%d)", uint8(s))
	}
}

// TexturePayload is raw RGBA8 pixel data.
type TexturePayload struct {
	Data   []byte
	Width  uint32
	Height uint32
}

// SubmodelPayload is one renderable part of a device model as the runtime
// reports it. Indices address Vertices; triangles are consecutive triples.
type SubmodelPayload struct {
	Name     *string
	Vertices []geometry.Vertex
	Indices  []uint32
	Texture  *TexturePayload
}

// LoadStatus is the answer to a single model poll.
type LoadStatus struct {
	State     State
	Submodels []SubmodelPayload
	Err       error
}

// Backend answers render model polls. Implementations must not block.
type Backend interface {
	TrackerModels(id DeviceID) LoadStatus
}

// BackendFunc adapts a plain function to Backend.
type BackendFunc func(id DeviceID) LoadStatus

func (f BackendFunc) TrackerModels(id DeviceID) LoadStatus {
	return f(id)
}
