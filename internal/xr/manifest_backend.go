package xr

import (
	"errors"
	"fmt"
	"sync"

	"github.com/go-gl/mathgl/mgl32"

	"xrmodels/internal/geometry"
	"xrmodels/internal/loader/schema"
)

var (
	ErrUnknownDevice = errors.New("unknown device")
	ErrModelFailed   = errors.New("render model failed to load")
)

// ManifestBackend simulates a runtime from a device manifest. Each device
// reports NotAvailable for its first AvailableAfter polls.
type ManifestBackend struct {
	mu      sync.Mutex
	devices map[DeviceID]*simDevice
}

type simDevice struct {
	availableAfter int
	fail           bool
	submodels      []SubmodelPayload
	polls          int
}

// NewManifestBackend converts manifest devices into simulated devices.
func NewManifestBackend(m schema.Manifest) (*ManifestBackend, error) {
	b := &ManifestBackend{devices: make(map[DeviceID]*simDevice, len(m.Devices))}
	for _, d := range m.Devices {
		id := DeviceID(d.ID)
		if _, dup := b.devices[id]; dup {
			return nil, fmt.Errorf("%w: duplicate device id %d", schema.ErrInvalidManifest, d.ID)
		}
		submodels, err := convertSubmodels(d.Submodels)
		if err != nil {
			return nil, fmt.Errorf("device %d: %w", d.ID, err)
		}
		b.devices[id] = &simDevice{
			availableAfter: d.AvailableAfter,
			fail:           d.Fail,
			submodels:      submodels,
		}
	}
	return b, nil
}

// TrackerModels implements Backend.
func (b *ManifestBackend) TrackerModels(id DeviceID) LoadStatus {
	b.mu.Lock()
	defer b.mu.Unlock()

	dev, ok := b.devices[id]
	if !ok {
		return LoadStatus{State: Failed, Err: fmt.Errorf("%w: %d", ErrUnknownDevice, id)}
	}
	dev.polls++
	if dev.polls <= dev.availableAfter {
		return LoadStatus{State: NotAvailable}
	}
	if dev.fail {
		return LoadStatus{State: Failed, Err: fmt.Errorf("%w: device %d", ErrModelFailed, id)}
	}
	return LoadStatus{State: Available, Submodels: dev.submodels}
}

// Polls returns how many times id has been polled.
func (b *ManifestBackend) Polls(id DeviceID) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	if dev, ok := b.devices[id]; ok {
		return dev.polls
	}
	return 0
}

func convertSubmodels(in []schema.Submodel) ([]SubmodelPayload, error) {
	out := make([]SubmodelPayload, 0, len(in))
	for i, sm := range in {
		p := SubmodelPayload{
			Name:     sm.Name,
			Vertices: make([]geometry.Vertex, len(sm.Vertices)),
			Indices:  sm.Indices,
		}
		for j, v := range sm.Vertices {
			p.Vertices[j] = geometry.Vertex{
				Position: mgl32.Vec3(v.Position),
				Normal:   mgl32.Vec3(v.Normal),
				Tangent:  mgl32.Vec3(v.Tangent),
				TexCoord: mgl32.Vec2(v.TexCoord),
			}
		}
		if sm.Texture != nil {
			data, err := sm.Texture.Bytes()
			if err != nil {
				return nil, fmt.Errorf("submodel %d: %w", i, err)
			}
			p.Texture = &TexturePayload{Data: data, Width: sm.Texture.Width, Height: sm.Texture.Height}
		}
		out = append(out, p)
	}
	return out, nil
}
