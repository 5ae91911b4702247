package systems

import (
	"errors"
	"fmt"
	"time"

	"github.com/mlange-42/ark/ecs"

	"xrmodels/internal/assets"
	"xrmodels/internal/controller/components"
	"xrmodels/internal/geometry"
	"xrmodels/internal/logger"
	"xrmodels/internal/render"
	"xrmodels/internal/xr"
)

// UnknownSubmodelName replaces a missing submodel name.
const UnknownSubmodelName = "unknown"

// FailurePolicy decides what happens to a device whose model cannot be built.
type FailurePolicy uint8

const (
	// FailureMark attaches ModelFailed so the device is never polled again.
	FailureMark FailurePolicy = iota
	// FailureRetry polls the device again next tick.
	FailureRetry
)

func (p FailurePolicy) String() string {
	if p == FailureRetry {
		return "retry"
	}
	return "mark"
}

// ParseFailurePolicy maps a config value to a FailurePolicy.
func ParseFailurePolicy(s string) (FailurePolicy, error) {
	switch s {
	case "mark", "":
		return FailureMark, nil
	case "retry":
		return FailureRetry, nil
	default:
		return FailureMark, &ErrUnknownFailurePolicy{Policy: s}
	}
}

// TickStats counts what one Update did.
type TickStats struct {
	Polled       int
	Instantiated int
	Pending      int
	Failed       int
}

// SubmodelName builds the child entity name "<name>-<device>-<index>".
func SubmodelName(name *string, id xr.DeviceID, index int) string {
	base := UnknownSubmodelName
	if name != nil {
		base = *name
	}
	return fmt.Sprintf("%s-%d-%d", base, id, index)
}

// TrackerModelSystem polls the runtime for the render model of every enabled
// tracking device that has none yet, and stages the spawn of its submodels.
// It never changes the world itself; CommandBufferSystem applies the result.
type TrackerModelSystem struct {
	world     *ecs.World
	backend   xr.Backend
	resources *render.Resources
	material  render.MaterialDefaults
	commands  *CommandBufferSystem
	policy    FailurePolicy
	logger    logger.Logger

	// Enabled devices without a model record or failure marker.
	filter *ecs.Filter1[components.TrackingDevice]

	last  TickStats
	ticks uint64
}

// NewTrackerModelSystem creates a TrackerModelSystem.
func NewTrackerModelSystem(
	world *ecs.World,
	backend xr.Backend,
	resources *render.Resources,
	material render.MaterialDefaults,
	commands *CommandBufferSystem,
	policy FailurePolicy,
	log logger.Logger,
) *TrackerModelSystem {
	if log == nil {
		log = logger.NewNop()
	}
	return &TrackerModelSystem{
		world:     world,
		backend:   backend,
		resources: resources,
		material:  material,
		commands:  commands,
		policy:    policy,
		logger:    log.With(logger.F("system", "tracker_models")),
		filter: ecs.NewFilter1[components.TrackingDevice](world).
			With(ecs.C[components.ModelEnabled]()).
			Without(ecs.C[components.ModelInfo](), ecs.C[components.ModelFailed]()),
	}
}

func (s *TrackerModelSystem) Initialize(_ *ecs.World) {
	if s.filter != nil {
		s.filter.Register()
	}
}

// Update polls each candidate device once. A panic raised while polling
// closes the query before it propagates so the world is left unlocked.
func (s *TrackerModelSystem) Update(_ *ecs.World) {
	start := time.Now()
	var stats TickStats
	s.ticks++

	query := s.filter.Query()
	iterating := true
	defer func() {
		if iterating {
			if r := recover(); r != nil {
				query.Close()
				panic(r)
			}
		}
	}()
	for query.Next() {
		device := query.Entity()
		id := query.Get().ID
		stats.Polled++

		status := s.backend.TrackerModels(id)
		switch status.State {
		case xr.NotAvailable:
			stats.Pending++

		case xr.Available:
			if err := s.instantiate(device, id, status.Submodels); err != nil {
				stats.Failed++
				s.fail(device, id, err)
				continue
			}
			stats.Instantiated++
			s.logger.Info("render model staged",
				logger.F("device_id", uint32(id)),
				logger.F("submodels", len(status.Submodels)))

		case xr.Failed:
			stats.Failed++
			err := status.Err
			if err == nil {
				err = fmt.Errorf("runtime reported failure for device %d", id)
			}
			s.fail(device, id, err)
		}
	}

	iterating = false

	s.last = stats
	if stats.Instantiated > 0 || stats.Failed > 0 {
		s.logger.Debug("tracker model tick",
			logger.F("tick", s.ticks),
			logger.F("polled", stats.Polled),
			logger.F("instantiated", stats.Instantiated),
			logger.F("pending", stats.Pending),
			logger.F("failed", stats.Failed),
			logger.F("duration", time.Since(start)))
	}
}

// Finalize unregisters the candidate filter.
func (s *TrackerModelSystem) Finalize(_ *ecs.World) {
	if s.filter != nil {
		s.filter.Unregister()
	}
}

// LastTick returns the stats of the most recent Update.
func (s *TrackerModelSystem) LastTick() TickStats { return s.last }

// instantiate stages one batch holding a child per submodel followed by the
// device's ModelInfo. An out-of-range index aborts the batch and is reported
// as a MalformedPayloadError; any other panic aborts the batch and propagates.
func (s *TrackerModelSystem) instantiate(device ecs.Entity, id xr.DeviceID, submodels []xr.SubmodelPayload) (err error) {
	batch := s.commands.Begin(device)
	models := make([]components.ComponentModel, 0, len(submodels))

	defer func() {
		if r := recover(); r != nil {
			s.commands.Abort(batch)
			for _, cm := range models {
				cm.Mesh.Release()
				cm.Texture.Release()
			}
			var idx *geometry.IndexOutOfRangeError
			if e, ok := r.(error); ok && errors.As(e, &idx) {
				err = &MalformedPayloadError{Device: id, Cause: idx}
				return
			}
			panic(r)
		}
	}()

	for i, sm := range submodels {
		name := SubmodelName(sm.Name, id, i)

		mesh := s.resources.LoadMesh(geometry.NewMeshData(sm.Vertices, sm.Indices))

		var texture assets.Handle[render.Texture]
		if sm.Texture != nil {
			texture = s.resources.LoadTexture(render.TextureData{
				Name:   name,
				Width:  sm.Texture.Width,
				Height: sm.Texture.Height,
				Pixels: sm.Texture.Data,
			})
		} else {
			texture = s.resources.FallbackTexture()
		}

		s.commands.SpawnChild(batch, ChildSpec{
			Name:      name,
			Transform: render.IdentityTransform(),
			Mesh:      components.Mesh{Handle: mesh},
			Material:  s.material.WithAlbedo(texture),
		})
		models = append(models, components.ComponentModel{
			Name:    name,
			Mesh:    mesh.Clone(),
			Texture: texture.Clone(),
		})
	}

	s.commands.InsertModelInfo(batch, components.ModelInfo{ComponentModels: models})
	return nil
}

func (s *TrackerModelSystem) fail(device ecs.Entity, id xr.DeviceID, err error) {
	s.logger.Error("render model unavailable",
		logger.F("device_id", uint32(id)),
		logger.F("policy", s.policy.String()),
		logger.Err(err))
	if s.policy == FailureMark {
		s.commands.MarkFailed(device, err.Error())
	}
}
