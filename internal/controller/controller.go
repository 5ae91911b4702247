// Package controller wires the ECS world, the tracker model systems and the
// asset pipeline into a tick loop.
package controller

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/mlange-42/ark-tools/app"
	"github.com/mlange-42/ark/ecs"

	"xrmodels/internal/assets"
	"xrmodels/internal/config"
	"xrmodels/internal/controller/systems"
	"xrmodels/internal/loader/schema"
	"xrmodels/internal/logger"
	"xrmodels/internal/render"
	"xrmodels/internal/workers/workerspool"
	"xrmodels/internal/xr"
)

// Controller manages the ECS world and its systems using ark-tools.
type Controller struct {
	app     *app.App
	world   *ecs.World
	devices *DeviceWorld

	pool      *workerspool.Pool
	resources *render.Resources

	// ECS Systems, in update order
	trackerModels *systems.TrackerModelSystem
	commands      *systems.CommandBufferSystem

	metrics  *MetricsAggregator
	recovery *RecoverySystem

	cfg         *config.Config
	log         logger.Logger
	initialized bool
	closed      bool
	ticks       int
}

// New creates a controller with one device entity per manifest device.
func New(cfg *config.Config, backend xr.Backend, manifest *schema.Manifest, log logger.Logger) (*Controller, error) {
	if log == nil {
		log = logger.NewNop()
	}
	policy, err := systems.ParseFailurePolicy(cfg.Models.FailurePolicy)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", config.ErrInvalidConfig, err)
	}

	// Create ark-tools app with initial capacity; ticks are paced by Run.
	arkApp := app.New(1024)
	arkApp.TPS = 0
	world := &arkApp.World

	devices, err := NewDeviceWorld(manifest, world)
	if err != nil {
		return nil, err
	}

	pool, err := workerspool.NewPool("assets", cfg.Assets.Workers, log)
	if err != nil {
		return nil, fmt.Errorf("failed to create asset pool: %w", err)
	}
	resources := render.NewResources(assets.NewLoader(pool, log.With(logger.F("component", "assets"))))
	defaults := render.NewMaterialDefaults(cfg.Material, resources.FallbackTexture())

	commands := systems.NewCommandBufferSystem(world, log)
	trackerModels := systems.NewTrackerModelSystem(world, backend, resources, defaults, commands, policy, log)

	// Playback must follow the read pass.
	arkApp.AddSystem(trackerModels)
	arkApp.AddSystem(commands)

	return &Controller{
		app:           arkApp,
		world:         world,
		devices:       devices,
		pool:          pool,
		resources:     resources,
		trackerModels: trackerModels,
		commands:      commands,
		metrics:       NewMetricsAggregator(),
		recovery:      NewRecoverySystem(3, time.Minute, log),
		cfg:           cfg,
		log:           log,
	}, nil
}

// Step runs a single tick.
func (c *Controller) Step() error {
	if c.closed {
		return errors.New("controller closed")
	}
	if !c.initialized {
		c.app.Initialize()
		c.initialized = true
	}

	start := time.Now()
	if err := c.recovery.SafeUpdate("app", func() { c.app.Update() }); err != nil {
		c.metrics.RecordPanic()
		return err
	}
	c.ticks++
	c.metrics.RecordTick(time.Since(start), c.trackerModels.LastTick(), c.commands.LastPlayback())
	return nil
}

// Run ticks at the configured rate until ctx is done or tick.max_ticks is
// reached. A tick panic is logged and skipped unless the breaker trips.
// Run logs through the logger carried by ctx, if any.
func (c *Controller) Run(ctx context.Context) error {
	log := logger.FromContext(ctx, c.log)
	ticker := time.NewTicker(c.cfg.Tick.Interval())
	defer ticker.Stop()

	log.Info("controller started",
		logger.F("devices", c.devices.Len()),
		logger.F("tps", c.cfg.Tick.TPS),
		logger.F("max_ticks", c.cfg.Tick.MaxTicks))

	for {
		if err := c.Step(); err != nil {
			var tripped *ErrTooManyPanics
			if errors.As(err, &tripped) {
				log.Error("controller halted", logger.F("ticks", c.ticks), logger.Err(err))
				return err
			}
		}
		if c.cfg.Tick.MaxTicks > 0 && c.ticks >= c.cfg.Tick.MaxTicks {
			log.Info("controller finished", logger.F("ticks", c.ticks), logger.F("reason", "max_ticks"))
			return nil
		}
		select {
		case <-ctx.Done():
			log.Info("controller finished", logger.F("ticks", c.ticks), logger.F("reason", ctx.Err().Error()))
			return nil
		case <-ticker.C:
		}
	}
}

// Close finalizes the systems, waits for pending asset work and stops the
// pool. It is safe to call more than once.
func (c *Controller) Close() {
	if c.closed {
		return
	}
	c.closed = true
	if c.initialized {
		c.app.Finalize()
	}
	c.resources.Wait()
	c.pool.Stop()
	c.logShutdownMetrics()
}

// WaitForAssets blocks until every submitted asset has been processed.
func (c *Controller) WaitForAssets() {
	c.resources.Wait()
}

func (c *Controller) logShutdownMetrics() {
	m := c.metrics.Snapshot()
	inv := TakeInventory(c.world)
	c.log.Info("controller stopped",
		logger.F("ticks", m.Ticks),
		logger.F("polled", m.Polled),
		logger.F("instantiated", m.Instantiated),
		logger.F("failed", m.Failed),
		logger.F("spawned", m.Spawned),
		logger.F("dropped_batches", m.DroppedBatches),
		logger.F("avg_tick", m.AvgDuration()),
		logger.F("max_tick", m.MaxDuration),
		logger.F("models", len(inv.Models)),
		logger.F("meshes", c.resources.Meshes.Len()),
		logger.F("textures", c.resources.Textures.Len()))

	pm := c.pool.Metrics()
	c.log.Info("asset pool",
		logger.F("processed", pm.JobsProcessed),
		logger.F("dropped", pm.JobsDropped),
		logger.F("panics", pm.Panics))
}

// World returns the ECS world for external access (e.g., testing, debugging).
func (c *Controller) World() *ecs.World { return c.world }

// Devices returns the device registry.
func (c *Controller) Devices() *DeviceWorld { return c.devices }

// Resources returns the mesh and texture tables.
func (c *Controller) Resources() *render.Resources { return c.resources }

// Metrics returns the running tick totals.
func (c *Controller) Metrics() TickMetrics { return c.metrics.Snapshot() }

// Inventory lists spawned and failed device models.
func (c *Controller) Inventory() Inventory { return TakeInventory(c.world) }

// Device returns a view of device id.
func (c *Controller) Device(id xr.DeviceID) (DeviceAdapter, bool) {
	e, ok := c.devices.Entity(id)
	if !ok {
		return DeviceAdapter{}, false
	}
	return NewDeviceAdapter(c.world, e), true
}
