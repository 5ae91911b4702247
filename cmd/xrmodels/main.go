package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"

	"xrmodels/internal/config"
	"xrmodels/internal/controller"
	"xrmodels/internal/loader/loader"
	"xrmodels/internal/logger"
	"xrmodels/internal/xr"
)

func main() {
	// Command line flags
	var (
		configFile   = flag.String("config", "", "Configuration file path")
		manifestFile = flag.String("manifest", "", "Device manifest, overrides backend.manifest")
		maxTicks     = flag.Int("ticks", -1, "Stop after this many ticks, overrides tick.max_ticks")
		debug        = flag.Bool("debug", false, "Enable debug logging")
	)
	flag.Parse()

	cfg, err := config.Load(*configFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
		os.Exit(1)
	}
	if *manifestFile != "" {
		cfg.Backend.Manifest = *manifestFile
	}
	if *maxTicks >= 0 {
		cfg.Tick.MaxTicks = *maxTicks
	}
	if *debug {
		cfg.Logging.Level = "debug"
	}

	log, err := logger.NewWithComponent(cfg.Logging, "xrmodels")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	if err := run(cfg, log); err != nil {
		log.Error("xrmodels failed", logger.Err(err))
		_ = log.Sync()
		os.Exit(1)
	}
}

func run(cfg *config.Config, log logger.Logger) error {
	l := loader.NewLoader("yaml", cfg.Backend.Manifest)
	if err := l.Load(); err != nil {
		return fmt.Errorf("loading device manifest: %w", err)
	}
	manifest := l.GetManifest()
	log.Info("device manifest loaded",
		logger.F("path", cfg.Backend.Manifest),
		logger.F("devices", len(manifest.Devices)))

	backend, err := xr.NewManifestBackend(manifest)
	if err != nil {
		return err
	}

	c, err := controller.New(cfg, backend, &manifest, log)
	if err != nil {
		return err
	}
	defer c.Close()

	// Setup context for graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	ctx = logger.WithLogger(ctx, log.With(logger.F("run_id", uuid.NewString())))

	if err := c.Run(ctx); err != nil {
		return err
	}
	c.WaitForAssets()

	inv := c.Inventory()
	for _, m := range inv.Models {
		log.Info("device model", logger.F("device_id", uint32(m.ID)), logger.F("submodels", m.Submodels))
	}
	for _, f := range inv.Failed {
		log.Warn("device model failed", logger.F("device_id", uint32(f.ID)), logger.F("reason", f.Reason))
	}
	return nil
}
