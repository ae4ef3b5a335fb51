// orgbnet - OpenRGB network client & API
//
// orgbnet speaks the OpenRGB SDK protocol over TCP: it connects to a
// running OpenRGB server, keeps snapshots of the detected RGB
// controllers, and exposes lighting control through an interactive
// CLI, a REST API, and MQTT telemetry.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"sync"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/orgbnet-project/orgbnet/internal/api"
	"github.com/orgbnet-project/orgbnet/internal/cli"
	"github.com/orgbnet-project/orgbnet/internal/config"
	"github.com/orgbnet-project/orgbnet/internal/events"
	"github.com/orgbnet-project/orgbnet/internal/lighting"
	"github.com/orgbnet-project/orgbnet/internal/presets"
	"github.com/orgbnet-project/orgbnet/internal/telemetry"
	"github.com/orgbnet-project/orgbnet/internal/util"
)

const (
	AppName    = "orgbnet"
	AppVersion = "1.0.0"
	Banner     = `
                  _                 _
   ___  _ __ __ _| |__  _ __   ___ | |_
  / _ \| '__/ _' | '_ \| '_ \ / _ \| __|
 | (_) | | | (_| | |_) | | | |  __/| |_
  \___/|_|  \__, |_.__/|_| |_|\___| \__|
            |___/  v%s
 OpenRGB network client & API
`
)

func main() {
	setupFlag := flag.Bool("setup", false, "run the interactive setup wizard and exit")
	configDir := flag.String("config", config.DefaultConfigDir, "configuration directory")
	flag.Parse()

	fmt.Printf(Banner, AppVersion)
	fmt.Println()

	// Initialize logger with defaults first (will be reconfigured after config load)
	if err := util.InitLogger(util.DefaultLogConfig()); err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	log.Info().
		Str("version", AppVersion).
		Str("platform", runtime.GOOS).
		Str("arch", runtime.GOARCH).
		Msg("starting orgbnet")

	// Load configuration
	cfg, err := config.Load(*configDir)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	// Re-initialize logger with config-based settings
	logCfg := util.LogConfig{
		Level:      cfg.ApplicationData.Logging.Level,
		Directory:  cfg.ApplicationData.Logging.Directory,
		MaxSizeMB:  cfg.ApplicationData.Logging.MaxSizeMB,
		MaxBackups: cfg.ApplicationData.Logging.MaxBackups,
		Console:    true,
	}
	if err := util.InitLogger(logCfg); err != nil {
		log.Warn().Err(err).Msg("failed to reconfigure logger, using defaults")
	}

	// Run the setup wizard when asked to, or when required fields are
	// missing on a first run.
	if *setupFlag {
		if err := config.RunSetupWizard(cfg); err != nil {
			log.Fatal().Err(err).Msg("setup wizard failed")
		}
		return
	}

	validation := config.Validate(cfg)
	for _, w := range validation.Warnings {
		log.Warn().Str("field", w.Field).Msg(w.Message)
	}
	if !validation.IsValid() {
		for _, e := range validation.Errors {
			log.Error().Str("field", e.Field).Msg(e.Message)
		}

		if cfg.IsFirstRun() {
			log.Info().Msg("first run detected, launching setup wizard")
			if err := config.RunSetupWizard(cfg); err != nil {
				log.Fatal().Err(err).Msg("setup wizard failed")
			}
		} else {
			log.Fatal().Msg("configuration validation failed, please fix the errors above")
		}
	}

	// Log system info
	sysInfo := util.GetSystemInfo()
	log.Info().
		Str("hostname", sysInfo.Hostname).
		Str("os", sysInfo.OS).
		Str("cpu", sysInfo.CPUModel).
		Int("cores", sysInfo.CPUCores).
		Uint64("memory_mb", sysInfo.TotalMemory).
		Msg("system information")

	// Create root context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize core components
	eventBus := events.NewEventBus()

	presetStore := presets.NewStore(cfg.GetApplicationData().Presets.Directory)
	if err := presetStore.Load(); err != nil {
		log.Warn().Err(err).Msg("failed to load color presets")
	}

	mgr := lighting.NewManager(cfg, eventBus, presetStore)

	// Initialize REST API
	var apiServer *api.Server
	if cfg.GetApplicationData().API.Enabled {
		apiServer = api.NewServer(cfg, eventBus, mgr)
	}

	// Initialize MQTT telemetry
	var mqttHandler *telemetry.MQTTHandler
	if cfg.GetApplicationData().MQTT.Enabled {
		mqttHandler, err = telemetry.NewMQTTHandler(cfg, eventBus)
		if err != nil {
			log.Warn().Err(err).Msg("failed to initialize MQTT, telemetry disabled")
		}
	}

	// Initialize CLI
	cliHandler := cli.NewCLI(cfg, eventBus, mgr)

	// ---------------------------------------------------------------
	// Launch concurrent tasks
	// ---------------------------------------------------------------
	var wg sync.WaitGroup
	errCh := make(chan error, 4)

	// Task 1: OpenRGB session. The initial connect is retried so orgbnet
	// can be started before the OpenRGB server; the refresh loop takes
	// over reconnection once a session has been established.
	wg.Add(1)
	go func() {
		defer wg.Done()
		log.Info().Str("address", cfg.GetServer().Address).Msg("connecting to OpenRGB server")
		if err := connectWithRetry(ctx, mgr, 15); err != nil {
			log.Warn().Err(err).Msg("could not establish initial session, will keep retrying in the background")
		}
		mgr.Start(ctx)
	}()

	// Task 2: REST API server
	if apiServer != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			log.Info().Int("port", cfg.GetApplicationData().API.Port).Msg("starting REST API server")
			if err := apiServer.Start(ctx); err != nil {
				log.Error().Err(err).Msg("API server failed")
				errCh <- fmt.Errorf("api server: %w", err)
			}
		}()
	}

	// Task 3: MQTT telemetry
	if mqttHandler != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			log.Info().Msg("starting MQTT telemetry")
			if err := mqttHandler.Start(ctx); err != nil {
				log.Warn().Err(err).Msg("MQTT telemetry failed")
			}
		}()
	}

	// Task 4: Interactive CLI
	wg.Add(1)
	go func() {
		defer wg.Done()
		log.Info().Msg("starting interactive CLI")
		cliHandler.Start(ctx)
	}()

	// ---------------------------------------------------------------
	// Graceful shutdown handling
	// ---------------------------------------------------------------
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	shutdownCh := make(chan struct{})
	var shutdownOnce sync.Once
	eventBus.Subscribe(events.EventShutdown, "main", func(ctx context.Context, event events.Event) error {
		shutdownOnce.Do(func() { close(shutdownCh) })
		return nil
	})

	select {
	case sig := <-sigCh:
		log.Info().Str("signal", sig.String()).Msg("received shutdown signal")
	case <-shutdownCh:
		log.Info().Msg("shutdown requested")
	case err := <-errCh:
		log.Error().Err(err).Msg("critical error, initiating shutdown")
	}

	log.Info().Msg("initiating graceful shutdown...")

	// Broadcast shutdown to remaining observers and wait for their
	// handlers before tearing anything down. Our own trigger handler is
	// removed first so the broadcast doesn't loop back.
	eventBus.Unsubscribe(events.EventShutdown, "main")
	if err := eventBus.EmitSync(context.Background(), events.Event{
		Type:   events.EventShutdown,
		Source: "main",
	}); err != nil {
		log.Warn().Err(err).Msg("shutdown handler reported an error")
	}

	// Cancel the root context to signal all goroutines
	cancel()
	mgr.Stop()

	// Wait for all goroutines with timeout
	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		log.Info().Msg("all tasks stopped gracefully")
	case <-time.After(15 * time.Second):
		log.Warn().Msg("shutdown timed out after 15 seconds, forcing exit")
	}

	// Stop the event bus last
	eventBus.Stop()

	log.Info().Msg("orgbnet stopped")
}

// connectWithRetry attempts the initial session with a fixed interval
// between attempts. Returns nil as soon as a session is established.
func connectWithRetry(ctx context.Context, mgr *lighting.Manager, maxRetries int) error {
	var lastErr error
	for i := 0; i <= maxRetries; i++ {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		lastErr = mgr.Connect(ctx)
		if lastErr == nil {
			return nil
		}
		if i < maxRetries {
			log.Warn().Err(lastErr).Int("retry", i+1).Int("max", maxRetries).
				Msg("connect failed, retrying in 3s...")
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(3 * time.Second):
			}
		}
	}
	return lastErr
}
