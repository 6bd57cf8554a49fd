// Air Magic Interaction - gesture-triggered capture and transfer dashboard.
// Watches the webcam, asks a vision model whether the operator shows the
// trigger gesture and moves each capture to the receiver panel.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/teslashibe/air-magic/internal/config"
	"github.com/teslashibe/air-magic/internal/log"
	"github.com/teslashibe/air-magic/pkg/web"
)

// version is overridden at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "airmagic: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if err := parseFlags(cfg, args); err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration:\n%w", err)
	}

	log.Init(cfg.LogLevel)
	logger := log.L()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	deps, err := build(ctx, cfg, logger)
	if err != nil {
		return err
	}

	srv, err := web.New(web.Options{
		Addr:       cfg.Addr(),
		NewSession: deps.NewSession,
		Cameras:    deps.Cameras,
		Logger:     logger,
		Version:    version,
	})
	if err != nil {
		return err
	}

	logger.Info("air magic starting",
		"version", version,
		"addr", cfg.Addr(),
		"camera", cfg.Camera,
		"classifier", cfg.Classifier,
		"sample_interval", cfg.SampleInterval,
	)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return srv.Run(ctx)
	})
	g.Go(func() error {
		<-ctx.Done()
		logger.Info("shutting down")
		return deps.Close()
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

// parseFlags overrides environment settings with command-line flags.
func parseFlags(cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("airmagic", flag.ContinueOnError)

	fs.IntVar(&cfg.Port, "port", cfg.Port, "HTTP port for the dashboard")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log level: debug, info, warn, error")
	debug := fs.Bool("debug", false, "Shorthand for -log-level=debug")

	fs.StringVar(&cfg.Camera, "camera", cfg.Camera, "Camera source: webcam or demo")
	fs.IntVar(&cfg.CameraDevice, "device", cfg.CameraDevice, "Webcam device index")
	fs.StringVar(&cfg.CameraPreset, "preset", cfg.CameraPreset, "Capture preset: default, low, 720p, 1080p")

	fs.DurationVar(&cfg.SampleInterval, "sample-interval", cfg.SampleInterval, "Time between gesture checks")
	fs.DurationVar(&cfg.TransferDelay, "transfer-delay", cfg.TransferDelay, "Simulated transfer time per capture")
	fs.DurationVar(&cfg.PreviewInterval, "preview-interval", cfg.PreviewInterval, "Time between live preview frames")

	fs.StringVar(&cfg.Classifier, "classifier", cfg.Classifier, "Gesture classifier: gemini, vertex, chain, none")
	fs.StringVar(&cfg.GeminiModel, "model", cfg.GeminiModel, "Gemini model name")
	fs.StringVar(&cfg.VertexProject, "vertex-project", cfg.VertexProject, "Google Cloud project for Vertex AI")

	if err := fs.Parse(args); err != nil {
		return err
	}
	if *debug {
		cfg.LogLevel = "debug"
	}
	return nil
}
