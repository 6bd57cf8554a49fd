package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/teslashibe/air-magic/internal/config"
	"github.com/teslashibe/air-magic/pkg/camera"
	"github.com/teslashibe/air-magic/pkg/gesture"
	"github.com/teslashibe/air-magic/pkg/inference"
	"github.com/teslashibe/air-magic/pkg/session"
)

// deps holds the long-lived collaborators shared by every session.
type deps struct {
	cfg        *config.Config
	logger     *slog.Logger
	Cameras    *camera.Manager
	source     camera.Source
	provider   inference.Provider
	classifier session.Classifier
}

// build wires the camera source and gesture classifier from cfg.
func build(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*deps, error) {
	preset := camera.GetPreset(cfg.CameraPreset)
	if preset == nil {
		return nil, fmt.Errorf("unknown camera preset %q", cfg.CameraPreset)
	}
	camCfg := *preset
	camCfg.Device = cfg.CameraDevice
	cameras := camera.NewManager(camCfg)

	d := &deps{
		cfg:     cfg,
		logger:  logger,
		Cameras: cameras,
		source:  buildSource(cfg, cameras),
	}

	provider, err := buildProvider(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}
	if provider != nil {
		d.provider = provider
		d.classifier = gesture.NewClassifier(provider,
			gesture.WithModel(modelFor(cfg)),
			gesture.WithLogger(logger),
		)
	}
	return d, nil
}

func buildSource(cfg *config.Config, cameras *camera.Manager) camera.Source {
	if cfg.Camera == config.CameraDemo {
		c := cameras.GetConfig()
		return camera.NewStatic(camera.TestPattern(c.Width, c.Height))
	}
	return camera.NewWebcam(cameras)
}

// buildProvider returns nil for the "none" classifier.
func buildProvider(ctx context.Context, cfg *config.Config, logger *slog.Logger) (inference.Provider, error) {
	opts := []inference.Option{
		inference.WithTimeout(cfg.RequestTimeout),
		inference.WithLogger(logger),
	}

	gemini := func() (inference.Provider, error) {
		return inference.NewGemini(append(opts,
			inference.WithAPIKey(cfg.GeminiAPIKey),
			inference.WithBaseURL(cfg.GeminiBaseURL),
			inference.WithVisionModel(cfg.GeminiModel),
		)...)
	}
	vertex := func() (inference.Provider, error) {
		creds, err := inference.VertexCredentials(ctx, cfg.VertexCredFile)
		if err != nil {
			return nil, err
		}
		return inference.NewVertex(ctx, cfg.VertexProject, cfg.VertexRegion,
			append(opts, inference.WithVisionModel(cfg.VertexModel)), creds)
	}

	switch cfg.Classifier {
	case config.ClassifierNone:
		return nil, nil
	case config.ClassifierGemini:
		return gemini()
	case config.ClassifierVertex:
		return vertex()
	case config.ClassifierChain:
		var providers []inference.Provider
		var errs []error
		if cfg.GeminiAPIKey != "" {
			p, err := gemini()
			if err != nil {
				errs = append(errs, err)
			} else {
				providers = append(providers, p)
			}
		}
		if cfg.VertexProject != "" {
			p, err := vertex()
			if err != nil {
				errs = append(errs, err)
			} else {
				providers = append(providers, p)
			}
		}
		if len(providers) == 0 {
			return nil, fmt.Errorf("no classifier provider available: %w",
				errors.Join(append(errs, inference.ErrProviderUnavailable)...))
		}
		for _, err := range errs {
			logger.Warn("classifier provider skipped", "error", err)
		}
		return inference.NewChainWithLogger(logger, providers...)
	default:
		return nil, fmt.Errorf("unknown classifier %q", cfg.Classifier)
	}
}

// modelFor leaves the model to each provider's own default in a chain.
func modelFor(cfg *config.Config) string {
	switch cfg.Classifier {
	case config.ClassifierGemini:
		return cfg.GeminiModel
	case config.ClassifierVertex:
		return cfg.VertexModel
	default:
		return ""
	}
}

// NewSession builds a session over the shared source and classifier.
func (d *deps) NewSession() (*session.Session, error) {
	return session.New(session.Options{
		Source:          d.source,
		Classifier:      d.classifier,
		SampleInterval:  d.cfg.SampleInterval,
		TransferDelay:   d.cfg.TransferDelay,
		PreviewInterval: d.cfg.PreviewInterval,
		PreviewQuality:  d.Cameras.GetConfig().Quality,
		Logger:          d.logger,
	})
}

// Close releases the classifier's connections.
func (d *deps) Close() error {
	if d.provider == nil {
		return nil
	}
	return d.provider.Close()
}
