// Package config loads air-magic runtime configuration from the environment.
//
// Every field can be set with an AIRMAGIC_-prefixed variable; command-line
// flags in cmd/airmagic override whatever the environment provided.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/teslashibe/air-magic/internal/log"
)

// Prefix is prepended to every environment variable name.
const Prefix = "AIRMAGIC_"

// Camera backends.
const (
	CameraWebcam = "webcam"
	CameraDemo   = "demo"
)

// Classifier backends.
const (
	ClassifierGemini = "gemini"
	ClassifierVertex = "vertex"
	ClassifierChain  = "chain"
	ClassifierNone   = "none"
)

// Config holds all runtime settings.
type Config struct {
	Port     int    `env:"PORT" envDefault:"8080"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	Camera       string `env:"CAMERA" envDefault:"webcam"`
	CameraDevice int    `env:"CAMERA_DEVICE" envDefault:"0"`
	CameraPreset string `env:"CAMERA_PRESET" envDefault:"default"`

	SampleInterval  time.Duration `env:"SAMPLE_INTERVAL" envDefault:"4s"`
	TransferDelay   time.Duration `env:"TRANSFER_DELAY" envDefault:"1500ms"`
	PreviewInterval time.Duration `env:"PREVIEW_INTERVAL" envDefault:"200ms"`

	Classifier     string        `env:"CLASSIFIER" envDefault:"gemini"`
	GeminiAPIKey   string        `env:"GEMINI_API_KEY"`
	GeminiModel    string        `env:"GEMINI_MODEL" envDefault:"gemini-3-flash-preview"`
	GeminiBaseURL  string        `env:"GEMINI_BASE_URL" envDefault:"https://generativelanguage.googleapis.com/v1beta"`
	VertexProject  string        `env:"VERTEX_PROJECT"`
	VertexRegion   string        `env:"VERTEX_REGION" envDefault:"us-central1"`
	VertexModel    string        `env:"VERTEX_MODEL" envDefault:"gemini-2.0-flash"`
	VertexCredFile string        `env:"VERTEX_CREDENTIALS"`
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT" envDefault:"15s"`
}

// Load reads the configuration from the process environment.
func Load() (*Config, error) {
	return LoadFrom(environ())
}

// LoadFrom reads the configuration from the given variables.
func LoadFrom(vars map[string]string) (*Config, error) {
	var cfg Config
	if err := env.ParseWithOptions(&cfg, env.Options{
		Prefix:      Prefix,
		Environment: vars,
	}); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}

	// The Gemini key is commonly exported without our prefix.
	if cfg.GeminiAPIKey == "" {
		cfg.GeminiAPIKey = firstNonEmpty(vars["GEMINI_API_KEY"], vars["GOOGLE_API_KEY"], vars["API_KEY"])
	}
	return &cfg, nil
}

// Validate reports every invalid setting at once.
func (c *Config) Validate() error {
	var errs []error

	if c.Port < 1 || c.Port > 65535 {
		errs = append(errs, fmt.Errorf("port must be between 1 and 65535, got %d", c.Port))
	}
	if _, ok := log.ParseLevel(c.LogLevel); !ok {
		errs = append(errs, fmt.Errorf("unknown log level %q", c.LogLevel))
	}

	switch c.Camera {
	case CameraWebcam, CameraDemo:
	default:
		errs = append(errs, fmt.Errorf("camera must be %s or %s, got %q", CameraWebcam, CameraDemo, c.Camera))
	}
	if c.CameraDevice < 0 {
		errs = append(errs, errors.New("camera device must not be negative"))
	}

	if c.SampleInterval <= 0 {
		errs = append(errs, errors.New("sample interval must be positive"))
	}
	if c.TransferDelay < 0 {
		errs = append(errs, errors.New("transfer delay must not be negative"))
	}
	if c.PreviewInterval < 0 {
		errs = append(errs, errors.New("preview interval must not be negative"))
	}

	switch c.Classifier {
	case ClassifierGemini:
		if c.GeminiAPIKey == "" {
			errs = append(errs, errors.New("gemini classifier requires GEMINI_API_KEY"))
		}
	case ClassifierVertex:
		if c.VertexProject == "" {
			errs = append(errs, errors.New("vertex classifier requires AIRMAGIC_VERTEX_PROJECT"))
		}
	case ClassifierChain:
		if c.GeminiAPIKey == "" && c.VertexProject == "" {
			errs = append(errs, errors.New("chain classifier requires a Gemini key or a Vertex project"))
		}
	case ClassifierNone:
	default:
		errs = append(errs, fmt.Errorf("unknown classifier %q", c.Classifier))
	}

	return errors.Join(errs...)
}

// Addr returns the listen address for the HTTP server.
func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}

func environ() map[string]string {
	vars := make(map[string]string)
	for _, kv := range os.Environ() {
		if k, v, ok := strings.Cut(kv, "="); ok {
			vars[k] = v
		}
	}
	return vars
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
