package canopy

import (
	"errors"
	"fmt"
	"io"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"
)

// Config holds the tunables of a Manager and its Interactor.
type Config struct {
	DoubleClickInterval time.Duration `json:"double_click_interval" yaml:"double_click_interval"`
	DragDeadZone        float64       `json:"drag_dead_zone" yaml:"drag_dead_zone"`

	Debug    bool   `json:"debug" yaml:"debug"`
	LogLevel string `json:"log_level,omitempty" yaml:"log_level,omitempty"`

	MaxTreeDepth  int `json:"max_tree_depth,omitempty" yaml:"max_tree_depth,omitempty"`
	MaxChildCount int `json:"max_child_count,omitempty" yaml:"max_child_count,omitempty"`

	ScreenWidth  float64 `json:"screen_width" yaml:"screen_width"`
	ScreenHeight float64 `json:"screen_height" yaml:"screen_height"`
}

// DefaultConfig returns the configuration used when none is supplied.
func DefaultConfig() Config {
	return Config{
		DoubleClickInterval: defaultDoubleClickInterval,
		DragDeadZone:        defaultDragDeadZone,
		LogLevel:            "info",
		MaxTreeDepth:        32,
		MaxChildCount:       1000,
		ScreenWidth:         1280,
		ScreenHeight:        720,
	}
}

// LoadConfig reads a YAML configuration. Keys absent from the document keep
// their DefaultConfig values; an empty document yields the defaults.
func LoadConfig(r io.Reader) (Config, error) {
	cfg := DefaultConfig()
	if err := yaml.NewDecoder(r).Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate validates the configuration
func (c Config) Validate() error {
	if c.DoubleClickInterval <= 0 {
		return fmt.Errorf("double_click_interval must be positive, got %v", c.DoubleClickInterval)
	}
	if c.DragDeadZone < 0 {
		return fmt.Errorf("drag_dead_zone must not be negative, got %v", c.DragDeadZone)
	}
	if c.ScreenWidth < 0 || c.ScreenHeight < 0 {
		return fmt.Errorf("screen size must not be negative, got %vx%v", c.ScreenWidth, c.ScreenHeight)
	}
	if c.MaxTreeDepth <= 0 || c.MaxChildCount <= 0 {
		return fmt.Errorf("debug thresholds must be positive")
	}
	if _, err := zapcore.ParseLevel(c.level()); err != nil {
		return fmt.Errorf("log_level: %w", err)
	}
	return nil
}

func (c Config) level() string {
	if c.LogLevel == "" {
		return "info"
	}
	return c.LogLevel
}

// NewLogger builds the logger described by the configuration: JSON on stderr,
// or the human-readable development encoder when Debug is set.
func NewLogger(c Config) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(c.level())
	if err != nil {
		return nil, fmt.Errorf("log_level: %w", err)
	}
	if c.Debug {
		cfg := zap.NewDevelopmentConfig()
		cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		return cfg.Build()
	}
	cfg := zap.Config{
		Level:       zap.NewAtomicLevelAt(level),
		Development: false,
		Sampling: &zap.SamplingConfig{
			Initial:    100,
			Thereafter: 100,
		},
		Encoding:         "json",
		EncoderConfig:    zap.NewProductionEncoderConfig(),
		OutputPaths:      []string{"stderr"},
		ErrorOutputPaths: []string{"stderr"},
		DisableCaller:    true,
	}
	return cfg.Build()
}
