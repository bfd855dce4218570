// Package config handles ghostbrush configuration loading and management.
package config

import (
	"fmt"
	"time"

	"go.uber.org/multierr"

	"github.com/Faultbox/ghostbrush/internal/snap"
)

// Config holds all ghostbrush settings.
type Config struct {
	Placement PlacementConfig `yaml:"placement"`
	Catalog   CatalogConfig   `yaml:"catalog"`
	World     WorldConfig     `yaml:"world"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// PlacementConfig holds snapping and preview tick settings.
type PlacementConfig struct {
	SnapThreshold   float64       `yaml:"snap_threshold"`
	DefaultSnapping []string      `yaml:"default_snapping"` // horizontal, vertical, facenormal
	FastTick        time.Duration `yaml:"fast_tick"`
	SlowTick        time.Duration `yaml:"slow_tick"`
}

// CatalogConfig holds the object catalog location.
type CatalogConfig struct {
	Path string `yaml:"path"`
}

// WorldConfig holds the reference world dimensions.
type WorldConfig struct {
	SizeX      int     `yaml:"size_x"`
	SizeY      int     `yaml:"size_y"`
	SizeZ      int     `yaml:"size_z"`
	ActorReach float64 `yaml:"actor_reach"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Placement: PlacementConfig{
			SnapThreshold:   snap.Threshold,
			DefaultSnapping: []string{"horizontal", "vertical"},
			FastTick:        50 * time.Millisecond,
			SlowTick:        500 * time.Millisecond,
		},
		Catalog: CatalogConfig{
			Path: "configs/catalog.yaml",
		},
		World: WorldConfig{
			SizeX:      32,
			SizeY:      16,
			SizeZ:      32,
			ActorReach: 5,
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}

// SnapFlags parses Placement.DefaultSnapping.
func (c *Config) SnapFlags() (snap.Flags, error) {
	return snap.ParseFlags(c.Placement.DefaultSnapping)
}

// Validate reports every invalid setting at once.
func (c *Config) Validate() error {
	var errs error
	p := c.Placement
	if p.SnapThreshold <= 0 || p.SnapThreshold >= 0.5 {
		errs = multierr.Append(errs, fmt.Errorf("placement.snap_threshold %v outside (0, 0.5)", p.SnapThreshold))
	}
	if _, err := c.SnapFlags(); err != nil {
		errs = multierr.Append(errs, fmt.Errorf("placement.default_snapping: %w", err))
	}
	if p.FastTick <= 0 || p.SlowTick <= 0 {
		errs = multierr.Append(errs, fmt.Errorf("placement ticks must be positive"))
	} else if p.SlowTick < p.FastTick {
		errs = multierr.Append(errs, fmt.Errorf("placement.slow_tick %v shorter than fast_tick %v", p.SlowTick, p.FastTick))
	}
	if c.Catalog.Path == "" {
		errs = multierr.Append(errs, fmt.Errorf("catalog.path is empty"))
	}
	w := c.World
	if w.SizeX <= 0 || w.SizeY <= 0 || w.SizeZ <= 0 {
		errs = multierr.Append(errs, fmt.Errorf("world size %dx%dx%d is not positive", w.SizeX, w.SizeY, w.SizeZ))
	}
	if w.ActorReach < 0 {
		errs = multierr.Append(errs, fmt.Errorf("world.actor_reach is negative"))
	}
	return errs
}
