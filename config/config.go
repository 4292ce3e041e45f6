// Package config provides configuration loading and access for the simulation.
package config

import (
	_ "embed"
	"fmt"
	"log/slog"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all simulation configuration parameters.
type Config struct {
	World      WorldConfig      `yaml:"world"`
	Population PopulationConfig `yaml:"population"`
	Simulation SimulationConfig `yaml:"simulation"`
	Screen     ScreenConfig     `yaml:"screen"`
	Telemetry  TelemetryConfig  `yaml:"telemetry"`
	Bookmarks  BookmarksConfig  `yaml:"bookmarks"`
	Stream     StreamConfig     `yaml:"stream"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// WorldConfig holds the grid dimensions.
type WorldConfig struct {
	Depth int `yaml:"depth"` // Rows
	Width int `yaml:"width"` // Columns
}

// PopulationConfig holds the per-cell seeding probabilities, checked in
// prey, mid-predator, apex order.
type PopulationConfig struct {
	PreyProbability float64 `yaml:"prey_probability"`
	MidProbability  float64 `yaml:"mid_probability"`
	ApexProbability float64 `yaml:"apex_probability"`
}

// SimulationConfig holds run control parameters.
type SimulationConfig struct {
	Seed          int64 `yaml:"seed"`            // 0 = time-based
	Steps         int   `yaml:"steps"`           // Headless step limit (0 = until not viable)
	DelayMS       int   `yaml:"delay_ms"`        // Pause between headless steps
	MinSpecies    int   `yaml:"min_species"`     // Kinds that must be present to keep running
	StepsPerFrame int   `yaml:"steps_per_frame"` // Graphical mode simulation speed
}

// ScreenConfig holds display settings.
type ScreenConfig struct {
	Width     int `yaml:"width"`
	Height    int `yaml:"height"`
	TargetFPS int `yaml:"target_fps"`
	CellSize  int `yaml:"cell_size"` // Pixels per cell at zoom 1
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	WindowSteps         int `yaml:"window_steps"`
	BookmarkHistorySize int `yaml:"bookmark_history_size"`
}

// BookmarksConfig holds bookmark detection thresholds.
type BookmarksConfig struct {
	PreyCrash       PreyCrashConfig       `yaml:"prey_crash"`
	Saturation      SaturationConfig      `yaml:"saturation"`
	StableEcosystem StableEcosystemConfig `yaml:"stable_ecosystem"`
}

// PreyCrashConfig holds prey crash detection parameters.
type PreyCrashConfig struct {
	DropPercent float64 `yaml:"drop_percent"`
	MinDrop     int     `yaml:"min_drop"`
}

// SaturationConfig holds grid saturation detection parameters.
type SaturationConfig struct {
	Occupancy float64 `yaml:"occupancy"` // Fraction of occupied cells
}

// StableEcosystemConfig holds stable ecosystem detection parameters.
type StableEcosystemConfig struct {
	CVThreshold   float64 `yaml:"cv_threshold"`
	StableWindows int     `yaml:"stable_windows"`
}

// StreamConfig holds the websocket status stream settings.
type StreamConfig struct {
	Addr string `yaml:"addr"` // Empty disables the stream
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	Cells     int           // World.Depth * World.Width
	Delay     time.Duration // Simulation.DelayMS as a duration
	ScreenW32 float32
	ScreenH32 float32
}

// Default grid dimensions used when the configured ones are not positive.
const (
	DefaultDepth = 100
	DefaultWidth = 300
)

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults if path is empty.
// Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// MustInit is like Init but panics on error.
func MustInit(path string) {
	if err := Init(path); err != nil {
		panic(fmt.Sprintf("config: failed to initialize: %v", err))
	}
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Only overwrites fields present in the file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	cfg.computeDerived()
	return cfg, nil
}

// computeDerived calculates values derived from loaded config and repairs
// values that cannot be used as given.
func (c *Config) computeDerived() {
	if c.World.Depth <= 0 || c.World.Width <= 0 {
		slog.Warn("invalid world dimensions, using defaults",
			"depth", c.World.Depth, "width", c.World.Width,
			"default_depth", DefaultDepth, "default_width", DefaultWidth)
		c.World.Depth = DefaultDepth
		c.World.Width = DefaultWidth
	}
	if c.Simulation.StepsPerFrame < 1 {
		c.Simulation.StepsPerFrame = 1
	}
	if c.Telemetry.WindowSteps < 1 {
		c.Telemetry.WindowSteps = 1
	}
	if c.Screen.CellSize < 1 {
		c.Screen.CellSize = 1
	}

	c.Derived.Cells = c.World.Depth * c.World.Width
	c.Derived.Delay = time.Duration(c.Simulation.DelayMS) * time.Millisecond
	c.Derived.ScreenW32 = float32(c.Screen.Width)
	c.Derived.ScreenH32 = float32(c.Screen.Height)
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
