package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

type Config struct {
	Window      WindowConfig      `toml:"window"`
	Simulation  SimulationConfig  `toml:"simulation"`
	Environment EnvironmentConfig `toml:"environment"`
	Logging     LoggingConfig     `toml:"logging"`
	Debug       DebugConfig       `toml:"debug"`
}

type WindowConfig struct {
	Width  int    `toml:"width"` // logical screen size
	Height int    `toml:"height"` // logical screen size
	Scale  int    `toml:"scale"` // window pixels per logical pixel
	Title  string `toml:"title"`
}

type SimulationConfig struct {
	TickRate  int     `toml:"tick_rate"` // updates per second
	MaxDelta  float64 `toml:"max_delta"` // seconds, clamps long frames
	TimeScale float64 `toml:"time_scale"`
	MaxShapes int     `toml:"max_shapes"` // collision shape budget across domains
}

type EnvironmentConfig struct {
	Name      string `toml:"name"` // environment file under the prefabs dir
	WatchDir  string `toml:"watch_dir"`
	HotReload bool   `toml:"hot_reload"`
}

type LoggingConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"` // "json" or "console"
}

type DebugConfig struct {
	DrawShapes bool `toml:"draw_shapes"`
	Overlay    bool `toml:"overlay"`
}

// Load reads path over the defaults. An empty path returns the defaults.
func Load(path string) (*Config, error) {
	cfg := defaults()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: %s: %w", path, err)
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	switch {
	case c.Window.Width <= 0 || c.Window.Height <= 0:
		return fmt.Errorf("window size must be positive, got %dx%d", c.Window.Width, c.Window.Height)
	case c.Window.Scale <= 0:
		return fmt.Errorf("window scale must be positive, got %d", c.Window.Scale)
	case c.Simulation.TickRate <= 0:
		return fmt.Errorf("tick rate must be positive, got %d", c.Simulation.TickRate)
	case c.Simulation.MaxDelta <= 0:
		return fmt.Errorf("max delta must be positive, got %v", c.Simulation.MaxDelta)
	case c.Simulation.TimeScale < 0:
		return fmt.Errorf("time scale must not be negative, got %v", c.Simulation.TimeScale)
	case c.Simulation.MaxShapes < 0:
		return fmt.Errorf("max shapes must not be negative, got %d", c.Simulation.MaxShapes)
	case c.Environment.Name == "":
		return fmt.Errorf("environment name is required")
	}
	return nil
}

// StepSeconds is the fixed simulation step scaled by TimeScale.
func (s SimulationConfig) StepSeconds() float64 {
	dt := 1 / float64(s.TickRate)
	if dt > s.MaxDelta {
		dt = s.MaxDelta
	}
	return dt * s.TimeScale
}

func defaults() *Config {
	return &Config{
		Window: WindowConfig{
			Width:  640,
			Height: 360,
			Scale:  2,
			Title:  "bullets",
		},
		Simulation: SimulationConfig{
			TickRate:  60,
			MaxDelta:  0.1,
			TimeScale: 1,
			MaxShapes: 20000,
		},
		Environment: EnvironmentConfig{
			Name:      "stage1.yaml",
			WatchDir:  "prefabs",
			HotReload: true,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
		Debug: DebugConfig{
			Overlay: true,
		},
	}
}
