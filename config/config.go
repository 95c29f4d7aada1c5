// Package config provides configuration loading and access for the studio.
package config

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/pthm-cable/flowstudio/params"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all studio configuration.
type Config struct {
	Screen    ScreenConfig    `yaml:"screen"`
	Canvas    CanvasConfig    `yaml:"canvas"`
	Particles ParticlesConfig `yaml:"particles"`
	Noise     NoiseConfig     `yaml:"noise"`
	Render    RenderConfig    `yaml:"render"`
	Image     ImageConfig     `yaml:"image"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
	Export    ExportConfig    `yaml:"export"`

	// Params is the parameter set the studio starts with.
	Params params.Params `yaml:"params"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// ScreenConfig holds window settings for the interactive host.
type ScreenConfig struct {
	Width      int `yaml:"width"`
	Height     int `yaml:"height"`
	TargetFPS  int `yaml:"target_fps"`
	PanelWidth int `yaml:"panel_width"` // Control panel to the right of the canvas
}

// CanvasConfig holds drawing surface dimensions.
type CanvasConfig struct {
	MaxSize int `yaml:"max_size"` // Upper bound on the square canvas side
	Margin  int `yaml:"margin"`   // Padding subtracted from the window before sizing
	Width   int `yaml:"width"`    // Explicit width (0 = derive from screen)
	Height  int `yaml:"height"`   // Explicit height (0 = derive from screen)
}

// ParticlesConfig holds particle-mode parameters.
type ParticlesConfig struct {
	Population      int     `yaml:"population"`
	SmallPopulation int     `yaml:"small_population"` // Used when the canvas is narrow
	SmallViewport   int     `yaml:"small_viewport"`   // Canvas width at or below which SmallPopulation applies
	MaxSpeed        float64 `yaml:"max_speed"`
	FieldMagnitude  float64 `yaml:"field_magnitude"` // Length of each precomputed field vector
	Alpha           uint8   `yaml:"alpha"`
}

// NoiseConfig selects and seeds the coherent noise source.
type NoiseConfig struct {
	Backend string  `yaml:"backend"` // perlin | simplex
	Seed    int64   `yaml:"seed"`
	Alpha   float64 `yaml:"alpha"`   // Perlin octave weight divisor
	Beta    float64 `yaml:"beta"`    // Perlin octave frequency multiplier
	Octaves int32   `yaml:"octaves"` // Perlin octave count
}

// RenderConfig holds static field rendering constants.
type RenderConfig struct {
	FieldSeed      int64   `yaml:"field_seed"`      // Re-applied before every regeneration
	MouseThreshold float64 `yaml:"mouse_threshold"` // Pointer movement (px) that counts as significant
	StrokeWeight   float64 `yaml:"stroke_weight"`
}

// ImageConfig holds source image handling.
type ImageConfig struct {
	MaxDim      int     `yaml:"max_dim"`      // Longest side after load-time downsizing
	AutoScale   float64 `yaml:"auto_scale"`   // Scale applied when an image is loaded
	AutoDensity float64 `yaml:"auto_density"` // Density applied when an image is loaded
}

// TelemetryConfig holds perf tracking parameters.
type TelemetryConfig struct {
	PerfWindow  int `yaml:"perf_window"`  // Ticks in the rolling perf window
	LogInterval int `yaml:"log_interval"` // Ticks between perf log lines (0 = off)
}

// ExportConfig holds output defaults.
type ExportConfig struct {
	Dir         string `yaml:"dir"`
	Prefix      string `yaml:"prefix"`
	Format      string `yaml:"format"` // png | svg | html
	Frames      int    `yaml:"frames"`
	JPEGQuality int    `yaml:"jpeg_quality"` // 0 = write recorded frames as PNG
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	CanvasW float64
	CanvasH float64
}

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
		// Unmarshal into same struct - only overwrites fields present in file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	cfg.computeDerived()

	return cfg, nil
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() {
	// Hand-edited files can carry out-of-range parameters
	c.Params.Clamp()

	w, h := c.Canvas.Width, c.Canvas.Height
	if w <= 0 || h <= 0 {
		side := CanvasSide(c.Screen.Width-c.Screen.PanelWidth, c.Screen.Height, c.Canvas.Margin, c.Canvas.MaxSize)
		w, h = side, side
	}
	c.Derived.CanvasW = float64(w)
	c.Derived.CanvasH = float64(h)

	if c.Particles.SmallPopulation <= 0 {
		c.Particles.SmallPopulation = c.Particles.Population
	}
	if c.Render.FieldSeed == 0 {
		c.Render.FieldSeed = 42
	}
}

// CanvasSide returns the square canvas side that fits an available area.
func CanvasSide(availW, availH, margin, maxSize int) int {
	side := min(availW-margin, maxSize, availH-margin)
	return max(side, 1)
}

// ParticleCount returns the population for a canvas of the given width.
func (c *Config) ParticleCount(canvasW float64) int {
	if canvasW <= float64(c.Particles.SmallViewport) {
		return c.Particles.SmallPopulation
	}
	return c.Particles.Population
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
