// Package config provides configuration loading and access for the scene.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"

	"github.com/lucasb-eyer/go-colorful"
	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all scene configuration parameters.
type Config struct {
	Screen    ScreenConfig    `yaml:"screen"`
	Tree      TreeConfig      `yaml:"tree"`
	Scatter   ScatterConfig   `yaml:"scatter"`
	Foliage   FoliageConfig   `yaml:"foliage"`
	Ornaments OrnamentsConfig `yaml:"ornaments"`
	Star      StarConfig      `yaml:"star"`
	Motion    MotionConfig    `yaml:"motion"`
	Scene     SceneConfig     `yaml:"scene"`
	Camera    CameraConfig    `yaml:"camera"`
	Backdrop  BackdropConfig  `yaml:"backdrop"`
	Palette   PaletteConfig   `yaml:"palette"`
	Parallel  ParallelConfig  `yaml:"parallel"`
	Headless  HeadlessConfig  `yaml:"headless"`
	Telemetry TelemetryConfig `yaml:"telemetry"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// ScreenConfig holds display settings.
type ScreenConfig struct {
	Width     int `yaml:"width"`
	Height    int `yaml:"height"`
	TargetFPS int `yaml:"target_fps"`
}

// TreeConfig holds the cone extents shared by every field.
type TreeConfig struct {
	Height float64 `yaml:"height"`
	Radius float64 `yaml:"radius"`
}

// ScatterConfig holds the extent of the scattered cloud.
type ScatterConfig struct {
	Radius float64 `yaml:"radius"`
}

// FoliageConfig holds point cloud parameters.
type FoliageConfig struct {
	Count            int     `yaml:"count"`
	RadiusOverflow   float64 `yaml:"radius_overflow"`   // Cone radius multiplier (slightly wider than ornaments)
	AngleJitter      float64 `yaml:"angle_jitter"`      // Max random offset added to the golden-angle spiral
	SizeMin          float64 `yaml:"size_min"`          // Base point size lower bound
	SizeRange        float64 `yaml:"size_range"`        // Added to SizeMin * u
	SparkleThreshold float64 `yaml:"sparkle_threshold"` // Seeds at or above this render with a hot core
	PointScale       float64 `yaml:"point_scale"`       // Perspective numerator: pixels = size * scale / depth
}

// OrnamentsConfig holds instanced mesh parameters.
type OrnamentsConfig struct {
	Count          int     `yaml:"count"`
	BoxFraction    float64 `yaml:"box_fraction"`     // Probability an ornament is a gift box
	RadialJitter   float64 `yaml:"radial_jitter"`    // r = maxR * (1 - j + 2j*u)
	BoxScaleMin    float64 `yaml:"box_scale_min"`
	BoxScaleRange  float64 `yaml:"box_scale_range"`
	BallScaleMin   float64 `yaml:"ball_scale_min"`
	BallScaleRange float64 `yaml:"ball_scale_range"`
	SpinRange      float64 `yaml:"spin_range"`      // rotation speed = (u - 0.5) * range
	BallFloat      float64 `yaml:"ball_float"`      // Vertical float amplitude for spheres
	BoxFloat       float64 `yaml:"box_float"`       // Vertical float amplitude for boxes
	BoxFloatFreq   float64 `yaml:"box_float_freq"`  // Box float frequency
	BoxSpinFactor  float64 `yaml:"box_spin_factor"` // Boxes spin slower than spheres
	BallGrowth     float64 `yaml:"ball_growth"`     // Sphere scale = s * (1 - g + g*ease)
}

// StarConfig holds tree topper parameters.
type StarConfig struct {
	Enabled        bool    `yaml:"enabled"`
	Points         int     `yaml:"points"`
	OuterRadius    float64 `yaml:"outer_radius"`
	InnerRadius    float64 `yaml:"inner_radius"`
	Depth          float64 `yaml:"depth"`
	HoverOffset    float64 `yaml:"hover_offset"` // Height above the tree apex
	BobAmplitude   float64 `yaml:"bob_amplitude"`
	BobFrequency   float64 `yaml:"bob_frequency"`
	SpinSpeed      float64 `yaml:"spin_speed"`
	ScaleRate      float64 `yaml:"scale_rate"`      // Damping rate of the appear/disappear scale
	ShowThreshold  float64 `yaml:"show_threshold"`  // Target progress above which the star is shown
	LightIntensity float64 `yaml:"light_intensity"` // Intensity at full scale
}

// MotionConfig holds the shared easing/damping model parameters.
type MotionConfig struct {
	DampingRate     float64 `yaml:"damping_rate"`     // Exponential smoothing rate (per second)
	InitialProgress float64 `yaml:"initial_progress"` // Starting eased progress of every field
	DriftSpeed      float64 `yaml:"drift_speed"`
	DriftAmplitude  float64 `yaml:"drift_amplitude"`  // Horizontal drift amplitude
	DriftLift       float64 `yaml:"drift_lift"`       // Vertical drift amplitude
	BreathAmplitude float64 `yaml:"breath_amplitude"`
	JitterAmplitude float64 `yaml:"jitter_amplitude"`
}

// SceneConfig holds scene composition parameters.
type SceneConfig struct {
	InitialState  string  `yaml:"initial_state"` // "tree" or "scattered"
	GroupOffsetY  float64 `yaml:"group_offset_y"`
	SpinTree      float64 `yaml:"spin_tree"`      // Group rotation speed while assembled (rad/s)
	SpinScattered float64 `yaml:"spin_scattered"` // Group rotation speed while scattered (rad/s)
	Background    string  `yaml:"background"`
}

// CameraConfig holds orbit camera parameters.
type CameraConfig struct {
	Distance        float64 `yaml:"distance"`
	Height          float64 `yaml:"height"`
	FovY            float64 `yaml:"fov_y"`
	MinDistance     float64 `yaml:"min_distance"`
	MaxDistance     float64 `yaml:"max_distance"`
	MaxPolar        float64 `yaml:"max_polar"`
	AutoRotateSpeed float64 `yaml:"auto_rotate_speed"`
	DampingFactor   float64 `yaml:"damping_factor"`
}

// BackdropConfig holds background star field parameters.
type BackdropConfig struct {
	Count  int     `yaml:"count"`
	Radius float64 `yaml:"radius"`
	Depth  float64 `yaml:"depth"`
}

// PaletteConfig holds hex colors for the scene.
type PaletteConfig struct {
	EmeraldDeep  string `yaml:"emerald_deep"`
	EmeraldLight string `yaml:"emerald_light"`
	GoldMetallic string `yaml:"gold_metallic"`
	GoldRose     string `yaml:"gold_rose"`
	Bronze       string `yaml:"bronze"`
	White        string `yaml:"white"`
	Glow         string `yaml:"glow"`
	// Ornament color draw list; repeated names weight the draw.
	Ornaments []string `yaml:"ornaments"`
}

// ParallelConfig holds worker pool parameters.
type ParallelConfig struct {
	Workers   int `yaml:"workers"`   // 0 = GOMAXPROCS
	Threshold int `yaml:"threshold"` // Minimum element count before splitting work
	ChunkSize int `yaml:"chunk_size"`
}

// HeadlessConfig holds fixed-step settings for runs without a window.
type HeadlessConfig struct {
	DT float64 `yaml:"dt"`
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	StatsWindow float64 `yaml:"stats_window"` // Seconds per stats window
	PerfWindow  int     `yaml:"perf_window"`  // Ticks averaged by the perf collector
	SettledEps  float64 `yaml:"settled_eps"`  // |target - progress| below this counts as settled
}

// DerivedConfig holds values computed from the loaded configuration.
type DerivedConfig struct {
	DT32 float32

	TreeHeight32    float32
	TreeRadius32    float32
	ScatterRadius32 float32

	// Parsed palette
	EmeraldDeep  colorful.Color
	EmeraldLight colorful.Color
	GoldMetallic colorful.Color
	GoldRose     colorful.Color
	Bronze       colorful.Color
	White        colorful.Color
	Glow         colorful.Color
	Background   colorful.Color

	// Weighted ornament palette in draw order
	OrnamentPalette []colorful.Color
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
		// Only overwrites fields present in file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}
	if err := cfg.computeDerived(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate rejects configurations the engines cannot run with.
func (c *Config) Validate() error {
	var errs []error
	if c.Foliage.Count < 0 {
		errs = append(errs, fmt.Errorf("foliage.count must be >= 0, got %d", c.Foliage.Count))
	}
	if c.Ornaments.Count < 0 {
		errs = append(errs, fmt.Errorf("ornaments.count must be >= 0, got %d", c.Ornaments.Count))
	}
	if c.Tree.Height <= 0 {
		errs = append(errs, fmt.Errorf("tree.height must be > 0, got %v", c.Tree.Height))
	}
	if c.Tree.Radius <= 0 {
		errs = append(errs, fmt.Errorf("tree.radius must be > 0, got %v", c.Tree.Radius))
	}
	if c.Scatter.Radius <= 0 {
		errs = append(errs, fmt.Errorf("scatter.radius must be > 0, got %v", c.Scatter.Radius))
	}
	if c.Motion.DampingRate <= 0 {
		errs = append(errs, fmt.Errorf("motion.damping_rate must be > 0, got %v", c.Motion.DampingRate))
	}
	if c.Motion.InitialProgress < 0 || c.Motion.InitialProgress > 1 {
		errs = append(errs, fmt.Errorf("motion.initial_progress must be in [0,1], got %v", c.Motion.InitialProgress))
	}
	if c.Ornaments.BoxFraction < 0 || c.Ornaments.BoxFraction > 1 {
		errs = append(errs, fmt.Errorf("ornaments.box_fraction must be in [0,1], got %v", c.Ornaments.BoxFraction))
	}
	if c.Scene.InitialState != "tree" && c.Scene.InitialState != "scattered" {
		errs = append(errs, fmt.Errorf("scene.initial_state must be tree or scattered, got %q", c.Scene.InitialState))
	}
	if c.Headless.DT <= 0 {
		errs = append(errs, fmt.Errorf("headless.dt must be > 0, got %v", c.Headless.DT))
	}
	return errors.Join(errs...)
}

// Refresh validates c and recomputes derived values after fields were edited
// in place.
func (c *Config) Refresh() error {
	if err := c.Validate(); err != nil {
		return fmt.Errorf("validating config: %w", err)
	}
	return c.computeDerived()
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() error {
	c.Derived.DT32 = float32(c.Headless.DT)
	c.Derived.TreeHeight32 = float32(c.Tree.Height)
	c.Derived.TreeRadius32 = float32(c.Tree.Radius)
	c.Derived.ScatterRadius32 = float32(c.Scatter.Radius)

	named := []struct {
		name string
		hex  string
		dst  *colorful.Color
	}{
		{"emerald_deep", c.Palette.EmeraldDeep, &c.Derived.EmeraldDeep},
		{"emerald_light", c.Palette.EmeraldLight, &c.Derived.EmeraldLight},
		{"gold_metallic", c.Palette.GoldMetallic, &c.Derived.GoldMetallic},
		{"gold_rose", c.Palette.GoldRose, &c.Derived.GoldRose},
		{"bronze", c.Palette.Bronze, &c.Derived.Bronze},
		{"white", c.Palette.White, &c.Derived.White},
		{"glow", c.Palette.Glow, &c.Derived.Glow},
		{"background", c.Scene.Background, &c.Derived.Background},
	}
	lookup := make(map[string]colorful.Color, len(named))
	for _, n := range named {
		col, err := colorful.Hex(n.hex)
		if err != nil {
			return fmt.Errorf("parsing palette color %s: %w", n.name, err)
		}
		*n.dst = col
		lookup[n.name] = col
	}

	// Ornament palette entries may be palette names or raw hex colors
	c.Derived.OrnamentPalette = make([]colorful.Color, 0, len(c.Palette.Ornaments)+1)
	for _, entry := range c.Palette.Ornaments {
		if col, ok := lookup[entry]; ok {
			c.Derived.OrnamentPalette = append(c.Derived.OrnamentPalette, col)
			continue
		}
		col, err := colorful.Hex(entry)
		if err != nil {
			return fmt.Errorf("parsing ornament palette entry %q: %w", entry, err)
		}
		c.Derived.OrnamentPalette = append(c.Derived.OrnamentPalette, col)
	}
	if len(c.Derived.OrnamentPalette) == 0 {
		c.Derived.OrnamentPalette = append(c.Derived.OrnamentPalette, c.Derived.GoldMetallic)
	}

	return nil
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
