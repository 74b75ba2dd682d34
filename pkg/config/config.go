package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Environment overrides applied after the file is read. They are never
// written back to disk.
const (
	EnvSeed     = "LANDERSIM_SEED"
	EnvLogLevel = "LANDERSIM_LOG_LEVEL"
)

// Config holds the simulator configuration.
type Config struct {
	Log     LogConfig     `yaml:"log"`
	Physics PhysicsConfig `yaml:"physics"`
	Terrain TerrainConfig `yaml:"terrain"`
	Sites   SitesConfig   `yaml:"sites"`
	Sensor  SensorConfig  `yaml:"sensor"`
	Contact ContactConfig `yaml:"contact"`
	Vehicle VehicleConfig `yaml:"vehicle"`
	Run     RunConfig     `yaml:"run"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Sim LogSettings `yaml:"sim"`
}

// LogSettings holds settings for a specific log file.
type LogSettings struct {
	Path  string `yaml:"path"`
	Level string `yaml:"level"` // DEBUG, INFO, WARN, ERROR
}

// PhysicsConfig holds the fixed-step engine settings.
type PhysicsConfig struct {
	Step            Duration `yaml:"step"`
	SensorStep      Duration `yaml:"sensor_step"`
	MaxSubSteps     int      `yaml:"max_sub_steps"`
	Gravity         float64  `yaml:"gravity"`
	SegmentStep     Distance `yaml:"segment_step"`
	HalfWidth       Distance `yaml:"half_width"`
	TerrainFriction float64  `yaml:"terrain_friction"`
}

// TerrainConfig holds the procedural generator settings.
type TerrainConfig struct {
	Seed           int64    `yaml:"seed"`
	BaseResolution Distance `yaml:"base_resolution"`
	ChunkElements  int      `yaml:"chunk_elements"`

	BaseHeight     float64 `yaml:"base_height"`
	MacroAmplitude float64 `yaml:"macro_amplitude"`
	MacroFrequency float64 `yaml:"macro_frequency"`

	StructureAmplitude   float64 `yaml:"structure_amplitude"`
	StructureFrequency   float64 `yaml:"structure_frequency"`
	StructureOctaves     int     `yaml:"structure_octaves"`
	StructurePersistence float64 `yaml:"structure_persistence"`
	StructureLacunarity  float64 `yaml:"structure_lacunarity"`
	RidgeMix             float64 `yaml:"ridge_mix"`

	WarpAmplitude float64 `yaml:"warp_amplitude"`
	WarpFrequency float64 `yaml:"warp_frequency"`

	FeatureCellSize Distance `yaml:"feature_cell_size"`
	FeatureDensity  float64  `yaml:"feature_density"`
}

// SitesConfig controls the seeded landing-site layout.
type SitesConfig struct {
	Enabled  bool `yaml:"enabled"`
	EachSide int  `yaml:"each_side"`
}

// SensorConfig holds radar and proximity settings.
type SensorConfig struct {
	RadarInner        Distance `yaml:"radar_inner"`
	RadarOuter        Distance `yaml:"radar_outer"`
	ProximityRange    Distance `yaml:"proximity_range"`
	ProximityCapacity int      `yaml:"proximity_capacity"`
	ProximityQuantize Distance `yaml:"proximity_quantize"`
}

// ContactConfig holds the landing thresholds.
type ContactConfig struct {
	SafeSpeed    float64 `yaml:"safe_speed"`
	SafeAngleDeg float64 `yaml:"safe_angle_deg"`
}

// VehicleConfig describes the lander hull and engine.
type VehicleConfig struct {
	Width          float64 `yaml:"width"`
	Height         float64 `yaml:"height"`
	DryMass        float64 `yaml:"dry_mass"`
	FuelDensity    float64 `yaml:"fuel_density"`
	MaxFuel        float64 `yaml:"max_fuel"`
	BurnRate       float64 `yaml:"burn_rate"`
	MaxPower       float64 `yaml:"max_power"`
	IncreaseRate   float64 `yaml:"increase_rate"`
	DecreaseRate   float64 `yaml:"decrease_rate"`
	MaxRotationDeg float64 `yaml:"max_rotation_deg"`
	RefuelRate     float64 `yaml:"refuel_rate"`
	// Hull lists convex polygons as [x, y] pairs around the body origin.
	// Empty uses the width x height box.
	Hull [][][]float64 `yaml:"hull,omitempty"`
}

// RunConfig controls the headless runner.
type RunConfig struct {
	Duration  Duration `yaml:"duration"`
	FrameStep Duration `yaml:"frame_step"`
	StartX    float64  `yaml:"start_x"`
	StartY    float64  `yaml:"start_y"` // height above the terrain at start_x
	Pilot     string   `yaml:"pilot"`   // "descent", "none"
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Log: LogConfig{
			Sim: LogSettings{
				Path:  "logs/landersim.log",
				Level: "INFO",
			},
		},
		Physics: PhysicsConfig{
			Step:            Duration(time.Second / 120),
			SensorStep:      Duration(time.Second / 60),
			MaxSubSteps:     8,
			Gravity:         9.8,
			SegmentStep:     10,
			HalfWidth:       12000,
			TerrainFriction: 0.8,
		},
		Terrain: TerrainConfig{
			Seed:                 1337,
			BaseResolution:       10,
			ChunkElements:        100,
			MacroAmplitude:       900,
			MacroFrequency:       0.00008,
			StructureAmplitude:   1800,
			StructureFrequency:   0.00023,
			StructureOctaves:     4,
			StructurePersistence: 0.45,
			StructureLacunarity:  2.1,
			RidgeMix:             0.55,
			WarpAmplitude:        450,
			WarpFrequency:        0.00015,
			FeatureCellSize:      900,
			FeatureDensity:       0.38,
		},
		Sites: SitesConfig{
			Enabled:  true,
			EachSide: 8,
		},
		Sensor: SensorConfig{
			RadarInner:        1000,
			RadarOuter:        2000,
			ProximityRange:    500,
			ProximityCapacity: 256,
			ProximityQuantize: 1,
		},
		Contact: ContactConfig{
			SafeSpeed:    10,
			SafeAngleDeg: 15,
		},
		Vehicle: VehicleConfig{
			Width:          8,
			Height:         8,
			DryMass:        1,
			FuelDensity:    0.01,
			MaxFuel:        100,
			BurnRate:       1,
			MaxPower:       50,
			IncreaseRate:   2,
			DecreaseRate:   4,
			MaxRotationDeg: 90,
			RefuelRate:     1,
		},
		Run: RunConfig{
			Duration:  Duration(2 * time.Minute),
			FrameStep: Duration(time.Second / 60),
			StartX:    0,
			StartY:    400,
			Pilot:     "descent",
		},
	}
}

// Load loads the configuration from the given path.
// If the file does not exist, it creates it with default values.
// If the file exists, values are merged over the defaults and the file is
// left untouched.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create config directory: %w", err)
	}

	if _, err := os.Stat(path); err == nil {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	} else if err := Save(path, cfg); err != nil {
		return nil, fmt.Errorf("failed to save config file: %w", err)
	}

	if err := applyEnv(cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) error {
	if s := strings.TrimSpace(os.Getenv(EnvSeed)); s != "" {
		seed, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid %s %q: %w", EnvSeed, s, err)
		}
		cfg.Terrain.Seed = seed
	}
	if lvl := strings.TrimSpace(os.Getenv(EnvLogLevel)); lvl != "" {
		cfg.Log.Sim.Level = strings.ToUpper(lvl)
	}
	return nil
}

// Validate rejects settings the simulator cannot run with.
func (c *Config) Validate() error {
	if c.Physics.Step <= 0 {
		return fmt.Errorf("physics.step must be positive, got %s", time.Duration(c.Physics.Step))
	}
	if c.Physics.SensorStep <= 0 {
		return fmt.Errorf("physics.sensor_step must be positive, got %s", time.Duration(c.Physics.SensorStep))
	}
	if c.Sensor.RadarOuter < c.Sensor.RadarInner {
		return fmt.Errorf("sensor.radar_outer (%.0f) is inside radar_inner (%.0f)", float64(c.Sensor.RadarOuter), float64(c.Sensor.RadarInner))
	}
	for i, poly := range c.Vehicle.Hull {
		if len(poly) < 3 {
			return fmt.Errorf("vehicle.hull[%d] needs at least 3 points, got %d", i, len(poly))
		}
		for j, pt := range poly {
			if len(pt) != 2 {
				return fmt.Errorf("vehicle.hull[%d][%d] must be an [x, y] pair", i, j)
			}
		}
	}
	switch c.Run.Pilot {
	case "descent", "none":
	default:
		return fmt.Errorf("invalid run.pilot '%s': must be 'descent' or 'none'", c.Run.Pilot)
	}
	return nil
}

// Save writes the configuration to the path.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	header := []byte(`# landersim Configuration
# ----------------------
# Supported Units:
#   Duration: ns, us (or µs), ms, s, m, h, d (day), w (week)
#   Distance: m (world units), km, nm, ft

`)
	data = append(header, data...)

	rePilot := regexp.MustCompile(`(?m)^(\s+)pilot:`)
	data = rePilot.ReplaceAll(data, []byte("${1}# Options: descent, none\n${1}pilot:"))

	reSeed := regexp.MustCompile(`(?m)^(\s+)seed:`)
	data = reSeed.ReplaceAll(data, []byte("${1}# Overridden by "+EnvSeed+"\n${1}seed:"))

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// GenerateDefault creates a default config file at the given path.
// Returns nil if the file already exists.
func GenerateDefault(path string) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	return Save(path, DefaultConfig())
}
