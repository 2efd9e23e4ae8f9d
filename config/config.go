package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/Carmen-Shannon/oxy-chase/engine/camera"
	"github.com/Carmen-Shannon/oxy-chase/engine/game"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Timestep policy names accepted in configuration.
const (
	TimestepFixed    = "fixed"
	TimestepVariable = "variable"
)

// Environment variables read by Load. They override the file.
const (
	EnvWidth      = "OXY_WIDTH"
	EnvHeight     = "OXY_HEIGHT"
	EnvTimestep   = "OXY_TIMESTEP"
	EnvTickRate   = "OXY_TICK_RATE"
	EnvDebugAddr  = "OXY_DEBUG_ADDR"
	EnvFrames     = "OXY_FRAMES"
	EnvCameraMode = "OXY_CAMERA_MODE"
	EnvProfile    = "OXY_PROFILE"
)

// DefaultEnvFile is read by Load when no env files are named. A missing file is not an error.
const DefaultEnvFile = ".env"

// Config is the complete runtime configuration of the game and the smoke harness.
type Config struct {
	Window   WindowConfig   `yaml:"window"`
	Timestep TimestepConfig `yaml:"timestep"`
	Camera   CameraConfig   `yaml:"camera"`
	Debug    DebugConfig    `yaml:"debug"`
	Assets   AssetsConfig   `yaml:"assets"`
	Log      LogConfig      `yaml:"log"`
	Game     game.Tuning    `yaml:"game"`

	// Frames is the number of frames the smoke harness renders; 0 runs until closed.
	Frames  int  `yaml:"frames"`
	Profile bool `yaml:"profile"`
}

type WindowConfig struct {
	Title  string  `yaml:"title"`
	Width  int     `yaml:"width"`
	Height int     `yaml:"height"`
	MaxFPS float64 `yaml:"maxFPS"`
	VSync  bool    `yaml:"vsync"`
	MSAA   int     `yaml:"msaa"`
	// ForceSoftware requests a fallback adapter.
	ForceSoftware bool `yaml:"forceSoftware"`

	// Size limits the user can resize to. Zero keeps the window default.
	MinWidth  int `yaml:"minWidth"`
	MinHeight int `yaml:"minHeight"`
	MaxWidth  int `yaml:"maxWidth"`
	MaxHeight int `yaml:"maxHeight"`
}

type TimestepConfig struct {
	Mode     string  `yaml:"mode"`
	TickRate float64 `yaml:"tickRate"`
}

type CameraConfig struct {
	Mode     camera.Mode `yaml:"mode"`
	Distance float32     `yaml:"distance"`
}

// DebugConfig enables the snapshot feed when Addr is set.
type DebugConfig struct {
	Addr string `yaml:"addr"`
}

// AssetsConfig names mesh files that replace built-in placeholders.
type AssetsConfig struct {
	Dir    string `yaml:"dir"`
	Player string `yaml:"player"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Default returns the configuration used when nothing overrides it.
func Default() Config {
	return Config{
		Window: WindowConfig{
			Title:  "oxy-chase",
			Width:  1280,
			Height: 720,
			VSync:  true,
			MSAA:   4,
		},
		Timestep: TimestepConfig{Mode: TimestepFixed, TickRate: 60},
		Camera:   CameraConfig{Mode: camera.ModeOrbit, Distance: 14},
		Assets:   AssetsConfig{Dir: "assets", Player: "bunny.yaml"},
		Log:      LogConfig{Level: "info", Format: "text"},
		Game:     game.DefaultTuning(),
		Frames:   60,
	}
}

// Load builds a Config from defaults, an optional YAML file, env files and OXY_* variables,
// in that order of increasing precedence, and validates the result.
//
// Parameters:
//   - path: YAML file to read; empty skips the file
//   - envFiles: dotenv files to load; none means DefaultEnvFile if it exists
//
// Returns:
//   - Config: the loaded configuration
//   - error: a read or decode error, or a *ValidationError
func Load(path string, envFiles ...string) (Config, error) {
	cfg := Default()

	if path != "" {
		f, err := os.Open(path)
		if err != nil {
			return cfg, fmt.Errorf("open config: %w", err)
		}
		err = Decode(f, &cfg)
		f.Close()
		if err != nil {
			return cfg, fmt.Errorf("decode config %s: %w", path, err)
		}
	}

	if err := loadEnvFiles(envFiles); err != nil {
		return cfg, err
	}

	verr := &ValidationError{}
	applyEnv(&cfg, verr)
	if len(verr.Problems) > 0 {
		return cfg, verr
	}
	return cfg, cfg.Validate()
}

// Decode reads YAML from r into cfg, keeping values the document does not mention.
// Unknown fields are rejected. An empty document is not an error.
func Decode(r io.Reader, cfg *Config) error {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

func loadEnvFiles(files []string) error {
	if len(files) == 0 {
		if err := godotenv.Load(DefaultEnvFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("load %s: %w", DefaultEnvFile, err)
		}
		return nil
	}
	if err := godotenv.Load(files...); err != nil {
		return fmt.Errorf("load env files: %w", err)
	}
	return nil
}

// applyEnv copies OXY_* overrides into cfg. Unparseable values are recorded in verr.
func applyEnv(cfg *Config, verr *ValidationError) {
	lookup := func(key string) (string, bool) {
		v, ok := os.LookupEnv(key)
		v = strings.TrimSpace(v)
		return v, ok && v != ""
	}
	parseInt := func(key string, dst *int) {
		if v, ok := lookup(key); ok {
			n, err := strconv.Atoi(v)
			if err != nil {
				verr.add(key, fmt.Sprintf("not an integer: %q", v))
				return
			}
			*dst = n
		}
	}

	parseInt(EnvWidth, &cfg.Window.Width)
	parseInt(EnvHeight, &cfg.Window.Height)
	parseInt(EnvFrames, &cfg.Frames)

	if v, ok := lookup(EnvTimestep); ok {
		cfg.Timestep.Mode = strings.ToLower(v)
	}
	if v, ok := lookup(EnvTickRate); ok {
		hz, err := strconv.ParseFloat(v, 64)
		if err != nil {
			verr.add(EnvTickRate, fmt.Sprintf("not a number: %q", v))
		} else {
			cfg.Timestep.TickRate = hz
		}
	}
	if v, ok := lookup(EnvDebugAddr); ok {
		cfg.Debug.Addr = v
	}
	if v, ok := lookup(EnvCameraMode); ok {
		cfg.Camera.Mode = camera.Mode(strings.ToLower(v))
	}
	if v, ok := lookup(EnvProfile); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			verr.add(EnvProfile, fmt.Sprintf("not a boolean: %q", v))
		} else {
			cfg.Profile = b
		}
	}
}

// validateLimits checks the optional resize limits against each other and the initial size.
func (w WindowConfig) validateLimits(verr *ValidationError) {
	axes := []struct {
		name         string
		size, lo, hi int
		loKey, hiKey string
	}{
		{"width", w.Width, w.MinWidth, w.MaxWidth, "window.minWidth", "window.maxWidth"},
		{"height", w.Height, w.MinHeight, w.MaxHeight, "window.minHeight", "window.maxHeight"},
	}
	for _, a := range axes {
		if a.lo < 0 {
			verr.add(a.loKey, fmt.Sprintf("must not be negative, got %d", a.lo))
		}
		if a.hi < 0 {
			verr.add(a.hiKey, fmt.Sprintf("must not be negative, got %d", a.hi))
		}
		if a.lo > 0 && a.hi > 0 && a.lo > a.hi {
			verr.add(a.loKey, fmt.Sprintf("%d is larger than %s %d", a.lo, a.hiKey, a.hi))
			continue
		}
		if a.lo > 0 && a.size > 0 && a.size < a.lo {
			verr.add("window."+a.name, fmt.Sprintf("%d is below %s %d", a.size, a.loKey, a.lo))
		}
		if a.hi > 0 && a.size > a.hi {
			verr.add("window."+a.name, fmt.Sprintf("%d is above %s %d", a.size, a.hiKey, a.hi))
		}
	}
}

// Validate checks every field and reports all problems at once.
//
// Returns:
//   - error: a *ValidationError, or nil if the configuration is usable
func (c Config) Validate() error {
	verr := &ValidationError{}
	if c.Window.Width <= 0 {
		verr.add("window.width", fmt.Sprintf("must be positive, got %d", c.Window.Width))
	}
	if c.Window.Height <= 0 {
		verr.add("window.height", fmt.Sprintf("must be positive, got %d", c.Window.Height))
	}
	if c.Window.MaxFPS < 0 {
		verr.add("window.maxFPS", fmt.Sprintf("must not be negative, got %v", c.Window.MaxFPS))
	}
	c.Window.validateLimits(verr)
	switch c.Window.MSAA {
	case 1, 4, 8, 16:
	default:
		verr.add("window.msaa", fmt.Sprintf("must be 1, 4, 8 or 16, got %d", c.Window.MSAA))
	}

	switch c.Timestep.Mode {
	case TimestepFixed:
		if !(c.Timestep.TickRate > 0) {
			verr.add("timestep.tickRate", fmt.Sprintf("must be positive, got %v", c.Timestep.TickRate))
		}
	case TimestepVariable:
	default:
		verr.add("timestep.mode", fmt.Sprintf("must be %q or %q, got %q", TimestepFixed, TimestepVariable, c.Timestep.Mode))
	}

	switch c.Camera.Mode {
	case camera.ModeFixed, camera.ModeOrbit:
	default:
		verr.add("camera.mode", fmt.Sprintf("must be %q or %q, got %q", camera.ModeFixed, camera.ModeOrbit, c.Camera.Mode))
	}
	if c.Camera.Distance < 0 {
		verr.add("camera.distance", fmt.Sprintf("must not be negative, got %v", c.Camera.Distance))
	}

	if c.Frames < 0 {
		verr.add("frames", fmt.Sprintf("must not be negative, got %d", c.Frames))
	}

	if err := c.Game.Validate(); err != nil {
		for _, line := range strings.Split(err.Error(), "\n") {
			verr.add("game", line)
		}
	}

	if len(verr.Problems) == 0 {
		return nil
	}
	return verr
}
