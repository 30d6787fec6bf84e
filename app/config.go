package app

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/gogpu/gputypes"
	"github.com/pelletier/go-toml/v2"

	"github.com/gogpu/g3d/bake"
	"github.com/gogpu/g3d/camera"
)

// Window defaults.
const (
	DefaultTitle  = "untitled"
	DefaultWidth  = 800
	DefaultHeight = 600

	// MinDimension is the smallest accepted window width or height.
	MinDimension = 250

	// DefaultFixedDelta is the simulation step in seconds (60 Hz).
	DefaultFixedDelta = 1.0 / 60.0

	// DefaultMaxSteps bounds the simulation steps run for one frame so a
	// long stall does not spiral.
	DefaultMaxSteps = 5

	DefaultMoveSpeed        = 5.0
	DefaultMouseSensitivity = 0.2
)

// ErrInvalidConfig is returned by Validate and the loaders.
var ErrInvalidConfig = errors.New("app: invalid config")

// Camera orientation modes.
const (
	CameraLookAt   = "look_at"
	CameraYawPitch = "yaw_pitch"
)

// CameraConfig is the initial camera pose. Mode selects which orientation
// keys apply: Target for look_at, Yaw and Pitch for yaw_pitch.
type CameraConfig struct {
	Mode     string     `toml:"mode"`
	Position [3]float32 `toml:"position"`
	Target   [3]float32 `toml:"target"`
	Yaw      float32    `toml:"yaw"`
	Pitch    float32    `toml:"pitch"`
	FOV      float32    `toml:"fov"`
	Near     float32    `toml:"near"`
	Far      float32    `toml:"far"`
}

// UpdateFunc runs once per fixed simulation step.
type UpdateFunc func(a *App, dt time.Duration) error

// DrawFunc runs once per frame after the world is baked and before the
// output is submitted.
type DrawFunc func(a *App, out *bake.Output) error

// Config holds everything needed to run an App. The zero value is not
// usable; start from DefaultConfig.
type Config struct {
	Title  string `toml:"title"`
	Width  int    `toml:"width"`
	Height int    `toml:"height"`

	// FixedDelta is the simulation step in seconds.
	FixedDelta       float64 `toml:"fixed_delta"`
	MaxStepsPerFrame int     `toml:"max_steps_per_frame"`

	// BakePolicy is "world" or "local"; see bake.ParsePolicy.
	BakePolicy string     `toml:"bake_policy"`
	ClearColor [4]float64 `toml:"clear_color"`

	Camera           CameraConfig `toml:"camera"`
	MoveSpeed        float32      `toml:"move_speed"`
	MouseSensitivity float32      `toml:"mouse_sensitivity"`

	Update UpdateFunc `toml:"-"`
	Draw   DrawFunc   `toml:"-"`
}

// DefaultConfig returns the default configuration: an 800x600 window,
// 60 Hz simulation, world-space baking and the default camera pose.
func DefaultConfig() Config {
	return Config{
		Title:            DefaultTitle,
		Width:            DefaultWidth,
		Height:           DefaultHeight,
		FixedDelta:       DefaultFixedDelta,
		MaxStepsPerFrame: DefaultMaxSteps,
		BakePolicy:       bake.PolicyWorldSpace.String(),
		ClearColor:       [4]float64{0.1, 0.1, 0.15, 1},
		Camera: CameraConfig{
			Mode:     CameraLookAt,
			Position: camera.DefaultPosition,
			FOV:      camera.DefaultFOV,
			Near:     camera.DefaultNear,
			Far:      camera.DefaultFar,
		},
		MoveSpeed:        DefaultMoveSpeed,
		MouseSensitivity: DefaultMouseSensitivity,
	}
}

// Validate reports the first invalid field.
func (c *Config) Validate() error {
	if c.Width < MinDimension || c.Height < MinDimension {
		return fmt.Errorf("%w: size %dx%d below minimum %d", ErrInvalidConfig, c.Width, c.Height, MinDimension)
	}
	if !(c.FixedDelta > 0) || math.IsInf(c.FixedDelta, 0) {
		return fmt.Errorf("%w: fixed_delta %v must be positive", ErrInvalidConfig, c.FixedDelta)
	}
	if c.MaxStepsPerFrame < 1 {
		return fmt.Errorf("%w: max_steps_per_frame %d must be at least 1", ErrInvalidConfig, c.MaxStepsPerFrame)
	}
	if _, err := bake.ParsePolicy(c.BakePolicy); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	for i, v := range c.ClearColor {
		if !(v >= 0 && v <= 1) {
			return fmt.Errorf("%w: clear_color[%d] = %v outside [0, 1]", ErrInvalidConfig, i, v)
		}
	}
	switch c.Camera.Mode {
	case "", CameraLookAt:
	case CameraYawPitch:
		if math.IsNaN(float64(c.Camera.Yaw)) || math.IsInf(float64(c.Camera.Yaw), 0) {
			return fmt.Errorf("%w: camera yaw %v", ErrInvalidConfig, c.Camera.Yaw)
		}
		if !(c.Camera.Pitch >= -camera.MaxPitch && c.Camera.Pitch <= camera.MaxPitch) {
			return fmt.Errorf("%w: camera pitch %v outside ±%v", ErrInvalidConfig, c.Camera.Pitch, camera.MaxPitch)
		}
	default:
		return fmt.Errorf("%w: camera mode %q, want %q or %q", ErrInvalidConfig, c.Camera.Mode, CameraLookAt, CameraYawPitch)
	}
	if err := c.newCamera().Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if c.MoveSpeed < 0 {
		return fmt.Errorf("%w: move_speed %v is negative", ErrInvalidConfig, c.MoveSpeed)
	}
	return nil
}

// FixedStep returns FixedDelta as a duration.
func (c *Config) FixedStep() time.Duration {
	return time.Duration(c.FixedDelta * float64(time.Second))
}

// Policy returns the parsed bake policy. Call Validate first.
func (c *Config) Policy() bake.Policy {
	p, _ := bake.ParsePolicy(c.BakePolicy)
	return p
}

// Clear returns ClearColor as a GPU color.
func (c *Config) Clear() gputypes.Color {
	return gputypes.Color{R: c.ClearColor[0], G: c.ClearColor[1], B: c.ClearColor[2], A: c.ClearColor[3]}
}

func (c *Config) newCamera() *camera.Camera {
	cam := camera.New(float32(c.Width) / float32(c.Height))
	cam.Position = mgl32.Vec3(c.Camera.Position)
	if c.Camera.Mode == CameraYawPitch {
		cam.Yaw = c.Camera.Yaw
		cam.Pitch = c.Camera.Pitch
		cam.LookAt = false
	} else {
		cam.SetTarget(mgl32.Vec3(c.Camera.Target))
	}
	cam.FOV = c.Camera.FOV
	cam.Near = c.Camera.Near
	cam.Far = c.Camera.Far
	return cam
}

// ParseConfig decodes TOML on top of DefaultConfig and validates the
// result. Unknown keys are rejected.
func ParseConfig(data []byte) (Config, error) {
	return decodeConfig(bytes.NewReader(data))
}

// LoadConfig reads and parses a TOML config file.
func LoadConfig(path string) (Config, error) {
	f, err := os.Open(path) //nolint:gosec // path is caller-provided
	if err != nil {
		return Config{}, fmt.Errorf("load config: %w", err)
	}
	defer func() {
		_ = f.Close()
	}()
	cfg, err := decodeConfig(f)
	if err != nil {
		return Config{}, fmt.Errorf("load config %s: %w", path, err)
	}
	return cfg, nil
}

func decodeConfig(r io.Reader) (Config, error) {
	cfg := DefaultConfig()
	dec := toml.NewDecoder(r).DisallowUnknownFields()
	if err := dec.Decode(&cfg); err != nil {
		return Config{}, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
