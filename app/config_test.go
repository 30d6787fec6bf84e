package app

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/gogpu/g3d/bake"
	"github.com/gogpu/g3d/camera"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("DefaultConfig invalid: %v", err)
	}
	if cfg.Title != "untitled" || cfg.Width != 800 || cfg.Height != 600 {
		t.Errorf("window = %q %dx%d", cfg.Title, cfg.Width, cfg.Height)
	}
	if got := cfg.FixedStep(); got < 16*time.Millisecond || got > 17*time.Millisecond {
		t.Errorf("FixedStep = %v, want ~16.67ms", got)
	}
	if cfg.Policy() != bake.PolicyWorldSpace {
		t.Errorf("Policy = %v, want world", cfg.Policy())
	}
	if cfg.Camera.Position != [3]float32(camera.DefaultPosition) {
		t.Errorf("camera position = %v", cfg.Camera.Position)
	}
	if c := cfg.Clear(); c.A != 1 {
		t.Errorf("clear alpha = %v, want 1", c.A)
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"narrow", func(c *Config) { c.Width = 249 }},
		{"short", func(c *Config) { c.Height = 0 }},
		{"zero delta", func(c *Config) { c.FixedDelta = 0 }},
		{"no steps", func(c *Config) { c.MaxStepsPerFrame = 0 }},
		{"bad policy", func(c *Config) { c.BakePolicy = "screen" }},
		{"clear out of range", func(c *Config) { c.ClearColor[2] = 1.5 }},
		{"clear NaN", func(c *Config) { c.ClearColor[0] = math.NaN() }},
		{"unknown camera mode", func(c *Config) { c.Camera.Mode = "orbit" }},
		{"pitch past vertical", func(c *Config) {
			c.Camera.Mode = CameraYawPitch
			c.Camera.Pitch = 90
		}},
		{"bad fov", func(c *Config) { c.Camera.FOV = 180 }},
		{"far before near", func(c *Config) { c.Camera.Far = 0.01 }},
		{"negative speed", func(c *Config) { c.MoveSpeed = -1 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			if err := cfg.Validate(); !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("Validate() = %v, want ErrInvalidConfig", err)
			}
		})
	}

	cfg := DefaultConfig()
	cfg.Width, cfg.Height = MinDimension, MinDimension
	if err := cfg.Validate(); err != nil {
		t.Errorf("minimum size rejected: %v", err)
	}
}

func TestParseConfig(t *testing.T) {
	data := []byte(`
title = "orbit"
width = 1024
height = 768
bake_policy = "local"
clear_color = [0.0, 0.0, 0.0, 1.0]

[camera]
position = [1.0, 2.0, 3.0]
fov = 60.0
`)
	cfg, err := ParseConfig(data)
	if err != nil {
		t.Fatalf("ParseConfig: %v", err)
	}
	if cfg.Title != "orbit" || cfg.Width != 1024 || cfg.Height != 768 {
		t.Errorf("window = %q %dx%d", cfg.Title, cfg.Width, cfg.Height)
	}
	if cfg.Policy() != bake.PolicyLocalSpace {
		t.Errorf("Policy = %v, want local", cfg.Policy())
	}
	if cfg.Camera.Position != [3]float32{1, 2, 3} || cfg.Camera.FOV != 60 {
		t.Errorf("camera = %+v", cfg.Camera)
	}
	// Keys not present keep their defaults.
	if cfg.Camera.Near != camera.DefaultNear || cfg.MaxStepsPerFrame != DefaultMaxSteps {
		t.Errorf("defaults lost: near=%v steps=%d", cfg.Camera.Near, cfg.MaxStepsPerFrame)
	}
}

func TestParseConfigCameraModes(t *testing.T) {
	cfg, err := ParseConfig([]byte(`
[camera]
mode = "yaw_pitch"
position = [0.0, 1.0, 0.0]
yaw = 90.0
pitch = -10.0
`))
	if err != nil {
		t.Fatalf("ParseConfig: %v", err)
	}
	cam := cfg.newCamera()
	if cam.LookAt || cam.Yaw != 90 || cam.Pitch != -10 {
		t.Errorf("camera LookAt=%v yaw=%v pitch=%v, want yaw/pitch mode 90/-10", cam.LookAt, cam.Yaw, cam.Pitch)
	}
	if f := cam.Forward(); !(f[0] > 0.9) || !(f[1] < 0) {
		t.Errorf("Forward = %v, want +X tilted down", f)
	}

	cfg, err = ParseConfig([]byte(`
[camera]
target = [1.0, 0.0, 0.0]
yaw = 45.0
`))
	if err != nil {
		t.Fatalf("ParseConfig: %v", err)
	}
	cam = cfg.newCamera()
	if !cam.LookAt || cam.Target != (mgl32.Vec3{1, 0, 0}) || cam.Yaw != 0 {
		t.Errorf("look_at camera = %+v, want target (1,0,0) and yaw ignored", cam)
	}
}

func TestParseConfigErrors(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"syntax", `width = `},
		{"unknown key", `fullscreen = true`},
		{"invalid value", `width = 100`},
		{"wrong type", `title = 3`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseConfig([]byte(tt.data)); !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("ParseConfig(%q) = %v, want ErrInvalidConfig", tt.data, err)
			}
		})
	}
}

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "g3d.toml")
	if err := os.WriteFile(path, []byte("title = \"file\"\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Title != "file" {
		t.Errorf("Title = %q", cfg.Title)
	}

	if _, err := LoadConfig(filepath.Join(t.TempDir(), "missing.toml")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("missing file error = %v, want ErrNotExist", err)
	}
}
