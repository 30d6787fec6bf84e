// Command g3ddemo runs a small scene headlessly and writes a PNG preview of
// the last frame.
//
// Frames are submitted to an in-memory HAL device, so the demo exercises
// the full bake and render path without a window or GPU.
//
//	g3ddemo -frames 120 -output scene.png
//	g3ddemo -config scene.toml -v
package main

import (
	"context"
	"flag"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
	"github.com/gogpu/wgpu/hal/noop"
	"github.com/pkg/profile"

	"github.com/gogpu/g3d"
	"github.com/gogpu/g3d/app"
	"github.com/gogpu/g3d/bake"
	"github.com/gogpu/g3d/geometry"
	"github.com/gogpu/g3d/preview"
	"github.com/gogpu/g3d/render"
	"github.com/gogpu/g3d/transform"
	"github.com/gogpu/g3d/world"
)

func main() {
	var (
		configPath = flag.String("config", "", "TOML config file")
		frames     = flag.Int("frames", 90, "number of frames to run")
		output     = flag.String("output", "g3ddemo.png", "PNG preview of the last frame")
		policy     = flag.String("policy", "", "bake policy override: world or local")
		realtime   = flag.Bool("realtime", false, "advance simulation by wall-clock time")
		verbose    = flag.Bool("v", false, "debug logging")
		profileDir = flag.String("profile", "", "write a CPU profile to this directory")
	)
	flag.Parse()

	if *profileDir != "" {
		defer profile.Start(profile.CPUProfile, profile.ProfilePath(*profileDir), profile.NoShutdownHook).Stop()
	}

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	g3d.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	cfg := app.DefaultConfig()
	if *configPath != "" {
		var err error
		if cfg, err = app.LoadConfig(*configPath); err != nil {
			log.Fatal(err)
		}
	}
	if *policy != "" {
		cfg.BakePolicy = *policy
	}

	device, queue, cleanup, err := openDevice()
	if err != nil {
		log.Fatalf("open device: %v", err)
	}
	defer cleanup()

	renderer, err := render.New(device, queue, render.WithClearColor(cfg.Clear()))
	if err != nil {
		log.Fatalf("create renderer: %v", err)
	}
	defer renderer.Destroy()

	host := newHeadlessHost(device, cfg.Width, cfg.Height, *frames)
	defer host.destroy()

	scene := &demoScene{
		frames:  *frames,
		output:  *output,
		preview: preview.New(cfg.Width, cfg.Height),
		blink:   app.NewTimer(time.Second),
	}
	cfg.Update = scene.update
	cfg.Draw = scene.draw

	a, err := app.New(cfg, host, renderer)
	if err != nil {
		log.Fatal(err)
	}
	if err := scene.build(a.World); err != nil {
		log.Fatalf("build scene: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()
	if *realtime {
		err = a.Run(ctx)
	} else {
		// Headless frames advance by exactly one simulation step.
		for frame := 0; !host.Closed() && err == nil; frame++ {
			host.script(frame)
			err = a.Frame(ctx, cfg.FixedStep())
		}
	}
	if err != nil {
		log.Fatal(err)
	}
	log.Printf("ran %d frames (%d steps), preview saved to %s", a.Frames(), a.Steps(), *output)
}

// openDevice opens the first adapter of the in-memory HAL backend.
func openDevice() (hal.Device, hal.Queue, func(), error) {
	instance, err := noop.API{}.CreateInstance(nil)
	if err != nil {
		return nil, nil, nil, err
	}
	adapters := instance.EnumerateAdapters(nil)
	if len(adapters) == 0 {
		instance.Destroy()
		return nil, nil, nil, render.ErrNoDevice
	}
	open, err := adapters[0].Adapter.Open(0, gputypes.DefaultLimits())
	if err != nil {
		instance.Destroy()
		return nil, nil, nil, err
	}
	cleanup := func() {
		open.Device.Destroy()
		instance.Destroy()
	}
	return open.Device, open.Queue, cleanup, nil
}

// demoScene is a spinning cube carrying an orbiting sphere, whose child
// triangle is toggled every second, above a ground plane.
type demoScene struct {
	frames  int
	output  string
	preview *preview.Renderer
	blink   *app.Timer

	cube     world.ID
	sphere   world.ID
	triangle world.ID
}

func (s *demoScene) build(w *world.World) error {
	w.Spawn(world.FromGeometry("ground", geometry.Rectangle{Width: 8, Height: 8},
		transform.FromPosition(0, -1, 0).WithRotation(-90, 0, 0),
		[4]float32{0.3, 0.35, 0.3, 1}))

	s.cube = w.Spawn(world.FromGeometry("cube", geometry.Cube{Size: 1},
		transform.Identity(), [4]float32{0.9, 0.4, 0.2, 1}))

	var err error
	s.sphere, err = w.SpawnChild(s.cube, world.FromGeometry("moon", geometry.Sphere{Radius: 0.3, Subdivisions: 12},
		transform.FromPosition(1.5, 0, 0), [4]float32{0.6, 0.6, 0.9, 1}))
	if err != nil {
		return err
	}
	return s.spawnTriangle(w)
}

func (s *demoScene) spawnTriangle(w *world.World) error {
	var err error
	s.triangle, err = w.SpawnChild(s.sphere, world.FromGeometry("flag", geometry.Triangle{Base: 0.4, Height: 0.4},
		transform.FromPosition(0, 0.5, 0), [4]float32{1, 1, 0.2, 1}))
	return err
}

func (s *demoScene) update(a *app.App, dt time.Duration) error {
	secs := float32(dt.Seconds())
	if cube, ok := a.World.Get(s.cube); ok {
		cube.Transform.Rotate(0, 45*secs, 0)
	}
	if sphere, ok := a.World.Get(s.sphere); ok {
		sphere.Transform.Rotate(0, 0, 90*secs)
	}

	if s.blink.Update(dt) {
		s.blink.Reset()
		if a.World.Contains(s.triangle) {
			return a.World.Despawn(s.triangle)
		}
		return s.spawnTriangle(a.World)
	}
	return nil
}

func (s *demoScene) draw(a *app.App, out *bake.Output) error {
	if int(a.Frames()) != s.frames-1 {
		return nil
	}
	w, h := a.Size()
	s.preview.Resize(w, h)
	img, stats := s.preview.Render(out, a.Camera.ViewProjection())
	g3d.Logger().Info("preview",
		"triangles", stats.Triangles,
		"drawn", stats.Drawn,
		"clipped", stats.Clipped,
		"vertices", len(out.Vertices),
		"batches", len(out.Batches()))
	return preview.SavePNG(s.output, img)
}
