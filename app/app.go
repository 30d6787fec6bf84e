// Package app runs a scene: it owns the world, camera and input state,
// advances simulation with a fixed timestep, and bakes and submits one
// frame per iteration against a Host.
package app

import (
	"context"
	"fmt"
	"time"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/g3d"
	"github.com/gogpu/g3d/bake"
	"github.com/gogpu/g3d/camera"
	"github.com/gogpu/g3d/input"
	"github.com/gogpu/g3d/render"
	"github.com/gogpu/g3d/world"
)

// Host is the windowing collaborator. It supplies input events, the
// drawable size, and the texture each frame renders into.
type Host interface {
	Events() gpucontext.EventSource
	Size() (width, height int)

	// NextFrame returns the view to render the next frame into.
	NextFrame(ctx context.Context) (hal.TextureView, error)
	Present() error
	Closed() bool
}

// FrameRenderer submits baked frames. *render.Renderer implements it.
type FrameRenderer interface {
	Resize(width, height int) bool
	Render(target hal.TextureView, out *bake.Output, cam *camera.Camera) (render.FrameStats, error)
}

var _ FrameRenderer = (*render.Renderer)(nil)

// App is a running scene. World, Camera and Input may be used freely from
// the Update and Draw hooks; App is not safe for concurrent use.
type App struct {
	World  *world.World
	Camera *camera.Camera
	Input  *input.Tracker

	cfg      Config
	host     Host
	renderer FrameRenderer
	baker    *bake.Baker
	last     *bake.Output

	width  int
	height int
	accum  time.Duration
	frames uint64
	steps  uint64
	now    func() time.Time
}

// New validates cfg and creates an app on host. renderer may be nil, in
// which case frames are baked and passed to the Draw hook but nothing is
// submitted.
func New(cfg Config, host Host, renderer FrameRenderer) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if host == nil {
		return nil, fmt.Errorf("%w: nil host", ErrInvalidConfig)
	}
	events := host.Events()
	if events == nil {
		events = gpucontext.NullEventSource{}
	}
	a := &App{
		World:    world.New(),
		Camera:   cfg.newCamera(),
		Input:    input.NewTracker(events),
		cfg:      cfg,
		host:     host,
		renderer: renderer,
		baker:    bake.New(bake.WithPolicy(cfg.Policy())),
		width:    cfg.Width,
		height:   cfg.Height,
		now:      time.Now,
	}
	if renderer != nil {
		renderer.Resize(cfg.Width, cfg.Height)
	}
	return a, nil
}

// Config returns the configuration the app was created with.
func (a *App) Config() Config { return a.cfg }

// Baker returns the app's baker.
func (a *App) Baker() *bake.Baker { return a.baker }

// LastOutput returns the most recent bake, or nil before the first frame.
// It is overwritten by the next frame.
func (a *App) LastOutput() *bake.Output { return a.last }

// Frames returns the number of completed frames.
func (a *App) Frames() uint64 { return a.frames }

// Steps returns the number of simulation steps run.
func (a *App) Steps() uint64 { return a.steps }

// Size returns the current viewport size.
func (a *App) Size() (width, height int) { return a.width, a.height }

// Run drives frames until the host closes or ctx is canceled. It returns
// nil when the host closes and ctx.Err() on cancellation.
func (a *App) Run(ctx context.Context) error {
	g3d.Logger().Info("app: loop start",
		"title", a.cfg.Title,
		"width", a.width,
		"height", a.height,
		"policy", a.baker.Policy())
	defer func() {
		g3d.Logger().Info("app: loop stop", "frames", a.frames, "steps", a.steps)
	}()

	prev := a.now()
	for !a.host.Closed() {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		now := a.now()
		elapsed := now.Sub(prev)
		prev = now
		if err := a.Frame(ctx, elapsed); err != nil {
			return err
		}
	}
	return nil
}

// Frame runs one iteration: resize handling, mouse look, up to
// MaxStepsPerFrame fixed simulation steps covering elapsed, then bake,
// Draw hook and submission.
func (a *App) Frame(ctx context.Context, elapsed time.Duration) error {
	a.handleResize()
	a.mouseLook()

	if err := a.advance(elapsed); err != nil {
		return err
	}

	out, err := a.baker.Bake(a.World)
	if err != nil {
		return fmt.Errorf("app: frame %d: %w", a.frames, err)
	}
	a.last = out
	if a.cfg.Draw != nil {
		if err := a.cfg.Draw(a, out); err != nil {
			return fmt.Errorf("app: draw: %w", err)
		}
	}

	if a.renderer != nil {
		if err := a.submit(ctx, out); err != nil {
			return err
		}
	}

	a.Input.EndFrame()
	a.frames++
	return nil
}

func (a *App) submit(ctx context.Context, out *bake.Output) error {
	target, err := a.host.NextFrame(ctx)
	if err != nil {
		return fmt.Errorf("app: next frame: %w", err)
	}
	stats, err := a.renderer.Render(target, out, a.Camera)
	if err != nil {
		return fmt.Errorf("app: %w", err)
	}
	if err := a.host.Present(); err != nil {
		return fmt.Errorf("app: present: %w", err)
	}
	g3d.Logger().Debug("app: frame",
		"frame", a.frames,
		"batches", stats.Batches,
		"triangles", out.TriangleCount())
	return nil
}

// advance runs fixed steps for the accumulated time. Whole steps beyond
// MaxStepsPerFrame are dropped; the fractional remainder carries over.
func (a *App) advance(elapsed time.Duration) error {
	step := a.cfg.FixedStep()
	a.accum += max(elapsed, 0)
	dt := float32(step.Seconds())

	for n := 0; a.accum >= step; n++ {
		if n == a.cfg.MaxStepsPerFrame {
			dropped := a.accum / step
			a.accum %= step
			g3d.Logger().Debug("app: dropping simulation steps", "dropped", int64(dropped))
			break
		}
		a.Camera.HandleDefaultInput(a.Input, a.cfg.MoveSpeed, dt)
		if a.cfg.Update != nil {
			if err := a.cfg.Update(a, step); err != nil {
				return fmt.Errorf("app: update: %w", err)
			}
		}
		a.accum -= step
		a.steps++
	}
	return nil
}

func (a *App) handleResize() {
	w, h := a.host.Size()
	if w == a.width && h == a.height {
		return
	}
	if w <= 0 || h <= 0 {
		g3d.Logger().Warn("app: ignoring zero-size resize", "width", w, "height", h)
		return
	}
	a.width, a.height = w, h
	a.Camera.SetViewport(w, h)
	if a.renderer != nil {
		a.renderer.Resize(w, h)
	}
	g3d.Logger().Debug("app: resized", "width", w, "height", h)
}

// mouseLook turns the camera by the pointer motion while the right button
// is held.
func (a *App) mouseLook() {
	if !a.Input.ButtonPressed(gpucontext.MouseButtonRight) {
		return
	}
	dx, dy := a.Input.PointerDelta()
	if dx == 0 && dy == 0 {
		return
	}
	s := a.cfg.MouseSensitivity
	a.Camera.Rotate(float32(dx)*s, -float32(dy)*s, true)
}
