package camera

import (
	"errors"
	"testing"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/gogpu/gpucontext"

	"github.com/gogpu/g3d/internal/mathtest"
)

type keySet map[gpucontext.Key]bool

func (k keySet) Pressed(key gpucontext.Key) bool { return k[key] }

func project(m mgl32.Mat4, p mgl32.Vec3) mgl32.Vec3 {
	v := m.Mul4x1(p.Vec4(1))
	return v.Vec3().Mul(1 / v[3])
}

func TestProjectionDepthRange(t *testing.T) {
	c := New(1)
	c.Position = mgl32.Vec3{}
	c.SetTarget(mgl32.Vec3{0, 0, -1})

	vp := c.ViewProjection()
	near := project(vp, mgl32.Vec3{0, 0, -c.Near})
	far := project(vp, mgl32.Vec3{0, 0, -c.Far})

	if math32.Abs(near[2]) > 1e-4 {
		t.Errorf("near plane depth = %v, want 0", near[2])
	}
	if math32.Abs(far[2]-1) > 1e-4 {
		t.Errorf("far plane depth = %v, want 1", far[2])
	}
}

func TestTargetProjectsToCenter(t *testing.T) {
	c := New(4.0 / 3.0)
	got := project(c.ViewProjection(), c.Target)
	if math32.Abs(got[0]) > 1e-5 || math32.Abs(got[1]) > 1e-5 {
		t.Errorf("target NDC = %v, want center", got)
	}
	if got[2] <= 0 || got[2] >= 1 {
		t.Errorf("target depth = %v, want within (0,1)", got[2])
	}
}

func TestViewAxes(t *testing.T) {
	c := New(1)
	c.Position = mgl32.Vec3{}
	c.SetTarget(mgl32.Vec3{0, 0, -1})
	v := c.View()

	tests := []struct {
		world mgl32.Vec3
		view  mgl32.Vec3
	}{
		{mgl32.Vec3{1, 0, 0}, mgl32.Vec3{1, 0, 0}},  // right
		{mgl32.Vec3{0, 1, 0}, mgl32.Vec3{0, 1, 0}},  // up
		{mgl32.Vec3{0, 0, -1}, mgl32.Vec3{0, 0, 1}}, // forward is +Z in view space
	}
	for _, tt := range tests {
		got := mgl32.TransformCoordinate(tt.world, v)
		if !mathtest.Vec3Near(got, tt.view, 1e-5) {
			t.Errorf("View * %v = %v, want %v", tt.world, got, tt.view)
		}
	}
}

func TestYawPitchDirection(t *testing.T) {
	tests := []struct {
		yaw, pitch float32
		want       mgl32.Vec3
	}{
		{0, 0, mgl32.Vec3{0, 0, -1}},
		{90, 0, mgl32.Vec3{1, 0, 0}},
		{180, 0, mgl32.Vec3{0, 0, 1}},
		{0, 90, mgl32.Vec3{0, 1, 0}},
	}
	for _, tt := range tests {
		c := &Camera{Yaw: tt.yaw, Pitch: tt.pitch}
		if got := c.Forward(); !mathtest.Vec3Near(got, tt.want, 1e-5) {
			t.Errorf("Forward(yaw=%v, pitch=%v) = %v, want %v", tt.yaw, tt.pitch, got, tt.want)
		}
	}
}

func TestRotate(t *testing.T) {
	c := &Camera{FOV: DefaultFOV, Near: DefaultNear, Far: DefaultFar, Aspect: 1}

	c.Rotate(-30, 0, true)
	if c.Yaw != 330 {
		t.Errorf("Yaw = %v, want 330", c.Yaw)
	}
	c.Rotate(60, 0, true)
	if math32.Abs(c.Yaw-30) > 1e-4 {
		t.Errorf("Yaw = %v, want 30", c.Yaw)
	}

	c.Rotate(0, 120, true)
	if c.Pitch != MaxPitch {
		t.Errorf("Pitch = %v, want %v", c.Pitch, MaxPitch)
	}
	c.Rotate(0, -300, true)
	if c.Pitch != -MaxPitch {
		t.Errorf("Pitch = %v, want %v", c.Pitch, -MaxPitch)
	}

	c.Pitch = 0
	c.Rotate(0, 120, false)
	if c.Pitch != 120 {
		t.Errorf("unclamped Pitch = %v, want 120", c.Pitch)
	}
}

func TestRotateLeavesLookAtKeepingDirection(t *testing.T) {
	c := New(1)
	before := c.Forward()
	c.Rotate(0, 0, true)
	if c.LookAt {
		t.Fatal("Rotate did not switch to yaw/pitch mode")
	}
	if after := c.Forward(); !mathtest.Vec3Near(after, before, 1e-4) {
		t.Errorf("Forward changed from %v to %v", before, after)
	}
}

func TestHandleDefaultInput(t *testing.T) {
	tests := []struct {
		name string
		keys keySet
		want mgl32.Vec3
	}{
		{"none", keySet{}, mgl32.Vec3{}},
		{"forward", keySet{gpucontext.KeyW: true}, mgl32.Vec3{0, 0, -2}},
		{"back", keySet{gpucontext.KeyS: true}, mgl32.Vec3{0, 0, 2}},
		{"right", keySet{gpucontext.KeyD: true}, mgl32.Vec3{2, 0, 0}},
		{"left", keySet{gpucontext.KeyA: true}, mgl32.Vec3{-2, 0, 0}},
		{"up space", keySet{gpucontext.KeySpace: true}, mgl32.Vec3{0, 2, 0}},
		{"up e", keySet{gpucontext.KeyE: true}, mgl32.Vec3{0, 2, 0}},
		{"down q", keySet{gpucontext.KeyQ: true}, mgl32.Vec3{0, -2, 0}},
		{"down shift", keySet{gpucontext.KeyLeftShift: true}, mgl32.Vec3{0, -2, 0}},
		{"opposing", keySet{gpucontext.KeyW: true, gpucontext.KeyS: true}, mgl32.Vec3{}},
		{"diagonal", keySet{gpucontext.KeyW: true, gpucontext.KeyD: true},
			mgl32.Vec3{math32.Sqrt2, 0, -math32.Sqrt2}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &Camera{FOV: DefaultFOV, Near: DefaultNear, Far: DefaultFar, Aspect: 1}
			moved := c.HandleDefaultInput(tt.keys, 4, 0.5)
			if moved != (tt.want != mgl32.Vec3{}) {
				t.Errorf("moved = %v", moved)
			}
			if !mathtest.Vec3Near(c.Position, tt.want, 1e-5) {
				t.Errorf("Position = %v, want %v", c.Position, tt.want)
			}
		})
	}
}

func TestMoveCarriesTarget(t *testing.T) {
	c := New(1)
	c.HandleDefaultInput(keySet{gpucontext.KeySpace: true}, 1, 1)
	if !mathtest.Vec3Near(c.Target, mgl32.Vec3{0, 1, 0}, mathtest.Tolerance) {
		t.Errorf("Target = %v, want (0,1,0)", c.Target)
	}
	if !mathtest.Vec3Near(c.Position, mgl32.Vec3{0, 3, 5}, mathtest.Tolerance) {
		t.Errorf("Position = %v, want (0,3,5)", c.Position)
	}
}

func TestValidate(t *testing.T) {
	if err := New(1).Validate(); err != nil {
		t.Fatalf("default camera Validate() = %v", err)
	}
	tests := []struct {
		name string
		mod  func(*Camera)
	}{
		{"zero fov", func(c *Camera) { c.FOV = 0 }},
		{"wide fov", func(c *Camera) { c.FOV = 180 }},
		{"zero near", func(c *Camera) { c.Near = 0 }},
		{"far before near", func(c *Camera) { c.Far = c.Near }},
		{"nan aspect", func(c *Camera) { c.Aspect = math32.NaN() }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := New(1)
			tt.mod(c)
			if err := c.Validate(); !errors.Is(err, ErrInvalidProjection) {
				t.Errorf("Validate() = %v, want ErrInvalidProjection", err)
			}
		})
	}
}

func TestSetViewport(t *testing.T) {
	c := New(1)
	if !c.SetViewport(800, 600) {
		t.Fatal("SetViewport(800, 600) = false")
	}
	if math32.Abs(c.Aspect-800.0/600.0) > 1e-6 {
		t.Errorf("Aspect = %v", c.Aspect)
	}
	if c.SetViewport(0, 600) {
		t.Error("SetViewport(0, 600) = true")
	}
	if math32.Abs(c.Aspect-800.0/600.0) > 1e-6 {
		t.Errorf("Aspect changed on zero size: %v", c.Aspect)
	}
}
