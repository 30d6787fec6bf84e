// Package camera implements a perspective fly camera.
//
// View space is left-handed with +Y up and +Z pointing forward, and the
// projection maps depth to the [0, 1] range used by WebGPU. This is the
// only place where handedness and depth range are corrected; world space
// itself uses the right-handed rotations of package transform.
package camera

import (
	"errors"
	"fmt"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// Defaults for a new camera.
const (
	DefaultFOV  = 45.0
	DefaultNear = 0.1
	DefaultFar  = 1000.0

	// MaxPitch is the pitch limit applied by Rotate when clamping.
	MaxPitch = 89.0
)

var (
	// DefaultPosition is the initial eye position.
	DefaultPosition = mgl32.Vec3{0, 2, 5}

	// WorldUp is the up direction of world space.
	WorldUp = mgl32.Vec3{0, 1, 0}
)

// ErrInvalidProjection is returned by Validate for unusable projection
// parameters.
var ErrInvalidProjection = errors.New("camera: invalid projection")

// Camera is a perspective camera oriented either by yaw and pitch or by a
// look-at target. The two modes are exclusive: LookAt selects Target,
// otherwise Yaw and Pitch are used.
type Camera struct {
	Position mgl32.Vec3

	// Yaw is measured in degrees from -Z towards +X. Pitch is measured in
	// degrees above the horizon.
	Yaw   float32
	Pitch float32

	Target mgl32.Vec3
	LookAt bool

	FOV    float32 // vertical field of view in degrees
	Near   float32
	Far    float32
	Aspect float32
}

// New returns a camera at DefaultPosition looking at the origin.
func New(aspect float32) *Camera {
	return &Camera{
		Position: DefaultPosition,
		Target:   mgl32.Vec3{},
		LookAt:   true,
		FOV:      DefaultFOV,
		Near:     DefaultNear,
		Far:      DefaultFar,
		Aspect:   aspect,
	}
}

// SetTarget switches the camera to look-at mode.
func (c *Camera) SetTarget(target mgl32.Vec3) {
	c.Target = target
	c.LookAt = true
}

// SetViewport updates the aspect ratio for a viewport of w by h pixels.
// Zero or negative sizes are ignored and reported as false.
func (c *Camera) SetViewport(w, h int) bool {
	if w <= 0 || h <= 0 {
		return false
	}
	c.Aspect = float32(w) / float32(h)
	return true
}

// Validate reports ErrInvalidProjection for a degenerate projection.
func (c *Camera) Validate() error {
	switch {
	case !finite(c.FOV) || c.FOV <= 0 || c.FOV >= 180:
		return fmt.Errorf("%w: fov %v outside (0, 180)", ErrInvalidProjection, c.FOV)
	case !finite(c.Near) || c.Near <= 0:
		return fmt.Errorf("%w: near %v must be positive", ErrInvalidProjection, c.Near)
	case !finite(c.Far) || c.Far <= c.Near:
		return fmt.Errorf("%w: far %v must exceed near %v", ErrInvalidProjection, c.Far, c.Near)
	case !finite(c.Aspect) || c.Aspect <= 0:
		return fmt.Errorf("%w: aspect %v must be positive", ErrInvalidProjection, c.Aspect)
	}
	return nil
}

// Forward returns the unit view direction.
func (c *Camera) Forward() mgl32.Vec3 {
	if c.LookAt {
		if d := c.Target.Sub(c.Position); d.Len() > 1e-6 {
			return d.Normalize()
		}
	}
	return direction(c.Yaw, c.Pitch)
}

// Right returns the unit vector to the right of the view direction,
// parallel to the ground.
func (c *Camera) Right() mgl32.Vec3 {
	r := c.Forward().Cross(WorldUp)
	if r.Len() < 1e-6 {
		// Looking straight up or down.
		sy, cy := math32.Sincos(mgl32.DegToRad(c.Yaw))
		return mgl32.Vec3{cy, 0, sy}
	}
	return r.Normalize()
}

// Up returns the camera up vector, orthogonal to Forward and Right.
func (c *Camera) Up() mgl32.Vec3 {
	return c.Right().Cross(c.Forward())
}

func direction(yaw, pitch float32) mgl32.Vec3 {
	sy, cy := math32.Sincos(mgl32.DegToRad(yaw))
	sp, cp := math32.Sincos(mgl32.DegToRad(pitch))
	return mgl32.Vec3{sy * cp, sp, -cy * cp}
}

// View returns the world-to-view matrix. View space has +X right, +Y up
// and +Z forward.
func (c *Camera) View() mgl32.Mat4 {
	f := c.Forward()
	r := c.Right()
	u := r.Cross(f)
	e := c.Position

	// Rows r, u, f; mgl32 matrices are column-major.
	return mgl32.Mat4{
		r[0], u[0], f[0], 0,
		r[1], u[1], f[1], 0,
		r[2], u[2], f[2], 0,
		-r.Dot(e), -u.Dot(e), -f.Dot(e), 1,
	}
}

// Projection returns the perspective matrix mapping view-space depth
// Near..Far to clip depth 0..1.
func (c *Camera) Projection() mgl32.Mat4 {
	g := 1 / math32.Tan(mgl32.DegToRad(c.FOV)/2)
	n, f := c.Near, c.Far

	var m mgl32.Mat4
	m[0] = g / c.Aspect
	m[5] = g
	m[10] = f / (f - n)
	m[11] = 1
	m[14] = f * n / (n - f)
	return m
}

// ViewProjection returns Projection * View.
func (c *Camera) ViewProjection() mgl32.Mat4 {
	return c.Projection().Mul4(c.View())
}

// Rotate turns the camera by dyaw and dpitch degrees. Yaw wraps to
// [0, 360). With clampPitch, pitch is limited to ±MaxPitch.
//
// A look-at camera is switched to yaw/pitch mode, keeping its current view
// direction.
func (c *Camera) Rotate(dyaw, dpitch float32, clampPitch bool) {
	if c.LookAt {
		f := c.Forward()
		c.Pitch = mgl32.RadToDeg(math32.Asin(mgl32.Clamp(f[1], -1, 1)))
		c.Yaw = mgl32.RadToDeg(math32.Atan2(f[0], -f[2]))
		c.LookAt = false
	}
	c.Yaw = math32.Mod(c.Yaw+dyaw, 360)
	if c.Yaw < 0 {
		c.Yaw += 360
	}
	c.Pitch += dpitch
	if clampPitch {
		c.Pitch = mgl32.Clamp(c.Pitch, -MaxPitch, MaxPitch)
	}
}

// Move translates the camera by d. In look-at mode the target moves with
// it.
func (c *Camera) Move(d mgl32.Vec3) {
	c.Position = c.Position.Add(d)
	if c.LookAt {
		c.Target = c.Target.Add(d)
	}
}

func finite(v float32) bool {
	return !math32.IsNaN(v) && !math32.IsInf(v, 0)
}
