package camera

import "github.com/gogpu/gpucontext"

// Keys reports which keys are currently held.
type Keys interface {
	Pressed(k gpucontext.Key) bool
}

// HandleDefaultInput applies fly-camera movement for one frame:
// W/S move along Forward, D/A along Right, Space or E up and Q or LeftShift
// down along WorldUp. The camera moves speed*dt units; diagonal input is
// normalized so it is not faster than a single axis. It reports whether the
// camera moved.
func (c *Camera) HandleDefaultInput(keys Keys, speed, dt float32) bool {
	axis := func(pos, neg bool) float32 {
		switch {
		case pos && !neg:
			return 1
		case neg && !pos:
			return -1
		}
		return 0
	}

	fwd := axis(keys.Pressed(gpucontext.KeyW), keys.Pressed(gpucontext.KeyS))
	right := axis(keys.Pressed(gpucontext.KeyD), keys.Pressed(gpucontext.KeyA))
	up := axis(
		keys.Pressed(gpucontext.KeySpace) || keys.Pressed(gpucontext.KeyE),
		keys.Pressed(gpucontext.KeyQ) || keys.Pressed(gpucontext.KeyLeftShift),
	)

	dir := c.Forward().Mul(fwd).
		Add(c.Right().Mul(right)).
		Add(WorldUp.Mul(up))
	if dir.Len() < 1e-6 {
		return false
	}
	c.Move(dir.Normalize().Mul(speed * dt))
	return true
}
