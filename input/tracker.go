// Package input turns host event callbacks into per-frame input state.
package input

import "github.com/gogpu/gpucontext"

// Tracker records which keys are held and how far the pointer moved since
// the last frame. It subscribes to a gpucontext.EventSource; callbacks and
// reads happen on the frame loop goroutine, so Tracker has no locks.
type Tracker struct {
	pressed map[gpucontext.Key]bool
	mods    gpucontext.Modifiers

	buttons map[gpucontext.MouseButton]bool

	x, y    float64
	havePos bool
	dx, dy  float64
	scrollX float64
	scrollY float64
	width   int
	height  int
	resized bool
	focused bool
}

// NewTracker creates a Tracker and attaches it to src.
func NewTracker(src gpucontext.EventSource) *Tracker {
	t := &Tracker{
		pressed: make(map[gpucontext.Key]bool),
		buttons: make(map[gpucontext.MouseButton]bool),
		focused: true,
	}
	src.OnKeyPress(t.keyPress)
	src.OnKeyRelease(t.keyRelease)
	src.OnMouseMove(t.mouseMove)
	src.OnMousePress(func(b gpucontext.MouseButton, _, _ float64) { t.buttons[b] = true })
	src.OnMouseRelease(func(b gpucontext.MouseButton, _, _ float64) { delete(t.buttons, b) })
	src.OnScroll(func(dx, dy float64) {
		t.scrollX += dx
		t.scrollY += dy
	})
	src.OnResize(func(w, h int) {
		t.width, t.height = w, h
		t.resized = true
	})
	src.OnFocus(t.focus)
	return t
}

func (t *Tracker) keyPress(k gpucontext.Key, mods gpucontext.Modifiers) {
	t.pressed[k] = true
	t.mods = mods
}

func (t *Tracker) keyRelease(k gpucontext.Key, mods gpucontext.Modifiers) {
	delete(t.pressed, k)
	t.mods = mods
}

func (t *Tracker) mouseMove(x, y float64) {
	if t.havePos {
		t.dx += x - t.x
		t.dy += y - t.y
	}
	t.x, t.y = x, y
	t.havePos = true
}

// focus drops held keys when the window loses focus, since the release
// events go elsewhere.
func (t *Tracker) focus(focused bool) {
	t.focused = focused
	if !focused {
		clear(t.pressed)
		clear(t.buttons)
		t.mods = 0
	}
}

// Pressed reports whether k is held.
func (t *Tracker) Pressed(k gpucontext.Key) bool {
	return t.pressed[k]
}

// ButtonPressed reports whether mouse button b is held.
func (t *Tracker) ButtonPressed(b gpucontext.MouseButton) bool {
	return t.buttons[b]
}

// Modifiers returns the modifier state of the latest key event.
func (t *Tracker) Modifiers() gpucontext.Modifiers {
	return t.mods
}

// Focused reports whether the window has input focus.
func (t *Tracker) Focused() bool {
	return t.focused
}

// Pointer returns the last pointer position.
func (t *Tracker) Pointer() (x, y float64) {
	return t.x, t.y
}

// PointerDelta returns the pointer movement accumulated since the last
// EndFrame.
func (t *Tracker) PointerDelta() (dx, dy float64) {
	return t.dx, t.dy
}

// Scroll returns the scroll accumulated since the last EndFrame.
func (t *Tracker) Scroll() (dx, dy float64) {
	return t.scrollX, t.scrollY
}

// Resized returns the latest size reported since the last EndFrame.
func (t *Tracker) Resized() (w, h int, ok bool) {
	return t.width, t.height, t.resized
}

// EndFrame clears the per-frame accumulators. Held keys are kept.
func (t *Tracker) EndFrame() {
	t.dx, t.dy = 0, 0
	t.scrollX, t.scrollY = 0, 0
	t.resized = false
}
