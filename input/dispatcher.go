package input

import "github.com/gogpu/gpucontext"

// Dispatcher is a gpucontext.EventSource driven by its owner. Headless
// hosts and scripted demos use it to feed events to a Tracker.
//
// Each On* method appends a callback; emit methods call them in
// registration order.
type Dispatcher struct {
	keyPress   []func(gpucontext.Key, gpucontext.Modifiers)
	keyRelease []func(gpucontext.Key, gpucontext.Modifiers)
	text       []func(string)
	mouseMove  []func(float64, float64)
	mousePress []func(gpucontext.MouseButton, float64, float64)
	mouseRel   []func(gpucontext.MouseButton, float64, float64)
	scroll     []func(float64, float64)
	resize     []func(int, int)
	focus      []func(bool)
	imeStart   []func()
	imeUpdate  []func(gpucontext.IMEState)
	imeEnd     []func(string)
}

var _ gpucontext.EventSource = (*Dispatcher)(nil)

func (d *Dispatcher) OnKeyPress(fn func(gpucontext.Key, gpucontext.Modifiers)) {
	d.keyPress = append(d.keyPress, fn)
}

func (d *Dispatcher) OnKeyRelease(fn func(gpucontext.Key, gpucontext.Modifiers)) {
	d.keyRelease = append(d.keyRelease, fn)
}

func (d *Dispatcher) OnTextInput(fn func(string)) { d.text = append(d.text, fn) }

func (d *Dispatcher) OnMouseMove(fn func(float64, float64)) {
	d.mouseMove = append(d.mouseMove, fn)
}

func (d *Dispatcher) OnMousePress(fn func(gpucontext.MouseButton, float64, float64)) {
	d.mousePress = append(d.mousePress, fn)
}

func (d *Dispatcher) OnMouseRelease(fn func(gpucontext.MouseButton, float64, float64)) {
	d.mouseRel = append(d.mouseRel, fn)
}

func (d *Dispatcher) OnScroll(fn func(float64, float64)) { d.scroll = append(d.scroll, fn) }
func (d *Dispatcher) OnResize(fn func(int, int))         { d.resize = append(d.resize, fn) }
func (d *Dispatcher) OnFocus(fn func(bool))              { d.focus = append(d.focus, fn) }
func (d *Dispatcher) OnIMECompositionStart(fn func())    { d.imeStart = append(d.imeStart, fn) }

func (d *Dispatcher) OnIMECompositionUpdate(fn func(gpucontext.IMEState)) {
	d.imeUpdate = append(d.imeUpdate, fn)
}

func (d *Dispatcher) OnIMECompositionEnd(fn func(string)) { d.imeEnd = append(d.imeEnd, fn) }

// KeyPress emits a key press.
func (d *Dispatcher) KeyPress(k gpucontext.Key, mods gpucontext.Modifiers) {
	for _, fn := range d.keyPress {
		fn(k, mods)
	}
}

// KeyRelease emits a key release.
func (d *Dispatcher) KeyRelease(k gpucontext.Key, mods gpucontext.Modifiers) {
	for _, fn := range d.keyRelease {
		fn(k, mods)
	}
}

// MouseMove emits a pointer move.
func (d *Dispatcher) MouseMove(x, y float64) {
	for _, fn := range d.mouseMove {
		fn(x, y)
	}
}

// MousePress emits a button press.
func (d *Dispatcher) MousePress(b gpucontext.MouseButton, x, y float64) {
	for _, fn := range d.mousePress {
		fn(b, x, y)
	}
}

// MouseRelease emits a button release.
func (d *Dispatcher) MouseRelease(b gpucontext.MouseButton, x, y float64) {
	for _, fn := range d.mouseRel {
		fn(b, x, y)
	}
}

// Scroll emits a scroll.
func (d *Dispatcher) Scroll(dx, dy float64) {
	for _, fn := range d.scroll {
		fn(dx, dy)
	}
}

// Resize emits a resize.
func (d *Dispatcher) Resize(w, h int) {
	for _, fn := range d.resize {
		fn(w, h)
	}
}

// Focus emits a focus change.
func (d *Dispatcher) Focus(focused bool) {
	for _, fn := range d.focus {
		fn(focused)
	}
}
