package main

import (
	"context"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/g3d/input"
	"github.com/gogpu/g3d/render"
)

// headlessHost renders into an offscreen texture and closes after a fixed
// number of presented frames. Input events can be injected through its
// dispatcher.
type headlessHost struct {
	device    hal.Device
	events    *input.Dispatcher
	width     int
	height    int
	presented int
	maxFrames int

	tex  hal.Texture
	view hal.TextureView
	texW int
	texH int
}

func newHeadlessHost(device hal.Device, width, height, frames int) *headlessHost {
	return &headlessHost{
		device:    device,
		events:    &input.Dispatcher{},
		width:     width,
		height:    height,
		maxFrames: frames,
	}
}

// script replays a short input sequence: back away from the scene for a
// quarter of the run, then pan the view with a right-drag.
func (h *headlessHost) script(frame int) {
	switch frame {
	case 0:
		h.events.KeyPress(gpucontext.KeyS, 0)
	case h.maxFrames / 4:
		h.events.KeyRelease(gpucontext.KeyS, 0)
		h.events.MouseMove(0, 0)
		h.events.MousePress(gpucontext.MouseButtonRight, 0, 0)
	case h.maxFrames/4 + 1:
		h.events.MouseMove(-40, 10)
	case h.maxFrames/4 + 2:
		h.events.MouseRelease(gpucontext.MouseButtonRight, -40, 10)
	}
}

func (h *headlessHost) Events() gpucontext.EventSource { return h.events }

func (h *headlessHost) Size() (int, int) { return h.width, h.height }

func (h *headlessHost) Closed() bool { return h.presented >= h.maxFrames }

func (h *headlessHost) Present() error {
	h.presented++
	return nil
}

// NextFrame returns the offscreen target, recreating it after a resize.
func (h *headlessHost) NextFrame(context.Context) (hal.TextureView, error) {
	if h.view != nil && h.texW == h.width && h.texH == h.height {
		return h.view, nil
	}
	h.destroy()
	tex, err := h.device.CreateTexture(&hal.TextureDescriptor{
		Label:         "g3ddemo_target",
		Size:          hal.Extent3D{Width: uint32(h.width), Height: uint32(h.height), DepthOrArrayLayers: 1},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     gputypes.TextureDimension2D,
		Format:        render.DefaultColorFormat,
		Usage:         gputypes.TextureUsageRenderAttachment | gputypes.TextureUsageCopySrc,
	})
	if err != nil {
		return nil, err
	}
	view, err := h.device.CreateTextureView(tex, &hal.TextureViewDescriptor{
		Label:         "g3ddemo_target_view",
		Format:        render.DefaultColorFormat,
		Dimension:     gputypes.TextureViewDimension2D,
		Aspect:        gputypes.TextureAspectAll,
		MipLevelCount: 1,
	})
	if err != nil {
		h.device.DestroyTexture(tex)
		return nil, err
	}
	h.tex, h.view = tex, view
	h.texW, h.texH = h.width, h.height
	return view, nil
}

func (h *headlessHost) destroy() {
	if h.view != nil {
		h.device.DestroyTextureView(h.view)
		h.view = nil
	}
	if h.tex != nil {
		h.device.DestroyTexture(h.tex)
		h.tex = nil
	}
}
