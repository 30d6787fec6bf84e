// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import "github.com/gogpu/gputypes"

// Default renderer settings.
const (
	DefaultColorFormat = gputypes.TextureFormatBGRA8Unorm
	DefaultDepthFormat = gputypes.TextureFormatDepth32Float

	DefaultVertexCapacity = 128
	DefaultIndexCapacity  = 1024
	DefaultDrawCapacity   = 16
)

// DefaultClearColor is a dark blue-grey.
var DefaultClearColor = gputypes.Color{R: 0.1, G: 0.1, B: 0.15, A: 1}

// options holds the renderer configuration.
type options struct {
	colorFormat gputypes.TextureFormat
	depthFormat gputypes.TextureFormat
	clearColor  gputypes.Color
	vertexCap   int
	indexCap    int
	drawCap     int
	cullMode    gputypes.CullMode
}

func defaultOptions() options {
	return options{
		colorFormat: DefaultColorFormat,
		depthFormat: DefaultDepthFormat,
		clearColor:  DefaultClearColor,
		vertexCap:   DefaultVertexCapacity,
		indexCap:    DefaultIndexCapacity,
		drawCap:     DefaultDrawCapacity,
		cullMode:    gputypes.CullModeBack,
	}
}

// Option configures a Renderer.
type Option func(*options)

// WithFormat sets the color target format. It must match the format of the
// texture views passed to Render.
func WithFormat(f gputypes.TextureFormat) Option {
	return func(o *options) {
		if f != gputypes.TextureFormatUndefined {
			o.colorFormat = f
		}
	}
}

// WithDepthFormat sets the depth buffer format.
func WithDepthFormat(f gputypes.TextureFormat) Option {
	return func(o *options) {
		if f != gputypes.TextureFormatUndefined {
			o.depthFormat = f
		}
	}
}

// WithClearColor sets the color the target is cleared to each frame.
func WithClearColor(c gputypes.Color) Option {
	return func(o *options) {
		o.clearColor = c
	}
}

// WithInitialCapacity sets the initial GPU buffer sizes in vertices and
// indices. Buffers grow by doubling when a frame needs more.
func WithInitialCapacity(vertices, indices int) Option {
	return func(o *options) {
		if vertices > 0 {
			o.vertexCap = vertices
		}
		if indices > 0 {
			o.indexCap = indices
		}
	}
}

// WithDrawCapacity sets the initial number of per-draw uniform slots.
func WithDrawCapacity(draws int) Option {
	return func(o *options) {
		if draws > 0 {
			o.drawCap = draws
		}
	}
}

// WithCullMode sets face culling. The default culls back faces, which
// requires counter-clockwise front faces.
func WithCullMode(m gputypes.CullMode) Option {
	return func(o *options) {
		o.cullMode = m
	}
}
