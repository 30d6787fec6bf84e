// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/g3d"
	"github.com/gogpu/g3d/bake"
	"github.com/gogpu/g3d/camera"
)

// fenceTimeout bounds how long Destroy waits for in-flight frames.
const fenceTimeout = 5 * time.Second

// Uniform layout.
const (
	// matrixSize is one mat4x4<f32>.
	matrixSize = 64

	// modelStride is the distance between per-draw model uniforms. It
	// matches the default minUniformBufferOffsetAlignment.
	modelStride = 256
)

var (
	// ErrNoDevice is returned when no HAL device or queue is available.
	ErrNoDevice = errors.New("render: no HAL device")

	// ErrZeroSize is returned by Render before a non-empty viewport is set.
	ErrZeroSize = errors.New("render: viewport has zero size")
)

// FrameStats describes one submitted frame.
type FrameStats struct {
	Vertices   int
	Indices    int
	Draws      int
	Batches    int
	Submission uint64
}

type pendingSubmission struct {
	index uint64
	cmd   hal.CommandBuffer
}

// Renderer draws bake outputs with one indexed draw call per batch.
//
// Per frame it uploads the shared vertex and index buffers, a camera
// uniform (view-projection) and one model uniform per batch, then records a
// single render pass that clears color and depth. GPU buffers are reused
// across frames and grow by doubling.
//
// Renderer is not safe for concurrent use.
type Renderer struct {
	device hal.Device
	queue  hal.Queue
	opts   options

	shader     hal.ShaderModule
	bindLayout hal.BindGroupLayout
	pipeLayout hal.PipelineLayout
	pipeline   hal.RenderPipeline

	vertices  *growableBuffer
	indices   *growableBuffer
	cameraBuf *growableBuffer
	models    *growableBuffer
	bindGroup hal.BindGroup

	depthTex  hal.Texture
	depthView hal.TextureView
	width     uint32
	height    uint32

	vertexStaging  []byte
	indexStaging   []byte
	uniformStaging []byte
	batches        []bake.Batch

	// fence is signaled with the submission index of each frame.
	fence     hal.Fence
	submitted uint64
	pending   []pendingSubmission
}

// New creates a renderer on the given HAL device and queue and builds its
// pipeline.
func New(device hal.Device, queue hal.Queue, opts ...Option) (*Renderer, error) {
	if device == nil || queue == nil {
		return nil, ErrNoDevice
	}
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	r := &Renderer{
		device:    device,
		queue:     queue,
		opts:      o,
		vertices:  newGrowableBuffer("g3d_vertex_buffer", gputypes.BufferUsageVertex),
		indices:   newGrowableBuffer("g3d_index_buffer", gputypes.BufferUsageIndex),
		cameraBuf: newGrowableBuffer("g3d_camera_uniform", gputypes.BufferUsageUniform),
		models:    newGrowableBuffer("g3d_model_uniforms", gputypes.BufferUsageUniform),
	}
	if err := r.createPipeline(); err != nil {
		r.Destroy()
		return nil, err
	}
	fence, err := device.CreateFence()
	if err != nil {
		r.Destroy()
		return nil, fmt.Errorf("create frame fence: %w", err)
	}
	r.fence = fence
	if err := r.createBuffers(); err != nil {
		r.Destroy()
		return nil, err
	}
	g3d.Logger().Info("render: pipeline created",
		"format", o.colorFormat,
		"depth", o.depthFormat,
		"vertexCapacity", o.vertexCap,
		"indexCapacity", o.indexCap)
	return r, nil
}

// NewFromProvider creates a renderer from a host device provider. The
// provider must also expose its HAL objects through HalDevice() any and
// HalQueue() any.
func NewFromProvider(provider gpucontext.DeviceProvider, opts ...Option) (*Renderer, error) {
	type halProvider interface {
		HalDevice() any
		HalQueue() any
	}
	hp, ok := provider.(halProvider)
	if !ok {
		return nil, fmt.Errorf("%w: provider %T does not expose HAL", ErrNoDevice, provider)
	}
	device, ok := hp.HalDevice().(hal.Device)
	if !ok {
		return nil, fmt.Errorf("%w: provider HalDevice is not hal.Device", ErrNoDevice)
	}
	queue, ok := hp.HalQueue().(hal.Queue)
	if !ok {
		return nil, fmt.Errorf("%w: provider HalQueue is not hal.Queue", ErrNoDevice)
	}
	if f := provider.SurfaceFormat(); f != gputypes.TextureFormatUndefined {
		opts = append([]Option{WithFormat(f)}, opts...)
	}
	return New(device, queue, opts...)
}

func (r *Renderer) createPipeline() error {
	spirv, err := compileSceneShader()
	if err != nil {
		return err
	}
	shader, err := r.device.CreateShaderModule(&hal.ShaderModuleDescriptor{
		Label:  "g3d_scene_shader",
		Source: hal.ShaderSource{WGSL: sceneShaderSource, SPIRV: spirv},
	})
	if err != nil {
		return fmt.Errorf("create scene shader module: %w", err)
	}
	r.shader = shader

	bindLayout, err := r.device.CreateBindGroupLayout(&hal.BindGroupLayoutDescriptor{
		Label: "g3d_uniform_layout",
		Entries: []gputypes.BindGroupLayoutEntry{
			{
				Binding:    0,
				Visibility: gputypes.ShaderStageVertex,
				Buffer: &gputypes.BufferBindingLayout{
					Type:           gputypes.BufferBindingTypeUniform,
					MinBindingSize: matrixSize,
				},
			},
			{
				Binding:    1,
				Visibility: gputypes.ShaderStageVertex,
				Buffer: &gputypes.BufferBindingLayout{
					Type:             gputypes.BufferBindingTypeUniform,
					HasDynamicOffset: true,
					MinBindingSize:   matrixSize,
				},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("create scene uniform layout: %w", err)
	}
	r.bindLayout = bindLayout

	pipeLayout, err := r.device.CreatePipelineLayout(&hal.PipelineLayoutDescriptor{
		Label:            "g3d_pipe_layout",
		BindGroupLayouts: []hal.BindGroupLayout{r.bindLayout},
	})
	if err != nil {
		return fmt.Errorf("create scene pipeline layout: %w", err)
	}
	r.pipeLayout = pipeLayout

	// Opaque geometry: no Blend replaces the target color.
	pipeline, err := r.device.CreateRenderPipeline(&hal.RenderPipelineDescriptor{
		Label:  "g3d_scene_pipeline",
		Layout: r.pipeLayout,
		Vertex: hal.VertexState{
			Module:     r.shader,
			EntryPoint: "vs_main",
			Buffers:    sceneVertexLayout(),
		},
		Fragment: &hal.FragmentState{
			Module:     r.shader,
			EntryPoint: "fs_main",
			Targets: []gputypes.ColorTargetState{
				{
					Format:    r.opts.colorFormat,
					WriteMask: gputypes.ColorWriteMaskAll,
				},
			},
		},
		DepthStencil: &hal.DepthStencilState{
			Format:            r.opts.depthFormat,
			DepthWriteEnabled: true,
			DepthCompare:      gputypes.CompareFunctionLess,
		},
		Primitive: gputypes.PrimitiveState{
			Topology:  gputypes.PrimitiveTopologyTriangleList,
			FrontFace: gputypes.FrontFaceCCW,
			CullMode:  r.opts.cullMode,
		},
		Multisample: gputypes.MultisampleState{
			Count: 1,
			Mask:  0xFFFFFFFF,
		},
	})
	if err != nil {
		return fmt.Errorf("create scene pipeline: %w", err)
	}
	r.pipeline = pipeline
	return nil
}

// sceneVertexLayout returns the vertex buffer layout matching bake.Vertex.
func sceneVertexLayout() []gputypes.VertexBufferLayout {
	return []gputypes.VertexBufferLayout{
		{
			ArrayStride: bake.VertexSize,
			StepMode:    gputypes.VertexStepModeVertex,
			Attributes: []gputypes.VertexAttribute{
				{Format: gputypes.VertexFormatFloat32x3, Offset: 0, ShaderLocation: 0},  // position
				{Format: gputypes.VertexFormatFloat32x3, Offset: 12, ShaderLocation: 1}, // color
			},
		},
	}
}

func (r *Renderer) createBuffers() error {
	if _, err := r.vertices.ensure(r.device, uint64(r.opts.vertexCap)*bake.VertexSize); err != nil {
		return err
	}
	if _, err := r.indices.ensure(r.device, uint64(r.opts.indexCap)*bake.IndexSize); err != nil {
		return err
	}
	if _, err := r.cameraBuf.ensure(r.device, matrixSize); err != nil {
		return err
	}
	if _, err := r.models.ensure(r.device, uint64(r.opts.drawCap)*modelStride); err != nil {
		return err
	}
	return r.rebuildBindGroup()
}

func (r *Renderer) rebuildBindGroup() error {
	bg, err := r.device.CreateBindGroup(&hal.BindGroupDescriptor{
		Label:  "g3d_uniform_bind_group",
		Layout: r.bindLayout,
		Entries: []gputypes.BindGroupEntry{
			{
				Binding: 0,
				Resource: gputypes.BufferBinding{
					Buffer: r.cameraBuf.buf.NativeHandle(),
					Size:   matrixSize,
				},
			},
			{
				Binding: 1,
				Resource: gputypes.BufferBinding{
					Buffer: r.models.buf.NativeHandle(),
					Size:   matrixSize,
				},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("create uniform bind group: %w", err)
	}
	if r.bindGroup != nil {
		r.device.DestroyBindGroup(r.bindGroup)
	}
	r.bindGroup = bg
	return nil
}

// Resize sets the viewport size. Zero or negative sizes are ignored and
// reported as false; the previous size stays in effect.
func (r *Renderer) Resize(width, height int) bool {
	if width <= 0 || height <= 0 {
		g3d.Logger().Warn("render: ignoring zero-size resize", "width", width, "height", height)
		return false
	}
	w, h := uint32(width), uint32(height)
	if w == r.width && h == r.height {
		return true
	}
	r.destroyDepth()
	r.width, r.height = w, h
	return true
}

// Size returns the current viewport size.
func (r *Renderer) Size() (width, height uint32) {
	return r.width, r.height
}

func (r *Renderer) ensureDepth() error {
	if r.depthView != nil {
		return nil
	}
	tex, err := r.device.CreateTexture(&hal.TextureDescriptor{
		Label:         "g3d_depth",
		Size:          hal.Extent3D{Width: r.width, Height: r.height, DepthOrArrayLayers: 1},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     gputypes.TextureDimension2D,
		Format:        r.opts.depthFormat,
		Usage:         gputypes.TextureUsageRenderAttachment,
	})
	if err != nil {
		return fmt.Errorf("create depth texture: %w", err)
	}
	view, err := r.device.CreateTextureView(tex, &hal.TextureViewDescriptor{
		Label:         "g3d_depth_view",
		Format:        r.opts.depthFormat,
		Dimension:     gputypes.TextureViewDimension2D,
		Aspect:        gputypes.TextureAspectAll,
		MipLevelCount: 1,
	})
	if err != nil {
		r.device.DestroyTexture(tex)
		return fmt.Errorf("create depth view: %w", err)
	}
	r.depthTex, r.depthView = tex, view
	return nil
}

func (r *Renderer) destroyDepth() {
	if r.depthView != nil {
		r.device.DestroyTextureView(r.depthView)
		r.depthView = nil
	}
	if r.depthTex != nil {
		r.device.DestroyTexture(r.depthTex)
		r.depthTex = nil
	}
}

// Upload writes out and the camera matrix to the GPU buffers and prepares
// the batch list recorded by RecordDraws.
func (r *Renderer) Upload(out *bake.Output, viewProj mgl32.Mat4) error {
	r.vertexStaging = out.AppendVertexBytes(r.vertexStaging[:0])
	r.indexStaging = out.AppendIndexBytes(r.indexStaging[:0])
	r.batches = out.AppendBatches(r.batches[:0])

	if _, err := r.vertices.upload(r.device, r.queue, r.vertexStaging); err != nil {
		return err
	}
	if _, err := r.indices.upload(r.device, r.queue, r.indexStaging); err != nil {
		return err
	}

	r.uniformStaging = appendMatrix(r.uniformStaging[:0], viewProj)
	cameraGrown, err := r.cameraBuf.upload(r.device, r.queue, r.uniformStaging)
	if err != nil {
		return err
	}

	r.uniformStaging = r.uniformStaging[:0]
	for i := range r.batches {
		r.uniformStaging = appendMatrix(r.uniformStaging, r.batches[i].Model)
		pad := modelStride - matrixSize
		r.uniformStaging = append(r.uniformStaging, make([]byte, pad)...)
	}
	modelsGrown, err := r.models.upload(r.device, r.queue, r.uniformStaging)
	if err != nil {
		return err
	}

	if cameraGrown || modelsGrown {
		return r.rebuildBindGroup()
	}
	return nil
}

// RecordDraws records the batches prepared by the last Upload into rp.
func (r *Renderer) RecordDraws(rp hal.RenderPassEncoder) {
	if len(r.batches) == 0 {
		return
	}
	rp.SetPipeline(r.pipeline)
	rp.SetVertexBuffer(0, r.vertices.buf, 0)
	rp.SetIndexBuffer(r.indices.buf, gputypes.IndexFormatUint32, 0)
	for i, b := range r.batches {
		rp.SetBindGroup(0, r.bindGroup, []uint32{uint32(i * modelStride)})
		rp.DrawIndexed(b.IndexCount, 1, b.FirstIndex, 0, 0)
	}
}

// Render draws out as seen by cam into target and submits the frame.
// target must have the renderer's color format and current size.
func (r *Renderer) Render(target hal.TextureView, out *bake.Output, cam *camera.Camera) (FrameStats, error) {
	if r.width == 0 || r.height == 0 {
		return FrameStats{}, ErrZeroSize
	}
	if err := cam.Validate(); err != nil {
		return FrameStats{}, fmt.Errorf("render: %w", err)
	}
	r.reclaim()

	if err := r.Upload(out, cam.ViewProjection()); err != nil {
		return FrameStats{}, fmt.Errorf("render: upload: %w", err)
	}
	if err := r.ensureDepth(); err != nil {
		return FrameStats{}, fmt.Errorf("render: %w", err)
	}

	encoder, err := r.device.CreateCommandEncoder(&hal.CommandEncoderDescriptor{
		Label: "g3d_frame_encoder",
	})
	if err != nil {
		return FrameStats{}, fmt.Errorf("create command encoder: %w", err)
	}
	if err := encoder.BeginEncoding("g3d_frame"); err != nil {
		return FrameStats{}, fmt.Errorf("begin encoding: %w", err)
	}

	rp := encoder.BeginRenderPass(&hal.RenderPassDescriptor{
		Label: "g3d_scene_pass",
		ColorAttachments: []hal.RenderPassColorAttachment{{
			View:       target,
			LoadOp:     gputypes.LoadOpClear,
			StoreOp:    gputypes.StoreOpStore,
			ClearValue: r.opts.clearColor,
		}},
		DepthStencilAttachment: &hal.RenderPassDepthStencilAttachment{
			View:            r.depthView,
			DepthLoadOp:     gputypes.LoadOpClear,
			DepthStoreOp:    gputypes.StoreOpDiscard,
			DepthClearValue: 1.0,
		},
	})
	r.RecordDraws(rp)
	rp.End()

	cmdBuf, err := encoder.EndEncoding()
	if err != nil {
		encoder.DiscardEncoding()
		return FrameStats{}, fmt.Errorf("end encoding: %w", err)
	}
	idx := r.submitted + 1
	if err := r.queue.Submit([]hal.CommandBuffer{cmdBuf}, r.fence, idx); err != nil {
		r.device.FreeCommandBuffer(cmdBuf)
		return FrameStats{}, fmt.Errorf("submit: %w", err)
	}
	r.submitted = idx
	r.pending = append(r.pending, pendingSubmission{index: idx, cmd: cmdBuf})

	stats := FrameStats{
		Vertices:   len(out.Vertices),
		Indices:    len(out.Indices),
		Draws:      len(out.Draws),
		Batches:    len(r.batches),
		Submission: idx,
	}
	g3d.Logger().Debug("render: frame submitted",
		"submission", idx,
		"batches", stats.Batches,
		"indices", stats.Indices)
	return stats, nil
}

// reclaim frees command buffers whose submissions have completed.
func (r *Renderer) reclaim() {
	if len(r.pending) == 0 {
		return
	}
	// Fence values only grow, so the first unfinished submission ends
	// the scan.
	n := 0
	for _, p := range r.pending {
		done, err := r.device.Wait(r.fence, p.index, 0)
		if err != nil || !done {
			break
		}
		r.device.FreeCommandBuffer(p.cmd)
		n++
	}
	r.pending = append(r.pending[:0], r.pending[n:]...)
}

// Destroy waits for the GPU and releases all resources. Safe to call more
// than once.
func (r *Renderer) Destroy() {
	if r.device == nil {
		return
	}
	if len(r.pending) > 0 {
		ok, err := r.device.Wait(r.fence, r.submitted, fenceTimeout)
		if err != nil || !ok {
			g3d.Logger().Warn("render: wait for in-flight frames", "ok", ok, "err", err)
		}
		for _, p := range r.pending {
			r.device.FreeCommandBuffer(p.cmd)
		}
		r.pending = nil
	}
	if r.fence != nil {
		r.device.DestroyFence(r.fence)
		r.fence = nil
	}
	r.destroyDepth()
	if r.bindGroup != nil {
		r.device.DestroyBindGroup(r.bindGroup)
		r.bindGroup = nil
	}
	for _, b := range []*growableBuffer{r.vertices, r.indices, r.cameraBuf, r.models} {
		if b != nil {
			b.destroy(r.device)
		}
	}
	if r.pipeline != nil {
		r.device.DestroyRenderPipeline(r.pipeline)
		r.pipeline = nil
	}
	if r.pipeLayout != nil {
		r.device.DestroyPipelineLayout(r.pipeLayout)
		r.pipeLayout = nil
	}
	if r.bindLayout != nil {
		r.device.DestroyBindGroupLayout(r.bindLayout)
		r.bindLayout = nil
	}
	if r.shader != nil {
		r.device.DestroyShaderModule(r.shader)
		r.shader = nil
	}
}

// appendMatrix appends m as 16 little-endian float32 values in column-major
// order, the layout of a WGSL mat4x4<f32>.
func appendMatrix(dst []byte, m mgl32.Mat4) []byte {
	for _, v := range m {
		dst = binary.LittleEndian.AppendUint32(dst, math.Float32bits(v))
	}
	return dst
}
