// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/g3d"
)

// growableBuffer is a GPU buffer that is reused across frames and
// reallocated with at least double the size when a frame outgrows it.
type growableBuffer struct {
	label string
	usage gputypes.BufferUsage
	buf   hal.Buffer
	size  uint64
}

func newGrowableBuffer(label string, usage gputypes.BufferUsage) *growableBuffer {
	return &growableBuffer{label: label, usage: usage | gputypes.BufferUsageCopyDst}
}

// ensure makes the buffer at least needed bytes long. It reports whether
// the buffer was reallocated, in which case bind groups referencing it
// must be rebuilt.
func (b *growableBuffer) ensure(device hal.Device, needed uint64) (bool, error) {
	if b.buf != nil && b.size >= needed {
		return false, nil
	}
	size := max(b.size*2, needed)
	// Buffer sizes stay 4-byte aligned for WriteBuffer.
	size = (size + 3) &^ 3

	buf, err := device.CreateBuffer(&hal.BufferDescriptor{
		Label: b.label,
		Size:  size,
		Usage: b.usage,
	})
	if err != nil {
		return false, fmt.Errorf("create %s (%d bytes): %w", b.label, size, err)
	}
	g3d.Logger().Debug("render: grow buffer", "buffer", b.label, "from", b.size, "to", size)
	if b.buf != nil {
		device.DestroyBuffer(b.buf)
	}
	b.buf = buf
	b.size = size
	return true, nil
}

// upload grows the buffer to fit data and writes it at offset 0.
func (b *growableBuffer) upload(device hal.Device, queue hal.Queue, data []byte) (bool, error) {
	grown, err := b.ensure(device, uint64(len(data)))
	if err != nil {
		return false, err
	}
	if len(data) == 0 {
		return grown, nil
	}
	if err := queue.WriteBuffer(b.buf, 0, data); err != nil {
		return grown, fmt.Errorf("write %s: %w", b.label, err)
	}
	return grown, nil
}

func (b *growableBuffer) destroy(device hal.Device) {
	if b.buf != nil {
		device.DestroyBuffer(b.buf)
		b.buf = nil
		b.size = 0
	}
}
