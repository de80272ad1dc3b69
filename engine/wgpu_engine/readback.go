// Copyright 2025 Dominik Honnef and contributors
// SPDX-License-Identifier: Apache-2.0 OR MIT

package wgpu_engine

import (
	"fmt"
	"time"

	"honnef.co/go/texel/gfx"
	"honnef.co/go/wgpu"
)

// Frame is a host-visible view of one rendered frame. Data points into a
// mapped GPU buffer and is only valid until the visit callback returns; it
// must not escape. Rows are BytesPerRow apart, which is larger than
// Width*4 whenever the copy required padding.
type Frame struct {
	Data        []byte
	Format      gfx.Format
	BytesPerRow int
	Width       int
	Height      int
}

// readback owns the host-mappable buffer that texture-to-buffer copies land
// in. One buffer is reused across frames and recreated when the dimensions
// change.
type readback struct {
	eng *Engine

	buf      *wgpu.Buffer
	width    uint32
	height   uint32
	inFlight bool
}

func newReadback(eng *Engine) *readback {
	return &readback{eng: eng}
}

func (rb *readback) ensure(width, height uint32) {
	if rb.buf != nil && rb.width == width && rb.height == height {
		return
	}
	if rb.buf != nil {
		rb.buf.Release()
	}
	size := uint64(gfx.AlignedBytesPerRow(width)) * uint64(height)
	rb.buf = rb.eng.dev.CreateBuffer(&wgpu.BufferDescriptor{
		Label: "pixel readback",
		Size:  size,
		Usage: wgpu.BufferUsageMapRead | wgpu.BufferUsageCopyDst,
	})
	rb.width = width
	rb.height = height
}

// read copies tex into the readback buffer, maps it and passes the mapped
// bytes to visit. The buffer is unmapped when visit returns. A read while
// the previous map is still outstanding returns ErrInFlight; issuing a
// second map against the same buffer produces undefined reads, so the frame
// is skipped instead.
func (rb *readback) read(tex *wgpu.Texture, width, height uint32, format gfx.Format, visit func(Frame) error) error {
	if rb.inFlight {
		return ErrInFlight
	}
	rb.ensure(width, height)
	stride := gfx.AlignedBytesPerRow(width)
	size := uint64(stride) * uint64(height)

	enc := rb.eng.dev.CreateCommandEncoder(&wgpu.CommandEncoderDescriptor{Label: "readback copy"})
	enc.CopyTextureToBuffer(
		&wgpu.ImageCopyTexture{
			Texture:  tex,
			MipLevel: 0,
			Origin:   wgpu.Origin3D{},
			Aspect:   wgpu.TextureAspectAll,
		},
		&wgpu.ImageCopyBuffer{
			Buffer: rb.buf,
			Layout: wgpu.TextureDataLayout{
				Offset:       0,
				BytesPerRow:  stride,
				RowsPerImage: height,
			},
		},
		&wgpu.Extent3D{Width: width, Height: height, DepthOrArrayLayers: 1},
	)
	cmd := enc.Finish(nil)
	enc.Release()
	rb.eng.queue.Submit(cmd)
	cmd.Release()

	rb.inFlight = true
	start := time.Now()
	err := <-rb.buf.Map(rb.eng.dev, wgpu.MapModeRead, 0, int(size))
	rb.eng.timings.Map += time.Since(start)
	if err != nil {
		rb.inFlight = false
		return &DeviceError{Err: fmt.Errorf("mapping readback buffer: %w", err)}
	}
	defer func() {
		rb.buf.Unmap()
		rb.inFlight = false
	}()

	return visit(Frame{
		Data:        rb.buf.ReadOnlyMappedRange(0, int(size)),
		Format:      format,
		BytesPerRow: int(stride),
		Width:       int(width),
		Height:      int(height),
	})
}

func (rb *readback) release() {
	if rb.buf != nil {
		rb.buf.Release()
		rb.buf = nil
	}
}

// ReadFrame copies the current contents of tex into host memory and visits
// the mapped bytes. It serves both the CPU supersampling path and the
// direct pixel-to-cell path; the caller decides what to do with the raw
// rows.
func (eng *Engine) ReadFrame(tex *wgpu.Texture, width, height uint32, format gfx.Format, visit func(Frame) error) error {
	return eng.readback.read(tex, width, height, format, visit)
}
