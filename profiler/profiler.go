// Copyright 2025 Dominik Honnef and contributors
// SPDX-License-Identifier: Apache-2.0 OR MIT

// Package profiler provides the frame timing instrumentation of the pixel
// pipeline. The pipeline's only GPU wait is the asynchronous buffer map, so
// timings are taken on the CPU side; no timestamp queries are involved.
package profiler

import "time"

// FrameTimings records where one frame's readback time went.
type FrameTimings struct {
	// Draw is the time spent encoding and submitting the supersample
	// dispatch, or converting pixels to cells on the CPU.
	Draw time.Duration
	// Map is the time spent waiting for GPU buffer maps to resolve. This is
	// the dominant per-frame GPU wait.
	Map time.Duration
}

// Reset zeroes the timings for the next frame.
func (t *FrameTimings) Reset() {
	*t = FrameTimings{}
}

// A Span accumulates elapsed time into a duration when ended.
type Span struct {
	start time.Time
	out   *time.Duration
}

func Start(out *time.Duration) Span {
	return Span{start: time.Now(), out: out}
}

func (s Span) End() {
	*s.out += time.Since(s.start)
}
