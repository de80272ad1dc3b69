// Copyright 2025 Dominik Honnef and contributors
// SPDX-License-Identifier: Apache-2.0 OR MIT

package texel

import "errors"

var (
	// ErrUnsupportedContext is returned by Canvas.Context for any kind other
	// than ContextWGPU. Requesting an unsupported context is a programmer
	// error and never a silent no-op.
	ErrUnsupportedContext = errors.New("texel: unsupported context kind")

	// ErrNoContext is returned by per-frame operations before Context has
	// been called.
	ErrNoContext = errors.New("texel: no context requested")

	// ErrNoSource is returned when no source texture has been handed to the
	// canvas yet.
	ErrNoSource = errors.New("texel: no source texture set")

	// ErrReleased is returned by operations on a released canvas.
	ErrReleased = errors.New("texel: canvas has been released")

	// ErrUnknownImageFormat is returned by SaveToFile for paths without a
	// recognized image extension, before any GPU work is attempted.
	ErrUnknownImageFormat = errors.New("texel: unrecognized image file extension")
)
