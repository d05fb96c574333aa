// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/gogpu/glview/scene"
)

// Renderer draws a scene once per display refresh.
//
// Renderers are stateless between RenderFrame calls with respect to the
// scene: the scene graph is read, never mutated. Per-frame work must be
// bounded by the number of loaded objects, never by asset sizes.
//
// Thread safety: renderers are NOT thread-safe; drive them from the
// frame loop goroutine only.
type Renderer interface {
	// RenderFrame draws the scene with the given view and projection.
	RenderFrame(s *scene.Scene, view, proj mgl32.Mat4) error

	// Flush ensures all pending GPU work is submitted. CPU renderers
	// typically make this a no-op.
	Flush() error
}

// NullRenderer discards every frame. It stands in for a real renderer
// in headless hosts and tests.
type NullRenderer struct {
	// Frames counts RenderFrame calls.
	Frames int
}

// RenderFrame counts the frame and discards it.
func (r *NullRenderer) RenderFrame(s *scene.Scene, view, proj mgl32.Mat4) error {
	r.Frames++
	return nil
}

// Flush is a no-op.
func (r *NullRenderer) Flush() error { return nil }

var _ Renderer = (*NullRenderer)(nil)
