// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package render defines the renderer boundary of glview.
//
// The viewer consumes its renderer as a collaborator: it never creates
// a window or device on its own. Hosts that already own a GPU device
// pass it in through DeviceHandle (an alias for
// gpucontext.DeviceProvider); headless hosts use NullRenderer.
//
// The package also carries the GPU plumbing shared by renderer
// implementations: texture descriptors for environment-map uploads,
// WGSL shader compilation via naga, and device/queue helpers over
// gogpu/wgpu core.
package render
