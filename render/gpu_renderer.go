// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"errors"
	"fmt"
	"log"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/core"

	"github.com/gogpu/glview/scene"
)

// GPURenderer draws scenes through a wgpu device. It owns the device
// and queue created from the host's adapter, plus the compiled model
// shader.
//
// Draw submission uses stub pipeline IDs until wgpu render pipeline
// support is complete; frame traversal and resource lifetime are final.
type GPURenderer struct {
	adapter core.AdapterID
	device  core.DeviceID
	queue   core.QueueID

	// shaderSPIRV holds the compiled model shader words.
	shaderSPIRV []uint32

	modelPipeline StubPipelineID

	// lastMVP holds the most recent model-view-projection matrix,
	// pushed as uniforms with each draw.
	lastMVP mgl32.Mat4

	// Frames counts completed RenderFrame calls.
	Frames int

	// Draws counts mesh draws submitted across all frames.
	Draws int
}

// StubPipelineID is a placeholder for actual wgpu RenderPipelineID.
// This will be replaced with core.RenderPipelineID when wgpu support is complete.
type StubPipelineID uint64

// InvalidPipelineID represents an invalid/uninitialized pipeline.
const InvalidPipelineID StubPipelineID = 0

// ErrNoGPU indicates no usable GPU adapter was found.
var ErrNoGPU = errors.New("render: no GPU adapter available")

// OpenGPURenderer creates a renderer on the best available adapter,
// preferring a high-performance GPU. The renderer owns the adapter;
// Close releases it.
func OpenGPURenderer() (*GPURenderer, error) {
	instance := core.NewInstance(&gputypes.InstanceDescriptor{
		Backends: gputypes.BackendsPrimary,
	})
	adapterID, err := instance.RequestAdapter(&gputypes.RequestAdapterOptions{
		PowerPreference: gputypes.PowerPreferenceHighPerformance,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNoGPU, err)
	}
	return NewGPURenderer(adapterID)
}

// NewGPURenderer creates a renderer on the given adapter. It requests
// a device, retrieves its queue, and compiles the model shader. The
// renderer takes ownership of the adapter and releases it in Close.
func NewGPURenderer(adapterID core.AdapterID) (*GPURenderer, error) {
	deviceID, err := CreateDevice(adapterID, "glview model renderer")
	if err != nil {
		return nil, err
	}
	queueID, err := DeviceQueue(deviceID)
	if err != nil {
		if releaseErr := ReleaseDevice(deviceID); releaseErr != nil {
			log.Printf("render: device release failed: %v", releaseErr)
		}
		return nil, err
	}

	spirv, err := CompileModelShader()
	if err != nil {
		if releaseErr := ReleaseDevice(deviceID); releaseErr != nil {
			log.Printf("render: device release failed: %v", releaseErr)
		}
		return nil, fmt.Errorf("preparing model shader: %w", err)
	}

	return &GPURenderer{
		adapter:     adapterID,
		device:      deviceID,
		queue:       queueID,
		shaderSPIRV: spirv,
	}, nil
}

// Device returns the renderer's device ID.
func (r *GPURenderer) Device() core.DeviceID { return r.device }

// Queue returns the renderer's queue ID.
func (r *GPURenderer) Queue() core.QueueID { return r.queue }

// ShaderWordCount returns the size of the compiled model shader in
// SPIR-V words.
func (r *GPURenderer) ShaderWordCount() int { return len(r.shaderSPIRV) }

// RenderFrame walks the scene and submits one draw per mesh node.
func (r *GPURenderer) RenderFrame(s *scene.Scene, view, proj mgl32.Mat4) error {
	if r.device.IsZero() {
		return fmt.Errorf("rendering frame: renderer is closed")
	}

	drawn := 0
	s.Root().Walk(func(n *scene.Node) bool {
		if n.Mesh() != nil {
			r.drawNode(n, view, proj)
			drawn++
		}
		return true
	})

	r.Frames++
	r.Draws += drawn
	return nil
}

// drawNode encodes one mesh draw. Pipeline binding is stubbed until
// wgpu render pipeline support is complete.
func (r *GPURenderer) drawNode(n *scene.Node, view, proj mgl32.Mat4) {
	if r.modelPipeline == InvalidPipelineID {
		// TODO: When wgpu render pipelines are ready, create the real
		// pipeline from r.shaderSPIRV via core.CreateRenderPipeline.
		r.modelPipeline = StubPipelineID(1)
	}

	mvp := proj.Mul4(view).Mul4(n.WorldMatrix())
	r.lastMVP = mvp
}

// Flush is a no-op; submissions complete within RenderFrame.
func (r *GPURenderer) Flush() error { return nil }

// Close releases the device and the adapter. Close is idempotent.
func (r *GPURenderer) Close() error {
	if err := ReleaseDevice(r.device); err != nil {
		return err
	}
	r.device = core.DeviceID{}
	r.queue = core.QueueID{}

	if err := ReleaseAdapter(r.adapter); err != nil {
		return err
	}
	r.adapter = core.AdapterID{}
	return nil
}

var _ Renderer = (*GPURenderer)(nil)
