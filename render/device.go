// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"fmt"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/core"
)

// DeviceHandle provides GPU device access from the host application.
//
// The host owns the device; glview receives it and shares resources
// with whatever else the host renders. DeviceHandle is an alias for
// gpucontext.DeviceProvider so any gogpu host satisfies it directly.
type DeviceHandle = gpucontext.DeviceProvider

// NullDeviceHandle is a DeviceHandle with no GPU behind it, for
// CPU-only or headless hosts.
type NullDeviceHandle struct{}

// Device returns the zero handle for the null device.
func (NullDeviceHandle) Device() gpucontext.Device { return gpucontext.Device{} }

// Queue returns the zero handle for the null device.
func (NullDeviceHandle) Queue() gpucontext.Queue { return gpucontext.Queue{} }

// Adapter returns the zero handle for the null device.
func (NullDeviceHandle) Adapter() gpucontext.Adapter { return gpucontext.Adapter{} }

// AdapterInfo returns empty info for the null device.
func (NullDeviceHandle) AdapterInfo() gpucontext.AdapterInfo { return gpucontext.AdapterInfo{} }

// SurfaceFormat returns undefined format for the null device.
func (NullDeviceHandle) SurfaceFormat() gputypes.TextureFormat {
	return gputypes.TextureFormatUndefined
}

var _ DeviceHandle = NullDeviceHandle{}

// TextureDescriptor describes parameters for creating a texture,
// mirroring the WebGPU GPUTextureDescriptor.
type TextureDescriptor struct {
	// Label is an optional debug label.
	Label string

	// Width and Height are the texture size in pixels.
	Width  uint32
	Height uint32

	// MipLevelCount is the number of mip levels. Use 1 for none.
	MipLevelCount uint32

	// Format is the texture pixel format.
	Format gputypes.TextureFormat
}

// EnvironmentTextureDescriptor returns the descriptor for an HDR
// equirectangular environment upload: half-float RGBA with a full mip
// chain for roughness-based lookups.
func EnvironmentTextureDescriptor(width, height uint32) TextureDescriptor {
	mips := uint32(1)
	for s := max32(width, height); s > 1; s >>= 1 {
		mips++
	}
	return TextureDescriptor{
		Label:         "glview environment",
		Width:         width,
		Height:        height,
		MipLevelCount: mips,
		Format:        gputypes.TextureFormatRGBA16Float,
	}
}

func max32(a, b uint32) uint32 {
	if a > b {
		return a
	}
	return b
}

// CreateDevice creates a logical device on the adapter.
func CreateDevice(adapterID core.AdapterID, label string) (core.DeviceID, error) {
	desc := &gputypes.DeviceDescriptor{
		Label:            label,
		RequiredFeatures: nil,
		RequiredLimits:   gputypes.DefaultLimits(),
	}
	deviceID, err := core.RequestDevice(adapterID, desc)
	if err != nil {
		return core.DeviceID{}, fmt.Errorf("creating device: %w", err)
	}
	return deviceID, nil
}

// DeviceQueue retrieves the submission queue of a device.
func DeviceQueue(deviceID core.DeviceID) (core.QueueID, error) {
	queueID, err := core.GetDeviceQueue(deviceID)
	if err != nil {
		return core.QueueID{}, fmt.Errorf("getting device queue: %w", err)
	}
	return queueID, nil
}

// ReleaseDevice releases a device. Releasing a zero device is a no-op.
func ReleaseDevice(deviceID core.DeviceID) error {
	if deviceID.IsZero() {
		return nil
	}
	if err := core.DeviceDrop(deviceID); err != nil {
		return fmt.Errorf("releasing device: %w", err)
	}
	return nil
}

// ReleaseAdapter releases an adapter. Releasing a zero adapter is a
// no-op.
func ReleaseAdapter(adapterID core.AdapterID) error {
	if adapterID.IsZero() {
		return nil
	}
	if err := core.AdapterDrop(adapterID); err != nil {
		return fmt.Errorf("releasing adapter: %w", err)
	}
	return nil
}
