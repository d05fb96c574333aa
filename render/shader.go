// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"fmt"

	"github.com/gogpu/naga"
)

// modelShaderWGSL is the forward shader for loaded models: a single
// directional light plus the environment map as ambient.
const modelShaderWGSL = `
struct Uniforms {
    view: mat4x4<f32>,
    proj: mat4x4<f32>,
    model: mat4x4<f32>,
    light_dir: vec4<f32>,
};

@group(0) @binding(0) var<uniform> u: Uniforms;
@group(0) @binding(1) var env_tex: texture_2d<f32>;
@group(0) @binding(2) var env_samp: sampler;

struct VertexOut {
    @builtin(position) pos: vec4<f32>,
    @location(0) normal: vec3<f32>,
};

@vertex
fn vs_main(@location(0) position: vec3<f32>, @location(1) normal: vec3<f32>) -> VertexOut {
    var out: VertexOut;
    out.pos = u.proj * u.view * u.model * vec4<f32>(position, 1.0);
    out.normal = (u.model * vec4<f32>(normal, 0.0)).xyz;
    return out;
}

@fragment
fn fs_main(in: VertexOut) -> @location(0) vec4<f32> {
    let n = normalize(in.normal);
    let diffuse = max(dot(n, -u.light_dir.xyz), 0.0);
    let uv = vec2<f32>(atan2(n.z, n.x) * 0.15915494 + 0.5, acos(n.y) * 0.31830988);
    let ambient = textureSampleLevel(env_tex, env_samp, uv, 4.0).rgb;
    return vec4<f32>(vec3<f32>(diffuse) + ambient * 0.3, 1.0);
}
`

// CompileModelShader compiles the built-in model shader to SPIR-V.
func CompileModelShader() ([]uint32, error) {
	return CompileShaderToSPIRV(modelShaderWGSL)
}

// CompileShaderToSPIRV compiles WGSL source to a SPIR-V word slice.
func CompileShaderToSPIRV(wgslSource string) ([]uint32, error) {
	spirvBytes, err := naga.Compile(wgslSource)
	if err != nil {
		return nil, fmt.Errorf("compiling shader: %w", err)
	}

	// SPIR-V is little-endian 32-bit words.
	spirvCode := make([]uint32, len(spirvBytes)/4)
	for i := range spirvCode {
		spirvCode[i] = uint32(spirvBytes[i*4]) |
			uint32(spirvBytes[i*4+1])<<8 |
			uint32(spirvBytes[i*4+2])<<16 |
			uint32(spirvBytes[i*4+3])<<24
	}
	return spirvCode, nil
}
