package mesh

import (
	_ "embed"
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/naga"
)

// SpriteShaderSource is the WGSL shader that consumes SpriteVertex.
// It decodes positions, texture coordinates and alpha with the scales
// defined in this package.
//
//go:embed shaders/sprite.wgsl
var SpriteShaderSource string

// VertexLayout returns the GPU vertex buffer layout of SpriteVertex.
func VertexLayout() []gputypes.VertexBufferLayout {
	return []gputypes.VertexBufferLayout{
		{
			ArrayStride: VertexStride,
			StepMode:    gputypes.VertexStepModeVertex,
			Attributes: []gputypes.VertexAttribute{
				{Format: gputypes.VertexFormatFloat32x4, Offset: 0, ShaderLocation: 0}, // position
				{Format: gputypes.VertexFormatUnorm16x2, Offset: 16, ShaderLocation: 1}, // uv
				{Format: gputypes.VertexFormatUnorm8x4, Offset: 20, ShaderLocation: 2},  // color
				{Format: gputypes.VertexFormatUnorm16x2, Offset: 24, ShaderLocation: 3}, // alpha, reserved
			},
		},
	}
}

// CompileSpriteShader compiles SpriteShaderSource to SPIR-V words.
func CompileSpriteShader() ([]uint32, error) {
	spirvBytes, err := naga.Compile(SpriteShaderSource)
	if err != nil {
		return nil, fmt.Errorf("mesh: failed to compile sprite shader: %w", err)
	}

	// SPIR-V is little-endian 32-bit words
	spirvCode := make([]uint32, len(spirvBytes)/4)
	for i := range spirvCode {
		spirvCode[i] = uint32(spirvBytes[i*4]) |
			uint32(spirvBytes[i*4+1])<<8 |
			uint32(spirvBytes[i*4+2])<<16 |
			uint32(spirvBytes[i*4+3])<<24
	}
	return spirvCode, nil
}
