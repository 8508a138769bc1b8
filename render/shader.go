package render

import (
	_ "embed"
	"fmt"

	"github.com/gogpu/naga"
	"github.com/gogpu/wgpu/hal"
)

// Embedded WGSL shader sources.

//go:embed shaders/shape.wgsl
var shapeShaderSource string

//go:embed shaders/sprite.wgsl
var spriteShaderSource string

//go:embed shaders/geometry.wgsl
var geometryShaderSource string

// Shader entry points shared by every module.
const (
	vertexEntryPoint   = "vs_main"
	fragmentEntryPoint = "fs_main"
)

// compileShader validates src with naga and creates the device module from
// the WGSL text, leaving backend-specific translation to the HAL.
func compileShader(device hal.Device, label, src string) (hal.ShaderModule, error) {
	if _, err := naga.Compile(src); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrShaderCompile, label, err)
	}

	module, err := device.CreateShaderModule(&hal.ShaderModuleDescriptor{
		Label:  label,
		Source: hal.ShaderSource{WGSL: src},
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrShaderCompile, label, err)
	}
	return module, nil
}
