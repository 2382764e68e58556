package renderer

import (
	"fmt"
	com "gfx_examples/common"
	"log"

	"github.com/gogpu/naga"
	vk "github.com/goki/vulkan"
)

// Entry points every shader source has to provide, one per stage.
const (
	VertexEntryPoint   = "vs_main"
	FragmentEntryPoint = "fs_main"
)

// compileWGSL translates WGSL source into SPIR-V words.
func compileWGSL(label string, src []byte) ([]uint32, error) {
	spirv, err := naga.Compile(string(src))
	if err != nil {
		return nil, fmt.Errorf("failed to compile %s shader: %w", label, err)
	}
	if len(spirv) == 0 || len(spirv)%4 != 0 {
		return nil, fmt.Errorf("%s shader compiled to %d Byte, not a whole number of SPIR-V words", label, len(spirv))
	}
	return spirvWords(spirv), nil
}

// spirvWords packs little-endian bytes into 32-bit SPIR-V words.
func spirvWords(b []byte) []uint32 {
	words := make([]uint32, len(b)/4)
	for i := range words {
		words[i] = uint32(b[i*4]) |
			uint32(b[i*4+1])<<8 |
			uint32(b[i*4+2])<<16 |
			uint32(b[i*4+3])<<24
	}
	return words
}

// loadShaderStage compiles src and wraps it into a shader module plus the stage info used for pipeline creation.
// The module can be deleted right after the pipeline has been created.
func loadShaderStage(d vk.Device, label string, src []byte, stage vk.ShaderStageFlagBits, entry string) (vk.ShaderModule, vk.PipelineShaderStageCreateInfo, error) {
	code, err := compileWGSL(label, src)
	if err != nil {
		return nil, vk.PipelineShaderStageCreateInfo{}, err
	}
	createInfo := &vk.ShaderModuleCreateInfo{
		SType:    vk.StructureTypeShaderModuleCreateInfo,
		CodeSize: uint64(len(code) * 4),
		PCode:    code,
	}
	module, err := com.VkCreateShaderModule(d, createInfo)
	if err != nil {
		return nil, vk.PipelineShaderStageCreateInfo{}, fmt.Errorf("failed to create %s shader module: %w", label, err)
	}
	log.Printf("Created %s shader module (%d words)", label, len(code))

	stageInfo := vk.PipelineShaderStageCreateInfo{
		SType:  vk.StructureTypePipelineShaderStageCreateInfo,
		Stage:  stage,
		Module: module,
		PName:  com.TerminatedStr(entry),
	}
	return module, stageInfo, nil
}

func deleteShaderMod(d vk.Device, mod vk.ShaderModule) {
	vk.DestroyShaderModule(d, mod, nil)
}
