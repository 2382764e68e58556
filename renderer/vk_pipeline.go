package renderer

import (
	"errors"
	"fmt"
	com "gfx_examples/common"
	"log"
	"strings"

	"github.com/gogpu/naga/ir"
	vk "github.com/goki/vulkan"
)

type CullFace int

const (
	CullNothing CullFace = iota
	CullFront
	CullBack
)

func (cf CullFace) String() string {
	switch cf {
	case CullNothing:
		return "nothing"
	case CullFront:
		return "front"
	case CullBack:
		return "back"
	default:
		return fmt.Sprintf("CullFace(%d)", int(cf))
	}
}

func (cf CullFace) vkMode() vk.CullModeFlags {
	switch cf {
	case CullFront:
		return vk.CullModeFlags(vk.CullModeFrontBit)
	case CullBack:
		return vk.CullModeFlags(vk.CullModeBackBit)
	default:
		return vk.CullModeFlags(vk.CullModeNone)
	}
}

// DepthState is the depth test of a pipeline drawing into a depth target.
type DepthState struct {
	Compare vk.CompareOp
	Write   bool
}

// DepthLessEqualWrite passes fragments at the same or smaller depth and writes their depth.
var DepthLessEqualWrite = DepthState{Compare: vk.CompareOpLessOrEqual, Write: true}

// GlobalBinding is a uniform buffer the shaders read under Name.
type GlobalBinding struct {
	Name    string
	Binding uint32
	Size    uint32
}

// SamplerBinding is a texture sampled in the fragment shader. Texture and sampler use separate bindings.
type SamplerBinding struct {
	Name           string
	TextureBinding uint32
	SamplerBinding uint32
}

// PipelineInit declares everything a pipeline reads and writes, by the names the shaders use.
type PipelineInit struct {
	Vertex   VertexLayout
	Globals  []GlobalBinding
	Samplers []SamplerBinding
	OutColor string
	OutDepth *DepthState
}

// Names lists every declared name: vertex attributes, globals, textures and outputs.
func (p PipelineInit) Names() []string {
	names := p.Vertex.Names()
	for _, g := range p.Globals {
		names = append(names, g.Name)
	}
	for _, t := range p.Samplers {
		names = append(names, t.Name)
	}
	if p.OutColor != "" {
		names = append(names, p.OutColor)
	}
	return names
}

func (p PipelineInit) validate() error {
	if p.OutColor == "" {
		return errors.New("pipeline has no color output")
	}
	if len(p.Vertex.Attributes) == 0 || p.Vertex.Stride == 0 {
		return errors.New("pipeline has no vertex input")
	}
	seen := map[uint32]string{}
	claim := func(binding uint32, name string) error {
		if other, ok := seen[binding]; ok {
			return fmt.Errorf("binding %d used by both %s and %s", binding, other, name)
		}
		seen[binding] = name
		return nil
	}
	for _, g := range p.Globals {
		if g.Size == 0 {
			return fmt.Errorf("global %s has size 0", g.Name)
		}
		if err := claim(g.Binding, g.Name); err != nil {
			return err
		}
	}
	for _, t := range p.Samplers {
		if err := claim(t.TextureBinding, t.Name); err != nil {
			return err
		}
		if err := claim(t.SamplerBinding, t.Name+" sampler"); err != nil {
			return err
		}
	}
	return nil
}

// LinkError lists pipeline names the shaders do not declare and names declared at another location or binding.
type LinkError struct {
	Missing    []string
	Mismatched []string
}

func (e *LinkError) Error() string {
	var parts []string
	if len(e.Missing) > 0 {
		parts = append(parts, "not declared: "+strings.Join(e.Missing, ", "))
	}
	if len(e.Mismatched) > 0 {
		parts = append(parts, "mismatched: "+strings.Join(e.Mismatched, ", "))
	}
	return "shader link failed, " + strings.Join(parts, "; ")
}

// checkLinkage reflects both entry points and matches them against init: vertex attributes by input location,
// globals and textures by binding in group 0, OutColor as fragment output at location 0.
func checkLinkage(init PipelineInit, vs, fs []byte) error {
	vert, err := reflectWGSL("vertex", vs, ir.StageVertex, VertexEntryPoint)
	if err != nil {
		return err
	}
	frag, err := reflectWGSL("fragment", fs, ir.StageFragment, FragmentEntryPoint)
	if err != nil {
		return err
	}

	le := &LinkError{}
	if vert == nil {
		le.Missing = append(le.Missing, VertexEntryPoint)
		vert = &shaderInterface{}
	}
	if frag == nil {
		le.Missing = append(le.Missing, FragmentEntryPoint)
		frag = &shaderInterface{}
	}
	expect := func(name, kind string, want uint32, got map[string]uint32) {
		loc, ok := got[name]
		switch {
		case !ok:
			le.Missing = append(le.Missing, name)
		case loc != want:
			le.Mismatched = append(le.Mismatched, fmt.Sprintf("%s at %s %d, pipeline uses %d", name, kind, loc, want))
		}
	}

	for _, a := range init.Vertex.Attributes {
		expect(a.Name, "location", a.Location, vert.inputs)
	}
	bindings := map[string]uint32{}
	used := map[uint32]bool{}
	for _, si := range []*shaderInterface{vert, frag} {
		for name, b := range si.bindings {
			bindings[name] = b
			used[b] = true
		}
	}
	for _, g := range init.Globals {
		expect(g.Name, "binding", g.Binding, bindings)
	}
	for _, t := range init.Samplers {
		expect(t.Name, "binding", t.TextureBinding, bindings)
		if !used[t.SamplerBinding] {
			le.Missing = append(le.Missing, fmt.Sprintf("%s sampler (binding %d)", t.Name, t.SamplerBinding))
		}
	}
	expect(init.OutColor, "location", 0, frag.outputs)

	if len(le.Missing) > 0 || len(le.Mismatched) > 0 {
		return le
	}
	return nil
}

// PipelineState is a compiled graphics pipeline with the layout of the resources it binds.
type PipelineState struct {
	Init PipelineInit
	Cull CullFace

	handle    vk.Pipeline
	layout    vk.PipelineLayout
	setLayout vk.DescriptorSetLayout
}

func (p *PipelineState) destroy(d vk.Device) {
	vk.DestroyPipeline(d, p.handle, nil)
	vk.DestroyPipelineLayout(d, p.layout, nil)
	if p.setLayout != nil {
		vk.DestroyDescriptorSetLayout(d, p.setLayout, nil)
	}
}

// descriptorBindings describes the descriptor set of init: uniforms are visible to both stages, textures and
// samplers to the fragment stage.
func descriptorBindings(init PipelineInit) []vk.DescriptorSetLayoutBinding {
	var bindings []vk.DescriptorSetLayoutBinding
	for _, g := range init.Globals {
		bindings = append(bindings, vk.DescriptorSetLayoutBinding{
			Binding:         g.Binding,
			DescriptorType:  vk.DescriptorTypeUniformBuffer,
			DescriptorCount: 1,
			StageFlags:      vk.ShaderStageFlags(vk.ShaderStageVertexBit | vk.ShaderStageFragmentBit),
		})
	}
	for _, t := range init.Samplers {
		bindings = append(bindings,
			vk.DescriptorSetLayoutBinding{
				Binding:         t.TextureBinding,
				DescriptorType:  vk.DescriptorTypeSampledImage,
				DescriptorCount: 1,
				StageFlags:      vk.ShaderStageFlags(vk.ShaderStageFragmentBit),
			},
			vk.DescriptorSetLayoutBinding{
				Binding:         t.SamplerBinding,
				DescriptorType:  vk.DescriptorTypeSampler,
				DescriptorCount: 1,
				StageFlags:      vk.ShaderStageFlags(vk.ShaderStageFragmentBit),
			},
		)
	}
	return bindings
}

// CreatePipelineSimple builds a triangle list pipeline from a vertex and a fragment shader (WGSL source) for
// drawing into the main targets. Link, compile and Vulkan errors are returned.
func (c *Core) CreatePipelineSimple(vs, fs []byte, cull CullFace, init PipelineInit) (*PipelineState, error) {
	if err := init.validate(); err != nil {
		return nil, fmt.Errorf("invalid pipeline: %w", err)
	}
	if err := checkLinkage(init, vs, fs); err != nil {
		return nil, err
	}
	log.Printf("Linked shader names: %s", strings.Join(init.Names(), ", "))
	for _, a := range init.Vertex.Attributes {
		if !c.device.SupportsVertexFormat(a.Format) {
			return nil, fmt.Errorf("vertex format %d of %s not supported by device", a.Format, a.Name)
		}
	}

	vertMod, vertStage, err := loadShaderStage(c.device.D, "vertex", vs, vk.ShaderStageVertexBit, VertexEntryPoint)
	if err != nil {
		return nil, err
	}
	defer deleteShaderMod(c.device.D, vertMod)
	fragMod, fragStage, err := loadShaderStage(c.device.D, "fragment", fs, vk.ShaderStageFragmentBit, FragmentEntryPoint)
	if err != nil {
		return nil, err
	}
	defer deleteShaderMod(c.device.D, fragMod)

	ps := &PipelineState{Init: init, Cull: cull}
	var setLayouts []vk.DescriptorSetLayout
	if bindings := descriptorBindings(init); len(bindings) > 0 {
		layoutInfo := vk.DescriptorSetLayoutCreateInfo{
			SType:        vk.StructureTypeDescriptorSetLayoutCreateInfo,
			BindingCount: uint32(len(bindings)),
			PBindings:    bindings,
		}
		if ps.setLayout, err = com.VkCreateDescriptorSetLayout(c.device.D, &layoutInfo); err != nil {
			return nil, fmt.Errorf("failed to create descriptor set layout: %w", err)
		}
		setLayouts = append(setLayouts, ps.setLayout)
	}
	pipelineLayoutInfo := vk.PipelineLayoutCreateInfo{
		SType:          vk.StructureTypePipelineLayoutCreateInfo,
		SetLayoutCount: uint32(len(setLayouts)),
		PSetLayouts:    setLayouts,
	}
	if ps.layout, err = com.VkCreatePipelineLayout(c.device.D, &pipelineLayoutInfo); err != nil {
		ps.destroy(c.device.D)
		return nil, fmt.Errorf("failed to create pipeline layout: %w", err)
	}

	if ps.handle, err = com.VkCreateGraphicsPipeline(c.device.D, c.graphicsPipelineInfo(ps, vertStage, fragStage)); err != nil {
		ps.destroy(c.device.D)
		return nil, fmt.Errorf("failed to create graphics pipeline: %w", err)
	}
	c.pipelines = append(c.pipelines, ps)
	log.Printf("Successfully created graphics pipeline (cull: %s, depth: %v)", cull, init.OutDepth != nil)
	return ps, nil
}

func (c *Core) graphicsPipelineInfo(ps *PipelineState, stages ...vk.PipelineShaderStageCreateInfo) vk.GraphicsPipelineCreateInfo {
	// Viewport and scissor follow the swap chain extent, they are set when recording each frame
	dynamicStates := []vk.DynamicState{
		vk.DynamicStateViewport,
		vk.DynamicStateScissor,
	}
	dynamicStateInfo := vk.PipelineDynamicStateCreateInfo{
		SType:             vk.StructureTypePipelineDynamicStateCreateInfo,
		DynamicStateCount: uint32(len(dynamicStates)),
		PDynamicStates:    dynamicStates,
	}
	attributeDesc := ps.Init.Vertex.attributeDescriptions()
	vertexInputInfo := vk.PipelineVertexInputStateCreateInfo{
		SType:                           vk.StructureTypePipelineVertexInputStateCreateInfo,
		VertexBindingDescriptionCount:   1,
		PVertexBindingDescriptions:      []vk.VertexInputBindingDescription{ps.Init.Vertex.bindingDescription()},
		VertexAttributeDescriptionCount: uint32(len(attributeDesc)),
		PVertexAttributeDescriptions:    attributeDesc,
	}
	inputAssemblyInfo := vk.PipelineInputAssemblyStateCreateInfo{
		SType:                  vk.StructureTypePipelineInputAssemblyStateCreateInfo,
		Topology:               vk.PrimitiveTopologyTriangleList,
		PrimitiveRestartEnable: vk.False,
	}
	viewportStateInfo := vk.PipelineViewportStateCreateInfo{
		SType:         vk.StructureTypePipelineViewportStateCreateInfo,
		ViewportCount: 1,
		ScissorCount:  1,
	}
	rasterizerInfo := vk.PipelineRasterizationStateCreateInfo{
		SType:       vk.StructureTypePipelineRasterizationStateCreateInfo,
		PolygonMode: vk.PolygonModeFill,
		CullMode:    ps.Cull.vkMode(),
		FrontFace:   vk.FrontFaceCounterClockwise,
		LineWidth:   1.0,
	}
	multisamplingInfo := vk.PipelineMultisampleStateCreateInfo{
		SType:                vk.StructureTypePipelineMultisampleStateCreateInfo,
		RasterizationSamples: vk.SampleCount1Bit,
		MinSampleShading:     1.0,
	}
	colorBlendAttachmentInfo := vk.PipelineColorBlendAttachmentState{
		BlendEnable:    vk.False,
		ColorWriteMask: vk.ColorComponentFlags(vk.ColorComponentRBit | vk.ColorComponentGBit | vk.ColorComponentBBit | vk.ColorComponentABit),
	}
	colorBlendingInfo := vk.PipelineColorBlendStateCreateInfo{
		SType:           vk.StructureTypePipelineColorBlendStateCreateInfo,
		LogicOp:         vk.LogicOpCopy,
		AttachmentCount: 1,
		PAttachments:    []vk.PipelineColorBlendAttachmentState{colorBlendAttachmentInfo},
	}
	depthStencil := depthStencilInfo(ps.Init.OutDepth)

	return vk.GraphicsPipelineCreateInfo{
		SType:               vk.StructureTypeGraphicsPipelineCreateInfo,
		StageCount:          uint32(len(stages)),
		PStages:             stages,
		PVertexInputState:   &vertexInputInfo,
		PInputAssemblyState: &inputAssemblyInfo,
		PViewportState:      &viewportStateInfo,
		PRasterizationState: &rasterizerInfo,
		PMultisampleState:   &multisamplingInfo,
		PDepthStencilState:  &depthStencil,
		PColorBlendState:    &colorBlendingInfo,
		PDynamicState:       &dynamicStateInfo,
		Layout:              ps.layout,
		RenderPass:          c.renderPass,
		Subpass:             0,
		BasePipelineIndex:   -1,
	}
}

// depthStencilInfo disables the depth test for pipelines without a depth output.
func depthStencilInfo(ds *DepthState) vk.PipelineDepthStencilStateCreateInfo {
	info := vk.PipelineDepthStencilStateCreateInfo{
		SType:          vk.StructureTypePipelineDepthStencilStateCreateInfo,
		DepthCompareOp: vk.CompareOpAlways,
		MaxDepthBounds: 1,
	}
	if ds != nil {
		info.DepthTestEnable = vk.True
		info.DepthCompareOp = ds.Compare
		if ds.Write {
			info.DepthWriteEnable = vk.True
		}
	}
	return info
}
