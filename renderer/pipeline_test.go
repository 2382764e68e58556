package renderer

import (
	"errors"
	"strings"
	"testing"

	"github.com/gogpu/naga/ir"
	vk "github.com/goki/vulkan"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var texturedLayout = VertexLayout{
	Stride: 5,
	Attributes: []VertexAttribute{
		{Name: "a_Pos", Location: 0, Format: vk.FormatR8g8b8Sscaled, Offset: 0},
		{Name: "a_TexCoord", Location: 1, Format: vk.FormatR8g8Sscaled, Offset: 3},
	},
}

func texturedInit() PipelineInit {
	return PipelineInit{
		Vertex:   texturedLayout,
		Globals:  []GlobalBinding{{Name: "u_Transform", Binding: 0, Size: 64}},
		Samplers: []SamplerBinding{{Name: "t_Color", TextureBinding: 1, SamplerBinding: 2}},
		OutColor: "o_Color",
		OutDepth: &DepthLessEqualWrite,
	}
}

const texturedVS = `
struct Locals { transform: mat4x4<f32>, }
@group(0) @binding(0) var<uniform> u_Transform: Locals;
struct VertexOutput {
    @builtin(position) position: vec4<f32>,
    @location(0) v_TexCoord: vec2<f32>,
}
@vertex
fn vs_main(@location(0) a_Pos: vec3<f32>, @location(1) a_TexCoord: vec2<f32>) -> VertexOutput {
    var out: VertexOutput;
    out.v_TexCoord = a_TexCoord;
    out.position = u_Transform.transform * vec4<f32>(a_Pos, 1.0);
    return out;
}`

const texturedFS = `
@group(0) @binding(1) var t_Color: texture_2d<f32>;
@group(0) @binding(2) var t_Color_sampler: sampler;
struct FragmentOutput { @location(0) o_Color: vec4<f32>, }
@fragment
fn fs_main(@location(0) v_TexCoord: vec2<f32>) -> FragmentOutput {
    var out: FragmentOutput;
    out.o_Color = textureSample(t_Color, t_Color_sampler, v_TexCoord);
    return out;
}`

// a_Pos and a_TexCoord trade locations
const swappedVS = `
struct Locals { transform: mat4x4<f32>, }
@group(0) @binding(0) var<uniform> u_Transform: Locals;
struct VertexOutput {
    @builtin(position) position: vec4<f32>,
    @location(0) v_TexCoord: vec2<f32>,
}
@vertex
fn vs_main(@location(1) a_Pos: vec3<f32>, @location(0) a_TexCoord: vec2<f32>) -> VertexOutput {
    var out: VertexOutput;
    out.v_TexCoord = a_TexCoord;
    out.position = u_Transform.transform * vec4<f32>(a_Pos, 1.0);
    return out;
}`

// t_Color and o_Color show up in comments only
const commentedFS = `
// reads t_Color, writes o_Color
@group(0) @binding(1) var t_Diffuse: texture_2d<f32>;
@group(0) @binding(2) var t_Diffuse_sampler: sampler;
struct FragmentOutput { @location(0) o_Target: vec4<f32>, }
@fragment
fn fs_main(@location(0) v_TexCoord: vec2<f32>) -> FragmentOutput {
    var out: FragmentOutput;
    out.o_Target = textureSample(t_Diffuse, t_Diffuse_sampler, v_TexCoord);
    return out;
}`

func TestPipelineInitNames(t *testing.T) {
	assert.Equal(t, []string{"a_Pos", "a_TexCoord", "u_Transform", "t_Color", "o_Color"}, texturedInit().Names())
}

func TestReflectWGSL(t *testing.T) {
	vert, err := reflectWGSL("vertex", []byte(texturedVS), ir.StageVertex, VertexEntryPoint)
	require.NoError(t, err)
	require.NotNil(t, vert)
	assert.Equal(t, map[string]uint32{"a_Pos": 0, "a_TexCoord": 1}, vert.inputs)
	assert.Equal(t, map[string]uint32{"v_TexCoord": 0}, vert.outputs)
	assert.Equal(t, map[string]uint32{"u_Transform": 0}, vert.bindings)

	frag, err := reflectWGSL("fragment", []byte(texturedFS), ir.StageFragment, FragmentEntryPoint)
	require.NoError(t, err)
	require.NotNil(t, frag)
	assert.Equal(t, map[string]uint32{"o_Color": 0}, frag.outputs)
	assert.Equal(t, map[string]uint32{"t_Color": 1, "t_Color_sampler": 2}, frag.bindings)

	none, err := reflectWGSL("vertex", []byte(texturedFS), ir.StageVertex, VertexEntryPoint)
	require.NoError(t, err)
	assert.Nil(t, none)
}

func TestCheckLinkage(t *testing.T) {
	require.NoError(t, checkLinkage(texturedInit(), []byte(texturedVS), []byte(texturedFS)))

	err := checkLinkage(texturedInit(), []byte(texturedVS), []byte(texturedVS))
	var linkErr *LinkError
	require.ErrorAs(t, err, &linkErr)
	assert.Equal(t, []string{"fs_main", "t_Color", "t_Color sampler (binding 2)", "o_Color"}, linkErr.Missing)
	assert.ErrorContains(t, err, "not declared: fs_main")
}

func TestCheckLinkageSwappedLocations(t *testing.T) {
	err := checkLinkage(texturedInit(), []byte(swappedVS), []byte(texturedFS))
	var linkErr *LinkError
	require.ErrorAs(t, err, &linkErr)
	assert.Empty(t, linkErr.Missing)
	assert.Equal(t, []string{
		"a_Pos at location 1, pipeline uses 0",
		"a_TexCoord at location 0, pipeline uses 1",
	}, linkErr.Mismatched)
}

func TestCheckLinkageIgnoresComments(t *testing.T) {
	err := checkLinkage(texturedInit(), []byte(texturedVS), []byte(commentedFS))
	var linkErr *LinkError
	require.ErrorAs(t, err, &linkErr)
	assert.Equal(t, []string{"t_Color", "o_Color"}, linkErr.Missing)
	assert.Empty(t, linkErr.Mismatched)
}

func TestCheckLinkageBindings(t *testing.T) {
	moved := texturedInit()
	moved.Globals[0].Binding = 3
	err := checkLinkage(moved, []byte(texturedVS), []byte(texturedFS))
	var linkErr *LinkError
	require.ErrorAs(t, err, &linkErr)
	assert.Equal(t, []string{"u_Transform at binding 0, pipeline uses 3"}, linkErr.Mismatched)

	noSampler := texturedInit()
	noSampler.Samplers[0].SamplerBinding = 4
	err = checkLinkage(noSampler, []byte(texturedVS), []byte(texturedFS))
	require.ErrorAs(t, err, &linkErr)
	assert.Equal(t, []string{"t_Color sampler (binding 4)"}, linkErr.Missing)
}

func TestCheckLinkageColorOutputLocation(t *testing.T) {
	fs := strings.Replace(texturedFS, "@location(0) o_Color", "@location(1) o_Color", 1)
	err := checkLinkage(texturedInit(), []byte(texturedVS), []byte(fs))
	var linkErr *LinkError
	require.ErrorAs(t, err, &linkErr)
	assert.Equal(t, []string{"o_Color at location 1, pipeline uses 0"}, linkErr.Mismatched)
}

func TestCheckLinkageRejectsInvalidSource(t *testing.T) {
	err := checkLinkage(texturedInit(), []byte("fn vs_main( {"), []byte(texturedFS))
	require.Error(t, err)
	var linkErr *LinkError
	assert.False(t, errors.As(err, &linkErr))
	assert.ErrorContains(t, err, "vertex shader")
}

func TestPipelineInitValidate(t *testing.T) {
	require.NoError(t, texturedInit().validate())

	noOut := texturedInit()
	noOut.OutColor = ""
	assert.Error(t, noOut.validate())

	noVertex := texturedInit()
	noVertex.Vertex = VertexLayout{}
	assert.Error(t, noVertex.validate())

	clash := texturedInit()
	clash.Samplers[0].SamplerBinding = 0
	assert.ErrorContains(t, clash.validate(), "binding 0")

	empty := texturedInit()
	empty.Globals[0].Size = 0
	assert.Error(t, empty.validate())
}

func TestDescriptorBindings(t *testing.T) {
	bindings := descriptorBindings(texturedInit())
	require.Len(t, bindings, 3)

	assert.Equal(t, uint32(0), bindings[0].Binding)
	assert.Equal(t, vk.DescriptorTypeUniformBuffer, bindings[0].DescriptorType)
	assert.Equal(t, vk.ShaderStageFlags(vk.ShaderStageVertexBit|vk.ShaderStageFragmentBit), bindings[0].StageFlags)

	assert.Equal(t, uint32(1), bindings[1].Binding)
	assert.Equal(t, vk.DescriptorTypeSampledImage, bindings[1].DescriptorType)
	assert.Equal(t, vk.ShaderStageFlags(vk.ShaderStageFragmentBit), bindings[1].StageFlags)

	assert.Equal(t, uint32(2), bindings[2].Binding)
	assert.Equal(t, vk.DescriptorTypeSampler, bindings[2].DescriptorType)

	assert.Empty(t, descriptorBindings(PipelineInit{Vertex: texturedLayout, OutColor: "o_Color"}))
}

func TestDepthStencilInfo(t *testing.T) {
	off := depthStencilInfo(nil)
	assert.Equal(t, vk.Bool32(vk.False), off.DepthTestEnable)
	assert.Equal(t, vk.Bool32(vk.False), off.DepthWriteEnable)

	on := depthStencilInfo(&DepthLessEqualWrite)
	assert.Equal(t, vk.Bool32(vk.True), on.DepthTestEnable)
	assert.Equal(t, vk.Bool32(vk.True), on.DepthWriteEnable)
	assert.Equal(t, vk.CompareOpLessOrEqual, on.DepthCompareOp)

	readOnly := depthStencilInfo(&DepthState{Compare: vk.CompareOpLess})
	assert.Equal(t, vk.Bool32(vk.False), readOnly.DepthWriteEnable)
}

func TestCullFace(t *testing.T) {
	assert.Equal(t, vk.CullModeFlags(vk.CullModeNone), CullNothing.vkMode())
	assert.Equal(t, vk.CullModeFlags(vk.CullModeFrontBit), CullFront.vkMode())
	assert.Equal(t, vk.CullModeFlags(vk.CullModeBackBit), CullBack.vkMode())
	assert.Equal(t, "back", CullBack.String())
}

func TestSpirvWords(t *testing.T) {
	words := spirvWords([]byte{0x03, 0x02, 0x23, 0x07, 0x00, 0x00, 0x01, 0x00})
	assert.Equal(t, []uint32{0x07230203, 0x00010000}, words)
}

func TestCompileWGSLRejectsInvalidSource(t *testing.T) {
	_, err := compileWGSL("vertex", []byte("fn vs_main( {"))
	assert.ErrorContains(t, err, "failed to compile vertex shader")
}
