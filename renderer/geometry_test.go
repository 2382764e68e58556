package renderer

import (
	"testing"

	vk "github.com/goki/vulkan"
	"github.com/stretchr/testify/assert"
)

func TestWidenIndices(t *testing.T) {
	assert.Equal(t, []uint16{0, 1, 2, 2, 3, 0, 255}, widenIndices([]uint8{0, 1, 2, 2, 3, 0, 255}))
	assert.Empty(t, widenIndices(nil))
}

func TestSliceCount(t *testing.T) {
	assert.Equal(t, uint32(36), Slice{Start: 0, End: 36, Indexed: true}.Count())
	assert.Equal(t, uint32(2), Slice{Start: 1, End: 3}.Count())
	assert.Equal(t, uint32(0), Slice{Start: 4, End: 3}.Count())
}

func TestCheckVertexData(t *testing.T) {
	assert.NotPanics(t, func() { checkVertexData(make([]byte, 120), 24, texturedLayout) })
	assert.Panics(t, func() { checkVertexData(make([]byte, 119), 24, texturedLayout) })
	assert.Panics(t, func() { checkVertexData(nil, 0, texturedLayout) })
}

func TestVertexLayoutDescriptions(t *testing.T) {
	binding := texturedLayout.bindingDescription()
	assert.Equal(t, uint32(0), binding.Binding)
	assert.Equal(t, uint32(5), binding.Stride)
	assert.Equal(t, vk.VertexInputRateVertex, binding.InputRate)

	attrs := texturedLayout.attributeDescriptions()
	assert.Equal(t, []vk.VertexInputAttributeDescription{
		{Location: 0, Binding: 0, Format: vk.FormatR8g8b8Sscaled, Offset: 0},
		{Location: 1, Binding: 0, Format: vk.FormatR8g8Sscaled, Offset: 3},
	}, attrs)
	assert.Equal(t, []string{"a_Pos", "a_TexCoord"}, texturedLayout.Names())
}

func TestVertexLayoutEqual(t *testing.T) {
	same := VertexLayout{Stride: 5, Attributes: append([]VertexAttribute(nil), texturedLayout.Attributes...)}
	assert.True(t, texturedLayout.Equal(same))

	same.Attributes[1].Offset = 2
	assert.False(t, texturedLayout.Equal(same))
	assert.False(t, texturedLayout.Equal(VertexLayout{Stride: 5}))
}
