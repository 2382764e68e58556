package model

import (
	"gfx_examples/common"
	"gfx_examples/renderer"

	vk "github.com/goki/vulkan"
)

type TriangleVertex struct {
	Pos   [2]float32 // 8 Byte
	Color [3]float32 // 12 Byte
}

var TriangleVertexLayout = renderer.VertexLayout{
	Stride: 20,
	Attributes: []renderer.VertexAttribute{
		{Name: "a_Pos", Location: 0, Format: vk.FormatR32g32Sfloat, Offset: 0},
		{Name: "a_Color", Location: 1, Format: vk.FormatR32g32b32Sfloat, Offset: 8},
	},
}

// TriangleVertices is a red, green and blue cornered triangle centered in clip space.
func TriangleVertices() []TriangleVertex {
	return []TriangleVertex{
		{Pos: [2]float32{-0.5, -0.5}, Color: [3]float32{1, 0, 0}},
		{Pos: [2]float32{0.5, -0.5}, Color: [3]float32{0, 1, 0}},
		{Pos: [2]float32{0, 0.5}, Color: [3]float32{0, 0, 1}},
	}
}

func NewTriangleMesh() *Mesh {
	v := TriangleVertices()
	return &Mesh{
		Name:     "triangle",
		Vertices: common.RawBytes(v),
		Count:    uint32(len(v)),
		Layout:   TriangleVertexLayout,
	}
}
