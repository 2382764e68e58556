package model

import (
	"gfx_examples/common"
	"gfx_examples/renderer"

	vk "github.com/goki/vulkan"
)

// CubeVertex stores position and texture coordinate as scaled integers. The GPU converts them to float without
// normalizing, so a stored 1 is read as 1.0.
type CubeVertex struct {
	Pos      [3]int8
	TexCoord [2]int8
}

func NewCubeVertex(p [3]int8, t [2]int8) CubeVertex {
	return CubeVertex{Pos: p, TexCoord: t}
}

// CubeVertexLayout matches the packed 5 byte layout RawBytes produces for CubeVertex.
var CubeVertexLayout = renderer.VertexLayout{
	Stride: 5,
	Attributes: []renderer.VertexAttribute{
		{Name: "a_Pos", Location: 0, Format: vk.FormatR8g8b8Sscaled, Offset: 0},
		{Name: "a_TexCoord", Location: 1, Format: vk.FormatR8g8Sscaled, Offset: 3},
	},
}

// CubeVertices returns the 24 vertices of a cube spanning [-1, 1] on every axis. Each face has its own 4 vertices
// so the texture coordinates can differ per face.
func CubeVertices() []CubeVertex {
	return []CubeVertex{
		// top (0, 0, 1)
		NewCubeVertex([3]int8{-1, -1, 1}, [2]int8{0, 0}),
		NewCubeVertex([3]int8{1, -1, 1}, [2]int8{1, 0}),
		NewCubeVertex([3]int8{1, 1, 1}, [2]int8{1, 1}),
		NewCubeVertex([3]int8{-1, 1, 1}, [2]int8{0, 1}),
		// bottom (0, 0, -1)
		NewCubeVertex([3]int8{-1, 1, -1}, [2]int8{1, 0}),
		NewCubeVertex([3]int8{1, 1, -1}, [2]int8{0, 0}),
		NewCubeVertex([3]int8{1, -1, -1}, [2]int8{0, 1}),
		NewCubeVertex([3]int8{-1, -1, -1}, [2]int8{1, 1}),
		// right (1, 0, 0)
		NewCubeVertex([3]int8{1, -1, -1}, [2]int8{0, 0}),
		NewCubeVertex([3]int8{1, 1, -1}, [2]int8{1, 0}),
		NewCubeVertex([3]int8{1, 1, 1}, [2]int8{1, 1}),
		NewCubeVertex([3]int8{1, -1, 1}, [2]int8{0, 1}),
		// left (-1, 0, 0)
		NewCubeVertex([3]int8{-1, -1, 1}, [2]int8{1, 0}),
		NewCubeVertex([3]int8{-1, 1, 1}, [2]int8{0, 0}),
		NewCubeVertex([3]int8{-1, 1, -1}, [2]int8{0, 1}),
		NewCubeVertex([3]int8{-1, -1, -1}, [2]int8{1, 1}),
		// front (0, 1, 0)
		NewCubeVertex([3]int8{1, 1, -1}, [2]int8{1, 0}),
		NewCubeVertex([3]int8{-1, 1, -1}, [2]int8{0, 0}),
		NewCubeVertex([3]int8{-1, 1, 1}, [2]int8{0, 1}),
		NewCubeVertex([3]int8{1, 1, 1}, [2]int8{1, 1}),
		// back (0, -1, 0)
		NewCubeVertex([3]int8{1, -1, 1}, [2]int8{0, 0}),
		NewCubeVertex([3]int8{-1, -1, 1}, [2]int8{1, 0}),
		NewCubeVertex([3]int8{-1, -1, -1}, [2]int8{1, 1}),
		NewCubeVertex([3]int8{1, -1, -1}, [2]int8{0, 1}),
	}
}

// CubeIndices splits every face into two counter-clockwise (seen from outside) triangles.
func CubeIndices() []uint8 {
	idx := make([]uint8, 0, 36)
	for f := uint8(0); f < 6; f++ {
		b := f * 4
		idx = append(idx, b, b+1, b+2, b+2, b+3, b)
	}
	return idx
}

func NewCubeMesh() *Mesh {
	v := CubeVertices()
	return &Mesh{
		Name:     "cube",
		Vertices: common.RawBytes(v),
		Count:    uint32(len(v)),
		Layout:   CubeVertexLayout,
		Indices:  CubeIndices(),
	}
}
