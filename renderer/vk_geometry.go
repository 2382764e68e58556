package renderer

import (
	com "gfx_examples/common"
	"log"

	vk "github.com/goki/vulkan"
)

// VertexBuffer is device local vertex data plus the optional index buffer drawn with it.
type VertexBuffer struct {
	Layout VertexLayout
	Count  uint32

	vertices *com.Buffer
	indices  *com.Buffer
}

// Slice is the range of a vertex buffer a draw call covers. For indexed slices Start and End count indices,
// otherwise vertices.
type Slice struct {
	Start      uint32
	End        uint32
	BaseVertex int32
	Indexed    bool
}

func (s Slice) Count() uint32 {
	if s.End < s.Start {
		return 0
	}
	return s.End - s.Start
}

// CreateVertexBuffer uploads count vertices described by layout and returns a slice over all of them.
func (c *Core) CreateVertexBuffer(vertices []byte, count uint32, layout VertexLayout) (*VertexBuffer, Slice) {
	checkVertexData(vertices, count, layout)
	vb := &VertexBuffer{
		Layout:   layout,
		Count:    count,
		vertices: c.uploadBuffer(vertices, vk.BufferUsageVertexBufferBit),
	}
	log.Printf("Created vertex buffer (%d vertices, %d Byte)", count, len(vertices))
	return vb, Slice{Start: 0, End: count}
}

// CreateVertexBufferIndexed uploads the vertices and an index buffer. Core Vulkan has no 8-bit index type, the
// indices are stored as uint16.
func (c *Core) CreateVertexBufferIndexed(vertices []byte, count uint32, layout VertexLayout, indices []uint8) (*VertexBuffer, Slice) {
	checkVertexData(vertices, count, layout)
	for i, idx := range indices {
		if uint32(idx) >= count {
			log.Panicf("Index %d at position %d out of range for %d vertices", idx, i, count)
		}
	}
	wide := widenIndices(indices)
	vb := &VertexBuffer{
		Layout:   layout,
		Count:    count,
		vertices: c.uploadBuffer(vertices, vk.BufferUsageVertexBufferBit),
		indices:  c.uploadBuffer(com.RawBytes(wide), vk.BufferUsageIndexBufferBit),
	}
	log.Printf("Created indexed vertex buffer (%d vertices, %d indices)", count, len(wide))
	return vb, Slice{Start: 0, End: uint32(len(wide)), Indexed: true}
}

func checkVertexData(vertices []byte, count uint32, layout VertexLayout) {
	if count == 0 || len(vertices) != int(count*layout.Stride) {
		log.Panicf("Vertex data of %d Byte does not hold %d vertices of stride %d", len(vertices), count, layout.Stride)
	}
}

func widenIndices(indices []uint8) []uint16 {
	wide := make([]uint16, len(indices))
	for i, idx := range indices {
		wide[i] = uint16(idx)
	}
	return wide
}
