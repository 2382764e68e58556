package model

import (
	"gfx_examples/renderer"
)

// Mesh is static geometry in its upload form: tightly packed vertex bytes, the vertex count, the layout describing
// those bytes and optional 8-bit indices.
type Mesh struct {
	Name     string
	Vertices []byte
	Count    uint32
	Layout   renderer.VertexLayout
	Indices  []uint8
}

func (m *Mesh) Indexed() bool {
	return len(m.Indices) > 0
}

// VBufferSize is the size of the vertex buffer in device memory.
func (m *Mesh) VBufferSize() int {
	return len(m.Vertices)
}

// Upload creates the device side vertex (and index) buffer for this mesh together with the slice drawing all of it.
func (m *Mesh) Upload(c *renderer.Core) (*renderer.VertexBuffer, renderer.Slice) {
	if m.Indexed() {
		return c.CreateVertexBufferIndexed(m.Vertices, m.Count, m.Layout, m.Indices)
	}
	return c.CreateVertexBuffer(m.Vertices, m.Count, m.Layout)
}
