package renderer

import (
	vk "github.com/goki/vulkan"
)

// VertexAttribute is one named shader input read from the vertex buffer.
type VertexAttribute struct {
	Name     string
	Location uint32
	Format   vk.Format
	Offset   uint32
}

// VertexLayout describes interleaved vertices in a single vertex buffer bound at binding 0.
type VertexLayout struct {
	Stride     uint32
	Attributes []VertexAttribute
}

func (l VertexLayout) Names() []string {
	names := make([]string, len(l.Attributes))
	for i, a := range l.Attributes {
		names[i] = a.Name
	}
	return names
}

func (l VertexLayout) bindingDescription() vk.VertexInputBindingDescription {
	return vk.VertexInputBindingDescription{
		Binding:   0,
		Stride:    l.Stride,
		InputRate: vk.VertexInputRateVertex,
	}
}

func (l VertexLayout) attributeDescriptions() []vk.VertexInputAttributeDescription {
	desc := make([]vk.VertexInputAttributeDescription, len(l.Attributes))
	for i, a := range l.Attributes {
		desc[i] = vk.VertexInputAttributeDescription{
			Location: a.Location,
			Binding:  0,
			Format:   a.Format,
			Offset:   a.Offset,
		}
	}
	return desc
}

// Equal compares stride and attributes, a resource set's vertex buffer must match its pipeline's layout.
func (l VertexLayout) Equal(o VertexLayout) bool {
	if l.Stride != o.Stride || len(l.Attributes) != len(o.Attributes) {
		return false
	}
	for i := range l.Attributes {
		if l.Attributes[i] != o.Attributes[i] {
			return false
		}
	}
	return true
}
