package renderer

import (
	"errors"
	"fmt"
	com "gfx_examples/common"
	"log"

	vk "github.com/goki/vulkan"
)

var ErrUnknownTarget = errors.New("unknown render target")

// TextureSampler pairs a texture view with the sampler it is read through.
type TextureSampler struct {
	View    *TextureView
	Sampler *Sampler
}

// PipelineData binds concrete resources to the names a pipeline declared in its PipelineInit.
// OutDepth is only used by pipelines with a depth output.
type PipelineData struct {
	VertexBuffer *VertexBuffer
	Globals      map[string]*UniformBuffer
	Textures     map[string]TextureSampler
	OutColor     RenderTarget
	OutDepth     DepthTarget
}

// ResourceSet is PipelineData written into a descriptor set of its pipeline's layout.
type ResourceSet struct {
	Data PipelineData

	pool vk.DescriptorPool
	set  vk.DescriptorSet
}

func (rs *ResourceSet) destroy(d vk.Device) {
	if rs.pool != nil {
		// frees the set with it
		vk.DestroyDescriptorPool(d, rs.pool, nil)
	}
}

// validatePipelineData checks data provides every resource init declared, with matching layout and size.
func validatePipelineData(init PipelineInit, data PipelineData) error {
	if data.VertexBuffer == nil {
		return errors.New("no vertex buffer")
	}
	if !data.VertexBuffer.Layout.Equal(init.Vertex) {
		return errors.New("vertex buffer layout differs from pipeline layout")
	}
	for _, g := range init.Globals {
		ub, ok := data.Globals[g.Name]
		if !ok || ub == nil {
			return fmt.Errorf("global %s not bound", g.Name)
		}
		if ub.Size < g.Size {
			return fmt.Errorf("global %s needs %d Byte, buffer holds %d", g.Name, g.Size, ub.Size)
		}
	}
	for _, s := range init.Samplers {
		ts, ok := data.Textures[s.Name]
		if !ok || ts.View == nil || ts.Sampler == nil {
			return fmt.Errorf("texture %s not bound", s.Name)
		}
	}
	if data.OutColor.id != mainTargetID {
		return fmt.Errorf("color output %s: %w", init.OutColor, ErrUnknownTarget)
	}
	if init.OutDepth != nil && data.OutDepth.id != mainTargetID {
		return fmt.Errorf("depth output: %w", ErrUnknownTarget)
	}
	return nil
}

// descriptorPoolSizes counts the descriptors of each type in bindings.
func descriptorPoolSizes(bindings []vk.DescriptorSetLayoutBinding) []vk.DescriptorPoolSize {
	var sizes []vk.DescriptorPoolSize
	for _, b := range bindings {
		found := false
		for i := range sizes {
			if sizes[i].Type == b.DescriptorType {
				sizes[i].DescriptorCount += b.DescriptorCount
				found = true
				break
			}
		}
		if !found {
			sizes = append(sizes, vk.DescriptorPoolSize{Type: b.DescriptorType, DescriptorCount: b.DescriptorCount})
		}
	}
	return sizes
}

// CreateResourceSet validates data against pso and writes it into a descriptor set once. Pipelines without
// globals or textures get a set without descriptors.
func (c *Core) CreateResourceSet(pso *PipelineState, data PipelineData) (*ResourceSet, error) {
	if pso == nil {
		return nil, ErrNoPipeline
	}
	if err := validatePipelineData(pso.Init, data); err != nil {
		return nil, fmt.Errorf("invalid pipeline data: %w", err)
	}
	rs := &ResourceSet{Data: data}
	bindings := descriptorBindings(pso.Init)
	if len(bindings) == 0 {
		c.resourceSets = append(c.resourceSets, rs)
		return rs, nil
	}

	poolSizes := descriptorPoolSizes(bindings)
	poolInfo := vk.DescriptorPoolCreateInfo{
		SType:         vk.StructureTypeDescriptorPoolCreateInfo,
		MaxSets:       1,
		PoolSizeCount: uint32(len(poolSizes)),
		PPoolSizes:    poolSizes,
	}
	var err error
	if rs.pool, err = com.VkCreateDescriptorPool(c.device.D, &poolInfo); err != nil {
		return nil, fmt.Errorf("failed to create descriptor pool: %w", err)
	}
	if rs.set, err = com.VkAllocateDescriptorSet(c.device.D, rs.pool, pso.setLayout); err != nil {
		rs.destroy(c.device.D)
		return nil, fmt.Errorf("failed to allocate descriptor set: %w", err)
	}

	writes := descriptorWrites(rs.set, pso.Init, data)
	vk.UpdateDescriptorSets(c.device.D, uint32(len(writes)), writes, 0, nil)
	c.resourceSets = append(c.resourceSets, rs)
	log.Printf("Created resource set with %d descriptors", len(writes))
	return rs, nil
}

func descriptorWrites(set vk.DescriptorSet, init PipelineInit, data PipelineData) []vk.WriteDescriptorSet {
	var writes []vk.WriteDescriptorSet
	for _, g := range init.Globals {
		ub := data.Globals[g.Name]
		writes = append(writes, vk.WriteDescriptorSet{
			SType:           vk.StructureTypeWriteDescriptorSet,
			DstSet:          set,
			DstBinding:      g.Binding,
			DescriptorCount: 1,
			DescriptorType:  vk.DescriptorTypeUniformBuffer,
			PBufferInfo: []vk.DescriptorBufferInfo{{
				Buffer: ub.buffer.Handle,
				Offset: 0,
				Range:  vk.DeviceSize(g.Size),
			}},
		})
	}
	for _, s := range init.Samplers {
		ts := data.Textures[s.Name]
		writes = append(writes,
			vk.WriteDescriptorSet{
				SType:           vk.StructureTypeWriteDescriptorSet,
				DstSet:          set,
				DstBinding:      s.TextureBinding,
				DescriptorCount: 1,
				DescriptorType:  vk.DescriptorTypeSampledImage,
				PImageInfo: []vk.DescriptorImageInfo{{
					ImageView:   ts.View.view(),
					ImageLayout: vk.ImageLayoutShaderReadOnlyOptimal,
				}},
			},
			vk.WriteDescriptorSet{
				SType:           vk.StructureTypeWriteDescriptorSet,
				DstSet:          set,
				DstBinding:      s.SamplerBinding,
				DescriptorCount: 1,
				DescriptorType:  vk.DescriptorTypeSampler,
				PImageInfo: []vk.DescriptorImageInfo{{
					Sampler: ts.Sampler.handle,
				}},
			},
		)
	}
	return writes
}
