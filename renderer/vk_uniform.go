package renderer

import (
	com "gfx_examples/common"
	"log"

	vk "github.com/goki/vulkan"
)

// UniformBuffer holds constant shader globals in host visible memory.
type UniformBuffer struct {
	Size uint32

	buffer *com.Buffer
}

// CreateUniformBuffer allocates a uniform buffer and writes payload into it once.
func (c *Core) CreateUniformBuffer(payload []byte) *UniformBuffer {
	if len(payload) == 0 {
		log.Panicf("Failed to create uniform buffer: empty payload")
	}
	buf := com.CreateBuffer(
		c.device,
		vk.DeviceSize(len(payload)),
		vk.BufferUsageFlags(vk.BufferUsageUniformBufferBit),
		com.HostVisibleCoherent,
	)
	com.CopyToDeviceBuffer(c.device, buf, payload)
	c.buffers = append(c.buffers, buf)
	log.Printf("Created uniform buffer (%d Byte)", len(payload))
	return &UniformBuffer{Size: uint32(len(payload)), buffer: buf}
}
