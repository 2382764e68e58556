package renderer

import (
	com "gfx_examples/common"
	"log"
	"math"

	vk "github.com/goki/vulkan"
)

// Helpers tied to a Core that record and run one-off transfer work on the graphics queue.

func (c *Core) beginSingleTimeCommands() vk.CommandBuffer {
	buffers, err := com.VkAllocateCommandBuffersPrimary(c.device.D, c.commandPool, 1)
	if err != nil {
		log.Panicf("Failed to create command buffer for single time use: %v", err)
	}
	beginInfo := vk.CommandBufferBeginInfo{
		SType: vk.StructureTypeCommandBufferBeginInfo,
		Flags: vk.CommandBufferUsageFlags(vk.CommandBufferUsageOneTimeSubmitBit),
	}
	if err := vk.Error(vk.BeginCommandBuffer(buffers[0], &beginInfo)); err != nil {
		log.Panicf("Failed to begin single time command buffer: %v", err)
	}
	return buffers[0]
}

// endSingleTimeCommands submits cmdBuf and blocks until the work is done, then frees the buffer.
func (c *Core) endSingleTimeCommands(cmdBuf vk.CommandBuffer) {
	if err := vk.Error(vk.EndCommandBuffer(cmdBuf)); err != nil {
		log.Panicf("Failed to end single time command buffer: %v", err)
	}
	fence, err := com.VkCreateFenceSignaled(c.device.D)
	if err != nil {
		log.Panicf("Failed to create fence for single time command buffer: %v", err)
	}
	defer vk.DestroyFence(c.device.D, fence, nil)
	vk.ResetFences(c.device.D, 1, []vk.Fence{fence})

	submitInfo := vk.SubmitInfo{
		SType:              vk.StructureTypeSubmitInfo,
		CommandBufferCount: 1,
		PCommandBuffers:    []vk.CommandBuffer{cmdBuf},
	}
	if err := vk.Error(vk.QueueSubmit(c.device.GraphicsQ, 1, []vk.SubmitInfo{submitInfo}, fence)); err != nil {
		log.Panicf("Failed to submit single time command buffer: %v", err)
	}
	vk.WaitForFences(c.device.D, 1, []vk.Fence{fence}, vk.True, math.MaxUint64)
	vk.FreeCommandBuffers(c.device.D, c.commandPool, 1, []vk.CommandBuffer{cmdBuf})
}

func (c *Core) copyBuffer(src *com.Buffer, dst *com.Buffer, s vk.DeviceSize) {
	cmdBuf := c.beginSingleTimeCommands()
	vk.CmdCopyBuffer(cmdBuf, src.Handle, dst.Handle, 1, []vk.BufferCopy{{Size: s}})
	c.endSingleTimeCommands(cmdBuf)
}

// uploadBuffer creates a device local buffer with the given usage and fills it with payload through a temporary
// staging buffer.
func (c *Core) uploadBuffer(payload []byte, usage vk.BufferUsageFlagBits) *com.Buffer {
	size := vk.DeviceSize(len(payload))
	stgBuf := c.stagingBuffer(payload)
	defer com.DestroyBuffer(c.device, stgBuf)

	buf := com.CreateBuffer(
		c.device,
		size,
		vk.BufferUsageFlags(vk.BufferUsageTransferDstBit|usage),
		com.DeviceLocal,
	)
	c.copyBuffer(stgBuf, buf, size)
	c.buffers = append(c.buffers, buf)
	return buf
}

func (c *Core) stagingBuffer(payload []byte) *com.Buffer {
	stgBuf := com.CreateBuffer(
		c.device,
		vk.DeviceSize(len(payload)),
		vk.BufferUsageFlags(vk.BufferUsageTransferSrcBit),
		com.HostVisibleCoherent,
	)
	com.CopyToDeviceBuffer(c.device, stgBuf, payload)
	return stgBuf
}

func (c *Core) transitionImageLayout(img vk.Image, format vk.Format, old vk.ImageLayout, new vk.ImageLayout) {
	aspectFlags := vk.ImageAspectFlags(vk.ImageAspectColorBit)
	if new == vk.ImageLayoutDepthStencilAttachmentOptimal {
		aspectFlags = vk.ImageAspectFlags(vk.ImageAspectDepthBit)
		if hasStencilComponent(format) {
			aspectFlags |= vk.ImageAspectFlags(vk.ImageAspectStencilBit)
		}
	}

	barrier := vk.ImageMemoryBarrier{
		SType:               vk.StructureTypeImageMemoryBarrier,
		OldLayout:           old,
		NewLayout:           new,
		SrcQueueFamilyIndex: vk.QueueFamilyIgnored,
		DstQueueFamilyIndex: vk.QueueFamilyIgnored,
		Image:               img,
		SubresourceRange: vk.ImageSubresourceRange{
			AspectMask: aspectFlags,
			LevelCount: 1,
			LayerCount: 1,
		},
	}

	var srcStage, dstStage vk.PipelineStageFlagBits
	switch {
	case old == vk.ImageLayoutUndefined && new == vk.ImageLayoutTransferDstOptimal:
		barrier.DstAccessMask = vk.AccessFlags(vk.AccessTransferWriteBit)
		srcStage, dstStage = vk.PipelineStageTopOfPipeBit, vk.PipelineStageTransferBit
	case old == vk.ImageLayoutTransferDstOptimal && new == vk.ImageLayoutShaderReadOnlyOptimal:
		barrier.SrcAccessMask = vk.AccessFlags(vk.AccessTransferWriteBit)
		barrier.DstAccessMask = vk.AccessFlags(vk.AccessShaderReadBit)
		srcStage, dstStage = vk.PipelineStageTransferBit, vk.PipelineStageFragmentShaderBit
	case old == vk.ImageLayoutUndefined && new == vk.ImageLayoutDepthStencilAttachmentOptimal:
		barrier.DstAccessMask = vk.AccessFlags(vk.AccessDepthStencilAttachmentReadBit | vk.AccessDepthStencilAttachmentWriteBit)
		srcStage, dstStage = vk.PipelineStageTopOfPipeBit, vk.PipelineStageEarlyFragmentTestsBit
	default:
		log.Panicf("Unsupported image layout transition %d -> %d", old, new)
	}

	cmdBuf := c.beginSingleTimeCommands()
	vk.CmdPipelineBarrier(
		cmdBuf,
		vk.PipelineStageFlags(srcStage), vk.PipelineStageFlags(dstStage),
		0,
		0, nil,
		0, nil,
		1, []vk.ImageMemoryBarrier{barrier},
	)
	c.endSingleTimeCommands(cmdBuf)
}

func (c *Core) copyBufferToImage(buffer vk.Buffer, img vk.Image, w uint32, h uint32) {
	region := vk.BufferImageCopy{
		ImageSubresource: vk.ImageSubresourceLayers{
			AspectMask: vk.ImageAspectFlags(vk.ImageAspectColorBit),
			LayerCount: 1,
		},
		ImageExtent: vk.Extent3D{Width: w, Height: h, Depth: 1},
	}
	cmdBuf := c.beginSingleTimeCommands()
	vk.CmdCopyBufferToImage(cmdBuf, buffer, img, vk.ImageLayoutTransferDstOptimal, 1, []vk.BufferImageCopy{region})
	c.endSingleTimeCommands(cmdBuf)
}
