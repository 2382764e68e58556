package renderer

import (
	"fmt"
	"math"

	vk "github.com/goki/vulkan"
)

// Submit records enc into the command buffer of the current frame and submits it. The frame is skipped, without
// error, when the swap chain had to be recreated or the window has no drawable surface.
func (c *Core) Submit(enc *Encoder) error {
	plan, err := enc.plan(c.mainColor, c.mainDepth)
	if err != nil {
		return fmt.Errorf("invalid frame: %w", err)
	}
	c.pendingPresent = false
	if !c.drawable() {
		return nil
	}

	// Wait for frame to be ready - signalled by the inFlightFens
	vk.WaitForFences(c.device.D, 1, []vk.Fence{c.inFlightFens[c.currentFrameIdx]}, vk.True, math.MaxUint64)

	var imgIdx uint32
	result := vk.AcquireNextImage(c.device.D, c.swapChain.Handle, math.MaxUint64, c.imageAvailableSems[c.currentFrameIdx], nil, &imgIdx)
	if result == vk.ErrorOutOfDate {
		c.recreateSwapChain()
		return nil
	} else if result != vk.Success && result != vk.Suboptimal {
		return fmt.Errorf("failed to acquire swap chain image: %w", vk.Error(result))
	}

	// Reset the fence only if we are actually going to execute work that will put the fence into the signalled state
	vk.ResetFences(c.device.D, 1, []vk.Fence{c.inFlightFens[c.currentFrameIdx]})

	cmdBuf := c.commandBuffers[c.currentFrameIdx]
	vk.ResetCommandBuffer(cmdBuf, 0)
	if err := c.recordFrame(cmdBuf, imgIdx, plan); err != nil {
		return err
	}

	submitInfo := vk.SubmitInfo{
		SType:              vk.StructureTypeSubmitInfo,
		WaitSemaphoreCount: 1,
		PWaitSemaphores:    []vk.Semaphore{c.imageAvailableSems[c.currentFrameIdx]},
		PWaitDstStageMask: []vk.PipelineStageFlags{
			vk.PipelineStageFlags(vk.PipelineStageColorAttachmentOutputBit),
		},
		CommandBufferCount:   1,
		PCommandBuffers:      []vk.CommandBuffer{cmdBuf},
		SignalSemaphoreCount: 1,
		PSignalSemaphores:    []vk.Semaphore{c.renderFinishedSems[c.currentFrameIdx]},
	}
	if err := vk.Error(vk.QueueSubmit(c.device.GraphicsQ, 1, []vk.SubmitInfo{submitInfo}, c.inFlightFens[c.currentFrameIdx])); err != nil {
		return fmt.Errorf("failed to submit command buffer: %w", err)
	}
	c.acquiredImg = imgIdx
	c.pendingPresent = true
	return nil
}

func (c *Core) recordFrame(buffer vk.CommandBuffer, imgIdx uint32, plan framePlan) error {
	beginInfo := vk.CommandBufferBeginInfo{
		SType: vk.StructureTypeCommandBufferBeginInfo,
	}
	if err := vk.Error(vk.BeginCommandBuffer(buffer, &beginInfo)); err != nil {
		return fmt.Errorf("failed to begin recording command buffer: %w", err)
	}

	renderArea := vk.Rect2D{
		Offset: vk.Offset2D{X: 0, Y: 0},
		Extent: c.swapChain.Extent,
	}
	clearValues := []vk.ClearValue{
		vk.NewClearValue(plan.clearColor[:]),
		vk.NewClearDepthStencil(plan.clearDepth, 0),
	}
	renderPassInfo := vk.RenderPassBeginInfo{
		SType:           vk.StructureTypeRenderPassBeginInfo,
		RenderPass:      c.renderPass,
		Framebuffer:     c.swapChain.FrameBuffers[imgIdx],
		RenderArea:      renderArea,
		ClearValueCount: uint32(len(clearValues)),
		PClearValues:    clearValues,
	}
	vk.CmdBeginRenderPass(buffer, &renderPassInfo, vk.SubpassContentsInline)

	viewport := []vk.Viewport{{
		Width:    float32(c.swapChain.Extent.Width),
		Height:   float32(c.swapChain.Extent.Height),
		MinDepth: 0,
		MaxDepth: 1.0,
	}}
	vk.CmdSetViewport(buffer, 0, 1, viewport)
	vk.CmdSetScissor(buffer, 0, 1, []vk.Rect2D{renderArea})

	for _, step := range plan.steps {
		switch {
		case step.draw != nil:
			recordDraw(buffer, step.draw)
		case step.clearColor != nil:
			attachment := vk.ClearAttachment{
				AspectMask:      vk.ImageAspectFlags(vk.ImageAspectColorBit),
				ColorAttachment: 0,
				ClearValue:      vk.NewClearValue(step.clearColor[:]),
			}
			vk.CmdClearAttachments(buffer, 1, []vk.ClearAttachment{attachment}, 1, []vk.ClearRect{{Rect: renderArea, LayerCount: 1}})
		case step.clearDepth != nil:
			attachment := vk.ClearAttachment{
				AspectMask: vk.ImageAspectFlags(vk.ImageAspectDepthBit),
				ClearValue: vk.NewClearDepthStencil(*step.clearDepth, 0),
			}
			vk.CmdClearAttachments(buffer, 1, []vk.ClearAttachment{attachment}, 1, []vk.ClearRect{{Rect: renderArea, LayerCount: 1}})
		}
	}

	vk.CmdEndRenderPass(buffer)
	if err := vk.Error(vk.EndCommandBuffer(buffer)); err != nil {
		return fmt.Errorf("failed to record command buffer: %w", err)
	}
	return nil
}

func recordDraw(buffer vk.CommandBuffer, d *drawCmd) {
	vk.CmdBindPipeline(buffer, vk.PipelineBindPointGraphics, d.pipeline.handle)
	if d.resources.set != nil {
		vk.CmdBindDescriptorSets(buffer, vk.PipelineBindPointGraphics, d.pipeline.layout, 0, 1, []vk.DescriptorSet{d.resources.set}, 0, nil)
	}
	vb := d.resources.Data.VertexBuffer
	vk.CmdBindVertexBuffers(buffer, 0, 1, []vk.Buffer{vb.vertices.Handle}, []vk.DeviceSize{0})
	if d.slice.Indexed {
		vk.CmdBindIndexBuffer(buffer, vb.indices.Handle, 0, vk.IndexTypeUint16)
		vk.CmdDrawIndexed(buffer, d.slice.Count(), 1, d.slice.Start, d.slice.BaseVertex, 0)
		return
	}
	vk.CmdDraw(buffer, d.slice.Count(), 1, d.slice.Start, 0)
}

// Present shows the image rendered by the last Submit. An out of date or suboptimal swap chain is recreated.
func (c *Core) Present() error {
	if !c.pendingPresent {
		return nil
	}
	c.pendingPresent = false
	presentInfo := vk.PresentInfo{
		SType:              vk.StructureTypePresentInfo,
		WaitSemaphoreCount: 1,
		PWaitSemaphores:    []vk.Semaphore{c.renderFinishedSems[c.currentFrameIdx]},
		SwapchainCount:     1,
		PSwapchains:        []vk.Swapchain{c.swapChain.Handle},
		PImageIndices:      []uint32{c.acquiredImg},
	}
	result := vk.QueuePresent(c.device.PresentQ, &presentInfo)
	// React on surface changes and other possible causes for failure
	if result == vk.ErrorOutOfDate || result == vk.Suboptimal {
		c.recreateSwapChain()
		return nil
	}
	if err := vk.Error(result); err != nil {
		return fmt.Errorf("failed to present swap chain image: %w", err)
	}
	return nil
}

// Cleanup finishes the frame. The next frame records into the next command buffer once its fence signalled.
func (c *Core) Cleanup() {
	c.currentFrameIdx = (c.currentFrameIdx + 1) % MAX_FRAMES_IN_FLIGHT
}
