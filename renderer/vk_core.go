package renderer

import (
	com "gfx_examples/common"
	"log"

	vk "github.com/goki/vulkan"
)

const MAX_FRAMES_IN_FLIGHT = 3

// RenderTarget identifies a color attachment that can be cleared and drawn to. The only one is the window's
// swap chain image handed out by Init.
type RenderTarget struct {
	id uint32
}

// DepthTarget identifies the depth attachment handed out by Init.
type DepthTarget struct {
	id uint32
}

const mainTargetID = 1

type Core struct {
	// OS/Window level
	Win    *com.Window
	device *com.Device

	// Target level
	swapChain     *com.SwapChain
	surfaceFormat vk.Format
	depthFormat vk.Format
	depth       *com.Image
	mainColor   RenderTarget
	mainDepth   DepthTarget

	// Drawing infrastructure level
	renderPass  vk.RenderPass
	commandPool vk.CommandPool

	// Frame level
	commandBuffers     []vk.CommandBuffer
	currentFrameIdx    int
	imageAvailableSems []vk.Semaphore
	renderFinishedSems []vk.Semaphore
	inFlightFens       []vk.Fence
	acquiredImg        uint32
	pendingPresent     bool

	// Everything created through the factory methods, released by Destroy
	buffers      []*com.Buffer
	images       []*com.Image
	samplers     []vk.Sampler
	pipelines    []*PipelineState
	resourceSets []*ResourceSet
}

// Init opens the window described by cfg and sets up everything needed to render into it. It returns the core
// together with the window's color and depth targets. Failures are fatal.
func Init(cfg Config) (*Core, RenderTarget, DepthTarget) {
	c := &Core{
		mainColor: RenderTarget{id: mainTargetID},
		mainDepth: DepthTarget{id: mainTargetID},
	}
	c.Initialize(cfg)
	return c, c.mainColor, c.mainDepth
}

func (c *Core) Initialize(cfg Config) {
	c.Win = com.NewWindow(cfg.Title, cfg.Width, cfg.Height, cfg.layers())
	c.device = com.NewDevice(c.Win, cfg.layers())
	c.surfaceFormat = cfg.SurfaceFormat
	c.swapChain = com.NewSwapChain(c.device, c.Win, c.surfaceFormat)

	c.createCommandPool()
	c.findDepthFormat()
	c.createRenderPass()
	c.createDepthResources()
	c.createFrameBuffers()
	c.createCommandBuffers()
	c.createSyncObjects()
}

// Aspect is width / height of the current swap chain images.
func (c *Core) Aspect() float32 {
	return c.swapChain.Aspect
}

func (c *Core) Extent() vk.Extent2D {
	return c.swapChain.Extent
}

// WaitIdle blocks until the device finished all submitted work.
func (c *Core) WaitIdle() {
	c.device.WaitIdle()
}

func (c *Core) Destroy() {
	// We need to wait for the last asynchronous call to finish before tear down
	c.device.WaitIdle()

	for _, rs := range c.resourceSets {
		rs.destroy(c.device.D)
	}
	for _, p := range c.pipelines {
		p.destroy(c.device.D)
	}
	for _, s := range c.samplers {
		vk.DestroySampler(c.device.D, s, nil)
	}
	for _, img := range c.images {
		com.DestroyImage(c.device, img)
	}
	for _, buf := range c.buffers {
		com.DestroyBuffer(c.device, buf)
	}

	c.destroySwapChainAndDerivatives()
	for i := 0; i < MAX_FRAMES_IN_FLIGHT; i++ {
		vk.DestroySemaphore(c.device.D, c.imageAvailableSems[i], nil)
		vk.DestroySemaphore(c.device.D, c.renderFinishedSems[i], nil)
		vk.DestroyFence(c.device.D, c.inFlightFens[i], nil)
	}
	vk.DestroyCommandPool(c.device.D, c.commandPool, nil)
	vk.DestroyRenderPass(c.device.D, c.renderPass, nil)

	c.device.Destroy()
	c.Win.Destroy()
	log.Println("Released all GPU resources")
}

func (c *Core) destroySwapChainAndDerivatives() {
	com.DestroyImage(c.device, c.depth)
	c.swapChain.Destroy(c.device)
}

func (c *Core) createRenderPass() {
	colorAttachment := vk.AttachmentDescription{
		Format:         c.swapChain.Format.Format,
		Samples:        vk.SampleCount1Bit,
		LoadOp:         vk.AttachmentLoadOpClear,
		StoreOp:        vk.AttachmentStoreOpStore,
		StencilLoadOp:  vk.AttachmentLoadOpDontCare,
		StencilStoreOp: vk.AttachmentStoreOpDontCare,
		InitialLayout:  vk.ImageLayoutUndefined,
		FinalLayout:    vk.ImageLayoutPresentSrc,
	}
	colorAttachmentRef := vk.AttachmentReference{
		Attachment: 0,
		Layout:     vk.ImageLayoutColorAttachmentOptimal,
	}
	depthAttachment := vk.AttachmentDescription{
		Format:         c.depthFormat,
		Samples:        vk.SampleCount1Bit,
		LoadOp:         vk.AttachmentLoadOpClear,
		StoreOp:        vk.AttachmentStoreOpDontCare,
		StencilLoadOp:  vk.AttachmentLoadOpClear,
		StencilStoreOp: vk.AttachmentStoreOpDontCare,
		InitialLayout:  vk.ImageLayoutUndefined,
		FinalLayout:    vk.ImageLayoutDepthStencilAttachmentOptimal,
	}
	depthAttachmentRef := vk.AttachmentReference{
		Attachment: 1,
		Layout:     vk.ImageLayoutDepthStencilAttachmentOptimal,
	}
	subpass := vk.SubpassDescription{
		PipelineBindPoint:       vk.PipelineBindPointGraphics,
		ColorAttachmentCount:    1,
		PColorAttachments:       []vk.AttachmentReference{colorAttachmentRef},
		PDepthStencilAttachment: &depthAttachmentRef,
	}
	dependency := vk.SubpassDependency{
		SrcSubpass:    vk.SubpassExternal,
		DstSubpass:    0,
		SrcStageMask:  vk.PipelineStageFlags(vk.PipelineStageColorAttachmentOutputBit | vk.PipelineStageEarlyFragmentTestsBit),
		DstStageMask:  vk.PipelineStageFlags(vk.PipelineStageColorAttachmentOutputBit | vk.PipelineStageEarlyFragmentTestsBit),
		DstAccessMask: vk.AccessFlags(vk.AccessColorAttachmentWriteBit | vk.AccessDepthStencilAttachmentWriteBit),
	}
	renderPassInfo := vk.RenderPassCreateInfo{
		SType:           vk.StructureTypeRenderPassCreateInfo,
		AttachmentCount: 2,
		PAttachments:    []vk.AttachmentDescription{colorAttachment, depthAttachment},
		SubpassCount:    1,
		PSubpasses:      []vk.SubpassDescription{subpass},
		DependencyCount: 1,
		PDependencies:   []vk.SubpassDependency{dependency},
	}
	var err error
	c.renderPass, err = com.VkCreateRenderPass(c.device.D, &renderPassInfo)
	if err != nil {
		log.Panicf("Failed create render pass due to: %s", err)
	}
	log.Println("Successfully created render pass")
}

func (c *Core) createFrameBuffers() {
	c.swapChain.CreateFrameBuffers(c.device, c.renderPass, c.depth.View)
}

func (c *Core) createCommandPool() {
	commandPool, err := com.VkCreateCommandPool(
		c.device.D,
		vk.CommandPoolCreateFlags(vk.CommandPoolCreateResetCommandBufferBit),
		*c.device.QFamilies.GraphicsFamily,
	)
	if err != nil {
		log.Panicf("Failed to create command pool: %v", err)
	}
	log.Printf("Successfully created command pool")
	c.commandPool = commandPool
}

func (c *Core) createCommandBuffers() {
	buffers, err := com.VkAllocateCommandBuffersPrimary(c.device.D, c.commandPool, MAX_FRAMES_IN_FLIGHT)
	if err != nil {
		log.Panicf("Failed to allocate command buffers: %v", err)
	}
	log.Printf("Successfully allocated %d command buffers", len(buffers))
	c.commandBuffers = buffers
}

func (c *Core) createSyncObjects() {
	c.imageAvailableSems = make([]vk.Semaphore, MAX_FRAMES_IN_FLIGHT)
	c.renderFinishedSems = make([]vk.Semaphore, MAX_FRAMES_IN_FLIGHT)
	c.inFlightFens = make([]vk.Fence, MAX_FRAMES_IN_FLIGHT)
	for i := 0; i < MAX_FRAMES_IN_FLIGHT; i++ {
		var err1, err2, err3 error
		c.imageAvailableSems[i], err1 = com.VkCreateSemaphore(c.device.D)
		c.renderFinishedSems[i], err2 = com.VkCreateSemaphore(c.device.D)
		c.inFlightFens[i], err3 = com.VkCreateFenceSignaled(c.device.D)
		if err1 != nil || err2 != nil || err3 != nil {
			log.Panicf("Failed to create sync objects for frame %d", i)
		}
	}
}

func (c *Core) createDepthResources() {
	c.depth = com.CreateImage(
		c.device,
		c.swapChain.Extent.Width,
		c.swapChain.Extent.Height,
		c.depthFormat,
		vk.ImageUsageFlags(vk.ImageUsageDepthStencilAttachmentBit),
		vk.ImageAspectFlags(vk.ImageAspectDepthBit),
	)
	c.transitionImageLayout(c.depth.Handle, c.depthFormat, vk.ImageLayoutUndefined, vk.ImageLayoutDepthStencilAttachmentOptimal)
}

func (c *Core) findDepthFormat() {
	format, ok := c.device.FindSupportedFormat(
		[]vk.Format{vk.FormatD32Sfloat, vk.FormatD32SfloatS8Uint, vk.FormatD24UnormS8Uint},
		vk.ImageTilingOptimal,
		vk.FormatFeatureFlags(vk.FormatFeatureDepthStencilAttachmentBit),
	)
	if !ok {
		log.Panicf("No supported depth format found")
	}
	c.depthFormat = format
}

func hasStencilComponent(format vk.Format) bool {
	return format == vk.FormatD32SfloatS8Uint || format == vk.FormatD24UnormS8Uint
}

// drawable reports whether the window currently has a non-empty surface, a minimized window has none.
func (c *Core) drawable() bool {
	w, h := c.Win.DrawableSize()
	return w > 0 && h > 0
}

// recreateSwapChain rebuilds the swap chain and everything sized after it, e.g. after the surface became out of date.
// Nothing is rebuilt while the window has no drawable surface, the next frame after a restore tries again.
func (c *Core) recreateSwapChain() {
	if !c.drawable() {
		return
	}
	c.device.WaitIdle()
	c.destroySwapChainAndDerivatives()
	c.swapChain = com.NewSwapChain(c.device, c.Win, c.surfaceFormat)
	c.createDepthResources()
	c.createFrameBuffers()
}
