package common

import (
	"log"
	"math"

	vk "github.com/goki/vulkan"
)

type SwapChain struct {
	details SwapChainDetails
	Handle  vk.Swapchain

	Format      vk.SurfaceFormat
	PresentMode vk.PresentMode
	Extent      vk.Extent2D

	Images   []vk.Image
	ImgViews []vk.ImageView
	Aspect   float32

	FrameBuffers []vk.Framebuffer
}

// NewSwapChain creates a swap chain for the window's surface, preferring the given format in the sRGB non-linear
// color space.
func NewSwapChain(dc *Device, w *Window, format vk.Format) *SwapChain {
	sc := &SwapChain{}
	sc.details = ReadSwapChainSupportDetails(dc.PD, w.Surf)
	sc.Format = sc.details.selectSwapSurfaceFormat(format, vk.ColorSpaceSrgbNonlinear)
	sc.PresentMode = sc.details.selectSwapPresentMode(vk.PresentModeFifo)
	dw, dh := w.DrawableSize()
	sc.Extent = chooseExtent(sc.details.capabilities, uint32(dw), uint32(dh))
	sc.Aspect = float32(sc.Extent.Width) / float32(sc.Extent.Height)

	sc.createSwapChainHandle(dc, w)
	sc.Images = ReadSwapChainImages(dc.D, sc.Handle)
	sc.ImgViews = make([]vk.ImageView, len(sc.Images))
	for i := range sc.Images {
		sc.ImgViews[i] = CreateImageView(dc, sc.Images[i], sc.Format.Format, vk.ImageAspectFlags(vk.ImageAspectColorBit))
	}
	log.Printf("Successfully created swap chain with %d images of %dx%d", len(sc.Images), sc.Extent.Width, sc.Extent.Height)
	return sc
}

// CreateFrameBuffers creates one frame buffer per swap chain image. The depth view, when given, is shared by all of
// them as only one frame renders at a time.
func (sc *SwapChain) CreateFrameBuffers(dc *Device, renderPass vk.RenderPass, depthView vk.ImageView) {
	sc.FrameBuffers = make([]vk.Framebuffer, len(sc.ImgViews))
	for i := range sc.ImgViews {
		attachments := []vk.ImageView{sc.ImgViews[i]}
		if depthView != nil {
			attachments = append(attachments, depthView)
		}
		info := vk.FramebufferCreateInfo{
			SType:           vk.StructureTypeFramebufferCreateInfo,
			RenderPass:      renderPass,
			AttachmentCount: uint32(len(attachments)),
			PAttachments:    attachments,
			Width:           sc.Extent.Width,
			Height:          sc.Extent.Height,
			Layers:          1,
		}
		fb, err := VkCreateFrameBuffer(dc.D, &info)
		if err != nil {
			log.Panicf("Failed to create frame buffer [%d]: %v", i, err)
		}
		sc.FrameBuffers[i] = fb
	}
	log.Printf("Successfully created %d frame buffers", len(sc.FrameBuffers))
}

func (sc *SwapChain) createSwapChainHandle(dc *Device, w *Window) {
	caps := sc.details.capabilities
	imgCount := caps.MinImageCount + 1
	if caps.MaxImageCount > 0 && imgCount > caps.MaxImageCount {
		imgCount = caps.MaxImageCount
	}

	// Images are shared between the graphics and present queue when those come from different families
	sharingMode := vk.SharingModeExclusive
	var qFamIndices []uint32
	if uniq := dc.QFamilies.Unique(); len(uniq) > 1 {
		sharingMode = vk.SharingModeConcurrent
		qFamIndices = uniq
	}

	createInfo := &vk.SwapchainCreateInfo{
		SType:                 vk.StructureTypeSwapchainCreateInfo,
		Surface:               w.Surf,
		MinImageCount:         imgCount,
		ImageFormat:           sc.Format.Format,
		ImageColorSpace:       sc.Format.ColorSpace,
		ImageExtent:           sc.Extent,
		ImageArrayLayers:      1,
		ImageUsage:            vk.ImageUsageFlags(vk.ImageUsageColorAttachmentBit),
		ImageSharingMode:      sharingMode,
		QueueFamilyIndexCount: uint32(len(qFamIndices)),
		PQueueFamilyIndices:   qFamIndices,
		PreTransform:          caps.CurrentTransform,
		CompositeAlpha:        vk.CompositeAlphaOpaqueBit,
		PresentMode:           sc.PresentMode,
		Clipped:               vk.True,
	}
	var err error
	sc.Handle, err = VkCreateSwapChain(dc.D, createInfo)
	if err != nil {
		log.Panicf("Failed create swapchain due to: %s", err)
	}
}

func (sc *SwapChain) Destroy(dc *Device) {
	for i := range sc.FrameBuffers {
		vk.DestroyFramebuffer(dc.D, sc.FrameBuffers[i], nil)
	}
	for i := range sc.ImgViews {
		vk.DestroyImageView(dc.D, sc.ImgViews[i], nil)
	}
	vk.DestroySwapchain(dc.D, sc.Handle, nil)
}

type SwapChainDetails struct {
	capabilities vk.SurfaceCapabilities
	formats      []vk.SurfaceFormat
	presentModes []vk.PresentMode
}

func (s *SwapChainDetails) selectSwapSurfaceFormat(desiredFormat vk.Format, desiredColorSpace vk.ColorSpace) vk.SurfaceFormat {
	for _, af := range s.formats {
		if af.Format == desiredFormat && af.ColorSpace == desiredColorSpace {
			return af
		}
	}
	fallbackFormat := s.formats[0]
	log.Printf("Did not find prefered SurfaceFormat, selecting first one available. (%v)", fallbackFormat)
	return fallbackFormat
}

func (s *SwapChainDetails) selectSwapPresentMode(desiredMode vk.PresentMode) vk.PresentMode {
	for _, pm := range s.presentModes {
		if pm == desiredMode {
			return pm
		}
	}
	log.Printf("Did not find prefered PresentMode, selecting FIFO")
	return vk.PresentModeFifo
}

// chooseExtent takes the surface's current extent unless the window system leaves the choice to us, which it signals
// with a width of MaxUint32. Then the drawable size is clamped into the allowed range.
func chooseExtent(caps vk.SurfaceCapabilities, drawableW uint32, drawableH uint32) vk.Extent2D {
	if caps.CurrentExtent.Width != math.MaxUint32 {
		return caps.CurrentExtent
	}
	return vk.Extent2D{
		Width:  clamp(drawableW, caps.MinImageExtent.Width, caps.MaxImageExtent.Width),
		Height: clamp(drawableH, caps.MinImageExtent.Height, caps.MaxImageExtent.Height),
	}
}

func clamp(v, lo, hi uint32) uint32 {
	return max(lo, min(v, hi))
}

func checkSwapChainAdequacy(pd vk.PhysicalDevice, surface vk.Surface) bool {
	details := ReadSwapChainSupportDetails(pd, surface)
	return len(details.formats) > 0 && len(details.presentModes) > 0
}
