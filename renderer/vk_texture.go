package renderer

import (
	"fmt"
	com "gfx_examples/common"
	"log"

	vk "github.com/goki/vulkan"
)

// TextureFormat of every texture created by CreateTextureConst, four 8-bit unsigned normalized channels.
const TextureFormat = vk.FormatR8g8b8a8Unorm

const texelSize = 4

type Texture struct {
	Width  uint32
	Height uint32

	image *com.Image
}

// TextureView is the shader resource view of a texture.
type TextureView struct {
	texture *Texture
}

func (v *TextureView) view() vk.ImageView {
	return v.texture.image.View
}

// CreateTextureConst uploads w*h RGBA8 texels into a device local texture that shaders can only sample from.
// The texture is in shader read layout when this returns.
func (c *Core) CreateTextureConst(w, h uint32, texels []byte) (*Texture, *TextureView) {
	if err := checkTexels(w, h, texels); err != nil {
		log.Panicf("Failed to create texture: %v", err)
	}
	stgBuf := c.stagingBuffer(texels)
	defer com.DestroyBuffer(c.device, stgBuf)

	img := com.CreateImage(
		c.device,
		w, h,
		TextureFormat,
		vk.ImageUsageFlags(vk.ImageUsageTransferDstBit|vk.ImageUsageSampledBit),
		vk.ImageAspectFlags(vk.ImageAspectColorBit),
	)
	c.transitionImageLayout(img.Handle, TextureFormat, vk.ImageLayoutUndefined, vk.ImageLayoutTransferDstOptimal)
	c.copyBufferToImage(stgBuf.Handle, img.Handle, w, h)
	c.transitionImageLayout(img.Handle, TextureFormat, vk.ImageLayoutTransferDstOptimal, vk.ImageLayoutShaderReadOnlyOptimal)
	c.images = append(c.images, img)

	tex := &Texture{Width: w, Height: h, image: img}
	log.Printf("Created %dx%d texture", w, h)
	return tex, &TextureView{texture: tex}
}

func checkTexels(w, h uint32, texels []byte) error {
	if w == 0 || h == 0 {
		return fmt.Errorf("empty texture %dx%d", w, h)
	}
	if want := int(w) * int(h) * texelSize; len(texels) != want {
		return fmt.Errorf("%dx%d texture needs %d Byte of texels, got %d", w, h, want, len(texels))
	}
	return nil
}

type FilterMethod int

const (
	FilterScale FilterMethod = iota
	FilterBilinear
)

type WrapMode int

const (
	WrapTile WrapMode = iota
	WrapMirror
	WrapClamp
)

type SamplerInfo struct {
	Filter FilterMethod
	Wrap   WrapMode
}

type Sampler struct {
	Info SamplerInfo

	handle vk.Sampler
}

func (f FilterMethod) vkFilter() vk.Filter {
	if f == FilterBilinear {
		return vk.FilterLinear
	}
	return vk.FilterNearest
}

func (w WrapMode) vkAddressMode() vk.SamplerAddressMode {
	switch w {
	case WrapMirror:
		return vk.SamplerAddressModeMirroredRepeat
	case WrapClamp:
		return vk.SamplerAddressModeClampToEdge
	default:
		return vk.SamplerAddressModeRepeat
	}
}

// samplerCreateInfo uses the same filter for magnification, minification and mips. Anisotropy stays off.
func samplerCreateInfo(info SamplerInfo) vk.SamplerCreateInfo {
	filter := info.Filter.vkFilter()
	mipmapMode := vk.SamplerMipmapModeNearest
	if info.Filter == FilterBilinear {
		mipmapMode = vk.SamplerMipmapModeLinear
	}
	address := info.Wrap.vkAddressMode()
	return vk.SamplerCreateInfo{
		SType:                   vk.StructureTypeSamplerCreateInfo,
		MagFilter:               filter,
		MinFilter:               filter,
		MipmapMode:              mipmapMode,
		AddressModeU:            address,
		AddressModeV:            address,
		AddressModeW:            address,
		AnisotropyEnable:        vk.False,
		MaxAnisotropy:           1,
		CompareEnable:           vk.False,
		CompareOp:               vk.CompareOpAlways,
		BorderColor:             vk.BorderColorIntOpaqueBlack,
		UnnormalizedCoordinates: vk.False,
	}
}

func (c *Core) CreateSampler(info SamplerInfo) *Sampler {
	createInfo := samplerCreateInfo(info)
	handle, err := com.VkCreateSampler(c.device.D, &createInfo)
	if err != nil {
		log.Panicf("Failed to create texture sampler: %v", err)
	}
	c.samplers = append(c.samplers, handle)
	return &Sampler{Info: info, handle: handle}
}
