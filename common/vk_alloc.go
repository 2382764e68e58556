package common

import (
	"fmt"
	"log"

	vk "github.com/goki/vulkan"
)

// Allocation helpers for buffers and images on the selected device. Failures are fatal, they only happen while the
// examples set up their static resources.

type Buffer struct {
	Handle    vk.Buffer
	DeviceMem vk.DeviceMemory
	Size      vk.DeviceSize
	Usage     vk.BufferUsageFlags
	props     vk.MemoryPropertyFlags
}

var HostVisibleCoherent = vk.MemoryPropertyFlags(vk.MemoryPropertyHostVisibleBit | vk.MemoryPropertyHostCoherentBit)
var DeviceLocal = vk.MemoryPropertyFlags(vk.MemoryPropertyDeviceLocalBit)

func CreateBuffer(dc *Device, size vk.DeviceSize, usage vk.BufferUsageFlags, props vk.MemoryPropertyFlags) *Buffer {
	bufferInfo := vk.BufferCreateInfo{
		SType:       vk.StructureTypeBufferCreateInfo,
		Size:        size,
		Usage:       usage,
		SharingMode: vk.SharingModeExclusive,
	}
	buf, err := VkCreateBuffer(dc.D, &bufferInfo)
	if err != nil {
		log.Panicf("Failed to create buffer of %d Byte: %v", size, err)
	}

	req := ReadBufferMemoryRequirements(dc.D, buf)
	memType, err := findMemoryType(dc.PdMemoryProps, req.MemoryTypeBits, props)
	if err != nil {
		log.Panicf("Failed to allocate buffer memory: %v", err)
	}
	allocInfo := vk.MemoryAllocateInfo{
		SType:           vk.StructureTypeMemoryAllocateInfo,
		AllocationSize:  req.Size,
		MemoryTypeIndex: memType,
	}
	deviceMem, err := VkAllocateMemory(dc.D, &allocInfo)
	if err != nil {
		log.Panicf("Failed to allocate buffer memory: %v", err)
	}
	if err := vk.Error(vk.BindBufferMemory(dc.D, buf, deviceMem, 0)); err != nil {
		log.Panicf("Failed to bind device memory to buffer handle: %v", err)
	}

	return &Buffer{
		Handle:    buf,
		DeviceMem: deviceMem,
		Size:      size,
		Usage:     usage,
		props:     props,
	}
}

// CopyToDeviceBuffer maps the buffer memory, copies payload to offset 0 and unmaps again. The buffer must be host
// visible and coherent and exactly as big as the payload.
func CopyToDeviceBuffer(dc *Device, deviceBuf *Buffer, payload []byte) {
	if deviceBuf.props&HostVisibleCoherent != HostVisibleCoherent {
		log.Panicf("Cant copy to device buffer as buffer is not host visible")
	}
	if deviceBuf.Size != vk.DeviceSize(len(payload)) {
		log.Panicf("Cant copy to device buffer. Buffer (%d) and payload (%d) not of equal size.", deviceBuf.Size, len(payload))
	}
	pData, err := VkMapMemory(dc.D, deviceBuf.DeviceMem, deviceBuf.Size)
	if err != nil {
		log.Panicf("Failed to map device memory: %v", err)
	}
	vk.Memcopy(pData, payload)
	vk.UnmapMemory(dc.D, deviceBuf.DeviceMem)
}

func DestroyBuffer(dc *Device, buffer *Buffer) {
	vk.DestroyBuffer(dc.D, buffer.Handle, nil)
	vk.FreeMemory(dc.D, buffer.DeviceMem, nil)
}

// Image is a 2D single mip image together with its memory and a full size view.
type Image struct {
	Handle    vk.Image
	DeviceMem vk.DeviceMemory
	View      vk.ImageView
	Format    vk.Format
	Width     uint32
	Height    uint32
}

func CreateImage(dc *Device, w uint32, h uint32, format vk.Format, usage vk.ImageUsageFlags, aspect vk.ImageAspectFlags) *Image {
	imageInfo := &vk.ImageCreateInfo{
		SType:       vk.StructureTypeImageCreateInfo,
		ImageType:   vk.ImageType2d,
		Format:      format,
		Extent:      vk.Extent3D{Width: w, Height: h, Depth: 1},
		MipLevels:   1,
		ArrayLayers: 1,
		Samples:     vk.SampleCount1Bit,
		Tiling:      vk.ImageTilingOptimal,
		Usage:       usage,
		SharingMode: vk.SharingModeExclusive,
		// content is either cleared by the render pass or uploaded right after creation
		InitialLayout: vk.ImageLayoutUndefined,
	}
	img, err := VkCreateImage(dc.D, imageInfo)
	if err != nil {
		log.Panicf("Failed to create %dx%d image: %v", w, h, err)
	}

	req := ReadImageMemoryRequirements(dc.D, img)
	memType, err := findMemoryType(dc.PdMemoryProps, req.MemoryTypeBits, DeviceLocal)
	if err != nil {
		log.Panicf("Failed to allocate image memory: %v", err)
	}
	allocInfo := &vk.MemoryAllocateInfo{
		SType:           vk.StructureTypeMemoryAllocateInfo,
		AllocationSize:  req.Size,
		MemoryTypeIndex: memType,
	}
	imgMemory, err := VkAllocateMemory(dc.D, allocInfo)
	if err != nil {
		log.Panicf("Failed to allocate image device memory: %v", err)
	}
	if err := vk.Error(vk.BindImageMemory(dc.D, img, imgMemory, 0)); err != nil {
		log.Panicf("Failed to bind image memory: %v", err)
	}
	return &Image{
		Handle:    img,
		DeviceMem: imgMemory,
		View:      CreateImageView(dc, img, format, aspect),
		Format:    format,
		Width:     w,
		Height:    h,
	}
}

func DestroyImage(dc *Device, img *Image) {
	vk.DestroyImageView(dc.D, img.View, nil)
	vk.DestroyImage(dc.D, img.Handle, nil)
	vk.FreeMemory(dc.D, img.DeviceMem, nil)
}

func CreateImageView(dc *Device, image vk.Image, format vk.Format, aspectFlags vk.ImageAspectFlags) vk.ImageView {
	createInfo := &vk.ImageViewCreateInfo{
		SType:    vk.StructureTypeImageViewCreateInfo,
		Image:    image,
		ViewType: vk.ImageViewType2d,
		Format:   format,
		Components: vk.ComponentMapping{
			R: vk.ComponentSwizzleIdentity,
			G: vk.ComponentSwizzleIdentity,
			B: vk.ComponentSwizzleIdentity,
			A: vk.ComponentSwizzleIdentity,
		},
		SubresourceRange: vk.ImageSubresourceRange{
			AspectMask: aspectFlags,
			LevelCount: 1,
			LayerCount: 1,
		},
	}
	imgView, err := VkCreateImageView(dc.D, createInfo)
	if err != nil {
		log.Panicf("Failed create image view due to: %s", err)
	}
	return imgView
}

// findMemoryType returns the first memory type allowed by typeFilter that has all of propFlags.
func findMemoryType(memProps vk.PhysicalDeviceMemoryProperties, typeFilter uint32, propFlags vk.MemoryPropertyFlags) (uint32, error) {
	for i := uint32(0); i < memProps.MemoryTypeCount && i < uint32(len(memProps.MemoryTypes)); i++ {
		ofType := typeFilter&(1<<i) != 0
		hasProperties := memProps.MemoryTypes[i].PropertyFlags&propFlags == propFlags
		if ofType && hasProperties {
			return i, nil
		}
	}
	return 0, fmt.Errorf("no memory type in filter %032b with properties %b", typeFilter, propFlags)
}
