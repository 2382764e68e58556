package common

import (
	"log"

	vk "github.com/goki/vulkan"
)

var DEVICE_EXTENSIONS = []string{
	"VK_KHR_swapchain",
}

// Device bundles the selected physical device, the logical device created on it and the queues the renderer submits
// to. It does not own the window or instance it was created from.
type Device struct {
	PD            vk.PhysicalDevice
	PdProps       vk.PhysicalDeviceProperties
	PdMemoryProps vk.PhysicalDeviceMemoryProperties
	QFamilies     QueueFamilyIndices

	D         vk.Device
	GraphicsQ vk.Queue
	PresentQ  vk.Queue
}

func NewDevice(w *Window, validationLayers []string) *Device {
	dc := &Device{}
	dc.selectPhysicalDevice(w.Inst, w.Surf)
	dc.createLogicalDevice(validationLayers)
	return dc
}

func (dc *Device) Destroy() {
	vk.DestroyDevice(dc.D, nil)
}

// WaitIdle blocks until all queues of the device have finished their work.
func (dc *Device) WaitIdle() {
	vk.DeviceWaitIdle(dc.D)
}

func (dc *Device) selectPhysicalDevice(in vk.Instance, su vk.Surface) {
	var best vk.PhysicalDevice
	bestScore := 0
	for _, pd := range ReadPhysicalDevices(in) {
		props := ReadPhysicalDeviceProperties(pd)
		log.Printf("Physical device: %s", ToStringPhysicalDevice(props))
		if !isDeviceSuitable(pd, su) {
			continue
		}
		if score := deviceTypeScore(props.DeviceType); score > bestScore {
			best, bestScore = pd, score
		}
	}
	if best == nil {
		log.Panicf("No suitable physical device (GPU) found")
	}
	dc.PD = best
	dc.PdProps = ReadPhysicalDeviceProperties(best)
	dc.PdMemoryProps = ReadDeviceMemoryProperties(best)
	qf, err := findQueueFamilies(best, su)
	if err != nil {
		log.Panicf("Failed to read queue families from selected device due to: %s", err)
	}
	dc.QFamilies = qf
	log.Printf("Selected device %s", vk.ToString(dc.PdProps.DeviceName[:]))
}

// deviceTypeScore ranks device types, a discrete GPU wins over everything else. Any suitable device scores above 0.
func deviceTypeScore(t vk.PhysicalDeviceType) int {
	switch t {
	case vk.PhysicalDeviceTypeDiscreteGpu:
		return 4
	case vk.PhysicalDeviceTypeIntegratedGpu:
		return 3
	case vk.PhysicalDeviceTypeVirtualGpu:
		return 2
	default:
		return 1
	}
}

func isDeviceSuitable(pd vk.PhysicalDevice, su vk.Surface) bool {
	if _, err := findQueueFamilies(pd, su); err != nil {
		log.Printf("Failed to get required queue families: %s", err)
		return false
	}
	if !IsSubset(DEVICE_EXTENSIONS, ReadDeviceExtensionNames(pd)) {
		log.Printf("Required device extensions %v not supported", DEVICE_EXTENSIONS)
		return false
	}
	return checkSwapChainAdequacy(pd, su)
}

func (dc *Device) createLogicalDevice(validationLayers []string) {
	queueInfos := dc.QFamilies.toQueueCreateInfos()
	info := &vk.DeviceCreateInfo{
		SType:                   vk.StructureTypeDeviceCreateInfo,
		QueueCreateInfoCount:    uint32(len(queueInfos)),
		PQueueCreateInfos:       queueInfos,
		EnabledExtensionCount:   uint32(len(DEVICE_EXTENSIONS)),
		PpEnabledExtensionNames: TerminatedStrs(DEVICE_EXTENSIONS),
		PEnabledFeatures:        []vk.PhysicalDeviceFeatures{{}},
	}
	if len(validationLayers) > 0 {
		info.EnabledLayerCount = uint32(len(validationLayers))
		info.PpEnabledLayerNames = TerminatedStrs(validationLayers)
	}

	var err error
	dc.D, err = VkCreateDevice(dc.PD, info)
	if err != nil {
		log.Panicf("Failed create logical device due to: %s", err)
	}
	dc.GraphicsQ, err = VkGetDeviceQueue(dc.D, dc.QFamilies.GraphicsFamily)
	if err != nil {
		log.Panicf("Failed to get 'graphics' device queue: %s", err)
	}
	dc.PresentQ, err = VkGetDeviceQueue(dc.D, dc.QFamilies.PresentFamily)
	if err != nil {
		log.Panicf("Failed to get 'present' device queue: %s", err)
	}
	log.Println("Successfully created logical device")
}

// SupportsVertexFormat reports whether format can be read from a vertex buffer on the selected device.
func (dc *Device) SupportsVertexFormat(format vk.Format) bool {
	props := ReadFormatProperties(dc.PD, format)
	return props.BufferFeatures&vk.FormatFeatureFlags(vk.FormatFeatureVertexBufferBit) != 0
}

// FindSupportedFormat returns the first candidate supporting features for the given tiling.
func (dc *Device) FindSupportedFormat(candidates []vk.Format, tiling vk.ImageTiling, features vk.FormatFeatureFlags) (vk.Format, bool) {
	for _, format := range candidates {
		props := ReadFormatProperties(dc.PD, format)
		switch {
		case tiling == vk.ImageTilingLinear && props.LinearTilingFeatures&features == features:
			return format, true
		case tiling == vk.ImageTilingOptimal && props.OptimalTilingFeatures&features == features:
			return format, true
		}
	}
	return vk.FormatUndefined, false
}
