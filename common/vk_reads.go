package common

import (
	"log"

	vk "github.com/goki/vulkan"
)

// Read operations that need the two-call enumerate pattern and dereferencing of the returned structs. Failures while
// reading driver information are treated as fatal, the same as any other failure during start up.

// ReadInstanceExtensionNames returns the names of all instance extensions the loader reports.
func ReadInstanceExtensionNames() []string {
	var count uint32
	if err := vk.Error(vk.EnumerateInstanceExtensionProperties("", &count, nil)); err != nil {
		log.Panicf("Failed to read number of instance extensions: %s", err)
	}
	props := make([]vk.ExtensionProperties, count)
	if err := vk.Error(vk.EnumerateInstanceExtensionProperties("", &count, props)); err != nil {
		log.Panicf("Failed to read %d instance extensions: %s", count, err)
	}
	return extensionNames(props)
}

// ReadInstanceLayerNames returns the names of all instance layers (validation layers mostly) that are installed.
func ReadInstanceLayerNames() []string {
	var count uint32
	if err := vk.Error(vk.EnumerateInstanceLayerProperties(&count, nil)); err != nil {
		log.Panicf("Failed to read number of instance layers: %s", err)
	}
	layers := make([]vk.LayerProperties, count)
	if err := vk.Error(vk.EnumerateInstanceLayerProperties(&count, layers)); err != nil {
		log.Panicf("Failed to read %d instance layers: %s", count, err)
	}
	names := make([]string, len(layers))
	for i := range layers {
		layers[i].Deref()
		names[i] = vk.ToString(layers[i].LayerName[:])
	}
	return names
}

func ReadDeviceExtensionNames(pd vk.PhysicalDevice) []string {
	var count uint32
	if err := vk.Error(vk.EnumerateDeviceExtensionProperties(pd, "", &count, nil)); err != nil {
		log.Panicf("Failed to read number of device extensions: %s", err)
	}
	props := make([]vk.ExtensionProperties, count)
	if err := vk.Error(vk.EnumerateDeviceExtensionProperties(pd, "", &count, props)); err != nil {
		log.Panicf("Failed to read %d device extensions: %s", count, err)
	}
	return extensionNames(props)
}

func extensionNames(props []vk.ExtensionProperties) []string {
	names := make([]string, len(props))
	for i := range props {
		props[i].Deref()
		names[i] = vk.ToString(props[i].ExtensionName[:])
	}
	return names
}

func ReadPhysicalDevices(instance vk.Instance) []vk.PhysicalDevice {
	var count uint32
	if err := vk.Error(vk.EnumeratePhysicalDevices(instance, &count, nil)); err != nil {
		log.Panicf("Failed to read number of physical devices: %s", err)
	}
	if count == 0 {
		log.Panic("There are 0 physical devices available")
	}
	devices := make([]vk.PhysicalDevice, count)
	if err := vk.Error(vk.EnumeratePhysicalDevices(instance, &count, devices)); err != nil {
		log.Panicf("Failed to read %d physical devices: %s", count, err)
	}
	return devices
}

func ReadPhysicalDeviceProperties(pd vk.PhysicalDevice) vk.PhysicalDeviceProperties {
	var props vk.PhysicalDeviceProperties
	vk.GetPhysicalDeviceProperties(pd, &props)
	props.Deref()
	props.Limits.Deref()
	return props
}

func ReadQueueFamilies(pd vk.PhysicalDevice) []vk.QueueFamilyProperties {
	var count uint32
	vk.GetPhysicalDeviceQueueFamilyProperties(pd, &count, nil)
	families := make([]vk.QueueFamilyProperties, count)
	vk.GetPhysicalDeviceQueueFamilyProperties(pd, &count, families)
	for i := range families {
		families[i].Deref()
	}
	return families
}

func ReadDeviceMemoryProperties(pd vk.PhysicalDevice) vk.PhysicalDeviceMemoryProperties {
	var props vk.PhysicalDeviceMemoryProperties
	vk.GetPhysicalDeviceMemoryProperties(pd, &props)
	props.Deref()
	for i := range props.MemoryTypes {
		props.MemoryTypes[i].Deref()
	}
	for i := range props.MemoryHeaps {
		props.MemoryHeaps[i].Deref()
	}
	return props
}

func ReadFormatProperties(pd vk.PhysicalDevice, format vk.Format) vk.FormatProperties {
	var props vk.FormatProperties
	vk.GetPhysicalDeviceFormatProperties(pd, format, &props)
	props.Deref()
	return props
}

func ReadSwapChainSupportDetails(pd vk.PhysicalDevice, surface vk.Surface) SwapChainDetails {
	details := SwapChainDetails{}
	vk.GetPhysicalDeviceSurfaceCapabilities(pd, surface, &details.capabilities)
	details.capabilities.Deref()
	details.capabilities.CurrentExtent.Deref()
	details.capabilities.MinImageExtent.Deref()
	details.capabilities.MaxImageExtent.Deref()

	var formatCount uint32
	vk.GetPhysicalDeviceSurfaceFormats(pd, surface, &formatCount, nil)
	details.formats = make([]vk.SurfaceFormat, formatCount)
	vk.GetPhysicalDeviceSurfaceFormats(pd, surface, &formatCount, details.formats)
	for i := range details.formats {
		details.formats[i].Deref()
	}

	var modeCount uint32
	vk.GetPhysicalDeviceSurfacePresentModes(pd, surface, &modeCount, nil)
	details.presentModes = make([]vk.PresentMode, modeCount)
	vk.GetPhysicalDeviceSurfacePresentModes(pd, surface, &modeCount, details.presentModes)
	return details
}

func ReadSwapChainImages(device vk.Device, swapChain vk.Swapchain) []vk.Image {
	var count uint32
	vk.GetSwapchainImages(device, swapChain, &count, nil)
	images := make([]vk.Image, count)
	vk.GetSwapchainImages(device, swapChain, &count, images)
	return images
}

func ReadBufferMemoryRequirements(device vk.Device, b vk.Buffer) vk.MemoryRequirements {
	var req vk.MemoryRequirements
	vk.GetBufferMemoryRequirements(device, b, &req)
	req.Deref()
	return req
}

func ReadImageMemoryRequirements(device vk.Device, img vk.Image) vk.MemoryRequirements {
	var req vk.MemoryRequirements
	vk.GetImageMemoryRequirements(device, img, &req)
	req.Deref()
	return req
}
