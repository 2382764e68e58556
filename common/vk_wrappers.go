package common

import (
	"errors"
	"unsafe"

	vk "github.com/goki/vulkan"
	"github.com/veandco/go-sdl2/sdl"
)

// Thin wrappers around the raw bindings. They turn out-parameters into return values and vk.Result into error and
// do nothing else. Allocation callbacks are never used here, so the parameter is dropped.

func VkCreateInstance(info *vk.InstanceCreateInfo) (vk.Instance, error) {
	var in vk.Instance
	if err := vk.Error(vk.CreateInstance(info, nil, &in)); err != nil {
		return nil, err
	}
	if err := vk.InitInstance(in); err != nil {
		return nil, err
	}
	return in, nil
}

func SdlCreateVkSurface(win *sdl.Window, instance vk.Instance) (vk.Surface, error) {
	surfPtr, err := win.VulkanCreateSurface(instance)
	if err != nil {
		return nil, err
	}
	return vk.SurfaceFromPointer(uintptr(surfPtr)), nil
}

func VkCreateDevice(pd vk.PhysicalDevice, info *vk.DeviceCreateInfo) (vk.Device, error) {
	var d vk.Device
	res := vk.CreateDevice(pd, info, nil, &d)
	return d, vk.Error(res)
}

func VkGetDeviceQueue(device vk.Device, familyIndex *uint32) (vk.Queue, error) {
	if familyIndex == nil {
		return nil, errors.New("queue family index is nil")
	}
	var q vk.Queue
	vk.GetDeviceQueue(device, *familyIndex, 0, &q)
	return q, nil
}

func VkCreateSwapChain(device vk.Device, info *vk.SwapchainCreateInfo) (vk.Swapchain, error) {
	var sc vk.Swapchain
	res := vk.CreateSwapchain(device, info, nil, &sc)
	return sc, vk.Error(res)
}

func VkCreateImageView(device vk.Device, info *vk.ImageViewCreateInfo) (vk.ImageView, error) {
	var iv vk.ImageView
	res := vk.CreateImageView(device, info, nil, &iv)
	return iv, vk.Error(res)
}

func VkCreateRenderPass(device vk.Device, info *vk.RenderPassCreateInfo) (vk.RenderPass, error) {
	var rp vk.RenderPass
	res := vk.CreateRenderPass(device, info, nil, &rp)
	return rp, vk.Error(res)
}

func VkCreateFrameBuffer(device vk.Device, info *vk.FramebufferCreateInfo) (vk.Framebuffer, error) {
	var fb vk.Framebuffer
	res := vk.CreateFramebuffer(device, info, nil, &fb)
	return fb, vk.Error(res)
}

func VkCreateShaderModule(device vk.Device, info *vk.ShaderModuleCreateInfo) (vk.ShaderModule, error) {
	var sm vk.ShaderModule
	res := vk.CreateShaderModule(device, info, nil, &sm)
	return sm, vk.Error(res)
}

func VkCreateDescriptorSetLayout(device vk.Device, info *vk.DescriptorSetLayoutCreateInfo) (vk.DescriptorSetLayout, error) {
	var dsl vk.DescriptorSetLayout
	res := vk.CreateDescriptorSetLayout(device, info, nil, &dsl)
	return dsl, vk.Error(res)
}

func VkCreatePipelineLayout(device vk.Device, info *vk.PipelineLayoutCreateInfo) (vk.PipelineLayout, error) {
	var pl vk.PipelineLayout
	res := vk.CreatePipelineLayout(device, info, nil, &pl)
	return pl, vk.Error(res)
}

// VkCreateGraphicsPipeline creates exactly one pipeline without a pipeline cache.
func VkCreateGraphicsPipeline(device vk.Device, info vk.GraphicsPipelineCreateInfo) (vk.Pipeline, error) {
	pipelines := make([]vk.Pipeline, 1)
	res := vk.CreateGraphicsPipelines(device, nil, 1, []vk.GraphicsPipelineCreateInfo{info}, nil, pipelines)
	if err := vk.Error(res); err != nil {
		return nil, err
	}
	return pipelines[0], nil
}

func VkCreateCommandPool(device vk.Device, flags vk.CommandPoolCreateFlags, familyIndex uint32) (vk.CommandPool, error) {
	info := vk.CommandPoolCreateInfo{
		SType:            vk.StructureTypeCommandPoolCreateInfo,
		Flags:            flags,
		QueueFamilyIndex: familyIndex,
	}
	var cp vk.CommandPool
	res := vk.CreateCommandPool(device, &info, nil, &cp)
	return cp, vk.Error(res)
}

// VkAllocateCommandBuffersPrimary allocates count primary level command buffers from the given pool.
func VkAllocateCommandBuffersPrimary(device vk.Device, pool vk.CommandPool, count uint32) ([]vk.CommandBuffer, error) {
	info := vk.CommandBufferAllocateInfo{
		SType:              vk.StructureTypeCommandBufferAllocateInfo,
		CommandPool:        pool,
		Level:              vk.CommandBufferLevelPrimary,
		CommandBufferCount: count,
	}
	buffers := make([]vk.CommandBuffer, count)
	if err := vk.Error(vk.AllocateCommandBuffers(device, &info, buffers)); err != nil {
		return nil, err
	}
	return buffers, nil
}

func VkCreateSemaphore(device vk.Device) (vk.Semaphore, error) {
	info := vk.SemaphoreCreateInfo{SType: vk.StructureTypeSemaphoreCreateInfo}
	var s vk.Semaphore
	res := vk.CreateSemaphore(device, &info, nil, &s)
	return s, vk.Error(res)
}

// VkCreateFenceSignaled creates a fence in signaled state so the very first wait on it returns immediately.
func VkCreateFenceSignaled(device vk.Device) (vk.Fence, error) {
	info := vk.FenceCreateInfo{
		SType: vk.StructureTypeFenceCreateInfo,
		Flags: vk.FenceCreateFlags(vk.FenceCreateSignaledBit),
	}
	var f vk.Fence
	res := vk.CreateFence(device, &info, nil, &f)
	return f, vk.Error(res)
}

func VkCreateBuffer(device vk.Device, info *vk.BufferCreateInfo) (vk.Buffer, error) {
	var buf vk.Buffer
	res := vk.CreateBuffer(device, info, nil, &buf)
	return buf, vk.Error(res)
}

func VkAllocateMemory(device vk.Device, info *vk.MemoryAllocateInfo) (vk.DeviceMemory, error) {
	var dm vk.DeviceMemory
	res := vk.AllocateMemory(device, info, nil, &dm)
	return dm, vk.Error(res)
}

func VkMapMemory(device vk.Device, memory vk.DeviceMemory, size vk.DeviceSize) (unsafe.Pointer, error) {
	var pData unsafe.Pointer
	res := vk.MapMemory(device, memory, 0, size, 0, &pData)
	return pData, vk.Error(res)
}

func VkCreateImage(device vk.Device, info *vk.ImageCreateInfo) (vk.Image, error) {
	var img vk.Image
	res := vk.CreateImage(device, info, nil, &img)
	return img, vk.Error(res)
}

func VkCreateSampler(device vk.Device, info *vk.SamplerCreateInfo) (vk.Sampler, error) {
	var s vk.Sampler
	res := vk.CreateSampler(device, info, nil, &s)
	return s, vk.Error(res)
}

func VkCreateDescriptorPool(device vk.Device, info *vk.DescriptorPoolCreateInfo) (vk.DescriptorPool, error) {
	var dp vk.DescriptorPool
	res := vk.CreateDescriptorPool(device, info, nil, &dp)
	return dp, vk.Error(res)
}

// VkAllocateDescriptorSet allocates a single set of the given layout from pool.
func VkAllocateDescriptorSet(device vk.Device, pool vk.DescriptorPool, layout vk.DescriptorSetLayout) (vk.DescriptorSet, error) {
	info := vk.DescriptorSetAllocateInfo{
		SType:              vk.StructureTypeDescriptorSetAllocateInfo,
		DescriptorPool:     pool,
		DescriptorSetCount: 1,
		PSetLayouts:        []vk.DescriptorSetLayout{layout},
	}
	var ds vk.DescriptorSet
	res := vk.AllocateDescriptorSets(device, &info, &ds)
	return ds, vk.Error(res)
}
