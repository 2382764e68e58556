package common

import (
	"fmt"
	"strings"

	vk "github.com/goki/vulkan"
)

// ToStringPhysicalDevice gives a one-line description of a physical device for the start up log.
func ToStringPhysicalDevice(props vk.PhysicalDeviceProperties) string {
	return fmt.Sprintf("%q (api: %s, driver: %s, vendor: %s, type: %s)",
		vk.ToString(props.DeviceName[:]),
		vk.Version(props.ApiVersion).String(),
		asDriverVersion(props.VendorID, props.DriverVersion),
		asVendorName(props.VendorID),
		toStringDeviceType(props.DeviceType),
	)
}

// asVendorName maps the PCI vendor ids of the common GPU vendors.
func asVendorName(id uint32) string {
	switch id {
	case 0x1002:
		return "AMD"
	case 0x1010:
		return "ImgTec"
	case 0x10DE:
		return "NVIDIA"
	case 0x13B5:
		return "ARM"
	case 0x5143:
		return "Qualcomm"
	case 0x8086:
		return "INTEL"
	case 0x10005:
		return "Mesa"
	default:
		return fmt.Sprintf("unknown(0x%X)", id)
	}
}

// asDriverVersion decodes the driver version. NVIDIA packs it differently from the Vulkan version scheme.
func asDriverVersion(vendor uint32, raw uint32) string {
	if vendor == 0x10DE {
		return fmt.Sprintf("%d.%d.%d.%d", (raw>>22)&0x3ff, (raw>>14)&0x0ff, (raw>>6)&0x0ff, raw&0x003f)
	}
	return vk.Version(raw).String()
}

func toStringDeviceType(dt vk.PhysicalDeviceType) string {
	switch dt {
	case vk.PhysicalDeviceTypeOther:
		return "other"
	case vk.PhysicalDeviceTypeIntegratedGpu:
		return "integrated gpu"
	case vk.PhysicalDeviceTypeDiscreteGpu:
		return "discrete gpu"
	case vk.PhysicalDeviceTypeVirtualGpu:
		return "virtual gpu"
	case vk.PhysicalDeviceTypeCpu:
		return "cpu"
	default:
		return "unknown"
	}
}

// toStringQueueFlags lists the capabilities of a queue family by their Vulkan names.
func toStringQueueFlags(bits vk.QueueFlags) string {
	var names []string
	flags := vk.QueueFlagBits(bits)
	for _, f := range []struct {
		bit  vk.QueueFlagBits
		name string
	}{
		{vk.QueueGraphicsBit, "GRAPHICS"},
		{vk.QueueComputeBit, "COMPUTE"},
		{vk.QueueTransferBit, "TRANSFER"},
		{vk.QueueSparseBindingBit, "SPARSE_BINDING"},
	} {
		if flags&f.bit != 0 {
			names = append(names, f.name)
		}
	}
	return strings.Join(names, "|")
}
