package common

import (
	"errors"
	"log"
	"slices"

	vk "github.com/goki/vulkan"
)

type QueueFamilyIndices struct {
	GraphicsFamily *uint32
	PresentFamily  *uint32
}

// findQueueFamilies picks the first graphics capable family and the first family able to present to surf. Both may
// end up being the same family.
func findQueueFamilies(pd vk.PhysicalDevice, surf vk.Surface) (QueueFamilyIndices, error) {
	families := ReadQueueFamilies(pd)
	presentable := make([]bool, len(families))
	for i := range families {
		var support vk.Bool32
		vk.GetPhysicalDeviceSurfaceSupport(pd, uint32(i), surf, &support)
		presentable[i] = support == vk.True
		log.Printf("Queue family %d: %s, present: %v", i, toStringQueueFlags(families[i].QueueFlags), presentable[i])
	}
	return selectQueueFamilies(families, presentable)
}

func selectQueueFamilies(families []vk.QueueFamilyProperties, presentable []bool) (QueueFamilyIndices, error) {
	indices := QueueFamilyIndices{}
	for i := range families {
		if indices.GraphicsFamily == nil && vk.QueueFlagBits(families[i].QueueFlags)&vk.QueueGraphicsBit != 0 {
			idx := uint32(i)
			indices.GraphicsFamily = &idx
		}
		if indices.PresentFamily == nil && i < len(presentable) && presentable[i] {
			idx := uint32(i)
			indices.PresentFamily = &idx
		}
		if indices.Complete() {
			break
		}
	}
	if indices.GraphicsFamily == nil {
		return indices, errors.New("unable to find graphics capable queue family")
	}
	if indices.PresentFamily == nil {
		return indices, errors.New("unable to find present capable queue family for given surface")
	}
	return indices, nil
}

func (q *QueueFamilyIndices) Complete() bool {
	return q.GraphicsFamily != nil && q.PresentFamily != nil
}

// Unique returns the distinct family indices, graphics first.
func (q *QueueFamilyIndices) Unique() []uint32 {
	var uniq []uint32
	for _, f := range []*uint32{q.GraphicsFamily, q.PresentFamily} {
		if f != nil && !slices.Contains(uniq, *f) {
			uniq = append(uniq, *f)
		}
	}
	return uniq
}

func (q *QueueFamilyIndices) toQueueCreateInfos() []vk.DeviceQueueCreateInfo {
	uniq := q.Unique()
	infos := make([]vk.DeviceQueueCreateInfo, len(uniq))
	for i := range uniq {
		infos[i] = vk.DeviceQueueCreateInfo{
			SType:            vk.StructureTypeDeviceQueueCreateInfo,
			QueueFamilyIndex: uniq[i],
			QueueCount:       1,
			PQueuePriorities: []float32{1.0},
		}
	}
	return infos
}
