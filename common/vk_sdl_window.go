package common

import (
	"fmt"
	"log"

	vk "github.com/goki/vulkan"
	"github.com/veandco/go-sdl2/sdl"
)

const APP_MAJOR, APP_MINOR, APP_PATCH = 1, 0, 0
const ENGINE_NAME = "No Engine"
const ENGINE_MAJOR, ENGINE_MINOR, ENGINE_PATCH = 1, 0, 0

const SDL_MAJOR, SDL_MINOR, SDL_PATCH = int(sdl.MAJOR_VERSION), int(sdl.MINOR_VERSION), int(sdl.PATCHLEVEL)

// Vulkan spec go bindings = v1.0.7, as per: https://github.com/goki/vulkan = 1.3.239
const VK_SPEC_MAJOR, VK_SPEC_MINOR, VK_SPEC_PATCH int = 1, 3, 239

// Window owns the SDL window, the Vulkan instance and the surface created for that window. On tear down all three
// are destroyed in reverse order of creation.
type Window struct {
	Win   *sdl.Window
	Title string

	Inst vk.Instance
	Surf vk.Surface
}

// NewWindow initializes SDL, opens a fixed size Vulkan capable window and creates the instance and surface for it.
// Validation is enabled when validationLayers is not empty.
func NewWindow(title string, w int32, h int32, validationLayers []string) *Window {
	window := &Window{Title: title}
	window.initSDLWindow(title, w, h)
	window.initVulkan()
	window.createVulkanInstance(validationLayers)
	window.createSdlVkSurface()
	log.Printf(
		"Generated SDL/Vulkan window - SDL: v%d.%d.%d Vulkan Spec: v%d.%d.%d",
		SDL_MAJOR, SDL_MINOR, SDL_PATCH, VK_SPEC_MAJOR, VK_SPEC_MINOR, VK_SPEC_PATCH,
	)
	return window
}

func (w *Window) Destroy() {
	vk.DestroySurface(w.Inst, w.Surf, nil)
	vk.DestroyInstance(w.Inst, nil)
	if err := w.Win.Destroy(); err != nil {
		log.Printf("Failed to destroy SDL window: %v", err)
	}
	sdl.Quit()
}

// DrawableSize is the size of the window in pixels, which can differ from the requested size on high-dpi displays.
func (w *Window) DrawableSize() (int32, int32) {
	return w.Win.VulkanGetDrawableSize()
}

// PollEvents drains the SDL event queue without blocking and returns the events the frame loop cares about.
func (w *Window) PollEvents() []Event {
	var events []Event
	for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
		if ev, ok := translateEvent(event); ok {
			events = append(events, ev)
		}
	}
	return events
}

// WaitEvents blocks until SDL delivers an event the frame loop cares about, then drains the rest of the queue.
func (w *Window) WaitEvents() []Event {
	for {
		event := sdl.WaitEvent()
		if event == nil {
			continue
		}
		if ev, ok := translateEvent(event); ok {
			return append([]Event{ev}, w.PollEvents()...)
		}
	}
}

func translateEvent(event sdl.Event) (Event, bool) {
	switch ev := event.(type) {
	case *sdl.QuitEvent:
		return Event{Type: EventClose}, true
	case *sdl.WindowEvent:
		switch ev.Event {
		case sdl.WINDOWEVENT_CLOSE:
			return Event{Type: EventClose}, true
		case sdl.WINDOWEVENT_MINIMIZED:
			return Event{Type: EventMinimized}, true
		case sdl.WINDOWEVENT_RESTORED:
			return Event{Type: EventRestored}, true
		}
	case *sdl.KeyboardEvent:
		if ev.Type == sdl.KEYDOWN {
			return Event{Type: EventKeyDown, Key: ev.Keysym.Sym}, true
		}
	}
	return Event{}, false
}

func (w *Window) initSDLWindow(title string, width int32, height int32) {
	if err := sdl.Init(sdl.INIT_VIDEO | sdl.INIT_EVENTS); err != nil {
		log.Panicf("Failed to initialize SDL: %v", err)
	}
	log.Println("Initialized SDL")
	win, err := sdl.CreateWindow(
		title,
		sdl.WINDOWPOS_UNDEFINED,
		sdl.WINDOWPOS_UNDEFINED,
		width,
		height,
		sdl.WINDOW_SHOWN|sdl.WINDOW_VULKAN,
	)
	if err != nil {
		log.Panicf("Failed to create SDL window for use with Vulkan: %v", err)
	}
	log.Printf("Created SDL window for use with Vulkan. Title: \"%s\", Width: %d, Height: %d", title, width, height)
	w.Win = win
}

func (w *Window) initVulkan() {
	// SDL already loaded the Vulkan library, take the loader entry point from it
	vk.SetGetInstanceProcAddr(sdl.VulkanGetVkGetInstanceProcAddr())
	if err := vk.Init(); err != nil {
		log.Panicf("Failed to initialize Vulkan API: %v", err)
	}
}

func (w *Window) createVulkanInstance(validationLayers []string) {
	requiredExtensions := w.Win.VulkanGetInstanceExtensions()
	checkSupport("instance extensions", requiredExtensions, ReadInstanceExtensionNames())
	if len(validationLayers) > 0 {
		checkSupport("validation layers", validationLayers, ReadInstanceLayerNames())
	}

	applicationInfo := &vk.ApplicationInfo{
		SType:              vk.StructureTypeApplicationInfo,
		PApplicationName:   TerminatedStr(w.Title),
		ApplicationVersion: vk.MakeVersion(APP_MAJOR, APP_MINOR, APP_PATCH),
		PEngineName:        TerminatedStr(ENGINE_NAME),
		EngineVersion:      vk.MakeVersion(ENGINE_MAJOR, ENGINE_MINOR, ENGINE_PATCH),
		ApiVersion:         vk.MakeVersion(VK_SPEC_MAJOR, VK_SPEC_MINOR, VK_SPEC_PATCH),
	}
	createInfo := &vk.InstanceCreateInfo{
		SType:                   vk.StructureTypeInstanceCreateInfo,
		PApplicationInfo:        applicationInfo,
		EnabledExtensionCount:   uint32(len(requiredExtensions)),
		PpEnabledExtensionNames: TerminatedStrs(requiredExtensions),
	}
	if len(validationLayers) > 0 {
		createInfo.EnabledLayerCount = uint32(len(validationLayers))
		createInfo.PpEnabledLayerNames = TerminatedStrs(validationLayers)
	}
	ins, err := VkCreateInstance(createInfo)
	if err != nil {
		log.Panicf("Failed to create vk instance, due to: %v", err)
	}
	w.Inst = ins
}

func checkSupport(what string, required []string, supported []string) {
	log.Printf("Required %s: %v", what, required)
	log.Printf("Available %s (%d): %v", what, len(supported), supported)
	if !IsSubset(required, supported) {
		log.Panicf("At least one of the required %s is not supported", what)
	}
	log.Printf("Success - All required %s are supported", what)
}

func (w *Window) createSdlVkSurface() {
	surf, err := SdlCreateVkSurface(w.Win, w.Inst)
	if err != nil {
		log.Panicf("Failed to create SDL window's Vulkan-surface, due to: %v", err)
	}
	w.Surf = surf
}

func (w *Window) String() string {
	width, height := w.Win.GetSize()
	return fmt.Sprintf("%q (%dx%d)", w.Title, width, height)
}
