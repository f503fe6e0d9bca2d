package common

import (
	"fmt"

	vk "github.com/goki/vulkan"
	"github.com/veandco/go-sdl2/sdl"
	"go.uber.org/zap"
)

const ENGINE_NAME = "ECS_render_engine"
const ENGINE_MAJOR, ENGINE_MINOR, ENGINE_PATCH = 0, 1, 0

const SDL_MAJOR, SDL_MINOR, SDL_PATCH = int(sdl.MAJOR_VERSION), int(sdl.MINOR_VERSION), int(sdl.PATCHLEVEL)

// Vulkan spec go bindings = v1.0.7, as per: https://github.com/goki/vulkan = 1.3.239
const VK_SPEC_MAJOR, VK_SPEC_MINOR, VK_SPEC_PATCH int = 1, 3, 239

// Window encapsulates all window handling components and vulkan access objects needed to actually draw on
// screen. It uses SDL for window management and user input, simplifying the process of getting a vk.Surface
// to draw on and interact with. Window state flags (Resized, Minimized, Close) are updated through
// HandleEvent, which the input pump feeds with every SDL window event it drains.
type Window struct {
	sdlVersion string
	vkVersion  string

	Win        *sdl.Window
	Resized    bool
	Minimized  bool
	Close      bool
	fullscreen bool

	Inst *vk.Instance
	Surf *vk.Surface
}

// NewWindow initializes SDL, the Vulkan loader, a vk.Instance and the window surface. On teardown the
// vk.Surface, vk.Instance and sdl.Window need to be destroyed again, which Destroy does.
func NewWindow(title string, w int32, h int32, validationLayers []string) *Window {
	window := &Window{
		sdlVersion: fmt.Sprintf("v%d.%d.%d", SDL_MAJOR, SDL_MINOR, SDL_PATCH),
		vkVersion:  fmt.Sprintf("v%d.%d.%d", VK_SPEC_MAJOR, VK_SPEC_MINOR, VK_SPEC_PATCH),
	}
	window.initSDLWindow(title, w, h)
	window.initVulkan()
	window.createVulkanInstance(title, len(validationLayers) > 0, validationLayers)
	window.createSdlVkSurface()
	zap.S().Infof("Generated SDL/Vulkan window - SDL: %s Vulkan Spec: %s", window.sdlVersion, window.vkVersion)
	return window
}

// Destroy tears down the vk.Surface, vk.Instance and sdl.Window in that order.
func (w *Window) Destroy() {
	vk.DestroySurface(*w.Inst, *w.Surf, nil)
	vk.DestroyInstance(*w.Inst, nil)
	if err := w.Win.Destroy(); err != nil {
		zap.S().Fatalf("Failed to destroy SDL window: %v", err)
	}
}

// HandleEvent updates the window state flags from an SDL event. Non-window events are ignored so the
// input pump can forward everything it drains.
func (w *Window) HandleEvent(event sdl.Event) {
	switch ev := event.(type) {
	case *sdl.QuitEvent:
		w.Close = true
	case *sdl.WindowEvent:
		switch ev.Event {
		case sdl.WINDOWEVENT_RESIZED, sdl.WINDOWEVENT_SIZE_CHANGED:
			w.Resized = true
		case sdl.WINDOWEVENT_MINIMIZED:
			w.Minimized = true
		case sdl.WINDOWEVENT_RESTORED, sdl.WINDOWEVENT_MAXIMIZED:
			w.Minimized = false
			w.Resized = true
		}
	}
}

// ToggleFullscreen switches between windowed mode and fullscreen-desktop. The resulting size change
// arrives as a regular window event and is picked up by the next frame's swapchain check.
func (w *Window) ToggleFullscreen() {
	var flags uint32
	if !w.fullscreen {
		flags = sdl.WINDOW_FULLSCREEN_DESKTOP
	}
	if err := w.Win.SetFullscreen(flags); err != nil {
		zap.S().Warnf("Failed to toggle fullscreen: %v", err)
		return
	}
	w.fullscreen = !w.fullscreen
}

// DrawableSize returns the current drawable area in pixels.
func (w *Window) DrawableSize() (uint32, uint32) {
	width, height := w.Win.VulkanGetDrawableSize()
	return uint32(width), uint32(height)
}

func (w *Window) initSDLWindow(title string, width int32, height int32) {
	if err := sdl.Init(sdl.INIT_EVERYTHING); err != nil {
		zap.S().Fatalf("Failed to initialize SDL: %v", err)
	}
	zap.S().Infof("Initialized SDL")
	win, err := sdl.CreateWindow(
		title,
		sdl.WINDOWPOS_UNDEFINED,
		sdl.WINDOWPOS_UNDEFINED,
		width,
		height,
		sdl.WINDOW_SHOWN|sdl.WINDOW_RESIZABLE|sdl.WINDOW_VULKAN,
	)
	if err != nil {
		zap.S().Fatalf("Failed to create SDL window for use with Vulkan: %v", err)
	}
	zap.S().Infof("Created SDL window for use with Vulkan. Title: %q, Width: %d, Height: %d", title, width, height)
	w.Win = win
}

func (w *Window) initVulkan() {
	// Find and load Vulkan addresses to be able to call driver level functions via provided mechanism
	vk.SetGetInstanceProcAddr(sdl.VulkanGetVkGetInstanceProcAddr())
	if err := vk.Init(); err != nil {
		zap.S().Fatalf("Failed to initialize Vulkan API: %v", err)
	}
}

func (w *Window) createVulkanInstance(appName string, enableValidation bool, validationLayers []string) {
	requiredExtensions := w.Win.VulkanGetInstanceExtensions()
	checkInstanceExtensionSupport(requiredExtensions)

	if enableValidation {
		zap.S().Infof("Validation enabled, checking layer support")
		checkValidationLayerSupport(validationLayers)
	}
	applicationInfo := &vk.ApplicationInfo{
		SType:              vk.StructureTypeApplicationInfo,
		PNext:              nil,
		PApplicationName:   TerminatedStr(appName),
		ApplicationVersion: vk.MakeVersion(ENGINE_MAJOR, ENGINE_MINOR, ENGINE_PATCH),
		PEngineName:        ENGINE_NAME + "\x00",
		EngineVersion:      vk.MakeVersion(ENGINE_MAJOR, ENGINE_MINOR, ENGINE_PATCH),
		ApiVersion:         vk.MakeVersion(VK_SPEC_MAJOR, VK_SPEC_MINOR, VK_SPEC_PATCH),
	}
	createInfo := &vk.InstanceCreateInfo{
		SType:                   vk.StructureTypeInstanceCreateInfo,
		PNext:                   nil,
		Flags:                   0,
		PApplicationInfo:        applicationInfo,
		EnabledLayerCount:       0,
		PpEnabledLayerNames:     nil,
		EnabledExtensionCount:   uint32(len(requiredExtensions)),
		PpEnabledExtensionNames: TerminatedStrs(requiredExtensions),
	}
	if enableValidation {
		createInfo.EnabledLayerCount = uint32(len(validationLayers))
		createInfo.PpEnabledLayerNames = TerminatedStrs(validationLayers)
	}
	ins, err := VkCreateInstance(createInfo, nil)
	if err != nil {
		zap.S().Fatalf("Failed to create vk instance, due to: %v", err)
	}
	w.Inst = &ins
}

func checkInstanceExtensionSupport(requiredInstanceExt []string) {
	supportedExtNames := ReadInstanceExtensionPropertyNames()
	zap.S().Infof("Required instance extensions: %v", requiredInstanceExt)
	zap.S().Infof("Available extensions (%d)", len(supportedExtNames))

	if !AllOfAinB(requiredInstanceExt, supportedExtNames) {
		zap.S().Fatalf("At least one required instance extension is not supported")
	}
}

func checkValidationLayerSupport(requiredLayers []string) {
	supportedLayerNames := ReadInstanceLayerPropertyNames()
	zap.S().Infof("Desired validation layers: %v", requiredLayers)
	zap.S().Infof("Supported layers (%d): %v", len(supportedLayerNames), supportedLayerNames)

	if !AllOfAinB(requiredLayers, supportedLayerNames) {
		zap.S().Fatalf("At least one desired validation layer is not supported")
	}
}

func (w *Window) createSdlVkSurface() {
	surf, err := SdlCreateVkSurface(w.Win, *w.Inst)
	if err != nil {
		zap.S().Fatalf("Failed to create SDL window's Vulkan-surface, due to: %v", err)
	}
	w.Surf = &surf
}
