package common

import (
	vk "github.com/goki/vulkan"
	"go.uber.org/zap"
)

var DEVICE_EXTENSIONS = []string{
	"VK_KHR_swapchain",
}

// Device represents the interfacing objects between the SDL window, the hardware running Vulkan and the
// rest of the rendering engine. Its main purpose is to encapsulate the corresponding objects to make the
// initialization and teardown of a given application neater.
type Device struct {
	PhysicalDevice vk.PhysicalDevice
	PdProps        vk.PhysicalDeviceProperties
	PdMemoryProps  vk.PhysicalDeviceMemoryProperties
	QFamilies      QueueFamilyIndices

	Device    vk.Device
	GraphicsQ vk.Queue
	PresentQ  vk.Queue
}

func NewDevice(w *Window, validationLayers []string) *Device {
	dc := &Device{}
	dc.selectPhysicalDevice(w.Inst, w.Surf)
	dc.createLogicalDevice(validationLayers)
	return dc
}

// Destroy tears down all objects created by the Device itself. The window-owned instance and surface are
// left alone.
func (dc *Device) Destroy() {
	vk.DestroyDevice(dc.Device, nil)
}

func (dc *Device) selectPhysicalDevice(in *vk.Instance, su *vk.Surface) {
	availableDevices := ReadPhysicalDevices(*in)
	var pd vk.PhysicalDevice
	var fallback vk.PhysicalDevice
	for i := range availableDevices {
		if !isDeviceSuitable(availableDevices[i], su) {
			continue
		}
		props := ReadPhysicalDeviceProperties(availableDevices[i])
		if props.DeviceType == vk.PhysicalDeviceTypeDiscreteGpu {
			pd = availableDevices[i]
			break
		}
		if fallback == nil {
			fallback = availableDevices[i]
		}
	}
	if pd == nil {
		pd = fallback
	}
	if pd == nil {
		zap.S().Fatalf("No suitable physical device (GPU) found")
	}
	zap.S().Infof("Found suitable device")
	dc.PhysicalDevice = pd

	// Also set related member variables for dc.PhysicalDevice as they are needed later
	qf, err := findQueueFamilies(dc.PhysicalDevice, *su)
	if err != nil {
		zap.S().Fatalf("Failed to read queue families from selected device due to: %s", err)
	}
	dc.QFamilies = *qf
	dc.PdProps = ReadPhysicalDeviceProperties(dc.PhysicalDevice)
	// this is the easiest spot to deref this at the moment
	dc.PdProps.Limits.Deref()
	dc.PdMemoryProps = ReadDeviceMemoryProperties(dc.PhysicalDevice)
}

func isDeviceSuitable(pd vk.PhysicalDevice, su *vk.Surface) bool {
	indices, err := findQueueFamilies(pd, *su)
	if err != nil {
		zap.S().Infof("Failed to get required queue families: %s", err)
		return false
	}

	queuesSupported := indices.isAllQueuesFound()
	extensionsSupported := checkDeviceExtensionSupport(pd, DEVICE_EXTENSIONS)

	isSwapChainAdequate := false
	if extensionsSupported {
		isSwapChainAdequate = checkSwapChainAdequacy(pd, *su)
	}

	return queuesSupported && extensionsSupported && isSwapChainAdequate
}

func (dc *Device) createLogicalDevice(validationLayers []string) {
	queueInfos := dc.QFamilies.toQueueCreateInfos()
	deviceCreatInfo := &vk.DeviceCreateInfo{
		SType:                   vk.StructureTypeDeviceCreateInfo,
		PNext:                   nil,
		Flags:                   0,
		QueueCreateInfoCount:    uint32(len(queueInfos)),
		PQueueCreateInfos:       queueInfos,
		EnabledLayerCount:       0,
		PpEnabledLayerNames:     nil,
		EnabledExtensionCount:   uint32(len(DEVICE_EXTENSIONS)),
		PpEnabledExtensionNames: TerminatedStrs(DEVICE_EXTENSIONS),
		PEnabledFeatures:        []vk.PhysicalDeviceFeatures{{}},
	}
	if len(validationLayers) > 0 {
		deviceCreatInfo.EnabledLayerCount = uint32(len(validationLayers))
		deviceCreatInfo.PpEnabledLayerNames = TerminatedStrs(validationLayers)
	}

	var err error
	dc.Device, err = VkCreateDevice(dc.PhysicalDevice, deviceCreatInfo, nil)
	if err != nil {
		zap.S().Fatalf("Failed to create logical device due to: %s", err)
	}
	dc.GraphicsQ, err = VkGetDeviceQueue(dc.Device, dc.QFamilies.GraphicsFamily, 0)
	if err != nil {
		zap.S().Fatalf("Failed to get 'graphics' device queue: %s", err)
	}
	dc.PresentQ, err = VkGetDeviceQueue(dc.Device, dc.QFamilies.PresentFamily, 0)
	if err != nil {
		zap.S().Fatalf("Failed to get 'present' device queue: %s", err)
	}
}

func checkDeviceExtensionSupport(pd vk.PhysicalDevice, requiredDeviceExt []string) bool {
	supportedExt := ReadDeviceExtensionProperties(pd)
	zap.S().Infof("Required device extensions: %v", requiredDeviceExt)
	zap.S().Infof("Available device extensions (%d)", len(supportedExt))
	supportedExtNames := make([]string, len(supportedExt))
	for i, ext := range supportedExt {
		supportedExtNames[i] = vk.ToString(ext.ExtensionName[:])
	}
	return AllOfAinB(requiredDeviceExt, supportedExtNames)
}
