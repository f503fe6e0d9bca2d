package common

import (
	vk "github.com/goki/vulkan"
)

// Utility functions providing slightly altered versions of the raw go bindings and wrapped functions. These
// altered versions of common functions should only hide very obvious default values that will not need to
// change most of the time. Thus representing a tiny step-up in abstraction to allow for a simpler usage of
// common vulkan calls. Names are prefixed with VKS which stands for (V)ul(K)an (S)implified.

// VKSAllocateCommandBuffers simplifies vk.AllocateCommandBuffers(...) by assuming the number of desired
// CommandBuffers to create is provided in the vk.CommandBufferAllocateInfo parameter.
func VKSAllocateCommandBuffers(device vk.Device, pAllocateInfo *vk.CommandBufferAllocateInfo) ([]vk.CommandBuffer, error) {
	var buffers = make([]vk.CommandBuffer, pAllocateInfo.CommandBufferCount)
	err := vk.Error(vk.AllocateCommandBuffers(device, pAllocateInfo, buffers))
	if err != nil {
		return nil, err
	}
	return buffers, nil
}

// VKSAllocateCommandBuffersPrimary allocates count primary level command buffers from the given pool.
func VKSAllocateCommandBuffersPrimary(device vk.Device, cmdPool vk.CommandPool, count uint32) ([]vk.CommandBuffer, error) {
	cbAllocateInfo := vk.CommandBufferAllocateInfo{
		SType:              vk.StructureTypeCommandBufferAllocateInfo,
		PNext:              nil,
		CommandPool:        cmdPool,
		Level:              vk.CommandBufferLevelPrimary,
		CommandBufferCount: count,
	}
	return VKSAllocateCommandBuffers(device, &cbAllocateInfo)
}

// VKSCreateCommandPool implicitly instantiates the CreateInfo for the command pool based on the provided
// arguments. This is easily possible as the CreateInfo does only contain 2 interesting values in this case.
func VKSCreateCommandPool(device vk.Device, flags vk.CommandPoolCreateFlags, queueFamilyIndex uint32) (vk.CommandPool, error) {
	poolInfo := vk.CommandPoolCreateInfo{
		SType:            vk.StructureTypeCommandPoolCreateInfo,
		PNext:            nil,
		Flags:            flags,
		QueueFamilyIndex: queueFamilyIndex,
	}
	return VkCreateCommandPool(device, &poolInfo, nil)
}

// VKSCreateSemaphore creates a binary semaphore with default flags.
func VKSCreateSemaphore(device vk.Device) (vk.Semaphore, error) {
	semCreateInfo := vk.SemaphoreCreateInfo{
		SType: vk.StructureTypeSemaphoreCreateInfo,
		PNext: nil,
		Flags: 0,
	}
	return VkCreateSemaphore(device, &semCreateInfo, nil)
}

// VKSCreateFence creates a fence, optionally in the signaled state so the first wait on it returns
// immediately.
func VKSCreateFence(device vk.Device, signaled bool) (vk.Fence, error) {
	fenCreateInfo := vk.FenceCreateInfo{
		SType: vk.StructureTypeFenceCreateInfo,
		PNext: nil,
		Flags: 0,
	}
	if signaled {
		fenCreateInfo.Flags = vk.FenceCreateFlags(vk.FenceCreateSignaledBit)
	}
	return VkCreateFence(device, &fenCreateInfo, nil)
}
