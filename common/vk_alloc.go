package common

import (
	vk "github.com/goki/vulkan"
	"go.uber.org/zap"
)

// This code section contains allocation helper functions. It aims to simplify the allocation of buffers and
// images on the selected device.

type Buffer struct {
	Handle    vk.Buffer
	DeviceMem vk.DeviceMemory
	Size      vk.DeviceSize
	Usage     vk.BufferUsageFlags
	props     vk.MemoryPropertyFlags
}

func CreateBuffer(dc *Device, size vk.DeviceSize, usage vk.BufferUsageFlags, props vk.MemoryPropertyFlags) *Buffer {
	// Buffer handle of fitting size
	bufferInfo := vk.BufferCreateInfo{
		SType:                 vk.StructureTypeBufferCreateInfo,
		PNext:                 nil,
		Flags:                 0,
		Size:                  size,
		Usage:                 usage,
		SharingMode:           vk.SharingModeExclusive,
		QueueFamilyIndexCount: 0,
		PQueueFamilyIndices:   nil,
	}

	buf, err := VkCreateBuffer(dc.Device, &bufferInfo, nil)
	if err != nil {
		zap.S().Fatalf("Failed to create buffer: %v", err)
	}

	bufRequirements := ReadBufferMemoryRequirements(dc.Device, buf)

	// Allocate device memory
	allocInfo := vk.MemoryAllocateInfo{
		SType:           vk.StructureTypeMemoryAllocateInfo,
		PNext:           nil,
		AllocationSize:  bufRequirements.Size,
		MemoryTypeIndex: findMemoryType(dc, bufRequirements.MemoryTypeBits, props),
	}
	deviceMem, err := VkAllocateMemory(dc.Device, &allocInfo, nil)
	if err != nil {
		zap.S().Fatalf("Failed to allocate buffer memory: %v", err)
	}

	// Associate allocated memory with buffer handle
	if err := VkBindBufferMemory(dc.Device, buf, deviceMem, 0); err != nil {
		zap.S().Fatalf("Failed to bind device memory to buffer handle: %v", err)
	}

	return &Buffer{
		Handle:    buf,
		DeviceMem: deviceMem,
		Size:      size,
		Usage:     usage,
		props:     props,
	}
}

// CopyToDeviceBuffer is a convenience method to simplify the process of mapping device memory to CPU
// memory, copy bytes over to the GPU and unmapping the memory again. This requires the buffer to:
// - have the stated Usage: vk.BufferUsageTransferSrcBit
// - be: vk.MemoryPropertyHostVisibleBit and vk.MemoryPropertyHostCoherentBit
func CopyToDeviceBuffer(dc *Device, deviceBuf *Buffer, payload []byte) {
	// Check the memory is accessible by the CPU
	hasTransferUsage := deviceBuf.Usage&vk.BufferUsageFlags(vk.BufferUsageTransferSrcBit) != 0
	isHostVisCoh := deviceBuf.props&vk.MemoryPropertyFlags(vk.MemoryPropertyHostVisibleBit|vk.MemoryPropertyHostCoherentBit) != 0
	if !(hasTransferUsage && isHostVisCoh) {
		zap.S().Fatalf("Cant copy to device buffer as buffer is not suitable")
	}
	// This function only allows to copy a "full buffer" worth of payload starting at offset = 0
	if deviceBuf.Size != vk.DeviceSize(uint64(len(payload))) {
		zap.S().Fatalf("Cant copy to device buffer. Buffer and payload not of equal size.")
	}
	// Map -> copy -> unmap
	pData, err := VkMapMemory(dc.Device, deviceBuf.DeviceMem, 0, deviceBuf.Size, 0)
	if err != nil {
		zap.S().Fatalf("Failed to map device memory: %v", err)
	}
	vk.Memcopy(pData, payload)
	vk.UnmapMemory(dc.Device, deviceBuf.DeviceMem)
}

func DestroyBuffer(dc *Device, buffer *Buffer) {
	vk.DestroyBuffer(dc.Device, buffer.Handle, nil)
	vk.FreeMemory(dc.Device, buffer.DeviceMem, nil)
}

func CreateImage(dc *Device, w uint32, h uint32, format vk.Format, tiling vk.ImageTiling, usage vk.ImageUsageFlags, props vk.MemoryPropertyFlags) (vk.Image, vk.DeviceMemory) {
	imageInfo := &vk.ImageCreateInfo{
		SType:     vk.StructureTypeImageCreateInfo,
		PNext:     nil,
		Flags:     0,
		ImageType: vk.ImageType2d,
		Format:    format,
		Extent: vk.Extent3D{
			Width:  w,
			Height: h,
			Depth:  1,
		},
		MipLevels:             1,
		ArrayLayers:           1,
		Samples:               vk.SampleCount1Bit,
		Tiling:                tiling,
		Usage:                 usage,
		SharingMode:           vk.SharingModeExclusive,
		QueueFamilyIndexCount: 0,
		PQueueFamilyIndices:   nil,
		InitialLayout:         vk.ImageLayoutUndefined,
	}
	img, err := VkCreateImage(dc.Device, imageInfo, nil)
	if err != nil {
		zap.S().Fatalf("Failed to create image: %v", err)
	}

	memRequirements := ReadImageMemoryRequirements(dc.Device, img)
	allocInfo := &vk.MemoryAllocateInfo{
		SType:           vk.StructureTypeMemoryAllocateInfo,
		PNext:           nil,
		AllocationSize:  memRequirements.Size,
		MemoryTypeIndex: findMemoryType(dc, memRequirements.MemoryTypeBits, props),
	}
	imgMemory, err := VkAllocateMemory(dc.Device, allocInfo, nil)
	if err != nil {
		zap.S().Fatalf("Failed to allocate image device memory: %v", err)
	}
	vk.BindImageMemory(dc.Device, img, imgMemory, 0)
	return img, imgMemory
}

func findMemoryType(dc *Device, typeFilter uint32, propFlags vk.MemoryPropertyFlags) uint32 {
	for i := uint32(0); i < dc.PdMemoryProps.MemoryTypeCount; i++ {
		ofType := (typeFilter & (1 << i)) > 0
		hasProperties := dc.PdMemoryProps.MemoryTypes[i].PropertyFlags&propFlags == propFlags
		if ofType && hasProperties {
			return i
		}
	}
	zap.S().Fatalf("Failed to find suitable memory type")
	return 0
}
