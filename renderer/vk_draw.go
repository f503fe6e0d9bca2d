package renderer

import (
	"unsafe"

	vk "github.com/goki/vulkan"
	lin "github.com/xlab/linmath"
	"go.uber.org/zap"

	com "ECS_render_engine/common"
	"ECS_render_engine/ecs"
)

// UploadMesh copies the mesh's CPU geometry into device-local vertex and index buffers through a staging
// buffer and an immediate submit, and records the resulting handles on the mesh. The buffers are pushed
// onto the deletion queue, so they live until renderer shutdown regardless of entity lifetime.
func (c *Core) UploadMesh(m *ecs.Mesh) {
	m.VertexBuffer, m.VertexMemory = c.uploadToDeviceLocal(
		com.RawBytes(m.Vertices),
		vk.BufferUsageFlags(vk.BufferUsageVertexBufferBit),
	)
	m.IndexBuffer, m.IndexMemory = c.uploadToDeviceLocal(
		com.RawBytes(m.Indices),
		vk.BufferUsageFlags(vk.BufferUsageIndexBufferBit),
	)
	zap.S().Infof("Uploaded mesh (%d vertices, %d indices)", len(m.Vertices), len(m.Indices))
}

func (c *Core) uploadToDeviceLocal(payload []byte, usage vk.BufferUsageFlags) (vk.Buffer, vk.DeviceMemory) {
	bufSize := vk.DeviceSize(len(payload))
	stgBuf := com.CreateBuffer(
		c.device,
		bufSize,
		vk.BufferUsageFlags(vk.BufferUsageTransferSrcBit),
		vk.MemoryPropertyFlags(vk.MemoryPropertyHostVisibleBit|vk.MemoryPropertyHostCoherentBit),
	)
	defer com.DestroyBuffer(c.device, stgBuf)
	com.CopyToDeviceBuffer(c.device, stgBuf, payload)

	deviceBuf := com.CreateBuffer(
		c.device,
		bufSize,
		vk.BufferUsageFlags(vk.BufferUsageTransferDstBit)|usage,
		vk.MemoryPropertyFlags(vk.MemoryPropertyDeviceLocalBit),
	)
	c.ImmediateSubmit(func(cmd vk.CommandBuffer) {
		copyRegions := []vk.BufferCopy{
			{SrcOffset: 0, DstOffset: 0, Size: bufSize},
		}
		vk.CmdCopyBuffer(cmd, stgBuf.Handle, deviceBuf.Handle, 1, copyRegions)
	})

	c.deletionQueue.Push(KindBuffer, deviceBuf.Handle)
	c.deletionQueue.Push(KindDeviceMemory, deviceBuf.DeviceMem)
	return deviceBuf.Handle, deviceBuf.DeviceMem
}

// BindMaterial binds the material's pipeline and refreshes the dynamic viewport and scissor to the full
// swapchain extent.
func (c *Core) BindMaterial(mat *ecs.Material) {
	vk.CmdBindPipeline(c.commandBuffer, vk.PipelineBindPointGraphics, *mat.Pipeline)

	viewport := []vk.Viewport{
		{
			X:        0,
			Y:        0,
			Width:    float32(c.swapChain.Extent.Width),
			Height:   float32(c.swapChain.Extent.Height),
			MinDepth: 0,
			MaxDepth: 1.0,
		},
	}
	vk.CmdSetViewport(c.commandBuffer, 0, 1, viewport)

	scissor := []vk.Rect2D{
		{
			Offset: vk.Offset2D{X: 0, Y: 0},
			Extent: c.swapChain.Extent,
		},
	}
	vk.CmdSetScissor(c.commandBuffer, 0, 1, scissor)
}

// DrawMesh pushes the material color and mvp matrix and issues an indexed draw of the mesh. The mesh
// must have been uploaded and the material bound beforehand.
func (c *Core) DrawMesh(m *ecs.Mesh, mat *ecs.Material, mvp lin.Mat4x4) {
	vertBuffers := []vk.Buffer{m.VertexBuffer}
	offsets := []vk.DeviceSize{0}
	vk.CmdBindVertexBuffers(c.commandBuffer, 0, uint32(len(vertBuffers)), vertBuffers, offsets)
	vk.CmdBindIndexBuffer(c.commandBuffer, m.IndexBuffer, 0, vk.IndexTypeUint32)

	pc := meshPushConstants{
		Color: mat.Color,
		MVP:   mvp,
	}
	pcBytes := com.RawBytes(&pc)
	vk.CmdPushConstants(
		c.commandBuffer,
		*mat.Layout,
		vk.ShaderStageFlags(vk.ShaderStageVertexBit),
		0,
		meshPushConstantsSize(),
		unsafe.Pointer(&pcBytes[0]),
	)
	vk.CmdDrawIndexed(c.commandBuffer, uint32(len(m.Indices)), 1, 0, 0, 0)
}
