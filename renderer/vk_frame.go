package renderer

import (
	"time"

	vk "github.com/goki/vulkan"
	"github.com/veandco/go-sdl2/sdl"
	"go.uber.org/zap"

	com "ECS_render_engine/common"
)

const (
	// frameTimeout bounds the wait on the previous frame's fence and the image acquire. A second of GPU
	// silence means the driver is gone, not busy.
	frameTimeout = uint64(time.Second)
	// uploadTimeout bounds the blocking wait on immediate submits.
	uploadTimeout = uint64(9999999999)
)

// BeginFrame blocks until the previous frame finished, acquires the next swapchain image and opens the
// command buffer and render pass for this frame. While the window is minimized it polls events at a
// coarse interval until the window is restored.
func (c *Core) BeginFrame() {
	if c.Win.Minimized {
		c.awaitRestore()
	}
	if c.shouldRebuild() {
		c.Win.Resized = false
		c.Rebuild()
	}

	res := vk.WaitForFences(c.device.Device, 1, []vk.Fence{c.renderFence}, vk.True, frameTimeout)
	if res != vk.Success {
		zap.S().Fatalf("Failed to wait for previous frame's fence, WaitForFences(...) result code: %d", res)
	}
	vk.ResetFences(c.device.Device, 1, []vk.Fence{c.renderFence})

	res = vk.AcquireNextImage(c.device.Device, c.swapChain.Handle, frameTimeout, c.presentSem, vk.NullFence, &c.imageIdx)
	if res != vk.Success && res != vk.Suboptimal {
		zap.S().Fatalf("Failed to acquire image, AcquireNextImage(...) result code: %d", res)
	}

	vk.ResetCommandBuffer(c.commandBuffer, 0)
	beginInfo := vk.CommandBufferBeginInfo{
		SType:            vk.StructureTypeCommandBufferBeginInfo,
		PNext:            nil,
		Flags:            vk.CommandBufferUsageFlags(vk.CommandBufferUsageOneTimeSubmitBit),
		PInheritanceInfo: nil,
	}
	if vk.BeginCommandBuffer(c.commandBuffer, &beginInfo) != vk.Success {
		zap.S().Fatalf("Failed to begin recording command buffer")
	}

	clearValues := []vk.ClearValue{
		vk.NewClearValue(c.clearColor[:]),
		vk.NewClearDepthStencil(1, 0),
	}
	renderPassInfo := vk.RenderPassBeginInfo{
		SType:       vk.StructureTypeRenderPassBeginInfo,
		PNext:       nil,
		RenderPass:  c.renderPass,
		Framebuffer: c.swapChain.FrameBuffers[c.imageIdx],
		RenderArea: vk.Rect2D{
			Offset: vk.Offset2D{X: 0, Y: 0},
			Extent: c.swapChain.Extent,
		},
		ClearValueCount: uint32(len(clearValues)),
		PClearValues:    clearValues,
	}
	vk.CmdBeginRenderPass(c.commandBuffer, &renderPassInfo, vk.SubpassContentsInline)
}

// EndFrame closes the render pass and command buffer, submits the frame and presents the acquired image.
// Stale-swapchain results during present mark the swapchain for a rebuild instead of aborting; the rebuild
// itself happens at the top of the next frame, after any minimized stretch has passed.
func (c *Core) EndFrame() {
	vk.CmdEndRenderPass(c.commandBuffer)
	if vk.EndCommandBuffer(c.commandBuffer) != vk.Success {
		zap.S().Fatalf("Failed to end command buffer")
	}

	submitInfo := vk.SubmitInfo{
		SType:              vk.StructureTypeSubmitInfo,
		PNext:              nil,
		WaitSemaphoreCount: 1,
		PWaitSemaphores:    []vk.Semaphore{c.presentSem},
		PWaitDstStageMask: []vk.PipelineStageFlags{
			vk.PipelineStageFlags(vk.PipelineStageColorAttachmentOutputBit),
		},
		CommandBufferCount:   1,
		PCommandBuffers:      []vk.CommandBuffer{c.commandBuffer},
		SignalSemaphoreCount: 1,
		PSignalSemaphores:    []vk.Semaphore{c.renderSem},
	}
	if vk.QueueSubmit(c.device.GraphicsQ, 1, []vk.SubmitInfo{submitInfo}, c.renderFence) != vk.Success {
		zap.S().Fatalf("Failed to submit command buffer")
	}

	presentInfo := vk.PresentInfo{
		SType:              vk.StructureTypePresentInfo,
		PNext:              nil,
		WaitSemaphoreCount: 1,
		PWaitSemaphores:    []vk.Semaphore{c.renderSem},
		SwapchainCount:     1,
		PSwapchains:        []vk.Swapchain{c.swapChain.Handle},
		PImageIndices:      []uint32{c.imageIdx},
		PResults:           nil,
	}
	result := vk.QueuePresent(c.device.PresentQ, &presentInfo)
	if result == vk.ErrorOutOfDate || result == vk.Suboptimal {
		c.Win.Resized = true
	} else if result != vk.Success {
		zap.S().Fatalf("Failed to present image, QueuePresent(...) result code: %d", result)
	}
}

// ImmediateSubmit records commands into the dedicated upload buffer, submits them and blocks until the
// upload fence signals. Used for staging-to-device copies outside the frame loop.
func (c *Core) ImmediateSubmit(record func(cmd vk.CommandBuffer)) {
	beginInfo := vk.CommandBufferBeginInfo{
		SType:            vk.StructureTypeCommandBufferBeginInfo,
		PNext:            nil,
		Flags:            vk.CommandBufferUsageFlags(vk.CommandBufferUsageOneTimeSubmitBit),
		PInheritanceInfo: nil,
	}
	if vk.BeginCommandBuffer(c.uploadBuffer, &beginInfo) != vk.Success {
		zap.S().Fatalf("Failed to begin upload command buffer")
	}

	record(c.uploadBuffer)

	if vk.EndCommandBuffer(c.uploadBuffer) != vk.Success {
		zap.S().Fatalf("Failed to end upload command buffer")
	}
	submitInfo := vk.SubmitInfo{
		SType:              vk.StructureTypeSubmitInfo,
		PNext:              nil,
		CommandBufferCount: 1,
		PCommandBuffers:    []vk.CommandBuffer{c.uploadBuffer},
	}
	if vk.QueueSubmit(c.device.GraphicsQ, 1, []vk.SubmitInfo{submitInfo}, c.uploadFence) != vk.Success {
		zap.S().Fatalf("Failed to submit upload command buffer")
	}

	res := vk.WaitForFences(c.device.Device, 1, []vk.Fence{c.uploadFence}, vk.True, uploadTimeout)
	if res != vk.Success {
		zap.S().Fatalf("Failed to wait for upload fence, WaitForFences(...) result code: %d", res)
	}
	vk.ResetFences(c.device.Device, 1, []vk.Fence{c.uploadFence})
	vk.ResetCommandPool(c.device.Device, c.uploadPool, 0)
}

// Rebuild tears down the framebuffers, depth resources and swapchain and recreates them at the current
// drawable size, keeping the original image count.
func (c *Core) Rebuild() {
	vk.DeviceWaitIdle(c.device.Device)
	imageCount := c.swapChain.ImageCount
	c.destroySwapChainAndDerivatives()
	c.swapChain = com.NewSwapChain(c.device, c.Win, imageCount)
	c.createDepthResources()
	c.createFrameBuffers()
	zap.S().Infof("Rebuilt swapchain at %dx%d", c.swapChain.Extent.Width, c.swapChain.Extent.Height)
}

// shouldRebuild reports whether a pending resize can be acted on right now. A minimized window has a
// zero-sized drawable, which is not a legal swapchain extent, so its rebuild stays pending until the
// window is restored.
func (c *Core) shouldRebuild() bool {
	return c.Win.Resized && !c.Win.Minimized
}

// awaitRestore keeps draining events at a coarse interval while the window stays minimized. Rendering a
// zero-sized surface is never attempted. A quit request ends the wait without marking the window resized,
// as the swapchain must not be rebuilt while the drawable is still zero-sized.
func (c *Core) awaitRestore() {
	zap.S().Infof("Window minimized, pausing rendering")
	for c.Win.Minimized && !c.Win.Close {
		for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
			c.Win.HandleEvent(event)
		}
		if c.Win.Minimized {
			sdl.Delay(100)
		}
	}
	if !c.Win.Minimized {
		c.Win.Resized = true
		zap.S().Infof("Window restored, resuming rendering")
	}
}
