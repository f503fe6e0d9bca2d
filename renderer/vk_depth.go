package renderer

import (
	vk "github.com/goki/vulkan"

	com "ECS_render_engine/common"
)

// DepthFormat is fixed; D32Sfloat is universally supported for depth attachments and keeps the render
// pass compatible across swapchain rebuilds.
const DepthFormat = vk.FormatD32Sfloat

func (c *Core) createDepthResources() {
	dImg, dImgMem := com.CreateImage(
		c.device,
		c.swapChain.Extent.Width,
		c.swapChain.Extent.Height,
		DepthFormat,
		vk.ImageTilingOptimal,
		vk.ImageUsageFlags(vk.ImageUsageDepthStencilAttachmentBit),
		vk.MemoryPropertyFlags(vk.MemoryPropertyDeviceLocalBit),
	)
	c.depthImage = dImg
	c.depthImageMem = dImgMem
	c.depthImageView = com.CreateImageView(c.device, dImg, DepthFormat, vk.ImageAspectFlags(vk.ImageAspectDepthBit))
}
