package renderer

import (
	vk "github.com/goki/vulkan"
	"go.uber.org/zap"

	com "ECS_render_engine/common"
)

// Config carries everything the renderer needs at construction time.
type Config struct {
	Title         string
	Width, Height int32
	// ClearColor is the RGBA background the color attachment is cleared to each frame.
	ClearColor [4]float32
	// ShaderDir is the directory holding the compiled .spv shader binaries.
	ShaderDir        string
	ValidationLayers []string
}

// Core owns the full Vulkan state: window, device, swapchain, render pass, the single-buffered frame sync
// objects, the immediate-submit upload context, the pipeline registry and the resource deletion queue.
// One frame is in flight at a time; BeginFrame/EndFrame bracket all drawing.
type Core struct {
	// OS/Window level
	Win    *com.Window
	device *com.Device

	// Target level
	swapChain  *com.SwapChain
	renderPass vk.RenderPass

	depthImage     vk.Image
	depthImageMem  vk.DeviceMemory
	depthImageView vk.ImageView

	// Frame level (single buffered)
	commandPool   vk.CommandPool
	commandBuffer vk.CommandBuffer
	renderFence   vk.Fence
	presentSem    vk.Semaphore
	renderSem     vk.Semaphore
	imageIdx      uint32

	// Upload context for immediate submits
	uploadPool   vk.CommandPool
	uploadBuffer vk.CommandBuffer
	uploadFence  vk.Fence

	// Drawing infrastructure
	materials map[string]*materialPipeline

	deletionQueue *DeletionQueue
	clearColor    [4]float32
	shaderDir     string
}

// NewCore builds the window and the full Vulkan stack behind it. All failures during construction are
// fatal.
func NewCore(cfg Config) *Core {
	c := &Core{
		clearColor: cfg.ClearColor,
		shaderDir:  cfg.ShaderDir,
		materials:  make(map[string]*materialPipeline),
	}
	c.Win = com.NewWindow(cfg.Title, cfg.Width, cfg.Height, cfg.ValidationLayers)
	c.device = com.NewDevice(c.Win, cfg.ValidationLayers)
	c.deletionQueue = NewDeletionQueue(c.releaseResource)
	c.swapChain = com.NewSwapChain(c.device, c.Win, 0)

	c.createRenderPass()
	c.createDepthResources()
	c.createFrameBuffers()
	c.createCommandStructures()
	c.createSyncStructures()
	c.initPipelines()
	return c
}

// Destroy flushes the deletion queue and tears down the remaining infrastructure in reverse creation
// order. Safe to call once; the deletion queue ignores repeated flushes.
func (c *Core) Destroy() {
	vk.DeviceWaitIdle(c.device.Device)

	c.deletionQueue.Flush()

	for _, mp := range c.materials {
		mp.destroy(c.device.Device)
	}

	vk.DestroyFence(c.device.Device, c.uploadFence, nil)
	vk.DestroyCommandPool(c.device.Device, c.uploadPool, nil)

	vk.DestroySemaphore(c.device.Device, c.presentSem, nil)
	vk.DestroySemaphore(c.device.Device, c.renderSem, nil)
	vk.DestroyFence(c.device.Device, c.renderFence, nil)
	vk.DestroyCommandPool(c.device.Device, c.commandPool, nil)

	c.destroySwapChainAndDerivatives()
	vk.DestroyRenderPass(c.device.Device, c.renderPass, nil)

	c.device.Destroy()
	c.Win.Destroy()
}

// WaitRenderIdle blocks until the device finished all submitted work.
func (c *Core) WaitRenderIdle() {
	vk.DeviceWaitIdle(c.device.Device)
}

// Extent returns the current swapchain extent in pixels.
func (c *Core) Extent() (uint32, uint32) {
	return c.swapChain.Extent.Width, c.swapChain.Extent.Height
}

// ToggleFullscreen switches the window between windowed and fullscreen-desktop mode.
func (c *Core) ToggleFullscreen() {
	c.Win.ToggleFullscreen()
}

func (c *Core) destroySwapChainAndDerivatives() {
	vk.DestroyImageView(c.device.Device, c.depthImageView, nil)
	vk.DestroyImage(c.device.Device, c.depthImage, nil)
	vk.FreeMemory(c.device.Device, c.depthImageMem, nil)

	c.swapChain.Destroy(c.device)
}

func (c *Core) createRenderPass() {
	colorAttachment := vk.AttachmentDescription{
		Flags:          0,
		Format:         c.swapChain.Format.Format,
		Samples:        vk.SampleCount1Bit,
		LoadOp:         vk.AttachmentLoadOpClear,
		StoreOp:        vk.AttachmentStoreOpStore,
		StencilLoadOp:  vk.AttachmentLoadOpDontCare,
		StencilStoreOp: vk.AttachmentStoreOpDontCare,
		InitialLayout:  vk.ImageLayoutUndefined,
		FinalLayout:    vk.ImageLayoutPresentSrc,
	}
	colorAttachmentRef := vk.AttachmentReference{
		Attachment: 0,
		Layout:     vk.ImageLayoutColorAttachmentOptimal,
	}
	depthAttachment := vk.AttachmentDescription{
		Flags:          0,
		Format:         DepthFormat,
		Samples:        vk.SampleCount1Bit,
		LoadOp:         vk.AttachmentLoadOpClear,
		StoreOp:        vk.AttachmentStoreOpDontCare,
		StencilLoadOp:  vk.AttachmentLoadOpDontCare,
		StencilStoreOp: vk.AttachmentStoreOpDontCare,
		InitialLayout:  vk.ImageLayoutUndefined,
		FinalLayout:    vk.ImageLayoutDepthStencilAttachmentOptimal,
	}
	depthAttachmentRef := vk.AttachmentReference{
		Attachment: 1,
		Layout:     vk.ImageLayoutDepthStencilAttachmentOptimal,
	}
	subpass := vk.SubpassDescription{
		Flags:                   0,
		PipelineBindPoint:       vk.PipelineBindPointGraphics,
		ColorAttachmentCount:    1,
		PColorAttachments:       []vk.AttachmentReference{colorAttachmentRef},
		PDepthStencilAttachment: &depthAttachmentRef,
	}
	dependency := vk.SubpassDependency{
		SrcSubpass:      vk.SubpassExternal,
		DstSubpass:      0,
		SrcStageMask:    vk.PipelineStageFlags(vk.PipelineStageColorAttachmentOutputBit | vk.PipelineStageEarlyFragmentTestsBit),
		DstStageMask:    vk.PipelineStageFlags(vk.PipelineStageColorAttachmentOutputBit | vk.PipelineStageEarlyFragmentTestsBit),
		SrcAccessMask:   0,
		DstAccessMask:   vk.AccessFlags(vk.AccessColorAttachmentWriteBit | vk.AccessDepthStencilAttachmentWriteBit),
		DependencyFlags: 0,
	}
	renderPassInfo := vk.RenderPassCreateInfo{
		SType:           vk.StructureTypeRenderPassCreateInfo,
		PNext:           nil,
		Flags:           0,
		AttachmentCount: 2,
		PAttachments:    []vk.AttachmentDescription{colorAttachment, depthAttachment},
		SubpassCount:    1,
		PSubpasses:      []vk.SubpassDescription{subpass},
		DependencyCount: 1,
		PDependencies:   []vk.SubpassDependency{dependency},
	}
	var err error
	c.renderPass, err = com.VkCreateRenderPass(c.device.Device, &renderPassInfo, nil)
	if err != nil {
		zap.S().Fatalf("Failed to create render pass due to: %s", err)
	}
	zap.S().Infof("Successfully created render pass")
}

func (c *Core) createFrameBuffers() {
	c.swapChain.CreateFrameBuffers(c.device, c.renderPass, &c.depthImageView)
}

func (c *Core) createCommandStructures() {
	var err error
	c.commandPool, err = com.VKSCreateCommandPool(
		c.device.Device,
		vk.CommandPoolCreateFlags(vk.CommandPoolCreateResetCommandBufferBit),
		*c.device.QFamilies.GraphicsFamily,
	)
	if err != nil {
		zap.S().Fatalf("Failed to create command pool: %v", err)
	}
	buffers, err := com.VKSAllocateCommandBuffersPrimary(c.device.Device, c.commandPool, 1)
	if err != nil {
		zap.S().Fatalf("Failed to allocate frame command buffer: %v", err)
	}
	c.commandBuffer = buffers[0]

	// Dedicated pool for immediate submits so uploads never touch the frame buffer state
	c.uploadPool, err = com.VKSCreateCommandPool(c.device.Device, 0, *c.device.QFamilies.GraphicsFamily)
	if err != nil {
		zap.S().Fatalf("Failed to create upload command pool: %v", err)
	}
	uploadBuffers, err := com.VKSAllocateCommandBuffersPrimary(c.device.Device, c.uploadPool, 1)
	if err != nil {
		zap.S().Fatalf("Failed to allocate upload command buffer: %v", err)
	}
	c.uploadBuffer = uploadBuffers[0]
	zap.S().Infof("Successfully created command pools and buffers")
}

func (c *Core) createSyncStructures() {
	var err error
	// Signaled so the very first frame does not wait forever
	c.renderFence, err = com.VKSCreateFence(c.device.Device, true)
	if err != nil {
		zap.S().Fatalf("Failed to create render fence: %v", err)
	}
	c.uploadFence, err = com.VKSCreateFence(c.device.Device, false)
	if err != nil {
		zap.S().Fatalf("Failed to create upload fence: %v", err)
	}
	c.presentSem, err = com.VKSCreateSemaphore(c.device.Device)
	if err != nil {
		zap.S().Fatalf("Failed to create present semaphore: %v", err)
	}
	c.renderSem, err = com.VKSCreateSemaphore(c.device.Device)
	if err != nil {
		zap.S().Fatalf("Failed to create render semaphore: %v", err)
	}
	zap.S().Infof("Successfully created sync structures")
}
