package common

import (
	"math"

	vk "github.com/goki/vulkan"
	"go.uber.org/zap"
)

// SwapChain wraps the vk.Swapchain handle together with the images, views and framebuffers derived from
// it. Present mode is FIFO (vsync); the image count is decided once at creation and passed back in when a
// replacement chain is created so it stays stable across rebuilds.
type SwapChain struct {
	supDetails SwapChainDetails
	Handle     vk.Swapchain

	Format      vk.SurfaceFormat
	PresentMode vk.PresentMode
	Extent      vk.Extent2D

	ImageCount uint32
	Images     []vk.Image
	ImgViews   []vk.ImageView
	Aspect     float32

	FrameBuffers []vk.Framebuffer
}

// NewSwapChain creates a swap chain for the window surface. imageCount 0 lets the surface capabilities
// decide; a non-zero value pins the count, which rebuilds use to keep it fixed.
func NewSwapChain(dc *Device, w *Window, imageCount uint32) *SwapChain {
	sc := &SwapChain{}
	sc.chooseConfiguration(dc, w)
	if imageCount != 0 {
		sc.ImageCount = imageCount
	}
	sc.createSwapChainHandle(dc, w)
	sc.readImages(dc)
	sc.createImageViews(dc)

	// Precalculate the images' aspect ratio for later
	sc.Aspect = float32(sc.Extent.Width) / float32(sc.Extent.Height)

	return sc
}

func (sc *SwapChain) CreateFrameBuffers(dc *Device, renderPass vk.RenderPass, depthImageView *vk.ImageView) {
	sc.FrameBuffers = make([]vk.Framebuffer, len(sc.ImgViews))
	for i := range sc.ImgViews {
		attachments := []vk.ImageView{sc.ImgViews[i]}
		if depthImageView != nil {
			attachments = append(attachments, *depthImageView)
		}
		framebufferInfo := vk.FramebufferCreateInfo{
			SType:           vk.StructureTypeFramebufferCreateInfo,
			PNext:           nil,
			Flags:           0,
			RenderPass:      renderPass,
			AttachmentCount: uint32(len(attachments)),
			PAttachments:    attachments,
			Width:           sc.Extent.Width,
			Height:          sc.Extent.Height,
			Layers:          1,
		}
		fb, err := VkCreateFrameBuffer(dc.Device, &framebufferInfo, nil)
		if err != nil {
			zap.S().Fatalf("Failed to create frame buffer [%d]: %v", i, err)
		}
		sc.FrameBuffers[i] = fb
	}
	zap.S().Infof("Successfully created %d frame buffers", len(sc.FrameBuffers))
}

func (sc *SwapChain) chooseConfiguration(dc *Device, w *Window) {
	sc.supDetails = ReadSwapChainSupportDetails(dc.PhysicalDevice, *w.Surf)
	sc.Format = sc.supDetails.selectSwapSurfaceFormat(vk.FormatB8g8r8a8Srgb, vk.ColorSpaceSrgbNonlinear)
	sc.PresentMode = sc.supDetails.selectSwapPresentMode(vk.PresentModeFifo)
	sc.Extent = sc.supDetails.selectSwapExtent(w)
	sc.ImageCount = sc.supDetails.selectImageCount()
}

func (sc *SwapChain) createSwapChainHandle(dc *Device, w *Window) {
	// Depending on whether our queue families are the same for graphics and presentation, we need to
	// choose different swap chain configurations:
	// https://vulkan-tutorial.com/Drawing_a_triangle/Presentation/Swap_chain
	indices := dc.QFamilies
	var sharingMode vk.SharingMode
	var indexCount uint32
	qFamIndices := []uint32{*indices.GraphicsFamily, *indices.PresentFamily}
	if !indices.SameFamily() {
		sharingMode = vk.SharingModeConcurrent
		indexCount = 2
	} else {
		sharingMode = vk.SharingModeExclusive
		indexCount = 0
		qFamIndices = nil
	}

	createInfo := &vk.SwapchainCreateInfo{
		SType:                 vk.StructureTypeSwapchainCreateInfo,
		PNext:                 nil,
		Flags:                 0,
		Surface:               *w.Surf,
		MinImageCount:         sc.ImageCount,
		ImageFormat:           sc.Format.Format,
		ImageColorSpace:       sc.Format.ColorSpace,
		ImageExtent:           sc.Extent,
		ImageArrayLayers:      1,
		ImageUsage:            vk.ImageUsageFlags(vk.ImageUsageColorAttachmentBit),
		ImageSharingMode:      sharingMode,
		QueueFamilyIndexCount: indexCount,
		PQueueFamilyIndices:   qFamIndices,
		PreTransform:          sc.supDetails.capabilities.CurrentTransform,
		CompositeAlpha:        vk.CompositeAlphaOpaqueBit,
		PresentMode:           sc.PresentMode,
		Clipped:               vk.True,
		OldSwapchain:          nil,
	}

	var err error
	sc.Handle, err = VkCreateSwapChain(dc.Device, createInfo, nil)
	if err != nil {
		zap.S().Fatalf("Failed to create swapchain due to: %s", err)
	}
	zap.S().Infof("Successfully created swap chain (%d images, present mode %d)", sc.ImageCount, sc.PresentMode)
}

func (sc *SwapChain) readImages(dc *Device) {
	sc.Images = ReadSwapChainImages(dc.Device, sc.Handle)
}

func (sc *SwapChain) createImageViews(dc *Device) {
	sc.ImgViews = make([]vk.ImageView, len(sc.Images))
	for i := range sc.Images {
		sc.ImgViews[i] = CreateImageView(dc, sc.Images[i], sc.Format.Format, vk.ImageAspectFlags(vk.ImageAspectColorBit))
	}
	zap.S().Infof("Successfully created %d image views", len(sc.ImgViews))
}

// Destroy tears down framebuffers, image views and the swapchain handle, in that order.
func (sc *SwapChain) Destroy(dc *Device) {
	for i := range sc.FrameBuffers {
		vk.DestroyFramebuffer(dc.Device, sc.FrameBuffers[i], nil)
	}
	for i := range sc.ImgViews {
		vk.DestroyImageView(dc.Device, sc.ImgViews[i], nil)
	}
	vk.DestroySwapchain(dc.Device, sc.Handle, nil)
}

type SwapChainDetails struct {
	capabilities vk.SurfaceCapabilities
	formats      []vk.SurfaceFormat
	presentModes []vk.PresentMode
}

func (s *SwapChainDetails) selectSwapSurfaceFormat(desiredFormat vk.Format, desiredColorSpace vk.ColorSpace) vk.SurfaceFormat {
	for _, af := range s.formats {
		if af.Format == desiredFormat && af.ColorSpace == desiredColorSpace {
			return af
		}
	}
	fallbackFormat := s.formats[0]
	zap.S().Infof("Did not find preferred SurfaceFormat, selecting first one available. (%v)", fallbackFormat)
	return fallbackFormat
}

func (s *SwapChainDetails) selectSwapPresentMode(desiredMode vk.PresentMode) vk.PresentMode {
	for _, pm := range s.presentModes {
		if pm == desiredMode {
			return pm
		}
	}
	// FIFO is the only mode the spec guarantees
	fallbackMode := vk.PresentModeFifo
	zap.S().Infof("Did not find preferred PresentMode, selecting FIFO. (%v)", fallbackMode)
	return fallbackMode
}

// selectSwapExtent returns the surface's current extent. Window managers that leave the extent undefined
// (both dimensions at the uint32 maximum) let the swapchain decide, in which case the window's drawable
// size is used, clamped to the supported range.
func (s *SwapChainDetails) selectSwapExtent(w *Window) vk.Extent2D {
	s.capabilities.CurrentExtent.Deref()
	if s.capabilities.CurrentExtent.Width != math.MaxUint32 {
		return s.capabilities.CurrentExtent
	}
	s.capabilities.MinImageExtent.Deref()
	s.capabilities.MaxImageExtent.Deref()
	width, height := w.DrawableSize()
	return vk.Extent2D{
		Width:  clampExtent(width, s.capabilities.MinImageExtent.Width, s.capabilities.MaxImageExtent.Width),
		Height: clampExtent(height, s.capabilities.MinImageExtent.Height, s.capabilities.MaxImageExtent.Height),
	}
}

func clampExtent(v, lo, hi uint32) uint32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// selectImageCount requests one image more than the surface minimum, clamped to the surface maximum
// (0 meaning no maximum).
func (s *SwapChainDetails) selectImageCount() uint32 {
	imgCount := s.capabilities.MinImageCount + 1
	if s.capabilities.MaxImageCount > 0 && imgCount > s.capabilities.MaxImageCount {
		imgCount = s.capabilities.MaxImageCount
	}
	return imgCount
}

func checkSwapChainAdequacy(pd vk.PhysicalDevice, surface vk.Surface) bool {
	scDetails := ReadSwapChainSupportDetails(pd, surface)
	return len(scDetails.formats) > 0 && len(scDetails.presentModes) > 0
}

// CreateImageView creates a full-size 2D image view with identity swizzles.
func CreateImageView(dc *Device, image vk.Image, format vk.Format, aspectFlags vk.ImageAspectFlags) vk.ImageView {
	createInfo := &vk.ImageViewCreateInfo{
		SType:    vk.StructureTypeImageViewCreateInfo,
		PNext:    nil,
		Flags:    0,
		Image:    image,
		ViewType: vk.ImageViewType2d,
		Format:   format,
		Components: vk.ComponentMapping{
			R: vk.ComponentSwizzleIdentity,
			G: vk.ComponentSwizzleIdentity,
			B: vk.ComponentSwizzleIdentity,
			A: vk.ComponentSwizzleIdentity,
		},
		SubresourceRange: vk.ImageSubresourceRange{
			AspectMask:     aspectFlags,
			BaseMipLevel:   0,
			LevelCount:     1,
			BaseArrayLayer: 0,
			LayerCount:     1,
		},
	}
	imgView, err := VkCreateImageView(dc.Device, createInfo, nil)
	if err != nil {
		zap.S().Fatalf("Failed to create image view due to: %s", err)
	}
	return imgView
}
