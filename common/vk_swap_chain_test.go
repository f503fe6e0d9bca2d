package common

import (
	"testing"

	vk "github.com/goki/vulkan"
	"github.com/stretchr/testify/assert"
)

func TestSelectSwapSurfaceFormat(t *testing.T) {

	details := SwapChainDetails{
		formats: []vk.SurfaceFormat{
			{Format: vk.FormatR8g8b8a8Unorm, ColorSpace: vk.ColorSpaceSrgbNonlinear},
			{Format: vk.FormatB8g8r8a8Srgb, ColorSpace: vk.ColorSpaceSrgbNonlinear},
		},
	}

	chosen := details.selectSwapSurfaceFormat(vk.FormatB8g8r8a8Srgb, vk.ColorSpaceSrgbNonlinear)
	assert.Equal(t, vk.FormatB8g8r8a8Srgb, chosen.Format)

	// Preferred format missing: the first advertised one wins.
	chosen = details.selectSwapSurfaceFormat(vk.FormatR32g32b32Sfloat, vk.ColorSpaceSrgbNonlinear)
	assert.Equal(t, vk.FormatR8g8b8a8Unorm, chosen.Format)
}

func TestSelectSwapPresentMode(t *testing.T) {

	details := SwapChainDetails{
		presentModes: []vk.PresentMode{vk.PresentModeImmediate, vk.PresentModeFifo},
	}
	assert.Equal(t, vk.PresentModeFifo, details.selectSwapPresentMode(vk.PresentModeFifo))
	assert.Equal(t, vk.PresentModeImmediate, details.selectSwapPresentMode(vk.PresentModeImmediate))

	// Mailbox not advertised: FIFO is the guaranteed fallback.
	assert.Equal(t, vk.PresentModeFifo, details.selectSwapPresentMode(vk.PresentModeMailbox))
}

func TestSelectSwapExtent(t *testing.T) {

	details := SwapChainDetails{}
	details.capabilities.CurrentExtent = vk.Extent2D{Width: 1280, Height: 720}

	// A defined surface extent is taken as-is, no window query needed.
	assert.Equal(t, vk.Extent2D{Width: 1280, Height: 720}, details.selectSwapExtent(nil))
}

func TestClampExtent(t *testing.T) {

	assert.Equal(t, uint32(640), clampExtent(100, 640, 3840))
	assert.Equal(t, uint32(3840), clampExtent(7680, 640, 3840))
	assert.Equal(t, uint32(1920), clampExtent(1920, 640, 3840))
}

func TestSelectImageCount(t *testing.T) {

	unbounded := SwapChainDetails{}
	unbounded.capabilities.MinImageCount = 2
	unbounded.capabilities.MaxImageCount = 0
	assert.Equal(t, uint32(3), unbounded.selectImageCount(), "min+1 when there is no maximum")

	clamped := SwapChainDetails{}
	clamped.capabilities.MinImageCount = 3
	clamped.capabilities.MaxImageCount = 3
	assert.Equal(t, uint32(3), clamped.selectImageCount(), "clamped to the surface maximum")
}
