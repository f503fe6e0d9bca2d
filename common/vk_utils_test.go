package common

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAllOfAinB(t *testing.T) {

	b := []string{"VK_KHR_surface", "VK_KHR_swapchain", "VK_EXT_debug_utils"}

	assert.True(t, AllOfAinB(nil, b))
	assert.True(t, AllOfAinB([]string{"VK_KHR_swapchain"}, b))
	assert.True(t, AllOfAinB([]string{"VK_KHR_surface", "VK_KHR_swapchain"}, b))
	assert.False(t, AllOfAinB([]string{"VK_KHR_maintenance1"}, b))
	assert.False(t, AllOfAinB([]string{"VK_KHR_surface"}, nil))
}

func TestTerminatedStr(t *testing.T) {

	assert.Equal(t, "main\x00", TerminatedStr("main"))
	assert.Equal(t, "main\x00", TerminatedStr("main\x00"), "already terminated strings stay untouched")
}

func TestRawBytes(t *testing.T) {

	type vec struct {
		X, Y, Z float32
	}

	b := RawBytes([]vec{{1, 0, 0}})
	assert.Len(t, b, 12)

	b = RawBytes(&vec{1, 2, 3})
	assert.Len(t, b, 12)

	b = RawBytes([]uint32{0, 1, 2})
	assert.Len(t, b, 12)
}

func TestAsUint32Arr(t *testing.T) {

	// SPIR-V magic number in little endian byte order.
	in := []byte{0x03, 0x02, 0x23, 0x07, 0x00, 0x00, 0x01, 0x00}
	out := AsUint32Arr(in)
	assert.Len(t, out, 2)
	assert.Equal(t, uint32(0x07230203), out[0])
	assert.Equal(t, uint32(0x00010000), out[1])
}
