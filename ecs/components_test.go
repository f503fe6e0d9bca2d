package ecs

import (
	"testing"
	"unsafe"

	vk "github.com/goki/vulkan"
	"github.com/stretchr/testify/assert"
)

func TestMaterialBound(t *testing.T) {

	pipeline := vk.Pipeline(unsafe.Pointer(new(byte)))
	layout := vk.PipelineLayout(unsafe.Pointer(new(byte)))

	live := Material{Name: "mesh/solid", Pipeline: &pipeline, Layout: &layout}
	assert.True(t, live.Bound())

	blank := Material{Name: "mesh/solid"}
	assert.False(t, blank.Bound())

	// A pipeline without a layout cannot receive push constants; drawing it would
	// dereference a nil layout handle.
	pipelineOnly := Material{Name: "mesh/solid", Pipeline: &pipeline}
	assert.False(t, pipelineOnly.Bound())

	layoutOnly := Material{Name: "mesh/solid", Layout: &layout}
	assert.False(t, layoutOnly.Bound())

	// Released materials have their shared handles nilled in place, so every copy
	// goes stale together.
	nullPipeline := vk.NullPipeline
	nullLayout := vk.NullPipelineLayout
	stale := Material{Name: "mesh/solid", Pipeline: &nullPipeline, Layout: &nullLayout}
	assert.False(t, stale.Bound())
}
