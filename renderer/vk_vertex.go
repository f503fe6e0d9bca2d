package renderer

import (
	"unsafe"

	vk "github.com/goki/vulkan"

	"ECS_render_engine/ecs"
)

// Vertex layout descriptions for ecs.Vertex, derived from the struct layout itself so shader input and
// Go memory cannot drift apart.

func vertexBindingDescription() vk.VertexInputBindingDescription {
	return vk.VertexInputBindingDescription{
		Binding:   0,
		Stride:    uint32(unsafe.Sizeof(ecs.Vertex{})),
		InputRate: vk.VertexInputRateVertex,
	}
}

func vertexAttributeDescriptions() []vk.VertexInputAttributeDescription {
	return []vk.VertexInputAttributeDescription{
		{
			Binding:  0,
			Location: 0,
			Format:   vk.FormatR32g32b32Sfloat,
			Offset:   uint32(unsafe.Offsetof(ecs.Vertex{}.Pos)),
		},
		{
			Binding:  0,
			Location: 1,
			Format:   vk.FormatR32g32b32Sfloat,
			Offset:   uint32(unsafe.Offsetof(ecs.Vertex{}.Color)),
		},
	}
}
