package renderer

import (
	"path/filepath"
	"unsafe"

	vk "github.com/goki/vulkan"
	lin "github.com/xlab/linmath"
	"go.uber.org/zap"

	com "ECS_render_engine/common"
	"ECS_render_engine/ecs"
)

// meshPushConstants is the push constant block shared by all mesh pipelines: a tint color and the full
// model-view-projection matrix. Layout matches the vertex shader declaration.
type meshPushConstants struct {
	Color [4]float32
	MVP   lin.Mat4x4
}

func meshPushConstantsSize() uint32 {
	return uint32(unsafe.Sizeof(meshPushConstants{}))
}

// materialPipeline is one registry entry. ecs.Material components point into it, so destroying it nils
// the handles for every component copy at once.
type materialPipeline struct {
	pipeline vk.Pipeline
	layout   vk.PipelineLayout
}

func (mp *materialPipeline) destroy(device vk.Device) {
	if mp.pipeline != vk.NullPipeline {
		vk.DestroyPipeline(device, mp.pipeline, nil)
		mp.pipeline = vk.NullPipeline
	}
	if mp.layout != vk.NullPipelineLayout {
		vk.DestroyPipelineLayout(device, mp.layout, nil)
		mp.layout = vk.NullPipelineLayout
	}
}

// PipelineBuilder collects the fixed function state for one graphics pipeline. Zero value plus the
// Default* helpers covers the mesh pipelines; Build assembles and creates the pipeline with dynamic
// viewport and scissor.
type PipelineBuilder struct {
	ShaderStages         []vk.PipelineShaderStageCreateInfo
	VertexInput          vk.PipelineVertexInputStateCreateInfo
	InputAssembly        vk.PipelineInputAssemblyStateCreateInfo
	Rasterizer           vk.PipelineRasterizationStateCreateInfo
	Multisampling        vk.PipelineMultisampleStateCreateInfo
	ColorBlendAttachment vk.PipelineColorBlendAttachmentState
	DepthStencil         vk.PipelineDepthStencilStateCreateInfo
	Layout               vk.PipelineLayout
}

// NewMeshPipelineBuilder returns a builder preconfigured for triangle-list mesh drawing with depth
// testing and no blending.
func NewMeshPipelineBuilder(layout vk.PipelineLayout) *PipelineBuilder {
	bindingDesc := []vk.VertexInputBindingDescription{vertexBindingDescription()}
	attributeDesc := vertexAttributeDescriptions()
	return &PipelineBuilder{
		Layout: layout,
		VertexInput: vk.PipelineVertexInputStateCreateInfo{
			SType:                           vk.StructureTypePipelineVertexInputStateCreateInfo,
			VertexBindingDescriptionCount:   uint32(len(bindingDesc)),
			PVertexBindingDescriptions:      bindingDesc,
			VertexAttributeDescriptionCount: uint32(len(attributeDesc)),
			PVertexAttributeDescriptions:    attributeDesc,
		},
		InputAssembly: vk.PipelineInputAssemblyStateCreateInfo{
			SType:                  vk.StructureTypePipelineInputAssemblyStateCreateInfo,
			Topology:               vk.PrimitiveTopologyTriangleList,
			PrimitiveRestartEnable: vk.False,
		},
		Rasterizer: vk.PipelineRasterizationStateCreateInfo{
			SType:                   vk.StructureTypePipelineRasterizationStateCreateInfo,
			DepthClampEnable:        vk.False,
			RasterizerDiscardEnable: vk.False,
			PolygonMode:             vk.PolygonModeFill,
			CullMode:                vk.CullModeFlags(vk.CullModeNone),
			FrontFace:               vk.FrontFaceCounterClockwise,
			DepthBiasEnable:         vk.False,
			LineWidth:               1.0,
		},
		Multisampling: vk.PipelineMultisampleStateCreateInfo{
			SType:                vk.StructureTypePipelineMultisampleStateCreateInfo,
			RasterizationSamples: vk.SampleCount1Bit,
			SampleShadingEnable:  vk.False,
			MinSampleShading:     1.0,
		},
		ColorBlendAttachment: vk.PipelineColorBlendAttachmentState{
			BlendEnable:    vk.False,
			ColorWriteMask: vk.ColorComponentFlags(vk.ColorComponentRBit | vk.ColorComponentGBit | vk.ColorComponentBBit | vk.ColorComponentABit),
		},
		DepthStencil: vk.PipelineDepthStencilStateCreateInfo{
			SType:                 vk.StructureTypePipelineDepthStencilStateCreateInfo,
			DepthTestEnable:       vk.True,
			DepthWriteEnable:      vk.True,
			DepthCompareOp:        vk.CompareOpLessOrEqual,
			DepthBoundsTestEnable: vk.False,
			StencilTestEnable:     vk.False,
			MinDepthBounds:        0,
			MaxDepthBounds:        1,
		},
	}
}

// Build assembles the collected state into a graphics pipeline against the given render pass. Viewport
// and scissor are dynamic, so the pipeline survives swapchain rebuilds.
func (b *PipelineBuilder) Build(device vk.Device, renderPass vk.RenderPass) (vk.Pipeline, error) {
	dynamicStates := []vk.DynamicState{
		vk.DynamicStateViewport,
		vk.DynamicStateScissor,
	}
	dynamicStateCreateInfo := vk.PipelineDynamicStateCreateInfo{
		SType:             vk.StructureTypePipelineDynamicStateCreateInfo,
		DynamicStateCount: uint32(len(dynamicStates)),
		PDynamicStates:    dynamicStates,
	}
	viewportStateInfo := vk.PipelineViewportStateCreateInfo{
		SType:         vk.StructureTypePipelineViewportStateCreateInfo,
		ViewportCount: 1,
		PViewports:    nil,
		ScissorCount:  1,
		PScissors:     nil,
	}
	colorBlendingInfo := vk.PipelineColorBlendStateCreateInfo{
		SType:           vk.StructureTypePipelineColorBlendStateCreateInfo,
		LogicOpEnable:   vk.False,
		LogicOp:         vk.LogicOpCopy,
		AttachmentCount: 1,
		PAttachments:    []vk.PipelineColorBlendAttachmentState{b.ColorBlendAttachment},
		BlendConstants:  [4]float32{0, 0, 0, 0},
	}

	pipelineInfo := vk.GraphicsPipelineCreateInfo{
		SType:               vk.StructureTypeGraphicsPipelineCreateInfo,
		StageCount:          uint32(len(b.ShaderStages)),
		PStages:             b.ShaderStages,
		PVertexInputState:   &b.VertexInput,
		PInputAssemblyState: &b.InputAssembly,
		PViewportState:      &viewportStateInfo,
		PRasterizationState: &b.Rasterizer,
		PMultisampleState:   &b.Multisampling,
		PDepthStencilState:  &b.DepthStencil,
		PColorBlendState:    &colorBlendingInfo,
		PDynamicState:       &dynamicStateCreateInfo,
		Layout:              b.Layout,
		RenderPass:          renderPass,
		Subpass:             0,
		BasePipelineHandle:  vk.NullPipeline,
		BasePipelineIndex:   -1,
	}
	pipelines, err := com.VkCreateGraphicsPipelines(device, nil, 1, []vk.GraphicsPipelineCreateInfo{pipelineInfo}, nil)
	if err != nil {
		return vk.NullPipeline, err
	}
	return pipelines[0], nil
}

// initPipelines builds the built-in material pipelines. Both share the same vertex shader and push
// constant layout and differ only in their fragment shader.
func (c *Core) initPipelines() {
	for name, fragShader := range map[string]string{
		"mesh/solid":   "solid.frag.spv",
		"mesh/rainbow": "rainbow.frag.spv",
	} {
		c.materials[name] = c.buildMeshPipeline(fragShader)
		zap.S().Infof("Created material pipeline %q", name)
	}
}

func (c *Core) buildMeshPipeline(fragShader string) *materialPipeline {
	pushConstantRange := vk.PushConstantRange{
		StageFlags: vk.ShaderStageFlags(vk.ShaderStageVertexBit),
		Offset:     0,
		Size:       meshPushConstantsSize(),
	}
	layoutInfo := vk.PipelineLayoutCreateInfo{
		SType:                  vk.StructureTypePipelineLayoutCreateInfo,
		SetLayoutCount:         0,
		PSetLayouts:            nil,
		PushConstantRangeCount: 1,
		PPushConstantRanges:    []vk.PushConstantRange{pushConstantRange},
	}
	layout, err := com.VkCreatePipelineLayout(c.device.Device, &layoutInfo, nil)
	if err != nil {
		zap.S().Fatalf("Failed to create pipeline layout: %v", err)
	}

	vertMod, vertStageInfo := LoadVert(c.device.Device, filepath.Join(c.shaderDir, "mesh.vert.spv"))
	defer DeleteShaderMod(c.device.Device, vertMod)
	fragMod, fragStageInfo := LoadFrag(c.device.Device, filepath.Join(c.shaderDir, fragShader))
	defer DeleteShaderMod(c.device.Device, fragMod)

	builder := NewMeshPipelineBuilder(layout)
	builder.ShaderStages = []vk.PipelineShaderStageCreateInfo{vertStageInfo, fragStageInfo}
	pipeline, err := builder.Build(c.device.Device, c.renderPass)
	if err != nil {
		zap.S().Fatalf("Failed to create graphics pipeline: %v", err)
	}
	return &materialPipeline{pipeline: pipeline, layout: layout}
}

// Material returns a component referencing the named registry pipeline, tinted white. Unknown names are
// a setup bug.
func (c *Core) Material(name string) ecs.Material {
	mp, ok := c.materials[name]
	if !ok {
		zap.S().Panicf("Unknown material %q", name)
	}
	return ecs.Material{
		Name:     name,
		Pipeline: &mp.pipeline,
		Layout:   &mp.layout,
		Color:    [4]float32{1, 1, 1, 1},
	}
}

// ReleaseMaterial destroys the pipeline and layout the material points to and nils the shared handles.
// Materials copied across entities all reference the same registry entry, so a second release through
// any copy is a no-op.
func (c *Core) ReleaseMaterial(mat *ecs.Material) {
	if mat.Pipeline == nil {
		return
	}
	mp, ok := c.materials[mat.Name]
	if !ok {
		return
	}
	mp.destroy(c.device.Device)
}
