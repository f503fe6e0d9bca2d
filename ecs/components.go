package ecs

import (
	vk "github.com/goki/vulkan"
	lin "github.com/xlab/linmath"
	"go.uber.org/zap"
)

// Vertex is the CPU-side vertex layout shared by every mesh pipeline.
type Vertex struct {
	Pos   lin.Vec3
	Color lin.Vec3
}

// MeshState tags whether a mesh's vertex data has been uploaded to the GPU.
type MeshState int

const (
	MeshUnloaded MeshState = iota
	MeshUploaded
)

// Mesh holds CPU geometry plus the GPU buffer handles filled in on upload.
// A mesh is uploaded lazily by the draw system, at most once; after that the
// CPU slices are kept only as the source of truth for re-creation.
type Mesh struct {
	Vertices []Vertex
	Indices  []uint32

	State MeshState

	VertexBuffer vk.Buffer
	VertexMemory vk.DeviceMemory
	IndexBuffer  vk.Buffer
	IndexMemory  vk.DeviceMemory
}

// Empty reports whether the mesh has no geometry to draw.
func (m *Mesh) Empty() bool {
	return len(m.Vertices) == 0
}

// EquilateralTriangle builds a unit-ish triangle mesh centered on the origin.
func EquilateralTriangle(sideLength float32) Mesh {
	h := sideLength * 0.8660254 // sqrt(3)/2
	return Mesh{
		Vertices: []Vertex{
			{Pos: lin.Vec3{0, h * 0.5, 0}, Color: lin.Vec3{1, 0, 0}},
			{Pos: lin.Vec3{sideLength * 0.5, -h * 0.5, 0}, Color: lin.Vec3{0, 1, 0}},
			{Pos: lin.Vec3{-sideLength * 0.5, -h * 0.5, 0}, Color: lin.Vec3{0, 0, 1}},
		},
		Indices: []uint32{0, 1, 2},
	}
}

// Square builds a unit square mesh in the XY plane.
func Square(sideLength float32) Mesh {
	s := sideLength * 0.5
	return Mesh{
		Vertices: []Vertex{
			{Pos: lin.Vec3{-s, s, 0}, Color: lin.Vec3{1, 0, 0}},
			{Pos: lin.Vec3{s, s, 0}, Color: lin.Vec3{0, 1, 0}},
			{Pos: lin.Vec3{s, -s, 0}, Color: lin.Vec3{0, 0, 1}},
			{Pos: lin.Vec3{-s, -s, 0}, Color: lin.Vec3{1, 1, 1}},
		},
		Indices: []uint32{0, 1, 2, 2, 3, 0},
	}
}

// Material references a pipeline from the renderer's registry. The pipeline
// and layout pointers are shared and non-owning; many entities may carry
// copies of the same material, and the renderer nils the pointed-to handles
// once on release so stale copies stay harmless.
type Material struct {
	Name     string
	Pipeline *vk.Pipeline
	Layout   *vk.PipelineLayout
	Color    [4]float32
}

// Bound reports whether the material references a live pipeline and layout.
// Drawing needs both, so a material missing either is not bindable.
func (m *Material) Bound() bool {
	return m.Pipeline != nil && *m.Pipeline != vk.NullPipeline &&
		m.Layout != nil && *m.Layout != vk.NullPipelineLayout
}

// CameraKind discriminates the camera projection variant.
type CameraKind int

const (
	CameraPerspective CameraKind = iota
	CameraOrtho
)

// PerspectiveParams are the perspective projection parameters. VerticalFOV is
// in degrees.
type PerspectiveParams struct {
	AspectRatio float32
	VerticalFOV float32
	Near        float32
	Far         float32
}

// OrthoParams are the orthographic projection parameters. Width and Height
// are the full view extents in screen units; the projection scales them down
// to world units.
type OrthoParams struct {
	Width  float32
	Height float32
	Near   float32
	Far    float32
}

// Camera is a tagged union over the projection variants. Exactly the fields
// of the active Kind are meaningful.
type Camera struct {
	Kind        CameraKind
	Perspective PerspectiveParams
	Ortho       OrthoParams
}

// Projection returns the projection matrix for the active variant.
func (c *Camera) Projection() lin.Mat4x4 {
	var proj lin.Mat4x4
	switch c.Kind {
	case CameraPerspective:
		p := c.Perspective
		proj.Perspective(radians(p.VerticalFOV), p.AspectRatio, p.Near, p.Far)
	case CameraOrtho:
		o := c.Ortho
		halfW := o.Width * 0.5 * 0.001
		halfH := o.Height * 0.5 * 0.001
		proj.Ortho(-halfW, halfW, -halfH, halfH, o.Near, o.Far)
	default:
		zap.S().Panicf("camera has unknown projection kind %d", c.Kind)
	}
	// Vulkan clip space has Y pointing down.
	proj[1][1] *= -1
	return proj
}
