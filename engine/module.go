package engine

import (
	vk "github.com/goki/vulkan"

	"ECS_render_engine/ecs"
)

// RenderModule owns the rendering systems and the state they share across
// stages: the frame counter and the pipeline bound by the current frame.
type RenderModule struct {
	backend RenderBackend
	input   InputDevice

	// FullscreenKey is the keycode that toggles fullscreen during the Update
	// stage. Zero disables the binding.
	FullscreenKey int

	frameNumber   uint64
	boundPipeline *vk.Pipeline
	bindCount     uint64
}

func NewRenderModule(backend RenderBackend, input InputDevice) *RenderModule {
	return &RenderModule{backend: backend, input: input}
}

// Register attaches the module's systems to their stages.
func (m *RenderModule) Register(s *ecs.Scheduler) {
	s.Register(ecs.StageInputUpdate, "PumpInput", ecs.SystemFunc(m.pumpInput))
	s.Register(ecs.StageUpdate, "WindowHotkeys", ecs.SystemFunc(m.windowHotkeys))
	s.Register(ecs.StagePreDraw, "BeginFrame", ecs.SystemFunc(m.beginFrame))
	s.Register(ecs.StageDraw, "DrawRenderables", ecs.SystemFunc(m.drawRenderables))
	s.Register(ecs.StagePostDraw, "EndFrame", ecs.SystemFunc(m.endFrame))
	s.Register(ecs.StageHousekeeping, "QuitCheck", ecs.SystemFunc(m.quitCheck))
	s.Register(ecs.StageFinalCleanup, "ReleaseMaterials", ecs.SystemFunc(m.releaseMaterials))
}

// FrameNumber returns the count of completed frames.
func (m *RenderModule) FrameNumber() uint64 { return m.frameNumber }

// PipelineBinds returns how many pipeline bind calls were issued so far.
func (m *RenderModule) PipelineBinds() uint64 { return m.bindCount }

func (m *RenderModule) pumpInput(ctx *ecs.Context) {
	m.input.Pump()
}

func (m *RenderModule) windowHotkeys(ctx *ecs.Context) {
	if m.FullscreenKey != 0 && m.input.JustPressed(m.FullscreenKey) {
		m.backend.ToggleFullscreen()
	}
}

func (m *RenderModule) beginFrame(ctx *ecs.Context) {
	m.backend.BeginFrame()
	m.boundPipeline = nil
}

// drawRenderables walks every mesh-bearing entity. Entities with no vertices
// or no usable material are skipped without logging; meshes are uploaded on
// first sight; the pipeline is rebound only when it differs from the one
// already bound this frame.
func (m *RenderModule) drawRenderables(ctx *ecs.Context) {
	camera := ctx.MainCamera()
	ctx.World.EachRenderable(func(id ecs.EntityID, t *ecs.Transform, mesh *ecs.Mesh, mat *ecs.Material) {
		if mesh.Empty() || t == nil || mat == nil || !mat.Bound() {
			return
		}
		if mesh.State == ecs.MeshUnloaded {
			m.backend.UploadMesh(mesh)
			mesh.State = ecs.MeshUploaded
		}
		if mat.Pipeline != m.boundPipeline {
			m.backend.BindMaterial(mat)
			m.boundPipeline = mat.Pipeline
			m.bindCount++
		}
		mvp := t.RenderMatrix(ctx.World, camera)
		m.backend.DrawMesh(mesh, mat, mvp)
	})
}

func (m *RenderModule) endFrame(ctx *ecs.Context) {
	m.backend.EndFrame()
	m.frameNumber++
}

func (m *RenderModule) quitCheck(ctx *ecs.Context) {
	if !ctx.Input.QuitRequested() {
		return
	}
	ctx.Scheduler.RequestFinalCleanup()
	m.backend.WaitRenderIdle()
}

func (m *RenderModule) releaseMaterials(ctx *ecs.Context) {
	ctx.World.EachMaterial(func(id ecs.EntityID, mat *ecs.Material) {
		m.backend.ReleaseMaterial(mat)
	})
}
