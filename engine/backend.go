package engine

import (
	lin "github.com/xlab/linmath"

	"ECS_render_engine/ecs"
)

// RenderBackend is the surface the rendering systems drive each frame. The
// Vulkan renderer implements it; tests substitute a recorder.
//
// Failures inside a backend are unrecoverable by the caller, so the methods
// do not return errors; the Vulkan implementation aborts the process on
// device loss and swallows stale-swapchain results internally.
type RenderBackend interface {
	// BeginFrame blocks until the previous frame's work completes, acquires
	// the next swapchain image and opens the frame's command buffer and
	// render pass. While the window is minimized it blocks, polling events,
	// until the window is restored.
	BeginFrame()

	// EndFrame closes the render pass and command buffer, submits the frame
	// and presents the acquired image.
	EndFrame()

	// UploadMesh copies the mesh's CPU geometry into device-local buffers and
	// records the handles on the mesh.
	UploadMesh(m *ecs.Mesh)

	// BindMaterial binds the material's pipeline and refreshes the dynamic
	// viewport and scissor.
	BindMaterial(mat *ecs.Material)

	// DrawMesh pushes the material color and mvp matrix as push constants and
	// issues an indexed draw of the mesh.
	DrawMesh(m *ecs.Mesh, mat *ecs.Material, mvp lin.Mat4x4)

	// WaitRenderIdle blocks until the device finished all submitted work.
	WaitRenderIdle()

	// ReleaseMaterial destroys the pipeline the material points to and nils
	// the shared handle, so further release calls through copies are no-ops.
	ReleaseMaterial(mat *ecs.Material)

	// ToggleFullscreen switches the window between windowed and fullscreen.
	ToggleFullscreen()

	// Extent returns the current drawable size in pixels.
	Extent() (width, height uint32)
}

// InputDevice is the input layer as the engine consumes it: a per-tick event
// pump plus the query surface systems read from.
type InputDevice interface {
	ecs.InputSource

	// Pump drains the platform event queue and refreshes key and window
	// state. Called once per tick from the InputUpdate stage.
	Pump()

	// JustPressed reports whether the key went down during the last Pump.
	JustPressed(keycode int) bool
}
