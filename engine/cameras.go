package engine

import (
	lin "github.com/xlab/linmath"

	"ECS_render_engine/ecs"
)

// CreatePerspectiveCamera spawns a camera entity at pos. Zero-valued params
// fields fall back to the engine defaults (16:9 aspect, 70 degree vertical
// FOV, near 0.1, far 200). The first camera created becomes the main camera.
func CreatePerspectiveCamera(w *ecs.World, pos lin.Vec3, params ecs.PerspectiveParams) ecs.EntityID {
	if params.AspectRatio == 0 {
		params.AspectRatio = 16.0 / 9.0
	}
	if params.VerticalFOV == 0 {
		params.VerticalFOV = 70
	}
	if params.Near == 0 {
		params.Near = 0.1
	}
	if params.Far == 0 {
		params.Far = 200
	}

	id := w.Spawn("PerspectiveCamera")
	w.SetTransform(id, ecs.NewTransform(pos))
	w.SetCamera(id, ecs.Camera{Kind: ecs.CameraPerspective, Perspective: params})
	if w.MainCamera() == ecs.NullEntity {
		w.SetMainCamera(id)
	}
	return id
}

// CreateOrthoCamera spawns an orthographic camera entity at pos covering the
// given view extents. The first camera created becomes the main camera.
func CreateOrthoCamera(w *ecs.World, pos lin.Vec3, params ecs.OrthoParams) ecs.EntityID {
	if params.Near == 0 {
		params.Near = 0.1
	}
	if params.Far == 0 {
		params.Far = 200
	}

	id := w.Spawn("OrthoCamera")
	w.SetTransform(id, ecs.NewTransform(pos))
	w.SetCamera(id, ecs.Camera{Kind: ecs.CameraOrtho, Ortho: params})
	if w.MainCamera() == ecs.NullEntity {
		w.SetMainCamera(id)
	}
	return id
}
