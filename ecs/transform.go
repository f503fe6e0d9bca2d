package ecs

import (
	"math"

	lin "github.com/xlab/linmath"
	"go.uber.org/zap"
)

func radians(deg float32) float32 {
	return deg * math.Pi / 180
}

// Transform places an entity in the world. Rotation is Euler angles in
// degrees, applied X then Y then Z. Entity is the owning handle, used to walk
// the parent chain.
type Transform struct {
	Entity   EntityID
	Position lin.Vec3
	Rotation lin.Vec3
	Scale    lin.Vec3
}

// NewTransform returns a transform at the given position with no rotation and
// unit scale.
func NewTransform(pos lin.Vec3) Transform {
	return Transform{Position: pos, Scale: lin.Vec3{1, 1, 1}}
}

// parentTransform resolves the transform of the owning entity's parent, if
// both the parent link and its transform exist.
func (t *Transform) parentTransform(w *World) (*Transform, bool) {
	if t.Entity == NullEntity {
		return nil, false
	}
	parent := w.Parent(t.Entity)
	if parent == NullEntity {
		return nil, false
	}
	return w.Transform(parent)
}

// AbsolutePosition walks the parent chain accumulating positions. Note the
// accumulation subtracts each ancestor's position rather than adding it,
// matching long-standing engine behavior that scene setups compensate for.
func (t *Transform) AbsolutePosition(w *World) lin.Vec3 {
	if t.Entity == NullEntity {
		zap.S().Panicf("transform has no owning entity; it was not added through World.SetTransform")
	}
	abs := t.Position
	cur := t
	for {
		parent, ok := cur.parentTransform(w)
		if !ok {
			return abs
		}
		abs[0] -= parent.Position[0]
		abs[1] -= parent.Position[1]
		abs[2] -= parent.Position[2]
		cur = parent
	}
}

// ModelMatrix starts from scale, post-multiplies the X, Y and Z rotations in
// that order, then applies the absolute world translation. Cameras pass
// useScale=false so view matrices ignore scale.
func (t *Transform) ModelMatrix(w *World, useScale bool) lin.Mat4x4 {
	var model lin.Mat4x4
	model.Identity()
	if useScale {
		var scaled lin.Mat4x4
		scaled.ScaleAniso(&model, t.Scale[0], t.Scale[1], t.Scale[2])
		model = scaled
	}

	var rotated lin.Mat4x4
	rotated.RotateX(&model, radians(t.Rotation[0]))
	model = rotated
	rotated.RotateY(&model, radians(t.Rotation[1]))
	model = rotated
	rotated.RotateZ(&model, radians(t.Rotation[2]))
	model = rotated

	abs := t.AbsolutePosition(w)
	var translation lin.Mat4x4
	translation.Translate(abs[0], abs[1], abs[2])

	var out lin.Mat4x4
	out.Mult(&translation, &model)
	return out
}

// RenderMatrix computes projection * view * model for this transform as seen
// by the given camera entity. The camera entity must carry both a Transform
// and a Camera component.
func (t *Transform) RenderMatrix(w *World, cameraEntity EntityID) lin.Mat4x4 {
	camTransform, ok := w.Transform(cameraEntity)
	if !ok {
		zap.S().Panicf("camera entity %d has no transform", cameraEntity)
	}
	cam, ok := w.Camera(cameraEntity)
	if !ok {
		zap.S().Panicf("camera entity %d has no camera component", cameraEntity)
	}

	model := t.ModelMatrix(w, true)
	view := camTransform.ModelMatrix(w, false)
	proj := cam.Projection()

	var pv, mvp lin.Mat4x4
	pv.Mult(&proj, &view)
	mvp.Mult(&pv, &model)
	return mvp
}
