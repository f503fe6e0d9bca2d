package ecs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	lin "github.com/xlab/linmath"
)

func TestAbsolutePositionSubtractsAncestors(t *testing.T) {

	w := NewWorld()
	parent := w.Spawn("parent")
	child := w.Spawn("child")
	w.SetTransform(parent, NewTransform(lin.Vec3{1, 2, 3}))
	w.SetTransform(child, NewTransform(lin.Vec3{10, 10, 10}))
	w.SetParent(child, parent)

	tr, _ := w.Transform(child)
	abs := tr.AbsolutePosition(w)
	assert.Equal(t, lin.Vec3{9, 8, 7}, abs)
}

func TestAbsolutePositionWalksWholeChain(t *testing.T) {

	w := NewWorld()
	root := w.Spawn("root")
	mid := w.Spawn("mid")
	leaf := w.Spawn("leaf")
	w.SetTransform(root, NewTransform(lin.Vec3{1, 0, 0}))
	w.SetTransform(mid, NewTransform(lin.Vec3{0, 2, 0}))
	w.SetTransform(leaf, NewTransform(lin.Vec3{5, 5, 5}))
	w.SetParent(mid, root)
	w.SetParent(leaf, mid)

	tr, _ := w.Transform(leaf)
	abs := tr.AbsolutePosition(w)
	assert.Equal(t, lin.Vec3{4, 3, 5}, abs)
}

func TestAbsolutePositionWithoutOwnerPanics(t *testing.T) {

	tr := Transform{Position: lin.Vec3{1, 1, 1}}
	assert.Panics(t, func() { tr.AbsolutePosition(NewWorld()) })
}

func TestModelMatrixTranslationOnly(t *testing.T) {

	w := NewWorld()
	id := w.Spawn("e")
	w.SetTransform(id, NewTransform(lin.Vec3{3, -2, 7}))

	tr, _ := w.Transform(id)
	m := tr.ModelMatrix(w, true)

	assert.InDelta(t, 3, float64(m[3][0]), 1e-6)
	assert.InDelta(t, -2, float64(m[3][1]), 1e-6)
	assert.InDelta(t, 7, float64(m[3][2]), 1e-6)
	assert.InDelta(t, 1, float64(m[0][0]), 1e-6)
	assert.InDelta(t, 1, float64(m[1][1]), 1e-6)
	assert.InDelta(t, 1, float64(m[2][2]), 1e-6)
}

func TestModelMatrixAppliesScale(t *testing.T) {

	w := NewWorld()
	id := w.Spawn("e")
	tr := NewTransform(lin.Vec3{})
	tr.Scale = lin.Vec3{2, 3, 4}
	w.SetTransform(id, tr)

	stored, _ := w.Transform(id)
	m := stored.ModelMatrix(w, true)
	assert.InDelta(t, 2, float64(m[0][0]), 1e-6)
	assert.InDelta(t, 3, float64(m[1][1]), 1e-6)
	assert.InDelta(t, 4, float64(m[2][2]), 1e-6)

	// Cameras ignore scale for their view matrix.
	view := stored.ModelMatrix(w, false)
	assert.InDelta(t, 1, float64(view[0][0]), 1e-6)
	assert.InDelta(t, 1, float64(view[1][1]), 1e-6)
	assert.InDelta(t, 1, float64(view[2][2]), 1e-6)
}

func TestPerspectiveProjectionFlipsY(t *testing.T) {

	cam := Camera{
		Kind: CameraPerspective,
		Perspective: PerspectiveParams{
			AspectRatio: 16.0 / 9.0,
			VerticalFOV: 70,
			Near:        0.1,
			Far:         200,
		},
	}
	proj := cam.Projection()
	assert.Less(t, float64(proj[1][1]), 0.0)
	assert.Greater(t, float64(proj[0][0]), 0.0)
}

func TestOrthoProjectionScalesExtents(t *testing.T) {

	cam := Camera{
		Kind: CameraOrtho,
		Ortho: OrthoParams{
			Width:  2000,
			Height: 2000,
			Near:   0.1,
			Far:    200,
		},
	}
	// Half extents come out as 1.0 world unit after the 0.001 screen scale.
	proj := cam.Projection()
	assert.InDelta(t, 1, float64(proj[0][0]), 1e-6)
	assert.InDelta(t, -1, float64(proj[1][1]), 1e-6)
}

func TestProjectionPanicsOnUnknownKind(t *testing.T) {

	cam := Camera{Kind: CameraKind(7)}
	assert.Panics(t, func() { cam.Projection() })
}

func TestRenderMatrixRequiresCameraComponents(t *testing.T) {

	w := NewWorld()
	obj := w.Spawn("obj")
	w.SetTransform(obj, NewTransform(lin.Vec3{}))

	camEntity := w.Spawn("cam")

	tr, _ := w.Transform(obj)
	assert.Panics(t, func() { tr.RenderMatrix(w, camEntity) }, "camera without transform")

	w.SetTransform(camEntity, NewTransform(lin.Vec3{0, 0, -5}))
	assert.Panics(t, func() { tr.RenderMatrix(w, camEntity) }, "camera without camera component")

	w.SetCamera(camEntity, Camera{
		Kind:        CameraPerspective,
		Perspective: PerspectiveParams{AspectRatio: 1, VerticalFOV: 70, Near: 0.1, Far: 100},
	})
	assert.NotPanics(t, func() { tr.RenderMatrix(w, camEntity) })
}
