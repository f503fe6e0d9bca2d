package ecs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	lin "github.com/xlab/linmath"
)

func TestSpawnAssignsSequentialHandles(t *testing.T) {

	w := NewWorld()

	a := w.Spawn("a")
	b := w.Spawn("b")

	assert.Equal(t, EntityID(1), a)
	assert.Equal(t, EntityID(2), b)
	assert.True(t, w.Alive(a))
	assert.True(t, w.Alive(b))
	assert.Equal(t, "a", w.Name(a))
	assert.Equal(t, "b", w.Name(b))

	assert.False(t, w.Alive(NullEntity))
	assert.False(t, w.Alive(EntityID(99)))
}

func TestDespawnRemovesComponents(t *testing.T) {

	w := NewWorld()
	id := w.Spawn("doomed")
	w.SetTransform(id, NewTransform(lin.Vec3{1, 2, 3}))
	w.SetMesh(id, Square(1))
	w.SetMaterial(id, Material{Name: "m"})
	w.SetCamera(id, Camera{Kind: CameraPerspective})
	w.SetMainCamera(id)

	w.Despawn(id)

	assert.False(t, w.Alive(id))
	assert.Equal(t, "", w.Name(id))
	_, ok := w.Transform(id)
	assert.False(t, ok)
	_, ok = w.Mesh(id)
	assert.False(t, ok)
	_, ok = w.Material(id)
	assert.False(t, ok)
	_, ok = w.Camera(id)
	assert.False(t, ok)
	assert.Equal(t, NullEntity, w.MainCamera(), "despawning the main camera clears the designation")

	// Despawning twice is harmless.
	w.Despawn(id)
}

func TestComponentStoreSurvivesSwapRemove(t *testing.T) {

	w := NewWorld()
	a := w.Spawn("a")
	b := w.Spawn("b")
	c := w.Spawn("c")
	w.SetMesh(a, EquilateralTriangle(1))
	w.SetMesh(b, EquilateralTriangle(2))
	w.SetMesh(c, EquilateralTriangle(3))

	w.Despawn(b)

	visited := map[EntityID]bool{}
	w.EachRenderable(func(id EntityID, tr *Transform, m *Mesh, mat *Material) {
		visited[id] = true
		assert.NotNil(t, m)
		assert.Nil(t, tr, "no transform was attached")
		assert.Nil(t, mat, "no material was attached")
	})
	assert.Equal(t, map[EntityID]bool{a: true, c: true}, visited)

	// The survivor that was swapped into b's slot must still resolve.
	mc, ok := w.Mesh(c)
	assert.True(t, ok)
	assert.Len(t, mc.Vertices, 3)
}

func TestSetComponentOverwrites(t *testing.T) {

	w := NewWorld()
	id := w.Spawn("e")
	w.SetMaterial(id, Material{Name: "old"})
	w.SetMaterial(id, Material{Name: "new"})

	mat, ok := w.Material(id)
	assert.True(t, ok)
	assert.Equal(t, "new", mat.Name)

	count := 0
	w.EachMaterial(func(id EntityID, mat *Material) { count++ })
	assert.Equal(t, 1, count)
}

func TestSetTransformStampsOwner(t *testing.T) {

	w := NewWorld()
	id := w.Spawn("e")
	w.SetTransform(id, NewTransform(lin.Vec3{}))

	tr, ok := w.Transform(id)
	assert.True(t, ok)
	assert.Equal(t, id, tr.Entity)
}

func TestParentLinks(t *testing.T) {

	w := NewWorld()
	parent := w.Spawn("parent")
	child := w.Spawn("child")

	assert.Equal(t, NullEntity, w.Parent(child))

	w.SetParent(child, parent)
	assert.Equal(t, parent, w.Parent(child))

	w.SetParent(child, NullEntity)
	assert.Equal(t, NullEntity, w.Parent(child))

	w.Despawn(child)
	assert.Panics(t, func() { w.SetParent(child, parent) })
}
