package ecs

import (
	"github.com/kamstrup/intmap"
	"go.uber.org/zap"
)

// EntityID is a handle into the world's entity arena. The zero value is the
// null handle and never refers to a live entity.
type EntityID uint32

// NullEntity is the handle of no entity.
const NullEntity EntityID = 0

type entityRecord struct {
	name   string
	parent EntityID
	alive  bool
}

// store keeps one component type in a dense slice with an id -> index map on
// the side, so iteration stays linear and lookup stays O(1).
type store[T any] struct {
	index *intmap.Map[EntityID, int32]
	ids   []EntityID
	items []T
}

func newStore[T any]() *store[T] {
	return &store[T]{index: intmap.New[EntityID, int32](64)}
}

func (s *store[T]) set(id EntityID, item T) {
	if i, ok := s.index.Get(id); ok {
		s.items[i] = item
		return
	}
	s.index.Put(id, int32(len(s.items)))
	s.ids = append(s.ids, id)
	s.items = append(s.items, item)
}

func (s *store[T]) get(id EntityID) (*T, bool) {
	i, ok := s.index.Get(id)
	if !ok {
		return nil, false
	}
	return &s.items[i], true
}

func (s *store[T]) remove(id EntityID) {
	i, ok := s.index.Get(id)
	if !ok {
		return
	}
	last := int32(len(s.items) - 1)
	if i != last {
		s.items[i] = s.items[last]
		s.ids[i] = s.ids[last]
		s.index.Put(s.ids[i], i)
	}
	s.items = s.items[:last]
	s.ids = s.ids[:last]
	s.index.Del(id)
}

// World owns the entity arena and all component stores. It is not safe for
// concurrent use; all systems run on the scheduler goroutine.
type World struct {
	entities []entityRecord

	transforms *store[Transform]
	meshes     *store[Mesh]
	materials  *store[Material]
	cameras    *store[Camera]

	mainCamera EntityID
}

func NewWorld() *World {
	return &World{
		transforms: newStore[Transform](),
		meshes:     newStore[Mesh](),
		materials:  newStore[Material](),
		cameras:    newStore[Camera](),
	}
}

// Spawn creates a new entity and returns its handle.
func (w *World) Spawn(name string) EntityID {
	w.entities = append(w.entities, entityRecord{name: name, alive: true})
	return EntityID(len(w.entities))
}

// Despawn removes the entity's components and marks the handle dead. GPU
// buffers owned by an uploaded mesh are not released here; they stay alive
// until renderer shutdown.
func (w *World) Despawn(id EntityID) {
	if !w.Alive(id) {
		return
	}
	w.transforms.remove(id)
	w.meshes.remove(id)
	w.materials.remove(id)
	w.cameras.remove(id)
	w.entities[id-1].alive = false
	if w.mainCamera == id {
		w.mainCamera = NullEntity
	}
}

func (w *World) Alive(id EntityID) bool {
	return id != NullEntity && int(id) <= len(w.entities) && w.entities[id-1].alive
}

func (w *World) Name(id EntityID) string {
	if !w.Alive(id) {
		return ""
	}
	return w.entities[id-1].name
}

// SetParent links child to parent. Passing NullEntity as parent clears the
// link.
func (w *World) SetParent(child, parent EntityID) {
	if !w.Alive(child) {
		zap.S().Panicf("SetParent: entity %d is not alive", child)
	}
	w.entities[child-1].parent = parent
}

func (w *World) Parent(id EntityID) EntityID {
	if !w.Alive(id) {
		return NullEntity
	}
	return w.entities[id-1].parent
}

func (w *World) SetTransform(id EntityID, t Transform) {
	t.Entity = id
	w.transforms.set(id, t)
}

func (w *World) Transform(id EntityID) (*Transform, bool) { return w.transforms.get(id) }

func (w *World) SetMesh(id EntityID, m Mesh)    { w.meshes.set(id, m) }
func (w *World) Mesh(id EntityID) (*Mesh, bool) { return w.meshes.get(id) }

func (w *World) SetMaterial(id EntityID, m Material)    { w.materials.set(id, m) }
func (w *World) Material(id EntityID) (*Material, bool) { return w.materials.get(id) }

func (w *World) SetCamera(id EntityID, c Camera)    { w.cameras.set(id, c) }
func (w *World) Camera(id EntityID) (*Camera, bool) { return w.cameras.get(id) }

// SetMainCamera designates the camera entity used for view-projection.
func (w *World) SetMainCamera(id EntityID) { w.mainCamera = id }

// MainCamera returns the designated camera entity, or NullEntity if none has
// been set.
func (w *World) MainCamera() EntityID { return w.mainCamera }

// EachRenderable visits every entity that has a mesh, in store order. The
// transform and material pointers may be nil when the entity lacks them;
// callers decide how to treat incomplete renderables.
func (w *World) EachRenderable(fn func(id EntityID, t *Transform, m *Mesh, mat *Material)) {
	for i, id := range w.meshes.ids {
		t, _ := w.transforms.get(id)
		mat, _ := w.materials.get(id)
		fn(id, t, &w.meshes.items[i], mat)
	}
}

// EachMaterial visits every material component, in store order.
func (w *World) EachMaterial(fn func(id EntityID, mat *Material)) {
	for i, id := range w.materials.ids {
		fn(id, &w.materials.items[i])
	}
}
