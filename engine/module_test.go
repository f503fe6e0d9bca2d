package engine

import (
	"testing"
	"unsafe"

	vk "github.com/goki/vulkan"
	"github.com/stretchr/testify/assert"
	lin "github.com/xlab/linmath"

	"ECS_render_engine/ecs"
)

// fakeBackend records every call the rendering systems issue, in order.
type fakeBackend struct {
	calls       []string
	uploaded    []*ecs.Mesh
	bound       []*ecs.Material
	drawn       []*ecs.Mesh
	released    []*ecs.Material
	idleWaits   int
	fullscreens int
}

func (f *fakeBackend) BeginFrame() { f.calls = append(f.calls, "begin") }
func (f *fakeBackend) EndFrame()   { f.calls = append(f.calls, "end") }

func (f *fakeBackend) UploadMesh(m *ecs.Mesh) {
	f.calls = append(f.calls, "upload")
	f.uploaded = append(f.uploaded, m)
}

func (f *fakeBackend) BindMaterial(mat *ecs.Material) {
	f.calls = append(f.calls, "bind")
	f.bound = append(f.bound, mat)
}

func (f *fakeBackend) DrawMesh(m *ecs.Mesh, mat *ecs.Material, mvp lin.Mat4x4) {
	f.calls = append(f.calls, "draw")
	f.drawn = append(f.drawn, m)
}

func (f *fakeBackend) WaitRenderIdle() {
	f.calls = append(f.calls, "idle")
	f.idleWaits++
}

func (f *fakeBackend) ReleaseMaterial(mat *ecs.Material) {
	f.calls = append(f.calls, "release")
	f.released = append(f.released, mat)
}

func (f *fakeBackend) ToggleFullscreen()        { f.fullscreens++ }
func (f *fakeBackend) Extent() (uint32, uint32) { return 1280, 720 }

type fakeInput struct {
	quit  bool
	just  map[int]bool
	pumps int
}

func (f *fakeInput) Pump()                      { f.pumps++ }
func (f *fakeInput) QuitRequested() bool        { return f.quit }
func (f *fakeInput) IsPressed(keycode int) bool { return false }
func (f *fakeInput) JustPressed(keycode int) bool {
	return f.just[keycode]
}

// liveMaterial fabricates a material whose shared pipeline handle is non-null,
// so the draw system treats it as bound.
func liveMaterial(name string) ecs.Material {
	pipeline := vk.Pipeline(unsafe.Pointer(new(byte)))
	layout := vk.PipelineLayout(unsafe.Pointer(new(byte)))
	return ecs.Material{
		Name:     name,
		Pipeline: &pipeline,
		Layout:   &layout,
		Color:    [4]float32{1, 1, 1, 1},
	}
}

func newTestEngine(t *testing.T) (*Engine, *fakeBackend, *fakeInput) {
	t.Helper()
	backend := &fakeBackend{}
	in := &fakeInput{just: map[int]bool{}}
	eng := New(backend, in)
	CreatePerspectiveCamera(eng.World, lin.Vec3{0, 0, -5}, ecs.PerspectiveParams{})
	return eng, backend, in
}

func TestFrameLifecycleOrder(t *testing.T) {

	eng, backend, _ := newTestEngine(t)

	id := eng.World.Spawn("tri")
	eng.World.SetTransform(id, ecs.NewTransform(lin.Vec3{}))
	eng.World.SetMesh(id, ecs.EquilateralTriangle(1))
	eng.World.SetMaterial(id, liveMaterial("mesh/solid"))

	eng.Scheduler.Tick(0.016)

	assert.Equal(t, []string{"begin", "upload", "bind", "draw", "end"}, backend.calls)
	assert.Equal(t, uint64(1), eng.Render.FrameNumber())

	backend.calls = nil
	eng.Scheduler.Tick(0.016)
	assert.Equal(t, []string{"begin", "bind", "draw", "end"}, backend.calls,
		"second frame must not re-upload")
	assert.Equal(t, uint64(2), eng.Render.FrameNumber())
}

func TestMeshUploadedExactlyOnce(t *testing.T) {

	eng, backend, _ := newTestEngine(t)

	id := eng.World.Spawn("square")
	eng.World.SetTransform(id, ecs.NewTransform(lin.Vec3{}))
	eng.World.SetMesh(id, ecs.Square(1))
	eng.World.SetMaterial(id, liveMaterial("mesh/solid"))

	for i := 0; i < 4; i++ {
		eng.Scheduler.Tick(0.016)
	}

	assert.Len(t, backend.uploaded, 1)
	mesh, _ := eng.World.Mesh(id)
	assert.Equal(t, ecs.MeshUploaded, mesh.State)
	assert.Len(t, backend.drawn, 4)
}

func TestIncompleteRenderablesAreSkipped(t *testing.T) {

	eng, backend, _ := newTestEngine(t)
	w := eng.World

	empty := w.Spawn("empty")
	w.SetTransform(empty, ecs.NewTransform(lin.Vec3{}))
	w.SetMesh(empty, ecs.Mesh{})
	w.SetMaterial(empty, liveMaterial("mesh/solid"))

	noTransform := w.Spawn("no-transform")
	w.SetMesh(noTransform, ecs.Square(1))
	w.SetMaterial(noTransform, liveMaterial("mesh/solid"))

	noMaterial := w.Spawn("no-material")
	w.SetTransform(noMaterial, ecs.NewTransform(lin.Vec3{}))
	w.SetMesh(noMaterial, ecs.Square(1))

	unbound := w.Spawn("unbound")
	w.SetTransform(unbound, ecs.NewTransform(lin.Vec3{}))
	w.SetMesh(unbound, ecs.Square(1))
	w.SetMaterial(unbound, ecs.Material{Name: "mesh/solid"})

	// A live pipeline without a layout must be skipped too, the draw path pushes
	// constants through the layout handle.
	noLayout := w.Spawn("no-layout")
	w.SetTransform(noLayout, ecs.NewTransform(lin.Vec3{}))
	w.SetMesh(noLayout, ecs.Square(1))
	pipelineOnly := liveMaterial("mesh/solid")
	pipelineOnly.Layout = nil
	w.SetMaterial(noLayout, pipelineOnly)

	eng.Scheduler.Tick(0.016)

	assert.Empty(t, backend.uploaded)
	assert.Empty(t, backend.drawn)
	assert.Equal(t, []string{"begin", "end"}, backend.calls)
}

func TestPipelineBoundOnlyOnChange(t *testing.T) {

	eng, backend, _ := newTestEngine(t)
	w := eng.World

	solid := liveMaterial("mesh/solid")
	rainbow := liveMaterial("mesh/rainbow")

	// Two entities share solid, a third uses rainbow. Store order is spawn
	// order, so the draw sequence is solid, solid, rainbow.
	for i, mat := range []ecs.Material{solid, solid, rainbow} {
		id := w.Spawn("obj")
		tr := ecs.NewTransform(lin.Vec3{float32(i), 0, 0})
		w.SetTransform(id, tr)
		w.SetMesh(id, ecs.EquilateralTriangle(1))
		w.SetMaterial(id, mat)
	}

	eng.Scheduler.Tick(0.016)

	assert.Len(t, backend.drawn, 3)
	assert.Len(t, backend.bound, 2, "the shared pipeline binds once")
	assert.Equal(t, uint64(2), eng.Render.PipelineBinds())

	// A new frame starts with no pipeline bound, so both bind again.
	eng.Scheduler.Tick(0.016)
	assert.Equal(t, uint64(4), eng.Render.PipelineBinds())
}

func TestQuitTriggersCleanupOnce(t *testing.T) {

	eng, backend, in := newTestEngine(t)
	w := eng.World

	id := w.Spawn("obj")
	w.SetTransform(id, ecs.NewTransform(lin.Vec3{}))
	w.SetMesh(id, ecs.Square(1))
	w.SetMaterial(id, liveMaterial("mesh/solid"))

	eng.Scheduler.Tick(0.016)
	assert.False(t, eng.Scheduler.FinalCleanupDone())

	in.quit = true
	eng.Scheduler.Tick(0.016)

	assert.True(t, eng.Scheduler.FinalCleanupDone())
	assert.Equal(t, 1, backend.idleWaits)
	assert.Len(t, backend.released, 1)

	n := len(backend.calls)
	assert.Equal(t, []string{"idle", "release"}, backend.calls[n-2:],
		"cleanup runs after the quit check, at the very end of the tick")
}

func TestFullscreenHotkey(t *testing.T) {

	eng, backend, in := newTestEngine(t)

	eng.Scheduler.Tick(0.016)
	assert.Equal(t, 0, backend.fullscreens, "hotkey disabled by default")

	eng.Render.FullscreenKey = 292 // SDLK_F11
	in.just[292] = true
	eng.Scheduler.Tick(0.016)
	assert.Equal(t, 1, backend.fullscreens)

	in.just = map[int]bool{}
	eng.Scheduler.Tick(0.016)
	assert.Equal(t, 1, backend.fullscreens)
}

func TestInputPumpedEveryTick(t *testing.T) {

	eng, _, in := newTestEngine(t)
	for i := 0; i < 3; i++ {
		eng.Scheduler.Tick(0.016)
	}
	assert.Equal(t, 3, in.pumps)
}
