package engine

import (
	"time"

	"go.uber.org/zap"

	"ECS_render_engine/ecs"
)

// Engine wires the world, the scheduler and the rendering module into a
// runnable whole. Construction registers the rendering systems; callers add
// their own systems before Run.
type Engine struct {
	World     *ecs.World
	Scheduler *ecs.Scheduler
	Render    *RenderModule
}

func New(backend RenderBackend, input InputDevice) *Engine {
	world := ecs.NewWorld()
	sched := ecs.NewScheduler(world, input)
	mod := NewRenderModule(backend, input)
	mod.Register(sched)
	return &Engine{
		World:     world,
		Scheduler: sched,
		Render:    mod,
	}
}

// Run ticks the scheduler with measured wall-clock delta times until the
// FinalCleanup stage has executed, then logs the per-system statistics.
func (e *Engine) Run() {
	zap.S().Infof("engine loop starting")
	last := time.Now()
	for !e.Scheduler.FinalCleanupDone() {
		now := time.Now()
		dt := now.Sub(last).Seconds()
		last = now
		e.Scheduler.Tick(dt)
	}
	zap.S().Infof("engine loop finished after %d frames", e.Render.FrameNumber())
	e.Scheduler.LogStats()
}
