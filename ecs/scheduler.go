package ecs

import (
	"time"

	"go.uber.org/zap"
)

type registeredSystem struct {
	name  string
	sys   System
	stats SystemStats
}

// SystemStats accumulates execution timings for one registered system.
type SystemStats struct {
	Name  string
	Stage Stage
	Count uint64
	Min   time.Duration
	Max   time.Duration
	Total time.Duration
	Last  time.Duration
}

// Scheduler runs registered systems stage by stage. Stages execute in the
// fixed enum order every tick; within a stage, systems run in registration
// order. FinalCleanup never runs as part of the normal tick: it must be armed
// through RequestFinalCleanup, runs strictly after Housekeeping within the
// same tick, and runs at most once over the scheduler's lifetime.
type Scheduler struct {
	world *World
	input InputSource

	stages [stageCount][]registeredSystem

	finalArmed bool
	finalDone  bool
}

func NewScheduler(world *World, input InputSource) *Scheduler {
	return &Scheduler{world: world, input: input}
}

// Register attaches a system to a stage. Registration order within a stage is
// execution order.
func (s *Scheduler) Register(stage Stage, name string, sys System) {
	if stage < 0 || stage >= stageCount {
		zap.S().Panicf("cannot register system %q on unknown stage %d", name, stage)
	}
	s.stages[stage] = append(s.stages[stage], registeredSystem{
		name:  name,
		sys:   sys,
		stats: SystemStats{Name: name, Stage: stage},
	})
}

// RequestFinalCleanup arms the FinalCleanup stage for the current tick.
// Requests after the stage has run are no-ops.
func (s *Scheduler) RequestFinalCleanup() {
	if s.finalDone {
		return
	}
	s.finalArmed = true
}

// FinalCleanupDone reports whether the FinalCleanup stage has run.
func (s *Scheduler) FinalCleanupDone() bool { return s.finalDone }

// Tick runs one full frame of systems. dt is the measured duration of the
// previous tick in seconds.
func (s *Scheduler) Tick(dt float64) {
	ctx := &Context{
		DeltaTime: dt,
		World:     s.world,
		Input:     s.input,
		Scheduler: s,
	}
	for stage := StageInputUpdate; stage <= StageHousekeeping; stage++ {
		s.runStage(stage, ctx)
	}
	if s.finalArmed && !s.finalDone {
		s.runStage(StageFinalCleanup, ctx)
		s.finalDone = true
	}
}

func (s *Scheduler) runStage(stage Stage, ctx *Context) {
	for i := range s.stages[stage] {
		reg := &s.stages[stage][i]
		start := time.Now()
		reg.sys.Execute(ctx)
		elapsed := time.Since(start)

		st := &reg.stats
		st.Count++
		st.Total += elapsed
		st.Last = elapsed
		if st.Min == 0 || elapsed < st.Min {
			st.Min = elapsed
		}
		if elapsed > st.Max {
			st.Max = elapsed
		}
	}
}

// Stats returns a snapshot of per-system execution statistics in stage, then
// registration, order.
func (s *Scheduler) Stats() []SystemStats {
	var out []SystemStats
	for stage := Stage(0); stage < stageCount; stage++ {
		for i := range s.stages[stage] {
			out = append(out, s.stages[stage][i].stats)
		}
	}
	return out
}

// LogStats writes one summary line per system, used at shutdown.
func (s *Scheduler) LogStats() {
	for _, st := range s.Stats() {
		if st.Count == 0 {
			continue
		}
		avg := st.Total / time.Duration(st.Count)
		zap.S().Infof("system %s/%s: runs=%d avg=%s min=%s max=%s",
			st.Stage, st.Name, st.Count, avg, st.Min, st.Max)
	}
}
