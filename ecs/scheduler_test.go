package ecs

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type stubInput struct {
	quit bool
}

func (s *stubInput) QuitRequested() bool        { return s.quit }
func (s *stubInput) IsPressed(keycode int) bool { return false }

func recorder(log *[]string, entry string) SystemFunc {
	return func(ctx *Context) {
		*log = append(*log, entry)
	}
}

func TestTickRunsStagesInOrder(t *testing.T) {

	sched := NewScheduler(NewWorld(), &stubInput{})

	var log []string
	for stage := StageInputUpdate; stage <= StageHousekeeping; stage++ {
		sched.Register(stage, stage.String(), recorder(&log, stage.String()))
	}
	sched.Register(StageFinalCleanup, "cleanup", recorder(&log, "cleanup"))

	sched.Tick(0.016)

	assert.Equal(t, []string{
		"InputUpdate", "Update", "Collisions", "PreDraw",
		"Draw", "PostDraw", "Housekeeping",
	}, log, "FinalCleanup must not run without a request")

	log = nil
	sched.Tick(0.016)
	assert.Len(t, log, 7)
}

func TestRegistrationOrderWithinStage(t *testing.T) {

	sched := NewScheduler(NewWorld(), &stubInput{})

	var log []string
	sched.Register(StageUpdate, "first", recorder(&log, "first"))
	sched.Register(StageUpdate, "second", recorder(&log, "second"))
	sched.Register(StageUpdate, "third", recorder(&log, "third"))

	sched.Tick(0.016)
	assert.Equal(t, []string{"first", "second", "third"}, log)
}

func TestFinalCleanupRunsAfterHousekeepingSameTick(t *testing.T) {

	sched := NewScheduler(NewWorld(), &stubInput{})

	var log []string
	sched.Register(StageHousekeeping, "quit", SystemFunc(func(ctx *Context) {
		log = append(log, "quit")
		ctx.Scheduler.RequestFinalCleanup()
	}))
	sched.Register(StageFinalCleanup, "cleanup", recorder(&log, "cleanup"))

	sched.Tick(0.016)

	assert.Equal(t, []string{"quit", "cleanup"}, log)
	assert.True(t, sched.FinalCleanupDone())
}

func TestFinalCleanupRunsAtMostOnce(t *testing.T) {

	sched := NewScheduler(NewWorld(), &stubInput{})

	cleanups := 0
	sched.Register(StageFinalCleanup, "cleanup", SystemFunc(func(ctx *Context) {
		cleanups++
	}))

	sched.RequestFinalCleanup()
	sched.Tick(0.016)
	assert.Equal(t, 1, cleanups)

	// Further requests and ticks must not rerun the stage.
	sched.RequestFinalCleanup()
	sched.Tick(0.016)
	sched.Tick(0.016)
	assert.Equal(t, 1, cleanups)
	assert.True(t, sched.FinalCleanupDone())
}

func TestRegisterOnUnknownStagePanics(t *testing.T) {

	sched := NewScheduler(NewWorld(), &stubInput{})

	assert.Panics(t, func() {
		sched.Register(Stage(42), "bogus", recorder(nil, ""))
	})
	assert.Panics(t, func() {
		sched.Register(Stage(-1), "bogus", recorder(nil, ""))
	})
}

func TestStatsAccumulate(t *testing.T) {

	sched := NewScheduler(NewWorld(), &stubInput{})
	sched.Register(StageUpdate, "work", SystemFunc(func(ctx *Context) {}))
	sched.Register(StageDraw, "draw", SystemFunc(func(ctx *Context) {}))

	for i := 0; i < 5; i++ {
		sched.Tick(0.016)
	}

	stats := sched.Stats()
	assert.Len(t, stats, 2)
	assert.Equal(t, "work", stats[0].Name)
	assert.Equal(t, StageUpdate, stats[0].Stage)
	assert.Equal(t, uint64(5), stats[0].Count)
	assert.Equal(t, "draw", stats[1].Name)
	assert.Equal(t, uint64(5), stats[1].Count)
	assert.LessOrEqual(t, stats[0].Min, stats[0].Max)
	assert.GreaterOrEqual(t, stats[0].Total, stats[0].Max)
}

func TestContextCarriesDeltaTime(t *testing.T) {

	sched := NewScheduler(NewWorld(), &stubInput{})

	var seen float64
	sched.Register(StageUpdate, "dt", SystemFunc(func(ctx *Context) {
		seen = ctx.DeltaTime
	}))

	sched.Tick(0.25)
	assert.Equal(t, 0.25, seen)
}

func TestContextMainCameraPanicsWhenUnset(t *testing.T) {

	ctx := &Context{World: NewWorld()}
	assert.Panics(t, func() { ctx.MainCamera() })
}
