package ecs

// Stage is a named phase in the fixed per-tick schedule. Systems attach to
// exactly one stage and all stages run in declaration order every tick, with
// the exception of StageFinalCleanup which only runs after it has been
// requested via Scheduler.RequestFinalCleanup.
type Stage int

const (
	StageInputUpdate Stage = iota
	StageUpdate
	StageCollisions
	StagePreDraw
	StageDraw
	StagePostDraw
	StageHousekeeping
	StageFinalCleanup

	stageCount
)

// String returns the string representation of a stage.
func (s Stage) String() string {
	switch s {
	case StageInputUpdate:
		return "InputUpdate"
	case StageUpdate:
		return "Update"
	case StageCollisions:
		return "Collisions"
	case StagePreDraw:
		return "PreDraw"
	case StageDraw:
		return "Draw"
	case StagePostDraw:
		return "PostDraw"
	case StageHousekeeping:
		return "Housekeeping"
	case StageFinalCleanup:
		return "FinalCleanup"
	default:
		return "Unknown"
	}
}
