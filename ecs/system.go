package ecs

// InputSource is the slice of the input layer the scheduler and systems need.
type InputSource interface {
	// QuitRequested reports whether the user asked to close the application.
	QuitRequested() bool
	// IsPressed reports whether the key with the given SDL keycode is held.
	IsPressed(keycode int) bool
}

// Context carries everything a system may touch during one tick. A fresh
// Context is built per tick; systems must not retain it.
type Context struct {
	// DeltaTime is the measured wall-clock duration of the previous tick in
	// seconds.
	DeltaTime float64
	World     *World
	Input     InputSource
	Scheduler *Scheduler
}

// MainCamera returns the designated camera entity, panicking if none is set.
// Rendering without a main camera is a setup bug, not a runtime condition.
func (c *Context) MainCamera() EntityID {
	id := c.World.MainCamera()
	if id == NullEntity {
		panic("no main camera entity has been designated")
	}
	return id
}

// System is one unit of per-tick work attached to a stage.
type System interface {
	Execute(ctx *Context)
}

// SystemFunc adapts a plain function to the System interface.
type SystemFunc func(ctx *Context)

func (f SystemFunc) Execute(ctx *Context) { f(ctx) }
