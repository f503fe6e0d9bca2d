package input

import (
	"github.com/veandco/go-sdl2/sdl"

	"ECS_render_engine/common"
)

// State is the SDL-backed input layer. Pump drains the event queue once per tick, forwarding window
// events to the window's flag bookkeeping and tracking keyboard state itself. ESC requests quit, like
// the window close button does.
type State struct {
	window *common.Window
	held   map[sdl.Keycode]bool
	just   map[sdl.Keycode]bool
}

func New(window *common.Window) *State {
	return &State{
		window: window,
		held:   make(map[sdl.Keycode]bool),
		just:   make(map[sdl.Keycode]bool),
	}
}

// Pump drains the SDL event queue and refreshes key and window state. Called once per tick from the
// InputUpdate stage.
func (s *State) Pump() {
	for k := range s.just {
		delete(s.just, k)
	}
	for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
		s.window.HandleEvent(event)
		switch ev := event.(type) {
		case *sdl.KeyboardEvent:
			key := ev.Keysym.Sym
			switch ev.Type {
			case sdl.KEYDOWN:
				if ev.Repeat == 0 && !s.held[key] {
					s.just[key] = true
				}
				s.held[key] = true
				if key == sdl.K_ESCAPE {
					s.window.Close = true
				}
			case sdl.KEYUP:
				delete(s.held, key)
			}
		}
	}
}

// QuitRequested reports whether the user asked to close the application, via the window close button,
// a quit event or ESC.
func (s *State) QuitRequested() bool {
	return s.window.Close
}

// IsPressed reports whether the key with the given SDL keycode is currently held.
func (s *State) IsPressed(keycode int) bool {
	return s.held[sdl.Keycode(keycode)]
}

// JustPressed reports whether the key went down during the last Pump.
func (s *State) JustPressed(keycode int) bool {
	return s.just[sdl.Keycode(keycode)]
}
