// Package input handles SDL2 input events.
package input

import (
	"github.com/veandco/go-sdl2/sdl"
)

// EventType identifies a processed input event.
type EventType int

const (
	EventNone EventType = iota
	EventQuit
	EventWindowResize
	EventKeyDown
	EventKeyUp
	EventMouseMove
	EventMouseDown
	EventMouseUp
	EventMouseWheel
)

// Event represents a processed input event.
type Event struct {
	Type   EventType
	Key    sdl.Scancode
	Width  int
	Height int
	MouseX int
	MouseY int
	// Relative motion for EventMouseMove, scroll steps for EventMouseWheel.
	DeltaX float32
	DeltaY float32
	Button uint8
}

// Input handles all input processing.
type Input struct {
	events  []Event
	buttons map[uint8]bool
}

// New creates a new input handler.
func New() *Input {
	return &Input{
		events:  make([]Event, 0, 16),
		buttons: make(map[uint8]bool),
	}
}

// Update polls SDL events and converts them.
// Returns true if the application should quit.
func (i *Input) Update() bool {
	i.events = i.events[:0]

	for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
		switch e := event.(type) {
		case *sdl.QuitEvent:
			i.events = append(i.events, Event{Type: EventQuit})
			return true

		case *sdl.WindowEvent:
			if e.Event == sdl.WINDOWEVENT_SIZE_CHANGED {
				i.events = append(i.events, Event{
					Type:   EventWindowResize,
					Width:  int(e.Data1),
					Height: int(e.Data2),
				})
			}

		case *sdl.KeyboardEvent:
			typ := EventKeyUp
			if e.Type == sdl.KEYDOWN {
				typ = EventKeyDown
			}
			i.events = append(i.events, Event{
				Type: typ,
				Key:  e.Keysym.Scancode,
			})

		case *sdl.MouseMotionEvent:
			i.events = append(i.events, Event{
				Type:   EventMouseMove,
				MouseX: int(e.X),
				MouseY: int(e.Y),
				DeltaX: float32(e.XRel),
				DeltaY: float32(e.YRel),
			})

		case *sdl.MouseButtonEvent:
			typ := EventMouseUp
			if e.Type == sdl.MOUSEBUTTONDOWN {
				typ = EventMouseDown
			}
			i.buttons[e.Button] = typ == EventMouseDown
			i.events = append(i.events, Event{
				Type:   typ,
				MouseX: int(e.X),
				MouseY: int(e.Y),
				Button: e.Button,
			})

		case *sdl.MouseWheelEvent:
			dy := float32(e.Y)
			if e.Direction == sdl.MOUSEWHEEL_FLIPPED {
				dy = -dy
			}
			i.events = append(i.events, Event{
				Type:   EventMouseWheel,
				DeltaX: float32(e.X),
				DeltaY: dy,
			})
		}
	}

	return false
}

// Events returns the events from the last Update.
func (i *Input) Events() []Event {
	return i.events
}

// IsKeyPressed checks if a specific key was pressed this frame.
func (i *Input) IsKeyPressed(scancode sdl.Scancode) bool {
	for _, e := range i.events {
		if e.Type == EventKeyDown && e.Key == scancode {
			return true
		}
	}
	return false
}

// IsButtonDown reports whether a mouse button is held.
func (i *Input) IsButtonDown(button uint8) bool {
	return i.buttons[button]
}
