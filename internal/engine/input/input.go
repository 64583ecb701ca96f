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
	Repeat bool
	Width  int
	Height int
	MouseX int
	MouseY int
	DeltaX int
	DeltaY int
	Wheel  float32
	Button uint8
}

// Input handles all input processing and tracks the cursor between frames.
type Input struct {
	events []Event

	mouseX, mouseY int
	hasMouse       bool
	buttons        map[uint8]bool
}

// New creates a new input handler.
func New() *Input {
	return &Input{
		events:  make([]Event, 0, 16),
		buttons: make(map[uint8]bool),
	}
}

// Update polls SDL events and converts them to input events.
// Returns true if the application should quit.
func (i *Input) Update() bool {
	i.events = i.events[:0]

	for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
		if i.translate(event) {
			return true
		}
	}
	return false
}

func (i *Input) translate(event sdl.Event) bool {
	switch e := event.(type) {
	case *sdl.QuitEvent:
		i.events = append(i.events, Event{Type: EventQuit})
		return true

	case *sdl.WindowEvent:
		switch e.Event {
		case sdl.WINDOWEVENT_RESIZED:
			i.events = append(i.events, Event{
				Type:   EventWindowResize,
				Width:  int(e.Data1),
				Height: int(e.Data2),
			})
		case sdl.WINDOWEVENT_LEAVE:
			i.hasMouse = false
		}

	case *sdl.KeyboardEvent:
		ev := Event{Key: e.Keysym.Scancode, Repeat: e.Repeat != 0}
		if e.Type == sdl.KEYDOWN {
			ev.Type = EventKeyDown
		} else {
			ev.Type = EventKeyUp
		}
		i.events = append(i.events, ev)

	case *sdl.MouseMotionEvent:
		i.mouseX, i.mouseY, i.hasMouse = int(e.X), int(e.Y), true
		i.events = append(i.events, Event{
			Type:   EventMouseMove,
			MouseX: int(e.X),
			MouseY: int(e.Y),
			DeltaX: int(e.XRel),
			DeltaY: int(e.YRel),
		})

	case *sdl.MouseButtonEvent:
		ev := Event{MouseX: int(e.X), MouseY: int(e.Y), Button: e.Button}
		if e.Type == sdl.MOUSEBUTTONDOWN {
			ev.Type = EventMouseDown
			i.buttons[e.Button] = true
		} else {
			ev.Type = EventMouseUp
			i.buttons[e.Button] = false
		}
		i.events = append(i.events, ev)

	case *sdl.MouseWheelEvent:
		i.events = append(i.events, Event{Type: EventMouseWheel, Wheel: float32(e.Y)})
	}
	return false
}

// Events returns the events from the last Update.
func (i *Input) Events() []Event {
	return i.events
}

// IsKeyPressed checks if a specific key was pressed this frame.
// Auto-repeat presses are not counted.
func (i *Input) IsKeyPressed(scancode sdl.Scancode) bool {
	for _, e := range i.events {
		if e.Type == EventKeyDown && e.Key == scancode && !e.Repeat {
			return true
		}
	}
	return false
}

// IsButtonClicked checks if a mouse button went down this frame.
func (i *Input) IsButtonClicked(button uint8) bool {
	for _, e := range i.events {
		if e.Type == EventMouseDown && e.Button == button {
			return true
		}
	}
	return false
}

// IsButtonHeld reports whether a mouse button is currently down.
func (i *Input) IsButtonHeld(button uint8) bool {
	return i.buttons[button]
}

// Mouse returns the last known cursor position. ok is false before the
// cursor entered the window or after it left.
func (i *Input) Mouse() (x, y int, ok bool) {
	return i.mouseX, i.mouseY, i.hasMouse
}
