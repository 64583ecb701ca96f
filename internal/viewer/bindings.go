package viewer

import (
	"github.com/veandco/go-sdl2/sdl"

	"github.com/Faultbox/panoselect/internal/engine/input"
)

// Bindings maps physical inputs to selection intents.
type Bindings struct {
	Toggle  sdl.Scancode
	Cancel  sdl.Scancode
	Quit    sdl.Scancode
	Confirm uint8 // Mouse button
	Look    uint8 // Mouse button held to turn the camera
}

// DefaultBindings: Tab toggles selection, right click confirms, Escape
// cancels, left drag looks around.
var DefaultBindings = Bindings{
	Toggle:  sdl.SCANCODE_TAB,
	Cancel:  sdl.SCANCODE_ESCAPE,
	Quit:    sdl.SCANCODE_Q,
	Confirm: sdl.BUTTON_RIGHT,
	Look:    sdl.BUTTON_LEFT,
}

// Intents is one frame of decoded user intent.
type Intents struct {
	Toggle  bool
	Confirm bool
	Cancel  bool
	Quit    bool

	// Look carries the accumulated drag while the look button is held.
	LookX, LookY float32
	Zoom         float32

	Resized       bool
	Width, Height int
}

// Decode folds a frame of events into intents. looking tells whether the
// look button was held when the frame started.
func (b Bindings) Decode(events []input.Event, looking bool) Intents {
	var in Intents
	for _, e := range events {
		switch e.Type {
		case input.EventQuit:
			in.Quit = true
		case input.EventKeyDown:
			if e.Repeat {
				continue
			}
			switch e.Key {
			case b.Toggle:
				in.Toggle = true
			case b.Cancel:
				in.Cancel = true
			case b.Quit:
				in.Quit = true
			}
		case input.EventMouseDown:
			switch e.Button {
			case b.Confirm:
				in.Confirm = true
			case b.Look:
				looking = true
			}
		case input.EventMouseUp:
			if e.Button == b.Look {
				looking = false
			}
		case input.EventMouseMove:
			if looking {
				in.LookX += float32(e.DeltaX)
				in.LookY += float32(e.DeltaY)
			}
		case input.EventMouseWheel:
			in.Zoom += e.Wheel
		case input.EventWindowResize:
			in.Resized = true
			in.Width, in.Height = e.Width, e.Height
		}
	}
	return in
}
