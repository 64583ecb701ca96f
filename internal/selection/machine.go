// Package selection implements the face selection workflow.
//
// The workflow is a pure state machine: Step takes the current Machine and
// one tick of input and returns the next Machine plus the effects the host
// must carry out. Controller executes those effects against the highlight
// surface, the handoff client and the service opener.
package selection

import (
	"github.com/Faultbox/panoselect/internal/handoff"
	"github.com/Faultbox/panoselect/pkg/cubeface"
	"github.com/Faultbox/panoselect/pkg/math"
)

// State is the workflow state.
type State int

const (
	Idle State = iota
	Selecting
	Processing
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Selecting:
		return "selecting"
	case Processing:
		return "processing"
	default:
		return "unknown"
	}
}

// Machine is the complete workflow state of one viewer session.
type Machine struct {
	State State

	// Highlighted is the face currently drawn, None when nothing is.
	Highlighted cubeface.Face

	// Selected is set while Processing.
	Selected handoff.Reference
}

// Input is one interaction tick.
type Input struct {
	// Direction is the viewer-local cursor direction. HasDirection is
	// false when the cursor does not hit the sphere.
	Direction    math.Vec3
	HasDirection bool

	Toggle  bool // Enter or leave selection mode
	Confirm bool // Secondary trigger
	Cancel  bool

	PanoramaID string

	// Done carries the completed dispatch, if one finished since the
	// previous tick.
	Done *handoff.Result
}

// Effect is a side effect requested by Step.
type Effect interface {
	effect()
}

// ShowHighlight regenerates the highlight for Face.
type ShowHighlight struct{ Face cubeface.Face }

// HideHighlight hides the highlight.
type HideHighlight struct{}

// Dispatch sends Reference to the editing service.
type Dispatch struct{ Reference handoff.Reference }

// OpenService brings up the editing service interface.
type OpenService struct{ Reference handoff.Reference }

func (ShowHighlight) effect() {}
func (HideHighlight) effect() {}
func (Dispatch) effect() {}
func (OpenService) effect() {}

// Step advances the workflow by one tick. It never mutates m.
func Step(m Machine, in Input) (Machine, []Effect) {
	switch m.State {
	case Idle:
		if in.Toggle {
			return Machine{State: Selecting}, nil
		}
		return m, nil

	case Selecting:
		if in.Cancel || in.Toggle {
			return Machine{State: Idle}, []Effect{HideHighlight{}}
		}

		var effects []Effect
		if in.HasDirection && !in.Direction.IsZero() {
			if face := cubeface.Classify(in.Direction); face != m.Highlighted {
				m.Highlighted = face
				effects = append(effects, ShowHighlight{Face: face})
			}
		}

		if in.Confirm && m.Highlighted.Valid() {
			ref := handoff.Reference{Face: m.Highlighted, PanoramaID: in.PanoramaID}
			m.State = Processing
			m.Selected = ref
			effects = append(effects, Dispatch{Reference: ref})
		}
		return m, effects

	case Processing:
		// Confirm, cancel and toggle are ignored until the dispatch ends.
		if in.Done == nil {
			return m, nil
		}
		return Machine{State: Idle}, []Effect{
			OpenService{Reference: m.Selected},
			HideHighlight{},
		}
	}

	return m, nil
}
