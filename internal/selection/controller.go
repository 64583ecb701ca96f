package selection

import (
	"context"

	"go.uber.org/zap"

	"github.com/Faultbox/panoselect/internal/handoff"
	"github.com/Faultbox/panoselect/pkg/cubeface"
)

// Highlighter draws the overlay for one face at a time.
type Highlighter interface {
	Show(face cubeface.Face) error
	Hide()
}

// Dispatcher sends a reference without blocking. The channel yields one
// result when the request ends.
type Dispatcher interface {
	Dispatch(ctx context.Context, ref handoff.Reference) <-chan handoff.Result
}

// ServiceOpener opens or focuses the editing service interface.
type ServiceOpener interface {
	Open(ref handoff.Reference) error
}

// OpenerFunc adapts a function to ServiceOpener.
type OpenerFunc func(ref handoff.Reference) error

// Open calls f(ref).
func (f OpenerFunc) Open(ref handoff.Reference) error {
	return f(ref)
}

// Controller drives the workflow from the host's update loop. All methods
// must be called from that loop.
type Controller struct {
	ctx        context.Context
	machine    Machine
	highlight  Highlighter
	dispatcher Dispatcher
	opener     ServiceOpener
	pending    <-chan handoff.Result
	panoramaID string
	log        *zap.Logger
}

// NewController creates a controller in the Idle state. ctx bounds every
// dispatch it starts.
func NewController(ctx context.Context, h Highlighter, d Dispatcher, o ServiceOpener, log *zap.Logger) *Controller {
	if log == nil {
		log = zap.NewNop()
	}
	return &Controller{
		ctx:        ctx,
		highlight:  h,
		dispatcher: d,
		opener:     o,
		log:        log,
	}
}

// SetPanorama sets the panorama id captured by the next confirmation.
func (c *Controller) SetPanorama(id string) {
	c.panoramaID = id
}

// Machine returns a copy of the workflow state.
func (c *Controller) Machine() Machine {
	return c.machine
}

// State returns the current workflow state.
func (c *Controller) State() State {
	return c.machine.State
}

// Tick advances the workflow by one interaction tick and executes the
// resulting effects. It never waits on the network.
func (c *Controller) Tick(in Input) {
	in.PanoramaID = c.panoramaID
	if res, ok := c.pollDispatch(); ok {
		in.Done = &res
	}

	prev := c.machine.State
	next, effects := Step(c.machine, in)
	c.machine = next

	if next.State != prev {
		c.log.Debug("selection state changed",
			zap.Stringer("from", prev),
			zap.Stringer("to", next.State),
		)
	}

	for _, e := range effects {
		if _, ok := e.(Dispatch); ok && !c.machine.Highlighted.Valid() {
			// The confirmed face failed to draw in this same tick.
			c.machine = Machine{State: Selecting}
			continue
		}
		c.apply(e)
	}
}

func (c *Controller) pollDispatch() (handoff.Result, bool) {
	if c.pending == nil {
		return handoff.Result{}, false
	}
	select {
	case res, ok := <-c.pending:
		c.pending = nil
		if !ok {
			// Closed without a result; treat as a failed dispatch.
			return handoff.Result{Reference: c.machine.Selected, Err: errClosed}, true
		}
		return res, true
	default:
		return handoff.Result{}, false
	}
}

func (c *Controller) apply(e Effect) {
	switch e := e.(type) {
	case ShowHighlight:
		if err := c.highlight.Show(e.Face); err != nil {
			c.log.Warn("highlight update failed", zap.Stringer("face", e.Face), zap.Error(err))
			// Not drawn, so not selectable; the next tick retries.
			c.machine.Highlighted = cubeface.None
		}
	case HideHighlight:
		c.highlight.Hide()
	case Dispatch:
		c.log.Info("face selected", zap.Stringer("reference", e.Reference))
		c.pending = c.dispatcher.Dispatch(c.ctx, e.Reference)
	case OpenService:
		if err := c.opener.Open(e.Reference); err != nil {
			c.log.Warn("opening editing service failed", zap.Error(err))
		}
	}
}
