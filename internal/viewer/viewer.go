// Package viewer hosts the selection workflow in an SDL2 window: it turns
// cursor positions into sphere directions, ticks the selection controller
// every frame and draws the highlight.
package viewer

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/panoselect/internal/config"
	"github.com/Faultbox/panoselect/internal/engine/camera"
	"github.com/Faultbox/panoselect/internal/engine/input"
	"github.com/Faultbox/panoselect/internal/engine/overlay"
	"github.com/Faultbox/panoselect/internal/engine/picking"
	"github.com/Faultbox/panoselect/internal/engine/renderer"
	"github.com/Faultbox/panoselect/internal/engine/window"
	"github.com/Faultbox/panoselect/internal/handoff"
	"github.com/Faultbox/panoselect/internal/highlight"
	"github.com/Faultbox/panoselect/internal/selection"
	"github.com/Faultbox/panoselect/pkg/math"
)

const title = "PanoSelect"

// Viewer is the interactive panorama host.
type Viewer struct {
	cfg *config.Config
	log *zap.Logger

	window   *window.Window
	renderer *renderer.Renderer
	input    *input.Input
	camera   *camera.PanoramaCamera
	surface  *highlight.Surface
	overlay  *overlay.Overlay
	ctrl     *selection.Controller
	bindings Bindings

	center  math.Vec3
	looking bool
	state   selection.State
}

// New creates the window, GL resources and selection controller. The
// dispatcher sends confirmed selections; ctx bounds every dispatch.
func New(ctx context.Context, cfg *config.Config, d selection.Dispatcher, log *zap.Logger) (*Viewer, error) {
	v := &Viewer{
		cfg:      cfg,
		log:      log,
		input:    input.New(),
		bindings: DefaultBindings,
		center:   math.FromArray(cfg.Sphere.Center),
	}

	var err error
	v.window, err = window.New(window.Config{
		Title:      title,
		Width:      cfg.Viewer.Width,
		Height:     cfg.Viewer.Height,
		Fullscreen: cfg.Viewer.Fullscreen,
		VSync:      cfg.Viewer.VSync,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create window: %w", err)
	}

	fbW, fbH := v.window.DrawableSize()
	v.renderer, err = renderer.New(renderer.Config{
		Width:  fbW,
		Height: fbH,
		Center: v.center,
		Radius: cfg.Sphere.Radius,
	})
	if err != nil {
		v.window.Close()
		return nil, fmt.Errorf("failed to create renderer: %w", err)
	}

	v.camera = camera.NewPanoramaCamera(v.center, cfg.Viewer.FOVDegrees, cfg.Sphere.Radius*4)

	v.surface, err = highlight.NewSurface(
		v.center,
		cfg.Sphere.Radius,
		cfg.Selection.Subdivisions,
		overlay.Factory(func(o *overlay.Overlay) { v.overlay = o }),
		log.Named("highlight"),
	)
	if err != nil {
		v.Close()
		return nil, err
	}

	opener := NewBrowserOpener(cfg.Handoff.ServiceURL, log.Named("opener"))
	v.ctrl = selection.NewController(ctx, v.surface, d, opener, log.Named("selection"))
	v.ctrl.SetPanorama(cfg.Selection.PanoramaID)

	log.Info("viewer ready",
		zap.String("panorama", cfg.Selection.PanoramaID),
		zap.Float32("radius", cfg.Sphere.Radius),
		zap.Int("subdivisions", cfg.Selection.Subdivisions),
	)
	return v, nil
}

// Run drives the frame loop until the window closes or ctx is done.
func (v *Viewer) Run(ctx context.Context) error {
	start := time.Now()
	frameCount := 0
	fpsTimer := time.Now()

	v.log.Info("starting frame loop")
	v.updateTitle()

	for {
		if ctx.Err() != nil {
			return nil
		}

		quit := v.input.Update()
		intents := v.bindings.Decode(v.input.Events(), v.looking)
		v.looking = v.input.IsButtonHeld(v.bindings.Look)
		if quit || intents.Quit {
			return nil
		}

		v.update(intents)
		v.render(float32(time.Since(start).Seconds()))
		v.window.SwapBuffers()

		frameCount++
		if time.Since(fpsTimer) >= time.Second {
			v.log.Debug("fps", zap.Int("count", frameCount))
			frameCount = 0
			fpsTimer = time.Now()
		}
	}
}

func (v *Viewer) update(in Intents) {
	if in.Resized {
		w, h := v.window.DrawableSize()
		v.renderer.Resize(w, h)
	}
	if in.LookX != 0 || in.LookY != 0 {
		v.camera.HandleDrag(in.LookX, in.LookY)
	}
	if in.Zoom != 0 {
		v.camera.HandleZoom(in.Zoom)
	}

	tick := selection.Input{
		Toggle:  in.Toggle,
		Confirm: in.Confirm,
		Cancel:  in.Cancel,
	}
	// Direction is only needed while selecting; skip the ray otherwise.
	if v.ctrl.State() == selection.Selecting {
		tick.Direction, tick.HasDirection = v.cursorDirection()
	}
	v.ctrl.Tick(tick)

	if s := v.ctrl.State(); s != v.state {
		v.state = s
		v.updateTitle()
	}
}

// cursorDirection returns the viewer-local direction under the cursor.
func (v *Viewer) cursorDirection() (math.Vec3, bool) {
	mx, my, ok := v.input.Mouse()
	if !ok {
		return math.Vec3{}, false
	}
	winW, winH := v.window.GetSize()
	inv := v.camera.ViewProjection(v.renderer.Aspect()).Inverse()
	return picking.CursorDirection(float32(mx), float32(my), float32(winW), float32(winH), inv, v.center, v.cfg.Sphere.Radius)
}

func (v *Viewer) render(seconds float32) {
	viewProj := v.camera.ViewProjection(v.renderer.Aspect())

	v.renderer.Begin()
	v.renderer.DrawGuide(viewProj)
	if v.overlay != nil {
		v.overlay.Draw(viewProj, seconds)
	}
}

func (v *Viewer) updateTitle() {
	m := v.ctrl.Machine()
	switch m.State {
	case selection.Selecting:
		v.window.SetTitle(title + " - selecting (right click to send, Esc to cancel)")
	case selection.Processing:
		v.window.SetTitle(title + " - sending " + m.Selected.String())
	default:
		v.window.SetTitle(title + " - Tab to select a face")
	}
}

// Close releases GL and window resources.
func (v *Viewer) Close() {
	if v.overlay != nil {
		v.overlay.Delete()
	}
	if v.renderer != nil {
		v.renderer.Close()
	}
	if v.window != nil {
		v.window.Close()
	}
}

// Compile-time check that the surface can be driven by the controller.
var _ selection.Highlighter = (*highlight.Surface)(nil)

// Compile-time check that the handoff client is a dispatcher.
var _ selection.Dispatcher = (*handoff.Client)(nil)
