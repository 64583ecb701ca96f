// Package camera provides the first-person panorama camera.
package camera

import (
	gomath "math"

	"github.com/Faultbox/panoselect/pkg/math"
)

// PanoramaCamera sits at the sphere center and looks outward.
type PanoramaCamera struct {
	// Position of the viewer, normally the sphere center
	Position math.Vec3

	// Orientation
	Yaw   float32 // Horizontal angle (radians), 0 looks down -Z
	Pitch float32 // Vertical angle (radians)

	// Vertical field of view (radians)
	FOV    float32
	MinFOV float32
	MaxFOV float32

	Near, Far float32

	// Sensitivity
	DragSensitivity float32
	ZoomSensitivity float32
}

const maxPitch = 1.55 // Just short of straight up/down

// NewPanoramaCamera creates a camera at center with the given field of
// view in degrees. far should exceed the sphere radius.
func NewPanoramaCamera(center math.Vec3, fovDegrees, far float32) *PanoramaCamera {
	return &PanoramaCamera{
		Position:        center,
		FOV:             fovDegrees * gomath.Pi / 180,
		MinFOV:          20 * gomath.Pi / 180,
		MaxFOV:          110 * gomath.Pi / 180,
		Near:            0.1,
		Far:             far,
		DragSensitivity: 0.004,
		ZoomSensitivity: 0.05,
	}
}

// Forward returns the unit view direction.
func (c *PanoramaCamera) Forward() math.Vec3 {
	cp := float32(gomath.Cos(float64(c.Pitch)))
	return math.Vec3{
		X: cp * float32(gomath.Sin(float64(c.Yaw))),
		Y: float32(gomath.Sin(float64(c.Pitch))),
		Z: -cp * float32(gomath.Cos(float64(c.Yaw))),
	}
}

// ViewMatrix returns the view matrix for this camera.
func (c *PanoramaCamera) ViewMatrix() math.Mat4 {
	up := math.Vec3{X: 0, Y: 1, Z: 0}
	return math.LookAt(c.Position, c.Position.Add(c.Forward()), up)
}

// ProjectionMatrix returns the perspective projection for aspect.
func (c *PanoramaCamera) ProjectionMatrix(aspect float32) math.Mat4 {
	return math.Perspective(c.FOV, aspect, c.Near, c.Far)
}

// ViewProjection returns projection * view.
func (c *PanoramaCamera) ViewProjection(aspect float32) math.Mat4 {
	return c.ProjectionMatrix(aspect).Mul(c.ViewMatrix())
}

// HandleDrag turns the camera by a mouse drag delta in pixels.
func (c *PanoramaCamera) HandleDrag(deltaX, deltaY float32) {
	// Scale with zoom so narrow views turn slower
	scale := c.DragSensitivity * c.FOV
	c.Yaw += deltaX * scale
	c.Pitch -= deltaY * scale

	if c.Pitch < -maxPitch {
		c.Pitch = -maxPitch
	}
	if c.Pitch > maxPitch {
		c.Pitch = maxPitch
	}
	c.Yaw = float32(gomath.Remainder(float64(c.Yaw), 2*gomath.Pi))
}

// HandleZoom narrows or widens the field of view.
func (c *PanoramaCamera) HandleZoom(delta float32) {
	c.FOV -= delta * c.FOV * c.ZoomSensitivity
	if c.FOV < c.MinFOV {
		c.FOV = c.MinFOV
	}
	if c.FOV > c.MaxFOV {
		c.FOV = c.MaxFOV
	}
}
