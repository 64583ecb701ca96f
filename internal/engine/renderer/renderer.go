// Package renderer provides the OpenGL frame setup and the sphere guide.
package renderer

import (
	"fmt"
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"
	"go.uber.org/zap"

	"github.com/Faultbox/panoselect/internal/engine/shader"
	"github.com/Faultbox/panoselect/internal/logger"
	"github.com/Faultbox/panoselect/pkg/cubeface"
	"github.com/Faultbox/panoselect/pkg/math"
)

// Config holds renderer configuration.
type Config struct {
	Width  int
	Height int

	// Sphere the guide lines are drawn on.
	Center math.Vec3
	Radius float32
}

// Renderer handles frame setup and draws the face boundaries of the
// panorama sphere so the highlight has something to sit against.
type Renderer struct {
	config Config

	guide      *shader.Program
	guideVAO   uint32
	guideVBO   uint32
	guideCount int32
}

// guideSegments is the number of line segments per cube edge.
const guideSegments = 32

// New creates a new renderer.
// IMPORTANT: Must be called AFTER OpenGL context is created!
func New(cfg Config) (*Renderer, error) {
	r := &Renderer{config: cfg}

	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize OpenGL: %w", err)
	}

	logger.Info("OpenGL initialized",
		zap.String("version", gl.GoStr(gl.GetString(gl.VERSION))),
		zap.String("renderer", gl.GoStr(gl.GetString(gl.RENDERER))),
	)

	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LESS)
	gl.Enable(gl.MULTISAMPLE)
	gl.ClearColor(0.06, 0.06, 0.09, 1.0)

	var err error
	r.guide, err = shader.NewProgram(guideVertexShader, guideFragmentShader)
	if err != nil {
		return nil, fmt.Errorf("failed to create guide shader: %w", err)
	}
	r.createGuide()

	gl.Viewport(0, 0, int32(cfg.Width), int32(cfg.Height))
	return r, nil
}

// Close cleans up renderer resources.
func (r *Renderer) Close() {
	logger.Info("closing renderer")
	if r.guideVAO != 0 {
		gl.DeleteVertexArrays(1, &r.guideVAO)
	}
	if r.guideVBO != 0 {
		gl.DeleteBuffers(1, &r.guideVBO)
	}
	if r.guide != nil {
		r.guide.Delete()
	}
}

// Resize handles a framebuffer resize.
func (r *Renderer) Resize(width, height int) {
	r.config.Width = width
	r.config.Height = height
	gl.Viewport(0, 0, int32(width), int32(height))
	logger.Debug("renderer resized",
		zap.Int("width", width),
		zap.Int("height", height),
	)
}

// Aspect returns the framebuffer aspect ratio.
func (r *Renderer) Aspect() float32 {
	if r.config.Height == 0 {
		return 1
	}
	return float32(r.config.Width) / float32(r.config.Height)
}

// Begin starts a new frame.
func (r *Renderer) Begin() {
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
}

// DrawGuide draws the face boundary lines.
func (r *Renderer) DrawGuide(viewProj math.Mat4) {
	r.guide.Use()
	gl.UniformMatrix4fv(r.guide.Uniform("uViewProj"), 1, false, viewProj.Ptr())

	gl.BindVertexArray(r.guideVAO)
	gl.DrawArrays(gl.LINES, 0, r.guideCount)
	gl.BindVertexArray(0)
}

func (r *Renderer) createGuide() {
	vertices := GuideLines(r.config.Center, r.config.Radius, guideSegments)

	gl.GenVertexArrays(1, &r.guideVAO)
	gl.BindVertexArray(r.guideVAO)

	gl.GenBuffers(1, &r.guideVBO)
	gl.BindBuffer(gl.ARRAY_BUFFER, r.guideVBO)
	gl.BufferData(gl.ARRAY_BUFFER, len(vertices)*4, unsafe.Pointer(&vertices[0]), gl.STATIC_DRAW)

	gl.VertexAttribPointerWithOffset(0, 3, gl.FLOAT, false, 3*4, 0)
	gl.EnableVertexAttribArray(0)

	gl.BindVertexArray(0)
	r.guideCount = int32(len(vertices) / 3)
}

// GuideLines returns line-list positions (x,y,z per vertex) tracing every
// face border of the cube projected onto the sphere. Shared edges are
// emitted once per face.
func GuideLines(center math.Vec3, radius float32, segments int) []float32 {
	if segments < 1 {
		segments = 1
	}
	out := make([]float32, 0, cubeface.Count*4*segments*2*3)
	for _, face := range cubeface.All {
		c := face.Corners()
		for i := 0; i < 4; i++ {
			a, b := c[i], c[(i+1)%4]
			for s := 0; s < segments; s++ {
				p0 := onSphere(a.Lerp(b, float32(s)/float32(segments)), center, radius)
				p1 := onSphere(a.Lerp(b, float32(s+1)/float32(segments)), center, radius)
				out = append(out, p0.X, p0.Y, p0.Z, p1.X, p1.Y, p1.Z)
			}
		}
	}
	return out
}

func onSphere(p, center math.Vec3, radius float32) math.Vec3 {
	return center.Add(p.Normalize().Scale(radius))
}

const guideVertexShader = `#version 410 core

layout(location = 0) in vec3 aPosition;

uniform mat4 uViewProj;

void main() {
    gl_Position = uViewProj * vec4(aPosition, 1.0);
}
`

const guideFragmentShader = `#version 410 core

out vec4 FragColor;

void main() {
    FragColor = vec4(0.45, 0.45, 0.5, 1.0);
}
`
