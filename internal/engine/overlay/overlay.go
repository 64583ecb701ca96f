// Package overlay draws the face highlight on the GPU.
package overlay

import (
	gomath "math"
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"

	"github.com/Faultbox/panoselect/internal/engine/shader"
	"github.com/Faultbox/panoselect/internal/highlight"
	"github.com/Faultbox/panoselect/pkg/math"
)

// DefaultColor is a translucent blue tint.
var DefaultColor = [4]float32{0.2, 0.55, 1.0, 0.35}

// Overlay owns the vertex, normal and index buffers of the highlight.
// The buffers are allocated once and their contents replaced on Upload.
type Overlay struct {
	program *shader.Program
	vao     uint32
	vbo     uint32
	ebo     uint32

	vertexCap  int // bytes
	indexCap   int // bytes
	indexCount int32
	visible    bool

	Color [4]float32
}

// New compiles the overlay program and allocates empty buffers. A GL
// context must be current.
func New() (*Overlay, error) {
	prog, err := shader.NewProgram(vertexShader, fragmentShader)
	if err != nil {
		return nil, err
	}

	o := &Overlay{program: prog, Color: DefaultColor}

	gl.GenVertexArrays(1, &o.vao)
	gl.BindVertexArray(o.vao)

	gl.GenBuffers(1, &o.vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, o.vbo)
	vertexSize := int32(unsafe.Sizeof(highlight.Vertex{}))

	// Position
	gl.VertexAttribPointerWithOffset(0, 3, gl.FLOAT, false, vertexSize, 0)
	gl.EnableVertexAttribArray(0)
	// Normal
	gl.VertexAttribPointerWithOffset(1, 3, gl.FLOAT, false, vertexSize, 3*4)
	gl.EnableVertexAttribArray(1)
	// TexCoord
	gl.VertexAttribPointerWithOffset(2, 2, gl.FLOAT, false, vertexSize, 6*4)
	gl.EnableVertexAttribArray(2)

	gl.GenBuffers(1, &o.ebo)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, o.ebo)

	gl.BindVertexArray(0)
	return o, nil
}

// Factory returns a highlight.BuffersFactory that creates the overlay and
// passes it to created, so the caller can draw it.
func Factory(created func(*Overlay)) highlight.BuffersFactory {
	return func() (highlight.Buffers, error) {
		o, err := New()
		if err != nil {
			return nil, err
		}
		if created != nil {
			created(o)
		}
		return o, nil
	}
}

// Upload replaces the buffer contents with mesh. Storage only grows; a
// mesh of the same size reuses it.
func (o *Overlay) Upload(mesh *highlight.Mesh) {
	if mesh == nil || len(mesh.Vertices) == 0 || len(mesh.Indices) == 0 {
		o.indexCount = 0
		return
	}

	gl.BindVertexArray(o.vao)

	vertexBytes := len(mesh.Vertices) * int(unsafe.Sizeof(highlight.Vertex{}))
	gl.BindBuffer(gl.ARRAY_BUFFER, o.vbo)
	if vertexBytes > o.vertexCap {
		gl.BufferData(gl.ARRAY_BUFFER, vertexBytes, unsafe.Pointer(&mesh.Vertices[0]), gl.DYNAMIC_DRAW)
		o.vertexCap = vertexBytes
	} else {
		gl.BufferSubData(gl.ARRAY_BUFFER, 0, vertexBytes, unsafe.Pointer(&mesh.Vertices[0]))
	}

	indexBytes := len(mesh.Indices) * 4
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, o.ebo)
	if indexBytes > o.indexCap {
		gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, indexBytes, unsafe.Pointer(&mesh.Indices[0]), gl.DYNAMIC_DRAW)
		o.indexCap = indexBytes
	} else {
		gl.BufferSubData(gl.ELEMENT_ARRAY_BUFFER, 0, indexBytes, unsafe.Pointer(&mesh.Indices[0]))
	}

	o.indexCount = int32(len(mesh.Indices))
	gl.BindVertexArray(0)
}

// SetVisible shows or hides the overlay without touching its buffers.
func (o *Overlay) SetVisible(visible bool) {
	o.visible = visible
}

// Visible reports whether Draw renders anything.
func (o *Overlay) Visible() bool {
	return o.visible && o.indexCount > 0
}

// Draw renders the overlay. seconds drives the pulse animation.
func (o *Overlay) Draw(viewProj math.Mat4, seconds float32) {
	if !o.Visible() {
		return
	}

	o.program.Use()
	gl.UniformMatrix4fv(o.program.Uniform("uViewProj"), 1, false, viewProj.Ptr())
	gl.Uniform4f(o.program.Uniform("uColor"), o.Color[0], o.Color[1], o.Color[2], o.Color[3])
	pulse := 0.5 + 0.5*float32(gomath.Sin(float64(seconds)*3))
	gl.Uniform1f(o.program.Uniform("uPulse"), pulse)

	// Seen from inside the sphere; draw both sides and keep depth intact.
	gl.Disable(gl.CULL_FACE)
	gl.Enable(gl.BLEND)
	gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)
	gl.DepthMask(false)

	gl.BindVertexArray(o.vao)
	gl.DrawElementsWithOffset(gl.TRIANGLES, o.indexCount, gl.UNSIGNED_INT, 0)
	gl.BindVertexArray(0)

	gl.DepthMask(true)
	gl.Disable(gl.BLEND)
}

// Delete releases the GPU resources.
func (o *Overlay) Delete() {
	gl.DeleteBuffers(1, &o.ebo)
	gl.DeleteBuffers(1, &o.vbo)
	gl.DeleteVertexArrays(1, &o.vao)
	o.program.Delete()
	o.indexCount = 0
}
