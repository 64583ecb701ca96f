// Package highlight builds the overlay patch that marks the targeted face
// of the panorama sphere.
package highlight

import (
	"github.com/Faultbox/panoselect/pkg/cubeface"
)

// DefaultSubdivisions is the grid resolution used for each face patch.
const DefaultSubdivisions = 20

// Vertex is a highlight mesh vertex.
type Vertex struct {
	Position [3]float32
	Normal   [3]float32
	TexCoord [2]float32 // Grid (u, v) in [0,1]
}

// Mesh holds generated patch geometry ready for upload.
type Mesh struct {
	Face         cubeface.Face
	Subdivisions int
	Vertices     []Vertex
	Indices      []uint32
}

// VertexCount returns (S+1)^2 for subdivision factor S.
func VertexCount(subdivisions int) int {
	return (subdivisions + 1) * (subdivisions + 1)
}

// TriangleCount returns 2*S^2 for subdivision factor S.
func TriangleCount(subdivisions int) int {
	return 2 * subdivisions * subdivisions
}

// Triangles returns the number of triangles in the mesh.
func (m *Mesh) Triangles() int {
	return len(m.Indices) / 3
}
