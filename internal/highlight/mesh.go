package highlight

import (
	"errors"
	"fmt"

	"github.com/Faultbox/panoselect/pkg/cubeface"
	"github.com/Faultbox/panoselect/pkg/math"
)

// ErrInvalidSubdivisions is returned for a subdivision factor below 1.
var ErrInvalidSubdivisions = errors.New("subdivisions must be positive")

// Generate builds a patch covering one face of a sphere with the given
// center and radius. The face quad is sampled on an (S+1)x(S+1) grid by
// bilinear interpolation of its corners, and each sample is projected
// onto the sphere. Triangles wind outward; normals are inverted so the
// patch lights as seen from inside the sphere.
func Generate(face cubeface.Face, center math.Vec3, radius float32, subdivisions int) (*Mesh, error) {
	if subdivisions <= 0 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidSubdivisions, subdivisions)
	}
	if !face.Valid() {
		return nil, fmt.Errorf("invalid face %v", face)
	}
	if radius <= 0 {
		return nil, fmt.Errorf("radius must be positive, got %v", radius)
	}

	c := face.Corners()
	side := subdivisions + 1
	step := 1 / float32(subdivisions)

	vertices := make([]Vertex, 0, side*side)
	for y := 0; y < side; y++ {
		v := float32(y) * step
		for x := 0; x < side; x++ {
			u := float32(x) * step

			bottom := c[0].Lerp(c[1], u)
			top := c[3].Lerp(c[2], u)
			point := bottom.Lerp(top, v)

			pos := center.Add(point.Normalize().Scale(radius))
			vertices = append(vertices, Vertex{
				Position: pos.Array(),
				TexCoord: [2]float32{u, v},
			})
		}
	}

	indices := make([]uint32, 0, TriangleCount(subdivisions)*3)
	for y := 0; y < subdivisions; y++ {
		for x := 0; x < subdivisions; x++ {
			a := uint32(y*side + x)
			b := a + 1
			cc := a + uint32(side)
			d := cc + 1

			indices = append(indices,
				a, b, cc,
				b, d, cc,
			)
		}
	}

	computeNormals(vertices, indices)
	invertNormals(vertices)

	return &Mesh{
		Face:         face,
		Subdivisions: subdivisions,
		Vertices:     vertices,
		Indices:      indices,
	}, nil
}

// computeNormals sets each vertex normal to the normalized sum of the
// area-weighted normals of its incident triangles.
func computeNormals(vertices []Vertex, indices []uint32) {
	sums := make([]math.Vec3, len(vertices))

	for i := 0; i+2 < len(indices); i += 3 {
		i0, i1, i2 := indices[i], indices[i+1], indices[i+2]
		p0 := math.FromArray(vertices[i0].Position)
		p1 := math.FromArray(vertices[i1].Position)
		p2 := math.FromArray(vertices[i2].Position)

		n := p1.Sub(p0).Cross(p2.Sub(p0))
		sums[i0] = sums[i0].Add(n)
		sums[i1] = sums[i1].Add(n)
		sums[i2] = sums[i2].Add(n)
	}

	for i := range vertices {
		vertices[i].Normal = sums[i].Normalize().Array()
	}
}

func invertNormals(vertices []Vertex) {
	for i := range vertices {
		vertices[i].Normal = math.FromArray(vertices[i].Normal).Negate().Array()
	}
}
