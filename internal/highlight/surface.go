package highlight

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/Faultbox/panoselect/pkg/cubeface"
	"github.com/Faultbox/panoselect/pkg/math"
)

// Buffers is the renderable resource behind a Surface. Upload replaces
// the whole vertex and index contents.
type Buffers interface {
	Upload(mesh *Mesh)
	SetVisible(visible bool)
}

// BuffersFactory creates the Buffers of a Surface on first use.
type BuffersFactory func() (Buffers, error)

// Surface is the single highlight overlay of a viewer. It is not safe for
// concurrent use; the selection loop owns it.
type Surface struct {
	center       math.Vec3
	radius       float32
	subdivisions int

	newBuffers BuffersFactory
	buffers    Buffers

	face        cubeface.Face
	visible     bool
	generations int
	log         *zap.Logger
}

// NewSurface creates a surface for a sphere. No buffers are allocated
// until the first Show.
func NewSurface(center math.Vec3, radius float32, subdivisions int, factory BuffersFactory, log *zap.Logger) (*Surface, error) {
	if subdivisions <= 0 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidSubdivisions, subdivisions)
	}
	if factory == nil {
		return nil, fmt.Errorf("nil buffers factory")
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Surface{
		center:       center,
		radius:       radius,
		subdivisions: subdivisions,
		newBuffers:   factory,
		log:          log,
	}, nil
}

// Show regenerates the patch for face, replaces the buffer contents and
// makes the overlay visible.
func (s *Surface) Show(face cubeface.Face) error {
	mesh, err := Generate(face, s.center, s.radius, s.subdivisions)
	if err != nil {
		return err
	}

	if s.buffers == nil {
		b, err := s.newBuffers()
		if err != nil {
			return fmt.Errorf("creating highlight buffers: %w", err)
		}
		s.buffers = b
		s.log.Debug("highlight buffers created")
	}

	s.buffers.Upload(mesh)
	s.buffers.SetVisible(true)
	s.face = face
	s.visible = true
	s.generations++

	s.log.Debug("highlight regenerated",
		zap.Stringer("face", face),
		zap.Int("vertices", len(mesh.Vertices)),
		zap.Int("triangles", mesh.Triangles()),
	)
	return nil
}

// Hide hides the overlay and forgets the face. The buffers are kept.
func (s *Surface) Hide() {
	if s.buffers != nil && s.visible {
		s.buffers.SetVisible(false)
	}
	s.visible = false
	s.face = cubeface.None
}

// Visible reports whether the overlay is shown.
func (s *Surface) Visible() bool {
	return s.visible
}

// Face returns the face currently shown, or None.
func (s *Surface) Face() cubeface.Face {
	return s.face
}

// Generations returns how many times the patch was regenerated.
func (s *Surface) Generations() int {
	return s.generations
}
