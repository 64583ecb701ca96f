package highlight

import (
	"errors"
	"testing"

	"github.com/Faultbox/panoselect/pkg/cubeface"
	"github.com/Faultbox/panoselect/pkg/math"
)

type fakeBuffers struct {
	uploads  int
	last     *Mesh
	visible  bool
	hideCall int
}

func (b *fakeBuffers) Upload(mesh *Mesh) {
	b.uploads++
	b.last = mesh
}

func (b *fakeBuffers) SetVisible(visible bool) {
	if !visible {
		b.hideCall++
	}
	b.visible = visible
}

func TestSurfaceCreatesBuffersOnce(t *testing.T) {
	created := 0
	buf := &fakeBuffers{}
	s, err := NewSurface(math.Vec3{}, 10, 4, func() (Buffers, error) {
		created++
		return buf, nil
	}, nil)
	if err != nil {
		t.Fatalf("NewSurface: %v", err)
	}

	if created != 0 {
		t.Fatal("buffers must not be created before the first Show")
	}

	for _, f := range []cubeface.Face{cubeface.PosX, cubeface.NegY, cubeface.PosZ} {
		if err := s.Show(f); err != nil {
			t.Fatalf("Show(%v): %v", f, err)
		}
	}

	if created != 1 {
		t.Errorf("buffers created %d times, want 1", created)
	}
	if buf.uploads != 3 {
		t.Errorf("got %d uploads, want 3", buf.uploads)
	}
	if buf.last.Face != cubeface.PosZ {
		t.Errorf("last upload for %v, want +Z", buf.last.Face)
	}
	if s.Generations() != 3 {
		t.Errorf("Generations() = %d, want 3", s.Generations())
	}
	if !s.Visible() || !buf.visible {
		t.Error("surface should be visible after Show")
	}
}

func TestSurfaceHide(t *testing.T) {
	buf := &fakeBuffers{}
	s, _ := NewSurface(math.Vec3{}, 10, 2, func() (Buffers, error) { return buf, nil }, nil)

	// Hiding before anything was shown must not touch buffers.
	s.Hide()
	if buf.hideCall != 0 {
		t.Error("Hide before Show reached the buffers")
	}

	if err := s.Show(cubeface.NegX); err != nil {
		t.Fatalf("Show: %v", err)
	}
	s.Hide()

	if s.Visible() || buf.visible {
		t.Error("surface should be hidden")
	}
	if s.Face() != cubeface.None {
		t.Errorf("Face() = %v after Hide, want None", s.Face())
	}

	// Showing again reuses the same buffers.
	if err := s.Show(cubeface.NegX); err != nil {
		t.Fatalf("Show: %v", err)
	}
	if buf.uploads != 2 {
		t.Errorf("got %d uploads, want 2", buf.uploads)
	}
}

func TestSurfaceFactoryError(t *testing.T) {
	boom := errors.New("no gl context")
	s, _ := NewSurface(math.Vec3{}, 10, 2, func() (Buffers, error) { return nil, boom }, nil)

	if err := s.Show(cubeface.PosY); !errors.Is(err, boom) {
		t.Errorf("Show error = %v, want wrapped %v", err, boom)
	}
	if s.Visible() {
		t.Error("surface should stay hidden when buffers cannot be created")
	}
}

func TestNewSurfaceValidation(t *testing.T) {
	if _, err := NewSurface(math.Vec3{}, 1, 0, func() (Buffers, error) { return &fakeBuffers{}, nil }, nil); !errors.Is(err, ErrInvalidSubdivisions) {
		t.Errorf("got %v, want ErrInvalidSubdivisions", err)
	}
	if _, err := NewSurface(math.Vec3{}, 1, 4, nil, nil); err == nil {
		t.Error("expected error for nil factory")
	}
}
