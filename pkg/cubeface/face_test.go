package cubeface

import (
	"testing"
)

func TestFaceCodes(t *testing.T) {
	tests := []struct {
		face Face
		code string
		name string
	}{
		{PosX, "r", "+X"},
		{NegX, "l", "-X"},
		{PosY, "u", "+Y"},
		{NegY, "d", "-Y"},
		{PosZ, "f", "+Z"},
		{NegZ, "b", "-Z"},
	}

	for _, tt := range tests {
		if got := tt.face.Code(); got != tt.code {
			t.Errorf("%v.Code() = %q, want %q", tt.face, got, tt.code)
		}
		if got := tt.face.String(); got != tt.name {
			t.Errorf("String() = %q, want %q", got, tt.name)
		}
		parsed, err := ParseCode(tt.code)
		if err != nil {
			t.Fatalf("ParseCode(%q): %v", tt.code, err)
		}
		if parsed != tt.face {
			t.Errorf("ParseCode(%q) = %v, want %v", tt.code, parsed, tt.face)
		}
	}
}

func TestParseCodeUnknown(t *testing.T) {
	for _, code := range []string{"", "x", "R", "rr"} {
		if _, err := ParseCode(code); err == nil {
			t.Errorf("ParseCode(%q) should fail", code)
		}
	}
}

func TestInvalidFace(t *testing.T) {
	if None.Valid() {
		t.Error("None should not be valid")
	}
	if None.Code() != "" {
		t.Errorf("None.Code() = %q, want empty", None.Code())
	}
	if got := Face(42).String(); got != "Face(42)" {
		t.Errorf("Face(42).String() = %q", got)
	}
	if !Face(42).Normal().IsZero() {
		t.Error("invalid face should have a zero normal")
	}
}

// Every face quad must lie on its plane and wind so the edge cross
// product points outward.
func TestCornerTableWinding(t *testing.T) {
	for _, f := range All {
		c := f.Corners()
		n := f.Normal()

		for i, corner := range c {
			if corner.Dot(n) != 1 {
				t.Errorf("%v corner %d = %v not on face plane", f, i, corner)
			}
		}

		edgeU := c[1].Sub(c[0])
		edgeV := c[3].Sub(c[0])
		if edgeU.Cross(edgeV).Dot(n) <= 0 {
			t.Errorf("%v corners wind inward", f)
		}

		// (c0,c1) and (c3,c2) are parallel edges of the quad.
		if c[1].Sub(c[0]) != c[2].Sub(c[3]) {
			t.Errorf("%v bottom and top edges are not parallel", f)
		}
	}
}

func TestNormalsClassifyToOwnFace(t *testing.T) {
	for _, f := range All {
		if got := Classify(f.Normal()); got != f {
			t.Errorf("Classify(%v normal) = %v", f, got)
		}
	}
}

