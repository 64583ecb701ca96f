package math

import (
	"testing"
)

func TestVec3Cross(t *testing.T) {
	x := Vec3{1, 0, 0}
	y := Vec3{0, 1, 0}
	got := x.Cross(y)
	want := Vec3{0, 0, 1}
	if got != want {
		t.Errorf("Vec3.Cross() = %v, want %v", got, want)
	}
}

func TestVec3Normalize(t *testing.T) {
	n := Vec3{3, 4, 12}.Normalize()
	l := n.Length()
	if l < 0.999 || l > 1.001 {
		t.Errorf("Vec3.Normalize().Length() = %v, want ~1", l)
	}

	if z := (Vec3{}).Normalize(); !z.IsZero() {
		t.Errorf("zero vector normalized to %v, want zero", z)
	}
}

func TestVec3Lerp(t *testing.T) {
	a := Vec3{-1, -1, 1}
	b := Vec3{1, -1, 1}

	tests := []struct {
		t    float32
		want Vec3
	}{
		{0, a},
		{1, b},
		{0.5, Vec3{0, -1, 1}},
		{0.25, Vec3{-0.5, -1, 1}},
	}
	for _, tt := range tests {
		if got := a.Lerp(b, tt.t); !got.ApproxEqual(tt.want, 1e-6) {
			t.Errorf("Lerp(%v) = %v, want %v", tt.t, got, tt.want)
		}
	}
}

func TestVec3AbsNegate(t *testing.T) {
	v := Vec3{-2, 3, -0.5}
	if got := v.Abs(); got != (Vec3{2, 3, 0.5}) {
		t.Errorf("Abs() = %v", got)
	}
	if got := v.Negate(); got != (Vec3{2, -3, 0.5}) {
		t.Errorf("Negate() = %v", got)
	}
}

func TestVec3Distance(t *testing.T) {
	got := Vec3{1, 2, 3}.Distance(Vec3{1, 2, 8})
	if got != 5 {
		t.Errorf("Distance() = %v, want 5", got)
	}
}
