package cubeface

import (
	"math/rand"
	"testing"

	"github.com/Faultbox/panoselect/pkg/math"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		dir  math.Vec3
		want Face
	}{
		{"+x axis", math.Vec3{X: 1}, PosX},
		{"-x axis", math.Vec3{X: -1}, NegX},
		{"+y axis", math.Vec3{Y: 1}, PosY},
		{"-y axis", math.Vec3{Y: -1}, NegY},
		{"+z axis", math.Vec3{Z: 1}, PosZ},
		{"-z axis", math.Vec3{Z: -1}, NegZ},
		{"dominant x near tie", math.Vec3{X: 0.9, Y: 0.8, Z: 0.1}, PosX},
		{"dominant -y", math.Vec3{X: 0.2, Y: -0.7, Z: 0.3}, NegY},
		{"dominant -z", math.Vec3{X: 0.1, Y: 0.1, Z: -0.95}, NegZ},
		{"x/y tie falls to y", math.Vec3{X: 0.5, Y: 0.5, Z: 0.1}, PosY},
		{"y/z tie falls to z", math.Vec3{X: 0.1, Y: -0.5, Z: -0.5}, NegZ},
		{"x/z tie falls to z", math.Vec3{X: 0.5, Y: 0.1, Z: 0.5}, PosZ},
		{"three-way tie", math.Vec3{X: 1, Y: 1, Z: 1}, PosZ},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Classify(tt.dir); got != tt.want {
				t.Errorf("Classify(%v) = %v, want %v", tt.dir, got, tt.want)
			}
		})
	}
}

func TestClassifyScaleInvariant(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	scales := []float32{0.001, 0.5, 2, 10, 1000}

	for i := 0; i < 2000; i++ {
		d := math.Vec3{
			X: rng.Float32()*2 - 1,
			Y: rng.Float32()*2 - 1,
			Z: rng.Float32()*2 - 1,
		}
		if d.IsZero() {
			continue
		}
		d = d.Normalize()
		want := Classify(d)
		if !want.Valid() {
			t.Fatalf("Classify(%v) returned invalid face %v", d, want)
		}
		for _, k := range scales {
			if got := Classify(d.Scale(k)); got != want {
				t.Fatalf("Classify(%v * %v) = %v, want %v", d, k, got, want)
			}
		}
	}
}
