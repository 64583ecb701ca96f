package cubeface

import "github.com/Faultbox/panoselect/pkg/math"

// Classify returns the face whose outward normal is most nearly parallel
// to d. Axes are checked in x, y, z order with strict comparisons, so a
// tie on the leading axes falls through to the later one. The result is
// independent of the length of d. A zero vector is not a direction; it
// classifies as NegZ.
func Classify(d math.Vec3) Face {
	a := d.Abs()

	switch {
	case a.X > a.Y && a.X > a.Z:
		if d.X > 0 {
			return PosX
		}
		return NegX
	case a.Y > a.Z:
		if d.Y > 0 {
			return PosY
		}
		return NegY
	default:
		if d.Z > 0 {
			return PosZ
		}
		return NegZ
	}
}
