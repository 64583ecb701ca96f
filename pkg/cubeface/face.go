// Package cubeface addresses the six faces of a cube-mapped sphere.
//
// Faces are identified by the dominant axis and sign of their outward
// normal. The package holds the static per-face tables (corners, normals,
// short codes) and the direction classifier.
package cubeface

import (
	"fmt"

	"github.com/Faultbox/panoselect/pkg/math"
)

// Face identifies one face of the cube. The zero value is None.
type Face uint8

const (
	None Face = iota
	PosX
	NegX
	PosY
	NegY
	PosZ
	NegZ
)

// Count is the number of valid faces.
const Count = 6

// All lists the valid faces in table order.
var All = [Count]Face{PosX, NegX, PosY, NegY, PosZ, NegZ}

// faceInfo is one row of the static face table.
type faceInfo struct {
	name    string
	code    string
	normal  math.Vec3
	corners [4]math.Vec3
}

// table is indexed by Face. Corners are ordered so that (c0,c1) is the
// bottom edge and (c3,c2) the top edge, and cross(c1-c0, c3-c0) points
// along the outward normal.
var table = [Count + 1]faceInfo{
	None: {name: "none"},
	PosX: {
		name:   "+X",
		code:   "r",
		normal: math.Vec3{X: 1},
		corners: [4]math.Vec3{
			{X: 1, Y: -1, Z: 1},
			{X: 1, Y: -1, Z: -1},
			{X: 1, Y: 1, Z: -1},
			{X: 1, Y: 1, Z: 1},
		},
	},
	NegX: {
		name:   "-X",
		code:   "l",
		normal: math.Vec3{X: -1},
		corners: [4]math.Vec3{
			{X: -1, Y: -1, Z: -1},
			{X: -1, Y: -1, Z: 1},
			{X: -1, Y: 1, Z: 1},
			{X: -1, Y: 1, Z: -1},
		},
	},
	PosY: {
		name:   "+Y",
		code:   "u",
		normal: math.Vec3{Y: 1},
		corners: [4]math.Vec3{
			{X: -1, Y: 1, Z: 1},
			{X: 1, Y: 1, Z: 1},
			{X: 1, Y: 1, Z: -1},
			{X: -1, Y: 1, Z: -1},
		},
	},
	NegY: {
		name:   "-Y",
		code:   "d",
		normal: math.Vec3{Y: -1},
		corners: [4]math.Vec3{
			{X: -1, Y: -1, Z: -1},
			{X: 1, Y: -1, Z: -1},
			{X: 1, Y: -1, Z: 1},
			{X: -1, Y: -1, Z: 1},
		},
	},
	PosZ: {
		name:   "+Z",
		code:   "f",
		normal: math.Vec3{Z: 1},
		corners: [4]math.Vec3{
			{X: -1, Y: -1, Z: 1},
			{X: 1, Y: -1, Z: 1},
			{X: 1, Y: 1, Z: 1},
			{X: -1, Y: 1, Z: 1},
		},
	},
	NegZ: {
		name:   "-Z",
		code:   "b",
		normal: math.Vec3{Z: -1},
		corners: [4]math.Vec3{
			{X: 1, Y: -1, Z: -1},
			{X: -1, Y: -1, Z: -1},
			{X: -1, Y: 1, Z: -1},
			{X: 1, Y: 1, Z: -1},
		},
	},
}

// Valid reports whether f is one of the six faces.
func (f Face) Valid() bool {
	return f >= PosX && f <= NegZ
}

// String returns the signed-axis name, e.g. "+X".
func (f Face) String() string {
	if f > NegZ {
		return fmt.Sprintf("Face(%d)", uint8(f))
	}
	return table[f].name
}

// Code returns the single-letter cubemap file suffix for the face
// (r, l, u, d, f, b), or "" for an invalid face.
func (f Face) Code() string {
	if !f.Valid() {
		return ""
	}
	return table[f].code
}

// Normal returns the outward unit normal of the face.
func (f Face) Normal() math.Vec3 {
	if !f.Valid() {
		return math.Vec3{}
	}
	return table[f].normal
}

// Corners returns the face quad in unit-cube coordinates.
func (f Face) Corners() [4]math.Vec3 {
	if !f.Valid() {
		return [4]math.Vec3{}
	}
	return table[f].corners
}

// ParseCode maps a cubemap file suffix back to its face.
func ParseCode(code string) (Face, error) {
	for _, f := range All {
		if table[f].code == code {
			return f, nil
		}
	}
	return None, fmt.Errorf("unknown face code %q", code)
}
