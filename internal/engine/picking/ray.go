// Package picking turns cursor positions into viewer-local directions on
// the panorama sphere.
package picking

import (
	gomath "math"

	"github.com/Faultbox/panoselect/pkg/math"
)

// Ray represents a ray in 3D space with origin and direction.
type Ray struct {
	Origin    math.Vec3
	Direction math.Vec3 // Normalized
}

// ScreenToRay converts screen coordinates to a world-space ray.
// screenX, screenY are pixel coordinates, viewportW/H are viewport dimensions.
// invViewProj is the inverse of the view-projection matrix.
func ScreenToRay(screenX, screenY, viewportW, viewportH float32, invViewProj math.Mat4) Ray {
	// Normalized device coords (-1 to 1)
	ndcX := 2.0*screenX/viewportW - 1.0
	ndcY := 1.0 - 2.0*screenY/viewportH // Flip Y

	near := unproject(invViewProj, math.Vec4{ndcX, ndcY, -1.0, 1.0})
	far := unproject(invViewProj, math.Vec4{ndcX, ndcY, 1.0, 1.0})

	return Ray{Origin: near, Direction: far.Sub(near).Normalize()}
}

func unproject(inv math.Mat4, p math.Vec4) math.Vec3 {
	w := inv.MulVec4(p)
	if w[3] != 0 {
		w[0] /= w[3]
		w[1] /= w[3]
		w[2] /= w[3]
	}
	return math.Vec3{X: w[0], Y: w[1], Z: w[2]}
}

// At returns the point at distance t along the ray.
func (r Ray) At(t float32) math.Vec3 {
	return r.Origin.Add(r.Direction.Scale(t))
}

// IntersectSphere returns the nearest non-negative distance at which the
// ray meets the sphere surface. A ray starting inside the sphere returns
// the exit distance.
func (r Ray) IntersectSphere(center math.Vec3, radius float32) (t float32, hit bool) {
	if radius <= 0 || r.Direction.IsZero() {
		return 0, false
	}

	// |O + tD - C|^2 = r^2 with |D| = 1
	oc := r.Origin.Sub(center)
	b := oc.Dot(r.Direction)
	c := oc.Dot(oc) - radius*radius
	disc := b*b - c
	if disc < 0 {
		return 0, false
	}

	sq := float32(gomath.Sqrt(float64(disc)))
	t0 := -b - sq
	t1 := -b + sq
	if t0 >= 0 {
		return t0, true
	}
	if t1 >= 0 {
		return t1, true
	}
	return 0, false
}

// LocalDirection returns the unit direction from the sphere center to p.
func LocalDirection(p, center math.Vec3) math.Vec3 {
	return p.Sub(center).Normalize()
}

// CursorDirection casts a ray through the cursor and returns the
// viewer-local direction of the sphere point under it. ok is false when
// the ray misses the sphere or the viewport is empty.
func CursorDirection(screenX, screenY, viewportW, viewportH float32, invViewProj math.Mat4, center math.Vec3, radius float32) (dir math.Vec3, ok bool) {
	if viewportW <= 0 || viewportH <= 0 {
		return math.Vec3{}, false
	}

	ray := ScreenToRay(screenX, screenY, viewportW, viewportH, invViewProj)
	t, hit := ray.IntersectSphere(center, radius)
	if !hit {
		return math.Vec3{}, false
	}

	dir = LocalDirection(ray.At(t), center)
	return dir, !dir.IsZero()
}
