package interact

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Ray is a world-space half-line used for picking.
type Ray struct {
	Origin mgl32.Vec3
	Dir    mgl32.Vec3
}

// At returns the point at parameter t along the ray.
func (r Ray) At(t float32) mgl32.Vec3 {
	return r.Origin.Add(r.Dir.Mul(t))
}

// IntersectSphere returns the smallest non-negative ray parameter at
// which the ray hits the sphere, and whether it hits at all.
func (r Ray) IntersectSphere(center mgl32.Vec3, radius float32) (float32, bool) {
	oc := r.Origin.Sub(center)
	b := oc.Dot(r.Dir)
	c := oc.Dot(oc) - radius*radius

	disc := b*b - c
	if disc < 0 {
		return 0, false
	}
	sq := float32(math.Sqrt(float64(disc)))

	t := -b - sq
	if t < 0 {
		t = -b + sq
	}
	if t < 0 {
		return 0, false
	}
	return t, true
}

// IntersectPlane returns the ray parameter at which the ray crosses the
// plane through point with the given normal. Rays parallel to the plane
// or pointing away from it miss.
func (r Ray) IntersectPlane(point, normal mgl32.Vec3) (float32, bool) {
	denom := normal.Dot(r.Dir)
	if math.Abs(float64(denom)) < 1e-7 {
		return 0, false
	}
	t := point.Sub(r.Origin).Dot(normal) / denom
	if t < 0 {
		return 0, false
	}
	return t, true
}
