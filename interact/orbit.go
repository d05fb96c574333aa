package interact

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// OrbitToggler is the coupling between drag and orbit gestures: drag
// start disables orbiting, drag end re-enables it.
type OrbitToggler interface {
	SetEnabled(enabled bool)
}

// OrbitControls rotates the camera around its target on a spherical
// shell. Only the pieces the viewer needs are implemented: rotate,
// zoom, and an enabled flag toggled by drag interaction.
type OrbitControls struct {
	camera  *PerspectiveCamera
	enabled bool

	minRadius float32
	maxRadius float32
}

// NewOrbitControls creates orbit controls driving the given camera,
// initially enabled.
func NewOrbitControls(camera *PerspectiveCamera) *OrbitControls {
	return &OrbitControls{
		camera:    camera,
		enabled:   true,
		minRadius: 0.5,
		maxRadius: 100,
	}
}

// Enabled reports whether orbit input is currently applied.
func (o *OrbitControls) Enabled() bool { return o.enabled }

// SetEnabled turns orbit input on or off.
func (o *OrbitControls) SetEnabled(enabled bool) { o.enabled = enabled }

// Rotate orbits the camera by the given azimuth and polar deltas in
// radians. Ignored while disabled.
func (o *OrbitControls) Rotate(dAzimuth, dPolar float32) {
	if !o.enabled {
		return
	}

	offset := o.camera.Position.Sub(o.camera.Target)
	radius := offset.Len()
	if radius == 0 {
		return
	}

	azimuth := float32(math.Atan2(float64(offset.X()), float64(offset.Z())))
	polar := float32(math.Acos(float64(offset.Y() / radius)))

	azimuth += dAzimuth
	polar = clamp(polar+dPolar, 0.01, math.Pi-0.01)

	sinP := float32(math.Sin(float64(polar)))
	o.camera.Position = o.camera.Target.Add(mgl32.Vec3{
		radius * sinP * float32(math.Sin(float64(azimuth))),
		radius * float32(math.Cos(float64(polar))),
		radius * sinP * float32(math.Cos(float64(azimuth))),
	})
}

// Zoom moves the camera along the view direction by delta, clamped to
// the radius limits. Ignored while disabled.
func (o *OrbitControls) Zoom(delta float32) {
	if !o.enabled {
		return
	}

	offset := o.camera.Position.Sub(o.camera.Target)
	radius := clamp(offset.Len()+delta, o.minRadius, o.maxRadius)
	o.camera.Position = o.camera.Target.Add(offset.Normalize().Mul(radius))
}

func clamp(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
