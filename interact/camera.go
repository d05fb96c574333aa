package interact

import "github.com/go-gl/mathgl/mgl32"

// PerspectiveCamera is the viewer camera. It doubles as the source of
// pick rays for drag interaction.
type PerspectiveCamera struct {
	Position mgl32.Vec3
	Target   mgl32.Vec3
	Up       mgl32.Vec3

	// FOV is the vertical field of view in degrees.
	FOV    float32
	Aspect float32
	Near   float32
	Far    float32
}

// NewPerspectiveCamera creates a camera with the usual viewer defaults:
// 45 degree FOV, Y up, looking at the origin.
func NewPerspectiveCamera() *PerspectiveCamera {
	return &PerspectiveCamera{
		Position: mgl32.Vec3{0, 1.6, 3},
		Up:       mgl32.Vec3{0, 1, 0},
		FOV:      45,
		Aspect:   16.0 / 9.0,
		Near:     0.1,
		Far:      1000,
	}
}

// ViewMatrix returns the world-to-camera matrix.
func (c *PerspectiveCamera) ViewMatrix() mgl32.Mat4 {
	return mgl32.LookAtV(c.Position, c.Target, c.Up)
}

// ProjMatrix returns the perspective projection matrix.
func (c *PerspectiveCamera) ProjMatrix() mgl32.Mat4 {
	return mgl32.Perspective(mgl32.DegToRad(c.FOV), c.Aspect, c.Near, c.Far)
}

// Forward returns the normalized view direction.
func (c *PerspectiveCamera) Forward() mgl32.Vec3 {
	return c.Target.Sub(c.Position).Normalize()
}

// PickRay builds a world-space ray through the pixel (x, y) of a
// viewport of the given size. Pixel origin is the top-left corner.
func (c *PerspectiveCamera) PickRay(x, y float64, width, height int) Ray {
	// Pixel to normalized device coordinates. Y flips: NDC is bottom-up.
	nx := float32(2*x/float64(width) - 1)
	ny := float32(1 - 2*y/float64(height))

	inv := c.ProjMatrix().Mul4(c.ViewMatrix()).Inv()

	near := inv.Mul4x1(mgl32.Vec4{nx, ny, -1, 1})
	far := inv.Mul4x1(mgl32.Vec4{nx, ny, 1, 1})
	nearP := near.Vec3().Mul(1 / near.W())
	farP := far.Vec3().Mul(1 / far.W())

	return Ray{
		Origin: nearP,
		Dir:    farP.Sub(nearP).Normalize(),
	}
}
