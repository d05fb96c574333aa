package scene

import "github.com/go-gl/mathgl/mgl32"

// Transform holds the position, rotation and scale of a node.
// Interaction handlers (drag, AR placement, controller select) mutate it;
// the registry and the scene graph only read it.
type Transform struct {
	Position mgl32.Vec3
	Rotation mgl32.Quat
	Scale    mgl32.Vec3
}

// IdentityTransform returns a transform with zero position, identity
// rotation and unit scale.
func IdentityTransform() Transform {
	return Transform{
		Rotation: mgl32.QuatIdent(),
		Scale:    mgl32.Vec3{1, 1, 1},
	}
}

// Matrix returns the local transform matrix, composed as
// translation * rotation * scale.
func (t Transform) Matrix() mgl32.Mat4 {
	m := mgl32.Translate3D(t.Position.X(), t.Position.Y(), t.Position.Z())
	m = m.Mul4(t.Rotation.Mat4())
	return m.Mul4(mgl32.Scale3D(t.Scale.X(), t.Scale.Y(), t.Scale.Z()))
}

// Translated returns a copy of the transform moved by delta.
func (t Transform) Translated(delta mgl32.Vec3) Transform {
	t.Position = t.Position.Add(delta)
	return t
}
