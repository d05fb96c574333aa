package glview

import "github.com/gogpu/glview/scene"

// Transform is an alias for scene.Transform, giving hosts that only
// import the root package a name for the position/rotation/scale state
// carried by every node.
type Transform = scene.Transform

// IdentityTransform returns a transform with zero position, identity
// rotation and unit scale.
func IdentityTransform() Transform { return scene.IdentityTransform() }
