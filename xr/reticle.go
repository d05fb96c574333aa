package xr

// Reticle is the placement indicator drawn on the detected real-world
// surface. Its pose is only mutated inside the per-frame callback while
// a session is active.
type Reticle struct {
	// Visible is true while the hit test is tracking a surface.
	Visible bool

	// Pose is the surface pose from the last successful hit test.
	Pose Pose
}
