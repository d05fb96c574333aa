package interact

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/gogpu/glview/scene"
)

// recorder counts drag lifecycle notifications.
type recorder struct {
	starts, moves, ends int
	last                *scene.Node
}

func (r *recorder) DragStart(n *scene.Node) { r.starts++; r.last = n }
func (r *recorder) DragMove(n *scene.Node)  { r.moves++; r.last = n }
func (r *recorder) DragEnd(n *scene.Node)   { r.ends++; r.last = n }

func dragFixture() (*DragControls, *OrbitControls, *recorder, *scene.Node) {
	cam := NewPerspectiveCamera()
	cam.Position = mgl32.Vec3{0, 0, 5}
	cam.Target = mgl32.Vec3{0, 0, 0}

	orbit := NewOrbitControls(cam)
	rec := &recorder{}

	target := scene.NewNode("blade")
	target.SetMesh(&scene.Mesh{PrimitiveCount: 1, BoundingRadius: 1})

	d := NewDragControls([]*scene.Node{target}, cam, orbit, rec)
	d.SetViewport(1280, 720)
	return d, orbit, rec, target
}

func TestDragLifecycle(t *testing.T) {
	d, orbit, rec, target := dragFixture()

	if !d.PointerDown(640, 360) {
		t.Fatal("PointerDown at viewport center should hit the target")
	}
	if d.Dragging() != target {
		t.Errorf("Dragging() = %v, want target", d.Dragging())
	}
	if orbit.Enabled() {
		t.Error("orbit should be disabled while dragging")
	}
	if rec.starts != 1 {
		t.Errorf("starts = %d, want 1", rec.starts)
	}

	d.PointerMove(700, 360)
	if rec.moves != 1 {
		t.Errorf("moves = %d, want 1", rec.moves)
	}
	if target.Transform().Position.X() <= 0 {
		t.Errorf("dragging right should move node +X, position = %v", target.Transform().Position)
	}

	d.PointerUp()
	if rec.ends != 1 {
		t.Errorf("ends = %d, want 1", rec.ends)
	}
	if !orbit.Enabled() {
		t.Error("orbit should be re-enabled after drag end")
	}
	if d.Dragging() != nil {
		t.Error("no node should be active after PointerUp")
	}
}

func TestDragMiss(t *testing.T) {
	d, orbit, rec, _ := dragFixture()

	if d.PointerDown(0, 0) {
		t.Error("PointerDown in the corner should miss")
	}
	if !orbit.Enabled() {
		t.Error("orbit should stay enabled on a miss")
	}
	if rec.starts != 0 {
		t.Errorf("starts = %d, want 0", rec.starts)
	}
}

func TestDragDepthKept(t *testing.T) {
	d, _, _, target := dragFixture()

	d.PointerDown(640, 360)
	d.PointerMove(660, 380)
	d.PointerUp()

	// The drag plane faces the camera through the grab point, so the
	// target's depth must not change.
	if z := target.Transform().Position.Z(); z < -0.01 || z > 1.01 {
		t.Errorf("dragged node z = %v, want near the grab plane", z)
	}
}

func TestDragPicksNearest(t *testing.T) {
	cam := NewPerspectiveCamera()
	cam.Position = mgl32.Vec3{0, 0, 5}
	cam.Target = mgl32.Vec3{0, 0, 0}

	near := scene.NewNode("near")
	near.SetMesh(&scene.Mesh{BoundingRadius: 0.5})
	tr := near.Transform()
	tr.Position = mgl32.Vec3{0, 0, 2}
	near.SetTransform(tr)

	far := scene.NewNode("far")
	far.SetMesh(&scene.Mesh{BoundingRadius: 0.5})

	rec := &recorder{}
	d := NewDragControls([]*scene.Node{far, near}, cam, nil, rec)
	d.SetViewport(1280, 720)

	if !d.PointerDown(640, 360) {
		t.Fatal("PointerDown should hit")
	}
	if d.Dragging() != near {
		t.Errorf("Dragging() = %q, want %q", d.Dragging().Name(), "near")
	}
}

func TestDisposeEndsDrag(t *testing.T) {
	d, orbit, rec, _ := dragFixture()

	d.PointerDown(640, 360)
	d.Dispose()

	if !d.Disposed() {
		t.Error("Disposed() = false after Dispose")
	}
	if !orbit.Enabled() {
		t.Error("Dispose mid-drag must re-enable orbit")
	}
	if rec.ends != 1 {
		t.Errorf("ends = %d, want 1", rec.ends)
	}
	if len(d.Targets()) != 0 {
		t.Errorf("Targets() after dispose has %d entries, want 0", len(d.Targets()))
	}
	if d.PointerDown(640, 360) {
		t.Error("PointerDown on disposed controls should be a no-op")
	}
}

func TestOrbitRotateKeepsRadius(t *testing.T) {
	cam := NewPerspectiveCamera()
	cam.Position = mgl32.Vec3{0, 0, 5}
	cam.Target = mgl32.Vec3{0, 0, 0}
	orbit := NewOrbitControls(cam)

	orbit.Rotate(0.5, 0.2)
	radius := cam.Position.Sub(cam.Target).Len()
	if radius < 4.99 || radius > 5.01 {
		t.Errorf("orbit radius = %v, want 5", radius)
	}
}

func TestOrbitDisabledIgnoresInput(t *testing.T) {
	cam := NewPerspectiveCamera()
	cam.Position = mgl32.Vec3{0, 0, 5}
	orbit := NewOrbitControls(cam)
	orbit.SetEnabled(false)

	before := cam.Position
	orbit.Rotate(1, 1)
	orbit.Zoom(-2)
	if cam.Position != before {
		t.Errorf("disabled orbit moved camera to %v", cam.Position)
	}
}
