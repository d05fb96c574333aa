package interact

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/gogpu/glview/scene"
)

// DefaultPickRadius is the bounding-sphere radius assumed for nodes
// whose meshes carry no bounds.
const DefaultPickRadius = 0.5

// DragObserver receives typed drag lifecycle notifications.
type DragObserver interface {
	DragStart(n *scene.Node)
	DragMove(n *scene.Node)
	DragEnd(n *scene.Node)
}

// DragControls binds pointer dragging to a fixed list of target nodes.
//
// A DragControls instance is immutable with respect to its target list:
// when the set of draggable objects changes, the registry disposes the
// old instance and constructs a new one. Dispose ends any drag in
// progress and re-enables orbiting.
type DragControls struct {
	targets  []*scene.Node
	camera   *PerspectiveCamera
	orbit    OrbitToggler
	observer DragObserver

	viewportW int
	viewportH int

	active      *scene.Node
	grabOffset  mgl32.Vec3
	planePoint  mgl32.Vec3
	planeNormal mgl32.Vec3

	disposed bool
}

// NewDragControls builds a drag binding over targets. The orbit toggler
// and observer may be nil.
func NewDragControls(targets []*scene.Node, camera *PerspectiveCamera, orbit OrbitToggler, observer DragObserver) *DragControls {
	d := &DragControls{
		targets:   make([]*scene.Node, len(targets)),
		camera:    camera,
		orbit:     orbit,
		observer:  observer,
		viewportW: 1280,
		viewportH: 720,
	}
	copy(d.targets, targets)
	return d
}

// SetViewport sets the pixel size pointer coordinates are relative to.
func (d *DragControls) SetViewport(w, h int) {
	if w > 0 && h > 0 {
		d.viewportW, d.viewportH = w, h
	}
}

// Targets returns a copy of the bound target list.
func (d *DragControls) Targets() []*scene.Node {
	out := make([]*scene.Node, len(d.targets))
	copy(out, d.targets)
	return out
}

// Dragging returns the node currently being dragged, or nil.
func (d *DragControls) Dragging() *scene.Node { return d.active }

// Disposed reports whether the binding has been disposed.
func (d *DragControls) Disposed() bool { return d.disposed }

// PointerDown starts a drag if the pick ray through (x, y) hits one of
// the targets. It returns true when a drag began.
func (d *DragControls) PointerDown(x, y float64) bool {
	if d.disposed || d.active != nil {
		return false
	}

	ray := d.camera.PickRay(x, y, d.viewportW, d.viewportH)

	var hit *scene.Node
	var hitT float32
	for _, n := range d.targets {
		t, ok := ray.IntersectSphere(n.WorldPosition(), pickRadius(n))
		if ok && (hit == nil || t < hitT) {
			hit, hitT = n, t
		}
	}
	if hit == nil {
		return false
	}

	point := ray.At(hitT)
	d.active = hit
	d.grabOffset = hit.WorldPosition().Sub(point)
	d.planePoint = point
	// Drag on a camera-facing plane through the grab point.
	d.planeNormal = d.camera.Forward().Mul(-1)

	if d.orbit != nil {
		d.orbit.SetEnabled(false)
	}
	if d.observer != nil {
		d.observer.DragStart(hit)
	}
	return true
}

// PointerMove advances a drag in progress, translating the active node
// so it follows the pointer on the drag plane.
func (d *DragControls) PointerMove(x, y float64) {
	if d.disposed || d.active == nil {
		return
	}

	ray := d.camera.PickRay(x, y, d.viewportW, d.viewportH)
	t, ok := ray.IntersectPlane(d.planePoint, d.planeNormal)
	if !ok {
		return
	}

	tr := d.active.Transform()
	tr.Position = ray.At(t).Add(d.grabOffset)
	d.active.SetTransform(tr)

	if d.observer != nil {
		d.observer.DragMove(d.active)
	}
}

// PointerUp ends a drag in progress and re-enables orbiting.
func (d *DragControls) PointerUp() {
	if d.active == nil {
		return
	}
	n := d.active
	d.active = nil

	if d.orbit != nil {
		d.orbit.SetEnabled(true)
	}
	if d.observer != nil {
		d.observer.DragEnd(n)
	}
}

// Dispose releases the binding. Any drag in progress ends first so the
// orbit controls are never left disabled.
func (d *DragControls) Dispose() {
	if d.disposed {
		return
	}
	d.PointerUp()
	d.targets = nil
	d.disposed = true
}

// pickRadius returns the bounding-sphere radius for a node tree: the
// largest mesh bound in the subtree, or DefaultPickRadius if none.
func pickRadius(n *scene.Node) float32 {
	var radius float32
	n.Walk(func(c *scene.Node) bool {
		if m := c.Mesh(); m != nil && m.BoundingRadius > radius {
			radius = m.BoundingRadius
		}
		return true
	})
	if radius == 0 {
		return DefaultPickRadius
	}
	return radius
}
