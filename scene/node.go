package scene

import "github.com/go-gl/mathgl/mgl32"

// Mesh is the renderable payload of a node. The scene graph does not
// interpret vertex data; it only tracks enough geometry metadata for
// picking (a bounding sphere) and diagnostics (primitive count).
type Mesh struct {
	// PrimitiveCount is the number of primitives in the mesh.
	PrimitiveCount int

	// BoundingRadius is the radius of the mesh bounding sphere in
	// local space, used by ray picking. Zero means "unknown"; pickers
	// substitute a default.
	BoundingRadius float32
}

// Node is a single element of the scene graph. A loaded model is a tree
// of nodes whose root is handed to the registry as an opaque handle.
type Node struct {
	name      string
	transform Transform
	mesh      *Mesh

	parent   *Node
	children []*Node
}

// NewNode creates a detached node with an identity transform.
func NewNode(name string) *Node {
	return &Node{name: name, transform: IdentityTransform()}
}

// Name returns the node name.
func (n *Node) Name() string { return n.name }

// Transform returns the node's local transform.
func (n *Node) Transform() Transform { return n.transform }

// SetTransform replaces the node's local transform.
func (n *Node) SetTransform(t Transform) { n.transform = t }

// Mesh returns the node's mesh payload, or nil.
func (n *Node) Mesh() *Mesh { return n.mesh }

// SetMesh attaches a mesh payload to the node.
func (n *Node) SetMesh(m *Mesh) { n.mesh = m }

// Parent returns the node's parent, or nil for a detached or root node.
func (n *Node) Parent() *Node { return n.parent }

// Children returns the node's direct children. The returned slice is the
// node's own; callers must not mutate it.
func (n *Node) Children() []*Node { return n.children }

// AddChild attaches child under n, detaching it from any previous parent
// first. Attaching a node to itself is a no-op.
func (n *Node) AddChild(child *Node) {
	if child == nil || child == n {
		return
	}
	child.Detach()
	child.parent = n
	n.children = append(n.children, child)
}

// RemoveChild detaches child from n. It is a no-op if child is not a
// direct child of n.
func (n *Node) RemoveChild(child *Node) {
	if child == nil || child.parent != n {
		return
	}
	for i, c := range n.children {
		if c == child {
			n.children = append(n.children[:i], n.children[i+1:]...)
			break
		}
	}
	child.parent = nil
}

// Detach removes the node from its parent, if any.
func (n *Node) Detach() {
	if n.parent != nil {
		n.parent.RemoveChild(n)
	}
}

// WorldMatrix returns the node's transform composed with all ancestors.
func (n *Node) WorldMatrix() mgl32.Mat4 {
	m := n.transform.Matrix()
	for p := n.parent; p != nil; p = p.parent {
		m = p.transform.Matrix().Mul4(m)
	}
	return m
}

// WorldPosition returns the node's origin in world space.
func (n *Node) WorldPosition() mgl32.Vec3 {
	m := n.WorldMatrix()
	return mgl32.Vec3{m.At(0, 3), m.At(1, 3), m.At(2, 3)}
}

// Walk visits n and every descendant in depth-first order. The walk
// stops early if visit returns false.
func (n *Node) Walk(visit func(*Node) bool) bool {
	if !visit(n) {
		return false
	}
	for _, c := range n.children {
		if !c.Walk(visit) {
			return false
		}
	}
	return true
}

// Count returns the number of nodes in the subtree rooted at n,
// including n itself.
func (n *Node) Count() int {
	total := 0
	n.Walk(func(*Node) bool { total++; return true })
	return total
}
