package scene

// Scene is the retained container for everything currently rendered.
// Model roots attach as direct children of the scene root; the registry
// in the root package mediates membership.
type Scene struct {
	root *Node
}

// NewScene creates an empty scene.
func NewScene() *Scene {
	return &Scene{root: NewNode("root")}
}

// Root returns the scene's root node.
func (s *Scene) Root() *Node { return s.root }

// Add attaches a node tree to the scene root.
func (s *Scene) Add(n *Node) {
	s.root.AddChild(n)
}

// Remove detaches a node tree from the scene root. It is a no-op if the
// node is not a direct child of the root.
func (s *Scene) Remove(n *Node) {
	s.root.RemoveChild(n)
}

// Contains reports whether n is a direct child of the scene root.
func (s *Scene) Contains(n *Node) bool {
	return n != nil && n.parent == s.root
}

// Len returns the number of node trees attached to the scene root.
func (s *Scene) Len() int { return len(s.root.children) }

// NodeCount returns the total number of nodes in the scene, excluding
// the root itself.
func (s *Scene) NodeCount() int { return s.root.Count() - 1 }
