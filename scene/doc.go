// Package scene provides a retained 3D scene graph for glview.
//
// A Scene owns a single root Node; loaded models attach their node trees
// under the root. Nodes carry a local Transform (position, rotation,
// scale) and an optional Mesh payload. The graph is deliberately thin:
// rendering, picking and interaction all live in other packages and
// treat a node tree as an opaque handle plus a world transform.
//
// Scenes and nodes are not safe for concurrent mutation; callers that
// mutate the graph from multiple goroutines must synchronize, as the
// registry in the root package does.
package scene
