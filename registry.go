package glview

import (
	"context"
	"sort"
	"sync"

	"github.com/gogpu/glview/asset"
	"github.com/gogpu/glview/scene"
)

// LoadedModel is one entry of the registry: a named, loaded 3D object.
// The registry treats the root node as an opaque handle; transforms are
// mutated by interaction handlers, never by the registry itself.
type LoadedModel struct {
	// Name is the unique registry key.
	Name string

	// Root is the root of the loaded node tree.
	Root *scene.Node

	// Draggable marks the model as eligible for pointer dragging. All
	// models added through the standard load path are draggable.
	Draggable bool
}

// ModelLoader decodes an asset source into a scene node tree.
// asset.GLBLoader is the standard implementation.
type ModelLoader interface {
	Load(ctx context.Context, src asset.Source, name string) (*scene.Node, error)
}

// DragBinding is the interaction-layer handle over a fixed target list.
// interact.DragControls implements it; tests substitute fakes.
type DragBinding interface {
	// Targets returns the bound target nodes.
	Targets() []*scene.Node

	// Dispose releases the binding. A disposed binding ignores input.
	Dispose()
}

// BindingFactory constructs a new drag binding over targets. The
// factory captures whatever else the interaction layer needs (camera,
// orbit controls, observer).
type BindingFactory func(targets []*scene.Node) DragBinding

// Registry owns the set of currently loaded models, mediates scene
// membership, and keeps the drag-target binding synchronized with the
// collection.
//
// Invariants:
//   - name keys are unique; loading under an existing name replaces the
//     entry and detaches the superseded node tree from the scene
//   - after any settled mutation the drag-target set equals exactly the
//     root nodes of all draggable entries
//
// Registry is safe for concurrent use. Loads run asynchronously and may
// complete in any order; each completion performs its insert-and-rebind
// step atomically under the registry lock.
type Registry struct {
	mu      sync.Mutex
	scene   *scene.Scene
	loader  ModelLoader
	factory BindingFactory
	models  map[string]*LoadedModel
	binding DragBinding
}

// NewRegistry creates a registry over the given scene. The initial drag
// binding is constructed immediately, over an empty collection.
func NewRegistry(sc *scene.Scene, loader ModelLoader, factory BindingFactory) *Registry {
	r := &Registry{
		scene:   sc,
		loader:  loader,
		factory: factory,
		models:  make(map[string]*LoadedModel),
	}
	r.binding = factory(nil)
	return r
}

// LoadHandle is the typed result of an asynchronous model load.
type LoadHandle struct {
	done  chan struct{}
	model *LoadedModel
	err   error
}

// Done returns a channel closed when the load has settled.
func (h *LoadHandle) Done() <-chan struct{} { return h.done }

// Wait blocks until the load settles or the context is done, and
// returns the loaded model or the load error.
func (h *LoadHandle) Wait(ctx context.Context) (*LoadedModel, error) {
	select {
	case <-h.done:
		return h.model, h.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func settledHandle(err error) *LoadHandle {
	h := &LoadHandle{done: make(chan struct{}), err: err}
	close(h.done)
	return h
}

// LoadModel starts an asynchronous load of a model from source under
// the given name.
//
// On success the model is inserted into the registry, attached to the
// scene, flagged draggable, and the drag-target binding is rebuilt over
// the updated collection. A load under an existing name replaces that
// entry; the superseded node tree is detached from the scene first.
//
// On failure nothing changes: the error is reported once to the package
// logger and returned from the handle. There is no retry; the caller
// re-initiates the load if desired. A failed load never affects other
// entries.
func (r *Registry) LoadModel(ctx context.Context, src asset.Source, name string) *LoadHandle {
	if name == "" {
		return settledHandle(ErrEmptyName)
	}

	h := &LoadHandle{done: make(chan struct{})}
	go func() {
		defer close(h.done)

		root, err := r.loader.Load(ctx, src, name)
		if err != nil {
			h.err = &AssetLoadError{Name: name, Source: src.Name(), Err: err}
			Logger().Warn("model load failed",
				"name", name, "source", src.Name(), "err", err)
			return
		}
		h.model = r.insert(name, root)
		Logger().Info("model loaded",
			"name", name, "source", src.Name(), "nodes", root.Count())
	}()
	return h
}

// insert installs a loaded node tree under name and rebinds the drag
// targets. It is the atomic mutation step shared by all completions.
func (r *Registry) insert(name string, root *scene.Node) *LoadedModel {
	r.mu.Lock()
	defer r.mu.Unlock()

	// Replace-with-cleanup on duplicate names: the superseded object
	// leaves the scene before the new entry lands, so a duplicate load
	// can never leak a stale render-graph object.
	if old, ok := r.models[name]; ok {
		r.scene.Remove(old.Root)
	}

	m := &LoadedModel{Name: name, Root: root, Draggable: true}
	r.models[name] = m
	r.scene.Add(root)
	r.rebindLocked()
	return m
}

// ClearAll removes every model from the registry and the scene and
// rebinds the drag targets over an empty collection. Calling it on an
// empty registry is a no-op apart from the (empty) rebind.
func (r *Registry) ClearAll() {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, m := range r.models {
		r.scene.Remove(m.Root)
	}
	clear(r.models)
	r.rebindLocked()
}

// RebindDragTargets disposes the current interaction binding and
// constructs a new one over the registry's draggable values. The
// registry calls this itself after every mutation; it is exported for
// hosts whose interaction layer changed underneath the registry (e.g.
// camera swap on AR session start).
func (r *Registry) RebindDragTargets() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rebindLocked()
}

func (r *Registry) rebindLocked() {
	targets := make([]*scene.Node, 0, len(r.models))
	for _, name := range r.namesLocked() {
		if m := r.models[name]; m.Draggable {
			targets = append(targets, m.Root)
		}
	}

	if r.binding != nil {
		r.binding.Dispose()
	}
	r.binding = r.factory(targets)
	Logger().Debug("drag targets rebound", "targets", len(targets))
}

// Len returns the number of models in the registry.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.models)
}

// Model returns the entry under name, if present.
func (r *Registry) Model(name string) (*LoadedModel, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.models[name]
	return m, ok
}

// Names returns the registered model names in sorted order.
func (r *Registry) Names() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.namesLocked()
}

func (r *Registry) namesLocked() []string {
	names := make([]string, 0, len(r.models))
	for name := range r.models {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// DragTargets returns the nodes currently enrolled in the interaction
// binding.
func (r *Registry) DragTargets() []*scene.Node {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.binding == nil {
		return nil
	}
	return r.binding.Targets()
}

// Binding returns the current interaction binding.
func (r *Registry) Binding() DragBinding {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.binding
}
