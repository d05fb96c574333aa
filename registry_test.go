package glview

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"testing"

	"github.com/gogpu/glview/asset"
	"github.com/gogpu/glview/scene"
)

// stubLoader fabricates a fresh node tree per load and fails for names
// listed in fail.
type stubLoader struct {
	fail map[string]error
}

func (l *stubLoader) Load(ctx context.Context, src asset.Source, name string) (*scene.Node, error) {
	if err := l.fail[name]; err != nil {
		return nil, err
	}
	root := scene.NewNode(name)
	root.SetMesh(&scene.Mesh{PrimitiveCount: 1, BoundingRadius: 1})
	return root, nil
}

// fakeBinding records the target list it was constructed over.
type fakeBinding struct {
	targets  []*scene.Node
	disposed bool
}

func (b *fakeBinding) Targets() []*scene.Node { return b.targets }
func (b *fakeBinding) Dispose()               { b.disposed = true }

// bindingLog captures every binding a registry constructs.
type bindingLog struct {
	mu  sync.Mutex
	all []*fakeBinding
}

func (l *bindingLog) factory(targets []*scene.Node) DragBinding {
	b := &fakeBinding{targets: append([]*scene.Node(nil), targets...)}
	l.mu.Lock()
	l.all = append(l.all, b)
	l.mu.Unlock()
	return b
}

func (l *bindingLog) count() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.all)
}

func newTestRegistry(fail map[string]error) (*Registry, *scene.Scene, *bindingLog) {
	sc := scene.NewScene()
	log := &bindingLog{}
	r := NewRegistry(sc, &stubLoader{fail: fail}, log.factory)
	return r, sc, log
}

func mustLoad(t *testing.T, r *Registry, name string) *LoadedModel {
	t.Helper()
	m, err := r.LoadModel(context.Background(), asset.NewBlob(name+".glb", nil), name).Wait(context.Background())
	if err != nil {
		t.Fatalf("LoadModel(%q) error = %v", name, err)
	}
	return m
}

// targetSet converts a node list into an identity set.
func targetSet(nodes []*scene.Node) map[*scene.Node]bool {
	set := make(map[*scene.Node]bool, len(nodes))
	for _, n := range nodes {
		set[n] = true
	}
	return set
}

// assertInvariant checks that the drag-target set equals exactly the
// root nodes of all draggable registry entries.
func assertInvariant(t *testing.T, r *Registry) {
	t.Helper()
	targets := targetSet(r.DragTargets())

	want := 0
	for _, name := range r.Names() {
		m, _ := r.Model(name)
		if !m.Draggable {
			continue
		}
		want++
		if !targets[m.Root] {
			t.Errorf("draggable model %q missing from drag targets", name)
		}
	}
	if len(targets) != want {
		t.Errorf("drag-target set has %d entries, want %d", len(targets), want)
	}
}

func TestNewRegistryBindsEmpty(t *testing.T) {
	r, _, log := newTestRegistry(nil)
	if got := len(r.DragTargets()); got != 0 {
		t.Errorf("initial DragTargets() has %d entries, want 0", got)
	}
	if log.count() != 1 {
		t.Errorf("bindings constructed = %d, want 1 (initial empty binding)", log.count())
	}
}

func TestLoadThreeModels(t *testing.T) {
	r, sc, _ := newTestRegistry(nil)

	for _, name := range []string{"blade", "frame", "handguard"} {
		mustLoad(t, r, name)
	}

	if r.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", r.Len())
	}
	if sc.Len() != 3 {
		t.Errorf("scene has %d trees, want 3", sc.Len())
	}

	targets := targetSet(r.DragTargets())
	for _, name := range []string{"blade", "frame", "handguard"} {
		m, ok := r.Model(name)
		if !ok {
			t.Fatalf("Model(%q) missing", name)
		}
		if !m.Draggable {
			t.Errorf("model %q should be draggable", name)
		}
		if !targets[m.Root] {
			t.Errorf("drag targets missing root of %q", name)
		}
		if !sc.Contains(m.Root) {
			t.Errorf("scene should contain root of %q", name)
		}
	}
	if len(targets) != 3 {
		t.Errorf("drag-target set has %d entries, want 3", len(targets))
	}
	assertInvariant(t, r)
}

func TestRebindReflectsSizeAtCallTime(t *testing.T) {
	r, _, _ := newTestRegistry(nil)

	for i, name := range []string{"a", "b", "c", "d"} {
		mustLoad(t, r, name)
		if got := len(r.DragTargets()); got != i+1 {
			t.Errorf("after %d loads DragTargets() has %d entries, want %d", i+1, got, i+1)
		}
	}
	r.RebindDragTargets()
	if got := len(r.DragTargets()); got != 4 {
		t.Errorf("after explicit rebind DragTargets() has %d entries, want 4", got)
	}
}

func TestClearAll(t *testing.T) {
	r, sc, _ := newTestRegistry(nil)

	blade := mustLoad(t, r, "blade")
	mustLoad(t, r, "frame")

	r.ClearAll()
	if r.Len() != 0 {
		t.Errorf("Len() after ClearAll = %d, want 0", r.Len())
	}
	if sc.Len() != 0 {
		t.Errorf("scene has %d trees after ClearAll, want 0", sc.Len())
	}
	if got := len(r.DragTargets()); got != 0 {
		t.Errorf("DragTargets() after ClearAll has %d entries, want 0", got)
	}
	if sc.Contains(blade.Root) {
		t.Error("cleared model root should be detached from the scene")
	}
	if _, ok := r.Model("blade"); ok {
		t.Error("cleared model should be absent from the registry")
	}

	// Idempotence: a second ClearAll produces the same empty state.
	r.ClearAll()
	if r.Len() != 0 || len(r.DragTargets()) != 0 || sc.Len() != 0 {
		t.Error("double ClearAll should leave the same empty state")
	}
}

func TestDuplicateNameReplaces(t *testing.T) {
	r, sc, _ := newTestRegistry(nil)

	first := mustLoad(t, r, "blade")
	second := mustLoad(t, r, "blade")

	if r.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", r.Len())
	}
	m, _ := r.Model("blade")
	if m.Root != second.Root {
		t.Error("registry entry should map to the second object")
	}
	if sc.Contains(first.Root) {
		t.Error("superseded root should be detached from the scene")
	}
	if !sc.Contains(second.Root) {
		t.Error("replacement root should be in the scene")
	}
	if sc.Len() != 1 {
		t.Errorf("scene has %d trees, want 1", sc.Len())
	}
	targets := targetSet(r.DragTargets())
	if targets[first.Root] {
		t.Error("stale root must not remain enrolled as a drag target")
	}
	if !targets[second.Root] {
		t.Error("replacement root should be a drag target")
	}
}

func TestLoadFailure(t *testing.T) {
	cause := errors.New("malformed chunk header")
	r, sc, _ := newTestRegistry(map[string]error{"broken": cause})

	var buf bytes.Buffer
	SetLogger(slog.New(slog.NewTextHandler(&buf, nil)))
	defer SetLogger(nil)

	mustLoad(t, r, "blade")

	_, err := r.LoadModel(context.Background(), asset.NewBlob("broken.glb", nil), "broken").Wait(context.Background())
	if err == nil {
		t.Fatal("failing load should report an error")
	}
	var ale *AssetLoadError
	if !errors.As(err, &ale) {
		t.Fatalf("error = %T, want *AssetLoadError", err)
	}
	if ale.Name != "broken" || !errors.Is(err, cause) {
		t.Errorf("AssetLoadError = %+v, want name %q wrapping cause", ale, "broken")
	}

	// Registry state is untouched by the failure.
	if r.Len() != 1 {
		t.Errorf("Len() = %d, want 1", r.Len())
	}
	if sc.Len() != 1 {
		t.Errorf("scene has %d trees, want 1", sc.Len())
	}
	assertInvariant(t, r)

	if got := strings.Count(buf.String(), "model load failed"); got != 1 {
		t.Errorf("failure diagnostic emitted %d times, want exactly 1", got)
	}
}

func TestLoadEmptyName(t *testing.T) {
	r, _, _ := newTestRegistry(nil)
	_, err := r.LoadModel(context.Background(), asset.NewBlob("x.glb", nil), "").Wait(context.Background())
	if !errors.Is(err, ErrEmptyName) {
		t.Errorf("LoadModel with empty name error = %v, want ErrEmptyName", err)
	}
	if r.Len() != 0 {
		t.Errorf("Len() = %d, want 0", r.Len())
	}
}

func TestRoundTrip(t *testing.T) {
	r, sc, _ := newTestRegistry(nil)

	m := mustLoad(t, r, "blade")
	r.ClearAll()

	if _, ok := r.Model("blade"); ok {
		t.Error("model should be absent from the registry after ClearAll")
	}
	if targetSet(r.DragTargets())[m.Root] {
		t.Error("model root should be absent from the drag-target set")
	}
	if sc.Contains(m.Root) {
		t.Error("model root should be detached from the scene")
	}
}

func TestRebindDisposesPreviousBinding(t *testing.T) {
	r, _, log := newTestRegistry(nil)

	mustLoad(t, r, "blade")
	mustLoad(t, r, "frame")
	r.ClearAll()

	log.mu.Lock()
	defer log.mu.Unlock()
	// Every binding but the newest must be disposed.
	for i, b := range log.all[:len(log.all)-1] {
		if !b.disposed {
			t.Errorf("binding %d not disposed on rebind", i)
		}
	}
	if last := log.all[len(log.all)-1]; last.disposed {
		t.Error("current binding should not be disposed")
	}
}

func TestConcurrentLoads(t *testing.T) {
	r, _, _ := newTestRegistry(nil)

	const n = 16
	handles := make([]*LoadHandle, n)
	for i := 0; i < n; i++ {
		name := fmt.Sprintf("model-%02d", i)
		handles[i] = r.LoadModel(context.Background(), asset.NewBlob(name+".glb", nil), name)
	}
	for i, h := range handles {
		if _, err := h.Wait(context.Background()); err != nil {
			t.Fatalf("load %d error = %v", i, err)
		}
	}

	if r.Len() != n {
		t.Errorf("Len() = %d, want %d", r.Len(), n)
	}
	if got := len(r.DragTargets()); got != n {
		t.Errorf("DragTargets() has %d entries, want %d", got, n)
	}
	assertInvariant(t, r)
}

func TestLoadHandleWaitCanceled(t *testing.T) {
	// A loader that never completes on its own.
	block := make(chan struct{})
	r := NewRegistry(scene.NewScene(), blockingLoader{block}, (&bindingLog{}).factory)
	defer close(block)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	h := r.LoadModel(context.Background(), asset.NewBlob("slow.glb", nil), "slow")
	if _, err := h.Wait(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("Wait() with canceled context = %v, want context.Canceled", err)
	}
}

type blockingLoader struct{ block chan struct{} }

func (l blockingLoader) Load(ctx context.Context, src asset.Source, name string) (*scene.Node, error) {
	<-l.block
	return scene.NewNode(name), nil
}
