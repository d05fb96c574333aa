package glview

import (
	"context"
	"fmt"
	"sync"

	"github.com/gogpu/glview/asset"
	"github.com/gogpu/glview/interact"
	"github.com/gogpu/glview/render"
	"github.com/gogpu/glview/scene"
	"github.com/gogpu/glview/xr"
)

// Viewer is the application context of a model viewer: it owns the
// scene graph, the camera and orbit controls, the model registry, and
// the AR session, and drives the per-frame work.
//
// All collaborators are explicit; there is no package-level viewer
// state. Construct one Viewer per rendered view.
type Viewer struct {
	sc       *scene.Scene
	camera   *interact.PerspectiveCamera
	orbit    *interact.OrbitControls
	renderer render.Renderer
	registry *Registry
	session  *xr.Session
	opts     viewerOptions

	mu  sync.Mutex
	env *asset.Environment
}

// NewViewer creates a viewer. Collaborators not supplied through
// options get headless-friendly defaults: a fresh scene, a default
// camera with orbit controls, a GLB loader and a null renderer.
func NewViewer(opts ...ViewerOption) *Viewer {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.scene == nil {
		o.scene = scene.NewScene()
	}
	if o.camera == nil {
		o.camera = interact.NewPerspectiveCamera()
	}
	if o.orbit == nil {
		o.orbit = interact.NewOrbitControls(o.camera)
	}
	if o.renderer == nil {
		o.renderer = &render.NullRenderer{}
	}
	if o.loader == nil {
		o.loader = &asset.GLBLoader{}
	}

	v := &Viewer{
		sc:       o.scene,
		camera:   o.camera,
		orbit:    o.orbit,
		renderer: o.renderer,
		session:  xr.NewSession(),
		opts:     o,
	}
	v.registry = NewRegistry(o.scene, o.loader, func(targets []*scene.Node) DragBinding {
		return interact.NewDragControls(targets, v.camera, v.orbit, o.observer)
	})
	return v
}

// Registry returns the model registry.
func (v *Viewer) Registry() *Registry { return v.registry }

// Scene returns the scene graph.
func (v *Viewer) Scene() *scene.Scene { return v.sc }

// Camera returns the viewer camera.
func (v *Viewer) Camera() *interact.PerspectiveCamera { return v.camera }

// Orbit returns the orbit controls.
func (v *Viewer) Orbit() *interact.OrbitControls { return v.orbit }

// Session returns the AR session state machine.
func (v *Viewer) Session() *xr.Session { return v.session }

// Stereo reports whether the host requested a stereo-capable (VR)
// presentation. Renderer collaborators read it when configuring their
// targets; glview carries no VR session logic of its own.
func (v *Viewer) Stereo() bool { return v.opts.vr }

// PreloadRequired reports whether the host asked for the environment to
// be ready before the first frame. Such hosts block on Preload during
// startup.
func (v *Viewer) PreloadRequired() bool {
	return v.opts.hdrPreload && v.opts.envURL != ""
}

// Controls returns the current drag binding as interact controls, for
// hosts that route pointer events. The binding changes on every
// registry mutation; hosts must re-fetch it rather than cache it.
func (v *Viewer) Controls() *interact.DragControls {
	if d, ok := v.registry.Binding().(*interact.DragControls); ok {
		return d
	}
	return nil
}

// Preload loads the configured environment map, when one was set with
// WithEnvironment. Hosts using WithHDRPreload call this during startup
// and block on it; others may call it at any time or not at all.
func (v *Viewer) Preload(ctx context.Context) error {
	if v.opts.envURL == "" {
		return nil
	}
	return v.LoadEnvironment(ctx, &asset.URLSource{URL: v.opts.envURL, Client: v.opts.httpClient})
}

// LoadEnvironment decodes an HDR environment map from the source and
// installs it. A failed load leaves the previous environment in place.
func (v *Viewer) LoadEnvironment(ctx context.Context, src asset.Source) error {
	env, err := asset.LoadEnvironment(ctx, src)
	if err != nil {
		Logger().Warn("environment load failed", "source", src.Name(), "err", err)
		return &AssetLoadError{Name: "environment", Source: src.Name(), Err: err}
	}

	v.mu.Lock()
	v.env = env
	v.mu.Unlock()
	Logger().Info("environment loaded",
		"source", src.Name(), "width", env.Width, "height", env.Height)
	return nil
}

// Environment returns the loaded environment map, or nil.
func (v *Viewer) Environment() *asset.Environment {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.env
}

// ARSupported reports whether an AR session can be offered. It is false
// when no AR system was configured or the platform lacks support; both
// are silent conditions, not errors.
func (v *Viewer) ARSupported(ctx context.Context) bool {
	return v.opts.arSystem != nil && v.opts.arSystem.Supported(ctx)
}

// EnterAR requests an immersive AR session with hit testing. It fails
// with ErrUnsupportedEnvironment when AR is not offered. While the
// session is active the per-frame work in Advance polls hit tests and
// updates the reticle.
func (v *Viewer) EnterAR(ctx context.Context) error {
	if !v.ARSupported(ctx) {
		return ErrUnsupportedEnvironment
	}
	err := v.session.Request(ctx, v.opts.arSystem, xr.SessionOptions{
		HitTest:    true,
		DOMOverlay: v.opts.domOverlay,
	})
	if err != nil {
		return fmt.Errorf("entering AR: %w", err)
	}
	Logger().Info("AR session started")
	return nil
}

// ExitAR ends the active AR session and resets the state machine so a
// new session can be requested.
func (v *Viewer) ExitAR() error {
	if err := v.session.End(); err != nil {
		return err
	}
	if err := v.session.Reset(); err != nil {
		return err
	}
	Logger().Info("AR session ended")
	return nil
}

// PlaceAtReticle moves the named model onto the AR reticle, mapping a
// select (screen tap or controller trigger) to object placement. It
// reports whether a placement happened.
func (v *Viewer) PlaceAtReticle(name string) bool {
	pose, ok := v.session.Select()
	if !ok {
		return false
	}
	m, ok := v.registry.Model(name)
	if !ok {
		return false
	}

	tr := m.Root.Transform()
	tr.Position = pose.Position
	tr.Rotation = pose.Orientation
	m.Root.SetTransform(tr)
	return true
}

// Advance runs one frame of viewer work: AR frame polling while a
// session is active, then a render of the scene. It must be called from
// a single goroutine, once per display refresh, and never blocks; all
// work is proportional to the number of loaded objects.
func (v *Viewer) Advance() error {
	v.session.Frame()
	return v.renderer.RenderFrame(v.sc, v.camera.ViewMatrix(), v.camera.ProjMatrix())
}
