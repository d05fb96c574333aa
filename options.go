package glview

import (
	"net/http"

	"github.com/gogpu/glview/interact"
	"github.com/gogpu/glview/render"
	"github.com/gogpu/glview/scene"
	"github.com/gogpu/glview/xr"
)

// ViewerOption configures a Viewer during creation.
//
// The options replace the configuration axis that used to be spread
// over near-identical viewer variants: AR on/off, VR on/off, HDR
// preload, environment source.
//
// Example:
//
//	v := glview.NewViewer(
//	    glview.WithEnvironment("https://example.com/studio.hdr"),
//	    glview.WithAR(arSystem),
//	)
type ViewerOption func(*viewerOptions)

// viewerOptions holds optional configuration for Viewer creation.
type viewerOptions struct {
	scene      *scene.Scene
	camera     *interact.PerspectiveCamera
	orbit      *interact.OrbitControls
	renderer   render.Renderer
	loader     ModelLoader
	observer   interact.DragObserver
	arSystem   xr.System
	vr         bool
	domOverlay bool
	envURL     string
	hdrPreload bool
	httpClient *http.Client
}

// WithScene sets the scene graph the viewer renders into. A fresh scene
// is created when omitted.
func WithScene(sc *scene.Scene) ViewerOption {
	return func(o *viewerOptions) { o.scene = sc }
}

// WithCamera sets the camera and its orbit controls. Defaults are
// created when omitted.
func WithCamera(camera *interact.PerspectiveCamera, orbit *interact.OrbitControls) ViewerOption {
	return func(o *viewerOptions) {
		o.camera = camera
		o.orbit = orbit
	}
}

// WithRenderer sets the renderer collaborator. Defaults to
// render.NullRenderer for headless hosts.
func WithRenderer(r render.Renderer) ViewerOption {
	return func(o *viewerOptions) { o.renderer = r }
}

// WithLoader sets the model loader. Defaults to an asset.GLBLoader.
func WithLoader(l ModelLoader) ViewerOption {
	return func(o *viewerOptions) { o.loader = l }
}

// WithDragObserver registers an observer for drag lifecycle events.
func WithDragObserver(obs interact.DragObserver) ViewerOption {
	return func(o *viewerOptions) { o.observer = obs }
}

// WithAR enables augmented reality through the given session system.
// Without this option, or when the system reports no support, AR is
// silently not offered.
func WithAR(sys xr.System) ViewerOption {
	return func(o *viewerOptions) { o.arSystem = sys }
}

// WithDOMOverlay requests a 2D overlay surface during AR sessions.
func WithDOMOverlay() ViewerOption {
	return func(o *viewerOptions) { o.domOverlay = true }
}

// WithVR marks the viewer as stereo-capable. The flag is advertised to
// the renderer collaborator; glview itself carries no VR session logic.
func WithVR() ViewerOption {
	return func(o *viewerOptions) { o.vr = true }
}

// WithEnvironment sets the URL of the HDR equirectangular environment
// map loaded by Preload.
func WithEnvironment(url string) ViewerOption {
	return func(o *viewerOptions) { o.envURL = url }
}

// WithHDRPreload makes Preload required before the first frame: hosts
// that want the environment visible from frame one call Preload and
// block on it during startup.
func WithHDRPreload() ViewerOption {
	return func(o *viewerOptions) { o.hdrPreload = true }
}

// WithHTTPClient sets the HTTP client used for URL asset sources.
func WithHTTPClient(c *http.Client) ViewerOption {
	return func(o *viewerOptions) { o.httpClient = c }
}

// defaultOptions returns the default viewer options.
func defaultOptions() viewerOptions {
	return viewerOptions{}
}
