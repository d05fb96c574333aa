// Package glview is a toolkit for a 3D/AR model viewer.
//
// # Overview
//
// glview owns the set of currently loaded GLB models and keeps the
// pointer-drag interaction layer synchronized with it. The center of
// the package is the Registry: a name-keyed collection of loaded
// models that attaches them to the scene and rebinds the drag-target
// set on every mutation.
//
// # Quick Start
//
//	sc := scene.NewScene()
//	camera := interact.NewPerspectiveCamera()
//	orbit := interact.NewOrbitControls(camera)
//
//	v := glview.NewViewer(
//	    glview.WithScene(sc),
//	    glview.WithCamera(camera, orbit),
//	    glview.WithEnvironment("https://example.com/studio.hdr"),
//	    glview.WithAR(arSystem),
//	)
//
//	h := v.Registry().LoadModel(ctx, asset.FileSource("blade.glb"), "blade")
//	if _, err := h.Wait(ctx); err != nil {
//	    log.Printf("load failed: %v", err)
//	}
//
// # Collaborators
//
// The scene graph, camera and renderer are collaborators the host
// constructs and passes in; glview never creates a window or GPU device
// itself. Hosts with a GPU hand over a render.DeviceHandle; headless
// hosts run on render.NullRenderer.
//
// # Failure model
//
// Model load failures are local: a failed load leaves the registry, the
// scene and every previously loaded model untouched, and is reported
// once to the package logger plus as a typed error on the load handle.
// Absent AR capability is not an error; the feature is simply not
// offered.
package glview
