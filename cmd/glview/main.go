// Command glview serves a browser-based remote model viewer.
//
// It hosts the viewer page over HTTP, accepts GLB/glTF uploads that
// replace the loaded model set, and pushes registry state to connected
// browsers over a websocket.
package main

import (
	"context"
	"flag"
	"log"
	"log/slog"
	"net/http"
	"os"

	"github.com/gogpu/glview"
	"github.com/gogpu/glview/render"
)

func main() {
	var (
		addr    = flag.String("addr", ":8080", "HTTP listen address")
		envURL  = flag.String("env", "", "URL of an HDR environment map to preload")
		useGPU  = flag.Bool("gpu", false, "render frames on a local GPU adapter")
		verbose = flag.Bool("v", false, "enable debug logging")
	)
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	glview.SetLogger(logger)

	opts := []glview.ViewerOption{}
	if *envURL != "" {
		opts = append(opts, glview.WithEnvironment(*envURL), glview.WithHDRPreload())
	}
	if *useGPU {
		gpu, err := render.OpenGPURenderer()
		if err != nil {
			// Headless hosts keep working with the null renderer.
			log.Printf("GPU renderer unavailable: %v", err)
		} else {
			defer gpu.Close()
			opts = append(opts, glview.WithRenderer(gpu))
		}
	}
	viewer := glview.NewViewer(opts...)

	if viewer.PreloadRequired() {
		if err := viewer.Preload(context.Background()); err != nil {
			// The viewer works without an environment; keep going.
			log.Printf("environment preload failed: %v", err)
		}
	}

	srv := newServer(viewer)
	log.Printf("serving model viewer on http://localhost%s", *addr)
	if err := http.ListenAndServe(*addr, srv); err != nil {
		log.Fatalf("ListenAndServe: %v", err)
	}
}
