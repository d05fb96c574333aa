package main

import (
	"context"
	"encoding/json"
	"image/png"
	"io"
	"log"
	"net/http"
	"path"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/gogpu/glview"
	"github.com/gogpu/glview/asset"
)

// maxUploadBytes caps a whole upload batch.
const maxUploadBytes = 512 << 20

// viewerState is the JSON snapshot pushed to connected browsers.
type viewerState struct {
	Models []string `json:"models"`
	Count  int      `json:"count"`
}

// server wires the viewer to HTTP: page, uploads, state websocket.
type server struct {
	viewer *glview.Viewer
	mux    *http.ServeMux

	upgrader websocket.Upgrader

	clientsMu sync.Mutex
	clients   map[*websocket.Conn]bool
}

func newServer(v *glview.Viewer) *server {
	s := &server{
		viewer:  v,
		mux:     http.NewServeMux(),
		clients: make(map[*websocket.Conn]bool),
		upgrader: websocket.Upgrader{
			// The page and the socket are same-origin in every
			// supported deployment.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
	s.mux.HandleFunc("/", s.serveHome)
	s.mux.HandleFunc("/ws", s.handleWebSocket)
	s.mux.HandleFunc("/upload", s.handleUpload)
	s.mux.HandleFunc("/state", s.handleState)
	s.mux.HandleFunc("/env.png", s.handleEnvPreview)
	return s
}

func (s *server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

func (s *server) state() viewerState {
	names := s.viewer.Registry().Names()
	return viewerState{Models: names, Count: len(names)}
}

func (s *server) serveHome(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	io.WriteString(w, viewerPage)
}

func (s *server) handleState(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(s.state())
}

func (s *server) handleEnvPreview(w http.ResponseWriter, r *http.Request) {
	env := s.viewer.Environment()
	if env == nil {
		http.Error(w, "no environment loaded", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	if err := png.Encode(w, env.Preview(1024, 512)); err != nil {
		log.Printf("encoding environment preview: %v", err)
	}
}

// handleUpload replaces the loaded model set with the uploaded batch:
// clear everything, then load each .glb/.gltf part. Parts with other
// extensions are skipped; individual load failures are reported but do
// not fail the batch.
func (s *server) handleUpload(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "POST only", http.StatusMethodNotAllowed)
		return
	}
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		http.Error(w, "bad multipart form", http.StatusBadRequest)
		return
	}

	reg := s.viewer.Registry()
	reg.ClearAll()

	type pending struct {
		blob   *asset.BlobSource
		handle *glview.LoadHandle
	}
	var loads []pending
	for _, headers := range r.MultipartForm.File {
		for _, fh := range headers {
			if !allowedModelFile(fh.Filename) {
				log.Printf("upload: skipping %s: not a model file", fh.Filename)
				continue
			}
			f, err := fh.Open()
			if err != nil {
				log.Printf("upload: opening %s: %v", fh.Filename, err)
				continue
			}
			data, err := io.ReadAll(f)
			f.Close()
			if err != nil {
				log.Printf("upload: reading %s: %v", fh.Filename, err)
				continue
			}

			blob := asset.NewBlob(fh.Filename, data)
			loads = append(loads, pending{
				blob:   blob,
				handle: reg.LoadModel(r.Context(), blob, fh.Filename),
			})
		}
	}

	failed := 0
	for _, p := range loads {
		if _, err := p.handle.Wait(context.Background()); err != nil {
			failed++
		}
		// The blob served exactly one load; release the bytes.
		p.blob.Revoke()
	}

	s.broadcast()

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]int{
		"loaded": len(loads) - failed,
		"failed": failed,
	})
}

func allowedModelFile(name string) bool {
	switch strings.ToLower(path.Ext(name)) {
	case ".glb", ".gltf":
		return true
	}
	return false
}

func (s *server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("websocket upgrade: %v", err)
		return
	}

	// Push the current state before registering the connection so the
	// initial write never races a broadcast on the same socket.
	conn.SetWriteDeadline(time.Now().Add(broadcastWriteTimeout))
	if err := conn.WriteJSON(s.state()); err != nil {
		conn.Close()
		return
	}

	s.clientsMu.Lock()
	s.clients[conn] = true
	s.clientsMu.Unlock()
	log.Printf("viewer client connected, total: %d", s.clientCount())

	// Reads only detect disconnects; clients never send data.
	go func() {
		defer s.dropClient(conn)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}

func (s *server) dropClient(conn *websocket.Conn) {
	s.clientsMu.Lock()
	if s.clients[conn] {
		delete(s.clients, conn)
		conn.Close()
	}
	s.clientsMu.Unlock()
}

func (s *server) clientCount() int {
	s.clientsMu.Lock()
	defer s.clientsMu.Unlock()
	return len(s.clients)
}

// broadcastWriteTimeout bounds each client write so one stalled
// connection cannot hold up a broadcast.
const broadcastWriteTimeout = 5 * time.Second

// broadcast pushes the current registry state to every client. Writes
// happen outside the client lock so slow consumers never block
// registration or other handlers.
func (s *server) broadcast() {
	state := s.state()

	s.clientsMu.Lock()
	conns := make([]*websocket.Conn, 0, len(s.clients))
	for conn := range s.clients {
		conns = append(conns, conn)
	}
	s.clientsMu.Unlock()

	for _, conn := range conns {
		conn.SetWriteDeadline(time.Now().Add(broadcastWriteTimeout))
		if err := conn.WriteJSON(state); err != nil {
			log.Printf("websocket write: %v", err)
			s.dropClient(conn)
		}
	}
}
