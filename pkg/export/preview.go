package export

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"os"
	"time"
)

// PreviewServer serves a snapshot directory locally with no-cache
// headers, so a browser tab can sit on the latest export while the user
// keeps rearranging panels.
type PreviewServer struct {
	dir    string
	port   int
	server *http.Server
}

// NewPreviewServer creates a preview server over the snapshot directory.
func NewPreviewServer(dir string, port int) *PreviewServer {
	return &PreviewServer{dir: dir, port: port}
}

// Start starts the server and blocks until stopped.
func (p *PreviewServer) Start() error {
	if _, err := os.Stat(p.dir); os.IsNotExist(err) {
		return fmt.Errorf("snapshot directory does not exist: %s", p.dir)
	}

	mux := http.NewServeMux()
	mux.Handle("/", noCacheMiddleware(http.FileServer(http.Dir(p.dir))))
	mux.HandleFunc("/__preview__/status", p.statusHandler)

	p.server = &http.Server{
		Addr:    fmt.Sprintf(":%d", p.port),
		Handler: mux,
	}

	return p.server.ListenAndServe()
}

// Stop gracefully stops the server.
func (p *PreviewServer) Stop() error {
	if p.server == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return p.server.Shutdown(ctx)
}

// URL returns the server's base URL.
func (p *PreviewServer) URL() string {
	return fmt.Sprintf("http://localhost:%d", p.port)
}

func (p *PreviewServer) statusHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")

	entries, _ := os.ReadDir(p.dir)
	count := 0
	for _, e := range entries {
		if !e.IsDir() {
			count++
		}
	}

	fmt.Fprintf(w, `{"status":"running","port":%d,"dir":%q,"snapshot_count":%d}`,
		p.port, p.dir, count)
}

func noCacheMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "no-store, no-cache, must-revalidate, max-age=0")
		w.Header().Set("Pragma", "no-cache")
		w.Header().Set("Expires", "0")
		next.ServeHTTP(w, r)
	})
}

// FindAvailablePort finds an open port in the given range.
func FindAvailablePort(start, end int) (int, error) {
	for port := start; port <= end; port++ {
		listener, err := net.Listen("tcp", fmt.Sprintf(":%d", port))
		if err == nil {
			listener.Close()
			return port, nil
		}
	}
	return 0, fmt.Errorf("no available port in range %d-%d", start, end)
}
