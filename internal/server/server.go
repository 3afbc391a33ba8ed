// Package server runs the local development server: it serves the site
// root, watches the sources, rebuilds on change, and tells connected
// browsers to reload over a websocket.
package server

import (
	"bytes"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

const debounce = 500 * time.Millisecond

// Run performs an initial build, then serves root on the given port,
// rebuilding via rebuild whenever a source path changes.
func Run(port int, root string, rebuild func() error) error {
	if err := rebuild(); err != nil {
		return fmt.Errorf("initial build failed: %w", err)
	}

	hub := newReloadHub()

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("could not create file watcher: %w", err)
	}
	defer watcher.Close()

	if err := watchSources(watcher, root); err != nil {
		return err
	}
	go watchLoop(watcher, root, hub, rebuild)

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		serveWS(hub, w, r)
	})
	mux.Handle("/", injectReloadScript(http.FileServer(http.Dir(root))))

	addr := fmt.Sprintf(":%d", port)
	slog.Info("serving site", "url", "http://localhost"+addr)
	return http.ListenAndServe(addr, mux)
}

// watchSources registers the source directories plus the site root, which
// holds site.yaml and the section pages. Duplicate registrations are
// filtered out so nested walks stay cheap.
func watchSources(watcher *fsnotify.Watcher, root string) error {
	watched := make(map[string]bool)
	add := func(dir string) {
		dir = filepath.Clean(dir)
		if watched[dir] {
			return
		}
		if err := watcher.Add(dir); err != nil {
			slog.Warn("could not watch directory", "dir", dir, "error", err)
			return
		}
		watched[dir] = true
		slog.Debug("watching", "dir", dir)
	}

	add(root)
	for _, name := range []string{"content", "templates", "static"} {
		dir := filepath.Join(root, name)
		info, err := os.Stat(dir)
		if os.IsNotExist(err) {
			continue
		}
		if err != nil {
			return fmt.Errorf("could not stat %s: %w", dir, err)
		}
		if !info.IsDir() {
			continue
		}
		if err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
			if err != nil {
				return err
			}
			if info.IsDir() {
				add(path)
			}
			return nil
		}); err != nil {
			return fmt.Errorf("failed to watch %s: %w", dir, err)
		}
	}
	return nil
}

// isSource reports whether a change at path should trigger a rebuild.
// The builder writes listing pages and notes/ into the site root, so
// events there must be ignored or every build would schedule the next.
func isSource(root, path string) bool {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return false
	}
	if rel == "site.yaml" {
		return true
	}
	top := strings.SplitN(filepath.ToSlash(rel), "/", 2)[0]
	switch top {
	case "content", "templates", "static":
		return true
	}
	return false
}

func watchLoop(watcher *fsnotify.Watcher, root string, hub *reloadHub, rebuild func() error) {
	var lastBuild time.Time
	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) &&
				!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
				continue
			}
			if !isSource(root, event.Name) {
				continue
			}
			if time.Since(lastBuild) < debounce {
				continue
			}
			// Give editors a moment to finish their save dance.
			time.Sleep(100 * time.Millisecond)

			slog.Info("change detected, rebuilding", "path", event.Name)
			if err := rebuild(); err != nil {
				slog.Error("rebuild failed", "error", err)
			} else {
				hub.broadcast([]byte("reload"))
			}
			lastBuild = time.Now()

		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			slog.Warn("watcher error", "error", err)
		}
	}
}

// injectReloadScript appends the live-reload client to HTML responses.
func injectReloadScript(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
		w.Header().Set("Pragma", "no-cache")
		w.Header().Set("Expires", "0")

		if !strings.HasSuffix(r.URL.Path, ".html") && !strings.HasSuffix(r.URL.Path, "/") {
			next.ServeHTTP(w, r)
			return
		}

		iw := newInterceptingWriter(w)
		next.ServeHTTP(iw, r)

		for key, values := range iw.Header() {
			for _, v := range values {
				w.Header().Add(key, v)
			}
		}

		body := iw.body.Bytes()
		if iw.statusCode != http.StatusOK {
			w.WriteHeader(iw.statusCode)
			w.Write(body)
			return
		}

		injected := bytes.Replace(body, []byte("</body>"), []byte(reloadScript+"</body>"), 1)
		w.Header().Set("Content-Length", fmt.Sprint(len(injected)))
		w.WriteHeader(iw.statusCode)
		w.Write(injected)
	})
}

type interceptingWriter struct {
	http.ResponseWriter
	body       *bytes.Buffer
	statusCode int
	header     http.Header
}

func newInterceptingWriter(w http.ResponseWriter) *interceptingWriter {
	return &interceptingWriter{
		ResponseWriter: w,
		body:           new(bytes.Buffer),
		header:         make(http.Header),
		statusCode:     http.StatusOK,
	}
}

func (iw *interceptingWriter) Header() http.Header         { return iw.header }
func (iw *interceptingWriter) Write(b []byte) (int, error) { return iw.body.Write(b) }
func (iw *interceptingWriter) WriteHeader(code int)        { iw.statusCode = code }

const reloadScript = `
<script>
  (function() {
    let socket = new WebSocket("ws://" + window.location.host + "/ws");
    socket.onmessage = function(event) {
      if (event.data === "reload") {
        window.location.reload();
      }
    };
    socket.onerror = function() {
      console.error("Live reload connection lost. Restart 'plume serve'.");
    };
  })();
</script>
`
