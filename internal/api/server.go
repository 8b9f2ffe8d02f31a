package api

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"time"

	"tutorgo/internal/ui"
	"tutorgo/pkg/version"
)

// NewServer creates and configures the HTTP server. Rendering surfaces
// perform no playback logic of their own; everything they need arrives
// through these endpoints and the state websocket.
func NewServer(addr string, modules *ModuleHandler, pb *PlaybackHandler, geo *GeometryHandler, hub *SyncHub, shutdown func()) *http.Server {
	mux := http.NewServeMux()

	// 1. Health + version
	mux.HandleFunc("GET /health", handleHealth)
	mux.HandleFunc("GET /api/version", handleVersion)

	// 2. Module endpoints
	mux.HandleFunc("GET /api/modules", modules.HandleList)
	mux.HandleFunc("GET /api/modules/{id}", modules.HandleGet)
	mux.HandleFunc("POST /api/modules/import", modules.HandleImport)
	mux.HandleFunc("DELETE /api/modules/{id}", modules.HandleDelete)
	mux.HandleFunc("POST /api/session/load/{id}", modules.HandleLoadSession)

	// 3. Playback endpoints
	mux.HandleFunc("GET /api/playback", pb.HandleSnapshot)
	mux.HandleFunc("POST /api/playback/{op}", pb.HandleOp)

	// 4. Geometry endpoints
	mux.HandleFunc("POST /api/viewport", geo.HandleViewport)
	mux.HandleFunc("POST /api/resolve", geo.HandleResolve)
	mux.HandleFunc("POST /api/click", geo.HandleClick)

	// 5. State websocket for rendering surfaces
	mux.HandleFunc("GET /ws/state", hub.HandleWS)

	// 6. Shutdown endpoint
	mux.HandleFunc("POST /api/shutdown", func(w http.ResponseWriter, r *http.Request) {
		slog.Info("Graceful shutdown initiated via API")
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("Shutting down...")); err != nil {
			slog.Error("Failed to write shutdown response", "error", err)
		}
		// Call shutdown in a goroutine to allow the response to flush
		go func() {
			time.Sleep(100 * time.Millisecond)
			shutdown()
		}()
	})

	// 7. Embedded rendering surface at the root
	distFS, err := fs.Sub(ui.DistFS, "dist")
	if err != nil {
		panic(fmt.Sprintf("Failed to subtree dist from embedded assets: %v", err))
	}
	mux.Handle("/", http.FileServer(&spaFileSystem{root: http.FS(distFS)}))

	return &http.Server{
		Addr:         addr,
		Handler:      withRequestLog(mux),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func handleVersion(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]string{"version": version.Version})
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
}
