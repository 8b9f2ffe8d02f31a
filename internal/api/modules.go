package api

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"tutorgo/pkg/playback"
	"tutorgo/pkg/store"
)

// maxImportSize bounds the accepted module document size.
const maxImportSize = 4 << 20

// ModuleHandler exposes stored tutorial modules and session loading.
type ModuleHandler struct {
	store   store.ModuleStore
	machine *playback.Machine
}

// NewModuleHandler creates a new module handler.
func NewModuleHandler(st store.ModuleStore, m *playback.Machine) *ModuleHandler {
	return &ModuleHandler{store: st, machine: m}
}

// HandleList handles GET /api/modules.
func (h *ModuleHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	sums, err := h.store.ListModules(r.Context())
	if err != nil {
		slog.Error("Failed to list modules", "error", err)
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	if sums == nil {
		sums = []store.ModuleSummary{}
	}
	writeJSON(w, sums)
}

// HandleGet handles GET /api/modules/{id}.
func (h *ModuleHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	mod, err := h.store.GetModule(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	writeJSON(w, mod)
}

// HandleImport handles POST /api/modules/import with a YAML body.
func (h *ModuleHandler) HandleImport(w http.ResponseWriter, r *http.Request) {
	sqlStore, ok := h.store.(*store.SQLiteStore)
	if !ok {
		writeError(w, http.StatusNotImplemented, errors.New("import not supported by this store"))
		return
	}

	data, err := io.ReadAll(io.LimitReader(r.Body, maxImportSize))
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	mod, err := sqlStore.ImportBytes(r.Context(), data)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	slog.Info("Module imported", "id", mod.ID, "title", mod.Title,
		"annotations", len(mod.Annotations), "events", len(mod.Events))
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(mod)
}

// HandleDelete handles DELETE /api/modules/{id}.
func (h *ModuleHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.store.DeleteModule(r.Context(), r.PathValue("id")); err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleLoadSession handles POST /api/session/load/{id}: loads a module into
// the playback machine and resets to idle.
func (h *ModuleHandler) HandleLoadSession(w http.ResponseWriter, r *http.Request) {
	mod, err := h.store.GetModule(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	st := h.machine.LoadModule(mod)
	slog.Info("Session loaded", "module", mod.ID, "steps", len(st.Steps))
	writeJSON(w, st)
}

func statusFor(err error) int {
	if errors.Is(err, store.ErrNotFound) {
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}
