package api

import (
	"encoding/json"
	"fmt"
	"net/http"

	"tutorgo/pkg/geometry"
	"tutorgo/pkg/model"
	"tutorgo/pkg/playback"
	"tutorgo/pkg/transform"
)

// GeometryHandler serves the positioning contract: viewport reports, batch
// position resolution and exploring-mode click dispatch. Both surfaces call
// the same machine-backed resolver, so identical inputs give identical
// pixels.
type GeometryHandler struct {
	machine *playback.Machine
}

// NewGeometryHandler creates a new geometry handler.
func NewGeometryHandler(m *playback.Machine) *GeometryHandler {
	return &GeometryHandler{machine: m}
}

type viewportRequest struct {
	Natural   geometry.Size `json:"natural"`
	Container geometry.Size `json:"container"`
}

type viewportResponse struct {
	ContentRect *geometry.Rect       `json:"contentRect"` // null ⇒ cannot position yet
	Transform   model.ImageTransform `json:"transform"`
}

// HandleViewport handles POST /api/viewport: a rendering surface reports its
// viewport facts and gets back the shared content rect and live transform.
func (h *GeometryHandler) HandleViewport(w http.ResponseWriter, r *http.Request) {
	var req viewportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("invalid body: %w", err))
		return
	}
	rect := h.machine.SetViewport(req.Natural, req.Container)
	writeJSON(w, viewportResponse{
		ContentRect: rect,
		Transform:   h.machine.Snapshot().Transform,
	})
}

type resolveRequest struct {
	Points []geometry.Point `json:"points"` // percent space
}

type resolveResponse struct {
	Points   []geometry.Point `json:"points"` // final container pixels
	Degraded bool             `json:"degraded,omitempty"`
}

// HandleResolve handles POST /api/resolve: batch percent-to-pixel resolution
// under the current content rect and transform. Surfaces use it to verify
// they agree with their local computation bit for bit.
func (h *GeometryHandler) HandleResolve(w http.ResponseWriter, r *http.Request) {
	var req resolveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("invalid body: %w", err))
		return
	}

	content, container := h.machine.Rects()
	tf := h.machine.Snapshot().Transform

	out := resolveResponse{
		Points:   make([]geometry.Point, len(req.Points)),
		Degraded: content == nil,
	}
	for i, p := range req.Points {
		out.Points[i] = transform.Resolve(p, content, tf, container)
	}
	writeJSON(w, out)
}

type clickRequest struct {
	Point geometry.Point `json:"point"` // container pixels
}

type clickResponse struct {
	HitID string               `json:"hitId,omitempty"`
	State *model.PlaybackState `json:"state,omitempty"`
}

// HandleClick handles POST /api/click: exploring-mode click dispatch. The
// click is hit-tested against the annotations' final on-screen positions;
// a hit fires the hotspot's events immediately.
func (h *GeometryHandler) HandleClick(w http.ResponseWriter, r *http.Request) {
	var req clickRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("invalid body: %w", err))
		return
	}

	mod := h.machine.Module()
	if mod == nil {
		writeError(w, http.StatusConflict, fmt.Errorf("no module loaded"))
		return
	}

	content, container := h.machine.Rects()
	tf := h.machine.Snapshot().Transform

	placed := make([]geometry.Placed, 0, len(mod.Annotations))
	for _, ann := range mod.Annotations {
		placed = append(placed, geometry.Placed{
			ID:     ann.ID,
			Pixel:  transform.Resolve(geometry.Point{X: ann.X, Y: ann.Y}, content, tf, container),
			Radius: ann.Size.HitRadius() * hitScale(tf),
		})
	}

	resp := clickResponse{HitID: geometry.HitTest(req.Point, placed)}
	if resp.HitID != "" {
		st := h.machine.Do(playback.FireHotspot{AnnotationID: resp.HitID})
		resp.State = &st
	}
	writeJSON(w, resp)
}

// hitScale grows hit discs with the live zoom so screen-space click targets
// track the rendered hotspot size.
func hitScale(tf model.ImageTransform) float64 {
	if tf.Scale > 0 {
		return tf.Scale
	}
	return 1
}
