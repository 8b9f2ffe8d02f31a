package api

import (
	"encoding/json"
	"fmt"
	"net/http"

	"tutorgo/pkg/model"
	"tutorgo/pkg/playback"
)

// PlaybackHandler exposes the playback snapshot and the navigation
// operations, the sole mutation surface of the engine.
type PlaybackHandler struct {
	machine        *playback.Machine
	timedByDefault bool
}

// NewPlaybackHandler creates a new playback handler. timedByDefault selects
// the learning sub-mode when a mode request does not say.
func NewPlaybackHandler(m *playback.Machine, timedByDefault bool) *PlaybackHandler {
	return &PlaybackHandler{machine: m, timedByDefault: timedByDefault}
}

// HandleSnapshot handles GET /api/playback.
func (h *PlaybackHandler) HandleSnapshot(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, h.machine.Snapshot())
}

type opRequest struct {
	Mode  model.ModuleMode `json:"mode,omitempty"`
	Step  int              `json:"step,omitempty"`
	Timed *bool            `json:"timed,omitempty"`
}

// HandleOp handles POST /api/playback/{op}.
func (h *PlaybackHandler) HandleOp(w http.ResponseWriter, r *http.Request) {
	var req opRequest
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, fmt.Errorf("invalid body: %w", err))
			return
		}
	}

	cmd, err := h.commandFor(r.PathValue("op"), req)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	writeJSON(w, h.machine.Do(cmd))
}

func (h *PlaybackHandler) commandFor(op string, req opRequest) (playback.Command, error) {
	switch op {
	case "mode":
		switch req.Mode {
		case model.ModeLearning:
			timed := h.timedByDefault
			if req.Timed != nil {
				timed = *req.Timed
			}
			return playback.StartLearning{Timed: timed}, nil
		case model.ModeExploring:
			return playback.StartExploring{}, nil
		case model.ModeIdle:
			return playback.Stop{}, nil
		}
		return nil, fmt.Errorf("unknown mode %q", req.Mode)
	case "next":
		return playback.NextStep{}, nil
	case "prev":
		return playback.PrevStep{}, nil
	case "select":
		return playback.SelectStep{Step: req.Step}, nil
	case "modal-next":
		return playback.AdvanceModal{}, nil
	case "modal-prev":
		return playback.PreviousModal{}, nil
	}
	return nil, fmt.Errorf("unknown playback op %q", op)
}
