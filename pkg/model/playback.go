package model

// ModuleMode is the top-level playback mode.
type ModuleMode string

const (
	ModeIdle      ModuleMode = "idle"
	ModeExploring ModuleMode = "exploring"
	ModeLearning  ModuleMode = "learning"
)

// ImageTransform is the live pan/zoom applied to the content surface,
// expressed in container-relative pixels. Identity is {1, 0, 0, ""}.
type ImageTransform struct {
	Scale           float64 `json:"scale"`
	TranslateX      float64 `json:"translateX"`
	TranslateY      float64 `json:"translateY"`
	TargetHotspotID string  `json:"targetHotspotId,omitempty"`
}

// IdentityTransform returns the neutral transform.
func IdentityTransform() ImageTransform {
	return ImageTransform{Scale: 1}
}

// IsIdentity reports whether the transform leaves coordinates unchanged.
func (t ImageTransform) IsIdentity() bool {
	return t.Scale == 1 && t.TranslateX == 0 && t.TranslateY == 0
}

// PlaybackState is the full derived state for the current step. It is owned
// by the playback machine and recomputed wholesale on every change; renderers
// treat it as an immutable snapshot.
type PlaybackState struct {
	Mode             ModuleMode      `json:"mode"`
	CurrentStep      int             `json:"currentStep"`
	StepIndex        int             `json:"stepIndex"`
	Steps            []int           `json:"steps,omitempty"`
	ActiveHotspotIDs []string        `json:"activeHotspotIds"`
	PulsingHotspotID string          `json:"pulsingHotspotId,omitempty"`
	ModalQueue       []TimelineEvent `json:"modalQueue,omitempty"`
	ModalIndex       int             `json:"modalIndex"`
	AmbientEvents    []TimelineEvent `json:"ambientEvents,omitempty"`
	Transform        ImageTransform  `json:"transform"`
	Completed        bool            `json:"completed,omitempty"`
}

// ActiveModal returns the modal event currently presented, or nil when the
// queue is empty.
func (s *PlaybackState) ActiveModal() *TimelineEvent {
	if len(s.ModalQueue) == 0 || s.ModalIndex < 0 || s.ModalIndex >= len(s.ModalQueue) {
		return nil
	}
	return &s.ModalQueue[s.ModalIndex]
}
