package model

// EventType defines the closed set of timeline event kinds.
type EventType string

const (
	EventPulse     EventType = "emphasis-pulse"
	EventHighlight EventType = "emphasis-highlight"
	EventSpotlight EventType = "spotlight"
	EventPanZoom   EventType = "pan-zoom"
	EventShowText  EventType = "show-text"
	EventShowImage EventType = "show-image"
	EventShowVideo EventType = "show-video"
	EventShowAudio EventType = "show-audio"
	EventQuiz      EventType = "quiz"
	EventHide      EventType = "hide"
)

// KindInfo describes the rendering class of an event type.
type KindInfo struct {
	Modal    bool // requires focused, sequential, blocking interaction
	Emphasis bool // transient highlight/pulse on an annotation
	ZOrder   int  // stacking order between concurrent overlays
}

// EventKinds is the single ordered classification table for all event types.
// Modal flags drive the per-step modal queue; z-order drives overlay stacking.
var EventKinds = map[EventType]KindInfo{
	EventHide:      {ZOrder: 0},
	EventPanZoom:   {ZOrder: 10},
	EventSpotlight: {ZOrder: 20},
	EventHighlight: {Emphasis: true, ZOrder: 30},
	EventPulse:     {Emphasis: true, ZOrder: 30},
	EventShowText:  {Modal: true, ZOrder: 40},
	EventShowImage: {Modal: true, ZOrder: 40},
	EventShowVideo: {Modal: true, ZOrder: 40},
	EventShowAudio: {Modal: true, ZOrder: 40},
	EventQuiz:      {Modal: true, ZOrder: 50},
}

// Valid reports whether t is a member of the closed set.
func (t EventType) Valid() bool {
	_, ok := EventKinds[t]
	return ok
}

// IsModal reports whether events of this type join the modal queue.
func (t EventType) IsModal() bool {
	return EventKinds[t].Modal
}

// IsEmphasis reports whether events of this type pulse/highlight their target.
func (t EventType) IsEmphasis() bool {
	return EventKinds[t].Emphasis
}

// PanZoomParams carries the canonical pan-zoom payload after normalization.
// TargetX/TargetY are percent coordinates; nil means "inherit from the linked
// annotation or fall back to center".
type PanZoomParams struct {
	TargetX *float64 `json:"targetX,omitempty" yaml:"target_x,omitempty"`
	TargetY *float64 `json:"targetY,omitempty" yaml:"target_y,omitempty"`
	Factor  float64  `json:"factor,omitempty" yaml:"factor,omitempty"`
}

// SpotlightParams describes the spotlight cutout. X/Y double as a legacy
// pan-zoom target fallback when no annotation is linked.
type SpotlightParams struct {
	X          *float64 `json:"x,omitempty" yaml:"x,omitempty"`
	Y          *float64 `json:"y,omitempty" yaml:"y,omitempty"`
	Radius     float64  `json:"radius,omitempty" yaml:"radius,omitempty"`
	Shape      string   `json:"shape,omitempty" yaml:"shape,omitempty"` // "circle" or "rect"
	DimOpacity float64  `json:"dimOpacity,omitempty" yaml:"dim_opacity,omitempty"`
}

// MediaParams carries show-text/image/video/audio content references.
// The engine never decodes media; URLs pass through to the renderer.
type MediaParams struct {
	URL      string `json:"url,omitempty" yaml:"url,omitempty"`
	Text     string `json:"text,omitempty" yaml:"text,omitempty"`
	Caption  string `json:"caption,omitempty" yaml:"caption,omitempty"`
	Autoplay bool   `json:"autoplay,omitempty" yaml:"autoplay,omitempty"`
}

// QuizParams carries a single-choice quiz payload.
type QuizParams struct {
	Question     string   `json:"question" yaml:"question"`
	Choices      []string `json:"choices" yaml:"choices"`
	CorrectIndex int      `json:"correctIndex" yaml:"correct_index"`
	Explanation  string   `json:"explanation,omitempty" yaml:"explanation,omitempty"`
}

// TimelineEvent is one timed instruction in a module's playback sequence.
// Immutable per session once normalized. Steps are positive and need not be
// contiguous.
type TimelineEvent struct {
	ID       string    `json:"id" yaml:"id"`
	Step     int       `json:"step" yaml:"step"`
	Type     EventType `json:"type" yaml:"type"`
	TargetID string    `json:"targetId,omitempty" yaml:"target_id,omitempty"`

	PanZoom   *PanZoomParams   `json:"panZoom,omitempty" yaml:"pan_zoom,omitempty"`
	Spotlight *SpotlightParams `json:"spotlight,omitempty" yaml:"spotlight,omitempty"`
	Media     *MediaParams     `json:"media,omitempty" yaml:"media,omitempty"`
	Quiz      *QuizParams      `json:"quiz,omitempty" yaml:"quiz,omitempty"`

	// Legacy zoom aliases seen in exported authoring data. Folded into
	// PanZoom.Factor by NormalizeModule and cleared afterwards.
	LegacyZoomLevel  *float64 `json:"zoomLevel,omitempty" yaml:"zoom_level,omitempty"`
	LegacyZoomFactor *float64 `json:"zoomFactor,omitempty" yaml:"zoom_factor,omitempty"`
	LegacyZoom       *float64 `json:"zoom,omitempty" yaml:"zoom,omitempty"`
}
