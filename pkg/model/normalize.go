package model

import (
	"errors"
	"fmt"
	"log/slog"
	"math"

	"tutorgo/pkg/geometry"
)

// DefaultZoom is the zoom factor applied when no alias supplies one.
const DefaultZoom = 2.0

// Validation sentinels.
var (
	ErrMissingID    = errors.New("event missing id")
	ErrMissingStep  = errors.New("event step must be a positive integer")
	ErrMissingType  = errors.New("event missing type")
	ErrUnknownType  = errors.New("unknown event type")
	ErrInvalidZoom  = errors.New("zoom factor must be > 0")
	ErrInvalidQuiz  = errors.New("quiz requires a question and at least two choices")
	ErrEmptyModule  = errors.New("module has no annotations and no events")
)

// coordEpsilon is the percent delta above which a legacy spotlight coordinate
// and a linked annotation are reported as disagreeing.
const coordEpsilon = 0.01

// NormalizeModule validates a module and folds legacy event aliases into
// their canonical fields. It runs once at load time; consumers downstream
// never see aliased payloads. Returns the first validation error encountered.
func NormalizeModule(m *Module) error {
	if m == nil {
		return errors.New("nil module")
	}
	if len(m.Annotations) == 0 && len(m.Events) == 0 {
		return fmt.Errorf("module %q: %w", m.ID, ErrEmptyModule)
	}
	for i := range m.Annotations {
		a := &m.Annotations[i]
		a.X = geometry.ClampPercent(a.X)
		a.Y = geometry.ClampPercent(a.Y)
		if a.Size == "" {
			a.Size = SizeMedium
		}
	}
	for i := range m.Events {
		if err := normalizeEvent(&m.Events[i], m); err != nil {
			return err
		}
	}
	return nil
}

func normalizeEvent(ev *TimelineEvent, m *Module) error {
	if ev.ID == "" {
		return fmt.Errorf("event at step %d: %w", ev.Step, ErrMissingID)
	}
	if ev.Step <= 0 {
		return fmt.Errorf("event %q: %w (got %d)", ev.ID, ErrMissingStep, ev.Step)
	}
	if ev.Type == "" {
		return fmt.Errorf("event %q: %w", ev.ID, ErrMissingType)
	}
	if !ev.Type.Valid() {
		return fmt.Errorf("event %q: %w %q", ev.ID, ErrUnknownType, ev.Type)
	}

	if ev.Type == EventQuiz {
		if ev.Quiz == nil || ev.Quiz.Question == "" || len(ev.Quiz.Choices) < 2 {
			return fmt.Errorf("event %q: %w", ev.ID, ErrInvalidQuiz)
		}
		if ev.Quiz.CorrectIndex < 0 || ev.Quiz.CorrectIndex >= len(ev.Quiz.Choices) {
			return fmt.Errorf("event %q: quiz correctIndex %d out of range", ev.ID, ev.Quiz.CorrectIndex)
		}
	}

	if err := foldZoomAliases(ev); err != nil {
		return err
	}
	clampEventCoords(ev)

	if ev.Type == EventPanZoom {
		flagLegacyDisagreement(ev, m)
	}

	// Unresolved targets are a recovered condition, not an error.
	if ev.TargetID != "" && m.Annotation(ev.TargetID) == nil {
		slog.Warn("event references unknown annotation, position will fall back",
			"event", ev.ID, "target", ev.TargetID)
	}
	return nil
}

// foldZoomAliases resolves the canonical zoom factor, first alias wins:
// panZoom.factor, zoomLevel, zoomFactor, zoom, then the default. The aliases
// are pointers, so an authored zero is present, not absent, and gets rejected
// like any other non-positive factor.
func foldZoomAliases(ev *TimelineEvent) error {
	factor := 0.0
	set := false
	if ev.PanZoom != nil && ev.PanZoom.Factor != 0 {
		factor = ev.PanZoom.Factor
		set = true
	}
	for _, alias := range []*float64{ev.LegacyZoomLevel, ev.LegacyZoomFactor, ev.LegacyZoom} {
		if !set && alias != nil {
			factor = *alias
			set = true
		}
	}
	ev.LegacyZoomLevel, ev.LegacyZoomFactor, ev.LegacyZoom = nil, nil, nil

	if ev.Type != EventPanZoom {
		return nil
	}
	if set && factor <= 0 {
		return fmt.Errorf("event %q: %w (got %v)", ev.ID, ErrInvalidZoom, factor)
	}
	if !set {
		factor = DefaultZoom
	}
	if ev.PanZoom == nil {
		ev.PanZoom = &PanZoomParams{}
	}
	ev.PanZoom.Factor = factor
	return nil
}

func clampEventCoords(ev *TimelineEvent) {
	if ev.PanZoom != nil {
		clampPtr(ev.PanZoom.TargetX)
		clampPtr(ev.PanZoom.TargetY)
	}
	if ev.Spotlight != nil {
		clampPtr(ev.Spotlight.X)
		clampPtr(ev.Spotlight.Y)
		if ev.Spotlight.Shape == "" {
			ev.Spotlight.Shape = "circle"
		}
		if ev.Spotlight.DimOpacity == 0 {
			ev.Spotlight.DimOpacity = 0.7
		}
	}
}

// flagLegacyDisagreement reports pan-zoom events whose legacy spotlight
// coordinate and linked annotation disagree. Explicit event coordinates are
// strictly highest priority, so the conflict is logged, never resolved here.
func flagLegacyDisagreement(ev *TimelineEvent, m *Module) {
	if ev.Spotlight == nil || ev.Spotlight.X == nil || ev.Spotlight.Y == nil || ev.TargetID == "" {
		return
	}
	ann := m.Annotation(ev.TargetID)
	if ann == nil {
		return
	}
	dx := math.Abs(*ev.Spotlight.X - ann.X)
	dy := math.Abs(*ev.Spotlight.Y - ann.Y)
	if dx > coordEpsilon || dy > coordEpsilon {
		slog.Warn("legacy spotlight coordinate disagrees with linked annotation",
			"event", ev.ID, "annotation", ann.ID,
			"spotlight_x", *ev.Spotlight.X, "spotlight_y", *ev.Spotlight.Y,
			"annotation_x", ann.X, "annotation_y", ann.Y)
	}
}

func clampPtr(p *float64) {
	if p != nil {
		*p = geometry.ClampPercent(*p)
	}
}
