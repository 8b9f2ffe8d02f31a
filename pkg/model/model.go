package model

import (
	"time"
)

// AnnotationSize controls the rendered footprint and the hit-test radius of a hotspot.
type AnnotationSize string

const (
	SizeSmall  AnnotationSize = "small"
	SizeMedium AnnotationSize = "medium"
	SizeLarge  AnnotationSize = "large"
)

// HitRadius returns the click-dispatch radius in unscaled container pixels.
func (s AnnotationSize) HitRadius() float64 {
	switch s {
	case SizeSmall:
		return 12
	case SizeLarge:
		return 28
	default:
		return 20
	}
}

// Annotation is an authored point of interest on the background content.
// X and Y are percentages of the content rectangle. Authored externally and
// read-only to the engine; coordinates are re-clamped before every use.
type Annotation struct {
	ID          string         `json:"id" yaml:"id"`
	X           float64        `json:"x" yaml:"x"`
	Y           float64        `json:"y" yaml:"y"`
	Title       string         `json:"title" yaml:"title"`
	Description string         `json:"description,omitempty" yaml:"description,omitempty"`
	Size        AnnotationSize `json:"size,omitempty" yaml:"size,omitempty"`

	// DisplayInEvent is tri-state in authored data: only an explicit false
	// hides the hotspot while its events run; absent behaves like true.
	DisplayInEvent *bool `json:"displayInEvent,omitempty" yaml:"display_in_event,omitempty"`
}

// HiddenInEvents reports whether the author explicitly opted this hotspot
// out of visibility during its events.
func (a *Annotation) HiddenInEvents() bool {
	return a.DisplayInEvent != nil && !*a.DisplayInEvent
}

// Module is the load unit: one background image plus its annotations and timeline.
// NaturalWidth/NaturalHeight may be zero until a rendering surface reports them.
type Module struct {
	ID            string          `json:"id" yaml:"id"`
	Title         string          `json:"title" yaml:"title"`
	BackgroundURL string          `json:"backgroundUrl" yaml:"background_url"`
	NaturalWidth  float64         `json:"naturalWidth,omitempty" yaml:"natural_width,omitempty"`
	NaturalHeight float64         `json:"naturalHeight,omitempty" yaml:"natural_height,omitempty"`
	Annotations   []Annotation    `json:"annotations" yaml:"annotations"`
	Events        []TimelineEvent `json:"events" yaml:"events"`
	CreatedAt     time.Time       `json:"createdAt,omitempty" yaml:"-"`
	UpdatedAt     time.Time       `json:"updatedAt,omitempty" yaml:"-"`
}

// Annotation returns the annotation with the given id, or nil.
func (m *Module) Annotation(id string) *Annotation {
	for i := range m.Annotations {
		if m.Annotations[i].ID == id {
			return &m.Annotations[i]
		}
	}
	return nil
}

// Steps returns the sorted distinct step values present in the event list.
func (m *Module) Steps() []int {
	seen := make(map[int]bool)
	var steps []int
	for _, ev := range m.Events {
		if !seen[ev.Step] {
			seen[ev.Step] = true
			steps = append(steps, ev.Step)
		}
	}
	for i := 1; i < len(steps); i++ {
		for j := i; j > 0 && steps[j] < steps[j-1]; j-- {
			steps[j], steps[j-1] = steps[j-1], steps[j]
		}
	}
	return steps
}

// EventsForStep returns the events of one step in authored order.
func (m *Module) EventsForStep(step int) []TimelineEvent {
	var out []TimelineEvent
	for _, ev := range m.Events {
		if ev.Step == step {
			out = append(out, ev)
		}
	}
	return out
}

// EventsForTarget returns the events linked to an annotation, ordered by step
// then authored position. Used by exploring-mode click dispatch.
func (m *Module) EventsForTarget(annotationID string) []TimelineEvent {
	var out []TimelineEvent
	for _, ev := range m.Events {
		if ev.TargetID == annotationID {
			out = append(out, ev)
		}
	}
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && out[j].Step < out[j-1].Step; j-- {
			out[j], out[j-1] = out[j-1], out[j]
		}
	}
	return out
}
