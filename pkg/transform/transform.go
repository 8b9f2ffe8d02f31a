// Package transform computes the pan/zoom transform that centers a target
// point and re-applies the live transform to overlay positions. Together with
// pkg/geometry it forms the single position-resolution path every surface
// uses; two renderers calling Resolve with identical inputs produce identical
// pixels.
package transform

import (
	"log/slog"

	"tutorgo/pkg/geometry"
	"tutorgo/pkg/model"
)

// centerPercent is the fallback target when nothing else resolves.
var centerPercent = geometry.Point{X: 50, Y: 50}

// TargetPercent resolves the percent-space target of a pan-zoom or spotlight
// event. Resolution order, first defined wins: the event's explicit target,
// the linked annotation, the legacy spotlight coordinate, then (50, 50).
// Explicit authoring intent always outranks inference. Never fails; an
// unresolved target id is logged and falls through.
func TargetPercent(ev model.TimelineEvent, ann *model.Annotation) geometry.Point {
	if ev.PanZoom != nil && ev.PanZoom.TargetX != nil && ev.PanZoom.TargetY != nil {
		return geometry.ClampPoint(geometry.Point{X: *ev.PanZoom.TargetX, Y: *ev.PanZoom.TargetY})
	}
	if ann != nil {
		return geometry.ClampPoint(geometry.Point{X: ann.X, Y: ann.Y})
	}
	if ev.TargetID != "" {
		slog.Debug("pan-zoom target did not resolve, trying legacy coordinates",
			"event", ev.ID, "target", ev.TargetID)
	}
	if ev.Spotlight != nil && ev.Spotlight.X != nil && ev.Spotlight.Y != nil {
		return geometry.ClampPoint(geometry.Point{X: *ev.Spotlight.X, Y: *ev.Spotlight.Y})
	}
	return centerPercent
}

// Compute builds the ImageTransform that centers the event's target under a
// zoom. With a nil content rect the target is mapped against the raw
// container rect instead; that is the explicit degraded mode, the result is
// still usable. The translate is the exact inverse of the scale applied to
// the target pixel, so re-applying the transform to the target lands it at
// the container center.
func Compute(ev model.TimelineEvent, ann *model.Annotation, container geometry.Rect, content *geometry.Rect) model.ImageTransform {
	zoom := model.DefaultZoom
	if ev.PanZoom != nil && ev.PanZoom.Factor > 0 {
		zoom = ev.PanZoom.Factor
	}

	mapRect := container
	if content != nil {
		mapRect = *content
	}
	target := geometry.ToPixel(TargetPercent(ev, ann), mapRect)

	return model.ImageTransform{
		Scale:           zoom,
		TranslateX:      container.W/2 - target.X*zoom,
		TranslateY:      container.H/2 - target.Y*zoom,
		TargetHotspotID: ev.TargetID,
	}
}

// Apply re-applies the live transform to a base pixel point: scale first,
// then translate. The translate computed by Compute already carries the
// center offset, so no separate origin term appears here; feeding Compute's
// own output back through Apply for its target yields the container center
// exactly.
func Apply(base geometry.Point, tf model.ImageTransform) geometry.Point {
	if tf.IsIdentity() {
		return base
	}
	return geometry.Point{
		X: base.X*tf.Scale + tf.TranslateX,
		Y: base.Y*tf.Scale + tf.TranslateY,
	}
}

// Resolve is the unified position resolver: percent point to final on-screen
// pixel under the current content rect and live transform. A nil content rect
// falls back to mapping against the container rect (degraded mode); the
// resolver always returns a usable point. Every overlay placement goes
// through this one function.
func Resolve(percent geometry.Point, content *geometry.Rect, tf model.ImageTransform, container geometry.Rect) geometry.Point {
	mapRect := container
	if content != nil {
		mapRect = *content
	}
	return Apply(geometry.ToPixel(percent, mapRect), tf)
}
