package transform

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"tutorgo/pkg/geometry"
	"tutorgo/pkg/model"
)

func f(v float64) *float64 { return &v }

func panZoomEvent(x, y, zoom float64) model.TimelineEvent {
	return model.TimelineEvent{
		ID:      "pz",
		Step:    1,
		Type:    model.EventPanZoom,
		PanZoom: &model.PanZoomParams{TargetX: f(x), TargetY: f(y), Factor: zoom},
	}
}

func TestCompute_ScenarioA(t *testing.T) {
	container := geometry.Rect{W: 500, H: 350}
	content := &geometry.Rect{X: 50, Y: 25, W: 400, H: 300}

	tf := Compute(panZoomEvent(75, 30, 2), nil, container, content)

	assert.Equal(t, 2.0, tf.Scale)
	assert.Equal(t, -450.0, tf.TranslateX)
	assert.Equal(t, -55.0, tf.TranslateY)
}

func TestCenteringLaw(t *testing.T) {
	// Feeding Compute's own output back through Resolve for its target
	// must land on the container center, for any target and zoom.
	container := geometry.Rect{W: 500, H: 350}
	content := &geometry.Rect{X: 50, Y: 25, W: 400, H: 300}

	targets := []geometry.Point{
		{X: 75, Y: 30}, {X: 0, Y: 0}, {X: 100, Y: 100}, {X: 50, Y: 50}, {X: 13.7, Y: 92.4},
	}
	for _, zoom := range []float64{0.5, 1, 2, 3.25} {
		for _, target := range targets {
			tf := Compute(panZoomEvent(target.X, target.Y, zoom), nil, container, content)
			got := Resolve(target, content, tf, container)
			assert.InDelta(t, 250.0, got.X, 1e-9, "target %+v zoom %v", target, zoom)
			assert.InDelta(t, 175.0, got.Y, 1e-9, "target %+v zoom %v", target, zoom)
		}
	}
}

func TestCenteringLaw_DegradedMode(t *testing.T) {
	// With no content rect the same law holds against the raw container.
	container := geometry.Rect{W: 800, H: 600}
	tf := Compute(panZoomEvent(25, 80, 1.5), nil, container, nil)
	got := Resolve(geometry.Point{X: 25, Y: 80}, nil, tf, container)
	assert.InDelta(t, 400.0, got.X, 1e-9)
	assert.InDelta(t, 300.0, got.Y, 1e-9)
}

func TestTargetPercent_Precedence(t *testing.T) {
	ann := &model.Annotation{ID: "h1", X: 10, Y: 20}

	// Explicit event coordinates outrank everything.
	ev := panZoomEvent(60, 70, 2)
	ev.TargetID = "h1"
	ev.Spotlight = &model.SpotlightParams{X: f(30), Y: f(40)}
	assert.Equal(t, geometry.Point{X: 60, Y: 70}, TargetPercent(ev, ann))

	// Then the linked annotation.
	ev.PanZoom = &model.PanZoomParams{Factor: 2}
	assert.Equal(t, geometry.Point{X: 10, Y: 20}, TargetPercent(ev, ann))

	// Then the legacy spotlight field.
	assert.Equal(t, geometry.Point{X: 30, Y: 40}, TargetPercent(ev, nil))

	// Then dead center.
	ev.Spotlight = nil
	assert.Equal(t, geometry.Point{X: 50, Y: 50}, TargetPercent(ev, nil))
}

func TestTargetPercent_ClampsInputs(t *testing.T) {
	ev := panZoomEvent(150, -20, 2)
	assert.Equal(t, geometry.Point{X: 100, Y: 0}, TargetPercent(ev, nil))
}

func TestResolve_Identity(t *testing.T) {
	content := &geometry.Rect{X: 50, Y: 25, W: 400, H: 300}
	container := geometry.Rect{W: 500, H: 350}

	got := Resolve(geometry.Point{X: 75, Y: 30}, content, model.IdentityTransform(), container)
	assert.Equal(t, geometry.Point{X: 350, Y: 115}, got)
}

func TestResolve_Deterministic(t *testing.T) {
	// Two independent call sites with identical inputs must agree bit for
	// bit; this is the contract both rendering surfaces rely on.
	content := &geometry.Rect{X: 12.5, Y: 7.25, W: 611.5, H: 458.625}
	container := geometry.Rect{W: 636.5, H: 473.125}
	tf := model.ImageTransform{Scale: 1.75, TranslateX: -123.456, TranslateY: 78.9}

	points := []geometry.Point{{X: 0, Y: 0}, {X: 33.33, Y: 66.67}, {X: 100, Y: 100}, {X: 49.999, Y: 50.001}}
	for _, p := range points {
		a := Resolve(p, content, tf, container)
		b := Resolve(p, content, tf, container)
		assert.Equal(t, a, b)
	}
}

func TestCompute_DefaultZoom(t *testing.T) {
	ev := model.TimelineEvent{ID: "pz", Step: 1, Type: model.EventPanZoom}
	tf := Compute(ev, nil, geometry.Rect{W: 400, H: 400}, nil)
	assert.Equal(t, model.DefaultZoom, tf.Scale)
}

func TestCompute_CarriesTarget(t *testing.T) {
	ev := panZoomEvent(50, 50, 2)
	ev.TargetID = "h9"
	tf := Compute(ev, &model.Annotation{ID: "h9", X: 50, Y: 50}, geometry.Rect{W: 400, H: 400}, nil)
	assert.Equal(t, "h9", tf.TargetHotspotID)
}
