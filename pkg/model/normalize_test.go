package model

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func f(v float64) *float64 { return &v }

func validModule() *Module {
	return &Module{
		ID:    "m1",
		Title: "Test",
		Annotations: []Annotation{
			{ID: "h1", X: 25, Y: 75, Title: "First"},
		},
		Events: []TimelineEvent{
			{ID: "e1", Step: 1, Type: EventPulse, TargetID: "h1"},
		},
	}
}

func TestNormalizeModule_Valid(t *testing.T) {
	m := validModule()
	require.NoError(t, NormalizeModule(m))
	assert.Equal(t, SizeMedium, m.Annotations[0].Size)
}

func TestNormalizeModule_ValidationErrors(t *testing.T) {
	cases := []struct {
		name string
		ev   TimelineEvent
		want error
	}{
		{"missing id", TimelineEvent{Step: 1, Type: EventPulse}, ErrMissingID},
		{"missing step", TimelineEvent{ID: "e", Type: EventPulse}, ErrMissingStep},
		{"negative step", TimelineEvent{ID: "e", Step: -3, Type: EventPulse}, ErrMissingStep},
		{"missing type", TimelineEvent{ID: "e", Step: 1}, ErrMissingType},
		{"unknown type", TimelineEvent{ID: "e", Step: 1, Type: "teleport"}, ErrUnknownType},
		{"quiz without payload", TimelineEvent{ID: "e", Step: 1, Type: EventQuiz}, ErrInvalidQuiz},
		{"quiz one choice", TimelineEvent{ID: "e", Step: 1, Type: EventQuiz,
			Quiz: &QuizParams{Question: "?", Choices: []string{"a"}}}, ErrInvalidQuiz},
		{"zoom negative via alias", TimelineEvent{ID: "e", Step: 1, Type: EventPanZoom,
			LegacyZoomLevel: f(-1)}, ErrInvalidZoom},
		{"zoom zero via alias", TimelineEvent{ID: "e", Step: 1, Type: EventPanZoom,
			LegacyZoom: f(0)}, ErrInvalidZoom},
		{"zoom zero via lowest-priority alias", TimelineEvent{ID: "e", Step: 1, Type: EventPanZoom,
			LegacyZoomFactor: f(0)}, ErrInvalidZoom},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			m := validModule()
			m.Events = append(m.Events, tc.ev)
			err := NormalizeModule(m)
			require.Error(t, err)
			assert.True(t, errors.Is(err, tc.want), "got %v", err)
		})
	}
}

func TestNormalizeModule_EmptyModule(t *testing.T) {
	err := NormalizeModule(&Module{ID: "empty"})
	assert.True(t, errors.Is(err, ErrEmptyModule))
}

func TestNormalizeModule_ClampsAnnotations(t *testing.T) {
	m := validModule()
	m.Annotations = append(m.Annotations, Annotation{ID: "h2", X: 150, Y: -10})
	require.NoError(t, NormalizeModule(m))
	assert.Equal(t, 100.0, m.Annotations[1].X)
	assert.Equal(t, 0.0, m.Annotations[1].Y)
}

func TestFoldZoomAliases_FirstAliasWins(t *testing.T) {
	m := validModule()
	m.Events = append(m.Events, TimelineEvent{
		ID: "e2", Step: 2, Type: EventPanZoom,
		LegacyZoomLevel:  f(3),
		LegacyZoomFactor: f(4),
		LegacyZoom:       f(5),
	})
	require.NoError(t, NormalizeModule(m))

	ev := m.Events[1]
	require.NotNil(t, ev.PanZoom)
	assert.Equal(t, 3.0, ev.PanZoom.Factor)
	assert.Nil(t, ev.LegacyZoomLevel)
	assert.Nil(t, ev.LegacyZoomFactor)
	assert.Nil(t, ev.LegacyZoom)
}

func TestFoldZoomAliases_ExplicitOutranksAliases(t *testing.T) {
	m := validModule()
	m.Events = append(m.Events, TimelineEvent{
		ID: "e2", Step: 2, Type: EventPanZoom,
		PanZoom:    &PanZoomParams{Factor: 1.5},
		LegacyZoom: f(9),
	})
	require.NoError(t, NormalizeModule(m))
	assert.Equal(t, 1.5, m.Events[1].PanZoom.Factor)
}

func TestFoldZoomAliases_DefaultApplied(t *testing.T) {
	m := validModule()
	m.Events = append(m.Events, TimelineEvent{ID: "e2", Step: 2, Type: EventPanZoom})
	require.NoError(t, NormalizeModule(m))
	assert.Equal(t, DefaultZoom, m.Events[1].PanZoom.Factor)
}

func TestNormalize_SpotlightDefaults(t *testing.T) {
	m := validModule()
	m.Events = append(m.Events, TimelineEvent{
		ID: "e2", Step: 2, Type: EventSpotlight,
		Spotlight: &SpotlightParams{X: f(110), Y: f(-4)},
	})
	require.NoError(t, NormalizeModule(m))

	sp := m.Events[1].Spotlight
	assert.Equal(t, 100.0, *sp.X)
	assert.Equal(t, 0.0, *sp.Y)
	assert.Equal(t, "circle", sp.Shape)
	assert.Equal(t, 0.7, sp.DimOpacity)
}

func TestEventKinds_Classification(t *testing.T) {
	modal := []EventType{EventShowText, EventShowImage, EventShowVideo, EventShowAudio, EventQuiz}
	for _, et := range modal {
		assert.True(t, et.IsModal(), "%s should be modal", et)
	}
	ambient := []EventType{EventPulse, EventHighlight, EventSpotlight, EventPanZoom, EventHide}
	for _, et := range ambient {
		assert.False(t, et.IsModal(), "%s should be ambient", et)
	}
	assert.True(t, EventPulse.IsEmphasis())
	assert.True(t, EventHighlight.IsEmphasis())
	assert.False(t, EventSpotlight.IsEmphasis())
}

func TestModule_Steps(t *testing.T) {
	m := &Module{Events: []TimelineEvent{
		{ID: "a", Step: 5, Type: EventPulse},
		{ID: "b", Step: 1, Type: EventPulse},
		{ID: "c", Step: 5, Type: EventQuiz, Quiz: &QuizParams{Question: "?", Choices: []string{"x", "y"}}},
		{ID: "d", Step: 3, Type: EventHide},
	}}
	assert.Equal(t, []int{1, 3, 5}, m.Steps())
}

func TestAnnotation_HiddenInEvents(t *testing.T) {
	var no, yes = false, true
	assert.False(t, (&Annotation{}).HiddenInEvents(), "unset behaves like visible")
	assert.True(t, (&Annotation{DisplayInEvent: &no}).HiddenInEvents())
	assert.False(t, (&Annotation{DisplayInEvent: &yes}).HiddenInEvents())
}
