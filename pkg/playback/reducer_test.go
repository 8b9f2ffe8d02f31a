package playback

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tutorgo/pkg/model"
)

func idleState() model.PlaybackState {
	return model.PlaybackState{Mode: model.ModeIdle, Transform: model.IdentityTransform()}
}

// scenarioModule builds: H1 with no events anywhere, H2 targeted by a pulse
// at step 1.
func scenarioModule() *model.Module {
	return &model.Module{
		ID: "m1",
		Annotations: []model.Annotation{
			{ID: "H1", X: 10, Y: 10},
			{ID: "H2", X: 60, Y: 60},
		},
		Events: []model.TimelineEvent{
			{ID: "e1", Step: 1, Type: model.EventPulse, TargetID: "H2"},
		},
	}
}

func TestStartLearning_ActiveAndPulsing(t *testing.T) {
	mod := scenarioModule()

	st := Reduce(idleState(), StartLearning{}, mod)

	assert.Equal(t, model.ModeLearning, st.Mode)
	assert.Equal(t, 1, st.CurrentStep)
	// H2 is targeted this step, H1 is undecorated and stays visible.
	assert.Equal(t, []string{"H1", "H2"}, st.ActiveHotspotIDs)
	assert.Equal(t, "H2", st.PulsingHotspotID)
	assert.Empty(t, st.ModalQueue)
}

func TestStartLearning_OnlyFromIdle(t *testing.T) {
	mod := scenarioModule()
	st := Reduce(idleState(), StartExploring{}, mod)
	st2 := Reduce(st, StartLearning{}, mod)
	assert.Equal(t, model.ModeExploring, st2.Mode)
}

func TestStop_ReturnsToIdle(t *testing.T) {
	mod := scenarioModule()
	st := Reduce(idleState(), StartLearning{}, mod)
	st = Reduce(st, Stop{}, mod)
	assert.Equal(t, model.ModeIdle, st.Mode)
	assert.Empty(t, st.ModalQueue)
}

func TestHiddenAnnotationExcluded(t *testing.T) {
	no := false
	mod := scenarioModule()
	mod.Annotations[1].DisplayInEvent = &no

	st := Reduce(idleState(), StartLearning{}, mod)
	assert.Equal(t, []string{"H1"}, st.ActiveHotspotIDs)
}

func TestHideEventRemovesTarget(t *testing.T) {
	mod := scenarioModule()
	mod.Events = append(mod.Events, model.TimelineEvent{
		ID: "e2", Step: 1, Type: model.EventHide, TargetID: "H1",
	})

	st := Reduce(idleState(), StartLearning{}, mod)
	assert.Equal(t, []string{"H2"}, st.ActiveHotspotIDs)
}

func TestPulsing_LaterWins(t *testing.T) {
	mod := scenarioModule()
	mod.Annotations = append(mod.Annotations, model.Annotation{ID: "H3", X: 5, Y: 5})
	mod.Events = append(mod.Events, model.TimelineEvent{
		ID: "e2", Step: 1, Type: model.EventHighlight, TargetID: "H3",
	})

	st := Reduce(idleState(), StartLearning{}, mod)
	assert.Equal(t, "H3", st.PulsingHotspotID)
}

func modalModule() *model.Module {
	return &model.Module{
		ID:          "m2",
		Annotations: []model.Annotation{{ID: "H1", X: 50, Y: 50}},
		Events: []model.TimelineEvent{
			{ID: "t1", Step: 1, Type: model.EventShowText, Media: &model.MediaParams{Text: "a"}},
			{ID: "t2", Step: 1, Type: model.EventShowImage, Media: &model.MediaParams{URL: "b.png"}},
			{ID: "t3", Step: 1, Type: model.EventShowText, Media: &model.MediaParams{Text: "c"}},
			{ID: "s1", Step: 1, Type: model.EventSpotlight, TargetID: "H1"},
			{ID: "p1", Step: 2, Type: model.EventPulse, TargetID: "H1"},
		},
	}
}

func TestModalQueue_OrderAndSaturation(t *testing.T) {
	mod := modalModule()

	st := Reduce(idleState(), StartLearning{}, mod)
	require.Len(t, st.ModalQueue, 3)
	assert.Equal(t, "t1", st.ModalQueue[0].ID)
	assert.Equal(t, "t3", st.ModalQueue[2].ID)
	assert.Equal(t, 0, st.ModalIndex)

	// Ambient events are all concurrently active, outside the queue.
	require.Len(t, st.AmbientEvents, 1)
	assert.Equal(t, "s1", st.AmbientEvents[0].ID)

	// Three advances land on the last index, the fourth is a no-op.
	for i := 0; i < 3; i++ {
		st = Reduce(st, AdvanceModal{}, mod)
	}
	assert.Equal(t, 2, st.ModalIndex)
	st = Reduce(st, AdvanceModal{}, mod)
	assert.Equal(t, 2, st.ModalIndex)

	// PreviousModal saturates at zero the same way.
	for i := 0; i < 5; i++ {
		st = Reduce(st, PreviousModal{}, mod)
	}
	assert.Equal(t, 0, st.ModalIndex)
}

func TestStepNavigation_QueueNeverCarriesOver(t *testing.T) {
	mod := modalModule()

	st := Reduce(idleState(), StartLearning{}, mod)
	st = Reduce(st, AdvanceModal{}, mod)
	require.Equal(t, 1, st.ModalIndex)

	st = Reduce(st, NextStep{}, mod)
	assert.Equal(t, 2, st.CurrentStep)
	assert.Empty(t, st.ModalQueue)
	assert.Equal(t, 0, st.ModalIndex)

	st = Reduce(st, PrevStep{}, mod)
	assert.Equal(t, 1, st.CurrentStep)
	assert.Equal(t, 0, st.ModalIndex, "queue rebuilt from scratch")
}

func TestStepNavigation_Bounds(t *testing.T) {
	mod := modalModule()

	st := Reduce(idleState(), StartLearning{}, mod)
	st = Reduce(st, PrevStep{}, mod)
	assert.Equal(t, 1, st.CurrentStep, "prev at first step is a no-op")

	st = Reduce(st, NextStep{}, mod)
	st = Reduce(st, NextStep{}, mod)
	assert.Equal(t, 2, st.CurrentStep, "next at last step is a no-op")
}

func TestSelectStep_SparseSteps(t *testing.T) {
	mod := scenarioModule()
	mod.Events = append(mod.Events,
		model.TimelineEvent{ID: "e7", Step: 7, Type: model.EventPulse, TargetID: "H2"})

	st := Reduce(idleState(), StartLearning{}, mod)
	st = Reduce(st, SelectStep{Step: 7}, mod)
	assert.Equal(t, 7, st.CurrentStep)
	assert.Equal(t, 1, st.StepIndex)

	// A step value with no events is rejected, state unchanged.
	st2 := Reduce(st, SelectStep{Step: 4}, mod)
	assert.Equal(t, st, st2)
}

func TestFireHotspot_Exploring(t *testing.T) {
	mod := modalModule()

	st := Reduce(idleState(), StartExploring{}, mod)
	assert.Equal(t, []string{"H1"}, st.ActiveHotspotIDs)

	st = Reduce(st, FireHotspot{AnnotationID: "H1"}, mod)
	assert.Equal(t, "H1", st.PulsingHotspotID)
	require.Len(t, st.AmbientEvents, 2) // spotlight at step 1, pulse at step 2
	assert.Empty(t, st.ModalQueue)
}

func TestFireHotspot_IgnoredOutsideExploring(t *testing.T) {
	mod := modalModule()
	st := Reduce(idleState(), StartLearning{}, mod)
	st2 := Reduce(st, FireHotspot{AnnotationID: "H1"}, mod)
	assert.Equal(t, st, st2)
}

func TestStepEntry_TransformResetsToIdentity(t *testing.T) {
	mod := modalModule()

	st := Reduce(idleState(), StartLearning{}, mod)
	st.Transform = model.ImageTransform{Scale: 3, TranslateX: -100, TranslateY: 40}

	st = Reduce(st, NextStep{}, mod)
	assert.True(t, st.Transform.IsIdentity(),
		"entering a step without pan-zoom always resets the transform")
}
