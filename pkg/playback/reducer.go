package playback

import (
	"sort"

	"tutorgo/pkg/model"
)

// Reduce interprets a command against the current state and returns the next
// state, recomputed wholesale. It is pure: no clock, no locks, no I/O. The
// Machine wraps it with debounce, timers and transform computation.
func Reduce(st model.PlaybackState, cmd Command, mod *model.Module) model.PlaybackState {
	if mod == nil {
		return st
	}
	switch c := cmd.(type) {
	case StartLearning:
		if st.Mode != model.ModeIdle {
			return st
		}
		steps := mod.Steps()
		if len(steps) == 0 {
			next := freshState(model.ModeLearning, mod)
			return next
		}
		return EnterStep(mod, model.ModeLearning, steps, 0)

	case StartExploring:
		if st.Mode != model.ModeIdle {
			return st
		}
		return freshState(model.ModeExploring, mod)

	case Stop:
		return freshState(model.ModeIdle, mod)

	case NextStep:
		return stepBy(st, mod, +1)

	case PrevStep:
		return stepBy(st, mod, -1)

	case SelectStep:
		if st.Mode != model.ModeLearning {
			return st
		}
		steps := mod.Steps()
		idx := sort.SearchInts(steps, c.Step)
		if idx >= len(steps) || steps[idx] != c.Step {
			return st
		}
		return EnterStep(mod, st.Mode, steps, idx)

	case AdvanceModal:
		if len(st.ModalQueue) == 0 {
			return st
		}
		next := st
		if next.ModalIndex < len(next.ModalQueue)-1 {
			next.ModalIndex++
		}
		return next

	case PreviousModal:
		if len(st.ModalQueue) == 0 {
			return st
		}
		next := st
		if next.ModalIndex > 0 {
			next.ModalIndex--
		}
		return next

	case FireHotspot:
		if st.Mode != model.ModeExploring {
			return st
		}
		return fireHotspot(st, mod, c.AnnotationID)
	}
	return st
}

// EnterStep runs the step-entry algorithm for learning mode: filter the
// step's events, derive the active hotspot set, the pulsing hotspot, the
// modal queue and the concurrently active ambient events. The transform is
// reset to identity here; the Machine swaps in a computed transform when the
// step carries its own pan-zoom event, so no reset-then-reapply flash is
// observable.
func EnterStep(mod *model.Module, mode model.ModuleMode, steps []int, stepIndex int) model.PlaybackState {
	step := steps[stepIndex]
	filtered := mod.EventsForStep(step)

	st := model.PlaybackState{
		Mode:        mode,
		CurrentStep: step,
		StepIndex:   stepIndex,
		Steps:       steps,
		ModalIndex:  0,
		Transform:   model.IdentityTransform(),
	}

	st.ActiveHotspotIDs = activeHotspots(mod, filtered)
	st.PulsingHotspotID = pulsingHotspot(filtered)

	for _, ev := range filtered {
		if ev.Type.IsModal() {
			st.ModalQueue = append(st.ModalQueue, ev)
		} else {
			st.AmbientEvents = append(st.AmbientEvents, ev)
		}
	}
	return st
}

// activeHotspots builds the sorted visible-hotspot set for one step's events:
// every targeted annotation not explicitly hidden, plus every annotation with
// no event anywhere in the module, minus targets of hide events.
func activeHotspots(mod *model.Module, filtered []model.TimelineEvent) []string {
	active := make(map[string]bool)

	for _, ev := range filtered {
		if ev.TargetID == "" || ev.Type == model.EventHide {
			continue
		}
		if ann := mod.Annotation(ev.TargetID); ann != nil && !ann.HiddenInEvents() {
			active[ann.ID] = true
		}
	}

	targeted := make(map[string]bool)
	for _, ev := range mod.Events {
		if ev.TargetID != "" {
			targeted[ev.TargetID] = true
		}
	}
	for i := range mod.Annotations {
		ann := &mod.Annotations[i]
		if !targeted[ann.ID] && !ann.HiddenInEvents() {
			active[ann.ID] = true
		}
	}

	for _, ev := range filtered {
		if ev.Type == model.EventHide && ev.TargetID != "" {
			delete(active, ev.TargetID)
		}
	}

	ids := make([]string, 0, len(active))
	for id := range active {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// pulsingHotspot returns the target of the last emphasis event in the
// filtered set; later wins on ties.
func pulsingHotspot(filtered []model.TimelineEvent) string {
	id := ""
	for _, ev := range filtered {
		if ev.Type.IsEmphasis() && ev.TargetID != "" {
			id = ev.TargetID
		}
	}
	return id
}

// fireHotspot builds the exploring-mode state for a clicked hotspot: its
// modal events queue up, its emphasis events pulse, its ambient events run.
func fireHotspot(st model.PlaybackState, mod *model.Module, annotationID string) model.PlaybackState {
	if mod.Annotation(annotationID) == nil {
		return st
	}
	events := mod.EventsForTarget(annotationID)

	next := model.PlaybackState{
		Mode:             model.ModeExploring,
		ActiveHotspotIDs: allHotspots(mod),
		Transform:        model.IdentityTransform(),
		Completed:        st.Completed,
	}
	next.PulsingHotspotID = pulsingHotspot(events)
	for _, ev := range events {
		if ev.Type.IsModal() {
			next.ModalQueue = append(next.ModalQueue, ev)
		} else {
			next.AmbientEvents = append(next.AmbientEvents, ev)
		}
	}
	return next
}

func freshState(mode model.ModuleMode, mod *model.Module) model.PlaybackState {
	st := model.PlaybackState{
		Mode:      mode,
		Steps:     mod.Steps(),
		Transform: model.IdentityTransform(),
	}
	if mode == model.ModeExploring {
		st.ActiveHotspotIDs = allHotspots(mod)
	}
	return st
}

// allHotspots lists every annotation id; exploring mode is free-roam, all
// hotspots stay clickable.
func allHotspots(mod *model.Module) []string {
	ids := make([]string, 0, len(mod.Annotations))
	for _, ann := range mod.Annotations {
		ids = append(ids, ann.ID)
	}
	sort.Strings(ids)
	return ids
}

func stepBy(st model.PlaybackState, mod *model.Module, delta int) model.PlaybackState {
	if st.Mode != model.ModeLearning {
		return st
	}
	steps := mod.Steps()
	idx := st.StepIndex + delta
	if idx < 0 || idx >= len(steps) {
		return st
	}
	return EnterStep(mod, st.Mode, steps, idx)
}
