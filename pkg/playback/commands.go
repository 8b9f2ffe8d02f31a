package playback

// Command is a navigation operation consumed by the reducer. Commands carry
// no behavior of their own; the reducer is the single interpretation point,
// so sequencing is testable without a rendering harness or a clock.
type Command interface {
	isCommand()
}

// StartLearning enters guided step-driven playback from idle. Timed selects
// the sub-mode in which completing a step's last modal auto-advances.
type StartLearning struct {
	Timed bool
}

// StartExploring enters free-roam mode from idle; hotspot clicks fire their
// events immediately.
type StartExploring struct{}

// Stop returns any non-idle mode to idle.
type Stop struct{}

// NextStep advances learning mode to the next distinct step value.
type NextStep struct{}

// PrevStep moves learning mode back one distinct step value.
type PrevStep struct{}

// SelectStep jumps to an exact step value; absent steps are a no-op.
type SelectStep struct {
	Step int
}

// AdvanceModal moves forward in the current modal queue, saturating at the
// last item.
type AdvanceModal struct{}

// PreviousModal moves back in the current modal queue, saturating at zero.
type PreviousModal struct{}

// FireHotspot dispatches an exploring-mode hotspot click.
type FireHotspot struct {
	AnnotationID string
}

func (StartLearning) isCommand()  {}
func (StartExploring) isCommand() {}
func (Stop) isCommand()           {}
func (NextStep) isCommand()       {}
func (PrevStep) isCommand()       {}
func (SelectStep) isCommand()     {}
func (AdvanceModal) isCommand()   {}
func (PreviousModal) isCommand()  {}
func (FireHotspot) isCommand()    {}
