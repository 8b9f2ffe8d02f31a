package playback

import (
	"log/slog"
	"sync"
	"time"

	"tutorgo/pkg/cache"
	"tutorgo/pkg/geometry"
	"tutorgo/pkg/model"
	"tutorgo/pkg/transform"
)

// Options configures machine timing. Zero values fall back to the defaults
// below.
type Options struct {
	DebounceWindow   time.Duration // identical step re-entry suppression
	AutoAdvanceDelay time.Duration // timed sub-mode delay after the last modal
	Rects            *cache.RectCache
}

const (
	defaultDebounceWindow   = 100 * time.Millisecond
	defaultAutoAdvanceDelay = 4 * time.Second
)

// entryKey identifies one step entry for the loop guard.
type entryKey struct {
	step       int
	mode       model.ModuleMode
	eventCount int
}

// Machine owns PlaybackState. All mutation goes through Do or the typed
// wrappers below; every operation recomputes derived state wholesale and
// notifies subscribers with a complete snapshot, never a patch.
type Machine struct {
	mu   sync.Mutex
	opts Options

	mod       *model.Module
	state     model.PlaybackState
	natural   geometry.Size
	container geometry.Size
	content   *geometry.Rect

	lastEntry   entryKey
	lastEntryAt time.Time

	advanceTimer   *time.Timer
	timerGen       int
	timed          bool
	modalComplete  bool
	firedHotspotID string
	visited        map[string]bool

	listeners    map[int]chan model.PlaybackState
	nextListener int

	now func() time.Time
}

// NewMachine creates a machine with no module loaded.
func NewMachine(opts Options) *Machine {
	if opts.DebounceWindow <= 0 {
		opts.DebounceWindow = defaultDebounceWindow
	}
	if opts.AutoAdvanceDelay <= 0 {
		opts.AutoAdvanceDelay = defaultAutoAdvanceDelay
	}
	return &Machine{
		opts:      opts,
		state:     model.PlaybackState{Mode: model.ModeIdle, Transform: model.IdentityTransform()},
		visited:   make(map[string]bool),
		listeners: make(map[int]chan model.PlaybackState),
		now:       time.Now,
	}
}

// LoadModule installs a normalized module and resets playback to idle.
func (m *Machine) LoadModule(mod *model.Module) model.PlaybackState {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.cancelTimerLocked()
	m.mod = mod
	m.visited = make(map[string]bool)
	m.firedHotspotID = ""
	m.modalComplete = false
	m.lastEntry = entryKey{}
	m.natural = geometry.Size{W: mod.NaturalWidth, H: mod.NaturalHeight}
	m.refreshContentLocked()
	m.state = model.PlaybackState{
		Mode:      model.ModeIdle,
		Steps:     mod.Steps(),
		Transform: model.IdentityTransform(),
	}
	m.broadcastLocked()
	return m.state
}

// SetViewport records the viewport facts reported by a rendering surface and
// recomputes the content rectangle and any active pan-zoom transform.
// A zero natural size keeps the module's stored value.
func (m *Machine) SetViewport(natural, container geometry.Size) *geometry.Rect {
	m.mu.Lock()
	defer m.mu.Unlock()

	if natural.W > 0 && natural.H > 0 {
		m.natural = natural
	}
	m.container = container
	m.refreshContentLocked()

	// Geometry changed under the live transform; recompute it against the
	// new rects so overlays stay centered.
	before := m.state.Transform
	m.applyStepTransformLocked()
	if m.state.Transform != before {
		m.broadcastLocked()
	}
	return m.content
}

// Do applies a navigation command and returns the resulting snapshot.
func (m *Machine) Do(cmd Command) model.PlaybackState {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.doLocked(cmd)
}

func (m *Machine) doLocked(cmd Command) model.PlaybackState {
	if m.mod == nil {
		return m.state
	}

	next := Reduce(m.state, cmd, m.mod)

	if sl, ok := cmd.(StartLearning); ok && next.Mode == model.ModeLearning {
		m.timed = sl.Timed
	}

	if isStepEntry(cmd) {
		key := entryKey{
			step:       next.CurrentStep,
			mode:       next.Mode,
			eventCount: len(next.ModalQueue) + len(next.AmbientEvents),
		}
		// Only duplicate entries of the step we are already in get dropped;
		// an entry that moves the machine somewhere new is never a bounce,
		// however fast it follows the previous one.
		duplicate := key == m.lastEntry &&
			m.state.Mode == next.Mode && m.state.CurrentStep == next.CurrentStep
		if duplicate && m.now().Sub(m.lastEntryAt) < m.opts.DebounceWindow {
			slog.Debug("step entry debounced", "step", key.step, "mode", key.mode)
			return m.state
		}
		m.lastEntry = key
		m.lastEntryAt = m.now()
	}

	changed := !statesEqual(m.state, next)
	completing := m.isCompletingAdvanceLocked(cmd)

	if changed {
		m.cancelTimerLocked()
		m.state = next
		if isStepEntry(cmd) || isFire(cmd) {
			m.modalComplete = false
			if fc, ok := cmd.(FireHotspot); ok {
				m.firedHotspotID = fc.AnnotationID
			} else {
				m.firedHotspotID = ""
			}
			m.applyStepTransformLocked()
			// Firing a hotspot with no modal content completes it at once.
			if isFire(cmd) && len(next.ModalQueue) == 0 {
				m.markVisitedLocked()
			}
		}
	}

	if completing && !m.modalComplete {
		m.modalComplete = true
		m.onModalQueueCompleteLocked()
		changed = true
	}
	if changed {
		m.broadcastLocked()
	}
	return m.state
}

// Snapshot returns the current state. Slices in the snapshot are shared and
// must be treated as immutable by callers.
func (m *Machine) Snapshot() model.PlaybackState {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Module returns the loaded module, or nil.
func (m *Machine) Module() *model.Module {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.mod
}

// Rects returns the current content rectangle (nil when geometry is
// unavailable) and the container rect.
func (m *Machine) Rects() (*geometry.Rect, geometry.Rect) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.content, geometry.Rect{W: m.container.W, H: m.container.H}
}

// Subscribe registers a state listener. The returned cancel function must be
// called to release it. Slow listeners drop snapshots rather than block the
// machine.
func (m *Machine) Subscribe() (<-chan model.PlaybackState, func()) {
	m.mu.Lock()
	defer m.mu.Unlock()

	id := m.nextListener
	m.nextListener++
	ch := make(chan model.PlaybackState, 8)
	m.listeners[id] = ch

	cancel := func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		if _, ok := m.listeners[id]; ok {
			delete(m.listeners, id)
			close(ch)
		}
	}
	return ch, cancel
}

// Close cancels timers and closes all listener channels.
func (m *Machine) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cancelTimerLocked()
	for id, ch := range m.listeners {
		delete(m.listeners, id)
		close(ch)
	}
}

// --- internals, all called with m.mu held ---

func (m *Machine) refreshContentLocked() {
	if m.opts.Rects != nil {
		m.content = m.opts.Rects.Resolve(m.natural, m.container)
		return
	}
	m.content = geometry.ResolveContentRect(m.natural, m.container)
}

// applyStepTransformLocked installs the computed transform when the current
// state carries a pan-zoom event, identity otherwise. The destination step's
// own transform takes over directly; there is no reset-then-reapply flash.
func (m *Machine) applyStepTransformLocked() {
	var pz *model.TimelineEvent
	for i := range m.state.AmbientEvents {
		if m.state.AmbientEvents[i].Type == model.EventPanZoom {
			pz = &m.state.AmbientEvents[i]
		}
	}
	if pz == nil {
		m.state.Transform = model.IdentityTransform()
		return
	}
	container := geometry.Rect{W: m.container.W, H: m.container.H}
	var ann *model.Annotation
	if pz.TargetID != "" {
		ann = m.mod.Annotation(pz.TargetID)
	}
	m.state.Transform = transform.Compute(*pz, ann, container, m.content)
}

// isCompletingAdvanceLocked reports whether cmd is an AdvanceModal issued
// while the queue already sits on its last item.
func (m *Machine) isCompletingAdvanceLocked(cmd Command) bool {
	if _, ok := cmd.(AdvanceModal); !ok {
		return false
	}
	n := len(m.state.ModalQueue)
	return n > 0 && m.state.ModalIndex == n-1
}

func (m *Machine) onModalQueueCompleteLocked() {
	switch m.state.Mode {
	case model.ModeLearning:
		if !m.timed {
			return
		}
		if m.state.StepIndex >= len(m.state.Steps)-1 {
			return
		}
		// The generation token invalidates a callback that already fired but
		// is still waiting on the lock when the timer gets cancelled.
		gen := m.timerGen
		m.advanceTimer = time.AfterFunc(m.opts.AutoAdvanceDelay, func() {
			m.mu.Lock()
			defer m.mu.Unlock()
			if gen != m.timerGen {
				return
			}
			m.doLocked(NextStep{})
		})
	case model.ModeExploring:
		m.markVisitedLocked()
	}
}

// markVisitedLocked records the fired hotspot and raises the explore-complete
// signal once every annotation that carries events has been visited.
func (m *Machine) markVisitedLocked() {
	if m.firedHotspotID == "" {
		return
	}
	m.visited[m.firedHotspotID] = true

	for _, ann := range m.mod.Annotations {
		if len(m.mod.EventsForTarget(ann.ID)) == 0 {
			continue
		}
		if !m.visited[ann.ID] {
			return
		}
	}
	m.state.Completed = true
}

func (m *Machine) cancelTimerLocked() {
	m.timerGen++
	if m.advanceTimer != nil {
		m.advanceTimer.Stop()
		m.advanceTimer = nil
	}
}

func (m *Machine) broadcastLocked() {
	for _, ch := range m.listeners {
		select {
		case ch <- m.state:
		default:
		}
	}
}

func isStepEntry(cmd Command) bool {
	switch cmd.(type) {
	case StartLearning, NextStep, PrevStep, SelectStep:
		return true
	}
	return false
}

func isFire(cmd Command) bool {
	_, ok := cmd.(FireHotspot)
	return ok
}

// statesEqual compares the fields that matter for change detection; slices
// are compared element-wise by id.
func statesEqual(a, b model.PlaybackState) bool {
	if a.Mode != b.Mode || a.CurrentStep != b.CurrentStep || a.StepIndex != b.StepIndex ||
		a.PulsingHotspotID != b.PulsingHotspotID || a.ModalIndex != b.ModalIndex ||
		a.Completed != b.Completed || a.Transform != b.Transform {
		return false
	}
	if len(a.ActiveHotspotIDs) != len(b.ActiveHotspotIDs) || len(a.ModalQueue) != len(b.ModalQueue) ||
		len(a.AmbientEvents) != len(b.AmbientEvents) {
		return false
	}
	for i := range a.ActiveHotspotIDs {
		if a.ActiveHotspotIDs[i] != b.ActiveHotspotIDs[i] {
			return false
		}
	}
	for i := range a.ModalQueue {
		if a.ModalQueue[i].ID != b.ModalQueue[i].ID {
			return false
		}
	}
	for i := range a.AmbientEvents {
		if a.AmbientEvents[i].ID != b.AmbientEvents[i].ID {
			return false
		}
	}
	return true
}
