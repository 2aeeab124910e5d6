package transition

import (
	"context"
	"log"
	"time"

	"chronoscape.ai/internal/sim/era"
)

// Observer receives lifecycle notifications. All methods are mandatory;
// callers that want none of them embed NopObserver rather than leaving nil
// fields around.
type Observer interface {
	// SliderLockChanged fires with true at transition start and false at
	// completion or cancellation. The time-navigation control must be
	// disabled while locked.
	SliderLockChanged(locked bool)
	TransitionStarted(previous *era.Era, target era.Era)
	TransitionCompleted(target era.Era)
}

// NopObserver ignores every notification.
type NopObserver struct{}

func (NopObserver) SliderLockChanged(bool)              {}
func (NopObserver) TransitionStarted(*era.Era, era.Era) {}
func (NopObserver) TransitionCompleted(era.Era)         {}

// Loader fetches the creature roster for an era. It may fail; the machine
// swallows the failure and finishes the transition without new content.
type Loader interface {
	LoadCreatures(ctx context.Context, target era.Era) ([]era.CreatureDescriptor, error)
}

// LoaderFunc adapts a function to Loader.
type LoaderFunc func(ctx context.Context, target era.Era) ([]era.CreatureDescriptor, error)

func (f LoaderFunc) LoadCreatures(ctx context.Context, target era.Era) ([]era.CreatureDescriptor, error) {
	return f(ctx, target)
}

// ContentSink is the scene layer the machine drives: clear the outgoing
// era's instances at the fade-out boundary, populate the incoming era's
// once the load settles.
type ContentSink interface {
	ClearContent()
	PopulateContent(target era.Era, creatures []era.CreatureDescriptor)
}

type Config struct {
	// DurationMs is clamped into [MinDurationMs, MaxDurationMs].
	DurationMs int

	// Fade ratios partition the session: [0,FadeOutRatio) fades out,
	// [FadeOutRatio, 1-FadeInRatio) loads, the rest fades in. Their sum is
	// clamped so it never exceeds 1.
	FadeOutRatio float64
	FadeInRatio  float64
}

// ApplyDefaults clamps the duration into its bounds and normalizes fade
// ratios so their sum never exceeds 1. NewMachine calls it; config owners
// that surface effective values (WELCOME scene_params) call it too.
func (c *Config) ApplyDefaults() {
	if c.DurationMs == 0 {
		c.DurationMs = 1500
	}
	if c.DurationMs < MinDurationMs {
		c.DurationMs = MinDurationMs
	}
	if c.DurationMs > MaxDurationMs {
		c.DurationMs = MaxDurationMs
	}
	if c.FadeOutRatio <= 0 {
		c.FadeOutRatio = 0.35
	}
	if c.FadeInRatio <= 0 {
		c.FadeInRatio = 0.35
	}
	if c.FadeOutRatio+c.FadeInRatio > 1 {
		scale := 1 / (c.FadeOutRatio + c.FadeInRatio)
		c.FadeOutRatio *= scale
		c.FadeInRatio *= scale
	}
}

// Machine runs era transitions. It is owned by a single goroutine (the scene
// loop); cross-goroutine callers go through that loop's request channels.
//
// Progress is always recomputed from absolute elapsed wall-clock time, never
// accumulated, so Tick tolerates arbitrary call cadence. The Loading phase is
// purely wall-clock too: a slow load does not stretch it, it just makes the
// phase visually instantaneous.
type Machine struct {
	cfg     Config
	obs     Observer
	loader  Loader
	sink    ContentSink
	targets []FadeTarget
	log     *log.Logger

	current *era.Era
	sess    *session
	gen     uint64
}

func NewMachine(cfg Config, obs Observer, loader Loader, sink ContentSink, logger *log.Logger, targets ...FadeTarget) *Machine {
	cfg.ApplyDefaults()
	return &Machine{
		cfg:     cfg,
		obs:     obs,
		loader:  loader,
		sink:    sink,
		targets: targets,
		log:     logger,
	}
}

// Begin starts a transition to target. The requested direction is only
// consulted when no current era exists yet; otherwise effect and direction
// derive from the two era ages. Fails with ErrAlreadyInProgress while a
// session is active, leaving that session untouched.
func (m *Machine) Begin(target era.Era, requested Direction, now time.Time) (*Ticket, error) {
	if m.sess != nil {
		return nil, ErrAlreadyInProgress
	}

	var (
		effect Effect
		dir    Direction
	)
	if m.current != nil {
		effect, dir = SelectEffect(m.current.YearsAgo, target.YearsAgo)
	} else {
		dir = requested
		effect = EffectForDirection(requested)
	}

	m.gen++
	ctx, cancel := context.WithCancel(context.Background())
	s := &session{
		target:      target,
		direction:   dir,
		effect:      effect,
		phase:       PhaseFadingOut,
		start:       now,
		duration:    time.Duration(m.cfg.DurationMs) * time.Millisecond,
		fadeOutEnd:  m.cfg.FadeOutRatio,
		loadingEnd:  1 - m.cfg.FadeInRatio,
		fadeInRatio: m.cfg.FadeInRatio,
		gen:         m.gen,
		ticket:      newTicket(),
		ctx:         ctx,
		cancel:      cancel,
	}
	m.sess = s

	m.obs.SliderLockChanged(true)
	m.obs.TransitionStarted(m.current, target)
	return s.ticket, nil
}

// Cancel aborts the active session, if any. Idempotent; a no-op while Idle.
// The pending ticket rejects with ErrCancelled exactly once and any load
// still in flight resolves into a dead session generation and is ignored.
func (m *Machine) Cancel() {
	s := m.sess
	if s == nil {
		return
	}
	m.gen++ // stale-load guard
	s.cancel()
	m.sess = nil
	m.obs.SliderLockChanged(false)
	s.ticket.resolve(ErrCancelled)
}

// Tick advances the session against wall-clock time. Call it every rendered
// frame or on a timer; it is robust to any Δt because progress derives from
// now-start, not from tick count. Large jumps traverse multiple phases in
// one call.
func (m *Machine) Tick(now time.Time) {
	s := m.sess
	if s == nil {
		return
	}

	elapsed := now.Sub(s.start)
	s.progress = clamp01(float64(elapsed) / float64(s.duration))

	for {
		switch s.phase {
		case PhaseFadingOut:
			if s.progress < s.fadeOutEnd {
				m.applyOpacity(1 - s.progress/s.fadeOutEnd)
				return
			}
			m.applyOpacity(0)
			m.sink.ClearContent()
			s.phase = PhaseLoading
			m.loadContent(s)
			if m.sess != s { // cancelled underneath the load call
				return
			}

		case PhaseLoading:
			if s.progress < s.loadingEnd {
				return
			}
			s.phase = PhaseFadingIn

		case PhaseFadingIn:
			if s.progress < 1 {
				m.applyOpacity((s.progress - s.loadingEnd) / s.fadeInRatio)
				return
			}
			s.phase = PhaseComplete

		case PhaseComplete:
			m.applyOpacity(1)
			m.complete(s)
			return

		default:
			return
		}
	}
}

func (m *Machine) loadContent(s *session) {
	if s.loaded {
		return
	}
	s.loaded = true
	gen := s.gen
	creatures, err := m.loader.LoadCreatures(s.ctx, s.target)
	if gen != m.gen {
		// Session died while the loader ran; drop the result.
		return
	}
	if err != nil {
		if m.log != nil {
			m.log.Printf("transition: load creatures for era %s failed, continuing without content: %v", s.target.ID, err)
		}
		return
	}
	m.sink.PopulateContent(s.target, creatures)
}

func (m *Machine) complete(s *session) {
	committed := s.target
	m.current = &committed
	m.sess = nil
	s.cancel()
	m.obs.SliderLockChanged(false)
	m.obs.TransitionCompleted(committed)
	s.ticket.resolve(nil)
}

func (m *Machine) applyOpacity(v float64) {
	op := OpacityForPhaseProgress(v)
	for _, t := range m.targets {
		t.ApplyOpacity(op)
	}
}

// CurrentEra returns the committed era, nil before the first completed
// transition.
func (m *Machine) CurrentEra() *era.Era { return m.current }

func (m *Machine) Phase() Phase {
	if m.sess == nil {
		return PhaseIdle
	}
	return m.sess.phase
}

func (m *Machine) Progress() float64 {
	if m.sess == nil {
		return 0
	}
	return m.sess.progress
}

func (m *Machine) Effect() Effect {
	if m.sess == nil {
		return EffectEmerge
	}
	return m.sess.effect
}

func (m *Machine) Direction() Direction {
	if m.sess == nil {
		return DirectionFuture
	}
	return m.sess.direction
}

// Snapshot returns a read-only copy of the session state.
func (m *Machine) Snapshot() Snapshot {
	s := m.sess
	if s == nil {
		return Snapshot{Phase: PhaseIdle}
	}
	return Snapshot{
		TargetEraID: s.target.ID,
		Direction:   s.direction,
		Effect:      s.effect,
		Phase:       s.phase,
		Progress:    s.progress,
		DurationMs:  int(s.duration / time.Millisecond),
	}
}
