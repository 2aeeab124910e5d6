package transition

import (
	"context"
	"errors"
	"time"

	"chronoscape.ai/internal/sim/era"
)

var (
	// ErrAlreadyInProgress rejects a Begin while a session is active. The
	// existing session is left untouched; the caller may retry later.
	ErrAlreadyInProgress = errors.New("transition already in progress")

	// ErrCancelled is delivered to the original caller's ticket when the
	// session is cancelled. Expected, not an error condition worth logging.
	ErrCancelled = errors.New("transition cancelled")
)

// Phase is one state of the transition machine. The only edges are
// Idle → FadingOut → Loading → FadingIn → Complete → Idle, plus Cancel from
// any non-Idle phase straight back to Idle.
type Phase uint8

const (
	PhaseIdle Phase = iota
	PhaseFadingOut
	PhaseLoading
	PhaseFadingIn
	PhaseComplete
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "IDLE"
	case PhaseFadingOut:
		return "FADING_OUT"
	case PhaseLoading:
		return "LOADING"
	case PhaseFadingIn:
		return "FADING_IN"
	case PhaseComplete:
		return "COMPLETE"
	default:
		return "UNKNOWN"
	}
}

// Duration clamp bounds, milliseconds.
const (
	MinDurationMs = 1000
	MaxDurationMs = 2000
)

// session is the single in-flight transition. Only the machine mutates it;
// everything else sees Snapshot copies.
type session struct {
	target    era.Era
	direction Direction
	effect    Effect

	phase    Phase
	progress float64

	start       time.Time
	duration    time.Duration
	fadeOutEnd  float64 // == fadeOutRatio
	loadingEnd  float64 // fadeOutRatio + (1 - fadeOutRatio - fadeInRatio)
	fadeInRatio float64

	gen    uint64 // stale-load guard
	ticket *Ticket

	ctx    context.Context
	cancel context.CancelFunc

	loaded bool // the load call for this session has been issued
}

// Snapshot is a read-only view of the active session. The zero value (phase
// Idle) is returned while no transition is running.
type Snapshot struct {
	TargetEraID string
	Direction   Direction
	Effect      Effect
	Phase       Phase
	Progress    float64
	DurationMs  int
}

// Ticket is the pending outcome of one Begin call. Done delivers exactly one
// value: nil when the transition completes, ErrCancelled when it is
// cancelled.
type Ticket struct {
	done chan error
}

func newTicket() *Ticket {
	return &Ticket{done: make(chan error, 1)}
}

// Done reports the transition outcome. The channel never delivers twice.
func (t *Ticket) Done() <-chan error { return t.done }

func (t *Ticket) resolve(err error) {
	select {
	case t.done <- err:
	default:
	}
}
