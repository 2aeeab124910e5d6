package scene

import (
	"log"
	"sync/atomic"
	"time"

	"chronoscape.ai/internal/sim/effect"
	"chronoscape.ai/internal/sim/era"
	"chronoscape.ai/internal/sim/placement"
	"chronoscape.ai/internal/sim/transition"
)

// SessionRecord summarizes one finished transition session for persistence.
type SessionRecord struct {
	SessionID  string    `json:"session_id"`
	SceneID    string    `json:"scene_id"`
	EraID      string    `json:"era_id"`
	Direction  string    `json:"direction"`
	Effect     string    `json:"effect"`
	StartedAt  time.Time `json:"started_at"`
	EndedAt    time.Time `json:"ended_at"`
	DurationMs int       `json:"duration_ms"`
	Outcome    string    `json:"outcome"` // "COMPLETED" or "CANCELLED"
	Placed     int       `json:"placed"`
}

// Outcome values for SessionRecord.
const (
	OutcomeCompleted = "COMPLETED"
	OutcomeCancelled = "CANCELLED"
)

// Recorder receives finished session records. The sqlite journal and the
// zstd travel log both implement it.
type Recorder interface {
	RecordSession(rec SessionRecord, placed []placement.PlacedCreature)
}

// Scene owns one AR scene: the transition machine, the placement engine, the
// ground plane, the placed instances, and the connected render clients. All
// state is owned by the Run goroutine; external callers use the Request*
// methods, which funnel through channels.
type Scene struct {
	cfg  Config
	cats *era.Catalog
	log  *log.Logger

	ground  *placement.GroundPlane
	engine  *placement.Engine
	machine *transition.Machine
	loader  transition.Loader
	pattern effect.Pattern

	recorders []Recorder

	tick atomic.Uint64

	clients       map[string]chan []byte
	instances     []placement.PlacedCreature
	instanceScale map[string]float64

	sliderLocked  bool
	opacity       float64
	effectUniform float64

	// Active session bookkeeping for the recorders. Direction, effect and
	// duration are captured at start; the machine forgets its session
	// before completion callbacks run.
	sessionID        string
	sessionStart     time.Time
	sessionEraID     string
	sessionDirection string
	sessionEffect    string
	sessionDuration  int

	join     chan joinReq
	leave    chan string
	travelCh chan travelReq
	cancelCh chan cancelReq
	groundCh chan float64
	snapshot chan snapshotReq
	stop     chan struct{}
}

func New(cfg Config, cats *era.Catalog, loader transition.Loader, logger *log.Logger, recorders ...Recorder) *Scene {
	cfg.applyDefaults()
	s := &Scene{
		cfg:           cfg,
		cats:          cats,
		log:           logger,
		ground:        placement.NewGroundPlane(),
		pattern:       effect.NewPattern(cfg.Seed, cfg.EffectPatternSize),
		recorders:     recorders,
		clients:       make(map[string]chan []byte),
		instanceScale: make(map[string]float64),
		opacity:       1,
		loader:        loader,
		join:          make(chan joinReq),
		leave:         make(chan string, 8),
		travelCh:      make(chan travelReq),
		cancelCh:      make(chan cancelReq),
		groundCh:      make(chan float64, 8),
		snapshot:      make(chan snapshotReq),
		stop:          make(chan struct{}),
	}
	s.engine = placement.NewEngine(cfg.Placement, s.ground, logger)

	// The scene is observer, content sink, and both fade targets: one
	// opacity track for per-object materials, one for the full-scene
	// shader's progress uniform.
	material := transition.FadeTargetFunc(func(v float64) { s.opacity = v })
	shader := transition.FadeTargetFunc(func(v float64) { s.effectUniform = v })
	s.machine = transition.NewMachine(cfg.Transition, (*observer)(s), loader, (*contentSink)(s), logger, material, shader)
	return s
}

func (s *Scene) ID() string              { return s.cfg.ID }
func (s *Scene) Tick() uint64            { return s.tick.Load() }
func (s *Scene) Pattern() effect.Pattern { return s.pattern }
func (s *Scene) Params() Config          { return s.cfg }
func (s *Scene) Catalog() *era.Catalog   { return s.cats }

// observer adapts Scene to transition.Observer without widening the Scene
// API surface.
type observer Scene

func (o *observer) SliderLockChanged(locked bool) {
	s := (*Scene)(o)
	s.sliderLocked = locked
}

func (o *observer) TransitionStarted(previous *era.Era, target era.Era) {
	s := (*Scene)(o)
	snap := s.machine.Snapshot()
	s.sessionEraID = target.ID
	s.sessionDirection = snap.Direction.String()
	s.sessionEffect = snap.Effect.String()
	s.sessionDuration = snap.DurationMs
	if s.log != nil {
		from := "(none)"
		if previous != nil {
			from = previous.ID
		}
		s.log.Printf("scene %s: transition %s -> %s", s.cfg.ID, from, target.ID)
	}
}

func (o *observer) TransitionCompleted(target era.Era) {
	s := (*Scene)(o)
	s.record(OutcomeCompleted, target.ID)
}

// contentSink adapts Scene to transition.ContentSink.
type contentSink Scene

func (c *contentSink) ClearContent() {
	s := (*Scene)(c)
	s.instances = nil
	s.instanceScale = make(map[string]float64)
}

func (c *contentSink) PopulateContent(target era.Era, creatures []era.CreatureDescriptor) {
	s := (*Scene)(c)
	center := s.cfg.Center
	center.Y = s.ground.AnchorY(center.Y)
	s.instances = s.engine.Distribute(creatures, center, s.cfg.MaxCreatures, nil)
	for _, cr := range creatures {
		s.instanceScale[cr.ID] = cr.RealWorldScaleMeters
	}
	if !placement.ValidateDistribution(s.instances, s.cfg.Placement.OverlapThreshold) && s.log != nil {
		s.log.Printf("scene %s: distribution for era %s failed validation", s.cfg.ID, target.ID)
	}
}

func (s *Scene) record(outcome, eraID string) {
	if s.sessionID == "" {
		return
	}
	rec := SessionRecord{
		SessionID:  s.sessionID,
		SceneID:    s.cfg.ID,
		EraID:      eraID,
		Direction:  s.sessionDirection,
		Effect:     s.sessionEffect,
		StartedAt:  s.sessionStart,
		EndedAt:    time.Now().UTC(),
		DurationMs: s.sessionDuration,
		Outcome:    outcome,
		Placed:     len(s.instances),
	}
	for _, r := range s.recorders {
		r.RecordSession(rec, s.instances)
	}
	s.sessionID = ""
}
