package scene

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"chronoscape.ai/internal/protocol"
	"chronoscape.ai/internal/sim/transition"
)

type joinReq struct {
	ClientName string
	MaxQueue   int
	Resp       chan joinResp
}

type joinResp struct {
	ClientID string
	Out      chan []byte
}

type travelReq struct {
	TravelID  string
	EraID     string
	Direction string
	Resp      chan travelResp
}

type travelResp struct {
	Code string // empty when accepted, protocol.Err* otherwise
}

type cancelReq struct {
	Resp chan struct{}
}

type snapshotReq struct {
	Resp chan Status
}

// Status is a read-only snapshot of scene state for admin/debug surfaces.
type Status struct {
	Tick         uint64
	EraID        string
	Phase        string
	Progress     float64
	SliderLocked bool
	GroundKnown  bool
	Instances    int
	Clients      int
}

// RequestJoin registers a render client and returns its id and outbound
// frame channel. Served by the Run goroutine.
func (s *Scene) RequestJoin(ctx context.Context, clientName string, maxQueue int) (string, <-chan []byte, error) {
	req := joinReq{
		ClientName: clientName,
		MaxQueue:   maxQueue,
		Resp:       make(chan joinResp, 1),
	}
	select {
	case s.join <- req:
	case <-ctx.Done():
		return "", nil, ctx.Err()
	}
	select {
	case resp := <-req.Resp:
		return resp.ClientID, resp.Out, nil
	case <-ctx.Done():
		return "", nil, ctx.Err()
	}
}

// Leave unregisters a client. Fire-and-forget, safe after Run exits.
func (s *Scene) Leave(clientID string) {
	select {
	case s.leave <- clientID:
	case <-s.stop:
	}
}

// RequestTravel asks for a transition to eraID. The returned code is empty
// when the travel was accepted, otherwise a protocol error code.
func (s *Scene) RequestTravel(ctx context.Context, travelID, eraID, direction string) (string, error) {
	req := travelReq{
		TravelID:  travelID,
		EraID:     eraID,
		Direction: direction,
		Resp:      make(chan travelResp, 1),
	}
	select {
	case s.travelCh <- req:
	case <-ctx.Done():
		return "", ctx.Err()
	}
	select {
	case resp := <-req.Resp:
		return resp.Code, nil
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

// RequestCancel aborts the in-flight transition, if any. Idempotent.
func (s *Scene) RequestCancel(ctx context.Context) error {
	req := cancelReq{Resp: make(chan struct{}, 1)}
	select {
	case s.cancelCh <- req:
	case <-ctx.Done():
		return ctx.Err()
	}
	select {
	case <-req.Resp:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// PushGround delivers a new ground-plane hit-test height. Latest wins; the
// channel is buffered and an overflow drops the oldest pending update.
func (s *Scene) PushGround(y float64) {
	select {
	case s.groundCh <- y:
		return
	default:
	}
	// Drop one stale update.
	select {
	case <-s.groundCh:
	default:
	}
	select {
	case s.groundCh <- y:
	default:
	}
}

// RequestStatus returns a snapshot of scene state.
func (s *Scene) RequestStatus(ctx context.Context) (Status, error) {
	req := snapshotReq{Resp: make(chan Status, 1)}
	select {
	case s.snapshot <- req:
	case <-ctx.Done():
		return Status{}, ctx.Err()
	}
	select {
	case st := <-req.Resp:
		return st, nil
	case <-ctx.Done():
		return Status{}, ctx.Err()
	}
}

func (s *Scene) handleJoin(req joinReq) {
	maxQ := req.MaxQueue
	if maxQ <= 0 {
		maxQ = 8
	}
	if maxQ > 64 {
		maxQ = 64
	}
	id := uuid.NewString()
	out := make(chan []byte, maxQ)
	s.clients[id] = out
	req.Resp <- joinResp{ClientID: id, Out: out}
}

func (s *Scene) handleLeave(clientID string) {
	if out, ok := s.clients[clientID]; ok {
		delete(s.clients, clientID)
		close(out)
	}
}

func (s *Scene) handleTravel(req travelReq, now time.Time) {
	resp := travelResp{}
	defer func() { req.Resp <- resp }()

	target := s.cats.Get(req.EraID)
	if target == nil {
		resp.Code = protocol.ErrEraNotFound
		return
	}
	dir, ok := transition.ParseDirection(req.Direction)
	if !ok {
		resp.Code = protocol.ErrBadRequest
		return
	}

	_, err := s.machine.Begin(*target, dir, now)
	switch {
	case errors.Is(err, transition.ErrAlreadyInProgress):
		resp.Code = protocol.ErrTravelBusy
		return
	case err != nil:
		resp.Code = protocol.ErrInternal
		return
	}
	s.sessionID = uuid.NewString()
	s.sessionStart = now.UTC()
}

func (s *Scene) handleCancel(req cancelReq) {
	if s.machine.Phase() != transition.PhaseIdle {
		s.machine.Cancel()
		s.record(OutcomeCancelled, s.sessionEraID)
	}
	req.Resp <- struct{}{}
}

func (s *Scene) handleStatus(req snapshotReq) {
	eraID := ""
	if e := s.machine.CurrentEra(); e != nil {
		eraID = e.ID
	}
	_, known := s.ground.GroundY()
	req.Resp <- Status{
		Tick:         s.tick.Load(),
		EraID:        eraID,
		Phase:        s.machine.Phase().String(),
		Progress:     s.machine.Progress(),
		SliderLocked: s.sliderLocked,
		GroundKnown:  known,
		Instances:    len(s.instances),
		Clients:      len(s.clients),
	}
}
