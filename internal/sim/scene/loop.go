package scene

import (
	"context"
	"time"
)

// Run drives the scene until ctx is cancelled or Stop is called. It owns all
// scene state; every external entry point funnels through the select below.
func (s *Scene) Run(ctx context.Context) error {
	interval := time.Second / time.Duration(s.cfg.TickRateHz)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-s.stop:
			return nil
		case req := <-s.join:
			s.handleJoin(req)
		case id := <-s.leave:
			s.handleLeave(id)
		case req := <-s.travelCh:
			s.handleTravel(req, time.Now())
		case req := <-s.cancelCh:
			s.handleCancel(req)
		case y := <-s.groundCh:
			s.ground.SetGroundY(y)
		case req := <-s.snapshot:
			s.handleStatus(req)
		case now := <-ticker.C:
			s.stepInternal(now)
		}
	}
}

func (s *Scene) Stop() { close(s.stop) }

// StepOnce advances the scene by a single tick at the given time. The same
// path the server ticker takes, exposed for deterministic tests and replays.
func (s *Scene) StepOnce(now time.Time) uint64 {
	s.stepInternal(now)
	return s.tick.Load()
}

func (s *Scene) stepInternal(now time.Time) {
	s.machine.Tick(now)
	tick := s.tick.Add(1)
	s.broadcastFrame(tick)
}
