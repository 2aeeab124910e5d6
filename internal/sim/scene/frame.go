package scene

import (
	"encoding/json"

	"chronoscape.ai/internal/protocol"
	"chronoscape.ai/internal/sim/transition"
)

// buildFrame assembles the per-tick orchestration state the render layer
// consumes. The scene issues values; it never touches pixels.
func (s *Scene) buildFrame(tick uint64) protocol.FrameMsg {
	f := protocol.FrameMsg{
		Type:            protocol.TypeFrame,
		ProtocolVersion: protocol.Version,
		Tick:            tick,
		Phase:           s.machine.Phase().String(),
		Progress:        s.machine.Progress(),
		Opacity:         s.opacity,
		SliderLocked:    s.sliderLocked,
	}
	if e := s.machine.CurrentEra(); e != nil {
		f.EraID = e.ID
	}
	if s.machine.Phase() != transition.PhaseIdle {
		f.Effect = s.machine.Effect().String()
		f.Direction = s.machine.Direction().String()
	}
	for _, inst := range s.instances {
		f.Creatures = append(f.Creatures, protocol.PlacedInstance{
			ID:       inst.ID,
			Position: protocol.Vec3{X: inst.Position.X, Y: inst.Position.Y, Z: inst.Position.Z},
			ScaleM:   s.instanceScale[inst.ID],
		})
	}
	return f
}

func (s *Scene) broadcastFrame(tick uint64) {
	if len(s.clients) == 0 {
		return
	}
	b, err := json.Marshal(s.buildFrame(tick))
	if err != nil {
		if s.log != nil {
			s.log.Printf("scene %s: marshal frame: %v", s.cfg.ID, err)
		}
		return
	}
	for _, out := range s.clients {
		sendLatest(out, b)
	}
}

// sendLatest delivers b without blocking the scene loop: a slow client loses
// its oldest queued frame rather than stalling everyone else.
func sendLatest(ch chan []byte, b []byte) {
	select {
	case ch <- b:
		return
	default:
	}
	// Drop one.
	select {
	case <-ch:
	default:
	}
	select {
	case ch <- b:
	default:
	}
}
