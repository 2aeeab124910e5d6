package ws

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"chronoscape.ai/internal/protocol"
	"chronoscape.ai/internal/sim/scene"
)

type Server struct {
	scene *scene.Scene
	log   *log.Logger

	upgrader websocket.Upgrader
}

func NewServer(sc *scene.Scene, logger *log.Logger) *Server {
	return &Server{
		scene: sc,
		log:   logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  64 * 1024,
			WriteBufferSize: 64 * 1024,
			CheckOrigin:     func(r *http.Request) bool { return true }, // dev default
		},
	}
}

func (s *Server) Handler() http.HandlerFunc {
	return func(rw http.ResponseWriter, r *http.Request) {
		conn, err := s.upgrader.Upgrade(rw, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()

		clientID, out := s.handshake(conn)
		if clientID == "" {
			return
		}

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		// Writer goroutine: frames from the scene loop plus acks queued by
		// the reader below. Only this goroutine touches the conn for data
		// writes.
		acks := make(chan []byte, 8)
		go func() {
			write := func(b []byte) bool {
				_ = conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
				if err := conn.WriteMessage(websocket.TextMessage, b); err != nil {
					cancel()
					return false
				}
				return true
			}
			for {
				select {
				case <-ctx.Done():
					return
				case b := <-acks:
					if !write(b) {
						return
					}
				case b, ok := <-out:
					if !ok {
						return
					}
					if !write(b) {
						return
					}
				}
			}
		}()

		// Reader loop.
		for {
			_ = conn.SetReadDeadline(time.Now().Add(60 * time.Second))
			_, msg, err := conn.ReadMessage()
			if err != nil {
				cancel()
				break
			}
			s.route(ctx, acks, msg)
		}

		s.scene.Leave(clientID)
	}
}

func (s *Server) route(ctx context.Context, acks chan<- []byte, msg []byte) {
	base, err := protocol.DecodeBase(msg)
	if err != nil {
		return
	}
	callCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	switch base.Type {
	case protocol.TypeTravel:
		var travel protocol.TravelMsg
		if err := json.Unmarshal(msg, &travel); err != nil {
			return
		}
		if travel.ProtocolVersion != protocol.Version {
			s.queueAck(ctx, acks, travel.TravelID, protocol.ErrProtoBadRequest, "unsupported protocol_version")
			return
		}
		code, err := s.scene.RequestTravel(callCtx, travel.TravelID, travel.EraID, travel.Direction)
		if err != nil {
			s.queueAck(ctx, acks, travel.TravelID, protocol.ErrInternal, err.Error())
			return
		}
		s.queueAck(ctx, acks, travel.TravelID, code, "")

	case protocol.TypeCancel:
		var cancelMsg protocol.CancelMsg
		if err := json.Unmarshal(msg, &cancelMsg); err != nil {
			return
		}
		if err := s.scene.RequestCancel(callCtx); err != nil {
			s.queueAck(ctx, acks, cancelMsg.TravelID, protocol.ErrInternal, err.Error())
			return
		}
		s.queueAck(ctx, acks, cancelMsg.TravelID, "", "")

	case protocol.TypeGround:
		var ground protocol.GroundMsg
		if err := json.Unmarshal(msg, &ground); err != nil {
			return
		}
		s.scene.PushGround(ground.GroundY)
	}
}

func (s *Server) queueAck(ctx context.Context, acks chan<- []byte, ackFor, code, message string) {
	ack := protocol.AckMsg{
		Type:            protocol.TypeAck,
		ProtocolVersion: protocol.Version,
		AckFor:          ackFor,
		Accepted:        code == "",
		Code:            code,
		Message:         message,
		ServerTick:      s.scene.Tick(),
	}
	b, err := json.Marshal(ack)
	if err != nil {
		return
	}
	select {
	case acks <- b:
	case <-ctx.Done():
	}
}

func (s *Server) handshake(conn *websocket.Conn) (clientID string, out <-chan []byte) {
	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	_, msg, err := conn.ReadMessage()
	if err != nil {
		return "", nil
	}

	base, err := protocol.DecodeBase(msg)
	if err != nil || base.Type != protocol.TypeHello {
		_ = conn.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.ClosePolicyViolation, "expected HELLO"), time.Now().Add(time.Second))
		return "", nil
	}

	var hello protocol.HelloMsg
	if err := json.Unmarshal(msg, &hello); err != nil {
		return "", nil
	}
	if hello.ProtocolVersion != protocol.Version {
		_ = conn.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.ClosePolicyViolation, "bad protocol_version"), time.Now().Add(time.Second))
		return "", nil
	}

	joinCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	id, outCh, err := s.scene.RequestJoin(joinCtx, hello.ClientName, hello.Capabilities.MaxQueue)
	if err != nil {
		return "", nil
	}

	welcome := s.buildWelcome(id)
	b, err := json.Marshal(welcome)
	if err != nil {
		s.scene.Leave(id)
		return "", nil
	}
	_ = conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
	if err := conn.WriteMessage(websocket.TextMessage, b); err != nil {
		s.scene.Leave(id)
		return "", nil
	}
	return id, outCh
}

func (s *Server) buildWelcome(clientID string) protocol.WelcomeMsg {
	params := s.scene.Params()
	cats := s.scene.Catalog()
	pattern := s.scene.Pattern()

	w := protocol.WelcomeMsg{
		Type:            protocol.TypeWelcome,
		ProtocolVersion: protocol.Version,
		ClientID:        clientID,
		SceneParams: protocol.SceneParams{
			TickRateHz:         params.TickRateHz,
			Seed:               params.Seed,
			DurationMs:         params.Transition.DurationMs,
			FadeOutRatio:       params.Transition.FadeOutRatio,
			FadeInRatio:        params.Transition.FadeInRatio,
			MinSpacingM:        params.Placement.MinSpacing,
			DistributionRadius: params.Placement.DistributionRadius,
			MaxCreatures:       params.MaxCreatures,
		},
		ErasDigest: cats.Digest,
		EffectPattern: protocol.EffectPattern{
			Size:   pattern.Size,
			Seed:   pattern.Seed,
			Values: pattern.Values,
		},
	}
	for i := range cats.Eras {
		e := &cats.Eras[i]
		w.Eras = append(w.Eras, protocol.EraRef{
			ID:            e.ID,
			Name:          e.Name,
			YearsAgo:      e.YearsAgo,
			CreatureCount: len(e.Creatures),
		})
	}
	return w
}
