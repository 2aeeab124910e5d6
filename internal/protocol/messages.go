package protocol

// HELLO (client -> server)
type HelloMsg struct {
	Type            string            `json:"type"`
	ProtocolVersion string            `json:"protocol_version"`
	ClientName      string            `json:"client_name"`
	Capabilities    HelloCapabilities `json:"capabilities,omitempty"`
}

type HelloCapabilities struct {
	MaxQueue int `json:"max_queue,omitempty"`
}

// WELCOME (server -> client)
type WelcomeMsg struct {
	Type            string        `json:"type"`
	ProtocolVersion string        `json:"protocol_version"`
	ClientID        string        `json:"client_id"`
	SceneParams     SceneParams   `json:"scene_params"`
	Eras            []EraRef      `json:"eras"`
	ErasDigest      string        `json:"eras_digest"`
	EffectPattern   EffectPattern `json:"effect_pattern"`
}

type SceneParams struct {
	TickRateHz         int     `json:"tick_rate_hz"`
	Seed               int64   `json:"seed"`
	DurationMs         int     `json:"duration_ms"`
	FadeOutRatio       float64 `json:"fade_out_ratio"`
	FadeInRatio        float64 `json:"fade_in_ratio"`
	MinSpacingM        float64 `json:"min_spacing_m"`
	DistributionRadius float64 `json:"distribution_radius_m"`
	MaxCreatures       int     `json:"max_creatures"`
}

type EraRef struct {
	ID            string  `json:"id"`
	Name          string  `json:"name"`
	YearsAgo      float64 `json:"years_ago"`
	CreatureCount int     `json:"creature_count"`
}

// EffectPattern is the dissolve/emerge threshold grid the client shader
// samples against the progress uniform.
type EffectPattern struct {
	Size   int       `json:"size"`
	Seed   int64     `json:"seed"`
	Values []float64 `json:"values"`
}

// TRAVEL (client -> server): request a transition to an era.
type TravelMsg struct {
	Type            string `json:"type"`
	ProtocolVersion string `json:"protocol_version"`
	TravelID        string `json:"travel_id"`
	EraID           string `json:"era_id"`
	Direction       string `json:"direction"` // "PAST" or "FUTURE"
}

// CANCEL (client -> server): abort the in-flight transition, if any.
type CancelMsg struct {
	Type            string `json:"type"`
	ProtocolVersion string `json:"protocol_version"`
	TravelID        string `json:"travel_id,omitempty"`
}

// GROUND (client -> server): a new AR hit-test result for the ground plane.
type GroundMsg struct {
	Type            string  `json:"type"`
	ProtocolVersion string  `json:"protocol_version"`
	GroundY         float64 `json:"ground_y"`
}

// FRAME (server -> client): one tick of orchestration state. The client
// applies Opacity to whichever content its phase shows and positions the
// listed instances; pixels stay on the client.
type FrameMsg struct {
	Type            string           `json:"type"`
	ProtocolVersion string           `json:"protocol_version"`
	Tick            uint64           `json:"tick"`
	EraID           string           `json:"era_id,omitempty"` // committed era, empty before first travel
	Phase           string           `json:"phase"`
	Progress        float64          `json:"progress"`
	Opacity         float64          `json:"opacity"`
	Effect          string           `json:"effect,omitempty"`
	Direction       string           `json:"direction,omitempty"`
	SliderLocked    bool             `json:"slider_locked"`
	Creatures       []PlacedInstance `json:"creatures,omitempty"`
}

type PlacedInstance struct {
	ID       string  `json:"id"`
	Position Vec3    `json:"position"`
	ScaleM   float64 `json:"scale_m"`
}

type Vec3 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// ACK (server -> client): accept/reject for TRAVEL and CANCEL.
type AckMsg struct {
	Type            string `json:"type"`
	ProtocolVersion string `json:"protocol_version"`
	AckFor          string `json:"ack_for"`
	Accepted        bool   `json:"accepted"`
	Code            string `json:"code,omitempty"`
	Message         string `json:"message,omitempty"`
	ServerTick      uint64 `json:"server_tick,omitempty"`
}
