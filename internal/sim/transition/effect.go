package transition

// Effect is the visual treatment a transition asks the render layer for.
type Effect uint8

const (
	EffectDissolve Effect = iota // current scene dissolves away (travelling past)
	EffectEmerge                 // new scene emerges (travelling future)
)

func (e Effect) String() string {
	switch e {
	case EffectDissolve:
		return "DISSOLVE"
	case EffectEmerge:
		return "EMERGE"
	default:
		return "UNKNOWN"
	}
}

// Direction is the travel direction along the timeline.
type Direction uint8

const (
	DirectionPast Direction = iota
	DirectionFuture
)

func (d Direction) String() string {
	switch d {
	case DirectionPast:
		return "PAST"
	case DirectionFuture:
		return "FUTURE"
	default:
		return "UNKNOWN"
	}
}

// ParseDirection maps the wire form back to a Direction.
func ParseDirection(s string) (Direction, bool) {
	switch s {
	case "PAST":
		return DirectionPast, true
	case "FUTURE":
		return DirectionFuture, true
	default:
		return DirectionFuture, false
	}
}

// SelectEffect decides effect and direction from the two era ages. Moving to
// a larger age (deeper past) dissolves; anything else emerges. Pure; the
// machine calls it once at transition start and freezes the result.
func SelectEffect(currentAgeYears, targetAgeYears float64) (Effect, Direction) {
	if targetAgeYears > currentAgeYears {
		return EffectDissolve, DirectionPast
	}
	return EffectEmerge, DirectionFuture
}

// EffectForDirection maps a caller-requested direction to its effect. Used on
// the first transition, when no current era exists to compare ages against.
func EffectForDirection(requested Direction) Effect {
	if requested == DirectionPast {
		return EffectDissolve
	}
	return EffectEmerge
}
