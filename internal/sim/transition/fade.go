package transition

// FadeTarget receives opacity values the machine computes during fade
// phases. Material-opacity setters and full-scene shader uniforms are the
// same operation on different sinks, so both implement this one interface.
type FadeTarget interface {
	ApplyOpacity(opacity float64)
}

// FadeTargetFunc adapts a function to FadeTarget.
type FadeTargetFunc func(opacity float64)

func (f FadeTargetFunc) ApplyOpacity(opacity float64) { f(opacity) }

// OpacityForPhaseProgress maps a phase-local progress value to an opacity.
// The identity clamp: callers compute the phase-local ramp, this pins it to
// the displayable range.
func OpacityForPhaseProgress(phaseLocalT float64) float64 {
	return clamp01(phaseLocalT)
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
