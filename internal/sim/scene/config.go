package scene

import (
	"chronoscape.ai/internal/sim/placement"
	"chronoscape.ai/internal/sim/transition"
	"chronoscape.ai/internal/sim/tuning"
)

type Config struct {
	ID         string
	TickRateHz int
	Seed       int64

	// Center is the distribution center creatures are placed around,
	// typically a point in front of the viewer on first plane detection.
	Center placement.Vec3

	Transition   transition.Config
	Placement    placement.Config
	MaxCreatures int

	// EffectPatternSize is the side length of the dissolve threshold grid.
	EffectPatternSize int
}

func (c *Config) applyDefaults() {
	if c.ID == "" {
		c.ID = "scene_1"
	}
	if c.TickRateHz <= 0 {
		c.TickRateHz = 30
	}
	if c.Center == (placement.Vec3{}) {
		c.Center = placement.Vec3{X: 0, Y: 0, Z: -3}
	}
	if c.MaxCreatures <= 0 {
		c.MaxCreatures = 3
	}
	if c.EffectPatternSize <= 0 {
		c.EffectPatternSize = 32
	}
	c.Transition.ApplyDefaults()
	c.Placement.ApplyDefaults()
}

// ConfigFromTuning maps the yaml tuning document onto a scene config.
func ConfigFromTuning(t tuning.Tuning, id string, seed int64) Config {
	return Config{
		ID:         id,
		TickRateHz: t.TickRateHz,
		Seed:       seed,
		Transition: transition.Config{
			DurationMs:   t.Transition.DurationMs,
			FadeOutRatio: t.Transition.FadeOutRatio,
			FadeInRatio:  t.Transition.FadeInRatio,
		},
		Placement: placement.Config{
			MinSpacing:             t.Placement.MinSpacingM,
			DistributionRadius:     t.Placement.DistributionRadiusM,
			MaxAttemptsPerCreature: t.Placement.MaxAttemptsPerCreature,
			OverlapThreshold:       t.Placement.OverlapThreshold,
			Seed:                   seed,
		},
		MaxCreatures:      t.Placement.MaxCreatures,
		EffectPatternSize: t.Effect.PatternSize,
	}
}
