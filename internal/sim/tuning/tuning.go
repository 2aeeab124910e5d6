package tuning

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Tuning struct {
	ProtocolVersion string `yaml:"protocol_version"`

	TickRateHz int `yaml:"tick_rate_hz"`

	Transition TransitionTuning `yaml:"transition"`
	Placement  PlacementTuning  `yaml:"placement"`
	Effect     EffectTuning     `yaml:"effect"`
}

type TransitionTuning struct {
	DurationMs   int     `yaml:"duration_ms"`
	FadeOutRatio float64 `yaml:"fade_out_ratio"`
	FadeInRatio  float64 `yaml:"fade_in_ratio"`
}

type PlacementTuning struct {
	MinSpacingM            float64 `yaml:"min_spacing_m"`
	DistributionRadiusM    float64 `yaml:"distribution_radius_m"`
	MaxCreatures           int     `yaml:"max_creatures"`
	MaxAttemptsPerCreature int     `yaml:"max_attempts_per_creature"`
	OverlapThreshold       float64 `yaml:"overlap_threshold"`
	GroundToleranceM       float64 `yaml:"ground_tolerance_m"`
}

type EffectTuning struct {
	PatternSize int `yaml:"pattern_size"`
}

func Load(path string) (Tuning, error) {
	var t Tuning
	raw, err := os.ReadFile(path)
	if err != nil {
		return t, err
	}
	if err := yaml.Unmarshal(raw, &t); err != nil {
		return t, fmt.Errorf("tuning.yaml: %w", err)
	}
	return t, nil
}
