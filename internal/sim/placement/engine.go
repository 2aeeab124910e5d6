package placement

import (
	"log"
	"math"
	"math/rand"

	"chronoscape.ai/internal/sim/era"
)

// PlacedCreature is one successfully placed instance. The caller owns it
// after Distribute returns; the engine keeps nothing between calls.
type PlacedCreature struct {
	ID       string `json:"id"`
	Position Vec3   `json:"position"`
	Box      AABB   `json:"box"`
}

type Config struct {
	// MinSpacing is the minimum radial distance from the distribution
	// center, metres. Must be below DistributionRadius; when it is not,
	// every attempt samples the same ring and placement may exhaust its
	// budget. That is an accepted engine limitation.
	MinSpacing         float64
	DistributionRadius float64

	// MaxAttemptsPerCreature bounds rejection sampling per creature.
	MaxAttemptsPerCreature int

	// OverlapThreshold is the maximum tolerated pairwise overlap fraction.
	OverlapThreshold float64

	Seed int64
}

// ApplyDefaults fills zero fields with engine defaults.
func (c *Config) ApplyDefaults() {
	if c.MinSpacing <= 0 {
		c.MinSpacing = 2.0
	}
	if c.DistributionRadius <= 0 {
		c.DistributionRadius = 5.0
	}
	if c.MaxAttemptsPerCreature <= 0 {
		c.MaxAttemptsPerCreature = 20
	}
	if c.OverlapThreshold <= 0 {
		c.OverlapThreshold = 0.10
	}
}

// Engine distributes creatures on the ground plane by rejection sampling.
// It holds no per-scene state; concurrent use for independent scenes is safe
// as long as each scene constructs its own Engine (the RNG is not locked).
type Engine struct {
	cfg    Config
	ground *GroundPlane
	rng    *rand.Rand
	log    *log.Logger
}

func NewEngine(cfg Config, ground *GroundPlane, logger *log.Logger) *Engine {
	cfg.ApplyDefaults()
	return &Engine{
		cfg:    cfg,
		ground: ground,
		rng:    rand.New(rand.NewSource(cfg.Seed)),
		log:    logger,
	}
}

// Distribute places up to maxCreatures of the given descriptors around
// center without visual overlap. Creatures that cannot be placed within the
// attempt budget are skipped, so the result may be shorter than the input;
// surviving entries keep input order. The existing list is checked against
// but never modified.
func (e *Engine) Distribute(creatures []era.CreatureDescriptor, center Vec3, maxCreatures int, existing []PlacedCreature) []PlacedCreature {
	if len(creatures) == 0 {
		return nil
	}
	if maxCreatures > 0 && len(creatures) > maxCreatures {
		creatures = creatures[:maxCreatures]
	}

	placed := make([]PlacedCreature, 0, len(creatures))
	for _, c := range creatures {
		p, ok := e.placeOne(c, center, existing, placed)
		if !ok {
			if e.log != nil {
				e.log.Printf("placement: exhausted %d attempts for creature %s, skipping", e.cfg.MaxAttemptsPerCreature, c.ID)
			}
			continue
		}
		placed = append(placed, p)
	}
	return placed
}

func (e *Engine) placeOne(c era.CreatureDescriptor, center Vec3, existing, placed []PlacedCreature) (PlacedCreature, bool) {
	for attempt := 0; attempt < e.cfg.MaxAttemptsPerCreature; attempt++ {
		angle := e.rng.Float64() * 2 * math.Pi
		dist := e.cfg.MinSpacing + e.rng.Float64()*(e.cfg.DistributionRadius-e.cfg.MinSpacing)

		pos := Vec3{
			X: center.X + math.Cos(angle)*dist,
			Z: center.Z + math.Sin(angle)*dist,
		}
		pos.Y = e.ground.AnchorY(center.Y)

		box := FootprintBox(pos, c.RealWorldScaleMeters)
		if e.collides(box, existing) || e.collides(box, placed) {
			continue
		}
		return PlacedCreature{ID: c.ID, Position: pos, Box: box}, true
	}
	return PlacedCreature{}, false
}

func (e *Engine) collides(box AABB, against []PlacedCreature) bool {
	for i := range against {
		if OverlapFraction(box, against[i].Box) > e.cfg.OverlapThreshold {
			return true
		}
	}
	return false
}

// ValidateDistribution reports whether every pairwise overlap fraction among
// placed is within threshold. It is independent of how the positions were
// produced, so it also validates externally repositioned instances.
func ValidateDistribution(placed []PlacedCreature, threshold float64) bool {
	if threshold <= 0 {
		threshold = 0.10
	}
	for i := 0; i < len(placed); i++ {
		for j := i + 1; j < len(placed); j++ {
			if OverlapFraction(placed[i].Box, placed[j].Box) > threshold {
				return false
			}
		}
	}
	return true
}
