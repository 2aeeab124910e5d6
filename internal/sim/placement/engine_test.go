package placement

import (
	"testing"

	"chronoscape.ai/internal/sim/era"
)

func identicalCreatures(n int, scale float64) []era.CreatureDescriptor {
	out := make([]era.CreatureDescriptor, n)
	for i := range out {
		out[i] = era.CreatureDescriptor{ID: "creature", RealWorldScaleMeters: scale}
	}
	return out
}

func newTestEngine(cfg Config) (*Engine, *GroundPlane) {
	ground := NewGroundPlane()
	return NewEngine(cfg, ground, nil), ground
}

func TestDistributeEmptyInput(t *testing.T) {
	e, _ := newTestEngine(Config{Seed: 1})
	if got := e.Distribute(nil, Vec3{}, 3, nil); got != nil {
		t.Fatalf("empty input produced %v", got)
	}
}

func TestDistributeSingleCreature(t *testing.T) {
	e, ground := newTestEngine(Config{Seed: 1})
	ground.SetGroundY(-1.2)
	center := Vec3{X: 0, Y: 0, Z: -3}

	placed := e.Distribute([]era.CreatureDescriptor{{ID: "mammoth", RealWorldScaleMeters: 1.0}}, center, 3, nil)
	if len(placed) != 1 {
		t.Fatalf("placed %d creatures, want 1", len(placed))
	}
	p := placed[0]
	if p.ID != "mammoth" {
		t.Fatalf("placed id %q", p.ID)
	}
	d := p.Position.HorizontalDistance(center)
	if d < 2.0 || d > 5.0 {
		t.Fatalf("distance from center = %v, want within [2, 5]", d)
	}
	if p.Position.Y != -1.2 {
		t.Fatalf("Y = %v, want exactly groundY -1.2", p.Position.Y)
	}
}

func TestDistributeHonorsMaxCreatures(t *testing.T) {
	e, _ := newTestEngine(Config{Seed: 42})
	placed := e.Distribute(identicalCreatures(10, 1.0), Vec3{Z: -3}, 3, nil)
	if len(placed) > 3 {
		t.Fatalf("placed %d creatures, cap is 3", len(placed))
	}
}

func TestDistributeResultValidates(t *testing.T) {
	for seed := int64(0); seed < 20; seed++ {
		e, ground := newTestEngine(Config{Seed: seed})
		ground.SetGroundY(0.3)
		placed := e.Distribute(identicalCreatures(3, 3.0), Vec3{Z: -3}, 3, nil)
		if !ValidateDistribution(placed, 0.10) {
			t.Fatalf("seed %d: distribution violates overlap bound", seed)
		}
		for _, p := range placed {
			if p.Position.Y != 0.3 {
				t.Fatalf("seed %d: creature %s at Y=%v, want 0.3", seed, p.ID, p.Position.Y)
			}
		}
	}
}

func TestDistributeRespectsExisting(t *testing.T) {
	e, _ := newTestEngine(Config{Seed: 5})
	first := e.Distribute(identicalCreatures(2, 2.0), Vec3{Z: -3}, 3, nil)
	second := e.Distribute(identicalCreatures(2, 2.0), Vec3{Z: -3}, 3, first)

	all := append(append([]PlacedCreature{}, first...), second...)
	if !ValidateDistribution(all, 0.10) {
		t.Fatalf("combined distribution violates overlap bound")
	}
}

func TestDistributeSkipsUnplaceable(t *testing.T) {
	// Creatures far larger than the sampling annulus cannot avoid each
	// other; later ones must be skipped, not crash or overlap.
	e, _ := newTestEngine(Config{Seed: 9, MinSpacing: 1, DistributionRadius: 2})
	placed := e.Distribute(identicalCreatures(5, 20.0), Vec3{}, 5, nil)
	if len(placed) >= 5 {
		t.Fatalf("expected skips, placed all %d", len(placed))
	}
	if len(placed) == 0 {
		t.Fatalf("first creature has nothing to overlap, must place")
	}
	if !ValidateDistribution(placed, 0.10) {
		t.Fatalf("surviving placements violate overlap bound")
	}
}

func TestValidateDistributionRejectsOverlap(t *testing.T) {
	a := PlacedCreature{ID: "a", Position: Vec3{}, Box: FootprintBox(Vec3{}, 2)}
	b := PlacedCreature{ID: "b", Position: Vec3{X: 0.1}, Box: FootprintBox(Vec3{X: 0.1}, 2)}
	if ValidateDistribution([]PlacedCreature{a, b}, 0.10) {
		t.Fatalf("nearly coincident boxes accepted")
	}
	far := PlacedCreature{ID: "c", Position: Vec3{X: 10}, Box: FootprintBox(Vec3{X: 10}, 2)}
	if !ValidateDistribution([]PlacedCreature{a, far}, 0.10) {
		t.Fatalf("disjoint boxes rejected")
	}
}

func TestOverlapFraction(t *testing.T) {
	unit := FootprintBox(Vec3{}, 1)
	if got := OverlapFraction(unit, unit); got != 1 {
		t.Fatalf("identical boxes overlap %v, want 1", got)
	}
	shifted := FootprintBox(Vec3{X: 0.5}, 1)
	if got := OverlapFraction(unit, shifted); got < 0.49 || got > 0.51 {
		t.Fatalf("half-shifted overlap %v, want ~0.5", got)
	}
	disjoint := FootprintBox(Vec3{X: 3}, 1)
	if got := OverlapFraction(unit, disjoint); got != 0 {
		t.Fatalf("disjoint overlap %v, want 0", got)
	}
	// Normalized by the smaller volume: a small box inside a big one is
	// fully overlapped regardless of the big box's size.
	big := FootprintBox(Vec3{}, 10)
	small := FootprintBox(Vec3{}, 1)
	if got := OverlapFraction(big, small); got != 1 {
		t.Fatalf("contained overlap %v, want 1", got)
	}
}
