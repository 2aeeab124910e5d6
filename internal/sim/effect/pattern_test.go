package effect

import "testing"

func TestPatternDeterministic(t *testing.T) {
	a := NewPattern(1337, 16)
	b := NewPattern(1337, 16)
	if len(a.Values) != 16*16 || len(b.Values) != 16*16 {
		t.Fatalf("pattern sizes %d/%d, want 256", len(a.Values), len(b.Values))
	}
	for i := range a.Values {
		if a.Values[i] != b.Values[i] {
			t.Fatalf("same seed diverged at %d: %v != %v", i, a.Values[i], b.Values[i])
		}
	}

	c := NewPattern(7, 16)
	same := true
	for i := range a.Values {
		if a.Values[i] != c.Values[i] {
			same = false
			break
		}
	}
	if same {
		t.Fatalf("different seeds produced identical patterns")
	}
}

func TestPatternValuesInRange(t *testing.T) {
	p := NewPattern(42, 32)
	for i, v := range p.Values {
		if v < 0 || v > 1 {
			t.Fatalf("value %d = %v outside [0,1]", i, v)
		}
	}
	if p.At(0, 0) != p.Values[0] {
		t.Fatalf("At(0,0) mismatch")
	}
	if p.At(31, 31) != p.Values[len(p.Values)-1] {
		t.Fatalf("At(31,31) mismatch")
	}
}

func TestPatternDefaultSize(t *testing.T) {
	p := NewPattern(1, 0)
	if p.Size != 32 || len(p.Values) != 32*32 {
		t.Fatalf("default size = %d with %d values", p.Size, len(p.Values))
	}
}
