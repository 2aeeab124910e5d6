package era

import (
	"os"
	"path/filepath"
	"testing"
)

func findRepoRoot(t *testing.T) string {
	t.Helper()
	dir, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			t.Fatalf("could not find repo root from %s", dir)
		}
		dir = parent
	}
}

func TestLoadShippedCatalog(t *testing.T) {
	root := findRepoRoot(t)
	c, err := Load(filepath.Join(root, "configs", "eras.yaml"))
	if err != nil {
		t.Fatalf("load eras: %v", err)
	}
	if len(c.Eras) < 2 {
		t.Fatalf("expected several eras, got %d", len(c.Eras))
	}
	for i := 1; i < len(c.Eras); i++ {
		if c.Eras[i-1].YearsAgo < c.Eras[i].YearsAgo {
			t.Fatalf("eras not ordered deepest-past first: %s (%v) before %s (%v)",
				c.Eras[i-1].ID, c.Eras[i-1].YearsAgo, c.Eras[i].ID, c.Eras[i].YearsAgo)
		}
	}
	if c.Digest == "" {
		t.Fatalf("catalog digest empty")
	}
	cret := c.Get("cretaceous")
	if cret == nil {
		t.Fatalf("cretaceous missing from catalog")
	}
	if len(cret.Creatures) == 0 {
		t.Fatalf("cretaceous has no creatures")
	}
	for _, cr := range cret.Creatures {
		if cr.RealWorldScaleMeters <= 0 {
			t.Fatalf("creature %s has non-positive scale", cr.ID)
		}
	}
	if c.Get("atlantis") != nil {
		t.Fatalf("unknown era id resolved")
	}
}

func TestLoadRejectsBadCatalogs(t *testing.T) {
	dir := t.TempDir()

	write := func(name, body string) string {
		t.Helper()
		p := filepath.Join(dir, name)
		if err := os.WriteFile(p, []byte(body), 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
		return p
	}

	cases := []struct {
		name string
		body string
	}{
		{"empty.yaml", "eras: []\n"},
		{"dup.yaml", "eras:\n  - id: a\n    years_ago: 1\n  - id: a\n    years_ago: 2\n"},
		{"noid.yaml", "eras:\n  - name: x\n    years_ago: 1\n"},
		{"negage.yaml", "eras:\n  - id: a\n    years_ago: -5\n"},
		{"badscale.yaml", "eras:\n  - id: a\n    years_ago: 1\n    creatures:\n      - id: c\n        real_world_scale_m: 0\n"},
	}
	for _, tc := range cases {
		if _, err := Load(write(tc.name, tc.body)); err == nil {
			t.Fatalf("%s: expected load error", tc.name)
		}
	}
}
