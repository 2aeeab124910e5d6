package era

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"
)

// Catalog is the loaded era roster. Eras is kept sorted by YearsAgo
// descending (deepest past first), matching the order the time slider shows.
type Catalog struct {
	Eras   []Era
	ByID   map[string]*Era
	Digest string
}

func Load(path string) (*Catalog, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var doc struct {
		Eras []Era `yaml:"eras"`
	}
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("eras.yaml: %w", err)
	}
	if len(doc.Eras) == 0 {
		return nil, fmt.Errorf("eras.yaml: no eras defined")
	}

	c := &Catalog{
		Eras: doc.Eras,
		ByID: make(map[string]*Era, len(doc.Eras)),
	}
	sort.SliceStable(c.Eras, func(i, j int) bool {
		return c.Eras[i].YearsAgo > c.Eras[j].YearsAgo
	})
	for i := range c.Eras {
		e := &c.Eras[i]
		if e.ID == "" {
			return nil, fmt.Errorf("eras.yaml: era %d has empty id", i)
		}
		if _, dup := c.ByID[e.ID]; dup {
			return nil, fmt.Errorf("eras.yaml: duplicate era id %q", e.ID)
		}
		if e.YearsAgo < 0 {
			return nil, fmt.Errorf("eras.yaml: era %q has negative years_ago", e.ID)
		}
		for _, cr := range e.Creatures {
			if cr.RealWorldScaleMeters <= 0 {
				return nil, fmt.Errorf("eras.yaml: creature %q in era %q has non-positive scale", cr.ID, e.ID)
			}
		}
		c.ByID[e.ID] = e
	}
	c.Digest = sha256Hex(raw)
	return c, nil
}

// Get returns the era with the given id, or nil.
func (c *Catalog) Get(id string) *Era {
	if c == nil {
		return nil
	}
	return c.ByID[id]
}

// IDs returns era ids in catalog order (deepest past first).
func (c *Catalog) IDs() []string {
	ids := make([]string, 0, len(c.Eras))
	for i := range c.Eras {
		ids = append(ids, c.Eras[i].ID)
	}
	return ids
}

func sha256Hex(b []byte) string {
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:])
}
