// Package content supplies creature rosters to the transition machine. The
// catalog loader is the production implementation; tests swap in failing or
// slow loaders to exercise the machine's degraded paths.
package content

import (
	"context"
	"fmt"

	"chronoscape.ai/internal/sim/era"
)

// CatalogLoader serves creature descriptors straight from the era catalog.
type CatalogLoader struct {
	Cats *era.Catalog
}

func (l CatalogLoader) LoadCreatures(ctx context.Context, target era.Era) ([]era.CreatureDescriptor, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	e := l.Cats.Get(target.ID)
	if e == nil {
		return nil, fmt.Errorf("content: unknown era %q", target.ID)
	}
	return e.Creatures, nil
}
