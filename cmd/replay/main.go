// Replay prints the session timeline recorded in a travel log, optionally
// re-validating every persisted distribution against the overlap bound.
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	persistlog "chronoscape.ai/internal/persistence/log"
	"chronoscape.ai/internal/sim/placement"
)

func main() {
	var (
		travelDir = flag.String("travel", "", "travel log dir containing travel-*.jsonl.zst")
		file      = flag.String("file", "", "single travel log file (overrides -travel)")
		validate  = flag.Bool("validate", true, "re-check pairwise overlap of persisted placements")
		threshold = flag.Float64("overlap_threshold", 0.10, "max tolerated pairwise overlap fraction")
	)
	flag.Parse()

	var paths []string
	switch {
	case *file != "":
		paths = []string{*file}
	case *travelDir != "":
		matches, err := filepath.Glob(filepath.Join(*travelDir, "travel-*.jsonl.zst"))
		if err != nil || len(matches) == 0 {
			fmt.Fprintln(os.Stderr, "no travel logs found in", *travelDir)
			os.Exit(1)
		}
		sort.Strings(matches)
		paths = matches
	default:
		fmt.Fprintln(os.Stderr, "missing -travel or -file")
		os.Exit(2)
	}

	var entries []persistlog.Entry
	for _, p := range paths {
		es, err := persistlog.ReadEntries(p)
		if err != nil {
			fmt.Fprintf(os.Stderr, "read %s: %v\n", p, err)
			os.Exit(1)
		}
		entries = append(entries, es...)
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].StartedAt.Before(entries[j].StartedAt)
	})

	bad := 0
	for _, e := range entries {
		fmt.Printf("%s  %-10s %-22s dir=%-6s effect=%-8s dur=%dms placed=%d",
			e.StartedAt.Format("2006-01-02T15:04:05.000Z07:00"),
			e.Outcome, e.EraID, e.Direction, e.Effect, e.DurationMs, e.Placed)
		if *validate && len(e.Placements) > 0 {
			if placement.ValidateDistribution(e.Placements, *threshold) {
				fmt.Print("  overlap=ok")
			} else {
				fmt.Print("  overlap=VIOLATION")
				bad++
			}
		}
		fmt.Println()
	}
	fmt.Printf("%d sessions", len(entries))
	if *validate {
		fmt.Printf(", %d overlap violations", bad)
	}
	fmt.Println()
	if bad > 0 {
		os.Exit(1)
	}
}
