package log

import (
	"path/filepath"
	"testing"
	"time"

	"chronoscape.ai/internal/sim/placement"
	"chronoscape.ai/internal/sim/scene"
)

func TestTravelLoggerRoundtrip(t *testing.T) {
	dir := t.TempDir()
	l := NewTravelLogger(dir)

	rec := scene.SessionRecord{
		SessionID:  "S1",
		SceneID:    "scene_1",
		EraID:      "cretaceous",
		Direction:  "PAST",
		Effect:     "DISSOLVE",
		StartedAt:  time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
		EndedAt:    time.Date(2026, 3, 1, 12, 0, 1, 500_000_000, time.UTC),
		DurationMs: 1500,
		Outcome:    scene.OutcomeCompleted,
		Placed:     2,
	}
	placed := []placement.PlacedCreature{
		{ID: "tyrannosaurus", Position: placement.Vec3{X: 1, Y: -1.2, Z: -4}},
		{ID: "triceratops", Position: placement.Vec3{X: -2, Y: -1.2, Z: -3}},
	}
	l.RecordSession(rec, placed)

	rec2 := rec
	rec2.SessionID = "S2"
	rec2.Outcome = scene.OutcomeCancelled
	rec2.Placed = 0
	l.RecordSession(rec2, nil)

	if err := l.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	paths, err := filepath.Glob(filepath.Join(dir, "travel", "travel-*.jsonl.zst"))
	if err != nil || len(paths) != 1 {
		t.Fatalf("glob = %v, %v", paths, err)
	}
	entries, err := ReadEntries(paths[0])
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("entries = %d, want 2", len(entries))
	}
	got := entries[0]
	if got.SessionID != "S1" || got.EraID != "cretaceous" || got.Outcome != scene.OutcomeCompleted {
		t.Fatalf("entry 0 = %+v", got.SessionRecord)
	}
	if !got.StartedAt.Equal(rec.StartedAt) || got.DurationMs != 1500 {
		t.Fatalf("entry 0 times = %+v", got.SessionRecord)
	}
	if len(got.Placements) != 2 || got.Placements[1].Position.X != -2 {
		t.Fatalf("entry 0 placements = %+v", got.Placements)
	}
	if entries[1].Outcome != scene.OutcomeCancelled || len(entries[1].Placements) != 0 {
		t.Fatalf("entry 1 = %+v", entries[1])
	}
}

func TestReadEntriesSkipsBadLines(t *testing.T) {
	dir := t.TempDir()
	w := NewJSONLZstdWriter(dir, "travel")
	if err := w.Write(Entry{SessionRecord: scene.SessionRecord{SessionID: "S1"}}); err != nil {
		t.Fatalf("write: %v", err)
	}
	// A line that is valid JSON but not an object; the reader skips it.
	if err := w.Write("junk"); err != nil {
		t.Fatalf("write junk: %v", err)
	}
	if err := w.Write(Entry{SessionRecord: scene.SessionRecord{SessionID: "S2"}}); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	paths, _ := filepath.Glob(filepath.Join(dir, "travel-*.jsonl.zst"))
	if len(paths) != 1 {
		t.Fatalf("glob = %v", paths)
	}
	entries, err := ReadEntries(paths[0])
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(entries) != 2 || entries[0].SessionID != "S1" || entries[1].SessionID != "S2" {
		t.Fatalf("entries = %+v", entries)
	}

	if _, err := ReadEntries(filepath.Join(dir, "missing.jsonl.zst")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}
