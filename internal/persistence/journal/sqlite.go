// Package journal indexes finished transition sessions and their placements
// in sqlite. It is a secondary index over the travel JSONL logs: writes are
// async and dropped under pressure rather than stalling the scene loop.
package journal

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	_ "modernc.org/sqlite"

	"chronoscape.ai/internal/sim/placement"
	"chronoscape.ai/internal/sim/scene"
)

type SQLiteJournal struct {
	db *sql.DB

	ch   chan req
	wg   sync.WaitGroup
	once sync.Once

	closed atomic.Bool
}

type reqKind int

const (
	reqSession reqKind = iota + 1
	reqBarrier
)

type req struct {
	kind reqKind

	session sessionRow
	placed  []placement.PlacedCreature
	barrier chan struct{}
}

type sessionRow struct {
	rec scene.SessionRecord
}

func Open(path string) (*SQLiteJournal, error) {
	if path == "" {
		return nil, fmt.Errorf("empty db path")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := initPragmas(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := initSchema(db); err != nil {
		_ = db.Close()
		return nil, err
	}

	j := &SQLiteJournal{
		db: db,
		ch: make(chan req, 4096),
	}
	j.wg.Add(1)
	go func() {
		defer j.wg.Done()
		j.loop()
	}()
	return j, nil
}

func initPragmas(db *sql.DB) error {
	// WAL suits the append-style workload; NORMAL is enough durability for
	// a secondary index.
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA foreign_keys=ON;",
		"PRAGMA busy_timeout=5000;",
		"PRAGMA temp_store=MEMORY;",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return err
		}
	}
	return nil
}

func initSchema(db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS sessions (
			session_id TEXT PRIMARY KEY,
			scene_id TEXT NOT NULL,
			era_id TEXT NOT NULL,
			direction TEXT NOT NULL,
			effect TEXT NOT NULL,
			started_at TEXT NOT NULL,
			ended_at TEXT NOT NULL,
			duration_ms INTEGER NOT NULL,
			outcome TEXT NOT NULL,
			placed INTEGER NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_sessions_scene_started ON sessions(scene_id, started_at);`,
		`CREATE TABLE IF NOT EXISTS placements (
			session_id TEXT NOT NULL,
			seq INTEGER NOT NULL,
			creature_id TEXT NOT NULL,
			x REAL NOT NULL,
			y REAL NOT NULL,
			z REAL NOT NULL,
			PRIMARY KEY (session_id, seq)
		);`,
		`CREATE INDEX IF NOT EXISTS idx_placements_creature ON placements(creature_id);`,
	}
	for _, s := range stmts {
		if _, err := db.Exec(s); err != nil {
			return err
		}
	}
	return nil
}

func (j *SQLiteJournal) Close() error {
	var err error
	j.once.Do(func() {
		j.closed.Store(true)
		close(j.ch)
		j.wg.Wait()
		err = j.db.Close()
	})
	return err
}

// RecordSession implements scene.Recorder. Non-blocking; entries are dropped
// if the writer falls behind, the travel JSONL log remains source of truth.
func (j *SQLiteJournal) RecordSession(rec scene.SessionRecord, placed []placement.PlacedCreature) {
	if j == nil || j.closed.Load() {
		return
	}
	cp := make([]placement.PlacedCreature, len(placed))
	copy(cp, placed)
	select {
	case j.ch <- req{kind: reqSession, session: sessionRow{rec: rec}, placed: cp}:
	default:
	}
}

// Flush blocks until every write queued before the call has been applied.
func (j *SQLiteJournal) Flush() {
	if j == nil || j.closed.Load() {
		return
	}
	b := make(chan struct{})
	select {
	case j.ch <- req{kind: reqBarrier, barrier: b}:
		<-b
	default:
	}
}

func (j *SQLiteJournal) loop() {
	for r := range j.ch {
		switch r.kind {
		case reqSession:
			j.insertSession(r.session.rec, r.placed)
		case reqBarrier:
			close(r.barrier)
		}
	}
}

func (j *SQLiteJournal) insertSession(rec scene.SessionRecord, placed []placement.PlacedCreature) {
	tx, err := j.db.Begin()
	if err != nil {
		return
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.Exec(
		`INSERT OR REPLACE INTO sessions
		 (session_id, scene_id, era_id, direction, effect, started_at, ended_at, duration_ms, outcome, placed)
		 VALUES (?,?,?,?,?,?,?,?,?,?)`,
		rec.SessionID, rec.SceneID, rec.EraID, rec.Direction, rec.Effect,
		rec.StartedAt.UTC().Format(time.RFC3339Nano), rec.EndedAt.UTC().Format(time.RFC3339Nano),
		rec.DurationMs, rec.Outcome, rec.Placed,
	)
	if err != nil {
		return
	}
	for i, p := range placed {
		if _, err := tx.Exec(
			`INSERT OR REPLACE INTO placements (session_id, seq, creature_id, x, y, z) VALUES (?,?,?,?,?,?)`,
			rec.SessionID, i, p.ID, p.Position.X, p.Position.Y, p.Position.Z,
		); err != nil {
			return
		}
	}
	_ = tx.Commit()
}

// Sessions returns the most recent session records for a scene, newest
// first.
func (j *SQLiteJournal) Sessions(ctx context.Context, sceneID string, limit int) ([]scene.SessionRecord, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := j.db.QueryContext(ctx,
		`SELECT session_id, scene_id, era_id, direction, effect, started_at, ended_at, duration_ms, outcome, placed
		 FROM sessions WHERE scene_id = ? ORDER BY started_at DESC LIMIT ?`, sceneID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []scene.SessionRecord
	for rows.Next() {
		var rec scene.SessionRecord
		var started, ended string
		if err := rows.Scan(&rec.SessionID, &rec.SceneID, &rec.EraID, &rec.Direction, &rec.Effect,
			&started, &ended, &rec.DurationMs, &rec.Outcome, &rec.Placed); err != nil {
			return nil, err
		}
		rec.StartedAt, _ = time.Parse(time.RFC3339Nano, started)
		rec.EndedAt, _ = time.Parse(time.RFC3339Nano, ended)
		out = append(out, rec)
	}
	return out, rows.Err()
}

// Placements returns the placement rows for one session in placement order.
func (j *SQLiteJournal) Placements(ctx context.Context, sessionID string) ([]placement.PlacedCreature, error) {
	rows, err := j.db.QueryContext(ctx,
		`SELECT creature_id, x, y, z FROM placements WHERE session_id = ? ORDER BY seq`, sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []placement.PlacedCreature
	for rows.Next() {
		var p placement.PlacedCreature
		if err := rows.Scan(&p.ID, &p.Position.X, &p.Position.Y, &p.Position.Z); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}
