// Package audit implements an append-only SQLite log of every
// assert/retract/modify that crosses the env.Environment boundary — a
// forensic trail, not a substitute for the authoritative fact store or
// for save-facts's snapshot (spec.md §6). A host opens a Logger and
// attaches it to an Environment via env.AttachObserver; attaching is
// optional and the engine runs identically without one.
package audit

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"retenet/internal/fact"
	"retenet/internal/logging"
)

// Kind distinguishes the three events a Logger records.
type Kind string

const (
	KindAssert  Kind = "assert"
	KindRetract Kind = "retract"
	KindModify  Kind = "modify"
)

// Event is one row of the fact_events table.
type Event struct {
	ID        int64
	FactID    uint64
	Template  string
	Kind      Kind
	SlotsJSON string
	Timestamp time.Time
}

// slotsPayload is what SlotsJSON marshals: the fact's current slot
// values as strings, plus (for modify events only) which slot indices
// changed.
type slotsPayload struct {
	Slots   []string `json:"slots"`
	Changed []int    `json:"changed,omitempty"`
}

// Logger appends fact_events rows to a SQLite database. It implements
// env.Observer (OnAssert/OnRetract/OnModify) so it can be wired in with
// Environment.AttachObserver without internal/env importing this
// package.
type Logger struct {
	db *sql.DB
	mu sync.Mutex
}

// Open creates (or reuses) the SQLite database at path and ensures the
// fact_events table exists, following the same pragma tuning the
// teacher's LocalStore applies: a single connection, WAL journaling,
// and NORMAL synchronous mode, all safe for an append-only log that
// only this process writes to.
func Open(path string) (*Logger, error) {
	timer := logging.StartTimer(logging.CategoryAudit, "open")
	defer timer.Stop()

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("audit: create directory %s: %w", dir, err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("audit: open %s: %w", path, err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	for _, pragma := range []string{
		"PRAGMA busy_timeout = 5000",
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			logging.Get(logging.CategoryAudit).Warn("pragma failed", "pragma", pragma, "error", err)
		}
	}

	const schema = `
	CREATE TABLE IF NOT EXISTS fact_events (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		fact_id INTEGER NOT NULL,
		template TEXT NOT NULL,
		kind TEXT NOT NULL,
		slots_json TEXT NOT NULL,
		ts DATETIME DEFAULT CURRENT_TIMESTAMP
	);
	CREATE INDEX IF NOT EXISTS idx_fact_events_fact_id ON fact_events(fact_id);
	CREATE INDEX IF NOT EXISTS idx_fact_events_template ON fact_events(template);
	`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("audit: create schema: %w", err)
	}

	return &Logger{db: db}, nil
}

// Close closes the underlying database connection.
func (l *Logger) Close() error {
	return l.db.Close()
}

func slotStrings(f *fact.Fact) []string {
	out := make([]string, len(f.Slots))
	for i, s := range f.Slots {
		out[i] = s.String()
	}
	return out
}

func (l *Logger) record(kind Kind, f *fact.Fact, changed []int) {
	payload, err := json.Marshal(slotsPayload{Slots: slotStrings(f), Changed: changed})
	if err != nil {
		logging.Get(logging.CategoryAudit).Error("marshal slots failed", "fact_id", f.ID, "error", err)
		return
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	_, err = l.db.Exec(
		`INSERT INTO fact_events (fact_id, template, kind, slots_json) VALUES (?, ?, ?, ?)`,
		f.ID, f.Template.Name.Lexeme(), string(kind), string(payload),
	)
	if err != nil {
		logging.Get(logging.CategoryAudit).Error("insert fact_events failed", "fact_id", f.ID, "kind", kind, "error", err)
	}
}

// OnAssert implements env.Observer.
func (l *Logger) OnAssert(f *fact.Fact) { l.record(KindAssert, f, nil) }

// OnRetract implements env.Observer.
func (l *Logger) OnRetract(f *fact.Fact) { l.record(KindRetract, f, nil) }

// OnModify implements env.Observer.
func (l *Logger) OnModify(f *fact.Fact, changed []int) { l.record(KindModify, f, changed) }

// Events returns up to limit most recent events, newest first. A
// limit of zero or less returns every row.
func (l *Logger) Events(ctx context.Context, limit int) ([]Event, error) {
	query := `SELECT id, fact_id, template, kind, slots_json, ts FROM fact_events ORDER BY id DESC`
	args := []interface{}{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := l.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("audit: query events: %w", err)
	}
	defer rows.Close()

	var out []Event
	for rows.Next() {
		var e Event
		var kind string
		if err := rows.Scan(&e.ID, &e.FactID, &e.Template, &kind, &e.SlotsJSON, &e.Timestamp); err != nil {
			return nil, fmt.Errorf("audit: scan event: %w", err)
		}
		e.Kind = Kind(kind)
		out = append(out, e)
	}
	return out, rows.Err()
}

// EventsForFact returns every recorded event for factID, oldest first —
// the full history of one fact's lifetime.
func (l *Logger) EventsForFact(ctx context.Context, factID uint64) ([]Event, error) {
	rows, err := l.db.QueryContext(ctx,
		`SELECT id, fact_id, template, kind, slots_json, ts FROM fact_events WHERE fact_id = ? ORDER BY id ASC`,
		factID,
	)
	if err != nil {
		return nil, fmt.Errorf("audit: query events for fact %d: %w", factID, err)
	}
	defer rows.Close()

	var out []Event
	for rows.Next() {
		var e Event
		var kind string
		if err := rows.Scan(&e.ID, &e.FactID, &e.Template, &kind, &e.SlotsJSON, &e.Timestamp); err != nil {
			return nil, fmt.Errorf("audit: scan event: %w", err)
		}
		e.Kind = Kind(kind)
		out = append(out, e)
	}
	return out, rows.Err()
}
