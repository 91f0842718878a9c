// Package store persists observed events and weird notices to a SQLite
// database, so an operator can query "what did this monitor see" after
// the fact rather than only through live log lines. Grounded on the
// teacher's internal/database package: an embedded schema applied with a
// single Exec, a WAL-mode DSN for read/write concurrency, and the same
// pure-Go modernc.org/sqlite driver (no cgo dependency).
package store

import (
	"database/sql"
	_ "embed"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/hydravigil/dnsvigil/internal/events"
	"github.com/hydravigil/dnsvigil/internal/weird"
)

//go:embed schema.sql
var schemaSQL string

// DB wraps a SQLite connection holding the events/weird_notices tables.
type DB struct {
	conn *sql.DB
}

// Open opens or creates the store at path and applies the embedded schema.
func Open(path string) (*DB, error) {
	dsn := fmt.Sprintf("file:%s?_journal_mode=WAL&_busy_timeout=5000&_synchronous=NORMAL", path)
	conn, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening store: %w", err)
	}
	conn.SetMaxOpenConns(10)
	conn.SetMaxIdleConns(5)
	conn.SetConnMaxLifetime(time.Hour)

	if _, err := conn.Exec(schemaSQL); err != nil {
		conn.Close()
		return nil, fmt.Errorf("applying store schema: %w", err)
	}
	return &DB{conn: conn}, nil
}

func (db *DB) Close() error {
	return db.conn.Close()
}

func (db *DB) Health() error {
	return db.conn.Ping()
}

// EventSink adapts DB to events.Sink, appending every event as a row.
type EventSink struct {
	DB *DB
}

func (s EventSink) Emit(e events.Event) {
	sessionID, name, section, detail := "", "", "", e.Detail
	if e.Hdr != nil {
		sessionID = e.Hdr.SessionID
	}
	if e.Ans != nil {
		sessionID = e.Ans.SessionID
		name = e.Ans.Query
		section = e.Ans.Section
	}
	_, _ = s.DB.conn.Exec(
		`INSERT INTO events (session_id, kind, query_name, section, detail) VALUES (?, ?, ?, ?, ?)`,
		sessionID, int(e.Kind), name, section, detail,
	)
}

// WeirdSink adapts DB to weird.Sink, appending every notice as a row.
type WeirdSink struct {
	DB *DB
}

func (s WeirdSink) Weird(n weird.Notice) {
	_, _ = s.DB.conn.Exec(
		`INSERT INTO weird_notices (session_id, name, detail) VALUES (?, ?, ?)`,
		n.SessionID, n.Name, n.Detail,
	)
}

// RecentWeirds returns the most recent weird notices, newest first, for
// the admin API's introspection endpoint.
func (db *DB) RecentWeirds(limit int) ([]weird.Notice, error) {
	rows, err := db.conn.Query(`SELECT session_id, name, detail FROM weird_notices ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying recent weirds: %w", err)
	}
	defer rows.Close()

	var out []weird.Notice
	for rows.Next() {
		var n weird.Notice
		if err := rows.Scan(&n.SessionID, &n.Name, &n.Detail); err != nil {
			return nil, fmt.Errorf("scanning weird notice: %w", err)
		}
		out = append(out, n)
	}
	return out, rows.Err()
}

// EventCounts returns a per-kind tally of stored events, for the admin
// API's stats endpoint.
func (db *DB) EventCounts() (map[int]int64, error) {
	rows, err := db.conn.Query(`SELECT kind, COUNT(*) FROM events GROUP BY kind`)
	if err != nil {
		return nil, fmt.Errorf("querying event counts: %w", err)
	}
	defer rows.Close()

	counts := make(map[int]int64)
	for rows.Next() {
		var kind int
		var n int64
		if err := rows.Scan(&kind, &n); err != nil {
			return nil, fmt.Errorf("scanning event count: %w", err)
		}
		counts[kind] = n
	}
	return counts, rows.Err()
}
