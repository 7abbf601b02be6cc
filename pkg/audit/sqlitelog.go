package audit

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// SQLiteLog is an append-only audit backend on a local SQLite database. It
// keeps the controller's event history queryable offline (latchctl audit
// list) without any network surface.
type SQLiteLog struct {
	db *sql.DB
}

// OpenSQLiteLog opens or creates the audit database at the given path.
func OpenSQLiteLog(path string) (*SQLiteLog, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create audit directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open audit database: %w", err)
	}

	// WAL lets latchctl read the log while the daemon appends to it.
	if _, err := db.Exec("PRAGMA journal_mode = WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}
	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to set busy timeout: %w", err)
	}

	l := &SQLiteLog{db: db}
	if err := l.migrate(); err != nil {
		db.Close()
		return nil, err
	}
	return l, nil
}

func (l *SQLiteLog) migrate() error {
	_, err := l.db.Exec(`
		CREATE TABLE IF NOT EXISTS audit_events (
			id         TEXT PRIMARY KEY,
			type       TEXT NOT NULL,
			severity   INTEGER NOT NULL,
			ts         INTEGER NOT NULL,
			credential TEXT,
			details    TEXT NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_audit_events_ts ON audit_events(ts);
	`)
	if err != nil {
		return fmt.Errorf("failed to migrate audit schema: %w", err)
	}
	return nil
}

// Close closes the underlying database.
func (l *SQLiteLog) Close() error {
	return l.db.Close()
}

// Emit implements EventEmitter by appending the event.
func (l *SQLiteLog) Emit(ev Event) error {
	details, err := json.Marshal(ev.Details)
	if err != nil {
		return fmt.Errorf("failed to encode event details: %w", err)
	}
	_, err = l.db.Exec(
		`INSERT INTO audit_events (id, type, severity, ts, credential, details)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		ev.ID, string(ev.Type), int(ev.Severity), ev.Timestamp.UnixNano(), ev.Credential, string(details),
	)
	if err != nil {
		return fmt.Errorf("failed to append audit event: %w", err)
	}
	return nil
}

// List returns up to limit events, most recent first. A non-positive limit
// returns everything.
func (l *SQLiteLog) List(limit int) ([]Event, error) {
	q := `SELECT id, type, severity, ts, credential, details
	      FROM audit_events ORDER BY ts DESC, id`
	args := []any{}
	if limit > 0 {
		q += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := l.db.Query(q, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list audit events: %w", err)
	}
	defer rows.Close()

	var out []Event
	for rows.Next() {
		var ev Event
		var et string
		var sev int
		var ts int64
		var credentialHex sql.NullString
		var details string
		if err := rows.Scan(&ev.ID, &et, &sev, &ts, &credentialHex, &details); err != nil {
			return nil, fmt.Errorf("failed to scan audit event: %w", err)
		}
		ev.Type = EventType(et)
		ev.Severity = Severity(sev)
		ev.Timestamp = time.Unix(0, ts)
		if credentialHex.Valid {
			ev.Credential = credentialHex.String
		}
		if err := json.Unmarshal([]byte(details), &ev.Details); err != nil {
			return nil, fmt.Errorf("failed to decode event details: %w", err)
		}
		out = append(out, ev)
	}
	return out, rows.Err()
}
