// Package history keeps a local journal of version-manager events in
// SQLite. The journal is advisory only: install, use and uninstall are
// correct without it, and a broken journal never fails an operation.
package history

import (
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS events (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    package TEXT NOT NULL,
    version TEXT NOT NULL,
    action TEXT NOT NULL,
    timestamp TIMESTAMP NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_events_package ON events(package);
CREATE INDEX IF NOT EXISTS idx_events_timestamp ON events(timestamp);
`

// Actions recorded in the journal.
const (
	ActionInstall   = "install"
	ActionActivate  = "use"
	ActionUninstall = "uninstall"
	ActionErase     = "erase"
	ActionRun       = "run"
)

// Event is one journal row.
type Event struct {
	ID        int64
	Package   string
	Version   string
	Action    string
	Timestamp time.Time
}

// Journal is a handle on the event database.
type Journal struct {
	db *sql.DB
}

// Open opens (creating if needed) the journal at dbPath. Use ":memory:" for
// an in-memory journal in tests.
func Open(dbPath string) (*Journal, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open journal: %w", err)
	}

	// SQLite only allows one writer at a time.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	// WAL mode for better concurrency with the proxy hot path.
	if _, err := db.Exec("PRAGMA journal_mode = WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable WAL mode: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	return &Journal{db: db}, nil
}

// Close closes the database connection.
func (j *Journal) Close() error {
	if j.db != nil {
		return j.db.Close()
	}
	return nil
}

// Record appends one event.
func (j *Journal) Record(pkg, version, action string) error {
	_, err := j.db.Exec(
		`INSERT INTO events (package, version, action, timestamp) VALUES (?, ?, ?, ?)`,
		pkg, version, action, time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("record event: %w", err)
	}
	return nil
}

// Recent returns the newest events, most recent first. pkg filters by
// package when non-empty.
func (j *Journal) Recent(pkg string, limit int) ([]Event, error) {
	query := `
		SELECT id, package, version, action, timestamp
		FROM events
	`
	args := []any{}
	if pkg != "" {
		query += ` WHERE package = ?`
		args = append(args, pkg)
	}
	query += ` ORDER BY id DESC LIMIT ?`
	args = append(args, limit)

	rows, err := j.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("query events: %w", err)
	}
	defer rows.Close()

	var out []Event
	for rows.Next() {
		var ev Event
		var ts string
		if err := rows.Scan(&ev.ID, &ev.Package, &ev.Version, &ev.Action, &ts); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		if parsed, err := time.Parse(time.RFC3339, ts); err == nil {
			ev.Timestamp = parsed
		}
		out = append(out, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate events: %w", err)
	}
	return out, nil
}
