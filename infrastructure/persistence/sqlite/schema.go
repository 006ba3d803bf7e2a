package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"clipshelf/pkg/errors"

	"go.uber.org/zap"
	_ "modernc.org/sqlite"
)

// Open opens (or creates) the local database file. The modernc driver is
// pure Go; no cgo toolchain is involved.
func Open(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open sqlite database")
	}
	// The store is single-writer; one connection sidesteps SQLITE_BUSY.
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(`PRAGMA journal_mode=WAL; PRAGMA foreign_keys=ON;`); err != nil {
		return nil, errors.Wrap(err, "failed to configure sqlite")
	}
	return db, nil
}

// knownTables is every table this schema version owns, in drop order.
var knownTables = []string{
	"triples",
	"list_projections",
	"item_projections",
	"list_events",
	"item_events",
}

const schemaDDL = `
CREATE TABLE IF NOT EXISTS list_events (
	id           INTEGER PRIMARY KEY AUTOINCREMENT,
	event_id     TEXT NOT NULL,
	aggregate_id TEXT NOT NULL,
	event_type   TEXT NOT NULL,
	sequence_no  INTEGER NOT NULL,
	timestamp    TEXT NOT NULL,
	payload      TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_list_events_aggregate ON list_events(aggregate_id);
CREATE INDEX IF NOT EXISTS idx_list_events_type ON list_events(event_type);
CREATE INDEX IF NOT EXISTS idx_list_events_sequence ON list_events(sequence_no);
CREATE INDEX IF NOT EXISTS idx_list_events_timestamp ON list_events(timestamp);

CREATE TABLE IF NOT EXISTS item_events (
	id           INTEGER PRIMARY KEY AUTOINCREMENT,
	event_id     TEXT NOT NULL,
	aggregate_id TEXT NOT NULL,
	event_type   TEXT NOT NULL,
	sequence_no  INTEGER NOT NULL,
	timestamp    TEXT NOT NULL,
	payload      TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_item_events_aggregate ON item_events(aggregate_id);
CREATE INDEX IF NOT EXISTS idx_item_events_type ON item_events(event_type);
CREATE INDEX IF NOT EXISTS idx_item_events_sequence ON item_events(sequence_no);
CREATE INDEX IF NOT EXISTS idx_item_events_timestamp ON item_events(timestamp);

CREATE TABLE IF NOT EXISTS list_projections (
	id          TEXT PRIMARY KEY,
	name        TEXT NOT NULL,
	icon        TEXT NOT NULL,
	color       TEXT NOT NULL DEFAULT '',
	description TEXT NOT NULL DEFAULT '',
	created_at  TEXT NOT NULL,
	updated_at  TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS item_projections (
	id          TEXT PRIMARY KEY,
	name        TEXT NOT NULL,
	url         TEXT NOT NULL,
	image       TEXT NOT NULL DEFAULT '',
	description TEXT NOT NULL DEFAULT '',
	item_type   TEXT NOT NULL,
	json_ld     TEXT NOT NULL DEFAULT '',
	created_at  TEXT NOT NULL,
	updated_at  TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_item_projections_url ON item_projections(url);

CREATE TABLE IF NOT EXISTS triples (
	subject    TEXT NOT NULL,
	predicate  TEXT NOT NULL,
	object     TEXT NOT NULL,
	created_at TEXT NOT NULL,
	UNIQUE(subject, predicate, object)
);
CREATE INDEX IF NOT EXISTS idx_triples_subject ON triples(subject);
CREATE INDEX IF NOT EXISTS idx_triples_object ON triples(object);
`

// EnsureSchema probes the schema version and creates the tables. The triples
// table doubles as the schema marker: a database that has legacy tables but
// no triples table predates this shape, and is destroyed and recreated
// rather than migrated.
func EnsureSchema(ctx context.Context, db *sql.DB, logger *zap.Logger) error {
	hasTriples, err := tableExists(ctx, db, "triples")
	if err != nil {
		return err
	}
	hasAny, err := anyUserTableExists(ctx, db)
	if err != nil {
		return err
	}

	if hasAny && !hasTriples {
		logger.Warn("legacy schema detected, wiping local database")
		if err := dropAllTables(ctx, db); err != nil {
			return err
		}
	}

	if _, err := db.ExecContext(ctx, schemaDDL); err != nil {
		return errors.Wrap(err, "failed to create schema")
	}
	return nil
}

func tableExists(ctx context.Context, db *sql.DB, name string) (bool, error) {
	var count int
	err := db.QueryRowContext(ctx,
		`SELECT COUNT(1) FROM sqlite_master WHERE type='table' AND name=?`, name).Scan(&count)
	if err != nil {
		return false, errors.Wrap(err, "failed to probe schema")
	}
	return count > 0, nil
}

func anyUserTableExists(ctx context.Context, db *sql.DB) (bool, error) {
	var count int
	err := db.QueryRowContext(ctx,
		`SELECT COUNT(1) FROM sqlite_master WHERE type='table' AND name NOT LIKE 'sqlite_%'`).Scan(&count)
	if err != nil {
		return false, errors.Wrap(err, "failed to probe schema")
	}
	return count > 0, nil
}

func dropAllTables(ctx context.Context, db *sql.DB) error {
	rows, err := db.QueryContext(ctx,
		`SELECT name FROM sqlite_master WHERE type='table' AND name NOT LIKE 'sqlite_%'`)
	if err != nil {
		return errors.Wrap(err, "failed to enumerate tables")
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return errors.Wrap(err, "failed to scan table name")
		}
		names = append(names, name)
	}
	if err := rows.Err(); err != nil {
		return errors.Wrap(err, "failed to enumerate tables")
	}

	for _, name := range names {
		if _, err := db.ExecContext(ctx, fmt.Sprintf(`DROP TABLE IF EXISTS %q`, name)); err != nil {
			return errors.Wrap(err, "failed to drop legacy table")
		}
	}
	return nil
}
