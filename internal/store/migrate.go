package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"golang.org/x/mod/semver"
)

// SchemaVersion is the schema version this build writes.
const SchemaVersion = "v1.1.0"

type migration struct {
	version    string
	statements []string
}

// migrations must be ordered by ascending semver.
var migrations = []migration{
	{
		version: "v1.0.0",
		statements: []string{
			`CREATE TABLE IF NOT EXISTS global_sequence (
				id INTEGER PRIMARY KEY CHECK (id = 1),
				next_val INTEGER NOT NULL DEFAULT 1
			)`,
			`INSERT OR IGNORE INTO global_sequence (id, next_val) VALUES (1, 1)`,
			`CREATE TABLE IF NOT EXISTS users (
				id TEXT PRIMARY KEY,
				name TEXT NOT NULL,
				overall_level INTEGER NOT NULL DEFAULT 0,
				total_xp INTEGER NOT NULL DEFAULT 0,
				locale TEXT NOT NULL DEFAULT 'en',
				created_at INTEGER NOT NULL,
				updated_at INTEGER NOT NULL
			)`,
			`CREATE TABLE IF NOT EXISTS habits (
				id TEXT PRIMARY KEY,
				user_id TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
				name TEXT NOT NULL,
				level INTEGER,
				frequency TEXT NOT NULL DEFAULT 'daily',
				workload_per_count REAL NOT NULL DEFAULT 1,
				workload_unit TEXT NOT NULL DEFAULT '',
				target_count REAL NOT NULL DEFAULT 1,
				mismatch_acknowledged INTEGER,
				original_level_gap INTEGER,
				created_at INTEGER NOT NULL,
				updated_at INTEGER NOT NULL
			)`,
			`CREATE INDEX IF NOT EXISTS idx_habits_user ON habits(user_id)`,
			`CREATE TABLE IF NOT EXISTS xp_events (
				sequence INTEGER PRIMARY KEY,
				timestamp INTEGER NOT NULL,
				user_id TEXT NOT NULL,
				habit_id TEXT NOT NULL,
				actual REAL NOT NULL,
				target REAL NOT NULL,
				completion_rate REAL NOT NULL,
				multiplier REAL NOT NULL,
				tier TEXT NOT NULL,
				rationale_key TEXT NOT NULL,
				base_xp INTEGER NOT NULL,
				awarded_xp INTEGER NOT NULL
			)`,
			`CREATE INDEX IF NOT EXISTS idx_xp_events_habit ON xp_events(habit_id, sequence)`,
			`CREATE TABLE IF NOT EXISTS notifications (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				sequence INTEGER NOT NULL UNIQUE,
				timestamp INTEGER NOT NULL,
				user_id TEXT NOT NULL,
				habit_id TEXT NOT NULL,
				kind TEXT NOT NULL,
				level_gap INTEGER NOT NULL,
				severity TEXT NOT NULL,
				recommendation TEXT NOT NULL,
				read INTEGER NOT NULL DEFAULT 0
			)`,
			`CREATE INDEX IF NOT EXISTS idx_notifications_user ON notifications(user_id, read)`,
			`CREATE TABLE IF NOT EXISTS llm_request_events (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				sequence INTEGER NOT NULL UNIQUE,
				timestamp INTEGER NOT NULL,
				provider TEXT NOT NULL,
				model TEXT NOT NULL,
				purpose TEXT NOT NULL,
				input_tokens INTEGER NOT NULL DEFAULT 0,
				output_tokens INTEGER NOT NULL DEFAULT 0,
				latency_ms INTEGER NOT NULL DEFAULT 0,
				success INTEGER NOT NULL,
				error_message TEXT NOT NULL DEFAULT '',
				request_body TEXT NOT NULL DEFAULT '',
				response_body TEXT NOT NULL DEFAULT ''
			)`,
		},
	},
	{
		version: "v1.1.0",
		statements: []string{
			`CREATE TABLE IF NOT EXISTS level_change_events (
				sequence INTEGER PRIMARY KEY,
				timestamp INTEGER NOT NULL,
				habit_id TEXT NOT NULL,
				from_level INTEGER,
				to_level INTEGER NOT NULL,
				reason TEXT NOT NULL
			)`,
			`CREATE INDEX IF NOT EXISTS idx_level_changes_habit ON level_change_events(habit_id, sequence)`,
		},
	},
}

// ErrSchemaTooNew is returned when the database was written by a newer build.
var ErrSchemaTooNew = errors.New("database schema is newer than this build")

// migrate brings the schema up to SchemaVersion, applying each pending
// migration in its own transaction.
func migrate(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS schema_meta (
		id INTEGER PRIMARY KEY CHECK (id = 1),
		version TEXT NOT NULL
	)`); err != nil {
		return fmt.Errorf("create schema_meta: %w", err)
	}

	current, err := currentSchemaVersion(ctx, db)
	if err != nil {
		return err
	}
	if current != "" && semver.Compare(current, SchemaVersion) > 0 {
		return fmt.Errorf("%w: %s > %s", ErrSchemaTooNew, current, SchemaVersion)
	}

	for _, m := range migrations {
		if current != "" && semver.Compare(m.version, current) <= 0 {
			continue
		}
		if err := applyMigration(ctx, db, m); err != nil {
			return fmt.Errorf("apply %s: %w", m.version, err)
		}
	}
	return nil
}

// currentSchemaVersion returns "" for a fresh database.
func currentSchemaVersion(ctx context.Context, db *sql.DB) (string, error) {
	var v string
	err := db.QueryRowContext(ctx, `SELECT version FROM schema_meta WHERE id = 1`).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("read schema version: %w", err)
	}
	if !semver.IsValid(v) {
		return "", fmt.Errorf("invalid schema version %q", v)
	}
	return v, nil
}

func applyMigration(ctx context.Context, db *sql.DB, m migration) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback() //nolint:errcheck

	for _, stmt := range m.statements {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO schema_meta (id, version) VALUES (1, ?)
		 ON CONFLICT(id) DO UPDATE SET version = excluded.version`, m.version,
	); err != nil {
		return err
	}
	return tx.Commit()
}
