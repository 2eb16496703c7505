package history

import (
	"context"
	"database/sql"
	"fmt"

	"idiomlint/internal/core/errors"
)

// schemaSteps holds one entry per schema version; version n is
// schemaSteps[n-1]. Statements of a step run in one transaction.
var schemaSteps = [][]string{
	{
		`CREATE TABLE IF NOT EXISTS runs (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  project_key TEXT NOT NULL DEFAULT 'default',
  schema_version INTEGER NOT NULL,
  ts_utc TEXT NOT NULL,
  file_count INTEGER NOT NULL,
  finding_count INTEGER NOT NULL,
  created_at_utc TEXT NOT NULL DEFAULT (CURRENT_TIMESTAMP)
)`,
		`CREATE INDEX IF NOT EXISTS idx_runs_project_ts ON runs(project_key, ts_utc)`,
		`CREATE TABLE IF NOT EXISTS findings (
  run_id INTEGER NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
  fingerprint TEXT NOT NULL,
  check_name TEXT NOT NULL,
  path TEXT NOT NULL,
  line INTEGER NOT NULL,
  col INTEGER NOT NULL,
  message_key TEXT NOT NULL
)`,
		`CREATE INDEX IF NOT EXISTS idx_findings_run ON findings(run_id)`,
	},
	{
		`ALTER TABLE findings ADD COLUMN problem TEXT NOT NULL DEFAULT ''`,
		`CREATE INDEX IF NOT EXISTS idx_findings_fingerprint ON findings(fingerprint)`,
	},
}

// EnsureSchema brings db up to SchemaVersion. A database written by a newer
// build is rejected rather than downgraded.
func EnsureSchema(db *sql.DB) error {
	ctx := context.Background()
	if _, err := db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS schema_migrations (
  version INTEGER PRIMARY KEY,
  applied_at_utc TEXT NOT NULL DEFAULT (CURRENT_TIMESTAMP)
)`); err != nil {
		return errors.Wrap(err, errors.CodeIO, "create schema_migrations table")
	}

	current, err := schemaVersion(ctx, db)
	if err != nil {
		return err
	}
	if current > SchemaVersion {
		return errors.Newf(errors.CodeConflict, "history schema version %d is newer than supported version %d", current, SchemaVersion)
	}
	for v := current + 1; v <= len(schemaSteps); v++ {
		if err := applyStep(ctx, db, v); err != nil {
			return errors.AddContext(errors.Wrap(err, errors.CodeIO, "migrate history schema"), errors.CtxOperation, fmt.Sprintf("step %d", v))
		}
	}
	return nil
}

func schemaVersion(ctx context.Context, db *sql.DB) (int, error) {
	var v int
	if err := db.QueryRowContext(ctx, `SELECT COALESCE(MAX(version), 0) FROM schema_migrations`).Scan(&v); err != nil {
		return 0, errors.Wrap(err, errors.CodeIO, "read schema version")
	}
	return v, nil
}

func applyStep(ctx context.Context, db *sql.DB, version int) (err error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	for _, stmt := range schemaSteps[version-1] {
		if _, err = tx.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	if _, err = tx.ExecContext(ctx, `INSERT INTO schema_migrations(version) VALUES (?)`, version); err != nil {
		return err
	}
	return tx.Commit()
}
