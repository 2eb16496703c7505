package history

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

const (
	driverName  = "sqlite"
	maxAttempts = 5
	retryStep   = 25 * time.Millisecond
	defaultKey  = "default"
)

// Store is a SQLite database of lint runs. It is safe for concurrent use.
type Store struct {
	path string
	db   *sql.DB
	mu   sync.Mutex
}

// Open opens or creates the database at path and migrates it.
func Open(path string) (*Store, error) {
	cleanPath := strings.TrimSpace(path)
	if cleanPath == "" {
		return nil, fmt.Errorf("history path must not be empty")
	}
	if info, err := os.Stat(cleanPath); err == nil && info.IsDir() {
		return nil, fmt.Errorf("history path %q is a directory, expected file", cleanPath)
	}

	dir := filepath.Dir(cleanPath)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create history directory %q: %w", dir, err)
		}
	}

	// busy_timeout + WAL reduce lock conflicts between watch-mode runs.
	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(2000)&_pragma=journal_mode(WAL)&_pragma=foreign_keys(ON)", cleanPath)
	db, err := sql.Open(driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite history %q: %w", cleanPath, err)
	}
	db.SetMaxOpenConns(1)
	db.SetConnMaxLifetime(0)
	db.SetConnMaxIdleTime(0)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite history %q: %w", cleanPath, err)
	}
	if err := EnsureSchema(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("initialize sqlite schema %q: %w", cleanPath, err)
	}

	return &Store{path: cleanPath, db: db}, nil
}

func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func normalizeKey(projectKey string) string {
	projectKey = strings.TrimSpace(projectKey)
	if projectKey == "" {
		return defaultKey
	}
	return projectKey
}

// SaveRun stores run and its findings in one transaction and returns the new
// run id. FindingCount is taken from the findings.
func (s *Store) SaveRun(projectKey string, run Run) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	projectKey = normalizeKey(projectKey)
	if run.Timestamp.IsZero() {
		run.Timestamp = time.Now().UTC()
	}
	if run.SchemaVersion == 0 {
		run.SchemaVersion = SchemaVersion
	}
	if run.SchemaVersion != SchemaVersion {
		return 0, fmt.Errorf("unsupported run schema version %d", run.SchemaVersion)
	}

	var id int64
	err := s.withRetry("save run", func() error {
		tx, err := s.db.Begin()
		if err != nil {
			return err
		}
		res, err := tx.Exec(
			`INSERT INTO runs (project_key, schema_version, ts_utc, file_count, finding_count) VALUES (?, ?, ?, ?, ?)`,
			projectKey,
			run.SchemaVersion,
			run.Timestamp.UTC().Format(time.RFC3339Nano),
			run.FileCount,
			len(run.Findings),
		)
		if err != nil {
			_ = tx.Rollback()
			return err
		}
		id, err = res.LastInsertId()
		if err != nil {
			_ = tx.Rollback()
			return err
		}
		stmt, err := tx.Prepare(`
INSERT INTO findings (run_id, fingerprint, check_name, problem, path, line, col, message_key)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
		if err != nil {
			_ = tx.Rollback()
			return err
		}
		defer stmt.Close()
		for _, f := range run.Findings {
			if _, err := stmt.Exec(id, f.Fingerprint, f.Check, f.Problem, f.Path, f.Line, f.Column, f.Key); err != nil {
				_ = tx.Rollback()
				return err
			}
		}
		return tx.Commit()
	})
	if err != nil {
		return 0, err
	}
	return id, nil
}

// LoadRuns returns the runs of a project since the given time, oldest first.
// Findings are not loaded.
func (s *Store) LoadRuns(projectKey string, since time.Time) ([]Run, error) {
	query := `SELECT id, project_key, schema_version, ts_utc, file_count, finding_count
FROM runs WHERE project_key = ?`
	args := []any{normalizeKey(projectKey)}
	if !since.IsZero() {
		query += " AND ts_utc >= ?"
		args = append(args, since.UTC().Format(time.RFC3339Nano))
	}
	query += " ORDER BY ts_utc ASC, id ASC"

	return queryAll(s, "load runs", query, args, func(rows *sql.Rows) (Run, error) {
		var (
			run Run
			ts  string
		)
		if err := rows.Scan(&run.ID, &run.ProjectKey, &run.SchemaVersion, &ts, &run.FileCount, &run.FindingCount); err != nil {
			return run, err
		}
		parsed, err := time.Parse(time.RFC3339Nano, ts)
		if err != nil {
			return run, fmt.Errorf("run %d timestamp %q: %w", run.ID, ts, err)
		}
		run.Timestamp = parsed.UTC()
		return run, nil
	})
}

// Findings returns the findings of one run in path, line, column order.
func (s *Store) Findings(runID int64) ([]Finding, error) {
	const query = `SELECT fingerprint, check_name, problem, path, line, col, message_key
FROM findings WHERE run_id = ?
ORDER BY path ASC, line ASC, col ASC, check_name ASC`

	return queryAll(s, "load findings", query, []any{runID}, func(rows *sql.Rows) (Finding, error) {
		var f Finding
		err := rows.Scan(&f.Fingerprint, &f.Check, &f.Problem, &f.Path, &f.Line, &f.Column, &f.Key)
		return f, err
	})
}

// queryAll runs query under the store lock, retrying while SQLite reports
// the database as busy, and scans every row with scan.
func queryAll[T any](s *Store, op, query string, args []any, scan func(*sql.Rows) (T, error)) ([]T, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]T, 0)
	err := s.withRetry(op, func() error {
		out = out[:0]
		rows, err := s.db.Query(query, args...)
		if err != nil {
			return err
		}
		defer rows.Close()
		for rows.Next() {
			v, err := scan(rows)
			if err != nil {
				return err
			}
			out = append(out, v)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// withRetry runs fn until it succeeds, fails with anything but a lock
// error, or runs out of attempts. Waits grow linearly.
func (s *Store) withRetry(op string, fn func() error) error {
	var err error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if err = fn(); err == nil || !isLockError(err) {
			break
		}
		if attempt < maxAttempts {
			time.Sleep(time.Duration(attempt) * retryStep)
		}
	}
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func isLockError(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "database is locked") || strings.Contains(msg, "busy")
}

// IsCorruptError reports whether err looks like a damaged database file.
func IsCorruptError(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "malformed") || strings.Contains(msg, "not a database") || errors.Is(err, os.ErrInvalid)
}
