package main

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
)

const (
	driverSQLite   = "sqlite3"
	driverPostgres = "postgres"

	kindStatus = "status"
	kindSmoke  = "smoke"
)

// Run is one recorded status check or smoke test.
type Run struct {
	ID      int64
	Kind    string
	Outcome string
	Source  string
	Report  string
	At      time.Time
}

type runStore interface {
	Record(ctx context.Context, run Run) error
	Recent(ctx context.Context, limit int) ([]Run, error)
	Close() error
}

// nopStore is used when no history database is configured.
type nopStore struct{}

func (nopStore) Record(context.Context, Run) error          { return nil }
func (nopStore) Recent(context.Context, int) ([]Run, error) { return nil, nil }
func (nopStore) Close() error                               { return nil }

var createRunsTable = map[string]string{
	driverSQLite: `CREATE TABLE IF NOT EXISTS diagnostic_runs (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    kind TEXT NOT NULL,
    outcome TEXT NOT NULL,
    source TEXT NOT NULL,
    report TEXT NOT NULL,
    run_at TIMESTAMP NOT NULL
)`,
	driverPostgres: `CREATE TABLE IF NOT EXISTS diagnostic_runs (
    id BIGSERIAL PRIMARY KEY,
    kind TEXT NOT NULL,
    outcome TEXT NOT NULL,
    source TEXT NOT NULL,
    report TEXT NOT NULL,
    run_at TIMESTAMPTZ NOT NULL
)`,
}

const (
	insertRun = `INSERT INTO diagnostic_runs (kind, outcome, source, report, run_at) VALUES ($1, $2, $3, $4, $5)`

	selectRecentRuns = `SELECT id, kind, outcome, source, report, run_at FROM diagnostic_runs ORDER BY run_at DESC, id DESC LIMIT $1`
)

type sqlStore struct {
	db *sql.DB
}

// openHistory returns a no-op store when driver is empty.
func openHistory(ctx context.Context, driver, dsn string) (runStore, error) {
	if driver == "" {
		return nopStore{}, nil
	}
	db, err := connectHistoryDB(ctx, driver, dsn)
	if err != nil {
		return nil, err
	}
	store, err := newSQLStore(ctx, db, driver)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

func connectHistoryDB(ctx context.Context, driver, dsn string) (*sql.DB, error) {
	maxRetries := 5
	retryDelay := 2 * time.Second

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s history database: %w", driver, err)
	}
	if driver == driverSQLite {
		// one connection keeps :memory: databases and sqlite writers consistent
		db.SetMaxOpenConns(1)
	}

	for i := 0; i < maxRetries; i++ {
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		err = db.PingContext(pingCtx)
		cancel()
		if err == nil {
			historyLog.Info().Str("driver", driver).Msg("Connected to history database")
			return db, nil
		}
		historyLog.Warn().Err(err).Msgf("History database not ready yet, retrying in %v... (%d/%d)", retryDelay, i+1, maxRetries)

		select {
		case <-ctx.Done():
			_ = db.Close()
			return nil, ctx.Err()
		case <-time.After(retryDelay):
		}
	}
	_ = db.Close()
	return nil, fmt.Errorf("connect to history database after %d attempts: %w", maxRetries, err)
}

func newSQLStore(ctx context.Context, db *sql.DB, driver string) (*sqlStore, error) {
	ddl, ok := createRunsTable[driver]
	if !ok {
		return nil, fmt.Errorf("unsupported history driver %q", driver)
	}
	if _, err := db.ExecContext(ctx, ddl); err != nil {
		return nil, fmt.Errorf("create diagnostic_runs table: %w", err)
	}
	return &sqlStore{db: db}, nil
}

func (s *sqlStore) Record(ctx context.Context, run Run) error {
	if run.At.IsZero() {
		run.At = time.Now()
	}
	_, err := s.db.ExecContext(ctx, insertRun, run.Kind, run.Outcome, run.Source, run.Report, run.At.UTC())
	if err != nil {
		return fmt.Errorf("record %s run: %w", run.Kind, err)
	}
	return nil
}

func (s *sqlStore) Recent(ctx context.Context, limit int) ([]Run, error) {
	rows, err := s.db.QueryContext(ctx, selectRecentRuns, limit)
	if err != nil {
		return nil, fmt.Errorf("query recent runs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var runs []Run
	for rows.Next() {
		var run Run
		if err := rows.Scan(&run.ID, &run.Kind, &run.Outcome, &run.Source, &run.Report, &run.At); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

func (s *sqlStore) Close() error {
	return s.db.Close()
}
