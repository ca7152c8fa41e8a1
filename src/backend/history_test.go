package main

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupMockStore(t *testing.T) (*sqlStore, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	mock.ExpectExec(regexp.QuoteMeta("CREATE TABLE IF NOT EXISTS diagnostic_runs")).
		WillReturnResult(sqlmock.NewResult(0, 0))

	store, err := newSQLStore(context.Background(), db, driverPostgres)
	require.NoError(t, err)
	return store, mock
}

func TestNewSQLStoreUnsupportedDriver(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	_, err = newSQLStore(context.Background(), db, "mysql")
	assert.Error(t, err)
}

func TestNewSQLStoreMigrationFails(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	mock.ExpectExec("CREATE TABLE").WillReturnError(errors.New("permission denied"))

	_, err = newSQLStore(context.Background(), db, driverSQLite)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "permission denied")
}

func TestSQLStoreRecord(t *testing.T) {
	store, mock := setupMockStore(t)
	at := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	mock.ExpectExec(regexp.QuoteMeta(insertRun)).
		WithArgs(kindSmoke, "passed", sourceAPI, "report", at).
		WillReturnResult(sqlmock.NewResult(1, 1))

	err := store.Record(context.Background(), Run{Kind: kindSmoke, Outcome: "passed", Source: sourceAPI, Report: "report", At: at})
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLStoreRecordError(t *testing.T) {
	store, mock := setupMockStore(t)

	mock.ExpectExec(regexp.QuoteMeta(insertRun)).WillReturnError(errors.New("connection reset"))

	err := store.Record(context.Background(), Run{Kind: kindStatus, Outcome: "ok", Source: sourceAPI, Report: "r"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "record status run")
}

func TestSQLStoreRecent(t *testing.T) {
	store, mock := setupMockStore(t)
	at := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	rows := sqlmock.NewRows([]string{"id", "kind", "outcome", "source", "report", "run_at"}).
		AddRow(2, kindSmoke, "failed", sourceOperator, "smoke report", at).
		AddRow(1, kindStatus, "ok", sourceAPI, "status report", at.Add(-time.Minute))
	mock.ExpectQuery(regexp.QuoteMeta(selectRecentRuns)).WithArgs(10).WillReturnRows(rows)

	runs, err := store.Recent(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, int64(2), runs[0].ID)
	assert.Equal(t, "failed", runs[0].Outcome)
	assert.Equal(t, kindStatus, runs[1].Kind)
	assert.Equal(t, at.Add(-time.Minute), runs[1].At)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLStoreRecentQueryError(t *testing.T) {
	store, mock := setupMockStore(t)

	mock.ExpectQuery(regexp.QuoteMeta(selectRecentRuns)).WillReturnError(errors.New("relation does not exist"))

	_, err := store.Recent(context.Background(), 10)
	assert.Error(t, err)
}

func TestOpenHistoryDisabled(t *testing.T) {
	store, err := openHistory(context.Background(), "", "")
	require.NoError(t, err)
	assert.IsType(t, nopStore{}, store)

	assert.NoError(t, store.Record(context.Background(), Run{}))
	runs, err := store.Recent(context.Background(), 5)
	assert.NoError(t, err)
	assert.Empty(t, runs)
	assert.NoError(t, store.Close())
}

func TestConnectHistoryDBCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := connectHistoryDB(ctx, driverPostgres, "host=127.0.0.1 port=1 user=x dbname=x sslmode=disable connect_timeout=1")
	assert.Error(t, err)
}
