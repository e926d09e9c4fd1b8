package postgres

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"

	"ldapsync/internal/model"
	"ldapsync/internal/repository"
)

var runCols = []string{"id", "group_id", "group_name", "status", "recursive", "dry_run", "added", "removed", "unmatched", "error", "report_key", "started_at", "finished_at"}

func runRow(rows *sqlmock.Rows, r model.SyncRun) *sqlmock.Rows {
	return rows.AddRow(r.ID, r.GroupID, r.GroupName, r.Status, r.Recursive, r.DryRun, r.Added, r.Removed, r.Unmatched, r.Error, r.ReportKey, r.StartedAt, r.FinishedAt)
}

func TestSyncRunPostgres_Create(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewSyncRunPostgres(db)
	now := time.Now().UTC()
	run := model.SyncRun{
		ID: "r1", GroupID: "g1", GroupName: "admins", Status: model.SyncSucceeded,
		Recursive: true, Added: 2, Removed: 1, ReportKey: "reports/r1.json",
		StartedAt: now, FinishedAt: now.Add(time.Second),
	}

	mock.ExpectQuery("INSERT INTO sync_runs").
		WithArgs(run.ID, run.GroupID, run.GroupName, run.Status, run.Recursive, run.DryRun,
			run.Added, run.Removed, run.Unmatched, run.Error, run.ReportKey, run.StartedAt, run.FinishedAt).
		WillReturnRows(runRow(sqlmock.NewRows(runCols), run))

	out, err := repo.Create(context.Background(), &run)

	assert.NoError(t, err)
	assert.Equal(t, "r1", out.ID)
	assert.Equal(t, 2, out.Added)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSyncRunPostgres_FindByID(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewSyncRunPostgres(db)
	ctx := context.Background()

	t.Run("found", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM sync_runs WHERE id = ?").
			WithArgs("r1").
			WillReturnRows(runRow(sqlmock.NewRows(runCols), model.SyncRun{ID: "r1", Status: model.SyncFailed, Error: "boom"}))

		run, err := repo.FindByID(ctx, "r1")

		assert.NoError(t, err)
		assert.Equal(t, "boom", run.Error)
	})

	t.Run("not found", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM sync_runs WHERE id = ?").
			WithArgs("missing").
			WillReturnError(sql.ErrNoRows)

		run, err := repo.FindByID(ctx, "missing")

		assert.ErrorIs(t, err, sql.ErrNoRows)
		assert.Nil(t, run)
	})
}

func TestSyncRunPostgres_List(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewSyncRunPostgres(db)

	mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM sync_runs").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectQuery("SELECT (.+) FROM sync_runs ORDER BY started_at DESC").
		WithArgs(5, 10).
		WillReturnRows(runRow(sqlmock.NewRows(runCols), model.SyncRun{ID: "r1"}))

	res, err := repo.List(context.Background(), repository.PageQuery{Limit: 5, Offset: 10})

	assert.NoError(t, err)
	assert.Equal(t, 1, res.Total)
	assert.Len(t, res.Items, 1)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPlaceholders(t *testing.T) {
	assert.Equal(t, "$1", placeholders(1, 1))
	assert.Equal(t, "$2, $3, $4", placeholders(2, 3))
	assert.Equal(t, "", placeholders(1, 0))
}

func TestChunks(t *testing.T) {
	prev := maxInParams
	maxInParams = 2
	defer func() { maxInParams = prev }()

	assert.Empty(t, chunks(nil))
	assert.Equal(t, [][]string{{"a", "b"}}, chunks([]string{"a", "b"}))
	assert.Equal(t, [][]string{{"a", "b"}, {"c"}}, chunks([]string{"a", "b", "c"}))
}
