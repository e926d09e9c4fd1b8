package postgres

import (
	"context"
	"database/sql"

	"ldapsync/internal/model"
	"ldapsync/internal/repository"
)

// SyncRunPostgres is a PostgreSQL implementation of repository.SyncRunRepository.
type SyncRunPostgres struct {
	db *sql.DB
}

// NewSyncRunPostgres creates a new SyncRunPostgres repository.
func NewSyncRunPostgres(db *sql.DB) *SyncRunPostgres {
	return &SyncRunPostgres{db: db}
}

var _ repository.SyncRunRepository = (*SyncRunPostgres)(nil)

const syncRunColumns = `id, group_id, group_name, status, recursive, dry_run, added, removed, unmatched, error, report_key, started_at, finished_at`

// Create inserts a sync run row and returns the stored record.
func (r *SyncRunPostgres) Create(ctx context.Context, run *model.SyncRun) (*model.SyncRun, error) {
	const q = `
		INSERT INTO sync_runs (` + syncRunColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING ` + syncRunColumns
	row := r.db.QueryRowContext(ctx, q,
		run.ID,
		run.GroupID,
		run.GroupName,
		run.Status,
		run.Recursive,
		run.DryRun,
		run.Added,
		run.Removed,
		run.Unmatched,
		run.Error,
		run.ReportKey,
		run.StartedAt,
		run.FinishedAt,
	)
	return scanSyncRun(row)
}

// FindByID fetches a single run by its ID.
func (r *SyncRunPostgres) FindByID(ctx context.Context, id string) (*model.SyncRun, error) {
	const q = `SELECT ` + syncRunColumns + ` FROM sync_runs WHERE id = $1`
	return scanSyncRun(r.db.QueryRowContext(ctx, q, id))
}

// List returns runs newest first using LIMIT/OFFSET pagination and a total count.
func (r *SyncRunPostgres) List(ctx context.Context, pq repository.PageQuery) (*repository.PageResult[model.SyncRun], error) {
	const qCount = `SELECT COUNT(*) FROM sync_runs`
	var total int
	if err := r.db.QueryRowContext(ctx, qCount).Scan(&total); err != nil {
		return nil, err
	}

	const qList = `
		SELECT ` + syncRunColumns + `
		FROM sync_runs
		ORDER BY started_at DESC, id DESC
		LIMIT $1 OFFSET $2
	`
	rows, err := r.db.QueryContext(ctx, qList, pq.Limit, pq.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.SyncRun, 0)
	for rows.Next() {
		run, err := scanSyncRun(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *run)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &repository.PageResult[model.SyncRun]{
		Items: items,
		Total: total,
	}, nil
}

func scanSyncRun(row rowScanner) (*model.SyncRun, error) {
	var run model.SyncRun
	if err := row.Scan(
		&run.ID,
		&run.GroupID,
		&run.GroupName,
		&run.Status,
		&run.Recursive,
		&run.DryRun,
		&run.Added,
		&run.Removed,
		&run.Unmatched,
		&run.Error,
		&run.ReportKey,
		&run.StartedAt,
		&run.FinishedAt,
	); err != nil {
		return nil, err
	}
	return &run, nil
}
