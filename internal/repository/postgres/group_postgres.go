package postgres

import (
	"context"
	"database/sql"

	"ldapsync/internal/model"
	"ldapsync/internal/repository"
)

// GroupPostgres is a PostgreSQL implementation of repository.GroupRepository.
type GroupPostgres struct {
	db *sql.DB
}

// NewGroupPostgres creates a new GroupPostgres repository.
func NewGroupPostgres(db *sql.DB) *GroupPostgres {
	return &GroupPostgres{db: db}
}

var _ repository.GroupRepository = (*GroupPostgres)(nil)

const groupColumns = `id, name, dn, source, created_at, updated_at`

// Upsert inserts a group or refreshes the DN of the group with the same name.
func (r *GroupPostgres) Upsert(ctx context.Context, g *model.Group) (*model.Group, error) {
	const q = `
		INSERT INTO groups (id, name, dn, source, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $5)
		ON CONFLICT (name) DO UPDATE
		SET dn = EXCLUDED.dn, source = EXCLUDED.source, updated_at = EXCLUDED.updated_at
		RETURNING ` + groupColumns
	row := r.db.QueryRowContext(ctx, q,
		g.ID,
		g.Name,
		g.DN,
		g.Source,
		g.UpdatedAt,
	)
	return scanGroup(row)
}

// FindByID fetches a single group by its ID.
func (r *GroupPostgres) FindByID(ctx context.Context, id string) (*model.Group, error) {
	const q = `SELECT ` + groupColumns + ` FROM groups WHERE id = $1`
	return scanGroup(r.db.QueryRowContext(ctx, q, id))
}

// FindByName fetches a single group by its unique name.
func (r *GroupPostgres) FindByName(ctx context.Context, name string) (*model.Group, error) {
	const q = `SELECT ` + groupColumns + ` FROM groups WHERE name = $1`
	return scanGroup(r.db.QueryRowContext(ctx, q, name))
}

// List returns groups ordered by name using LIMIT/OFFSET pagination and a total count.
func (r *GroupPostgres) List(ctx context.Context, pq repository.PageQuery) (*repository.PageResult[model.Group], error) {
	const qCount = `SELECT COUNT(*) FROM groups`
	var total int
	if err := r.db.QueryRowContext(ctx, qCount).Scan(&total); err != nil {
		return nil, err
	}

	const qList = `
		SELECT ` + groupColumns + `
		FROM groups
		ORDER BY name ASC, id ASC
		LIMIT $1 OFFSET $2
	`
	rows, err := r.db.QueryContext(ctx, qList, pq.Limit, pq.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.Group, 0)
	for rows.Next() {
		g, err := scanGroup(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *g)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &repository.PageResult[model.Group]{
		Items: items,
		Total: total,
	}, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanGroup(row rowScanner) (*model.Group, error) {
	var g model.Group
	if err := row.Scan(
		&g.ID,
		&g.Name,
		&g.DN,
		&g.Source,
		&g.CreatedAt,
		&g.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &g, nil
}
