package postgres

import (
	"context"
	"database/sql"

	"ldapsync/internal/model"
	"ldapsync/internal/repository"
)

// UserPostgres is a PostgreSQL implementation of repository.UserRepository.
type UserPostgres struct {
	db *sql.DB
}

// NewUserPostgres creates a new UserPostgres repository.
func NewUserPostgres(db *sql.DB) *UserPostgres {
	return &UserPostgres{db: db}
}

var _ repository.UserRepository = (*UserPostgres)(nil)

const userColumns = `id, user_name, dn, email, active, created_at`

// FindByDNs returns users whose DN case-insensitively matches one of dns.
func (r *UserPostgres) FindByDNs(ctx context.Context, dns []string) ([]model.User, error) {
	return r.findIn(ctx, "lower(dn)", dns)
}

// FindByUserNames returns users whose user name case-insensitively matches one of names.
func (r *UserPostgres) FindByUserNames(ctx context.Context, names []string) ([]model.User, error) {
	return r.findIn(ctx, "lower(user_name)", names)
}

// findIn matches column against values, one query per chunk.
func (r *UserPostgres) findIn(ctx context.Context, column string, values []string) ([]model.User, error) {
	users := make([]model.User, 0)
	for _, chunk := range chunks(values) {
		q := `SELECT ` + userColumns + ` FROM users WHERE ` + column + ` IN (` + placeholders(1, len(chunk)) + `)`
		found, err := r.query(ctx, q, lowerArgs(chunk)...)
		if err != nil {
			return nil, err
		}
		users = append(users, found...)
	}
	return users, nil
}

// Create inserts a new user row and returns the stored record.
func (r *UserPostgres) Create(ctx context.Context, u *model.User) (*model.User, error) {
	const q = `
		INSERT INTO users (id, user_name, dn, email, active, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + userColumns
	row := r.db.QueryRowContext(ctx, q,
		u.ID,
		u.UserName,
		u.DN,
		u.Email,
		u.Active,
		u.CreatedAt,
	)
	return scanUser(row)
}

func (r *UserPostgres) query(ctx context.Context, q string, args ...any) ([]model.User, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := make([]model.User, 0)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, *u)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return users, nil
}

func scanUser(row rowScanner) (*model.User, error) {
	var u model.User
	if err := row.Scan(
		&u.ID,
		&u.UserName,
		&u.DN,
		&u.Email,
		&u.Active,
		&u.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &u, nil
}
