package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"ldapsync/internal/model"
	"ldapsync/internal/repository"
)

// MembershipPostgres is a PostgreSQL implementation of repository.MembershipRepository.
type MembershipPostgres struct {
	db *sql.DB
}

// NewMembershipPostgres creates a new MembershipPostgres repository.
func NewMembershipPostgres(db *sql.DB) *MembershipPostgres {
	return &MembershipPostgres{db: db}
}

var _ repository.MembershipRepository = (*MembershipPostgres)(nil)

// ListMembers returns the users in a group ordered by user name.
func (r *MembershipPostgres) ListMembers(ctx context.Context, groupID string) ([]model.User, error) {
	const q = `
		SELECT u.id, u.user_name, u.dn, u.email, u.active, u.created_at
		FROM group_members gm
		JOIN users u ON u.id = gm.user_id
		WHERE gm.group_id = $1
		ORDER BY u.user_name ASC
	`
	rows, err := r.db.QueryContext(ctx, q, groupID)
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

// Apply removes then adds memberships inside a single transaction.
func (r *MembershipPostgres) Apply(ctx context.Context, groupID string, add, remove []string) (err error) {
	if len(add) == 0 && len(remove) == 0 {
		return nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	for _, chunk := range chunks(remove) {
		q := `DELETE FROM group_members WHERE group_id = $1 AND user_id IN (` + placeholders(2, len(chunk)) + `)`
		args := make([]any, 0, len(chunk)+1)
		args = append(args, groupID)
		for _, id := range chunk {
			args = append(args, id)
		}
		if _, err = tx.ExecContext(ctx, q, args...); err != nil {
			return fmt.Errorf("delete memberships: %w", err)
		}
	}

	const qInsert = `
		INSERT INTO group_members (group_id, user_id)
		VALUES ($1, $2)
		ON CONFLICT (group_id, user_id) DO NOTHING
	`
	for _, userID := range add {
		if _, err = tx.ExecContext(ctx, qInsert, groupID, userID); err != nil {
			return fmt.Errorf("insert membership: %w", err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}
