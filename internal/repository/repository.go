package repository

import (
	"context"

	"ldapsync/internal/model"
)

// Repositories in this package are strictly persistence operations; not-found
// results surface as sql.ErrNoRows for the service layer to map.

// GroupRepository persists groups.
type GroupRepository interface {
	// Upsert inserts the group or, when a group with the same name exists,
	// refreshes its DN and source. Returns the stored row.
	Upsert(ctx context.Context, g *model.Group) (*model.Group, error)
	FindByID(ctx context.Context, id string) (*model.Group, error)
	FindByName(ctx context.Context, name string) (*model.Group, error)
	List(ctx context.Context, pq PageQuery) (*PageResult[model.Group], error)
}

// UserRepository looks up and creates users.
type UserRepository interface {
	// FindByDNs returns users whose DN matches any of dns, ignoring case.
	FindByDNs(ctx context.Context, dns []string) ([]model.User, error)
	// FindByUserNames returns users whose user name matches any of names, ignoring case.
	FindByUserNames(ctx context.Context, names []string) ([]model.User, error)
	Create(ctx context.Context, u *model.User) (*model.User, error)
}

// MembershipRepository maintains group membership rows.
type MembershipRepository interface {
	// ListMembers returns the users currently in the group.
	ListMembers(ctx context.Context, groupID string) ([]model.User, error)
	// Apply adds and removes memberships in one transaction. Adding an
	// existing membership is a no-op.
	Apply(ctx context.Context, groupID string, add, remove []string) error
}

// SyncRunRepository records reconciliation runs.
type SyncRunRepository interface {
	Create(ctx context.Context, run *model.SyncRun) (*model.SyncRun, error)
	FindByID(ctx context.Context, id string) (*model.SyncRun, error)
	List(ctx context.Context, pq PageQuery) (*PageResult[model.SyncRun], error)
}
