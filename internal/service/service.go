package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"time"

	"ldapsync/internal/model"
	"ldapsync/internal/repository"
	"ldapsync/internal/storage"
)

var (
	ErrIDRequired      = errors.New("id is required")
	ErrGroupRequired   = errors.New("group is required")
	ErrNotFound        = errors.New("record not found")
	ErrReportsDisabled = errors.New("report archive is not configured")
	// ErrEmptyResolution guards against wiping a group when the directory
	// side resolves to no users.
	ErrEmptyResolution = errors.New("resolved membership is empty; refusing to remove all members")
)

// ListResult is the service-level DTO for paginated lists.
type ListResult[T any] struct {
	Items []T `json:"data"`
	Total int `json:"total"`
}

// GroupService exposes the reconciled record store.
type GroupService interface {
	ListGroups(ctx context.Context, limit, offset int) (*ListResult[model.Group], error)
	GetGroup(ctx context.Context, id string) (*model.Group, error)
	// ListMembers returns the users of an existing group.
	ListMembers(ctx context.Context, groupID string) ([]model.User, error)
	ListRuns(ctx context.Context, limit, offset int) (*ListResult[model.SyncRun], error)
	GetRun(ctx context.Context, id string) (*model.SyncRun, error)
	// ReportURL returns a time-limited download URL for a run's archived report.
	ReportURL(ctx context.Context, runID string, expiry time.Duration) (string, error)
	// Report streams a run's archived report.
	Report(ctx context.Context, runID string) (io.ReadCloser, error)
}

type groupService struct {
	groups  repository.GroupRepository
	members repository.MembershipRepository
	runs    repository.SyncRunRepository
	store   storage.Storage
}

// NewGroupService constructs a GroupService. store may be nil when report
// archiving is disabled.
func NewGroupService(groups repository.GroupRepository, members repository.MembershipRepository, runs repository.SyncRunRepository, store storage.Storage) GroupService {
	return &groupService{groups: groups, members: members, runs: runs, store: store}
}

func normalizePage(limit, offset int) (int, int) {
	if limit <= 0 {
		limit = 10
	}
	if limit > 500 {
		limit = 500
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}

func (s *groupService) ListGroups(ctx context.Context, limit, offset int) (*ListResult[model.Group], error) {
	limit, offset = normalizePage(limit, offset)
	res, err := s.groups.List(ctx, repository.PageQuery{Limit: limit, Offset: offset})
	if err != nil {
		return nil, err
	}
	return &ListResult[model.Group]{Items: res.Items, Total: res.Total}, nil
}

func (s *groupService) GetGroup(ctx context.Context, id string) (*model.Group, error) {
	if id == "" {
		return nil, ErrIDRequired
	}
	g, err := s.groups.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return g, nil
}

func (s *groupService) ListMembers(ctx context.Context, groupID string) ([]model.User, error) {
	if _, err := s.GetGroup(ctx, groupID); err != nil {
		return nil, err
	}
	return s.members.ListMembers(ctx, groupID)
}

func (s *groupService) ListRuns(ctx context.Context, limit, offset int) (*ListResult[model.SyncRun], error) {
	limit, offset = normalizePage(limit, offset)
	res, err := s.runs.List(ctx, repository.PageQuery{Limit: limit, Offset: offset})
	if err != nil {
		return nil, err
	}
	return &ListResult[model.SyncRun]{Items: res.Items, Total: res.Total}, nil
}

func (s *groupService) GetRun(ctx context.Context, id string) (*model.SyncRun, error) {
	if id == "" {
		return nil, ErrIDRequired
	}
	run, err := s.runs.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return run, nil
}

func (s *groupService) reportKey(ctx context.Context, runID string) (string, error) {
	if s.store == nil {
		return "", ErrReportsDisabled
	}
	run, err := s.GetRun(ctx, runID)
	if err != nil {
		return "", err
	}
	if run.ReportKey == "" {
		return "", fmt.Errorf("run %s has no report: %w", runID, ErrNotFound)
	}
	return run.ReportKey, nil
}

func (s *groupService) ReportURL(ctx context.Context, runID string, expiry time.Duration) (string, error) {
	key, err := s.reportKey(ctx, runID)
	if err != nil {
		return "", err
	}
	u, err := s.store.PresignGet(ctx, key, expiry)
	if err != nil {
		return "", fmt.Errorf("presign report: %w", err)
	}
	return u, nil
}

func (s *groupService) Report(ctx context.Context, runID string) (io.ReadCloser, error) {
	key, err := s.reportKey(ctx, runID)
	if err != nil {
		return nil, err
	}
	rc, _, err := s.store.Get(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("fetch report: %w", err)
	}
	return rc, nil
}
