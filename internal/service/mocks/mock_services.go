package mocks

import (
	"context"
	"io"
	"time"

	"github.com/stretchr/testify/mock"

	"ldapsync/internal/model"
	"ldapsync/internal/resolver"
	"ldapsync/internal/service"
)

type MockSyncService struct {
	mock.Mock
}

func (m *MockSyncService) Resolve(ctx context.Context, group string, recursive bool) (*resolver.Resolution, error) {
	args := m.Called(ctx, group, recursive)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*resolver.Resolution), args.Error(1)
}

func (m *MockSyncService) Sync(ctx context.Context, req service.SyncRequest) (*service.SyncResult, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.SyncResult), args.Error(1)
}

func (m *MockSyncService) SyncAll(ctx context.Context, reqs []service.SyncRequest) ([]*service.SyncResult, error) {
	args := m.Called(ctx, reqs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*service.SyncResult), args.Error(1)
}

type MockGroupService struct {
	mock.Mock
}

func (m *MockGroupService) ListGroups(ctx context.Context, limit, offset int) (*service.ListResult[model.Group], error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ListResult[model.Group]), args.Error(1)
}

func (m *MockGroupService) GetGroup(ctx context.Context, id string) (*model.Group, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Group), args.Error(1)
}

func (m *MockGroupService) ListMembers(ctx context.Context, groupID string) ([]model.User, error) {
	args := m.Called(ctx, groupID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.User), args.Error(1)
}

func (m *MockGroupService) ListRuns(ctx context.Context, limit, offset int) (*service.ListResult[model.SyncRun], error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ListResult[model.SyncRun]), args.Error(1)
}

func (m *MockGroupService) GetRun(ctx context.Context, id string) (*model.SyncRun, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.SyncRun), args.Error(1)
}

func (m *MockGroupService) ReportURL(ctx context.Context, runID string, expiry time.Duration) (string, error) {
	args := m.Called(ctx, runID, expiry)
	return args.String(0), args.Error(1)
}

func (m *MockGroupService) Report(ctx context.Context, runID string) (io.ReadCloser, error) {
	args := m.Called(ctx, runID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(io.ReadCloser), args.Error(1)
}
