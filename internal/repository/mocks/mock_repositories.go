package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"ldapsync/internal/model"
	"ldapsync/internal/repository"
)

type MockGroupRepository struct {
	mock.Mock
}

func (m *MockGroupRepository) Upsert(ctx context.Context, g *model.Group) (*model.Group, error) {
	args := m.Called(ctx, g)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Group), args.Error(1)
}

func (m *MockGroupRepository) FindByID(ctx context.Context, id string) (*model.Group, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Group), args.Error(1)
}

func (m *MockGroupRepository) FindByName(ctx context.Context, name string) (*model.Group, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Group), args.Error(1)
}

func (m *MockGroupRepository) List(ctx context.Context, pq repository.PageQuery) (*repository.PageResult[model.Group], error) {
	args := m.Called(ctx, pq)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.PageResult[model.Group]), args.Error(1)
}

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) FindByDNs(ctx context.Context, dns []string) ([]model.User, error) {
	args := m.Called(ctx, dns)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.User), args.Error(1)
}

func (m *MockUserRepository) FindByUserNames(ctx context.Context, names []string) ([]model.User, error) {
	args := m.Called(ctx, names)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.User), args.Error(1)
}

func (m *MockUserRepository) Create(ctx context.Context, u *model.User) (*model.User, error) {
	args := m.Called(ctx, u)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

type MockMembershipRepository struct {
	mock.Mock
}

func (m *MockMembershipRepository) ListMembers(ctx context.Context, groupID string) ([]model.User, error) {
	args := m.Called(ctx, groupID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.User), args.Error(1)
}

func (m *MockMembershipRepository) Apply(ctx context.Context, groupID string, add, remove []string) error {
	args := m.Called(ctx, groupID, add, remove)
	return args.Error(0)
}

type MockSyncRunRepository struct {
	mock.Mock
}

func (m *MockSyncRunRepository) Create(ctx context.Context, run *model.SyncRun) (*model.SyncRun, error) {
	args := m.Called(ctx, run)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.SyncRun), args.Error(1)
}

func (m *MockSyncRunRepository) FindByID(ctx context.Context, id string) (*model.SyncRun, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.SyncRun), args.Error(1)
}

func (m *MockSyncRunRepository) List(ctx context.Context, pq repository.PageQuery) (*repository.PageResult[model.SyncRun], error) {
	args := m.Called(ctx, pq)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.PageResult[model.SyncRun]), args.Error(1)
}
