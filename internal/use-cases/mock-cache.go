package use_cases

import (
	"context"
	"time"

	"github.com/Xenn-00/organisation-meister/internal/abstraction/cache"
	"github.com/Xenn-00/organisation-meister/internal/entity"
	"github.com/stretchr/testify/mock"
)

var _ cache.InvitationCache = (*MockInvitationCache)(nil)

type MockInvitationCache struct {
	mock.Mock
}

func (m *MockInvitationCache) Put(ctx context.Context, token string, record *entity.InvitationRecord, ttl time.Duration) error {
	args := m.Called(ctx, token, record, ttl)
	return args.Error(0)
}

func (m *MockInvitationCache) Get(ctx context.Context, token string) (*entity.InvitationRecord, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.InvitationRecord), args.Error(1)
}

func (m *MockInvitationCache) Remove(ctx context.Context, token string) error {
	args := m.Called(ctx, token)
	return args.Error(0)
}

func (m *MockInvitationCache) RemoveIfPending(ctx context.Context, token string) (bool, error) {
	args := m.Called(ctx, token)
	return args.Bool(0), args.Error(1)
}

func (m *MockInvitationCache) SetStatus(ctx context.Context, token string, status entity.InvitationStatusEnum) (bool, error) {
	args := m.Called(ctx, token, status)
	return args.Bool(0), args.Error(1)
}
