package use_cases

import (
	"context"
	"time"

	"github.com/Xenn-00/organisation-meister/internal/entity"
	"github.com/Xenn-00/organisation-meister/internal/queue"
	"github.com/stretchr/testify/mock"
)

var _ queue.DeliveryQueue = (*MockDeliveryQueue)(nil)

// Mock DeliveryQueue for testing
type MockDeliveryQueue struct {
	mock.Mock
}

func (m *MockDeliveryQueue) Push(ctx context.Context, job *entity.DeliveryJob) error {
	args := m.Called(ctx, job)
	return args.Error(0)
}

func (m *MockDeliveryQueue) Pop(ctx context.Context) (*queue.Delivery, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*queue.Delivery), args.Error(1)
}

func (m *MockDeliveryQueue) Ack(ctx context.Context, d *queue.Delivery) error {
	return m.Called(ctx, d).Error(0)
}

func (m *MockDeliveryQueue) Touch(ctx context.Context, d *queue.Delivery) error {
	return m.Called(ctx, d).Error(0)
}

func (m *MockDeliveryQueue) DeadLetter(ctx context.Context, d *queue.Delivery, reason string, attempts int) error {
	return m.Called(ctx, d, reason, attempts).Error(0)
}

func (m *MockDeliveryQueue) Reclaim(ctx context.Context, olderThan time.Duration) (int, error) {
	args := m.Called(ctx, olderThan)
	return args.Int(0), args.Error(1)
}

func (m *MockDeliveryQueue) Len(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockDeliveryQueue) DeadLetters(ctx context.Context, offset, limit int64) ([]entity.DeadLetter, error) {
	args := m.Called(ctx, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.DeadLetter), args.Error(1)
}
