package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/dm9/collections-engine/internal/domain"
	"github.com/dm9/collections-engine/pkg/utils"
)

// MockSender is a test double for the email delivery transport.
type MockSender struct {
	mock.Mock
}

func (m *MockSender) Send(to, subject, body string) error {
	args := m.Called(to, subject, body)
	return args.Error(0)
}

// MockNotifier is a test double for the notification dispatch pipeline.
type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) DispatchAlertNotifications(ctx context.Context, alert *domain.Alert) {
	m.Called(ctx, alert)
}

// MockRunLocker is a test double for the single-flight run lock.
type MockRunLocker struct {
	mock.Mock
}

func (m *MockRunLocker) TryAcquire(ctx context.Context, ttl time.Duration) (bool, error) {
	args := m.Called(ctx, ttl)
	return args.Bool(0), args.Error(1)
}

func (m *MockRunLocker) Release(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockRunLocker) Held(ctx context.Context) (bool, error) {
	args := m.Called(ctx)
	return args.Bool(0), args.Error(1)
}

// FixedClock pins "now" for deterministic day-boundary tests.
type FixedClock struct {
	Instant time.Time
}

func (c FixedClock) Now() time.Time {
	return c.Instant
}

func (c FixedClock) Today() time.Time {
	return utils.DateOnly(c.Instant)
}
