package mocks

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"

	"github.com/dm9/collections-engine/internal/domain"
)

type MockAccountRepository struct {
	mock.Mock
}

func (m *MockAccountRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Account, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountRepository) ListActiveInTier(ctx context.Context, minBalance decimal.Decimal, maxBalance decimal.NullDecimal, placedBefore time.Time) ([]*domain.Account, error) {
	args := m.Called(ctx, minBalance, maxBalance, placedBefore)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Account), args.Error(1)
}

type MockConsumerRepository struct {
	mock.Mock
}

func (m *MockConsumerRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Consumer, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Consumer), args.Error(1)
}

type MockPTPRepository struct {
	mock.Mock
}

func (m *MockPTPRepository) ListActiveByPromisedDate(ctx context.Context, promisedDate time.Time) ([]*domain.PromiseToPay, error) {
	args := m.Called(ctx, promisedDate)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.PromiseToPay), args.Error(1)
}

func (m *MockPTPRepository) ListActiveOverdue(ctx context.Context, before time.Time) ([]*domain.PromiseToPay, error) {
	args := m.Called(ctx, before)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.PromiseToPay), args.Error(1)
}

func (m *MockPTPRepository) MarkBroken(ctx context.Context, id uuid.UUID, brokenAt time.Time) error {
	args := m.Called(ctx, id, brokenAt)
	return args.Error(0)
}

type MockAlertRepository struct {
	mock.Mock
}

func (m *MockAlertRepository) Create(ctx context.Context, alert *domain.Alert) error {
	args := m.Called(ctx, alert)
	return args.Error(0)
}

func (m *MockAlertRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Alert, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Alert), args.Error(1)
}

func (m *MockAlertRepository) FindActiveDuplicate(ctx context.Context, alertType string, accountID uuid.UUID, dueDate time.Time) (*domain.Alert, error) {
	args := m.Called(ctx, alertType, accountID, dueDate)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Alert), args.Error(1)
}

func (m *MockAlertRepository) FindActiveByTypeAndAccount(ctx context.Context, alertType string, accountID uuid.UUID) (*domain.Alert, error) {
	args := m.Called(ctx, alertType, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Alert), args.Error(1)
}

func (m *MockAlertRepository) List(ctx context.Context, status, priority string) ([]*domain.Alert, error) {
	args := m.Called(ctx, status, priority)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Alert), args.Error(1)
}

func (m *MockAlertRepository) Acknowledge(ctx context.Context, id uuid.UUID, at time.Time) error {
	args := m.Called(ctx, id, at)
	return args.Error(0)
}

func (m *MockAlertRepository) Resolve(ctx context.Context, id uuid.UUID, at time.Time) error {
	args := m.Called(ctx, id, at)
	return args.Error(0)
}

type MockEscalationRepository struct {
	mock.Mock
}

func (m *MockEscalationRepository) Create(ctx context.Context, escalation *domain.Escalation) error {
	args := m.Called(ctx, escalation)
	return args.Error(0)
}

func (m *MockEscalationRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Escalation, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Escalation), args.Error(1)
}

func (m *MockEscalationRepository) FindOpenForAccountSince(ctx context.Context, accountID uuid.UUID, since time.Time) (*domain.Escalation, error) {
	args := m.Called(ctx, accountID, since)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Escalation), args.Error(1)
}

func (m *MockEscalationRepository) List(ctx context.Context, status, priority string) ([]*domain.Escalation, error) {
	args := m.Called(ctx, status, priority)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Escalation), args.Error(1)
}

func (m *MockEscalationRepository) Acknowledge(ctx context.Context, id uuid.UUID, at time.Time) error {
	args := m.Called(ctx, id, at)
	return args.Error(0)
}

func (m *MockEscalationRepository) Resolve(ctx context.Context, id uuid.UUID, at time.Time, notes string) error {
	args := m.Called(ctx, id, at, notes)
	return args.Error(0)
}

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) ListActiveManagersByRegion(ctx context.Context, regionID uuid.UUID) ([]*domain.User, error) {
	args := m.Called(ctx, regionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.User), args.Error(1)
}

func (m *MockUserRepository) ListActiveAdministrators(ctx context.Context) ([]*domain.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.User), args.Error(1)
}

type MockNotificationRepository struct {
	mock.Mock
}

func (m *MockNotificationRepository) Create(ctx context.Context, notification *domain.EmailNotification) error {
	args := m.Called(ctx, notification)
	return args.Error(0)
}

func (m *MockNotificationRepository) MarkSent(ctx context.Context, id uuid.UUID, sentAt time.Time) error {
	args := m.Called(ctx, id, sentAt)
	return args.Error(0)
}

func (m *MockNotificationRepository) MarkFailed(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockEventRepository struct {
	mock.Mock
}

func (m *MockEventRepository) Create(ctx context.Context, event *domain.AREvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}
