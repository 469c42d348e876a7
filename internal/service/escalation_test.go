package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/dm9/collections-engine/internal/domain"
)

func makeRiskAccount(f *serviceFixture, balance int64, daysSincePlacement int) *domain.Account {
	return &domain.Account{
		ID:                uuid.New(),
		ConsumerID:        uuid.New(),
		AccountNumber:     "ACC-9001",
		CurrentBalance:    decimal.NewFromInt(balance),
		Status:            domain.AccountStatusActive,
		PlacementDate:     f.today().AddDate(0, 0, -daysSincePlacement),
		AssignedOfficerID: uuid.NullUUID{UUID: uuid.New(), Valid: true},
	}
}

func stubTiers(f *serviceFixture, critical, high []*domain.Account) {
	criticalCutoff := f.today().AddDate(0, 0, -f.config.Business.CriticalAgeDays)
	highCutoff := f.today().AddDate(0, 0, -f.config.Business.HighAgeDays)

	f.accountRepo.On("ListActiveInTier", mock.Anything, mock.Anything, mock.Anything, criticalCutoff).
		Return(critical, nil)
	f.accountRepo.On("ListActiveInTier", mock.Anything, mock.Anything, mock.Anything, highCutoff).
		Return(high, nil)
}

func stubOfficerWithManager(f *serviceFixture, account *domain.Account) (*domain.User, *domain.User) {
	regionID := uuid.New()
	officer := &domain.User{
		ID:       account.AssignedOfficerID.UUID,
		Email:    "officer@example.com",
		Role:     domain.RoleCollectionsOfficer,
		RegionID: uuid.NullUUID{UUID: regionID, Valid: true},
		Active:   true,
	}
	manager := &domain.User{
		ID:       uuid.New(),
		Email:    "manager@example.com",
		Role:     domain.RoleCollectionsManager,
		RegionID: officer.RegionID,
		Active:   true,
	}

	f.userRepo.On("GetByID", mock.Anything, officer.ID).Return(officer, nil)
	f.userRepo.On("ListActiveManagersByRegion", mock.Anything, regionID).
		Return([]*domain.User{manager}, nil)

	return officer, manager
}

func dedupeWindowStart(f *serviceFixture) time.Time {
	window := time.Duration(f.config.Business.EscalationDedupeDays) * 24 * time.Hour
	return f.clock.Now().Add(-window)
}

func TestCheckHighPriorityAccounts(t *testing.T) {
	t.Run("critical account on a 30 day boundary escalates and alerts", func(t *testing.T) {
		f := newServiceFixture()
		account := makeRiskAccount(f, 250000, 60)
		stubTiers(f, []*domain.Account{account}, nil)
		officer, manager := stubOfficerWithManager(f, account)

		f.escalationRepo.On("FindOpenForAccountSince", mock.Anything, account.ID, dedupeWindowStart(f)).
			Return(nil, nil)
		f.escalationRepo.On("Create", mock.Anything, mock.MatchedBy(func(e *domain.Escalation) bool {
			return e.AccountID == account.ID &&
				e.EscalatedBy == officer.ID &&
				e.EscalatedTo == manager.ID &&
				e.Priority == domain.EscalationPriorityCritical &&
				e.Status == domain.EscalationStatusPending
		})).Return(nil)
		f.eventRepo.On("Create", mock.Anything, mock.MatchedBy(func(ev *domain.AREvent) bool {
			return ev.AccountID == account.ID && ev.EventType == domain.EventTypeEscalation
		})).Return(nil)

		f.alertRepo.On("FindActiveByTypeAndAccount", mock.Anything, domain.AlertTypeHighPriority, account.ID).
			Return(nil, nil)
		f.alertRepo.On("Create", mock.Anything, mock.MatchedBy(func(a *domain.Alert) bool {
			return a.AlertType == domain.AlertTypeHighPriority &&
				a.Priority == domain.AlertPriorityCritical &&
				a.AssignedTo == account.AssignedOfficerID
		})).Return(nil)
		f.notifier.On("DispatchAlertNotifications", mock.Anything, mock.Anything).Return()

		err := f.service.CheckHighPriorityAccounts(context.Background())

		assert.NoError(t, err)
		f.escalationRepo.AssertNumberOfCalls(t, "Create", 1)
		f.eventRepo.AssertNumberOfCalls(t, "Create", 1)
		f.alertRepo.AssertNumberOfCalls(t, "Create", 1)
	})

	t.Run("day 31 is off the boundary and does not escalate", func(t *testing.T) {
		f := newServiceFixture()
		account := makeRiskAccount(f, 250000, 31)
		stubTiers(f, []*domain.Account{account}, nil)

		f.alertRepo.On("FindActiveByTypeAndAccount", mock.Anything, domain.AlertTypeHighPriority, account.ID).
			Return(nil, nil)
		f.alertRepo.On("Create", mock.Anything, mock.Anything).Return(nil)
		f.notifier.On("DispatchAlertNotifications", mock.Anything, mock.Anything).Return()

		err := f.service.CheckHighPriorityAccounts(context.Background())

		assert.NoError(t, err)
		f.escalationRepo.AssertNotCalled(t, "FindOpenForAccountSince", mock.Anything, mock.Anything, mock.Anything)
		f.escalationRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		// The alert sub-rule is independent of the boundary.
		f.alertRepo.AssertNumberOfCalls(t, "Create", 1)
	})

	t.Run("open escalation within the dedupe window suppresses a new one", func(t *testing.T) {
		f := newServiceFixture()
		account := makeRiskAccount(f, 250000, 60)
		stubTiers(f, []*domain.Account{account}, nil)

		f.escalationRepo.On("FindOpenForAccountSince", mock.Anything, account.ID, dedupeWindowStart(f)).
			Return(&domain.Escalation{ID: uuid.New(), Status: domain.EscalationStatusPending}, nil)
		f.alertRepo.On("FindActiveByTypeAndAccount", mock.Anything, domain.AlertTypeHighPriority, account.ID).
			Return(&domain.Alert{ID: uuid.New()}, nil)

		err := f.service.CheckHighPriorityAccounts(context.Background())

		assert.NoError(t, err)
		f.escalationRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		f.alertRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		f.notifier.AssertNotCalled(t, "DispatchAlertNotifications", mock.Anything, mock.Anything)
	})

	t.Run("high tier uses high priorities", func(t *testing.T) {
		f := newServiceFixture()
		account := makeRiskAccount(f, 150000, 120)
		stubTiers(f, nil, []*domain.Account{account})
		_, manager := stubOfficerWithManager(f, account)

		f.escalationRepo.On("FindOpenForAccountSince", mock.Anything, account.ID, dedupeWindowStart(f)).
			Return(nil, nil)
		f.escalationRepo.On("Create", mock.Anything, mock.MatchedBy(func(e *domain.Escalation) bool {
			return e.EscalatedTo == manager.ID && e.Priority == domain.EscalationPriorityHigh
		})).Return(nil)
		f.eventRepo.On("Create", mock.Anything, mock.Anything).Return(nil)

		f.alertRepo.On("FindActiveByTypeAndAccount", mock.Anything, domain.AlertTypeHighPriority, account.ID).
			Return(nil, nil)
		f.alertRepo.On("Create", mock.Anything, mock.MatchedBy(func(a *domain.Alert) bool {
			return a.Priority == domain.AlertPriorityHigh
		})).Return(nil)
		f.notifier.On("DispatchAlertNotifications", mock.Anything, mock.Anything).Return()

		err := f.service.CheckHighPriorityAccounts(context.Background())

		assert.NoError(t, err)
		f.escalationRepo.AssertNumberOfCalls(t, "Create", 1)
	})

	t.Run("no active manager blocks escalation but not the alert", func(t *testing.T) {
		f := newServiceFixture()
		account := makeRiskAccount(f, 250000, 30)
		stubTiers(f, []*domain.Account{account}, nil)

		regionID := uuid.New()
		officer := &domain.User{
			ID:       account.AssignedOfficerID.UUID,
			Email:    "officer@example.com",
			Role:     domain.RoleCollectionsOfficer,
			RegionID: uuid.NullUUID{UUID: regionID, Valid: true},
			Active:   true,
		}
		f.userRepo.On("GetByID", mock.Anything, officer.ID).Return(officer, nil)
		f.userRepo.On("ListActiveManagersByRegion", mock.Anything, regionID).
			Return([]*domain.User{}, nil)

		f.escalationRepo.On("FindOpenForAccountSince", mock.Anything, account.ID, dedupeWindowStart(f)).
			Return(nil, nil)
		f.alertRepo.On("FindActiveByTypeAndAccount", mock.Anything, domain.AlertTypeHighPriority, account.ID).
			Return(nil, nil)
		f.alertRepo.On("Create", mock.Anything, mock.Anything).Return(nil)
		f.notifier.On("DispatchAlertNotifications", mock.Anything, mock.Anything).Return()

		err := f.service.CheckHighPriorityAccounts(context.Background())

		assert.NoError(t, err)
		f.escalationRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		f.eventRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		f.alertRepo.AssertNumberOfCalls(t, "Create", 1)
	})

	t.Run("account without an officer skips escalation", func(t *testing.T) {
		f := newServiceFixture()
		account := makeRiskAccount(f, 250000, 90)
		account.AssignedOfficerID = uuid.NullUUID{}
		stubTiers(f, []*domain.Account{account}, nil)

		f.escalationRepo.On("FindOpenForAccountSince", mock.Anything, account.ID, dedupeWindowStart(f)).
			Return(nil, nil)
		f.alertRepo.On("FindActiveByTypeAndAccount", mock.Anything, domain.AlertTypeHighPriority, account.ID).
			Return(nil, nil)
		f.alertRepo.On("Create", mock.Anything, mock.Anything).Return(nil)
		f.notifier.On("DispatchAlertNotifications", mock.Anything, mock.Anything).Return()

		err := f.service.CheckHighPriorityAccounts(context.Background())

		assert.NoError(t, err)
		f.escalationRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("immediate second run creates nothing new", func(t *testing.T) {
		f := newServiceFixture()
		account := makeRiskAccount(f, 250000, 60)
		stubTiers(f, []*domain.Account{account}, nil)

		// After the first run an open escalation and an active alert exist.
		f.escalationRepo.On("FindOpenForAccountSince", mock.Anything, account.ID, dedupeWindowStart(f)).
			Return(&domain.Escalation{ID: uuid.New(), Status: domain.EscalationStatusPending}, nil)
		f.alertRepo.On("FindActiveByTypeAndAccount", mock.Anything, domain.AlertTypeHighPriority, account.ID).
			Return(&domain.Alert{ID: uuid.New(), Status: domain.AlertStatusActive}, nil)

		err := f.service.CheckHighPriorityAccounts(context.Background())

		assert.NoError(t, err)
		f.escalationRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		f.alertRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})
}
