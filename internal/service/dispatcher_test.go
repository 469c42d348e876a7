package service

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/dm9/collections-engine/internal/domain"
	"github.com/dm9/collections-engine/tests/mocks"
)

type dispatcherFixture struct {
	dispatcher   *Dispatcher
	userRepo     *mocks.MockUserRepository
	consumerRepo *mocks.MockConsumerRepository
	notifRepo    *mocks.MockNotificationRepository
	sender       *mocks.MockSender
	clock        mocks.FixedClock
}

func newDispatcherFixture() *dispatcherFixture {
	log := logrus.New()
	log.SetOutput(io.Discard)

	f := &dispatcherFixture{
		userRepo:     &mocks.MockUserRepository{},
		consumerRepo: &mocks.MockConsumerRepository{},
		notifRepo:    &mocks.MockNotificationRepository{},
		sender:       &mocks.MockSender{},
		clock:        mocks.FixedClock{Instant: time.Date(2025, 3, 15, 10, 0, 0, 0, time.UTC)},
	}
	f.dispatcher = NewDispatcher(f.userRepo, f.consumerRepo, f.notifRepo, f.sender, f.clock, log)
	return f
}

func makeAlert(priority string, officerID uuid.NullUUID) *domain.Alert {
	return &domain.Alert{
		ID:         uuid.New(),
		AlertType:  domain.AlertTypePaymentOverdue,
		Title:      "Payment Overdue - ACC-1001",
		Message:    "Customer Jane Wanjiku promised payment is 8 days overdue",
		Priority:   priority,
		AccountID:  uuid.NullUUID{UUID: uuid.New(), Valid: true},
		AssignedTo: officerID,
		Status:     domain.AlertStatusActive,
		CreatedAt:  time.Date(2025, 3, 15, 9, 0, 0, 0, time.UTC),
	}
}

func stubOfficerChain(f *dispatcherFixture, officerID uuid.UUID, officerEmail string, managerEmails ...string) {
	regionID := uuid.New()
	officer := &domain.User{
		ID:       officerID,
		Email:    officerEmail,
		Role:     domain.RoleCollectionsOfficer,
		RegionID: uuid.NullUUID{UUID: regionID, Valid: true},
		Active:   true,
	}

	managers := make([]*domain.User, 0, len(managerEmails))
	for _, email := range managerEmails {
		managers = append(managers, &domain.User{
			ID:     uuid.New(),
			Email:  email,
			Role:   domain.RoleCollectionsManager,
			Active: true,
		})
	}

	f.userRepo.On("GetByID", mock.Anything, officerID).Return(officer, nil)
	f.userRepo.On("ListActiveManagersByRegion", mock.Anything, regionID).Return(managers, nil)
}

func TestResolveRecipients(t *testing.T) {
	t.Run("critical alert reaches officer, regional managers and administrators", func(t *testing.T) {
		f := newDispatcherFixture()
		officerID := uuid.New()
		alert := makeAlert(domain.AlertPriorityCritical, uuid.NullUUID{UUID: officerID, Valid: true})

		stubOfficerChain(f, officerID, "officer@example.com", "manager@example.com")
		f.userRepo.On("ListActiveAdministrators", mock.Anything).Return([]*domain.User{
			{ID: uuid.New(), Email: "admin@example.com", Role: domain.RoleAdministrator, Active: true},
		}, nil)

		recipients, err := f.dispatcher.ResolveRecipients(context.Background(), alert)

		assert.NoError(t, err)
		assert.ElementsMatch(t, []string{
			"officer@example.com", "manager@example.com", "admin@example.com",
		}, recipients)
	})

	t.Run("non-critical alert excludes administrators", func(t *testing.T) {
		f := newDispatcherFixture()
		officerID := uuid.New()
		alert := makeAlert(domain.AlertPriorityHigh, uuid.NullUUID{UUID: officerID, Valid: true})

		stubOfficerChain(f, officerID, "officer@example.com", "manager@example.com")

		recipients, err := f.dispatcher.ResolveRecipients(context.Background(), alert)

		assert.NoError(t, err)
		assert.ElementsMatch(t, []string{"officer@example.com", "manager@example.com"}, recipients)
		f.userRepo.AssertNotCalled(t, "ListActiveAdministrators", mock.Anything)
	})

	t.Run("overlapping addresses are deduplicated", func(t *testing.T) {
		f := newDispatcherFixture()
		officerID := uuid.New()
		alert := makeAlert(domain.AlertPriorityCritical, uuid.NullUUID{UUID: officerID, Valid: true})

		// The officer doubles as the regional manager and as an admin.
		stubOfficerChain(f, officerID, "lead@example.com", "lead@example.com")
		f.userRepo.On("ListActiveAdministrators", mock.Anything).Return([]*domain.User{
			{ID: uuid.New(), Email: "lead@example.com", Role: domain.RoleAdministrator, Active: true},
		}, nil)

		recipients, err := f.dispatcher.ResolveRecipients(context.Background(), alert)

		assert.NoError(t, err)
		assert.Equal(t, []string{"lead@example.com"}, recipients)
	})

	t.Run("unassigned critical alert still reaches administrators", func(t *testing.T) {
		f := newDispatcherFixture()
		alert := makeAlert(domain.AlertPriorityCritical, uuid.NullUUID{})

		f.userRepo.On("ListActiveAdministrators", mock.Anything).Return([]*domain.User{
			{ID: uuid.New(), Email: "admin@example.com", Role: domain.RoleAdministrator, Active: true},
		}, nil)

		recipients, err := f.dispatcher.ResolveRecipients(context.Background(), alert)

		assert.NoError(t, err)
		assert.Equal(t, []string{"admin@example.com"}, recipients)
	})
}

func TestDispatchAlertNotifications(t *testing.T) {
	t.Run("one failing recipient does not block the others", func(t *testing.T) {
		f := newDispatcherFixture()
		officerID := uuid.New()
		alert := makeAlert(domain.AlertPriorityHigh, uuid.NullUUID{UUID: officerID, Valid: true})

		stubOfficerChain(f, officerID, "officer@example.com", "manager@example.com")

		f.notifRepo.On("Create", mock.Anything, mock.Anything).Return(nil)
		f.sender.On("Send", "officer@example.com", mock.Anything, mock.Anything).
			Return(errors.New("smtp: connection refused"))
		f.sender.On("Send", "manager@example.com", mock.Anything, mock.Anything).Return(nil)
		f.notifRepo.On("MarkFailed", mock.Anything, mock.Anything).Return(nil)
		f.notifRepo.On("MarkSent", mock.Anything, mock.Anything, f.clock.Now()).Return(nil)

		f.dispatcher.DispatchAlertNotifications(context.Background(), alert)

		f.sender.AssertNumberOfCalls(t, "Send", 2)
		f.notifRepo.AssertNumberOfCalls(t, "MarkFailed", 1)
		f.notifRepo.AssertNumberOfCalls(t, "MarkSent", 1)
	})

	t.Run("subject carries the upper-cased priority", func(t *testing.T) {
		f := newDispatcherFixture()
		officerID := uuid.New()
		alert := makeAlert(domain.AlertPriorityCritical, uuid.NullUUID{UUID: officerID, Valid: true})

		stubOfficerChain(f, officerID, "officer@example.com")
		f.userRepo.On("ListActiveAdministrators", mock.Anything).Return([]*domain.User{}, nil)

		f.notifRepo.On("Create", mock.Anything, mock.MatchedBy(func(n *domain.EmailNotification) bool {
			return n.Subject == "[CRITICAL] Payment Overdue - ACC-1001" &&
				n.Status == domain.NotificationStatusPending &&
				n.AlertID.UUID == alert.ID &&
				strings.Contains(n.Body, "Payment Overdue") &&
				strings.Contains(n.Body, alert.Message)
		})).Return(nil)
		f.sender.On("Send", "officer@example.com", "[CRITICAL] Payment Overdue - ACC-1001", mock.Anything).
			Return(nil)
		f.notifRepo.On("MarkSent", mock.Anything, mock.Anything, mock.Anything).Return(nil)

		f.dispatcher.DispatchAlertNotifications(context.Background(), alert)

		f.sender.AssertNumberOfCalls(t, "Send", 1)
	})

	t.Run("recipient resolution failure is swallowed", func(t *testing.T) {
		f := newDispatcherFixture()
		alert := makeAlert(domain.AlertPriorityCritical, uuid.NullUUID{})

		f.userRepo.On("ListActiveAdministrators", mock.Anything).
			Return(nil, errors.New("database is down"))

		f.dispatcher.DispatchAlertNotifications(context.Background(), alert)

		f.sender.AssertNotCalled(t, "Send", mock.Anything, mock.Anything, mock.Anything)
		f.notifRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("no recipients means no sends", func(t *testing.T) {
		f := newDispatcherFixture()
		alert := makeAlert(domain.AlertPriorityHigh, uuid.NullUUID{})

		f.dispatcher.DispatchAlertNotifications(context.Background(), alert)

		f.sender.AssertNotCalled(t, "Send", mock.Anything, mock.Anything, mock.Anything)
		f.notifRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})
}
