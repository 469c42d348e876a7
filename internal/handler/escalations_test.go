package handler

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/dm9/collections-engine/internal/config"
	"github.com/dm9/collections-engine/internal/domain"
	"github.com/dm9/collections-engine/internal/service"
	"github.com/dm9/collections-engine/tests/mocks"
)

type handlerFixture struct {
	service        *service.AlertService
	accountRepo    *mocks.MockAccountRepository
	ptpRepo        *mocks.MockPTPRepository
	alertRepo      *mocks.MockAlertRepository
	escalationRepo *mocks.MockEscalationRepository
	locker         *mocks.MockRunLocker
}

func newHandlerFixture() *handlerFixture {
	log := logrus.New()
	log.SetOutput(io.Discard)

	cfg := &config.Config{
		Business: config.BusinessConfig{
			CriticalBalanceThreshold: "200000",
			HighBalanceThreshold:     "100000",
			CriticalAgeDays:          30,
			HighAgeDays:              90,
			PaymentDueLeadDays:       5,
			OverdueCriticalDays:      7,
			EscalationIntervalDays:   30,
			EscalationDedupeDays:     5,
			CurrencyCode:             "KES",
		},
		Scheduler: config.SchedulerConfig{
			CheckTimeout: "5m",
			RunLockTTL:   "30m",
		},
	}

	f := &handlerFixture{
		accountRepo:    &mocks.MockAccountRepository{},
		ptpRepo:        &mocks.MockPTPRepository{},
		alertRepo:      &mocks.MockAlertRepository{},
		escalationRepo: &mocks.MockEscalationRepository{},
		locker:         &mocks.MockRunLocker{},
	}

	clock := mocks.FixedClock{Instant: time.Date(2025, 3, 15, 10, 0, 0, 0, time.UTC)}
	f.service = service.NewAlertService(
		f.accountRepo, &mocks.MockConsumerRepository{}, f.ptpRepo, f.alertRepo,
		f.escalationRepo, &mocks.MockUserRepository{}, &mocks.MockEventRepository{},
		&mocks.MockNotifier{}, f.locker, clock, log, cfg,
	)

	return f
}

func TestListEscalations(t *testing.T) {
	t.Run("returns escalations matching the status filter", func(t *testing.T) {
		f := newHandlerFixture()
		escalation := &domain.Escalation{
			ID:        uuid.New(),
			AccountID: uuid.New(),
			Priority:  domain.EscalationPriorityCritical,
			Status:    domain.EscalationStatusPending,
		}
		f.escalationRepo.On("List", mock.Anything, domain.EscalationStatusPending, "").
			Return([]*domain.Escalation{escalation}, nil)

		h := NewEscalationHandler(f.service)
		req := httptest.NewRequest(http.MethodGet, "/api/v1/escalations?status=pending", nil)
		rec := httptest.NewRecorder()

		h.ListEscalations(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), escalation.ID.String())
	})

	t.Run("rejects an unknown status filter", func(t *testing.T) {
		f := newHandlerFixture()

		h := NewEscalationHandler(f.service)
		req := httptest.NewRequest(http.MethodGet, "/api/v1/escalations?status=open", nil)
		rec := httptest.NewRecorder()

		h.ListEscalations(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		f.escalationRepo.AssertNotCalled(t, "List", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("passes both filters through", func(t *testing.T) {
		f := newHandlerFixture()
		f.escalationRepo.On("List", mock.Anything, domain.EscalationStatusResolved, domain.EscalationPriorityHigh).
			Return([]*domain.Escalation{}, nil)

		h := NewEscalationHandler(f.service)
		req := httptest.NewRequest(http.MethodGet, "/api/v1/escalations?status=resolved&priority=high", nil)
		rec := httptest.NewRecorder()

		h.ListEscalations(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		f.escalationRepo.AssertCalled(t, "List", mock.Anything, domain.EscalationStatusResolved, domain.EscalationPriorityHigh)
	})
}
