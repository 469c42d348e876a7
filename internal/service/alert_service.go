package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/dm9/collections-engine/internal/config"
	"github.com/dm9/collections-engine/internal/domain"
	"github.com/dm9/collections-engine/internal/repository"
	customError "github.com/dm9/collections-engine/pkg/errors"
	"github.com/dm9/collections-engine/pkg/utils"
)

// Notifier hands a freshly created alert to the notification pipeline.
// Dispatch failures are handled inside; evaluation never aborts on them.
type Notifier interface {
	DispatchAlertNotifications(ctx context.Context, alert *domain.Alert)
}

// AlertService owns the daily check rule evaluators: payment-due,
// payment-overdue and high-priority/auto-escalation. Alerts and escalations
// are born here and nowhere else in the engine.
type AlertService struct {
	accountRepo    repository.AccountRepository
	consumerRepo   repository.ConsumerRepository
	ptpRepo        repository.PTPRepository
	alertRepo      repository.AlertRepository
	escalationRepo repository.EscalationRepository
	userRepo       repository.UserRepository
	eventRepo      repository.EventRepository
	dispatcher     Notifier
	locker         RunLocker
	clock          Clock
	logger         *logrus.Logger
	config         *config.Config
}

func NewAlertService(
	accountRepo repository.AccountRepository,
	consumerRepo repository.ConsumerRepository,
	ptpRepo repository.PTPRepository,
	alertRepo repository.AlertRepository,
	escalationRepo repository.EscalationRepository,
	userRepo repository.UserRepository,
	eventRepo repository.EventRepository,
	dispatcher Notifier,
	locker RunLocker,
	clock Clock,
	logger *logrus.Logger,
	config *config.Config,
) *AlertService {
	return &AlertService{
		accountRepo:    accountRepo,
		consumerRepo:   consumerRepo,
		ptpRepo:        ptpRepo,
		alertRepo:      alertRepo,
		escalationRepo: escalationRepo,
		userRepo:       userRepo,
		eventRepo:      eventRepo,
		dispatcher:     dispatcher,
		locker:         locker,
		clock:          clock,
		logger:         logger,
		config:         config,
	}
}

// RunDailyChecks runs the three rule evaluators in sequence behind the
// single-flight lock. Each evaluator fails independently: one failure is
// logged and the run continues, and the caller only gets an error when no
// evaluator completed or the lock could not be taken.
func (s *AlertService) RunDailyChecks(ctx context.Context) error {
	acquired, err := s.locker.TryAcquire(ctx, s.config.GetRunLockTTL())
	if err != nil {
		return customError.WrapLockError(err)
	}
	if !acquired {
		return customError.WrapRunInProgress()
	}
	defer func() {
		if err := s.locker.Release(context.WithoutCancel(ctx)); err != nil {
			s.logger.WithError(err).Error("failed to release daily checks lock")
		}
	}()

	s.logger.Info("running daily alert checks")

	evaluators := []struct {
		name string
		run  func(context.Context) error
	}{
		{"payment_due", s.CheckPaymentDueAlerts},
		{"payment_overdue", s.CheckOverduePayments},
		{"high_priority", s.CheckHighPriorityAccounts},
	}

	failed := 0
	for _, evaluator := range evaluators {
		evalCtx, cancel := context.WithTimeout(ctx, s.config.GetCheckTimeout())
		err := evaluator.run(evalCtx)
		cancel()

		if err != nil {
			failed++
			s.logger.WithError(err).WithField("evaluator", evaluator.name).
				Error("evaluator failed, continuing with remaining checks")
		}
	}

	if failed == len(evaluators) {
		return fmt.Errorf("daily checks failed: all %d evaluators returned errors", failed)
	}

	s.logger.WithField("failed_evaluators", failed).Info("daily alert checks completed")
	return nil
}

// CheckPaymentDueAlerts scans active PTPs promised exactly the configured
// lead days in the future and raises a high-priority payment_due alert for
// each, unless an equivalent active alert already exists.
func (s *AlertService) CheckPaymentDueAlerts(ctx context.Context) error {
	dueDate := s.clock.Today().AddDate(0, 0, s.config.Business.PaymentDueLeadDays)

	ptps, err := s.ptpRepo.ListActiveByPromisedDate(ctx, dueDate)
	if err != nil {
		return customError.WrapDatabaseError(err)
	}

	for _, ptp := range ptps {
		existing, err := s.alertRepo.FindActiveDuplicate(ctx, domain.AlertTypePaymentDue, ptp.AccountID, ptp.PromisedDate)
		if err != nil {
			return customError.WrapDatabaseError(err)
		}
		if existing != nil {
			continue
		}

		account, consumer, ok := s.lookupPTPParties(ctx, ptp)
		if !ok {
			continue
		}

		alert := &domain.Alert{
			ID:        uuid.New(),
			AlertType: domain.AlertTypePaymentDue,
			Title: fmt.Sprintf("Payment Due in %d Days - %s",
				s.config.Business.PaymentDueLeadDays, account.AccountNumber),
			Message: fmt.Sprintf("Customer %s has a payment of %s %s due on %s",
				consumer.FullName(), s.config.Business.CurrencyCode,
				utils.FormatAmount(ptp.PromisedAmount), utils.FormatDate(ptp.PromisedDate)),
			Priority:   domain.AlertPriorityHigh,
			AccountID:  uuid.NullUUID{UUID: ptp.AccountID, Valid: true},
			ConsumerID: uuid.NullUUID{UUID: ptp.ConsumerID, Valid: true},
			AssignedTo: account.AssignedOfficerID,
			Status:     domain.AlertStatusActive,
			DueDate:    nullTime(ptp.PromisedDate),
			CreatedAt:  s.clock.Now(),
		}

		if err := s.alertRepo.Create(ctx, alert); err != nil {
			return customError.WrapDatabaseError(err)
		}

		s.logger.WithFields(logrus.Fields{
			"alert_id":   alert.ID,
			"account_id": ptp.AccountID,
			"due_date":   utils.FormatDate(ptp.PromisedDate),
		}).Info("payment due alert created")

		s.dispatcher.DispatchAlertNotifications(ctx, alert)
	}

	return nil
}

// CheckOverduePayments scans active PTPs past their promised date. Each gets
// a payment_overdue alert (critical beyond the configured grace) and the PTP
// itself is broken. Breaking the PTP is the one domain mutation the engine
// owns: once broken, the active-status filter excludes it from future runs.
func (s *AlertService) CheckOverduePayments(ctx context.Context) error {
	today := s.clock.Today()

	ptps, err := s.ptpRepo.ListActiveOverdue(ctx, today)
	if err != nil {
		return customError.WrapDatabaseError(err)
	}

	for _, ptp := range ptps {
		daysOverdue := utils.DaysBetween(ptp.PromisedDate, today)

		existing, err := s.alertRepo.FindActiveDuplicate(ctx, domain.AlertTypePaymentOverdue, ptp.AccountID, ptp.PromisedDate)
		if err != nil {
			return customError.WrapDatabaseError(err)
		}
		if existing != nil {
			// The alert can exist from a run that failed before breaking the
			// promise; re-break it so it leaves the active pool.
			if err := s.ptpRepo.MarkBroken(ctx, ptp.ID, s.clock.Now()); err != nil {
				return customError.WrapDatabaseError(err)
			}
			continue
		}

		account, consumer, ok := s.lookupPTPParties(ctx, ptp)
		if !ok {
			continue
		}

		priority := domain.AlertPriorityHigh
		if daysOverdue > s.config.Business.OverdueCriticalDays {
			priority = domain.AlertPriorityCritical
		}

		alert := &domain.Alert{
			ID:        uuid.New(),
			AlertType: domain.AlertTypePaymentOverdue,
			Title:     fmt.Sprintf("Payment Overdue - %s", account.AccountNumber),
			Message: fmt.Sprintf("Customer %s payment of %s %s is %d days overdue (due: %s)",
				consumer.FullName(), s.config.Business.CurrencyCode,
				utils.FormatAmount(ptp.PromisedAmount), daysOverdue, utils.FormatDate(ptp.PromisedDate)),
			Priority:   priority,
			AccountID:  uuid.NullUUID{UUID: ptp.AccountID, Valid: true},
			ConsumerID: uuid.NullUUID{UUID: ptp.ConsumerID, Valid: true},
			AssignedTo: account.AssignedOfficerID,
			Status:     domain.AlertStatusActive,
			DueDate:    nullTime(ptp.PromisedDate),
			CreatedAt:  s.clock.Now(),
		}

		if err := s.alertRepo.Create(ctx, alert); err != nil {
			return customError.WrapDatabaseError(err)
		}

		if err := s.ptpRepo.MarkBroken(ctx, ptp.ID, s.clock.Now()); err != nil {
			return customError.WrapDatabaseError(err)
		}

		s.logger.WithFields(logrus.Fields{
			"alert_id":     alert.ID,
			"ptp_id":       ptp.ID,
			"account_id":   ptp.AccountID,
			"days_overdue": daysOverdue,
			"priority":     priority,
		}).Info("overdue payment alert created, promise marked broken")

		s.dispatcher.DispatchAlertNotifications(ctx, alert)
	}

	return nil
}

// lookupPTPParties resolves the account and consumer behind a PTP. Dangling
// references are data-integrity gaps: the item is skipped with a warning and
// the evaluator keeps going.
func (s *AlertService) lookupPTPParties(ctx context.Context, ptp *domain.PromiseToPay) (*domain.Account, *domain.Consumer, bool) {
	account, err := s.accountRepo.GetByID(ctx, ptp.AccountID)
	if err != nil {
		s.logger.WithError(err).WithFields(logrus.Fields{
			"ptp_id":     ptp.ID,
			"account_id": ptp.AccountID,
		}).Warn("skipping promise with unresolvable account")
		return nil, nil, false
	}

	consumer, err := s.consumerRepo.GetByID(ctx, ptp.ConsumerID)
	if err != nil {
		s.logger.WithError(err).WithFields(logrus.Fields{
			"ptp_id":      ptp.ID,
			"consumer_id": ptp.ConsumerID,
		}).Warn("skipping promise with unresolvable consumer")
		return nil, nil, false
	}

	return account, consumer, true
}
