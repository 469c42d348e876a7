package service

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/dm9/collections-engine/internal/domain"
	customError "github.com/dm9/collections-engine/pkg/errors"
	"github.com/dm9/collections-engine/pkg/utils"
)

// riskTier is one balance/age bracket of the high-priority rule. The two
// tiers are disjoint: the critical tier is open-ended above its floor, the
// high tier is capped at the critical floor.
type riskTier struct {
	name               string
	minBalance         decimal.Decimal
	maxBalance         decimal.NullDecimal
	minAgeDays         int
	alertPriority      string
	escalationPriority string
	titlePrefix        string
	reasonLabel        string
}

func (s *AlertService) riskTiers() []riskTier {
	criticalFloor := s.config.GetCriticalBalanceThreshold()
	highFloor := s.config.GetHighBalanceThreshold()

	return []riskTier{
		{
			name:               "critical",
			minBalance:         criticalFloor,
			minAgeDays:         s.config.Business.CriticalAgeDays,
			alertPriority:      domain.AlertPriorityCritical,
			escalationPriority: domain.EscalationPriorityCritical,
			titlePrefix:        "Critical Account",
			reasonLabel:        "Critical account",
		},
		{
			name:               "high",
			minBalance:         highFloor,
			maxBalance:         decimal.NullDecimal{Decimal: criticalFloor, Valid: true},
			minAgeDays:         s.config.Business.HighAgeDays,
			alertPriority:      domain.AlertPriorityHigh,
			escalationPriority: domain.EscalationPriorityHigh,
			titlePrefix:        "High Priority Account",
			reasonLabel:        "High-risk account",
		},
	}
}

// CheckHighPriorityAccounts scans both risk tiers. Every qualifying account
// gets a high_priority alert unless one is already active; accounts sitting
// exactly on a 30-day placement boundary are additionally auto-escalated to
// the officer's regional manager.
func (s *AlertService) CheckHighPriorityAccounts(ctx context.Context) error {
	today := s.clock.Today()

	for _, tier := range s.riskTiers() {
		placedBefore := today.AddDate(0, 0, -tier.minAgeDays)

		accounts, err := s.accountRepo.ListActiveInTier(ctx, tier.minBalance, tier.maxBalance, placedBefore)
		if err != nil {
			return customError.WrapDatabaseError(err)
		}

		for _, account := range accounts {
			daysSincePlacement := utils.DaysBetween(account.PlacementDate, today)

			// The interval gate keeps multiple runs per day from
			// re-escalating, while each successive 30-day milestone
			// still escalates again.
			if daysSincePlacement%s.config.Business.EscalationIntervalDays == 0 {
				if err := s.autoEscalate(ctx, account, tier, daysSincePlacement); err != nil {
					return err
				}
			}

			if err := s.raiseHighPriorityAlert(ctx, account, tier, daysSincePlacement); err != nil {
				return err
			}
		}
	}

	return nil
}

func (s *AlertService) autoEscalate(ctx context.Context, account *domain.Account, tier riskTier, daysSincePlacement int) error {
	dedupeWindow := time.Duration(s.config.Business.EscalationDedupeDays) * 24 * time.Hour
	since := s.clock.Now().Add(-dedupeWindow)

	existing, err := s.escalationRepo.FindOpenForAccountSince(ctx, account.ID, since)
	if err != nil {
		return customError.WrapDatabaseError(err)
	}
	if existing != nil {
		s.logger.WithFields(logrus.Fields{
			"account_id":    account.ID,
			"escalation_id": existing.ID,
		}).Debug("escalation suppressed: open escalation within dedupe window")
		return nil
	}

	if !account.AssignedOfficerID.Valid {
		s.logger.WithField("account_id", account.ID).
			Warn("escalation blocked: account has no assigned officer")
		return nil
	}

	officer, err := s.userRepo.GetByID(ctx, account.AssignedOfficerID.UUID)
	if err != nil {
		s.logger.WithError(err).WithFields(logrus.Fields{
			"account_id": account.ID,
			"officer_id": account.AssignedOfficerID.UUID,
		}).Warn("escalation blocked: assigned officer lookup failed")
		return nil
	}

	if !officer.RegionID.Valid {
		s.logger.WithFields(logrus.Fields{
			"account_id": account.ID,
			"officer_id": officer.ID,
		}).Warn("escalation blocked: officer has no region")
		return nil
	}

	managers, err := s.userRepo.ListActiveManagersByRegion(ctx, officer.RegionID.UUID)
	if err != nil {
		return customError.WrapDatabaseError(err)
	}
	if len(managers) == 0 {
		s.logger.WithFields(logrus.Fields{
			"account_id": account.ID,
			"officer_id": officer.ID,
			"region_id":  officer.RegionID.UUID,
		}).Warn("escalation blocked: no active manager for region")
		return nil
	}
	manager := managers[0]

	escalation := &domain.Escalation{
		ID:          uuid.New(),
		AccountID:   account.ID,
		EscalatedBy: officer.ID,
		EscalatedTo: manager.ID,
		Reason: fmt.Sprintf("Auto-escalation: %s (%s %s) overdue for %d days",
			tier.reasonLabel, s.config.Business.CurrencyCode,
			utils.FormatAmount(account.CurrentBalance), daysSincePlacement),
		Priority:  tier.escalationPriority,
		Status:    domain.EscalationStatusPending,
		CreatedAt: s.clock.Now(),
	}

	if err := s.escalationRepo.Create(ctx, escalation); err != nil {
		return customError.WrapDatabaseError(err)
	}

	event := &domain.AREvent{
		ID:          uuid.New(),
		AccountID:   account.ID,
		EventType:   domain.EventTypeEscalation,
		Description: fmt.Sprintf("Auto-escalated to manager after %d days", daysSincePlacement),
		CreatedBy:   uuid.NullUUID{UUID: officer.ID, Valid: true},
		CreatedAt:   s.clock.Now(),
	}
	if err := s.eventRepo.Create(ctx, event); err != nil {
		return customError.WrapDatabaseError(err)
	}

	s.logger.WithFields(logrus.Fields{
		"escalation_id": escalation.ID,
		"account_id":    account.ID,
		"manager_id":    manager.ID,
		"tier":          tier.name,
		"days":          daysSincePlacement,
	}).Info("account auto-escalated")

	return nil
}

func (s *AlertService) raiseHighPriorityAlert(ctx context.Context, account *domain.Account, tier riskTier, daysSincePlacement int) error {
	existing, err := s.alertRepo.FindActiveByTypeAndAccount(ctx, domain.AlertTypeHighPriority, account.ID)
	if err != nil {
		return customError.WrapDatabaseError(err)
	}
	if existing != nil {
		return nil
	}

	alert := &domain.Alert{
		ID:        uuid.New(),
		AlertType: domain.AlertTypeHighPriority,
		Title:     fmt.Sprintf("%s - %s", tier.titlePrefix, account.AccountNumber),
		Message: fmt.Sprintf("Account with balance %s %s has been active for %d days without resolution",
			s.config.Business.CurrencyCode, utils.FormatAmount(account.CurrentBalance), daysSincePlacement),
		Priority:   tier.alertPriority,
		AccountID:  uuid.NullUUID{UUID: account.ID, Valid: true},
		ConsumerID: uuid.NullUUID{UUID: account.ConsumerID, Valid: true},
		AssignedTo: account.AssignedOfficerID,
		Status:     domain.AlertStatusActive,
		CreatedAt:  s.clock.Now(),
	}

	if err := s.alertRepo.Create(ctx, alert); err != nil {
		return customError.WrapDatabaseError(err)
	}

	s.logger.WithFields(logrus.Fields{
		"alert_id":   alert.ID,
		"account_id": account.ID,
		"tier":       tier.name,
	}).Info("high priority alert created")

	s.dispatcher.DispatchAlertNotifications(ctx, alert)
	return nil
}

func nullTime(t time.Time) sql.NullTime {
	return sql.NullTime{Time: t, Valid: true}
}
