package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"

	"github.com/dm9/collections-engine/internal/domain"
	customError "github.com/dm9/collections-engine/pkg/errors"
)

// Human-facing lifecycle operations: alerts and escalations die through
// acknowledgment and resolution, never through the rule evaluators.

func (s *AlertService) ListAlerts(ctx context.Context, status, priority string) ([]*domain.Alert, error) {
	alerts, err := s.alertRepo.List(ctx, status, priority)
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}
	return alerts, nil
}

func (s *AlertService) AcknowledgeAlert(ctx context.Context, id uuid.UUID) error {
	err := s.alertRepo.Acknowledge(ctx, id, s.clock.Now())
	if errors.Is(err, sql.ErrNoRows) {
		return customError.WrapAlertNotFound(id.String())
	}
	if err != nil {
		return customError.WrapDatabaseError(err)
	}
	return nil
}

func (s *AlertService) ResolveAlert(ctx context.Context, id uuid.UUID) error {
	err := s.alertRepo.Resolve(ctx, id, s.clock.Now())
	if errors.Is(err, sql.ErrNoRows) {
		return customError.WrapAlertNotFound(id.String())
	}
	if err != nil {
		return customError.WrapDatabaseError(err)
	}
	return nil
}

func (s *AlertService) ListEscalations(ctx context.Context, status, priority string) ([]*domain.Escalation, error) {
	escalations, err := s.escalationRepo.List(ctx, status, priority)
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}
	return escalations, nil
}

func (s *AlertService) AcknowledgeEscalation(ctx context.Context, id uuid.UUID) error {
	err := s.escalationRepo.Acknowledge(ctx, id, s.clock.Now())
	if errors.Is(err, sql.ErrNoRows) {
		return customError.WrapEscalationNotFound(id.String())
	}
	if err != nil {
		return customError.WrapDatabaseError(err)
	}
	return nil
}

func (s *AlertService) ResolveEscalation(ctx context.Context, id uuid.UUID, notes string) error {
	err := s.escalationRepo.Resolve(ctx, id, s.clock.Now(), notes)
	if errors.Is(err, sql.ErrNoRows) {
		return customError.WrapEscalationNotFound(id.String())
	}
	if err != nil {
		return customError.WrapDatabaseError(err)
	}
	return nil
}
