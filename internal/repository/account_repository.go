package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"github.com/dm9/collections-engine/internal/domain"
)

type accountRepository struct {
	db *sqlx.DB
}

func NewAccountRepository(db *sqlx.DB) AccountRepository {
	return &accountRepository{db: db}
}

func (r *accountRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Account, error) {
	query := `
		SELECT id, consumer_id, account_number, original_balance, current_balance, status, placement_date, assigned_officer_id, created_at
		FROM accounts
		WHERE id = $1
	`

	var account domain.Account
	err := r.db.GetContext(ctx, &account, query, id)
	if err != nil {
		return nil, err
	}

	return &account, nil
}

func (r *accountRepository) ListActiveInTier(ctx context.Context, minBalance decimal.Decimal, maxBalance decimal.NullDecimal, placedBefore time.Time) ([]*domain.Account, error) {
	var accounts []*domain.Account

	if maxBalance.Valid {
		query := `
			SELECT id, consumer_id, account_number, original_balance, current_balance, status, placement_date, assigned_officer_id, created_at
			FROM accounts
			WHERE status = 'active' AND current_balance > $1 AND current_balance <= $2 AND placement_date < $3
			ORDER BY current_balance DESC
		`
		if err := r.db.SelectContext(ctx, &accounts, query, minBalance, maxBalance.Decimal, placedBefore); err != nil {
			return nil, err
		}
		return accounts, nil
	}

	query := `
		SELECT id, consumer_id, account_number, original_balance, current_balance, status, placement_date, assigned_officer_id, created_at
		FROM accounts
		WHERE status = 'active' AND current_balance > $1 AND placement_date < $2
		ORDER BY current_balance DESC
	`
	if err := r.db.SelectContext(ctx, &accounts, query, minBalance, placedBefore); err != nil {
		return nil, err
	}

	return accounts, nil
}

type consumerRepository struct {
	db *sqlx.DB
}

func NewConsumerRepository(db *sqlx.DB) ConsumerRepository {
	return &consumerRepository{db: db}
}

func (r *consumerRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Consumer, error) {
	query := `
		SELECT id, first_name, last_name, email, region_id, created_at
		FROM consumers
		WHERE id = $1
	`

	var consumer domain.Consumer
	err := r.db.GetContext(ctx, &consumer, query, id)
	if err != nil {
		return nil, err
	}

	return &consumer, nil
}
