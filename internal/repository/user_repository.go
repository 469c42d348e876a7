package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/dm9/collections-engine/internal/domain"
)

type userRepository struct {
	db *sqlx.DB
}

func NewUserRepository(db *sqlx.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	query := `
		SELECT id, username, email, role, region_id, active, created_at
		FROM users
		WHERE id = $1
	`

	var user domain.User
	err := r.db.GetContext(ctx, &user, query, id)
	if err != nil {
		return nil, err
	}

	return &user, nil
}

func (r *userRepository) ListActiveManagersByRegion(ctx context.Context, regionID uuid.UUID) ([]*domain.User, error) {
	query := `
		SELECT id, username, email, role, region_id, active, created_at
		FROM users
		WHERE role = 'collections_manager' AND region_id = $1 AND active = true
		ORDER BY created_at
	`

	var users []*domain.User
	err := r.db.SelectContext(ctx, &users, query, regionID)
	if err != nil {
		return nil, err
	}

	return users, nil
}

func (r *userRepository) ListActiveAdministrators(ctx context.Context) ([]*domain.User, error) {
	query := `
		SELECT id, username, email, role, region_id, active, created_at
		FROM users
		WHERE role = 'administrator' AND active = true
		ORDER BY created_at
	`

	var users []*domain.User
	err := r.db.SelectContext(ctx, &users, query)
	if err != nil {
		return nil, err
	}

	return users, nil
}
