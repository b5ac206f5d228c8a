package postgres

import (
	"context"
	"database/sql"
	"errors"

	"busline/internal/domain"
	"busline/internal/repository"
)

// PromotionRepository is a PostgreSQL implementation of repository.PromotionRepository.
type PromotionRepository struct {
	q Querier
}

// NewPromotionRepository creates a new PostgreSQL promotion repository.
func NewPromotionRepository(db *sql.DB) *PromotionRepository {
	return &PromotionRepository{q: db}
}

// NewPromotionRepositoryWithTx creates a promotion repository using a transaction.
func NewPromotionRepositoryWithTx(tx *sql.Tx) *PromotionRepository {
	return &PromotionRepository{q: tx}
}

// Create persists a new promotion.
func (r *PromotionRepository) Create(ctx context.Context, promo *domain.Promotion) error {
	query := `
		INSERT INTO promotions (id, code, type, value, starts_at, ends_at, usage_limit, usage_count, active, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	var usageLimit sql.NullInt64
	if promo.UsageLimit > 0 {
		usageLimit = sql.NullInt64{Int64: int64(promo.UsageLimit), Valid: true}
	}

	_, err := r.q.ExecContext(ctx, query,
		promo.ID,
		promo.Code,
		promo.Type,
		promo.Value,
		promo.StartsAt,
		promo.EndsAt,
		usageLimit,
		promo.UsageCount,
		promo.Active,
		promo.CreatedBy,
		promo.CreatedAt,
	)

	return err
}

// GetByCode retrieves a promotion by its code.
func (r *PromotionRepository) GetByCode(ctx context.Context, code string) (*domain.Promotion, error) {
	query := `
		SELECT id, code, type, value, starts_at, ends_at, usage_limit, usage_count, active, created_by, created_at
		FROM promotions WHERE code = $1
	`

	var promo domain.Promotion
	var usageLimit sql.NullInt64
	err := r.q.QueryRowContext(ctx, query, code).Scan(
		&promo.ID,
		&promo.Code,
		&promo.Type,
		&promo.Value,
		&promo.StartsAt,
		&promo.EndsAt,
		&usageLimit,
		&promo.UsageCount,
		&promo.Active,
		&promo.CreatedBy,
		&promo.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}

	if usageLimit.Valid {
		promo.UsageLimit = int(usageLimit.Int64)
	}

	return &promo, nil
}

// IncrementUsage increments the usage counter. With enforceLimit the
// increment is guarded so it can never push usage_count past usage_limit.
func (r *PromotionRepository) IncrementUsage(ctx context.Context, id string, enforceLimit bool) error {
	query := `UPDATE promotions SET usage_count = usage_count + 1 WHERE id = $1`
	if enforceLimit {
		query += ` AND (usage_limit IS NULL OR usage_count < usage_limit)`
	}

	result, err := r.q.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return repository.ErrNotFound
	}

	return nil
}
