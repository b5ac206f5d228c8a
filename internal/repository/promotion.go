package repository

import (
	"context"

	"busline/internal/domain"
)

// PromotionRepository defines the persistence operations for promotions.
type PromotionRepository interface {
	// Create persists a new promotion.
	Create(ctx context.Context, promo *domain.Promotion) error

	// GetByCode retrieves a promotion by its code.
	GetByCode(ctx context.Context, code string) (*domain.Promotion, error)

	// IncrementUsage increments the usage counter. When enforceLimit is
	// true the increment only succeeds while usage_count < usage_limit;
	// otherwise ErrNotFound is returned.
	IncrementUsage(ctx context.Context, id string, enforceLimit bool) error
}
