package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"busline/internal/domain"
	"busline/internal/repository"
)

// PromotionService validates discount codes and prices their discounts.
type PromotionService struct {
	promoRepo repository.PromotionRepository

	// enforceUsageLimit turns usage-limit checking and guarded counting
	// on. Off by default: codes are counted but never rejected for usage.
	enforceUsageLimit bool
}

// NewPromotionService creates a new PromotionService.
func NewPromotionService(promoRepo repository.PromotionRepository, enforceUsageLimit bool) *PromotionService {
	return &PromotionService{
		promoRepo:         promoRepo,
		enforceUsageLimit: enforceUsageLimit,
	}
}

// Validate resolves a promo code and checks it is usable at the given time.
// Unknown and inactive codes are indistinguishable to the caller.
func (s *PromotionService) Validate(ctx context.Context, code string, asOf time.Time) (*domain.Promotion, error) {
	if code == "" {
		return nil, ErrPromotionNotFound
	}

	promo, err := s.promoRepo.GetByCode(ctx, code)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrPromotionNotFound
		}
		return nil, err
	}

	if !promo.Active {
		return nil, ErrPromotionNotFound
	}

	if !promo.ValidAt(asOf) {
		return nil, ErrPromotionExpired
	}

	if s.enforceUsageLimit && promo.UsageLimit > 0 && promo.UsageCount >= promo.UsageLimit {
		return nil, ErrPromotionUsageExceeded
	}

	return promo, nil
}

// Discount computes the discount a promotion yields on the base amount.
// Never negative, never more than the base amount.
func (s *PromotionService) Discount(promo *domain.Promotion, baseAmount float64) float64 {
	if baseAmount <= 0 || promo.Value <= 0 {
		return 0
	}

	var discount float64
	switch promo.Type {
	case domain.PromotionTypePercentage:
		discount = baseAmount * promo.Value / 100
	case domain.PromotionTypeFixedAmount:
		discount = promo.Value
	default:
		return 0
	}

	if discount > baseAmount {
		return baseAmount
	}
	return discount
}

// RecordUsageIn counts one use of the promotion inside the caller's
// transaction scope. With enforcement on, the guarded increment failing
// means the limit was reached by a concurrent booking.
func (s *PromotionService) RecordUsageIn(ctx context.Context, promos repository.PromotionRepository, promoID string) error {
	err := promos.IncrementUsage(ctx, promoID, s.enforceUsageLimit)
	if err != nil {
		if s.enforceUsageLimit && errors.Is(err, repository.ErrNotFound) {
			return ErrPromotionUsageExceeded
		}
		return err
	}
	return nil
}

// CreatePromotionRequest contains the parameters for creating a promotion.
type CreatePromotionRequest struct {
	Code       string
	Type       domain.PromotionType
	Value      float64
	StartsAt   time.Time
	EndsAt     time.Time
	UsageLimit int
	CreatedBy  string
}

// Create registers a new promotion (administrator operation).
func (s *PromotionService) Create(ctx context.Context, req CreatePromotionRequest) (*domain.Promotion, error) {
	if req.Code == "" {
		return nil, ErrPromotionNotFound
	}

	switch req.Type {
	case domain.PromotionTypePercentage:
		if req.Value <= 0 || req.Value > 100 {
			return nil, ErrInvalidPromotionValue
		}
	case domain.PromotionTypeFixedAmount:
		if req.Value <= 0 {
			return nil, ErrInvalidPromotionValue
		}
	default:
		return nil, ErrInvalidPromotionValue
	}

	if !req.StartsAt.Before(req.EndsAt) {
		return nil, ErrInvalidSchedule
	}

	promo := &domain.Promotion{
		ID:         uuid.New().String(),
		Code:       req.Code,
		Type:       req.Type,
		Value:      req.Value,
		StartsAt:   req.StartsAt,
		EndsAt:     req.EndsAt,
		UsageLimit: req.UsageLimit,
		Active:     true,
		CreatedBy:  req.CreatedBy,
		CreatedAt:  time.Now(),
	}

	if err := s.promoRepo.Create(ctx, promo); err != nil {
		return nil, err
	}

	return promo, nil
}
