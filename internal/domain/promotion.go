package domain

import "time"

// PromotionType represents the pricing rule of a discount code.
type PromotionType string

const (
	PromotionTypePercentage  PromotionType = "PERCENTAGE"
	PromotionTypeFixedAmount PromotionType = "FIXED_AMOUNT"
)

// Promotion is a discount code with a validity window. Immutable once
// created except for activation toggling and usage counting.
type Promotion struct {
	ID         string
	Code       string
	Type       PromotionType
	Value      float64
	StartsAt   time.Time
	EndsAt     time.Time
	UsageLimit int // 0 means unlimited
	UsageCount int
	Active     bool
	CreatedBy  string
	CreatedAt  time.Time
}

// ValidAt reports whether the promotion's validity window covers t.
func (p *Promotion) ValidAt(t time.Time) bool {
	return !t.Before(p.StartsAt) && !t.After(p.EndsAt)
}
