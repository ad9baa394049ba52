package repository

import (
	"context"

	"github.com/dukaanlabs/dukaan-api/internal/domain/entity"
	"github.com/google/uuid"
)

// TaxRepository resolves tax settings for the pricing calculator. Lookups
// only; sales never mutate tax settings.
type TaxRepository interface {
	// GetDefault returns the tenant's default tax setting, or nil when the
	// tenant has none configured (zero tax).
	GetDefault(ctx context.Context) (*entity.TaxSetting, error)
}

// CouponRepository resolves coupons by code for checkout.
type CouponRepository interface {
	GetByCode(ctx context.Context, code string) (*entity.Coupon, error)
}

// DiscountRuleRepository resolves discount rule presets.
type DiscountRuleRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*entity.DiscountRule, error)
}

// RefundRepository persists the append-only refund audit trail.
type RefundRepository interface {
	Create(ctx context.Context, refund *entity.Refund) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Refund, error)
	ListBySale(ctx context.Context, saleID uuid.UUID) ([]entity.Refund, error)
}
