package repository

import (
	"context"
	"errors"

	"github.com/dukaanlabs/dukaan-api/internal/domain/entity"
	domainRepo "github.com/dukaanlabs/dukaan-api/internal/domain/repository"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type taxRepository struct {
	db *gorm.DB
}

// NewTaxRepository creates a new tax settings repository
func NewTaxRepository(db *gorm.DB) domainRepo.TaxRepository {
	return &taxRepository{db: db}
}

func (r *taxRepository) GetDefault(ctx context.Context) (*entity.TaxSetting, error) {
	var setting entity.TaxSetting
	err := r.db.WithContext(ctx).
		Scopes(TenantScope(ctx)).
		First(&setting, "is_default = ?", true).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &setting, err
}

type couponRepository struct {
	db *gorm.DB
}

// NewCouponRepository creates a new coupon repository
func NewCouponRepository(db *gorm.DB) domainRepo.CouponRepository {
	return &couponRepository{db: db}
}

func (r *couponRepository) GetByCode(ctx context.Context, code string) (*entity.Coupon, error) {
	var coupon entity.Coupon
	err := r.db.WithContext(ctx).
		Scopes(TenantScope(ctx)).
		First(&coupon, "code = ?", code).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &coupon, err
}

type discountRuleRepository struct {
	db *gorm.DB
}

// NewDiscountRuleRepository creates a new discount rule repository
func NewDiscountRuleRepository(db *gorm.DB) domainRepo.DiscountRuleRepository {
	return &discountRuleRepository{db: db}
}

func (r *discountRuleRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.DiscountRule, error) {
	var rule entity.DiscountRule
	err := r.db.WithContext(ctx).
		Scopes(TenantScope(ctx)).
		First(&rule, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &rule, err
}

type refundRepository struct {
	db *gorm.DB
}

// NewRefundRepository creates a new refund repository
func NewRefundRepository(db *gorm.DB) domainRepo.RefundRepository {
	return &refundRepository{db: db}
}

func (r *refundRepository) Create(ctx context.Context, refund *entity.Refund) error {
	return r.db.WithContext(ctx).Create(refund).Error
}

func (r *refundRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Refund, error) {
	var refund entity.Refund
	err := r.db.WithContext(ctx).
		Scopes(TenantScope(ctx)).
		Preload("Items").
		First(&refund, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &refund, err
}

func (r *refundRepository) ListBySale(ctx context.Context, saleID uuid.UUID) ([]entity.Refund, error) {
	var refunds []entity.Refund
	err := r.db.WithContext(ctx).
		Scopes(TenantScope(ctx)).
		Preload("Items").
		Where("sale_id = ?", saleID).
		Order("created_at ASC").
		Find(&refunds).Error
	return refunds, err
}
