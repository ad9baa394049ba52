package entity

import (
	"time"

	"github.com/dukaanlabs/dukaan-api/internal/domain/enum"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Coupon is a redeemable code consulted at checkout. Sales record the code
// and computed value but never mutate the coupon itself.
type Coupon struct {
	ID        uuid.UUID         `gorm:"type:uuid;primary_key" json:"id"`
	TenantID  uuid.UUID         `gorm:"type:uuid;not null;index;uniqueIndex:idx_coupons_tenant_code" json:"tenant_id"`
	Code      string            `gorm:"size:100;not null;uniqueIndex:idx_coupons_tenant_code" json:"code"`
	Type      enum.DiscountType `gorm:"default:0" json:"type"`
	Value     decimal.Decimal   `gorm:"type:numeric(14,2);not null" json:"value"`
	Active    bool              `gorm:"default:true" json:"active"`
	ExpiresAt *time.Time        `json:"expires_at,omitempty"`
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt time.Time         `json:"updated_at"`
	DeletedAt gorm.DeletedAt    `gorm:"index" json:"-"`

	Tenant Tenant `gorm:"foreignKey:TenantID" json:"-"`
}

// BeforeCreate generates a UUID before creating a new coupon
func (c *Coupon) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Coupon model
func (Coupon) TableName() string {
	return "coupons"
}

// IsRedeemable reports whether the coupon can currently be applied.
func (c *Coupon) IsRedeemable(now time.Time) bool {
	if !c.Active {
		return false
	}
	return c.ExpiresAt == nil || now.Before(*c.ExpiresAt)
}

// DiscountRule is a named cart- or line-level discount preset.
type DiscountRule struct {
	ID        uuid.UUID         `gorm:"type:uuid;primary_key" json:"id"`
	TenantID  uuid.UUID         `gorm:"type:uuid;not null;index" json:"tenant_id"`
	Name      string            `gorm:"size:255;not null" json:"name"`
	Type      enum.DiscountType `gorm:"default:0" json:"type"`
	Value     decimal.Decimal   `gorm:"type:numeric(14,2);not null" json:"value"`
	Active    bool              `gorm:"default:true" json:"active"`
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt time.Time         `json:"updated_at"`
	DeletedAt gorm.DeletedAt    `gorm:"index" json:"-"`

	Tenant Tenant `gorm:"foreignKey:TenantID" json:"-"`
}

// BeforeCreate generates a UUID before creating a new discount rule
func (d *DiscountRule) BeforeCreate(tx *gorm.DB) error {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the DiscountRule model
func (DiscountRule) TableName() string {
	return "discount_rules"
}

// TaxSetting is a tenant's tax rate configuration. Exactly one setting per
// tenant should be flagged as the default; sales capture the resolved percent
// and mode so exchanges keep the original regime even if the default changed.
type TaxSetting struct {
	ID        uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	TenantID  uuid.UUID       `gorm:"type:uuid;not null;index" json:"tenant_id"`
	Name      string          `gorm:"size:255;not null" json:"name"`
	Percent   decimal.Decimal `gorm:"type:numeric(6,2);not null" json:"percent"`
	Mode      enum.TaxType    `gorm:"default:0" json:"mode"`
	IsDefault bool            `gorm:"default:false" json:"is_default"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
	DeletedAt gorm.DeletedAt  `gorm:"index" json:"-"`

	Tenant Tenant `gorm:"foreignKey:TenantID" json:"-"`
}

// BeforeCreate generates a UUID before creating a new tax setting
func (t *TaxSetting) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the TaxSetting model
func (TaxSetting) TableName() string {
	return "tax_settings"
}
