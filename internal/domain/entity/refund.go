package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Refund is the append-only audit record of a pure return. It is created
// once and never mutated; reporting derives net sale figures from the
// returned quantities on the sale items, not from the sale totals.
type Refund struct {
	ID        uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	TenantID  uuid.UUID       `gorm:"type:uuid;not null;index" json:"tenant_id"`
	SaleID    uuid.UUID       `gorm:"type:uuid;not null;index" json:"sale_id"`
	UserID    uuid.UUID       `gorm:"type:uuid;not null" json:"user_id"`
	Amount    decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"amount"`
	Reason    string          `gorm:"type:text" json:"reason,omitempty"`
	CreatedAt time.Time       `json:"created_at"`

	// Relationships
	Tenant Tenant       `gorm:"foreignKey:TenantID" json:"-"`
	Sale   Sale         `gorm:"foreignKey:SaleID" json:"-"`
	Items  []RefundItem `gorm:"foreignKey:RefundID" json:"items,omitempty"`
}

// BeforeCreate generates a UUID before creating a new refund
func (r *Refund) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Refund model
func (Refund) TableName() string {
	return "refunds"
}

// RefundItem records how many units of one sale line a refund returned and
// the value credited for them.
type RefundItem struct {
	ID         uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	RefundID   uuid.UUID       `gorm:"type:uuid;not null;index" json:"refund_id"`
	SaleItemID uuid.UUID       `gorm:"type:uuid;not null;index" json:"sale_item_id"`
	Quantity   int             `gorm:"not null" json:"quantity"`
	Amount     decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"amount"`
	CreatedAt  time.Time       `json:"created_at"`

	Refund   Refund   `gorm:"foreignKey:RefundID" json:"-"`
	SaleItem SaleItem `gorm:"foreignKey:SaleItemID" json:"-"`
}

// BeforeCreate generates a UUID before creating a new refund item
func (ri *RefundItem) BeforeCreate(tx *gorm.DB) error {
	if ri.ID == uuid.Nil {
		ri.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the RefundItem model
func (RefundItem) TableName() string {
	return "refund_items"
}
