package entity

import (
	"time"

	"github.com/dukaanlabs/dukaan-api/internal/domain/enum"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Sale is the persisted record of a completed transaction. Its monetary
// fields are written at checkout and afterwards mutated only by the exchange
// orchestrator; refunds never touch them.
type Sale struct {
	ID            uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	TenantID      uuid.UUID       `gorm:"type:uuid;not null;index;uniqueIndex:idx_sales_tenant_order_no" json:"tenant_id"`
	UserID        uuid.UUID       `gorm:"type:uuid;not null;index" json:"user_id"`
	OrderNo       string          `gorm:"size:50;not null;uniqueIndex:idx_sales_tenant_order_no" json:"order_no"`
	Type          enum.SaleType   `gorm:"default:0" json:"type"`
	Subtotal      decimal.Decimal `gorm:"type:numeric(14,2);not null;default:0" json:"subtotal"`
	Discount      decimal.Decimal `gorm:"type:numeric(14,2);not null;default:0" json:"discount"`
	Tax           decimal.Decimal `gorm:"type:numeric(14,2);not null;default:0" json:"tax"`
	TaxPercent    decimal.Decimal `gorm:"type:numeric(6,2);not null;default:0" json:"tax_percent"`
	TaxMode       enum.TaxType    `gorm:"default:0" json:"tax_mode"`
	Total         decimal.Decimal `gorm:"type:numeric(14,2);not null;default:0" json:"total"`
	CouponCode    string          `gorm:"size:100" json:"coupon_code,omitempty"`
	CouponValue   decimal.Decimal `gorm:"type:numeric(14,2);not null;default:0" json:"coupon_value"`
	PaymentMethod string          `gorm:"size:50" json:"payment_method"`
	// ExchangeOfID links an exchange sale back to the sale it replaced
	// goods from (CreateNewLinked policy only).
	ExchangeOfID *uuid.UUID     `gorm:"type:uuid;index" json:"exchange_of_id,omitempty"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	Tenant  Tenant     `gorm:"foreignKey:TenantID" json:"-"`
	Cashier User       `gorm:"foreignKey:UserID" json:"-"`
	Items   []SaleItem `gorm:"foreignKey:SaleID" json:"items,omitempty"`
}

// BeforeCreate generates a UUID before creating a new sale
func (s *Sale) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Sale model
func (Sale) TableName() string {
	return "sales"
}

// Item returns the sale item with the given id, or nil.
func (s *Sale) Item(id uuid.UUID) *SaleItem {
	for i := range s.Items {
		if s.Items[i].ID == id {
			return &s.Items[i]
		}
	}
	return nil
}

// SaleItem is one line of a sale. Quantity and the captured unit economics
// are immutable after checkout; ReturnedQuantity only ever grows, and the
// database enforces 0 <= returned_quantity <= quantity.
type SaleItem struct {
	ID               uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	SaleID           uuid.UUID       `gorm:"type:uuid;not null;index" json:"sale_id"`
	ProductID        uuid.UUID       `gorm:"type:uuid;not null;index" json:"product_id"`
	VariantID        *uuid.UUID      `gorm:"type:uuid;index" json:"variant_id,omitempty"`
	Quantity         int             `gorm:"not null" json:"quantity"`
	ReturnedQuantity int             `gorm:"not null;default:0;check:chk_sale_items_returned,returned_quantity >= 0 AND returned_quantity <= quantity" json:"returned_quantity"`
	UnitPrice        decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"unit_price"`
	Discount         decimal.Decimal `gorm:"type:numeric(14,2);not null;default:0" json:"discount"`
	Tax              decimal.Decimal `gorm:"type:numeric(14,2);not null;default:0" json:"tax"`
	Total            decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"total"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`

	// Relationships
	Sale    Sale            `gorm:"foreignKey:SaleID" json:"-"`
	Product Product         `gorm:"foreignKey:ProductID" json:"product,omitempty"`
	Variant *ProductVariant `gorm:"foreignKey:VariantID" json:"variant,omitempty"`
}

// BeforeCreate generates a UUID before creating a new sale item
func (si *SaleItem) BeforeCreate(tx *gorm.DB) error {
	if si.ID == uuid.Nil {
		si.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the SaleItem model
func (SaleItem) TableName() string {
	return "sale_items"
}

// RemainingQuantity is how many units can still be returned on this line.
func (si *SaleItem) RemainingQuantity() int {
	return si.Quantity - si.ReturnedQuantity
}

// UnitValue is the economic value of one unit at sale time: the captured
// line total (discount and tax already applied) divided by the quantity.
func (si *SaleItem) UnitValue() decimal.Decimal {
	if si.Quantity == 0 {
		return decimal.Zero
	}
	return si.Total.Div(decimal.NewFromInt(int64(si.Quantity)))
}
