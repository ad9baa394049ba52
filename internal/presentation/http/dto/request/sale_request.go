package request

import (
	"github.com/dukaanlabs/dukaan-api/internal/domain/enum"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DiscountRequest represents a discount supplied with a cart or line
type DiscountRequest struct {
	Type  enum.DiscountType `json:"type"`
	Value decimal.Decimal   `json:"value" binding:"required"`
}

// SaleItemRequest represents one cart line
type SaleItemRequest struct {
	ProductID uuid.UUID        `json:"product_id" binding:"required"`
	VariantID *uuid.UUID       `json:"variant_id"`
	Quantity  int              `json:"quantity" binding:"required,min=1"`
	UnitPrice *decimal.Decimal `json:"unit_price"`
	Discount  *DiscountRequest `json:"discount"`
}

// CreateSaleRequest represents a checkout request
type CreateSaleRequest struct {
	PaymentMethod  string            `json:"payment_method" binding:"omitempty,max=50"`
	CouponCode     string            `json:"coupon_code" binding:"omitempty,max=100"`
	CartDiscount   *DiscountRequest  `json:"cart_discount"`
	DiscountRuleID *uuid.UUID        `json:"discount_rule_id"`
	Items          []SaleItemRequest `json:"items" binding:"required,min=1,dive"`
}

// ReturnItemRequest identifies units coming back on one sale line
type ReturnItemRequest struct {
	SaleItemID uuid.UUID `json:"sale_item_id" binding:"required"`
	Quantity   int       `json:"quantity" binding:"required,min=1"`
}

// ExchangeRequest represents an exchange request against a sale. Returns
// may be empty: an exchange without returns is an upsell whose replacements
// must cover the whole original sale total.
type ExchangeRequest struct {
	// Policy is "CreateNewLinked" (default) or "AppendToExisting"
	Policy        string              `json:"policy" binding:"omitempty"`
	Returns       []ReturnItemRequest `json:"returns" binding:"omitempty,dive"`
	Replacements  []SaleItemRequest   `json:"replacements" binding:"required,min=1,dive"`
	PaymentMethod string              `json:"payment_method" binding:"omitempty,max=50"`
}

// RefundRequest represents a pure return against a sale
type RefundRequest struct {
	Reason string              `json:"reason" binding:"omitempty,max=1000"`
	Items  []ReturnItemRequest `json:"items" binding:"required,min=1,dive"`
}

// SaleFilterRequest represents sale filter parameters
type SaleFilterRequest struct {
	Search    string `form:"search"`
	Type      string `form:"type"`
	StartDate string `form:"start_date"`
	EndDate   string `form:"end_date"`
	Page      int    `form:"page"`
	PerPage   int    `form:"per_page"`
}
