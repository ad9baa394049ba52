package request

import (
	"github.com/dukaanlabs/dukaan-api/internal/domain/enum"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// VariantRequest represents one variant of a Variant product
type VariantRequest struct {
	Name  string          `json:"name" binding:"required,min=1,max=255"`
	SKU   string          `json:"sku" binding:"omitempty,max=100"`
	Price decimal.Decimal `json:"price"`
	Cost  decimal.Decimal `json:"cost"`
	Stock int             `json:"stock" binding:"min=0"`
}

// MaterialRequest links a Composite product to a raw material
type MaterialRequest struct {
	RawMaterialID uuid.UUID       `json:"raw_material_id" binding:"required"`
	Quantity      decimal.Decimal `json:"quantity" binding:"required"`
}

// CreateProductRequest represents a product creation request
type CreateProductRequest struct {
	Name        string            `json:"name" binding:"required,min=2,max=255"`
	Code        string            `json:"code" binding:"required,max=100"`
	Type        enum.ProductType  `json:"type"`
	Price       decimal.Decimal   `json:"price"`
	Cost        decimal.Decimal   `json:"cost"`
	Stock       int               `json:"stock" binding:"min=0"`
	IsUnlimited bool              `json:"is_unlimited"`
	Variants    []VariantRequest  `json:"variants"`
	Materials   []MaterialRequest `json:"materials"`
}

// UpdateProductRequest represents a product update request; nil fields are
// left unchanged
type UpdateProductRequest struct {
	Name        *string          `json:"name" binding:"omitempty,min=2,max=255"`
	Code        *string          `json:"code" binding:"omitempty,min=1,max=100"`
	Price       *decimal.Decimal `json:"price"`
	Cost        *decimal.Decimal `json:"cost"`
	IsUnlimited *bool            `json:"is_unlimited"`
}

// ProductFilterRequest represents product filter parameters
type ProductFilterRequest struct {
	Search    string `form:"search"`
	SortBy    string `form:"sort_by"`
	SortOrder string `form:"sort_order"`
	Page      int    `form:"page"`
	PerPage   int    `form:"per_page"`
}

// CreateRawMaterialRequest represents a raw material creation request
type CreateRawMaterialRequest struct {
	Name        string          `json:"name" binding:"required,min=1,max=255"`
	Unit        string          `json:"unit" binding:"omitempty,max=50"`
	Stock       decimal.Decimal `json:"stock"`
	IsUnlimited bool            `json:"is_unlimited"`
}
