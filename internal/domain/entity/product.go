package entity

import (
	"time"

	"github.com/dukaanlabs/dukaan-api/internal/domain/enum"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Product is a sellable item. Its type decides where stock lives: Simple
// products carry their own counter, Variant products delegate to their
// variant rows, Composite products have no stock at all and derive
// availability from their bill of materials.
type Product struct {
	ID          uuid.UUID        `gorm:"type:uuid;primary_key" json:"id"`
	TenantID    uuid.UUID        `gorm:"type:uuid;not null;index;uniqueIndex:idx_products_tenant_code" json:"tenant_id"`
	Name        string           `gorm:"size:255;not null" json:"name"`
	Code        string           `gorm:"size:100;not null;uniqueIndex:idx_products_tenant_code" json:"code"`
	Type        enum.ProductType `gorm:"default:0" json:"type"`
	Price       decimal.Decimal  `gorm:"type:numeric(14,2);not null;default:0" json:"price"`
	Cost        decimal.Decimal  `gorm:"type:numeric(14,2);not null;default:0" json:"cost"`
	Stock       int              `gorm:"default:0" json:"stock"`
	IsUnlimited bool             `gorm:"default:false" json:"is_unlimited"`
	CreatedAt   time.Time        `json:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at"`
	DeletedAt   gorm.DeletedAt   `gorm:"index" json:"-"`

	// Relationships
	Tenant    Tenant            `gorm:"foreignKey:TenantID" json:"-"`
	Variants  []ProductVariant  `gorm:"foreignKey:ProductID" json:"variants,omitempty"`
	Materials []ProductMaterial `gorm:"foreignKey:ProductID" json:"materials,omitempty"`
}

// BeforeCreate generates a UUID before creating a new product
func (p *Product) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Product model
func (Product) TableName() string {
	return "products"
}

// Variant returns the variant with the given id, or nil if the product has
// no such variant loaded.
func (p *Product) Variant(id uuid.UUID) *ProductVariant {
	for i := range p.Variants {
		if p.Variants[i].ID == id {
			return &p.Variants[i]
		}
	}
	return nil
}

// ProductVariant is one attribute combination of a Variant product. It owns
// its own price, cost and stock counter.
type ProductVariant struct {
	ID        uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	ProductID uuid.UUID       `gorm:"type:uuid;not null;index" json:"product_id"`
	Name      string          `gorm:"size:255;not null" json:"name"`
	SKU       string          `gorm:"size:100" json:"sku"`
	Price     decimal.Decimal `gorm:"type:numeric(14,2);not null;default:0" json:"price"`
	Cost      decimal.Decimal `gorm:"type:numeric(14,2);not null;default:0" json:"cost"`
	Stock     int             `gorm:"default:0" json:"stock"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
	DeletedAt gorm.DeletedAt  `gorm:"index" json:"-"`

	Product Product `gorm:"foreignKey:ProductID" json:"-"`
}

// BeforeCreate generates a UUID before creating a new variant
func (v *ProductVariant) BeforeCreate(tx *gorm.DB) error {
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the ProductVariant model
func (ProductVariant) TableName() string {
	return "product_variants"
}

// RawMaterial is a stock counter consumed by Composite products. Stock is
// fractional because materials are measured in physical units (kg, l).
type RawMaterial struct {
	ID          uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	TenantID    uuid.UUID       `gorm:"type:uuid;not null;index" json:"tenant_id"`
	Name        string          `gorm:"size:255;not null" json:"name"`
	Unit        string          `gorm:"size:50" json:"unit"`
	Stock       decimal.Decimal `gorm:"type:numeric(14,3);not null;default:0" json:"stock"`
	IsUnlimited bool            `gorm:"default:false" json:"is_unlimited"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
	DeletedAt   gorm.DeletedAt  `gorm:"index" json:"-"`

	Tenant Tenant `gorm:"foreignKey:TenantID" json:"-"`
}

// BeforeCreate generates a UUID before creating a new raw material
func (m *RawMaterial) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the RawMaterial model
func (RawMaterial) TableName() string {
	return "raw_materials"
}

// ProductMaterial links a Composite product to one of its raw materials and
// records how much of the material one unit of the product consumes.
type ProductMaterial struct {
	ID            uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	ProductID     uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_product_material" json:"product_id"`
	RawMaterialID uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_product_material" json:"raw_material_id"`
	Quantity      decimal.Decimal `gorm:"type:numeric(14,3);not null" json:"quantity"`
	CreatedAt     time.Time       `json:"created_at"`

	Product     Product     `gorm:"foreignKey:ProductID" json:"-"`
	RawMaterial RawMaterial `gorm:"foreignKey:RawMaterialID" json:"raw_material,omitempty"`
}

// BeforeCreate generates a UUID before creating a new BOM link
func (pm *ProductMaterial) BeforeCreate(tx *gorm.DB) error {
	if pm.ID == uuid.Nil {
		pm.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the ProductMaterial model
func (ProductMaterial) TableName() string {
	return "product_materials"
}
