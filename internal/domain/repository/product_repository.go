package repository

import (
	"context"

	"github.com/dukaanlabs/dukaan-api/internal/domain/entity"
	"github.com/dukaanlabs/dukaan-api/pkg/pagination"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ProductRepository defines the interface for catalog data operations.
// GetByID and GetByIDs always load variants and the bill of materials, since
// every caller (pricing, inventory) needs them to branch on product type.
type ProductRepository interface {
	Create(ctx context.Context, product *entity.Product) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Product, error)
	// GetByIDs retrieves multiple products in a single query (prevents N+1)
	GetByIDs(ctx context.Context, ids []uuid.UUID) ([]entity.Product, error)
	Update(ctx context.Context, product *entity.Product) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, params *ProductFilterParams) ([]entity.Product, int64, error)
}

// ProductFilterParams contains filtering parameters for product queries
type ProductFilterParams struct {
	Pagination *pagination.PaginationParams
	Search     string
	SortBy     string
	SortOrder  string
}

// RawMaterialRepository defines the interface for raw material data operations
type RawMaterialRepository interface {
	Create(ctx context.Context, material *entity.RawMaterial) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.RawMaterial, error)
	List(ctx context.Context, params *pagination.PaginationParams, search string) ([]entity.RawMaterial, int64, error)
	Update(ctx context.Context, material *entity.RawMaterial) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// StockRepository performs atomic stock arithmetic. Every mutation is one
// `UPDATE ... SET stock = stock - ?` statement at the storage layer, never a
// read-modify-write in application code. Positive deltas deduct and are
// guarded against underflow; negative deltas restore unconditionally.
type StockRepository interface {
	AdjustProductStock(ctx context.Context, productID uuid.UUID, delta int) error
	AdjustVariantStock(ctx context.Context, variantID uuid.UUID, delta int) error
	AdjustMaterialStock(ctx context.Context, materialID uuid.UUID, delta decimal.Decimal) error
}
