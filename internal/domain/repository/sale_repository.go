package repository

import (
	"context"
	"time"

	"github.com/dukaanlabs/dukaan-api/internal/domain/entity"
	"github.com/dukaanlabs/dukaan-api/internal/domain/enum"
	"github.com/dukaanlabs/dukaan-api/pkg/pagination"
	"github.com/google/uuid"
)

// SaleRepository defines the interface for sale data operations. All reads
// and writes are tenant-scoped through the request context.
type SaleRepository interface {
	Create(ctx context.Context, sale *entity.Sale) error
	CreateItems(ctx context.Context, items []entity.SaleItem) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Sale, error)
	// GetWithItems loads the sale and its items together with each item's
	// product, variants and bill of materials, so that the orchestrators
	// can restore stock and resolve replacements without further queries.
	GetWithItems(ctx context.Context, id uuid.UUID) (*entity.Sale, error)
	Update(ctx context.Context, sale *entity.Sale) error
	List(ctx context.Context, params *SaleFilterParams) ([]entity.Sale, int64, error)
	// IncrementItemReturned atomically adds qty to an item's returned
	// quantity, guarded so the result can never exceed the item quantity.
	// Returns false when the guard rejected the update.
	IncrementItemReturned(ctx context.Context, itemID uuid.UUID, qty int) (bool, error)
}

// SaleFilterParams contains filtering parameters for sale queries
type SaleFilterParams struct {
	Pagination *pagination.PaginationParams
	Search     string
	Type       *enum.SaleType
	UserID     *uuid.UUID
	StartDate  *time.Time
	EndDate    *time.Time
}
