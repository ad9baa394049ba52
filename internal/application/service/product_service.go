package service

import (
	"context"

	"github.com/dukaanlabs/dukaan-api/internal/application/inventory"
	"github.com/dukaanlabs/dukaan-api/internal/domain/entity"
	"github.com/dukaanlabs/dukaan-api/internal/domain/enum"
	"github.com/dukaanlabs/dukaan-api/internal/domain/repository"
	infraRepo "github.com/dukaanlabs/dukaan-api/internal/infrastructure/repository"
	"github.com/dukaanlabs/dukaan-api/pkg/apperror"
	"github.com/dukaanlabs/dukaan-api/pkg/pagination"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ProductService handles catalog operations
type ProductService struct {
	store repository.Store
}

// NewProductService creates a new product service
func NewProductService(store repository.Store) *ProductService {
	return &ProductService{store: store}
}

// VariantInput represents one variant of a Variant product
type VariantInput struct {
	Name  string
	SKU   string
	Price decimal.Decimal
	Cost  decimal.Decimal
	Stock int
}

// MaterialInput links a Composite product to a raw material
type MaterialInput struct {
	RawMaterialID uuid.UUID
	Quantity      decimal.Decimal
}

// CreateProductInput represents the create product input
type CreateProductInput struct {
	Name        string
	Code        string
	Type        enum.ProductType
	Price       decimal.Decimal
	Cost        decimal.Decimal
	Stock       int
	IsUnlimited bool
	Variants    []VariantInput
	Materials   []MaterialInput
}

// CreateProduct creates a product with its variants or bill of materials,
// validating that the structure matches the product type.
func (s *ProductService) CreateProduct(ctx context.Context, input *CreateProductInput) (*entity.Product, error) {
	tenantID, ok := infraRepo.GetTenantID(ctx)
	if !ok {
		return nil, apperror.NewBadRequestError("Tenant context required")
	}

	if err := validateProductShape(input.Type, len(input.Variants), len(input.Materials)); err != nil {
		return nil, err
	}

	product := &entity.Product{
		TenantID:    tenantID,
		Name:        input.Name,
		Code:        input.Code,
		Type:        input.Type,
		Price:       input.Price,
		Cost:        input.Cost,
		Stock:       input.Stock,
		IsUnlimited: input.IsUnlimited,
	}

	err := s.store.InTx(ctx, func(tx repository.Store) error {
		// Composite products must reference materials that exist in this
		// tenant's catalog
		for _, m := range input.Materials {
			material, err := tx.RawMaterials().GetByID(ctx, m.RawMaterialID)
			if err != nil {
				return err
			}
			if material == nil {
				return apperror.NewNotFoundError("Raw material")
			}
			if !m.Quantity.IsPositive() {
				return apperror.NewBadRequestError("Material quantity must be positive")
			}
			product.Materials = append(product.Materials, entity.ProductMaterial{
				RawMaterialID: m.RawMaterialID,
				Quantity:      m.Quantity,
			})
		}
		for _, v := range input.Variants {
			product.Variants = append(product.Variants, entity.ProductVariant{
				Name:  v.Name,
				SKU:   v.SKU,
				Price: v.Price,
				Cost:  v.Cost,
				Stock: v.Stock,
			})
		}
		return tx.Products().Create(ctx, product)
	})
	if err != nil {
		return nil, err
	}
	return product, nil
}

// UpdateProductInput represents the update product input; nil fields are
// left unchanged. The product type itself is immutable.
type UpdateProductInput struct {
	Name        *string
	Code        *string
	Price       *decimal.Decimal
	Cost        *decimal.Decimal
	IsUnlimited *bool
}

// UpdateProduct applies a partial update to a product
func (s *ProductService) UpdateProduct(ctx context.Context, id uuid.UUID, input *UpdateProductInput) (*entity.Product, error) {
	product, err := s.store.Products().GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, apperror.NewNotFoundError("Product")
	}

	if input.Name != nil {
		product.Name = *input.Name
	}
	if input.Code != nil {
		product.Code = *input.Code
	}
	if input.Price != nil {
		product.Price = *input.Price
	}
	if input.Cost != nil {
		product.Cost = *input.Cost
	}
	if input.IsUnlimited != nil {
		product.IsUnlimited = *input.IsUnlimited
	}

	if err := s.store.Products().Update(ctx, product); err != nil {
		return nil, err
	}
	return product, nil
}

// GetProduct returns a product with its variants and bill of materials
func (s *ProductService) GetProduct(ctx context.Context, id uuid.UUID) (*entity.Product, error) {
	product, err := s.store.Products().GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, apperror.NewNotFoundError("Product")
	}
	return product, nil
}

// DeleteProduct soft-deletes a product
func (s *ProductService) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	product, err := s.store.Products().GetByID(ctx, id)
	if err != nil {
		return err
	}
	if product == nil {
		return apperror.NewNotFoundError("Product")
	}
	return s.store.Products().Delete(ctx, id)
}

// ListProducts returns a page of products matching the filter
func (s *ProductService) ListProducts(ctx context.Context, params *repository.ProductFilterParams) ([]entity.Product, int64, error) {
	if params.Pagination == nil {
		params.Pagination = pagination.DefaultPagination()
	}
	return s.store.Products().List(ctx, params)
}

// Availability reports how many units of a product (or one of its
// variants) can currently be sold.
func (s *ProductService) Availability(ctx context.Context, id uuid.UUID, variantID *uuid.UUID) (inventory.Availability, error) {
	product, err := s.store.Products().GetByID(ctx, id)
	if err != nil {
		return inventory.Availability{}, err
	}
	if product == nil {
		return inventory.Availability{}, apperror.NewNotFoundError("Product")
	}
	handle, err := inventory.ForProduct(s.store.Stock(), product, variantID)
	if err != nil {
		return inventory.Availability{}, err
	}
	return handle.MaxSellable(), nil
}

// CreateRawMaterialInput represents the create raw material input
type CreateRawMaterialInput struct {
	Name        string
	Unit        string
	Stock       decimal.Decimal
	IsUnlimited bool
}

// CreateRawMaterial creates a raw material in the tenant's catalog
func (s *ProductService) CreateRawMaterial(ctx context.Context, input *CreateRawMaterialInput) (*entity.RawMaterial, error) {
	tenantID, ok := infraRepo.GetTenantID(ctx)
	if !ok {
		return nil, apperror.NewBadRequestError("Tenant context required")
	}

	material := &entity.RawMaterial{
		TenantID:    tenantID,
		Name:        input.Name,
		Unit:        input.Unit,
		Stock:       input.Stock,
		IsUnlimited: input.IsUnlimited,
	}
	if err := s.store.RawMaterials().Create(ctx, material); err != nil {
		return nil, err
	}
	return material, nil
}

// ListRawMaterials returns a page of raw materials
func (s *ProductService) ListRawMaterials(ctx context.Context, params *pagination.PaginationParams, search string) ([]entity.RawMaterial, int64, error) {
	if params == nil {
		params = pagination.DefaultPagination()
	}
	return s.store.RawMaterials().List(ctx, params, search)
}

// validateProductShape rejects structures that contradict the product type:
// only Variant products carry variants, only Composite products carry a
// bill of materials, and neither may be empty for those types.
func validateProductShape(t enum.ProductType, variants, materials int) error {
	switch t {
	case enum.ProductTypeVariant:
		if variants == 0 {
			return apperror.NewBadRequestError("Variant product requires at least one variant")
		}
		if materials > 0 {
			return apperror.NewBadRequestError("Variant product cannot have materials")
		}
	case enum.ProductTypeComposite:
		if materials == 0 {
			return apperror.NewBadRequestError("Composite product requires at least one material")
		}
		if variants > 0 {
			return apperror.NewBadRequestError("Composite product cannot have variants")
		}
	default:
		if variants > 0 || materials > 0 {
			return apperror.NewBadRequestError("Simple product cannot have variants or materials")
		}
	}
	return nil
}
