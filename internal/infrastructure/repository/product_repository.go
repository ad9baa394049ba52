package repository

import (
	"context"
	"errors"

	"github.com/dukaanlabs/dukaan-api/internal/domain/entity"
	domainRepo "github.com/dukaanlabs/dukaan-api/internal/domain/repository"
	"github.com/dukaanlabs/dukaan-api/pkg/apperror"
	"github.com/dukaanlabs/dukaan-api/pkg/pagination"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type productRepository struct {
	db *gorm.DB
}

// NewProductRepository creates a new product repository
func NewProductRepository(db *gorm.DB) domainRepo.ProductRepository {
	return &productRepository{db: db}
}

func (r *productRepository) Create(ctx context.Context, product *entity.Product) error {
	return r.db.WithContext(ctx).Create(product).Error
}

func (r *productRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Product, error) {
	var product entity.Product
	err := r.db.WithContext(ctx).
		Scopes(TenantScope(ctx)).
		Preload("Variants").
		Preload("Materials").Preload("Materials.RawMaterial").
		First(&product, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &product, err
}

// GetByIDs retrieves multiple products with variants and BOM in one query
func (r *productRepository) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]entity.Product, error) {
	if len(ids) == 0 {
		return []entity.Product{}, nil
	}
	var products []entity.Product
	err := r.db.WithContext(ctx).
		Scopes(TenantScope(ctx)).
		Preload("Variants").
		Preload("Materials").Preload("Materials.RawMaterial").
		Where("id IN ?", ids).
		Find(&products).Error
	return products, err
}

func (r *productRepository) Update(ctx context.Context, product *entity.Product) error {
	return r.db.WithContext(ctx).Save(product).Error
}

func (r *productRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).
		Scopes(TenantScope(ctx)).
		Delete(&entity.Product{}, "id = ?", id).Error
}

func (r *productRepository) List(ctx context.Context, params *domainRepo.ProductFilterParams) ([]entity.Product, int64, error) {
	var products []entity.Product
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.Product{}).Scopes(TenantScope(ctx))

	if params.Search != "" {
		query = query.Where("name ILIKE ? OR code ILIKE ?",
			"%"+params.Search+"%", "%"+params.Search+"%")
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	// Sorting
	sortBy := "created_at"
	sortOrder := "DESC"
	if params.SortBy != "" {
		sortBy = params.SortBy
	}
	if params.SortOrder == "ASC" || params.SortOrder == "asc" {
		sortOrder = "ASC"
	}

	params.Pagination.Validate()
	err := query.Offset(params.Pagination.Offset()).Limit(params.Pagination.PerPage).
		Preload("Variants").
		Preload("Materials").Preload("Materials.RawMaterial").
		Order(sortBy + " " + sortOrder).
		Find(&products).Error

	return products, total, err
}

type rawMaterialRepository struct {
	db *gorm.DB
}

// NewRawMaterialRepository creates a new raw material repository
func NewRawMaterialRepository(db *gorm.DB) domainRepo.RawMaterialRepository {
	return &rawMaterialRepository{db: db}
}

func (r *rawMaterialRepository) Create(ctx context.Context, material *entity.RawMaterial) error {
	return r.db.WithContext(ctx).Create(material).Error
}

func (r *rawMaterialRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.RawMaterial, error) {
	var material entity.RawMaterial
	err := r.db.WithContext(ctx).
		Scopes(TenantScope(ctx)).
		First(&material, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &material, err
}

func (r *rawMaterialRepository) List(ctx context.Context, params *pagination.PaginationParams, search string) ([]entity.RawMaterial, int64, error) {
	var materials []entity.RawMaterial
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.RawMaterial{}).Scopes(TenantScope(ctx))

	if search != "" {
		query = query.Where("name ILIKE ?", "%"+search+"%")
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	params.Validate()
	err := query.Offset(params.Offset()).Limit(params.PerPage).
		Order("name ASC").
		Find(&materials).Error

	return materials, total, err
}

func (r *rawMaterialRepository) Update(ctx context.Context, material *entity.RawMaterial) error {
	return r.db.WithContext(ctx).Save(material).Error
}

func (r *rawMaterialRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).
		Scopes(TenantScope(ctx)).
		Delete(&entity.RawMaterial{}, "id = ?", id).Error
}

// stockRepository performs all stock arithmetic as single UPDATE statements.
// Deducts (positive delta) carry a `stock >= delta` guard in the WHERE
// clause; zero rows affected means insufficient stock. Restores (negative
// delta) are unconditional.
type stockRepository struct {
	db *gorm.DB
}

// NewStockRepository creates a new stock repository
func NewStockRepository(db *gorm.DB) domainRepo.StockRepository {
	return &stockRepository{db: db}
}

func (r *stockRepository) AdjustProductStock(ctx context.Context, productID uuid.UUID, delta int) error {
	query := r.db.WithContext(ctx).Model(&entity.Product{}).
		Where("id = ?", productID)
	if delta > 0 {
		query = query.Where("stock >= ?", delta)
	}
	result := query.Update("stock", gorm.Expr("stock - ?", delta))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return apperror.ErrInsufficientStock
	}
	return nil
}

func (r *stockRepository) AdjustVariantStock(ctx context.Context, variantID uuid.UUID, delta int) error {
	query := r.db.WithContext(ctx).Model(&entity.ProductVariant{}).
		Where("id = ?", variantID)
	if delta > 0 {
		query = query.Where("stock >= ?", delta)
	}
	result := query.Update("stock", gorm.Expr("stock - ?", delta))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return apperror.ErrInsufficientStock
	}
	return nil
}

func (r *stockRepository) AdjustMaterialStock(ctx context.Context, materialID uuid.UUID, delta decimal.Decimal) error {
	query := r.db.WithContext(ctx).Model(&entity.RawMaterial{}).
		Where("id = ?", materialID)
	if delta.IsPositive() {
		query = query.Where("stock >= ?", delta)
	}
	result := query.Update("stock", gorm.Expr("stock - ?", delta))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return apperror.ErrInsufficientStock
	}
	return nil
}
