package repository

import (
	"context"

	domainRepo "github.com/dukaanlabs/dukaan-api/internal/domain/repository"
	"gorm.io/gorm"
)

// gormStore bundles all repositories over one *gorm.DB handle. InTx rebinds
// the bundle to the transaction handle, so every repository call made inside
// fn runs on the same database transaction.
type gormStore struct {
	db *gorm.DB
}

// NewStore creates the GORM-backed data store
func NewStore(db *gorm.DB) domainRepo.Store {
	return &gormStore{db: db}
}

func (s *gormStore) Sales() domainRepo.SaleRepository                 { return &saleRepository{db: s.db} }
func (s *gormStore) Products() domainRepo.ProductRepository           { return &productRepository{db: s.db} }
func (s *gormStore) RawMaterials() domainRepo.RawMaterialRepository   { return &rawMaterialRepository{db: s.db} }
func (s *gormStore) Stock() domainRepo.StockRepository                { return &stockRepository{db: s.db} }
func (s *gormStore) Taxes() domainRepo.TaxRepository                  { return &taxRepository{db: s.db} }
func (s *gormStore) Coupons() domainRepo.CouponRepository             { return &couponRepository{db: s.db} }
func (s *gormStore) DiscountRules() domainRepo.DiscountRuleRepository { return &discountRuleRepository{db: s.db} }
func (s *gormStore) Refunds() domainRepo.RefundRepository             { return &refundRepository{db: s.db} }

func (s *gormStore) InTx(ctx context.Context, fn func(tx domainRepo.Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormStore{db: tx})
	})
}
