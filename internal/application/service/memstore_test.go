package service

import (
	"context"
	"sort"
	"time"

	"github.com/dukaanlabs/dukaan-api/internal/domain/entity"
	"github.com/dukaanlabs/dukaan-api/internal/domain/repository"
	infraRepo "github.com/dukaanlabs/dukaan-api/internal/infrastructure/repository"
	"github.com/dukaanlabs/dukaan-api/pkg/apperror"
	"github.com/dukaanlabs/dukaan-api/pkg/pagination"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// memStore is an in-memory Store used by the service tests. It honors the
// same contracts as the database-backed store: tenant scoping from the
// context, guarded atomic stock arithmetic, duplicate order numbers per
// tenant, and full rollback of everything mutated inside a failed InTx.
type memStore struct {
	sales     map[uuid.UUID]entity.Sale
	products  map[uuid.UUID]entity.Product
	materials map[uuid.UUID]entity.RawMaterial
	taxes     map[uuid.UUID]entity.TaxSetting
	coupons   map[uuid.UUID]entity.Coupon
	rules     map[uuid.UUID]entity.DiscountRule
	refunds   map[uuid.UUID]entity.Refund
}

func newMemStore() *memStore {
	return &memStore{
		sales:     make(map[uuid.UUID]entity.Sale),
		products:  make(map[uuid.UUID]entity.Product),
		materials: make(map[uuid.UUID]entity.RawMaterial),
		taxes:     make(map[uuid.UUID]entity.TaxSetting),
		coupons:   make(map[uuid.UUID]entity.Coupon),
		rules:     make(map[uuid.UUID]entity.DiscountRule),
		refunds:   make(map[uuid.UUID]entity.Refund),
	}
}

func (m *memStore) Sales() repository.SaleRepository                 { return &memSales{m} }
func (m *memStore) Products() repository.ProductRepository           { return &memProducts{m} }
func (m *memStore) RawMaterials() repository.RawMaterialRepository   { return &memMaterials{m} }
func (m *memStore) Stock() repository.StockRepository                { return &memStock{m} }
func (m *memStore) Taxes() repository.TaxRepository                  { return &memTaxes{m} }
func (m *memStore) Coupons() repository.CouponRepository             { return &memCoupons{m} }
func (m *memStore) DiscountRules() repository.DiscountRuleRepository { return &memRules{m} }
func (m *memStore) Refunds() repository.RefundRepository             { return &memRefunds{m} }

func (m *memStore) InTx(ctx context.Context, fn func(tx repository.Store) error) error {
	snapshot := m.clone()
	if err := fn(m); err != nil {
		*m = *snapshot
		return err
	}
	return nil
}

func (m *memStore) clone() *memStore {
	c := newMemStore()
	for id, s := range m.sales {
		s.Items = append([]entity.SaleItem(nil), s.Items...)
		c.sales[id] = s
	}
	for id, p := range m.products {
		p.Variants = append([]entity.ProductVariant(nil), p.Variants...)
		p.Materials = append([]entity.ProductMaterial(nil), p.Materials...)
		c.products[id] = p
	}
	for id, mat := range m.materials {
		c.materials[id] = mat
	}
	for id, t := range m.taxes {
		c.taxes[id] = t
	}
	for id, cp := range m.coupons {
		c.coupons[id] = cp
	}
	for id, r := range m.rules {
		c.rules[id] = r
	}
	for id, r := range m.refunds {
		r.Items = append([]entity.RefundItem(nil), r.Items...)
		c.refunds[id] = r
	}
	return c
}

func sameTenant(ctx context.Context, tenantID uuid.UUID) bool {
	id, ok := infraRepo.GetTenantID(ctx)
	return ok && id == tenantID
}

// hydrate returns a copy of the product with its materials' raw material
// snapshots refreshed from the current stock counters.
func (m *memStore) hydrate(p entity.Product) entity.Product {
	p.Variants = append([]entity.ProductVariant(nil), p.Variants...)
	p.Materials = append([]entity.ProductMaterial(nil), p.Materials...)
	for i := range p.Materials {
		p.Materials[i].RawMaterial = m.materials[p.Materials[i].RawMaterialID]
	}
	return p
}

type memSales struct{ m *memStore }

func (r *memSales) Create(ctx context.Context, sale *entity.Sale) error {
	for _, existing := range r.m.sales {
		if existing.TenantID == sale.TenantID && existing.OrderNo == sale.OrderNo {
			return gorm.ErrDuplicatedKey
		}
	}
	if sale.ID == uuid.Nil {
		sale.ID = uuid.New()
	}
	sale.CreatedAt = time.Now()
	stored := *sale
	stored.Items = nil
	r.m.sales[sale.ID] = stored
	return nil
}

func (r *memSales) CreateItems(ctx context.Context, items []entity.SaleItem) error {
	for i := range items {
		if items[i].ID == uuid.Nil {
			items[i].ID = uuid.New()
		}
		sale, ok := r.m.sales[items[i].SaleID]
		if !ok {
			return gorm.ErrForeignKeyViolated
		}
		item := items[i]
		item.Product = entity.Product{}
		sale.Items = append(sale.Items, item)
		r.m.sales[items[i].SaleID] = sale
	}
	return nil
}

func (r *memSales) GetByID(ctx context.Context, id uuid.UUID) (*entity.Sale, error) {
	sale, ok := r.m.sales[id]
	if !ok || !sameTenant(ctx, sale.TenantID) {
		return nil, nil
	}
	sale.Items = append([]entity.SaleItem(nil), sale.Items...)
	return &sale, nil
}

func (r *memSales) GetWithItems(ctx context.Context, id uuid.UUID) (*entity.Sale, error) {
	sale, err := r.GetByID(ctx, id)
	if sale == nil || err != nil {
		return nil, err
	}
	for i := range sale.Items {
		sale.Items[i].Product = r.m.hydrate(r.m.products[sale.Items[i].ProductID])
	}
	return sale, nil
}

func (r *memSales) Update(ctx context.Context, sale *entity.Sale) error {
	stored := *sale
	stored.Items = append([]entity.SaleItem(nil), sale.Items...)
	for i := range stored.Items {
		stored.Items[i].Product = entity.Product{}
	}
	r.m.sales[sale.ID] = stored
	return nil
}

func (r *memSales) List(ctx context.Context, params *repository.SaleFilterParams) ([]entity.Sale, int64, error) {
	var out []entity.Sale
	for _, s := range r.m.sales {
		if !sameTenant(ctx, s.TenantID) {
			continue
		}
		if params.Type != nil && s.Type != *params.Type {
			continue
		}
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, int64(len(out)), nil
}

func (r *memSales) IncrementItemReturned(ctx context.Context, itemID uuid.UUID, qty int) (bool, error) {
	for saleID, sale := range r.m.sales {
		for i := range sale.Items {
			if sale.Items[i].ID != itemID {
				continue
			}
			if sale.Items[i].ReturnedQuantity+qty > sale.Items[i].Quantity {
				return false, nil
			}
			sale.Items[i].ReturnedQuantity += qty
			r.m.sales[saleID] = sale
			return true, nil
		}
	}
	return false, nil
}

type memProducts struct{ m *memStore }

func (r *memProducts) Create(ctx context.Context, product *entity.Product) error {
	if product.ID == uuid.Nil {
		product.ID = uuid.New()
	}
	for i := range product.Variants {
		if product.Variants[i].ID == uuid.Nil {
			product.Variants[i].ID = uuid.New()
		}
		product.Variants[i].ProductID = product.ID
	}
	for i := range product.Materials {
		if product.Materials[i].ID == uuid.Nil {
			product.Materials[i].ID = uuid.New()
		}
		product.Materials[i].ProductID = product.ID
	}
	r.m.products[product.ID] = *product
	return nil
}

func (r *memProducts) GetByID(ctx context.Context, id uuid.UUID) (*entity.Product, error) {
	p, ok := r.m.products[id]
	if !ok || !sameTenant(ctx, p.TenantID) {
		return nil, nil
	}
	p = r.m.hydrate(p)
	return &p, nil
}

func (r *memProducts) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]entity.Product, error) {
	var out []entity.Product
	for _, id := range ids {
		if p, ok := r.m.products[id]; ok && sameTenant(ctx, p.TenantID) {
			out = append(out, r.m.hydrate(p))
		}
	}
	return out, nil
}

func (r *memProducts) Update(ctx context.Context, product *entity.Product) error {
	r.m.products[product.ID] = *product
	return nil
}

func (r *memProducts) Delete(ctx context.Context, id uuid.UUID) error {
	delete(r.m.products, id)
	return nil
}

func (r *memProducts) List(ctx context.Context, params *repository.ProductFilterParams) ([]entity.Product, int64, error) {
	var out []entity.Product
	for _, p := range r.m.products {
		if sameTenant(ctx, p.TenantID) {
			out = append(out, r.m.hydrate(p))
		}
	}
	return out, int64(len(out)), nil
}

type memMaterials struct{ m *memStore }

func (r *memMaterials) Create(ctx context.Context, material *entity.RawMaterial) error {
	if material.ID == uuid.Nil {
		material.ID = uuid.New()
	}
	r.m.materials[material.ID] = *material
	return nil
}

func (r *memMaterials) GetByID(ctx context.Context, id uuid.UUID) (*entity.RawMaterial, error) {
	mat, ok := r.m.materials[id]
	if !ok || !sameTenant(ctx, mat.TenantID) {
		return nil, nil
	}
	return &mat, nil
}

func (r *memMaterials) List(ctx context.Context, params *pagination.PaginationParams, search string) ([]entity.RawMaterial, int64, error) {
	var out []entity.RawMaterial
	for _, mat := range r.m.materials {
		if sameTenant(ctx, mat.TenantID) {
			out = append(out, mat)
		}
	}
	return out, int64(len(out)), nil
}

func (r *memMaterials) Update(ctx context.Context, material *entity.RawMaterial) error {
	r.m.materials[material.ID] = *material
	return nil
}

func (r *memMaterials) Delete(ctx context.Context, id uuid.UUID) error {
	delete(r.m.materials, id)
	return nil
}

type memStock struct{ m *memStore }

func (r *memStock) AdjustProductStock(ctx context.Context, productID uuid.UUID, delta int) error {
	p, ok := r.m.products[productID]
	if !ok {
		return apperror.ErrInsufficientStock
	}
	if delta > 0 && p.Stock < delta {
		return apperror.ErrInsufficientStock
	}
	p.Stock -= delta
	r.m.products[productID] = p
	return nil
}

func (r *memStock) AdjustVariantStock(ctx context.Context, variantID uuid.UUID, delta int) error {
	for id, p := range r.m.products {
		for i := range p.Variants {
			if p.Variants[i].ID != variantID {
				continue
			}
			if delta > 0 && p.Variants[i].Stock < delta {
				return apperror.ErrInsufficientStock
			}
			p.Variants[i].Stock -= delta
			r.m.products[id] = p
			return nil
		}
	}
	return apperror.ErrInsufficientStock
}

func (r *memStock) AdjustMaterialStock(ctx context.Context, materialID uuid.UUID, delta decimal.Decimal) error {
	mat, ok := r.m.materials[materialID]
	if !ok {
		return apperror.ErrInsufficientStock
	}
	if delta.IsPositive() && mat.Stock.LessThan(delta) {
		return apperror.ErrInsufficientStock
	}
	mat.Stock = mat.Stock.Sub(delta)
	r.m.materials[materialID] = mat
	return nil
}

type memTaxes struct{ m *memStore }

func (r *memTaxes) GetDefault(ctx context.Context) (*entity.TaxSetting, error) {
	for _, t := range r.m.taxes {
		if sameTenant(ctx, t.TenantID) && t.IsDefault {
			return &t, nil
		}
	}
	return nil, nil
}

type memCoupons struct{ m *memStore }

func (r *memCoupons) GetByCode(ctx context.Context, code string) (*entity.Coupon, error) {
	for _, c := range r.m.coupons {
		if sameTenant(ctx, c.TenantID) && c.Code == code {
			return &c, nil
		}
	}
	return nil, nil
}

type memRules struct{ m *memStore }

func (r *memRules) GetByID(ctx context.Context, id uuid.UUID) (*entity.DiscountRule, error) {
	rule, ok := r.m.rules[id]
	if !ok || !sameTenant(ctx, rule.TenantID) {
		return nil, nil
	}
	return &rule, nil
}

type memRefunds struct{ m *memStore }

func (r *memRefunds) Create(ctx context.Context, refund *entity.Refund) error {
	if refund.ID == uuid.Nil {
		refund.ID = uuid.New()
	}
	refund.CreatedAt = time.Now()
	for i := range refund.Items {
		if refund.Items[i].ID == uuid.Nil {
			refund.Items[i].ID = uuid.New()
		}
		refund.Items[i].RefundID = refund.ID
	}
	stored := *refund
	stored.Items = append([]entity.RefundItem(nil), refund.Items...)
	r.m.refunds[refund.ID] = stored
	return nil
}

func (r *memRefunds) GetByID(ctx context.Context, id uuid.UUID) (*entity.Refund, error) {
	refund, ok := r.m.refunds[id]
	if !ok || !sameTenant(ctx, refund.TenantID) {
		return nil, nil
	}
	return &refund, nil
}

func (r *memRefunds) ListBySale(ctx context.Context, saleID uuid.UUID) ([]entity.Refund, error) {
	var out []entity.Refund
	for _, refund := range r.m.refunds {
		if sameTenant(ctx, refund.TenantID) && refund.SaleID == saleID {
			out = append(out, refund)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}
