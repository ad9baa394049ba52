package service

import (
	"context"
	"testing"

	"github.com/dukaanlabs/dukaan-api/internal/domain/entity"
	"github.com/dukaanlabs/dukaan-api/internal/domain/enum"
	infraRepo "github.com/dukaanlabs/dukaan-api/internal/infrastructure/repository"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func d(s string) decimal.Decimal {
	v, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return v
}

func testCtx(tenantID uuid.UUID) context.Context {
	return infraRepo.WithTenant(context.Background(), tenantID)
}

func seedSimple(m *memStore, tenantID uuid.UUID, name, price string, stock int) uuid.UUID {
	id := uuid.New()
	m.products[id] = entity.Product{
		ID:       id,
		TenantID: tenantID,
		Name:     name,
		Code:     name,
		Type:     enum.ProductTypeSimple,
		Price:    d(price),
		Stock:    stock,
	}
	return id
}

func seedVariant(m *memStore, tenantID uuid.UUID, name string, variants []entity.ProductVariant) uuid.UUID {
	id := uuid.New()
	for i := range variants {
		if variants[i].ID == uuid.Nil {
			variants[i].ID = uuid.New()
		}
		variants[i].ProductID = id
	}
	m.products[id] = entity.Product{
		ID:       id,
		TenantID: tenantID,
		Name:     name,
		Code:     name,
		Type:     enum.ProductTypeVariant,
		Variants: variants,
	}
	return id
}

// seedComposite registers the materials and a composite product consuming
// them. quantities maps material name to (stock, per-unit consumption).
func seedComposite(m *memStore, tenantID uuid.UUID, name, price string, materials map[string][2]string) uuid.UUID {
	id := uuid.New()
	var links []entity.ProductMaterial
	for matName, q := range materials {
		matID := uuid.New()
		m.materials[matID] = entity.RawMaterial{
			ID:       matID,
			TenantID: tenantID,
			Name:     matName,
			Stock:    d(q[0]),
		}
		links = append(links, entity.ProductMaterial{
			ID:            uuid.New(),
			ProductID:     id,
			RawMaterialID: matID,
			Quantity:      d(q[1]),
		})
	}
	m.products[id] = entity.Product{
		ID:        id,
		TenantID:  tenantID,
		Name:      name,
		Code:      name,
		Type:      enum.ProductTypeComposite,
		Price:     d(price),
		Materials: links,
	}
	return id
}

func seedDefaultTax(m *memStore, tenantID uuid.UUID, percent string, mode enum.TaxType) {
	id := uuid.New()
	m.taxes[id] = entity.TaxSetting{
		ID:        id,
		TenantID:  tenantID,
		Name:      "VAT",
		Percent:   d(percent),
		Mode:      mode,
		IsDefault: true,
	}
}

func seedCoupon(m *memStore, tenantID uuid.UUID, code string, t enum.DiscountType, value string, active bool) {
	id := uuid.New()
	m.coupons[id] = entity.Coupon{
		ID:       id,
		TenantID: tenantID,
		Code:     code,
		Type:     t,
		Value:    d(value),
		Active:   active,
	}
}

func seedDiscountRule(m *memStore, tenantID uuid.UUID, name string, t enum.DiscountType, value string, active bool) uuid.UUID {
	id := uuid.New()
	m.rules[id] = entity.DiscountRule{
		ID:       id,
		TenantID: tenantID,
		Name:     name,
		Type:     t,
		Value:    d(value),
		Active:   active,
	}
	return id
}

func assertMoney(t *testing.T, label string, got, want decimal.Decimal) {
	t.Helper()
	if !got.Equal(want) {
		t.Fatalf("%s: got %s, want %s", label, got, want)
	}
}
