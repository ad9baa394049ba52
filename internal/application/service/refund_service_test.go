package service

import (
	"testing"

	"github.com/dukaanlabs/dukaan-api/internal/domain/enum"
	"github.com/dukaanlabs/dukaan-api/pkg/apperror"
	"github.com/google/uuid"
)

func TestRefund_RestoresStockAndWritesAudit(t *testing.T) {
	store := newMemStore()
	tenantID := uuid.New()
	ctx := testCtx(tenantID)
	svc := NewRefundService(store)

	shirt := seedSimple(store, tenantID, "Shirt", "100", 10)
	sale := sellOne(t, store, tenantID, shirt, 2) // stock 8, total 200

	refund, err := svc.Refund(ctx, sale.ID, &RefundInput{
		UserID: uuid.New(),
		Reason: "damaged",
		Items:  []ReturnItemInput{{SaleItemID: sale.Items[0].ID, Quantity: 1}},
	})
	if err != nil {
		t.Fatalf("Refund: %v", err)
	}

	assertMoney(t, "refund amount", refund.Amount, d("100"))
	if len(refund.Items) != 1 || refund.Items[0].Quantity != 1 {
		t.Fatalf("refund items: %+v", refund.Items)
	}
	if refund.Reason != "damaged" {
		t.Fatalf("reason: got %q", refund.Reason)
	}

	if store.products[shirt].Stock != 9 {
		t.Fatalf("stock: got %d, want 9", store.products[shirt].Stock)
	}

	// The sale's captured money fields are never rewritten by a refund
	persisted := store.sales[sale.ID]
	assertMoney(t, "sale total", persisted.Total, d("200"))
	assertMoney(t, "sale subtotal", persisted.Subtotal, d("200"))
	if persisted.Items[0].ReturnedQuantity != 1 {
		t.Fatalf("returned quantity: got %d, want 1", persisted.Items[0].ReturnedQuantity)
	}

	refunds, err := svc.ListRefunds(ctx, sale.ID)
	if err != nil {
		t.Fatalf("ListRefunds: %v", err)
	}
	if len(refunds) != 1 {
		t.Fatalf("refund audit records: got %d, want 1", len(refunds))
	}
}

func TestRefund_NeverExceedsRemaining(t *testing.T) {
	store := newMemStore()
	tenantID := uuid.New()
	ctx := testCtx(tenantID)
	svc := NewRefundService(store)

	shirt := seedSimple(store, tenantID, "Shirt", "100", 10)
	sale := sellOne(t, store, tenantID, shirt, 2)

	if _, err := svc.Refund(ctx, sale.ID, &RefundInput{
		UserID: uuid.New(),
		Items:  []ReturnItemInput{{SaleItemID: sale.Items[0].ID, Quantity: 1}},
	}); err != nil {
		t.Fatalf("first refund: %v", err)
	}

	// Only one unit remains; asking for two must fail without effects
	_, err := svc.Refund(ctx, sale.ID, &RefundInput{
		UserID: uuid.New(),
		Items:  []ReturnItemInput{{SaleItemID: sale.Items[0].ID, Quantity: 2}},
	})
	if err == nil || apperror.GetAppError(err).Code != 409 {
		t.Fatalf("over-refund: got %v, want 409", err)
	}

	if store.products[shirt].Stock != 9 {
		t.Fatalf("stock: got %d, want 9", store.products[shirt].Stock)
	}
	if len(store.refunds) != 1 {
		t.Fatalf("refund records: got %d, want 1", len(store.refunds))
	}
}

func TestRefund_CompositeRestoresMaterials(t *testing.T) {
	store := newMemStore()
	tenantID := uuid.New()
	ctx := testCtx(tenantID)
	svc := NewRefundService(store)

	pizza := seedComposite(store, tenantID, "Pizza", "200", map[string][2]string{
		"Flour":  {"10", "2"},
		"Cheese": {"3", "0.5"},
	})
	sale := sellOne(t, store, tenantID, pizza, 2) // flour 6, cheese 2

	if _, err := svc.Refund(ctx, sale.ID, &RefundInput{
		UserID: uuid.New(),
		Items:  []ReturnItemInput{{SaleItemID: sale.Items[0].ID, Quantity: 2}},
	}); err != nil {
		t.Fatalf("Refund: %v", err)
	}

	for _, mat := range store.materials {
		switch mat.Name {
		case "Flour":
			assertMoney(t, "flour stock", mat.Stock, d("10"))
		case "Cheese":
			assertMoney(t, "cheese stock", mat.Stock, d("3"))
		}
	}
}

func TestRefund_PartialThenFullReturn(t *testing.T) {
	store := newMemStore()
	tenantID := uuid.New()
	ctx := testCtx(tenantID)
	svc := NewRefundService(store)

	seedDefaultTax(store, tenantID, "10", enum.TaxTypeInclusive)
	shirt := seedSimple(store, tenantID, "Shirt", "110", 10)
	sale := sellOne(t, store, tenantID, shirt, 2) // inclusive: total 220

	first, err := svc.Refund(ctx, sale.ID, &RefundInput{
		UserID: uuid.New(),
		Items:  []ReturnItemInput{{SaleItemID: sale.Items[0].ID, Quantity: 1}},
	})
	if err != nil {
		t.Fatalf("first refund: %v", err)
	}
	assertMoney(t, "first amount", first.Amount, d("110"))

	second, err := svc.Refund(ctx, sale.ID, &RefundInput{
		UserID: uuid.New(),
		Items:  []ReturnItemInput{{SaleItemID: sale.Items[0].ID, Quantity: 1}},
	})
	if err != nil {
		t.Fatalf("second refund: %v", err)
	}
	assertMoney(t, "second amount", second.Amount, d("110"))

	if store.products[shirt].Stock != 10 {
		t.Fatalf("stock: got %d, want 10", store.products[shirt].Stock)
	}

	refunds, _ := svc.ListRefunds(ctx, sale.ID)
	if len(refunds) != 2 {
		t.Fatalf("audit records: got %d, want 2", len(refunds))
	}
}

func TestRefund_OtherTenantIsNotFound(t *testing.T) {
	store := newMemStore()
	tenantA, tenantB := uuid.New(), uuid.New()
	svc := NewRefundService(store)

	shirt := seedSimple(store, tenantA, "Shirt", "100", 10)
	sale := sellOne(t, store, tenantA, shirt, 1)

	_, err := svc.Refund(testCtx(tenantB), sale.ID, &RefundInput{
		UserID: uuid.New(),
		Items:  []ReturnItemInput{{SaleItemID: sale.Items[0].ID, Quantity: 1}},
	})
	if err == nil || apperror.GetAppError(err).Code != 404 {
		t.Fatalf("cross-tenant refund: got %v, want 404", err)
	}
}
