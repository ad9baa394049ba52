package inventory

import (
	"context"
	"testing"

	"github.com/dukaanlabs/dukaan-api/internal/domain/entity"
	"github.com/dukaanlabs/dukaan-api/internal/domain/enum"
	"github.com/dukaanlabs/dukaan-api/pkg/apperror"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// fakeStock mirrors the storage contract: atomic adjustments, deducts
// guarded against underflow.
type fakeStock struct {
	products  map[uuid.UUID]int
	variants  map[uuid.UUID]int
	materials map[uuid.UUID]decimal.Decimal
}

func newFakeStock() *fakeStock {
	return &fakeStock{
		products:  make(map[uuid.UUID]int),
		variants:  make(map[uuid.UUID]int),
		materials: make(map[uuid.UUID]decimal.Decimal),
	}
}

func (f *fakeStock) AdjustProductStock(ctx context.Context, id uuid.UUID, delta int) error {
	next := f.products[id] - delta
	if delta > 0 && next < 0 {
		return apperror.ErrInsufficientStock
	}
	f.products[id] = next
	return nil
}

func (f *fakeStock) AdjustVariantStock(ctx context.Context, id uuid.UUID, delta int) error {
	next := f.variants[id] - delta
	if delta > 0 && next < 0 {
		return apperror.ErrInsufficientStock
	}
	f.variants[id] = next
	return nil
}

func (f *fakeStock) AdjustMaterialStock(ctx context.Context, id uuid.UUID, delta decimal.Decimal) error {
	next := f.materials[id].Sub(delta)
	if delta.IsPositive() && next.IsNegative() {
		return apperror.ErrInsufficientStock
	}
	f.materials[id] = next
	return nil
}

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestSimpleProduct_DeductAndRestore(t *testing.T) {
	ctx := context.Background()
	stock := newFakeStock()
	p := &entity.Product{ID: uuid.New(), Type: enum.ProductTypeSimple, Stock: 10}
	stock.products[p.ID] = 10

	h, err := ForProduct(stock, p, nil)
	if err != nil {
		t.Fatalf("ForProduct: %v", err)
	}

	if got := h.MaxSellable(); got.Unlimited || got.Quantity != 10 {
		t.Fatalf("max sellable: %+v", got)
	}
	if err := h.Adjust(ctx, 3); err != nil {
		t.Fatalf("deduct: %v", err)
	}
	if stock.products[p.ID] != 7 {
		t.Fatalf("stock after sale: got %d, want 7", stock.products[p.ID])
	}
	if err := h.Adjust(ctx, -2); err != nil {
		t.Fatalf("restore: %v", err)
	}
	if stock.products[p.ID] != 9 {
		t.Fatalf("stock after return: got %d, want 9", stock.products[p.ID])
	}
}

func TestSimpleProduct_UnlimitedSkipsStorage(t *testing.T) {
	ctx := context.Background()
	stock := newFakeStock()
	p := &entity.Product{ID: uuid.New(), Type: enum.ProductTypeSimple, IsUnlimited: true}

	h, _ := ForProduct(stock, p, nil)
	if got := h.MaxSellable(); !got.Unlimited {
		t.Fatalf("expected unlimited, got %+v", got)
	}
	if err := h.Adjust(ctx, 100); err != nil {
		t.Fatalf("adjust: %v", err)
	}
	if _, touched := stock.products[p.ID]; touched {
		t.Fatal("unlimited product must not touch the stock row")
	}
}

func TestVariantProduct_TargetsVariantRow(t *testing.T) {
	ctx := context.Background()
	stock := newFakeStock()
	vID := uuid.New()
	p := &entity.Product{
		ID:   uuid.New(),
		Type: enum.ProductTypeVariant,
		Variants: []entity.ProductVariant{
			{ID: vID, Stock: 4},
			{ID: uuid.New(), Stock: 9},
		},
	}
	stock.variants[vID] = 4

	h, err := ForProduct(stock, p, &vID)
	if err != nil {
		t.Fatalf("ForProduct: %v", err)
	}
	if got := h.MaxSellable(); got.Quantity != 4 {
		t.Fatalf("max sellable: %+v", got)
	}
	if err := h.Adjust(ctx, 4); err != nil {
		t.Fatalf("deduct: %v", err)
	}
	if stock.variants[vID] != 0 {
		t.Fatalf("variant stock: got %d, want 0", stock.variants[vID])
	}
}

func TestVariantProduct_RequiresVariant(t *testing.T) {
	p := &entity.Product{ID: uuid.New(), Type: enum.ProductTypeVariant}
	if _, err := ForProduct(newFakeStock(), p, nil); err == nil {
		t.Fatal("expected error without variant id")
	}
	unknown := uuid.New()
	if _, err := ForProduct(newFakeStock(), p, &unknown); err == nil {
		t.Fatal("expected error for unknown variant id")
	}
}

func compositePizza(flourID, cheeseID uuid.UUID, flourStock, cheeseStock string) *entity.Product {
	return &entity.Product{
		ID:   uuid.New(),
		Type: enum.ProductTypeComposite,
		Materials: []entity.ProductMaterial{
			{
				RawMaterialID: flourID,
				Quantity:      dec("2"),
				RawMaterial:   entity.RawMaterial{ID: flourID, Stock: dec(flourStock)},
			},
			{
				RawMaterialID: cheeseID,
				Quantity:      dec("0.5"),
				RawMaterial:   entity.RawMaterial{ID: cheeseID, Stock: dec(cheeseStock)},
			},
		},
	}
}

func TestComposite_MaxSellable(t *testing.T) {
	// Pizza needs 2 kg flour and 0.5 kg cheese per unit.
	// Flour 10 kg -> 5 units, cheese 3 kg -> 6 units, min is 5.
	flourID, cheeseID := uuid.New(), uuid.New()
	p := compositePizza(flourID, cheeseID, "10", "3")

	h, err := ForProduct(newFakeStock(), p, nil)
	if err != nil {
		t.Fatalf("ForProduct: %v", err)
	}
	if got := h.MaxSellable(); got.Unlimited || got.Quantity != 5 {
		t.Fatalf("max sellable: %+v, want 5", got)
	}
}

func TestComposite_DeductExplodesBOM(t *testing.T) {
	ctx := context.Background()
	stock := newFakeStock()
	flourID, cheeseID := uuid.New(), uuid.New()
	p := compositePizza(flourID, cheeseID, "10", "3")
	stock.materials[flourID] = dec("10")
	stock.materials[cheeseID] = dec("3")

	h, _ := ForProduct(stock, p, nil)
	if err := h.Adjust(ctx, 5); err != nil {
		t.Fatalf("deduct: %v", err)
	}
	if !stock.materials[flourID].Equal(dec("0")) {
		t.Fatalf("flour: got %s, want 0", stock.materials[flourID])
	}
	if !stock.materials[cheeseID].Equal(dec("0.5")) {
		t.Fatalf("cheese: got %s, want 0.5", stock.materials[cheeseID])
	}
}

func TestComposite_RoundTripNoDrift(t *testing.T) {
	ctx := context.Background()
	stock := newFakeStock()
	flourID, cheeseID := uuid.New(), uuid.New()
	p := compositePizza(flourID, cheeseID, "10", "3")
	stock.materials[flourID] = dec("10")
	stock.materials[cheeseID] = dec("3")

	h, _ := ForProduct(stock, p, nil)
	for i := 0; i < 4; i++ {
		if err := h.Adjust(ctx, 3); err != nil {
			t.Fatalf("deduct %d: %v", i, err)
		}
		if err := h.Adjust(ctx, -3); err != nil {
			t.Fatalf("restore %d: %v", i, err)
		}
	}
	if !stock.materials[flourID].Equal(dec("10")) {
		t.Fatalf("flour drifted: %s", stock.materials[flourID])
	}
	if !stock.materials[cheeseID].Equal(dec("3")) {
		t.Fatalf("cheese drifted: %s", stock.materials[cheeseID])
	}
}

func TestComposite_UnlimitedMaterialUntouched(t *testing.T) {
	ctx := context.Background()
	stock := newFakeStock()
	waterID, beansID := uuid.New(), uuid.New()
	p := &entity.Product{
		ID:   uuid.New(),
		Type: enum.ProductTypeComposite,
		Materials: []entity.ProductMaterial{
			{
				RawMaterialID: waterID,
				Quantity:      dec("0.2"),
				RawMaterial:   entity.RawMaterial{ID: waterID, IsUnlimited: true},
			},
			{
				RawMaterialID: beansID,
				Quantity:      dec("0.02"),
				RawMaterial:   entity.RawMaterial{ID: beansID, Stock: dec("1")},
			},
		},
	}
	stock.materials[beansID] = dec("1")

	h, _ := ForProduct(stock, p, nil)
	if got := h.MaxSellable(); got.Quantity != 50 {
		t.Fatalf("max sellable: %+v, want 50", got)
	}
	if err := h.Adjust(ctx, 10); err != nil {
		t.Fatalf("deduct: %v", err)
	}
	if _, touched := stock.materials[waterID]; touched {
		t.Fatal("unlimited material must not be adjusted")
	}
	if !stock.materials[beansID].Equal(dec("0.8")) {
		t.Fatalf("beans: got %s, want 0.8", stock.materials[beansID])
	}
}

func TestComposite_NoMaterialsIsUnlimited(t *testing.T) {
	p := &entity.Product{ID: uuid.New(), Type: enum.ProductTypeComposite}
	h, _ := ForProduct(newFakeStock(), p, nil)
	if got := h.MaxSellable(); !got.Unlimited {
		t.Fatalf("expected unlimited, got %+v", got)
	}
}
