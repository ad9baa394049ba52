package pricing

import (
	"testing"

	"github.com/dukaanlabs/dukaan-api/internal/domain/enum"
	"github.com/shopspring/decimal"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func assertEq(t *testing.T, name string, got, want decimal.Decimal) {
	t.Helper()
	if !got.Equal(want) {
		t.Fatalf("%s: got %s, want %s", name, got, want)
	}
}

func TestCalculateTotals_NoDiscountNoTax(t *testing.T) {
	totals := CalculateTotals([]Line{
		{UnitPrice: dec("10"), Quantity: 3},
		{UnitPrice: dec("5.50"), Quantity: 2},
	}, nil, nil, nil)

	assertEq(t, "subtotal", totals.Subtotal, dec("41"))
	assertEq(t, "tax", totals.Tax, dec("0"))
	assertEq(t, "total", totals.Total, dec("41"))
}

func TestCalculateTotals_LineDiscounts(t *testing.T) {
	totals := CalculateTotals([]Line{
		// 100 base, 10% off -> net 90
		{UnitPrice: dec("50"), Quantity: 2, Discount: &Discount{Type: enum.DiscountTypePercent, Value: dec("10")}},
		// 30 base, 2 off per unit -> net 24
		{UnitPrice: dec("10"), Quantity: 3, Discount: &Discount{Type: enum.DiscountTypeAmount, Value: dec("2")}},
	}, nil, nil, nil)

	assertEq(t, "subtotal", totals.Subtotal, dec("130"))
	assertEq(t, "item discount", totals.ItemDiscount, dec("16"))
	assertEq(t, "total", totals.Total, dec("114"))
}

func TestCalculateTotals_LineDiscountFloorsAtZero(t *testing.T) {
	totals := CalculateTotals([]Line{
		{UnitPrice: dec("5"), Quantity: 1, Discount: &Discount{Type: enum.DiscountTypeAmount, Value: dec("8")}},
	}, nil, nil, nil)

	assertEq(t, "net", totals.Lines[0].Net, dec("0"))
	assertEq(t, "total", totals.Total, dec("0"))
}

func TestCalculateTotals_ExclusiveTax(t *testing.T) {
	tax := &Tax{Percent: dec("10"), Mode: enum.TaxTypeExclusive}
	totals := CalculateTotals([]Line{
		{UnitPrice: dec("100"), Quantity: 1},
	}, nil, nil, tax)

	assertEq(t, "line tax", totals.Lines[0].Tax, dec("10"))
	assertEq(t, "line total", totals.Lines[0].Total, dec("110"))
	assertEq(t, "total", totals.Total, dec("110"))
}

func TestCalculateTotals_InclusiveTaxExtractedNotAdded(t *testing.T) {
	// inclusive 10% on net 110 extracts tax 10, total stays 110
	tax := &Tax{Percent: dec("10"), Mode: enum.TaxTypeInclusive}
	totals := CalculateTotals([]Line{
		{UnitPrice: dec("110"), Quantity: 1},
	}, nil, nil, tax)

	assertEq(t, "line tax", totals.Lines[0].Tax, dec("10"))
	assertEq(t, "line total", totals.Lines[0].Total, dec("110"))
	assertEq(t, "total", totals.Total, dec("110"))
}

func TestCalculateTotals_CartDiscountThenCoupon(t *testing.T) {
	// subtotal 200, item discount 20 -> 180
	// cart 10% on 180 -> 18 -> 162
	// coupon 12 fixed on 162 -> 150
	totals := CalculateTotals([]Line{
		{UnitPrice: dec("100"), Quantity: 2, Discount: &Discount{Type: enum.DiscountTypePercent, Value: dec("10")}},
	},
		&Discount{Type: enum.DiscountTypePercent, Value: dec("10")},
		&Discount{Type: enum.DiscountTypeAmount, Value: dec("12")},
		nil)

	assertEq(t, "cart discount", totals.CartDiscount, dec("18"))
	assertEq(t, "coupon", totals.CouponValue, dec("12"))
	assertEq(t, "total", totals.Total, dec("150"))
}

func TestCalculateTotals_CartDiscountDoesNotShrinkTaxBase(t *testing.T) {
	// tax is computed per line before the cart discount is applied
	tax := &Tax{Percent: dec("10"), Mode: enum.TaxTypeExclusive}
	totals := CalculateTotals([]Line{
		{UnitPrice: dec("100"), Quantity: 1},
	},
		&Discount{Type: enum.DiscountTypeAmount, Value: dec("50")},
		nil, tax)

	// tax stays 10 even though the cart discount halves the goods value
	assertEq(t, "tax", totals.Tax, dec("10"))
	// total = (100 - 50) + 10
	assertEq(t, "total", totals.Total, dec("60"))
}

func TestCalculateTotals_CouponExceedsRemainderClampsTotal(t *testing.T) {
	totals := CalculateTotals([]Line{
		{UnitPrice: dec("10"), Quantity: 1},
	}, nil, &Discount{Type: enum.DiscountTypeAmount, Value: dec("25")}, nil)

	assertEq(t, "total", totals.Total, dec("0"))
}

func TestCalculateTotals_PercentCoupon(t *testing.T) {
	totals := CalculateTotals([]Line{
		{UnitPrice: dec("40"), Quantity: 5}, // 200
	}, nil, &Discount{Type: enum.DiscountTypePercent, Value: dec("25")}, nil)

	assertEq(t, "coupon", totals.CouponValue, dec("50"))
	assertEq(t, "total", totals.Total, dec("150"))
}

func TestCalculateTotals_ManyLinesNoIntermediateRounding(t *testing.T) {
	// 0.10 x 3 repeated: float arithmetic would drift, decimal must not
	lines := make([]Line, 100)
	for i := range lines {
		lines[i] = Line{UnitPrice: dec("0.10"), Quantity: 3}
	}
	totals := CalculateTotals(lines, nil, nil, nil)

	assertEq(t, "subtotal", totals.Subtotal, dec("30"))
	assertEq(t, "total", totals.Total, dec("30"))
}

func TestCalculateTotals_InclusiveTaxManyLines(t *testing.T) {
	// 7 lines of 110 at inclusive 10%: each carries exactly 10 of tax
	lines := make([]Line, 7)
	for i := range lines {
		lines[i] = Line{UnitPrice: dec("110"), Quantity: 1}
	}
	tax := &Tax{Percent: dec("10"), Mode: enum.TaxTypeInclusive}
	totals := CalculateTotals(lines, nil, nil, tax)

	assertEq(t, "tax", totals.Tax, dec("70"))
	assertEq(t, "total", totals.Total, dec("770"))
}
