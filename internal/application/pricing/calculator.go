// Package pricing turns priced lines plus discount, coupon and tax context
// into a full totals breakdown. It is pure: no storage access, no rounding.
// Callers round the results exactly once, when persisting or displaying.
package pricing

import (
	"github.com/dukaanlabs/dukaan-api/internal/domain/enum"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// Discount is a resolved discount: a percentage of the base, or a fixed
// amount (per unit on lines, absolute at cart level).
type Discount struct {
	Type  enum.DiscountType
	Value decimal.Decimal
}

// Line is one priced cart line. UnitPrice is already resolved by the caller
// (explicit override, else variant price, else product price).
type Line struct {
	UnitPrice decimal.Decimal
	Quantity  int
	Discount  *Discount
}

// Tax is the tax context for the whole cart. A nil Tax or zero percent
// means no tax.
type Tax struct {
	Percent decimal.Decimal
	Mode    enum.TaxType
}

// LineTotals is the per-line breakdown.
type LineTotals struct {
	Base     decimal.Decimal // unit price x quantity
	Discount decimal.Decimal
	Net      decimal.Decimal // base minus line discount, floored at zero
	Tax      decimal.Decimal
	Total    decimal.Decimal // net, plus tax when the tax mode is exclusive
}

// Totals is the aggregated breakdown for a cart.
type Totals struct {
	Lines        []LineTotals
	Subtotal     decimal.Decimal // sum of line bases, before any discount
	ItemDiscount decimal.Decimal
	CartDiscount decimal.Decimal
	CouponValue  decimal.Decimal
	Tax          decimal.Decimal
	Total        decimal.Decimal
}

// CalculateTotals prices a cart. The tax base for every line is that line's
// own net price; cart-level discounts and the coupon never retroactively
// shrink it. Inclusive tax is extracted from the net price and not added
// back; exclusive tax is added on top of the final total.
func CalculateTotals(lines []Line, cartDiscount, coupon *Discount, tax *Tax) Totals {
	t := Totals{Lines: make([]LineTotals, 0, len(lines))}

	for _, line := range lines {
		lt := calculateLine(line, tax)
		t.Lines = append(t.Lines, lt)
		t.Subtotal = t.Subtotal.Add(lt.Base)
		t.ItemDiscount = t.ItemDiscount.Add(lt.Discount)
		t.Tax = t.Tax.Add(lt.Tax)
	}

	afterItems := maxZero(t.Subtotal.Sub(t.ItemDiscount))
	t.CartDiscount = discountOn(afterItems, cartDiscount)

	afterCart := maxZero(afterItems.Sub(t.CartDiscount))
	t.CouponValue = discountOn(afterCart, coupon)

	t.Total = maxZero(afterCart.Sub(t.CouponValue))
	if tax != nil && tax.Mode == enum.TaxTypeExclusive {
		t.Total = t.Total.Add(t.Tax)
	}
	return t
}

func calculateLine(line Line, tax *Tax) LineTotals {
	qty := decimal.NewFromInt(int64(line.Quantity))
	base := line.UnitPrice.Mul(qty)

	var discount decimal.Decimal
	if d := line.Discount; d != nil {
		if d.Type == enum.DiscountTypePercent {
			discount = base.Mul(d.Value).Div(hundred)
		} else {
			discount = d.Value.Mul(qty)
		}
	}

	net := maxZero(base.Sub(discount))
	lt := LineTotals{Base: base, Discount: discount, Net: net, Total: net}

	if tax == nil || tax.Percent.IsZero() {
		return lt
	}
	if tax.Mode == enum.TaxTypeInclusive {
		// extract the embedded tax; the line total does not change
		lt.Tax = net.Mul(tax.Percent).Div(hundred.Add(tax.Percent))
	} else {
		lt.Tax = net.Mul(tax.Percent).Div(hundred)
		lt.Total = net.Add(lt.Tax)
	}
	return lt
}

// discountOn computes a cart-level discount or coupon value on the given
// base. Fixed amounts are absolute here, not per unit.
func discountOn(base decimal.Decimal, d *Discount) decimal.Decimal {
	if d == nil {
		return decimal.Zero
	}
	if d.Type == enum.DiscountTypePercent {
		return base.Mul(d.Value).Div(hundred)
	}
	return d.Value
}

func maxZero(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return decimal.Zero
	}
	return d
}
