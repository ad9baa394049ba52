package service

import (
	"context"
	"fmt"
	"time"

	"github.com/dukaanlabs/dukaan-api/internal/application/inventory"
	"github.com/dukaanlabs/dukaan-api/internal/application/pricing"
	"github.com/dukaanlabs/dukaan-api/internal/domain/entity"
	"github.com/dukaanlabs/dukaan-api/internal/domain/enum"
	"github.com/dukaanlabs/dukaan-api/internal/domain/repository"
	"github.com/dukaanlabs/dukaan-api/pkg/apperror"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ExchangeService orchestrates exchanges: customers bring goods back and
// take replacements whose value must at least match. The shop never pays
// cash out on an exchange; any surplus is an additional payment in.
type ExchangeService struct {
	store repository.Store
}

// NewExchangeService creates a new exchange service
func NewExchangeService(store repository.Store) *ExchangeService {
	return &ExchangeService{store: store}
}

// ReturnItemInput identifies units coming back on one original sale line
type ReturnItemInput struct {
	SaleItemID uuid.UUID
	Quantity   int
}

// ExchangeInput represents an exchange request
type ExchangeInput struct {
	UserID        uuid.UUID
	Policy        enum.ResultPolicy
	Returns       []ReturnItemInput
	Replacements  []SaleItemInput
	PaymentMethod string
}

// ExchangeResult is the outcome of a completed exchange
type ExchangeResult struct {
	// Sale is the exchange sale (CreateNewLinked) or the updated original
	// sale (AppendToExisting)
	Sale *entity.Sale
	// ReturnedValue is the credit for the goods brought back, at their
	// captured sale-time unit value
	ReturnedValue decimal.Decimal
	// ReplacementTotal is the price of the replacement goods under the
	// original sale's tax regime
	ReplacementTotal decimal.Decimal
	// AdditionalPayment is what the customer owes on top of the credit;
	// never negative
	AdditionalPayment decimal.Decimal
}

// Exchange runs a full exchange against the given sale in one transaction:
// it clamps the returns to what each line can still give back, prices the
// replacements under the original tax regime, enforces that the replacement
// total covers the returned value, restores and deducts stock, and
// materializes the result per policy. An exchange without returns is an
// upsell; its replacements must then cover the whole original sale total.
// Any rejection rolls back every effect, so a failed exchange can be
// retried with a corrected cart.
func (s *ExchangeService) Exchange(ctx context.Context, saleID uuid.UUID, input *ExchangeInput) (*ExchangeResult, error) {
	if len(input.Replacements) == 0 {
		return nil, apperror.NewBadRequestError("Exchange must include replacement items")
	}
	for _, item := range input.Replacements {
		if item.Quantity <= 0 {
			return nil, apperror.NewBadRequestError("Replacement quantity must be positive")
		}
	}

	var result *ExchangeResult
	err := s.store.InTx(ctx, func(tx repository.Store) error {
		sale, err := tx.Sales().GetWithItems(ctx, saleID)
		if err != nil {
			return err
		}
		if sale == nil {
			return apperror.NewNotFoundError("Sale")
		}

		returns, returnedValue, err := clampReturns(sale, input.Returns)
		if err != nil {
			return err
		}

		// Replacements are priced under the original sale's tax regime,
		// even if the tenant's default rate changed since.
		var tax *pricing.Tax
		if !sale.TaxPercent.IsZero() {
			tax = &pricing.Tax{Percent: sale.TaxPercent, Mode: sale.TaxMode}
		}

		products, err := loadProducts(ctx, tx, input.Replacements)
		if err != nil {
			return err
		}
		lines, err := buildLines(input.Replacements, products)
		if err != nil {
			return err
		}
		totals := pricing.CalculateTotals(lines, nil, nil, tax)

		// The no-cash-refund rule: reject before touching any stock, so a
		// rejected exchange leaves nothing to undo and can be repeated.
		// Without returns the replacements must cover the whole sale.
		required := returnedValue
		if len(input.Returns) == 0 {
			required = sale.Total
		}
		if totals.Total.LessThan(required) {
			return apperror.NewInvariantViolation(required, totals.Total)
		}

		if err := restoreReturns(ctx, tx, sale, returns); err != nil {
			return err
		}
		if err := adjustStock(ctx, tx, input.Replacements, products, 1); err != nil {
			return err
		}

		resultSale, err := s.materialize(ctx, tx, sale, input, totals, lines)
		if err != nil {
			return err
		}

		result = &ExchangeResult{
			Sale:              resultSale,
			ReturnedValue:     returnedValue.Round(2),
			ReplacementTotal:  totals.Total.Round(2),
			AdditionalPayment: totals.Total.Sub(returnedValue).Round(2),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// clampReturns resolves each return against its sale line, clamps the
// quantity to what the line can still give back and drops returns that
// clamp to nothing. The credit is summed at the captured sale-time unit
// value of the effective quantities.
func clampReturns(sale *entity.Sale, returns []ReturnItemInput) ([]ReturnItemInput, decimal.Decimal, error) {
	value := decimal.Zero
	counted := make(map[uuid.UUID]int, len(returns))
	effective := make([]ReturnItemInput, 0, len(returns))
	for _, r := range returns {
		item := sale.Item(r.SaleItemID)
		if item == nil {
			return nil, decimal.Zero, apperror.NewNotFoundError(fmt.Sprintf("Sale item %s", r.SaleItemID))
		}
		qty := r.Quantity
		if allowed := item.RemainingQuantity() - counted[r.SaleItemID]; qty > allowed {
			qty = allowed
		}
		if qty <= 0 {
			continue
		}
		counted[r.SaleItemID] += qty
		effective = append(effective, ReturnItemInput{SaleItemID: r.SaleItemID, Quantity: qty})
		value = value.Add(item.UnitValue().Mul(decimal.NewFromInt(int64(qty))))
	}
	return effective, value, nil
}

// restoreReturns puts the returned units back in stock and bumps each
// line's returned quantity under the database guard.
func restoreReturns(ctx context.Context, tx repository.Store, sale *entity.Sale, returns []ReturnItemInput) error {
	for _, r := range returns {
		item := sale.Item(r.SaleItemID)
		handle, err := inventory.ForProduct(tx.Stock(), &item.Product, item.VariantID)
		if err != nil {
			return err
		}
		if err := handle.Adjust(ctx, -r.Quantity); err != nil {
			return err
		}
		ok, err := tx.Sales().IncrementItemReturned(ctx, item.ID, r.Quantity)
		if err != nil {
			return err
		}
		if !ok {
			return apperror.NewConflictError("Return quantity exceeds remaining quantity")
		}
		item.ReturnedQuantity += r.Quantity
	}
	return nil
}

// materialize writes the exchange outcome per the requested policy.
func (s *ExchangeService) materialize(ctx context.Context, tx repository.Store, sale *entity.Sale, input *ExchangeInput, totals pricing.Totals, lines []pricing.Line) (*entity.Sale, error) {
	switch input.Policy {
	case enum.ResultPolicyAppendToExisting:
		items := buildSaleItems(sale.ID, input.Replacements, totals.Lines, lines)
		if err := tx.Sales().CreateItems(ctx, items); err != nil {
			return nil, err
		}
		sale.Items = append(sale.Items, items...)
		recomputeSaleTotals(sale)
		if err := tx.Sales().Update(ctx, sale); err != nil {
			return nil, err
		}
		return sale, nil

	default: // CreateNewLinked
		exchange := &entity.Sale{
			TenantID:      sale.TenantID,
			UserID:        input.UserID,
			Type:          enum.SaleTypeExchange,
			Subtotal:      totals.Subtotal.Round(2),
			Discount:      totals.ItemDiscount.Round(2),
			Tax:           totals.Tax.Round(2),
			TaxPercent:    sale.TaxPercent,
			TaxMode:       sale.TaxMode,
			Total:         totals.Total.Round(2),
			PaymentMethod: input.PaymentMethod,
			ExchangeOfID:  &sale.ID,
		}
		if err := createWithOrderNo(ctx, tx, exchange); err != nil {
			return nil, err
		}
		items := buildSaleItems(exchange.ID, input.Replacements, totals.Lines, lines)
		if err := tx.Sales().CreateItems(ctx, items); err != nil {
			return nil, err
		}
		exchange.Items = items
		return exchange, nil
	}
}

// recomputeSaleTotals rederives a sale's totals from its lines, weighting
// each line by the units not yet returned. The recorded coupon value is
// kept for audit but not re-deducted; the line totals already carry every
// per-line discount and tax.
func recomputeSaleTotals(sale *entity.Sale) {
	subtotal, discount, tax, total := decimal.Zero, decimal.Zero, decimal.Zero, decimal.Zero
	for i := range sale.Items {
		item := &sale.Items[i]
		if item.Quantity == 0 {
			continue
		}
		frac := decimal.NewFromInt(int64(item.RemainingQuantity())).
			Div(decimal.NewFromInt(int64(item.Quantity)))
		base := item.UnitPrice.Mul(decimal.NewFromInt(int64(item.RemainingQuantity())))
		subtotal = subtotal.Add(base)
		discount = discount.Add(item.Discount.Mul(frac))
		tax = tax.Add(item.Tax.Mul(frac))
		total = total.Add(item.Total.Mul(frac))
	}
	sale.Subtotal = subtotal.Round(2)
	sale.Discount = discount.Round(2)
	sale.Tax = tax.Round(2)
	sale.Total = total.Round(2)
	sale.UpdatedAt = time.Now()
}
