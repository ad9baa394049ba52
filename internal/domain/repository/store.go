package repository

import "context"

// Store bundles the repositories behind one data-access surface and owns
// transaction scope. Orchestrators run every sale mutation inside InTx so
// that returns, replacements, stock deltas and totals commit or roll back as
// one unit; the store passed to fn issues all statements on the same
// transaction.
type Store interface {
	Sales() SaleRepository
	Products() ProductRepository
	RawMaterials() RawMaterialRepository
	Stock() StockRepository
	Taxes() TaxRepository
	Coupons() CouponRepository
	DiscountRules() DiscountRuleRepository
	Refunds() RefundRepository

	// InTx runs fn inside a single database transaction. Any error returned
	// by fn rolls back every mutation made through the transactional store.
	InTx(ctx context.Context, fn func(tx Store) error) error
}
