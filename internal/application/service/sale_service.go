package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dukaanlabs/dukaan-api/internal/application/inventory"
	"github.com/dukaanlabs/dukaan-api/internal/application/pricing"
	"github.com/dukaanlabs/dukaan-api/internal/domain/entity"
	"github.com/dukaanlabs/dukaan-api/internal/domain/enum"
	"github.com/dukaanlabs/dukaan-api/internal/domain/repository"
	infraRepo "github.com/dukaanlabs/dukaan-api/internal/infrastructure/repository"
	"github.com/dukaanlabs/dukaan-api/pkg/apperror"
	"github.com/dukaanlabs/dukaan-api/pkg/orderid"
	"github.com/dukaanlabs/dukaan-api/pkg/pagination"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// SaleService handles checkout and sale queries
type SaleService struct {
	store repository.Store
}

// NewSaleService creates a new sale service
func NewSaleService(store repository.Store) *SaleService {
	return &SaleService{store: store}
}

// DiscountInput is a discount as supplied by the client
type DiscountInput struct {
	Type  enum.DiscountType
	Value decimal.Decimal
}

// SaleItemInput represents one cart line in a checkout or exchange request
type SaleItemInput struct {
	ProductID uuid.UUID
	VariantID *uuid.UUID
	Quantity  int
	// UnitPrice overrides the catalog price when set (manual price entry)
	UnitPrice *decimal.Decimal
	Discount  *DiscountInput
}

// CreateSaleInput represents the checkout input
type CreateSaleInput struct {
	UserID        uuid.UUID
	PaymentMethod string
	CouponCode    string
	CartDiscount  *DiscountInput
	// DiscountRuleID applies a named discount preset at the cart level; it
	// is mutually exclusive with CartDiscount
	DiscountRuleID *uuid.UUID
	Items          []SaleItemInput
}

// CreateSale runs a checkout: it prices the cart, deducts stock atomically
// and persists the sale with its items, all in one transaction.
func (s *SaleService) CreateSale(ctx context.Context, input *CreateSaleInput) (*entity.Sale, error) {
	tenantID, ok := infraRepo.GetTenantID(ctx)
	if !ok {
		return nil, apperror.NewBadRequestError("Tenant context required")
	}

	if len(input.Items) == 0 {
		return nil, apperror.NewBadRequestError("Sale must contain at least one item")
	}
	for _, item := range input.Items {
		if item.Quantity <= 0 {
			return nil, apperror.NewBadRequestError("Item quantity must be positive")
		}
	}

	var sale *entity.Sale
	err := s.store.InTx(ctx, func(tx repository.Store) error {
		products, err := loadProducts(ctx, tx, input.Items)
		if err != nil {
			return err
		}

		// Resolve coupon and the tenant's default tax regime
		var coupon *pricing.Discount
		var couponCode string
		if input.CouponCode != "" {
			c, err := tx.Coupons().GetByCode(ctx, input.CouponCode)
			if err != nil {
				return err
			}
			if c == nil {
				return apperror.NewNotFoundError("Coupon")
			}
			if !c.IsRedeemable(time.Now()) {
				return apperror.NewBadRequestError("Coupon is expired or inactive")
			}
			coupon = &pricing.Discount{Type: c.Type, Value: c.Value}
			couponCode = c.Code
		}

		taxSetting, err := tx.Taxes().GetDefault(ctx)
		if err != nil {
			return err
		}
		var tax *pricing.Tax
		if taxSetting != nil {
			tax = &pricing.Tax{Percent: taxSetting.Percent, Mode: taxSetting.Mode}
		}

		lines, err := buildLines(input.Items, products)
		if err != nil {
			return err
		}

		var cartDiscount *pricing.Discount
		switch {
		case input.CartDiscount != nil && input.DiscountRuleID != nil:
			return apperror.NewBadRequestError("Provide either a cart discount or a discount rule, not both")
		case input.CartDiscount != nil:
			cartDiscount = &pricing.Discount{Type: input.CartDiscount.Type, Value: input.CartDiscount.Value}
		case input.DiscountRuleID != nil:
			rule, err := tx.DiscountRules().GetByID(ctx, *input.DiscountRuleID)
			if err != nil {
				return err
			}
			if rule == nil {
				return apperror.NewNotFoundError("Discount rule")
			}
			if !rule.Active {
				return apperror.NewBadRequestError("Discount rule is inactive")
			}
			cartDiscount = &pricing.Discount{Type: rule.Type, Value: rule.Value}
		}

		totals := pricing.CalculateTotals(lines, cartDiscount, coupon, tax)

		// Deduct stock before persisting; a guard rejection rolls back
		// everything, including earlier deducts
		if err := adjustStock(ctx, tx, input.Items, products, 1); err != nil {
			return err
		}

		sale = &entity.Sale{
			TenantID:      tenantID,
			UserID:        input.UserID,
			Type:          enum.SaleTypeSale,
			Subtotal:      totals.Subtotal.Round(2),
			Discount:      totals.ItemDiscount.Add(totals.CartDiscount).Round(2),
			Tax:           totals.Tax.Round(2),
			Total:         totals.Total.Round(2),
			CouponCode:    couponCode,
			CouponValue:   totals.CouponValue.Round(2),
			PaymentMethod: input.PaymentMethod,
		}
		if tax != nil {
			sale.TaxPercent = tax.Percent
			sale.TaxMode = tax.Mode
		}

		if err := createWithOrderNo(ctx, tx, sale); err != nil {
			return err
		}

		items := buildSaleItems(sale.ID, input.Items, totals.Lines, lines)
		if err := tx.Sales().CreateItems(ctx, items); err != nil {
			return err
		}
		sale.Items = items
		return nil
	})
	if err != nil {
		return nil, err
	}
	return sale, nil
}

// GetSale returns a sale with its items
func (s *SaleService) GetSale(ctx context.Context, id uuid.UUID) (*entity.Sale, error) {
	sale, err := s.store.Sales().GetWithItems(ctx, id)
	if err != nil {
		return nil, err
	}
	if sale == nil {
		return nil, apperror.NewNotFoundError("Sale")
	}
	return sale, nil
}

// ListSales returns a page of sales matching the filter
func (s *SaleService) ListSales(ctx context.Context, params *repository.SaleFilterParams) ([]entity.Sale, int64, error) {
	if params.Pagination == nil {
		params.Pagination = &pagination.PaginationParams{}
	}
	return s.store.Sales().List(ctx, params)
}

// loadProducts batch-fetches the products referenced by the cart lines and
// verifies every line resolves to an existing product (and variant).
func loadProducts(ctx context.Context, tx repository.Store, items []SaleItemInput) (map[uuid.UUID]*entity.Product, error) {
	ids := make([]uuid.UUID, 0, len(items))
	seen := make(map[uuid.UUID]bool, len(items))
	for _, item := range items {
		if !seen[item.ProductID] {
			seen[item.ProductID] = true
			ids = append(ids, item.ProductID)
		}
	}

	products, err := tx.Products().GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	productMap := make(map[uuid.UUID]*entity.Product, len(products))
	for i := range products {
		productMap[products[i].ID] = &products[i]
	}

	for _, item := range items {
		product, exists := productMap[item.ProductID]
		if !exists {
			return nil, apperror.NewNotFoundError(fmt.Sprintf("Product %s", item.ProductID))
		}
		if item.VariantID != nil && product.Variant(*item.VariantID) == nil {
			return nil, apperror.NewNotFoundError(fmt.Sprintf("Variant %s", *item.VariantID))
		}
	}
	return productMap, nil
}

// buildLines resolves each cart line's unit price: explicit override, else
// variant price, else product price.
func buildLines(items []SaleItemInput, products map[uuid.UUID]*entity.Product) ([]pricing.Line, error) {
	lines := make([]pricing.Line, 0, len(items))
	for _, item := range items {
		product := products[item.ProductID]

		unitPrice := product.Price
		if item.VariantID != nil {
			unitPrice = product.Variant(*item.VariantID).Price
		}
		if item.UnitPrice != nil {
			unitPrice = *item.UnitPrice
		}

		var discount *pricing.Discount
		if item.Discount != nil {
			discount = &pricing.Discount{Type: item.Discount.Type, Value: item.Discount.Value}
		}

		lines = append(lines, pricing.Line{
			UnitPrice: unitPrice,
			Quantity:  item.Quantity,
			Discount:  discount,
		})
	}
	return lines, nil
}

// adjustStock applies each line's quantity to the right stock counter.
// direction is 1 to deduct (sale), -1 to restore (return).
func adjustStock(ctx context.Context, tx repository.Store, items []SaleItemInput, products map[uuid.UUID]*entity.Product, direction int) error {
	for _, item := range items {
		product := products[item.ProductID]
		handle, err := inventory.ForProduct(tx.Stock(), product, item.VariantID)
		if err != nil {
			return err
		}
		if err := handle.Adjust(ctx, direction*item.Quantity); err != nil {
			if errors.Is(err, apperror.ErrInsufficientStock) {
				return apperror.NewConflictError(fmt.Sprintf("Insufficient stock for %s", product.Name))
			}
			return err
		}
	}
	return nil
}

// buildSaleItems captures the per-line economics computed by the pricing
// calculator onto persistable sale items, rounding once.
func buildSaleItems(saleID uuid.UUID, items []SaleItemInput, lineTotals []pricing.LineTotals, lines []pricing.Line) []entity.SaleItem {
	out := make([]entity.SaleItem, 0, len(items))
	for i, item := range items {
		out = append(out, entity.SaleItem{
			SaleID:    saleID,
			ProductID: item.ProductID,
			VariantID: item.VariantID,
			Quantity:  item.Quantity,
			UnitPrice: lines[i].UnitPrice.Round(2),
			Discount:  lineTotals[i].Discount.Round(2),
			Tax:       lineTotals[i].Tax.Round(2),
			Total:     lineTotals[i].Total.Round(2),
		})
	}
	return out
}

// createWithOrderNo persists the sale, regenerating the order number on a
// per-tenant collision until it sticks or attempts run out.
func createWithOrderNo(ctx context.Context, tx repository.Store, sale *entity.Sale) error {
	for attempt := 0; attempt < orderid.MaxAttempts; attempt++ {
		sale.OrderNo = orderid.New(time.Now())
		err := tx.Sales().Create(ctx, sale)
		if err == nil {
			return nil
		}
		if !errors.Is(err, gorm.ErrDuplicatedKey) {
			return err
		}
	}
	return apperror.NewConflictError("Could not allocate a unique order number")
}
