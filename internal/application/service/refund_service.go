package service

import (
	"context"
	"fmt"

	"github.com/dukaanlabs/dukaan-api/internal/application/inventory"
	"github.com/dukaanlabs/dukaan-api/internal/domain/entity"
	"github.com/dukaanlabs/dukaan-api/internal/domain/repository"
	infraRepo "github.com/dukaanlabs/dukaan-api/internal/infrastructure/repository"
	"github.com/dukaanlabs/dukaan-api/pkg/apperror"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// RefundService orchestrates pure returns. A refund restores stock, marks
// the units as returned and writes an append-only audit record; the sale's
// captured totals are never rewritten.
type RefundService struct {
	store repository.Store
}

// NewRefundService creates a new refund service
func NewRefundService(store repository.Store) *RefundService {
	return &RefundService{store: store}
}

// RefundInput represents a refund request
type RefundInput struct {
	UserID uuid.UUID
	Reason string
	Items  []ReturnItemInput
}

// Refund processes a return against the given sale in one transaction.
func (s *RefundService) Refund(ctx context.Context, saleID uuid.UUID, input *RefundInput) (*entity.Refund, error) {
	tenantID, ok := infraRepo.GetTenantID(ctx)
	if !ok {
		return nil, apperror.NewBadRequestError("Tenant context required")
	}
	if len(input.Items) == 0 {
		return nil, apperror.NewBadRequestError("Refund must contain at least one item")
	}
	for _, r := range input.Items {
		if r.Quantity <= 0 {
			return nil, apperror.NewBadRequestError("Refund quantity must be positive")
		}
	}

	var refund *entity.Refund
	err := s.store.InTx(ctx, func(tx repository.Store) error {
		sale, err := tx.Sales().GetWithItems(ctx, saleID)
		if err != nil {
			return err
		}
		if sale == nil {
			return apperror.NewNotFoundError("Sale")
		}

		// Refunds are strict: a quantity beyond the remaining units is an
		// operator error, not something to silently shrink
		amount, err := refundableValue(sale, input.Items)
		if err != nil {
			return err
		}

		refundItems := make([]entity.RefundItem, 0, len(input.Items))
		for _, r := range input.Items {
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
				return apperror.NewConflictError(fmt.Sprintf(
					"Refund quantity for item %s exceeds remaining quantity", item.ID))
			}
			item.ReturnedQuantity += r.Quantity

			refundItems = append(refundItems, entity.RefundItem{
				SaleItemID: r.SaleItemID,
				Quantity:   r.Quantity,
				Amount:     item.UnitValue().Mul(decimal.NewFromInt(int64(r.Quantity))).Round(2),
			})
		}

		refund = &entity.Refund{
			TenantID: tenantID,
			SaleID:   sale.ID,
			UserID:   input.UserID,
			Amount:   amount.Round(2),
			Reason:   input.Reason,
			Items:    refundItems,
		}
		return tx.Refunds().Create(ctx, refund)
	})
	if err != nil {
		return nil, err
	}
	return refund, nil
}

// refundableValue validates each requested quantity against its sale line's
// remaining units and sums the credit at the captured sale-time unit value.
func refundableValue(sale *entity.Sale, items []ReturnItemInput) (decimal.Decimal, error) {
	value := decimal.Zero
	counted := make(map[uuid.UUID]int, len(items))
	for _, r := range items {
		item := sale.Item(r.SaleItemID)
		if item == nil {
			return decimal.Zero, apperror.NewNotFoundError(fmt.Sprintf("Sale item %s", r.SaleItemID))
		}
		counted[r.SaleItemID] += r.Quantity
		if counted[r.SaleItemID] > item.RemainingQuantity() {
			return decimal.Zero, apperror.NewConflictError(fmt.Sprintf(
				"Cannot refund %d units of item %s: only %d remaining",
				counted[r.SaleItemID], r.SaleItemID, item.RemainingQuantity()))
		}
		value = value.Add(item.UnitValue().Mul(decimal.NewFromInt(int64(r.Quantity))))
	}
	return value, nil
}

// GetRefund returns a refund with its items
func (s *RefundService) GetRefund(ctx context.Context, id uuid.UUID) (*entity.Refund, error) {
	refund, err := s.store.Refunds().GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if refund == nil {
		return nil, apperror.NewNotFoundError("Refund")
	}
	return refund, nil
}

// ListRefunds returns all refunds recorded against a sale, oldest first
func (s *RefundService) ListRefunds(ctx context.Context, saleID uuid.UUID) ([]entity.Refund, error) {
	sale, err := s.store.Sales().GetByID(ctx, saleID)
	if err != nil {
		return nil, err
	}
	if sale == nil {
		return nil, apperror.NewNotFoundError("Sale")
	}
	return s.store.Refunds().ListBySale(ctx, saleID)
}
