// Package inventory adjusts and queries stock through one capability,
// regardless of whether a product tracks stock directly, per variant, or
// through a bill of materials. Call sites (checkout, exchange, refund) never
// branch on product type themselves.
package inventory

import (
	"context"
	"math"

	"github.com/dukaanlabs/dukaan-api/internal/domain/entity"
	"github.com/dukaanlabs/dukaan-api/internal/domain/enum"
	"github.com/dukaanlabs/dukaan-api/internal/domain/repository"
	"github.com/dukaanlabs/dukaan-api/pkg/apperror"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Availability is the answer to "how many units can we sell right now".
type Availability struct {
	Unlimited bool `json:"unlimited"`
	Quantity  int  `json:"quantity"`
}

// CanCover reports whether the availability covers qty units.
func (a Availability) CanCover(qty int) bool {
	return a.Unlimited || a.Quantity >= qty
}

// Handle is the stock capability for one product (or product variant).
// Adjust deducts when qty is positive and restores when negative; all
// storage writes are atomic increments, so a handle used inside a
// transaction is all-or-nothing across a composite's whole bill of
// materials.
type Handle interface {
	// MaxSellable computes availability from the loaded product snapshot.
	// It can race with a concurrent deduct; the guarded deduct is what
	// actually protects stock.
	MaxSellable() Availability
	Adjust(ctx context.Context, qty int) error
}

// ForProduct returns the stock handle for a product. The product must be
// loaded with its variants and bill of materials. variantID is required for
// variant products and rejected for the other types.
func ForProduct(stock repository.StockRepository, p *entity.Product, variantID *uuid.UUID) (Handle, error) {
	switch p.Type {
	case enum.ProductTypeVariant:
		if variantID == nil {
			return nil, apperror.NewBadRequestError("Variant is required for product " + p.Name)
		}
		v := p.Variant(*variantID)
		if v == nil {
			return nil, apperror.NewNotFoundError("Product variant")
		}
		return &variantHandle{stock: stock, variant: v}, nil
	case enum.ProductTypeComposite:
		if variantID != nil {
			return nil, apperror.NewBadRequestError("Composite product " + p.Name + " has no variants")
		}
		return &compositeHandle{stock: stock, product: p}, nil
	default:
		if variantID != nil {
			return nil, apperror.NewBadRequestError("Product " + p.Name + " has no variants")
		}
		return &simpleHandle{stock: stock, product: p}, nil
	}
}

type simpleHandle struct {
	stock   repository.StockRepository
	product *entity.Product
}

func (h *simpleHandle) MaxSellable() Availability {
	if h.product.IsUnlimited {
		return Availability{Unlimited: true}
	}
	return Availability{Quantity: h.product.Stock}
}

func (h *simpleHandle) Adjust(ctx context.Context, qty int) error {
	if qty == 0 || h.product.IsUnlimited {
		return nil
	}
	return h.stock.AdjustProductStock(ctx, h.product.ID, qty)
}

type variantHandle struct {
	stock   repository.StockRepository
	variant *entity.ProductVariant
}

func (h *variantHandle) MaxSellable() Availability {
	return Availability{Quantity: h.variant.Stock}
}

func (h *variantHandle) Adjust(ctx context.Context, qty int) error {
	if qty == 0 {
		return nil
	}
	return h.stock.AdjustVariantStock(ctx, h.variant.ID, qty)
}

type compositeHandle struct {
	stock   repository.StockRepository
	product *entity.Product
}

func (h *compositeHandle) MaxSellable() Availability {
	limited := false
	min := math.MaxInt
	for _, link := range h.product.Materials {
		if link.RawMaterial.IsUnlimited || link.Quantity.IsZero() {
			continue
		}
		limited = true
		units := int(link.RawMaterial.Stock.Div(link.Quantity).IntPart())
		if units < min {
			min = units
		}
	}
	if !limited {
		// no materials, or every material is unlimited
		return Availability{Unlimited: true}
	}
	if min < 0 {
		min = 0
	}
	return Availability{Quantity: min}
}

func (h *compositeHandle) Adjust(ctx context.Context, qty int) error {
	if qty == 0 {
		return nil
	}
	d := decimal.NewFromInt(int64(qty))
	for _, link := range h.product.Materials {
		if link.RawMaterial.IsUnlimited {
			continue
		}
		required := link.Quantity.Mul(d)
		if required.IsZero() {
			continue
		}
		if err := h.stock.AdjustMaterialStock(ctx, link.RawMaterialID, required); err != nil {
			return err
		}
	}
	return nil
}
