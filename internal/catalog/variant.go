package catalog

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/bloomkart/storefront-backend/pkg/db/models"
	"github.com/bloomkart/storefront-backend/pkg/enums"
	pkgerrors "github.com/bloomkart/storefront-backend/pkg/errors"
	"github.com/bloomkart/storefront-backend/pkg/types"
)

// VariantSnapshot is what a combo line item captures from the catalog.
type VariantSnapshot struct {
	ProductID uuid.UUID
	Name      string
	Category  string
	Size      enums.ProductSize
	Color     *types.Color
	UnitPrice decimal.Decimal
}

// PriceFor resolves the unit price of product for size. Sized products use
// their per-size price and fall back to the base price.
func PriceFor(product *models.Product, size enums.ProductSize) decimal.Decimal {
	if product.VariantKind == enums.VariantKindSized {
		if price, ok := product.SizePrices.For(size); ok {
			return price
		}
	}
	return product.Price
}

// VariantFor checks that the requested customization fits the product's
// variant kind and returns the snapshot to store.
func VariantFor(product *models.Product, size enums.ProductSize, colorID string) (*VariantSnapshot, error) {
	if !product.IsActive {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product is not available")
	}
	snapshot := &VariantSnapshot{
		ProductID: product.ID,
		Name:      product.Name,
		Category:  product.Category,
	}

	switch product.VariantKind {
	case enums.VariantKindSized:
		if colorID != "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "this product comes in sizes, not colours")
		}
		if !size.IsValid() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "choose a size: small, medium or large")
		}
		snapshot.Size = size
	case enums.VariantKindColored:
		if size != "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "this product comes in colours, not sizes")
		}
		color, ok := product.Colors.Find(colorID)
		if !ok {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "choose one of the available colours").
				WithDetails(map[string]any{"color_id": colorID})
		}
		snapshot.Color = &color
	default:
		if size != "" || colorID != "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "this product has no size or colour options")
		}
	}

	snapshot.UnitPrice = PriceFor(product, snapshot.Size)
	return snapshot, nil
}
