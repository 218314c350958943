package combo

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/bloomkart/storefront-backend/pkg/enums"
	"github.com/bloomkart/storefront-backend/pkg/types"
)

// LineItem is one distinct product variant in a combo. UnitPrice is the
// catalog price captured when the item was first added.
type LineItem struct {
	ProductID string            `json:"productId"`
	Name      string            `json:"name"`
	Category  string            `json:"category"`
	Size      enums.ProductSize `json:"variantSize,omitempty"`
	Color     *types.Color      `json:"variantColor,omitempty"`
	UnitPrice decimal.Decimal   `json:"unitPrice"`
	Quantity  int               `json:"quantity"`
}

// Key identifies a line item: product, size and colour id.
type Key struct {
	ProductID string
	Size      enums.ProductSize
	ColorID   string
}

// KeyOf builds a Key from raw request values.
func KeyOf(productID string, size enums.ProductSize, colorID string) Key {
	return Key{
		ProductID: strings.TrimSpace(productID),
		Size:      size,
		ColorID:   strings.ToLower(strings.TrimSpace(colorID)),
	}
}

// Key returns the dedup key of the item.
func (i LineItem) Key() Key {
	colorID := ""
	if i.Color != nil {
		colorID = i.Color.ID
	}
	return KeyOf(i.ProductID, i.Size, colorID)
}

// LineTotal is UnitPrice × Quantity.
func (i LineItem) LineTotal() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

func (i LineItem) valid() bool {
	return strings.TrimSpace(i.ProductID) != "" &&
		i.Quantity >= 1 &&
		!i.UnitPrice.IsNegative() &&
		!(i.Size != "" && i.Color != nil)
}

func (i LineItem) clone() LineItem {
	if i.Color != nil {
		color := *i.Color
		i.Color = &color
	}
	return i
}
