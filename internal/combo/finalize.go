package combo

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/bloomkart/storefront-backend/pkg/types"
)

// ComboProductPrefix marks generated combo product ids.
const ComboProductPrefix = "combo-"

// CartPayload is the single cart line a finalized combo becomes. The delivery
// fee is already folded into Price, so DeliveryCharge is always zero.
type CartPayload struct {
	ProductID          string          `json:"product_id"`
	Name               string          `json:"name"`
	Quantity           int             `json:"quantity"`
	Price              types.Money     `json:"price"`
	IsCombo            bool            `json:"isCombo"`
	ComboItems         []CartComboItem `json:"combo_items"`
	DeliveryPincode    string          `json:"delivery_pincode"`
	DeliveryCharge     types.Money     `json:"delivery_charge"`
	Subtotal           types.Money     `json:"subtotal"`
	Discount           types.Money     `json:"discount"`
	DiscountPercentage float64         `json:"discount_percentage"`
}

// CartComboItem is one combo line inside a CartPayload.
type CartComboItem struct {
	ProductID string       `json:"product_id"`
	Name      string       `json:"name"`
	Quantity  int          `json:"quantity"`
	Size      *string      `json:"size"`
	Color     *types.Color `json:"color"`
	Price     types.Money  `json:"price"`
}

// FinalizeOptions tunes Finalize.
type FinalizeOptions struct {
	// DryRun builds the payload without submitting it or clearing the combo.
	DryRun bool
}

// FinalizeResult reports what Finalize produced.
type FinalizeResult struct {
	Payload    CartPayload `json:"payload"`
	Submitted  bool        `json:"submitted"`
	CartItemID string      `json:"cart_item_id,omitempty"`
	Combo      *View       `json:"combo"`
}

// BuildCartPayload converts a non-empty state into the cart line. id is the
// generated combo product id.
func BuildCartPayload(state State, pricing PricingConfig, id string) CartPayload {
	items := make([]CartComboItem, 0, len(state.Items))
	for _, item := range state.Items {
		line := CartComboItem{
			ProductID: item.ProductID,
			Name:      item.Name,
			Quantity:  item.Quantity,
			Price:     types.NewMoney(item.UnitPrice),
		}
		if item.Size != "" {
			size := item.Size.String()
			line.Size = &size
		}
		if item.Color != nil {
			color := *item.Color
			line.Color = &color
		}
		items = append(items, line)
	}

	quote := pricing.Quote(state)
	return CartPayload{
		ProductID:          id,
		Name:               fmt.Sprintf("Custom Combo (%d items)", len(state.Items)),
		Quantity:           1,
		Price:              quote.GrandTotal,
		IsCombo:            true,
		ComboItems:         items,
		DeliveryPincode:    state.Pincode,
		DeliveryCharge:     types.NewMoney(decimal.Zero),
		Subtotal:           quote.Subtotal,
		Discount:           quote.Discount,
		DiscountPercentage: quote.DiscountPercentage,
	}
}

func newComboProductID() string {
	return ComboProductPrefix + uuid.NewString()
}
