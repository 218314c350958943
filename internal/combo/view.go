package combo

import (
	"github.com/bloomkart/storefront-backend/internal/pincode"
	"github.com/bloomkart/storefront-backend/pkg/enums"
	"github.com/bloomkart/storefront-backend/pkg/types"
)

// View is the API shape of a combo session.
type View struct {
	SessionID        string               `json:"session_id"`
	Items            []ItemView           `json:"items"`
	Pincode          string               `json:"pincode"`
	PincodeVerified  bool                 `json:"pincode_verified"`
	DeliveryOption   enums.DeliveryOption `json:"delivery_option"`
	DeliveryCategory string               `json:"delivery_category,omitempty"`
	DeliveryCharge   types.Money          `json:"delivery_charge"`
	Quote            Quote                `json:"quote"`
}

// ItemView is one line of a View.
type ItemView struct {
	ProductID string            `json:"product_id"`
	Name      string            `json:"name"`
	Category  string            `json:"category"`
	Size      enums.ProductSize `json:"size,omitempty"`
	Color     *types.Color      `json:"color,omitempty"`
	UnitPrice types.Money       `json:"unit_price"`
	Quantity  int               `json:"quantity"`
	LineTotal types.Money       `json:"line_total"`
}

// Verification is the outcome of a pincode check plus the resulting combo.
type Verification struct {
	pincode.Result
	Combo *View `json:"combo"`
}

func newView(id string, state State, pricing PricingConfig) *View {
	items := make([]ItemView, 0, len(state.Items))
	for _, item := range state.Items {
		items = append(items, ItemView{
			ProductID: item.ProductID,
			Name:      item.Name,
			Category:  item.Category,
			Size:      item.Size,
			Color:     item.Color,
			UnitPrice: types.NewMoney(item.UnitPrice),
			Quantity:  item.Quantity,
			LineTotal: types.NewMoney(item.LineTotal()),
		})
	}
	return &View{
		SessionID:        id,
		Items:            items,
		Pincode:          state.Pincode,
		PincodeVerified:  state.PincodeVerified,
		DeliveryOption:   state.DeliveryOption,
		DeliveryCategory: state.DeliveryCategory,
		DeliveryCharge:   types.NewMoney(state.DeliveryCharge),
		Quote:            pricing.Quote(state),
	}
}
