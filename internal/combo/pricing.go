package combo

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/bloomkart/storefront-backend/pkg/config"
	"github.com/bloomkart/storefront-backend/pkg/enums"
	"github.com/bloomkart/storefront-backend/pkg/types"
)

var (
	// DefaultDiscountRate is the flat combo discount.
	DefaultDiscountRate = decimal.RequireFromString("0.20")
	// DefaultStandardDeliveryFee is the rupee fee for standard delivery.
	DefaultStandardDeliveryFee = decimal.NewFromInt(199)
	// DefaultFreeDeliveryThreshold is the discounted subtotal at which delivery is waived.
	DefaultFreeDeliveryThreshold = decimal.NewFromInt(1500)
)

var hundred = decimal.NewFromInt(100)

// PricingConfig holds the combo pricing constants.
type PricingConfig struct {
	DiscountRate          decimal.Decimal
	StandardDeliveryFee   decimal.Decimal
	FreeDeliveryThreshold decimal.Decimal
}

// DefaultPricing returns the storefront's standard pricing.
func DefaultPricing() PricingConfig {
	return PricingConfig{
		DiscountRate:          DefaultDiscountRate,
		StandardDeliveryFee:   DefaultStandardDeliveryFee,
		FreeDeliveryThreshold: DefaultFreeDeliveryThreshold,
	}
}

// PricingFromConfig reads the BLOOMKART_COMBO_* overrides.
func PricingFromConfig(cfg config.ComboConfig) (PricingConfig, error) {
	rate, fee, threshold, err := cfg.Amounts()
	if err != nil {
		return PricingConfig{}, fmt.Errorf("combo pricing: %w", err)
	}
	return PricingConfig{
		DiscountRate:          rate,
		StandardDeliveryFee:   fee,
		FreeDeliveryThreshold: threshold,
	}, nil
}

// Subtotal is the exact sum of every line total.
func Subtotal(s State) decimal.Decimal {
	total := decimal.Zero
	for _, item := range s.Items {
		total = total.Add(item.LineTotal())
	}
	return total
}

// Discount is Subtotal × DiscountRate.
func (p PricingConfig) Discount(s State) decimal.Decimal {
	return Subtotal(s).Mul(p.DiscountRate)
}

// DeliveryFee is the fee actually charged. Nothing is charged before the
// pincode is verified and standard delivery chosen, and the fee is waived
// when the discounted subtotal, with or without the standard fee added,
// reaches the free delivery threshold.
func (p PricingConfig) DeliveryFee(s State) decimal.Decimal {
	fee, _ := p.deliveryFee(s)
	return fee
}

func (p PricingConfig) deliveryFee(s State) (decimal.Decimal, bool) {
	if !s.PincodeVerified || s.DeliveryOption != enums.DeliveryOptionStandard {
		return decimal.Zero, false
	}
	if p.qualifiesForFreeDelivery(s) {
		return decimal.Zero, true
	}
	return s.DeliveryCharge, false
}

func (p PricingConfig) qualifiesForFreeDelivery(s State) bool {
	afterDiscount := Subtotal(s).Sub(p.Discount(s))
	return afterDiscount.GreaterThanOrEqual(p.FreeDeliveryThreshold) ||
		afterDiscount.Add(p.StandardDeliveryFee).GreaterThanOrEqual(p.FreeDeliveryThreshold)
}

// GrandTotal is Subtotal − Discount + DeliveryFee.
func (p PricingConfig) GrandTotal(s State) decimal.Decimal {
	return Subtotal(s).Sub(p.Discount(s)).Add(p.DeliveryFee(s))
}

// DiscountPercentage is the discount rate expressed in percent (20 for 0.20).
func (p PricingConfig) DiscountPercentage() float64 {
	return p.DiscountRate.Mul(hundred).InexactFloat64()
}

// Quote bundles the derived totals for a response.
type Quote struct {
	ItemCount             int         `json:"item_count"`
	Subtotal              types.Money `json:"subtotal"`
	Discount              types.Money `json:"discount"`
	DiscountPercentage    float64     `json:"discount_percentage"`
	DeliveryFee           types.Money `json:"delivery_fee"`
	FreeDeliveryApplied   bool        `json:"free_delivery_applied"`
	FreeDeliveryThreshold types.Money `json:"free_delivery_threshold"`
	GrandTotal            types.Money `json:"grand_total"`
}

// Quote evaluates every total against s. It never mutates s.
func (p PricingConfig) Quote(s State) Quote {
	subtotal := Subtotal(s)
	discount := subtotal.Mul(p.DiscountRate)
	fee, waived := p.deliveryFee(s)
	return Quote{
		ItemCount:             s.ItemCount(),
		Subtotal:              types.NewMoney(subtotal),
		Discount:              types.NewMoney(discount),
		DiscountPercentage:    p.DiscountPercentage(),
		DeliveryFee:           types.NewMoney(fee),
		FreeDeliveryApplied:   waived,
		FreeDeliveryThreshold: types.NewMoney(p.FreeDeliveryThreshold),
		GrandTotal:            types.NewMoney(subtotal.Sub(discount).Add(fee)),
	}
}
