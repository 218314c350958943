package combo

import (
	"math/rand"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bloomkart/storefront-backend/pkg/config"
	"github.com/bloomkart/storefront-backend/pkg/enums"
)

func verifiedStandard(state *State) {
	state.MarkVerified("400001", "standard")
	_ = state.SelectDelivery(enums.DeliveryOptionStandard, DefaultStandardDeliveryFee)
}

func TestScenarioAUnverifiedTotals(t *testing.T) {
	pricing := DefaultPricing()
	state := NewState()
	state.Add(rose(1))
	state.Add(rose(2))

	require.Len(t, state.Items, 1)
	assert.Equal(t, 3, state.Items[0].Quantity)
	assert.True(t, Subtotal(state).Equal(dec("1500")))
	assert.True(t, pricing.Discount(state).Equal(dec("300")))
	assert.True(t, pricing.DeliveryFee(state).IsZero())
	assert.True(t, pricing.GrandTotal(state).Equal(dec("1200")))
}

func TestScenarioBStandardFeeApplies(t *testing.T) {
	pricing := DefaultPricing()
	state := NewState()
	state.Add(rose(3))
	verifiedStandard(&state)

	assert.True(t, pricing.DeliveryFee(state).Equal(dec("199")))
	assert.True(t, pricing.GrandTotal(state).Equal(dec("1399")))

	quote := pricing.Quote(state)
	assert.False(t, quote.FreeDeliveryApplied)
	assert.Equal(t, float64(20), quote.DiscountPercentage)
	assert.Equal(t, 3, quote.ItemCount)
}

func TestScenarioCFreeDeliveryOverride(t *testing.T) {
	pricing := DefaultPricing()
	state := NewState()
	state.Add(rose(3))
	verifiedStandard(&state)
	state.Add(redBalloon(1))

	assert.True(t, Subtotal(state).Equal(dec("1900")))
	assert.True(t, pricing.Discount(state).Equal(dec("380")))
	assert.True(t, pricing.DeliveryFee(state).IsZero())
	assert.True(t, pricing.GrandTotal(state).Equal(dec("1520")))
	assert.True(t, pricing.Quote(state).FreeDeliveryApplied)
}

func TestFreeDeliveryWhenFeeWouldReachThreshold(t *testing.T) {
	pricing := DefaultPricing()
	state := NewState()
	// 1630 - 326 = 1304; 1304 + 199 = 1503 >= 1500
	state.Add(LineItem{ProductID: "p9", UnitPrice: dec("1630"), Quantity: 1})
	verifiedStandard(&state)

	assert.True(t, pricing.DeliveryFee(state).IsZero())
	assert.True(t, pricing.GrandTotal(state).Equal(dec("1304")))

	// 1620 - 324 = 1296; 1296 + 199 = 1495 < 1500
	below := NewState()
	below.Add(LineItem{ProductID: "p9", UnitPrice: dec("1620"), Quantity: 1})
	verifiedStandard(&below)
	assert.True(t, pricing.DeliveryFee(below).Equal(dec("199")))
}

func TestDeliveryFeeNeedsVerificationAndStandard(t *testing.T) {
	pricing := DefaultPricing()
	state := NewState()
	state.Add(LineItem{ProductID: "p1", UnitPrice: dec("100"), Quantity: 1})
	state.DeliveryOption = enums.DeliveryOptionStandard
	state.DeliveryCharge = dec("199")
	assert.True(t, pricing.DeliveryFee(state).IsZero(), "never charged before verification")

	state.PincodeVerified = true
	state.DeliveryOption = enums.DeliveryOptionNone
	assert.True(t, pricing.DeliveryFee(state).IsZero())
}

func TestDiscountIsExactAndTotalsNonNegative(t *testing.T) {
	pricing := DefaultPricing()
	rng := rand.New(rand.NewSource(7))
	for run := 0; run < 200; run++ {
		state := NewState()
		expected := decimal.Zero
		lines := rng.Intn(6)
		for i := 0; i < lines; i++ {
			price := decimal.New(int64(rng.Intn(200000)), -2)
			qty := 1 + rng.Intn(5)
			state.Add(LineItem{ProductID: string(rune('a' + i)), UnitPrice: price, Quantity: qty})
			expected = expected.Add(price.Mul(decimal.NewFromInt(int64(qty))))
		}
		if rng.Intn(2) == 0 {
			verifiedStandard(&state)
		}

		subtotal := Subtotal(state)
		require.True(t, subtotal.Equal(expected))
		require.True(t, pricing.Discount(state).Equal(subtotal.Mul(dec("0.20"))))
		require.False(t, subtotal.IsNegative())
		require.False(t, pricing.Discount(state).IsNegative())
		require.False(t, pricing.GrandTotal(state).IsNegative())
	}
}

func TestDiscountAvoidsFloatDrift(t *testing.T) {
	pricing := DefaultPricing()
	state := NewState()
	state.Add(LineItem{ProductID: "a", UnitPrice: dec("0.10"), Quantity: 3})
	assert.Equal(t, "0.3", Subtotal(state).String())
	assert.Equal(t, "0.06", pricing.Discount(state).String())
}

func TestPricingFromConfig(t *testing.T) {
	pricing, err := PricingFromConfig(config.ComboConfig{DiscountRate: "0.10", StandardDeliveryFee: "99", FreeDeliveryThreshold: "999"})
	require.NoError(t, err)
	assert.True(t, pricing.DiscountRate.Equal(dec("0.1")))
	assert.Equal(t, float64(10), pricing.DiscountPercentage())

	_, err = PricingFromConfig(config.ComboConfig{DiscountRate: "ten", StandardDeliveryFee: "99", FreeDeliveryThreshold: "999"})
	assert.Error(t, err)
}
