package types

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Money renders an exact decimal amount as a JSON number with two decimal
// places. Rounding happens only here, when the value leaves the process.
type Money decimal.Decimal

// NewMoney wraps a decimal amount.
func NewMoney(d decimal.Decimal) Money {
	return Money(d)
}

// Decimal returns the underlying exact amount.
func (m Money) Decimal() decimal.Decimal {
	return decimal.Decimal(m)
}

func (m Money) String() string {
	return decimal.Decimal(m).StringFixed(2)
}

// MarshalJSON implements json.Marshaler.
func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(decimal.Decimal(m).StringFixed(2)), nil
}

// UnmarshalJSON accepts both JSON numbers and quoted strings.
func (m *Money) UnmarshalJSON(data []byte) error {
	raw := strings.Trim(strings.TrimSpace(string(data)), `"`)
	if raw == "" || raw == "null" {
		*m = Money(decimal.Zero)
		return nil
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return fmt.Errorf("invalid money amount %q: %w", raw, err)
	}
	*m = Money(d)
	return nil
}
