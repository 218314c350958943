package enums

import (
	"fmt"
	"strings"
)

// DeliveryOption is the delivery tier picked for a combo.
type DeliveryOption string

const (
	DeliveryOptionNone     DeliveryOption = "none"
	DeliveryOptionStandard DeliveryOption = "standard"
)

var validDeliveryOptions = []DeliveryOption{
	DeliveryOptionNone,
	DeliveryOptionStandard,
}

// String implements fmt.Stringer.
func (d DeliveryOption) String() string {
	return string(d)
}

// IsValid reports whether the value is a known DeliveryOption.
func (d DeliveryOption) IsValid() bool {
	for _, candidate := range validDeliveryOptions {
		if candidate == d {
			return true
		}
	}
	return false
}

// ParseDeliveryOption converts raw input into a DeliveryOption. Empty input
// maps to DeliveryOptionNone.
func ParseDeliveryOption(value string) (DeliveryOption, error) {
	normalized := strings.ToLower(strings.TrimSpace(value))
	if normalized == "" {
		return DeliveryOptionNone, nil
	}
	for _, candidate := range validDeliveryOptions {
		if string(candidate) == normalized {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid delivery option %q", value)
}
