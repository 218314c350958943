package enums

import (
	"fmt"
	"strings"
)

// VariantKind tells the storefront which customization a product needs.
// It is stored on the product record instead of being guessed from the
// product name or category.
type VariantKind string

const (
	VariantKindSized   VariantKind = "sized"
	VariantKindColored VariantKind = "colored"
	VariantKindFixed   VariantKind = "fixed"
)

var validVariantKinds = []VariantKind{
	VariantKindSized,
	VariantKindColored,
	VariantKindFixed,
}

// String implements fmt.Stringer.
func (k VariantKind) String() string {
	return string(k)
}

// IsValid reports whether the value is a known VariantKind.
func (k VariantKind) IsValid() bool {
	for _, candidate := range validVariantKinds {
		if candidate == k {
			return true
		}
	}
	return false
}

// ParseVariantKind converts raw input into a VariantKind.
func ParseVariantKind(value string) (VariantKind, error) {
	normalized := strings.ToLower(strings.TrimSpace(value))
	for _, candidate := range validVariantKinds {
		if string(candidate) == normalized {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid variant kind %q", value)
}

// ProductSize is the closed set of bouquet sizes.
type ProductSize string

const (
	ProductSizeSmall  ProductSize = "small"
	ProductSizeMedium ProductSize = "medium"
	ProductSizeLarge  ProductSize = "large"
)

var validProductSizes = []ProductSize{
	ProductSizeSmall,
	ProductSizeMedium,
	ProductSizeLarge,
}

// String implements fmt.Stringer.
func (s ProductSize) String() string {
	return string(s)
}

// IsValid reports whether the value is a known ProductSize.
func (s ProductSize) IsValid() bool {
	for _, candidate := range validProductSizes {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseProductSize converts raw input into a ProductSize. Empty input yields
// the zero value without error since most line items carry no size.
func ParseProductSize(value string) (ProductSize, error) {
	normalized := strings.ToLower(strings.TrimSpace(value))
	if normalized == "" {
		return "", nil
	}
	for _, candidate := range validProductSizes {
		if string(candidate) == normalized {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid product size %q", value)
}
