package pincode

import (
	"strings"

	pkgerrors "github.com/bloomkart/storefront-backend/pkg/errors"
)

// Length is the number of digits in an Indian postal code.
const Length = 6

// InvalidFormatMessage is shown when input is not a 6-digit pincode.
const InvalidFormatMessage = "enter a valid 6-digit pincode"

// ErrInvalidFormat reports input that is not exactly six ASCII digits.
var ErrInvalidFormat = pkgerrors.New(pkgerrors.CodeValidation, InvalidFormatMessage)

// Validate trims surrounding whitespace and returns the pincode when it is
// exactly six ASCII digits.
func Validate(code string) (string, error) {
	code = strings.TrimSpace(code)
	if !IsValid(code) {
		return "", ErrInvalidFormat
	}
	return code, nil
}

// IsValid reports whether code is exactly six ASCII digits, untrimmed.
func IsValid(code string) bool {
	if len(code) != Length {
		return false
	}
	for i := 0; i < len(code); i++ {
		if code[i] < '0' || code[i] > '9' {
			return false
		}
	}
	return true
}
