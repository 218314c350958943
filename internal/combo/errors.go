package combo

import (
	pkgerrors "github.com/bloomkart/storefront-backend/pkg/errors"
)

var (
	ErrPincodeNotVerified    = pkgerrors.New(pkgerrors.CodeStateConflict, "verify your pincode before choosing delivery")
	ErrUnknownDeliveryOption = pkgerrors.New(pkgerrors.CodeValidation, "unknown delivery option")
	ErrEmptyCombo            = pkgerrors.New(pkgerrors.CodeValidation, "add at least one item to your combo")
	ErrSessionRequired       = pkgerrors.New(pkgerrors.CodeValidation, "a valid combo session id is required")
)
