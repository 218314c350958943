package combo

import (
	"github.com/shopspring/decimal"

	"github.com/bloomkart/storefront-backend/pkg/enums"
)

// State is everything a combo session remembers between requests.
//
// DeliveryCharge is zero unless DeliveryOption is standard, and
// PincodeVerified is false whenever Pincode changes without a new
// verification. The JSON names are the persisted slot format.
type State struct {
	Items            []LineItem           `json:"comboItems"`
	Pincode          string               `json:"pincode"`
	PincodeVerified  bool                 `json:"pincodeVerified"`
	DeliveryOption   enums.DeliveryOption `json:"deliveryOption"`
	DeliveryCategory string               `json:"deliveryCategory"`
	DeliveryCharge   decimal.Decimal      `json:"deliveryCharges"`
}

// NewState returns the empty default state.
func NewState() State {
	return State{
		Items:          []LineItem{},
		DeliveryOption: enums.DeliveryOptionNone,
		DeliveryCharge: decimal.Zero,
	}
}

// Clone returns a deep copy so callers cannot mutate the owner's items.
func (s State) Clone() State {
	out := s
	out.Items = make([]LineItem, len(s.Items))
	for i, item := range s.Items {
		out.Items[i] = item.clone()
	}
	return out
}

// IsEmpty reports whether the combo has no line items.
func (s State) IsEmpty() bool {
	return len(s.Items) == 0
}

// ItemCount sums quantities across line items.
func (s State) ItemCount() int {
	total := 0
	for _, item := range s.Items {
		total += item.Quantity
	}
	return total
}

// Find returns the index of the line item with key, or -1.
func (s State) Find(key Key) int {
	for i, item := range s.Items {
		if item.Key() == key {
			return i
		}
	}
	return -1
}

// Add merges item into the combo. A matching key increments the existing
// row's quantity and keeps its captured price; otherwise the item is appended.
func (s *State) Add(item LineItem) {
	if idx := s.Find(item.Key()); idx >= 0 {
		s.Items[idx].Quantity += item.Quantity
		return
	}
	s.Items = append(s.Items, item.clone())
}

// Remove drops the line item with key. It reports whether anything changed.
func (s *State) Remove(key Key) bool {
	idx := s.Find(key)
	if idx < 0 {
		return false
	}
	s.Items = append(s.Items[:idx], s.Items[idx+1:]...)
	return true
}

// SetQuantity overwrites the quantity of the line item with key. Quantities
// below one remove the line. Missing keys are ignored.
func (s *State) SetQuantity(key Key, quantity int) bool {
	if quantity < 1 {
		return s.Remove(key)
	}
	idx := s.Find(key)
	if idx < 0 {
		return false
	}
	s.Items[idx].Quantity = quantity
	return true
}

// Reset empties the combo and restores delivery defaults.
func (s *State) Reset() {
	*s = NewState()
}

// SetPincode records typed pincode text. Any change drops the previous
// verification and the delivery selection that depended on it.
func (s *State) SetPincode(code string) bool {
	if code == s.Pincode {
		return false
	}
	s.Pincode = code
	s.clearDelivery()
	return true
}

// MarkVerified records a serviceable pincode.
func (s *State) MarkVerified(code, category string) {
	s.Pincode = code
	s.PincodeVerified = true
	s.DeliveryCategory = category
}

// MarkUnverified records a failed verification. The pincode text stays so the
// customer can correct it.
func (s *State) MarkUnverified() {
	s.clearDelivery()
}

// SelectDelivery sets the delivery option. Standard delivery needs a
// verified pincode and carries fee.
func (s *State) SelectDelivery(option enums.DeliveryOption, fee decimal.Decimal) error {
	switch option {
	case enums.DeliveryOptionStandard:
		if !s.PincodeVerified {
			return ErrPincodeNotVerified
		}
		s.DeliveryOption = option
		s.DeliveryCharge = fee
	case enums.DeliveryOptionNone:
		s.DeliveryOption = option
		s.DeliveryCharge = decimal.Zero
	default:
		return ErrUnknownDeliveryOption
	}
	return nil
}

func (s *State) clearDelivery() {
	s.PincodeVerified = false
	s.DeliveryCategory = ""
	s.DeliveryOption = enums.DeliveryOptionNone
	s.DeliveryCharge = decimal.Zero
}

// normalize repairs a hydrated state so the invariants hold even when the
// slot was written by an older build or edited by hand.
func (s *State) normalize(standardFee decimal.Decimal) {
	items := make([]LineItem, 0, len(s.Items))
	merged := State{Items: items}
	for _, item := range s.Items {
		if !item.valid() {
			continue
		}
		merged.Add(item)
	}
	s.Items = merged.Items

	if !s.DeliveryOption.IsValid() {
		s.DeliveryOption = enums.DeliveryOptionNone
	}
	if !s.PincodeVerified {
		s.DeliveryCategory = ""
		s.DeliveryOption = enums.DeliveryOptionNone
	}
	if s.DeliveryOption == enums.DeliveryOptionStandard {
		s.DeliveryCharge = standardFee
	} else {
		s.DeliveryCharge = decimal.Zero
	}
}
