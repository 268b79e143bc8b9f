package enums

import "fmt"

// CartType classifies a cart's contents by pricing model. A non-empty cart is
// either all regular-priced items or all negotiated bulk-priced items.
type CartType string

const (
	CartTypeRegular CartType = "regular"
	CartTypeBulk    CartType = "bulk"
	CartTypeEmpty   CartType = "empty"
)

var validCartTypes = []CartType{
	CartTypeRegular,
	CartTypeBulk,
	CartTypeEmpty,
}

// String implements fmt.Stringer.
func (c CartType) String() string {
	return string(c)
}

// IsValid reports whether the value is a known CartType.
func (c CartType) IsValid() bool {
	for _, candidate := range validCartTypes {
		if candidate == c {
			return true
		}
	}
	return false
}

// ParseCartType converts raw input into a CartType. Absent or unknown values
// historically meant regular.
func ParseCartType(value string) (CartType, error) {
	for _, candidate := range validCartTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid cart type %q", value)
}
