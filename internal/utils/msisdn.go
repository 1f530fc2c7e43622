package utils

import "strings"

const (
	// PhoneNumberLength is the only accepted phone number length
	PhoneNumberLength = 10

	phoneMask     = "****"
	visiblePrefix = 3
	visibleSuffix = 3
)

// ValidatePhoneNumber reports whether the input is exactly 10 ASCII digits.
// No normalisation is applied: spaces, dashes or a country code make the
// number invalid.
func ValidatePhoneNumber(phone string) bool {
	if len(phone) != PhoneNumberLength {
		return false
	}
	for i := 0; i < len(phone); i++ {
		if phone[i] < '0' || phone[i] > '9' {
			return false
		}
	}
	return true
}

// MaskPhoneNumber keeps the first and last three digits of a phone number
// and replaces the middle with a fixed-width mask, e.g. 0811234567 becomes
// 081****567. Inputs too short to mask are fully masked.
func MaskPhoneNumber(phone string) string {
	if len(phone) <= visiblePrefix+visibleSuffix {
		return phoneMask
	}

	var b strings.Builder
	b.Grow(visiblePrefix + len(phoneMask) + visibleSuffix)
	b.WriteString(phone[:visiblePrefix])
	b.WriteString(phoneMask)
	b.WriteString(phone[len(phone)-visibleSuffix:])
	return b.String()
}
