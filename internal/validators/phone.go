package validators

import (
	"strings"
	"unicode"
)

// NormalizePhone keeps only the digits of phone. The result is the lookup and
// storage key for clients and appointments.
func NormalizePhone(phone string) string {
	var b strings.Builder
	b.Grow(len(phone))
	for _, r := range phone {
		if unicode.IsDigit(r) && r < unicode.MaxASCII {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// PhonePtr returns the normalized phone, or nil when no digits remain.
func PhonePtr(phone string) *string {
	p := NormalizePhone(phone)
	if p == "" {
		return nil
	}
	return &p
}
