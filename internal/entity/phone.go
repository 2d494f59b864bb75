package entity

import (
	"fmt"
	"regexp"
)

var (
	_e164Pattern          = regexp.MustCompile(`^\+[1-9]\d{1,14}$`)
	_russianMobilePattern = regexp.MustCompile(`^\+7\d{10}$`)
	_russianAltPattern    = regexp.MustCompile(`^8\d{10}$`)
)

// IsValidPhone reports whether raw is an E.164 number, a Russian mobile
// number (+7XXXXXXXXXX) or a Russian alternate number (8XXXXXXXXXX).
func IsValidPhone(raw string) bool {
	return _e164Pattern.MatchString(raw) ||
		_russianMobilePattern.MatchString(raw) ||
		_russianAltPattern.MatchString(raw)
}

// NormalizePhone returns the canonical storage form of raw.
// The leading 8 of an 8XXXXXXXXXX number is replaced with +7, any other
// valid number is returned unchanged. ok is false when raw is not a phone number.
func NormalizePhone(raw string) (phone string, ok bool) {
	if raw == "" {
		return "", false
	}

	if _russianAltPattern.MatchString(raw) {
		return "+7" + raw[1:], true
	}

	if IsValidPhone(raw) {
		return raw, true
	}

	return "", false
}

// PhoneFormatError carries the rejected input of a phone number.
type PhoneFormatError struct {
	Raw string
}

func (e *PhoneFormatError) Error() string {
	return fmt.Sprintf("Invalid phone number format: %s. "+
		"Must follow E.164 or Russian format (+7XXXXXXXXXX or 8XXXXXXXXXX)", e.Raw)
}

func (e *PhoneFormatError) Unwrap() error {
	return ErrInvalidPhoneFormat
}
