package entity_test

import (
	"errors"
	"testing"

	"phonebook/internal/entity"
)

func TestIsValidPhone(t *testing.T) {
	testCases := []struct {
		desc     string
		input    string
		expected bool
	}{
		{desc: "E164", input: "+1234567890", expected: true},
		{desc: "E164Shortest", input: "+12", expected: true},
		{desc: "E164Longest", input: "+123456789012345", expected: true},
		{desc: "E164TooLong", input: "+1234567890123456", expected: false},
		{desc: "E164TooShort", input: "+1", expected: false},
		{desc: "E164LeadingZero", input: "+0123456789", expected: false},
		{desc: "RussianMobile", input: "+79123456789", expected: true},
		{desc: "RussianAlternate", input: "89123456789", expected: true},
		{desc: "RussianAlternateTooShort", input: "8912345678", expected: false},
		{desc: "RussianAlternateTooLong", input: "891234567890", expected: false},
		{desc: "NoPlus", input: "1234567890", expected: false},
		{desc: "Letters", input: "+1234abc890", expected: false},
		{desc: "Dashes", input: "+7-912-345-67-89", expected: false},
		{desc: "TrailingNewline", input: "+1234567890\n", expected: false},
		{desc: "Empty", input: "", expected: false},
	}

	for _, tc := range testCases {
		t.Run(tc.desc, func(t *testing.T) {
			t.Parallel()

			if got := entity.IsValidPhone(tc.input); got != tc.expected {
				t.Errorf("IsValidPhone(%q) = %v; want %v", tc.input, got, tc.expected)
			}
		})
	}
}

func TestNormalizePhone(t *testing.T) {
	testCases := []struct {
		desc     string
		input    string
		expected string
		ok       bool
	}{
		{desc: "RussianAlternate", input: "89123456789", expected: "+79123456789", ok: true},
		{desc: "AlternateNonRussianLooking", input: "81234567890", expected: "+71234567890", ok: true},
		{desc: "RussianMobileUnchanged", input: "+79123456789", expected: "+79123456789", ok: true},
		{desc: "E164Unchanged", input: "+1234567890", expected: "+1234567890", ok: true},
		{desc: "Empty", input: "", expected: "", ok: false},
		{desc: "Garbage", input: "not-a-phone", expected: "", ok: false},
		{desc: "TenDigitsNoPrefix", input: "9123456789", expected: "", ok: false},
	}

	for _, tc := range testCases {
		t.Run(tc.desc, func(t *testing.T) {
			t.Parallel()

			got, ok := entity.NormalizePhone(tc.input)
			if got != tc.expected || ok != tc.ok {
				t.Errorf("NormalizePhone(%q) = %q, %v; want %q, %v",
					tc.input, got, ok, tc.expected, tc.ok)
			}
		})
	}
}

func TestNormalizePhone_ResultIsValid(t *testing.T) {
	for _, raw := range []string{"89123456789", "+79123456789", "+442071838750"} {
		got, ok := entity.NormalizePhone(raw)
		if !ok {
			t.Fatalf("NormalizePhone(%q) failed", raw)
		}
		if !entity.IsValidPhone(got) {
			t.Errorf("normalized %q -> %q is not valid", raw, got)
		}
		again, _ := entity.NormalizePhone(got)
		if again != got {
			t.Errorf("normalization is not stable: %q -> %q", got, again)
		}
	}
}

func TestPhoneFormatError(t *testing.T) {
	var err error = &entity.PhoneFormatError{Raw: "12-34"}

	if !errors.Is(err, entity.ErrInvalidPhoneFormat) {
		t.Fatalf("PhoneFormatError does not unwrap to ErrInvalidPhoneFormat")
	}

	want := "Invalid phone number format: 12-34. Must follow E.164 or Russian format (+7XXXXXXXXXX or 8XXXXXXXXXX)"
	if err.Error() != want {
		t.Errorf("Error() = %q; want %q", err.Error(), want)
	}
}
