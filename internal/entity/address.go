package entity

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
)

const (
	FormattedAddressMaxLength = 300

	LimitSetWide   = "wide"
	LimitSetNarrow = "narrow"
)

var _validate = validator.New()

type (
	Address struct {
		Street           string `json:"street"`
		City             string `json:"city"`
		StateProvince    string `json:"state_province"`
		PostalCode       string `json:"postal_code"`
		Country          string `json:"country"`
		FormattedAddress string `json:"formatted_address"`
	}

	// AddressFields is the raw, unvalidated input of an address write.
	AddressFields struct {
		Street        string `json:"street"`
		City          string `json:"city"`
		StateProvince string `json:"state_province"`
		PostalCode    string `json:"postal_code"`
		Country       string `json:"country"`
	}

	FieldLimit struct {
		Min int
		Max int
	}

	AddressLimits struct {
		Street        FieldLimit
		City          FieldLimit
		StateProvince FieldLimit
		PostalCode    FieldLimit
		Country       FieldLimit
	}

	PhoneAddress struct {
		Phone   string   `json:"phone"`
		Address *Address `json:"address"`
	}
)

var (
	WideAddressLimits = AddressLimits{
		Street:        FieldLimit{Min: 2, Max: 200},
		City:          FieldLimit{Min: 2, Max: 100},
		StateProvince: FieldLimit{Min: 2, Max: 50},
		PostalCode:    FieldLimit{Min: 3, Max: 20},
		Country:       FieldLimit{Min: 2, Max: 50},
	}

	NarrowAddressLimits = AddressLimits{
		Street:        FieldLimit{Min: 2, Max: 100},
		City:          FieldLimit{Min: 2, Max: 50},
		StateProvince: FieldLimit{Min: 2, Max: 30},
		PostalCode:    FieldLimit{Min: 3, Max: 10},
		Country:       FieldLimit{Min: 2, Max: 30},
	}
)

func AddressLimitsByName(name string) (AddressLimits, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", LimitSetWide:
		return WideAddressLimits, nil
	case LimitSetNarrow:
		return NarrowAddressLimits, nil
	default:
		return AddressLimits{}, fmt.Errorf("entity.AddressLimitsByName: %w: %q", ErrUnknownLimitSet, name)
	}
}

type FieldLengthError struct {
	Field  string
	Length int
	Min    int
	Max    int
}

func (e *FieldLengthError) Error() string {
	return fmt.Sprintf("%s length %d is outside the allowed range [%d, %d]",
		e.Field, e.Length, e.Min, e.Max)
}

func (e *FieldLengthError) Unwrap() error {
	return ErrInvalidAddressData
}

type FormattedLengthError struct {
	Length int
	Limit  int
}

func (e *FormattedLengthError) Error() string {
	return fmt.Sprintf("formatted address exceeds %d character limit by %d. Current length: %d",
		e.Limit, e.Length-e.Limit, e.Length)
}

func (e *FormattedLengthError) Unwrap() error {
	return ErrInvalidAddressData
}

// NewAddress validates every field against limits and derives the formatted
// address. The derived string is checked against FormattedAddressMaxLength even
// when each field is within its own maximum.
func NewAddress(fields AddressFields, limits AddressLimits) (*Address, error) {
	checks := []struct {
		name  string
		value string
		limit FieldLimit
	}{
		{"street", fields.Street, limits.Street},
		{"city", fields.City, limits.City},
		{"state_province", fields.StateProvince, limits.StateProvince},
		{"postal_code", fields.PostalCode, limits.PostalCode},
		{"country", fields.Country, limits.Country},
	}

	for _, c := range checks {
		if err := checkLength(c.name, c.value, c.limit); err != nil {
			return nil, err
		}
	}

	addr := &Address{
		Street:        fields.Street,
		City:          fields.City,
		StateProvince: fields.StateProvince,
		PostalCode:    fields.PostalCode,
		Country:       fields.Country,
	}
	addr.FormattedAddress = addr.Format()

	if n := utf8.RuneCountInString(addr.FormattedAddress); n > FormattedAddressMaxLength {
		return nil, &FormattedLengthError{Length: n, Limit: FormattedAddressMaxLength}
	}

	return addr, nil
}

// Format derives the single-line representation from the five address fields.
func (a *Address) Format() string {
	return fmt.Sprintf("%s, %s, %s %s, %s",
		a.Street, a.City, a.StateProvince, a.PostalCode, a.Country)
}

// Fields returns the raw input the address was built from.
func (a *Address) Fields() AddressFields {
	return AddressFields{
		Street:        a.Street,
		City:          a.City,
		StateProvince: a.StateProvince,
		PostalCode:    a.PostalCode,
		Country:       a.Country,
	}
}

func checkLength(field, value string, limit FieldLimit) error {
	tag := fmt.Sprintf("min=%d,max=%d", limit.Min, limit.Max)
	if err := _validate.Var(value, tag); err != nil {
		return &FieldLengthError{
			Field:  field,
			Length: utf8.RuneCountInString(value),
			Min:    limit.Min,
			Max:    limit.Max,
		}
	}
	return nil
}
