package entity

import (
	"errors"
)

var (
	ErrDataNotFound       = errors.New("data not found")
	ErrInvalidPhoneFormat = errors.New("invalid phone number format")
	ErrInvalidAddressData = errors.New("invalid address data")
	ErrPhoneAlreadyExists = errors.New("phone number already exists")
	ErrPhoneNotFound      = errors.New("phone number not found")
	ErrInvalidCommand     = errors.New("invalid address command")
	ErrUnknownLimitSet    = errors.New("unknown address limit set")
)
