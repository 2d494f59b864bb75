package service

import (
	"context"
	"errors"
	"fmt"

	"phonebook/internal/entity"
)

// ApplyCommand runs an imported command through the same path as the HTTP
// handlers.
func (s *PhonebookService) ApplyCommand(ctx context.Context, cmd *entity.AddressCommand) error {
	const op = "service.ApplyCommand"

	if err := cmd.Validate(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	var err error
	switch cmd.Op {
	case entity.CommandCreate:
		_, err = s.CreateAddress(ctx, cmd.Phone, *cmd.Address)
	case entity.CommandUpdate:
		_, err = s.UpdateAddress(ctx, cmd.Phone, *cmd.Address)
	case entity.CommandDelete:
		err = s.DeleteAddress(ctx, cmd.Phone)
	}
	if err != nil {
		return fmt.Errorf("%s: %s: %w", op, cmd.Op, err)
	}
	return nil
}

// IsTerminal reports whether err is a rejection that a retry cannot fix.
func IsTerminal(err error) bool {
	return errors.Is(err, entity.ErrInvalidCommand) ||
		errors.Is(err, entity.ErrInvalidPhoneFormat) ||
		errors.Is(err, entity.ErrInvalidAddressData) ||
		errors.Is(err, entity.ErrPhoneAlreadyExists) ||
		errors.Is(err, entity.ErrPhoneNotFound)
}
