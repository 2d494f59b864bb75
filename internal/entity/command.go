package entity

import (
	"fmt"
)

type CommandOp string

const (
	CommandCreate CommandOp = "create"
	CommandUpdate CommandOp = "update"
	CommandDelete CommandOp = "delete"
)

// AddressCommand is a single write applied through the import stream.
type AddressCommand struct {
	Op      CommandOp      `json:"op"`
	Phone   string         `json:"phone"`
	Address *AddressFields `json:"address,omitempty"`
}

func (c *AddressCommand) Validate() error {
	switch c.Op {
	case CommandCreate, CommandUpdate:
		if c.Address == nil {
			return fmt.Errorf("%w: %s requires an address", ErrInvalidCommand, c.Op)
		}
	case CommandDelete:
	default:
		return fmt.Errorf("%w: unknown op %q", ErrInvalidCommand, c.Op)
	}

	if c.Phone == "" {
		return fmt.Errorf("%w: phone is required", ErrInvalidCommand)
	}
	return nil
}
