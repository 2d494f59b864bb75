package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"phonebook/internal/entity"
	"phonebook/pkg/logger"
)

var errIncompleteRecord = errors.New("stored address is missing required fields")

// AddressRepository maps canonical phone keys to JSON encoded addresses.
type AddressRepository struct {
	store KeyValueStore
	log   logger.Logger
}

func NewAddressRepository(store KeyValueStore, log logger.Logger) *AddressRepository {
	return &AddressRepository{
		store: store,
		log:   log,
	}
}

// Read returns entity.ErrDataNotFound for absent keys and for values that
// cannot be decoded into a complete address.
func (r *AddressRepository) Read(ctx context.Context, phone string) (*entity.Address, error) {
	const op = "repository.address.Read"

	raw, err := r.store.Get(ctx, phone)
	if err != nil {
		if errors.Is(err, entity.ErrDataNotFound) {
			return nil, entity.ErrDataNotFound
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	addr, err := decodeAddress(raw)
	if err != nil {
		r.log.Ctx(ctx).Warnw("stored address is corrupt, treating as absent",
			"op", op,
			"phone", phone,
			"error", err,
		)
		return nil, entity.ErrDataNotFound
	}

	return addr, nil
}

// Create stores addr only when phone has no record yet.
func (r *AddressRepository) Create(ctx context.Context, phone string, addr *entity.Address) (bool, error) {
	const op = "repository.address.Create"

	payload, err := encodeAddress(addr)
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}

	created, err := r.store.SetIfAbsent(ctx, phone, payload)
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	return created, nil
}

// Update replaces the record for phone only when one exists.
func (r *AddressRepository) Update(ctx context.Context, phone string, addr *entity.Address) (bool, error) {
	const op = "repository.address.Update"

	payload, err := encodeAddress(addr)
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}

	updated, err := r.store.SetIfPresent(ctx, phone, payload)
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	return updated, nil
}

func (r *AddressRepository) Delete(ctx context.Context, phone string) (bool, error) {
	const op = "repository.address.Delete"

	removed, err := r.store.Delete(ctx, phone)
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	return removed > 0, nil
}

func (r *AddressRepository) Ping(ctx context.Context) error {
	return r.store.Ping(ctx)
}

func encodeAddress(addr *entity.Address) ([]byte, error) {
	if addr == nil {
		return nil, errors.New("encode address: nil address")
	}
	payload, err := json.Marshal(addr)
	if err != nil {
		return nil, fmt.Errorf("encode address: %w", err)
	}
	return payload, nil
}

func decodeAddress(raw []byte) (*entity.Address, error) {
	var addr entity.Address
	if err := json.Unmarshal(raw, &addr); err != nil {
		return nil, fmt.Errorf("decode address: %w", err)
	}

	if addr.Street == "" || addr.City == "" || addr.StateProvince == "" ||
		addr.PostalCode == "" || addr.Country == "" {
		return nil, errIncompleteRecord
	}
	if addr.FormattedAddress == "" {
		addr.FormattedAddress = addr.Format()
	}

	return &addr, nil
}
