package storage

import (
	"errors"
	"fmt"

	"github.com/cockroachdb/pebble"
	"github.com/segmentio/ksuid"
	"github.com/ssargent/octet/pkg/codec"
)

// ErrNotFound is returned when no seed exists for an id.
var ErrNotFound = errors.New("seed not found")

// SeedVault persists issued random seeds in pebble, keyed by KSUID.
type SeedVault struct {
	db    *pebble.DB
	codec *codec.SeedRecordCodec
}

func NewSeedVault(path string) (*SeedVault, error) {
	db, err := pebble.Open(path, &pebble.Options{})
	if err != nil {
		return nil, fmt.Errorf("failed to open seed vault: %w", err)
	}
	return &SeedVault{db: db, codec: codec.NewSeedRecordCodec()}, nil
}

func (s *SeedVault) Create(data []byte) (ksuid.KSUID, error) {
	encoded, err := s.codec.Encode(codec.NewSeedRecord(data))
	if err != nil {
		return ksuid.Nil, err
	}

	id := ksuid.New()
	if err := s.db.Set(id.Bytes(), encoded, pebble.Sync); err != nil {
		return ksuid.Nil, fmt.Errorf("failed to store seed: %w", err)
	}

	return id, nil
}

func (s *SeedVault) Read(id ksuid.KSUID) (*codec.SeedRecord, error) {
	value, closer, err := s.db.Get(id.Bytes())
	if errors.Is(err, pebble.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read seed: %w", err)
	}
	// value is only valid until closer is closed.
	data := make([]byte, len(value))
	copy(data, value)
	if err := closer.Close(); err != nil {
		return nil, err
	}

	record, err := s.codec.Decode(data)
	if err != nil {
		return nil, err
	}
	if err := record.Validate(); err != nil {
		return nil, err
	}

	return record, nil
}

// Delete removes a seed. Corrupt records are removed like any other.
func (s *SeedVault) Delete(id ksuid.KSUID) error {
	_, closer, err := s.db.Get(id.Bytes())
	if errors.Is(err, pebble.ErrNotFound) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to read seed: %w", err)
	}
	if err := closer.Close(); err != nil {
		return err
	}

	if err := s.db.Delete(id.Bytes(), pebble.Sync); err != nil {
		return fmt.Errorf("failed to delete seed: %w", err)
	}
	return nil
}

func (s *SeedVault) Close() error {
	return s.db.Close()
}
