// Package store implements the persistence contracts used by the identity and
// catalog services on top of gorm.
package store

import (
	"errors"

	"gorm.io/gorm"
)

var (
	// ErrNotFound is returned when a lookup matches no record.
	ErrNotFound = errors.New("store: record not found")
	// ErrDuplicate is returned when a write violates a uniqueness constraint.
	ErrDuplicate = errors.New("store: duplicate record")
)

// translate maps gorm sentinel errors onto the store sentinels, keeping the
// original error in the chain.
func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return errors.Join(ErrNotFound, err)
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return errors.Join(ErrDuplicate, err)
	default:
		return err
	}
}

func requireDB(db *gorm.DB) error {
	if db == nil {
		return gorm.ErrInvalidDB
	}
	return nil
}
