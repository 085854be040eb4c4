package repository

import (
	"errors"

	"gorm.io/gorm"
)

// ErrDuplicateKey is returned when a write violates a unique index.
var ErrDuplicateKey = errors.New("repository: duplicate key")

// translate maps driver-specific errors onto repository errors. It relies on
// gorm's TranslateError option being enabled on the connection.
func translate(err error) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrDuplicateKey
	}
	return err
}
