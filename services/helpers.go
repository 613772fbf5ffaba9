package services

import (
	"fmt"

	"github.com/lanoooo/padel-club/repositories"
)

// mapStoreError переводит конкурентные сбои хранилища в ErrConflict
// (повторяемо), остальное оборачивает как есть.
func mapStoreError(op string, err error) error {
	if repositories.IsSerializationFailure(err) {
		return ErrConflict
	}
	return fmt.Errorf("%s: %w", op, err)
}
