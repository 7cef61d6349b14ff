package repository

import (
	"errors"
	"fmt"
	"time"

	"github.com/chabro2633/diary-korean/internal/db"
)

var (
	// ErrNotFound is returned when the referenced row does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidSegments is returned when a segment batch would break the
	// track invariants (timing, contiguity or a sequence gap).
	ErrInvalidSegments = errors.New("invalid segments")
)

// notFound maps the driver-neutral no-rows error to ErrNotFound.
func notFound(err error, what string) error {
	if errors.Is(err, db.ErrNoRows) {
		return fmt.Errorf("%s: %w", what, ErrNotFound)
	}
	return err
}

// val dereferences an optional field for binding; nil binds as NULL.
func val[T any](p *T) any {
	if p == nil {
		return nil
	}
	return *p
}

func utcPtr(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.UTC()
}
