package repositories

import (
	"context"

	"github.com/SscSPs/invoicing_app/internal/core/domain"
)

// SequenceRepository stores one counter row per (scope, year).
// All methods must be called inside a UnitOfWork transaction.
type SequenceRepository interface {
	// LockCounter returns the last issued value for scope/year and holds a row
	// lock on it until the transaction ends. A missing row is created first,
	// seeded with the highest suffix among existing numbers of that scope and year.
	LockCounter(ctx context.Context, scope domain.SequenceScope, year int) (int, error)

	// NumberExists reports whether a document of the scope already carries number.
	NumberExists(ctx context.Context, scope domain.SequenceScope, number string) (bool, error)

	// StoreCounter records value as the last issued value.
	StoreCounter(ctx context.Context, scope domain.SequenceScope, year int, value int) error
}
