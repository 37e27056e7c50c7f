package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/SscSPs/invoicing_app/internal/apperrors"
)

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

// DBTX is the query surface shared by *pgxpool.Pool and pgx.Tx, so every
// repository runs unchanged inside or outside a transaction.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults
}

// BaseRepository provides common functionality for all repositories
type BaseRepository struct {
	DB DBTX
}

// mapError translates driver errors into the application taxonomy.
func mapError(err error, resource, id string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return apperrors.NewNotFoundError(resource, id)
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			return fmt.Errorf("%w: %s %s (%s)", apperrors.ErrDuplicate, resource, id, pgErr.ConstraintName)
		case pgForeignKeyViolation:
			return apperrors.NewAppError(apperrors.ErrValidation, fmt.Sprintf("%s %s references a missing row (%s)", resource, id, pgErr.ConstraintName), err)
		}
	}
	return fmt.Errorf("%s %s: %w", resource, id, err)
}

func isForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgForeignKeyViolation
}

// expectOne turns an update that touched no row into a not-found error.
func expectOne(tag pgconn.CommandTag, resource, id string) error {
	if tag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError(resource, id)
	}
	return nil
}
