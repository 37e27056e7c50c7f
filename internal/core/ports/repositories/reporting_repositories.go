package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/invoicing_app/internal/core/domain"
)

// ReportingRepository defines read-only queries over posted lines. None of
// them take locks.
type ReportingRepository interface {
	// AccountTotals sums debit and credit per account for lines dated within
	// [from, to]; nil bounds are open. Every account is returned, including
	// those without lines.
	AccountTotals(ctx context.Context, from, to *time.Time) ([]domain.AccountTotals, error)

	// PartnerLines returns the lines attributed to partner ordered by
	// (entry date, entry id, line number).
	PartnerLines(ctx context.Context, partner domain.Ref) ([]domain.PartnerLine, error)

	// CountLinesBetween counts lines dated within [from, to].
	CountLinesBetween(ctx context.Context, from, to time.Time) (int, error)
}
