package pgsql

import (
	"context"
	"fmt"
	"time"

	"github.com/SscSPs/invoicing_app/internal/core/domain"
	portsrepo "github.com/SscSPs/invoicing_app/internal/core/ports/repositories"
)

// reportingRepository implements the ReportingRepository interface
type reportingRepository struct {
	BaseRepository
}

// newReportingRepository creates a new reporting repository
func newReportingRepository(db DBTX) portsrepo.ReportingRepository {
	return &reportingRepository{
		BaseRepository: BaseRepository{DB: db},
	}
}

// AccountTotals sums every account's lines inside the optional date window.
// The window sits in the join condition so accounts without lines still
// come back with zero totals.
func (r *reportingRepository) AccountTotals(ctx context.Context, from, to *time.Time) ([]domain.AccountTotals, error) {
	query := `
		SELECT
			a.account_id,
			a.name,
			a.account_type,
			COALESCE(a.code, ''),
			a.created_at,
			a.created_by,
			a.last_updated_at,
			a.last_updated_by,
			COALESCE(SUM(l.debit), 0) AS total_debit,
			COALESCE(SUM(l.credit), 0) AS total_credit
		FROM accounts a
		LEFT JOIN journal_lines l
			ON l.account_id = a.account_id
			AND ($1::date IS NULL OR l.line_date >= $1::date)
			AND ($2::date IS NULL OR l.line_date <= $2::date)
		GROUP BY a.account_id
		ORDER BY a.code NULLS LAST, a.name, a.account_id
	`

	rows, err := r.DB.Query(ctx, query, from, to)
	if err != nil {
		return nil, fmt.Errorf("error querying account totals: %w", err)
	}
	defer rows.Close()

	result := []domain.AccountTotals{}
	for rows.Next() {
		var row domain.AccountTotals
		var accountType string
		if err := rows.Scan(
			&row.AccountID,
			&row.Name,
			&accountType,
			&row.Code,
			&row.CreatedAt,
			&row.CreatedBy,
			&row.LastUpdatedAt,
			&row.LastUpdatedBy,
			&row.Debit,
			&row.Credit,
		); err != nil {
			return nil, fmt.Errorf("error scanning account totals row: %w", err)
		}
		row.AccountType = domain.AccountType(accountType)
		result = append(result, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating account totals rows: %w", err)
	}
	return result, nil
}

func (r *reportingRepository) PartnerLines(ctx context.Context, partner domain.Ref) ([]domain.PartnerLine, error) {
	query := `
		SELECT
			e.entry_id,
			e.entry_date,
			e.ref,
			l.account_id,
			a.name,
			l.debit,
			l.credit,
			COALESCE(NULLIF(l.narration, ''), e.narration)
		FROM journal_lines l
		JOIN journal_entries e ON e.entry_id = l.entry_id
		JOIN accounts a ON a.account_id = l.account_id
		WHERE l.partner_kind = $1 AND l.partner_id = $2
		ORDER BY e.entry_date, e.entry_id, l.line_no
	`

	rows, err := r.DB.Query(ctx, query, string(partner.Kind), partner.ID)
	if err != nil {
		return nil, fmt.Errorf("error querying partner lines: %w", err)
	}
	defer rows.Close()

	result := []domain.PartnerLine{}
	for rows.Next() {
		var pl domain.PartnerLine
		if err := rows.Scan(
			&pl.EntryID,
			&pl.Date,
			&pl.Ref,
			&pl.AccountID,
			&pl.AccountName,
			&pl.Debit,
			&pl.Credit,
			&pl.Narration,
		); err != nil {
			return nil, fmt.Errorf("error scanning partner line: %w", err)
		}
		result = append(result, pl)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating partner lines: %w", err)
	}
	return result, nil
}

func (r *reportingRepository) CountLinesBetween(ctx context.Context, from, to time.Time) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM journal_lines WHERE line_date BETWEEN $1::date AND $2::date;`
	if err := r.DB.QueryRow(ctx, query, from, to).Scan(&count); err != nil {
		return 0, fmt.Errorf("error counting lines: %w", err)
	}
	return count, nil
}
