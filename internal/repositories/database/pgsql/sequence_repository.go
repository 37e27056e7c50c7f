package pgsql

import (
	"context"
	"fmt"

	"github.com/SscSPs/invoicing_app/internal/core/domain"
	portsrepo "github.com/SscSPs/invoicing_app/internal/core/ports/repositories"
)

// scopeTables maps a sequence scope to the table whose number column it fills.
var scopeTables = map[domain.SequenceScope]string{
	domain.ScopePurchaseOrder:   "purchase_orders",
	domain.ScopeSalesOrder:      "sales_orders",
	domain.ScopeVendorBill:      "vendor_bills",
	domain.ScopeInvoice:         "customer_invoices",
	domain.ScopePayment:         "payments",
	domain.ScopeCustomerPayment: "customer_payments",
}

// PgxSequenceRepository keeps document counters in document_sequences.
type PgxSequenceRepository struct {
	BaseRepository
}

func newPgxSequenceRepository(db DBTX) *PgxSequenceRepository {
	return &PgxSequenceRepository{BaseRepository: BaseRepository{DB: db}}
}

var _ portsrepo.SequenceRepository = (*PgxSequenceRepository)(nil)

func tableForScope(scope domain.SequenceScope) (string, error) {
	table, ok := scopeTables[scope]
	if !ok {
		return "", fmt.Errorf("no table for sequence scope %q", scope)
	}
	return table, nil
}

func (r *PgxSequenceRepository) LockCounter(ctx context.Context, scope domain.SequenceScope, year int) (int, error) {
	table, err := tableForScope(scope)
	if err != nil {
		return 0, err
	}

	seed := `
		INSERT INTO document_sequences (scope, year, last_value)
		SELECT $1, $2, COALESCE(MAX(substr(number, length($3) + 1)::int), 0)
		FROM ` + table + `
		WHERE starts_with(number, $3) AND substr(number, length($3) + 1) ~ '^[0-9]{1,9}$'
		ON CONFLICT (scope, year) DO NOTHING;
	`
	if _, err := r.DB.Exec(ctx, seed, string(scope), year, domain.NumberPrefix(scope, year)); err != nil {
		return 0, fmt.Errorf("failed to seed %s/%d counter: %w", scope, year, err)
	}

	var last int
	query := `SELECT last_value FROM document_sequences WHERE scope = $1 AND year = $2 FOR UPDATE;`
	if err := r.DB.QueryRow(ctx, query, string(scope), year).Scan(&last); err != nil {
		return 0, mapError(err, "document sequence", fmt.Sprintf("%s/%d", scope, year))
	}
	return last, nil
}

func (r *PgxSequenceRepository) NumberExists(ctx context.Context, scope domain.SequenceScope, number string) (bool, error) {
	table, err := tableForScope(scope)
	if err != nil {
		return false, err
	}
	var exists bool
	query := `SELECT EXISTS (SELECT 1 FROM ` + table + ` WHERE number = $1);`
	if err := r.DB.QueryRow(ctx, query, number).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check %s number %s: %w", table, number, err)
	}
	return exists, nil
}

func (r *PgxSequenceRepository) StoreCounter(ctx context.Context, scope domain.SequenceScope, year int, value int) error {
	query := `UPDATE document_sequences SET last_value = $3 WHERE scope = $1 AND year = $2;`
	tag, err := r.DB.Exec(ctx, query, string(scope), year, value)
	if err != nil {
		return mapError(err, "document sequence", fmt.Sprintf("%s/%d", scope, year))
	}
	return expectOne(tag, "document sequence", fmt.Sprintf("%s/%d", scope, year))
}
