package pgsql

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/SscSPs/invoicing_app/internal/core/domain"
	portsrepo "github.com/SscSPs/invoicing_app/internal/core/ports/repositories"
)

const (
	paymentColumns = `payment_id, number, bill_id, vendor_id, payment_date, amount, settlement_account_id,
		method, reference, journal_entry_id, posted_at,
		created_at, created_by, last_updated_at, last_updated_by`
	customerPaymentColumns = `payment_id, number, invoice_id, customer_id, payment_date, amount, settlement_account_id,
		method, reference, journal_entry_id, posted_at,
		created_at, created_by, last_updated_at, last_updated_by`
)

// PgxPaymentRepository stores vendor payments and customer receipts.
type PgxPaymentRepository struct {
	BaseRepository
}

func newPgxPaymentRepository(db DBTX) *PgxPaymentRepository {
	return &PgxPaymentRepository{BaseRepository: BaseRepository{DB: db}}
}

var (
	_ portsrepo.PaymentRepository         = (*PgxPaymentRepository)(nil)
	_ portsrepo.CustomerPaymentRepository = (*PgxPaymentRepository)(nil)
)

func scanPayment(row pgx.Row) (domain.Payment, error) {
	var p domain.Payment
	err := row.Scan(
		&p.PaymentID,
		&p.Number,
		&p.BillID,
		&p.VendorID,
		&p.PaymentDate,
		&p.Amount,
		&p.SettlementAccountID,
		&p.Method,
		&p.Reference,
		&p.JournalEntryID,
		&p.PostedAt,
		&p.CreatedAt,
		&p.CreatedBy,
		&p.LastUpdatedAt,
		&p.LastUpdatedBy,
	)
	return p, err
}

func (r *PgxPaymentRepository) SavePayment(ctx context.Context, p domain.Payment) error {
	query := `INSERT INTO payments (` + paymentColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15);`
	_, err := r.DB.Exec(ctx, query,
		p.PaymentID,
		p.Number,
		p.BillID,
		p.VendorID,
		p.PaymentDate,
		p.Amount,
		p.SettlementAccountID,
		string(p.Method),
		p.Reference,
		p.JournalEntryID,
		p.PostedAt,
		p.CreatedAt,
		p.CreatedBy,
		p.LastUpdatedAt,
		p.LastUpdatedBy,
	)
	return mapError(err, "payment", p.Number)
}

func (r *PgxPaymentRepository) FindPaymentByID(ctx context.Context, paymentID string) (*domain.Payment, error) {
	p, err := scanPayment(r.DB.QueryRow(ctx, `SELECT `+paymentColumns+` FROM payments WHERE payment_id = $1;`, paymentID))
	if err != nil {
		return nil, mapError(err, "payment", paymentID)
	}
	return &p, nil
}

// FindPaymentByIDForUpdate locks the payment row until the transaction ends.
func (r *PgxPaymentRepository) FindPaymentByIDForUpdate(ctx context.Context, paymentID string) (*domain.Payment, error) {
	p, err := scanPayment(r.DB.QueryRow(ctx, `SELECT `+paymentColumns+` FROM payments WHERE payment_id = $1 FOR UPDATE;`, paymentID))
	if err != nil {
		return nil, mapError(err, "payment", paymentID)
	}
	return &p, nil
}

func (r *PgxPaymentRepository) ListPaymentsByBill(ctx context.Context, billID string) ([]domain.Payment, error) {
	rows, err := r.DB.Query(ctx, `SELECT `+paymentColumns+` FROM payments WHERE bill_id = $1 ORDER BY payment_date, payment_id;`, billID)
	if err != nil {
		return nil, fmt.Errorf("failed to query payments: %w", err)
	}
	defer rows.Close()

	payments := []domain.Payment{}
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan payment: %w", err)
		}
		payments = append(payments, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating payments: %w", err)
	}
	return payments, nil
}

// SumPostedPaymentsForBill totals posted payments of a bill, skipping excludeID.
func (r *PgxPaymentRepository) SumPostedPaymentsForBill(ctx context.Context, billID, excludeID string) (decimal.Decimal, error) {
	return r.sumPosted(ctx, "payments", "bill_id", billID, excludeID)
}

func (r *PgxPaymentRepository) MarkPaymentPosted(ctx context.Context, paymentID, journalEntryID string, postedAt time.Time, userID string) error {
	return r.markPosted(ctx, "payments", paymentID, journalEntryID, postedAt, userID)
}

func scanCustomerPayment(row pgx.Row) (domain.CustomerPayment, error) {
	var p domain.CustomerPayment
	err := row.Scan(
		&p.PaymentID,
		&p.Number,
		&p.InvoiceID,
		&p.CustomerID,
		&p.PaymentDate,
		&p.Amount,
		&p.SettlementAccountID,
		&p.Method,
		&p.Reference,
		&p.JournalEntryID,
		&p.PostedAt,
		&p.CreatedAt,
		&p.CreatedBy,
		&p.LastUpdatedAt,
		&p.LastUpdatedBy,
	)
	return p, err
}

func (r *PgxPaymentRepository) SaveCustomerPayment(ctx context.Context, p domain.CustomerPayment) error {
	query := `INSERT INTO customer_payments (` + customerPaymentColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15);`
	_, err := r.DB.Exec(ctx, query,
		p.PaymentID,
		p.Number,
		p.InvoiceID,
		p.CustomerID,
		p.PaymentDate,
		p.Amount,
		p.SettlementAccountID,
		string(p.Method),
		p.Reference,
		p.JournalEntryID,
		p.PostedAt,
		p.CreatedAt,
		p.CreatedBy,
		p.LastUpdatedAt,
		p.LastUpdatedBy,
	)
	return mapError(err, "customer payment", p.Number)
}

func (r *PgxPaymentRepository) FindCustomerPaymentByID(ctx context.Context, paymentID string) (*domain.CustomerPayment, error) {
	p, err := scanCustomerPayment(r.DB.QueryRow(ctx, `SELECT `+customerPaymentColumns+` FROM customer_payments WHERE payment_id = $1;`, paymentID))
	if err != nil {
		return nil, mapError(err, "customer payment", paymentID)
	}
	return &p, nil
}

func (r *PgxPaymentRepository) FindCustomerPaymentByIDForUpdate(ctx context.Context, paymentID string) (*domain.CustomerPayment, error) {
	p, err := scanCustomerPayment(r.DB.QueryRow(ctx, `SELECT `+customerPaymentColumns+` FROM customer_payments WHERE payment_id = $1 FOR UPDATE;`, paymentID))
	if err != nil {
		return nil, mapError(err, "customer payment", paymentID)
	}
	return &p, nil
}

func (r *PgxPaymentRepository) ListCustomerPaymentsByInvoice(ctx context.Context, invoiceID string) ([]domain.CustomerPayment, error) {
	rows, err := r.DB.Query(ctx, `SELECT `+customerPaymentColumns+` FROM customer_payments WHERE invoice_id = $1 ORDER BY payment_date, payment_id;`, invoiceID)
	if err != nil {
		return nil, fmt.Errorf("failed to query customer payments: %w", err)
	}
	defer rows.Close()

	payments := []domain.CustomerPayment{}
	for rows.Next() {
		p, err := scanCustomerPayment(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan customer payment: %w", err)
		}
		payments = append(payments, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating customer payments: %w", err)
	}
	return payments, nil
}

func (r *PgxPaymentRepository) SumPostedPaymentsForInvoice(ctx context.Context, invoiceID, excludeID string) (decimal.Decimal, error) {
	return r.sumPosted(ctx, "customer_payments", "invoice_id", invoiceID, excludeID)
}

func (r *PgxPaymentRepository) MarkCustomerPaymentPosted(ctx context.Context, paymentID, journalEntryID string, postedAt time.Time, userID string) error {
	return r.markPosted(ctx, "customer_payments", paymentID, journalEntryID, postedAt, userID)
}

func (r *PgxPaymentRepository) sumPosted(ctx context.Context, table, docColumn, docID, excludeID string) (decimal.Decimal, error) {
	query := `SELECT COALESCE(SUM(amount), 0) FROM ` + table + `
		WHERE ` + docColumn + ` = $1 AND journal_entry_id IS NOT NULL AND payment_id::text <> $2;`
	var total decimal.Decimal
	if err := r.DB.QueryRow(ctx, query, docID, excludeID).Scan(&total); err != nil {
		return decimal.Zero, fmt.Errorf("failed to sum %s of %s: %w", table, docID, err)
	}
	return total, nil
}

// markPosted sets the entry link once; a second call finds no unposted row.
func (r *PgxPaymentRepository) markPosted(ctx context.Context, table, paymentID, journalEntryID string, postedAt time.Time, userID string) error {
	query := `UPDATE ` + table + `
		SET journal_entry_id = $2, posted_at = $3, last_updated_at = $3, last_updated_by = $4
		WHERE payment_id = $1 AND journal_entry_id IS NULL;`
	tag, err := r.DB.Exec(ctx, query, paymentID, journalEntryID, postedAt, userID)
	if err != nil {
		return mapError(err, table, paymentID)
	}
	return expectOne(tag, table, paymentID)
}
