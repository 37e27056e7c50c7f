package pgsql

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/SscSPs/invoicing_app/internal/core/domain"
	portsrepo "github.com/SscSPs/invoicing_app/internal/core/ports/repositories"
)

const (
	billColumns = `bill_id, number, vendor_id, purchase_order_id, bill_date, due_date, status,
		net_amount, tax_amount, total_amount, journal_entry_id,
		created_at, created_by, last_updated_at, last_updated_by`
	invoiceColumns = `invoice_id, number, customer_id, sales_order_id, invoice_date, due_date, status,
		net_amount, tax_amount, total_amount, journal_entry_id,
		created_at, created_by, last_updated_at, last_updated_by`
)

// PgxDocumentRepository stores vendor bills, customer invoices and the
// orders they are raised from.
type PgxDocumentRepository struct {
	BaseRepository
}

func newPgxDocumentRepository(db DBTX) *PgxDocumentRepository {
	return &PgxDocumentRepository{BaseRepository: BaseRepository{DB: db}}
}

var (
	_ portsrepo.VendorBillRepository      = (*PgxDocumentRepository)(nil)
	_ portsrepo.CustomerInvoiceRepository = (*PgxDocumentRepository)(nil)
	_ portsrepo.PurchaseOrderRepository   = (*PgxDocumentRepository)(nil)
	_ portsrepo.SalesOrderRepository      = (*PgxDocumentRepository)(nil)
)

func scanBill(row pgx.Row) (domain.VendorBill, error) {
	var b domain.VendorBill
	err := row.Scan(
		&b.BillID,
		&b.Number,
		&b.VendorID,
		&b.PurchaseOrderID,
		&b.BillDate,
		&b.DueDate,
		&b.Status,
		&b.Net,
		&b.Tax,
		&b.Total,
		&b.JournalEntryID,
		&b.CreatedAt,
		&b.CreatedBy,
		&b.LastUpdatedAt,
		&b.LastUpdatedBy,
	)
	return b, err
}

// SaveBill inserts a bill header and its lines.
func (r *PgxDocumentRepository) SaveBill(ctx context.Context, bill domain.VendorBill) error {
	query := `INSERT INTO vendor_bills (` + billColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15);`
	_, err := r.DB.Exec(ctx, query,
		bill.BillID,
		bill.Number,
		bill.VendorID,
		bill.PurchaseOrderID,
		bill.BillDate,
		bill.DueDate,
		string(bill.Status),
		bill.Net,
		bill.Tax,
		bill.Total,
		bill.JournalEntryID,
		bill.CreatedAt,
		bill.CreatedBy,
		bill.LastUpdatedAt,
		bill.LastUpdatedBy,
	)
	if err != nil {
		return mapError(err, "vendor bill", bill.Number)
	}
	return billLines.save(ctx, r.DB, bill.BillID, bill.Lines)
}

func (r *PgxDocumentRepository) findBill(ctx context.Context, billID, lock string) (*domain.VendorBill, error) {
	b, err := scanBill(r.DB.QueryRow(ctx, `SELECT `+billColumns+` FROM vendor_bills WHERE bill_id = $1`+lock+`;`, billID))
	if err != nil {
		return nil, mapError(err, "vendor bill", billID)
	}
	lines, err := billLines.load(ctx, r.DB, []string{b.BillID})
	if err != nil {
		return nil, err
	}
	b.Lines = lines[b.BillID]
	return &b, nil
}

func (r *PgxDocumentRepository) FindBillByID(ctx context.Context, billID string) (*domain.VendorBill, error) {
	return r.findBill(ctx, billID, "")
}

// FindBillByIDForUpdate locks the bill row until the transaction ends.
func (r *PgxDocumentRepository) FindBillByIDForUpdate(ctx context.Context, billID string) (*domain.VendorBill, error) {
	return r.findBill(ctx, billID, " FOR UPDATE")
}

func (r *PgxDocumentRepository) ListBills(ctx context.Context, filter portsrepo.DocumentFilter) ([]domain.VendorBill, error) {
	query, args := documentListQuery(`SELECT `+billColumns+` FROM vendor_bills`, "vendor_id", "bill_date DESC, bill_id DESC", filter)
	rows, err := r.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query vendor bills: %w", err)
	}
	defer rows.Close()

	bills := []domain.VendorBill{}
	ids := []string{}
	for rows.Next() {
		b, err := scanBill(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan vendor bill: %w", err)
		}
		bills = append(bills, b)
		ids = append(ids, b.BillID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating vendor bills: %w", err)
	}
	lines, err := billLines.load(ctx, r.DB, ids)
	if err != nil {
		return nil, err
	}
	for i := range bills {
		bills[i].Lines = lines[bills[i].BillID]
	}
	return bills, nil
}

func (r *PgxDocumentRepository) UpdateBillStatus(ctx context.Context, billID string, change portsrepo.StatusChange) error {
	return statusUpdate(ctx, r.DB, "vendor_bills", "bill_id", "journal_entry_id", "", billID, change)
}

func scanInvoice(row pgx.Row) (domain.CustomerInvoice, error) {
	var inv domain.CustomerInvoice
	err := row.Scan(
		&inv.InvoiceID,
		&inv.Number,
		&inv.CustomerID,
		&inv.SalesOrderID,
		&inv.InvoiceDate,
		&inv.DueDate,
		&inv.Status,
		&inv.Net,
		&inv.Tax,
		&inv.Total,
		&inv.JournalEntryID,
		&inv.CreatedAt,
		&inv.CreatedBy,
		&inv.LastUpdatedAt,
		&inv.LastUpdatedBy,
	)
	return inv, err
}

// SaveInvoice inserts an invoice header and its lines.
func (r *PgxDocumentRepository) SaveInvoice(ctx context.Context, invoice domain.CustomerInvoice) error {
	query := `INSERT INTO customer_invoices (` + invoiceColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15);`
	_, err := r.DB.Exec(ctx, query,
		invoice.InvoiceID,
		invoice.Number,
		invoice.CustomerID,
		invoice.SalesOrderID,
		invoice.InvoiceDate,
		invoice.DueDate,
		string(invoice.Status),
		invoice.Net,
		invoice.Tax,
		invoice.Total,
		invoice.JournalEntryID,
		invoice.CreatedAt,
		invoice.CreatedBy,
		invoice.LastUpdatedAt,
		invoice.LastUpdatedBy,
	)
	if err != nil {
		return mapError(err, "customer invoice", invoice.Number)
	}
	return invoiceLines.save(ctx, r.DB, invoice.InvoiceID, invoice.Lines)
}

func (r *PgxDocumentRepository) findInvoice(ctx context.Context, invoiceID, lock string) (*domain.CustomerInvoice, error) {
	inv, err := scanInvoice(r.DB.QueryRow(ctx, `SELECT `+invoiceColumns+` FROM customer_invoices WHERE invoice_id = $1`+lock+`;`, invoiceID))
	if err != nil {
		return nil, mapError(err, "customer invoice", invoiceID)
	}
	lines, err := invoiceLines.load(ctx, r.DB, []string{inv.InvoiceID})
	if err != nil {
		return nil, err
	}
	inv.Lines = lines[inv.InvoiceID]
	return &inv, nil
}

func (r *PgxDocumentRepository) FindInvoiceByID(ctx context.Context, invoiceID string) (*domain.CustomerInvoice, error) {
	return r.findInvoice(ctx, invoiceID, "")
}

func (r *PgxDocumentRepository) FindInvoiceByIDForUpdate(ctx context.Context, invoiceID string) (*domain.CustomerInvoice, error) {
	return r.findInvoice(ctx, invoiceID, " FOR UPDATE")
}

func (r *PgxDocumentRepository) ListInvoices(ctx context.Context, filter portsrepo.DocumentFilter) ([]domain.CustomerInvoice, error) {
	query, args := documentListQuery(`SELECT `+invoiceColumns+` FROM customer_invoices`, "customer_id", "invoice_date DESC, invoice_id DESC", filter)
	rows, err := r.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query customer invoices: %w", err)
	}
	defer rows.Close()

	invoices := []domain.CustomerInvoice{}
	ids := []string{}
	for rows.Next() {
		inv, err := scanInvoice(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan customer invoice: %w", err)
		}
		invoices = append(invoices, inv)
		ids = append(ids, inv.InvoiceID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating customer invoices: %w", err)
	}
	lines, err := invoiceLines.load(ctx, r.DB, ids)
	if err != nil {
		return nil, err
	}
	for i := range invoices {
		invoices[i].Lines = lines[invoices[i].InvoiceID]
	}
	return invoices, nil
}

func (r *PgxDocumentRepository) UpdateInvoiceStatus(ctx context.Context, invoiceID string, change portsrepo.StatusChange) error {
	return statusUpdate(ctx, r.DB, "customer_invoices", "invoice_id", "journal_entry_id", "", invoiceID, change)
}
