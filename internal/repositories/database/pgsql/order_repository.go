package pgsql

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/SscSPs/invoicing_app/internal/core/domain"
	portsrepo "github.com/SscSPs/invoicing_app/internal/core/ports/repositories"
)

const (
	purchaseOrderColumns = `purchase_order_id, number, vendor_id, order_date, status,
		net_amount, tax_amount, total_amount, bill_id,
		created_at, created_by, last_updated_at, last_updated_by`
	salesOrderColumns = `sales_order_id, number, customer_id, order_date, status,
		net_amount, tax_amount, total_amount, invoice_id,
		created_at, created_by, last_updated_at, last_updated_by`
)

func scanPurchaseOrder(row pgx.Row) (domain.PurchaseOrder, error) {
	var po domain.PurchaseOrder
	err := row.Scan(
		&po.PurchaseOrderID,
		&po.Number,
		&po.VendorID,
		&po.OrderDate,
		&po.Status,
		&po.Net,
		&po.Tax,
		&po.Total,
		&po.BillID,
		&po.CreatedAt,
		&po.CreatedBy,
		&po.LastUpdatedAt,
		&po.LastUpdatedBy,
	)
	return po, err
}

// SavePurchaseOrder inserts an order header and its lines.
func (r *PgxDocumentRepository) SavePurchaseOrder(ctx context.Context, po domain.PurchaseOrder) error {
	query := `INSERT INTO purchase_orders (` + purchaseOrderColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13);`
	_, err := r.DB.Exec(ctx, query,
		po.PurchaseOrderID,
		po.Number,
		po.VendorID,
		po.OrderDate,
		string(po.Status),
		po.Net,
		po.Tax,
		po.Total,
		po.BillID,
		po.CreatedAt,
		po.CreatedBy,
		po.LastUpdatedAt,
		po.LastUpdatedBy,
	)
	if err != nil {
		return mapError(err, "purchase order", po.Number)
	}
	return purchaseLines.save(ctx, r.DB, po.PurchaseOrderID, po.Lines)
}

func (r *PgxDocumentRepository) findPurchaseOrder(ctx context.Context, poID, lock string) (*domain.PurchaseOrder, error) {
	po, err := scanPurchaseOrder(r.DB.QueryRow(ctx, `SELECT `+purchaseOrderColumns+` FROM purchase_orders WHERE purchase_order_id = $1`+lock+`;`, poID))
	if err != nil {
		return nil, mapError(err, "purchase order", poID)
	}
	lines, err := purchaseLines.load(ctx, r.DB, []string{po.PurchaseOrderID})
	if err != nil {
		return nil, err
	}
	po.Lines = lines[po.PurchaseOrderID]
	return &po, nil
}

func (r *PgxDocumentRepository) FindPurchaseOrderByID(ctx context.Context, poID string) (*domain.PurchaseOrder, error) {
	return r.findPurchaseOrder(ctx, poID, "")
}

func (r *PgxDocumentRepository) FindPurchaseOrderByIDForUpdate(ctx context.Context, poID string) (*domain.PurchaseOrder, error) {
	return r.findPurchaseOrder(ctx, poID, " FOR UPDATE")
}

func (r *PgxDocumentRepository) UpdatePurchaseOrderStatus(ctx context.Context, poID string, change portsrepo.StatusChange) error {
	return statusUpdate(ctx, r.DB, "purchase_orders", "purchase_order_id", "", "bill_id", poID, change)
}

func scanSalesOrder(row pgx.Row) (domain.SalesOrder, error) {
	var so domain.SalesOrder
	err := row.Scan(
		&so.SalesOrderID,
		&so.Number,
		&so.CustomerID,
		&so.OrderDate,
		&so.Status,
		&so.Net,
		&so.Tax,
		&so.Total,
		&so.InvoiceID,
		&so.CreatedAt,
		&so.CreatedBy,
		&so.LastUpdatedAt,
		&so.LastUpdatedBy,
	)
	return so, err
}

// SaveSalesOrder inserts an order header and its lines.
func (r *PgxDocumentRepository) SaveSalesOrder(ctx context.Context, so domain.SalesOrder) error {
	query := `INSERT INTO sales_orders (` + salesOrderColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13);`
	_, err := r.DB.Exec(ctx, query,
		so.SalesOrderID,
		so.Number,
		so.CustomerID,
		so.OrderDate,
		string(so.Status),
		so.Net,
		so.Tax,
		so.Total,
		so.InvoiceID,
		so.CreatedAt,
		so.CreatedBy,
		so.LastUpdatedAt,
		so.LastUpdatedBy,
	)
	if err != nil {
		return mapError(err, "sales order", so.Number)
	}
	return salesOrderLines.save(ctx, r.DB, so.SalesOrderID, so.Lines)
}

func (r *PgxDocumentRepository) findSalesOrder(ctx context.Context, soID, lock string) (*domain.SalesOrder, error) {
	so, err := scanSalesOrder(r.DB.QueryRow(ctx, `SELECT `+salesOrderColumns+` FROM sales_orders WHERE sales_order_id = $1`+lock+`;`, soID))
	if err != nil {
		return nil, mapError(err, "sales order", soID)
	}
	lines, err := salesOrderLines.load(ctx, r.DB, []string{so.SalesOrderID})
	if err != nil {
		return nil, err
	}
	so.Lines = lines[so.SalesOrderID]
	return &so, nil
}

func (r *PgxDocumentRepository) FindSalesOrderByID(ctx context.Context, soID string) (*domain.SalesOrder, error) {
	return r.findSalesOrder(ctx, soID, "")
}

func (r *PgxDocumentRepository) FindSalesOrderByIDForUpdate(ctx context.Context, soID string) (*domain.SalesOrder, error) {
	return r.findSalesOrder(ctx, soID, " FOR UPDATE")
}

func (r *PgxDocumentRepository) UpdateSalesOrderStatus(ctx context.Context, soID string, change portsrepo.StatusChange) error {
	return statusUpdate(ctx, r.DB, "sales_orders", "sales_order_id", "", "invoice_id", soID, change)
}
