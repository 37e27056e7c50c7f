package pgsql

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/SscSPs/invoicing_app/internal/core/domain"
	portsrepo "github.com/SscSPs/invoicing_app/internal/core/ports/repositories"
)

// lineTable names a document line table and its parent key column.
type lineTable struct {
	table string
	fk    string
}

var (
	billLines       = lineTable{table: "vendor_bill_lines", fk: "bill_id"}
	invoiceLines    = lineTable{table: "customer_invoice_lines", fk: "invoice_id"}
	purchaseLines   = lineTable{table: "purchase_order_lines", fk: "purchase_order_id"}
	salesOrderLines = lineTable{table: "sales_order_lines", fk: "sales_order_id"}
)

const docLineColumns = `line_id, line_no, product_id, description, quantity, unit_price, tax_percent, net_amount, tax_amount, line_total`

func (t lineTable) save(ctx context.Context, db DBTX, docID string, lines []domain.DocumentLine) error {
	if len(lines) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	query := `INSERT INTO ` + t.table + ` (` + t.fk + `, ` + docLineColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11);`
	for _, l := range lines {
		var productID *string
		if l.ProductID != "" {
			productID = &l.ProductID
		}
		batch.Queue(query,
			docID,
			l.LineID,
			l.LineNo,
			productID,
			l.Description,
			l.Quantity,
			l.UnitPrice,
			l.TaxPercent,
			l.NetAmount,
			l.TaxAmount,
			l.LineTotal,
		)
	}
	if err := db.SendBatch(ctx, batch).Close(); err != nil {
		return mapError(err, t.table, docID)
	}
	return nil
}

// load returns the lines of the given documents keyed by document id.
func (t lineTable) load(ctx context.Context, db DBTX, docIDs []string) (map[string][]domain.DocumentLine, error) {
	out := make(map[string][]domain.DocumentLine, len(docIDs))
	if len(docIDs) == 0 {
		return out, nil
	}
	query := `SELECT ` + t.fk + `, line_id, line_no, COALESCE(product_id::text, ''), description,
			quantity, unit_price, tax_percent, net_amount, tax_amount, line_total
		FROM ` + t.table + `
		WHERE ` + t.fk + ` = ANY($1)
		ORDER BY ` + t.fk + `, line_no;`
	rows, err := db.Query(ctx, query, docIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to query %s: %w", t.table, err)
	}
	defer rows.Close()

	for rows.Next() {
		var docID string
		var l domain.DocumentLine
		if err := rows.Scan(
			&docID,
			&l.LineID,
			&l.LineNo,
			&l.ProductID,
			&l.Description,
			&l.Quantity,
			&l.UnitPrice,
			&l.TaxPercent,
			&l.NetAmount,
			&l.TaxAmount,
			&l.LineTotal,
		); err != nil {
			return nil, fmt.Errorf("failed to scan %s row: %w", t.table, err)
		}
		out[docID] = append(out[docID], l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating %s rows: %w", t.table, err)
	}
	return out, nil
}

// documentListQuery appends the filter to a SELECT over a document table.
func documentListQuery(base, partnerColumn, orderBy string, filter portsrepo.DocumentFilter) (string, []any) {
	var where []string
	var args []any
	if filter.Status != nil {
		args = append(args, string(*filter.Status))
		where = append(where, "status = $"+strconv.Itoa(len(args)))
	}
	if filter.PartnerID != "" {
		args = append(args, filter.PartnerID)
		where = append(where, partnerColumn+" = $"+strconv.Itoa(len(args)))
	}
	query := base
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY " + orderBy
	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		query += " LIMIT $" + strconv.Itoa(len(args))
	}
	return query + ";", args
}

// statusUpdate writes a StatusChange onto a document table. entryColumn and
// linkColumn name the columns JournalEntryID and LinkedID fill; empty means
// the table has no such column.
func statusUpdate(ctx context.Context, db DBTX, table, idColumn, entryColumn, linkColumn, id string, change portsrepo.StatusChange) error {
	args := []any{id, string(change.Status), change.UpdatedAt, change.UpdatedBy}
	set := []string{"status = $2", "last_updated_at = $3", "last_updated_by = $4"}
	if entryColumn != "" && change.JournalEntryID != nil {
		args = append(args, *change.JournalEntryID)
		set = append(set, entryColumn+" = $"+strconv.Itoa(len(args)))
	}
	if linkColumn != "" && change.LinkedID != nil {
		args = append(args, *change.LinkedID)
		set = append(set, linkColumn+" = $"+strconv.Itoa(len(args)))
	}
	query := `UPDATE ` + table + ` SET ` + strings.Join(set, ", ") + ` WHERE ` + idColumn + ` = $1;`
	tag, err := db.Exec(ctx, query, args...)
	if err != nil {
		return mapError(err, table, id)
	}
	return expectOne(tag, table, id)
}
