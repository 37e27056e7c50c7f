package memory

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/SscSPs/invoicing_app/internal/apperrors"
	"github.com/SscSPs/invoicing_app/internal/core/domain"
	portsrepo "github.com/SscSPs/invoicing_app/internal/core/ports/repositories"
)

func find[T any](v *view, table func(*state) map[string]T, resource, id string) (*T, error) {
	var out *T
	err := v.read(func(st *state) error {
		row, ok := table(st)[id]
		if !ok {
			return apperrors.NewNotFoundError(resource, id)
		}
		out = &row
		return nil
	})
	return out, err
}

// insert stores a numbered row; numbers are unique across all tables since
// each carries its scope prefix.
func insert[T any](v *view, table func(*state) map[string]T, resource, id, number string, row T) error {
	return v.write(func(st *state) error {
		rows := table(st)
		if _, ok := rows[id]; ok {
			return fmt.Errorf("%w: %s %s", apperrors.ErrDuplicate, resource, id)
		}
		if _, ok := st.numbers[number]; ok {
			return fmt.Errorf("%w: %s %s", apperrors.ErrDuplicate, resource, number)
		}
		rows[id] = row
		st.numbers[number] = struct{}{}
		return nil
	})
}

func update[T any](v *view, table func(*state) map[string]T, resource, id string, apply func(*T)) error {
	return v.write(func(st *state) error {
		rows := table(st)
		row, ok := rows[id]
		if !ok {
			return apperrors.NewNotFoundError(resource, id)
		}
		apply(&row)
		rows[id] = row
		return nil
	})
}

// docMeta is what a list filter and its ordering look at.
type docMeta struct {
	id      string
	partner string
	date    time.Time
	status  domain.DocumentStatus
}

func list[T any](v *view, table func(*state) map[string]T, meta func(T) docMeta, filter portsrepo.DocumentFilter) ([]T, error) {
	out := []T{}
	err := v.read(func(st *state) error {
		for _, row := range table(st) {
			m := meta(row)
			if filter.Status != nil && m.status != *filter.Status {
				continue
			}
			if filter.PartnerID != "" && m.partner != filter.PartnerID {
				continue
			}
			out = append(out, row)
		}
		return nil
	})
	slices.SortFunc(out, func(a, b T) int {
		ma, mb := meta(a), meta(b)
		return cmp.Or(mb.date.Compare(ma.date), cmp.Compare(mb.id, ma.id))
	})
	if filter.Limit > 0 && len(out) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out, err
}

func stamp(status *domain.DocumentStatus, audit *domain.AuditFields, change portsrepo.StatusChange) {
	*status = change.Status
	audit.LastUpdatedAt = change.UpdatedAt
	audit.LastUpdatedBy = change.UpdatedBy
}

func billsTable(st *state) map[string]domain.VendorBill { return st.bills }
func invoicesTable(st *state) map[string]domain.CustomerInvoice { return st.invoices }
func purchaseOrdersTable(st *state) map[string]domain.PurchaseOrder { return st.purchaseOrders }
func salesOrdersTable(st *state) map[string]domain.SalesOrder { return st.salesOrders }

func (v *view) SaveBill(_ context.Context, bill domain.VendorBill) error {
	bill.Lines = slices.Clone(bill.Lines)
	return insert(v, billsTable, "vendor bill", bill.BillID, bill.Number, bill)
}

func (v *view) FindBillByID(_ context.Context, billID string) (*domain.VendorBill, error) {
	return find(v, billsTable, "vendor bill", billID)
}

func (v *view) FindBillByIDForUpdate(ctx context.Context, billID string) (*domain.VendorBill, error) {
	return v.FindBillByID(ctx, billID)
}

func (v *view) ListBills(_ context.Context, filter portsrepo.DocumentFilter) ([]domain.VendorBill, error) {
	return list(v, billsTable, func(b domain.VendorBill) docMeta {
		return docMeta{id: b.BillID, partner: b.VendorID, date: b.BillDate, status: b.Status}
	}, filter)
}

func (v *view) UpdateBillStatus(_ context.Context, billID string, change portsrepo.StatusChange) error {
	return update(v, billsTable, "vendor bill", billID, func(b *domain.VendorBill) {
		stamp(&b.Status, &b.AuditFields, change)
		if change.JournalEntryID != nil {
			id := *change.JournalEntryID
			b.JournalEntryID = &id
		}
	})
}

func (v *view) SaveInvoice(_ context.Context, invoice domain.CustomerInvoice) error {
	invoice.Lines = slices.Clone(invoice.Lines)
	return insert(v, invoicesTable, "customer invoice", invoice.InvoiceID, invoice.Number, invoice)
}

func (v *view) FindInvoiceByID(_ context.Context, invoiceID string) (*domain.CustomerInvoice, error) {
	return find(v, invoicesTable, "customer invoice", invoiceID)
}

func (v *view) FindInvoiceByIDForUpdate(ctx context.Context, invoiceID string) (*domain.CustomerInvoice, error) {
	return v.FindInvoiceByID(ctx, invoiceID)
}

func (v *view) ListInvoices(_ context.Context, filter portsrepo.DocumentFilter) ([]domain.CustomerInvoice, error) {
	return list(v, invoicesTable, func(i domain.CustomerInvoice) docMeta {
		return docMeta{id: i.InvoiceID, partner: i.CustomerID, date: i.InvoiceDate, status: i.Status}
	}, filter)
}

func (v *view) UpdateInvoiceStatus(_ context.Context, invoiceID string, change portsrepo.StatusChange) error {
	return update(v, invoicesTable, "customer invoice", invoiceID, func(i *domain.CustomerInvoice) {
		stamp(&i.Status, &i.AuditFields, change)
		if change.JournalEntryID != nil {
			id := *change.JournalEntryID
			i.JournalEntryID = &id
		}
	})
}

func (v *view) SavePurchaseOrder(_ context.Context, po domain.PurchaseOrder) error {
	po.Lines = slices.Clone(po.Lines)
	return insert(v, purchaseOrdersTable, "purchase order", po.PurchaseOrderID, po.Number, po)
}

func (v *view) FindPurchaseOrderByID(_ context.Context, poID string) (*domain.PurchaseOrder, error) {
	return find(v, purchaseOrdersTable, "purchase order", poID)
}

func (v *view) FindPurchaseOrderByIDForUpdate(ctx context.Context, poID string) (*domain.PurchaseOrder, error) {
	return v.FindPurchaseOrderByID(ctx, poID)
}

func (v *view) UpdatePurchaseOrderStatus(_ context.Context, poID string, change portsrepo.StatusChange) error {
	return update(v, purchaseOrdersTable, "purchase order", poID, func(po *domain.PurchaseOrder) {
		stamp(&po.Status, &po.AuditFields, change)
		if change.LinkedID != nil {
			id := *change.LinkedID
			po.BillID = &id
		}
	})
}

func (v *view) SaveSalesOrder(_ context.Context, so domain.SalesOrder) error {
	so.Lines = slices.Clone(so.Lines)
	return insert(v, salesOrdersTable, "sales order", so.SalesOrderID, so.Number, so)
}

func (v *view) FindSalesOrderByID(_ context.Context, soID string) (*domain.SalesOrder, error) {
	return find(v, salesOrdersTable, "sales order", soID)
}

func (v *view) FindSalesOrderByIDForUpdate(ctx context.Context, soID string) (*domain.SalesOrder, error) {
	return v.FindSalesOrderByID(ctx, soID)
}

func (v *view) UpdateSalesOrderStatus(_ context.Context, soID string, change portsrepo.StatusChange) error {
	return update(v, salesOrdersTable, "sales order", soID, func(so *domain.SalesOrder) {
		stamp(&so.Status, &so.AuditFields, change)
		if change.LinkedID != nil {
			id := *change.LinkedID
			so.InvoiceID = &id
		}
	})
}
