package memory

import (
	"cmp"
	"context"
	"slices"
	"time"

	"github.com/shopspring/decimal"

	"github.com/SscSPs/invoicing_app/internal/core/domain"
)

func paymentsTable(st *state) map[string]domain.Payment { return st.payments }
func customerPaymentsTable(st *state) map[string]domain.CustomerPayment {
	return st.customerPayments
}

func (v *view) SavePayment(_ context.Context, p domain.Payment) error {
	return insert(v, paymentsTable, "payment", p.PaymentID, p.Number, p)
}

func (v *view) FindPaymentByID(_ context.Context, paymentID string) (*domain.Payment, error) {
	return find(v, paymentsTable, "payment", paymentID)
}

func (v *view) FindPaymentByIDForUpdate(ctx context.Context, paymentID string) (*domain.Payment, error) {
	return v.FindPaymentByID(ctx, paymentID)
}

func (v *view) ListPaymentsByBill(_ context.Context, billID string) ([]domain.Payment, error) {
	out := []domain.Payment{}
	err := v.read(func(st *state) error {
		for _, p := range st.payments {
			if p.BillID == billID {
				out = append(out, p)
			}
		}
		return nil
	})
	slices.SortFunc(out, func(a, b domain.Payment) int {
		return cmp.Or(a.PaymentDate.Compare(b.PaymentDate), cmp.Compare(a.PaymentID, b.PaymentID))
	})
	return out, err
}

func (v *view) SumPostedPaymentsForBill(_ context.Context, billID, excludeID string) (decimal.Decimal, error) {
	total := decimal.Zero
	err := v.read(func(st *state) error {
		for _, p := range st.payments {
			if p.BillID == billID && p.IsPosted() && p.PaymentID != excludeID {
				total = total.Add(p.Amount)
			}
		}
		return nil
	})
	return total, err
}

func (v *view) MarkPaymentPosted(_ context.Context, paymentID, journalEntryID string, postedAt time.Time, userID string) error {
	return update(v, paymentsTable, "payment", paymentID, func(p *domain.Payment) {
		if p.IsPosted() {
			return
		}
		p.JournalEntryID = &journalEntryID
		p.PostedAt = &postedAt
		p.LastUpdatedAt = postedAt
		p.LastUpdatedBy = userID
	})
}

func (v *view) SaveCustomerPayment(_ context.Context, p domain.CustomerPayment) error {
	return insert(v, customerPaymentsTable, "customer payment", p.PaymentID, p.Number, p)
}

func (v *view) FindCustomerPaymentByID(_ context.Context, paymentID string) (*domain.CustomerPayment, error) {
	return find(v, customerPaymentsTable, "customer payment", paymentID)
}

func (v *view) FindCustomerPaymentByIDForUpdate(ctx context.Context, paymentID string) (*domain.CustomerPayment, error) {
	return v.FindCustomerPaymentByID(ctx, paymentID)
}

func (v *view) ListCustomerPaymentsByInvoice(_ context.Context, invoiceID string) ([]domain.CustomerPayment, error) {
	out := []domain.CustomerPayment{}
	err := v.read(func(st *state) error {
		for _, p := range st.customerPayments {
			if p.InvoiceID == invoiceID {
				out = append(out, p)
			}
		}
		return nil
	})
	slices.SortFunc(out, func(a, b domain.CustomerPayment) int {
		return cmp.Or(a.PaymentDate.Compare(b.PaymentDate), cmp.Compare(a.PaymentID, b.PaymentID))
	})
	return out, err
}

func (v *view) SumPostedPaymentsForInvoice(_ context.Context, invoiceID, excludeID string) (decimal.Decimal, error) {
	total := decimal.Zero
	err := v.read(func(st *state) error {
		for _, p := range st.customerPayments {
			if p.InvoiceID == invoiceID && p.IsPosted() && p.PaymentID != excludeID {
				total = total.Add(p.Amount)
			}
		}
		return nil
	})
	return total, err
}

func (v *view) MarkCustomerPaymentPosted(_ context.Context, paymentID, journalEntryID string, postedAt time.Time, userID string) error {
	return update(v, customerPaymentsTable, "customer payment", paymentID, func(p *domain.CustomerPayment) {
		if p.IsPosted() {
			return
		}
		p.JournalEntryID = &journalEntryID
		p.PostedAt = &postedAt
		p.LastUpdatedAt = postedAt
		p.LastUpdatedBy = userID
	})
}
