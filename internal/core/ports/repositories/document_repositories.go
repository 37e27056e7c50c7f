package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/invoicing_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// DocumentFilter narrows list queries.
type DocumentFilter struct {
	Status    *domain.DocumentStatus
	PartnerID string
	Limit     int
}

// StatusChange is the header update written by a lifecycle transition.
type StatusChange struct {
	Status         domain.DocumentStatus
	JournalEntryID *string
	LinkedID       *string
	UpdatedBy      string
	UpdatedAt      time.Time
}

// VendorBillRepository persists vendor bills and their lines.
type VendorBillRepository interface {
	SaveBill(ctx context.Context, bill domain.VendorBill) error
	FindBillByID(ctx context.Context, billID string) (*domain.VendorBill, error)
	// FindBillByIDForUpdate locks the bill row until the transaction ends.
	FindBillByIDForUpdate(ctx context.Context, billID string) (*domain.VendorBill, error)
	ListBills(ctx context.Context, filter DocumentFilter) ([]domain.VendorBill, error)
	// UpdateBillStatus writes status and, when non-nil, the journal entry id.
	UpdateBillStatus(ctx context.Context, billID string, change StatusChange) error
}

// PaymentRepository persists vendor payments.
type PaymentRepository interface {
	SavePayment(ctx context.Context, payment domain.Payment) error
	FindPaymentByID(ctx context.Context, paymentID string) (*domain.Payment, error)
	FindPaymentByIDForUpdate(ctx context.Context, paymentID string) (*domain.Payment, error)
	ListPaymentsByBill(ctx context.Context, billID string) ([]domain.Payment, error)
	// SumPostedPaymentsForBill totals posted payments of a bill, skipping excludeID.
	SumPostedPaymentsForBill(ctx context.Context, billID, excludeID string) (decimal.Decimal, error)
	MarkPaymentPosted(ctx context.Context, paymentID, journalEntryID string, postedAt time.Time, userID string) error
}

// CustomerInvoiceRepository persists customer invoices and their lines.
type CustomerInvoiceRepository interface {
	SaveInvoice(ctx context.Context, invoice domain.CustomerInvoice) error
	FindInvoiceByID(ctx context.Context, invoiceID string) (*domain.CustomerInvoice, error)
	FindInvoiceByIDForUpdate(ctx context.Context, invoiceID string) (*domain.CustomerInvoice, error)
	ListInvoices(ctx context.Context, filter DocumentFilter) ([]domain.CustomerInvoice, error)
	UpdateInvoiceStatus(ctx context.Context, invoiceID string, change StatusChange) error
}

// CustomerPaymentRepository persists customer payments.
type CustomerPaymentRepository interface {
	SaveCustomerPayment(ctx context.Context, payment domain.CustomerPayment) error
	FindCustomerPaymentByID(ctx context.Context, paymentID string) (*domain.CustomerPayment, error)
	FindCustomerPaymentByIDForUpdate(ctx context.Context, paymentID string) (*domain.CustomerPayment, error)
	ListCustomerPaymentsByInvoice(ctx context.Context, invoiceID string) ([]domain.CustomerPayment, error)
	SumPostedPaymentsForInvoice(ctx context.Context, invoiceID, excludeID string) (decimal.Decimal, error)
	MarkCustomerPaymentPosted(ctx context.Context, paymentID, journalEntryID string, postedAt time.Time, userID string) error
}

// PurchaseOrderRepository persists purchase orders and their lines.
type PurchaseOrderRepository interface {
	SavePurchaseOrder(ctx context.Context, po domain.PurchaseOrder) error
	FindPurchaseOrderByID(ctx context.Context, poID string) (*domain.PurchaseOrder, error)
	FindPurchaseOrderByIDForUpdate(ctx context.Context, poID string) (*domain.PurchaseOrder, error)
	// UpdatePurchaseOrderStatus writes status and, when LinkedID is set, the bill id.
	UpdatePurchaseOrderStatus(ctx context.Context, poID string, change StatusChange) error
}

// SalesOrderRepository persists sales orders and their lines.
type SalesOrderRepository interface {
	SaveSalesOrder(ctx context.Context, so domain.SalesOrder) error
	FindSalesOrderByID(ctx context.Context, soID string) (*domain.SalesOrder, error)
	FindSalesOrderByIDForUpdate(ctx context.Context, soID string) (*domain.SalesOrder, error)
	// UpdateSalesOrderStatus writes status and, when LinkedID is set, the invoice id.
	UpdateSalesOrderStatus(ctx context.Context, soID string, change StatusChange) error
}
