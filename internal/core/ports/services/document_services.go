package services

import (
	"context"

	"github.com/SscSPs/invoicing_app/internal/core/domain"
	"github.com/SscSPs/invoicing_app/internal/dto"
)

// VendorBillSvc drives vendor bills through draft -> confirmed -> paid.
type VendorBillSvc interface {
	CreateBill(ctx context.Context, req dto.CreateBillRequest, userID string) (*domain.VendorBill, error)
	GetBill(ctx context.Context, billID string) (*domain.VendorBill, error)
	ListBills(ctx context.Context, params dto.ListDocumentsParams) ([]domain.VendorBill, error)
	// ConfirmBill posts the bill to the ledger exactly once.
	ConfirmBill(ctx context.Context, billID string, userID string) (*domain.VendorBill, *domain.JournalEntry, error)
	BillOutstanding(ctx context.Context, billID string) (*dto.OutstandingResponse, error)
}

// PaymentSvc records and posts vendor payments.
type PaymentSvc interface {
	CreatePayment(ctx context.Context, req dto.CreatePaymentRequest, userID string) (*domain.Payment, error)
	GetPayment(ctx context.Context, paymentID string) (*domain.Payment, error)
	ListPaymentsForBill(ctx context.Context, billID string) ([]domain.Payment, error)
	// PostPayment posts the payment, rejecting amounts above the bill's outstanding.
	PostPayment(ctx context.Context, paymentID string, userID string) (*domain.Payment, *domain.JournalEntry, error)
}

// CustomerInvoiceSvc drives customer invoices through draft -> confirmed -> paid.
type CustomerInvoiceSvc interface {
	CreateInvoice(ctx context.Context, req dto.CreateInvoiceRequest, userID string) (*domain.CustomerInvoice, error)
	GetInvoice(ctx context.Context, invoiceID string) (*domain.CustomerInvoice, error)
	ListInvoices(ctx context.Context, params dto.ListDocumentsParams) ([]domain.CustomerInvoice, error)
	ConfirmInvoice(ctx context.Context, invoiceID string, userID string) (*domain.CustomerInvoice, *domain.JournalEntry, error)
	InvoiceOutstanding(ctx context.Context, invoiceID string) (*dto.OutstandingResponse, error)
}

// CustomerPaymentSvc records and posts customer receipts.
type CustomerPaymentSvc interface {
	CreateCustomerPayment(ctx context.Context, req dto.CreateCustomerPaymentRequest, userID string) (*domain.CustomerPayment, error)
	GetCustomerPayment(ctx context.Context, paymentID string) (*domain.CustomerPayment, error)
	ListPaymentsForInvoice(ctx context.Context, invoiceID string) ([]domain.CustomerPayment, error)
	PostCustomerPayment(ctx context.Context, paymentID string, userID string) (*domain.CustomerPayment, *domain.JournalEntry, error)
}

// PurchaseOrderSvc drives purchase orders through draft -> sent -> cancelled.
type PurchaseOrderSvc interface {
	CreatePurchaseOrder(ctx context.Context, req dto.CreatePurchaseOrderRequest, userID string) (*domain.PurchaseOrder, error)
	GetPurchaseOrder(ctx context.Context, poID string) (*domain.PurchaseOrder, error)
	// ConvertToBill copies the order's lines into a new draft bill and marks the order sent.
	ConvertToBill(ctx context.Context, poID string, userID string) (*domain.PurchaseOrder, *domain.VendorBill, error)
	CancelPurchaseOrder(ctx context.Context, poID string, userID string) (*domain.PurchaseOrder, error)
}

// SalesOrderSvc drives sales orders through draft -> confirmed and invoices them.
type SalesOrderSvc interface {
	CreateSalesOrder(ctx context.Context, req dto.CreateSalesOrderRequest, userID string) (*domain.SalesOrder, error)
	GetSalesOrder(ctx context.Context, soID string) (*domain.SalesOrder, error)
	ConfirmSalesOrder(ctx context.Context, soID string, userID string) (*domain.SalesOrder, error)
	// CreateInvoiceFromOrder copies a confirmed order's lines into a new draft invoice.
	CreateInvoiceFromOrder(ctx context.Context, soID string, userID string) (*domain.SalesOrder, *domain.CustomerInvoice, error)
}
