package dto

import (
	"time"

	"github.com/SscSPs/invoicing_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreatePaymentRequest defines the data needed to record a vendor payment.
type CreatePaymentRequest struct {
	BillID              string               `json:"billID" binding:"required"`
	PaymentDate         time.Time            `json:"paymentDate" binding:"required"`
	Amount              decimal.Decimal      `json:"amount" binding:"dgt0"`
	SettlementAccountID string               `json:"settlementAccountID" binding:"required"`
	Method              domain.PaymentMethod `json:"method" binding:"required,oneof=cash bank upi card cheque other"`
	Reference           string               `json:"reference" binding:"max=100"`
}

// CreateCustomerPaymentRequest defines the data needed to record a customer receipt.
type CreateCustomerPaymentRequest struct {
	InvoiceID           string               `json:"invoiceID" binding:"required"`
	PaymentDate         time.Time            `json:"paymentDate" binding:"required"`
	Amount              decimal.Decimal      `json:"amount" binding:"dgt0"`
	SettlementAccountID string               `json:"settlementAccountID" binding:"required"`
	Method              domain.PaymentMethod `json:"method" binding:"required,oneof=cash bank upi card cheque other"`
	Reference           string               `json:"reference" binding:"max=100"`
}

// ListPaymentsResponse wraps payments of one bill.
type ListPaymentsResponse struct {
	Payments []domain.Payment `json:"payments"`
}

// ListCustomerPaymentsResponse wraps payments of one invoice.
type ListCustomerPaymentsResponse struct {
	Payments []domain.CustomerPayment `json:"payments"`
}
