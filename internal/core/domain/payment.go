package domain

import (
	"time"

	"github.com/SscSPs/invoicing_app/internal/apperrors"
	"github.com/shopspring/decimal"
)

// PaymentMethod is how money moved.
type PaymentMethod string

const (
	MethodCash   PaymentMethod = "cash"
	MethodBank   PaymentMethod = "bank"
	MethodUPI    PaymentMethod = "upi"
	MethodCard   PaymentMethod = "card"
	MethodCheque PaymentMethod = "cheque"
	MethodOther  PaymentMethod = "other"
)

// Valid reports whether m is a known method.
func (m PaymentMethod) Valid() bool {
	switch m {
	case MethodCash, MethodBank, MethodUPI, MethodCard, MethodCheque, MethodOther:
		return true
	}
	return false
}

// Payment settles (part of) a vendor bill. Posting is one-way.
type Payment struct {
	PaymentID           string          `json:"paymentID"`
	Number              string          `json:"number"`
	BillID              string          `json:"billID"`
	VendorID            string          `json:"vendorID"`
	PaymentDate         time.Time       `json:"paymentDate"`
	Amount              decimal.Decimal `json:"amount"`
	SettlementAccountID string          `json:"settlementAccountID"`
	Method              PaymentMethod   `json:"method"`
	Reference           string          `json:"reference,omitempty"`
	JournalEntryID      *string         `json:"journalEntryID,omitempty"`
	PostedAt            *time.Time      `json:"postedAt,omitempty"`
	AuditFields
}

// IsPosted reports whether the payment has been posted to the ledger.
func (p Payment) IsPosted() bool { return p.JournalEntryID != nil }

// CustomerPayment settles (part of) a customer invoice.
type CustomerPayment struct {
	PaymentID           string          `json:"paymentID"`
	Number              string          `json:"number"`
	InvoiceID           string          `json:"invoiceID"`
	CustomerID          string          `json:"customerID"`
	PaymentDate         time.Time       `json:"paymentDate"`
	Amount              decimal.Decimal `json:"amount"`
	SettlementAccountID string          `json:"settlementAccountID"`
	Method              PaymentMethod   `json:"method"`
	Reference           string          `json:"reference,omitempty"`
	JournalEntryID      *string         `json:"journalEntryID,omitempty"`
	PostedAt            *time.Time      `json:"postedAt,omitempty"`
	AuditFields
}

// IsPosted reports whether the payment has been posted to the ledger.
func (p CustomerPayment) IsPosted() bool { return p.JournalEntryID != nil }

// Outstanding is total minus what has been settled, never below zero.
func Outstanding(total, settled decimal.Decimal) decimal.Decimal {
	out := total.Sub(settled)
	if out.IsNegative() {
		return decimal.Zero
	}
	return out
}

func lineError(lineNo int, reason string) error {
	return apperrors.NewValidationError("line %d: %s", lineNo, reason)
}
