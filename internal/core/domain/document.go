package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// DocumentStatus is the lifecycle state of a business document.
type DocumentStatus string

const (
	StatusDraft     DocumentStatus = "draft"
	StatusSent      DocumentStatus = "sent"
	StatusConfirmed DocumentStatus = "confirmed"
	StatusPaid      DocumentStatus = "paid"
	StatusCancelled DocumentStatus = "cancelled"
)

// MoneyPlaces is the number of decimal places stored for money amounts.
const MoneyPlaces = 2

// RoundMoney rounds half away from zero to two places. Amounts are never
// negative here, so this is round-half-up.
func RoundMoney(d decimal.Decimal) decimal.Decimal {
	return d.Round(MoneyPlaces)
}

// Places stored for line inputs; finer inputs are rejected rather than
// rounded so a stored line always recomputes to its stored amounts.
const (
	QuantityPlaces   = 4
	UnitPricePlaces  = MoneyPlaces
	TaxPercentPlaces = 3
)

var hundred = decimal.NewFromInt(100)

func fitsPlaces(d decimal.Decimal, places int32) bool {
	return d.Equal(d.Truncate(places))
}

// DocumentLine is an item on a bill, invoice or order. The amount fields
// are computed once by NewDocumentLine and stored as-is.
type DocumentLine struct {
	LineID      string          `json:"lineID"`
	LineNo      int             `json:"lineNo"`
	ProductID   string          `json:"productID,omitempty"`
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
	TaxPercent  decimal.Decimal `json:"taxPercent"`
	NetAmount   decimal.Decimal `json:"netAmount"`
	TaxAmount   decimal.Decimal `json:"taxAmount"`
	LineTotal   decimal.Decimal `json:"lineTotal"`
}

// LineAmounts derives net, tax and total for a line, each rounded to cents.
func LineAmounts(qty, unitPrice, taxPercent decimal.Decimal) (net, tax, total decimal.Decimal) {
	gross := unitPrice.Mul(qty)
	net = RoundMoney(gross)
	tax = RoundMoney(gross.Mul(taxPercent).Div(hundred))
	total = RoundMoney(net.Add(tax))
	return net, tax, total
}

// LineInput is the unpriced description of a line as supplied by a caller.
type LineInput struct {
	ProductID   string
	Description string
	Quantity    decimal.Decimal
	UnitPrice   *decimal.Decimal
	TaxPercent  *decimal.Decimal
}

// NewDocumentLine validates the inputs and computes the stored amounts.
func NewDocumentLine(lineNo int, productID, description string, qty, unitPrice, taxPercent decimal.Decimal) (DocumentLine, error) {
	if !qty.IsPositive() {
		return DocumentLine{}, lineError(lineNo, "quantity must be greater than zero")
	}
	if unitPrice.IsNegative() {
		return DocumentLine{}, lineError(lineNo, "unit price must not be negative")
	}
	if taxPercent.IsNegative() || taxPercent.GreaterThan(hundred) {
		return DocumentLine{}, lineError(lineNo, "tax percent must be between 0 and 100")
	}
	if !fitsPlaces(qty, QuantityPlaces) {
		return DocumentLine{}, lineError(lineNo, "quantity has more than 4 decimal places")
	}
	if !fitsPlaces(unitPrice, UnitPricePlaces) {
		return DocumentLine{}, lineError(lineNo, "unit price has more than 2 decimal places")
	}
	if !fitsPlaces(taxPercent, TaxPercentPlaces) {
		return DocumentLine{}, lineError(lineNo, "tax percent has more than 3 decimal places")
	}
	net, tax, total := LineAmounts(qty, unitPrice, taxPercent)
	return DocumentLine{
		LineNo:      lineNo,
		ProductID:   productID,
		Description: description,
		Quantity:    qty,
		UnitPrice:   unitPrice,
		TaxPercent:  taxPercent,
		NetAmount:   net,
		TaxAmount:   tax,
		LineTotal:   total,
	}, nil
}

// DocumentTotals are the header sums of a document's lines.
type DocumentTotals struct {
	Net   decimal.Decimal `json:"net"`
	Tax   decimal.Decimal `json:"tax"`
	Total decimal.Decimal `json:"total"`
}

// SumLines adds up the stored line amounts.
func SumLines(lines []DocumentLine) DocumentTotals {
	var t DocumentTotals
	for _, l := range lines {
		t.Net = t.Net.Add(l.NetAmount)
		t.Tax = t.Tax.Add(l.TaxAmount)
		t.Total = t.Total.Add(l.LineTotal)
	}
	return t
}

// CopyLines clones lines for a new document, clearing their ids.
func CopyLines(lines []DocumentLine) []DocumentLine {
	out := make([]DocumentLine, len(lines))
	for i, l := range lines {
		l.LineID = ""
		out[i] = l
	}
	return out
}

// VendorBill is a payable raised by a vendor.
type VendorBill struct {
	BillID          string         `json:"billID"`
	Number          string         `json:"number"`
	VendorID        string         `json:"vendorID"`
	PurchaseOrderID *string        `json:"purchaseOrderID,omitempty"`
	BillDate        time.Time      `json:"billDate"`
	DueDate         *time.Time     `json:"dueDate,omitempty"`
	Status          DocumentStatus `json:"status"`
	Lines           []DocumentLine `json:"lines"`
	DocumentTotals
	JournalEntryID *string `json:"journalEntryID,omitempty"`
	AuditFields
}

// IsPosted reports whether the bill already produced a journal entry.
func (b VendorBill) IsPosted() bool { return b.JournalEntryID != nil }

// CustomerInvoice is a receivable raised on a customer.
type CustomerInvoice struct {
	InvoiceID    string         `json:"invoiceID"`
	Number       string         `json:"number"`
	CustomerID   string         `json:"customerID"`
	SalesOrderID *string        `json:"salesOrderID,omitempty"`
	InvoiceDate  time.Time      `json:"invoiceDate"`
	DueDate      *time.Time     `json:"dueDate,omitempty"`
	Status       DocumentStatus `json:"status"`
	Lines        []DocumentLine `json:"lines"`
	DocumentTotals
	JournalEntryID *string `json:"journalEntryID,omitempty"`
	AuditFields
}

// IsPosted reports whether the invoice already produced a journal entry.
func (i CustomerInvoice) IsPosted() bool { return i.JournalEntryID != nil }

// PurchaseOrder is sent to a vendor and later converted into a bill.
type PurchaseOrder struct {
	PurchaseOrderID string         `json:"purchaseOrderID"`
	Number          string         `json:"number"`
	VendorID        string         `json:"vendorID"`
	OrderDate       time.Time      `json:"orderDate"`
	Status          DocumentStatus `json:"status"`
	Lines           []DocumentLine `json:"lines"`
	DocumentTotals
	BillID *string `json:"billID,omitempty"`
	AuditFields
}

// SalesOrder is confirmed with a customer and later invoiced.
type SalesOrder struct {
	SalesOrderID string         `json:"salesOrderID"`
	Number       string         `json:"number"`
	CustomerID   string         `json:"customerID"`
	OrderDate    time.Time      `json:"orderDate"`
	Status       DocumentStatus `json:"status"`
	Lines        []DocumentLine `json:"lines"`
	DocumentTotals
	InvoiceID *string `json:"invoiceID,omitempty"`
	AuditFields
}
