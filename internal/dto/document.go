package dto

import (
	"time"

	"github.com/SscSPs/invoicing_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// LineRequest is one item of a bill, invoice or order. UnitPrice and
// TaxPercent default from the product when omitted.
type LineRequest struct {
	ProductID   string           `json:"productID"`
	Description string           `json:"description" binding:"max=255"`
	Quantity    decimal.Decimal  `json:"quantity" binding:"dgt0"`
	UnitPrice   *decimal.Decimal `json:"unitPrice" binding:"omitnil,dgte0"`
	TaxPercent  *decimal.Decimal `json:"taxPercent" binding:"omitnil,dgte0"`
}

// ToLineInputs maps request lines onto domain inputs.
func ToLineInputs(lines []LineRequest) []domain.LineInput {
	out := make([]domain.LineInput, len(lines))
	for i, l := range lines {
		out[i] = domain.LineInput{
			ProductID:   l.ProductID,
			Description: l.Description,
			Quantity:    l.Quantity,
			UnitPrice:   l.UnitPrice,
			TaxPercent:  l.TaxPercent,
		}
	}
	return out
}

// CreateBillRequest defines the data needed to record a vendor bill.
type CreateBillRequest struct {
	VendorID string        `json:"vendorID" binding:"required"`
	BillDate time.Time     `json:"billDate" binding:"required"`
	DueDate  *time.Time    `json:"dueDate"`
	Lines    []LineRequest `json:"lines" binding:"dive"`
}

// CreateInvoiceRequest defines the data needed to raise a customer invoice.
type CreateInvoiceRequest struct {
	CustomerID  string        `json:"customerID" binding:"required"`
	InvoiceDate time.Time     `json:"invoiceDate" binding:"required"`
	DueDate     *time.Time    `json:"dueDate"`
	Lines       []LineRequest `json:"lines" binding:"dive"`
}

// CreatePurchaseOrderRequest defines the data needed to raise a purchase order.
type CreatePurchaseOrderRequest struct {
	VendorID  string        `json:"vendorID" binding:"required"`
	OrderDate time.Time     `json:"orderDate" binding:"required"`
	Lines     []LineRequest `json:"lines" binding:"dive"`
}

// CreateSalesOrderRequest defines the data needed to raise a sales order.
type CreateSalesOrderRequest struct {
	CustomerID string        `json:"customerID" binding:"required"`
	OrderDate  time.Time     `json:"orderDate" binding:"required"`
	Lines      []LineRequest `json:"lines" binding:"dive"`
}

// ListDocumentsParams defines the query parameters for document lists.
type ListDocumentsParams struct {
	Status    string `form:"status" binding:"omitempty,oneof=draft sent confirmed paid cancelled"`
	PartnerID string `form:"partnerID"`
	Limit     int    `form:"limit" binding:"omitempty,min=1,max=200"`
}

// OutstandingResponse reports how much of a document is still unpaid.
type OutstandingResponse struct {
	DocumentID  string          `json:"documentID"`
	Total       decimal.Decimal `json:"total"`
	Settled     decimal.Decimal `json:"settled"`
	Outstanding decimal.Decimal `json:"outstanding"`
}

// ListBillsResponse wraps a list of bills.
type ListBillsResponse struct {
	Bills []domain.VendorBill `json:"bills"`
}

// ListInvoicesResponse wraps a list of invoices.
type ListInvoicesResponse struct {
	Invoices []domain.CustomerInvoice `json:"invoices"`
}

// ConvertToBillResponse returns both documents touched by a conversion.
type ConvertToBillResponse struct {
	PurchaseOrder domain.PurchaseOrder `json:"purchaseOrder"`
	Bill          domain.VendorBill    `json:"bill"`
}

// CreateInvoiceFromOrderResponse returns both documents touched by invoicing an order.
type CreateInvoiceFromOrderResponse struct {
	SalesOrder domain.SalesOrder      `json:"salesOrder"`
	Invoice    domain.CustomerInvoice `json:"invoice"`
}

// ConfirmResponse returns a confirmed document with the entry it produced.
type ConfirmResponse[T any] struct {
	Document T               `json:"document"`
	Journal  JournalResponse `json:"journal"`
}
