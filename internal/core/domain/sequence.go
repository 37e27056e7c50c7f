package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// SequenceScope is the prefix of a family of document numbers.
type SequenceScope string

const (
	ScopePurchaseOrder   SequenceScope = "PO"
	ScopeSalesOrder      SequenceScope = "SO"
	ScopeVendorBill      SequenceScope = "BILL"
	ScopeInvoice         SequenceScope = "INV"
	ScopePayment         SequenceScope = "PAY"
	ScopeCustomerPayment SequenceScope = "RCPT"
)

// Valid reports whether s is a known scope.
func (s SequenceScope) Valid() bool {
	switch s {
	case ScopePurchaseOrder, ScopeSalesOrder, ScopeVendorBill, ScopeInvoice, ScopePayment, ScopeCustomerPayment:
		return true
	}
	return false
}

// FormatDocumentNumber renders e.g. PO/2025/0001.
func FormatDocumentNumber(scope SequenceScope, year, n int) string {
	return fmt.Sprintf("%s/%d/%04d", scope, year, n)
}

// NumberPrefix is the part of a number shared by a scope and year, e.g. "PO/2025/".
func NumberPrefix(scope SequenceScope, year int) string {
	return fmt.Sprintf("%s/%d/", scope, year)
}

// ParseSequenceSuffix returns the trailing numeric part of a number.
func ParseSequenceSuffix(number string) (int, bool) {
	i := strings.LastIndex(number, "/")
	n, err := strconv.Atoi(number[i+1:])
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}
