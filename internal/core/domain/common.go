package domain

import (
	"fmt"
	"time"
)

// AuditFields holds standard audit information for domain entities.
type AuditFields struct {
	CreatedAt     time.Time `json:"createdAt"`
	CreatedBy     string    `json:"createdBy"`
	LastUpdatedAt time.Time `json:"lastUpdatedAt"`
	LastUpdatedBy string    `json:"lastUpdatedBy"`
}

// RefKind names the table a Ref points into.
type RefKind string

const (
	RefContact         RefKind = "contact"
	RefVendorBill      RefKind = "vendor_bill"
	RefPayment         RefKind = "payment"
	RefCustomerInvoice RefKind = "customer_invoice"
	RefCustomerPayment RefKind = "customer_payment"
)

// Valid reports whether k is one of the known kinds.
func (k RefKind) Valid() bool {
	switch k {
	case RefContact, RefVendorBill, RefPayment, RefCustomerInvoice, RefCustomerPayment:
		return true
	}
	return false
}

// Ref is a typed reference to a row owned by another aggregate:
// the source document of an entry or the partner of a line.
type Ref struct {
	Kind RefKind `json:"kind"`
	ID   string  `json:"id"`
}

func (r Ref) String() string { return fmt.Sprintf("%s:%s", r.Kind, r.ID) }

// ContactRef is the partner reference for a contact id.
func ContactRef(id string) *Ref {
	return &Ref{Kind: RefContact, ID: id}
}

// SystemUser is recorded as the actor when a request carries no authenticated user.
const SystemUser = "system"

// DateOnly truncates t to midnight UTC; every ledger date is a calendar day.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
