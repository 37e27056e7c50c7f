package apperrors

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Ledger sentinels. Each one also matches its taxonomy kind via errors.Is.
var (
	ErrAccountNotFound       = &kindError{kind: ErrNotFound, msg: "account not found"}
	ErrAccountInUse          = &kindError{kind: ErrConflict, msg: "account is referenced by posted lines"}
	ErrAlreadyPosted         = &kindError{kind: ErrConflict, msg: "document already posted"}
	ErrInvalidState          = &kindError{kind: ErrConflict, msg: "document is not in the expected state"}
	ErrEmptyDocument         = &kindError{kind: ErrValidation, msg: "document total is zero"}
	ErrAccountsNotConfigured = &kindError{kind: ErrConfiguration, msg: "required accounts are not configured"}
)

type kindError struct {
	kind error
	msg  string
}

func (e *kindError) Error() string { return e.msg }
func (e *kindError) Unwrap() error { return e.kind }

// UnbalancedEntryError is returned when the debit and credit totals of an entry differ.
type UnbalancedEntryError struct {
	DebitTotal  decimal.Decimal
	CreditTotal decimal.Decimal
}

func (e *UnbalancedEntryError) Error() string {
	return fmt.Sprintf("unbalanced entry: debits sum is %s and credits sum is %s",
		e.DebitTotal.StringFixed(2), e.CreditTotal.StringFixed(2))
}

func (e *UnbalancedEntryError) Unwrap() error { return ErrValidation }

// InvalidLineError is returned for a line that is both-sided, zero-sided or negative.
type InvalidLineError struct {
	Index  int
	Reason string
}

func (e *InvalidLineError) Error() string {
	if e.Index < 0 {
		return fmt.Sprintf("invalid line: %s", e.Reason)
	}
	return fmt.Sprintf("invalid line %d: %s", e.Index, e.Reason)
}

func (e *InvalidLineError) Unwrap() error { return ErrValidation }

// ExceedsOutstandingError is returned when a payment is larger than what is still owed.
type ExceedsOutstandingError struct {
	Amount      decimal.Decimal
	Outstanding decimal.Decimal
}

func (e *ExceedsOutstandingError) Error() string {
	return fmt.Sprintf("payment amount %s exceeds outstanding %s",
		e.Amount.StringFixed(2), e.Outstanding.StringFixed(2))
}

func (e *ExceedsOutstandingError) Unwrap() error { return ErrConflict }

// AccountsNotConfigured names the account role that could not be resolved.
func AccountsNotConfigured(role string) error {
	return fmt.Errorf("%w: no account for role %s", ErrAccountsNotConfigured, role)
}
