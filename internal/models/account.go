package models

import "time"

// AuditFields are the audit columns shared by the ledger tables.
type AuditFields struct {
	CreatedAt     time.Time `db:"created_at"`
	CreatedBy     string    `db:"created_by"`
	LastUpdatedAt time.Time `db:"last_updated_at"`
	LastUpdatedBy string    `db:"last_updated_by"`
}

// AccountType defines the fundamental accounting type of an account.
type AccountType string

// Account is a row of the accounts table.
type Account struct {
	AccountID   string      `db:"account_id"`
	Name        string      `db:"name"`
	AccountType AccountType `db:"account_type"`
	Code        *string     `db:"code"` // Nullable
	AuditFields
}
