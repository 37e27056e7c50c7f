package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// JournalEntry is a row of the journal_entries table.
type JournalEntry struct {
	EntryID    string    `db:"entry_id"`
	EntryDate  time.Time `db:"entry_date"`
	Ref        string    `db:"ref"`
	Narration  string    `db:"narration"`
	SourceKind *string   `db:"source_kind"` // Nullable, set together with SourceID
	SourceID   *string   `db:"source_id"`
	CreatedAt  time.Time `db:"created_at"`
	CreatedBy  string    `db:"created_by"`
}

// JournalLine is a row of the journal_lines table.
type JournalLine struct {
	LineID      string          `db:"line_id"`
	EntryID     string          `db:"entry_id"`
	LineNo      int             `db:"line_no"`
	AccountID   string          `db:"account_id"`
	Debit       decimal.Decimal `db:"debit"`
	Credit      decimal.Decimal `db:"credit"`
	Narration   string          `db:"narration"`
	PartnerKind *string         `db:"partner_kind"` // Nullable, set together with PartnerID
	PartnerID   *string         `db:"partner_id"`
	LineDate    time.Time       `db:"line_date"`
}
