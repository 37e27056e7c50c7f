package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// JournalEntry is one balanced accounting transaction. It is created once
// and afterwards only gains a Source link.
type JournalEntry struct {
	EntryID   string        `json:"entryID"`
	Date      time.Time     `json:"date"`
	Ref       string        `json:"ref"`
	Narration string        `json:"narration"`
	Source    *Ref          `json:"source,omitempty"`
	Lines     []JournalLine `json:"lines"`
	CreatedAt time.Time     `json:"createdAt"`
	CreatedBy string        `json:"createdBy"`
}

// JournalLine is one debit or credit leg of an entry.
type JournalLine struct {
	LineID    string          `json:"lineID"`
	EntryID   string          `json:"entryID"`
	LineNo    int             `json:"lineNo"`
	AccountID string          `json:"accountID"`
	Debit     decimal.Decimal `json:"debit"`
	Credit    decimal.Decimal `json:"credit"`
	Narration string          `json:"narration,omitempty"`
	Partner   *Ref            `json:"partner,omitempty"`
	Date      time.Time       `json:"date"`
}

// Totals returns the debit and credit sums of the entry's lines.
func (e JournalEntry) Totals() (debit, credit decimal.Decimal) {
	for _, l := range e.Lines {
		debit = debit.Add(l.Debit)
		credit = credit.Add(l.Credit)
	}
	return debit, credit
}

// PostingLine is the caller's description of one leg before it is persisted.
type PostingLine struct {
	AccountID string
	Debit     decimal.Decimal
	Credit    decimal.Decimal
	Narration string
	Partner   *Ref
}

// Side returns the strictly positive amount of the line and whether it is a debit.
func (l PostingLine) Side() (decimal.Decimal, bool) {
	if l.Debit.IsPositive() {
		return l.Debit, true
	}
	return l.Credit, false
}

// DebitLine builds a debit leg.
func DebitLine(accountID string, amount decimal.Decimal, narration string, partner *Ref) PostingLine {
	return PostingLine{AccountID: accountID, Debit: amount, Credit: decimal.Zero, Narration: narration, Partner: partner}
}

// CreditLine builds a credit leg.
func CreditLine(accountID string, amount decimal.Decimal, narration string, partner *Ref) PostingLine {
	return PostingLine{AccountID: accountID, Debit: decimal.Zero, Credit: amount, Narration: narration, Partner: partner}
}

// PostingRequest is the input of the posting engine.
type PostingRequest struct {
	Date      time.Time
	Ref       string
	Narration string
	Lines     []PostingLine
	Source    *Ref
	PostedBy  string
}
