package dto

import (
	"time"

	"github.com/SscSPs/invoicing_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// PostingLineRequest is one leg of a manual journal entry.
type PostingLineRequest struct {
	AccountID string          `json:"accountID" binding:"required"`
	Debit     decimal.Decimal `json:"debit" binding:"dgte0"`
	Credit    decimal.Decimal `json:"credit" binding:"dgte0"`
	Narration string          `json:"narration" binding:"max=255"`
	PartnerID string          `json:"partnerID"`
}

// CreateJournalRequest defines the data needed to post a manual entry.
type CreateJournalRequest struct {
	Date      time.Time            `json:"date" binding:"required"`
	Ref       string               `json:"ref" binding:"required,max=64"`
	Narration string               `json:"narration" binding:"max=255"`
	Lines     []PostingLineRequest `json:"lines" binding:"required,min=2,dive"`
}

// ToPostingRequest maps the request onto the posting engine's input.
func (r CreateJournalRequest) ToPostingRequest(userID string) domain.PostingRequest {
	lines := make([]domain.PostingLine, len(r.Lines))
	for i, l := range r.Lines {
		var partner *domain.Ref
		if l.PartnerID != "" {
			partner = domain.ContactRef(l.PartnerID)
		}
		lines[i] = domain.PostingLine{
			AccountID: l.AccountID,
			Debit:     l.Debit,
			Credit:    l.Credit,
			Narration: l.Narration,
			Partner:   partner,
		}
	}
	return domain.PostingRequest{
		Date:      r.Date,
		Ref:       r.Ref,
		Narration: r.Narration,
		Lines:     lines,
		PostedBy:  userID,
	}
}

// ListJournalsParams defines the query parameters for listing entries.
type ListJournalsParams struct {
	Limit     int     `form:"limit" binding:"omitempty,min=1,max=100"`
	NextToken *string `form:"nextToken"`
}

// JournalLineResponse defines the data returned for a journal line.
type JournalLineResponse struct {
	LineID    string          `json:"lineID"`
	AccountID string          `json:"accountID"`
	Debit     decimal.Decimal `json:"debit"`
	Credit    decimal.Decimal `json:"credit"`
	Narration string          `json:"narration,omitempty"`
	Partner   *domain.Ref     `json:"partner,omitempty"`
}

// JournalResponse defines the data returned for a journal entry.
type JournalResponse struct {
	EntryID     string                `json:"entryID"`
	Date        time.Time             `json:"date"`
	Ref         string                `json:"ref"`
	Narration   string                `json:"narration"`
	Source      *domain.Ref           `json:"source,omitempty"`
	TotalDebit  decimal.Decimal       `json:"totalDebit"`
	TotalCredit decimal.Decimal       `json:"totalCredit"`
	Lines       []JournalLineResponse `json:"lines"`
	CreatedAt   time.Time             `json:"createdAt"`
	CreatedBy   string                `json:"createdBy"`
}

// ListJournalsResponse defines the response for listing entries.
type ListJournalsResponse struct {
	Journals  []JournalResponse `json:"journals"`
	NextToken *string           `json:"nextToken,omitempty"`
}

// ToJournalResponse converts a domain.JournalEntry to JournalResponse DTO.
func ToJournalResponse(e *domain.JournalEntry) JournalResponse {
	debit, credit := e.Totals()
	lines := make([]JournalLineResponse, len(e.Lines))
	for i, l := range e.Lines {
		lines[i] = JournalLineResponse{
			LineID:    l.LineID,
			AccountID: l.AccountID,
			Debit:     l.Debit,
			Credit:    l.Credit,
			Narration: l.Narration,
			Partner:   l.Partner,
		}
	}
	return JournalResponse{
		EntryID:     e.EntryID,
		Date:        e.Date,
		Ref:         e.Ref,
		Narration:   e.Narration,
		Source:      e.Source,
		TotalDebit:  debit,
		TotalCredit: credit,
		Lines:       lines,
		CreatedAt:   e.CreatedAt,
		CreatedBy:   e.CreatedBy,
	}
}

// ToListJournalsResponse converts a page of entries.
func ToListJournalsResponse(entries []domain.JournalEntry, nextToken *string) ListJournalsResponse {
	out := ListJournalsResponse{Journals: make([]JournalResponse, len(entries)), NextToken: nextToken}
	for i := range entries {
		out.Journals[i] = ToJournalResponse(&entries[i])
	}
	return out
}
