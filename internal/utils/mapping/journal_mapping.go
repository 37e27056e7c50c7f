package mapping

import (
	"github.com/SscSPs/invoicing_app/internal/core/domain"
	"github.com/SscSPs/invoicing_app/internal/models"
)

// ToModelJournalEntry converts a domain entry header to a model row. Lines
// are converted separately.
func ToModelJournalEntry(d domain.JournalEntry) models.JournalEntry {
	kind, id := fromRef(d.Source)
	return models.JournalEntry{
		EntryID:    d.EntryID,
		EntryDate:  d.Date,
		Ref:        d.Ref,
		Narration:  d.Narration,
		SourceKind: kind,
		SourceID:   id,
		CreatedAt:  d.CreatedAt,
		CreatedBy:  d.CreatedBy,
	}
}

// ToDomainJournalEntry converts a model row and its lines to a domain entry.
func ToDomainJournalEntry(m models.JournalEntry, lines []models.JournalLine) domain.JournalEntry {
	d := domain.JournalEntry{
		EntryID:   m.EntryID,
		Date:      m.EntryDate,
		Ref:       m.Ref,
		Narration: m.Narration,
		Source:    toRef(m.SourceKind, m.SourceID),
		Lines:     make([]domain.JournalLine, len(lines)),
		CreatedAt: m.CreatedAt,
		CreatedBy: m.CreatedBy,
	}
	for i, l := range lines {
		d.Lines[i] = ToDomainJournalLine(l)
	}
	return d
}

// ToModelJournalLine converts a domain JournalLine to a model JournalLine
func ToModelJournalLine(d domain.JournalLine) models.JournalLine {
	kind, id := fromRef(d.Partner)
	return models.JournalLine{
		LineID:      d.LineID,
		EntryID:     d.EntryID,
		LineNo:      d.LineNo,
		AccountID:   d.AccountID,
		Debit:       d.Debit,
		Credit:      d.Credit,
		Narration:   d.Narration,
		PartnerKind: kind,
		PartnerID:   id,
		LineDate:    d.Date,
	}
}

// ToDomainJournalLine converts a model JournalLine to a domain JournalLine
func ToDomainJournalLine(m models.JournalLine) domain.JournalLine {
	return domain.JournalLine{
		LineID:    m.LineID,
		EntryID:   m.EntryID,
		LineNo:    m.LineNo,
		AccountID: m.AccountID,
		Debit:     m.Debit,
		Credit:    m.Credit,
		Narration: m.Narration,
		Partner:   toRef(m.PartnerKind, m.PartnerID),
		Date:      m.LineDate,
	}
}

func fromRef(r *domain.Ref) (*string, *string) {
	if r == nil {
		return nil, nil
	}
	kind := string(r.Kind)
	id := r.ID
	return &kind, &id
}

func toRef(kind, id *string) *domain.Ref {
	if kind == nil || id == nil {
		return nil
	}
	return &domain.Ref{Kind: domain.RefKind(*kind), ID: *id}
}
