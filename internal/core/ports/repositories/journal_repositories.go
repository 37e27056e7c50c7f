package repositories

import (
	"context"

	"github.com/SscSPs/invoicing_app/internal/core/domain"
)

// JournalReader defines read operations for journal data
type JournalReader interface {
	// FindEntryByID retrieves an entry and its lines.
	FindEntryByID(ctx context.Context, entryID string) (*domain.JournalEntry, error)

	// FindEntryBySource retrieves the entry produced by a document, if any.
	FindEntryBySource(ctx context.Context, source domain.Ref) (*domain.JournalEntry, error)

	// ListEntries retrieves a page of entries (newest first) using token-based pagination.
	// It returns the entries, a token for the next page, and an error.
	ListEntries(ctx context.Context, limit int, nextToken *string) ([]domain.JournalEntry, *string, error)

	// CountLines returns the number of persisted journal lines.
	CountLines(ctx context.Context) (int, error)
}

// JournalWriter defines write operations for journal data
type JournalWriter interface {
	// SaveEntry persists an entry header and all of its lines.
	SaveEntry(ctx context.Context, entry domain.JournalEntry) error
}

// JournalRepositoryFacade combines all journal-related repository interfaces
type JournalRepositoryFacade interface {
	JournalReader
	JournalWriter
}
