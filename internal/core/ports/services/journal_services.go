package services

import (
	"context"

	"github.com/SscSPs/invoicing_app/internal/core/domain"
	portsrepo "github.com/SscSPs/invoicing_app/internal/core/ports/repositories"
	"github.com/SscSPs/invoicing_app/internal/dto"
)

// JournalReaderSvc defines read operations for journal data
type JournalReaderSvc interface {
	// GetJournalByID retrieves an entry with its lines.
	GetJournalByID(ctx context.Context, entryID string) (*domain.JournalEntry, error)

	// ListJournals retrieves a page of entries.
	ListJournals(ctx context.Context, params dto.ListJournalsParams) (*dto.ListJournalsResponse, error)
}

// JournalWriterSvc defines write operations for journal data
type JournalWriterSvc interface {
	// CreateJournal posts a manual entry.
	CreateJournal(ctx context.Context, req dto.CreateJournalRequest, userID string) (*domain.JournalEntry, error)
}

// PostingEngine validates and atomically persists balanced entries.
type PostingEngine interface {
	// Post runs the posting in its own transaction.
	Post(ctx context.Context, req domain.PostingRequest) (*domain.JournalEntry, error)

	// PostInTx runs the posting inside a transaction owned by the caller.
	PostInTx(ctx context.Context, repos portsrepo.TxRepositories, req domain.PostingRequest) (*domain.JournalEntry, error)
}

// JournalSvcFacade combines all journal-related service interfaces
type JournalSvcFacade interface {
	JournalReaderSvc
	JournalWriterSvc
	PostingEngine
}
