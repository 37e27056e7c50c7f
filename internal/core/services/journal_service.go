package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/SscSPs/invoicing_app/internal/apperrors"
	"github.com/SscSPs/invoicing_app/internal/core/domain"
	portsrepo "github.com/SscSPs/invoicing_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/invoicing_app/internal/core/ports/services"
	"github.com/SscSPs/invoicing_app/internal/dto"
	"github.com/SscSPs/invoicing_app/internal/platform/metrics"
)

const defaultJournalPageSize = 20

// journalService is the posting engine plus the read side of the journal.
type journalService struct {
	BaseService
	repos portsrepo.RepositoryProvider
	refs  *RefRegistry
}

// NewJournalService creates a new JournalService.
func NewJournalService(repos portsrepo.RepositoryProvider, refs *RefRegistry, opts ...ServiceOption) portssvc.JournalSvcFacade {
	if refs == nil {
		refs = NewRefRegistry()
	}
	return &journalService{
		BaseService: newBaseService(opts),
		repos:       repos,
		refs:        refs,
	}
}

// Ensure journalService implements the portssvc.JournalSvcFacade interface
var _ portssvc.JournalSvcFacade = (*journalService)(nil)

// ValidatePostingLines checks every line and the entry balance, returning
// the debit and credit totals. Nothing is corrected: the first problem found
// is returned.
func ValidatePostingLines(lines []domain.PostingLine) (decimal.Decimal, decimal.Decimal, error) {
	debitTotal, creditTotal := decimal.Zero, decimal.Zero
	if len(lines) == 0 {
		return debitTotal, creditTotal, &apperrors.InvalidLineError{Index: -1, Reason: "entry has no lines"}
	}
	for i, l := range lines {
		if l.AccountID == "" {
			return debitTotal, creditTotal, &apperrors.InvalidLineError{Index: i, Reason: "account is required"}
		}
		if l.Debit.IsNegative() || l.Credit.IsNegative() {
			return debitTotal, creditTotal, &apperrors.InvalidLineError{Index: i, Reason: "amounts must not be negative"}
		}
		hasDebit, hasCredit := l.Debit.IsPositive(), l.Credit.IsPositive()
		switch {
		case hasDebit && hasCredit:
			return debitTotal, creditTotal, &apperrors.InvalidLineError{Index: i, Reason: "line has both a debit and a credit"}
		case !hasDebit && !hasCredit:
			return debitTotal, creditTotal, &apperrors.InvalidLineError{Index: i, Reason: "line has neither a debit nor a credit"}
		}
		amount, _ := l.Side()
		if !amount.Equal(domain.RoundMoney(amount)) {
			return debitTotal, creditTotal, &apperrors.InvalidLineError{Index: i, Reason: "amount has more than 2 decimal places"}
		}
		debitTotal = debitTotal.Add(l.Debit)
		creditTotal = creditTotal.Add(l.Credit)
	}
	if !debitTotal.Equal(creditTotal) {
		return debitTotal, creditTotal, &apperrors.UnbalancedEntryError{DebitTotal: debitTotal, CreditTotal: creditTotal}
	}
	return debitTotal, creditTotal, nil
}

// Post validates req and persists it in its own transaction.
func (s *journalService) Post(ctx context.Context, req domain.PostingRequest) (*domain.JournalEntry, error) {
	var entry *domain.JournalEntry
	err := s.repos.Tx.WithinTx(ctx, func(ctx context.Context, repos portsrepo.TxRepositories) error {
		var err error
		entry, err = s.PostInTx(ctx, repos, req)
		return err
	})
	if err != nil {
		return nil, err
	}
	s.recordPosted(entry)
	return entry, nil
}

// PostInTx validates req and writes the entry with the caller's transaction.
// Counters are left to the caller, who knows whether the transaction committed.
func (s *journalService) PostInTx(ctx context.Context, repos portsrepo.TxRepositories, req domain.PostingRequest) (*domain.JournalEntry, error) {
	logger := s.GetLogger(ctx).With(slog.String("ref", req.Ref))

	debitTotal, _, err := ValidatePostingLines(req.Lines)
	if err != nil {
		s.reject(ctx, err, req)
		return nil, err
	}
	if req.Ref == "" {
		err := apperrors.NewValidationError("entry reference is required")
		s.reject(ctx, err, req)
		return nil, err
	}
	if req.Date.IsZero() {
		err := apperrors.NewValidationError("entry date is required")
		s.reject(ctx, err, req)
		return nil, err
	}

	accountIDs := uniqueAccountIDs(req.Lines)
	accounts, err := repos.Accounts.FindAccountsByIDsForShare(ctx, accountIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to load accounts: %w", err)
	}
	for _, id := range accountIDs {
		if _, ok := accounts[id]; !ok {
			err := fmt.Errorf("%w: %s", apperrors.ErrAccountNotFound, id)
			s.reject(ctx, err, req)
			return nil, err
		}
	}

	if req.Source != nil {
		if err := s.refs.Resolve(ctx, repos, *req.Source); err != nil {
			return nil, err
		}
	}
	seenPartners := make(map[domain.Ref]bool)
	for _, l := range req.Lines {
		if l.Partner == nil || seenPartners[*l.Partner] {
			continue
		}
		if err := s.refs.Resolve(ctx, repos, *l.Partner); err != nil {
			return nil, err
		}
		seenPartners[*l.Partner] = true
	}

	now := s.CurrentTime()
	date := domain.DateOnly(req.Date)
	entry := domain.JournalEntry{
		EntryID:   newID(),
		Date:      date,
		Ref:       req.Ref,
		Narration: req.Narration,
		Source:    req.Source,
		Lines:     make([]domain.JournalLine, len(req.Lines)),
		CreatedAt: now,
		CreatedBy: actor(req.PostedBy),
	}
	for i, l := range req.Lines {
		entry.Lines[i] = domain.JournalLine{
			LineID:    newID(),
			EntryID:   entry.EntryID,
			LineNo:    i + 1,
			AccountID: l.AccountID,
			Debit:     l.Debit,
			Credit:    l.Credit,
			Narration: l.Narration,
			Partner:   l.Partner,
			Date:      date,
		}
	}

	if err := repos.Journals.SaveEntry(ctx, entry); err != nil {
		if req.Source != nil && errors.Is(err, apperrors.ErrDuplicate) {
			return nil, fmt.Errorf("%w: %s already has an entry", apperrors.ErrAlreadyPosted, req.Source)
		}
		logger.Error("Failed to save journal entry", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to save journal entry: %w", err)
	}

	logger.Info("Journal entry posted",
		slog.String("entry_id", entry.EntryID),
		slog.Int("lines", len(entry.Lines)),
		slog.String("total", debitTotal.StringFixed(2)))
	return &entry, nil
}

func (s *journalService) reject(ctx context.Context, err error, req domain.PostingRequest) {
	reason := "validation"
	var unbalanced *apperrors.UnbalancedEntryError
	var invalid *apperrors.InvalidLineError
	switch {
	case errors.As(err, &unbalanced):
		reason = "unbalanced"
	case errors.As(err, &invalid):
		reason = "invalid_line"
	case errors.Is(err, apperrors.ErrAccountNotFound):
		reason = "account_not_found"
	}
	s.Metrics.PostingRejected(reason)
	s.LogWarn(ctx, err, "Journal entry rejected", slog.String("ref", req.Ref), slog.String("reason_code", reason))
}

func (s *journalService) recordPosted(entry *domain.JournalEntry) {
	recordPosted(s.Metrics, entry)
}

// CreateJournal posts a manual entry.
func (s *journalService) CreateJournal(ctx context.Context, req dto.CreateJournalRequest, userID string) (*domain.JournalEntry, error) {
	return s.Post(ctx, req.ToPostingRequest(userID))
}

// GetJournalByID retrieves an entry with its lines.
func (s *journalService) GetJournalByID(ctx context.Context, entryID string) (*domain.JournalEntry, error) {
	entry, err := s.repos.JournalRepo.FindEntryByID(ctx, entryID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to load journal entry", slog.String("entry_id", entryID))
		}
		return nil, err
	}
	return entry, nil
}

// ListJournals retrieves a page of entries.
func (s *journalService) ListJournals(ctx context.Context, params dto.ListJournalsParams) (*dto.ListJournalsResponse, error) {
	limit := params.Limit
	if limit <= 0 {
		limit = defaultJournalPageSize
	}
	entries, next, err := s.repos.JournalRepo.ListEntries(ctx, limit, params.NextToken)
	if err != nil {
		s.LogError(ctx, err, "Failed to list journal entries")
		return nil, fmt.Errorf("failed to list journal entries: %w", err)
	}
	resp := dto.ToListJournalsResponse(entries, next)
	return &resp, nil
}

func recordPosted(m *metrics.Metrics, entry *domain.JournalEntry) {
	if entry == nil {
		return
	}
	source := ""
	if entry.Source != nil {
		source = string(entry.Source.Kind)
	}
	debit, _ := entry.Totals()
	m.EntryPosted(source, debit.InexactFloat64())
}

func uniqueAccountIDs(lines []domain.PostingLine) []string {
	seen := make(map[string]bool, len(lines))
	ids := make([]string, 0, len(lines))
	for _, l := range lines {
		if !seen[l.AccountID] {
			seen[l.AccountID] = true
			ids = append(ids, l.AccountID)
		}
	}
	return ids
}

// newID returns a time-ordered UUID (v7), so ordering by id follows creation.
func newID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}
