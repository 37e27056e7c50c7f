package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/SscSPs/invoicing_app/internal/apperrors"
	"github.com/SscSPs/invoicing_app/internal/core/domain"
	portsrepo "github.com/SscSPs/invoicing_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/invoicing_app/internal/core/ports/services"
)

// maxSequenceScan bounds the scan past numbers that were assigned by hand.
const maxSequenceScan = 1000

type sequenceService struct {
	BaseService
	tx portsrepo.UnitOfWork
}

// NewSequenceService creates the document number generator.
func NewSequenceService(tx portsrepo.UnitOfWork, opts ...ServiceOption) portssvc.SequenceSvc {
	return &sequenceService{BaseService: newBaseService(opts), tx: tx}
}

var _ portssvc.SequenceSvc = (*sequenceService)(nil)

// NextNumber issues a number in its own transaction. The number is consumed
// even if the caller never stores a document with it.
func (s *sequenceService) NextNumber(ctx context.Context, scope domain.SequenceScope, year int) (string, error) {
	var number string
	err := s.tx.WithinTx(ctx, func(ctx context.Context, repos portsrepo.TxRepositories) error {
		var err error
		number, err = s.NextNumberInTx(ctx, repos, scope, year)
		return err
	})
	if err != nil {
		return "", err
	}
	return number, nil
}

// NextNumberInTx locks the (scope, year) counter row for the rest of the
// caller's transaction, so concurrent creators queue behind it and never see
// the same value.
func (s *sequenceService) NextNumberInTx(ctx context.Context, repos portsrepo.TxRepositories, scope domain.SequenceScope, year int) (string, error) {
	if !scope.Valid() {
		return "", apperrors.NewValidationError("unknown sequence scope %q", scope)
	}
	if year < 1 || year > 9999 {
		return "", apperrors.NewValidationError("year %d out of range", year)
	}

	last, err := repos.Sequences.LockCounter(ctx, scope, year)
	if err != nil {
		return "", fmt.Errorf("failed to lock %s/%d counter: %w", scope, year, err)
	}

	for n := last + 1; n <= last+maxSequenceScan; n++ {
		candidate := domain.FormatDocumentNumber(scope, year, n)
		taken, err := repos.Sequences.NumberExists(ctx, scope, candidate)
		if err != nil {
			return "", fmt.Errorf("failed to check number %s: %w", candidate, err)
		}
		if taken {
			s.LogDebug(ctx, "Document number already taken, probing next", slog.String("number", candidate))
			continue
		}
		if err := repos.Sequences.StoreCounter(ctx, scope, year, n); err != nil {
			return "", fmt.Errorf("failed to store %s/%d counter: %w", scope, year, err)
		}
		s.Metrics.NumberIssued(string(scope))
		return candidate, nil
	}
	return "", fmt.Errorf("%w: no free %s number after %d attempts", apperrors.ErrInternal, scope, maxSequenceScan)
}
