package memory_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SscSPs/invoicing_app/internal/apperrors"
	"github.com/SscSPs/invoicing_app/internal/core/domain"
	portsrepo "github.com/SscSPs/invoicing_app/internal/core/ports/repositories"
	"github.com/SscSPs/invoicing_app/internal/repositories/memory"
)

func seedAccounts(t *testing.T, repos portsrepo.RepositoryProvider, ids ...string) {
	t.Helper()
	for i, id := range ids {
		require.NoError(t, repos.AccountRepo.SaveAccount(context.Background(), domain.Account{
			AccountID:   id,
			Name:        id,
			AccountType: domain.Asset,
			Code:        string(rune('A' + i)),
		}))
	}
}

func entry(id string, source *domain.Ref, debitAccount, creditAccount string) domain.JournalEntry {
	date := time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC)
	amount := decimal.NewFromInt(10)
	return domain.JournalEntry{
		EntryID: id,
		Date:    date,
		Ref:     "JV",
		Source:  source,
		Lines: []domain.JournalLine{
			{LineID: id + "-1", EntryID: id, LineNo: 1, AccountID: debitAccount, Debit: amount, Credit: decimal.Zero, Date: date},
			{LineID: id + "-2", EntryID: id, LineNo: 2, AccountID: creditAccount, Debit: decimal.Zero, Credit: amount, Date: date},
		},
	}
}

func TestWithinTxRollsBackOnError(t *testing.T) {
	store := memory.NewStore()
	repos := store.Provider()
	seedAccounts(t, repos, "cash", "bank")
	ctx := context.Background()

	boom := errors.New("boom")
	err := store.WithinTx(ctx, func(ctx context.Context, tx portsrepo.TxRepositories) error {
		require.NoError(t, tx.Journals.SaveEntry(ctx, entry("e-1", nil, "cash", "bank")))
		return boom
	})
	require.ErrorIs(t, err, boom)

	_, err = repos.JournalRepo.FindEntryByID(ctx, "e-1")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	require.NoError(t, repos.AccountRepo.DeleteAccount(ctx, "cash"))
}

func TestWithinTxPublishesOnSuccess(t *testing.T) {
	store := memory.NewStore()
	repos := store.Provider()
	seedAccounts(t, repos, "cash", "bank")
	ctx := context.Background()

	err := store.WithinTx(ctx, func(ctx context.Context, tx portsrepo.TxRepositories) error {
		return tx.Journals.SaveEntry(ctx, entry("e-1", nil, "cash", "bank"))
	})
	require.NoError(t, err)

	got, err := repos.JournalRepo.FindEntryByID(ctx, "e-1")
	require.NoError(t, err)
	assert.Len(t, got.Lines, 2)
}

func TestSaveEntryRejectsSecondEntryForSource(t *testing.T) {
	store := memory.NewStore()
	repos := store.Provider()
	seedAccounts(t, repos, "cash", "bank")
	ctx := context.Background()
	source := &domain.Ref{Kind: domain.RefVendorBill, ID: "bill-1"}

	require.NoError(t, repos.JournalRepo.SaveEntry(ctx, entry("e-1", source, "cash", "bank")))
	err := repos.JournalRepo.SaveEntry(ctx, entry("e-2", source, "cash", "bank"))
	assert.ErrorIs(t, err, apperrors.ErrDuplicate)
}

func TestDeleteAccountInUse(t *testing.T) {
	store := memory.NewStore()
	repos := store.Provider()
	seedAccounts(t, repos, "cash", "bank", "spare")
	ctx := context.Background()

	require.NoError(t, repos.JournalRepo.SaveEntry(ctx, entry("e-1", nil, "cash", "bank")))

	assert.ErrorIs(t, repos.AccountRepo.DeleteAccount(ctx, "cash"), apperrors.ErrAccountInUse)
	assert.NoError(t, repos.AccountRepo.DeleteAccount(ctx, "spare"))
	assert.ErrorIs(t, repos.AccountRepo.DeleteAccount(ctx, "spare"), apperrors.ErrNotFound)
}

func TestSaveAccountRejectsDuplicateName(t *testing.T) {
	store := memory.NewStore()
	repos := store.Provider()
	seedAccounts(t, repos, "cash")

	err := repos.AccountRepo.SaveAccount(context.Background(), domain.Account{AccountID: "other", Name: "cash", AccountType: domain.Asset, Code: "Z"})
	assert.ErrorIs(t, err, apperrors.ErrDuplicate)
}

func TestCancelledContextAbortsTx(t *testing.T) {
	store := memory.NewStore()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	called := false
	err := store.WithinTx(ctx, func(context.Context, portsrepo.TxRepositories) error {
		called = true
		return nil
	})
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, called)
}
