package repositories

import (
	"context"

	"github.com/SscSPs/invoicing_app/internal/core/domain"
)

// AccountReader defines read operations for account data
type AccountReader interface {
	// FindAccountByID retrieves a specific account by its unique identifier.
	FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error)

	// FindAccountByName retrieves an account by its unique name.
	FindAccountByName(ctx context.Context, name string) (*domain.Account, error)

	// FindAccountsByIDs retrieves multiple accounts by their IDs. Missing ids are absent from the map.
	FindAccountsByIDs(ctx context.Context, accountIDs []string) (map[string]domain.Account, error)

	// ListAccounts returns every account ordered by code, name and id.
	ListAccounts(ctx context.Context) ([]domain.Account, error)

	// ListAccountsByType returns the accounts of one type in the same order as ListAccounts.
	ListAccountsByType(ctx context.Context, accountType domain.AccountType) ([]domain.Account, error)
}

// AccountWriter defines write operations for account data
type AccountWriter interface {
	// SaveAccount persists a new account. A taken name yields apperrors.ErrDuplicate.
	SaveAccount(ctx context.Context, account domain.Account) error

	// DeleteAccount removes an account. It fails with apperrors.ErrAccountInUse
	// when any journal line references it.
	DeleteAccount(ctx context.Context, accountID string) error
}

// AccountTransactionSupport defines operations that support posting
type AccountTransactionSupport interface {
	// FindAccountsByIDsForShare selects accounts and holds a shared lock on them
	// until the surrounding transaction ends.
	FindAccountsByIDsForShare(ctx context.Context, accountIDs []string) (map[string]domain.Account, error)
}

// AccountRepositoryFacade combines all account-related repository interfaces
type AccountRepositoryFacade interface {
	AccountReader
	AccountWriter
	AccountTransactionSupport
}
