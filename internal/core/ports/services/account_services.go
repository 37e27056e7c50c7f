package services

import (
	"context"

	"github.com/SscSPs/invoicing_app/internal/core/domain"
	"github.com/SscSPs/invoicing_app/internal/dto"
)

// AccountReaderSvc defines read operations for account data
type AccountReaderSvc interface {
	// GetAccountByID retrieves a specific account by its unique identifier.
	GetAccountByID(ctx context.Context, accountID string) (*domain.Account, error)

	// ListAccounts returns the chart of accounts.
	ListAccounts(ctx context.Context) ([]domain.Account, error)
}

// AccountWriterSvc defines write operations for account data
type AccountWriterSvc interface {
	// CreateAccount persists a new account.
	CreateAccount(ctx context.Context, req dto.CreateAccountRequest, userID string) (*domain.Account, error)

	// DeleteAccount removes an account that no journal line references.
	DeleteAccount(ctx context.Context, accountID string) error

	// SeedDefaultAccounts creates the missing accounts of the default chart.
	// It returns the created accounts and how many already existed.
	SeedDefaultAccounts(ctx context.Context, includeTax bool, userID string) ([]domain.Account, int, error)
}

// AccountResolverSvc maps posting roles onto concrete accounts.
type AccountResolverSvc interface {
	// ResolveAccount returns the account for role, or nil when none qualifies.
	ResolveAccount(ctx context.Context, role domain.AccountRole) (*domain.Account, error)
}

// AccountSvcFacade combines all account-related service interfaces
type AccountSvcFacade interface {
	AccountReaderSvc
	AccountWriterSvc
	AccountResolverSvc
}
