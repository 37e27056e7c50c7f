package dto

import (
	"time"

	"github.com/SscSPs/invoicing_app/internal/core/domain"
)

// CreateAccountRequest defines the data needed to create a new account.
type CreateAccountRequest struct {
	Name        string             `json:"name" binding:"required,max=100"`
	AccountType domain.AccountType `json:"accountType" binding:"required,oneof=ASSET LIABILITY EQUITY INCOME EXPENSE"`
	Code        string             `json:"code" binding:"max=20"`
}

// SeedAccountsRequest selects the optional accounts of a seeding run.
type SeedAccountsRequest struct {
	IncludeTax bool `json:"includeTax"`
}

// AccountResponse defines the data returned for an account.
type AccountResponse struct {
	AccountID     string             `json:"accountID"`
	Name          string             `json:"name"`
	AccountType   domain.AccountType `json:"accountType"`
	Code          string             `json:"code,omitempty"`
	CreatedAt     time.Time          `json:"createdAt"`
	CreatedBy     string             `json:"createdBy"`
	LastUpdatedAt time.Time          `json:"lastUpdatedAt"`
	LastUpdatedBy string             `json:"lastUpdatedBy"`
}

// ListAccountsResponse wraps the chart of accounts.
type ListAccountsResponse struct {
	Accounts []AccountResponse `json:"accounts"`
}

// SeedAccountsResponse reports what a seeding run created.
type SeedAccountsResponse struct {
	Created  []AccountResponse `json:"created"`
	Existing int               `json:"existing"`
}

// ToAccountResponse converts a domain.Account to AccountResponse DTO
func ToAccountResponse(acc *domain.Account) AccountResponse {
	return AccountResponse{
		AccountID:     acc.AccountID,
		Name:          acc.Name,
		AccountType:   acc.AccountType,
		Code:          acc.Code,
		CreatedAt:     acc.CreatedAt,
		CreatedBy:     acc.CreatedBy,
		LastUpdatedAt: acc.LastUpdatedAt,
		LastUpdatedBy: acc.LastUpdatedBy,
	}
}

// ToAccountResponses converts a slice of domain.Account.
func ToAccountResponses(accs []domain.Account) []AccountResponse {
	out := make([]AccountResponse, len(accs))
	for i := range accs {
		out[i] = ToAccountResponse(&accs[i])
	}
	return out
}
