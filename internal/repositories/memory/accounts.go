package memory

import (
	"cmp"
	"context"
	"fmt"
	"slices"

	"github.com/SscSPs/invoicing_app/internal/apperrors"
	"github.com/SscSPs/invoicing_app/internal/core/domain"
)

// compareAccounts orders by code (empty last), then name, then id.
func compareAccounts(a, b domain.Account) int {
	switch {
	case a.Code == "" && b.Code != "":
		return 1
	case a.Code != "" && b.Code == "":
		return -1
	}
	return cmp.Or(
		cmp.Compare(a.Code, b.Code),
		cmp.Compare(a.Name, b.Name),
		cmp.Compare(a.AccountID, b.AccountID),
	)
}

func (v *view) SaveAccount(_ context.Context, account domain.Account) error {
	return v.write(func(st *state) error {
		if _, ok := st.accounts[account.AccountID]; ok {
			return fmt.Errorf("%w: account %s", apperrors.ErrDuplicate, account.AccountID)
		}
		for _, a := range st.accounts {
			if a.Name == account.Name {
				return fmt.Errorf("%w: account %s", apperrors.ErrDuplicate, account.Name)
			}
		}
		st.accounts[account.AccountID] = account
		return nil
	})
}

func (v *view) FindAccountByID(_ context.Context, accountID string) (*domain.Account, error) {
	var out *domain.Account
	err := v.read(func(st *state) error {
		a, ok := st.accounts[accountID]
		if !ok {
			return apperrors.NewNotFoundError("account", accountID)
		}
		out = &a
		return nil
	})
	return out, err
}

func (v *view) FindAccountByName(_ context.Context, name string) (*domain.Account, error) {
	var out *domain.Account
	err := v.read(func(st *state) error {
		for _, a := range st.accounts {
			if a.Name == name {
				out = &a
				return nil
			}
		}
		return apperrors.NewNotFoundError("account", name)
	})
	return out, err
}

func (v *view) FindAccountsByIDs(_ context.Context, accountIDs []string) (map[string]domain.Account, error) {
	out := make(map[string]domain.Account, len(accountIDs))
	err := v.read(func(st *state) error {
		for _, id := range accountIDs {
			if a, ok := st.accounts[id]; ok {
				out[id] = a
			}
		}
		return nil
	})
	return out, err
}

// FindAccountsByIDsForShare needs no lock of its own: transactions are serial.
func (v *view) FindAccountsByIDsForShare(ctx context.Context, accountIDs []string) (map[string]domain.Account, error) {
	return v.FindAccountsByIDs(ctx, accountIDs)
}

func (v *view) ListAccounts(_ context.Context) ([]domain.Account, error) {
	var out []domain.Account
	err := v.read(func(st *state) error {
		out = sortedAccounts(st, func(domain.Account) bool { return true })
		return nil
	})
	return out, err
}

func (v *view) ListAccountsByType(_ context.Context, accountType domain.AccountType) ([]domain.Account, error) {
	var out []domain.Account
	err := v.read(func(st *state) error {
		out = sortedAccounts(st, func(a domain.Account) bool { return a.AccountType == accountType })
		return nil
	})
	return out, err
}

func (v *view) DeleteAccount(_ context.Context, accountID string) error {
	return v.write(func(st *state) error {
		if _, ok := st.accounts[accountID]; !ok {
			return apperrors.NewNotFoundError("account", accountID)
		}
		if st.accountUse[accountID] > 0 {
			return fmt.Errorf("%w: %s", apperrors.ErrAccountInUse, accountID)
		}
		delete(st.accounts, accountID)
		return nil
	})
}

func sortedAccounts(st *state, keep func(domain.Account) bool) []domain.Account {
	out := []domain.Account{}
	for _, a := range st.accounts {
		if keep(a) {
			out = append(out, a)
		}
	}
	slices.SortFunc(out, compareAccounts)
	return out
}
