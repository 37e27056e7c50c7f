package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/google/uuid"

	"github.com/SscSPs/invoicing_app/internal/apperrors"
	"github.com/SscSPs/invoicing_app/internal/core/domain"
	portsrepo "github.com/SscSPs/invoicing_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/invoicing_app/internal/core/ports/services"
	"github.com/SscSPs/invoicing_app/internal/dto"
	"github.com/SscSPs/invoicing_app/internal/middleware"
)

type accountService struct {
	BaseService
	accountRepo portsrepo.AccountRepositoryFacade
}

// NewAccountService creates the account registry service.
func NewAccountService(repo portsrepo.AccountRepositoryFacade, opts ...ServiceOption) portssvc.AccountSvcFacade {
	return &accountService{BaseService: newBaseService(opts), accountRepo: repo}
}

var _ portssvc.AccountSvcFacade = (*accountService)(nil)

func (s *accountService) CreateAccount(ctx context.Context, req dto.CreateAccountRequest, userID string) (*domain.Account, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, apperrors.NewValidationError("account name is required")
	}
	if !req.AccountType.Valid() {
		return nil, apperrors.NewValidationError("unknown account type %q", req.AccountType)
	}

	now := s.CurrentTime()
	account := domain.Account{
		AccountID:   uuid.NewString(),
		Name:        name,
		AccountType: req.AccountType,
		Code:        strings.TrimSpace(req.Code),
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     actor(userID),
			LastUpdatedAt: now,
			LastUpdatedBy: actor(userID),
		},
	}
	if err := s.accountRepo.SaveAccount(ctx, account); err != nil {
		if !errors.Is(err, apperrors.ErrDuplicate) {
			s.LogError(ctx, err, "Failed to save account", slog.String("name", name))
		}
		return nil, err
	}

	s.LogInfo(ctx, "Account created", slog.String("account_id", account.AccountID), slog.String("name", name))
	return &account, nil
}

func (s *accountService) GetAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	account, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find account by ID", slog.String("account_id", accountID))
		}
		return nil, err
	}
	return account, nil
}

func (s *accountService) ListAccounts(ctx context.Context) ([]domain.Account, error) {
	accounts, err := s.accountRepo.ListAccounts(ctx)
	if err != nil {
		s.LogError(ctx, err, "Failed to list accounts")
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	return accounts, nil
}

// DeleteAccount refuses to remove an account that posted lines reference.
func (s *accountService) DeleteAccount(ctx context.Context, accountID string) error {
	if err := s.accountRepo.DeleteAccount(ctx, accountID); err != nil {
		if errors.Is(err, apperrors.ErrAccountInUse) {
			s.LogWarn(ctx, err, "Account delete refused", slog.String("account_id", accountID))
		}
		return err
	}
	s.LogInfo(ctx, "Account deleted", slog.String("account_id", accountID))
	return nil
}

// SeedDefaultAccounts is a get-or-create over the default chart; rerunning it is harmless.
func (s *accountService) SeedDefaultAccounts(ctx context.Context, includeTax bool, userID string) ([]domain.Account, int, error) {
	chart := append([]domain.SeedAccount(nil), domain.DefaultChart...)
	if includeTax {
		chart = append(chart, domain.TaxSeedAccount)
	}

	var created []domain.Account
	existing := 0
	for _, seed := range chart {
		_, err := s.accountRepo.FindAccountByName(ctx, seed.Name)
		if err == nil {
			existing++
			continue
		}
		if !errors.Is(err, apperrors.ErrNotFound) {
			return created, existing, fmt.Errorf("failed to look up account %q: %w", seed.Name, err)
		}
		acc, err := s.CreateAccount(ctx, dto.CreateAccountRequest{Name: seed.Name, AccountType: seed.Type, Code: seed.Code}, userID)
		if err != nil {
			if errors.Is(err, apperrors.ErrDuplicate) {
				existing++
				continue
			}
			return created, existing, err
		}
		created = append(created, *acc)
	}

	s.LogInfo(ctx, "Default chart of accounts seeded", slog.Int("created", len(created)), slog.Int("existing", existing))
	return created, existing, nil
}

// ResolveAccount applies the role's preference order: exact names first,
// then the first account of the fallback type.
func (s *accountService) ResolveAccount(ctx context.Context, role domain.AccountRole) (*domain.Account, error) {
	return resolveAccount(ctx, s.accountRepo, role)
}

func resolveAccount(ctx context.Context, repo portsrepo.AccountReader, role domain.AccountRole) (*domain.Account, error) {
	rule, ok := domain.AccountRoles[role]
	if !ok {
		return nil, apperrors.NewValidationError("unknown account role %q", role)
	}
	for _, name := range rule.Names {
		acc, err := repo.FindAccountByName(ctx, name)
		if err == nil {
			return acc, nil
		}
		if !errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("failed to resolve %s: %w", role, err)
		}
	}
	if rule.FallbackType == "" {
		return nil, nil
	}
	candidates, err := repo.ListAccountsByType(ctx, rule.FallbackType)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %s: %w", role, err)
	}
	for i := range candidates {
		name := candidates[i].Name
		if domain.IsTaxAccountName(name) || slices.Contains(rule.SkipNames, name) {
			continue
		}
		middleware.GetLoggerFromCtx(ctx).Warn("Account role resolved by type fallback",
			slog.String("role", string(role)),
			slog.String("account_id", candidates[i].AccountID),
			slog.String("account_name", name))
		return &candidates[i], nil
	}
	return nil, nil
}
