package pgsql

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/SscSPs/invoicing_app/internal/apperrors"
	"github.com/SscSPs/invoicing_app/internal/core/domain"
	portsrepo "github.com/SscSPs/invoicing_app/internal/core/ports/repositories"
	"github.com/SscSPs/invoicing_app/internal/models"
	"github.com/SscSPs/invoicing_app/internal/utils/mapping"
)

const accountColumns = `account_id, name, account_type, code, created_at, created_by, last_updated_at, last_updated_by`

type PgxAccountRepository struct {
	BaseRepository
}

// newPgxAccountRepository creates a new repository for account data.
func newPgxAccountRepository(db DBTX) *PgxAccountRepository {
	return &PgxAccountRepository{BaseRepository: BaseRepository{DB: db}}
}

// Ensure PgxAccountRepository implements portsrepo.AccountRepositoryFacade
var _ portsrepo.AccountRepositoryFacade = (*PgxAccountRepository)(nil)

func scanAccount(row pgx.Row) (models.Account, error) {
	var m models.Account
	err := row.Scan(
		&m.AccountID,
		&m.Name,
		&m.AccountType,
		&m.Code,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

func (r *PgxAccountRepository) queryAccounts(ctx context.Context, query string, args ...any) ([]domain.Account, error) {
	rows, err := r.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query accounts: %w", err)
	}
	defer rows.Close()

	var ms []models.Account
	for rows.Next() {
		m, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan account row: %w", err)
		}
		ms = append(ms, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating account rows: %w", err)
	}
	return mapping.ToDomainAccountSlice(ms), nil
}

// SaveAccount inserts a new account.
func (r *PgxAccountRepository) SaveAccount(ctx context.Context, account domain.Account) error {
	m := mapping.ToModelAccount(account)
	query := `
		INSERT INTO accounts (` + accountColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8);
	`
	_, err := r.DB.Exec(ctx, query,
		m.AccountID,
		m.Name,
		m.AccountType,
		m.Code,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		return mapError(err, "account", m.Name)
	}
	return nil
}

// FindAccountByID retrieves an account by its ID.
func (r *PgxAccountRepository) FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE account_id = $1;`
	m, err := scanAccount(r.DB.QueryRow(ctx, query, accountID))
	if err != nil {
		return nil, mapError(err, "account", accountID)
	}
	acc := mapping.ToDomainAccount(m)
	return &acc, nil
}

// FindAccountByName retrieves an account by its unique name.
func (r *PgxAccountRepository) FindAccountByName(ctx context.Context, name string) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE name = $1;`
	m, err := scanAccount(r.DB.QueryRow(ctx, query, name))
	if err != nil {
		return nil, mapError(err, "account", name)
	}
	acc := mapping.ToDomainAccount(m)
	return &acc, nil
}

// FindAccountsByIDs retrieves multiple accounts by their IDs.
func (r *PgxAccountRepository) FindAccountsByIDs(ctx context.Context, accountIDs []string) (map[string]domain.Account, error) {
	return r.findAccountsByIDs(ctx, accountIDs, "")
}

// FindAccountsByIDsForShare retrieves accounts and keeps them share-locked,
// so a concurrent delete waits for the posting to finish.
func (r *PgxAccountRepository) FindAccountsByIDsForShare(ctx context.Context, accountIDs []string) (map[string]domain.Account, error) {
	return r.findAccountsByIDs(ctx, accountIDs, " FOR SHARE")
}

func (r *PgxAccountRepository) findAccountsByIDs(ctx context.Context, accountIDs []string, lock string) (map[string]domain.Account, error) {
	if len(accountIDs) == 0 {
		return map[string]domain.Account{}, nil
	}
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE account_id = ANY($1)` + lock + `;`
	accounts, err := r.queryAccounts(ctx, query, accountIDs)
	if err != nil {
		return nil, err
	}
	out := make(map[string]domain.Account, len(accounts))
	for _, a := range accounts {
		out[a.AccountID] = a
	}
	return out, nil
}

// ListAccounts returns the chart of accounts.
func (r *PgxAccountRepository) ListAccounts(ctx context.Context) ([]domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts ORDER BY code NULLS LAST, name, account_id;`
	return r.queryAccounts(ctx, query)
}

// ListAccountsByType returns the accounts of one type.
func (r *PgxAccountRepository) ListAccountsByType(ctx context.Context, accountType domain.AccountType) ([]domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE account_type = $1 ORDER BY code NULLS LAST, name, account_id;`
	return r.queryAccounts(ctx, query, string(accountType))
}

// DeleteAccount removes an account. journal_lines restricts the delete of a
// referenced account.
func (r *PgxAccountRepository) DeleteAccount(ctx context.Context, accountID string) error {
	tag, err := r.DB.Exec(ctx, `DELETE FROM accounts WHERE account_id = $1;`, accountID)
	if err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("%w: %s", apperrors.ErrAccountInUse, accountID)
		}
		return fmt.Errorf("failed to delete account %s: %w", accountID, err)
	}
	return expectOne(tag, "account", accountID)
}
