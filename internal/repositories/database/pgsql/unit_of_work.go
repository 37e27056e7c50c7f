package pgsql

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	portsrepo "github.com/SscSPs/invoicing_app/internal/core/ports/repositories"
)

// pgxUnitOfWork opens a pgx transaction per call and hands fn repositories
// bound to it.
type pgxUnitOfWork struct {
	pool *pgxpool.Pool
}

func newPgxUnitOfWork(pool *pgxpool.Pool) *pgxUnitOfWork {
	return &pgxUnitOfWork{pool: pool}
}

var _ portsrepo.UnitOfWork = (*pgxUnitOfWork)(nil)

// WithinTx runs at READ COMMITTED; document and counter rows are serialised
// with explicit row locks instead of a stricter isolation level.
func (u *pgxUnitOfWork) WithinTx(ctx context.Context, fn func(ctx context.Context, repos portsrepo.TxRepositories) error) error {
	tx, err := u.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}

	defer func() {
		_ = tx.Rollback(ctx)
	}()

	if err := fn(ctx, txRepositories(tx)); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

func txRepositories(db DBTX) portsrepo.TxRepositories {
	documents := newPgxDocumentRepository(db)
	payments := newPgxPaymentRepository(db)
	master := newPgxMasterRepository(db)
	return portsrepo.TxRepositories{
		Accounts:         newPgxAccountRepository(db),
		Journals:         newPgxJournalRepository(db),
		Contacts:         master,
		Products:         master,
		Bills:            documents,
		Payments:         payments,
		Invoices:         documents,
		CustomerPayments: payments,
		PurchaseOrders:   documents,
		SalesOrders:      documents,
		Sequences:        newPgxSequenceRepository(db),
	}
}
