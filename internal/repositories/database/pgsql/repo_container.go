package pgsql

import (
	"github.com/jackc/pgx/v5/pgxpool"

	portsrepo "github.com/SscSPs/invoicing_app/internal/core/ports/repositories"
)

func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	accountRepo := newPgxAccountRepository(dbPool)
	journalRepo := newPgxJournalRepository(dbPool)
	masterRepo := newPgxMasterRepository(dbPool)
	documentRepo := newPgxDocumentRepository(dbPool)
	paymentRepo := newPgxPaymentRepository(dbPool)
	reportingRepo := newReportingRepository(dbPool)

	return portsrepo.RepositoryProvider{
		AccountRepo:         accountRepo,
		JournalRepo:         journalRepo,
		ContactRepo:         masterRepo,
		ProductRepo:         masterRepo,
		BillRepo:            documentRepo,
		PaymentRepo:         paymentRepo,
		InvoiceRepo:         documentRepo,
		CustomerPaymentRepo: paymentRepo,
		PurchaseOrderRepo:   documentRepo,
		SalesOrderRepo:      documentRepo,
		ReportingRepo:       reportingRepo,
		Tx:                  newPgxUnitOfWork(dbPool),
	}
}
