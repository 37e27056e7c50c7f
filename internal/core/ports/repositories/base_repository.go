package repositories

import "context"

// TxRepositories are repositories bound to one open transaction.
type TxRepositories struct {
	Accounts         AccountRepositoryFacade
	Journals         JournalRepositoryFacade
	Contacts         ContactReader
	Products         ProductReader
	Bills            VendorBillRepository
	Payments         PaymentRepository
	Invoices         CustomerInvoiceRepository
	CustomerPayments CustomerPaymentRepository
	PurchaseOrders   PurchaseOrderRepository
	SalesOrders      SalesOrderRepository
	Sequences        SequenceRepository
}

// UnitOfWork runs fn inside a single transaction. The transaction commits
// when fn returns nil and rolls back otherwise; no partial write survives.
type UnitOfWork interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context, repos TxRepositories) error) error
}
