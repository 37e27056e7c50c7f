package repositories

// RepositoryProvider holds all repository interfaces needed by services.
// The plain repositories run each call on its own; Tx groups calls atomically.
type RepositoryProvider struct {
	AccountRepo         AccountRepositoryFacade
	JournalRepo         JournalRepositoryFacade
	ContactRepo         ContactReader
	ProductRepo         ProductReader
	BillRepo            VendorBillRepository
	PaymentRepo         PaymentRepository
	InvoiceRepo         CustomerInvoiceRepository
	CustomerPaymentRepo CustomerPaymentRepository
	PurchaseOrderRepo   PurchaseOrderRepository
	SalesOrderRepo      SalesOrderRepository
	ReportingRepo       ReportingRepository
	Tx                  UnitOfWork
}
