package services

import (
	portsrepo "github.com/SscSPs/invoicing_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/invoicing_app/internal/core/ports/services"
	"github.com/SscSPs/invoicing_app/internal/platform/metrics"
)

// NewServiceContainer creates a new service container with properly initialized dependencies.
// lookup supplies product defaults to the document controllers; pass nil to
// read products directly.
func NewServiceContainer(repos portsrepo.RepositoryProvider, lookup portssvc.TaxRateLookup, m *metrics.Metrics) *portssvc.ServiceContainer {
	if lookup == nil {
		lookup = NewProductTaxLookup(repos.ProductRepo)
	}
	opts := []ServiceOption{WithMetrics(m)}

	container := &portssvc.ServiceContainer{}
	container.Account = NewAccountService(repos.AccountRepo, opts...)
	container.Sequence = NewSequenceService(repos.Tx, opts...)

	// The journal service is also the posting engine every controller shares.
	journal := NewJournalService(repos, NewRefRegistry(), opts...)
	container.Journal = journal

	container.VendorBill = NewVendorBillService(repos, journal, container.Sequence, lookup, opts...)
	container.Payment = NewPaymentService(repos, journal, container.Sequence, opts...)
	container.CustomerInvoice = NewCustomerInvoiceService(repos, journal, container.Sequence, lookup, opts...)
	container.CustomerPayment = NewCustomerPaymentService(repos, journal, container.Sequence, opts...)
	container.PurchaseOrder = NewPurchaseOrderService(repos, container.Sequence, lookup, opts...)
	container.SalesOrder = NewSalesOrderService(repos, container.Sequence, lookup, opts...)
	container.Reporting = NewReportingService(repos.ReportingRepo, repos.ContactRepo, opts...)

	return container
}
