package services

// ServiceContainer holds instances of all the application services.
// This is the main entry point for accessing service functionality and
// is used throughout the application, particularly in the handlers.
type ServiceContainer struct {
	Account         AccountSvcFacade
	Journal         JournalSvcFacade
	Sequence        SequenceSvc
	VendorBill      VendorBillSvc
	Payment         PaymentSvc
	CustomerInvoice CustomerInvoiceSvc
	CustomerPayment CustomerPaymentSvc
	PurchaseOrder   PurchaseOrderSvc
	SalesOrder      SalesOrderSvc
	Reporting       ReportingService
}
