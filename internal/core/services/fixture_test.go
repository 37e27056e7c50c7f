package services_test

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"

	"github.com/SscSPs/invoicing_app/internal/core/domain"
	portssvc "github.com/SscSPs/invoicing_app/internal/core/ports/services"
	"github.com/SscSPs/invoicing_app/internal/core/services"
	"github.com/SscSPs/invoicing_app/internal/dto"
	"github.com/SscSPs/invoicing_app/internal/platform/metrics"
	"github.com/SscSPs/invoicing_app/internal/repositories/memory"
)

const (
	testUser   = "tester"
	vendorID   = "vendor-1"
	customerID = "customer-1"
	productID  = "product-1"
)

// ledgerFixture wires the services over a fresh in-memory store.
type ledgerFixture struct {
	suite.Suite
	ctx      context.Context
	store    *memory.Store
	svc      *portssvc.ServiceContainer
	metrics  *metrics.Metrics
	accounts map[string]domain.Account
}

func (f *ledgerFixture) setup(seed, withTax bool) {
	f.ctx = context.Background()
	f.store = memory.NewStore()
	f.store.AddContact(domain.Contact{ContactID: vendorID, Name: "Paper Mills", ContactType: domain.ContactVendor})
	f.store.AddContact(domain.Contact{ContactID: customerID, Name: "Acme Retail", ContactType: domain.ContactCustomer})
	f.store.AddProduct(domain.Product{
		ProductID:          productID,
		Name:               "A4 Paper",
		PurchasePrice:      d("100"),
		PurchaseTaxPercent: d("18"),
		SalesPrice:         d("150"),
		SalesTaxPercent:    d("18"),
	})
	f.metrics = metrics.New()
	f.svc = services.NewServiceContainer(f.store.Provider(), nil, f.metrics)
	f.accounts = map[string]domain.Account{}
	if seed {
		_, _, err := f.svc.Account.SeedDefaultAccounts(f.ctx, withTax, testUser)
		f.Require().NoError(err)
		all, err := f.svc.Account.ListAccounts(f.ctx)
		f.Require().NoError(err)
		for _, a := range all {
			f.accounts[a.Name] = a
		}
	}
}

func (f *ledgerFixture) account(name string) string {
	acc, ok := f.accounts[name]
	f.Require().True(ok, "account %s not seeded", name)
	return acc.AccountID
}

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func dp(s string) *decimal.Decimal {
	v := d(s)
	return &v
}

func day(y int, m time.Month, dd int) time.Time {
	return time.Date(y, m, dd, 0, 0, 0, 0, time.UTC)
}

func (f *ledgerFixture) draftBill(lines ...dto.LineRequest) *domain.VendorBill {
	bill, err := f.svc.VendorBill.CreateBill(f.ctx, dto.CreateBillRequest{
		VendorID: vendorID,
		BillDate: day(2025, time.April, 10),
		Lines:    lines,
	}, testUser)
	f.Require().NoError(err)
	return bill
}

func (f *ledgerFixture) confirmedBill(lines ...dto.LineRequest) *domain.VendorBill {
	bill := f.draftBill(lines...)
	confirmed, _, err := f.svc.VendorBill.ConfirmBill(f.ctx, bill.BillID, testUser)
	f.Require().NoError(err)
	return confirmed
}

func (f *ledgerFixture) payBill(billID, amount string) (*domain.Payment, error) {
	p, err := f.svc.Payment.CreatePayment(f.ctx, dto.CreatePaymentRequest{
		BillID:              billID,
		PaymentDate:         day(2025, time.April, 20),
		Amount:              d(amount),
		SettlementAccountID: f.account("Bank A/c"),
		Method:              domain.MethodBank,
		Reference:           "NEFT",
	}, testUser)
	if err != nil {
		return nil, err
	}
	posted, _, err := f.svc.Payment.PostPayment(f.ctx, p.PaymentID, testUser)
	return posted, err
}

func priced(qty, price, tax string) dto.LineRequest {
	return dto.LineRequest{Description: "Item", Quantity: d(qty), UnitPrice: dp(price), TaxPercent: dp(tax)}
}

func (f *ledgerFixture) entryCount() int {
	page, err := f.svc.Journal.ListJournals(f.ctx, dto.ListJournalsParams{Limit: 100})
	f.Require().NoError(err)
	return len(page.Journals)
}

func (f *ledgerFixture) trialTotals() (decimal.Decimal, decimal.Decimal) {
	tb, err := f.svc.Reporting.TrialBalance(f.ctx, nil)
	f.Require().NoError(err)
	return tb.TotalDebit, tb.TotalCredit
}
