package services_test

import (
	"errors"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"

	"github.com/SscSPs/invoicing_app/internal/apperrors"
	"github.com/SscSPs/invoicing_app/internal/core/domain"
	"github.com/SscSPs/invoicing_app/internal/dto"
)

type VendorBillServiceTestSuite struct {
	ledgerFixture
}

func (s *VendorBillServiceTestSuite) SetupTest() {
	s.setup(true, true)
}

func TestVendorBillServiceTestSuite(t *testing.T) {
	suite.Run(t, new(VendorBillServiceTestSuite))
}

func (s *VendorBillServiceTestSuite) TestCreateBill_ProductDefaultsFillLine() {
	bill := s.draftBill(dto.LineRequest{ProductID: productID, Quantity: d("3")})

	s.Equal(domain.StatusDraft, bill.Status)
	s.Equal("BILL/2025/0001", bill.Number)
	s.Require().Len(bill.Lines, 1)
	s.True(bill.Lines[0].UnitPrice.Equal(d("100")))
	s.True(bill.Lines[0].TaxPercent.Equal(d("18")))
	s.True(bill.Net.Equal(d("300")))
	s.True(bill.Tax.Equal(d("54")))
	s.True(bill.Total.Equal(d("354")))
}

func (s *VendorBillServiceTestSuite) TestCreateBill_UnknownVendor() {
	_, err := s.svc.VendorBill.CreateBill(s.ctx, dto.CreateBillRequest{
		VendorID: "nobody",
		BillDate: day(2025, 4, 10),
		Lines:    []dto.LineRequest{priced("1", "10", "0")},
	}, testUser)
	s.ErrorIs(err, apperrors.ErrNotFound)
}

func (s *VendorBillServiceTestSuite) TestConfirmBill_PostsExpenseTaxAndCreditors() {
	bill := s.draftBill(dto.LineRequest{ProductID: productID, Quantity: d("3")})

	confirmed, entry, err := s.svc.VendorBill.ConfirmBill(s.ctx, bill.BillID, testUser)
	s.Require().NoError(err)

	s.Equal(domain.StatusConfirmed, confirmed.Status)
	s.Require().NotNil(confirmed.JournalEntryID)
	s.Equal(entry.EntryID, *confirmed.JournalEntryID)
	s.Equal(bill.Number, entry.Ref)

	byAccount := map[string]domain.JournalLine{}
	for _, l := range entry.Lines {
		byAccount[l.AccountID] = l
	}
	s.Require().Len(byAccount, 3)
	s.True(byAccount[s.account("Purchase Expense A/c")].Debit.Equal(d("300")))
	s.True(byAccount[s.account("Tax A/c")].Debit.Equal(d("54")))
	s.Nil(byAccount[s.account("Purchase Expense A/c")].Partner)
	s.Nil(byAccount[s.account("Tax A/c")].Partner)
	creditors := byAccount[s.account("Creditors A/c")]
	s.True(creditors.Credit.Equal(d("354")))
	s.Require().NotNil(creditors.Partner)
	s.Equal(*domain.ContactRef(vendorID), *creditors.Partner)

	debit, credit := entry.Totals()
	s.True(debit.Equal(credit))
}

func (s *VendorBillServiceTestSuite) TestConfirmBill_SecondConfirmIsRejected() {
	bill := s.confirmedBill(priced("1", "100", "0"))

	_, _, err := s.svc.VendorBill.ConfirmBill(s.ctx, bill.BillID, testUser)
	s.ErrorIs(err, apperrors.ErrAlreadyPosted)
	s.ErrorIs(err, apperrors.ErrConflict)
}

func (s *VendorBillServiceTestSuite) TestConfirmBill_ConcurrentConfirmPostsOnce() {
	bill := s.draftBill(priced("2", "50", "10"))

	const workers = 10
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes int
		rejected  int
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _, err := s.svc.VendorBill.ConfirmBill(s.ctx, bill.BillID, testUser)
			mu.Lock()
			defer mu.Unlock()
			if err == nil {
				successes++
			} else if errors.Is(err, apperrors.ErrConflict) {
				rejected++
			}
		}()
	}
	wg.Wait()

	s.Equal(1, successes)
	s.Equal(workers-1, rejected)

	tb, err := s.svc.Reporting.TrialBalance(s.ctx, nil)
	s.Require().NoError(err)
	s.True(tb.TotalDebit.Equal(d("110")))
	s.True(tb.TotalCredit.Equal(d("110")))
}

func (s *VendorBillServiceTestSuite) TestConfirmBill_ZeroTotalIsRejected() {
	bill := s.draftBill(priced("1", "0", "0"))

	_, _, err := s.svc.VendorBill.ConfirmBill(s.ctx, bill.BillID, testUser)
	s.ErrorIs(err, apperrors.ErrEmptyDocument)
	s.ErrorIs(err, apperrors.ErrValidation)
}

func (s *VendorBillServiceTestSuite) TestConfirmBill_UnknownBill() {
	_, _, err := s.svc.VendorBill.ConfirmBill(s.ctx, "missing", testUser)
	s.ErrorIs(err, apperrors.ErrNotFound)
}

func (s *VendorBillServiceTestSuite) TestPayments_TrackOutstandingAndMarkPaid() {
	bill := s.confirmedBill(priced("1", "1000", "10"))
	s.True(bill.Total.Equal(d("1100")))

	_, err := s.payBill(bill.BillID, "600")
	s.Require().NoError(err)

	out, err := s.svc.VendorBill.BillOutstanding(s.ctx, bill.BillID)
	s.Require().NoError(err)
	s.True(out.Settled.Equal(d("600")))
	s.True(out.Outstanding.Equal(d("500")))

	entriesBefore := s.entryCount()
	debitBefore, _ := s.trialTotals()

	_, err = s.payBill(bill.BillID, "600")
	var exceeds *apperrors.ExceedsOutstandingError
	s.Require().ErrorAs(err, &exceeds)
	s.True(exceeds.Outstanding.Equal(d("500")))
	s.ErrorIs(err, apperrors.ErrConflict)
	s.Equal(entriesBefore, s.entryCount())
	debitAfter, _ := s.trialTotals()
	s.True(debitAfter.Equal(debitBefore))

	posted, err := s.payBill(bill.BillID, "500")
	s.Require().NoError(err)
	s.NotNil(posted.JournalEntryID)
	s.NotNil(posted.PostedAt)

	paid, err := s.svc.VendorBill.GetBill(s.ctx, bill.BillID)
	s.Require().NoError(err)
	s.Equal(domain.StatusPaid, paid.Status)

	out, err = s.svc.VendorBill.BillOutstanding(s.ctx, bill.BillID)
	s.Require().NoError(err)
	s.True(out.Outstanding.IsZero())

	payments, err := s.svc.Payment.ListPaymentsForBill(s.ctx, bill.BillID)
	s.Require().NoError(err)
	s.Len(payments, 3)
}

func (s *VendorBillServiceTestSuite) TestPostPayment_PostsCreditorsAgainstBank() {
	bill := s.confirmedBill(priced("1", "200", "0"))

	p, err := s.svc.Payment.CreatePayment(s.ctx, dto.CreatePaymentRequest{
		BillID:              bill.BillID,
		PaymentDate:         day(2025, 4, 21),
		Amount:              d("200"),
		SettlementAccountID: s.account("Bank A/c"),
		Method:              domain.MethodUPI,
	}, testUser)
	s.Require().NoError(err)
	s.Equal(vendorID, p.VendorID)
	s.Equal("PAY/2025/0001", p.Number)

	_, entry, err := s.svc.Payment.PostPayment(s.ctx, p.PaymentID, testUser)
	s.Require().NoError(err)
	s.Require().Len(entry.Lines, 2)
	s.Equal(s.account("Creditors A/c"), entry.Lines[0].AccountID)
	s.True(entry.Lines[0].Debit.Equal(d("200")))
	s.Equal(s.account("Bank A/c"), entry.Lines[1].AccountID)
	s.True(entry.Lines[1].Credit.Equal(d("200")))

	_, _, err = s.svc.Payment.PostPayment(s.ctx, p.PaymentID, testUser)
	s.ErrorIs(err, apperrors.ErrAlreadyPosted)
}

func (s *VendorBillServiceTestSuite) TestPostPayment_DraftBillCannotBePaid() {
	bill := s.draftBill(priced("1", "200", "0"))

	_, err := s.payBill(bill.BillID, "100")
	s.ErrorIs(err, apperrors.ErrInvalidState)
}

func (s *VendorBillServiceTestSuite) TestCreatePayment_SettlementMustBeAsset() {
	bill := s.confirmedBill(priced("1", "200", "0"))

	_, err := s.svc.Payment.CreatePayment(s.ctx, dto.CreatePaymentRequest{
		BillID:              bill.BillID,
		PaymentDate:         day(2025, 4, 21),
		Amount:              d("50"),
		SettlementAccountID: s.account("Sales Income A/c"),
		Method:              domain.MethodCash,
	}, testUser)
	s.ErrorIs(err, apperrors.ErrValidation)
}

func (s *VendorBillServiceTestSuite) TestDeleteAccount_InUseIsRefused() {
	s.confirmedBill(priced("1", "100", "0"))

	err := s.svc.Account.DeleteAccount(s.ctx, s.account("Purchase Expense A/c"))
	s.ErrorIs(err, apperrors.ErrAccountInUse)

	s.NoError(s.svc.Account.DeleteAccount(s.ctx, s.account("Other Expense A/c")))
	_, err = s.svc.Account.GetAccountByID(s.ctx, s.account("Other Expense A/c"))
	s.ErrorIs(err, apperrors.ErrNotFound)
}

type UntaxedChartTestSuite struct {
	ledgerFixture
}

func (s *UntaxedChartTestSuite) SetupTest() {
	s.setup(true, false)
}

func TestUntaxedChartTestSuite(t *testing.T) {
	suite.Run(t, new(UntaxedChartTestSuite))
}

func (s *UntaxedChartTestSuite) TestConfirmBill_FoldsTaxIntoExpense() {
	bill := s.draftBill(priced("2", "100", "18"))

	_, entry, err := s.svc.VendorBill.ConfirmBill(s.ctx, bill.BillID, testUser)
	s.Require().NoError(err)

	s.Require().Len(entry.Lines, 2)
	expense := entry.Lines[0]
	s.Equal(s.account("Purchase Expense A/c"), expense.AccountID)
	s.True(expense.Debit.Equal(d("236")))
	s.Contains(expense.Narration, "includes tax 36.00")
	s.True(entry.Lines[1].Credit.Equal(d("236")))
}

func (s *UntaxedChartTestSuite) TestSeedIsIdempotent() {
	created, existing, err := s.svc.Account.SeedDefaultAccounts(s.ctx, true, testUser)
	s.Require().NoError(err)
	s.Require().Len(created, 1)
	s.Equal("Tax A/c", created[0].Name)
	s.Equal(len(domain.DefaultChart), existing)
}

type UnseededLedgerTestSuite struct {
	ledgerFixture
}

func (s *UnseededLedgerTestSuite) SetupTest() {
	s.setup(false, false)
}

func TestUnseededLedgerTestSuite(t *testing.T) {
	suite.Run(t, new(UnseededLedgerTestSuite))
}

func (s *UnseededLedgerTestSuite) TestConfirmBill_MissingAccountsIsConfigurationError() {
	bill := s.draftBill(priced("1", "100", "0"))

	_, _, err := s.svc.VendorBill.ConfirmBill(s.ctx, bill.BillID, testUser)
	s.ErrorIs(err, apperrors.ErrAccountsNotConfigured)
	s.ErrorIs(err, apperrors.ErrConfiguration)

	still, err := s.svc.VendorBill.GetBill(s.ctx, bill.BillID)
	s.Require().NoError(err)
	s.Equal(domain.StatusDraft, still.Status)
	s.Nil(still.JournalEntryID)
}

func (s *UnseededLedgerTestSuite) TestCreateBill_LineWithoutPriceOrProduct() {
	_, err := s.svc.VendorBill.CreateBill(s.ctx, dto.CreateBillRequest{
		VendorID: vendorID,
		BillDate: day(2025, 4, 10),
		Lines:    []dto.LineRequest{{Description: "Loose item", Quantity: decimal.NewFromInt(1)}},
	}, testUser)
	s.ErrorIs(err, apperrors.ErrValidation)
}

func (s *UnseededLedgerTestSuite) TestDebtorsFallbackSkipsSettlementAccounts() {
	for _, req := range []dto.CreateAccountRequest{
		{Name: "Cash A/c", AccountType: domain.Asset, Code: "1000"},
		{Name: "Bank A/c", AccountType: domain.Asset, Code: "1010"},
	} {
		_, err := s.svc.Account.CreateAccount(s.ctx, req, testUser)
		s.Require().NoError(err)
	}

	acc, err := s.svc.Account.ResolveAccount(s.ctx, domain.RoleDebtors)
	s.Require().NoError(err)
	s.Nil(acc)

	receivables, err := s.svc.Account.CreateAccount(s.ctx, dto.CreateAccountRequest{Name: "Trade Receivables", AccountType: domain.Asset, Code: "1100"}, testUser)
	s.Require().NoError(err)

	acc, err = s.svc.Account.ResolveAccount(s.ctx, domain.RoleDebtors)
	s.Require().NoError(err)
	s.Require().NotNil(acc)
	s.Equal(receivables.AccountID, acc.AccountID)
}
