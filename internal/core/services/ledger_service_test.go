package services_test

import (
	"math/rand"
	"slices"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"

	"github.com/SscSPs/invoicing_app/internal/apperrors"
	"github.com/SscSPs/invoicing_app/internal/core/domain"
	"github.com/SscSPs/invoicing_app/internal/dto"
	"github.com/SscSPs/invoicing_app/internal/utils/accounting"
)

type LedgerServiceTestSuite struct {
	ledgerFixture
}

func (s *LedgerServiceTestSuite) SetupTest() {
	s.setup(true, true)
}

func TestLedgerServiceTestSuite(t *testing.T) {
	suite.Run(t, new(LedgerServiceTestSuite))
}

func (s *LedgerServiceTestSuite) journal(ref string, lines ...dto.PostingLineRequest) (*domain.JournalEntry, error) {
	return s.svc.Journal.CreateJournal(s.ctx, dto.CreateJournalRequest{
		Date:  day(2025, 6, 1),
		Ref:   ref,
		Lines: lines,
	}, testUser)
}

func dr(accountID, amount string) dto.PostingLineRequest {
	return dto.PostingLineRequest{AccountID: accountID, Debit: d(amount), Credit: decimal.Zero}
}

func cr(accountID, amount string) dto.PostingLineRequest {
	return dto.PostingLineRequest{AccountID: accountID, Debit: decimal.Zero, Credit: d(amount)}
}

func (s *LedgerServiceTestSuite) TestCreateJournal_RejectsUnbalancedEntry() {
	_, err := s.journal("JV-1", dr(s.account("Cash A/c"), "100"), cr(s.account("Sales Income A/c"), "99.99"))

	var unbalanced *apperrors.UnbalancedEntryError
	s.Require().ErrorAs(err, &unbalanced)
	s.True(unbalanced.DebitTotal.Equal(d("100")))
	s.ErrorIs(err, apperrors.ErrValidation)

	tb, err := s.svc.Reporting.TrialBalance(s.ctx, nil)
	s.Require().NoError(err)
	s.True(tb.TotalDebit.IsZero())
}

func (s *LedgerServiceTestSuite) TestCreateJournal_RejectsBadLines() {
	cash, income := s.account("Cash A/c"), s.account("Sales Income A/c")
	cases := map[string][]dto.PostingLineRequest{
		"both sides": {
			{AccountID: cash, Debit: d("10"), Credit: d("10")},
			cr(income, "10"),
		},
		"neither side": {
			{AccountID: cash, Debit: decimal.Zero, Credit: decimal.Zero},
			cr(income, "10"),
		},
		"negative": {
			dr(cash, "-10"),
			cr(income, "-10"),
		},
		"sub-paisa": {
			dr(cash, "10.005"),
			cr(income, "10.005"),
		},
	}
	for name, lines := range cases {
		s.Run(name, func() {
			_, err := s.journal("JV-"+name, lines...)
			var invalid *apperrors.InvalidLineError
			s.ErrorAs(err, &invalid)
		})
	}
}

func (s *LedgerServiceTestSuite) TestCreateJournal_UnknownAccount() {
	_, err := s.journal("JV-2", dr("nope", "10"), cr(s.account("Cash A/c"), "10"))
	s.ErrorIs(err, apperrors.ErrAccountNotFound)
	s.ErrorIs(err, apperrors.ErrNotFound)
}

func (s *LedgerServiceTestSuite) TestCreateJournal_UnknownPartner() {
	line := dr(s.account("Debtors A/c"), "10")
	line.PartnerID = "ghost"
	_, err := s.journal("JV-3", line, cr(s.account("Sales Income A/c"), "10"))
	s.ErrorIs(err, apperrors.ErrNotFound)
}

func (s *LedgerServiceTestSuite) TestRandomBalancedEntriesKeepTrialBalanceEven() {
	rng := rand.New(rand.NewSource(42))
	ids := make([]string, 0, len(s.accounts))
	for _, a := range s.accounts {
		ids = append(ids, a.AccountID)
	}
	slices.Sort(ids)

	for i := 0; i < 40; i++ {
		legs := 1 + rng.Intn(3)
		var lines []dto.PostingLineRequest
		total := decimal.Zero
		for j := 0; j < legs; j++ {
			amount := decimal.New(int64(1+rng.Intn(500000)), -2)
			total = total.Add(amount)
			lines = append(lines, dto.PostingLineRequest{AccountID: ids[rng.Intn(len(ids))], Debit: amount, Credit: decimal.Zero})
		}
		lines = append(lines, dto.PostingLineRequest{AccountID: ids[rng.Intn(len(ids))], Debit: decimal.Zero, Credit: total})

		entry, err := s.journal("JV-R", lines...)
		s.Require().NoError(err)
		s.True(accounting.NetOfLines(entry.Lines).IsZero())
	}

	tb, err := s.svc.Reporting.TrialBalance(s.ctx, nil)
	s.Require().NoError(err)
	s.True(tb.TotalDebit.Equal(tb.TotalCredit))

	bs, err := s.svc.Reporting.BalanceSheet(s.ctx, nil)
	s.Require().NoError(err)
	s.True(bs.Balanced)
}

func (s *LedgerServiceTestSuite) TestRandomInvalidEntriesPersistNothing() {
	rng := rand.New(rand.NewSource(7))
	ids := make([]string, 0, len(s.accounts))
	for _, a := range s.accounts {
		ids = append(ids, a.AccountID)
	}
	slices.Sort(ids)
	randomAmount := func() decimal.Decimal {
		return decimal.New(int64(1+rng.Intn(500000)), -2)
	}

	_, err := s.journal("JV-SEED", dr(s.account("Cash A/c"), "10"), cr(s.account("Sales Income A/c"), "10"))
	s.Require().NoError(err)
	entries := s.entryCount()
	debitBefore, creditBefore := s.trialTotals()

	for i := 0; i < 60; i++ {
		amount := randomAmount()
		lines := []dto.PostingLineRequest{
			{AccountID: ids[rng.Intn(len(ids))], Debit: amount, Credit: decimal.Zero},
			{AccountID: ids[rng.Intn(len(ids))], Debit: decimal.Zero, Credit: amount},
		}
		switch i % 3 {
		case 0:
			lines[1].Credit = amount.Add(randomAmount())
		case 1:
			extra := randomAmount()
			lines = append(lines, dto.PostingLineRequest{AccountID: ids[rng.Intn(len(ids))], Debit: extra, Credit: extra})
		case 2:
			lines = append(lines, dto.PostingLineRequest{AccountID: ids[rng.Intn(len(ids))], Debit: decimal.Zero, Credit: decimal.Zero})
		}
		rng.Shuffle(len(lines), func(a, b int) { lines[a], lines[b] = lines[b], lines[a] })

		_, err := s.journal("JV-BAD", lines...)
		s.Require().Error(err)
		s.ErrorIs(err, apperrors.ErrValidation)
	}

	s.Equal(entries, s.entryCount())
	debitAfter, creditAfter := s.trialTotals()
	s.True(debitAfter.Equal(debitBefore))
	s.True(creditAfter.Equal(creditBefore))
}

func (s *LedgerServiceTestSuite) TestListJournalsPages() {
	for i := 0; i < 3; i++ {
		_, err := s.journal("JV-P", dr(s.account("Cash A/c"), "10"), cr(s.account("Sales Income A/c"), "10"))
		s.Require().NoError(err)
	}

	first, err := s.svc.Journal.ListJournals(s.ctx, dto.ListJournalsParams{Limit: 2})
	s.Require().NoError(err)
	s.Len(first.Journals, 2)
	s.Require().NotNil(first.NextToken)

	second, err := s.svc.Journal.ListJournals(s.ctx, dto.ListJournalsParams{Limit: 2, NextToken: first.NextToken})
	s.Require().NoError(err)
	s.Len(second.Journals, 1)
	s.Nil(second.NextToken)
}

func (s *LedgerServiceTestSuite) TestNextNumber_ConcurrentCallersGetDistinctNumbers() {
	const callers = 20
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		numbers = map[string]bool{}
	)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			n, err := s.svc.Sequence.NextNumber(s.ctx, domain.ScopePurchaseOrder, 2025)
			if err != nil {
				return
			}
			mu.Lock()
			numbers[n] = true
			mu.Unlock()
		}()
	}
	wg.Wait()

	s.Len(numbers, callers)
	s.True(numbers["PO/2025/0001"])
	s.True(numbers["PO/2025/0020"])
}

func (s *LedgerServiceTestSuite) TestNextNumber_YearsAndScopesAreIndependent() {
	a, err := s.svc.Sequence.NextNumber(s.ctx, domain.ScopeInvoice, 2024)
	s.Require().NoError(err)
	b, err := s.svc.Sequence.NextNumber(s.ctx, domain.ScopeInvoice, 2025)
	s.Require().NoError(err)
	c, err := s.svc.Sequence.NextNumber(s.ctx, domain.ScopePayment, 2025)
	s.Require().NoError(err)

	s.Equal("INV/2024/0001", a)
	s.Equal("INV/2025/0001", b)
	s.Equal("PAY/2025/0001", c)

	_, err = s.svc.Sequence.NextNumber(s.ctx, domain.SequenceScope("XYZ"), 2025)
	s.ErrorIs(err, apperrors.ErrValidation)
}

func (s *LedgerServiceTestSuite) TestProfitAndLoss_EmptyRange() {
	s.confirmedBill(priced("1", "100", "0"))

	from, to := day(2020, 1, 1), day(2020, 12, 31)
	report, err := s.svc.Reporting.ProfitAndLoss(s.ctx, from, to, false)
	s.Require().NoError(err)
	s.False(report.UsedAllTimeFallback)
	s.Empty(report.Expenses)
	s.True(report.NetProfit.IsZero())

	report, err = s.svc.Reporting.ProfitAndLoss(s.ctx, from, to, true)
	s.Require().NoError(err)
	s.True(report.UsedAllTimeFallback)
	s.Require().Len(report.Expenses, 1)
	s.True(report.TotalExpense.Equal(d("100")))
	s.True(report.NetProfit.Equal(d("-100")))

	_, err = s.svc.Reporting.ProfitAndLoss(s.ctx, to, from, false)
	s.ErrorIs(err, apperrors.ErrValidation)
}

func (s *LedgerServiceTestSuite) TestBalanceSheetClosesAfterTrading() {
	bill := s.confirmedBill(priced("4", "250", "18"))
	_, err := s.payBill(bill.BillID, "500")
	s.Require().NoError(err)

	invoice, err := s.svc.CustomerInvoice.CreateInvoice(s.ctx, dto.CreateInvoiceRequest{
		CustomerID:  customerID,
		InvoiceDate: day(2025, 4, 12),
		Lines:       []dto.LineRequest{priced("3", "600", "18")},
	}, testUser)
	s.Require().NoError(err)
	_, _, err = s.svc.CustomerInvoice.ConfirmInvoice(s.ctx, invoice.InvoiceID, testUser)
	s.Require().NoError(err)

	pl, err := s.svc.Reporting.ProfitAndLoss(s.ctx, day(2025, 4, 1), day(2025, 4, 30), false)
	s.Require().NoError(err)
	s.True(pl.TotalIncome.Equal(d("1800")))
	s.True(pl.TotalExpense.Equal(d("1000")))
	s.True(pl.NetProfit.Equal(d("800")))

	bs, err := s.svc.Reporting.BalanceSheet(s.ctx, nil)
	s.Require().NoError(err)
	s.True(bs.Balanced)
	s.True(bs.NetProfit.Equal(d("800")))
	s.True(bs.TotalAssets.Equal(bs.TotalLiabilities.Add(bs.TotalEquity)))

	before := day(2025, 4, 11)
	early, err := s.svc.Reporting.BalanceSheet(s.ctx, &before)
	s.Require().NoError(err)
	s.True(early.Balanced)
	s.True(early.NetProfit.Equal(d("-1000")))
}

func (s *LedgerServiceTestSuite) TestPartnerLedgerRejectsUnknownContact() {
	_, err := s.svc.Reporting.PartnerLedger(s.ctx, *domain.ContactRef("ghost"))
	s.ErrorIs(err, apperrors.ErrNotFound)
}
