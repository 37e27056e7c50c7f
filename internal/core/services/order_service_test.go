package services_test

import (
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/SscSPs/invoicing_app/internal/apperrors"
	"github.com/SscSPs/invoicing_app/internal/core/domain"
	"github.com/SscSPs/invoicing_app/internal/dto"
)

type OrderServiceTestSuite struct {
	ledgerFixture
}

func (s *OrderServiceTestSuite) SetupTest() {
	s.setup(true, true)
}

func TestOrderServiceTestSuite(t *testing.T) {
	suite.Run(t, new(OrderServiceTestSuite))
}

func (s *OrderServiceTestSuite) newPurchaseOrder() *domain.PurchaseOrder {
	po, err := s.svc.PurchaseOrder.CreatePurchaseOrder(s.ctx, dto.CreatePurchaseOrderRequest{
		VendorID:  vendorID,
		OrderDate: day(2025, 3, 1),
		Lines:     []dto.LineRequest{{ProductID: productID, Quantity: d("5")}},
	}, testUser)
	s.Require().NoError(err)
	return po
}

func (s *OrderServiceTestSuite) newSalesOrder() *domain.SalesOrder {
	so, err := s.svc.SalesOrder.CreateSalesOrder(s.ctx, dto.CreateSalesOrderRequest{
		CustomerID: customerID,
		OrderDate:  day(2025, 3, 2),
		Lines:      []dto.LineRequest{{ProductID: productID, Quantity: d("2")}},
	}, testUser)
	s.Require().NoError(err)
	return so
}

func (s *OrderServiceTestSuite) TestConvertToBill_CopiesLinesAndMarksOrderSent() {
	po := s.newPurchaseOrder()
	s.Equal("PO/2025/0001", po.Number)
	s.True(po.Total.Equal(d("590")))

	order, bill, err := s.svc.PurchaseOrder.ConvertToBill(s.ctx, po.PurchaseOrderID, testUser)
	s.Require().NoError(err)

	s.Equal(domain.StatusSent, order.Status)
	s.Require().NotNil(order.BillID)
	s.Equal(bill.BillID, *order.BillID)
	s.Equal(domain.StatusDraft, bill.Status)
	s.True(strings.HasPrefix(bill.Number, "BILL/"))
	s.Require().NotNil(bill.PurchaseOrderID)
	s.Equal(po.PurchaseOrderID, *bill.PurchaseOrderID)
	s.True(bill.Total.Equal(po.Total))
	s.Require().Len(bill.Lines, 1)
	s.NotEqual(po.Lines[0].LineID, bill.Lines[0].LineID)

	_, _, err = s.svc.PurchaseOrder.ConvertToBill(s.ctx, po.PurchaseOrderID, testUser)
	s.ErrorIs(err, apperrors.ErrInvalidState)
}

func (s *OrderServiceTestSuite) TestCancelPurchaseOrder() {
	po := s.newPurchaseOrder()

	cancelled, err := s.svc.PurchaseOrder.CancelPurchaseOrder(s.ctx, po.PurchaseOrderID, testUser)
	s.Require().NoError(err)
	s.Equal(domain.StatusCancelled, cancelled.Status)

	_, err = s.svc.PurchaseOrder.CancelPurchaseOrder(s.ctx, po.PurchaseOrderID, testUser)
	s.ErrorIs(err, apperrors.ErrInvalidState)

	_, _, err = s.svc.PurchaseOrder.ConvertToBill(s.ctx, po.PurchaseOrderID, testUser)
	s.ErrorIs(err, apperrors.ErrInvalidState)
}

func (s *OrderServiceTestSuite) TestCancelSentOrderKeepsItsBill() {
	po := s.newPurchaseOrder()
	_, bill, err := s.svc.PurchaseOrder.ConvertToBill(s.ctx, po.PurchaseOrderID, testUser)
	s.Require().NoError(err)

	_, err = s.svc.PurchaseOrder.CancelPurchaseOrder(s.ctx, po.PurchaseOrderID, testUser)
	s.Require().NoError(err)

	kept, err := s.svc.VendorBill.GetBill(s.ctx, bill.BillID)
	s.Require().NoError(err)
	s.Equal(domain.StatusDraft, kept.Status)
}

func (s *OrderServiceTestSuite) TestPurchaseOrderRejectsCustomerOnlyContact() {
	_, err := s.svc.PurchaseOrder.CreatePurchaseOrder(s.ctx, dto.CreatePurchaseOrderRequest{
		VendorID:  customerID,
		OrderDate: day(2025, 3, 1),
		Lines:     []dto.LineRequest{priced("1", "10", "0")},
	}, testUser)
	s.ErrorIs(err, apperrors.ErrValidation)
}

func (s *OrderServiceTestSuite) TestSalesFlowFromOrderToReceipt() {
	so := s.newSalesOrder()
	s.Equal("SO/2025/0001", so.Number)
	s.True(so.Total.Equal(d("354")))

	_, _, err := s.svc.SalesOrder.CreateInvoiceFromOrder(s.ctx, so.SalesOrderID, testUser)
	s.ErrorIs(err, apperrors.ErrInvalidState)

	confirmed, err := s.svc.SalesOrder.ConfirmSalesOrder(s.ctx, so.SalesOrderID, testUser)
	s.Require().NoError(err)
	s.Equal(domain.StatusConfirmed, confirmed.Status)

	_, err = s.svc.SalesOrder.ConfirmSalesOrder(s.ctx, so.SalesOrderID, testUser)
	s.ErrorIs(err, apperrors.ErrInvalidState)

	order, invoice, err := s.svc.SalesOrder.CreateInvoiceFromOrder(s.ctx, so.SalesOrderID, testUser)
	s.Require().NoError(err)
	s.Require().NotNil(order.InvoiceID)
	s.Equal(invoice.InvoiceID, *order.InvoiceID)
	s.True(strings.HasPrefix(invoice.Number, "INV/"))

	_, _, err = s.svc.SalesOrder.CreateInvoiceFromOrder(s.ctx, so.SalesOrderID, testUser)
	s.ErrorIs(err, apperrors.ErrInvalidState)

	_, entry, err := s.svc.CustomerInvoice.ConfirmInvoice(s.ctx, invoice.InvoiceID, testUser)
	s.Require().NoError(err)
	byAccount := map[string]domain.JournalLine{}
	for _, l := range entry.Lines {
		byAccount[l.AccountID] = l
	}
	debtors := byAccount[s.account("Debtors A/c")]
	s.True(debtors.Debit.Equal(d("354")))
	s.Require().NotNil(debtors.Partner)
	s.Equal(customerID, debtors.Partner.ID)
	s.True(byAccount[s.account("Sales Income A/c")].Credit.Equal(d("300")))
	s.True(byAccount[s.account("Tax A/c")].Credit.Equal(d("54")))

	receipt, err := s.svc.CustomerPayment.CreateCustomerPayment(s.ctx, dto.CreateCustomerPaymentRequest{
		InvoiceID:           invoice.InvoiceID,
		PaymentDate:         day(2025, 3, 20),
		Amount:              d("354"),
		SettlementAccountID: s.account("Cash A/c"),
		Method:              domain.MethodCash,
	}, testUser)
	s.Require().NoError(err)
	s.Equal("RCPT/2025/0001", receipt.Number)

	_, receiptEntry, err := s.svc.CustomerPayment.PostCustomerPayment(s.ctx, receipt.PaymentID, testUser)
	s.Require().NoError(err)
	s.Require().Len(receiptEntry.Lines, 2)

	paid, err := s.svc.CustomerInvoice.GetInvoice(s.ctx, invoice.InvoiceID)
	s.Require().NoError(err)
	s.Equal(domain.StatusPaid, paid.Status)

	out, err := s.svc.CustomerInvoice.InvoiceOutstanding(s.ctx, invoice.InvoiceID)
	s.Require().NoError(err)
	s.True(out.Outstanding.IsZero())

	ledger, err := s.svc.Reporting.PartnerLedger(s.ctx, *domain.ContactRef(customerID))
	s.Require().NoError(err)
	s.Len(ledger.Rows, 2)
	s.True(ledger.ClosingBalance.IsZero())
}

func (s *OrderServiceTestSuite) TestListInvoicesFiltersByStatus() {
	_, err := s.svc.CustomerInvoice.CreateInvoice(s.ctx, dto.CreateInvoiceRequest{
		CustomerID:  customerID,
		InvoiceDate: day(2025, 5, 1),
		Lines:       []dto.LineRequest{priced("1", "40", "5")},
	}, testUser)
	s.Require().NoError(err)

	drafts, err := s.svc.CustomerInvoice.ListInvoices(s.ctx, dto.ListDocumentsParams{Status: string(domain.StatusDraft)})
	s.Require().NoError(err)
	s.Len(drafts, 1)

	paid, err := s.svc.CustomerInvoice.ListInvoices(s.ctx, dto.ListDocumentsParams{Status: string(domain.StatusPaid)})
	s.Require().NoError(err)
	s.Empty(paid)
}

func (s *OrderServiceTestSuite) draftInvoice(lines ...dto.LineRequest) *domain.CustomerInvoice {
	invoice, err := s.svc.CustomerInvoice.CreateInvoice(s.ctx, dto.CreateInvoiceRequest{
		CustomerID:  customerID,
		InvoiceDate: day(2025, 5, 2),
		Lines:       lines,
	}, testUser)
	s.Require().NoError(err)
	return invoice
}

func (s *OrderServiceTestSuite) TestConfirmInvoice_SecondConfirmIsRejected() {
	invoice := s.draftInvoice(priced("1", "250", "0"))

	_, _, err := s.svc.CustomerInvoice.ConfirmInvoice(s.ctx, invoice.InvoiceID, testUser)
	s.Require().NoError(err)
	entries := s.entryCount()

	_, _, err = s.svc.CustomerInvoice.ConfirmInvoice(s.ctx, invoice.InvoiceID, testUser)
	s.ErrorIs(err, apperrors.ErrAlreadyPosted)
	s.Equal(entries, s.entryCount())
}

func (s *OrderServiceTestSuite) TestConfirmInvoice_ConcurrentConfirmPostsOnce() {
	invoice := s.draftInvoice(priced("2", "75", "18"))

	const workers = 10
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes int
		posted    int
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _, err := s.svc.CustomerInvoice.ConfirmInvoice(s.ctx, invoice.InvoiceID, testUser)
			mu.Lock()
			defer mu.Unlock()
			if err == nil {
				successes++
			} else if errors.Is(err, apperrors.ErrAlreadyPosted) {
				posted++
			}
		}()
	}
	wg.Wait()

	s.Equal(1, successes)
	s.Equal(workers-1, posted)
	s.Equal(1, s.entryCount())

	debit, credit := s.trialTotals()
	s.True(debit.Equal(d("177")))
	s.True(credit.Equal(d("177")))
}

func (s *OrderServiceTestSuite) TestPostCustomerPayment_RejectsMoreThanOutstanding() {
	invoice := s.draftInvoice(priced("1", "1000", "10"))
	_, _, err := s.svc.CustomerInvoice.ConfirmInvoice(s.ctx, invoice.InvoiceID, testUser)
	s.Require().NoError(err)

	receive := func(amount string) error {
		r, err := s.svc.CustomerPayment.CreateCustomerPayment(s.ctx, dto.CreateCustomerPaymentRequest{
			InvoiceID:           invoice.InvoiceID,
			PaymentDate:         day(2025, 5, 10),
			Amount:              d(amount),
			SettlementAccountID: s.account("Bank A/c"),
			Method:              domain.MethodBank,
		}, testUser)
		if err != nil {
			return err
		}
		_, _, err = s.svc.CustomerPayment.PostCustomerPayment(s.ctx, r.PaymentID, testUser)
		return err
	}

	s.Require().NoError(receive("600"))
	entries := s.entryCount()
	debitBefore, _ := s.trialTotals()

	err = receive("600")
	var exceeds *apperrors.ExceedsOutstandingError
	s.Require().ErrorAs(err, &exceeds)
	s.True(exceeds.Outstanding.Equal(d("500")))
	s.Equal(entries, s.entryCount())
	debitAfter, _ := s.trialTotals()
	s.True(debitAfter.Equal(debitBefore))

	out, err := s.svc.CustomerInvoice.InvoiceOutstanding(s.ctx, invoice.InvoiceID)
	s.Require().NoError(err)
	s.True(out.Outstanding.Equal(d("500")))

	current, err := s.svc.CustomerInvoice.GetInvoice(s.ctx, invoice.InvoiceID)
	s.Require().NoError(err)
	s.Equal(domain.StatusConfirmed, current.Status)
}
