package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/SscSPs/invoicing_app/internal/apperrors"
	"github.com/SscSPs/invoicing_app/internal/core/domain"
	portsrepo "github.com/SscSPs/invoicing_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/invoicing_app/internal/core/ports/services"
	"github.com/SscSPs/invoicing_app/internal/dto"
)

type paymentService struct {
	BaseService
	repos     portsrepo.RepositoryProvider
	engine    portssvc.PostingEngine
	sequences portssvc.SequenceSvc
}

// NewPaymentService creates the vendor payment controller.
func NewPaymentService(repos portsrepo.RepositoryProvider, engine portssvc.PostingEngine, sequences portssvc.SequenceSvc, opts ...ServiceOption) portssvc.PaymentSvc {
	return &paymentService{BaseService: newBaseService(opts), repos: repos, engine: engine, sequences: sequences}
}

var _ portssvc.PaymentSvc = (*paymentService)(nil)

func (s *paymentService) CreatePayment(ctx context.Context, req dto.CreatePaymentRequest, userID string) (*domain.Payment, error) {
	if err := validatePaymentInput(req.Amount, req.Method); err != nil {
		return nil, err
	}
	payment := domain.Payment{
		PaymentID:           newID(),
		BillID:              req.BillID,
		PaymentDate:         domain.DateOnly(req.PaymentDate),
		Amount:              req.Amount,
		SettlementAccountID: req.SettlementAccountID,
		Method:              req.Method,
		Reference:           req.Reference,
		AuditFields:         newAudit(userID, s.CurrentTime()),
	}
	err := s.repos.Tx.WithinTx(ctx, func(ctx context.Context, repos portsrepo.TxRepositories) error {
		bill, err := repos.Bills.FindBillByID(ctx, req.BillID)
		if err != nil {
			return err
		}
		if _, err := requireSettlementAccount(ctx, repos.Accounts, req.SettlementAccountID); err != nil {
			return err
		}
		payment.VendorID = bill.VendorID
		number, err := s.sequences.NextNumberInTx(ctx, repos, domain.ScopePayment, payment.PaymentDate.Year())
		if err != nil {
			return err
		}
		payment.Number = number
		return repos.Payments.SavePayment(ctx, payment)
	})
	if err != nil {
		s.LogWarn(ctx, err, "Payment not created", slog.String("bill_id", req.BillID))
		return nil, err
	}
	s.LogInfo(ctx, "Payment created", slog.String("payment_id", payment.PaymentID), slog.String("number", payment.Number))
	return &payment, nil
}

func (s *paymentService) GetPayment(ctx context.Context, paymentID string) (*domain.Payment, error) {
	return s.repos.PaymentRepo.FindPaymentByID(ctx, paymentID)
}

func (s *paymentService) ListPaymentsForBill(ctx context.Context, billID string) ([]domain.Payment, error) {
	if _, err := s.repos.BillRepo.FindBillByID(ctx, billID); err != nil {
		return nil, err
	}
	return s.repos.PaymentRepo.ListPaymentsByBill(ctx, billID)
}

// PostPayment posts Dr creditors, Cr settlement. The payment and its bill are
// locked in that order, so concurrent payments on one bill see each other's
// effect on the outstanding amount.
func (s *paymentService) PostPayment(ctx context.Context, paymentID string, userID string) (*domain.Payment, *domain.JournalEntry, error) {
	var (
		payment *domain.Payment
		entry   *domain.JournalEntry
	)
	err := s.repos.Tx.WithinTx(ctx, func(ctx context.Context, repos portsrepo.TxRepositories) error {
		p, err := repos.Payments.FindPaymentByIDForUpdate(ctx, paymentID)
		if err != nil {
			return err
		}
		if p.IsPosted() {
			return alreadyPosted("payment", p.Number)
		}
		bill, err := repos.Bills.FindBillByIDForUpdate(ctx, p.BillID)
		if err != nil {
			return err
		}
		if bill.Status != domain.StatusConfirmed && bill.Status != domain.StatusPaid {
			return invalidState("bill %s is %s; only confirmed bills can be paid", bill.Number, bill.Status)
		}

		settled, err := repos.Payments.SumPostedPaymentsForBill(ctx, bill.BillID, p.PaymentID)
		if err != nil {
			return fmt.Errorf("failed to sum payments: %w", err)
		}
		outstanding := domain.Outstanding(bill.Total, settled)
		if p.Amount.GreaterThan(outstanding) {
			return &apperrors.ExceedsOutstandingError{Amount: p.Amount, Outstanding: outstanding}
		}

		settlement, err := requireSettlementAccount(ctx, repos.Accounts, p.SettlementAccountID)
		if err != nil {
			return err
		}
		creditors, err := requireAccount(ctx, repos.Accounts, domain.RoleCreditors)
		if err != nil {
			return err
		}

		partner := domain.ContactRef(p.VendorID)
		e, err := s.engine.PostInTx(ctx, repos, domain.PostingRequest{
			Date:      p.PaymentDate,
			Ref:       p.Number,
			Narration: fmt.Sprintf("Payment %s against bill %s", p.Number, bill.Number),
			Lines: []domain.PostingLine{
				domain.DebitLine(creditors.AccountID, p.Amount, "Paid against bill "+bill.Number, partner),
				domain.CreditLine(settlement.AccountID, p.Amount, fmt.Sprintf("Paid by %s %s", p.Method, p.Reference), nil),
			},
			Source:   &domain.Ref{Kind: domain.RefPayment, ID: p.PaymentID},
			PostedBy: userID,
		})
		if err != nil {
			return err
		}

		now := s.CurrentTime()
		if err := repos.Payments.MarkPaymentPosted(ctx, p.PaymentID, e.EntryID, now, actor(userID)); err != nil {
			return fmt.Errorf("failed to mark payment posted: %w", err)
		}
		if outstanding.Sub(p.Amount).IsZero() {
			if err := repos.Bills.UpdateBillStatus(ctx, bill.BillID, portsrepo.StatusChange{
				Status:    domain.StatusPaid,
				UpdatedBy: actor(userID),
				UpdatedAt: now,
			}); err != nil {
				return fmt.Errorf("failed to mark bill paid: %w", err)
			}
		}
		p.JournalEntryID = &e.EntryID
		p.PostedAt = &now
		payment, entry = p, e
		return nil
	})
	if err != nil {
		s.LogWarn(ctx, err, "Payment posting rejected", slog.String("payment_id", paymentID))
		return nil, nil, err
	}
	recordPosted(s.Metrics, entry)
	s.LogInfo(ctx, "Payment posted", slog.String("payment_id", payment.PaymentID), slog.String("entry_id", entry.EntryID))
	return payment, entry, nil
}
