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

type customerPaymentService struct {
	BaseService
	repos     portsrepo.RepositoryProvider
	engine    portssvc.PostingEngine
	sequences portssvc.SequenceSvc
}

// NewCustomerPaymentService creates the customer receipt controller.
func NewCustomerPaymentService(repos portsrepo.RepositoryProvider, engine portssvc.PostingEngine, sequences portssvc.SequenceSvc, opts ...ServiceOption) portssvc.CustomerPaymentSvc {
	return &customerPaymentService{BaseService: newBaseService(opts), repos: repos, engine: engine, sequences: sequences}
}

var _ portssvc.CustomerPaymentSvc = (*customerPaymentService)(nil)

func (s *customerPaymentService) CreateCustomerPayment(ctx context.Context, req dto.CreateCustomerPaymentRequest, userID string) (*domain.CustomerPayment, error) {
	if err := validatePaymentInput(req.Amount, req.Method); err != nil {
		return nil, err
	}
	payment := domain.CustomerPayment{
		PaymentID:           newID(),
		InvoiceID:           req.InvoiceID,
		PaymentDate:         domain.DateOnly(req.PaymentDate),
		Amount:              req.Amount,
		SettlementAccountID: req.SettlementAccountID,
		Method:              req.Method,
		Reference:           req.Reference,
		AuditFields:         newAudit(userID, s.CurrentTime()),
	}
	err := s.repos.Tx.WithinTx(ctx, func(ctx context.Context, repos portsrepo.TxRepositories) error {
		invoice, err := repos.Invoices.FindInvoiceByID(ctx, req.InvoiceID)
		if err != nil {
			return err
		}
		if _, err := requireSettlementAccount(ctx, repos.Accounts, req.SettlementAccountID); err != nil {
			return err
		}
		payment.CustomerID = invoice.CustomerID
		number, err := s.sequences.NextNumberInTx(ctx, repos, domain.ScopeCustomerPayment, payment.PaymentDate.Year())
		if err != nil {
			return err
		}
		payment.Number = number
		return repos.CustomerPayments.SaveCustomerPayment(ctx, payment)
	})
	if err != nil {
		s.LogWarn(ctx, err, "Customer payment not created", slog.String("invoice_id", req.InvoiceID))
		return nil, err
	}
	s.LogInfo(ctx, "Customer payment created", slog.String("payment_id", payment.PaymentID), slog.String("number", payment.Number))
	return &payment, nil
}

func (s *customerPaymentService) GetCustomerPayment(ctx context.Context, paymentID string) (*domain.CustomerPayment, error) {
	return s.repos.CustomerPaymentRepo.FindCustomerPaymentByID(ctx, paymentID)
}

func (s *customerPaymentService) ListPaymentsForInvoice(ctx context.Context, invoiceID string) ([]domain.CustomerPayment, error) {
	if _, err := s.repos.InvoiceRepo.FindInvoiceByID(ctx, invoiceID); err != nil {
		return nil, err
	}
	return s.repos.CustomerPaymentRepo.ListCustomerPaymentsByInvoice(ctx, invoiceID)
}

// PostCustomerPayment posts Dr settlement, Cr debtors.
func (s *customerPaymentService) PostCustomerPayment(ctx context.Context, paymentID string, userID string) (*domain.CustomerPayment, *domain.JournalEntry, error) {
	var (
		payment *domain.CustomerPayment
		entry   *domain.JournalEntry
	)
	err := s.repos.Tx.WithinTx(ctx, func(ctx context.Context, repos portsrepo.TxRepositories) error {
		p, err := repos.CustomerPayments.FindCustomerPaymentByIDForUpdate(ctx, paymentID)
		if err != nil {
			return err
		}
		if p.IsPosted() {
			return alreadyPosted("receipt", p.Number)
		}
		invoice, err := repos.Invoices.FindInvoiceByIDForUpdate(ctx, p.InvoiceID)
		if err != nil {
			return err
		}
		if invoice.Status != domain.StatusConfirmed && invoice.Status != domain.StatusPaid {
			return invalidState("invoice %s is %s; only confirmed invoices can be paid", invoice.Number, invoice.Status)
		}

		settled, err := repos.CustomerPayments.SumPostedPaymentsForInvoice(ctx, invoice.InvoiceID, p.PaymentID)
		if err != nil {
			return fmt.Errorf("failed to sum receipts: %w", err)
		}
		outstanding := domain.Outstanding(invoice.Total, settled)
		if p.Amount.GreaterThan(outstanding) {
			return &apperrors.ExceedsOutstandingError{Amount: p.Amount, Outstanding: outstanding}
		}

		settlement, err := requireSettlementAccount(ctx, repos.Accounts, p.SettlementAccountID)
		if err != nil {
			return err
		}
		debtors, err := requireAccount(ctx, repos.Accounts, domain.RoleDebtors)
		if err != nil {
			return err
		}

		e, err := s.engine.PostInTx(ctx, repos, domain.PostingRequest{
			Date:      p.PaymentDate,
			Ref:       p.Number,
			Narration: fmt.Sprintf("Receipt %s against invoice %s", p.Number, invoice.Number),
			Lines: []domain.PostingLine{
				domain.DebitLine(settlement.AccountID, p.Amount, fmt.Sprintf("Received by %s %s", p.Method, p.Reference), nil),
				domain.CreditLine(debtors.AccountID, p.Amount, "Received against invoice "+invoice.Number, domain.ContactRef(p.CustomerID)),
			},
			Source:   &domain.Ref{Kind: domain.RefCustomerPayment, ID: p.PaymentID},
			PostedBy: userID,
		})
		if err != nil {
			return err
		}

		now := s.CurrentTime()
		if err := repos.CustomerPayments.MarkCustomerPaymentPosted(ctx, p.PaymentID, e.EntryID, now, actor(userID)); err != nil {
			return fmt.Errorf("failed to mark receipt posted: %w", err)
		}
		if outstanding.Sub(p.Amount).IsZero() {
			if err := repos.Invoices.UpdateInvoiceStatus(ctx, invoice.InvoiceID, portsrepo.StatusChange{
				Status:    domain.StatusPaid,
				UpdatedBy: actor(userID),
				UpdatedAt: now,
			}); err != nil {
				return fmt.Errorf("failed to mark invoice paid: %w", err)
			}
		}
		p.JournalEntryID = &e.EntryID
		p.PostedAt = &now
		payment, entry = p, e
		return nil
	})
	if err != nil {
		s.LogWarn(ctx, err, "Receipt posting rejected", slog.String("payment_id", paymentID))
		return nil, nil, err
	}
	recordPosted(s.Metrics, entry)
	s.LogInfo(ctx, "Receipt posted", slog.String("payment_id", payment.PaymentID), slog.String("entry_id", entry.EntryID))
	return payment, entry, nil
}
