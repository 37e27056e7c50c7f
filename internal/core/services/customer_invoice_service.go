package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/SscSPs/invoicing_app/internal/apperrors"
	"github.com/SscSPs/invoicing_app/internal/core/domain"
	portsrepo "github.com/SscSPs/invoicing_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/invoicing_app/internal/core/ports/services"
	"github.com/SscSPs/invoicing_app/internal/dto"
)

type customerInvoiceService struct {
	BaseService
	repos     portsrepo.RepositoryProvider
	engine    portssvc.PostingEngine
	sequences portssvc.SequenceSvc
	lookup    portssvc.TaxRateLookup
}

// NewCustomerInvoiceService creates the customer invoice controller.
func NewCustomerInvoiceService(repos portsrepo.RepositoryProvider, engine portssvc.PostingEngine, sequences portssvc.SequenceSvc, lookup portssvc.TaxRateLookup, opts ...ServiceOption) portssvc.CustomerInvoiceSvc {
	return &customerInvoiceService{
		BaseService: newBaseService(opts),
		repos:       repos,
		engine:      engine,
		sequences:   sequences,
		lookup:      lookup,
	}
}

var _ portssvc.CustomerInvoiceSvc = (*customerInvoiceService)(nil)

func (s *customerInvoiceService) CreateInvoice(ctx context.Context, req dto.CreateInvoiceRequest, userID string) (*domain.CustomerInvoice, error) {
	lines, err := buildLines(ctx, s.lookup, domain.Sales, dto.ToLineInputs(req.Lines))
	if err != nil {
		return nil, err
	}
	var dueDate *time.Time
	if req.DueDate != nil {
		d := domain.DateOnly(*req.DueDate)
		dueDate = &d
	}
	invoice := domain.CustomerInvoice{
		InvoiceID:      newID(),
		CustomerID:     req.CustomerID,
		InvoiceDate:    domain.DateOnly(req.InvoiceDate),
		DueDate:        dueDate,
		Status:         domain.StatusDraft,
		Lines:          lines,
		DocumentTotals: domain.SumLines(lines),
		AuditFields:    newAudit(userID, s.CurrentTime()),
	}

	err = s.repos.Tx.WithinTx(ctx, func(ctx context.Context, repos portsrepo.TxRepositories) error {
		if _, err := requireContact(ctx, repos.Contacts, req.CustomerID, domain.ContactCustomer); err != nil {
			return err
		}
		return createInvoiceInTx(ctx, repos, s.sequences, &invoice)
	})
	if err != nil {
		s.LogWarn(ctx, err, "Customer invoice not created", slog.String("customer_id", req.CustomerID))
		return nil, err
	}
	s.LogInfo(ctx, "Customer invoice created", slog.String("invoice_id", invoice.InvoiceID), slog.String("number", invoice.Number))
	return &invoice, nil
}

// createInvoiceInTx numbers and stores a new draft invoice.
func createInvoiceInTx(ctx context.Context, repos portsrepo.TxRepositories, sequences portssvc.SequenceSvc, invoice *domain.CustomerInvoice) error {
	number, err := sequences.NextNumberInTx(ctx, repos, domain.ScopeInvoice, invoice.InvoiceDate.Year())
	if err != nil {
		return err
	}
	invoice.Number = number
	if err := repos.Invoices.SaveInvoice(ctx, *invoice); err != nil {
		return fmt.Errorf("failed to save invoice: %w", err)
	}
	return nil
}

func (s *customerInvoiceService) GetInvoice(ctx context.Context, invoiceID string) (*domain.CustomerInvoice, error) {
	return s.repos.InvoiceRepo.FindInvoiceByID(ctx, invoiceID)
}

func (s *customerInvoiceService) ListInvoices(ctx context.Context, params dto.ListDocumentsParams) ([]domain.CustomerInvoice, error) {
	return s.repos.InvoiceRepo.ListInvoices(ctx, toDocumentFilter(params))
}

// ConfirmInvoice posts Dr debtors, Cr sales income (and tax).
func (s *customerInvoiceService) ConfirmInvoice(ctx context.Context, invoiceID string, userID string) (*domain.CustomerInvoice, *domain.JournalEntry, error) {
	var (
		invoice *domain.CustomerInvoice
		entry   *domain.JournalEntry
	)
	err := s.repos.Tx.WithinTx(ctx, func(ctx context.Context, repos portsrepo.TxRepositories) error {
		inv, err := repos.Invoices.FindInvoiceByIDForUpdate(ctx, invoiceID)
		if err != nil {
			return err
		}
		if inv.IsPosted() {
			return alreadyPosted("invoice", inv.Number)
		}
		if inv.Status != domain.StatusDraft {
			return invalidState("invoice %s is %s", inv.Number, inv.Status)
		}
		totals := domain.SumLines(inv.Lines)
		if !totals.Total.IsPositive() {
			return fmt.Errorf("%w: invoice %s", apperrors.ErrEmptyDocument, inv.Number)
		}

		debtors, err := requireAccount(ctx, repos.Accounts, domain.RoleDebtors)
		if err != nil {
			return err
		}
		income, err := requireAccount(ctx, repos.Accounts, domain.RoleSalesIncome)
		if err != nil {
			return err
		}
		taxAccount, err := resolveAccount(ctx, repos.Accounts, domain.RoleTax)
		if err != nil {
			return err
		}

		partner := domain.ContactRef(inv.CustomerID)
		lines := []domain.PostingLine{
			domain.DebitLine(debtors.AccountID, totals.Total, "Receivable for invoice "+inv.Number, partner),
		}
		if taxAccount != nil || totals.Tax.IsZero() {
			lines = appendPositive(lines, domain.CreditLine(income.AccountID, totals.Net, "Sales per invoice "+inv.Number, nil))
			if taxAccount != nil {
				lines = appendPositive(lines, domain.CreditLine(taxAccount.AccountID, totals.Tax, "Output tax on invoice "+inv.Number, nil))
			}
		} else {
			narration := fmt.Sprintf("Sales per invoice %s, includes tax %s (no tax account configured)", inv.Number, totals.Tax.StringFixed(2))
			lines = appendPositive(lines, domain.CreditLine(income.AccountID, totals.Net.Add(totals.Tax), narration, nil))
		}

		e, err := s.engine.PostInTx(ctx, repos, domain.PostingRequest{
			Date:      inv.InvoiceDate,
			Ref:       inv.Number,
			Narration: "Customer invoice " + inv.Number,
			Lines:     lines,
			Source:    &domain.Ref{Kind: domain.RefCustomerInvoice, ID: inv.InvoiceID},
			PostedBy:  userID,
		})
		if err != nil {
			return err
		}

		now := s.CurrentTime()
		if err := repos.Invoices.UpdateInvoiceStatus(ctx, inv.InvoiceID, portsrepo.StatusChange{
			Status:         domain.StatusConfirmed,
			JournalEntryID: &e.EntryID,
			UpdatedBy:      actor(userID),
			UpdatedAt:      now,
		}); err != nil {
			return fmt.Errorf("failed to update invoice: %w", err)
		}
		inv.Status = domain.StatusConfirmed
		inv.JournalEntryID = &e.EntryID
		inv.LastUpdatedAt, inv.LastUpdatedBy = now, actor(userID)
		invoice, entry = inv, e
		return nil
	})
	if err != nil {
		if errors.Is(err, apperrors.ErrAlreadyPosted) || errors.Is(err, apperrors.ErrConfiguration) {
			s.LogWarn(ctx, err, "Invoice confirmation rejected", slog.String("invoice_id", invoiceID))
		}
		return nil, nil, err
	}
	recordPosted(s.Metrics, entry)
	s.LogInfo(ctx, "Invoice confirmed", slog.String("invoice_id", invoice.InvoiceID), slog.String("entry_id", entry.EntryID))
	return invoice, entry, nil
}

func (s *customerInvoiceService) InvoiceOutstanding(ctx context.Context, invoiceID string) (*dto.OutstandingResponse, error) {
	invoice, err := s.repos.InvoiceRepo.FindInvoiceByID(ctx, invoiceID)
	if err != nil {
		return nil, err
	}
	settled, err := s.repos.CustomerPaymentRepo.SumPostedPaymentsForInvoice(ctx, invoiceID, "")
	if err != nil {
		return nil, fmt.Errorf("failed to sum receipts: %w", err)
	}
	return &dto.OutstandingResponse{
		DocumentID:  invoiceID,
		Total:       invoice.Total,
		Settled:     settled,
		Outstanding: domain.Outstanding(invoice.Total, settled),
	}, nil
}
