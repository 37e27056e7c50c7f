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

type vendorBillService struct {
	BaseService
	repos     portsrepo.RepositoryProvider
	engine    portssvc.PostingEngine
	sequences portssvc.SequenceSvc
	lookup    portssvc.TaxRateLookup
}

// NewVendorBillService creates the vendor bill controller. lookup may be nil,
// in which case every line must carry its own price.
func NewVendorBillService(repos portsrepo.RepositoryProvider, engine portssvc.PostingEngine, sequences portssvc.SequenceSvc, lookup portssvc.TaxRateLookup, opts ...ServiceOption) portssvc.VendorBillSvc {
	return &vendorBillService{
		BaseService: newBaseService(opts),
		repos:       repos,
		engine:      engine,
		sequences:   sequences,
		lookup:      lookup,
	}
}

var _ portssvc.VendorBillSvc = (*vendorBillService)(nil)

func (s *vendorBillService) CreateBill(ctx context.Context, req dto.CreateBillRequest, userID string) (*domain.VendorBill, error) {
	lines, err := buildLines(ctx, s.lookup, domain.Purchase, dto.ToLineInputs(req.Lines))
	if err != nil {
		return nil, err
	}
	var dueDate *time.Time
	if req.DueDate != nil {
		d := domain.DateOnly(*req.DueDate)
		dueDate = &d
	}
	bill := domain.VendorBill{
		BillID:         newID(),
		VendorID:       req.VendorID,
		BillDate:       domain.DateOnly(req.BillDate),
		DueDate:        dueDate,
		Status:         domain.StatusDraft,
		Lines:          lines,
		DocumentTotals: domain.SumLines(lines),
		AuditFields:    newAudit(userID, s.CurrentTime()),
	}

	err = s.repos.Tx.WithinTx(ctx, func(ctx context.Context, repos portsrepo.TxRepositories) error {
		if _, err := requireContact(ctx, repos.Contacts, req.VendorID, domain.ContactVendor); err != nil {
			return err
		}
		return createBillInTx(ctx, repos, s.sequences, &bill)
	})
	if err != nil {
		s.LogWarn(ctx, err, "Vendor bill not created", slog.String("vendor_id", req.VendorID))
		return nil, err
	}
	s.LogInfo(ctx, "Vendor bill created", slog.String("bill_id", bill.BillID), slog.String("number", bill.Number))
	return &bill, nil
}

// createBillInTx numbers and stores a new draft bill.
func createBillInTx(ctx context.Context, repos portsrepo.TxRepositories, sequences portssvc.SequenceSvc, bill *domain.VendorBill) error {
	number, err := sequences.NextNumberInTx(ctx, repos, domain.ScopeVendorBill, bill.BillDate.Year())
	if err != nil {
		return err
	}
	bill.Number = number
	if err := repos.Bills.SaveBill(ctx, *bill); err != nil {
		return fmt.Errorf("failed to save bill: %w", err)
	}
	return nil
}

func (s *vendorBillService) GetBill(ctx context.Context, billID string) (*domain.VendorBill, error) {
	return s.repos.BillRepo.FindBillByID(ctx, billID)
}

func (s *vendorBillService) ListBills(ctx context.Context, params dto.ListDocumentsParams) ([]domain.VendorBill, error) {
	return s.repos.BillRepo.ListBills(ctx, toDocumentFilter(params))
}

// ConfirmBill posts Dr purchase expense (and tax), Cr creditors. The bill row
// stays locked from the posted-check to the status write.
func (s *vendorBillService) ConfirmBill(ctx context.Context, billID string, userID string) (*domain.VendorBill, *domain.JournalEntry, error) {
	var (
		bill  *domain.VendorBill
		entry *domain.JournalEntry
	)
	err := s.repos.Tx.WithinTx(ctx, func(ctx context.Context, repos portsrepo.TxRepositories) error {
		b, err := repos.Bills.FindBillByIDForUpdate(ctx, billID)
		if err != nil {
			return err
		}
		if b.IsPosted() {
			return alreadyPosted("bill", b.Number)
		}
		if b.Status != domain.StatusDraft {
			return invalidState("bill %s is %s", b.Number, b.Status)
		}
		totals := domain.SumLines(b.Lines)
		if !totals.Total.IsPositive() {
			return fmt.Errorf("%w: bill %s", apperrors.ErrEmptyDocument, b.Number)
		}

		expense, err := requireAccount(ctx, repos.Accounts, domain.RolePurchaseExpense)
		if err != nil {
			return err
		}
		creditors, err := requireAccount(ctx, repos.Accounts, domain.RoleCreditors)
		if err != nil {
			return err
		}
		taxAccount, err := resolveAccount(ctx, repos.Accounts, domain.RoleTax)
		if err != nil {
			return err
		}

		partner := domain.ContactRef(b.VendorID)
		var lines []domain.PostingLine
		if taxAccount != nil || totals.Tax.IsZero() {
			lines = appendPositive(lines, domain.DebitLine(expense.AccountID, totals.Net, "Purchases per bill "+b.Number, nil))
			if taxAccount != nil {
				lines = appendPositive(lines, domain.DebitLine(taxAccount.AccountID, totals.Tax, "Input tax on bill "+b.Number, nil))
			}
		} else {
			narration := fmt.Sprintf("Purchases per bill %s, includes tax %s (no tax account configured)", b.Number, totals.Tax.StringFixed(2))
			lines = appendPositive(lines, domain.DebitLine(expense.AccountID, totals.Net.Add(totals.Tax), narration, nil))
		}
		lines = append(lines, domain.CreditLine(creditors.AccountID, totals.Total, "Payable for bill "+b.Number, partner))

		e, err := s.engine.PostInTx(ctx, repos, domain.PostingRequest{
			Date:      b.BillDate,
			Ref:       b.Number,
			Narration: "Vendor bill " + b.Number,
			Lines:     lines,
			Source:    &domain.Ref{Kind: domain.RefVendorBill, ID: b.BillID},
			PostedBy:  userID,
		})
		if err != nil {
			return err
		}

		now := s.CurrentTime()
		if err := repos.Bills.UpdateBillStatus(ctx, b.BillID, portsrepo.StatusChange{
			Status:         domain.StatusConfirmed,
			JournalEntryID: &e.EntryID,
			UpdatedBy:      actor(userID),
			UpdatedAt:      now,
		}); err != nil {
			return fmt.Errorf("failed to update bill: %w", err)
		}
		b.Status = domain.StatusConfirmed
		b.JournalEntryID = &e.EntryID
		b.LastUpdatedAt, b.LastUpdatedBy = now, actor(userID)
		bill, entry = b, e
		return nil
	})
	if err != nil {
		if errors.Is(err, apperrors.ErrAlreadyPosted) || errors.Is(err, apperrors.ErrConfiguration) {
			s.LogWarn(ctx, err, "Bill confirmation rejected", slog.String("bill_id", billID))
		}
		return nil, nil, err
	}
	recordPosted(s.Metrics, entry)
	s.LogInfo(ctx, "Bill confirmed", slog.String("bill_id", bill.BillID), slog.String("entry_id", entry.EntryID))
	return bill, entry, nil
}

func (s *vendorBillService) BillOutstanding(ctx context.Context, billID string) (*dto.OutstandingResponse, error) {
	bill, err := s.repos.BillRepo.FindBillByID(ctx, billID)
	if err != nil {
		return nil, err
	}
	settled, err := s.repos.PaymentRepo.SumPostedPaymentsForBill(ctx, billID, "")
	if err != nil {
		return nil, fmt.Errorf("failed to sum payments: %w", err)
	}
	return &dto.OutstandingResponse{
		DocumentID:  billID,
		Total:       bill.Total,
		Settled:     settled,
		Outstanding: domain.Outstanding(bill.Total, settled),
	}, nil
}

func toDocumentFilter(params dto.ListDocumentsParams) portsrepo.DocumentFilter {
	f := portsrepo.DocumentFilter{PartnerID: params.PartnerID, Limit: params.Limit}
	if params.Status != "" {
		st := domain.DocumentStatus(params.Status)
		f.Status = &st
	}
	if f.Limit <= 0 {
		f.Limit = 50
	}
	return f
}
