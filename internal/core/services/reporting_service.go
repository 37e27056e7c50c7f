package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/SscSPs/invoicing_app/internal/apperrors"
	"github.com/SscSPs/invoicing_app/internal/core/domain"
	portsrepo "github.com/SscSPs/invoicing_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/invoicing_app/internal/core/ports/services"
	"github.com/SscSPs/invoicing_app/internal/utils/accounting"
)

// reportingService implements the ReportingService interface
type reportingService struct {
	BaseService
	reportingRepo portsrepo.ReportingRepository
	contacts      portsrepo.ContactReader
}

// NewReportingService creates a new reporting service with the provided options
func NewReportingService(repo portsrepo.ReportingRepository, contacts portsrepo.ContactReader, opts ...ServiceOption) portssvc.ReportingService {
	return &reportingService{
		BaseService:   newBaseService(opts),
		reportingRepo: repo,
		contacts:      contacts,
	}
}

// Ensure reportingService implements the ReportingService interface
var _ portssvc.ReportingService = (*reportingService)(nil)

// TrialBalance generates a trial balance report as of a specific date
func (s *reportingService) TrialBalance(ctx context.Context, asOf *time.Time) (*domain.TrialBalanceReport, error) {
	to := dayPtr(asOf)
	totals, err := s.reportingRepo.AccountTotals(ctx, nil, to)
	if err != nil {
		s.LogError(ctx, err, "Failed to retrieve trial balance data")
		return nil, fmt.Errorf("failed to retrieve trial balance data: %w", err)
	}

	report := &domain.TrialBalanceReport{AsOf: to, Rows: make([]domain.TrialBalanceRow, 0, len(totals))}
	for _, t := range totals {
		report.Rows = append(report.Rows, domain.TrialBalanceRow{
			AccountID:   t.AccountID,
			AccountName: t.Name,
			AccountType: t.AccountType,
			Debit:       t.Debit,
			Credit:      t.Credit,
		})
		report.TotalDebit = report.TotalDebit.Add(t.Debit)
		report.TotalCredit = report.TotalCredit.Add(t.Credit)
	}

	s.LogInfo(ctx, "Trial balance report generated successfully", slog.Int("row_count", len(report.Rows)))
	return report, nil
}

// ProfitAndLoss generates a profit and loss report for a specific period
func (s *reportingService) ProfitAndLoss(ctx context.Context, from, to time.Time, fallbackToAllTime bool) (*domain.PAndLReport, error) {
	from, to = domain.DateOnly(from), domain.DateOnly(to)
	if to.Before(from) {
		return nil, apperrors.NewValidationError("report range ends (%s) before it starts (%s)", to.Format(time.DateOnly), from.Format(time.DateOnly))
	}

	count, err := s.reportingRepo.CountLinesBetween(ctx, from, to)
	if err != nil {
		s.LogError(ctx, err, "Failed to count lines for profit and loss")
		return nil, fmt.Errorf("failed to retrieve profit and loss data: %w", err)
	}

	report := &domain.PAndLReport{From: from, To: to, Income: []domain.AccountAmount{}, Expenses: []domain.AccountAmount{}}
	var lo, hi *time.Time
	switch {
	case count > 0:
		lo, hi = &from, &to
	case fallbackToAllTime:
		report.UsedAllTimeFallback = true
	default:
		s.LogInfo(ctx, "Profit and loss range holds no lines",
			slog.String("from", from.Format(time.DateOnly)),
			slog.String("to", to.Format(time.DateOnly)))
		return report, nil
	}

	totals, err := s.reportingRepo.AccountTotals(ctx, lo, hi)
	if err != nil {
		s.LogError(ctx, err, "Failed to retrieve profit and loss data")
		return nil, fmt.Errorf("failed to retrieve profit and loss data: %w", err)
	}
	fillProfitAndLoss(report, totals)

	s.LogInfo(ctx, "Profit and loss report generated successfully",
		slog.String("from", from.Format(time.DateOnly)),
		slog.String("to", to.Format(time.DateOnly)),
		slog.Bool("all_time_fallback", report.UsedAllTimeFallback),
		slog.Int("income_accounts", len(report.Income)),
		slog.Int("expense_accounts", len(report.Expenses)))
	return report, nil
}

// fillProfitAndLoss sums each income and expense account on its normal side.
func fillProfitAndLoss(report *domain.PAndLReport, totals []domain.AccountTotals) {
	for _, t := range totals {
		if !hasActivity(t) {
			continue
		}
		amount := accounting.NaturalBalance(t.AccountType, t.Debit, t.Credit)
		switch t.AccountType {
		case domain.Income:
			report.Income = append(report.Income, domain.AccountAmount{AccountID: t.AccountID, Name: t.Name, NetAmount: amount})
			report.TotalIncome = report.TotalIncome.Add(amount)
		case domain.Expense:
			report.Expenses = append(report.Expenses, domain.AccountAmount{AccountID: t.AccountID, Name: t.Name, NetAmount: amount})
			report.TotalExpense = report.TotalExpense.Add(amount)
		}
	}
	report.NetProfit = report.TotalIncome.Sub(report.TotalExpense)
}

// BalanceSheet generates a balance sheet report as of a specific date
func (s *reportingService) BalanceSheet(ctx context.Context, asOf *time.Time) (*domain.BalanceSheetReport, error) {
	to := dayPtr(asOf)
	totals, err := s.reportingRepo.AccountTotals(ctx, nil, to)
	if err != nil {
		s.LogError(ctx, err, "Failed to retrieve balance sheet data")
		return nil, fmt.Errorf("failed to retrieve balance sheet data: %w", err)
	}

	var pl domain.PAndLReport
	fillProfitAndLoss(&pl, totals)

	report := &domain.BalanceSheetReport{
		AsOf:        to,
		Assets:      []domain.AccountAmount{},
		Liabilities: []domain.AccountAmount{},
		Equity:      []domain.AccountAmount{},
		NetProfit:   pl.NetProfit,
	}
	for _, t := range totals {
		if !hasActivity(t) {
			continue
		}
		balance := accounting.NaturalBalance(t.AccountType, t.Debit, t.Credit)
		switch t.AccountType {
		case domain.Asset:
			report.Assets = append(report.Assets, domain.AccountAmount{AccountID: t.AccountID, Name: t.Name, NetAmount: balance})
			report.TotalAssets = report.TotalAssets.Add(balance)
		case domain.Liability:
			report.Liabilities = append(report.Liabilities, domain.AccountAmount{AccountID: t.AccountID, Name: t.Name, NetAmount: balance})
			report.TotalLiabilities = report.TotalLiabilities.Add(balance)
		case domain.Equity:
			report.Equity = append(report.Equity, domain.AccountAmount{AccountID: t.AccountID, Name: t.Name, NetAmount: balance})
			report.TotalEquity = report.TotalEquity.Add(balance)
		}
	}
	report.Equity = append(report.Equity, domain.AccountAmount{Name: domain.NetProfitLineName, NetAmount: pl.NetProfit})
	report.TotalEquity = report.TotalEquity.Add(pl.NetProfit)
	report.Balanced = report.TotalAssets.Equal(report.TotalLiabilities.Add(report.TotalEquity))

	if !report.Balanced {
		s.LogWarn(ctx, nil, "Balance sheet does not close",
			slog.String("assets", report.TotalAssets.String()),
			slog.String("liabilities", report.TotalLiabilities.String()),
			slog.String("equity", report.TotalEquity.String()))
	}
	s.LogInfo(ctx, "Balance sheet report generated successfully",
		slog.Int("asset_accounts", len(report.Assets)),
		slog.Int("liability_accounts", len(report.Liabilities)),
		slog.Int("equity_accounts", len(report.Equity)))
	return report, nil
}

// PartnerLedger lists a partner's lines with a running balance of debit minus credit.
func (s *reportingService) PartnerLedger(ctx context.Context, partner domain.Ref) (*domain.PartnerLedger, error) {
	if partner.Kind != domain.RefContact {
		return nil, apperrors.NewValidationError("partner must be a contact, got %q", partner.Kind)
	}
	if _, err := s.contacts.FindContactByID(ctx, partner.ID); err != nil {
		return nil, err
	}

	lines, err := s.reportingRepo.PartnerLines(ctx, partner)
	if err != nil {
		s.LogError(ctx, err, "Failed to retrieve partner lines", slog.String("partner", partner.String()))
		return nil, fmt.Errorf("failed to retrieve partner ledger: %w", err)
	}

	ledger := &domain.PartnerLedger{Partner: partner, Rows: make([]domain.PartnerLedgerRow, 0, len(lines))}
	running := decimal.Zero
	for _, l := range lines {
		running = running.Add(l.Debit).Sub(l.Credit)
		ledger.Rows = append(ledger.Rows, domain.PartnerLedgerRow{
			Date:           l.Date,
			EntryID:        l.EntryID,
			Ref:            l.Ref,
			AccountID:      l.AccountID,
			AccountName:    l.AccountName,
			Narration:      l.Narration,
			Debit:          l.Debit,
			Credit:         l.Credit,
			RunningBalance: running,
		})
	}
	ledger.ClosingBalance = running

	s.LogInfo(ctx, "Partner ledger generated successfully", slog.String("partner", partner.String()), slog.Int("rows", len(ledger.Rows)))
	return ledger, nil
}

func hasActivity(t domain.AccountTotals) bool {
	return !t.Debit.IsZero() || !t.Credit.IsZero()
}

func dayPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	d := domain.DateOnly(*t)
	return &d
}
