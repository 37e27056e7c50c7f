package services

import (
	"context"
	"time"

	"github.com/SscSPs/invoicing_app/internal/core/domain"
)

// ReportingService defines operations for generating financial reports
type ReportingService interface {
	// TrialBalance lists debit and credit totals per account up to asOf (nil for all time).
	TrialBalance(ctx context.Context, asOf *time.Time) (*domain.TrialBalanceReport, error)

	// ProfitAndLoss reports income and expense for [from, to]. When the range
	// holds no lines and fallbackToAllTime is set, all-time figures are
	// returned with UsedAllTimeFallback=true; otherwise the report is empty.
	ProfitAndLoss(ctx context.Context, from, to time.Time, fallbackToAllTime bool) (*domain.PAndLReport, error)

	// BalanceSheet reports balances up to asOf (nil for all time) with net profit as equity.
	BalanceSheet(ctx context.Context, asOf *time.Time) (*domain.BalanceSheetReport, error)

	// PartnerLedger lists a partner's lines with a running balance.
	PartnerLedger(ctx context.Context, partner domain.Ref) (*domain.PartnerLedger, error)
}
