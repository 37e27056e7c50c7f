package dto

import (
	"time"

	"github.com/SscSPs/invoicing_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

const dateLayout = "2006-01-02"

// TrialBalanceRowResponse represents a row in the trial balance report response
type TrialBalanceRowResponse struct {
	AccountID   string          `json:"accountID"`
	AccountName string          `json:"accountName"`
	AccountType string          `json:"accountType"`
	Debit       decimal.Decimal `json:"debit"`
	Credit      decimal.Decimal `json:"credit"`
}

// TrialBalanceResponse represents the trial balance report response
type TrialBalanceResponse struct {
	AsOf   string                    `json:"asOf,omitempty"`
	Rows   []TrialBalanceRowResponse `json:"rows"`
	Totals struct {
		Debit  decimal.Decimal `json:"debit"`
		Credit decimal.Decimal `json:"credit"`
	} `json:"totals"`
}

// AccountAmountResponse represents an account with its amount in a financial report
type AccountAmountResponse struct {
	AccountID string          `json:"accountID,omitempty"`
	Name      string          `json:"name"`
	Amount    decimal.Decimal `json:"amount"`
}

// ProfitAndLossResponse represents the profit and loss report response
type ProfitAndLossResponse struct {
	FromDate            string                  `json:"fromDate"`
	ToDate              string                  `json:"toDate"`
	UsedAllTimeFallback bool                    `json:"usedAllTimeFallback"`
	Income              []AccountAmountResponse `json:"income"`
	Expenses            []AccountAmountResponse `json:"expenses"`
	Summary             struct {
		TotalIncome   decimal.Decimal `json:"totalIncome"`
		TotalExpenses decimal.Decimal `json:"totalExpenses"`
		NetProfit     decimal.Decimal `json:"netProfit"`
	} `json:"summary"`
}

// BalanceSheetResponse represents the balance sheet report response
type BalanceSheetResponse struct {
	AsOf        string                  `json:"asOf,omitempty"`
	Assets      []AccountAmountResponse `json:"assets"`
	Liabilities []AccountAmountResponse `json:"liabilities"`
	Equity      []AccountAmountResponse `json:"equity"`
	Summary     struct {
		TotalAssets      decimal.Decimal `json:"totalAssets"`
		TotalLiabilities decimal.Decimal `json:"totalLiabilities"`
		TotalEquity      decimal.Decimal `json:"totalEquity"`
		NetProfit        decimal.Decimal `json:"netProfit"`
		Balanced         bool            `json:"balanced"`
	} `json:"summary"`
}

// PartnerLedgerRowResponse is one statement line.
type PartnerLedgerRowResponse struct {
	Date           string          `json:"date"`
	EntryID        string          `json:"entryID"`
	Ref            string          `json:"ref"`
	AccountID      string          `json:"accountID"`
	AccountName    string          `json:"accountName"`
	Narration      string          `json:"narration,omitempty"`
	Debit          decimal.Decimal `json:"debit"`
	Credit         decimal.Decimal `json:"credit"`
	RunningBalance decimal.Decimal `json:"runningBalance"`
}

// PartnerLedgerResponse is the statement of one partner.
type PartnerLedgerResponse struct {
	PartnerID      string                     `json:"partnerID"`
	Rows           []PartnerLedgerRowResponse `json:"rows"`
	ClosingBalance decimal.Decimal            `json:"closingBalance"`
}

func formatOptionalDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(dateLayout)
}

func toAccountAmountResponses(in []domain.AccountAmount) []AccountAmountResponse {
	out := make([]AccountAmountResponse, len(in))
	for i, a := range in {
		out[i] = AccountAmountResponse{AccountID: a.AccountID, Name: a.Name, Amount: a.NetAmount}
	}
	return out
}

// ToTrialBalanceResponse converts a domain trial balance to a DTO response
func ToTrialBalanceResponse(report *domain.TrialBalanceReport) TrialBalanceResponse {
	response := TrialBalanceResponse{
		AsOf: formatOptionalDate(report.AsOf),
		Rows: make([]TrialBalanceRowResponse, len(report.Rows)),
	}
	for i, row := range report.Rows {
		response.Rows[i] = TrialBalanceRowResponse{
			AccountID:   row.AccountID,
			AccountName: row.AccountName,
			AccountType: string(row.AccountType),
			Debit:       row.Debit,
			Credit:      row.Credit,
		}
	}
	response.Totals.Debit = report.TotalDebit
	response.Totals.Credit = report.TotalCredit
	return response
}

// ToProfitAndLossResponse converts a domain P&L report to a DTO response
func ToProfitAndLossResponse(report *domain.PAndLReport) ProfitAndLossResponse {
	response := ProfitAndLossResponse{
		FromDate:            report.From.Format(dateLayout),
		ToDate:              report.To.Format(dateLayout),
		UsedAllTimeFallback: report.UsedAllTimeFallback,
		Income:              toAccountAmountResponses(report.Income),
		Expenses:            toAccountAmountResponses(report.Expenses),
	}
	response.Summary.TotalIncome = report.TotalIncome
	response.Summary.TotalExpenses = report.TotalExpense
	response.Summary.NetProfit = report.NetProfit
	return response
}

// ToBalanceSheetResponse converts a domain balance sheet report to a DTO response
func ToBalanceSheetResponse(report *domain.BalanceSheetReport) BalanceSheetResponse {
	response := BalanceSheetResponse{
		AsOf:        formatOptionalDate(report.AsOf),
		Assets:      toAccountAmountResponses(report.Assets),
		Liabilities: toAccountAmountResponses(report.Liabilities),
		Equity:      toAccountAmountResponses(report.Equity),
	}
	response.Summary.TotalAssets = report.TotalAssets
	response.Summary.TotalLiabilities = report.TotalLiabilities
	response.Summary.TotalEquity = report.TotalEquity
	response.Summary.NetProfit = report.NetProfit
	response.Summary.Balanced = report.Balanced
	return response
}

// ToPartnerLedgerResponse converts a partner ledger to a DTO response
func ToPartnerLedgerResponse(ledger *domain.PartnerLedger) PartnerLedgerResponse {
	response := PartnerLedgerResponse{
		PartnerID:      ledger.Partner.ID,
		Rows:           make([]PartnerLedgerRowResponse, len(ledger.Rows)),
		ClosingBalance: ledger.ClosingBalance,
	}
	for i, r := range ledger.Rows {
		response.Rows[i] = PartnerLedgerRowResponse{
			Date:           r.Date.Format(dateLayout),
			EntryID:        r.EntryID,
			Ref:            r.Ref,
			AccountID:      r.AccountID,
			AccountName:    r.AccountName,
			Narration:      r.Narration,
			Debit:          r.Debit,
			Credit:         r.Credit,
			RunningBalance: r.RunningBalance,
		}
	}
	return response
}
