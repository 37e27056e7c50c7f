package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// AccountTotals is the raw debit and credit sum of one account over some window.
type AccountTotals struct {
	Account
	Debit  decimal.Decimal
	Credit decimal.Decimal
}

// PartnerLine is a posted line attributed to a partner, joined with its entry.
type PartnerLine struct {
	EntryID     string
	Date        time.Time
	Ref         string
	AccountID   string
	AccountName string
	Debit       decimal.Decimal
	Credit      decimal.Decimal
	Narration   string
}

// TrialBalanceRow represents a single row in a trial balance report
type TrialBalanceRow struct {
	AccountID   string          `json:"accountID"`
	AccountName string          `json:"accountName"`
	AccountType AccountType     `json:"accountType"`
	Debit       decimal.Decimal `json:"debit"`
	Credit      decimal.Decimal `json:"credit"`
}

// TrialBalanceReport lists every account with its totals.
type TrialBalanceReport struct {
	AsOf        *time.Time        `json:"asOf,omitempty"`
	Rows        []TrialBalanceRow `json:"rows"`
	TotalDebit  decimal.Decimal   `json:"totalDebit"`
	TotalCredit decimal.Decimal   `json:"totalCredit"`
}

// AccountAmount represents an account with its net amount for financial reports
type AccountAmount struct {
	AccountID string          `json:"accountID,omitempty"`
	Name      string          `json:"name"`
	NetAmount decimal.Decimal `json:"netAmount"`
}

// PartnerLedgerRow is one line of a partner ledger with the balance after it.
type PartnerLedgerRow struct {
	Date           time.Time       `json:"date"`
	EntryID        string          `json:"entryID"`
	Ref            string          `json:"ref"`
	AccountID      string          `json:"accountID"`
	AccountName    string          `json:"accountName"`
	Narration      string          `json:"narration,omitempty"`
	Debit          decimal.Decimal `json:"debit"`
	Credit         decimal.Decimal `json:"credit"`
	RunningBalance decimal.Decimal `json:"runningBalance"`
}

// PartnerLedger is the ordered statement of one partner.
type PartnerLedger struct {
	Partner        Ref                `json:"partner"`
	Rows           []PartnerLedgerRow `json:"rows"`
	ClosingBalance decimal.Decimal    `json:"closingBalance"`
}

// PAndLReport represents a profit and loss report. When UsedAllTimeFallback
// is set the range held no lines and the figures are all-time totals.
type PAndLReport struct {
	From                time.Time       `json:"from"`
	To                  time.Time       `json:"to"`
	Income              []AccountAmount `json:"income"`
	Expenses            []AccountAmount `json:"expenses"`
	TotalIncome         decimal.Decimal `json:"totalIncome"`
	TotalExpense        decimal.Decimal `json:"totalExpense"`
	NetProfit           decimal.Decimal `json:"netProfit"`
	UsedAllTimeFallback bool            `json:"usedAllTimeFallback"`
}

// NetProfitLineName labels the synthetic equity line of the balance sheet.
const NetProfitLineName = "Net Profit"

// BalanceSheetReport represents a balance sheet report
type BalanceSheetReport struct {
	AsOf             *time.Time      `json:"asOf,omitempty"`
	Assets           []AccountAmount `json:"assets"`
	Liabilities      []AccountAmount `json:"liabilities"`
	Equity           []AccountAmount `json:"equity"`
	NetProfit        decimal.Decimal `json:"netProfit"`
	TotalAssets      decimal.Decimal `json:"totalAssets"`
	TotalLiabilities decimal.Decimal `json:"totalLiabilities"`
	TotalEquity      decimal.Decimal `json:"totalEquity"`
	Balanced         bool            `json:"balanced"`
}
