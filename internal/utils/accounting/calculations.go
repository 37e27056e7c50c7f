package accounting

import (
	"github.com/shopspring/decimal"

	"github.com/SscSPs/invoicing_app/internal/core/domain"
)

// IsDebitNormal reports whether debits increase accounts of type t.
// ASSET and EXPENSE are debit-normal; LIABILITY, EQUITY and INCOME are credit-normal.
func IsDebitNormal(t domain.AccountType) bool {
	return t == domain.Asset || t == domain.Expense
}

// NaturalBalance returns the balance of an account on its normal side, so a
// liability with more credits than debits comes out positive.
func NaturalBalance(t domain.AccountType, debit, credit decimal.Decimal) decimal.Decimal {
	if IsDebitNormal(t) {
		return debit.Sub(credit)
	}
	return credit.Sub(debit)
}

// NetOfLines sums debits minus credits over lines. A balanced entry nets to zero.
func NetOfLines(lines []domain.JournalLine) decimal.Decimal {
	sum := decimal.Zero
	for _, l := range lines {
		sum = sum.Add(l.Debit).Sub(l.Credit)
	}
	return sum
}
