package accounting

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/SscSPs/invoicing_app/internal/core/domain"
)

func TestNaturalBalance(t *testing.T) {
	d := decimal.NewFromInt
	tests := []struct {
		accountType domain.AccountType
		debit       int64
		credit      int64
		want        int64
	}{
		{domain.Asset, 1000, 400, 600},
		{domain.Expense, 250, 0, 250},
		{domain.Liability, 600, 1100, 500},
		{domain.Equity, 0, 5000, 5000},
		{domain.Income, 20, 300, 280},
		{domain.Asset, 0, 50, -50},
	}
	for _, tt := range tests {
		t.Run(string(tt.accountType), func(t *testing.T) {
			got := NaturalBalance(tt.accountType, d(tt.debit), d(tt.credit))
			assert.True(t, got.Equal(d(tt.want)), "got %s want %d", got, tt.want)
		})
	}
}

func TestNetOfLines(t *testing.T) {
	lines := []domain.JournalLine{
		{Debit: decimal.RequireFromString("1000.00"), Credit: decimal.Zero},
		{Debit: decimal.RequireFromString("100.00"), Credit: decimal.Zero},
		{Debit: decimal.Zero, Credit: decimal.RequireFromString("1100.00")},
	}
	assert.True(t, NetOfLines(lines).IsZero())

	lines[2].Credit = decimal.RequireFromString("1099.99")
	assert.True(t, NetOfLines(lines).Equal(decimal.RequireFromString("0.01")))
}
