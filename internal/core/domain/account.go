package domain

// AccountType defines the fundamental accounting type of an account.
type AccountType string

const (
	Asset     AccountType = "ASSET"
	Liability AccountType = "LIABILITY"
	Equity    AccountType = "EQUITY"
	Income    AccountType = "INCOME"
	Expense   AccountType = "EXPENSE"
)

// Valid reports whether t is one of the five account types.
func (t AccountType) Valid() bool {
	switch t {
	case Asset, Liability, Equity, Income, Expense:
		return true
	}
	return false
}

// Account is a chart-of-accounts entry. Its name is unique.
type Account struct {
	AccountID   string      `json:"accountID"`
	Name        string      `json:"name"`
	AccountType AccountType `json:"accountType"`
	Code        string      `json:"code,omitempty"`
	AuditFields
}

// AccountRole is a posting slot a document controller needs filled.
type AccountRole string

const (
	RolePurchaseExpense AccountRole = "purchase_expense"
	RoleCreditors       AccountRole = "creditors"
	RoleSalesIncome     AccountRole = "sales_income"
	RoleDebtors         AccountRole = "debtors"
	RoleTax             AccountRole = "tax"
)

// RoleRule describes how a role is resolved: names are tried in order,
// then (when FallbackType is set) the first account of that type that is
// neither a tax account nor listed in SkipNames.
type RoleRule struct {
	Names        []string
	FallbackType AccountType
	SkipNames    []string
}

// TaxAccountNames are the names accepted for the tax role.
var TaxAccountNames = []string{"Tax A/c", "GST A/c", "Tax Payable A/c"}

// SettlementAccountNames are the asset accounts money moves through. They
// never stand in for a receivable.
var SettlementAccountNames = []string{"Cash A/c", "Bank A/c"}

// AccountRoles maps each role to its resolution order.
var AccountRoles = map[AccountRole]RoleRule{
	RolePurchaseExpense: {Names: []string{"Purchase Expense A/c"}, FallbackType: Expense},
	RoleCreditors:       {Names: []string{"Creditors A/c"}, FallbackType: Liability},
	RoleSalesIncome:     {Names: []string{"Sales Income A/c"}, FallbackType: Income},
	RoleDebtors:         {Names: []string{"Debtors A/c"}, FallbackType: Asset, SkipNames: SettlementAccountNames},
	RoleTax:             {Names: TaxAccountNames},
}

// IsTaxAccountName reports whether name is one of the tax role names.
func IsTaxAccountName(name string) bool {
	for _, n := range TaxAccountNames {
		if n == name {
			return true
		}
	}
	return false
}

// SeedAccount is one row of the default chart of accounts.
type SeedAccount struct {
	Name string
	Type AccountType
	Code string
}

// DefaultChart is the chart created by the seeding operation.
var DefaultChart = []SeedAccount{
	{Name: "Cash A/c", Type: Asset, Code: "1000"},
	{Name: "Bank A/c", Type: Asset, Code: "1010"},
	{Name: "Debtors A/c", Type: Asset, Code: "1020"},
	{Name: "Creditors A/c", Type: Liability, Code: "2000"},
	{Name: "Sales Income A/c", Type: Income, Code: "4000"},
	{Name: "Purchase Expense A/c", Type: Expense, Code: "5000"},
	{Name: "Other Expense A/c", Type: Expense, Code: "5100"},
}

// TaxSeedAccount is seeded alongside DefaultChart when configured.
var TaxSeedAccount = SeedAccount{Name: "Tax A/c", Type: Liability, Code: "2100"}
