package domain

import "github.com/shopspring/decimal"

// ContactType says which side of trade a contact is on.
type ContactType string

const (
	ContactCustomer ContactType = "customer"
	ContactVendor   ContactType = "vendor"
	ContactBoth     ContactType = "both"
)

// Contact is a customer or vendor. It is master data, read-only here.
type Contact struct {
	ContactID   string      `json:"contactID"`
	Name        string      `json:"name"`
	ContactType ContactType `json:"contactType"`
	Email       string      `json:"email,omitempty"`
	Mobile      string      `json:"mobile,omitempty"`
	City        string      `json:"city,omitempty"`
	State       string      `json:"state,omitempty"`
	Pincode     string      `json:"pincode,omitempty"`
}

func (c Contact) IsVendor() bool   { return c.ContactType == ContactVendor || c.ContactType == ContactBoth }
func (c Contact) IsCustomer() bool { return c.ContactType == ContactCustomer || c.ContactType == ContactBoth }

// TradeSide selects the purchase or sales defaults of a product.
type TradeSide string

const (
	Purchase TradeSide = "purchase"
	Sales    TradeSide = "sales"
)

// Product is master data carrying default prices and tax percents.
type Product struct {
	ProductID          string          `json:"productID"`
	Name               string          `json:"name"`
	HSNCode            string          `json:"hsnCode,omitempty"`
	SalesPrice         decimal.Decimal `json:"salesPrice"`
	SalesTaxPercent    decimal.Decimal `json:"salesTaxPercent"`
	PurchasePrice      decimal.Decimal `json:"purchasePrice"`
	PurchaseTaxPercent decimal.Decimal `json:"purchaseTaxPercent"`
	Archived           bool            `json:"archived"`
}

// ProductDefaults is the price and tax percent applied to a line that omits them.
type ProductDefaults struct {
	UnitPrice  decimal.Decimal `json:"unitPrice"`
	TaxPercent decimal.Decimal `json:"taxPercent"`
}

// Defaults returns the product's defaults for the given side.
func (p Product) Defaults(side TradeSide) ProductDefaults {
	if side == Sales {
		return ProductDefaults{UnitPrice: p.SalesPrice, TaxPercent: p.SalesTaxPercent}
	}
	return ProductDefaults{UnitPrice: p.PurchasePrice, TaxPercent: p.PurchaseTaxPercent}
}
