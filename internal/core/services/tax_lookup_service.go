package services

import (
	"context"

	"github.com/SscSPs/invoicing_app/internal/apperrors"
	"github.com/SscSPs/invoicing_app/internal/core/domain"
	portsrepo "github.com/SscSPs/invoicing_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/invoicing_app/internal/core/ports/services"
)

type productTaxLookup struct {
	products portsrepo.ProductReader
}

// NewProductTaxLookup reads line defaults straight from the product table.
func NewProductTaxLookup(products portsrepo.ProductReader) portssvc.TaxRateLookup {
	return &productTaxLookup{products: products}
}

func (l *productTaxLookup) ProductDefaults(ctx context.Context, productID string, side domain.TradeSide) (domain.ProductDefaults, error) {
	p, err := l.products.FindProductByID(ctx, productID)
	if err != nil {
		return domain.ProductDefaults{}, err
	}
	if p.Archived {
		return domain.ProductDefaults{}, apperrors.NewValidationError("product %s is archived", p.Name)
	}
	return p.Defaults(side), nil
}
