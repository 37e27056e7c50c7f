package services

import (
	"context"

	"github.com/SscSPs/invoicing_app/internal/core/domain"
	portsrepo "github.com/SscSPs/invoicing_app/internal/core/ports/repositories"
)

// SequenceSvc issues document numbers such as PO/2025/0001.
type SequenceSvc interface {
	NextNumber(ctx context.Context, scope domain.SequenceScope, year int) (string, error)
	NextNumberInTx(ctx context.Context, repos portsrepo.TxRepositories, scope domain.SequenceScope, year int) (string, error)
}

// TaxRateLookup supplies a product's default unit price and tax percent.
// Implementations may cache; they must bound staleness with a TTL.
type TaxRateLookup interface {
	ProductDefaults(ctx context.Context, productID string, side domain.TradeSide) (domain.ProductDefaults, error)
}
