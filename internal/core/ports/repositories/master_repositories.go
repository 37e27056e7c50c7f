package repositories

import (
	"context"

	"github.com/SscSPs/invoicing_app/internal/core/domain"
)

// ContactReader resolves contacts. Contacts are maintained outside the ledger.
type ContactReader interface {
	FindContactByID(ctx context.Context, contactID string) (*domain.Contact, error)
}

// ProductReader resolves products. Products are maintained outside the ledger.
type ProductReader interface {
	FindProductByID(ctx context.Context, productID string) (*domain.Product, error)
}
