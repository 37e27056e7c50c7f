package services

import (
	"context"
	"fmt"

	"github.com/SscSPs/invoicing_app/internal/apperrors"
	"github.com/SscSPs/invoicing_app/internal/core/domain"
	portsrepo "github.com/SscSPs/invoicing_app/internal/core/ports/repositories"
)

// RefResolver checks that the row a reference points at exists.
type RefResolver func(ctx context.Context, repos portsrepo.TxRepositories, id string) error

// RefRegistry maps each reference kind to the repository that owns it.
type RefRegistry struct {
	resolvers map[domain.RefKind]RefResolver
}

// NewRefRegistry returns a registry with resolvers for every known kind.
func NewRefRegistry() *RefRegistry {
	r := &RefRegistry{resolvers: make(map[domain.RefKind]RefResolver)}
	r.Register(domain.RefContact, func(ctx context.Context, repos portsrepo.TxRepositories, id string) error {
		_, err := repos.Contacts.FindContactByID(ctx, id)
		return err
	})
	r.Register(domain.RefVendorBill, func(ctx context.Context, repos portsrepo.TxRepositories, id string) error {
		_, err := repos.Bills.FindBillByID(ctx, id)
		return err
	})
	r.Register(domain.RefPayment, func(ctx context.Context, repos portsrepo.TxRepositories, id string) error {
		_, err := repos.Payments.FindPaymentByID(ctx, id)
		return err
	})
	r.Register(domain.RefCustomerInvoice, func(ctx context.Context, repos portsrepo.TxRepositories, id string) error {
		_, err := repos.Invoices.FindInvoiceByID(ctx, id)
		return err
	})
	r.Register(domain.RefCustomerPayment, func(ctx context.Context, repos portsrepo.TxRepositories, id string) error {
		_, err := repos.CustomerPayments.FindCustomerPaymentByID(ctx, id)
		return err
	})
	return r
}

// Register installs or replaces the resolver of kind.
func (r *RefRegistry) Register(kind domain.RefKind, resolver RefResolver) {
	r.resolvers[kind] = resolver
}

// Resolve fails with apperrors.ErrValidation for an unknown kind and with
// apperrors.ErrNotFound when the referenced row does not exist.
func (r *RefRegistry) Resolve(ctx context.Context, repos portsrepo.TxRepositories, ref domain.Ref) error {
	resolver, ok := r.resolvers[ref.Kind]
	if !ok {
		return apperrors.NewValidationError("unknown reference kind %q", ref.Kind)
	}
	if ref.ID == "" {
		return apperrors.NewValidationError("reference of kind %q has no id", ref.Kind)
	}
	if err := resolver(ctx, repos, ref.ID); err != nil {
		return fmt.Errorf("resolving %s: %w", ref, err)
	}
	return nil
}
