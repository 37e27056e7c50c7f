package memory

import (
	"context"

	"github.com/SscSPs/invoicing_app/internal/apperrors"
	"github.com/SscSPs/invoicing_app/internal/core/domain"
)

func (v *view) FindContactByID(_ context.Context, contactID string) (*domain.Contact, error) {
	var out *domain.Contact
	err := v.read(func(st *state) error {
		c, ok := st.contacts[contactID]
		if !ok {
			return apperrors.NewNotFoundError("contact", contactID)
		}
		out = &c
		return nil
	})
	return out, err
}

func (v *view) FindProductByID(_ context.Context, productID string) (*domain.Product, error) {
	var out *domain.Product
	err := v.read(func(st *state) error {
		p, ok := st.products[productID]
		if !ok {
			return apperrors.NewNotFoundError("product", productID)
		}
		out = &p
		return nil
	})
	return out, err
}
