package pgsql

import (
	"context"

	"github.com/SscSPs/invoicing_app/internal/core/domain"
	portsrepo "github.com/SscSPs/invoicing_app/internal/core/ports/repositories"
)

// PgxMasterRepository reads the contact and product tables, which are
// maintained outside the ledger.
type PgxMasterRepository struct {
	BaseRepository
}

func newPgxMasterRepository(db DBTX) *PgxMasterRepository {
	return &PgxMasterRepository{BaseRepository: BaseRepository{DB: db}}
}

var (
	_ portsrepo.ContactReader = (*PgxMasterRepository)(nil)
	_ portsrepo.ProductReader = (*PgxMasterRepository)(nil)
)

func (r *PgxMasterRepository) FindContactByID(ctx context.Context, contactID string) (*domain.Contact, error) {
	query := `
		SELECT contact_id, name, contact_type,
		       COALESCE(email, ''), COALESCE(mobile, ''), COALESCE(city, ''), COALESCE(state, ''), COALESCE(pincode, '')
		FROM contacts
		WHERE contact_id = $1;
	`
	var c domain.Contact
	err := r.DB.QueryRow(ctx, query, contactID).Scan(
		&c.ContactID,
		&c.Name,
		&c.ContactType,
		&c.Email,
		&c.Mobile,
		&c.City,
		&c.State,
		&c.Pincode,
	)
	if err != nil {
		return nil, mapError(err, "contact", contactID)
	}
	return &c, nil
}

func (r *PgxMasterRepository) FindProductByID(ctx context.Context, productID string) (*domain.Product, error) {
	query := `
		SELECT product_id, name, COALESCE(hsn_code, ''),
		       sales_price, sales_tax_percent, purchase_price, purchase_tax_percent, archived
		FROM products
		WHERE product_id = $1;
	`
	var p domain.Product
	err := r.DB.QueryRow(ctx, query, productID).Scan(
		&p.ProductID,
		&p.Name,
		&p.HSNCode,
		&p.SalesPrice,
		&p.SalesTaxPercent,
		&p.PurchasePrice,
		&p.PurchaseTaxPercent,
		&p.Archived,
	)
	if err != nil {
		return nil, mapError(err, "product", productID)
	}
	return &p, nil
}
