package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/SscSPs/invoicing_app/internal/apperrors"
	"github.com/SscSPs/invoicing_app/internal/core/domain"
	portsrepo "github.com/SscSPs/invoicing_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/invoicing_app/internal/core/ports/services"
)

// buildLines prices the caller's lines. A line naming a product may omit
// unit price and tax percent; the product defaults of side fill them in.
func buildLines(ctx context.Context, lookup portssvc.TaxRateLookup, side domain.TradeSide, inputs []domain.LineInput) ([]domain.DocumentLine, error) {
	lines := make([]domain.DocumentLine, 0, len(inputs))
	for i, in := range inputs {
		lineNo := i + 1
		price, pct := in.UnitPrice, in.TaxPercent
		if price == nil || pct == nil {
			defaults, err := productDefaults(ctx, lookup, in.ProductID, side)
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", lineNo, err)
			}
			if defaults == nil && price == nil {
				return nil, apperrors.NewValidationError("line %d: unit price is required without a product", lineNo)
			}
			if price == nil {
				price = &defaults.UnitPrice
			}
			if pct == nil {
				if defaults != nil {
					pct = &defaults.TaxPercent
				} else {
					zero := decimal.Zero
					pct = &zero
				}
			}
		}
		line, err := domain.NewDocumentLine(lineNo, in.ProductID, in.Description, in.Quantity, *price, *pct)
		if err != nil {
			return nil, err
		}
		line.LineID = newID()
		lines = append(lines, line)
	}
	return lines, nil
}

func productDefaults(ctx context.Context, lookup portssvc.TaxRateLookup, productID string, side domain.TradeSide) (*domain.ProductDefaults, error) {
	if productID == "" || lookup == nil {
		return nil, nil
	}
	d, err := lookup.ProductDefaults(ctx, productID, side)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// assignLineIDs gives copied lines fresh ids.
func assignLineIDs(lines []domain.DocumentLine) []domain.DocumentLine {
	for i := range lines {
		lines[i].LineID = newID()
	}
	return lines
}

// requireContact checks that a contact exists and trades on the wanted side.
func requireContact(ctx context.Context, contacts portsrepo.ContactReader, contactID string, side domain.ContactType) (*domain.Contact, error) {
	c, err := contacts.FindContactByID(ctx, contactID)
	if err != nil {
		return nil, err
	}
	switch side {
	case domain.ContactVendor:
		if !c.IsVendor() {
			return nil, apperrors.NewValidationError("contact %s is not a vendor", contactID)
		}
	case domain.ContactCustomer:
		if !c.IsCustomer() {
			return nil, apperrors.NewValidationError("contact %s is not a customer", contactID)
		}
	}
	return c, nil
}

// requireAccount resolves role or fails with apperrors.ErrAccountsNotConfigured.
func requireAccount(ctx context.Context, accounts portsrepo.AccountReader, role domain.AccountRole) (*domain.Account, error) {
	acc, err := resolveAccount(ctx, accounts, role)
	if err != nil {
		return nil, err
	}
	if acc == nil {
		return nil, apperrors.AccountsNotConfigured(string(role))
	}
	return acc, nil
}

// requireSettlementAccount loads an account and checks it is an asset.
func requireSettlementAccount(ctx context.Context, accounts portsrepo.AccountReader, accountID string) (*domain.Account, error) {
	acc, err := accounts.FindAccountByID(ctx, accountID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", apperrors.ErrAccountNotFound, accountID)
		}
		return nil, err
	}
	if acc.AccountType != domain.Asset {
		return nil, apperrors.NewValidationError("settlement account %s must be an asset account, got %s", acc.Name, acc.AccountType)
	}
	return acc, nil
}

func validatePaymentInput(amount decimal.Decimal, method domain.PaymentMethod) error {
	if !amount.IsPositive() {
		return apperrors.NewValidationError("payment amount must be greater than zero")
	}
	if !amount.Equal(domain.RoundMoney(amount)) {
		return apperrors.NewValidationError("payment amount has more than 2 decimal places")
	}
	if !method.Valid() {
		return apperrors.NewValidationError("unknown payment method %q", method)
	}
	return nil
}

// appendPositive adds line only when its amount is non-zero.
func appendPositive(lines []domain.PostingLine, line domain.PostingLine) []domain.PostingLine {
	amount, _ := line.Side()
	if amount.IsPositive() {
		return append(lines, line)
	}
	return lines
}

func invalidState(format string, args ...any) error {
	return fmt.Errorf("%w: %s", apperrors.ErrInvalidState, fmt.Sprintf(format, args...))
}

func alreadyPosted(kind, number string) error {
	return fmt.Errorf("%w: %s %s", apperrors.ErrAlreadyPosted, kind, number)
}

func newAudit(userID string, now time.Time) domain.AuditFields {
	return domain.AuditFields{
		CreatedAt:     now,
		CreatedBy:     actor(userID),
		LastUpdatedAt: now,
		LastUpdatedBy: actor(userID),
	}
}
