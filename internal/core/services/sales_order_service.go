package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/SscSPs/invoicing_app/internal/apperrors"
	"github.com/SscSPs/invoicing_app/internal/core/domain"
	portsrepo "github.com/SscSPs/invoicing_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/invoicing_app/internal/core/ports/services"
	"github.com/SscSPs/invoicing_app/internal/dto"
)

type salesOrderService struct {
	BaseService
	repos     portsrepo.RepositoryProvider
	sequences portssvc.SequenceSvc
	lookup    portssvc.TaxRateLookup
}

// NewSalesOrderService creates the sales order controller.
func NewSalesOrderService(repos portsrepo.RepositoryProvider, sequences portssvc.SequenceSvc, lookup portssvc.TaxRateLookup, opts ...ServiceOption) portssvc.SalesOrderSvc {
	return &salesOrderService{BaseService: newBaseService(opts), repos: repos, sequences: sequences, lookup: lookup}
}

var _ portssvc.SalesOrderSvc = (*salesOrderService)(nil)

func (s *salesOrderService) CreateSalesOrder(ctx context.Context, req dto.CreateSalesOrderRequest, userID string) (*domain.SalesOrder, error) {
	lines, err := buildLines(ctx, s.lookup, domain.Sales, dto.ToLineInputs(req.Lines))
	if err != nil {
		return nil, err
	}
	so := domain.SalesOrder{
		SalesOrderID:   newID(),
		CustomerID:     req.CustomerID,
		OrderDate:      domain.DateOnly(req.OrderDate),
		Status:         domain.StatusDraft,
		Lines:          lines,
		DocumentTotals: domain.SumLines(lines),
		AuditFields:    newAudit(userID, s.CurrentTime()),
	}
	err = s.repos.Tx.WithinTx(ctx, func(ctx context.Context, repos portsrepo.TxRepositories) error {
		if _, err := requireContact(ctx, repos.Contacts, req.CustomerID, domain.ContactCustomer); err != nil {
			return err
		}
		number, err := s.sequences.NextNumberInTx(ctx, repos, domain.ScopeSalesOrder, so.OrderDate.Year())
		if err != nil {
			return err
		}
		so.Number = number
		if err := repos.SalesOrders.SaveSalesOrder(ctx, so); err != nil {
			return fmt.Errorf("failed to save sales order: %w", err)
		}
		return nil
	})
	if err != nil {
		s.LogWarn(ctx, err, "Sales order not created", slog.String("customer_id", req.CustomerID))
		return nil, err
	}
	s.LogInfo(ctx, "Sales order created", slog.String("so_id", so.SalesOrderID), slog.String("number", so.Number))
	return &so, nil
}

func (s *salesOrderService) GetSalesOrder(ctx context.Context, soID string) (*domain.SalesOrder, error) {
	return s.repos.SalesOrderRepo.FindSalesOrderByID(ctx, soID)
}

// ConfirmSalesOrder moves a draft order with at least one line to confirmed.
func (s *salesOrderService) ConfirmSalesOrder(ctx context.Context, soID string, userID string) (*domain.SalesOrder, error) {
	var so *domain.SalesOrder
	err := s.repos.Tx.WithinTx(ctx, func(ctx context.Context, repos portsrepo.TxRepositories) error {
		order, err := repos.SalesOrders.FindSalesOrderByIDForUpdate(ctx, soID)
		if err != nil {
			return err
		}
		if order.Status != domain.StatusDraft {
			return invalidState("sales order %s is %s", order.Number, order.Status)
		}
		if len(order.Lines) == 0 {
			return fmt.Errorf("%w: sales order %s", apperrors.ErrEmptyDocument, order.Number)
		}
		now := s.CurrentTime()
		if err := repos.SalesOrders.UpdateSalesOrderStatus(ctx, order.SalesOrderID, portsrepo.StatusChange{
			Status:    domain.StatusConfirmed,
			UpdatedBy: actor(userID),
			UpdatedAt: now,
		}); err != nil {
			return fmt.Errorf("failed to confirm sales order: %w", err)
		}
		order.Status = domain.StatusConfirmed
		order.LastUpdatedAt, order.LastUpdatedBy = now, actor(userID)
		so = order
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.LogInfo(ctx, "Sales order confirmed", slog.String("so_id", so.SalesOrderID))
	return so, nil
}

// CreateInvoiceFromOrder copies a confirmed, not yet invoiced order into a
// new draft invoice dated today.
func (s *salesOrderService) CreateInvoiceFromOrder(ctx context.Context, soID string, userID string) (*domain.SalesOrder, *domain.CustomerInvoice, error) {
	var (
		so      *domain.SalesOrder
		invoice *domain.CustomerInvoice
	)
	err := s.repos.Tx.WithinTx(ctx, func(ctx context.Context, repos portsrepo.TxRepositories) error {
		order, err := repos.SalesOrders.FindSalesOrderByIDForUpdate(ctx, soID)
		if err != nil {
			return err
		}
		if order.Status != domain.StatusConfirmed {
			return invalidState("sales order %s is %s; only confirmed orders can be invoiced", order.Number, order.Status)
		}
		if order.InvoiceID != nil {
			return invalidState("sales order %s is already invoiced", order.Number)
		}

		now := s.CurrentTime()
		lines := assignLineIDs(domain.CopyLines(order.Lines))
		inv := domain.CustomerInvoice{
			InvoiceID:      newID(),
			CustomerID:     order.CustomerID,
			SalesOrderID:   &order.SalesOrderID,
			InvoiceDate:    domain.DateOnly(now),
			Status:         domain.StatusDraft,
			Lines:          lines,
			DocumentTotals: domain.SumLines(lines),
			AuditFields:    newAudit(userID, now),
		}
		if err := createInvoiceInTx(ctx, repos, s.sequences, &inv); err != nil {
			return err
		}
		if err := repos.SalesOrders.UpdateSalesOrderStatus(ctx, order.SalesOrderID, portsrepo.StatusChange{
			Status:    order.Status,
			LinkedID:  &inv.InvoiceID,
			UpdatedBy: actor(userID),
			UpdatedAt: now,
		}); err != nil {
			return fmt.Errorf("failed to link invoice to sales order: %w", err)
		}
		order.InvoiceID = &inv.InvoiceID
		order.LastUpdatedAt, order.LastUpdatedBy = now, actor(userID)
		so, invoice = order, &inv
		return nil
	})
	if err != nil {
		s.LogWarn(ctx, err, "Invoice from sales order rejected", slog.String("so_id", soID))
		return nil, nil, err
	}
	s.LogInfo(ctx, "Invoice created from sales order", slog.String("so_id", so.SalesOrderID), slog.String("invoice_id", invoice.InvoiceID))
	return so, invoice, nil
}
