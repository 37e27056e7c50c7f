package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/SscSPs/invoicing_app/internal/core/domain"
	portsrepo "github.com/SscSPs/invoicing_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/invoicing_app/internal/core/ports/services"
	"github.com/SscSPs/invoicing_app/internal/dto"
)

type purchaseOrderService struct {
	BaseService
	repos     portsrepo.RepositoryProvider
	sequences portssvc.SequenceSvc
	lookup    portssvc.TaxRateLookup
}

// NewPurchaseOrderService creates the purchase order controller.
func NewPurchaseOrderService(repos portsrepo.RepositoryProvider, sequences portssvc.SequenceSvc, lookup portssvc.TaxRateLookup, opts ...ServiceOption) portssvc.PurchaseOrderSvc {
	return &purchaseOrderService{BaseService: newBaseService(opts), repos: repos, sequences: sequences, lookup: lookup}
}

var _ portssvc.PurchaseOrderSvc = (*purchaseOrderService)(nil)

func (s *purchaseOrderService) CreatePurchaseOrder(ctx context.Context, req dto.CreatePurchaseOrderRequest, userID string) (*domain.PurchaseOrder, error) {
	lines, err := buildLines(ctx, s.lookup, domain.Purchase, dto.ToLineInputs(req.Lines))
	if err != nil {
		return nil, err
	}
	po := domain.PurchaseOrder{
		PurchaseOrderID: newID(),
		VendorID:        req.VendorID,
		OrderDate:       domain.DateOnly(req.OrderDate),
		Status:          domain.StatusDraft,
		Lines:           lines,
		DocumentTotals:  domain.SumLines(lines),
		AuditFields:     newAudit(userID, s.CurrentTime()),
	}
	err = s.repos.Tx.WithinTx(ctx, func(ctx context.Context, repos portsrepo.TxRepositories) error {
		if _, err := requireContact(ctx, repos.Contacts, req.VendorID, domain.ContactVendor); err != nil {
			return err
		}
		number, err := s.sequences.NextNumberInTx(ctx, repos, domain.ScopePurchaseOrder, po.OrderDate.Year())
		if err != nil {
			return err
		}
		po.Number = number
		if err := repos.PurchaseOrders.SavePurchaseOrder(ctx, po); err != nil {
			return fmt.Errorf("failed to save purchase order: %w", err)
		}
		return nil
	})
	if err != nil {
		s.LogWarn(ctx, err, "Purchase order not created", slog.String("vendor_id", req.VendorID))
		return nil, err
	}
	s.LogInfo(ctx, "Purchase order created", slog.String("po_id", po.PurchaseOrderID), slog.String("number", po.Number))
	return &po, nil
}

func (s *purchaseOrderService) GetPurchaseOrder(ctx context.Context, poID string) (*domain.PurchaseOrder, error) {
	return s.repos.PurchaseOrderRepo.FindPurchaseOrderByID(ctx, poID)
}

// ConvertToBill copies a draft order into a new draft bill dated today.
func (s *purchaseOrderService) ConvertToBill(ctx context.Context, poID string, userID string) (*domain.PurchaseOrder, *domain.VendorBill, error) {
	var (
		po   *domain.PurchaseOrder
		bill *domain.VendorBill
	)
	err := s.repos.Tx.WithinTx(ctx, func(ctx context.Context, repos portsrepo.TxRepositories) error {
		order, err := repos.PurchaseOrders.FindPurchaseOrderByIDForUpdate(ctx, poID)
		if err != nil {
			return err
		}
		if order.Status != domain.StatusDraft || order.BillID != nil {
			return invalidState("purchase order %s is %s; only draft orders can be converted", order.Number, order.Status)
		}

		now := s.CurrentTime()
		lines := assignLineIDs(domain.CopyLines(order.Lines))
		b := domain.VendorBill{
			BillID:          newID(),
			VendorID:        order.VendorID,
			PurchaseOrderID: &order.PurchaseOrderID,
			BillDate:        domain.DateOnly(now),
			Status:          domain.StatusDraft,
			Lines:           lines,
			DocumentTotals:  domain.SumLines(lines),
			AuditFields:     newAudit(userID, now),
		}
		if err := createBillInTx(ctx, repos, s.sequences, &b); err != nil {
			return err
		}
		if err := repos.PurchaseOrders.UpdatePurchaseOrderStatus(ctx, order.PurchaseOrderID, portsrepo.StatusChange{
			Status:    domain.StatusSent,
			LinkedID:  &b.BillID,
			UpdatedBy: actor(userID),
			UpdatedAt: now,
		}); err != nil {
			return fmt.Errorf("failed to update purchase order: %w", err)
		}
		order.Status = domain.StatusSent
		order.BillID = &b.BillID
		order.LastUpdatedAt, order.LastUpdatedBy = now, actor(userID)
		po, bill = order, &b
		return nil
	})
	if err != nil {
		s.LogWarn(ctx, err, "Purchase order conversion rejected", slog.String("po_id", poID))
		return nil, nil, err
	}
	s.LogInfo(ctx, "Purchase order converted to bill", slog.String("po_id", po.PurchaseOrderID), slog.String("bill_id", bill.BillID))
	return po, bill, nil
}

// CancelPurchaseOrder cancels a draft or sent order. A bill already created
// from it is left alone.
func (s *purchaseOrderService) CancelPurchaseOrder(ctx context.Context, poID string, userID string) (*domain.PurchaseOrder, error) {
	var po *domain.PurchaseOrder
	err := s.repos.Tx.WithinTx(ctx, func(ctx context.Context, repos portsrepo.TxRepositories) error {
		order, err := repos.PurchaseOrders.FindPurchaseOrderByIDForUpdate(ctx, poID)
		if err != nil {
			return err
		}
		if order.Status != domain.StatusDraft && order.Status != domain.StatusSent {
			return invalidState("purchase order %s is %s", order.Number, order.Status)
		}
		now := s.CurrentTime()
		if err := repos.PurchaseOrders.UpdatePurchaseOrderStatus(ctx, order.PurchaseOrderID, portsrepo.StatusChange{
			Status:    domain.StatusCancelled,
			UpdatedBy: actor(userID),
			UpdatedAt: now,
		}); err != nil {
			return fmt.Errorf("failed to cancel purchase order: %w", err)
		}
		order.Status = domain.StatusCancelled
		order.LastUpdatedAt, order.LastUpdatedBy = now, actor(userID)
		po = order
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.LogInfo(ctx, "Purchase order cancelled", slog.String("po_id", po.PurchaseOrderID))
	return po, nil
}
