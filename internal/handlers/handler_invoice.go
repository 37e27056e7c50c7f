package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/SscSPs/invoicing_app/internal/core/domain"
	portssvc "github.com/SscSPs/invoicing_app/internal/core/ports/services"
	"github.com/SscSPs/invoicing_app/internal/dto"
	"github.com/SscSPs/invoicing_app/internal/middleware"
)

// invoiceHandler handles HTTP requests related to customer invoices.
type invoiceHandler struct {
	invoiceService portssvc.CustomerInvoiceSvc
	paymentService portssvc.CustomerPaymentSvc
}

func newInvoiceHandler(is portssvc.CustomerInvoiceSvc, ps portssvc.CustomerPaymentSvc) *invoiceHandler {
	return &invoiceHandler{invoiceService: is, paymentService: ps}
}

// registerInvoiceRoutes registers routes related to customer invoices.
func registerInvoiceRoutes(rg *gin.RouterGroup, invoiceService portssvc.CustomerInvoiceSvc, paymentService portssvc.CustomerPaymentSvc) {
	h := newInvoiceHandler(invoiceService, paymentService)

	invoices := rg.Group("/invoices")
	{
		invoices.POST("", h.createInvoice)
		invoices.GET("", h.listInvoices)
		invoices.GET("/:id", h.getInvoice)
		invoices.POST("/:id/confirm", h.confirmInvoice)
		invoices.GET("/:id/outstanding", h.getOutstanding)
		invoices.GET("/:id/payments", h.listReceipts)
	}
}

// createInvoice godoc
// @Summary Raise a customer invoice
// @Description Creates a draft invoice. Line prices and tax rates default from the product.
// @Tags invoices
// @Accept  json
// @Produce  json
// @Param   invoice body dto.CreateInvoiceRequest true "Invoice details"
// @Success 201 {object} domain.CustomerInvoice
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Customer or product not found"
// @Failure 500 {object} map[string]string "Failed to create invoice"
// @Security BearerAuth
// @Router /invoices [post]
func (h *invoiceHandler) createInvoice(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateInvoiceRequest
	if !bindJSON(c, logger, &req) {
		return
	}

	invoice, err := h.invoiceService.CreateInvoice(c.Request.Context(), req, middleware.ActorID(c))
	if err != nil {
		respondError(c, logger, err, "Failed to create invoice")
		return
	}

	logger.Info("Invoice created", slog.String("invoice_id", invoice.InvoiceID), slog.String("number", invoice.Number))
	c.JSON(http.StatusCreated, invoice)
}

// getInvoice godoc
// @Summary Get a customer invoice by ID
// @Tags invoices
// @Produce  json
// @Param   id path string true "Invoice ID"
// @Success 200 {object} domain.CustomerInvoice
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Invoice not found"
// @Failure 500 {object} map[string]string "Failed to retrieve invoice"
// @Security BearerAuth
// @Router /invoices/{id} [get]
func (h *invoiceHandler) getInvoice(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("invoice_id", c.Param("id")))

	invoice, err := h.invoiceService.GetInvoice(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, logger, err, "Failed to retrieve invoice")
		return
	}
	c.JSON(http.StatusOK, invoice)
}

// listInvoices godoc
// @Summary List customer invoices
// @Tags invoices
// @Produce  json
// @Param   status query string false "Filter by status"
// @Param   partnerID query string false "Filter by customer"
// @Param   limit query int false "Maximum number of invoices" default(50)
// @Success 200 {object} dto.ListInvoicesResponse
// @Failure 400 {object} map[string]string "Invalid query parameters"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to list invoices"
// @Security BearerAuth
// @Router /invoices [get]
func (h *invoiceHandler) listInvoices(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var params dto.ListDocumentsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Warn("Failed to bind query params for ListInvoices", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	invoices, err := h.invoiceService.ListInvoices(c.Request.Context(), params)
	if err != nil {
		respondError(c, logger, err, "Failed to list invoices")
		return
	}
	if invoices == nil {
		invoices = []domain.CustomerInvoice{}
	}
	c.JSON(http.StatusOK, dto.ListInvoicesResponse{Invoices: invoices})
}

// confirmInvoice godoc
// @Summary Confirm a customer invoice
// @Description Posts the invoice to the ledger. The customer is debited, income is credited per line and output tax is credited.
// @Tags invoices
// @Produce  json
// @Param   id path string true "Invoice ID"
// @Success 200 {object} dto.ConfirmResponse[domain.CustomerInvoice]
// @Failure 400 {object} map[string]string "Invoice has no amount"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Invoice not found"
// @Failure 409 {object} map[string]string "Invoice already posted"
// @Failure 412 {object} map[string]string "Required accounts not configured"
// @Failure 500 {object} map[string]string "Failed to confirm invoice"
// @Security BearerAuth
// @Router /invoices/{id}/confirm [post]
func (h *invoiceHandler) confirmInvoice(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("invoice_id", c.Param("id")))

	invoice, entry, err := h.invoiceService.ConfirmInvoice(c.Request.Context(), c.Param("id"), middleware.ActorID(c))
	if err != nil {
		respondError(c, logger, err, "Failed to confirm invoice")
		return
	}

	logger.Info("Invoice confirmed", slog.String("journal_id", entry.EntryID))
	c.JSON(http.StatusOK, dto.ConfirmResponse[domain.CustomerInvoice]{Document: *invoice, Journal: dto.ToJournalResponse(entry)})
}

// getOutstanding godoc
// @Summary Get the unpaid amount of an invoice
// @Tags invoices
// @Produce  json
// @Param   id path string true "Invoice ID"
// @Success 200 {object} dto.OutstandingResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Invoice not found"
// @Failure 500 {object} map[string]string "Failed to compute outstanding"
// @Security BearerAuth
// @Router /invoices/{id}/outstanding [get]
func (h *invoiceHandler) getOutstanding(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("invoice_id", c.Param("id")))

	resp, err := h.invoiceService.InvoiceOutstanding(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, logger, err, "Failed to compute outstanding")
		return
	}
	c.JSON(http.StatusOK, resp)
}

// listReceipts godoc
// @Summary List the receipts recorded against an invoice
// @Tags invoices
// @Produce  json
// @Param   id path string true "Invoice ID"
// @Success 200 {object} dto.ListCustomerPaymentsResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Invoice not found"
// @Failure 500 {object} map[string]string "Failed to list receipts"
// @Security BearerAuth
// @Router /invoices/{id}/payments [get]
func (h *invoiceHandler) listReceipts(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("invoice_id", c.Param("id")))

	receipts, err := h.paymentService.ListPaymentsForInvoice(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, logger, err, "Failed to list receipts")
		return
	}
	if receipts == nil {
		receipts = []domain.CustomerPayment{}
	}
	c.JSON(http.StatusOK, dto.ListCustomerPaymentsResponse{Payments: receipts})
}
