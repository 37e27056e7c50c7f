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

// billHandler handles HTTP requests related to vendor bills.
type billHandler struct {
	billService    portssvc.VendorBillSvc
	paymentService portssvc.PaymentSvc
}

func newBillHandler(bs portssvc.VendorBillSvc, ps portssvc.PaymentSvc) *billHandler {
	return &billHandler{billService: bs, paymentService: ps}
}

// registerBillRoutes registers routes related to vendor bills.
func registerBillRoutes(rg *gin.RouterGroup, billService portssvc.VendorBillSvc, paymentService portssvc.PaymentSvc) {
	h := newBillHandler(billService, paymentService)

	bills := rg.Group("/bills")
	{
		bills.POST("", h.createBill)
		bills.GET("", h.listBills)
		bills.GET("/:id", h.getBill)
		bills.POST("/:id/confirm", h.confirmBill)
		bills.GET("/:id/outstanding", h.getOutstanding)
		bills.GET("/:id/payments", h.listPayments)
	}
}

// createBill godoc
// @Summary Record a vendor bill
// @Description Creates a draft bill. Line prices and tax rates default from the product.
// @Tags bills
// @Accept  json
// @Produce  json
// @Param   bill body dto.CreateBillRequest true "Bill details"
// @Success 201 {object} domain.VendorBill
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Vendor or product not found"
// @Failure 500 {object} map[string]string "Failed to create bill"
// @Security BearerAuth
// @Router /bills [post]
func (h *billHandler) createBill(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateBillRequest
	if !bindJSON(c, logger, &req) {
		return
	}

	bill, err := h.billService.CreateBill(c.Request.Context(), req, middleware.ActorID(c))
	if err != nil {
		respondError(c, logger, err, "Failed to create bill")
		return
	}

	logger.Info("Bill created", slog.String("bill_id", bill.BillID), slog.String("number", bill.Number))
	c.JSON(http.StatusCreated, bill)
}

// getBill godoc
// @Summary Get a vendor bill by ID
// @Tags bills
// @Produce  json
// @Param   id path string true "Bill ID"
// @Success 200 {object} domain.VendorBill
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Bill not found"
// @Failure 500 {object} map[string]string "Failed to retrieve bill"
// @Security BearerAuth
// @Router /bills/{id} [get]
func (h *billHandler) getBill(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("bill_id", c.Param("id")))

	bill, err := h.billService.GetBill(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, logger, err, "Failed to retrieve bill")
		return
	}
	c.JSON(http.StatusOK, bill)
}

// listBills godoc
// @Summary List vendor bills
// @Tags bills
// @Produce  json
// @Param   status query string false "Filter by status"
// @Param   partnerID query string false "Filter by vendor"
// @Param   limit query int false "Maximum number of bills" default(50)
// @Success 200 {object} dto.ListBillsResponse
// @Failure 400 {object} map[string]string "Invalid query parameters"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to list bills"
// @Security BearerAuth
// @Router /bills [get]
func (h *billHandler) listBills(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var params dto.ListDocumentsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Warn("Failed to bind query params for ListBills", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	bills, err := h.billService.ListBills(c.Request.Context(), params)
	if err != nil {
		respondError(c, logger, err, "Failed to list bills")
		return
	}
	if bills == nil {
		bills = []domain.VendorBill{}
	}
	c.JSON(http.StatusOK, dto.ListBillsResponse{Bills: bills})
}

// confirmBill godoc
// @Summary Confirm a vendor bill
// @Description Posts the bill to the ledger. Expense is debited per line, input tax is debited and the vendor is credited.
// @Tags bills
// @Produce  json
// @Param   id path string true "Bill ID"
// @Success 200 {object} dto.ConfirmResponse[domain.VendorBill]
// @Failure 400 {object} map[string]string "Bill has no amount"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Bill not found"
// @Failure 409 {object} map[string]string "Bill already posted"
// @Failure 412 {object} map[string]string "Required accounts not configured"
// @Failure 500 {object} map[string]string "Failed to confirm bill"
// @Security BearerAuth
// @Router /bills/{id}/confirm [post]
func (h *billHandler) confirmBill(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("bill_id", c.Param("id")))

	bill, entry, err := h.billService.ConfirmBill(c.Request.Context(), c.Param("id"), middleware.ActorID(c))
	if err != nil {
		respondError(c, logger, err, "Failed to confirm bill")
		return
	}

	logger.Info("Bill confirmed", slog.String("journal_id", entry.EntryID))
	c.JSON(http.StatusOK, dto.ConfirmResponse[domain.VendorBill]{Document: *bill, Journal: dto.ToJournalResponse(entry)})
}

// getOutstanding godoc
// @Summary Get the unpaid amount of a bill
// @Tags bills
// @Produce  json
// @Param   id path string true "Bill ID"
// @Success 200 {object} dto.OutstandingResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Bill not found"
// @Failure 500 {object} map[string]string "Failed to compute outstanding"
// @Security BearerAuth
// @Router /bills/{id}/outstanding [get]
func (h *billHandler) getOutstanding(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("bill_id", c.Param("id")))

	resp, err := h.billService.BillOutstanding(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, logger, err, "Failed to compute outstanding")
		return
	}
	c.JSON(http.StatusOK, resp)
}

// listPayments godoc
// @Summary List the payments recorded against a bill
// @Tags bills
// @Produce  json
// @Param   id path string true "Bill ID"
// @Success 200 {object} dto.ListPaymentsResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Bill not found"
// @Failure 500 {object} map[string]string "Failed to list payments"
// @Security BearerAuth
// @Router /bills/{id}/payments [get]
func (h *billHandler) listPayments(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("bill_id", c.Param("id")))

	payments, err := h.paymentService.ListPaymentsForBill(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, logger, err, "Failed to list payments")
		return
	}
	if payments == nil {
		payments = []domain.Payment{}
	}
	c.JSON(http.StatusOK, dto.ListPaymentsResponse{Payments: payments})
}
