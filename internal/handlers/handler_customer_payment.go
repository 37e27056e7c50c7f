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

// customerPaymentHandler handles HTTP requests related to customer receipts.
type customerPaymentHandler struct {
	paymentService portssvc.CustomerPaymentSvc
}

func registerCustomerPaymentRoutes(rg *gin.RouterGroup, paymentService portssvc.CustomerPaymentSvc) {
	h := &customerPaymentHandler{paymentService: paymentService}

	receipts := rg.Group("/customer-payments")
	{
		receipts.POST("", h.createReceipt)
		receipts.GET("/:id", h.getReceipt)
		receipts.POST("/:id/post", h.postReceipt)
	}
}

// createReceipt godoc
// @Summary Record a customer payment against an invoice
// @Description The invoice must be confirmed and the amount may not exceed what is still owed.
// @Tags customer-payments
// @Accept  json
// @Produce  json
// @Param   payment body dto.CreateCustomerPaymentRequest true "Receipt details"
// @Success 201 {object} domain.CustomerPayment
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Invoice or settlement account not found"
// @Failure 409 {object} map[string]string "Invoice not confirmed or amount exceeds outstanding"
// @Failure 500 {object} map[string]string "Failed to create customer payment"
// @Security BearerAuth
// @Router /customer-payments [post]
func (h *customerPaymentHandler) createReceipt(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateCustomerPaymentRequest
	if !bindJSON(c, logger, &req) {
		return
	}

	receipt, err := h.paymentService.CreateCustomerPayment(c.Request.Context(), req, middleware.ActorID(c))
	if err != nil {
		respondError(c, logger, err, "Failed to create customer payment")
		return
	}

	logger.Info("Customer payment recorded", slog.String("payment_id", receipt.PaymentID), slog.String("invoice_id", receipt.InvoiceID))
	c.JSON(http.StatusCreated, receipt)
}

// getReceipt godoc
// @Summary Get a customer payment by ID
// @Tags customer-payments
// @Produce  json
// @Param   id path string true "Customer payment ID"
// @Success 200 {object} domain.CustomerPayment
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Customer payment not found"
// @Failure 500 {object} map[string]string "Failed to retrieve customer payment"
// @Security BearerAuth
// @Router /customer-payments/{id} [get]
func (h *customerPaymentHandler) getReceipt(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("payment_id", c.Param("id")))

	receipt, err := h.paymentService.GetCustomerPayment(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, logger, err, "Failed to retrieve customer payment")
		return
	}
	c.JSON(http.StatusOK, receipt)
}

// postReceipt godoc
// @Summary Post a customer payment to the ledger
// @Description Debits the settlement account and credits the customer receivable.
// @Tags customer-payments
// @Produce  json
// @Param   id path string true "Customer payment ID"
// @Success 200 {object} dto.ConfirmResponse[domain.CustomerPayment]
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Customer payment not found"
// @Failure 409 {object} map[string]string "Already posted or exceeds outstanding"
// @Failure 412 {object} map[string]string "Required accounts not configured"
// @Failure 500 {object} map[string]string "Failed to post customer payment"
// @Security BearerAuth
// @Router /customer-payments/{id}/post [post]
func (h *customerPaymentHandler) postReceipt(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("payment_id", c.Param("id")))

	receipt, entry, err := h.paymentService.PostCustomerPayment(c.Request.Context(), c.Param("id"), middleware.ActorID(c))
	if err != nil {
		respondError(c, logger, err, "Failed to post customer payment")
		return
	}

	logger.Info("Customer payment posted", slog.String("journal_id", entry.EntryID))
	c.JSON(http.StatusOK, dto.ConfirmResponse[domain.CustomerPayment]{Document: *receipt, Journal: dto.ToJournalResponse(entry)})
}
