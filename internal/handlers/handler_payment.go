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

// paymentHandler handles HTTP requests related to vendor payments.
type paymentHandler struct {
	paymentService portssvc.PaymentSvc
}

// registerPaymentRoutes registers routes related to vendor payments.
func registerPaymentRoutes(rg *gin.RouterGroup, paymentService portssvc.PaymentSvc) {
	h := &paymentHandler{paymentService: paymentService}

	payments := rg.Group("/payments")
	{
		payments.POST("", h.createPayment)
		payments.GET("/:id", h.getPayment)
		payments.POST("/:id/post", h.postPayment)
	}
}

// createPayment godoc
// @Summary Record a payment against a bill
// @Description The bill must be confirmed and the amount may not exceed what is still owed.
// @Tags payments
// @Accept  json
// @Produce  json
// @Param   payment body dto.CreatePaymentRequest true "Payment details"
// @Success 201 {object} domain.Payment
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Bill or settlement account not found"
// @Failure 409 {object} map[string]string "Bill not confirmed or amount exceeds outstanding"
// @Failure 500 {object} map[string]string "Failed to create payment"
// @Security BearerAuth
// @Router /payments [post]
func (h *paymentHandler) createPayment(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreatePaymentRequest
	if !bindJSON(c, logger, &req) {
		return
	}

	payment, err := h.paymentService.CreatePayment(c.Request.Context(), req, middleware.ActorID(c))
	if err != nil {
		respondError(c, logger, err, "Failed to create payment")
		return
	}

	logger.Info("Payment recorded", slog.String("payment_id", payment.PaymentID), slog.String("bill_id", payment.BillID))
	c.JSON(http.StatusCreated, payment)
}

// getPayment godoc
// @Summary Get a vendor payment by ID
// @Tags payments
// @Produce  json
// @Param   id path string true "Payment ID"
// @Success 200 {object} domain.Payment
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Payment not found"
// @Failure 500 {object} map[string]string "Failed to retrieve payment"
// @Security BearerAuth
// @Router /payments/{id} [get]
func (h *paymentHandler) getPayment(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("payment_id", c.Param("id")))

	payment, err := h.paymentService.GetPayment(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, logger, err, "Failed to retrieve payment")
		return
	}
	c.JSON(http.StatusOK, payment)
}

// postPayment godoc
// @Summary Post a vendor payment to the ledger
// @Description Debits the vendor payable and credits the settlement account. The bill is marked paid once fully settled.
// @Tags payments
// @Produce  json
// @Param   id path string true "Payment ID"
// @Success 200 {object} dto.ConfirmResponse[domain.Payment]
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Payment not found"
// @Failure 409 {object} map[string]string "Payment already posted or exceeds outstanding"
// @Failure 412 {object} map[string]string "Required accounts not configured"
// @Failure 500 {object} map[string]string "Failed to post payment"
// @Security BearerAuth
// @Router /payments/{id}/post [post]
func (h *paymentHandler) postPayment(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("payment_id", c.Param("id")))

	payment, entry, err := h.paymentService.PostPayment(c.Request.Context(), c.Param("id"), middleware.ActorID(c))
	if err != nil {
		respondError(c, logger, err, "Failed to post payment")
		return
	}

	logger.Info("Payment posted", slog.String("journal_id", entry.EntryID))
	c.JSON(http.StatusOK, dto.ConfirmResponse[domain.Payment]{Document: *payment, Journal: dto.ToJournalResponse(entry)})
}
