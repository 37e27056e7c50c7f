package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/SscSPs/invoicing_app/internal/core/ports/services"
	"github.com/SscSPs/invoicing_app/internal/dto"
	"github.com/SscSPs/invoicing_app/internal/middleware"
)

// salesOrderHandler handles HTTP requests related to sales orders.
type salesOrderHandler struct {
	orderService portssvc.SalesOrderSvc
}

func registerSalesOrderRoutes(rg *gin.RouterGroup, orderService portssvc.SalesOrderSvc) {
	h := &salesOrderHandler{orderService: orderService}

	orders := rg.Group("/sales-orders")
	{
		orders.POST("", h.createOrder)
		orders.GET("/:id", h.getOrder)
		orders.POST("/:id/confirm", h.confirmOrder)
		orders.POST("/:id/create-invoice", h.createInvoice)
	}
}

// createOrder godoc
// @Summary Raise a sales order
// @Tags sales-orders
// @Accept  json
// @Produce  json
// @Param   order body dto.CreateSalesOrderRequest true "Order details"
// @Success 201 {object} domain.SalesOrder
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Customer or product not found"
// @Failure 500 {object} map[string]string "Failed to create sales order"
// @Security BearerAuth
// @Router /sales-orders [post]
func (h *salesOrderHandler) createOrder(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateSalesOrderRequest
	if !bindJSON(c, logger, &req) {
		return
	}

	so, err := h.orderService.CreateSalesOrder(c.Request.Context(), req, middleware.ActorID(c))
	if err != nil {
		respondError(c, logger, err, "Failed to create sales order")
		return
	}

	logger.Info("Sales order created", slog.String("so_id", so.SalesOrderID), slog.String("number", so.Number))
	c.JSON(http.StatusCreated, so)
}

// getOrder godoc
// @Summary Get a sales order by ID
// @Tags sales-orders
// @Produce  json
// @Param   id path string true "Sales order ID"
// @Success 200 {object} domain.SalesOrder
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Sales order not found"
// @Failure 500 {object} map[string]string "Failed to retrieve sales order"
// @Security BearerAuth
// @Router /sales-orders/{id} [get]
func (h *salesOrderHandler) getOrder(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("so_id", c.Param("id")))

	so, err := h.orderService.GetSalesOrder(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, logger, err, "Failed to retrieve sales order")
		return
	}
	c.JSON(http.StatusOK, so)
}

// confirmOrder godoc
// @Summary Confirm a sales order
// @Description Moves a draft order to confirmed. No ledger entry is written.
// @Tags sales-orders
// @Produce  json
// @Param   id path string true "Sales order ID"
// @Success 200 {object} domain.SalesOrder
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Sales order not found"
// @Failure 409 {object} map[string]string "Order is not a draft"
// @Failure 500 {object} map[string]string "Failed to confirm sales order"
// @Security BearerAuth
// @Router /sales-orders/{id}/confirm [post]
func (h *salesOrderHandler) confirmOrder(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("so_id", c.Param("id")))

	so, err := h.orderService.ConfirmSalesOrder(c.Request.Context(), c.Param("id"), middleware.ActorID(c))
	if err != nil {
		respondError(c, logger, err, "Failed to confirm sales order")
		return
	}
	c.JSON(http.StatusOK, so)
}

// createInvoice godoc
// @Summary Create a draft invoice from a sales order
// @Tags sales-orders
// @Produce  json
// @Param   id path string true "Sales order ID"
// @Success 201 {object} dto.CreateInvoiceFromOrderResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Sales order not found"
// @Failure 409 {object} map[string]string "Order already invoiced or cancelled"
// @Failure 500 {object} map[string]string "Failed to invoice sales order"
// @Security BearerAuth
// @Router /sales-orders/{id}/create-invoice [post]
func (h *salesOrderHandler) createInvoice(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("so_id", c.Param("id")))

	so, invoice, err := h.orderService.CreateInvoiceFromOrder(c.Request.Context(), c.Param("id"), middleware.ActorID(c))
	if err != nil {
		respondError(c, logger, err, "Failed to invoice sales order")
		return
	}

	logger.Info("Sales order invoiced", slog.String("invoice_id", invoice.InvoiceID))
	c.JSON(http.StatusCreated, dto.CreateInvoiceFromOrderResponse{SalesOrder: *so, Invoice: *invoice})
}
