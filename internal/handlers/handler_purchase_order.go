package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/SscSPs/invoicing_app/internal/core/ports/services"
	"github.com/SscSPs/invoicing_app/internal/dto"
	"github.com/SscSPs/invoicing_app/internal/middleware"
)

// purchaseOrderHandler handles HTTP requests related to purchase orders.
type purchaseOrderHandler struct {
	orderService portssvc.PurchaseOrderSvc
}

func registerPurchaseOrderRoutes(rg *gin.RouterGroup, orderService portssvc.PurchaseOrderSvc) {
	h := &purchaseOrderHandler{orderService: orderService}

	orders := rg.Group("/purchase-orders")
	{
		orders.POST("", h.createOrder)
		orders.GET("/:id", h.getOrder)
		orders.POST("/:id/convert-to-bill", h.convertToBill)
		orders.POST("/:id/cancel", h.cancelOrder)
	}
}

// createOrder godoc
// @Summary Raise a purchase order
// @Tags purchase-orders
// @Accept  json
// @Produce  json
// @Param   order body dto.CreatePurchaseOrderRequest true "Order details"
// @Success 201 {object} domain.PurchaseOrder
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Vendor or product not found"
// @Failure 500 {object} map[string]string "Failed to create purchase order"
// @Security BearerAuth
// @Router /purchase-orders [post]
func (h *purchaseOrderHandler) createOrder(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreatePurchaseOrderRequest
	if !bindJSON(c, logger, &req) {
		return
	}

	po, err := h.orderService.CreatePurchaseOrder(c.Request.Context(), req, middleware.ActorID(c))
	if err != nil {
		respondError(c, logger, err, "Failed to create purchase order")
		return
	}

	logger.Info("Purchase order created", slog.String("po_id", po.PurchaseOrderID), slog.String("number", po.Number))
	c.JSON(http.StatusCreated, po)
}

// getOrder godoc
// @Summary Get a purchase order by ID
// @Tags purchase-orders
// @Produce  json
// @Param   id path string true "Purchase order ID"
// @Success 200 {object} domain.PurchaseOrder
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Purchase order not found"
// @Failure 500 {object} map[string]string "Failed to retrieve purchase order"
// @Security BearerAuth
// @Router /purchase-orders/{id} [get]
func (h *purchaseOrderHandler) getOrder(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("po_id", c.Param("id")))

	po, err := h.orderService.GetPurchaseOrder(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, logger, err, "Failed to retrieve purchase order")
		return
	}
	c.JSON(http.StatusOK, po)
}

// convertToBill godoc
// @Summary Convert a purchase order into a draft bill
// @Description Copies the order lines onto a new draft bill and marks the order sent.
// @Tags purchase-orders
// @Produce  json
// @Param   id path string true "Purchase order ID"
// @Success 201 {object} dto.ConvertToBillResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Purchase order not found"
// @Failure 409 {object} map[string]string "Order already converted or cancelled"
// @Failure 500 {object} map[string]string "Failed to convert purchase order"
// @Security BearerAuth
// @Router /purchase-orders/{id}/convert-to-bill [post]
func (h *purchaseOrderHandler) convertToBill(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("po_id", c.Param("id")))

	po, bill, err := h.orderService.ConvertToBill(c.Request.Context(), c.Param("id"), middleware.ActorID(c))
	if err != nil {
		respondError(c, logger, err, "Failed to convert purchase order")
		return
	}

	logger.Info("Purchase order converted", slog.String("bill_id", bill.BillID))
	c.JSON(http.StatusCreated, dto.ConvertToBillResponse{PurchaseOrder: *po, Bill: *bill})
}

// cancelOrder godoc
// @Summary Cancel a purchase order
// @Tags purchase-orders
// @Produce  json
// @Param   id path string true "Purchase order ID"
// @Success 200 {object} domain.PurchaseOrder
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Purchase order not found"
// @Failure 409 {object} map[string]string "Order already cancelled"
// @Failure 500 {object} map[string]string "Failed to cancel purchase order"
// @Security BearerAuth
// @Router /purchase-orders/{id}/cancel [post]
func (h *purchaseOrderHandler) cancelOrder(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("po_id", c.Param("id")))

	po, err := h.orderService.CancelPurchaseOrder(c.Request.Context(), c.Param("id"), middleware.ActorID(c))
	if err != nil {
		respondError(c, logger, err, "Failed to cancel purchase order")
		return
	}

	logger.Info("Purchase order cancelled")
	c.JSON(http.StatusOK, po)
}
