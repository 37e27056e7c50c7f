package handlers

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/SscSPs/invoicing_app/internal/core/domain"
	portssvc "github.com/SscSPs/invoicing_app/internal/core/ports/services"
	"github.com/SscSPs/invoicing_app/internal/dto"
	"github.com/SscSPs/invoicing_app/internal/middleware"
)

const queryDateLayout = "2006-01-02"

// reportingHandler handles HTTP requests related to financial reports
type reportingHandler struct {
	reportingService portssvc.ReportingService
}

// newReportingHandler creates a new reportingHandler
func newReportingHandler(rs portssvc.ReportingService) *reportingHandler {
	return &reportingHandler{
		reportingService: rs,
	}
}

// registerReportingRoutes registers routes related to financial reports
func registerReportingRoutes(rg *gin.RouterGroup, reportingService portssvc.ReportingService) {
	h := newReportingHandler(reportingService)

	reportingGroup := rg.Group("/reports")
	{
		reportingGroup.GET("/trial-balance", h.getTrialBalance)
		reportingGroup.GET("/profit-and-loss", h.getProfitAndLoss)
		reportingGroup.GET("/balance-sheet", h.getBalanceSheet)
		reportingGroup.GET("/partner-ledger/:contact_id", h.getPartnerLedger)
	}
}

// optionalDate parses an optional YYYY-MM-DD query parameter. It writes a 400
// and returns false when the value is malformed.
func optionalDate(c *gin.Context, logger *slog.Logger, name string) (*time.Time, bool) {
	raw := c.Query(name)
	if raw == "" {
		return nil, true
	}
	t, err := time.Parse(queryDateLayout, raw)
	if err != nil {
		logger.Warn("Invalid date format", slog.String(name, raw), slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid " + name + " date format. Use YYYY-MM-DD"})
		return nil, false
	}
	return &t, true
}

// getTrialBalance godoc
// @Summary Generate trial balance report
// @Description Lists debit and credit totals per account. Without as_of every posted line is included.
// @Tags reports
// @Produce json
// @Param as_of query string false "Report date (YYYY-MM-DD)"
// @Success 200 {object} dto.TrialBalanceResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to generate report"
// @Security BearerAuth
// @Router /reports/trial-balance [get]
func (h *reportingHandler) getTrialBalance(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	asOf, ok := optionalDate(c, logger, "as_of")
	if !ok {
		return
	}

	report, err := h.reportingService.TrialBalance(c.Request.Context(), asOf)
	if err != nil {
		respondError(c, logger, err, "Failed to generate trial balance report")
		return
	}

	logger.Info("Trial balance report generated successfully", slog.Int("row_count", len(report.Rows)))
	c.JSON(http.StatusOK, dto.ToTrialBalanceResponse(report))
}

// getProfitAndLoss godoc
// @Summary Generate profit and loss report
// @Description Income and expense for a period. With fallback_all_time an empty period is reported over all time and flagged.
// @Tags reports
// @Produce json
// @Param from query string false "Start date (YYYY-MM-DD)" default(first day of current month)
// @Param to query string false "End date (YYYY-MM-DD)" default(current date)
// @Param fallback_all_time query bool false "Report all time when the period has no lines"
// @Success 200 {object} dto.ProfitAndLossResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to generate report"
// @Security BearerAuth
// @Router /reports/profit-and-loss [get]
func (h *reportingHandler) getProfitAndLoss(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	now := time.Now().UTC()
	from := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	if f, ok := optionalDate(c, logger, "from"); !ok {
		return
	} else if f != nil {
		from = *f
	}
	if t, ok := optionalDate(c, logger, "to"); !ok {
		return
	} else if t != nil {
		to = *t
	}

	fallback := false
	if raw := c.Query("fallback_all_time"); raw != "" {
		parsed, err := strconv.ParseBool(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "fallback_all_time must be a boolean"})
			return
		}
		fallback = parsed
	}

	logger = logger.With(slog.String("from", from.Format(queryDateLayout)), slog.String("to", to.Format(queryDateLayout)))

	report, err := h.reportingService.ProfitAndLoss(c.Request.Context(), from, to, fallback)
	if err != nil {
		respondError(c, logger, err, "Failed to generate profit and loss report")
		return
	}

	logger.Info("Profit and loss report generated successfully", slog.Bool("all_time", report.UsedAllTimeFallback))
	c.JSON(http.StatusOK, dto.ToProfitAndLossResponse(report))
}

// getBalanceSheet godoc
// @Summary Generate balance sheet report
// @Description Asset, liability and equity balances. Net profit up to as_of is shown as equity.
// @Tags reports
// @Produce json
// @Param as_of query string false "Report date (YYYY-MM-DD)"
// @Success 200 {object} dto.BalanceSheetResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to generate report"
// @Security BearerAuth
// @Router /reports/balance-sheet [get]
func (h *reportingHandler) getBalanceSheet(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	asOf, ok := optionalDate(c, logger, "as_of")
	if !ok {
		return
	}

	report, err := h.reportingService.BalanceSheet(c.Request.Context(), asOf)
	if err != nil {
		respondError(c, logger, err, "Failed to generate balance sheet report")
		return
	}

	c.JSON(http.StatusOK, dto.ToBalanceSheetResponse(report))
}

// getPartnerLedger godoc
// @Summary Generate a partner ledger
// @Description Every posted line tagged with the contact, oldest first, with a running balance.
// @Tags reports
// @Produce json
// @Param contact_id path string true "Contact ID"
// @Success 200 {object} dto.PartnerLedgerResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Contact not found"
// @Failure 500 {object} map[string]string "Failed to generate report"
// @Security BearerAuth
// @Router /reports/partner-ledger/{contact_id} [get]
func (h *reportingHandler) getPartnerLedger(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("contact_id", c.Param("contact_id")))

	ledger, err := h.reportingService.PartnerLedger(c.Request.Context(), domain.Ref{Kind: domain.RefContact, ID: c.Param("contact_id")})
	if err != nil {
		respondError(c, logger, err, "Failed to generate partner ledger")
		return
	}

	c.JSON(http.StatusOK, dto.ToPartnerLedgerResponse(ledger))
}
