package handlers

import (
	"net/http"

	portssvc "github.com/MKH354/hutangku/internal/core/ports/services"
	"github.com/gin-gonic/gin"
)

// reportingHandler serves ledger-wide aggregates.
type reportingHandler struct {
	reportingService portssvc.ReportingSvcFacade
}

// newReportingHandler creates a new reportingHandler.
func newReportingHandler(rs portssvc.ReportingSvcFacade) *reportingHandler {
	return &reportingHandler{
		reportingService: rs,
	}
}

// registerReportingRoutes registers the reporting routes.
func registerReportingRoutes(rg *gin.RouterGroup, reportingService portssvc.ReportingSvcFacade) {
	h := newReportingHandler(reportingService)

	rg.GET("/summary", h.getSummary)
}

// getSummary godoc
// @Summary Get aggregate totals for the whole ledger
// @Tags reporting
// @Produce json
// @Param syncKey path string true "Sync key"
// @Success 200 {object} dto.LedgerSummary
// @Router /ledgers/{syncKey}/summary [get]
func (h *reportingHandler) getSummary(c *gin.Context) {
	summary, err := h.reportingService.Summary(c.Request.Context(), c.Param("syncKey"))
	if err != nil {
		respondError(c, err, "compute ledger summary")
		return
	}

	c.JSON(http.StatusOK, summary)
}
