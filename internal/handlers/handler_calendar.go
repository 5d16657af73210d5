package handlers

import (
	"errors"
	"net/http"

	"github.com/MKH354/hutangku/internal/apperrors"
	portssvc "github.com/MKH354/hutangku/internal/core/ports/services"
	"github.com/MKH354/hutangku/internal/dto"
	"github.com/gin-gonic/gin"
)

// calendarHandler serves ICS exports of upcoming due dates.
type calendarHandler struct {
	calendarService portssvc.CalendarSvcFacade
}

// newCalendarHandler creates a new calendarHandler.
func newCalendarHandler(cs portssvc.CalendarSvcFacade) *calendarHandler {
	return &calendarHandler{
		calendarService: cs,
	}
}

// registerCalendarRoutes registers the ICS export routes.
func registerCalendarRoutes(rg *gin.RouterGroup, calendarService portssvc.CalendarSvcFacade) {
	h := newCalendarHandler(calendarService)

	rg.GET("/calendar.ics", h.exportAll)
	rg.GET("/debts/:debtID/calendar.ics", h.exportDebt)
	rg.GET("/installments/:planID/calendar.ics", h.exportInstallment)
}

// serveCalendar writes an ICS export as a file download. A ledger or record
// with nothing left to remind is not an error; it is an empty 204.
func serveCalendar(c *gin.Context, export *dto.CalendarExport, err error, action string) {
	if err != nil {
		if errors.Is(err, apperrors.ErrNothingToExport) {
			c.Status(http.StatusNoContent)
			return
		}
		respondError(c, err, action)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+export.Filename+`"`)
	c.Data(http.StatusOK, "text/calendar; charset=utf-8", export.Content)
}

// exportAll godoc
// @Summary Export all upcoming due dates as an ICS calendar
// @Tags calendar
// @Produce text/calendar
// @Param syncKey path string true "Sync key"
// @Success 200 {file} file
// @Success 204 "Nothing to export"
// @Router /ledgers/{syncKey}/calendar.ics [get]
func (h *calendarHandler) exportAll(c *gin.Context) {
	export, err := h.calendarService.ExportAll(c.Request.Context(), c.Param("syncKey"))
	serveCalendar(c, export, err, "export calendar")
}

// exportDebt godoc
// @Summary Export the reminder for one debt as an ICS calendar
// @Tags calendar
// @Produce text/calendar
// @Param syncKey path string true "Sync key"
// @Param debtID path string true "Debt ID"
// @Success 200 {file} file
// @Success 204 "Nothing to export"
// @Router /ledgers/{syncKey}/debts/{debtID}/calendar.ics [get]
func (h *calendarHandler) exportDebt(c *gin.Context) {
	export, err := h.calendarService.ExportDebt(c.Request.Context(), c.Param("syncKey"), c.Param("debtID"))
	serveCalendar(c, export, err, "export debt calendar")
}

// exportInstallment godoc
// @Summary Export the recurring reminder for one plan as an ICS calendar
// @Tags calendar
// @Produce text/calendar
// @Param syncKey path string true "Sync key"
// @Param planID path string true "Plan ID"
// @Success 200 {file} file
// @Success 204 "Nothing to export"
// @Router /ledgers/{syncKey}/installments/{planID}/calendar.ics [get]
func (h *calendarHandler) exportInstallment(c *gin.Context) {
	export, err := h.calendarService.ExportInstallment(c.Request.Context(), c.Param("syncKey"), c.Param("planID"))
	serveCalendar(c, export, err, "export installment calendar")
}
