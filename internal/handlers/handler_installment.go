package handlers

import (
	"log/slog"
	"net/http"
	"time"

	portssvc "github.com/MKH354/hutangku/internal/core/ports/services"
	"github.com/MKH354/hutangku/internal/dto"
	"github.com/MKH354/hutangku/internal/middleware"
	"github.com/gin-gonic/gin"
)

// installmentHandler handles HTTP requests related to installment plans.
type installmentHandler struct {
	ledgerService   portssvc.LedgerSvcFacade
	calendarService portssvc.CalendarSvcFacade
}

// newInstallmentHandler creates a new installmentHandler.
func newInstallmentHandler(ls portssvc.LedgerSvcFacade, cs portssvc.CalendarSvcFacade) *installmentHandler {
	return &installmentHandler{
		ledgerService:   ls,
		calendarService: cs,
	}
}

// registerInstallmentRoutes registers routes related to installment plans.
func registerInstallmentRoutes(rg *gin.RouterGroup, ledgerService portssvc.LedgerSvcFacade, calendarService portssvc.CalendarSvcFacade) {
	h := newInstallmentHandler(ledgerService, calendarService)

	installments := rg.Group("/installments")
	{
		installments.POST("", h.createPlan)
		installments.GET("", h.listPlans)
		installments.GET("/:planID", h.getPlan)
		installments.PUT("/:planID", h.updatePlan)
		installments.DELETE("/:planID", h.deletePlan)
		installments.POST("/:planID/payments", h.payInstallment)
		installments.DELETE("/:planID/payments/:paymentID", h.removePayment)
		installments.GET("/:planID/next-due", h.nextDueDate)
	}
}

// createPlan godoc
// @Summary Register a new installment plan
// @Tags installments
// @Accept json
// @Produce json
// @Param syncKey path string true "Sync key"
// @Param plan body dto.CreateInstallmentPlanRequest true "Plan details"
// @Success 201 {object} dto.InstallmentPlanResponse
// @Router /ledgers/{syncKey}/installments [post]
func (h *installmentHandler) createPlan(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateInstallmentPlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for createPlan", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	plan, syncWarn, err := h.ledgerService.AddInstallmentPlan(c.Request.Context(), c.Param("syncKey"), req)
	if err != nil {
		respondError(c, err, "create installment plan")
		return
	}

	c.JSON(http.StatusCreated, dto.ToInstallmentPlanResponse(plan, time.Now(), syncWarn))
}

// listPlans godoc
// @Summary List installment plans, newest first
// @Tags installments
// @Produce json
// @Param syncKey path string true "Sync key"
// @Success 200 {array} dto.InstallmentPlanResponse
// @Router /ledgers/{syncKey}/installments [get]
func (h *installmentHandler) listPlans(c *gin.Context) {
	plans, err := h.ledgerService.ListInstallmentPlans(c.Request.Context(), c.Param("syncKey"))
	if err != nil {
		respondError(c, err, "list installment plans")
		return
	}

	c.JSON(http.StatusOK, dto.ToInstallmentPlanResponses(plans, time.Now()))
}

// getPlan godoc
// @Summary Get one installment plan
// @Tags installments
// @Produce json
// @Param syncKey path string true "Sync key"
// @Param planID path string true "Plan ID"
// @Success 200 {object} dto.InstallmentPlanResponse
// @Router /ledgers/{syncKey}/installments/{planID} [get]
func (h *installmentHandler) getPlan(c *gin.Context) {
	plan, err := h.ledgerService.GetInstallmentPlan(c.Request.Context(), c.Param("syncKey"), c.Param("planID"))
	if err != nil {
		respondError(c, err, "get installment plan")
		return
	}

	c.JSON(http.StatusOK, dto.ToInstallmentPlanResponse(plan, time.Now(), false))
}

// updatePlan godoc
// @Summary Update an installment plan
// @Tags installments
// @Accept json
// @Produce json
// @Param syncKey path string true "Sync key"
// @Param planID path string true "Plan ID"
// @Param plan body dto.UpdateInstallmentPlanRequest true "Plan details"
// @Success 200 {object} dto.InstallmentPlanResponse
// @Router /ledgers/{syncKey}/installments/{planID} [put]
func (h *installmentHandler) updatePlan(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.UpdateInstallmentPlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for updatePlan", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	plan, syncWarn, err := h.ledgerService.EditInstallmentPlan(c.Request.Context(), c.Param("syncKey"), c.Param("planID"), req)
	if err != nil {
		respondError(c, err, "update installment plan")
		return
	}

	c.JSON(http.StatusOK, dto.ToInstallmentPlanResponse(plan, time.Now(), syncWarn))
}

// deletePlan godoc
// @Summary Delete an installment plan and its payments
// @Tags installments
// @Produce json
// @Param syncKey path string true "Sync key"
// @Param planID path string true "Plan ID"
// @Success 204 "No Content"
// @Router /ledgers/{syncKey}/installments/{planID} [delete]
func (h *installmentHandler) deletePlan(c *gin.Context) {
	syncWarn, err := h.ledgerService.DeleteInstallmentPlan(c.Request.Context(), c.Param("syncKey"), c.Param("planID"))
	if err != nil {
		respondError(c, err, "delete installment plan")
		return
	}
	if syncWarn {
		c.JSON(http.StatusOK, gin.H{"syncWarning": true})
		return
	}

	c.Status(http.StatusNoContent)
}

// payInstallment godoc
// @Summary Record payment of one installment period
// @Tags installments
// @Accept json
// @Produce json
// @Param syncKey path string true "Sync key"
// @Param planID path string true "Plan ID"
// @Param payment body dto.AddPaymentRequest true "Payment details"
// @Success 200 {object} dto.InstallmentPlanResponse
// @Router /ledgers/{syncKey}/installments/{planID}/payments [post]
func (h *installmentHandler) payInstallment(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.AddPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for payInstallment", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	plan, syncWarn, err := h.ledgerService.PayInstallment(c.Request.Context(), c.Param("syncKey"), c.Param("planID"), req)
	if err != nil {
		respondError(c, err, "pay installment")
		return
	}

	c.JSON(http.StatusOK, dto.ToInstallmentPlanResponse(plan, time.Now(), syncWarn))
}

// removePayment godoc
// @Summary Remove a recorded installment payment
// @Tags installments
// @Produce json
// @Param syncKey path string true "Sync key"
// @Param planID path string true "Plan ID"
// @Param paymentID path string true "Payment ID"
// @Success 200 {object} dto.InstallmentPlanResponse
// @Router /ledgers/{syncKey}/installments/{planID}/payments/{paymentID} [delete]
func (h *installmentHandler) removePayment(c *gin.Context) {
	plan, syncWarn, err := h.ledgerService.RemoveInstallmentPayment(c.Request.Context(), c.Param("syncKey"), c.Param("planID"), c.Param("paymentID"))
	if err != nil {
		respondError(c, err, "remove installment payment")
		return
	}

	c.JSON(http.StatusOK, dto.ToInstallmentPlanResponse(plan, time.Now(), syncWarn))
}

// nextDueDate godoc
// @Summary Get the next due date of an installment plan
// @Tags installments
// @Produce json
// @Param syncKey path string true "Sync key"
// @Param planID path string true "Plan ID"
// @Success 200 {object} dto.NextDueResponse
// @Router /ledgers/{syncKey}/installments/{planID}/next-due [get]
func (h *installmentHandler) nextDueDate(c *gin.Context) {
	resp, err := h.calendarService.NextDueDate(c.Request.Context(), c.Param("syncKey"), c.Param("planID"))
	if err != nil {
		respondError(c, err, "compute next due date")
		return
	}

	c.JSON(http.StatusOK, resp)
}
