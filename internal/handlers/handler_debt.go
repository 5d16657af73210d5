package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/MKH354/hutangku/internal/apperrors"
	portssvc "github.com/MKH354/hutangku/internal/core/ports/services"
	"github.com/MKH354/hutangku/internal/dto"
	"github.com/MKH354/hutangku/internal/middleware"
	"github.com/gin-gonic/gin"
)

// debtHandler handles HTTP requests related to debt records.
type debtHandler struct {
	ledgerService portssvc.LedgerSvcFacade
}

// newDebtHandler creates a new debtHandler.
func newDebtHandler(ls portssvc.LedgerSvcFacade) *debtHandler {
	return &debtHandler{
		ledgerService: ls,
	}
}

// registerDebtRoutes registers routes related to debt records.
func registerDebtRoutes(rg *gin.RouterGroup, ledgerService portssvc.LedgerSvcFacade) {
	h := newDebtHandler(ledgerService)

	debts := rg.Group("/debts")
	{
		debts.POST("", h.createDebt)
		debts.GET("", h.listDebts)
		debts.GET("/:debtID", h.getDebt)
		debts.PUT("/:debtID", h.updateDebt)
		debts.DELETE("/:debtID", h.deleteDebt)
		debts.POST("/:debtID/toggle", h.toggleDebtStatus)
		debts.POST("/:debtID/payments", h.addPayment)
		debts.DELETE("/:debtID/payments/:paymentID", h.removePayment)
	}
}

// respondError maps service errors onto HTTP statuses. Every handler funnels
// its error path through here so the mapping stays uniform.
func respondError(c *gin.Context, err error, action string) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	switch {
	case errors.Is(err, apperrors.ErrValidation):
		logger.Warn("Validation error", slog.String("action", action), slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrNotFound):
		logger.Warn("Record not found", slog.String("action", action), slog.String("error", err.Error()))
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	default:
		logger.Error("Unexpected error", slog.String("action", action), slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to " + action})
	}
}

// createDebt godoc
// @Summary Record a new debt
// @Tags debts
// @Accept json
// @Produce json
// @Param syncKey path string true "Sync key"
// @Param debt body dto.CreateDebtRequest true "Debt details"
// @Success 201 {object} dto.DebtResponse
// @Router /ledgers/{syncKey}/debts [post]
func (h *debtHandler) createDebt(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateDebtRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for createDebt", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	debt, syncWarn, err := h.ledgerService.AddDebt(c.Request.Context(), c.Param("syncKey"), req)
	if err != nil {
		respondError(c, err, "create debt")
		return
	}

	c.JSON(http.StatusCreated, dto.ToDebtResponse(debt, time.Now(), syncWarn))
}

// listDebts godoc
// @Summary List debt records, newest first
// @Tags debts
// @Produce json
// @Param syncKey path string true "Sync key"
// @Success 200 {array} dto.DebtResponse
// @Router /ledgers/{syncKey}/debts [get]
func (h *debtHandler) listDebts(c *gin.Context) {
	debts, err := h.ledgerService.ListDebts(c.Request.Context(), c.Param("syncKey"))
	if err != nil {
		respondError(c, err, "list debts")
		return
	}

	c.JSON(http.StatusOK, dto.ToDebtResponses(debts, time.Now()))
}

// getDebt godoc
// @Summary Get one debt record
// @Tags debts
// @Produce json
// @Param syncKey path string true "Sync key"
// @Param debtID path string true "Debt ID"
// @Success 200 {object} dto.DebtResponse
// @Router /ledgers/{syncKey}/debts/{debtID} [get]
func (h *debtHandler) getDebt(c *gin.Context) {
	debt, err := h.ledgerService.GetDebt(c.Request.Context(), c.Param("syncKey"), c.Param("debtID"))
	if err != nil {
		respondError(c, err, "get debt")
		return
	}

	c.JSON(http.StatusOK, dto.ToDebtResponse(debt, time.Now(), false))
}

// updateDebt godoc
// @Summary Update a debt record
// @Tags debts
// @Accept json
// @Produce json
// @Param syncKey path string true "Sync key"
// @Param debtID path string true "Debt ID"
// @Param debt body dto.UpdateDebtRequest true "Debt details"
// @Success 200 {object} dto.DebtResponse
// @Router /ledgers/{syncKey}/debts/{debtID} [put]
func (h *debtHandler) updateDebt(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.UpdateDebtRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for updateDebt", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	debt, syncWarn, err := h.ledgerService.EditDebt(c.Request.Context(), c.Param("syncKey"), c.Param("debtID"), req)
	if err != nil {
		respondError(c, err, "update debt")
		return
	}

	c.JSON(http.StatusOK, dto.ToDebtResponse(debt, time.Now(), syncWarn))
}

// deleteDebt godoc
// @Summary Delete a debt record and its payments
// @Tags debts
// @Produce json
// @Param syncKey path string true "Sync key"
// @Param debtID path string true "Debt ID"
// @Success 204 "No Content"
// @Router /ledgers/{syncKey}/debts/{debtID} [delete]
func (h *debtHandler) deleteDebt(c *gin.Context) {
	syncWarn, err := h.ledgerService.DeleteDebt(c.Request.Context(), c.Param("syncKey"), c.Param("debtID"))
	if err != nil {
		respondError(c, err, "delete debt")
		return
	}
	if syncWarn {
		c.JSON(http.StatusOK, gin.H{"syncWarning": true})
		return
	}

	c.Status(http.StatusNoContent)
}

// toggleDebtStatus godoc
// @Summary Manually flip a debt between unpaid and paid
// @Tags debts
// @Produce json
// @Param syncKey path string true "Sync key"
// @Param debtID path string true "Debt ID"
// @Success 200 {object} dto.DebtResponse
// @Router /ledgers/{syncKey}/debts/{debtID}/toggle [post]
func (h *debtHandler) toggleDebtStatus(c *gin.Context) {
	debt, syncWarn, err := h.ledgerService.ToggleDebtStatus(c.Request.Context(), c.Param("syncKey"), c.Param("debtID"))
	if err != nil {
		respondError(c, err, "toggle debt status")
		return
	}

	c.JSON(http.StatusOK, dto.ToDebtResponse(debt, time.Now(), syncWarn))
}

// addPayment godoc
// @Summary Record a partial payment against a debt
// @Tags debts
// @Accept json
// @Produce json
// @Param syncKey path string true "Sync key"
// @Param debtID path string true "Debt ID"
// @Param payment body dto.AddPaymentRequest true "Payment details"
// @Success 200 {object} dto.DebtResponse
// @Router /ledgers/{syncKey}/debts/{debtID}/payments [post]
func (h *debtHandler) addPayment(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.AddPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for addPayment", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	debt, syncWarn, err := h.ledgerService.AddDebtPayment(c.Request.Context(), c.Param("syncKey"), c.Param("debtID"), req)
	if err != nil {
		respondError(c, err, "add debt payment")
		return
	}

	c.JSON(http.StatusOK, dto.ToDebtResponse(debt, time.Now(), syncWarn))
}

// removePayment godoc
// @Summary Remove a recorded payment from a debt
// @Tags debts
// @Produce json
// @Param syncKey path string true "Sync key"
// @Param debtID path string true "Debt ID"
// @Param paymentID path string true "Payment ID"
// @Success 200 {object} dto.DebtResponse
// @Router /ledgers/{syncKey}/debts/{debtID}/payments/{paymentID} [delete]
func (h *debtHandler) removePayment(c *gin.Context) {
	debt, syncWarn, err := h.ledgerService.RemoveDebtPayment(c.Request.Context(), c.Param("syncKey"), c.Param("debtID"), c.Param("paymentID"))
	if err != nil {
		respondError(c, err, "remove debt payment")
		return
	}

	c.JSON(http.StatusOK, dto.ToDebtResponse(debt, time.Now(), syncWarn))
}
