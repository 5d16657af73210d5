package dto

import (
	"time"

	"github.com/MKH354/hutangku/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateInstallmentPlanRequest defines the data needed to register a plan.
// PaidInstallments may be non-zero to import a plan that is already partway
// paid.
type CreateInstallmentPlanRequest struct {
	Name              string          `json:"name" binding:"required"`
	PlanType          domain.PlanType `json:"planType" binding:"omitempty,oneof=paylater microloan monthly_installment credit_lease other"`
	TotalAmount       decimal.Decimal `json:"totalAmount"` // optional, derived when zero
	InstallmentAmount decimal.Decimal `json:"installmentAmount" binding:"required"`
	TotalInstallments int             `json:"totalInstallments" binding:"required,gt=0"`
	PaidInstallments  int             `json:"paidInstallments" binding:"gte=0"`
	DueDay            int             `json:"dueDay" binding:"required,dueday"`
	StartDate         domain.Date     `json:"startDate"`
	Notes             string          `json:"notes"`
}

// UpdateInstallmentPlanRequest resubmits the editable fields of a plan.
// PaidInstallments is a pointer: supplying it on a plan that already has
// recorded payment entries is rejected, so the paid count and the payment
// list can never desynchronize.
type UpdateInstallmentPlanRequest struct {
	Name              string          `json:"name" binding:"required"`
	PlanType          domain.PlanType `json:"planType" binding:"omitempty,oneof=paylater microloan monthly_installment credit_lease other"`
	TotalAmount       decimal.Decimal `json:"totalAmount"`
	InstallmentAmount decimal.Decimal `json:"installmentAmount" binding:"required"`
	TotalInstallments int             `json:"totalInstallments" binding:"required,gt=0"`
	PaidInstallments  *int            `json:"paidInstallments" binding:"omitempty,gte=0"`
	DueDay            int             `json:"dueDay" binding:"required,dueday"`
	StartDate         domain.Date     `json:"startDate"`
	Notes             string          `json:"notes"`
}

// InstallmentPlanResponse is a plan with its derived metrics.
type InstallmentPlanResponse struct {
	PlanID                string            `json:"planID"`
	Name                  string            `json:"name"`
	PlanType              domain.PlanType   `json:"planType"`
	TotalAmount           decimal.Decimal   `json:"totalAmount"`
	InstallmentAmount     decimal.Decimal   `json:"installmentAmount"`
	TotalInstallments     int               `json:"totalInstallments"`
	PaidInstallments      int               `json:"paidInstallments"`
	RemainingInstallments int               `json:"remainingInstallments"`
	DueDay                int               `json:"dueDay"`
	StartDate             domain.Date       `json:"startDate"`
	Notes                 string            `json:"notes,omitempty"`
	Status                domain.PlanStatus `json:"status"`
	PaidPercent           float64           `json:"paidPercent"`
	NextDueDate           domain.Date       `json:"nextDueDate,omitempty"` // empty when done
	DaysUntilDue          *int              `json:"daysUntilDue,omitempty"`
	Payments              []PaymentResponse `json:"payments"`

	SyncWarning bool `json:"syncWarning,omitempty"`
}

// NextDueResponse answers the "when is the next period due" question for a
// single plan.
type NextDueResponse struct {
	PlanID       string      `json:"planID"`
	NextDueDate  domain.Date `json:"nextDueDate"`
	DaysUntilDue int         `json:"daysUntilDue"`
}

// ToInstallmentPlanResponse converts a domain plan plus current time into
// its response shape.
func ToInstallmentPlanResponse(p *domain.InstallmentPlan, now time.Time, syncWarning bool) InstallmentPlanResponse {
	resp := InstallmentPlanResponse{
		PlanID:                p.PlanID,
		Name:                  p.Name,
		PlanType:              p.PlanType,
		TotalAmount:           p.EffectiveTotal(),
		InstallmentAmount:     p.InstallmentAmount,
		TotalInstallments:     p.TotalInstallments,
		PaidInstallments:      p.PaidInstallments,
		RemainingInstallments: p.RemainingInstallments(),
		DueDay:                p.DueDay,
		StartDate:             p.StartDate,
		Notes:                 p.Notes,
		Status:                p.Status,
		PaidPercent:           p.PaidPercent(),
		Payments:              ToPaymentResponses(p.Payments),
		SyncWarning:           syncWarning,
	}
	if p.Status == domain.PlanActive && p.RemainingInstallments() > 0 {
		next := domain.NextInstallmentDueDate(p, now)
		days := domain.DaysUntil(next, now)
		resp.NextDueDate = next
		resp.DaysUntilDue = &days
	}
	return resp
}

// ToInstallmentPlanResponses converts a list of plans, newest first.
func ToInstallmentPlanResponses(plans []domain.InstallmentPlan, now time.Time) []InstallmentPlanResponse {
	out := make([]InstallmentPlanResponse, 0, len(plans))
	for i := range plans {
		out = append(out, ToInstallmentPlanResponse(&plans[i], now, false))
	}
	return out
}
