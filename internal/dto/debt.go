package dto

import (
	"time"

	"github.com/MKH354/hutangku/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateDebtRequest defines the data needed to record a new debt.
type CreateDebtRequest struct {
	Name        string            `json:"name" binding:"required"`
	Amount      decimal.Decimal   `json:"amount" binding:"required"`
	Description string            `json:"description"`
	Date        domain.Date       `json:"date"`              // defaults to today when absent
	DueDate     domain.Date       `json:"dueDate"`           // optional
	Status      domain.DebtStatus `json:"status" binding:"omitempty,oneof=unpaid paid"` // caller may pre-mark as paid
}

// UpdateDebtRequest mirrors the edit form: the full record is resubmitted.
// Payments are never part of an edit; they survive untouched.
type UpdateDebtRequest struct {
	Name        string          `json:"name" binding:"required"`
	Amount      decimal.Decimal `json:"amount" binding:"required"`
	Description string          `json:"description"`
	Date        domain.Date     `json:"date"`
	DueDate     domain.Date     `json:"dueDate"`
}

// AddPaymentRequest records one partial payment against a debt or one period
// payment against an installment plan.
type AddPaymentRequest struct {
	Amount decimal.Decimal `json:"amount" binding:"required"`
	Date   domain.Date     `json:"date"` // defaults to today, may be backdated
	Note   string          `json:"note"`
}

// PaymentResponse is one recorded payment.
type PaymentResponse struct {
	PaymentID string          `json:"paymentID"`
	Amount    decimal.Decimal `json:"amount"`
	Date      domain.Date     `json:"date"`
	Note      string          `json:"note,omitempty"`
}

// DebtResponse is a debt record with its derived metrics.
type DebtResponse struct {
	DebtID      string            `json:"debtID"`
	Name        string            `json:"name"`
	Amount      decimal.Decimal   `json:"amount"`
	Description string            `json:"description,omitempty"`
	Date        domain.Date       `json:"date"`
	DueDate     domain.Date       `json:"dueDate,omitempty"`
	Status      domain.DebtStatus `json:"status"`
	PaidAmount  decimal.Decimal   `json:"paidAmount"`
	Remaining   decimal.Decimal   `json:"remaining"`
	PaidPercent float64           `json:"paidPercent"`
	Overdue     bool              `json:"overdue"`
	Payments    []PaymentResponse `json:"payments"`

	// SyncWarning is set when the mutation applied in memory but the durable
	// write to the remote store failed. The caller may retry manually.
	SyncWarning bool `json:"syncWarning,omitempty"`
}

// ToPaymentResponses converts domain payment entries.
func ToPaymentResponses(entries []domain.PaymentEntry) []PaymentResponse {
	out := make([]PaymentResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, PaymentResponse{
			PaymentID: e.PaymentID,
			Amount:    e.Amount,
			Date:      e.Date,
			Note:      e.Note,
		})
	}
	return out
}

// ToDebtResponse converts a domain.DebtRecord plus current time into its
// response shape.
func ToDebtResponse(d *domain.DebtRecord, now time.Time, syncWarning bool) DebtResponse {
	return DebtResponse{
		DebtID:      d.DebtID,
		Name:        d.Name,
		Amount:      d.Amount,
		Description: d.Description,
		Date:        d.Date,
		DueDate:     d.DueDate,
		Status:      d.Status,
		PaidAmount:  d.PaidAmount(),
		Remaining:   d.Remaining(),
		PaidPercent: d.PaidPercent(),
		Overdue:     d.IsOverdue(now),
		Payments:    ToPaymentResponses(d.Payments),
		SyncWarning: syncWarning,
	}
}

// ToDebtResponses converts a list of records, newest first.
func ToDebtResponses(debts []domain.DebtRecord, now time.Time) []DebtResponse {
	out := make([]DebtResponse, 0, len(debts))
	for i := range debts {
		out = append(out, ToDebtResponse(&debts[i], now, false))
	}
	return out
}
