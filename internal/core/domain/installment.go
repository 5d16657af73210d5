package domain

import (
	"github.com/shopspring/decimal"
)

// PlanType classifies an installment plan. It only affects display grouping,
// never behavior.
type PlanType string

const (
	PlanPayLater           PlanType = "paylater"
	PlanMicroloan          PlanType = "microloan"
	PlanMonthlyInstallment PlanType = "monthly_installment"
	PlanCreditLease        PlanType = "credit_lease"
	PlanOther              PlanType = "other"
)

// PlanStatus is the lifecycle state of an installment plan.
//
// The only transitions are active -> done when paidInstallments reaches
// totalInstallments, and done -> active when a payment removal drops it
// below again. There is no manual toggle.
type PlanStatus string

const (
	PlanActive PlanStatus = "active"
	PlanDone   PlanStatus = "done"
)

// InstallmentPlan is a recurring fixed-amount obligation paid in a fixed
// number of monthly periods.
type InstallmentPlan struct {
	PlanID            string          `json:"planID"`
	Name              string          `json:"name"`
	PlanType          PlanType        `json:"planType"`
	TotalAmount       decimal.Decimal `json:"totalAmount"` // zero means derive from installmentAmount x totalInstallments
	InstallmentAmount decimal.Decimal `json:"installmentAmount"`
	TotalInstallments int             `json:"totalInstallments"`
	PaidInstallments  int             `json:"paidInstallments"`
	DueDay            int             `json:"dueDay"` // day of month, 1..31
	StartDate         Date            `json:"startDate"`
	Notes             string          `json:"notes,omitempty"`
	Status            PlanStatus      `json:"status"`
	Payments          []PaymentEntry  `json:"payments"`
}

// EffectiveTotal returns the total principal: the explicit totalAmount when
// set, otherwise installmentAmount x totalInstallments.
func (p *InstallmentPlan) EffectiveTotal() decimal.Decimal {
	if p.TotalAmount.IsPositive() {
		return p.TotalAmount
	}
	return p.InstallmentAmount.Mul(decimal.NewFromInt(int64(p.TotalInstallments)))
}

// RemainingInstallments returns the number of periods still owed, floored
// at zero.
func (p *InstallmentPlan) RemainingInstallments() int {
	rem := p.TotalInstallments - p.PaidInstallments
	if rem < 0 {
		return 0
	}
	return rem
}

// PaidPercent returns the progress in percent of periods paid, capped at 100.
func (p *InstallmentPlan) PaidPercent() float64 {
	if p.TotalInstallments <= 0 {
		return 0
	}
	pct := float64(p.PaidInstallments) / float64(p.TotalInstallments) * 100
	if pct > 100 {
		return 100
	}
	return pct
}

// RecomputeStatus applies the only status rule a plan has: done exactly when
// paidInstallments has reached totalInstallments.
func (p *InstallmentPlan) RecomputeStatus() {
	if p.PaidInstallments >= p.TotalInstallments {
		p.Status = PlanDone
	} else {
		p.Status = PlanActive
	}
}

// RecordPayment appends one payment entry and advances the paid-period count
// by exactly one, keeping paidInstallments and len(payments) in lockstep.
func (p *InstallmentPlan) RecordPayment(entry PaymentEntry) {
	p.Payments = append(p.Payments, entry)
	p.PaidInstallments++
	p.RecomputeStatus()
}

// RemovePayment deletes the payment with the given id, if present, and
// rewinds the paid-period count by one, floored at zero. Returns whether an
// entry was removed.
func (p *InstallmentPlan) RemovePayment(paymentID string) bool {
	removed := false
	kept := p.Payments[:0]
	for _, e := range p.Payments {
		if e.PaymentID == paymentID {
			removed = true
			continue
		}
		kept = append(kept, e)
	}
	p.Payments = kept
	if removed && p.PaidInstallments > 0 {
		p.PaidInstallments--
	}
	p.RecomputeStatus()
	return removed
}
