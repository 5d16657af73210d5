package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// DebtStatus is the settlement state of a debt record.
//
// It is derived from the payment sum after every payment mutation, but the
// user may also flip it manually; a manual override is never "corrected"
// back automatically.
type DebtStatus string

const (
	DebtUnpaid DebtStatus = "unpaid"
	DebtPaid   DebtStatus = "paid"
)

// PaymentEntry is one partial payment recorded against a debt or an
// installment plan. Entries keep insertion order, which is the order the
// user recorded them in, not necessarily the order of their Date fields.
type PaymentEntry struct {
	PaymentID string          `json:"paymentID"`
	Amount    decimal.Decimal `json:"amount"`
	Date      Date            `json:"date"`
	Note      string          `json:"note,omitempty"`
}

// DebtRecord is a one-off owed amount with free-form partial payments.
type DebtRecord struct {
	DebtID      string          `json:"debtID"`
	Name        string          `json:"name"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description,omitempty"`
	Date        Date            `json:"date"`
	DueDate     Date            `json:"dueDate,omitempty"` // zero value means no due date
	Status      DebtStatus      `json:"status"`
	Payments    []PaymentEntry  `json:"payments"`
}

// PaidAmount returns the sum of all recorded payments.
func (d *DebtRecord) PaidAmount() decimal.Decimal {
	sum := decimal.Zero
	for _, p := range d.Payments {
		sum = sum.Add(p.Amount)
	}
	return sum
}

// Remaining returns the outstanding amount, floored at zero.
func (d *DebtRecord) Remaining() decimal.Decimal {
	rem := d.Amount.Sub(d.PaidAmount())
	if rem.IsNegative() {
		return decimal.Zero
	}
	return rem
}

// PaidPercent returns the settlement progress in percent, capped at 100.
func (d *DebtRecord) PaidPercent() float64 {
	if !d.Amount.IsPositive() {
		return 0
	}
	pct, _ := d.PaidAmount().Div(d.Amount).Mul(decimal.NewFromInt(100)).Float64()
	if pct > 100 {
		return 100
	}
	return pct
}

// RecomputeStatus applies the authoritative payment-path rule: paid iff the
// payment sum covers the amount. It runs after every payment add or removal
// and overrides any earlier manual toggle.
func (d *DebtRecord) RecomputeStatus() {
	if d.PaidAmount().GreaterThanOrEqual(d.Amount) {
		d.Status = DebtPaid
	} else {
		d.Status = DebtUnpaid
	}
}

// UpgradeStatus is the edit-time rule: it only promotes unpaid to paid when
// the existing payments now cover the (possibly lowered) amount. It never
// demotes a manually-set paid status.
func (d *DebtRecord) UpgradeStatus() {
	if d.PaidAmount().GreaterThanOrEqual(d.Amount) {
		d.Status = DebtPaid
	}
}

// ToggleStatus flips the status unconditionally, ignoring payment sums.
// This is the user's manual override path.
func (d *DebtRecord) ToggleStatus() {
	if d.Status == DebtPaid {
		d.Status = DebtUnpaid
	} else {
		d.Status = DebtPaid
	}
}

// IsOverdue reports whether the debt has a due date that has passed while
// the debt is still unpaid.
func (d *DebtRecord) IsOverdue(now time.Time) bool {
	return !d.DueDate.IsZero() && d.Status == DebtUnpaid && d.DueDate.Before(DateOf(now))
}

// RemovePayment deletes the payment with the given id, if present, and
// recomputes the status. Removing an absent id is a no-op; the recompute
// still runs. Returns whether an entry was removed.
func (d *DebtRecord) RemovePayment(paymentID string) bool {
	removed := false
	kept := d.Payments[:0]
	for _, p := range d.Payments {
		if p.PaymentID == paymentID {
			removed = true
			continue
		}
		kept = append(kept, p)
	}
	d.Payments = kept
	d.RecomputeStatus()
	return removed
}
