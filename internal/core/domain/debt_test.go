package domain_test

import (
	"testing"
	"time"

	"github.com/MKH354/hutangku/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func newDebt(amount int64) domain.DebtRecord {
	return domain.DebtRecord{
		DebtID: "debt-1",
		Name:   "Budi",
		Amount: decimal.NewFromInt(amount),
		Status: domain.DebtUnpaid,
	}
}

func pay(id string, amount int64) domain.PaymentEntry {
	return domain.PaymentEntry{
		PaymentID: id,
		Amount:    decimal.NewFromInt(amount),
		Date:      domain.NewDate(2024, time.June, 10),
	}
}

func TestDebtPaidAmountAndRemaining(t *testing.T) {
	d := newDebt(500000)
	d.Payments = []domain.PaymentEntry{pay("p1", 200000)}

	assert.True(t, d.PaidAmount().Equal(decimal.NewFromInt(200000)))
	assert.True(t, d.Remaining().Equal(decimal.NewFromInt(300000)))
	assert.InDelta(t, 40.0, d.PaidPercent(), 0.001)
}

func TestDebtRemainingFlooredAtZero(t *testing.T) {
	d := newDebt(100)
	d.Payments = []domain.PaymentEntry{pay("p1", 250)}

	assert.True(t, d.Remaining().IsZero())
	assert.Equal(t, 100.0, d.PaidPercent())
}

func TestDebtRecomputeStatusThreshold(t *testing.T) {
	d := newDebt(500000)

	d.Payments = append(d.Payments, pay("p1", 200000))
	d.RecomputeStatus()
	assert.Equal(t, domain.DebtUnpaid, d.Status)

	d.Payments = append(d.Payments, pay("p2", 300000))
	d.RecomputeStatus()
	assert.Equal(t, domain.DebtPaid, d.Status)
}

func TestDebtRemovePaymentRestoresPreviousState(t *testing.T) {
	d := newDebt(500000)
	d.Payments = append(d.Payments, pay("p1", 200000))
	d.RecomputeStatus()
	before := d.PaidAmount()
	beforeStatus := d.Status

	d.Payments = append(d.Payments, pay("p2", 300000))
	d.RecomputeStatus()
	assert.Equal(t, domain.DebtPaid, d.Status)

	removed := d.RemovePayment("p2")
	assert.True(t, removed)
	assert.True(t, d.PaidAmount().Equal(before))
	assert.Equal(t, beforeStatus, d.Status)
}

func TestDebtRemovePaymentAbsentIsNoOp(t *testing.T) {
	d := newDebt(100)
	d.Payments = append(d.Payments, pay("p1", 100))
	d.RecomputeStatus()

	removed := d.RemovePayment("nope")
	assert.False(t, removed)
	assert.Len(t, d.Payments, 1)
	assert.Equal(t, domain.DebtPaid, d.Status)
}

func TestDebtUpgradeStatusNeverDemotes(t *testing.T) {
	d := newDebt(500000)
	d.Status = domain.DebtPaid // manual override, no payments at all

	d.UpgradeStatus()
	assert.Equal(t, domain.DebtPaid, d.Status, "edit must not demote a manual paid status")

	// But it does promote when payments now cover a lowered amount.
	d2 := newDebt(500000)
	d2.Payments = append(d2.Payments, pay("p1", 300000))
	d2.Amount = decimal.NewFromInt(250000)
	d2.UpgradeStatus()
	assert.Equal(t, domain.DebtPaid, d2.Status)
}

func TestDebtToggleStatusIgnoresPayments(t *testing.T) {
	d := newDebt(500000)
	d.ToggleStatus()
	assert.Equal(t, domain.DebtPaid, d.Status)
	d.ToggleStatus()
	assert.Equal(t, domain.DebtUnpaid, d.Status)
}

func TestDebtIsOverdue(t *testing.T) {
	now := time.Date(2024, time.June, 26, 15, 0, 0, 0, time.UTC)

	d := newDebt(100)
	assert.False(t, d.IsOverdue(now), "no due date")

	d.DueDate = domain.NewDate(2024, time.June, 25)
	assert.True(t, d.IsOverdue(now))

	d.Status = domain.DebtPaid
	assert.False(t, d.IsOverdue(now), "paid debts are never overdue")

	d.Status = domain.DebtUnpaid
	d.DueDate = domain.NewDate(2024, time.June, 26)
	assert.False(t, d.IsOverdue(now), "due today is not overdue")
}

func TestLedgerCloneDoesNotAlias(t *testing.T) {
	l := domain.Ledger{}
	d := newDebt(100)
	d.Payments = []domain.PaymentEntry{pay("p1", 50)}
	l.PrependDebt(d)

	c := l.Clone()
	c.Debts[0].Payments[0].Amount = decimal.NewFromInt(999)
	c.Debts[0].Name = "changed"

	assert.True(t, l.Debts[0].Payments[0].Amount.Equal(decimal.NewFromInt(50)))
	assert.Equal(t, "Budi", l.Debts[0].Name)
}

func TestLedgerPrependKeepsNewestFirst(t *testing.T) {
	l := domain.Ledger{}
	first := newDebt(1)
	first.DebtID = "a"
	second := newDebt(2)
	second.DebtID = "b"

	l.PrependDebt(first)
	l.PrependDebt(second)

	assert.Equal(t, "b", l.Debts[0].DebtID)
	assert.Equal(t, "a", l.Debts[1].DebtID)
}
