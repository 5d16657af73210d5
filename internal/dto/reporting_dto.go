package dto

import "github.com/shopspring/decimal"

// CounterpartyOutstanding is one slice of the per-counterparty exposure
// breakdown: the remaining amount still owed to one name.
type CounterpartyOutstanding struct {
	Name        string          `json:"name"`
	Outstanding decimal.Decimal `json:"outstanding"`
}

// LedgerSummary aggregates the whole ledger for the overview screen.
type LedgerSummary struct {
	TotalDebt        decimal.Decimal `json:"totalDebt"`
	TotalPaid        decimal.Decimal `json:"totalPaid"`
	TotalOutstanding decimal.Decimal `json:"totalOutstanding"`
	ActiveDebts      int             `json:"activeDebts"`
	PaidDebts        int             `json:"paidDebts"`
	OverdueDebts     int             `json:"overdueDebts"`
	PaymentCount     int             `json:"paymentCount"`

	ActivePlans       int             `json:"activePlans"`
	DonePlans         int             `json:"donePlans"`
	MonthlyCommitment decimal.Decimal `json:"monthlyCommitment"` // sum of installment amounts of active plans

	PerCounterparty []CounterpartyOutstanding `json:"perCounterparty"`
}
