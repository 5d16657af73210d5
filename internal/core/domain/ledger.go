package domain

// Ledger is the root aggregate: everything one sync key owns. It is stored
// and synchronized as a single document; a remote push replaces it wholesale
// (last writer wins).
//
// Both slices are kept newest-first, matching how records are displayed.
type Ledger struct {
	Debts        []DebtRecord      `json:"debts"`
	Installments []InstallmentPlan `json:"installments"`
}

// FindDebt returns a pointer into the ledger for the debt with the given id,
// or nil.
func (l *Ledger) FindDebt(debtID string) *DebtRecord {
	for i := range l.Debts {
		if l.Debts[i].DebtID == debtID {
			return &l.Debts[i]
		}
	}
	return nil
}

// FindInstallment returns a pointer into the ledger for the plan with the
// given id, or nil.
func (l *Ledger) FindInstallment(planID string) *InstallmentPlan {
	for i := range l.Installments {
		if l.Installments[i].PlanID == planID {
			return &l.Installments[i]
		}
	}
	return nil
}

// PrependDebt inserts a freshly created debt at the head of the list.
func (l *Ledger) PrependDebt(d DebtRecord) {
	l.Debts = append([]DebtRecord{d}, l.Debts...)
}

// PrependInstallment inserts a freshly created plan at the head of the list.
func (l *Ledger) PrependInstallment(p InstallmentPlan) {
	l.Installments = append([]InstallmentPlan{p}, l.Installments...)
}

// RemoveDebt deletes the debt and all its payments. Returns whether the id
// was present.
func (l *Ledger) RemoveDebt(debtID string) bool {
	for i := range l.Debts {
		if l.Debts[i].DebtID == debtID {
			l.Debts = append(l.Debts[:i], l.Debts[i+1:]...)
			return true
		}
	}
	return false
}

// RemoveInstallment deletes the plan and all its payments. Returns whether
// the id was present.
func (l *Ledger) RemoveInstallment(planID string) bool {
	for i := range l.Installments {
		if l.Installments[i].PlanID == planID {
			l.Installments = append(l.Installments[:i], l.Installments[i+1:]...)
			return true
		}
	}
	return false
}

// Clone returns a deep copy of the ledger. Snapshots handed to the store or
// received from a remote push must never alias live session state.
func (l *Ledger) Clone() Ledger {
	out := Ledger{}
	if l.Debts != nil {
		out.Debts = make([]DebtRecord, len(l.Debts))
		for i, d := range l.Debts {
			d.Payments = append([]PaymentEntry(nil), d.Payments...)
			out.Debts[i] = d
		}
	}
	if l.Installments != nil {
		out.Installments = make([]InstallmentPlan, len(l.Installments))
		for i, p := range l.Installments {
			p.Payments = append([]PaymentEntry(nil), p.Payments...)
			out.Installments[i] = p
		}
	}
	return out
}
