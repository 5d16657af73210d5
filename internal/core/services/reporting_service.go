package services

import (
	"context"
	"sort"
	"time"

	"github.com/MKH354/hutangku/internal/core/domain"
	portssvc "github.com/MKH354/hutangku/internal/core/ports/services"
	"github.com/MKH354/hutangku/internal/dto"
	"github.com/shopspring/decimal"
)

// reportingService computes read-only aggregates over a ledger snapshot.
type reportingService struct {
	BaseService
	sessions *SessionManager
	now      func() time.Time
}

// ReportingServiceOption is a functional option for configuring the reporting service.
type ReportingServiceOption func(*reportingService)

// WithReportingClock overrides the time source, mainly for tests.
func WithReportingClock(now func() time.Time) ReportingServiceOption {
	return func(s *reportingService) {
		s.now = now
	}
}

// NewReportingService creates a reporting service over the given session manager.
func NewReportingService(sessions *SessionManager, options ...ReportingServiceOption) portssvc.ReportingSvcFacade {
	svc := &reportingService{
		sessions: sessions,
		now:      time.Now,
	}
	for _, option := range options {
		option(svc)
	}
	return svc
}

// Ensure reportingService implements the ReportingSvcFacade interface.
var _ portssvc.ReportingSvcFacade = (*reportingService)(nil)

// Summary aggregates the whole ledger: exposure totals, debt and plan
// lifecycle counts, the monthly commitment of active plans, and the
// outstanding amount per counterparty sorted largest first.
func (s *reportingService) Summary(ctx context.Context, syncKey string) (*dto.LedgerSummary, error) {
	now := s.now()
	summary := dto.LedgerSummary{
		TotalDebt:         decimal.Zero,
		TotalPaid:         decimal.Zero,
		TotalOutstanding:  decimal.Zero,
		MonthlyCommitment: decimal.Zero,
		PerCounterparty:   []dto.CounterpartyOutstanding{},
	}

	byName := make(map[string]decimal.Decimal)
	err := s.sessions.View(ctx, syncKey, func(l *domain.Ledger) error {
		for i := range l.Debts {
			d := &l.Debts[i]
			summary.TotalDebt = summary.TotalDebt.Add(d.Amount)
			summary.TotalPaid = summary.TotalPaid.Add(d.PaidAmount())
			summary.PaymentCount += len(d.Payments)

			switch d.Status {
			case domain.DebtPaid:
				summary.PaidDebts++
			default:
				summary.ActiveDebts++
				if d.IsOverdue(now) {
					summary.OverdueDebts++
				}
				remaining := d.Remaining()
				summary.TotalOutstanding = summary.TotalOutstanding.Add(remaining)
				if remaining.IsPositive() {
					byName[d.Name] = byName[d.Name].Add(remaining)
				}
			}
		}

		for i := range l.Installments {
			p := &l.Installments[i]
			if p.Status == domain.PlanDone {
				summary.DonePlans++
				continue
			}
			summary.ActivePlans++
			summary.MonthlyCommitment = summary.MonthlyCommitment.Add(p.InstallmentAmount)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	for name, outstanding := range byName {
		summary.PerCounterparty = append(summary.PerCounterparty, dto.CounterpartyOutstanding{
			Name:        name,
			Outstanding: outstanding,
		})
	}
	sort.Slice(summary.PerCounterparty, func(i, j int) bool {
		a, b := summary.PerCounterparty[i], summary.PerCounterparty[j]
		if !a.Outstanding.Equal(b.Outstanding) {
			return a.Outstanding.GreaterThan(b.Outstanding)
		}
		return a.Name < b.Name
	})

	return &summary, nil
}
