package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/MKH354/hutangku/internal/core/domain"
	portssvc "github.com/MKH354/hutangku/internal/core/ports/services"
	"github.com/MKH354/hutangku/internal/core/services"
	"github.com/stretchr/testify/suite"
)

type ReportingServiceTestSuite struct {
	suite.Suite
}

func (suite *ReportingServiceTestSuite) newService(snapshot *domain.Ledger) portssvc.ReportingSvcFacade {
	mockStore := new(MockSnapshotStore)
	expectSubscribe(mockStore, testSyncKey, snapshot)
	manager := services.NewSessionManager(mockStore)
	return services.NewReportingService(manager, services.WithReportingClock(func() time.Time { return testNow }))
}

func (suite *ReportingServiceTestSuite) TestSummary_EmptyLedger() {
	service := suite.newService(&domain.Ledger{})

	summary, err := service.Summary(context.Background(), testSyncKey)
	suite.Require().NoError(err)
	suite.True(summary.TotalDebt.IsZero())
	suite.True(summary.TotalOutstanding.IsZero())
	suite.Zero(summary.ActiveDebts)
	suite.Empty(summary.PerCounterparty)
}

func (suite *ReportingServiceTestSuite) TestSummary_Aggregates() {
	partial := unpaidDebt("d1", "Budi", domain.NewDate(2026, time.April, 1))
	partial.Amount = amt(1000)
	partial.Payments = []domain.PaymentEntry{{PaymentID: "pay1", Amount: amt(400), Date: domain.DateOf(testNow)}}

	overdue := unpaidDebt("d2", "Siti", domain.NewDate(2026, time.February, 1))
	overdue.Amount = amt(500)

	settled := unpaidDebt("d3", "Budi", domain.NewDate(2026, time.January, 1))
	settled.Amount = amt(300)
	settled.Payments = []domain.PaymentEntry{{PaymentID: "pay2", Amount: amt(300), Date: domain.DateOf(testNow)}}
	settled.Status = domain.DebtPaid

	active := activePlan("p1", "Motor", 12, 3, 25)
	done := activePlan("p2", "HP", 6, 6, 10)
	done.Status = domain.PlanDone

	service := suite.newService(&domain.Ledger{
		Debts:        []domain.DebtRecord{partial, overdue, settled},
		Installments: []domain.InstallmentPlan{active, done},
	})

	summary, err := service.Summary(context.Background(), testSyncKey)
	suite.Require().NoError(err)

	suite.True(summary.TotalDebt.Equal(amt(1800)))
	suite.True(summary.TotalPaid.Equal(amt(700)))
	suite.True(summary.TotalOutstanding.Equal(amt(1100)))
	suite.Equal(2, summary.ActiveDebts)
	suite.Equal(1, summary.PaidDebts)
	suite.Equal(1, summary.OverdueDebts)
	suite.Equal(2, summary.PaymentCount)

	suite.Equal(1, summary.ActivePlans)
	suite.Equal(1, summary.DonePlans)
	suite.True(summary.MonthlyCommitment.Equal(amt(300000)))

	// Settled debts contribute nothing; unpaid exposure sorts largest first.
	suite.Require().Len(summary.PerCounterparty, 2)
	suite.Equal("Budi", summary.PerCounterparty[0].Name)
	suite.True(summary.PerCounterparty[0].Outstanding.Equal(amt(600)))
	suite.Equal("Siti", summary.PerCounterparty[1].Name)
	suite.True(summary.PerCounterparty[1].Outstanding.Equal(amt(500)))
}

func TestReportingServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ReportingServiceTestSuite))
}
