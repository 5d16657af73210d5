package services_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/MKH354/hutangku/internal/apperrors"
	"github.com/MKH354/hutangku/internal/core/domain"
	portssvc "github.com/MKH354/hutangku/internal/core/ports/services"
	"github.com/MKH354/hutangku/internal/core/services"
	"github.com/stretchr/testify/suite"
)

type CalendarServiceTestSuite struct {
	suite.Suite
}

func (suite *CalendarServiceTestSuite) newService(snapshot *domain.Ledger, now time.Time) portssvc.CalendarSvcFacade {
	mockStore := new(MockSnapshotStore)
	expectSubscribe(mockStore, testSyncKey, snapshot)
	manager := services.NewSessionManager(mockStore)
	return services.NewCalendarService(manager, services.WithCalendarClock(func() time.Time { return now }))
}

func unpaidDebt(id, name string, due domain.Date) domain.DebtRecord {
	return domain.DebtRecord{
		DebtID:  id,
		Name:    name,
		Amount:  amt(500000),
		Date:    domain.NewDate(2026, time.January, 5),
		DueDate: due,
		Status:  domain.DebtUnpaid,
	}
}

func activePlan(id, name string, totalInstallments, paidInstallments, dueDay int) domain.InstallmentPlan {
	return domain.InstallmentPlan{
		PlanID:            id,
		Name:              name,
		PlanType:          domain.PlanPayLater,
		InstallmentAmount: amt(300000),
		TotalInstallments: totalInstallments,
		PaidInstallments:  paidInstallments,
		DueDay:            dueDay,
		StartDate:         domain.NewDate(2026, time.January, 1),
		Status:            domain.PlanActive,
	}
}

func (suite *CalendarServiceTestSuite) TestExportAll() {
	snapshot := &domain.Ledger{
		Debts: []domain.DebtRecord{
			unpaidDebt("d1", "Budi", domain.NewDate(2026, time.April, 1)),
		},
		Installments: []domain.InstallmentPlan{
			activePlan("p1", "Tokopedia PayLater", 12, 9, 25),
		},
	}
	service := suite.newService(snapshot, testNow)

	export, err := service.ExportAll(context.Background(), testSyncKey)
	suite.Require().NoError(err)
	suite.Equal("hutangku-jadwal.ics", export.Filename)

	content := string(export.Content)
	suite.Contains(content, "UID:hutangku-d1@hutangku")
	suite.Contains(content, "UID:hutangku-cicilan-p1@hutangku")
	suite.Contains(content, "PRODID:-//HutangKu//HutangKu Go//ID")
	suite.Contains(content, "SUMMARY:💸 JT Hutang: Budi")
	suite.Contains(content, "SUMMARY:🔄 PayLater: Tokopedia PayLater")
	// Amounts render as whole rupiah with dot-grouped thousands.
	suite.Contains(content, "Total: Rp500.000")
	suite.Contains(content, "Angsuran/bulan: Rp300.000")
	// March 10 is before due day 25, so the series starts this month and the
	// 3 remaining periods end in May.
	suite.Contains(content, "DTSTART;VALUE=DATE:20260325")
	suite.Contains(content, "RRULE:FREQ=MONTHLY;COUNT=3;UNTIL=20260525")
	suite.True(strings.HasSuffix(content, "END:VCALENDAR\r\n"))
}

func (suite *CalendarServiceTestSuite) TestExportAll_SkipsSettledAndUndated() {
	paid := unpaidDebt("d1", "Lunas", domain.NewDate(2026, time.April, 1))
	paid.Status = domain.DebtPaid
	done := activePlan("p1", "Selesai", 6, 6, 10)
	done.Status = domain.PlanDone

	snapshot := &domain.Ledger{
		Debts: []domain.DebtRecord{
			paid,
			unpaidDebt("d2", "Tanpa Tenggat", domain.Date{}),
			unpaidDebt("d3", "Budi", domain.NewDate(2026, time.April, 1)),
		},
		Installments: []domain.InstallmentPlan{done},
	}
	service := suite.newService(snapshot, testNow)

	export, err := service.ExportAll(context.Background(), testSyncKey)
	suite.Require().NoError(err)

	content := string(export.Content)
	suite.NotContains(content, "hutangku-d1@hutangku")
	suite.NotContains(content, "hutangku-d2@hutangku")
	suite.NotContains(content, "hutangku-cicilan-p1@hutangku")
	suite.Contains(content, "UID:hutangku-d3@hutangku")
}

func (suite *CalendarServiceTestSuite) TestExportAll_NothingToExport() {
	service := suite.newService(&domain.Ledger{}, testNow)

	_, err := service.ExportAll(context.Background(), testSyncKey)
	suite.True(errors.Is(err, apperrors.ErrNothingToExport))
}

func (suite *CalendarServiceTestSuite) TestExportDebt_FilenameFromName() {
	snapshot := &domain.Ledger{
		Debts: []domain.DebtRecord{
			unpaidDebt("d1", "Budi Santoso", domain.NewDate(2026, time.April, 1)),
		},
	}
	service := suite.newService(snapshot, testNow)

	export, err := service.ExportDebt(context.Background(), testSyncKey, "d1")
	suite.Require().NoError(err)
	suite.Equal("hutangku-Budi-Santoso.ics", export.Filename)
	suite.Contains(string(export.Content), "Sisa: Rp500.000")
	suite.Contains(string(export.Content), "DTSTART;VALUE=DATE:20260401")
	suite.Contains(string(export.Content), "DTEND;VALUE=DATE:20260402")
	suite.Contains(string(export.Content), "TRIGGER:-P1D")
	suite.Contains(string(export.Content), "TRIGGER:-PT2H")
}

func (suite *CalendarServiceTestSuite) TestExportDebt_SettledHasNothingToExport() {
	settled := unpaidDebt("d1", "Budi", domain.NewDate(2026, time.April, 1))
	settled.Status = domain.DebtPaid
	service := suite.newService(&domain.Ledger{Debts: []domain.DebtRecord{settled}}, testNow)

	_, err := service.ExportDebt(context.Background(), testSyncKey, "d1")
	suite.True(errors.Is(err, apperrors.ErrNothingToExport))
}

func (suite *CalendarServiceTestSuite) TestExportDebt_NotFound() {
	service := suite.newService(&domain.Ledger{}, testNow)

	_, err := service.ExportDebt(context.Background(), testSyncKey, "missing")
	suite.True(errors.Is(err, apperrors.ErrNotFound))
}

func (suite *CalendarServiceTestSuite) TestExportInstallment_ClampsDueDayAcrossMonths() {
	// Due day 31 seen on Jan 30: first occurrence Jan 31, second clamps to
	// Feb 28 (2026 is not a leap year). COUNT and UNTIL bound the same event.
	now := time.Date(2026, time.January, 30, 9, 0, 0, 0, time.UTC)
	snapshot := &domain.Ledger{
		Installments: []domain.InstallmentPlan{
			activePlan("p1", "Kulkas", 12, 10, 31),
		},
	}
	service := suite.newService(snapshot, now)

	export, err := service.ExportInstallment(context.Background(), testSyncKey, "p1")
	suite.Require().NoError(err)
	suite.Equal("hutangku-Kulkas.ics", export.Filename)

	content := string(export.Content)
	suite.Contains(content, "DTSTART;VALUE=DATE:20260131")
	suite.Contains(content, "RRULE:FREQ=MONTHLY;COUNT=2;UNTIL=20260228")
	suite.Contains(content, "TRIGGER:-P2D")
	suite.Contains(content, "TRIGGER:-PT6H")
}

func (suite *CalendarServiceTestSuite) TestExportInstallment_DoneHasNothingToExport() {
	done := activePlan("p1", "Selesai", 6, 6, 10)
	done.Status = domain.PlanDone
	service := suite.newService(&domain.Ledger{Installments: []domain.InstallmentPlan{done}}, testNow)

	_, err := service.ExportInstallment(context.Background(), testSyncKey, "p1")
	suite.True(errors.Is(err, apperrors.ErrNothingToExport))
}

func (suite *CalendarServiceTestSuite) TestNextDueDate() {
	snapshot := &domain.Ledger{
		Installments: []domain.InstallmentPlan{
			activePlan("p1", "Motor", 12, 3, 25),
		},
	}
	service := suite.newService(snapshot, testNow)

	resp, err := service.NextDueDate(context.Background(), testSyncKey, "p1")
	suite.Require().NoError(err)
	suite.Equal("p1", resp.PlanID)
	suite.Equal(domain.NewDate(2026, time.March, 25), resp.NextDueDate)
	suite.Equal(15, resp.DaysUntilDue)
}

func (suite *CalendarServiceTestSuite) TestNextDueDate_RollsToNextMonth() {
	// On the due day itself, the next due date is already next month.
	now := time.Date(2026, time.March, 25, 8, 0, 0, 0, time.UTC)
	snapshot := &domain.Ledger{
		Installments: []domain.InstallmentPlan{
			activePlan("p1", "Motor", 12, 3, 25),
		},
	}
	service := suite.newService(snapshot, now)

	resp, err := service.NextDueDate(context.Background(), testSyncKey, "p1")
	suite.Require().NoError(err)
	suite.Equal(domain.NewDate(2026, time.April, 25), resp.NextDueDate)
	suite.Equal(31, resp.DaysUntilDue)
}

func TestCalendarServiceTestSuite(t *testing.T) {
	suite.Run(t, new(CalendarServiceTestSuite))
}
