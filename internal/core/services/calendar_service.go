package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/MKH354/hutangku/internal/apperrors"
	"github.com/MKH354/hutangku/internal/core/domain"
	portssvc "github.com/MKH354/hutangku/internal/core/ports/services"
	"github.com/MKH354/hutangku/internal/dto"
	"github.com/MKH354/hutangku/internal/ics"
	"github.com/MKH354/hutangku/internal/utils"
)

const calendarProdID = "-//HutangKu//HutangKu Go//ID"

// planTypeLabels maps a plan type to the label used in calendar summaries.
var planTypeLabels = map[domain.PlanType]string{
	domain.PlanPayLater:           "PayLater",
	domain.PlanMicroloan:          "Pinjol",
	domain.PlanMonthlyInstallment: "Angsuran",
	domain.PlanCreditLease:        "Kredit",
	domain.PlanOther:              "Cicilan",
}

func planTypeLabel(t domain.PlanType) string {
	if label, ok := planTypeLabels[t]; ok {
		return label
	}
	return planTypeLabels[domain.PlanOther]
}

// calendarService projects ledger state into ICS reminder calendars. It is a
// pure read-side projection: it never mutates the session snapshot.
type calendarService struct {
	BaseService
	sessions *SessionManager
	calName  string
	calTZ    string
	now      func() time.Time
}

// CalendarServiceOption is a functional option for configuring the calendar service.
type CalendarServiceOption func(*calendarService)

// WithCalendarClock overrides the time source, mainly for tests.
func WithCalendarClock(now func() time.Time) CalendarServiceOption {
	return func(s *calendarService) {
		s.now = now
	}
}

// WithCalendarName sets the X-WR-CALNAME emitted on exports.
func WithCalendarName(name string) CalendarServiceOption {
	return func(s *calendarService) {
		s.calName = name
	}
}

// WithCalendarTimezone sets the X-WR-TIMEZONE emitted on exports.
func WithCalendarTimezone(tz string) CalendarServiceOption {
	return func(s *calendarService) {
		s.calTZ = tz
	}
}

// NewCalendarService creates a calendar service over the given session manager.
func NewCalendarService(sessions *SessionManager, options ...CalendarServiceOption) portssvc.CalendarSvcFacade {
	svc := &calendarService{
		sessions: sessions,
		calName:  "HutangKu - Pengingat Jatuh Tempo",
		calTZ:    "Asia/Jakarta",
		now:      time.Now,
	}
	for _, option := range options {
		option(svc)
	}
	return svc
}

// Ensure calendarService implements the CalendarSvcFacade interface.
var _ portssvc.CalendarSvcFacade = (*calendarService)(nil)

// buildDebtEvent returns the reminder event for a debt, or nil when the debt
// has no due date or is already settled.
func (s *calendarService) buildDebtEvent(d *domain.DebtRecord, now time.Time) *ics.Event {
	if d.DueDate.IsZero() || d.Status == domain.DebtPaid {
		return nil
	}

	desc := fmt.Sprintf("Hutang kepada %s\nTotal: %s\nSisa: %s",
		d.Name, utils.FormatIDR(d.Amount), utils.FormatIDR(d.Remaining()))
	if d.Description != "" {
		desc += "\nKet: " + d.Description
	}

	start := d.DueDate.Time()
	return &ics.Event{
		UID:         fmt.Sprintf("hutangku-%s@hutangku", d.DebtID),
		Timestamp:   now,
		Start:       start,
		End:         start.AddDate(0, 0, 1),
		Summary:     "💸 JT Hutang: " + d.Name,
		Description: desc,
		Alarms: []ics.Alarm{
			{Trigger: "-P1D", Message: fmt.Sprintf("Besok jatuh tempo hutang ke %s - Sisa %s", d.Name, utils.FormatIDR(d.Remaining()))},
			{Trigger: "-PT2H", Message: fmt.Sprintf("Hari ini jatuh tempo hutang ke %s!", d.Name)},
		},
	}
}

// buildInstallmentEvent returns the recurring reminder event for a plan, or
// nil when the plan is done. The recurrence carries both a COUNT and an UNTIL
// built from the same month stepping, so they bound the same final period.
func (s *calendarService) buildInstallmentEvent(p *domain.InstallmentPlan, now time.Time) *ics.Event {
	remaining := p.RemainingInstallments()
	if p.Status == domain.PlanDone || remaining <= 0 {
		return nil
	}

	label := planTypeLabel(p.PlanType)
	desc := fmt.Sprintf("%s %s\nAngsuran/bulan: %s\nSisa: %dx dari %dx",
		label, p.Name, utils.FormatIDR(p.InstallmentAmount), remaining, p.TotalInstallments)
	if p.Notes != "" {
		desc += "\nCatatan: " + p.Notes
	}

	start := domain.NextInstallmentDueDate(p, now).Time()
	return &ics.Event{
		UID:         fmt.Sprintf("hutangku-cicilan-%s@hutangku", p.PlanID),
		Timestamp:   now,
		Start:       start,
		End:         start.AddDate(0, 0, 1),
		Summary:     fmt.Sprintf("🔄 %s: %s", label, p.Name),
		Description: desc,
		Rule: &ics.RecurrenceRule{
			Count: remaining,
			Until: domain.FinalInstallmentDueDate(p, now).Time(),
		},
		Alarms: []ics.Alarm{
			{Trigger: "-P2D", Message: fmt.Sprintf("2 hari lagi jatuh tempo %s %s - %s", label, p.Name, utils.FormatIDR(p.InstallmentAmount))},
			{Trigger: "-PT6H", Message: fmt.Sprintf("Hari ini jatuh tempo %s %s!", label, p.Name)},
		},
	}
}

func (s *calendarService) newCalendar(events []ics.Event) *ics.Calendar {
	return &ics.Calendar{
		ProdID:   calendarProdID,
		Name:     s.calName,
		Timezone: s.calTZ,
		Events:   events,
	}
}

// exportFilename turns a record name into a download filename,
// e.g. "Budi Santoso" -> "hutangku-Budi-Santoso.ics".
func exportFilename(name string) string {
	return "hutangku-" + strings.Join(strings.Fields(name), "-") + ".ics"
}

// ExportAll exports every upcoming due date in the ledger as one calendar.
// A ledger with nothing left to remind fails with ErrNothingToExport.
func (s *calendarService) ExportAll(ctx context.Context, syncKey string) (*dto.CalendarExport, error) {
	now := s.now()
	var events []ics.Event
	err := s.sessions.View(ctx, syncKey, func(l *domain.Ledger) error {
		for i := range l.Debts {
			if ev := s.buildDebtEvent(&l.Debts[i], now); ev != nil {
				events = append(events, *ev)
			}
		}
		for i := range l.Installments {
			if ev := s.buildInstallmentEvent(&l.Installments[i], now); ev != nil {
				events = append(events, *ev)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if len(events) == 0 {
		return nil, fmt.Errorf("%w: no upcoming due dates", apperrors.ErrNothingToExport)
	}

	s.LogInfo(ctx, "Calendar exported", slog.Int("event_count", len(events)))
	return &dto.CalendarExport{
		Filename: "hutangku-jadwal.ics",
		Content:  s.newCalendar(events).Encode(),
	}, nil
}

// ExportDebt exports the reminder for a single debt. A debt with no due date
// or already settled fails with ErrNothingToExport.
func (s *calendarService) ExportDebt(ctx context.Context, syncKey, debtID string) (*dto.CalendarExport, error) {
	now := s.now()
	var event *ics.Event
	var name string
	err := s.sessions.View(ctx, syncKey, func(l *domain.Ledger) error {
		d := l.FindDebt(debtID)
		if d == nil {
			return fmt.Errorf("%w: debt %s", apperrors.ErrNotFound, debtID)
		}
		name = d.Name
		event = s.buildDebtEvent(d, now)
		return nil
	})
	if err != nil {
		return nil, err
	}
	if event == nil {
		return nil, fmt.Errorf("%w: debt has no upcoming due date", apperrors.ErrNothingToExport)
	}

	return &dto.CalendarExport{
		Filename: exportFilename(name),
		Content:  s.newCalendar([]ics.Event{*event}).Encode(),
	}, nil
}

// ExportInstallment exports the recurring reminder for a single plan. A plan
// that is done fails with ErrNothingToExport.
func (s *calendarService) ExportInstallment(ctx context.Context, syncKey, planID string) (*dto.CalendarExport, error) {
	now := s.now()
	var event *ics.Event
	var name string
	err := s.sessions.View(ctx, syncKey, func(l *domain.Ledger) error {
		p := l.FindInstallment(planID)
		if p == nil {
			return fmt.Errorf("%w: installment plan %s", apperrors.ErrNotFound, planID)
		}
		name = p.Name
		event = s.buildInstallmentEvent(p, now)
		return nil
	})
	if err != nil {
		return nil, err
	}
	if event == nil {
		return nil, fmt.Errorf("%w: plan has no remaining periods", apperrors.ErrNothingToExport)
	}

	return &dto.CalendarExport{
		Filename: exportFilename(name),
		Content:  s.newCalendar([]ics.Event{*event}).Encode(),
	}, nil
}

// NextDueDate answers the next due date for a plan. It is computed from the
// plan's due day regardless of status, so a done plan still gets an answer.
func (s *calendarService) NextDueDate(ctx context.Context, syncKey, planID string) (*dto.NextDueResponse, error) {
	now := s.now()
	var resp dto.NextDueResponse
	err := s.sessions.View(ctx, syncKey, func(l *domain.Ledger) error {
		p := l.FindInstallment(planID)
		if p == nil {
			return fmt.Errorf("%w: installment plan %s", apperrors.ErrNotFound, planID)
		}
		next := domain.NextInstallmentDueDate(p, now)
		resp = dto.NextDueResponse{
			PlanID:       p.PlanID,
			NextDueDate:  next,
			DaysUntilDue: domain.DaysUntil(next, now),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &resp, nil
}
