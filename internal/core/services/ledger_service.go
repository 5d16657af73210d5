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
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ledgerService implements the LedgerSvcFacade interface. Every mutation
// validates fully before touching the session snapshot, applies in memory,
// then hands the snapshot to the store optimistically.
type ledgerService struct {
	BaseService
	sessions *SessionManager
	now      func() time.Time
}

// LedgerServiceOption is a functional option for configuring the ledger service.
type LedgerServiceOption func(*ledgerService)

// WithLedgerClock overrides the time source, mainly for tests.
func WithLedgerClock(now func() time.Time) LedgerServiceOption {
	return func(s *ledgerService) {
		s.now = now
	}
}

// NewLedgerService creates a new ledger service bound to a session manager.
func NewLedgerService(sessions *SessionManager, options ...LedgerServiceOption) portssvc.LedgerSvcFacade {
	svc := &ledgerService{
		sessions: sessions,
		now:      time.Now,
	}
	for _, option := range options {
		option(svc)
	}
	return svc
}

// Ensure ledgerService implements the LedgerSvcFacade interface.
var _ portssvc.LedgerSvcFacade = (*ledgerService)(nil)

// newRecordID returns a time-ordered unique id, so ids sort in creation
// order.
func newRecordID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}

func validateName(name string) (string, error) {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return "", fmt.Errorf("%w: name must not be empty", apperrors.ErrValidation)
	}
	return trimmed, nil
}

func validatePositive(amount decimal.Decimal, field string) error {
	if !amount.IsPositive() {
		return fmt.Errorf("%w: %s must be a positive number", apperrors.ErrValidation, field)
	}
	return nil
}

func defaultDate(d domain.Date, now time.Time) domain.Date {
	if d.IsZero() {
		return domain.DateOf(now)
	}
	return d
}

func copyDebt(d *domain.DebtRecord) domain.DebtRecord {
	c := *d
	c.Payments = append([]domain.PaymentEntry(nil), d.Payments...)
	return c
}

func copyPlan(p *domain.InstallmentPlan) domain.InstallmentPlan {
	c := *p
	c.Payments = append([]domain.PaymentEntry(nil), p.Payments...)
	return c
}

// --- Debts ---

func (s *ledgerService) AddDebt(ctx context.Context, syncKey string, req dto.CreateDebtRequest) (*domain.DebtRecord, bool, error) {
	name, err := validateName(req.Name)
	if err != nil {
		return nil, false, err
	}
	if err := validatePositive(req.Amount, "amount"); err != nil {
		return nil, false, err
	}

	now := s.now()
	rec := domain.DebtRecord{
		DebtID:      newRecordID(),
		Name:        name,
		Amount:      req.Amount,
		Description: strings.TrimSpace(req.Description),
		Date:        defaultDate(req.Date, now),
		DueDate:     req.DueDate,
		Status:      domain.DebtUnpaid,
		Payments:    []domain.PaymentEntry{},
	}
	if req.Status == domain.DebtPaid {
		// Caller may record a debt that is already settled.
		rec.Status = domain.DebtPaid
	}

	syncWarn, err := s.sessions.Update(ctx, syncKey, func(l *domain.Ledger) error {
		l.PrependDebt(rec)
		return nil
	})
	if err != nil {
		return nil, false, err
	}

	s.LogInfo(ctx, "Debt recorded", slog.String("debt_id", rec.DebtID), slog.String("name", rec.Name))
	out := copyDebt(&rec)
	return &out, syncWarn, nil
}

func (s *ledgerService) EditDebt(ctx context.Context, syncKey, debtID string, req dto.UpdateDebtRequest) (*domain.DebtRecord, bool, error) {
	name, err := validateName(req.Name)
	if err != nil {
		return nil, false, err
	}
	if err := validatePositive(req.Amount, "amount"); err != nil {
		return nil, false, err
	}

	var out domain.DebtRecord
	syncWarn, err := s.sessions.Update(ctx, syncKey, func(l *domain.Ledger) error {
		d := l.FindDebt(debtID)
		if d == nil {
			return fmt.Errorf("%w: debt %s", apperrors.ErrNotFound, debtID)
		}
		d.Name = name
		d.Amount = req.Amount
		d.Description = strings.TrimSpace(req.Description)
		d.Date = defaultDate(req.Date, s.now())
		d.DueDate = req.DueDate
		// Upgrade-only: existing payments may now cover the new amount, but a
		// manual paid status never gets demoted by an edit.
		d.UpgradeStatus()
		out = copyDebt(d)
		return nil
	})
	if err != nil {
		return nil, false, err
	}

	s.LogInfo(ctx, "Debt updated", slog.String("debt_id", debtID))
	return &out, syncWarn, nil
}

// DeleteDebt removes a debt and all its payments irrecoverably. A missing id
// fails with ErrNotFound.
func (s *ledgerService) DeleteDebt(ctx context.Context, syncKey, debtID string) (bool, error) {
	syncWarn, err := s.sessions.Update(ctx, syncKey, func(l *domain.Ledger) error {
		if !l.RemoveDebt(debtID) {
			return fmt.Errorf("%w: debt %s", apperrors.ErrNotFound, debtID)
		}
		return nil
	})
	if err != nil {
		return false, err
	}

	s.LogInfo(ctx, "Debt deleted", slog.String("debt_id", debtID))
	return syncWarn, nil
}

func (s *ledgerService) ToggleDebtStatus(ctx context.Context, syncKey, debtID string) (*domain.DebtRecord, bool, error) {
	var out domain.DebtRecord
	syncWarn, err := s.sessions.Update(ctx, syncKey, func(l *domain.Ledger) error {
		d := l.FindDebt(debtID)
		if d == nil {
			return fmt.Errorf("%w: debt %s", apperrors.ErrNotFound, debtID)
		}
		d.ToggleStatus()
		out = copyDebt(d)
		return nil
	})
	if err != nil {
		return nil, false, err
	}

	s.LogInfo(ctx, "Debt status toggled", slog.String("debt_id", debtID), slog.String("status", string(out.Status)))
	return &out, syncWarn, nil
}

func (s *ledgerService) AddDebtPayment(ctx context.Context, syncKey, debtID string, req dto.AddPaymentRequest) (*domain.DebtRecord, bool, error) {
	if err := validatePositive(req.Amount, "amount"); err != nil {
		return nil, false, err
	}

	entry := domain.PaymentEntry{
		PaymentID: newRecordID(),
		Amount:    req.Amount,
		Date:      defaultDate(req.Date, s.now()),
		Note:      strings.TrimSpace(req.Note),
	}

	var out domain.DebtRecord
	syncWarn, err := s.sessions.Update(ctx, syncKey, func(l *domain.Ledger) error {
		d := l.FindDebt(debtID)
		if d == nil {
			return fmt.Errorf("%w: debt %s", apperrors.ErrNotFound, debtID)
		}
		d.Payments = append(d.Payments, entry)
		d.RecomputeStatus()
		out = copyDebt(d)
		return nil
	})
	if err != nil {
		return nil, false, err
	}

	s.LogInfo(ctx, "Debt payment recorded",
		slog.String("debt_id", debtID),
		slog.String("payment_id", entry.PaymentID),
		slog.String("amount", entry.Amount.String()))
	return &out, syncWarn, nil
}

// RemoveDebtPayment removes one payment entry. Removing an id that is
// already absent is an idempotent no-op; the status recompute still runs.
func (s *ledgerService) RemoveDebtPayment(ctx context.Context, syncKey, debtID, paymentID string) (*domain.DebtRecord, bool, error) {
	var out domain.DebtRecord
	syncWarn, err := s.sessions.Update(ctx, syncKey, func(l *domain.Ledger) error {
		d := l.FindDebt(debtID)
		if d == nil {
			return fmt.Errorf("%w: debt %s", apperrors.ErrNotFound, debtID)
		}
		d.RemovePayment(paymentID)
		out = copyDebt(d)
		return nil
	})
	if err != nil {
		return nil, false, err
	}

	s.LogInfo(ctx, "Debt payment removed", slog.String("debt_id", debtID), slog.String("payment_id", paymentID))
	return &out, syncWarn, nil
}

func (s *ledgerService) GetDebt(ctx context.Context, syncKey, debtID string) (*domain.DebtRecord, error) {
	var out domain.DebtRecord
	err := s.sessions.View(ctx, syncKey, func(l *domain.Ledger) error {
		d := l.FindDebt(debtID)
		if d == nil {
			return fmt.Errorf("%w: debt %s", apperrors.ErrNotFound, debtID)
		}
		out = copyDebt(d)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *ledgerService) ListDebts(ctx context.Context, syncKey string) ([]domain.DebtRecord, error) {
	var out []domain.DebtRecord
	err := s.sessions.View(ctx, syncKey, func(l *domain.Ledger) error {
		clone := l.Clone()
		out = clone.Debts
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// --- Installment plans ---

func (s *ledgerService) validatePlanFields(name string, installmentAmount, totalAmount decimal.Decimal, totalInstallments, paidInstallments, dueDay int) (string, error) {
	trimmed, err := validateName(name)
	if err != nil {
		return "", err
	}
	if err := validatePositive(installmentAmount, "installmentAmount"); err != nil {
		return "", err
	}
	if totalAmount.IsNegative() {
		return "", fmt.Errorf("%w: totalAmount must not be negative", apperrors.ErrValidation)
	}
	if totalInstallments <= 0 {
		return "", fmt.Errorf("%w: totalInstallments must be a positive integer", apperrors.ErrValidation)
	}
	if paidInstallments < 0 || paidInstallments > totalInstallments {
		return "", fmt.Errorf("%w: paidInstallments must be between 0 and totalInstallments", apperrors.ErrValidation)
	}
	if dueDay < 1 || dueDay > 31 {
		return "", fmt.Errorf("%w: dueDay must be between 1 and 31", apperrors.ErrValidation)
	}
	return trimmed, nil
}

func (s *ledgerService) AddInstallmentPlan(ctx context.Context, syncKey string, req dto.CreateInstallmentPlanRequest) (*domain.InstallmentPlan, bool, error) {
	name, err := s.validatePlanFields(req.Name, req.InstallmentAmount, req.TotalAmount, req.TotalInstallments, req.PaidInstallments, req.DueDay)
	if err != nil {
		return nil, false, err
	}

	planType := req.PlanType
	if planType == "" {
		planType = domain.PlanOther
	}

	plan := domain.InstallmentPlan{
		PlanID:            newRecordID(),
		Name:              name,
		PlanType:          planType,
		TotalAmount:       req.TotalAmount,
		InstallmentAmount: req.InstallmentAmount,
		TotalInstallments: req.TotalInstallments,
		PaidInstallments:  req.PaidInstallments,
		DueDay:            req.DueDay,
		StartDate:         defaultDate(req.StartDate, s.now()),
		Notes:             strings.TrimSpace(req.Notes),
		Payments:          []domain.PaymentEntry{},
	}
	plan.RecomputeStatus()

	syncWarn, err := s.sessions.Update(ctx, syncKey, func(l *domain.Ledger) error {
		l.PrependInstallment(plan)
		return nil
	})
	if err != nil {
		return nil, false, err
	}

	s.LogInfo(ctx, "Installment plan recorded", slog.String("plan_id", plan.PlanID), slog.String("name", plan.Name))
	out := copyPlan(&plan)
	return &out, syncWarn, nil
}

func (s *ledgerService) EditInstallmentPlan(ctx context.Context, syncKey, planID string, req dto.UpdateInstallmentPlanRequest) (*domain.InstallmentPlan, bool, error) {
	paid := 0
	if req.PaidInstallments != nil {
		paid = *req.PaidInstallments
	}
	name, err := s.validatePlanFields(req.Name, req.InstallmentAmount, req.TotalAmount, req.TotalInstallments, paid, req.DueDay)
	if err != nil {
		return nil, false, err
	}

	var out domain.InstallmentPlan
	syncWarn, err := s.sessions.Update(ctx, syncKey, func(l *domain.Ledger) error {
		p := l.FindInstallment(planID)
		if p == nil {
			return fmt.Errorf("%w: installment plan %s", apperrors.ErrNotFound, planID)
		}
		// paidInstallments stays in lockstep with the payment list: once any
		// payment entry exists, only the pay/remove operations may move it.
		if req.PaidInstallments != nil && len(p.Payments) > 0 && *req.PaidInstallments != p.PaidInstallments {
			return fmt.Errorf("%w: paidInstallments cannot be edited once payments are recorded", apperrors.ErrValidation)
		}
		p.Name = name
		if req.PlanType != "" {
			p.PlanType = req.PlanType
		}
		p.TotalAmount = req.TotalAmount
		p.InstallmentAmount = req.InstallmentAmount
		p.TotalInstallments = req.TotalInstallments
		if req.PaidInstallments != nil && len(p.Payments) == 0 {
			p.PaidInstallments = *req.PaidInstallments
		}
		p.DueDay = req.DueDay
		p.StartDate = defaultDate(req.StartDate, s.now())
		p.Notes = strings.TrimSpace(req.Notes)
		p.RecomputeStatus()
		out = copyPlan(p)
		return nil
	})
	if err != nil {
		return nil, false, err
	}

	s.LogInfo(ctx, "Installment plan updated", slog.String("plan_id", planID))
	return &out, syncWarn, nil
}

// DeleteInstallmentPlan removes a plan and all its payments irrecoverably.
// A missing id fails with ErrNotFound.
func (s *ledgerService) DeleteInstallmentPlan(ctx context.Context, syncKey, planID string) (bool, error) {
	syncWarn, err := s.sessions.Update(ctx, syncKey, func(l *domain.Ledger) error {
		if !l.RemoveInstallment(planID) {
			return fmt.Errorf("%w: installment plan %s", apperrors.ErrNotFound, planID)
		}
		return nil
	})
	if err != nil {
		return false, err
	}

	s.LogInfo(ctx, "Installment plan deleted", slog.String("plan_id", planID))
	return syncWarn, nil
}

func (s *ledgerService) PayInstallment(ctx context.Context, syncKey, planID string, req dto.AddPaymentRequest) (*domain.InstallmentPlan, bool, error) {
	if err := validatePositive(req.Amount, "amount"); err != nil {
		return nil, false, err
	}

	entry := domain.PaymentEntry{
		PaymentID: newRecordID(),
		Amount:    req.Amount,
		Date:      defaultDate(req.Date, s.now()),
		Note:      strings.TrimSpace(req.Note),
	}

	var out domain.InstallmentPlan
	syncWarn, err := s.sessions.Update(ctx, syncKey, func(l *domain.Ledger) error {
		p := l.FindInstallment(planID)
		if p == nil {
			return fmt.Errorf("%w: installment plan %s", apperrors.ErrNotFound, planID)
		}
		if p.RemainingInstallments() == 0 {
			return fmt.Errorf("%w: plan is already fully paid", apperrors.ErrValidation)
		}
		p.RecordPayment(entry)
		out = copyPlan(p)
		return nil
	})
	if err != nil {
		return nil, false, err
	}

	s.LogInfo(ctx, "Installment paid",
		slog.String("plan_id", planID),
		slog.Int("paid_installments", out.PaidInstallments),
		slog.String("status", string(out.Status)))
	return &out, syncWarn, nil
}

// RemoveInstallmentPayment removes one payment entry and rewinds the paid
// count by one, floored at zero. Removing an absent payment id is an
// idempotent no-op.
func (s *ledgerService) RemoveInstallmentPayment(ctx context.Context, syncKey, planID, paymentID string) (*domain.InstallmentPlan, bool, error) {
	var out domain.InstallmentPlan
	syncWarn, err := s.sessions.Update(ctx, syncKey, func(l *domain.Ledger) error {
		p := l.FindInstallment(planID)
		if p == nil {
			return fmt.Errorf("%w: installment plan %s", apperrors.ErrNotFound, planID)
		}
		p.RemovePayment(paymentID)
		out = copyPlan(p)
		return nil
	})
	if err != nil {
		return nil, false, err
	}

	s.LogInfo(ctx, "Installment payment removed", slog.String("plan_id", planID), slog.String("payment_id", paymentID))
	return &out, syncWarn, nil
}

func (s *ledgerService) GetInstallmentPlan(ctx context.Context, syncKey, planID string) (*domain.InstallmentPlan, error) {
	var out domain.InstallmentPlan
	err := s.sessions.View(ctx, syncKey, func(l *domain.Ledger) error {
		p := l.FindInstallment(planID)
		if p == nil {
			return fmt.Errorf("%w: installment plan %s", apperrors.ErrNotFound, planID)
		}
		out = copyPlan(p)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *ledgerService) ListInstallmentPlans(ctx context.Context, syncKey string) ([]domain.InstallmentPlan, error) {
	var out []domain.InstallmentPlan
	err := s.sessions.View(ctx, syncKey, func(l *domain.Ledger) error {
		clone := l.Clone()
		out = clone.Installments
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
