package services

import (
	"context"

	"github.com/MKH354/hutangku/internal/core/domain"
	"github.com/MKH354/hutangku/internal/dto"
)

// LedgerSvcFacade exposes every ledger mutation and read. Mutations return
// the updated record plus a syncWarning flag: true means the mutation applied
// in memory but the durable write failed (the caller may retry manually; the
// in-memory state is authoritative either way).
type LedgerSvcFacade interface {
	AddDebt(ctx context.Context, syncKey string, req dto.CreateDebtRequest) (*domain.DebtRecord, bool, error)
	EditDebt(ctx context.Context, syncKey, debtID string, req dto.UpdateDebtRequest) (*domain.DebtRecord, bool, error)
	DeleteDebt(ctx context.Context, syncKey, debtID string) (bool, error)
	ToggleDebtStatus(ctx context.Context, syncKey, debtID string) (*domain.DebtRecord, bool, error)
	AddDebtPayment(ctx context.Context, syncKey, debtID string, req dto.AddPaymentRequest) (*domain.DebtRecord, bool, error)
	RemoveDebtPayment(ctx context.Context, syncKey, debtID, paymentID string) (*domain.DebtRecord, bool, error)
	GetDebt(ctx context.Context, syncKey, debtID string) (*domain.DebtRecord, error)
	ListDebts(ctx context.Context, syncKey string) ([]domain.DebtRecord, error)

	AddInstallmentPlan(ctx context.Context, syncKey string, req dto.CreateInstallmentPlanRequest) (*domain.InstallmentPlan, bool, error)
	EditInstallmentPlan(ctx context.Context, syncKey, planID string, req dto.UpdateInstallmentPlanRequest) (*domain.InstallmentPlan, bool, error)
	DeleteInstallmentPlan(ctx context.Context, syncKey, planID string) (bool, error)
	PayInstallment(ctx context.Context, syncKey, planID string, req dto.AddPaymentRequest) (*domain.InstallmentPlan, bool, error)
	RemoveInstallmentPayment(ctx context.Context, syncKey, planID, paymentID string) (*domain.InstallmentPlan, bool, error)
	GetInstallmentPlan(ctx context.Context, syncKey, planID string) (*domain.InstallmentPlan, error)
	ListInstallmentPlans(ctx context.Context, syncKey string) ([]domain.InstallmentPlan, error)
}

// CalendarSvcFacade projects ledger state into calendar reminder artifacts.
// It never mutates the ledger.
type CalendarSvcFacade interface {
	ExportAll(ctx context.Context, syncKey string) (*dto.CalendarExport, error)
	ExportDebt(ctx context.Context, syncKey, debtID string) (*dto.CalendarExport, error)
	ExportInstallment(ctx context.Context, syncKey, planID string) (*dto.CalendarExport, error)
	NextDueDate(ctx context.Context, syncKey, planID string) (*dto.NextDueResponse, error)
}

// ReportingSvcFacade provides read-only aggregates over a ledger.
type ReportingSvcFacade interface {
	Summary(ctx context.Context, syncKey string) (*dto.LedgerSummary, error)
}

// ServiceContainer bundles the service facades handed to route registration.
type ServiceContainer struct {
	Ledger    LedgerSvcFacade
	Calendar  CalendarSvcFacade
	Reporting ReportingSvcFacade
}
