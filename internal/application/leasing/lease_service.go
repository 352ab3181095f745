// Package leasing contains the application services orchestrating the
// lease and payment lifecycle: scheduling, ledger updates, extension
// decisions and renewals.
package leasing

import (
	"context"
	"fmt"
	"time"

	"github.com/Uaq907/estateflow-sub003/internal/domain/leasing"
	"github.com/Uaq907/estateflow-sub003/internal/domain/shared"
	"github.com/Uaq907/estateflow-sub003/internal/domain/shared/valueobject"
	"github.com/Uaq907/estateflow-sub003/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// LeaseService handles lease creation and read operations
type LeaseService struct {
	leaseRepo       leasing.LeaseRepository
	installmentRepo leasing.InstallmentRepository
	txManager       shared.TransactionManager
	clock           shared.Clock
	logger          *zap.Logger
}

// NewLeaseService creates a new LeaseService
func NewLeaseService(
	leaseRepo leasing.LeaseRepository,
	installmentRepo leasing.InstallmentRepository,
	txManager shared.TransactionManager,
	clock shared.Clock,
) *LeaseService {
	return &LeaseService{
		leaseRepo:       leaseRepo,
		installmentRepo: installmentRepo,
		txManager:       txManager,
		clock:           clock,
		logger:          zap.NewNop(),
	}
}

// WithLogger sets the logger used to report domain events
func (s *LeaseService) WithLogger(logger *zap.Logger) *LeaseService {
	s.logger = logger
	return s
}

// CreateLeaseRequest represents a request to create a lease with its
// installment schedule
type CreateLeaseRequest struct {
	UnitID                    uuid.UUID
	TenantID                  uuid.UUID
	StartDate                 time.Time
	EndDate                   time.Time
	TotalLeaseAmount          decimal.Decimal
	TaxedAmount               decimal.Decimal
	NumberOfPayments          int
	TaxRate                   decimal.Decimal
	RenewalIncreasePercentage *decimal.Decimal
}

// LeaseDetail is a lease together with its installments and their
// derived state
type LeaseDetail struct {
	Lease              *leasing.Lease
	Installments       []InstallmentDetail
	OutstandingBalance decimal.Decimal
}

// InstallmentDetail pairs an installment with its derived view
type InstallmentDetail struct {
	Installment *leasing.Installment
	View        leasing.InstallmentView
}

func (r CreateLeaseRequest) terms() (leasing.LeaseTerms, error) {
	rate, err := valueobject.NewTaxRate(r.TaxRate)
	if err != nil {
		return leasing.LeaseTerms{}, shared.NewDomainError(leasing.ErrCodeInvalidSchedule, err.Error())
	}
	return leasing.LeaseTerms{
		TotalLeaseAmount:          r.TotalLeaseAmount,
		TaxedAmount:               r.TaxedAmount,
		NumberOfPayments:          r.NumberOfPayments,
		StartDate:                 r.StartDate,
		EndDate:                   r.EndDate,
		TaxRate:                   rate,
		RenewalIncreasePercentage: r.RenewalIncreasePercentage,
	}, nil
}

// CreateLease creates an active lease and generates its full installment
// schedule. The lease and every installment are persisted in one
// transaction so a lease is never observable without its schedule.
func (s *LeaseService) CreateLease(ctx context.Context, req CreateLeaseRequest) (*LeaseDetail, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "lease", "create")
	defer span.End()

	telemetry.SetAttributes(span,
		telemetry.SpanAttrUnitID, req.UnitID.String(),
		telemetry.SpanAttrTenantID, req.TenantID.String(),
		telemetry.SpanAttrAmount, req.TotalLeaseAmount.String(),
	)

	terms, err := req.terms()
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	lease, err := leasing.NewLease(req.UnitID, req.TenantID, terms)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	installments, err := leasing.Schedule(lease.ID, terms, leasing.RemainderLast)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	err = s.txManager.WithinTransaction(ctx, func(txCtx context.Context) error {
		if err := s.leaseRepo.Save(txCtx, lease); err != nil {
			return fmt.Errorf("failed to save lease: %w", err)
		}
		if err := s.installmentRepo.SaveAll(txCtx, installments); err != nil {
			return fmt.Errorf("failed to save installments: %w", err)
		}
		return nil
	})
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	telemetry.AddEvent(span, "lease_created",
		telemetry.SpanAttrLeaseID, lease.ID.String(),
		"installments", len(installments),
	)
	logDomainEvents(s.logger, lease)
	for _, inst := range installments {
		logDomainEvents(s.logger, inst)
	}

	return s.detail(lease, installments), nil
}

// GetLease returns a lease with its installments and their state derived
// as of now.
func (s *LeaseService) GetLease(ctx context.Context, leaseID uuid.UUID) (*LeaseDetail, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "lease", "get")
	defer span.End()

	telemetry.SetAttribute(span, telemetry.SpanAttrLeaseID, leaseID.String())

	lease, err := s.leaseRepo.FindByID(ctx, leaseID)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, fmt.Errorf("failed to get lease: %w", err)
	}

	installments, err := s.installmentRepo.FindByLease(ctx, leaseID)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, fmt.Errorf("failed to get installments: %w", err)
	}

	return s.detail(lease, installments), nil
}

// ListByUnit returns the lease history of a unit, newest first.
func (s *LeaseService) ListByUnit(ctx context.Context, unitID uuid.UUID) ([]leasing.Lease, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "lease", "list_by_unit")
	defer span.End()

	telemetry.SetAttribute(span, telemetry.SpanAttrUnitID, unitID.String())

	leases, err := s.leaseRepo.FindByUnit(ctx, unitID)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, fmt.Errorf("failed to list leases: %w", err)
	}
	return leases, nil
}

// ListByTenant returns the lease history of a tenant, newest first.
func (s *LeaseService) ListByTenant(ctx context.Context, tenantID uuid.UUID) ([]leasing.Lease, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "lease", "list_by_tenant")
	defer span.End()

	telemetry.SetAttribute(span, telemetry.SpanAttrTenantID, tenantID.String())

	leases, err := s.leaseRepo.FindByTenant(ctx, tenantID)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, fmt.Errorf("failed to list leases: %w", err)
	}
	return leases, nil
}

// ExpireLeases marks every active lease whose end date has passed as
// expired. Intended to run on a schedule; returns the number of leases
// transitioned.
func (s *LeaseService) ExpireLeases(ctx context.Context) (int, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "lease", "expire_sweep")
	defer span.End()

	now := s.clock.Now()

	leases, err := s.leaseRepo.FindActive(ctx)
	if err != nil {
		telemetry.RecordError(span, err)
		return 0, fmt.Errorf("failed to list active leases: %w", err)
	}

	expired := 0
	for idx := range leases {
		lease := &leases[idx]
		if !now.After(lease.EndDate) {
			continue
		}
		if err := lease.MarkExpired(now); err != nil {
			telemetry.RecordError(span, err)
			return expired, err
		}
		if err := s.leaseRepo.SaveWithLock(ctx, lease); err != nil {
			telemetry.RecordError(span, err)
			return expired, fmt.Errorf("failed to save expired lease: %w", err)
		}
		logDomainEvents(s.logger, lease)
		expired++
	}

	telemetry.SetAttribute(span, "expired_count", expired)

	return expired, nil
}

func (s *LeaseService) detail(lease *leasing.Lease, installments []*leasing.Installment) *LeaseDetail {
	now := s.clock.Now()
	details := make([]InstallmentDetail, 0, len(installments))
	outstanding := decimal.Zero
	for _, inst := range installments {
		details = append(details, InstallmentDetail{
			Installment: inst,
			View:        inst.Snapshot(now),
		})
		outstanding = outstanding.Add(inst.Balance())
	}
	return &LeaseDetail{Lease: lease, Installments: details, OutstandingBalance: outstanding}
}
