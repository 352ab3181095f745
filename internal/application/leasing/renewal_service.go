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

// RenewalAppService orchestrates lease renewals: it loads the lease and
// its installments, runs the domain renewal, and persists the whole
// result atomically.
type RenewalAppService struct {
	leaseRepo       leasing.LeaseRepository
	installmentRepo leasing.InstallmentRepository
	renewal         *leasing.RenewalService
	txManager       shared.TransactionManager
	clock           shared.Clock
	logger          *zap.Logger
}

// NewRenewalAppService creates a new RenewalAppService
func NewRenewalAppService(
	leaseRepo leasing.LeaseRepository,
	installmentRepo leasing.InstallmentRepository,
	renewal *leasing.RenewalService,
	txManager shared.TransactionManager,
	clock shared.Clock,
) *RenewalAppService {
	return &RenewalAppService{
		leaseRepo:       leaseRepo,
		installmentRepo: installmentRepo,
		renewal:         renewal,
		txManager:       txManager,
		clock:           clock,
		logger:          zap.NewNop(),
	}
}

// WithLogger sets the logger used to report domain events
func (s *RenewalAppService) WithLogger(logger *zap.Logger) *RenewalAppService {
	s.logger = logger
	return s
}

// RenewLeaseRequest represents a request to renew a lease into a
// successor term
type RenewLeaseRequest struct {
	LeaseID                   uuid.UUID
	StartDate                 time.Time
	EndDate                   time.Time
	TotalLeaseAmount          decimal.Decimal
	TaxedAmount               decimal.Decimal
	NumberOfPayments          int
	TaxRate                   decimal.Decimal
	RenewalIncreasePercentage *decimal.Decimal
}

// RenewLeaseResult is the persisted outcome of a renewal
type RenewLeaseResult struct {
	ClosedLease             *leasing.Lease
	NewLease                *leasing.Lease
	NewInstallments         []*leasing.Installment
	TransferredInstallments []*leasing.Installment
}

func (r RenewLeaseRequest) terms() (leasing.LeaseTerms, error) {
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

// RenewLease closes the lease and opens its successor in one
// transaction: the old lease's final status, the new lease, its fresh
// schedule and every carried-over installment are committed together or
// not at all.
func (s *RenewalAppService) RenewLease(ctx context.Context, req RenewLeaseRequest) (*RenewLeaseResult, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "renewal", "renew")
	defer span.End()

	telemetry.SetAttributes(span,
		telemetry.SpanAttrLeaseID, req.LeaseID.String(),
		telemetry.SpanAttrAmount, req.TotalLeaseAmount.String(),
	)

	terms, err := req.terms()
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	var result *leasing.RenewalResult
	err = s.txManager.WithinTransaction(ctx, func(txCtx context.Context) error {
		lease, err := s.leaseRepo.FindByID(txCtx, req.LeaseID)
		if err != nil {
			return fmt.Errorf("failed to get lease: %w", err)
		}

		installments, err := s.installmentRepo.FindByLease(txCtx, req.LeaseID)
		if err != nil {
			return fmt.Errorf("failed to get installments: %w", err)
		}

		result, err = s.renewal.Renew(lease, installments, terms, s.clock.Now())
		if err != nil {
			return err
		}

		if err := s.leaseRepo.Save(txCtx, result.NewLease); err != nil {
			return fmt.Errorf("failed to save new lease: %w", err)
		}
		if err := s.installmentRepo.SaveAll(txCtx, result.NewInstallments); err != nil {
			return fmt.Errorf("failed to save new installments: %w", err)
		}
		for _, inst := range result.TransferredInstallments {
			if err := s.installmentRepo.SaveWithLock(txCtx, inst); err != nil {
				return fmt.Errorf("failed to save transferred installment %s: %w", inst.ID, err)
			}
		}
		if err := s.leaseRepo.SaveWithLock(txCtx, result.ClosedLease); err != nil {
			return fmt.Errorf("failed to save closed lease: %w", err)
		}
		return nil
	})
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	telemetry.AddEvent(span, "lease_renewed",
		"new_lease_id", result.NewLease.ID.String(),
		"transferred_count", len(result.TransferredInstallments),
		"closed_status", string(result.ClosedLease.Status),
	)
	logDomainEvents(s.logger, result.ClosedLease, result.NewLease)
	for _, inst := range result.TransferredInstallments {
		logDomainEvents(s.logger, inst)
	}

	return &RenewLeaseResult{
		ClosedLease:             result.ClosedLease,
		NewLease:                result.NewLease,
		NewInstallments:         result.NewInstallments,
		TransferredInstallments: result.TransferredInstallments,
	}, nil
}
