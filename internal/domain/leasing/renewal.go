package leasing

import (
	"fmt"
	"time"

	"github.com/Uaq907/estateflow-sub003/internal/domain/shared"
)

// RenewalService closes an active lease and opens its successor, carrying
// every installment that is not fully paid into the new lease. It is the
// only component allowed to change an installment's owning lease. The
// service is pure: the caller persists the result inside one transaction
// so no half-migrated renewal is ever observable.
type RenewalService struct{}

// NewRenewalService creates a new RenewalService
func NewRenewalService() *RenewalService {
	return &RenewalService{}
}

// RenewalResult is the outcome of a renewal: the closed predecessor, the
// active successor with its fresh schedule, and the unpaid installments
// that moved across.
type RenewalResult struct {
	ClosedLease             *Lease
	NewLease                *Lease
	NewInstallments         []*Installment
	TransferredInstallments []*Installment
}

// Renew validates and performs the renewal in memory. installments must
// be the complete set currently owned by oldLease. The new schedule puts
// its rounding remainder on the first installment so carried-over dues
// and new dues are distinguishable by position.
func (s *RenewalService) Renew(oldLease *Lease, installments []*Installment, newTerms LeaseTerms, now time.Time) (*RenewalResult, error) {
	if oldLease == nil {
		return nil, shared.NewDomainError(ErrCodeRenewalNotAllowed, "Lease is required")
	}
	if !oldLease.IsActive() {
		return nil, shared.NewDomainError(ErrCodeRenewalNotAllowed,
			fmt.Sprintf("Cannot renew lease in %s status", oldLease.Status))
	}
	for _, inst := range installments {
		if inst.LeaseID != oldLease.ID {
			return nil, shared.NewDomainError(ErrCodeRenewalNotAllowed,
				fmt.Sprintf("Installment %s does not belong to lease %s", inst.ID, oldLease.ID))
		}
	}

	newLease, err := newRenewalLease(oldLease.UnitID, oldLease.TenantID, newTerms, oldLease.ID)
	if err != nil {
		return nil, err
	}

	newInstallments, err := Schedule(newLease.ID, newTerms, RemainderFirst)
	if err != nil {
		return nil, err
	}

	outstanding := make([]*Installment, 0, len(installments))
	for _, inst := range installments {
		if inst.Status(now) != InstallmentStatusPaid {
			outstanding = append(outstanding, inst)
		}
	}

	for _, inst := range outstanding {
		if err := inst.reassignTo(newLease.ID, now); err != nil {
			return nil, err
		}
	}

	if err := oldLease.completeForRenewal(newLease.ID, len(outstanding) > 0, now); err != nil {
		return nil, err
	}

	return &RenewalResult{
		ClosedLease:             oldLease,
		NewLease:                newLease,
		NewInstallments:         newInstallments,
		TransferredInstallments: outstanding,
	}, nil
}
