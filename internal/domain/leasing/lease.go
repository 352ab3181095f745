package leasing

import (
	"fmt"
	"time"

	"github.com/Uaq907/estateflow-sub003/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// LeaseStatus represents the lifecycle status of a lease
type LeaseStatus string

const (
	LeaseStatusActive            LeaseStatus = "ACTIVE"              // Running lease
	LeaseStatusExpired           LeaseStatus = "EXPIRED"             // Past end date, never renewed
	LeaseStatusCompleted         LeaseStatus = "COMPLETED"           // Closed at renewal with every installment paid
	LeaseStatusCompletedWithDues LeaseStatus = "COMPLETED_WITH_DUES" // Closed at renewal with balances carried to the successor
	LeaseStatusRenewed           LeaseStatus = "RENEWED"             // Accepted on read for historical rows; new closures use the COMPLETED states
)

// IsValid checks if the status is a valid LeaseStatus
func (s LeaseStatus) IsValid() bool {
	switch s {
	case LeaseStatusActive, LeaseStatusExpired, LeaseStatusCompleted,
		LeaseStatusCompletedWithDues, LeaseStatusRenewed:
		return true
	}
	return false
}

// String returns the string representation of LeaseStatus
func (s LeaseStatus) String() string {
	return string(s)
}

// IsTerminal returns true if the lease can no longer change status.
// Status only moves forward; a lease is never re-opened.
func (s LeaseStatus) IsTerminal() bool {
	return s != LeaseStatusActive
}

// Lease represents a tenancy agreement aggregate root: a tenant renting
// a unit for a fixed term, paid in a scheduled number of installments.
type Lease struct {
	shared.BaseAggregateRoot
	UnitID                    uuid.UUID        `json:"unit_id"`
	TenantID                  uuid.UUID        `json:"tenant_id"`
	StartDate                 time.Time        `json:"start_date"`
	EndDate                   time.Time        `json:"end_date"`
	Status                    LeaseStatus      `json:"status"`
	TotalLeaseAmount          decimal.Decimal  `json:"total_lease_amount"`
	TaxedAmount               decimal.Decimal  `json:"taxed_amount"`
	NumberOfPayments          int              `json:"number_of_payments"`
	TaxRate                   decimal.Decimal  `json:"tax_rate"`
	RenewalIncreasePercentage *decimal.Decimal `json:"renewal_increase_percentage,omitempty"`
	PredecessorLeaseID        *uuid.UUID       `json:"predecessor_lease_id,omitempty"`
	SuccessorLeaseID          *uuid.UUID       `json:"successor_lease_id,omitempty"`
}

// NewLease creates a new active lease from the given terms.
func NewLease(unitID, tenantID uuid.UUID, terms LeaseTerms) (*Lease, error) {
	if unitID == uuid.Nil {
		return nil, shared.NewDomainError(ErrCodeInvalidSchedule, "Unit ID cannot be empty")
	}
	if tenantID == uuid.Nil {
		return nil, shared.NewDomainError(ErrCodeInvalidSchedule, "Tenant ID cannot be empty")
	}
	if err := terms.Validate(); err != nil {
		return nil, err
	}

	l := &Lease{
		BaseAggregateRoot:         shared.NewBaseAggregateRoot(),
		UnitID:                    unitID,
		TenantID:                  tenantID,
		StartDate:                 terms.StartDate,
		EndDate:                   terms.EndDate,
		Status:                    LeaseStatusActive,
		TotalLeaseAmount:          terms.TotalLeaseAmount,
		TaxedAmount:               terms.TaxedAmount,
		NumberOfPayments:          terms.NumberOfPayments,
		TaxRate:                   terms.TaxRate.Rate(),
		RenewalIncreasePercentage: terms.RenewalIncreasePercentage,
	}

	l.AddDomainEvent(NewLeaseCreatedEvent(l))

	return l, nil
}

// newRenewalLease creates the successor lease during a renewal. Only the
// renewal service constructs leases with a predecessor link.
func newRenewalLease(unitID, tenantID uuid.UUID, terms LeaseTerms, predecessorID uuid.UUID) (*Lease, error) {
	l, err := NewLease(unitID, tenantID, terms)
	if err != nil {
		return nil, err
	}
	l.PredecessorLeaseID = &predecessorID
	return l, nil
}

// MarkExpired flags an active lease past its end date as expired.
func (l *Lease) MarkExpired(now time.Time) error {
	if l.Status != LeaseStatusActive {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot expire lease in %s status", l.Status))
	}
	if !now.After(l.EndDate) {
		return shared.NewDomainError("INVALID_STATE", "Lease end date has not passed")
	}

	l.Status = LeaseStatusExpired
	l.UpdatedAt = now
	l.IncrementVersion()

	l.AddDomainEvent(NewLeaseExpiredEvent(l))

	return nil
}

// completeForRenewal closes the lease as part of a renewal, linking the
// successor. withDues records whether unpaid installments were carried
// forward. Only the renewal service may call this.
func (l *Lease) completeForRenewal(successorID uuid.UUID, withDues bool, now time.Time) error {
	if l.Status != LeaseStatusActive {
		return shared.NewDomainError(ErrCodeRenewalNotAllowed, fmt.Sprintf("Cannot renew lease in %s status", l.Status))
	}

	if withDues {
		l.Status = LeaseStatusCompletedWithDues
	} else {
		l.Status = LeaseStatusCompleted
	}
	l.SuccessorLeaseID = &successorID
	l.UpdatedAt = now
	l.IncrementVersion()

	l.AddDomainEvent(NewLeaseRenewedEvent(l, successorID, withDues))

	return nil
}

// IsActive returns true if the lease is currently active
func (l *Lease) IsActive() bool {
	return l.Status == LeaseStatusActive
}

// HasSuccessor returns true if the lease has been renewed into a successor
func (l *Lease) HasSuccessor() bool {
	return l.SuccessorLeaseID != nil
}
