package leasing

import (
	"time"

	"github.com/Uaq907/estateflow-sub003/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// LeaseCreatedEvent is raised when a new lease is created
type LeaseCreatedEvent struct {
	shared.BaseDomainEvent
	LeaseID            uuid.UUID       `json:"lease_id"`
	UnitID             uuid.UUID       `json:"unit_id"`
	TenantID           uuid.UUID       `json:"tenant_id"`
	StartDate          time.Time       `json:"start_date"`
	EndDate            time.Time       `json:"end_date"`
	TotalLeaseAmount   decimal.Decimal `json:"total_lease_amount"`
	NumberOfPayments   int             `json:"number_of_payments"`
	PredecessorLeaseID *uuid.UUID      `json:"predecessor_lease_id,omitempty"`
}

// NewLeaseCreatedEvent creates a new LeaseCreatedEvent
func NewLeaseCreatedEvent(l *Lease) *LeaseCreatedEvent {
	return &LeaseCreatedEvent{
		BaseDomainEvent:    shared.NewBaseDomainEvent("LeaseCreated", "Lease", l.ID),
		LeaseID:            l.ID,
		UnitID:             l.UnitID,
		TenantID:           l.TenantID,
		StartDate:          l.StartDate,
		EndDate:            l.EndDate,
		TotalLeaseAmount:   l.TotalLeaseAmount,
		NumberOfPayments:   l.NumberOfPayments,
		PredecessorLeaseID: l.PredecessorLeaseID,
	}
}

// LeaseExpiredEvent is raised when an active lease passes its end date
// without renewal
type LeaseExpiredEvent struct {
	shared.BaseDomainEvent
	LeaseID uuid.UUID `json:"lease_id"`
	UnitID  uuid.UUID `json:"unit_id"`
	EndDate time.Time `json:"end_date"`
}

// NewLeaseExpiredEvent creates a new LeaseExpiredEvent
func NewLeaseExpiredEvent(l *Lease) *LeaseExpiredEvent {
	return &LeaseExpiredEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("LeaseExpired", "Lease", l.ID),
		LeaseID:         l.ID,
		UnitID:          l.UnitID,
		EndDate:         l.EndDate,
	}
}

// LeaseRenewedEvent is raised on the predecessor lease when a renewal
// closes it and opens a successor
type LeaseRenewedEvent struct {
	shared.BaseDomainEvent
	LeaseID          uuid.UUID   `json:"lease_id"`
	SuccessorLeaseID uuid.UUID   `json:"successor_lease_id"`
	ClosedStatus     LeaseStatus `json:"closed_status"`
	DuesCarried      bool        `json:"dues_carried"`
}

// NewLeaseRenewedEvent creates a new LeaseRenewedEvent
func NewLeaseRenewedEvent(l *Lease, successorID uuid.UUID, duesCarried bool) *LeaseRenewedEvent {
	return &LeaseRenewedEvent{
		BaseDomainEvent:  shared.NewBaseDomainEvent("LeaseRenewed", "Lease", l.ID),
		LeaseID:          l.ID,
		SuccessorLeaseID: successorID,
		ClosedStatus:     l.Status,
		DuesCarried:      duesCarried,
	}
}
