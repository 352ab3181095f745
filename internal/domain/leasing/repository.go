package leasing

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// LeaseRepository defines the interface for lease persistence
type LeaseRepository interface {
	// FindByID finds a lease by ID
	FindByID(ctx context.Context, id uuid.UUID) (*Lease, error)

	// FindByUnit finds leases for a unit, newest first
	FindByUnit(ctx context.Context, unitID uuid.UUID) ([]Lease, error)

	// FindByTenant finds leases for a tenant, newest first
	FindByTenant(ctx context.Context, tenantID uuid.UUID) ([]Lease, error)

	// FindActive finds all active leases
	FindActive(ctx context.Context) ([]Lease, error)

	// Save creates or updates a lease
	Save(ctx context.Context, lease *Lease) error

	// SaveWithLock saves with optimistic locking (version check)
	SaveWithLock(ctx context.Context, lease *Lease) error
}

// InstallmentRepository defines the interface for installment persistence
type InstallmentRepository interface {
	// FindByID finds an installment by ID
	FindByID(ctx context.Context, id uuid.UUID) (*Installment, error)

	// FindByLease finds all installments owned by a lease, ordered by
	// sequence
	FindByLease(ctx context.Context, leaseID uuid.UUID) ([]*Installment, error)

	// FindOverdue finds unpaid installments whose effective due date is
	// before asOf, across all leases
	FindOverdue(ctx context.Context, asOf time.Time) ([]*Installment, error)

	// FindPendingExtensions finds installments with an undecided
	// extension request
	FindPendingExtensions(ctx context.Context) ([]*Installment, error)

	// Save creates or updates an installment
	Save(ctx context.Context, installment *Installment) error

	// SaveAll creates or updates a batch of installments
	SaveAll(ctx context.Context, installments []*Installment) error

	// SaveWithLock saves with optimistic locking (version check)
	SaveWithLock(ctx context.Context, installment *Installment) error
}
