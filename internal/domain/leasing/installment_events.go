package leasing

import (
	"time"

	"github.com/Uaq907/estateflow-sub003/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PaymentRecordedEvent is raised when a payment transaction is appended
// to an installment
type PaymentRecordedEvent struct {
	shared.BaseDomainEvent
	InstallmentID uuid.UUID       `json:"installment_id"`
	LeaseID       uuid.UUID       `json:"lease_id"`
	TransactionID uuid.UUID       `json:"transaction_id"`
	AmountPaid    decimal.Decimal `json:"amount_paid"`
	Method        PaymentMethod   `json:"method"`
	Balance       decimal.Decimal `json:"balance"`
}

// NewPaymentRecordedEvent creates a new PaymentRecordedEvent
func NewPaymentRecordedEvent(i *Installment, record *TransactionRecord) *PaymentRecordedEvent {
	return &PaymentRecordedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("PaymentRecorded", "Installment", i.ID),
		InstallmentID:   i.ID,
		LeaseID:         i.LeaseID,
		TransactionID:   record.ID,
		AmountPaid:      record.AmountPaid,
		Method:          record.Method,
		Balance:         i.Balance(),
	}
}

// InstallmentPaidEvent is raised when an installment's balance reaches zero
type InstallmentPaidEvent struct {
	shared.BaseDomainEvent
	InstallmentID uuid.UUID       `json:"installment_id"`
	LeaseID       uuid.UUID       `json:"lease_id"`
	TotalAmount   decimal.Decimal `json:"total_amount"`
}

// NewInstallmentPaidEvent creates a new InstallmentPaidEvent
func NewInstallmentPaidEvent(i *Installment) *InstallmentPaidEvent {
	return &InstallmentPaidEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("InstallmentPaid", "Installment", i.ID),
		InstallmentID:   i.ID,
		LeaseID:         i.LeaseID,
		TotalAmount:     i.TotalAmount,
	}
}

// ExtensionRequestedEvent is raised when a tenant requests a due-date
// extension
type ExtensionRequestedEvent struct {
	shared.BaseDomainEvent
	InstallmentID    uuid.UUID `json:"installment_id"`
	LeaseID          uuid.UUID `json:"lease_id"`
	CurrentDueDate   time.Time `json:"current_due_date"`
	RequestedDueDate time.Time `json:"requested_due_date"`
	Reason           string    `json:"reason,omitempty"`
}

// NewExtensionRequestedEvent creates a new ExtensionRequestedEvent
func NewExtensionRequestedEvent(i *Installment, requestedDate time.Time, reason string) *ExtensionRequestedEvent {
	return &ExtensionRequestedEvent{
		BaseDomainEvent:  shared.NewBaseDomainEvent("ExtensionRequested", "Installment", i.ID),
		InstallmentID:    i.ID,
		LeaseID:          i.LeaseID,
		CurrentDueDate:   i.DueDate,
		RequestedDueDate: requestedDate,
		Reason:           reason,
	}
}

// ExtensionApprovedEvent is raised when a manager approves an extension
type ExtensionApprovedEvent struct {
	shared.BaseDomainEvent
	InstallmentID    uuid.UUID  `json:"installment_id"`
	LeaseID          uuid.UUID  `json:"lease_id"`
	OriginalDueDate  time.Time  `json:"original_due_date"`
	EffectiveDueDate *time.Time `json:"effective_due_date"`
}

// NewExtensionApprovedEvent creates a new ExtensionApprovedEvent
func NewExtensionApprovedEvent(i *Installment) *ExtensionApprovedEvent {
	return &ExtensionApprovedEvent{
		BaseDomainEvent:  shared.NewBaseDomainEvent("ExtensionApproved", "Installment", i.ID),
		InstallmentID:    i.ID,
		LeaseID:          i.LeaseID,
		OriginalDueDate:  i.DueDate,
		EffectiveDueDate: i.RequestedDueDate,
	}
}

// ExtensionRejectedEvent is raised when a manager rejects an extension
type ExtensionRejectedEvent struct {
	shared.BaseDomainEvent
	InstallmentID uuid.UUID `json:"installment_id"`
	LeaseID       uuid.UUID `json:"lease_id"`
	ManagerNotes  string    `json:"manager_notes"`
}

// NewExtensionRejectedEvent creates a new ExtensionRejectedEvent
func NewExtensionRejectedEvent(i *Installment, managerNotes string) *ExtensionRejectedEvent {
	return &ExtensionRejectedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("ExtensionRejected", "Installment", i.ID),
		InstallmentID:   i.ID,
		LeaseID:         i.LeaseID,
		ManagerNotes:    managerNotes,
	}
}

// InstallmentReassignedEvent is raised when a renewal carries an unpaid
// installment to the successor lease
type InstallmentReassignedEvent struct {
	shared.BaseDomainEvent
	InstallmentID   uuid.UUID       `json:"installment_id"`
	PreviousLeaseID uuid.UUID       `json:"previous_lease_id"`
	NewLeaseID      uuid.UUID       `json:"new_lease_id"`
	Balance         decimal.Decimal `json:"balance"`
}

// NewInstallmentReassignedEvent creates a new InstallmentReassignedEvent
func NewInstallmentReassignedEvent(i *Installment, previousLeaseID, newLeaseID uuid.UUID) *InstallmentReassignedEvent {
	return &InstallmentReassignedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("InstallmentReassigned", "Installment", i.ID),
		InstallmentID:   i.ID,
		PreviousLeaseID: previousLeaseID,
		NewLeaseID:      newLeaseID,
		Balance:         i.Balance(),
	}
}
