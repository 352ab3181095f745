package models

import (
	"time"

	"github.com/Uaq907/estateflow-sub003/internal/domain/leasing"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// LeaseModel is the persistence model for the Lease aggregate root.
type LeaseModel struct {
	AggregateModel
	UnitID                    uuid.UUID           `gorm:"type:uuid;not null;index"`
	TenantID                  uuid.UUID           `gorm:"type:uuid;not null;index"`
	StartDate                 time.Time           `gorm:"not null"`
	EndDate                   time.Time           `gorm:"not null;index"`
	Status                    leasing.LeaseStatus `gorm:"type:varchar(30);not null;default:'ACTIVE';index"`
	TotalLeaseAmount          decimal.Decimal     `gorm:"type:decimal(18,4);not null"`
	TaxedAmount               decimal.Decimal     `gorm:"type:decimal(18,4);not null"`
	NumberOfPayments          int                 `gorm:"not null"`
	TaxRate                   decimal.Decimal     `gorm:"type:decimal(8,6);not null"`
	RenewalIncreasePercentage *decimal.Decimal    `gorm:"type:decimal(8,4)"`
	PredecessorLeaseID        *uuid.UUID          `gorm:"type:uuid;index"`
	SuccessorLeaseID          *uuid.UUID          `gorm:"type:uuid;index"`
}

// TableName returns the table name for GORM
func (LeaseModel) TableName() string {
	return "leases"
}

// ToDomain converts the persistence model to a domain Lease entity.
func (m *LeaseModel) ToDomain() *leasing.Lease {
	return &leasing.Lease{
		BaseAggregateRoot:         m.baseAggregateRoot(),
		UnitID:                    m.UnitID,
		TenantID:                  m.TenantID,
		StartDate:                 m.StartDate,
		EndDate:                   m.EndDate,
		Status:                    m.Status,
		TotalLeaseAmount:          m.TotalLeaseAmount,
		TaxedAmount:               m.TaxedAmount,
		NumberOfPayments:          m.NumberOfPayments,
		TaxRate:                   m.TaxRate,
		RenewalIncreasePercentage: m.RenewalIncreasePercentage,
		PredecessorLeaseID:        m.PredecessorLeaseID,
		SuccessorLeaseID:          m.SuccessorLeaseID,
	}
}

// FromDomain populates the persistence model from a domain Lease entity.
func (m *LeaseModel) FromDomain(l *leasing.Lease) {
	m.FromDomainAggregateRoot(l.BaseAggregateRoot)
	m.UnitID = l.UnitID
	m.TenantID = l.TenantID
	m.StartDate = l.StartDate
	m.EndDate = l.EndDate
	m.Status = l.Status
	m.TotalLeaseAmount = l.TotalLeaseAmount
	m.TaxedAmount = l.TaxedAmount
	m.NumberOfPayments = l.NumberOfPayments
	m.TaxRate = l.TaxRate
	m.RenewalIncreasePercentage = l.RenewalIncreasePercentage
	m.PredecessorLeaseID = l.PredecessorLeaseID
	m.SuccessorLeaseID = l.SuccessorLeaseID
}

// LeaseModelFromDomain creates a new persistence model from a domain Lease.
func LeaseModelFromDomain(l *leasing.Lease) *LeaseModel {
	m := &LeaseModel{}
	m.FromDomain(l)
	return m
}

// InstallmentModel is the persistence model for the Installment aggregate
// root. Payment transactions are stored as a JSONB document; payment
// status is never stored, it is derived from the transactions on read.
type InstallmentModel struct {
	AggregateModel
	LeaseID          uuid.UUID                  `gorm:"type:uuid;not null;index"`
	Sequence         int                        `gorm:"not null"`
	DueDate          time.Time                  `gorm:"not null;index"`
	Amount           decimal.Decimal            `gorm:"type:decimal(18,4);not null"`
	TaxAmount        decimal.Decimal            `gorm:"type:decimal(18,4);not null"`
	TotalAmount      decimal.Decimal            `gorm:"type:decimal(18,4);not null"`
	Description      string                     `gorm:"type:varchar(200)"`
	ExtensionStatus  leasing.ExtensionStatus    `gorm:"type:varchar(20);not null;default:'NONE';index"`
	RequestedDueDate *time.Time
	ExtensionReason  string                     `gorm:"type:text"`
	ManagerNotes     string                     `gorm:"type:text"`
	Transactions     leasing.TransactionRecords `gorm:"type:jsonb;default:'[]'"`
}

// TableName returns the table name for GORM
func (InstallmentModel) TableName() string {
	return "installments"
}

// ToDomain converts the persistence model to a domain Installment entity.
func (m *InstallmentModel) ToDomain() *leasing.Installment {
	transactions := m.Transactions
	if transactions == nil {
		transactions = leasing.TransactionRecords{}
	}
	return &leasing.Installment{
		BaseAggregateRoot: m.baseAggregateRoot(),
		LeaseID:           m.LeaseID,
		Sequence:          m.Sequence,
		DueDate:           m.DueDate,
		Amount:            m.Amount,
		TaxAmount:         m.TaxAmount,
		TotalAmount:       m.TotalAmount,
		Description:       m.Description,
		ExtensionStatus:   m.ExtensionStatus,
		RequestedDueDate:  m.RequestedDueDate,
		ExtensionReason:   m.ExtensionReason,
		ManagerNotes:      m.ManagerNotes,
		Transactions:      transactions,
	}
}

// FromDomain populates the persistence model from a domain Installment entity.
func (m *InstallmentModel) FromDomain(i *leasing.Installment) {
	m.FromDomainAggregateRoot(i.BaseAggregateRoot)
	m.LeaseID = i.LeaseID
	m.Sequence = i.Sequence
	m.DueDate = i.DueDate
	m.Amount = i.Amount
	m.TaxAmount = i.TaxAmount
	m.TotalAmount = i.TotalAmount
	m.Description = i.Description
	m.ExtensionStatus = i.ExtensionStatus
	m.RequestedDueDate = i.RequestedDueDate
	m.ExtensionReason = i.ExtensionReason
	m.ManagerNotes = i.ManagerNotes
	m.Transactions = i.Transactions
}

// InstallmentModelFromDomain creates a new persistence model from a domain Installment.
func InstallmentModelFromDomain(i *leasing.Installment) *InstallmentModel {
	m := &InstallmentModel{}
	m.FromDomain(i)
	return m
}
