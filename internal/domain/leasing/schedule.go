package leasing

import (
	"fmt"

	"time"

	"github.com/Uaq907/estateflow-sub003/internal/domain/shared"
	"github.com/Uaq907/estateflow-sub003/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// LeaseTerms holds the contracted inputs the scheduler turns into an
// installment plan.
type LeaseTerms struct {
	TotalLeaseAmount          decimal.Decimal
	TaxedAmount               decimal.Decimal // VAT-applicable portion of the total; the rest is exempt
	NumberOfPayments          int
	StartDate                 time.Time
	EndDate                   time.Time
	TaxRate                   valueobject.TaxRate
	RenewalIncreasePercentage *decimal.Decimal
}

// Validate checks the terms for schedulability.
func (t LeaseTerms) Validate() error {
	if t.NumberOfPayments < 1 {
		return shared.NewDomainError(ErrCodeInvalidSchedule, "Number of payments must be at least 1")
	}
	if !t.TotalLeaseAmount.IsPositive() {
		return shared.NewDomainError(ErrCodeInvalidSchedule, "Total lease amount must be positive")
	}
	if t.TaxedAmount.IsNegative() {
		return shared.NewDomainError(ErrCodeInvalidSchedule, "Taxed amount cannot be negative")
	}
	if t.TaxedAmount.GreaterThan(t.TotalLeaseAmount) {
		return shared.NewDomainError(ErrCodeInvalidSchedule, "Taxed amount cannot exceed total lease amount")
	}
	if !t.EndDate.After(t.StartDate) {
		return shared.NewDomainError(ErrCodeInvalidSchedule, "Lease end date must be after start date")
	}
	return nil
}

// RemainderPosition selects which installment absorbs the rounding
// remainder when the lease total does not divide evenly.
type RemainderPosition string

const (
	// RemainderLast puts the remainder on the final installment. Used for
	// fresh leases.
	RemainderLast RemainderPosition = "LAST"
	// RemainderFirst puts the remainder on the first installment. Used for
	// renewal schedules so transferred historical dues and brand-new dues
	// are distinguishable by position.
	RemainderFirst RemainderPosition = "FIRST"
)

// Schedule produces the ordered installment plan for a lease. The base
// amounts sum exactly to TotalLeaseAmount and the tax amounts sum exactly
// to the tax on TaxedAmount; both rounding remainders land on the
// installment selected by remainder. Due dates are evenly spaced across
// the term, truncated to whole days. Pure: nothing is persisted.
func Schedule(leaseID uuid.UUID, terms LeaseTerms, remainder RemainderPosition) ([]*Installment, error) {
	if err := terms.Validate(); err != nil {
		return nil, err
	}

	n := terms.NumberOfPayments
	nDec := decimal.NewFromInt(int64(n))
	others := decimal.NewFromInt(int64(n - 1))

	perBase := terms.TotalLeaseAmount.Div(nDec).Truncate(2)
	remainderBase := terms.TotalLeaseAmount.Sub(perBase.Mul(others))

	perTaxed := terms.TaxedAmount.Div(nDec).Truncate(2)

	totalSplit, err := terms.TaxRate.Split(terms.TaxedAmount)
	if err != nil {
		return nil, shared.NewDomainError(ErrCodeInvalidSchedule, err.Error())
	}
	perSplit, err := terms.TaxRate.Split(perTaxed)
	if err != nil {
		return nil, shared.NewDomainError(ErrCodeInvalidSchedule, err.Error())
	}
	remainderTax := totalSplit.TaxAmount.Sub(perSplit.TaxAmount.Mul(others))
	if remainderTax.IsNegative() {
		return nil, shared.NewDomainError(ErrCodeInvalidSchedule,
			fmt.Sprintf("Tax rounding cannot be reconciled across %d payments of taxed amount %s", n, terms.TaxedAmount))
	}

	totalDays := int(terms.EndDate.Sub(terms.StartDate).Hours() / 24)

	installments := make([]*Installment, 0, n)
	for idx := 0; idx < n; idx++ {
		base := perBase
		tax := perSplit.TaxAmount
		if isRemainderSlot(idx, n, remainder) {
			base = remainderBase
			tax = remainderTax
		}

		dueDate := terms.StartDate.AddDate(0, 0, idx*totalDays/n)
		description := fmt.Sprintf("Installment %d of %d", idx+1, n)

		inst, err := NewInstallment(leaseID, idx+1, dueDate, base, tax, description)
		if err != nil {
			return nil, err
		}
		installments = append(installments, inst)
	}

	return installments, nil
}

func isRemainderSlot(idx, n int, remainder RemainderPosition) bool {
	if remainder == RemainderFirst {
		return idx == 0
	}
	return idx == n-1
}
