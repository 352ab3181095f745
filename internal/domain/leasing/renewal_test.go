package leasing

import (
	"testing"
	"time"

	"github.com/Uaq907/estateflow-sub003/internal/domain/shared"
	"github.com/Uaq907/estateflow-sub003/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func renewalTerms(t *testing.T) LeaseTerms {
	t.Helper()
	rate, err := valueobject.NewTaxRateFromFloat(0.05)
	require.NoError(t, err)
	return LeaseTerms{
		TotalLeaseAmount: decimal.NewFromInt(12600),
		TaxedAmount:      decimal.NewFromInt(10500),
		NumberOfPayments: 12,
		StartDate:        time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		EndDate:          time.Date(2025, 12, 31, 0, 0, 0, 0, time.UTC),
		TaxRate:          rate,
	}
}

func activeLeaseWithSchedule(t *testing.T) (*Lease, []*Installment) {
	t.Helper()
	lease, err := NewLease(uuid.New(), uuid.New(), testTerms(t))
	require.NoError(t, err)
	installments, err := Schedule(lease.ID, testTerms(t), RemainderLast)
	require.NoError(t, err)
	return lease, installments
}

func settleInstallment(t *testing.T, inst *Installment, now time.Time) {
	t.Helper()
	_, err := inst.RecordPayment(valueobject.NewMoneyAED(inst.Balance()), now, PaymentMethodBankTransfer, "", "", now)
	require.NoError(t, err)
}

func TestRenew_CarriesUnpaidInstallments(t *testing.T) {
	now := time.Date(2024, 12, 20, 0, 0, 0, 0, time.UTC)
	lease, installments := activeLeaseWithSchedule(t)

	// Pay 10 of 12, leave the last two outstanding.
	for _, inst := range installments[:10] {
		settleInstallment(t, inst, now)
	}

	result, err := NewRenewalService().Renew(lease, installments, renewalTerms(t), now)
	require.NoError(t, err)

	assert.Equal(t, LeaseStatusCompletedWithDues, result.ClosedLease.Status)
	assert.Equal(t, LeaseStatusActive, result.NewLease.Status)

	// Predecessor and successor link both ways.
	require.NotNil(t, result.ClosedLease.SuccessorLeaseID)
	assert.Equal(t, result.NewLease.ID, *result.ClosedLease.SuccessorLeaseID)
	require.NotNil(t, result.NewLease.PredecessorLeaseID)
	assert.Equal(t, result.ClosedLease.ID, *result.NewLease.PredecessorLeaseID)

	// The two unpaid installments now belong to the successor, ledgers
	// intact.
	require.Len(t, result.TransferredInstallments, 2)
	for _, inst := range result.TransferredInstallments {
		assert.Equal(t, result.NewLease.ID, inst.LeaseID)
		assert.True(t, inst.Balance().IsPositive())
	}
	assert.Equal(t, installments[10].ID, result.TransferredInstallments[0].ID)
	assert.Equal(t, installments[11].ID, result.TransferredInstallments[1].ID)

	// Paid installments stay on the closed lease.
	for _, inst := range installments[:10] {
		assert.Equal(t, result.ClosedLease.ID, inst.LeaseID)
	}

	require.Len(t, result.NewInstallments, 12)
	for _, inst := range result.NewInstallments {
		assert.Equal(t, result.NewLease.ID, inst.LeaseID)
		assert.Empty(t, inst.Transactions)
	}
}

func TestRenew_CleanWhenFullyPaid(t *testing.T) {
	now := time.Date(2024, 12, 20, 0, 0, 0, 0, time.UTC)
	lease, installments := activeLeaseWithSchedule(t)

	for _, inst := range installments {
		settleInstallment(t, inst, now)
	}

	result, err := NewRenewalService().Renew(lease, installments, renewalTerms(t), now)
	require.NoError(t, err)

	assert.Equal(t, LeaseStatusCompleted, result.ClosedLease.Status)
	assert.Empty(t, result.TransferredInstallments)
}

func TestRenew_PartiallyPaidIsCarried(t *testing.T) {
	now := time.Date(2024, 12, 20, 0, 0, 0, 0, time.UTC)
	lease, installments := activeLeaseWithSchedule(t)

	for _, inst := range installments[:11] {
		settleInstallment(t, inst, now)
	}
	// Half-pay the last one.
	half := installments[11].Balance().Div(decimal.NewFromInt(2)).Round(2)
	_, err := installments[11].RecordPayment(valueobject.NewMoneyAED(half), now, PaymentMethodCash, "", "", now)
	require.NoError(t, err)

	result, err := NewRenewalService().Renew(lease, installments, renewalTerms(t), now)
	require.NoError(t, err)

	assert.Equal(t, LeaseStatusCompletedWithDues, result.ClosedLease.Status)
	require.Len(t, result.TransferredInstallments, 1)
	carried := result.TransferredInstallments[0]
	assert.Equal(t, installments[11].ID, carried.ID)
	// Transaction history moves with the installment.
	assert.Equal(t, 1, carried.TransactionCount())
	assert.Equal(t, InstallmentStatusPartiallyPaid, carried.Status(now))
}

func TestRenew_PreservesMoney(t *testing.T) {
	now := time.Date(2024, 12, 20, 0, 0, 0, 0, time.UTC)
	lease, installments := activeLeaseWithSchedule(t)

	for _, inst := range installments[:9] {
		settleInstallment(t, inst, now)
	}

	outstandingBefore := decimal.Zero
	for _, inst := range installments {
		outstandingBefore = outstandingBefore.Add(inst.Balance())
	}

	terms := renewalTerms(t)
	result, err := NewRenewalService().Renew(lease, installments, terms, now)
	require.NoError(t, err)

	transferredSum := decimal.Zero
	for _, inst := range result.TransferredInstallments {
		transferredSum = transferredSum.Add(inst.Balance())
	}
	assert.True(t, transferredSum.Equal(outstandingBefore),
		"transferred %s != outstanding %s", transferredSum, outstandingBefore)

	newSum := decimal.Zero
	for _, inst := range result.NewInstallments {
		newSum = newSum.Add(inst.TotalAmount)
	}
	split, err := terms.TaxRate.Split(terms.TaxedAmount)
	require.NoError(t, err)
	expected := terms.TotalLeaseAmount.Add(split.TaxAmount)
	assert.True(t, newSum.Equal(expected), "new schedule %s != %s", newSum, expected)
}

func TestRenew_NewScheduleRemainderOnFirst(t *testing.T) {
	now := time.Date(2024, 12, 20, 0, 0, 0, 0, time.UTC)
	lease, installments := activeLeaseWithSchedule(t)

	terms := renewalTerms(t)
	terms.TotalLeaseAmount = decimal.NewFromInt(10000)
	terms.TaxedAmount = decimal.Zero
	terms.NumberOfPayments = 3

	result, err := NewRenewalService().Renew(lease, installments, terms, now)
	require.NoError(t, err)

	require.Len(t, result.NewInstallments, 3)
	assert.True(t, result.NewInstallments[0].Amount.Equal(decimal.RequireFromString("3333.34")))
	assert.True(t, result.NewInstallments[1].Amount.Equal(decimal.RequireFromString("3333.33")))
	assert.True(t, result.NewInstallments[2].Amount.Equal(decimal.RequireFromString("3333.33")))
}

func TestRenew_Guards(t *testing.T) {
	now := time.Date(2024, 12, 20, 0, 0, 0, 0, time.UTC)
	svc := NewRenewalService()

	t.Run("nil lease", func(t *testing.T) {
		_, err := svc.Renew(nil, nil, renewalTerms(t), now)
		assert.Equal(t, ErrCodeRenewalNotAllowed, shared.ErrorCode(err))
	})

	t.Run("non-active lease", func(t *testing.T) {
		lease, installments := activeLeaseWithSchedule(t)
		require.NoError(t, lease.MarkExpired(lease.EndDate.AddDate(0, 0, 1)))

		_, err := svc.Renew(lease, installments, renewalTerms(t), now)
		assert.Equal(t, ErrCodeRenewalNotAllowed, shared.ErrorCode(err))
	})

	t.Run("foreign installment", func(t *testing.T) {
		lease, installments := activeLeaseWithSchedule(t)
		foreign, err := NewInstallment(uuid.New(), 1, now, decimal.NewFromInt(100), decimal.Zero, "")
		require.NoError(t, err)
		installments = append(installments, foreign)

		_, err = svc.Renew(lease, installments, renewalTerms(t), now)
		assert.Equal(t, ErrCodeRenewalNotAllowed, shared.ErrorCode(err))
	})

	t.Run("invalid new terms leave old lease untouched", func(t *testing.T) {
		lease, installments := activeLeaseWithSchedule(t)
		badTerms := renewalTerms(t)
		badTerms.NumberOfPayments = 0

		_, err := svc.Renew(lease, installments, badTerms, now)
		assert.Equal(t, ErrCodeInvalidSchedule, shared.ErrorCode(err))
		assert.Equal(t, LeaseStatusActive, lease.Status)
		assert.Nil(t, lease.SuccessorLeaseID)
	})

	t.Run("renewed lease cannot be renewed again", func(t *testing.T) {
		lease, installments := activeLeaseWithSchedule(t)
		result, err := svc.Renew(lease, installments, renewalTerms(t), now)
		require.NoError(t, err)

		_, err = svc.Renew(result.ClosedLease, nil, renewalTerms(t), now)
		assert.Equal(t, ErrCodeRenewalNotAllowed, shared.ErrorCode(err))
	})
}
