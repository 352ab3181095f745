package leasing

import (
	"context"
	"testing"
	"time"

	domain "github.com/Uaq907/estateflow-sub003/internal/domain/leasing"
	"github.com/Uaq907/estateflow-sub003/internal/domain/shared"
	"github.com/Uaq907/estateflow-sub003/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func validRenewRequest(lease *domain.Lease) RenewLeaseRequest {
	return RenewLeaseRequest{
		LeaseID:          lease.ID,
		StartDate:        time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		EndDate:          time.Date(2025, 12, 31, 0, 0, 0, 0, time.UTC),
		TotalLeaseAmount: decimal.NewFromInt(12600),
		TaxedAmount:      decimal.NewFromInt(10500),
		NumberOfPayments: 12,
		TaxRate:          decimal.RequireFromString("0.05"),
	}
}

func newRenewalAppService(leaseRepo *MockLeaseRepository, installmentRepo *MockInstallmentRepository, txManager *MockTransactionManager) *RenewalAppService {
	return NewRenewalAppService(leaseRepo, installmentRepo, domain.NewRenewalService(), txManager, fixedClock())
}

func TestRenewalAppService_RenewLease(t *testing.T) {
	leaseRepo := new(MockLeaseRepository)
	installmentRepo := new(MockInstallmentRepository)
	txManager := new(MockTransactionManager)
	svc := newRenewalAppService(leaseRepo, installmentRepo, txManager)

	lease, installments := buildLeaseWithSchedule(t)
	// Settle all but the last two.
	for _, inst := range installments[:10] {
		_, err := inst.RecordPayment(valueobject.NewMoneyAED(inst.Balance()), fixedNow, domain.PaymentMethodBankTransfer, "", "", fixedNow)
		require.NoError(t, err)
	}

	txManager.On("WithinTransaction", mock.Anything).Return(nil)
	leaseRepo.On("FindByID", mock.Anything, lease.ID).Return(lease, nil)
	installmentRepo.On("FindByLease", mock.Anything, lease.ID).Return(installments, nil)
	leaseRepo.On("Save", mock.Anything, mock.AnythingOfType("*leasing.Lease")).Return(nil)
	installmentRepo.On("SaveAll", mock.Anything, mock.AnythingOfType("[]*leasing.Installment")).Return(nil)
	installmentRepo.On("SaveWithLock", mock.Anything, mock.AnythingOfType("*leasing.Installment")).Return(nil).Twice()
	leaseRepo.On("SaveWithLock", mock.Anything, lease).Return(nil)

	result, err := svc.RenewLease(context.Background(), validRenewRequest(lease))
	require.NoError(t, err)

	assert.Equal(t, domain.LeaseStatusCompletedWithDues, result.ClosedLease.Status)
	assert.Equal(t, domain.LeaseStatusActive, result.NewLease.Status)
	require.Len(t, result.TransferredInstallments, 2)
	require.Len(t, result.NewInstallments, 12)
	// Renewal schedules put the rounding remainder on the first slot.
	assert.True(t, result.NewInstallments[0].Amount.GreaterThanOrEqual(result.NewInstallments[1].Amount))

	leaseRepo.AssertExpectations(t)
	installmentRepo.AssertExpectations(t)
	txManager.AssertExpectations(t)
}

func TestRenewalAppService_RenewLease_NotActive(t *testing.T) {
	leaseRepo := new(MockLeaseRepository)
	installmentRepo := new(MockInstallmentRepository)
	txManager := new(MockTransactionManager)
	svc := newRenewalAppService(leaseRepo, installmentRepo, txManager)

	lease, installments := buildLeaseWithSchedule(t)
	require.NoError(t, lease.MarkExpired(lease.EndDate.AddDate(0, 0, 1)))

	txManager.On("WithinTransaction", mock.Anything).Return(nil)
	leaseRepo.On("FindByID", mock.Anything, lease.ID).Return(lease, nil)
	installmentRepo.On("FindByLease", mock.Anything, lease.ID).Return(installments, nil)

	_, err := svc.RenewLease(context.Background(), validRenewRequest(lease))
	assert.Equal(t, domain.ErrCodeRenewalNotAllowed, shared.ErrorCode(err))
	leaseRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestRenewalAppService_RenewLease_InvalidTerms(t *testing.T) {
	svc := newRenewalAppService(new(MockLeaseRepository), new(MockInstallmentRepository), new(MockTransactionManager))

	lease, _ := buildLeaseWithSchedule(t)
	req := validRenewRequest(lease)
	req.TaxRate = decimal.NewFromInt(-1)

	_, err := svc.RenewLease(context.Background(), req)
	assert.Equal(t, domain.ErrCodeInvalidSchedule, shared.ErrorCode(err))
}

func TestRenewalAppService_RenewLease_NotFound(t *testing.T) {
	leaseRepo := new(MockLeaseRepository)
	txManager := new(MockTransactionManager)
	svc := newRenewalAppService(leaseRepo, new(MockInstallmentRepository), txManager)

	lease, _ := buildLeaseWithSchedule(t)
	txManager.On("WithinTransaction", mock.Anything).Return(nil)
	leaseRepo.On("FindByID", mock.Anything, lease.ID).Return(nil, shared.ErrNotFound)

	_, err := svc.RenewLease(context.Background(), validRenewRequest(lease))
	assert.ErrorIs(t, err, shared.ErrNotFound)
}
