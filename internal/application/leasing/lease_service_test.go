package leasing

import (
	"context"
	"errors"
	"testing"
	"time"

	domain "github.com/Uaq907/estateflow-sub003/internal/domain/leasing"
	"github.com/Uaq907/estateflow-sub003/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)

func fixedClock() shared.Clock {
	return shared.FixedClock{Instant: fixedNow}
}

func validCreateRequest() CreateLeaseRequest {
	return CreateLeaseRequest{
		UnitID:           uuid.New(),
		TenantID:         uuid.New(),
		StartDate:        time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		EndDate:          time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC),
		TotalLeaseAmount: decimal.NewFromInt(12000),
		TaxedAmount:      decimal.NewFromInt(10000),
		NumberOfPayments: 12,
		TaxRate:          decimal.RequireFromString("0.05"),
	}
}

func TestLeaseService_CreateLease(t *testing.T) {
	leaseRepo := new(MockLeaseRepository)
	installmentRepo := new(MockInstallmentRepository)
	txManager := new(MockTransactionManager)
	svc := NewLeaseService(leaseRepo, installmentRepo, txManager, fixedClock())

	txManager.On("WithinTransaction", mock.Anything).Return(nil)
	leaseRepo.On("Save", mock.Anything, mock.AnythingOfType("*leasing.Lease")).Return(nil)
	installmentRepo.On("SaveAll", mock.Anything, mock.AnythingOfType("[]*leasing.Installment")).Return(nil)

	detail, err := svc.CreateLease(context.Background(), validCreateRequest())
	require.NoError(t, err)

	assert.Equal(t, domain.LeaseStatusActive, detail.Lease.Status)
	require.Len(t, detail.Installments, 12)
	for idx, inst := range detail.Installments {
		assert.Equal(t, detail.Lease.ID, inst.Installment.LeaseID)
		assert.Equal(t, idx+1, inst.Installment.Sequence)
	}

	leaseRepo.AssertExpectations(t)
	installmentRepo.AssertExpectations(t)
	txManager.AssertExpectations(t)
}

func TestLeaseService_CreateLease_InvalidTerms(t *testing.T) {
	svc := NewLeaseService(new(MockLeaseRepository), new(MockInstallmentRepository), new(MockTransactionManager), fixedClock())

	req := validCreateRequest()
	req.NumberOfPayments = 0

	_, err := svc.CreateLease(context.Background(), req)
	assert.Equal(t, domain.ErrCodeInvalidSchedule, shared.ErrorCode(err))
}

func TestLeaseService_CreateLease_InvalidTaxRate(t *testing.T) {
	svc := NewLeaseService(new(MockLeaseRepository), new(MockInstallmentRepository), new(MockTransactionManager), fixedClock())

	req := validCreateRequest()
	req.TaxRate = decimal.NewFromInt(2)

	_, err := svc.CreateLease(context.Background(), req)
	assert.Equal(t, domain.ErrCodeInvalidSchedule, shared.ErrorCode(err))
}

func TestLeaseService_CreateLease_RollsBackOnSaveFailure(t *testing.T) {
	leaseRepo := new(MockLeaseRepository)
	installmentRepo := new(MockInstallmentRepository)
	txManager := new(MockTransactionManager)
	svc := NewLeaseService(leaseRepo, installmentRepo, txManager, fixedClock())

	txManager.On("WithinTransaction", mock.Anything).Return(nil)
	leaseRepo.On("Save", mock.Anything, mock.Anything).Return(errors.New("db down"))

	_, err := svc.CreateLease(context.Background(), validCreateRequest())
	require.Error(t, err)
	installmentRepo.AssertNotCalled(t, "SaveAll", mock.Anything, mock.Anything)
}

func TestLeaseService_GetLease(t *testing.T) {
	leaseRepo := new(MockLeaseRepository)
	installmentRepo := new(MockInstallmentRepository)
	svc := NewLeaseService(leaseRepo, installmentRepo, new(MockTransactionManager), fixedClock())

	lease, installments := buildLeaseWithSchedule(t)
	leaseRepo.On("FindByID", mock.Anything, lease.ID).Return(lease, nil)
	installmentRepo.On("FindByLease", mock.Anything, lease.ID).Return(installments, nil)

	detail, err := svc.GetLease(context.Background(), lease.ID)
	require.NoError(t, err)
	assert.Equal(t, lease.ID, detail.Lease.ID)
	require.Len(t, detail.Installments, len(installments))
	// Schedule started January, so early unpaid installments are overdue
	// as of mid-June.
	assert.Equal(t, domain.InstallmentStatusOverdue, detail.Installments[0].View.Status)
}

func TestLeaseService_GetLease_NotFound(t *testing.T) {
	leaseRepo := new(MockLeaseRepository)
	svc := NewLeaseService(leaseRepo, new(MockInstallmentRepository), new(MockTransactionManager), fixedClock())

	id := uuid.New()
	leaseRepo.On("FindByID", mock.Anything, id).Return(nil, shared.ErrNotFound)

	_, err := svc.GetLease(context.Background(), id)
	require.Error(t, err)
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestLeaseService_ExpireLeases(t *testing.T) {
	leaseRepo := new(MockLeaseRepository)
	svc := NewLeaseService(leaseRepo, new(MockInstallmentRepository), new(MockTransactionManager), fixedClock())

	ended, _ := buildLeaseWithSchedule(t)
	ended.EndDate = fixedNow.AddDate(0, -1, 0)
	running, _ := buildLeaseWithSchedule(t)
	running.EndDate = fixedNow.AddDate(0, 6, 0)

	leaseRepo.On("FindActive", mock.Anything).Return([]domain.Lease{*ended, *running}, nil)
	leaseRepo.On("SaveWithLock", mock.Anything, mock.AnythingOfType("*leasing.Lease")).Return(nil).Once()

	count, err := svc.ExpireLeases(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, count)
	leaseRepo.AssertExpectations(t)
}

func buildLeaseWithSchedule(t *testing.T) (*domain.Lease, []*domain.Installment) {
	t.Helper()
	req := validCreateRequest()
	terms, err := req.terms()
	require.NoError(t, err)
	lease, err := domain.NewLease(req.UnitID, req.TenantID, terms)
	require.NoError(t, err)
	installments, err := domain.Schedule(lease.ID, terms, domain.RemainderLast)
	require.NoError(t, err)
	return lease, installments
}
