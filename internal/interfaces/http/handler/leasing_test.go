package handler

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	leasingapp "github.com/Uaq907/estateflow-sub003/internal/application/leasing"
	"github.com/Uaq907/estateflow-sub003/internal/domain/leasing"
	"github.com/Uaq907/estateflow-sub003/internal/domain/shared"
	"github.com/Uaq907/estateflow-sub003/internal/infrastructure/persistence"
	"github.com/Uaq907/estateflow-sub003/internal/infrastructure/persistence/models"
	"github.com/Uaq907/estateflow-sub003/internal/interfaces/http/dto"
	"github.com/Uaq907/estateflow-sub003/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

var handlerTestNow = time.Date(2026, 1, 15, 12, 0, 0, 0, time.UTC)

func setupTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.LeaseModel{}, &models.InstallmentModel{}))

	leaseRepo := persistence.NewGormLeaseRepository(db)
	installmentRepo := persistence.NewGormInstallmentRepository(db)
	txManager := persistence.NewGormTransactionManager(db)
	clock := shared.FixedClock{Instant: handlerTestNow}

	leaseService := leasingapp.NewLeaseService(leaseRepo, installmentRepo, txManager, clock)
	paymentService := leasingapp.NewPaymentService(installmentRepo, clock)
	extensionService := leasingapp.NewExtensionService(installmentRepo, clock)
	renewalService := leasingapp.NewRenewalAppService(
		leaseRepo, installmentRepo, leasing.NewRenewalService(), txManager, clock)

	h := NewLeasingHandler(leaseService, paymentService, extensionService, renewalService, clock)

	engine := gin.New()
	engine.Use(middleware.RequestID())
	api := engine.Group("/api/v1/leasing")
	h.RegisterRoutes(api)

	return engine
}

func doJSON(t *testing.T, engine *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func decodeData[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var resp struct {
		Success bool           `json:"success"`
		Data    T              `json:"data"`
		Error   *dto.ErrorInfo `json:"error"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.True(t, resp.Success, "expected success response, got %s", w.Body.String())
	return resp.Data
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) dto.ErrorInfo {
	t.Helper()
	var resp struct {
		Success bool           `json:"success"`
		Error   *dto.ErrorInfo `json:"error"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.False(t, resp.Success)
	require.NotNil(t, resp.Error)
	return *resp.Error
}

func createLeaseRequest() CreateLeaseRequest {
	return CreateLeaseRequest{
		UnitID:           uuid.NewString(),
		TenantID:         uuid.NewString(),
		StartDate:        "2026-01-01",
		EndDate:          "2026-12-31",
		TotalLeaseAmount: 12600,
		TaxedAmount:      10500,
		NumberOfPayments: 12,
		TaxRate:          0.05,
	}
}

func createLease(t *testing.T, engine *gin.Engine) LeaseDetailResponse {
	t.Helper()
	w := doJSON(t, engine, http.MethodPost, "/api/v1/leasing/leases", createLeaseRequest())
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return decodeData[LeaseDetailResponse](t, w)
}

func TestLeasingHandler_CreateLease(t *testing.T) {
	engine := setupTestRouter(t)

	detail := createLease(t, engine)

	assert.Equal(t, "ACTIVE", detail.Lease.Status)
	assert.Equal(t, 12, detail.Lease.NumberOfPayments)
	require.Len(t, detail.Installments, 12)

	// 12600 base plus 5% tax on the taxed portion of 10500.
	total := 0.0
	for _, inst := range detail.Installments {
		total += inst.TotalAmount
	}
	assert.InDelta(t, 13125, total, 0.001)
	assert.InDelta(t, 13125, detail.OutstandingBalance, 0.001)

	// First installment was due Jan 1 and nothing is paid.
	assert.Equal(t, "OVERDUE", detail.Installments[0].Status)
	assert.Equal(t, "PENDING", detail.Installments[11].Status)
}

func TestLeasingHandler_CreateLease_Validation(t *testing.T) {
	engine := setupTestRouter(t)

	t.Run("malformed body", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/leasing/leases", bytes.NewReader([]byte("{")))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, req)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("bad date", func(t *testing.T) {
		body := createLeaseRequest()
		body.StartDate = "01/01/2026"
		w := doJSON(t, engine, http.MethodPost, "/api/v1/leasing/leases", body)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, dto.ErrCodeBadRequest, decodeError(t, w).Code)
	})

	t.Run("end before start", func(t *testing.T) {
		body := createLeaseRequest()
		body.EndDate = "2025-01-01"
		w := doJSON(t, engine, http.MethodPost, "/api/v1/leasing/leases", body)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, dto.ErrCodeInvalidSchedule, decodeError(t, w).Code)
	})
}

func TestLeasingHandler_GetLease_NotFound(t *testing.T) {
	engine := setupTestRouter(t)

	w := doJSON(t, engine, http.MethodGet, "/api/v1/leasing/leases/"+uuid.NewString(), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	errInfo := decodeError(t, w)
	assert.Equal(t, dto.ErrCodeNotFound, errInfo.Code)
	assert.NotEmpty(t, errInfo.RequestID)
}

func TestLeasingHandler_ListLeases(t *testing.T) {
	engine := setupTestRouter(t)
	detail := createLease(t, engine)

	w := doJSON(t, engine, http.MethodGet, "/api/v1/leasing/leases?unit_id="+detail.Lease.UnitID, nil)
	require.Equal(t, http.StatusOK, w.Code)
	leases := decodeData[[]LeaseResponse](t, w)
	require.Len(t, leases, 1)
	assert.Equal(t, detail.Lease.ID, leases[0].ID)

	w = doJSON(t, engine, http.MethodGet, "/api/v1/leasing/leases", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestLeasingHandler_RecordPayment(t *testing.T) {
	engine := setupTestRouter(t)
	detail := createLease(t, engine)
	installment := detail.Installments[0]

	path := fmt.Sprintf("/api/v1/leasing/installments/%s/payments", installment.ID)
	w := doJSON(t, engine, http.MethodPost, path, RecordPaymentRequest{
		Amount: 500,
		Method: "BANK_TRANSFER",
		Notes:  "first half",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	result := decodeData[PaymentResultResponse](t, w)
	assert.Equal(t, "PARTIALLY_PAID", result.Installment.Status)
	assert.InDelta(t, 500, result.Installment.PaidAmount, 0.001)
	assert.InDelta(t, installment.TotalAmount-500, result.Installment.Balance, 0.001)
	// Payment date defaults to the current time when omitted.
	assert.Equal(t, handlerTestNow.Year(), result.Transaction.PaymentDate.Year())

	t.Run("overpayment is rejected", func(t *testing.T) {
		w := doJSON(t, engine, http.MethodPost, path, RecordPaymentRequest{
			Amount: installment.TotalAmount,
			Method: "CASH",
		})
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		assert.Equal(t, dto.ErrCodeOverpayment, decodeError(t, w).Code)
	})

	t.Run("unknown method is rejected", func(t *testing.T) {
		w := doJSON(t, engine, http.MethodPost, path, RecordPaymentRequest{
			Amount: 10,
			Method: "BARTER",
		})
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, dto.ErrCodeInvalidAmount, decodeError(t, w).Code)
	})
}

func TestLeasingHandler_OverdueList(t *testing.T) {
	engine := setupTestRouter(t)
	createLease(t, engine)

	w := doJSON(t, engine, http.MethodGet, "/api/v1/leasing/installments/overdue", nil)
	require.Equal(t, http.StatusOK, w.Code)

	overdue := decodeData[[]InstallmentResponse](t, w)
	// Only the January installment is past due on Jan 15.
	require.Len(t, overdue, 1)
	assert.Equal(t, "OVERDUE", overdue[0].Status)
	assert.Equal(t, 1, overdue[0].Sequence)
}

func TestLeasingHandler_ExtensionFlow(t *testing.T) {
	engine := setupTestRouter(t)
	detail := createLease(t, engine)
	installment := detail.Installments[0]

	requestPath := fmt.Sprintf("/api/v1/leasing/installments/%s/extension", installment.ID)
	w := doJSON(t, engine, http.MethodPost, requestPath, RequestExtensionRequest{
		RequestedDueDate: "2026-03-15",
		Reason:           "salary delayed",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "PENDING", decodeData[InstallmentResponse](t, w).ExtensionStatus)

	pending := doJSON(t, engine, http.MethodGet, "/api/v1/leasing/extensions/pending", nil)
	require.Equal(t, http.StatusOK, pending.Code)
	require.Len(t, decodeData[[]InstallmentResponse](t, pending), 1)

	decisionPath := requestPath + "/decision"

	t.Run("reject without notes fails", func(t *testing.T) {
		approve := false
		w := doJSON(t, engine, http.MethodPost, decisionPath, DecideExtensionRequest{Approve: &approve})
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		assert.Equal(t, dto.ErrCodeInvalidExtension, decodeError(t, w).Code)
	})

	t.Run("approve moves the effective due date", func(t *testing.T) {
		approve := true
		w := doJSON(t, engine, http.MethodPost, decisionPath, DecideExtensionRequest{
			Approve:      &approve,
			ManagerNotes: "ok this once",
		})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		inst := decodeData[InstallmentResponse](t, w)
		assert.Equal(t, "APPROVED", inst.ExtensionStatus)
		assert.Equal(t, 2026, inst.EffectiveDueDate.Year())
		assert.Equal(t, time.March, inst.EffectiveDueDate.Month())
		// No longer overdue once the approved date is in the future.
		assert.Equal(t, "PENDING", inst.Status)
	})
}

func TestLeasingHandler_RenewLease(t *testing.T) {
	engine := setupTestRouter(t)
	detail := createLease(t, engine)

	// Settle every installment except the last.
	for _, inst := range detail.Installments[:11] {
		path := fmt.Sprintf("/api/v1/leasing/installments/%s/payments", inst.ID)
		w := doJSON(t, engine, http.MethodPost, path, RecordPaymentRequest{
			Amount: inst.TotalAmount,
			Method: "CHEQUE",
		})
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	}

	renewPath := fmt.Sprintf("/api/v1/leasing/leases/%s/renew", detail.Lease.ID)
	w := doJSON(t, engine, http.MethodPost, renewPath, RenewLeaseRequest{
		StartDate:        "2027-01-01",
		EndDate:          "2027-12-31",
		TotalLeaseAmount: 13230,
		TaxedAmount:      11025,
		NumberOfPayments: 12,
		TaxRate:          0.05,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	result := decodeData[RenewLeaseResponse](t, w)
	assert.Equal(t, "COMPLETED_WITH_DUES", result.ClosedLease.Status)
	assert.Equal(t, "ACTIVE", result.NewLease.Status)
	require.NotNil(t, result.ClosedLease.SuccessorLeaseID)
	assert.Equal(t, result.NewLease.ID, *result.ClosedLease.SuccessorLeaseID)
	require.Len(t, result.NewInstallments, 12)
	require.Len(t, result.TransferredInstallments, 1)
	assert.Equal(t, result.NewLease.ID, result.TransferredInstallments[0].LeaseID)

	t.Run("renewing a closed lease fails", func(t *testing.T) {
		w := doJSON(t, engine, http.MethodPost, renewPath, RenewLeaseRequest{
			StartDate:        "2028-01-01",
			EndDate:          "2028-12-31",
			TotalLeaseAmount: 13230,
			TaxedAmount:      11025,
			NumberOfPayments: 12,
			TaxRate:          0.05,
		})
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		assert.Equal(t, dto.ErrCodeRenewalNotAllowed, decodeError(t, w).Code)
	})
}
