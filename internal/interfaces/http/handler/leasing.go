package handler

import (
	"time"

	leasingapp "github.com/Uaq907/estateflow-sub003/internal/application/leasing"
	"github.com/Uaq907/estateflow-sub003/internal/domain/leasing"
	"github.com/Uaq907/estateflow-sub003/internal/domain/shared"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const dateLayout = "2006-01-02"

// LeasingHandler handles lease lifecycle API endpoints. The clock is the
// same one driving the services so derived installment state in
// responses is consistent with what was just persisted.
type LeasingHandler struct {
	BaseHandler
	leaseService     *leasingapp.LeaseService
	paymentService   *leasingapp.PaymentService
	extensionService *leasingapp.ExtensionService
	renewalService   *leasingapp.RenewalAppService
	clock            shared.Clock
}

// NewLeasingHandler creates a new LeasingHandler
func NewLeasingHandler(
	leaseService *leasingapp.LeaseService,
	paymentService *leasingapp.PaymentService,
	extensionService *leasingapp.ExtensionService,
	renewalService *leasingapp.RenewalAppService,
	clock shared.Clock,
) *LeasingHandler {
	return &LeasingHandler{
		leaseService:     leaseService,
		paymentService:   paymentService,
		extensionService: extensionService,
		renewalService:   renewalService,
		clock:            clock,
	}
}

// RegisterRoutes registers the leasing routes on the given group
func (h *LeasingHandler) RegisterRoutes(rg *gin.RouterGroup) {
	leases := rg.Group("/leases")
	leases.POST("", h.CreateLease)
	leases.GET("", h.ListLeases)
	leases.GET("/:id", h.GetLease)
	leases.POST("/:id/renew", h.RenewLease)
	leases.POST("/expired/sweep", h.SweepExpiredLeases)

	installments := rg.Group("/installments")
	installments.GET("/overdue", h.ListOverdueInstallments)
	installments.GET("/:id", h.GetInstallment)
	installments.POST("/:id/payments", h.RecordPayment)
	installments.POST("/:id/extension", h.RequestExtension)
	installments.POST("/:id/extension/decision", h.DecideExtension)

	rg.GET("/extensions/pending", h.ListPendingExtensions)
}

// ===================== Request/Response DTOs =====================

// CreateLeaseRequest represents a request to create a lease
// @Description Request body for creating a lease with its schedule
type CreateLeaseRequest struct {
	UnitID                    string   `json:"unit_id" binding:"required,uuid" example:"550e8400-e29b-41d4-a716-446655440000"`
	TenantID                  string   `json:"tenant_id" binding:"required,uuid" example:"550e8400-e29b-41d4-a716-446655440001"`
	StartDate                 string   `json:"start_date" binding:"required" example:"2026-01-01"`
	EndDate                   string   `json:"end_date" binding:"required" example:"2026-12-31"`
	TotalLeaseAmount          float64  `json:"total_lease_amount" binding:"required,gt=0" example:"52500.00"`
	TaxedAmount               float64  `json:"taxed_amount" binding:"gte=0" example:"50000.00"`
	NumberOfPayments          int      `json:"number_of_payments" binding:"required,min=1" example:"12"`
	TaxRate                   float64  `json:"tax_rate" binding:"gte=0,lte=1" example:"0.05"`
	RenewalIncreasePercentage *float64 `json:"renewal_increase_percentage,omitempty" example:"5.0"`
}

// RenewLeaseRequest represents a request to renew a lease
// @Description Request body for renewing a lease into a successor term
type RenewLeaseRequest struct {
	StartDate                 string   `json:"start_date" binding:"required" example:"2027-01-01"`
	EndDate                   string   `json:"end_date" binding:"required" example:"2027-12-31"`
	TotalLeaseAmount          float64  `json:"total_lease_amount" binding:"required,gt=0" example:"55125.00"`
	TaxedAmount               float64  `json:"taxed_amount" binding:"gte=0" example:"52500.00"`
	NumberOfPayments          int      `json:"number_of_payments" binding:"required,min=1" example:"12"`
	TaxRate                   float64  `json:"tax_rate" binding:"gte=0,lte=1" example:"0.05"`
	RenewalIncreasePercentage *float64 `json:"renewal_increase_percentage,omitempty" example:"5.0"`
}

// RecordPaymentRequest represents a request to record a payment
// @Description Request body for recording a payment against an installment
type RecordPaymentRequest struct {
	Amount      float64 `json:"amount" binding:"required,gt=0" example:"4375.00"`
	PaymentDate string  `json:"payment_date,omitempty" example:"2026-02-01"`
	Method      string  `json:"method" binding:"required" example:"BANK_TRANSFER"`
	Notes       string  `json:"notes,omitempty" example:"February rent"`
	DocumentURL string  `json:"document_url,omitempty" example:"https://docs.example.com/receipt-123.pdf"`
}

// RequestExtensionRequest represents a request to move a due date
// @Description Request body for a due-date extension request
type RequestExtensionRequest struct {
	RequestedDueDate string `json:"requested_due_date" binding:"required" example:"2026-03-15"`
	Reason           string `json:"reason,omitempty" example:"Salary delayed this month"`
}

// DecideExtensionRequest represents a manager's extension decision
// @Description Request body for approving or rejecting an extension
type DecideExtensionRequest struct {
	Approve      *bool  `json:"approve" binding:"required" example:"true"`
	ManagerNotes string `json:"manager_notes,omitempty" example:"One-time exception"`
}

// LeaseResponse represents a lease in API responses
// @Description Lease response
type LeaseResponse struct {
	ID                        string     `json:"id" example:"550e8400-e29b-41d4-a716-446655440000"`
	UnitID                    string     `json:"unit_id" example:"550e8400-e29b-41d4-a716-446655440001"`
	TenantID                  string     `json:"tenant_id" example:"550e8400-e29b-41d4-a716-446655440002"`
	StartDate                 time.Time  `json:"start_date"`
	EndDate                   time.Time  `json:"end_date"`
	Status                    string     `json:"status" example:"ACTIVE"`
	TotalLeaseAmount          float64    `json:"total_lease_amount" example:"52500.00"`
	TaxedAmount               float64    `json:"taxed_amount" example:"50000.00"`
	NumberOfPayments          int        `json:"number_of_payments" example:"12"`
	TaxRate                   float64    `json:"tax_rate" example:"0.05"`
	RenewalIncreasePercentage *float64   `json:"renewal_increase_percentage,omitempty" example:"5.0"`
	PredecessorLeaseID        *string    `json:"predecessor_lease_id,omitempty"`
	SuccessorLeaseID          *string    `json:"successor_lease_id,omitempty"`
	CreatedAt                 time.Time  `json:"created_at"`
	UpdatedAt                 time.Time  `json:"updated_at"`
	Version                   int        `json:"version" example:"1"`
}

// TransactionResponse represents a payment transaction in API responses
// @Description Payment transaction response
type TransactionResponse struct {
	ID          string    `json:"id" example:"550e8400-e29b-41d4-a716-446655440000"`
	AmountPaid  float64   `json:"amount_paid" example:"4375.00"`
	PaymentDate time.Time `json:"payment_date"`
	Method      string    `json:"method" example:"BANK_TRANSFER"`
	Notes       string    `json:"notes,omitempty" example:"February rent"`
	DocumentURL string    `json:"document_url,omitempty"`
	RecordedAt  time.Time `json:"recorded_at"`
}

// InstallmentResponse represents an installment in API responses.
// Status, paid amount, balance and progress are derived from the
// transaction history at response time.
// @Description Installment response
type InstallmentResponse struct {
	ID               string                `json:"id" example:"550e8400-e29b-41d4-a716-446655440000"`
	LeaseID          string                `json:"lease_id" example:"550e8400-e29b-41d4-a716-446655440001"`
	Sequence         int                   `json:"sequence" example:"1"`
	DueDate          time.Time             `json:"due_date"`
	EffectiveDueDate time.Time             `json:"effective_due_date"`
	Amount           float64               `json:"amount" example:"4166.67"`
	TaxAmount        float64               `json:"tax_amount" example:"208.33"`
	TotalAmount      float64               `json:"total_amount" example:"4375.00"`
	Description      string                `json:"description,omitempty"`
	Status           string                `json:"status" example:"PARTIALLY_PAID"`
	PaidAmount       float64               `json:"paid_amount" example:"2000.00"`
	Balance          float64               `json:"balance" example:"2375.00"`
	ProgressPercent  float64               `json:"progress_percent" example:"45.71"`
	ExtensionStatus  string                `json:"extension_status" example:"NONE"`
	RequestedDueDate *time.Time            `json:"requested_due_date,omitempty"`
	ExtensionReason  string                `json:"extension_reason,omitempty"`
	ManagerNotes     string                `json:"manager_notes,omitempty"`
	Transactions     []TransactionResponse `json:"transactions"`
	CreatedAt        time.Time             `json:"created_at"`
	UpdatedAt        time.Time             `json:"updated_at"`
	Version          int                   `json:"version" example:"1"`
}

// LeaseDetailResponse represents a lease with its installment schedule
// @Description Lease detail response
type LeaseDetailResponse struct {
	Lease              LeaseResponse         `json:"lease"`
	Installments       []InstallmentResponse `json:"installments"`
	OutstandingBalance float64               `json:"outstanding_balance" example:"8750.00"`
}

// PaymentResultResponse represents a recorded payment outcome
// @Description Payment result response
type PaymentResultResponse struct {
	Transaction TransactionResponse `json:"transaction"`
	Installment InstallmentResponse `json:"installment"`
}

// RenewLeaseResponse represents the outcome of a lease renewal
// @Description Renewal result response
type RenewLeaseResponse struct {
	ClosedLease             LeaseResponse         `json:"closed_lease"`
	NewLease                LeaseResponse         `json:"new_lease"`
	NewInstallments         []InstallmentResponse `json:"new_installments"`
	TransferredInstallments []InstallmentResponse `json:"transferred_installments"`
}

// SweepResultResponse represents the outcome of an expiry sweep
// @Description Expiry sweep result response
type SweepResultResponse struct {
	ExpiredCount int `json:"expired_count" example:"3"`
}

// ===================== Lease Handlers =====================

// CreateLease godoc
// @Summary      Create a lease
// @Description  Create an active lease and generate its full installment schedule
// @Tags         leasing
// @Accept       json
// @Produce      json
// @Param        request body CreateLeaseRequest true "Lease terms"
// @Success      201 {object} dto.Response{data=LeaseDetailResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /leasing/leases [post]
func (h *LeasingHandler) CreateLease(c *gin.Context) {
	var req CreateLeaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	unitID, err := uuid.Parse(req.UnitID)
	if err != nil {
		h.BadRequest(c, "Invalid unit ID format")
		return
	}
	tenantID, err := uuid.Parse(req.TenantID)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID format")
		return
	}
	startDate, err := time.Parse(dateLayout, req.StartDate)
	if err != nil {
		h.BadRequest(c, "Invalid start_date, expected YYYY-MM-DD")
		return
	}
	endDate, err := time.Parse(dateLayout, req.EndDate)
	if err != nil {
		h.BadRequest(c, "Invalid end_date, expected YYYY-MM-DD")
		return
	}

	detail, err := h.leaseService.CreateLease(c.Request.Context(), leasingapp.CreateLeaseRequest{
		UnitID:                    unitID,
		TenantID:                  tenantID,
		StartDate:                 startDate,
		EndDate:                   endDate,
		TotalLeaseAmount:          decimal.NewFromFloat(req.TotalLeaseAmount),
		TaxedAmount:               decimal.NewFromFloat(req.TaxedAmount),
		NumberOfPayments:          req.NumberOfPayments,
		TaxRate:                   decimal.NewFromFloat(req.TaxRate),
		RenewalIncreasePercentage: toDecimalPtr(req.RenewalIncreasePercentage),
	})
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, toLeaseDetailResponse(detail))
}

// GetLease godoc
// @Summary      Get a lease
// @Description  Retrieve a lease with its installments and their derived state
// @Tags         leasing
// @Produce      json
// @Param        id path string true "Lease ID" format(uuid)
// @Success      200 {object} dto.Response{data=LeaseDetailResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /leasing/leases/{id} [get]
func (h *LeasingHandler) GetLease(c *gin.Context) {
	leaseID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid lease ID format")
		return
	}

	detail, err := h.leaseService.GetLease(c.Request.Context(), leaseID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, toLeaseDetailResponse(detail))
}

// ListLeases godoc
// @Summary      List leases
// @Description  List the lease history of a unit or a tenant, newest first
// @Tags         leasing
// @Produce      json
// @Param        unit_id query string false "Unit ID" format(uuid)
// @Param        tenant_id query string false "Tenant ID" format(uuid)
// @Success      200 {object} dto.Response{data=[]LeaseResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /leasing/leases [get]
func (h *LeasingHandler) ListLeases(c *gin.Context) {
	unitIDParam := c.Query("unit_id")
	tenantIDParam := c.Query("tenant_id")

	var (
		leases []leasing.Lease
		err    error
	)
	switch {
	case unitIDParam != "":
		unitID, parseErr := uuid.Parse(unitIDParam)
		if parseErr != nil {
			h.BadRequest(c, "Invalid unit ID format")
			return
		}
		leases, err = h.leaseService.ListByUnit(c.Request.Context(), unitID)
	case tenantIDParam != "":
		tenantID, parseErr := uuid.Parse(tenantIDParam)
		if parseErr != nil {
			h.BadRequest(c, "Invalid tenant ID format")
			return
		}
		leases, err = h.leaseService.ListByTenant(c.Request.Context(), tenantID)
	default:
		h.BadRequest(c, "Either unit_id or tenant_id is required")
		return
	}
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	responses := make([]LeaseResponse, 0, len(leases))
	for idx := range leases {
		responses = append(responses, toLeaseResponse(&leases[idx]))
	}
	h.Success(c, responses)
}

// RenewLease godoc
// @Summary      Renew a lease
// @Description  Close a lease and open its successor, carrying over unpaid installments
// @Tags         leasing
// @Accept       json
// @Produce      json
// @Param        id path string true "Lease ID" format(uuid)
// @Param        request body RenewLeaseRequest true "New lease terms"
// @Success      201 {object} dto.Response{data=RenewLeaseResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /leasing/leases/{id}/renew [post]
func (h *LeasingHandler) RenewLease(c *gin.Context) {
	leaseID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid lease ID format")
		return
	}

	var req RenewLeaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	startDate, err := time.Parse(dateLayout, req.StartDate)
	if err != nil {
		h.BadRequest(c, "Invalid start_date, expected YYYY-MM-DD")
		return
	}
	endDate, err := time.Parse(dateLayout, req.EndDate)
	if err != nil {
		h.BadRequest(c, "Invalid end_date, expected YYYY-MM-DD")
		return
	}

	result, err := h.renewalService.RenewLease(c.Request.Context(), leasingapp.RenewLeaseRequest{
		LeaseID:                   leaseID,
		StartDate:                 startDate,
		EndDate:                   endDate,
		TotalLeaseAmount:          decimal.NewFromFloat(req.TotalLeaseAmount),
		TaxedAmount:               decimal.NewFromFloat(req.TaxedAmount),
		NumberOfPayments:          req.NumberOfPayments,
		TaxRate:                   decimal.NewFromFloat(req.TaxRate),
		RenewalIncreasePercentage: toDecimalPtr(req.RenewalIncreasePercentage),
	})
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	now := h.clock.Now()
	h.Created(c, RenewLeaseResponse{
		ClosedLease:             toLeaseResponse(result.ClosedLease),
		NewLease:                toLeaseResponse(result.NewLease),
		NewInstallments:         toInstallmentResponses(result.NewInstallments, now),
		TransferredInstallments: toInstallmentResponses(result.TransferredInstallments, now),
	})
}

// SweepExpiredLeases godoc
// @Summary      Expire overdue leases
// @Description  Mark every active lease past its end date as expired
// @Tags         leasing
// @Produce      json
// @Success      200 {object} dto.Response{data=SweepResultResponse}
// @Router       /leasing/leases/expired/sweep [post]
func (h *LeasingHandler) SweepExpiredLeases(c *gin.Context) {
	count, err := h.leaseService.ExpireLeases(c.Request.Context())
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, SweepResultResponse{ExpiredCount: count})
}

// ===================== Installment Handlers =====================

// GetInstallment godoc
// @Summary      Get an installment
// @Description  Retrieve an installment with its derived payment state
// @Tags         leasing
// @Produce      json
// @Param        id path string true "Installment ID" format(uuid)
// @Success      200 {object} dto.Response{data=InstallmentResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /leasing/installments/{id} [get]
func (h *LeasingHandler) GetInstallment(c *gin.Context) {
	installmentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid installment ID format")
		return
	}

	detail, err := h.paymentService.GetInstallment(c.Request.Context(), installmentID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, toInstallmentDetailResponse(*detail))
}

// RecordPayment godoc
// @Summary      Record a payment
// @Description  Append a payment transaction to an installment's ledger
// @Tags         leasing
// @Accept       json
// @Produce      json
// @Param        id path string true "Installment ID" format(uuid)
// @Param        request body RecordPaymentRequest true "Payment details"
// @Success      201 {object} dto.Response{data=PaymentResultResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /leasing/installments/{id}/payments [post]
func (h *LeasingHandler) RecordPayment(c *gin.Context) {
	installmentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid installment ID format")
		return
	}

	var req RecordPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	var paymentDate time.Time
	if req.PaymentDate != "" {
		paymentDate, err = time.Parse(dateLayout, req.PaymentDate)
		if err != nil {
			h.BadRequest(c, "Invalid payment_date, expected YYYY-MM-DD")
			return
		}
	}

	result, err := h.paymentService.RecordPayment(c.Request.Context(), leasingapp.RecordPaymentRequest{
		InstallmentID: installmentID,
		Amount:        decimal.NewFromFloat(req.Amount),
		PaymentDate:   paymentDate,
		Method:        leasing.PaymentMethod(req.Method),
		Notes:         req.Notes,
		DocumentURL:   req.DocumentURL,
	})
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, PaymentResultResponse{
		Transaction: toTransactionResponse(result.Transaction),
		Installment: toInstallmentResponseWithView(result.Installment, result.View),
	})
}

// ListOverdueInstallments godoc
// @Summary      List overdue installments
// @Description  List every unpaid installment past its effective due date
// @Tags         leasing
// @Produce      json
// @Success      200 {object} dto.Response{data=[]InstallmentResponse}
// @Router       /leasing/installments/overdue [get]
func (h *LeasingHandler) ListOverdueInstallments(c *gin.Context) {
	details, err := h.paymentService.ListOverdue(c.Request.Context())
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	responses := make([]InstallmentResponse, 0, len(details))
	for _, detail := range details {
		responses = append(responses, toInstallmentDetailResponse(detail))
	}
	h.Success(c, responses)
}

// ===================== Extension Handlers =====================

// RequestExtension godoc
// @Summary      Request a due-date extension
// @Description  Submit a tenant request to move an installment's due date
// @Tags         leasing
// @Accept       json
// @Produce      json
// @Param        id path string true "Installment ID" format(uuid)
// @Param        request body RequestExtensionRequest true "Extension request"
// @Success      200 {object} dto.Response{data=InstallmentResponse}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /leasing/installments/{id}/extension [post]
func (h *LeasingHandler) RequestExtension(c *gin.Context) {
	installmentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid installment ID format")
		return
	}

	var req RequestExtensionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	requestedDate, err := time.Parse(dateLayout, req.RequestedDueDate)
	if err != nil {
		h.BadRequest(c, "Invalid requested_due_date, expected YYYY-MM-DD")
		return
	}

	installment, err := h.extensionService.RequestExtension(c.Request.Context(), leasingapp.RequestExtensionRequest{
		InstallmentID:    installmentID,
		RequestedDueDate: requestedDate,
		Reason:           req.Reason,
	})
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, toInstallmentResponse(installment, h.clock.Now()))
}

// DecideExtension godoc
// @Summary      Decide an extension request
// @Description  Approve or reject a pending due-date extension request
// @Tags         leasing
// @Accept       json
// @Produce      json
// @Param        id path string true "Installment ID" format(uuid)
// @Param        request body DecideExtensionRequest true "Decision"
// @Success      200 {object} dto.Response{data=InstallmentResponse}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /leasing/installments/{id}/extension/decision [post]
func (h *LeasingHandler) DecideExtension(c *gin.Context) {
	installmentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid installment ID format")
		return
	}

	var req DecideExtensionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	installment, err := h.extensionService.DecideExtension(c.Request.Context(), leasingapp.DecideExtensionRequest{
		InstallmentID: installmentID,
		Approve:       *req.Approve,
		ManagerNotes:  req.ManagerNotes,
	})
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, toInstallmentResponse(installment, h.clock.Now()))
}

// ListPendingExtensions godoc
// @Summary      List pending extension requests
// @Description  List every installment with an undecided extension request
// @Tags         leasing
// @Produce      json
// @Success      200 {object} dto.Response{data=[]InstallmentResponse}
// @Router       /leasing/extensions/pending [get]
func (h *LeasingHandler) ListPendingExtensions(c *gin.Context) {
	installments, err := h.extensionService.ListPending(c.Request.Context())
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	now := h.clock.Now()
	responses := make([]InstallmentResponse, 0, len(installments))
	for _, inst := range installments {
		responses = append(responses, toInstallmentResponse(inst, now))
	}
	h.Success(c, responses)
}

// ===================== Response converters =====================

func toDecimalPtr(f *float64) *decimal.Decimal {
	if f == nil {
		return nil
	}
	d := decimal.NewFromFloat(*f)
	return &d
}

func toUUIDStringPtr(id *uuid.UUID) *string {
	if id == nil {
		return nil
	}
	s := id.String()
	return &s
}

func toLeaseResponse(l *leasing.Lease) LeaseResponse {
	var increase *float64
	if l.RenewalIncreasePercentage != nil {
		v := l.RenewalIncreasePercentage.InexactFloat64()
		increase = &v
	}
	return LeaseResponse{
		ID:                        l.ID.String(),
		UnitID:                    l.UnitID.String(),
		TenantID:                  l.TenantID.String(),
		StartDate:                 l.StartDate,
		EndDate:                   l.EndDate,
		Status:                    string(l.Status),
		TotalLeaseAmount:          l.TotalLeaseAmount.InexactFloat64(),
		TaxedAmount:               l.TaxedAmount.InexactFloat64(),
		NumberOfPayments:          l.NumberOfPayments,
		TaxRate:                   l.TaxRate.InexactFloat64(),
		RenewalIncreasePercentage: increase,
		PredecessorLeaseID:        toUUIDStringPtr(l.PredecessorLeaseID),
		SuccessorLeaseID:          toUUIDStringPtr(l.SuccessorLeaseID),
		CreatedAt:                 l.CreatedAt,
		UpdatedAt:                 l.UpdatedAt,
		Version:                   l.Version,
	}
}

func toTransactionResponse(t *leasing.TransactionRecord) TransactionResponse {
	return TransactionResponse{
		ID:          t.ID.String(),
		AmountPaid:  t.AmountPaid.InexactFloat64(),
		PaymentDate: t.PaymentDate,
		Method:      string(t.Method),
		Notes:       t.Notes,
		DocumentURL: t.DocumentURL,
		RecordedAt:  t.RecordedAt,
	}
}

func toInstallmentResponse(inst *leasing.Installment, asOf time.Time) InstallmentResponse {
	return toInstallmentResponseWithView(inst, inst.Snapshot(asOf))
}

func toInstallmentResponseWithView(inst *leasing.Installment, view leasing.InstallmentView) InstallmentResponse {
	transactions := make([]TransactionResponse, 0, len(inst.Transactions))
	for idx := range inst.Transactions {
		transactions = append(transactions, toTransactionResponse(&inst.Transactions[idx]))
	}
	return InstallmentResponse{
		ID:               inst.ID.String(),
		LeaseID:          inst.LeaseID.String(),
		Sequence:         inst.Sequence,
		DueDate:          inst.DueDate,
		EffectiveDueDate: view.EffectiveDueDate,
		Amount:           inst.Amount.InexactFloat64(),
		TaxAmount:        inst.TaxAmount.InexactFloat64(),
		TotalAmount:      inst.TotalAmount.InexactFloat64(),
		Description:      inst.Description,
		Status:           string(view.Status),
		PaidAmount:       view.PaidAmount.InexactFloat64(),
		Balance:          view.Balance.InexactFloat64(),
		ProgressPercent:  view.ProgressPercent.InexactFloat64(),
		ExtensionStatus:  string(inst.ExtensionStatus),
		RequestedDueDate: inst.RequestedDueDate,
		ExtensionReason:  inst.ExtensionReason,
		ManagerNotes:     inst.ManagerNotes,
		Transactions:     transactions,
		CreatedAt:        inst.CreatedAt,
		UpdatedAt:        inst.UpdatedAt,
		Version:          inst.Version,
	}
}

func toInstallmentResponses(installments []*leasing.Installment, asOf time.Time) []InstallmentResponse {
	responses := make([]InstallmentResponse, 0, len(installments))
	for _, inst := range installments {
		responses = append(responses, toInstallmentResponse(inst, asOf))
	}
	return responses
}

func toInstallmentDetailResponse(detail leasingapp.InstallmentDetail) InstallmentResponse {
	return toInstallmentResponseWithView(detail.Installment, detail.View)
}

func toLeaseDetailResponse(detail *leasingapp.LeaseDetail) LeaseDetailResponse {
	installments := make([]InstallmentResponse, 0, len(detail.Installments))
	for _, inst := range detail.Installments {
		installments = append(installments, toInstallmentDetailResponse(inst))
	}
	return LeaseDetailResponse{
		Lease:              toLeaseResponse(detail.Lease),
		Installments:       installments,
		OutstandingBalance: detail.OutstandingBalance.InexactFloat64(),
	}
}
