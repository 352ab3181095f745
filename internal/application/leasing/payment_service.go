package leasing

import (
	"context"
	"fmt"
	"time"

	"github.com/Uaq907/estateflow-sub003/internal/domain/leasing"
	"github.com/Uaq907/estateflow-sub003/internal/domain/shared"
	"github.com/Uaq907/estateflow-sub003/internal/domain/shared/valueobject"
	"github.com/Uaq907/estateflow-sub003/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// PaymentService records payments against installments
type PaymentService struct {
	installmentRepo leasing.InstallmentRepository
	clock           shared.Clock
	logger          *zap.Logger
}

// NewPaymentService creates a new PaymentService
func NewPaymentService(installmentRepo leasing.InstallmentRepository, clock shared.Clock) *PaymentService {
	return &PaymentService{
		installmentRepo: installmentRepo,
		clock:           clock,
		logger:          zap.NewNop(),
	}
}

// WithLogger sets the logger used to report domain events
func (s *PaymentService) WithLogger(logger *zap.Logger) *PaymentService {
	s.logger = logger
	return s
}

// RecordPaymentRequest represents a request to record a payment against
// an installment
type RecordPaymentRequest struct {
	InstallmentID uuid.UUID
	Amount        decimal.Decimal
	PaymentDate   time.Time
	Method        leasing.PaymentMethod
	Notes         string
	DocumentURL   string
}

// RecordPaymentResult is the outcome of a recorded payment
type RecordPaymentResult struct {
	Transaction *leasing.TransactionRecord
	Installment *leasing.Installment
	View        leasing.InstallmentView
}

// RecordPayment validates and appends a payment transaction to an
// installment. The save uses optimistic locking so two concurrent
// payments cannot both settle the same balance; the loser gets a
// CONCURRENCY_CONFLICT and should retry against the fresh ledger.
func (s *PaymentService) RecordPayment(ctx context.Context, req RecordPaymentRequest) (*RecordPaymentResult, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "payment", "record")
	defer span.End()

	telemetry.SetAttributes(span,
		telemetry.SpanAttrInstallmentID, req.InstallmentID.String(),
		telemetry.SpanAttrAmount, req.Amount.String(),
		telemetry.SpanAttrMethod, string(req.Method),
	)

	installment, err := s.installmentRepo.FindByID(ctx, req.InstallmentID)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, fmt.Errorf("failed to get installment: %w", err)
	}

	now := s.clock.Now()
	paymentDate := req.PaymentDate
	if paymentDate.IsZero() {
		paymentDate = now
	}

	record, err := installment.RecordPayment(
		valueobject.NewMoneyAED(req.Amount), paymentDate, req.Method, req.Notes, req.DocumentURL, now)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	if err := s.installmentRepo.SaveWithLock(ctx, installment); err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	telemetry.AddEvent(span, "payment_recorded",
		"transaction_id", record.ID.String(),
		"balance", installment.Balance().String(),
	)
	logDomainEvents(s.logger, installment)

	return &RecordPaymentResult{
		Transaction: record,
		Installment: installment,
		View:        installment.Snapshot(now),
	}, nil
}

// GetInstallment returns an installment with its state derived as of now.
func (s *PaymentService) GetInstallment(ctx context.Context, installmentID uuid.UUID) (*InstallmentDetail, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "payment", "get_installment")
	defer span.End()

	telemetry.SetAttribute(span, telemetry.SpanAttrInstallmentID, installmentID.String())

	installment, err := s.installmentRepo.FindByID(ctx, installmentID)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, fmt.Errorf("failed to get installment: %w", err)
	}

	return &InstallmentDetail{
		Installment: installment,
		View:        installment.Snapshot(s.clock.Now()),
	}, nil
}

// ListOverdue returns every unpaid installment past its effective due
// date as of now.
func (s *PaymentService) ListOverdue(ctx context.Context) ([]InstallmentDetail, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "payment", "list_overdue")
	defer span.End()

	now := s.clock.Now()
	installments, err := s.installmentRepo.FindOverdue(ctx, now)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, fmt.Errorf("failed to list overdue installments: %w", err)
	}

	details := make([]InstallmentDetail, 0, len(installments))
	for _, inst := range installments {
		details = append(details, InstallmentDetail{Installment: inst, View: inst.Snapshot(now)})
	}

	telemetry.SetAttribute(span, "overdue_count", len(details))

	return details, nil
}
