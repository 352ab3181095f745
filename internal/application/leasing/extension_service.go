package leasing

import (
	"context"
	"fmt"
	"time"

	"github.com/Uaq907/estateflow-sub003/internal/domain/leasing"
	"github.com/Uaq907/estateflow-sub003/internal/domain/shared"
	"github.com/Uaq907/estateflow-sub003/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ExtensionService handles due-date extension requests and decisions
type ExtensionService struct {
	installmentRepo leasing.InstallmentRepository
	clock           shared.Clock
	logger          *zap.Logger
}

// NewExtensionService creates a new ExtensionService
func NewExtensionService(installmentRepo leasing.InstallmentRepository, clock shared.Clock) *ExtensionService {
	return &ExtensionService{
		installmentRepo: installmentRepo,
		clock:           clock,
		logger:          zap.NewNop(),
	}
}

// WithLogger sets the logger used to report domain events
func (s *ExtensionService) WithLogger(logger *zap.Logger) *ExtensionService {
	s.logger = logger
	return s
}

// RequestExtensionRequest represents a tenant's request to move an
// installment's due date
type RequestExtensionRequest struct {
	InstallmentID    uuid.UUID
	RequestedDueDate time.Time
	Reason           string
}

// DecideExtensionRequest represents a manager's decision on a pending
// extension request
type DecideExtensionRequest struct {
	InstallmentID uuid.UUID
	Approve       bool
	ManagerNotes  string
}

// RequestExtension submits a due-date extension request for an
// installment.
func (s *ExtensionService) RequestExtension(ctx context.Context, req RequestExtensionRequest) (*leasing.Installment, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "extension", "request")
	defer span.End()

	telemetry.SetAttributes(span,
		telemetry.SpanAttrInstallmentID, req.InstallmentID.String(),
		"requested_due_date", req.RequestedDueDate.Format(time.RFC3339),
	)

	installment, err := s.installmentRepo.FindByID(ctx, req.InstallmentID)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, fmt.Errorf("failed to get installment: %w", err)
	}

	if err := installment.RequestExtension(req.RequestedDueDate, req.Reason, s.clock.Now()); err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	if err := s.installmentRepo.SaveWithLock(ctx, installment); err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	logDomainEvents(s.logger, installment)

	return installment, nil
}

// DecideExtension approves or rejects a pending extension request.
// Rejection requires manager notes; approval makes the requested date
// the effective due date.
func (s *ExtensionService) DecideExtension(ctx context.Context, req DecideExtensionRequest) (*leasing.Installment, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "extension", "decide")
	defer span.End()

	telemetry.SetAttributes(span,
		telemetry.SpanAttrInstallmentID, req.InstallmentID.String(),
		"approve", req.Approve,
	)

	installment, err := s.installmentRepo.FindByID(ctx, req.InstallmentID)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, fmt.Errorf("failed to get installment: %w", err)
	}

	now := s.clock.Now()
	if req.Approve {
		err = installment.ApproveExtension(req.ManagerNotes, now)
	} else {
		err = installment.RejectExtension(req.ManagerNotes, now)
	}
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	if err := s.installmentRepo.SaveWithLock(ctx, installment); err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	logDomainEvents(s.logger, installment)

	return installment, nil
}

// ListPending returns every installment with an undecided extension
// request.
func (s *ExtensionService) ListPending(ctx context.Context) ([]*leasing.Installment, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "extension", "list_pending")
	defer span.End()

	installments, err := s.installmentRepo.FindPendingExtensions(ctx)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, fmt.Errorf("failed to list pending extensions: %w", err)
	}

	telemetry.SetAttribute(span, "pending_count", len(installments))

	return installments, nil
}
