package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/Uaq907/estateflow-sub003/internal/domain/leasing"
	"github.com/Uaq907/estateflow-sub003/internal/domain/shared"
	"github.com/Uaq907/estateflow-sub003/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// effectiveDueDateExpr resolves the due date an installment is judged
// against: the requested date once an extension is approved, otherwise
// the scheduled date.
const effectiveDueDateExpr = "CASE WHEN extension_status = 'APPROVED' AND requested_due_date IS NOT NULL THEN requested_due_date ELSE due_date END"

// GormInstallmentRepository implements leasing.InstallmentRepository using GORM
type GormInstallmentRepository struct {
	db *gorm.DB
}

// NewGormInstallmentRepository creates a new GormInstallmentRepository
func NewGormInstallmentRepository(db *gorm.DB) *GormInstallmentRepository {
	return &GormInstallmentRepository{db: db}
}

// FindByID finds an installment by its ID
func (r *GormInstallmentRepository) FindByID(ctx context.Context, id uuid.UUID) (*leasing.Installment, error) {
	var model models.InstallmentModel
	if err := dbFromContext(ctx, r.db).WithContext(ctx).
		First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByLease finds all installments owned by a lease, ordered by sequence
func (r *GormInstallmentRepository) FindByLease(ctx context.Context, leaseID uuid.UUID) ([]*leasing.Installment, error) {
	var installmentModels []models.InstallmentModel
	if err := dbFromContext(ctx, r.db).WithContext(ctx).
		Where("lease_id = ?", leaseID).
		Order("sequence ASC").
		Find(&installmentModels).Error; err != nil {
		return nil, err
	}
	return toDomainInstallments(installmentModels), nil
}

// FindOverdue finds unpaid installments whose effective due date is
// before asOf. The date cut is done in SQL; the payment state lives in
// the JSONB ledger, so the final unpaid check is derived in memory.
func (r *GormInstallmentRepository) FindOverdue(ctx context.Context, asOf time.Time) ([]*leasing.Installment, error) {
	var installmentModels []models.InstallmentModel
	if err := dbFromContext(ctx, r.db).WithContext(ctx).
		Where(effectiveDueDateExpr+" < ?", asOf).
		Order("due_date ASC").
		Find(&installmentModels).Error; err != nil {
		return nil, err
	}

	overdue := make([]*leasing.Installment, 0, len(installmentModels))
	for _, model := range installmentModels {
		inst := model.ToDomain()
		if inst.Status(asOf) == leasing.InstallmentStatusOverdue {
			overdue = append(overdue, inst)
		}
	}
	return overdue, nil
}

// FindPendingExtensions finds installments with an undecided extension request
func (r *GormInstallmentRepository) FindPendingExtensions(ctx context.Context) ([]*leasing.Installment, error) {
	var installmentModels []models.InstallmentModel
	if err := dbFromContext(ctx, r.db).WithContext(ctx).
		Where("extension_status = ?", leasing.ExtensionStatusPending).
		Order("due_date ASC").
		Find(&installmentModels).Error; err != nil {
		return nil, err
	}
	return toDomainInstallments(installmentModels), nil
}

// Save creates or updates an installment
func (r *GormInstallmentRepository) Save(ctx context.Context, installment *leasing.Installment) error {
	model := models.InstallmentModelFromDomain(installment)
	if err := dbFromContext(ctx, r.db).WithContext(ctx).Save(model).Error; err != nil {
		return err
	}
	installment.MarkPersisted()
	return nil
}

// SaveAll creates or updates a batch of installments
func (r *GormInstallmentRepository) SaveAll(ctx context.Context, installments []*leasing.Installment) error {
	if len(installments) == 0 {
		return nil
	}
	installmentModels := make([]*models.InstallmentModel, len(installments))
	for i, inst := range installments {
		installmentModels[i] = models.InstallmentModelFromDomain(inst)
	}
	if err := dbFromContext(ctx, r.db).WithContext(ctx).Save(installmentModels).Error; err != nil {
		return err
	}
	for _, inst := range installments {
		inst.MarkPersisted()
	}
	return nil
}

// SaveWithLock saves with optimistic locking against the version the
// aggregate was loaded with. Select("*") forces zero-valued columns
// (cleared manager notes, reset dates) to be written too.
func (r *GormInstallmentRepository) SaveWithLock(ctx context.Context, installment *leasing.Installment) error {
	model := models.InstallmentModelFromDomain(installment)
	result := dbFromContext(ctx, r.db).WithContext(ctx).
		Model(model).
		Where("id = ? AND version = ?", installment.ID, installment.PersistedVersion()).
		Select("*").
		Updates(model)

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.NewDomainError("CONCURRENCY_CONFLICT", "The installment has been modified by another transaction")
	}
	installment.MarkPersisted()
	return nil
}

func toDomainInstallments(installmentModels []models.InstallmentModel) []*leasing.Installment {
	installments := make([]*leasing.Installment, len(installmentModels))
	for i, model := range installmentModels {
		installments[i] = model.ToDomain()
	}
	return installments
}

// Ensure GormInstallmentRepository implements InstallmentRepository
var _ leasing.InstallmentRepository = (*GormInstallmentRepository)(nil)
