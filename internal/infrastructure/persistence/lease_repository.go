package persistence

import (
	"context"
	"errors"

	"github.com/Uaq907/estateflow-sub003/internal/domain/leasing"
	"github.com/Uaq907/estateflow-sub003/internal/domain/shared"
	"github.com/Uaq907/estateflow-sub003/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormLeaseRepository implements leasing.LeaseRepository using GORM
type GormLeaseRepository struct {
	db *gorm.DB
}

// NewGormLeaseRepository creates a new GormLeaseRepository
func NewGormLeaseRepository(db *gorm.DB) *GormLeaseRepository {
	return &GormLeaseRepository{db: db}
}

// FindByID finds a lease by its ID
func (r *GormLeaseRepository) FindByID(ctx context.Context, id uuid.UUID) (*leasing.Lease, error) {
	var model models.LeaseModel
	if err := dbFromContext(ctx, r.db).WithContext(ctx).
		First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByUnit finds leases for a unit, newest first
func (r *GormLeaseRepository) FindByUnit(ctx context.Context, unitID uuid.UUID) ([]leasing.Lease, error) {
	var leaseModels []models.LeaseModel
	if err := dbFromContext(ctx, r.db).WithContext(ctx).
		Where("unit_id = ?", unitID).
		Order("start_date DESC").
		Find(&leaseModels).Error; err != nil {
		return nil, err
	}
	return toDomainLeases(leaseModels), nil
}

// FindByTenant finds leases for a tenant, newest first
func (r *GormLeaseRepository) FindByTenant(ctx context.Context, tenantID uuid.UUID) ([]leasing.Lease, error) {
	var leaseModels []models.LeaseModel
	if err := dbFromContext(ctx, r.db).WithContext(ctx).
		Where("tenant_id = ?", tenantID).
		Order("start_date DESC").
		Find(&leaseModels).Error; err != nil {
		return nil, err
	}
	return toDomainLeases(leaseModels), nil
}

// FindActive finds all active leases
func (r *GormLeaseRepository) FindActive(ctx context.Context) ([]leasing.Lease, error) {
	var leaseModels []models.LeaseModel
	if err := dbFromContext(ctx, r.db).WithContext(ctx).
		Where("status = ?", leasing.LeaseStatusActive).
		Order("end_date ASC").
		Find(&leaseModels).Error; err != nil {
		return nil, err
	}
	return toDomainLeases(leaseModels), nil
}

// Save creates or updates a lease
func (r *GormLeaseRepository) Save(ctx context.Context, lease *leasing.Lease) error {
	model := models.LeaseModelFromDomain(lease)
	if err := dbFromContext(ctx, r.db).WithContext(ctx).Save(model).Error; err != nil {
		return err
	}
	lease.MarkPersisted()
	return nil
}

// SaveWithLock saves with optimistic locking against the version the
// aggregate was loaded with. Select("*") forces zero-valued columns to
// be written too.
func (r *GormLeaseRepository) SaveWithLock(ctx context.Context, lease *leasing.Lease) error {
	model := models.LeaseModelFromDomain(lease)
	result := dbFromContext(ctx, r.db).WithContext(ctx).
		Model(model).
		Where("id = ? AND version = ?", lease.ID, lease.PersistedVersion()).
		Select("*").
		Updates(model)

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.NewDomainError("CONCURRENCY_CONFLICT", "The lease has been modified by another transaction")
	}
	lease.MarkPersisted()
	return nil
}

func toDomainLeases(leaseModels []models.LeaseModel) []leasing.Lease {
	leases := make([]leasing.Lease, len(leaseModels))
	for i, model := range leaseModels {
		leases[i] = *model.ToDomain()
	}
	return leases
}

// Ensure GormLeaseRepository implements LeaseRepository
var _ leasing.LeaseRepository = (*GormLeaseRepository)(nil)
