package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/barber-agenda/internal/models"
	"github.com/BruksfildServices01/barber-agenda/internal/unit"
)

type UnitGormRepository struct {
	db *gorm.DB
}

func NewUnitGormRepository(db *gorm.DB) *UnitGormRepository {
	return &UnitGormRepository{db: db}
}

func (r *UnitGormRepository) GetUnit(
	ctx context.Context,
	unitID uuid.UUID,
) (*models.Unit, error) {

	var u models.Unit
	if err := r.db.WithContext(ctx).
		Where("id = ?", unitID).
		First(&u).Error; err != nil {
		return nil, notFound(err, unit.ErrNotFound)
	}
	return &u, nil
}

func (r *UnitGormRepository) FindByInstanceName(
	ctx context.Context,
	instanceName string,
) (*models.Unit, error) {

	var u models.Unit
	if err := r.db.WithContext(ctx).
		Where("evolution_instance_name = ?", instanceName).
		First(&u).Error; err != nil {
		return nil, notFound(err, unit.ErrNotFound)
	}
	return &u, nil
}

// ListReminderUnits returns units with reminders on and a messaging instance.
func (r *UnitGormRepository) ListReminderUnits(
	ctx context.Context,
) ([]models.Unit, error) {

	var units []models.Unit
	if err := r.db.WithContext(ctx).
		Where("appointment_reminder_enabled = ? AND evolution_instance_name IS NOT NULL", true).
		Order("created_at ASC").
		Find(&units).Error; err != nil {
		return nil, err
	}
	return units, nil
}

// Compile-time check
var _ unit.Store = (*UnitGormRepository)(nil)
